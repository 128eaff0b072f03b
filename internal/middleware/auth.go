// Package middleware содержит HTTP middleware магазина.
package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/avolkov/marketplace-system/internal/repository"
	"github.com/avolkov/marketplace-system/internal/session"
)

type contextKey string

const userIDKey contextKey = "userID"

const sessionCookieName = "session_token"

// Auth проверяет аутентификацию пользователя по cookie с токеном сессии.
type Auth struct {
	sessions *session.Authority
}

// NewAuth создаёт новый экземпляр Auth поверх указанного session.Authority.
func NewAuth(sessions *session.Authority) *Auth {
	return &Auth{sessions: sessions}
}

// RequireSession пропускает запрос дальше только при действующей сессии,
// иначе отвечает 401. Применяется к API-маршрутам.
func (a *Auth) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := a.resolve(w, r)
		if !ok {
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireSessionPage пропускает запрос дальше только при действующей сессии,
// иначе перенаправляет на страницу входа. Применяется к страничным маршрутам.
func (a *Auth) RequireSessionPage(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := a.TokenFromRequest(r)

		_, err := a.sessions.Resolve(r.Context(), token)
		if err != nil {
			if errors.Is(err, repository.ErrSessionNotFound) {
				http.Redirect(w, r, "/login.html", http.StatusSeeOther)
				return
			}
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (a *Auth) resolve(w http.ResponseWriter, r *http.Request) (int64, bool) {
	token := a.TokenFromRequest(r)

	userID, err := a.sessions.Resolve(r.Context(), token)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			return 0, false
		}
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return 0, false
	}

	return userID, true
}

// TokenFromRequest извлекает токен сессии из cookie запроса.
// Отсутствие cookie возвращается как пустой токен.
func (a *Auth) TokenFromRequest(r *http.Request) string {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// SetSessionCookie устанавливает cookie с токеном сессии.
func (a *Auth) SetSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie удаляет cookie сессии у клиента.
func (a *Auth) ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// GetUserIDFromContext извлекает идентификатор пользователя из контекста запроса.
func GetUserIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(userIDKey).(int64)
	return id, ok
}
