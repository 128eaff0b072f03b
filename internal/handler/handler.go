// Package handler содержит HTTP-обработчики API магазина.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/avolkov/marketplace-system/internal/middleware"
	"github.com/avolkov/marketplace-system/internal/model"
	"github.com/avolkov/marketplace-system/internal/repository"
	"github.com/avolkov/marketplace-system/internal/service"
	"github.com/avolkov/marketplace-system/internal/session"
)

// CatalogService определяет контракт каталога, используемый HTTP-обработчиками.
type CatalogService interface {
	AddProduct(ctx context.Context, name, description, price, category string, image *string) (int64, error)
	Products(ctx context.Context) ([]model.Product, error)
	ProductByID(ctx context.Context, id int64) (*model.Product, error)
	ProductsByCategory(ctx context.Context, category string) ([]model.Product, error)
	Search(ctx context.Context, term string) ([]model.Product, error)
}

// IdentityService определяет контракт учётных записей, используемый HTTP-обработчиками.
type IdentityService interface {
	Register(ctx context.Context, username, password, email string) (int64, error)
	Login(ctx context.Context, username, password string) (int64, error)
	GetUser(ctx context.Context, id int64) (*model.User, error)
}

// CommerceService определяет контракт покупок, используемый HTTP-обработчиками.
type CommerceService interface {
	AddFeedback(ctx context.Context, productID, userID int64, rating string, comment *string) (int64, error)
	FeedbackByProduct(ctx context.Context, productID int64) ([]model.Feedback, error)
	AddCartItem(ctx context.Context, userID, productID, quantity int64) (int64, error)
	CartByUser(ctx context.Context, userID int64) ([]model.CartItem, error)
	PlaceOrder(ctx context.Context, userID int64, totalAmount, itemsJSON string) (int64, error)
	OrdersByUser(ctx context.Context, userID int64) ([]model.Order, error)
}

// BlobStore определяет контракт хранилища изображений товаров.
type BlobStore interface {
	Save(src io.Reader) (string, error)
}

// Handler реализует HTTP-обработчики API магазина.
type Handler struct {
	catalog   CatalogService
	identity  IdentityService
	commerce  CommerceService
	blobs     BlobStore
	sessions  *session.Authority
	auth      *middleware.Auth
	logger    *zap.Logger
	staticDir string
}

// NewHandler создаёт новый экземпляр обработчика HTTP-запросов.
func NewHandler(catalog CatalogService, identity IdentityService, commerce CommerceService,
	blobs BlobStore, sessions *session.Authority, auth *middleware.Auth,
	logger *zap.Logger, staticDir string) *Handler {
	return &Handler{
		catalog:   catalog,
		identity:  identity,
		commerce:  commerce,
		blobs:     blobs,
		sessions:  sessions,
		auth:      auth,
		logger:    logger,
		staticDir: staticDir,
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func writeText(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(msg))
}

type idResponse struct {
	ID int64 `json:"id"`
}

// Login выполняет вход пользователя и выпускает для него сессию.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	username := r.FormValue("username")
	password := r.FormValue("password")

	if username == "" || password == "" {
		writeText(w, http.StatusBadRequest, "Missing required parameters: username and password")
		return
	}

	userID, err := h.identity.Login(r.Context(), username, password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			writeText(w, http.StatusBadRequest, "Invalid username or password")
			return
		}
		h.logger.Error("login error", zap.Error(err), zap.String("username", username))
		writeText(w, http.StatusInternalServerError, "Error logging in")
		return
	}

	token, err := h.sessions.Create(r.Context(), userID)
	if err != nil {
		h.logger.Error("create session error", zap.Error(err), zap.Int64("userID", userID))
		writeText(w, http.StatusInternalServerError, "Error logging in")
		return
	}

	h.auth.SetSessionCookie(w, token)
	h.writeJSON(w, idResponse{ID: userID})
}

// Register регистрирует нового пользователя; успешная регистрация
// сразу выпускает сессию, отдельный вход не требуется.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	username := r.FormValue("username")
	password := r.FormValue("password")
	email := r.FormValue("email")

	if username == "" || password == "" || email == "" {
		writeText(w, http.StatusBadRequest, "Missing required parameters: username, password, or email")
		return
	}

	userID, err := h.identity.Register(r.Context(), username, password, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserExists) {
			writeText(w, http.StatusConflict, "Username is already taken")
			return
		}
		h.logger.Error("register error", zap.Error(err), zap.String("username", username))
		writeText(w, http.StatusInternalServerError, "Error registering user")
		return
	}

	token, err := h.sessions.Create(r.Context(), userID)
	if err != nil {
		h.logger.Error("create session error", zap.Error(err), zap.Int64("userID", userID))
		writeText(w, http.StatusInternalServerError, "Error registering user")
		return
	}

	h.auth.SetSessionCookie(w, token)
	h.writeJSON(w, idResponse{ID: userID})
}

type userResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// GetUser возвращает данные профиля пользователя. Хэш пароля клиенту
// не отдаётся никогда.
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.GetUserIDFromContext(r.Context()); !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	id, err := pathID(r, "id")
	if err != nil {
		writeText(w, http.StatusNotFound, "User not found")
		return
	}

	u, err := h.identity.GetUser(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			writeText(w, http.StatusNotFound, "User not found")
			return
		}
		h.logger.Error("get user error", zap.Error(err), zap.Int64("userID", id))
		writeText(w, http.StatusInternalServerError, "Error retrieving user details")
		return
	}

	h.writeJSON(w, userResponse{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
	})
}

// Logout уничтожает текущую сессию и удаляет cookie. Повторный выход
// или выход без сессии также завершается успешно.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	token := h.auth.TokenFromRequest(r)

	if err := h.sessions.Destroy(r.Context(), token); err != nil {
		h.logger.Error("logout error", zap.Error(err))
		writeText(w, http.StatusInternalServerError, "Error logging out")
		return
	}

	h.auth.ClearSessionCookie(w)
	w.WriteHeader(http.StatusOK)
}
