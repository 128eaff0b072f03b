// Package session реализует выдачу, проверку и уничтожение сессий пользователей.
package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/avolkov/marketplace-system/internal/repository"
)

// Store описывает контракт хранилища сессий.
type Store interface {
	CreateSession(ctx context.Context, token string, userID int64) error
	GetSessionUser(ctx context.Context, token string) (int64, error)
	DeleteSession(ctx context.Context, token string) error
}

// Authority выдаёт непрозрачные токены сессий и сопоставляет их пользователям.
// Сессии живут во внешнем хранилище и переживают отдельные запросы,
// но не перезапуск процесса.
type Authority struct {
	store Store
}

// NewAuthority создаёт новый экземпляр Authority с указанным хранилищем.
func NewAuthority(store Store) *Authority {
	return &Authority{store: store}
}

// Create выпускает новую сессию для пользователя и возвращает её токен.
func (a *Authority) Create(ctx context.Context, userID int64) (string, error) {
	token := uuid.NewString()
	if err := a.store.CreateSession(ctx, token, userID); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}
	return token, nil
}

// Resolve возвращает идентификатор пользователя по токену.
// Для неизвестного токена возвращается repository.ErrSessionNotFound.
func (a *Authority) Resolve(ctx context.Context, token string) (int64, error) {
	if token == "" {
		return 0, repository.ErrSessionNotFound
	}

	userID, err := a.store.GetSessionUser(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return 0, repository.ErrSessionNotFound
		}
		return 0, fmt.Errorf("resolve session: %w", err)
	}

	return userID, nil
}

// Destroy уничтожает сессию. Повторное уничтожение того же токена не является ошибкой.
func (a *Authority) Destroy(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := a.store.DeleteSession(ctx, token); err != nil {
		return fmt.Errorf("destroy session: %w", err)
	}
	return nil
}
