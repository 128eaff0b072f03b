// Package service реализует бизнес-логику магазина.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/avolkov/marketplace-system/internal/model"
	"github.com/avolkov/marketplace-system/internal/repository"
)

// ErrInvalidCredentials возвращается при неверной паре имя/пароль.
var ErrInvalidCredentials = errors.New("invalid username or password")

// IdentityRepository описывает контракт доступа к данным пользователей.
type IdentityRepository interface {
	CreateUser(ctx context.Context, username string, passwordHash []byte, email string) (int64, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	GetUserByID(ctx context.Context, id int64) (*model.User, error)
}

// PasswordHasher описывает контракт хэширования учётных данных.
// Пароли никогда не сохраняются и не сравниваются в открытом виде.
type PasswordHasher interface {
	Hash(password string) ([]byte, error)
	Compare(hash []byte, password string) error
}

// Identity реализует регистрацию и вход пользователей.
type Identity struct {
	repo   IdentityRepository
	hasher PasswordHasher
}

// NewIdentity создаёт новый сервис учётных записей.
func NewIdentity(repo IdentityRepository, hasher PasswordHasher) *Identity {
	return &Identity{
		repo:   repo,
		hasher: hasher,
	}
}

// Register регистрирует нового пользователя и возвращает его идентификатор.
// Повторное имя пользователя приводит к repository.ErrUserExists.
func (s *Identity) Register(ctx context.Context, username, password, email string) (int64, error) {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return 0, fmt.Errorf("hash password: %w", err)
	}

	id, err := s.repo.CreateUser(ctx, username, hash, email)
	if err != nil {
		return 0, err
	}

	return id, nil
}

// Login проверяет имя и пароль пользователя и возвращает его идентификатор.
func (s *Identity) Login(ctx context.Context, username, password string) (int64, error) {
	u, err := s.repo.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return 0, ErrInvalidCredentials
		}
		return 0, err
	}

	if err := s.hasher.Compare(u.PasswordHash, password); err != nil {
		return 0, ErrInvalidCredentials
	}

	return u.ID, nil
}

// GetUser возвращает пользователя по идентификатору.
func (s *Identity) GetUser(ctx context.Context, id int64) (*model.User, error) {
	return s.repo.GetUserByID(ctx, id)
}
