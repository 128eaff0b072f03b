package session

import (
	"context"
	"errors"
	"testing"

	"github.com/avolkov/marketplace-system/internal/repository"
)

type stubStore struct {
	sessions map[string]int64

	createErr error
	deleteErr error
}

func newStubStore() *stubStore {
	return &stubStore{sessions: make(map[string]int64)}
}

func (s *stubStore) CreateSession(ctx context.Context, token string, userID int64) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.sessions[token] = userID
	return nil
}

func (s *stubStore) GetSessionUser(ctx context.Context, token string) (int64, error) {
	userID, ok := s.sessions[token]
	if !ok {
		return 0, repository.ErrSessionNotFound
	}
	return userID, nil
}

func (s *stubStore) DeleteSession(ctx context.Context, token string) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	delete(s.sessions, token)
	return nil
}

func TestCreateAndResolve(t *testing.T) {
	store := newStubStore()
	a := NewAuthority(store)

	token, err := a.Create(context.Background(), 42)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if token == "" {
		t.Fatalf("Create returned empty token")
	}

	userID, err := a.Resolve(context.Background(), token)
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if userID != 42 {
		t.Fatalf("Resolve = %d, want 42", userID)
	}
}

func TestCreate_UniqueTokens(t *testing.T) {
	store := newStubStore()
	a := NewAuthority(store)

	t1, err := a.Create(context.Background(), 1)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	t2, err := a.Create(context.Background(), 1)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if t1 == t2 {
		t.Fatalf("tokens must be unique, got %q twice", t1)
	}
}

func TestResolve_UnknownToken(t *testing.T) {
	a := NewAuthority(newStubStore())

	_, err := a.Resolve(context.Background(), "no-such-token")
	if !errors.Is(err, repository.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestResolve_EmptyToken(t *testing.T) {
	a := NewAuthority(newStubStore())

	_, err := a.Resolve(context.Background(), "")
	if !errors.Is(err, repository.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestDestroy_Idempotent(t *testing.T) {
	store := newStubStore()
	a := NewAuthority(store)

	token, err := a.Create(context.Background(), 7)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	if err := a.Destroy(context.Background(), token); err != nil {
		t.Fatalf("first Destroy error: %v", err)
	}
	if err := a.Destroy(context.Background(), token); err != nil {
		t.Fatalf("second Destroy error: %v", err)
	}

	_, err = a.Resolve(context.Background(), token)
	if !errors.Is(err, repository.ErrSessionNotFound) {
		t.Fatalf("session must be absent after Destroy, got %v", err)
	}
}
