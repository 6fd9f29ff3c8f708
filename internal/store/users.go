// ABOUTME: UserStore persists accounts keyed by lower-cased email.
// ABOUTME: Creating an account with a taken email fails with ErrUserExists.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/harperreed/healthai/internal/models"
	"github.com/harperreed/healthai/internal/storage"
)

var (
	// ErrUserExists is returned when the email is already registered.
	ErrUserExists = errors.New("user already exists")
	// ErrUserNotFound is returned when no account matches the email.
	ErrUserNotFound = errors.New("user not found")
)

// UserStore persists users.
type UserStore struct {
	kv storage.KV
	mu sync.Mutex
}

// NewUserStore creates a UserStore over kv.
func NewUserStore(kv storage.KV) *UserStore {
	return &UserStore{kv: kv}
}

// Create stores u unless its email is already taken.
func (s *UserStore) Create(ctx context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := UserKey(u.Email)
	if _, err := s.kv.Get(ctx, key); err == nil {
		return ErrUserExists
	} else if !errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("check user: %w", err)
	}

	raw, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	if err := s.kv.Put(ctx, key, raw); err != nil {
		return fmt.Errorf("save user: %w", err)
	}
	return nil
}

// FindByEmail looks up a user case-insensitively.
func (s *UserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	raw, err := s.kv.Get(ctx, UserKey(email))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	var u models.User
	if err := json.Unmarshal(raw, &u); err != nil {
		return nil, fmt.Errorf("decode user: %w", err)
	}
	return &u, nil
}
