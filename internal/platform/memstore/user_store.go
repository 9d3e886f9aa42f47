// Package memstore provides an in-memory implementation of the store
// interfaces. State lives for the duration of the process only; there is
// no persistence across restarts.
package memstore

import (
	"context"
	"log/slog"
	"sync"

	"github.com/phrazzld/ledger-api/internal/domain"
	"github.com/phrazzld/ledger-api/internal/store"
)

// UserStore is an in-memory store.UserStore implementation backed by a
// map keyed by username. It is safe for concurrent use.
type UserStore struct {
	mu     sync.RWMutex
	users  map[string]*domain.User
	order  []string
	logger *slog.Logger
}

// Compile-time check that UserStore implements store.UserStore.
var _ store.UserStore = (*UserStore)(nil)

// NewUserStore creates a new empty UserStore.
func NewUserStore(logger *slog.Logger) *UserStore {
	return &UserStore{
		users:  make(map[string]*domain.User),
		logger: logger.With("component", "memstore_user_store"),
	}
}

// Create saves a new user to the store.
// Returns store.ErrUsernameExists if the username is already taken and
// store.ErrInvalidEntity (wrapping the validation error) if the user
// data is invalid.
func (s *UserStore) Create(ctx context.Context, user *domain.User) error {
	if err := user.Validate(); err != nil {
		return store.NewStoreError("user", "create", "validation failed",
			&invalidEntityError{err})
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[user.Username]; exists {
		return store.ErrUsernameExists
	}

	s.users[user.Username] = user
	s.order = append(s.order, user.Username)

	s.logger.Debug("user stored", "username", user.Username, "user_count", len(s.users))
	return nil
}

// GetByUsername retrieves a user by their username.
// Returns store.ErrUserNotFound if the user does not exist.
func (s *UserStore) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, exists := s.users[username]
	if !exists {
		return nil, store.ErrUserNotFound
	}
	return user, nil
}

// List returns all users in creation order.
func (s *UserStore) List(ctx context.Context) ([]*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]*domain.User, 0, len(s.order))
	for _, username := range s.order {
		users = append(users, s.users[username])
	}
	return users, nil
}

// invalidEntityError couples the generic store.ErrInvalidEntity sentinel
// with the concrete domain validation error, so callers can match either
// with errors.Is.
type invalidEntityError struct {
	err error
}

func (e *invalidEntityError) Error() string {
	return store.ErrInvalidEntity.Error() + ": " + e.err.Error()
}

func (e *invalidEntityError) Is(target error) bool {
	return target == store.ErrInvalidEntity
}

func (e *invalidEntityError) Unwrap() error {
	return e.err
}
