package store

import (
	"context"

	"github.com/phrazzld/ledger-api/internal/domain"
)

// UserStore defines the interface for user data access.
//
// Implementations hand out the stored *domain.User values directly;
// callers must serialize access themselves (the service layer does this
// with per-user locks, and exposes only snapshots to its own callers).
type UserStore interface {
	// Create saves a new user to the store.
	// Returns ErrUsernameExists if the username is already taken.
	// Returns ErrInvalidEntity (wrapping the domain validation error)
	// if the user data is invalid.
	Create(ctx context.Context, user *domain.User) error

	// GetByUsername retrieves a user by their username.
	// Returns ErrUserNotFound if the user does not exist.
	GetByUsername(ctx context.Context, username string) (*domain.User, error)

	// List returns all users in creation order.
	List(ctx context.Context) ([]*domain.User, error)
}
