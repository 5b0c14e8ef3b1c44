package auth

import (
	"context"
	"time"
)

// UserStore describes persistence operations required by the auth service.
// Each call is a single atomic storage operation.
type UserStore interface {
	// Insert stores a new user. An empty ID is assigned by the store.
	Insert(ctx context.Context, u *User) error

	// Find returns the user with the given identity, or ErrNotFound.
	Find(ctx context.Context, id string) (*User, error)

	// FindByEmail matches the email exactly, or returns ErrNotFound.
	FindByEmail(ctx context.Context, email string) (*User, error)

	// FindByEmailFold matches the whole email case-insensitively, or returns
	// ErrNotFound. Implementations must anchor the match and escape any
	// pattern metacharacters in the input.
	FindByEmailFold(ctx context.Context, email string) (*User, error)

	// RecordLogin atomically stamps last-login and updated-at, returning
	// ErrNotFound when the user no longer exists.
	RecordLogin(ctx context.Context, id string, at time.Time) error
}
