package identity

import (
	"context"

	"github.com/google/uuid"
)

// UserRepository stores accounts. Users are global; email is unique
// regardless of case.
type UserRepository interface {
	// Create fails with shared.ErrAlreadyExists when the email is taken
	Create(ctx context.Context, user *User) error
	// Update fails with shared.ErrNotFound for an unknown id
	Update(ctx context.Context, user *User) error
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}
