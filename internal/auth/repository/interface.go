package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// User is the single admin account. The password hash never leaves the
// repository layer's consumers unserialized.
type User struct {
	ID                uuid.UUID
	Name              string
	Email             string
	PasswordHash      string
	LastLogin         *time.Time
	PasswordChangedAt *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// CreateParams contains parameters for creating the admin user.
type CreateParams struct {
	Name         string
	Email        string
	PasswordHash string
}

// UserReader provides read operations for users.
type UserReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	Count(ctx context.Context) (int, error)
}

// UserWriter provides write operations for users.
type UserWriter interface {
	Create(ctx context.Context, params CreateParams) (User, error)
	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string, at time.Time) error
}

// Repository combines all user repository operations.
type Repository interface {
	UserReader
	UserWriter
}
