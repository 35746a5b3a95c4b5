package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Token is a single-use testimonial credential bound to one participant and
// one retreat. Possession of the token string grants one testimonial
// submission.
type Token struct {
	ID              uuid.UUID
	Token           string
	Email           string
	ParticipantName string
	RetreatID       uuid.UUID
	IsUsed          bool
	UsedAt          *time.Time
	ExpiresAt       time.Time
	TestimonialID   *uuid.UUID
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// IsExpired reports whether the token has passed its expiry at now.
func (t Token) IsExpired(now time.Time) bool {
	return !t.ExpiresAt.After(now)
}

// IsValid reports whether the token can still be redeemed at now.
func (t Token) IsValid(now time.Time) bool {
	return !t.IsUsed && !t.IsExpired(now)
}

// CreateParams contains parameters for creating a token.
type CreateParams struct {
	Token           string
	Email           string
	ParticipantName string
	RetreatID       uuid.UUID
	ExpiresAt       time.Time
}

// ListParams filters and paginates the admin token listing.
type ListParams struct {
	RetreatID *uuid.UUID
	Used      *bool
	Offset    int
	Limit     int
}

// Stats summarizes token state for the admin listing.
type Stats struct {
	Total   int
	Used    int
	Expired int
	Active  int
}

// TokenReader provides read operations for tokens.
type TokenReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (Token, error)
	// GetValidByToken returns the token only while it is unused and
	// unexpired; every other case collapses to NotFound so callers cannot
	// probe token state.
	GetValidByToken(ctx context.Context, token string, now time.Time) (Token, error)
	List(ctx context.Context, params ListParams) ([]Token, int, error)
	ListEmailsByRetreat(ctx context.Context, retreatID uuid.UUID) ([]string, error)
	Stats(ctx context.Context, now time.Time) (Stats, error)
}

// TokenWriter provides write operations for tokens.
type TokenWriter interface {
	Create(ctx context.Context, params CreateParams) (Token, error)
	// Replace atomically deletes the old token and inserts its successor,
	// keeping the participant/retreat binding.
	Replace(ctx context.Context, oldID uuid.UUID, params CreateParams) (Token, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// DeleteExpired purges unused tokens past their expiry.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// Repository combines all token repository operations.
type Repository interface {
	TokenReader
	TokenWriter
}
