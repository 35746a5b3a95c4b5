package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Testimonial is a participant review. Redeemed testimonials keep their own
// copy of the participant data so deleting the originating token or retreat
// never loses it.
type Testimonial struct {
	ID         uuid.UUID
	Name       string
	Email      string
	Photo      string
	RetreatID  *uuid.UUID
	Rating     int
	Comment    string
	IsApproved bool
	IsFeatured bool
	ApprovedAt *time.Time
	Token      string
	Notes      string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// CreateParams contains parameters for an admin-created testimonial.
type CreateParams struct {
	Name       string
	Email      string
	Photo      string
	RetreatID  *uuid.UUID
	Rating     int
	Comment    string
	IsApproved bool
	IsFeatured bool
	ApprovedAt *time.Time
	Notes      string
}

// SubmitParams is the caller-supplied part of a token redemption. Identity
// fields come from the token, never from the caller.
type SubmitParams struct {
	Rating  int
	Comment string
	Photo   string
}

// ListParams filters and paginates the admin testimonial listing.
type ListParams struct {
	RetreatID *uuid.UUID
	Approved  *bool
	Featured  *bool
	Offset    int
	Limit     int
}

// TestimonialReader provides read operations for testimonials.
type TestimonialReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (Testimonial, error)
	List(ctx context.Context, params ListParams) ([]Testimonial, int, error)
	// ListApproved returns approved testimonials for the public site, newest
	// first, optionally scoped to one retreat.
	ListApproved(ctx context.Context, retreatID *uuid.UUID) ([]Testimonial, error)
	// ListFeatured returns approved featured testimonials, best rated first.
	ListFeatured(ctx context.Context, limit int) ([]Testimonial, error)
}

// TestimonialWriter provides write operations for testimonials.
type TestimonialWriter interface {
	Create(ctx context.Context, params CreateParams) (Testimonial, error)
	// CreateFromToken redeems a testimonial token: it flips the token's
	// is_used flag with a conditional update and inserts the testimonial in
	// the same transaction, so concurrent redemptions of one token yield
	// exactly one testimonial.
	CreateFromToken(ctx context.Context, token string, now time.Time, params SubmitParams) (Testimonial, error)
	Update(ctx context.Context, testimonial Testimonial) (Testimonial, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Repository combines all testimonial repository operations.
type Repository interface {
	TestimonialReader
	TestimonialWriter
}
