package transport

import (
	"time"

	"github.com/google/uuid"
)

// SubmitTestimonialRequest is the public token-redemption payload. Identity
// comes from the token; the caller only supplies the review itself.
type SubmitTestimonialRequest struct {
	Token   string `json:"token" validate:"required"`
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"required,max=2000"`
	Photo   string `json:"photo" validate:"omitempty,url"`
}

// CreateTestimonialRequest is the admin-side direct creation payload.
type CreateTestimonialRequest struct {
	Name       string     `json:"name" validate:"required,max=120"`
	Email      string     `json:"email" validate:"omitempty,email"`
	Photo      string     `json:"photo" validate:"omitempty,url"`
	RetreatID  *uuid.UUID `json:"retreatId"`
	Rating     int        `json:"rating" validate:"required,min=1,max=5"`
	Comment    string     `json:"comment" validate:"required,max=2000"`
	IsApproved bool       `json:"isApproved"`
	IsFeatured bool       `json:"isFeatured"`
	Notes      string     `json:"notes" validate:"omitempty,max=500"`
}

// UpdateTestimonialRequest is the admin patch; nil fields are left unchanged.
type UpdateTestimonialRequest struct {
	Name       *string    `json:"name" validate:"omitempty,max=120"`
	Email      *string    `json:"email" validate:"omitempty,email"`
	Photo      *string    `json:"photo" validate:"omitempty,url"`
	RetreatID  *uuid.UUID `json:"retreatId"`
	Rating     *int       `json:"rating" validate:"omitempty,min=1,max=5"`
	Comment    *string    `json:"comment" validate:"omitempty,max=2000"`
	IsApproved *bool      `json:"isApproved"`
	IsFeatured *bool      `json:"isFeatured"`
	Notes      *string    `json:"notes" validate:"omitempty,max=500"`
}

// ListTestimonialsRequest carries admin listing filters.
type ListTestimonialsRequest struct {
	RetreatID *uuid.UUID `form:"retreatId"`
	Approved  *bool      `form:"approved"`
	Featured  *bool      `form:"featured"`
	Page      int        `form:"page" validate:"omitempty,min=1"`
	Limit     int        `form:"limit" validate:"omitempty,min=1,max=100"`
}

// PublicListRequest filters the public approved listing.
type PublicListRequest struct {
	RetreatID *uuid.UUID `form:"retreatId"`
}

// FeaturedRequest bounds the featured listing.
type FeaturedRequest struct {
	Limit int `form:"limit" validate:"omitempty,min=1,max=20"`
}

// TestimonialResponse is the API representation of a testimonial.
type TestimonialResponse struct {
	ID         uuid.UUID  `json:"id"`
	Name       string     `json:"name"`
	Email      string     `json:"email,omitempty"`
	Photo      string     `json:"photo,omitempty"`
	RetreatID  *uuid.UUID `json:"retreatId,omitempty"`
	Rating     int        `json:"rating"`
	Comment    string     `json:"comment"`
	IsApproved bool       `json:"isApproved"`
	IsFeatured bool       `json:"isFeatured"`
	ApprovedAt *time.Time `json:"approvedAt,omitempty"`
	Notes      string     `json:"notes,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
}

// PublicTestimonialResponse omits contact details and moderation state.
type PublicTestimonialResponse struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	Photo     string     `json:"photo,omitempty"`
	RetreatID *uuid.UUID `json:"retreatId,omitempty"`
	Rating    int        `json:"rating"`
	Comment   string     `json:"comment"`
	CreatedAt time.Time  `json:"createdAt"`
}

// TestimonialListResponse is the paginated admin listing.
type TestimonialListResponse struct {
	Items      []TestimonialResponse `json:"items"`
	Total      int                   `json:"total"`
	Page       int                   `json:"page"`
	Limit      int                   `json:"limit"`
	TotalPages int                   `json:"totalPages"`
}
