// Package transport defines the request and response shapes for the
// leads HTTP API.
package transport

import (
	"time"

	"github.com/google/uuid"

	"retiros_backend/internal/leads/domain"
	retreatdomain "retiros_backend/internal/retreats/domain"
)

// CreateLeadRequest is the public inquiry payload.
type CreateLeadRequest struct {
	Name      string    `json:"name" validate:"required,max=100"`
	Email     string    `json:"email" validate:"required,email"`
	Phone     string    `json:"phone" validate:"required,max=50"`
	Message   string    `json:"message,omitempty" validate:"max=500"`
	Interest  string    `json:"interest,omitempty" validate:"omitempty,interesttype"`
	RetreatID uuid.UUID `json:"retreatId" validate:"required"`
	Source    string    `json:"source,omitempty" validate:"omitempty,leadsource"`
}

// UpdateLeadRequest is the admin payload for updating a lead.
// Nil fields are left untouched.
type UpdateLeadRequest struct {
	Name          *string  `json:"name,omitempty" validate:"omitempty,max=100"`
	Email         *string  `json:"email,omitempty" validate:"omitempty,email"`
	Phone         *string  `json:"phone,omitempty" validate:"omitempty,max=50"`
	Message       *string  `json:"message,omitempty" validate:"omitempty,max=500"`
	Interest      *string  `json:"interest,omitempty" validate:"omitempty,interesttype"`
	Status        *string  `json:"status,omitempty" validate:"omitempty,leadstatus"`
	PaymentStatus *string  `json:"paymentStatus,omitempty" validate:"omitempty,paymentstatus"`
	PaymentAmount *float64 `json:"paymentAmount,omitempty" validate:"omitempty,gte=0"`
	PaymentMethod *string  `json:"paymentMethod,omitempty" validate:"omitempty,paymentmethod"`
	Notes         *string  `json:"notes,omitempty" validate:"omitempty,max=1000"`
	Source        *string  `json:"source,omitempty" validate:"omitempty,leadsource"`
}

// ListLeadsRequest carries admin list filters.
type ListLeadsRequest struct {
	RetreatID *uuid.UUID `form:"retreatId"`
	Status    string     `form:"status" validate:"omitempty,leadstatus"`
	Search    string     `form:"search"`
	Page      int        `form:"page"`
	PageSize  int        `form:"pageSize"`
	SortBy    string     `form:"sortBy"`
	SortOrder string     `form:"sortOrder"`
}

// LeadResponse is a lead as returned to admin clients.
type LeadResponse struct {
	ID            uuid.UUID            `json:"id"`
	Name          string               `json:"name"`
	Email         string               `json:"email"`
	Phone         string               `json:"phone"`
	Message       string               `json:"message,omitempty"`
	Interest      domain.Interest      `json:"interest"`
	Status        domain.Status        `json:"status"`
	PaymentStatus domain.PaymentStatus `json:"paymentStatus"`
	PaymentAmount float64              `json:"paymentAmount"`
	PaymentMethod domain.PaymentMethod `json:"paymentMethod,omitempty"`
	RetreatID     uuid.UUID            `json:"retreatId"`
	Notes         string               `json:"notes,omitempty"`
	Source        domain.Source        `json:"source"`
	IsConfirmed   bool                 `json:"isConfirmed"`
	ContactedAt   *time.Time           `json:"contactedAt,omitempty"`
	ConfirmedAt   *time.Time           `json:"confirmedAt,omitempty"`
	CreatedAt     time.Time            `json:"createdAt"`
	UpdatedAt     time.Time            `json:"updatedAt"`
}

// LeadDetailResponse pairs a lead with the live availability of its retreat.
type LeadDetailResponse struct {
	Lead         LeadResponse               `json:"lead"`
	Availability retreatdomain.Availability `json:"retreatAvailability"`
}

// LeadListResponse is a paginated lead listing.
type LeadListResponse struct {
	Items      []LeadResponse `json:"items"`
	Total      int            `json:"total"`
	Page       int            `json:"page"`
	PageSize   int            `json:"pageSize"`
	TotalPages int            `json:"totalPages"`
}

// LeadUpdateResponse reports whether the update flipped the lead's
// confirmed-participant state, so callers know to recompute availability.
type LeadUpdateResponse struct {
	Lead                LeadResponse `json:"lead"`
	AvailabilityChanged bool         `json:"availabilityChanged"`
}

// LeadDeleteResponse mirrors LeadUpdateResponse for deletions.
type LeadDeleteResponse struct {
	Deleted             bool `json:"deleted"`
	AvailabilityChanged bool `json:"availabilityChanged"`
}

// StatsResponse is the admin dashboard aggregation.
type StatsResponse struct {
	Total          int            `json:"total"`
	ByStatus       map[string]int `json:"byStatus"`
	TotalPaid      float64        `json:"totalPaid"`
	ThisMonth      int            `json:"thisMonth"`
	ConversionRate float64        `json:"conversionRate"`
}
