package transport

import (
	"time"

	"github.com/google/uuid"
)

// ListTokensRequest carries admin listing filters.
type ListTokensRequest struct {
	RetreatID *uuid.UUID `form:"retreatId"`
	Used      *bool      `form:"used"`
	Page      int        `form:"page" validate:"omitempty,min=1"`
	Limit     int        `form:"limit" validate:"omitempty,min=1,max=100"`
}

// TokenResponse is the admin representation of a token.
type TokenResponse struct {
	ID              uuid.UUID  `json:"id"`
	Token           string     `json:"token"`
	Email           string     `json:"email"`
	ParticipantName string     `json:"participantName"`
	RetreatID       uuid.UUID  `json:"retreatId"`
	IsUsed          bool       `json:"isUsed"`
	UsedAt          *time.Time `json:"usedAt,omitempty"`
	ExpiresAt       time.Time  `json:"expiresAt"`
	IsExpired       bool       `json:"isExpired"`
	TestimonialID   *uuid.UUID `json:"testimonialId,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
}

// TokenStatsResponse summarizes token state for the admin listing.
type TokenStatsResponse struct {
	Total   int `json:"total"`
	Used    int `json:"used"`
	Expired int `json:"expired"`
	Active  int `json:"active"`
}

// TokenListResponse is the paginated admin listing with aggregate stats.
type TokenListResponse struct {
	Tokens []TokenResponse    `json:"tokens"`
	Stats  TokenStatsResponse `json:"stats"`
	Total  int                `json:"total"`
	Page   int                `json:"page"`
	Limit  int                `json:"limit"`
}

// EmailFailure records one recipient the invitation email could not reach.
type EmailFailure struct {
	Email string `json:"email"`
	Error string `json:"error"`
}

// EmailResults splits invitation delivery outcomes per recipient.
type EmailResults struct {
	Sent   []string       `json:"sent"`
	Failed []EmailFailure `json:"failed"`
}

// GenerateResponse reports the outcome of a batch token generation. Token
// creation and email delivery succeed or fail independently per recipient.
type GenerateResponse struct {
	TokensGenerated int             `json:"tokensGenerated"`
	EmailsSent      int             `json:"emailsSent"`
	EmailsFailed    int             `json:"emailsFailed"`
	EmailResults    EmailResults    `json:"emailResults"`
	Tokens          []TokenResponse `json:"tokens"`
}

// ValidateResponse is the public view of a valid token, enough to render the
// testimonial form without exposing internal identifiers beyond the retreat.
type ValidateResponse struct {
	Token           string    `json:"token"`
	ParticipantName string    `json:"participantName"`
	Email           string    `json:"email"`
	RetreatID       uuid.UUID `json:"retreatId"`
	RetreatTitle    string    `json:"retreatTitle"`
	ExpiresAt       time.Time `json:"expiresAt"`
}
