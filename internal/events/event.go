// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"time"

	"retiros_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Leads Domain Events
// =============================================================================

// LeadCreated is published when a public inquiry is submitted.
type LeadCreated struct {
	BaseEvent
	LeadID       uuid.UUID `json:"leadId"`
	RetreatID    uuid.UUID `json:"retreatId"`
	RetreatTitle string    `json:"retreatTitle"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	Interest     string    `json:"interest"`
	Source       string    `json:"source"`
}

func (e LeadCreated) EventName() string { return "leads.lead.created" }

// LeadConfirmed is published when a lead first becomes a fully confirmed
// participant (status confirmado with completed payment).
type LeadConfirmed struct {
	BaseEvent
	LeadID    uuid.UUID `json:"leadId"`
	RetreatID uuid.UUID `json:"retreatId"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
}

func (e LeadConfirmed) EventName() string { return "leads.lead.confirmed" }

// =============================================================================
// Tokens Domain Events
// =============================================================================

// TokensGenerated is published after a batch of testimonial tokens is created
// for a completed retreat.
type TokensGenerated struct {
	BaseEvent
	RetreatID    uuid.UUID `json:"retreatId"`
	RetreatTitle string    `json:"retreatTitle"`
	Count        int       `json:"count"`
	EmailsSent   int       `json:"emailsSent"`
	EmailsFailed int       `json:"emailsFailed"`
	ExpiresAt    time.Time `json:"expiresAt"`
}

func (e TokensGenerated) EventName() string { return "tokens.batch.generated" }

// =============================================================================
// Testimonials Domain Events
// =============================================================================

// TestimonialSubmitted is published when a participant redeems a token and
// submits a testimonial for moderation.
type TestimonialSubmitted struct {
	BaseEvent
	TestimonialID   uuid.UUID  `json:"testimonialId"`
	RetreatID       *uuid.UUID `json:"retreatId,omitempty"`
	ParticipantName string     `json:"participantName"`
	Rating          int        `json:"rating"`
}

func (e TestimonialSubmitted) EventName() string { return "testimonials.submitted" }
