// Package domain contains the retreat entity and the pure rules derived
// from it: availability, status consistency, pricing tiers and slugs.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Status is the manually managed retreat lifecycle status.
// Only draft and cancelled are authoritative over the date-derived phase.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// ComputedStatus is the date-derived real-world phase of a retreat.
type ComputedStatus string

const (
	ComputedUpcoming   ComputedStatus = "upcoming"
	ComputedInProgress ComputedStatus = "in_progress"
	ComputedCompleted  ComputedStatus = "completed"
)

// Currency is the retreat pricing currency.
type Currency string

const (
	CurrencyARS Currency = "ARS"
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
)

// PricingTier is a time-bounded price window (early bird etc.).
type PricingTier struct {
	Name           string    `json:"name"`
	Price          float64   `json:"price"`
	ValidUntil     time.Time `json:"validUntil"`
	PaymentOptions []string  `json:"paymentOptions,omitempty"`
}

// HowToGetThere describes travel directions for a location.
type HowToGetThere struct {
	ByBus          string `json:"byBus,omitempty"`
	ByCar          string `json:"byCar,omitempty"`
	AdditionalInfo string `json:"additionalInfo,omitempty"`
}

// Location describes where a retreat takes place.
type Location struct {
	Name              string        `json:"name"`
	Address           string        `json:"address"`
	City              string        `json:"city,omitempty"`
	State             string        `json:"state,omitempty"`
	Country           string        `json:"country,omitempty"`
	Description       string        `json:"description,omitempty"`
	Features          []string      `json:"features,omitempty"`
	AccommodationType string        `json:"accommodationType,omitempty"`
	HowToGetThere     HowToGetThere `json:"howToGetThere,omitempty"`
}

// FoodInfo describes the meals offered during the retreat.
type FoodInfo struct {
	FoodType     string   `json:"foodType,omitempty"`
	Description  string   `json:"description,omitempty"`
	Restrictions []string `json:"restrictions,omitempty"`
}

// Policies describes house rules and cancellation terms.
type Policies struct {
	SubstanceFree      bool     `json:"substanceFree"`
	Restrictions       []string `json:"restrictions,omitempty"`
	CancellationPolicy string   `json:"cancellationPolicy,omitempty"`
	AdditionalPolicies []string `json:"additionalPolicies,omitempty"`
}

// Retreat is the stored retreat entity. Availability, effective price and
// computed status are derived per read, never persisted.
type Retreat struct {
	ID               uuid.UUID
	Slug             string
	Title            string
	Description      string
	ShortDescription string
	TargetAudience   []string
	Experiences      []string
	StartDate        time.Time
	EndDate          time.Time
	Location         Location
	Price            float64
	Currency         Currency
	PricingTiers     []PricingTier
	MaxParticipants  int
	Includes         []string
	NotIncludes      []string
	FoodInfo         FoodInfo
	Policies         Policies
	Images           []string
	HeroImageIndex   int
	HighlightWords   []string
	Status           Status
	ShowInHero       bool
	WhatsAppNumber   string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// DurationDays returns the inclusive length of the retreat in days.
func (r Retreat) DurationDays() int {
	if r.EndDate.Before(r.StartDate) {
		return 0
	}
	return int(r.EndDate.Sub(r.StartDate).Hours()/24) + 1
}
