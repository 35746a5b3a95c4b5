// Package transport defines the request and response shapes for the
// retreats HTTP API.
package transport

import (
	"time"

	"github.com/google/uuid"

	"retiros_backend/internal/retreats/domain"
)

// PricingTierPayload is a pricing tier as sent by admin clients.
type PricingTierPayload struct {
	Name           string    `json:"name" validate:"required,max=100"`
	Price          float64   `json:"price" validate:"gte=0"`
	ValidUntil     time.Time `json:"validUntil" validate:"required"`
	PaymentOptions []string  `json:"paymentOptions,omitempty"`
}

// HowToGetTherePayload mirrors domain.HowToGetThere.
type HowToGetTherePayload struct {
	ByBus          string `json:"byBus,omitempty"`
	ByCar          string `json:"byCar,omitempty"`
	AdditionalInfo string `json:"additionalInfo,omitempty"`
}

// LocationPayload mirrors domain.Location.
type LocationPayload struct {
	Name              string               `json:"name" validate:"required,max=200"`
	Address           string               `json:"address" validate:"required,max=300"`
	City              string               `json:"city,omitempty"`
	State             string               `json:"state,omitempty"`
	Country           string               `json:"country,omitempty"`
	Description       string               `json:"description,omitempty" validate:"max=2000"`
	Features          []string             `json:"features,omitempty"`
	AccommodationType string               `json:"accommodationType,omitempty"`
	HowToGetThere     HowToGetTherePayload `json:"howToGetThere,omitempty"`
}

// FoodInfoPayload mirrors domain.FoodInfo.
type FoodInfoPayload struct {
	FoodType     string   `json:"foodType,omitempty"`
	Description  string   `json:"description,omitempty" validate:"max=1000"`
	Restrictions []string `json:"restrictions,omitempty"`
}

// PoliciesPayload mirrors domain.Policies.
type PoliciesPayload struct {
	SubstanceFree      bool     `json:"substanceFree"`
	Restrictions       []string `json:"restrictions,omitempty"`
	CancellationPolicy string   `json:"cancellationPolicy,omitempty" validate:"max=2000"`
	AdditionalPolicies []string `json:"additionalPolicies,omitempty"`
}

// CreateRetreatRequest is the admin payload for creating a retreat.
type CreateRetreatRequest struct {
	Title            string               `json:"title" validate:"required,max=100"`
	Slug             string               `json:"slug,omitempty" validate:"omitempty,max=120"`
	Description      string               `json:"description" validate:"max=2000"`
	ShortDescription string               `json:"shortDescription" validate:"max=300"`
	TargetAudience   []string             `json:"targetAudience,omitempty"`
	Experiences      []string             `json:"experiences,omitempty"`
	StartDate        time.Time            `json:"startDate" validate:"required"`
	EndDate          time.Time            `json:"endDate" validate:"required"`
	Location         LocationPayload      `json:"location" validate:"required"`
	Price            float64              `json:"price" validate:"gte=0"`
	Currency         string               `json:"currency,omitempty" validate:"omitempty,currency"`
	PricingTiers     []PricingTierPayload `json:"pricingTiers,omitempty" validate:"dive"`
	MaxParticipants  int                  `json:"maxParticipants" validate:"required,min=1,max=100"`
	Includes         []string             `json:"includes,omitempty"`
	NotIncludes      []string             `json:"notIncludes,omitempty"`
	FoodInfo         FoodInfoPayload      `json:"foodInfo,omitempty"`
	Policies         PoliciesPayload      `json:"policies,omitempty"`
	Images           []string             `json:"images,omitempty"`
	HeroImageIndex   *int                 `json:"heroImageIndex,omitempty" validate:"omitempty,gte=0"`
	HighlightWords   []string             `json:"highlightWords,omitempty"`
	Status           string               `json:"status,omitempty" validate:"omitempty,retreatstatus"`
	ShowInHero       bool                 `json:"showInHero"`
	WhatsAppNumber   string               `json:"whatsappNumber,omitempty"`
}

// UpdateRetreatRequest is the admin payload for updating a retreat.
// Nil fields are left untouched.
type UpdateRetreatRequest struct {
	Title            *string               `json:"title,omitempty" validate:"omitempty,max=100"`
	Slug             *string               `json:"slug,omitempty" validate:"omitempty,max=120"`
	Description      *string               `json:"description,omitempty" validate:"omitempty,max=2000"`
	ShortDescription *string               `json:"shortDescription,omitempty" validate:"omitempty,max=300"`
	TargetAudience   *[]string             `json:"targetAudience,omitempty"`
	Experiences      *[]string             `json:"experiences,omitempty"`
	StartDate        *time.Time            `json:"startDate,omitempty"`
	EndDate          *time.Time            `json:"endDate,omitempty"`
	Location         *LocationPayload      `json:"location,omitempty"`
	Price            *float64              `json:"price,omitempty" validate:"omitempty,gte=0"`
	Currency         *string               `json:"currency,omitempty" validate:"omitempty,currency"`
	PricingTiers     *[]PricingTierPayload `json:"pricingTiers,omitempty" validate:"omitempty,dive"`
	MaxParticipants  *int                  `json:"maxParticipants,omitempty" validate:"omitempty,min=1,max=100"`
	Includes         *[]string             `json:"includes,omitempty"`
	NotIncludes      *[]string             `json:"notIncludes,omitempty"`
	FoodInfo         *FoodInfoPayload      `json:"foodInfo,omitempty"`
	Policies         *PoliciesPayload      `json:"policies,omitempty"`
	Images           *[]string             `json:"images,omitempty"`
	HeroImageIndex   *int                  `json:"heroImageIndex,omitempty" validate:"omitempty,gte=0"`
	HighlightWords   *[]string             `json:"highlightWords,omitempty"`
	Status           *string               `json:"status,omitempty" validate:"omitempty,retreatstatus"`
	ShowInHero       *bool                 `json:"showInHero,omitempty"`
	WhatsAppNumber   *string               `json:"whatsappNumber,omitempty"`
}

// ListRetreatsRequest carries admin list filters.
type ListRetreatsRequest struct {
	Status     string `form:"status" validate:"omitempty,retreatstatus"`
	Search     string `form:"search"`
	ShowInHero *bool  `form:"showInHero"`
	Page       int    `form:"page"`
	PageSize   int    `form:"pageSize"`
	SortBy     string `form:"sortBy"`
	SortOrder  string `form:"sortOrder"`
}

// RetreatResponse is a retreat enriched with its derived values.
type RetreatResponse struct {
	ID                  uuid.UUID                `json:"id"`
	Slug                string                   `json:"slug"`
	Title               string                   `json:"title"`
	Description         string                   `json:"description,omitempty"`
	ShortDescription    string                   `json:"shortDescription,omitempty"`
	TargetAudience      []string                 `json:"targetAudience,omitempty"`
	Experiences         []string                 `json:"experiences,omitempty"`
	StartDate           time.Time                `json:"startDate"`
	EndDate             time.Time                `json:"endDate"`
	DurationDays        int                      `json:"durationDays"`
	Location            domain.Location          `json:"location"`
	Price               float64                  `json:"price"`
	Currency            domain.Currency          `json:"currency"`
	PricingTiers        []domain.PricingTier     `json:"pricingTiers,omitempty"`
	ActivePricingTier   *domain.PricingTier      `json:"activePricingTier,omitempty"`
	EffectivePrice      float64                  `json:"effectivePrice"`
	MaxParticipants     int                      `json:"maxParticipants"`
	CurrentParticipants int                      `json:"currentParticipants"`
	AvailableSpots      int                      `json:"availableSpots"`
	IsFull              bool                     `json:"isFull"`
	Includes            []string                 `json:"includes,omitempty"`
	NotIncludes         []string                 `json:"notIncludes,omitempty"`
	FoodInfo            domain.FoodInfo          `json:"foodInfo"`
	Policies            domain.Policies          `json:"policies"`
	Images              []string                 `json:"images,omitempty"`
	HeroImageIndex      int                      `json:"heroImageIndex"`
	HighlightWords      []string                 `json:"highlightWords,omitempty"`
	Status              domain.Status            `json:"status"`
	ComputedStatus      domain.ComputedStatus    `json:"computedStatus"`
	StatusWarning       *domain.StatusSuggestion `json:"statusWarning,omitempty"`
	ShowInHero          bool                     `json:"showInHero"`
	WhatsAppNumber      string                   `json:"whatsappNumber,omitempty"`
	CreatedAt           time.Time                `json:"createdAt"`
	UpdatedAt           time.Time                `json:"updatedAt"`
}

// RetreatListResponse is a paginated retreat listing.
type RetreatListResponse struct {
	Items      []RetreatResponse `json:"items"`
	Total      int               `json:"total"`
	Page       int               `json:"page"`
	PageSize   int               `json:"pageSize"`
	TotalPages int               `json:"totalPages"`
}

// HeroResponse is the landing page payload.
type HeroResponse struct {
	Upcoming []RetreatResponse `json:"upcoming"`
	Past     []RetreatResponse `json:"past"`
}

// InconsistentRetreat pairs a retreat with its advisory status warning.
type InconsistentRetreat struct {
	Retreat RetreatResponse         `json:"retreat"`
	Warning domain.StatusSuggestion `json:"warning"`
}

// InconsistentListResponse is the admin status-consistency report.
type InconsistentListResponse struct {
	Items []InconsistentRetreat `json:"items"`
	Total int                   `json:"total"`
}
