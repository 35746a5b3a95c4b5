package transport

import (
	"time"

	"github.com/google/uuid"

	"retiros_backend/internal/settings/repository"
)

// UpdateSettingsRequest is the admin patch; nil sections are left unchanged.
type UpdateSettingsRequest struct {
	Facilitator   *FacilitatorPayload   `json:"facilitator"`
	Contact       *ContactPayload       `json:"contact"`
	Social        *SocialPayload        `json:"social"`
	Site          *SitePayload          `json:"site"`
	EmailSettings *EmailSettingsPayload `json:"emailSettings"`
	CustomTexts   *CustomTextsPayload   `json:"customTexts"`
	Theme         *ThemePayload         `json:"theme"`
}

// FacilitatorPayload mirrors repository.Facilitator with validation tags.
type FacilitatorPayload struct {
	Name  string `json:"name" validate:"required,max=100"`
	Bio   string `json:"bio" validate:"max=1000"`
	Photo string `json:"photo" validate:"omitempty,url"`
}

// ContactPayload mirrors repository.Contact.
type ContactPayload struct {
	Email          string `json:"email" validate:"required,email"`
	WhatsappNumber string `json:"whatsappNumber" validate:"required"`
}

// SocialPayload mirrors repository.Social.
type SocialPayload struct {
	Instagram string `json:"instagram" validate:"omitempty,url"`
	Facebook  string `json:"facebook" validate:"omitempty,url"`
	Youtube   string `json:"youtube" validate:"omitempty,url"`
	Website   string `json:"website" validate:"omitempty,url"`
}

// SitePayload mirrors repository.Site.
type SitePayload struct {
	Title       string `json:"title" validate:"max=100"`
	Description string `json:"description" validate:"max=500"`
	Logo        string `json:"logo" validate:"omitempty,url"`
}

// EmailSettingsPayload mirrors repository.EmailSettings.
type EmailSettingsPayload struct {
	FromName  string `json:"fromName" validate:"max=100"`
	FromEmail string `json:"fromEmail" validate:"omitempty,email"`
	ReplyTo   string `json:"replyTo" validate:"omitempty,email"`
}

// CustomTextsPayload mirrors repository.CustomTexts.
type CustomTextsPayload struct {
	HeroTitle       string `json:"heroTitle" validate:"max=200"`
	HeroSubtitle    string `json:"heroSubtitle" validate:"max=300"`
	CTAButton       string `json:"ctaButton" validate:"max=50"`
	ThankYouMessage string `json:"thankYouMessage" validate:"max=500"`
}

// ThemePayload mirrors repository.Theme. Colors are hex strings.
type ThemePayload struct {
	Primary   string `json:"primary" validate:"omitempty,hexcolor"`
	Secondary string `json:"secondary" validate:"omitempty,hexcolor"`
	Accent    string `json:"accent" validate:"omitempty,hexcolor"`
}

// SettingsResponse is the full admin representation.
type SettingsResponse struct {
	ID            uuid.UUID                `json:"id"`
	Facilitator   repository.Facilitator   `json:"facilitator"`
	Contact       repository.Contact       `json:"contact"`
	Social        repository.Social        `json:"social"`
	Site          repository.Site          `json:"site"`
	EmailSettings repository.EmailSettings `json:"emailSettings"`
	CustomTexts   repository.CustomTexts   `json:"customTexts"`
	Theme         repository.Theme         `json:"theme"`
	UpdatedAt     time.Time                `json:"updatedAt"`
}

// PublicSettingsResponse is the public view; mail identity stays private.
type PublicSettingsResponse struct {
	Facilitator repository.Facilitator `json:"facilitator"`
	Contact     repository.Contact     `json:"contact"`
	Social      repository.Social      `json:"social"`
	Site        repository.Site        `json:"site"`
	CustomTexts repository.CustomTexts `json:"customTexts"`
	Theme       repository.Theme       `json:"theme"`
}
