package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Facilitator is the retreat leader's public profile.
type Facilitator struct {
	Name  string `json:"name"`
	Bio   string `json:"bio"`
	Photo string `json:"photo"`
}

// Contact holds the public contact channels.
type Contact struct {
	Email          string `json:"email"`
	WhatsappNumber string `json:"whatsappNumber"`
}

// Social holds the site's social links.
type Social struct {
	Instagram string `json:"instagram"`
	Facebook  string `json:"facebook"`
	Youtube   string `json:"youtube"`
	Website   string `json:"website"`
}

// Site holds branding fields.
type Site struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Logo        string `json:"logo"`
}

// EmailSettings configures outbound mail identity. Never exposed publicly.
type EmailSettings struct {
	FromName  string `json:"fromName"`
	FromEmail string `json:"fromEmail"`
	ReplyTo   string `json:"replyTo"`
}

// CustomTexts holds the landing page copy.
type CustomTexts struct {
	HeroTitle       string `json:"heroTitle"`
	HeroSubtitle    string `json:"heroSubtitle"`
	CTAButton       string `json:"ctaButton"`
	ThankYouMessage string `json:"thankYouMessage"`
}

// Theme holds the site color palette.
type Theme struct {
	Primary   string `json:"primary"`
	Secondary string `json:"secondary"`
	Accent    string `json:"accent"`
}

// Settings is the site configuration singleton. A partial unique index keeps
// at most one row active.
type Settings struct {
	ID            uuid.UUID
	Facilitator   Facilitator
	Contact       Contact
	Social        Social
	Site          Site
	EmailSettings EmailSettings
	CustomTexts   CustomTexts
	Theme         Theme
	IsActive      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// SettingsReader provides read operations for settings.
type SettingsReader interface {
	// GetActive returns the single active settings row, NotFound when the
	// site has never been configured.
	GetActive(ctx context.Context) (Settings, error)
}

// SettingsWriter provides write operations for settings.
type SettingsWriter interface {
	Create(ctx context.Context, settings Settings) (Settings, error)
	Update(ctx context.Context, settings Settings) (Settings, error)
	// DeleteAll removes every settings row; used by the admin reset.
	DeleteAll(ctx context.Context) error
}

// Repository combines all settings repository operations.
type Repository interface {
	SettingsReader
	SettingsWriter
}
