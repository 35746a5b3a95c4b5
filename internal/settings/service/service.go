package service

import (
	"context"

	"retiros_backend/internal/settings/repository"
	"retiros_backend/internal/settings/transport"
	"retiros_backend/internal/shared/phone"
	"retiros_backend/platform/apperr"
	"retiros_backend/platform/cache"
	"retiros_backend/platform/logger"
)

// settingsCacheKey holds the active settings document.
const settingsCacheKey = "settings:active"

// Service provides business logic for the site settings singleton.
type Service struct {
	repo  repository.Repository
	cache *cache.Cache
	log   *logger.Logger
}

// New creates a new settings service.
func New(repo repository.Repository, c *cache.Cache, log *logger.Logger) *Service {
	return &Service{repo: repo, cache: c, log: log}
}

// defaults is the lazily created initial configuration.
func defaults() repository.Settings {
	return repository.Settings{
		Facilitator: repository.Facilitator{Name: "Facilitadora"},
		Contact:     repository.Contact{Email: "hola@soulexperiences.com.ar", WhatsappNumber: "+5491100000000"},
		Site: repository.Site{
			Title:       "Soul Experiences",
			Description: "Retiros de bienestar y reconexión en la naturaleza",
		},
		EmailSettings: repository.EmailSettings{FromName: "Soul Experiences"},
		CustomTexts: repository.CustomTexts{
			HeroTitle:       "Reconectá con tu esencia",
			HeroSubtitle:    "Experiencias transformadoras en la naturaleza",
			CTAButton:       "Reservar mi lugar",
			ThankYouMessage: "Gracias por tu consulta, te contactaremos pronto.",
		},
		Theme: repository.Theme{
			Primary:   "#7c9a72",
			Secondary: "#e8dcc8",
			Accent:    "#c97b4a",
		},
		IsActive: true,
	}
}

// Get returns the full settings document for the admin panel.
func (s *Service) Get(ctx context.Context) (transport.SettingsResponse, error) {
	settings, err := s.active(ctx)
	if err != nil {
		return transport.SettingsResponse{}, err
	}
	return toResponse(settings), nil
}

// GetPublic returns the public view; the mail identity is never exposed.
func (s *Service) GetPublic(ctx context.Context) (transport.PublicSettingsResponse, error) {
	settings, err := s.active(ctx)
	if err != nil {
		return transport.PublicSettingsResponse{}, err
	}
	return transport.PublicSettingsResponse{
		Facilitator: settings.Facilitator,
		Contact:     settings.Contact,
		Social:      settings.Social,
		Site:        settings.Site,
		CustomTexts: settings.CustomTexts,
		Theme:       settings.Theme,
	}, nil
}

// Update applies an admin patch section by section.
func (s *Service) Update(ctx context.Context, req transport.UpdateSettingsRequest) (transport.SettingsResponse, error) {
	settings, err := s.active(ctx)
	if err != nil {
		return transport.SettingsResponse{}, err
	}

	if err := applyPatch(&settings, req); err != nil {
		return transport.SettingsResponse{}, err
	}

	updated, err := s.repo.Update(ctx, settings)
	if err != nil {
		return transport.SettingsResponse{}, err
	}
	s.recache(ctx, updated)
	return toResponse(updated), nil
}

// Reset discards all settings and recreates the defaults.
func (s *Service) Reset(ctx context.Context) (transport.SettingsResponse, error) {
	if err := s.repo.DeleteAll(ctx); err != nil {
		return transport.SettingsResponse{}, err
	}
	created, err := s.repo.Create(ctx, defaults())
	if err != nil {
		return transport.SettingsResponse{}, err
	}
	s.recache(ctx, created)
	return toResponse(created), nil
}

// active returns the current settings, creating the defaults on first use.
// Reads go through the cache; both miss paths repopulate it.
func (s *Service) active(ctx context.Context) (repository.Settings, error) {
	var cached repository.Settings
	hit, err := s.cache.Get(ctx, settingsCacheKey, &cached)
	if err != nil {
		s.log.Warn("settings cache read failed", "error", err)
	}
	if hit {
		return cached, nil
	}

	settings, err := s.repo.GetActive(ctx)
	if apperr.IsKind(err, apperr.KindNotFound) {
		settings, err = s.repo.Create(ctx, defaults())
		// Two first-readers can race the lazy create; the partial unique
		// index rejects the loser, who then reads the winner's row.
		if apperr.IsKind(err, apperr.KindConflict) {
			settings, err = s.repo.GetActive(ctx)
		}
	}
	if err != nil {
		return repository.Settings{}, err
	}

	s.recache(ctx, settings)
	return settings, nil
}

func (s *Service) recache(ctx context.Context, settings repository.Settings) {
	if err := s.cache.Set(ctx, settingsCacheKey, settings); err != nil {
		s.log.Warn("settings cache write failed", "error", err)
	}
}

func applyPatch(settings *repository.Settings, req transport.UpdateSettingsRequest) error {
	if req.Facilitator != nil {
		settings.Facilitator = repository.Facilitator(*req.Facilitator)
	}
	if req.Contact != nil {
		normalized, err := phone.Normalize(req.Contact.WhatsappNumber)
		if err != nil {
			return err
		}
		settings.Contact = repository.Contact{
			Email:          req.Contact.Email,
			WhatsappNumber: normalized,
		}
	}
	if req.Social != nil {
		settings.Social = repository.Social(*req.Social)
	}
	if req.Site != nil {
		settings.Site = repository.Site(*req.Site)
	}
	if req.EmailSettings != nil {
		settings.EmailSettings = repository.EmailSettings(*req.EmailSettings)
	}
	if req.CustomTexts != nil {
		settings.CustomTexts = repository.CustomTexts(*req.CustomTexts)
	}
	if req.Theme != nil {
		settings.Theme = repository.Theme(*req.Theme)
	}
	return nil
}

func toResponse(s repository.Settings) transport.SettingsResponse {
	return transport.SettingsResponse{
		ID:            s.ID,
		Facilitator:   s.Facilitator,
		Contact:       s.Contact,
		Social:        s.Social,
		Site:          s.Site,
		EmailSettings: s.EmailSettings,
		CustomTexts:   s.CustomTexts,
		Theme:         s.Theme,
		UpdatedAt:     s.UpdatedAt,
	}
}
