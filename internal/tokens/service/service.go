package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"retiros_backend/internal/events"
	retreatdomain "retiros_backend/internal/retreats/domain"
	"retiros_backend/internal/tokens/repository"
	"retiros_backend/internal/tokens/transport"
	"retiros_backend/platform/apperr"
	"retiros_backend/platform/clock"
	"retiros_backend/platform/logger"
	"retiros_backend/platform/token"
)

// TokenTTL is how long a freshly generated token stays redeemable.
const TokenTTL = 30 * 24 * time.Hour

// RetreatInfo is the slice of retreat state token generation needs.
type RetreatInfo struct {
	ID     uuid.UUID
	Title  string
	Status retreatdomain.Status
}

// RetreatReader provides retreat lookups for generation eligibility.
// Implemented by an adapter over the retreats module.
type RetreatReader interface {
	Info(ctx context.Context, id uuid.UUID) (RetreatInfo, error)
}

// Participant identifies one confirmed attendee of a retreat.
type Participant struct {
	Name  string
	Email string
}

// ParticipantLister enumerates the confirmed participants of a retreat.
// Implemented by an adapter over the leads module.
type ParticipantLister interface {
	ListConfirmed(ctx context.Context, retreatID uuid.UUID) ([]Participant, error)
}

// Notifier delivers testimonial invitations. Delivery failures are reported
// per recipient and never roll back token creation.
type Notifier interface {
	SendTestimonialInvite(ctx context.Context, email, name, retreatTitle, tokenStr string, expiresAt time.Time) error
}

// Service provides business logic for testimonial tokens.
type Service struct {
	repo         repository.Repository
	retreats     RetreatReader
	participants ParticipantLister
	notifier     Notifier
	gen          token.Generator
	clk          clock.Clock
	bus          events.Bus
	log          *logger.Logger
}

// New creates a new token service.
func New(
	repo repository.Repository,
	retreats RetreatReader,
	participants ParticipantLister,
	notifier Notifier,
	gen token.Generator,
	clk clock.Clock,
	bus events.Bus,
	log *logger.Logger,
) *Service {
	return &Service{
		repo:         repo,
		retreats:     retreats,
		participants: participants,
		notifier:     notifier,
		gen:          gen,
		clk:          clk,
		bus:          bus,
		log:          log,
	}
}

// Generate creates one token per confirmed participant of a completed retreat
// and emails each an invitation. Participants who already hold a token are
// skipped, so the operation is safe to repeat after partial failures.
func (s *Service) Generate(ctx context.Context, retreatID uuid.UUID) (transport.GenerateResponse, error) {
	retreat, err := s.retreats.Info(ctx, retreatID)
	if err != nil {
		return transport.GenerateResponse{}, err
	}
	if retreat.Status != retreatdomain.StatusCompleted {
		return transport.GenerateResponse{}, apperr.BadRequest("tokens can only be generated for completed retreats").
			WithDetails(map[string]any{
				"currentStatus":  string(retreat.Status),
				"requiredStatus": string(retreatdomain.StatusCompleted),
			})
	}

	participants, err := s.participants.ListConfirmed(ctx, retreatID)
	if err != nil {
		return transport.GenerateResponse{}, err
	}
	if len(participants) == 0 {
		return transport.GenerateResponse{}, apperr.BadRequest("no confirmed participants for this retreat")
	}

	existing, err := s.repo.ListEmailsByRetreat(ctx, retreatID)
	if err != nil {
		return transport.GenerateResponse{}, err
	}
	covered := make(map[string]bool, len(existing))
	for _, email := range existing {
		covered[email] = true
	}

	pending := make([]Participant, 0, len(participants))
	for _, p := range participants {
		if !covered[p.Email] {
			pending = append(pending, p)
		}
	}
	if len(pending) == 0 {
		return transport.GenerateResponse{}, apperr.BadRequest("all confirmed participants already have tokens for this retreat")
	}

	now := s.clk.Now()
	expiresAt := now.Add(TokenTTL)
	result := transport.GenerateResponse{
		Tokens: make([]transport.TokenResponse, 0, len(pending)),
		EmailResults: transport.EmailResults{
			Sent:   make([]string, 0, len(pending)),
			Failed: make([]transport.EmailFailure, 0),
		},
	}

	for _, p := range pending {
		tokenStr, err := s.gen.Generate()
		if err != nil {
			return transport.GenerateResponse{}, err
		}

		created, err := s.repo.Create(ctx, repository.CreateParams{
			Token:           tokenStr,
			Email:           p.Email,
			ParticipantName: p.Name,
			RetreatID:       retreatID,
			ExpiresAt:       expiresAt,
		})
		if err != nil {
			// Concurrent generation for the same retreat can race on the
			// (email, retreat) unique index. The other writer won; skip.
			if apperr.IsKind(err, apperr.KindConflict) {
				continue
			}
			return transport.GenerateResponse{}, err
		}
		result.TokensGenerated++
		result.Tokens = append(result.Tokens, toResponse(created, now))

		if err := s.notifier.SendTestimonialInvite(ctx, p.Email, p.Name, retreat.Title, tokenStr, expiresAt); err != nil {
			s.log.Warn("testimonial invite failed", "email", p.Email, "error", err)
			result.EmailsFailed++
			result.EmailResults.Failed = append(result.EmailResults.Failed, transport.EmailFailure{
				Email: p.Email,
				Error: err.Error(),
			})
			continue
		}
		result.EmailsSent++
		result.EmailResults.Sent = append(result.EmailResults.Sent, p.Email)
	}

	s.bus.Publish(ctx, events.TokensGenerated{
		BaseEvent:    events.NewBaseEvent(),
		RetreatID:    retreatID,
		RetreatTitle: retreat.Title,
		Count:        result.TokensGenerated,
		EmailsSent:   result.EmailsSent,
		EmailsFailed: result.EmailsFailed,
		ExpiresAt:    expiresAt,
	})

	return result, nil
}

// Validate resolves a token string for the public testimonial form. Unknown,
// used, and expired tokens are indistinguishable to the caller.
func (s *Service) Validate(ctx context.Context, tokenStr string) (transport.ValidateResponse, error) {
	now := s.clk.Now()
	tok, err := s.repo.GetValidByToken(ctx, tokenStr, now)
	if err != nil {
		return transport.ValidateResponse{}, err
	}

	retreat, err := s.retreats.Info(ctx, tok.RetreatID)
	if err != nil {
		return transport.ValidateResponse{}, err
	}

	return transport.ValidateResponse{
		Token:           tok.Token,
		ParticipantName: tok.ParticipantName,
		Email:           tok.Email,
		RetreatID:       tok.RetreatID,
		RetreatTitle:    retreat.Title,
		ExpiresAt:       tok.ExpiresAt,
	}, nil
}

// List retrieves tokens with admin filters plus aggregate stats.
func (s *Service) List(ctx context.Context, req transport.ListTokensRequest) (transport.TokenListResponse, error) {
	page := req.Page
	limit := req.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	items, total, err := s.repo.List(ctx, repository.ListParams{
		RetreatID: req.RetreatID,
		Used:      req.Used,
		Offset:    (page - 1) * limit,
		Limit:     limit,
	})
	if err != nil {
		return transport.TokenListResponse{}, err
	}

	now := s.clk.Now()
	stats, err := s.repo.Stats(ctx, now)
	if err != nil {
		return transport.TokenListResponse{}, err
	}

	responses := make([]transport.TokenResponse, len(items))
	for i, tok := range items {
		responses[i] = toResponse(tok, now)
	}

	return transport.TokenListResponse{
		Tokens: responses,
		Stats: transport.TokenStatsResponse{
			Total:   stats.Total,
			Used:    stats.Used,
			Expired: stats.Expired,
			Active:  stats.Active,
		},
		Total: total,
		Page:  page,
		Limit: limit,
	}, nil
}

// Regenerate issues a fresh token string and expiry for an unused token,
// keeping the participant/retreat binding. Used tokens are immutable.
func (s *Service) Regenerate(ctx context.Context, id uuid.UUID) (transport.TokenResponse, error) {
	tok, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.TokenResponse{}, err
	}
	if tok.IsUsed {
		return transport.TokenResponse{}, apperr.BadRequest("cannot regenerate a token that has already been used")
	}

	tokenStr, err := s.gen.Generate()
	if err != nil {
		return transport.TokenResponse{}, err
	}

	now := s.clk.Now()
	replaced, err := s.repo.Replace(ctx, tok.ID, repository.CreateParams{
		Token:           tokenStr,
		Email:           tok.Email,
		ParticipantName: tok.ParticipantName,
		RetreatID:       tok.RetreatID,
		ExpiresAt:       now.Add(TokenTTL),
	})
	if err != nil {
		return transport.TokenResponse{}, err
	}
	return toResponse(replaced, now), nil
}

// Get retrieves a single token by ID.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (transport.TokenResponse, error) {
	tok, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.TokenResponse{}, err
	}
	return toResponse(tok, s.clk.Now()), nil
}

// Delete removes a token.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

// PurgeExpired deletes unused tokens past their expiry. The scheduler calls
// this periodically.
func (s *Service) PurgeExpired(ctx context.Context) (int64, error) {
	deleted, err := s.repo.DeleteExpired(ctx, s.clk.Now())
	if err != nil {
		return 0, err
	}
	if deleted > 0 {
		s.log.Info("purged expired testimonial tokens", "count", deleted)
	}
	return deleted, nil
}

func toResponse(tok repository.Token, now time.Time) transport.TokenResponse {
	return transport.TokenResponse{
		ID:              tok.ID,
		Token:           tok.Token,
		Email:           tok.Email,
		ParticipantName: tok.ParticipantName,
		RetreatID:       tok.RetreatID,
		IsUsed:          tok.IsUsed,
		UsedAt:          tok.UsedAt,
		ExpiresAt:       tok.ExpiresAt,
		IsExpired:       tok.IsExpired(now),
		TestimonialID:   tok.TestimonialID,
		CreatedAt:       tok.CreatedAt,
	}
}
