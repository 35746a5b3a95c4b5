// Package service implements the retreat business rules: derived
// availability, status consistency and pricing on top of the repository.
package service

import (
	"context"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"retiros_backend/internal/retreats/domain"
	"retiros_backend/internal/retreats/repository"
	"retiros_backend/internal/retreats/transport"
	"retiros_backend/internal/shared/phone"
	"retiros_backend/platform/apperr"
	"retiros_backend/platform/clock"
	"retiros_backend/platform/logger"
)

const heroPastLimit = 3

// ParticipantCounter counts fully confirmed participants per retreat.
// Implemented by the leads module; counts must apply the canonical
// confirmed-and-paid rule.
type ParticipantCounter interface {
	CountConfirmed(ctx context.Context, retreatID uuid.UUID) (int, error)
	CountConfirmedBatch(ctx context.Context, retreatIDs []uuid.UUID) (map[uuid.UUID]int, error)
}

// Service provides business logic for retreats.
type Service struct {
	repo    repository.Repository
	counter ParticipantCounter
	clk     clock.Clock
	log     *logger.Logger
}

// New creates a new retreats service.
func New(repo repository.Repository, counter ParticipantCounter, clk clock.Clock, log *logger.Logger) *Service {
	return &Service{repo: repo, counter: counter, clk: clk, log: log}
}

// GetByIDOrSlug retrieves one retreat by UUID or slug, enriched with live
// availability. Admin callers get the advisory status warning as well.
func (s *Service) GetByIDOrSlug(ctx context.Context, idOrSlug string, admin bool) (transport.RetreatResponse, error) {
	var rt domain.Retreat
	var err error

	if id, parseErr := uuid.Parse(idOrSlug); parseErr == nil {
		rt, err = s.repo.GetByID(ctx, id)
	} else {
		rt, err = s.repo.GetBySlug(ctx, idOrSlug)
	}
	if err != nil {
		return transport.RetreatResponse{}, err
	}

	if !admin && rt.Status == domain.StatusDraft {
		return transport.RetreatResponse{}, apperr.NotFound("retreat not found")
	}

	confirmed, err := s.counter.CountConfirmed(ctx, rt.ID)
	if err != nil {
		return transport.RetreatResponse{}, err
	}

	return s.toResponse(rt, confirmed, admin), nil
}

// Availability returns the live seat picture of a retreat.
func (s *Service) Availability(ctx context.Context, retreatID uuid.UUID) (domain.Availability, error) {
	rt, err := s.repo.GetByID(ctx, retreatID)
	if err != nil {
		return domain.Availability{}, err
	}
	confirmed, err := s.counter.CountConfirmed(ctx, retreatID)
	if err != nil {
		return domain.Availability{}, err
	}
	return domain.ComputeAvailability(rt.MaxParticipants, confirmed), nil
}

// List retrieves retreats with filters. Public callers are pinned to active
// retreats regardless of the requested filter.
func (s *Service) List(ctx context.Context, req transport.ListRetreatsRequest, admin bool) (transport.RetreatListResponse, error) {
	page := req.Page
	pageSize := req.PageSize
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}

	params := repository.ListParams{
		Search:     req.Search,
		ShowInHero: req.ShowInHero,
		Offset:     (page - 1) * pageSize,
		Limit:      pageSize,
		SortBy:     req.SortBy,
		SortOrder:  req.SortOrder,
	}
	if admin {
		if req.Status != "" {
			status := domain.Status(req.Status)
			params.Status = &status
		}
	} else {
		active := domain.StatusActive
		params.Status = &active
	}

	items, total, err := s.repo.List(ctx, params)
	if err != nil {
		return transport.RetreatListResponse{}, err
	}

	responses, err := s.enrich(ctx, items, admin)
	if err != nil {
		return transport.RetreatListResponse{}, err
	}

	totalPages := 0
	if pageSize > 0 {
		totalPages = (total + pageSize - 1) / pageSize
	}
	return transport.RetreatListResponse{
		Items:      responses,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}

// Hero returns the landing page payload: upcoming active retreats with
// showInHero first, plus a few recently completed ones.
func (s *Service) Hero(ctx context.Context) (transport.HeroResponse, error) {
	upcoming, past, err := s.repo.ListHero(ctx, s.clk.Now(), heroPastLimit)
	if err != nil {
		return transport.HeroResponse{}, err
	}

	var upcomingResponses, pastResponses []transport.RetreatResponse
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		var err error
		upcomingResponses, err = s.enrich(groupCtx, upcoming, false)
		return err
	})
	group.Go(func() error {
		var err error
		pastResponses, err = s.enrich(groupCtx, past, false)
		return err
	})
	if err := group.Wait(); err != nil {
		return transport.HeroResponse{}, err
	}

	return transport.HeroResponse{Upcoming: upcomingResponses, Past: pastResponses}, nil
}

// Past returns completed retreats that have concluded, newest first.
func (s *Service) Past(ctx context.Context) ([]transport.RetreatResponse, error) {
	items, err := s.repo.ListPast(ctx, s.clk.Now())
	if err != nil {
		return nil, err
	}
	return s.enrich(ctx, items, false)
}

// Inconsistent reports retreats whose stored status contradicts their dates.
// Advisory only; nothing is mutated.
func (s *Service) Inconsistent(ctx context.Context) (transport.InconsistentListResponse, error) {
	items, err := s.repo.ListByStatuses(ctx, []domain.Status{domain.StatusActive, domain.StatusCompleted, domain.StatusDraft})
	if err != nil {
		return transport.InconsistentListResponse{}, err
	}

	now := s.clk.Now()
	var flagged []domain.Retreat
	var warnings []domain.StatusSuggestion
	for _, rt := range items {
		suggestion := domain.SuggestStatus(rt.Status, rt.StartDate, rt.EndDate, now)
		if suggestion.NeedsChange {
			flagged = append(flagged, rt)
			warnings = append(warnings, suggestion)
		}
	}

	responses, err := s.enrich(ctx, flagged, true)
	if err != nil {
		return transport.InconsistentListResponse{}, err
	}

	result := transport.InconsistentListResponse{Items: []transport.InconsistentRetreat{}, Total: len(responses)}
	for i, resp := range responses {
		result.Items = append(result.Items, transport.InconsistentRetreat{Retreat: resp, Warning: warnings[i]})
	}
	return result, nil
}

// Create creates a new retreat, defaulting to draft status.
func (s *Service) Create(ctx context.Context, req transport.CreateRetreatRequest) (transport.RetreatResponse, error) {
	rt := domain.Retreat{
		Title:            req.Title,
		Description:      req.Description,
		ShortDescription: req.ShortDescription,
		TargetAudience:   req.TargetAudience,
		Experiences:      req.Experiences,
		StartDate:        req.StartDate,
		EndDate:          req.EndDate,
		Location:         toLocation(req.Location),
		Price:            req.Price,
		Currency:         domain.CurrencyARS,
		PricingTiers:     toTiers(req.PricingTiers),
		MaxParticipants:  req.MaxParticipants,
		Includes:         req.Includes,
		NotIncludes:      req.NotIncludes,
		FoodInfo:         domain.FoodInfo(req.FoodInfo),
		Policies:         domain.Policies(req.Policies),
		Images:           req.Images,
		HighlightWords:   req.HighlightWords,
		Status:           domain.StatusDraft,
		ShowInHero:       req.ShowInHero,
		WhatsAppNumber:   req.WhatsAppNumber,
	}
	if req.Currency != "" {
		rt.Currency = domain.Currency(req.Currency)
	}
	if req.Status != "" {
		rt.Status = domain.Status(req.Status)
	}
	if req.HeroImageIndex != nil {
		rt.HeroImageIndex = *req.HeroImageIndex
	}
	rt.Slug = req.Slug
	if rt.Slug == "" {
		rt.Slug = domain.Slugify(rt.Title)
	}

	if err := s.validateRetreat(ctx, &rt, nil); err != nil {
		return transport.RetreatResponse{}, err
	}

	created, err := s.repo.Create(ctx, rt)
	if err != nil {
		return transport.RetreatResponse{}, err
	}

	s.log.Info("retreat created", "id", created.ID, "slug", created.Slug, "status", created.Status)
	return s.toResponse(created, 0, true), nil
}

// Update applies a partial update to a retreat, re-validating all invariants
// on the merged result.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req transport.UpdateRetreatRequest) (transport.RetreatResponse, error) {
	rt, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.RetreatResponse{}, err
	}

	applyPatch(&rt, req)
	if req.Title != nil && req.Slug == nil {
		rt.Slug = domain.Slugify(rt.Title)
	}

	if err := s.validateRetreat(ctx, &rt, &id); err != nil {
		return transport.RetreatResponse{}, err
	}

	updated, err := s.repo.Update(ctx, rt)
	if err != nil {
		return transport.RetreatResponse{}, err
	}

	confirmed, err := s.counter.CountConfirmed(ctx, updated.ID)
	if err != nil {
		return transport.RetreatResponse{}, err
	}

	s.log.Info("retreat updated", "id", updated.ID, "status", updated.Status)
	return s.toResponse(updated, confirmed, true), nil
}

// Delete removes a retreat. Leads and tokens go with it; testimonials keep
// their participant copies with the retreat reference nulled.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("retreat deleted", "id", id)
	return nil
}

// validateRetreat enforces the cross-field invariants shared by create and
// update: date order, hero image bounds, the hard completed-before-end rule,
// slug uniqueness and WhatsApp normalization.
func (s *Service) validateRetreat(ctx context.Context, rt *domain.Retreat, excludeID *uuid.UUID) error {
	if rt.EndDate.Before(rt.StartDate) {
		return apperr.Validation("endDate must be on or after startDate")
	}
	if len(rt.Images) > 0 && rt.HeroImageIndex >= len(rt.Images) {
		return apperr.Validation("heroImageIndex is out of range")
	}
	if len(rt.Images) == 0 {
		rt.HeroImageIndex = 0
	}
	if err := domain.ValidateStatusDates(rt.Status, rt.EndDate, s.clk.Now()); err != nil {
		return err
	}

	normalized, err := phone.Normalize(rt.WhatsAppNumber)
	if err != nil {
		return err
	}
	rt.WhatsAppNumber = normalized

	taken, err := s.repo.SlugExists(ctx, rt.Slug, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return apperr.BadRequest("a retreat with this slug already exists")
	}
	return nil
}

// enrich attaches live availability to a batch of retreats with one
// aggregate query.
func (s *Service) enrich(ctx context.Context, items []domain.Retreat, admin bool) ([]transport.RetreatResponse, error) {
	responses := make([]transport.RetreatResponse, 0, len(items))
	if len(items) == 0 {
		return responses, nil
	}

	ids := make([]uuid.UUID, len(items))
	for i, rt := range items {
		ids[i] = rt.ID
	}
	counts, err := s.counter.CountConfirmedBatch(ctx, ids)
	if err != nil {
		return nil, err
	}

	for _, rt := range items {
		responses = append(responses, s.toResponse(rt, counts[rt.ID], admin))
	}
	return responses, nil
}

func (s *Service) toResponse(rt domain.Retreat, confirmed int, admin bool) transport.RetreatResponse {
	now := s.clk.Now()
	availability := domain.ComputeAvailability(rt.MaxParticipants, confirmed)

	computed := domain.Computed(rt.Status, rt.StartDate, rt.EndDate, now)

	resp := transport.RetreatResponse{
		ID:                  rt.ID,
		Slug:                rt.Slug,
		Title:               rt.Title,
		Description:         rt.Description,
		ShortDescription:    rt.ShortDescription,
		TargetAudience:      rt.TargetAudience,
		Experiences:         rt.Experiences,
		StartDate:           rt.StartDate,
		EndDate:             rt.EndDate,
		DurationDays:        rt.DurationDays(),
		Location:            rt.Location,
		Price:               rt.Price,
		Currency:            rt.Currency,
		PricingTiers:        rt.PricingTiers,
		ActivePricingTier:   domain.ActiveTier(rt.PricingTiers, now),
		EffectivePrice:      domain.EffectivePrice(rt.Price, rt.PricingTiers, now),
		MaxParticipants:     rt.MaxParticipants,
		CurrentParticipants: availability.CurrentParticipants,
		AvailableSpots:      availability.AvailableSpots,
		IsFull:              availability.IsFull,
		Includes:            rt.Includes,
		NotIncludes:         rt.NotIncludes,
		FoodInfo:            rt.FoodInfo,
		Policies:            rt.Policies,
		Images:              rt.Images,
		HeroImageIndex:      rt.HeroImageIndex,
		HighlightWords:      rt.HighlightWords,
		Status:              rt.Status,
		ComputedStatus:      computed,
		ShowInHero:          rt.ShowInHero,
		WhatsAppNumber:      rt.WhatsAppNumber,
		CreatedAt:           rt.CreatedAt,
		UpdatedAt:           rt.UpdatedAt,
	}

	if admin {
		if suggestion := domain.SuggestStatus(rt.Status, rt.StartDate, rt.EndDate, now); suggestion.NeedsChange {
			resp.StatusWarning = &suggestion
		}
	}
	return resp
}

func applyPatch(rt *domain.Retreat, req transport.UpdateRetreatRequest) {
	if req.Title != nil {
		rt.Title = *req.Title
	}
	if req.Slug != nil {
		rt.Slug = *req.Slug
	}
	if req.Description != nil {
		rt.Description = *req.Description
	}
	if req.ShortDescription != nil {
		rt.ShortDescription = *req.ShortDescription
	}
	if req.TargetAudience != nil {
		rt.TargetAudience = *req.TargetAudience
	}
	if req.Experiences != nil {
		rt.Experiences = *req.Experiences
	}
	if req.StartDate != nil {
		rt.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		rt.EndDate = *req.EndDate
	}
	if req.Location != nil {
		rt.Location = toLocation(*req.Location)
	}
	if req.Price != nil {
		rt.Price = *req.Price
	}
	if req.Currency != nil {
		rt.Currency = domain.Currency(*req.Currency)
	}
	if req.PricingTiers != nil {
		rt.PricingTiers = toTiers(*req.PricingTiers)
	}
	if req.MaxParticipants != nil {
		rt.MaxParticipants = *req.MaxParticipants
	}
	if req.Includes != nil {
		rt.Includes = *req.Includes
	}
	if req.NotIncludes != nil {
		rt.NotIncludes = *req.NotIncludes
	}
	if req.FoodInfo != nil {
		rt.FoodInfo = domain.FoodInfo(*req.FoodInfo)
	}
	if req.Policies != nil {
		rt.Policies = domain.Policies(*req.Policies)
	}
	if req.Images != nil {
		rt.Images = *req.Images
	}
	if req.HeroImageIndex != nil {
		rt.HeroImageIndex = *req.HeroImageIndex
	}
	if req.HighlightWords != nil {
		rt.HighlightWords = *req.HighlightWords
	}
	if req.Status != nil {
		rt.Status = domain.Status(*req.Status)
	}
	if req.ShowInHero != nil {
		rt.ShowInHero = *req.ShowInHero
	}
	if req.WhatsAppNumber != nil {
		rt.WhatsAppNumber = *req.WhatsAppNumber
	}
}

func toLocation(payload transport.LocationPayload) domain.Location {
	if payload.Country == "" {
		payload.Country = "Argentina"
	}
	return domain.Location{
		Name:              payload.Name,
		Address:           payload.Address,
		City:              payload.City,
		State:             payload.State,
		Country:           payload.Country,
		Description:       payload.Description,
		Features:          payload.Features,
		AccommodationType: payload.AccommodationType,
		HowToGetThere:     domain.HowToGetThere(payload.HowToGetThere),
	}
}

func toTiers(payloads []transport.PricingTierPayload) []domain.PricingTier {
	if payloads == nil {
		return nil
	}
	tiers := make([]domain.PricingTier, len(payloads))
	for i, p := range payloads {
		tiers[i] = domain.PricingTier{
			Name:           p.Name,
			Price:          p.Price,
			ValidUntil:     p.ValidUntil,
			PaymentOptions: p.PaymentOptions,
		}
	}
	return tiers
}
