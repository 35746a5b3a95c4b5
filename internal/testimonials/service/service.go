package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"retiros_backend/internal/events"
	"retiros_backend/internal/testimonials/repository"
	"retiros_backend/internal/testimonials/transport"
	"retiros_backend/platform/clock"
	"retiros_backend/platform/logger"
)

// defaultFeaturedLimit bounds the homepage featured carousel.
const defaultFeaturedLimit = 3

// Service provides business logic for testimonials.
type Service struct {
	repo repository.Repository
	clk  clock.Clock
	bus  events.Bus
	log  *logger.Logger
}

// New creates a new testimonial service.
func New(repo repository.Repository, clk clock.Clock, bus events.Bus, log *logger.Logger) *Service {
	return &Service{repo: repo, clk: clk, bus: bus, log: log}
}

// Submit redeems a token and creates an unapproved testimonial. The
// participant identity comes from the token, so a stolen form payload cannot
// impersonate another attendee.
func (s *Service) Submit(ctx context.Context, req transport.SubmitTestimonialRequest) (transport.TestimonialResponse, error) {
	testimonial, err := s.repo.CreateFromToken(ctx, req.Token, s.clk.Now(), repository.SubmitParams{
		Rating:  req.Rating,
		Comment: strings.TrimSpace(req.Comment),
		Photo:   req.Photo,
	})
	if err != nil {
		return transport.TestimonialResponse{}, err
	}

	s.bus.Publish(ctx, events.TestimonialSubmitted{
		BaseEvent:       events.NewBaseEvent(),
		TestimonialID:   testimonial.ID,
		RetreatID:       testimonial.RetreatID,
		ParticipantName: testimonial.Name,
		Rating:          testimonial.Rating,
	})

	return toResponse(testimonial), nil
}

// ListPublic returns approved testimonials for the public site.
func (s *Service) ListPublic(ctx context.Context, req transport.PublicListRequest) ([]transport.PublicTestimonialResponse, error) {
	items, err := s.repo.ListApproved(ctx, req.RetreatID)
	if err != nil {
		return nil, err
	}
	responses := make([]transport.PublicTestimonialResponse, len(items))
	for i, t := range items {
		responses[i] = toPublicResponse(t)
	}
	return responses, nil
}

// Featured returns the best-rated approved featured testimonials.
func (s *Service) Featured(ctx context.Context, req transport.FeaturedRequest) ([]transport.PublicTestimonialResponse, error) {
	limit := req.Limit
	if limit < 1 {
		limit = defaultFeaturedLimit
	}
	items, err := s.repo.ListFeatured(ctx, limit)
	if err != nil {
		return nil, err
	}
	responses := make([]transport.PublicTestimonialResponse, len(items))
	for i, t := range items {
		responses[i] = toPublicResponse(t)
	}
	return responses, nil
}

// GetByID retrieves one testimonial for the admin panel.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (transport.TestimonialResponse, error) {
	testimonial, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.TestimonialResponse{}, err
	}
	return toResponse(testimonial), nil
}

// List retrieves testimonials with admin filters.
func (s *Service) List(ctx context.Context, req transport.ListTestimonialsRequest) (transport.TestimonialListResponse, error) {
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
		Approved:  req.Approved,
		Featured:  req.Featured,
		Offset:    (page - 1) * limit,
		Limit:     limit,
	})
	if err != nil {
		return transport.TestimonialListResponse{}, err
	}

	responses := make([]transport.TestimonialResponse, len(items))
	for i, t := range items {
		responses[i] = toResponse(t)
	}

	totalPages := 0
	if limit > 0 {
		totalPages = (total + limit - 1) / limit
	}
	return transport.TestimonialListResponse{
		Items:      responses,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}, nil
}

// Create adds a testimonial directly, optionally pre-approved.
func (s *Service) Create(ctx context.Context, req transport.CreateTestimonialRequest) (transport.TestimonialResponse, error) {
	params := repository.CreateParams{
		Name:       strings.TrimSpace(req.Name),
		Email:      strings.ToLower(strings.TrimSpace(req.Email)),
		Photo:      req.Photo,
		RetreatID:  req.RetreatID,
		Rating:     req.Rating,
		Comment:    strings.TrimSpace(req.Comment),
		IsApproved: req.IsApproved,
		IsFeatured: req.IsFeatured,
		Notes:      strings.TrimSpace(req.Notes),
	}
	if req.IsApproved {
		now := s.clk.Now()
		params.ApprovedAt = &now
	}

	testimonial, err := s.repo.Create(ctx, params)
	if err != nil {
		return transport.TestimonialResponse{}, err
	}
	return toResponse(testimonial), nil
}

// Update applies an admin patch. approvedAt is stamped on the first approval
// and never overwritten afterwards, surviving later unapprove/reapprove flips.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req transport.UpdateTestimonialRequest) (transport.TestimonialResponse, error) {
	testimonial, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.TestimonialResponse{}, err
	}

	applyPatch(&testimonial, req)
	if testimonial.IsApproved && testimonial.ApprovedAt == nil {
		now := s.clk.Now()
		testimonial.ApprovedAt = &now
	}

	updated, err := s.repo.Update(ctx, testimonial)
	if err != nil {
		return transport.TestimonialResponse{}, err
	}
	return toResponse(updated), nil
}

// Delete removes a testimonial.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func applyPatch(t *repository.Testimonial, req transport.UpdateTestimonialRequest) {
	if req.Name != nil {
		t.Name = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		t.Email = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.Photo != nil {
		t.Photo = *req.Photo
	}
	if req.RetreatID != nil {
		t.RetreatID = req.RetreatID
	}
	if req.Rating != nil {
		t.Rating = *req.Rating
	}
	if req.Comment != nil {
		t.Comment = strings.TrimSpace(*req.Comment)
	}
	if req.IsApproved != nil {
		t.IsApproved = *req.IsApproved
	}
	if req.IsFeatured != nil {
		t.IsFeatured = *req.IsFeatured
	}
	if req.Notes != nil {
		t.Notes = strings.TrimSpace(*req.Notes)
	}
}

func toResponse(t repository.Testimonial) transport.TestimonialResponse {
	return transport.TestimonialResponse{
		ID:         t.ID,
		Name:       t.Name,
		Email:      t.Email,
		Photo:      t.Photo,
		RetreatID:  t.RetreatID,
		Rating:     t.Rating,
		Comment:    t.Comment,
		IsApproved: t.IsApproved,
		IsFeatured: t.IsFeatured,
		ApprovedAt: t.ApprovedAt,
		Notes:      t.Notes,
		CreatedAt:  t.CreatedAt,
	}
}

func toPublicResponse(t repository.Testimonial) transport.PublicTestimonialResponse {
	return transport.PublicTestimonialResponse{
		ID:        t.ID,
		Name:      t.Name,
		Photo:     t.Photo,
		RetreatID: t.RetreatID,
		Rating:    t.Rating,
		Comment:   t.Comment,
		CreatedAt: t.CreatedAt,
	}
}
