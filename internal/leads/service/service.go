// Package service implements lead admission control and the
// confirmation-state side effects that drive retreat availability.
package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"retiros_backend/internal/events"
	"retiros_backend/internal/leads/domain"
	"retiros_backend/internal/leads/repository"
	"retiros_backend/internal/leads/transport"
	retreatdomain "retiros_backend/internal/retreats/domain"
	"retiros_backend/platform/apperr"
	"retiros_backend/platform/clock"
	"retiros_backend/platform/logger"
)

// RetreatInfo is the slice of retreat state admission control needs.
type RetreatInfo struct {
	ID              uuid.UUID
	Title           string
	Status          retreatdomain.Status
	MaxParticipants int
}

// RetreatReader provides retreat lookups for admission control.
// Implemented by an adapter over the retreats module.
type RetreatReader interface {
	Info(ctx context.Context, id uuid.UUID) (RetreatInfo, error)
}

// Service provides business logic for leads.
type Service struct {
	repo     repository.Repository
	retreats RetreatReader
	clk      clock.Clock
	bus      events.Bus
	log      *logger.Logger
}

// New creates a new leads service.
func New(repo repository.Repository, retreats RetreatReader, clk clock.Clock, bus events.Bus, log *logger.Logger) *Service {
	return &Service{repo: repo, retreats: retreats, clk: clk, bus: bus, log: log}
}

// Create handles a public inquiry submission. Admission is gated on the
// retreat being active, having free spots under the canonical
// confirmed-and-paid count, and the (email, retreat) pair being new.
func (s *Service) Create(ctx context.Context, req transport.CreateLeadRequest) (transport.LeadResponse, error) {
	info, err := s.retreats.Info(ctx, req.RetreatID)
	if err != nil {
		return transport.LeadResponse{}, err
	}
	if info.Status != retreatdomain.StatusActive {
		return transport.LeadResponse{}, apperr.BadRequest("retreat is not open for booking")
	}

	confirmed, err := s.repo.CountConfirmed(ctx, req.RetreatID)
	if err != nil {
		return transport.LeadResponse{}, err
	}
	if confirmed >= info.MaxParticipants {
		return transport.LeadResponse{}, apperr.BadRequest("retreat is full")
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	exists, err := s.repo.ExistsByEmailAndRetreat(ctx, email, req.RetreatID)
	if err != nil {
		return transport.LeadResponse{}, err
	}
	if exists {
		return transport.LeadResponse{}, apperr.BadRequest("an inquiry with this email already exists for this retreat")
	}

	params := repository.CreateParams{
		Name:      strings.TrimSpace(req.Name),
		Email:     email,
		Phone:     strings.TrimSpace(req.Phone),
		Message:   req.Message,
		Interest:  domain.InterestConsulta,
		RetreatID: req.RetreatID,
		Source:    domain.SourceLanding,
	}
	if req.Interest != "" {
		params.Interest = domain.Interest(req.Interest)
	}
	if req.Source != "" {
		params.Source = domain.Source(req.Source)
	}

	// The unique index is the backstop for races past the pre-check.
	lead, err := s.repo.Create(ctx, params)
	if err != nil {
		return transport.LeadResponse{}, err
	}

	s.bus.Publish(ctx, events.LeadCreated{
		BaseEvent:    events.NewBaseEvent(),
		LeadID:       lead.ID,
		RetreatID:    lead.RetreatID,
		RetreatTitle: info.Title,
		Name:         lead.Name,
		Email:        lead.Email,
		Phone:        lead.Phone,
		Interest:     string(lead.Interest),
		Source:       string(lead.Source),
	})

	s.log.Info("lead created", "id", lead.ID, "retreatId", lead.RetreatID, "source", lead.Source)
	return toResponse(lead), nil
}

// GetByID retrieves a lead together with the live availability of its retreat.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (transport.LeadDetailResponse, error) {
	lead, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.LeadDetailResponse{}, err
	}

	info, err := s.retreats.Info(ctx, lead.RetreatID)
	if err != nil {
		return transport.LeadDetailResponse{}, err
	}
	confirmed, err := s.repo.CountConfirmed(ctx, lead.RetreatID)
	if err != nil {
		return transport.LeadDetailResponse{}, err
	}

	return transport.LeadDetailResponse{
		Lead:         toResponse(lead),
		Availability: retreatdomain.ComputeAvailability(info.MaxParticipants, confirmed),
	}, nil
}

// List retrieves leads with admin filters.
func (s *Service) List(ctx context.Context, req transport.ListLeadsRequest) (transport.LeadListResponse, error) {
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
		RetreatID: req.RetreatID,
		Search:    req.Search,
		Offset:    (page - 1) * pageSize,
		Limit:     pageSize,
		SortBy:    req.SortBy,
		SortOrder: req.SortOrder,
	}
	if req.Status != "" {
		status := domain.Status(req.Status)
		params.Status = &status
	}

	items, total, err := s.repo.List(ctx, params)
	if err != nil {
		return transport.LeadListResponse{}, err
	}

	responses := make([]transport.LeadResponse, len(items))
	for i, lead := range items {
		responses[i] = toResponse(lead)
	}

	totalPages := 0
	if pageSize > 0 {
		totalPages = (total + pageSize - 1) / pageSize
	}
	return transport.LeadListResponse{
		Items:      responses,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}

// Update applies an admin patch to a lead and reports whether its
// confirmed-participant state flipped. Contact and confirmation timestamps
// are stamped exactly once, on the first transition into their state.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req transport.UpdateLeadRequest) (transport.LeadUpdateResponse, error) {
	lead, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.LeadUpdateResponse{}, err
	}

	wasConfirmed := lead.IsFullyConfirmed()
	applyPatch(&lead, req)
	isConfirmedNow := lead.IsFullyConfirmed()

	now := s.clk.Now()
	if lead.Status == domain.StatusContactado && lead.ContactedAt == nil {
		lead.ContactedAt = &now
	}
	if isConfirmedNow && lead.ConfirmedAt == nil {
		lead.ConfirmedAt = &now
	}

	updated, err := s.repo.Update(ctx, lead)
	if err != nil {
		return transport.LeadUpdateResponse{}, err
	}

	availabilityChanged := wasConfirmed != isConfirmedNow
	if !wasConfirmed && isConfirmedNow {
		s.bus.Publish(ctx, events.LeadConfirmed{
			BaseEvent: events.NewBaseEvent(),
			LeadID:    updated.ID,
			RetreatID: updated.RetreatID,
			Name:      updated.Name,
			Email:     updated.Email,
		})
	}

	s.log.Info("lead updated", "id", updated.ID, "status", updated.Status, "availabilityChanged", availabilityChanged)
	return transport.LeadUpdateResponse{Lead: toResponse(updated), AvailabilityChanged: availabilityChanged}, nil
}

// Delete removes a lead and reports whether it was a confirmed participant,
// since that frees a seat.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) (transport.LeadDeleteResponse, error) {
	lead, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.LeadDeleteResponse{}, err
	}

	wasConfirmed := lead.IsFullyConfirmed()
	if err := s.repo.Delete(ctx, id); err != nil {
		return transport.LeadDeleteResponse{}, err
	}

	s.log.Info("lead deleted", "id", id, "availabilityChanged", wasConfirmed)
	return transport.LeadDeleteResponse{Deleted: true, AvailabilityChanged: wasConfirmed}, nil
}

// Stats aggregates lead totals for the admin dashboard.
func (s *Service) Stats(ctx context.Context) (transport.StatsResponse, error) {
	now := s.clk.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	stats, err := s.repo.Stats(ctx, monthStart)
	if err != nil {
		return transport.StatsResponse{}, err
	}

	conversion := 0.0
	if stats.Total > 0 {
		conversion = float64(stats.ByStatus[string(domain.StatusConfirmado)]) / float64(stats.Total)
	}

	return transport.StatsResponse{
		Total:          stats.Total,
		ByStatus:       stats.ByStatus,
		TotalPaid:      stats.TotalPaid,
		ThisMonth:      stats.ThisMonth,
		ConversionRate: conversion,
	}, nil
}

func applyPatch(lead *repository.Lead, req transport.UpdateLeadRequest) {
	if req.Name != nil {
		lead.Name = *req.Name
	}
	if req.Email != nil {
		lead.Email = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.Phone != nil {
		lead.Phone = *req.Phone
	}
	if req.Message != nil {
		lead.Message = *req.Message
	}
	if req.Interest != nil {
		lead.Interest = domain.Interest(*req.Interest)
	}
	if req.Status != nil {
		lead.Status = domain.Status(*req.Status)
	}
	if req.PaymentStatus != nil {
		lead.PaymentStatus = domain.PaymentStatus(*req.PaymentStatus)
	}
	if req.PaymentAmount != nil {
		lead.PaymentAmount = *req.PaymentAmount
	}
	if req.PaymentMethod != nil {
		lead.PaymentMethod = domain.PaymentMethod(*req.PaymentMethod)
	}
	if req.Notes != nil {
		lead.Notes = *req.Notes
	}
	if req.Source != nil {
		lead.Source = domain.Source(*req.Source)
	}
}

func toResponse(lead repository.Lead) transport.LeadResponse {
	return transport.LeadResponse{
		ID:            lead.ID,
		Name:          lead.Name,
		Email:         lead.Email,
		Phone:         lead.Phone,
		Message:       lead.Message,
		Interest:      lead.Interest,
		Status:        lead.Status,
		PaymentStatus: lead.PaymentStatus,
		PaymentAmount: lead.PaymentAmount,
		PaymentMethod: lead.PaymentMethod,
		RetreatID:     lead.RetreatID,
		Notes:         lead.Notes,
		Source:        lead.Source,
		IsConfirmed:   lead.IsFullyConfirmed(),
		ContactedAt:   lead.ContactedAt,
		ConfirmedAt:   lead.ConfirmedAt,
		CreatedAt:     lead.CreatedAt,
		UpdatedAt:     lead.UpdatedAt,
	}
}
