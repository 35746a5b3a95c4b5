// Package adapters bridges bounded contexts: each adapter narrows one
// module's repository to the consumer-side interface another module declares,
// keeping the modules free of direct dependencies on each other's internals.
package adapters

import (
	"context"

	"github.com/google/uuid"

	leaddomain "retiros_backend/internal/leads/domain"
	leadrepo "retiros_backend/internal/leads/repository"
	leadservice "retiros_backend/internal/leads/service"
	retreatrepo "retiros_backend/internal/retreats/repository"
	tokenservice "retiros_backend/internal/tokens/service"
)

// LeadRetreatReader adapts the retreats repository to the lead service's
// admission-control view of a retreat.
type LeadRetreatReader struct {
	retreats retreatrepo.RetreatReader
}

// NewLeadRetreatReader creates the adapter used by the leads module.
func NewLeadRetreatReader(retreats retreatrepo.RetreatReader) *LeadRetreatReader {
	return &LeadRetreatReader{retreats: retreats}
}

var _ leadservice.RetreatReader = (*LeadRetreatReader)(nil)

func (a *LeadRetreatReader) Info(ctx context.Context, id uuid.UUID) (leadservice.RetreatInfo, error) {
	retreat, err := a.retreats.GetByID(ctx, id)
	if err != nil {
		return leadservice.RetreatInfo{}, err
	}
	return leadservice.RetreatInfo{
		ID:              retreat.ID,
		Title:           retreat.Title,
		Status:          retreat.Status,
		MaxParticipants: retreat.MaxParticipants,
	}, nil
}

// TokenRetreatReader adapts the retreats repository to the token service's
// generation-eligibility view of a retreat.
type TokenRetreatReader struct {
	retreats retreatrepo.RetreatReader
}

// NewTokenRetreatReader creates the adapter used by the tokens module.
func NewTokenRetreatReader(retreats retreatrepo.RetreatReader) *TokenRetreatReader {
	return &TokenRetreatReader{retreats: retreats}
}

var _ tokenservice.RetreatReader = (*TokenRetreatReader)(nil)

func (a *TokenRetreatReader) Info(ctx context.Context, id uuid.UUID) (tokenservice.RetreatInfo, error) {
	retreat, err := a.retreats.GetByID(ctx, id)
	if err != nil {
		return tokenservice.RetreatInfo{}, err
	}
	return tokenservice.RetreatInfo{
		ID:     retreat.ID,
		Title:  retreat.Title,
		Status: retreat.Status,
	}, nil
}

// ConfirmedLeadLister adapts the leads repository to the token service's
// participant enumeration. Token eligibility keys on lead status alone,
// payment state does not gate testimonial invitations.
type ConfirmedLeadLister struct {
	leads leadrepo.LeadReader
}

// NewConfirmedLeadLister creates the adapter used by the tokens module.
func NewConfirmedLeadLister(leads leadrepo.LeadReader) *ConfirmedLeadLister {
	return &ConfirmedLeadLister{leads: leads}
}

var _ tokenservice.ParticipantLister = (*ConfirmedLeadLister)(nil)

func (a *ConfirmedLeadLister) ListConfirmed(ctx context.Context, retreatID uuid.UUID) ([]tokenservice.Participant, error) {
	leads, err := a.leads.ListByStatus(ctx, retreatID, leaddomain.StatusConfirmado)
	if err != nil {
		return nil, err
	}
	participants := make([]tokenservice.Participant, len(leads))
	for i, lead := range leads {
		participants[i] = tokenservice.Participant{Name: lead.Name, Email: lead.Email}
	}
	return participants, nil
}
