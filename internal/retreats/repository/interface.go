package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"retiros_backend/internal/retreats/domain"
)

// ListParams filters and paginates the admin retreat listing.
type ListParams struct {
	Status     *domain.Status
	Search     string
	ShowInHero *bool
	Offset     int
	Limit      int
	SortBy     string
	SortOrder  string
}

// RetreatReader provides read operations for retreats.
type RetreatReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (domain.Retreat, error)
	GetBySlug(ctx context.Context, slug string) (domain.Retreat, error)
	List(ctx context.Context, params ListParams) ([]domain.Retreat, int, error)
	ListHero(ctx context.Context, now time.Time, pastLimit int) (upcoming []domain.Retreat, past []domain.Retreat, err error)
	ListPast(ctx context.Context, now time.Time) ([]domain.Retreat, error)
	ListByStatuses(ctx context.Context, statuses []domain.Status) ([]domain.Retreat, error)
	SlugExists(ctx context.Context, slug string, excludeID *uuid.UUID) (bool, error)
}

// RetreatWriter provides write operations for retreats.
type RetreatWriter interface {
	Create(ctx context.Context, retreat domain.Retreat) (domain.Retreat, error)
	Update(ctx context.Context, retreat domain.Retreat) (domain.Retreat, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Repository combines all retreat repository operations.
type Repository interface {
	RetreatReader
	RetreatWriter
}
