package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"retiros_backend/internal/leads/domain"
)

// Lead is the stored inquiry/booking entity.
type Lead struct {
	ID            uuid.UUID
	Name          string
	Email         string
	Phone         string
	Message       string
	Interest      domain.Interest
	Status        domain.Status
	PaymentStatus domain.PaymentStatus
	PaymentAmount float64
	PaymentMethod domain.PaymentMethod
	RetreatID     uuid.UUID
	Notes         string
	Source        domain.Source
	ContactedAt   *time.Time
	ConfirmedAt   *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsFullyConfirmed applies the canonical confirmed-participant rule.
func (l Lead) IsFullyConfirmed() bool {
	return domain.IsFullyConfirmed(l.Status, l.PaymentStatus)
}

// CreateParams contains parameters for creating a lead.
type CreateParams struct {
	Name      string
	Email     string
	Phone     string
	Message   string
	Interest  domain.Interest
	RetreatID uuid.UUID
	Source    domain.Source
}

// ListParams filters and paginates the admin lead listing.
type ListParams struct {
	RetreatID *uuid.UUID
	Status    *domain.Status
	Search    string
	Offset    int
	Limit     int
	SortBy    string
	SortOrder string
}

// Stats aggregates the admin dashboard numbers.
type Stats struct {
	Total     int
	ByStatus  map[string]int
	TotalPaid float64
	ThisMonth int
}

// LeadReader provides read operations for leads.
type LeadReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (Lead, error)
	List(ctx context.Context, params ListParams) ([]Lead, int, error)
	ExistsByEmailAndRetreat(ctx context.Context, email string, retreatID uuid.UUID) (bool, error)
	ListByStatus(ctx context.Context, retreatID uuid.UUID, status domain.Status) ([]Lead, error)
	CountConfirmed(ctx context.Context, retreatID uuid.UUID) (int, error)
	CountConfirmedBatch(ctx context.Context, retreatIDs []uuid.UUID) (map[uuid.UUID]int, error)
	Stats(ctx context.Context, monthStart time.Time) (Stats, error)
}

// LeadWriter provides write operations for leads.
type LeadWriter interface {
	Create(ctx context.Context, params CreateParams) (Lead, error)
	Update(ctx context.Context, lead Lead) (Lead, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Repository combines all lead repository operations.
type Repository interface {
	LeadReader
	LeadWriter
}
