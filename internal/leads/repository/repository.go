package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"retiros_backend/internal/leads/domain"
	"retiros_backend/platform/apperr"
)

const leadNotFoundMessage = "lead not found"

const leadColumns = `id, name, email, phone, message, interest, status, payment_status,
	payment_amount, payment_method, retreat_id, notes, source, contacted_at, confirmed_at,
	created_at, updated_at`

// confirmedFilter is the canonical confirmed-participant predicate in SQL.
// It must stay in lockstep with domain.IsFullyConfirmed.
const confirmedFilter = `status = 'confirmado' AND payment_status = 'completo'`

// Repo implements the Repository interface with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new leads repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

// GetByID retrieves a lead by its ID.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads WHERE id = $1`

	lead, err := scanLead(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Lead{}, apperr.NotFound(leadNotFoundMessage)
		}
		return Lead{}, fmt.Errorf("get lead by id: %w", err)
	}
	return lead, nil
}

// List retrieves leads with filters, pagination and sorting.
func (r *Repo) List(ctx context.Context, params ListParams) ([]Lead, int, error) {
	var retreatParam interface{}
	if params.RetreatID != nil {
		retreatParam = *params.RetreatID
	}
	var statusParam interface{}
	if params.Status != nil {
		statusParam = string(*params.Status)
	}
	var searchParam interface{}
	if params.Search != "" {
		searchParam = "%" + params.Search + "%"
	}

	sortBy := "createdAt"
	if params.SortBy != "" {
		switch params.SortBy {
		case "createdAt", "name", "status":
			sortBy = params.SortBy
		default:
			return nil, 0, apperr.BadRequest("invalid sort field")
		}
	}

	sortOrder := "desc"
	if params.SortOrder != "" {
		switch params.SortOrder {
		case "asc", "desc":
			sortOrder = params.SortOrder
		default:
			return nil, 0, apperr.BadRequest("invalid sort order")
		}
	}

	args := []interface{}{retreatParam, statusParam, searchParam}

	countQuery := `
		SELECT COUNT(*)
		FROM leads
		WHERE ($1::uuid IS NULL OR retreat_id = $1)
			AND ($2::text IS NULL OR status = $2)
			AND ($3::text IS NULL OR name ILIKE $3 OR email ILIKE $3 OR phone ILIKE $3)`

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count leads: %w", err)
	}

	query := `
		SELECT ` + leadColumns + `
		FROM leads
		WHERE ($1::uuid IS NULL OR retreat_id = $1)
			AND ($2::text IS NULL OR status = $2)
			AND ($3::text IS NULL OR name ILIKE $3 OR email ILIKE $3 OR phone ILIKE $3)
		ORDER BY
			CASE WHEN $4 = 'createdAt' AND $5 = 'asc' THEN created_at END ASC,
			CASE WHEN $4 = 'createdAt' AND $5 = 'desc' THEN created_at END DESC,
			CASE WHEN $4 = 'name' AND $5 = 'asc' THEN name END ASC,
			CASE WHEN $4 = 'name' AND $5 = 'desc' THEN name END DESC,
			CASE WHEN $4 = 'status' AND $5 = 'asc' THEN status END ASC,
			CASE WHEN $4 = 'status' AND $5 = 'desc' THEN status END DESC,
			created_at DESC
		LIMIT $6 OFFSET $7`

	args = append(args, sortBy, sortOrder, params.Limit, params.Offset)
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list leads: %w", err)
	}
	defer rows.Close()

	items, err := scanLeads(rows)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// ExistsByEmailAndRetreat checks the one-inquiry-per-person-per-retreat rule.
func (r *Repo) ExistsByEmailAndRetreat(ctx context.Context, email string, retreatID uuid.UUID) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM leads WHERE email = $1 AND retreat_id = $2)`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, email, retreatID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check lead exists: %w", err)
	}
	return exists, nil
}

// ListByStatus returns all leads of a retreat in the given status.
func (r *Repo) ListByStatus(ctx context.Context, retreatID uuid.UUID, status domain.Status) ([]Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads WHERE retreat_id = $1 AND status = $2 ORDER BY created_at ASC`

	rows, err := r.pool.Query(ctx, query, retreatID, string(status))
	if err != nil {
		return nil, fmt.Errorf("list leads by status: %w", err)
	}
	defer rows.Close()

	return scanLeads(rows)
}

// CountConfirmed counts fully confirmed participants of one retreat.
func (r *Repo) CountConfirmed(ctx context.Context, retreatID uuid.UUID) (int, error) {
	query := `SELECT COUNT(*) FROM leads WHERE retreat_id = $1 AND ` + confirmedFilter

	var count int
	if err := r.pool.QueryRow(ctx, query, retreatID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count confirmed leads: %w", err)
	}
	return count, nil
}

// CountConfirmedBatch counts fully confirmed participants for many retreats
// in one aggregate query. Retreats without confirmed leads are absent from
// the map; callers read missing keys as zero.
func (r *Repo) CountConfirmedBatch(ctx context.Context, retreatIDs []uuid.UUID) (map[uuid.UUID]int, error) {
	query := `
		SELECT retreat_id, COUNT(*)
		FROM leads
		WHERE retreat_id = ANY($1) AND ` + confirmedFilter + `
		GROUP BY retreat_id`

	rows, err := r.pool.Query(ctx, query, retreatIDs)
	if err != nil {
		return nil, fmt.Errorf("count confirmed leads batch: %w", err)
	}
	defer rows.Close()

	counts := make(map[uuid.UUID]int, len(retreatIDs))
	for rows.Next() {
		var id uuid.UUID
		var count int
		if err := rows.Scan(&id, &count); err != nil {
			return nil, fmt.Errorf("scan confirmed count: %w", err)
		}
		counts[id] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate confirmed counts: %w", err)
	}
	return counts, nil
}

// Stats aggregates lead totals for the admin dashboard.
func (r *Repo) Stats(ctx context.Context, monthStart time.Time) (Stats, error) {
	stats := Stats{ByStatus: make(map[string]int)}

	rows, err := r.pool.Query(ctx, `SELECT status, COUNT(*) FROM leads GROUP BY status`)
	if err != nil {
		return Stats{}, fmt.Errorf("lead status stats: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return Stats{}, fmt.Errorf("scan lead status stat: %w", err)
		}
		stats.ByStatus[status] = count
		stats.Total += count
	}
	if err := rows.Err(); err != nil {
		return Stats{}, fmt.Errorf("iterate lead status stats: %w", err)
	}

	paidQuery := `SELECT COALESCE(SUM(payment_amount), 0) FROM leads WHERE ` + confirmedFilter
	if err := r.pool.QueryRow(ctx, paidQuery).Scan(&stats.TotalPaid); err != nil {
		return Stats{}, fmt.Errorf("lead paid stats: %w", err)
	}

	monthQuery := `SELECT COUNT(*) FROM leads WHERE created_at >= $1`
	if err := r.pool.QueryRow(ctx, monthQuery, monthStart).Scan(&stats.ThisMonth); err != nil {
		return Stats{}, fmt.Errorf("lead month stats: %w", err)
	}

	return stats, nil
}

// Create inserts a new lead.
func (r *Repo) Create(ctx context.Context, params CreateParams) (Lead, error) {
	query := `
		INSERT INTO leads (name, email, phone, message, interest, retreat_id, source)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + leadColumns

	lead, err := scanLead(r.pool.QueryRow(ctx, query,
		params.Name, params.Email, params.Phone, params.Message,
		string(params.Interest), params.RetreatID, string(params.Source),
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505":
				return Lead{}, apperr.Conflict("an inquiry with this email already exists for this retreat")
			case "23503":
				return Lead{}, apperr.Validation("retreat does not exist")
			}
		}
		return Lead{}, fmt.Errorf("create lead: %w", err)
	}
	return lead, nil
}

// Update replaces a lead's mutable fields.
func (r *Repo) Update(ctx context.Context, lead Lead) (Lead, error) {
	query := `
		UPDATE leads SET
			name = $2, email = $3, phone = $4, message = $5, interest = $6,
			status = $7, payment_status = $8, payment_amount = $9, payment_method = $10,
			notes = $11, source = $12, contacted_at = $13, confirmed_at = $14,
			updated_at = now()
		WHERE id = $1
		RETURNING ` + leadColumns

	updated, err := scanLead(r.pool.QueryRow(ctx, query,
		lead.ID, lead.Name, lead.Email, lead.Phone, lead.Message, string(lead.Interest),
		string(lead.Status), string(lead.PaymentStatus), lead.PaymentAmount,
		string(lead.PaymentMethod), lead.Notes, string(lead.Source),
		lead.ContactedAt, lead.ConfirmedAt,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Lead{}, apperr.NotFound(leadNotFoundMessage)
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Lead{}, apperr.Conflict("an inquiry with this email already exists for this retreat")
		}
		return Lead{}, fmt.Errorf("update lead: %w", err)
	}
	return updated, nil
}

// Delete removes a lead.
func (r *Repo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM leads WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete lead: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(leadNotFoundMessage)
	}
	return nil
}

func scanLead(row pgx.Row) (Lead, error) {
	var l Lead
	var interest, status, paymentStatus, paymentMethod, source string

	err := row.Scan(
		&l.ID, &l.Name, &l.Email, &l.Phone, &l.Message, &interest, &status,
		&paymentStatus, &l.PaymentAmount, &paymentMethod, &l.RetreatID, &l.Notes,
		&source, &l.ContactedAt, &l.ConfirmedAt, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return Lead{}, err
	}

	l.Interest = domain.Interest(interest)
	l.Status = domain.Status(status)
	l.PaymentStatus = domain.PaymentStatus(paymentStatus)
	l.PaymentMethod = domain.PaymentMethod(paymentMethod)
	l.Source = domain.Source(source)
	return l, nil
}

func scanLeads(rows pgx.Rows) ([]Lead, error) {
	var results []Lead
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, fmt.Errorf("scan lead: %w", err)
		}
		results = append(results, lead)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate leads: %w", err)
	}
	return results, nil
}
