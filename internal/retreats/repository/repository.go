package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"retiros_backend/internal/retreats/domain"
	"retiros_backend/platform/apperr"
)

const retreatNotFoundMessage = "retreat not found"

const retreatColumns = `id, slug, title, description, short_description, target_audience, experiences,
	start_date, end_date, location, price, currency, pricing_tiers, max_participants,
	includes, not_includes, food_info, policies, images, hero_image_index, highlight_words,
	status, show_in_hero, whatsapp_number, created_at, updated_at`

// Repo implements the Repository interface with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new retreats repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

// GetByID retrieves a retreat by its ID.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (domain.Retreat, error) {
	query := `SELECT ` + retreatColumns + ` FROM retreats WHERE id = $1`

	retreat, err := scanRetreat(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Retreat{}, apperr.NotFound(retreatNotFoundMessage)
		}
		return domain.Retreat{}, fmt.Errorf("get retreat by id: %w", err)
	}
	return retreat, nil
}

// GetBySlug retrieves a retreat by its slug.
func (r *Repo) GetBySlug(ctx context.Context, slug string) (domain.Retreat, error) {
	query := `SELECT ` + retreatColumns + ` FROM retreats WHERE slug = $1`

	retreat, err := scanRetreat(r.pool.QueryRow(ctx, query, slug))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Retreat{}, apperr.NotFound(retreatNotFoundMessage)
		}
		return domain.Retreat{}, fmt.Errorf("get retreat by slug: %w", err)
	}
	return retreat, nil
}

// List retrieves retreats with filters, pagination and sorting.
func (r *Repo) List(ctx context.Context, params ListParams) ([]domain.Retreat, int, error) {
	var statusParam interface{}
	if params.Status != nil {
		statusParam = string(*params.Status)
	}
	var searchParam interface{}
	if params.Search != "" {
		searchParam = "%" + params.Search + "%"
	}
	var heroParam interface{}
	if params.ShowInHero != nil {
		heroParam = *params.ShowInHero
	}

	sortBy := "startDate"
	if params.SortBy != "" {
		switch params.SortBy {
		case "startDate", "title", "price", "createdAt":
			sortBy = params.SortBy
		default:
			return nil, 0, apperr.BadRequest("invalid sort field")
		}
	}

	sortOrder := "asc"
	if params.SortOrder != "" {
		switch params.SortOrder {
		case "asc", "desc":
			sortOrder = params.SortOrder
		default:
			return nil, 0, apperr.BadRequest("invalid sort order")
		}
	}

	args := []interface{}{statusParam, searchParam, heroParam}

	countQuery := `
		SELECT COUNT(*)
		FROM retreats
		WHERE ($1::text IS NULL OR status = $1)
			AND ($2::text IS NULL OR title ILIKE $2 OR slug ILIKE $2)
			AND ($3::boolean IS NULL OR show_in_hero = $3)`

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count retreats: %w", err)
	}

	query := `
		SELECT ` + retreatColumns + `
		FROM retreats
		WHERE ($1::text IS NULL OR status = $1)
			AND ($2::text IS NULL OR title ILIKE $2 OR slug ILIKE $2)
			AND ($3::boolean IS NULL OR show_in_hero = $3)
		ORDER BY
			CASE WHEN $4 = 'startDate' AND $5 = 'asc' THEN start_date END ASC,
			CASE WHEN $4 = 'startDate' AND $5 = 'desc' THEN start_date END DESC,
			CASE WHEN $4 = 'title' AND $5 = 'asc' THEN title END ASC,
			CASE WHEN $4 = 'title' AND $5 = 'desc' THEN title END DESC,
			CASE WHEN $4 = 'price' AND $5 = 'asc' THEN price END ASC,
			CASE WHEN $4 = 'price' AND $5 = 'desc' THEN price END DESC,
			CASE WHEN $4 = 'createdAt' AND $5 = 'asc' THEN created_at END ASC,
			CASE WHEN $4 = 'createdAt' AND $5 = 'desc' THEN created_at END DESC,
			start_date ASC
		LIMIT $6 OFFSET $7`

	args = append(args, sortBy, sortOrder, params.Limit, params.Offset)
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list retreats: %w", err)
	}
	defer rows.Close()

	items, err := scanRetreats(rows)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// ListHero returns upcoming active retreats (showInHero first, soonest first)
// plus up to pastLimit recently completed retreats for the landing page.
func (r *Repo) ListHero(ctx context.Context, now time.Time, pastLimit int) ([]domain.Retreat, []domain.Retreat, error) {
	upcomingQuery := `
		SELECT ` + retreatColumns + `
		FROM retreats
		WHERE status = 'active' AND start_date >= $1
		ORDER BY show_in_hero DESC, start_date ASC`

	rows, err := r.pool.Query(ctx, upcomingQuery, now)
	if err != nil {
		return nil, nil, fmt.Errorf("list hero retreats: %w", err)
	}
	defer rows.Close()

	upcoming, err := scanRetreats(rows)
	if err != nil {
		return nil, nil, err
	}

	pastQuery := `
		SELECT ` + retreatColumns + `
		FROM retreats
		WHERE status = 'completed' AND end_date < $1
		ORDER BY end_date DESC
		LIMIT $2`

	pastRows, err := r.pool.Query(ctx, pastQuery, now, pastLimit)
	if err != nil {
		return nil, nil, fmt.Errorf("list hero past retreats: %w", err)
	}
	defer pastRows.Close()

	past, err := scanRetreats(pastRows)
	if err != nil {
		return nil, nil, err
	}

	return upcoming, past, nil
}

// ListPast returns completed retreats that have concluded, newest first.
func (r *Repo) ListPast(ctx context.Context, now time.Time) ([]domain.Retreat, error) {
	query := `
		SELECT ` + retreatColumns + `
		FROM retreats
		WHERE status = 'completed' AND end_date < $1
		ORDER BY end_date DESC`

	rows, err := r.pool.Query(ctx, query, now)
	if err != nil {
		return nil, fmt.Errorf("list past retreats: %w", err)
	}
	defer rows.Close()

	return scanRetreats(rows)
}

// ListByStatuses returns all retreats in any of the given statuses.
func (r *Repo) ListByStatuses(ctx context.Context, statuses []domain.Status) ([]domain.Retreat, error) {
	values := make([]string, len(statuses))
	for i, s := range statuses {
		values[i] = string(s)
	}

	query := `
		SELECT ` + retreatColumns + `
		FROM retreats
		WHERE status = ANY($1)
		ORDER BY start_date ASC`

	rows, err := r.pool.Query(ctx, query, values)
	if err != nil {
		return nil, fmt.Errorf("list retreats by status: %w", err)
	}
	defer rows.Close()

	return scanRetreats(rows)
}

// SlugExists checks whether a slug is already taken, optionally excluding one retreat.
func (r *Repo) SlugExists(ctx context.Context, slug string, excludeID *uuid.UUID) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM retreats WHERE slug = $1 AND ($2::uuid IS NULL OR id <> $2))`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, slug, excludeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check slug exists: %w", err)
	}
	return exists, nil
}

// Create inserts a new retreat.
func (r *Repo) Create(ctx context.Context, retreat domain.Retreat) (domain.Retreat, error) {
	location, pricingTiers, foodInfo, policies, err := marshalJSONFields(retreat)
	if err != nil {
		return domain.Retreat{}, err
	}

	query := `
		INSERT INTO retreats (
			slug, title, description, short_description, target_audience, experiences,
			start_date, end_date, location, price, currency, pricing_tiers, max_participants,
			includes, not_includes, food_info, policies, images, hero_image_index,
			highlight_words, status, show_in_hero, whatsapp_number
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23)
		RETURNING ` + retreatColumns

	created, err := scanRetreat(r.pool.QueryRow(ctx, query,
		retreat.Slug, retreat.Title, retreat.Description, retreat.ShortDescription,
		retreat.TargetAudience, retreat.Experiences, retreat.StartDate, retreat.EndDate,
		location, retreat.Price, string(retreat.Currency), pricingTiers, retreat.MaxParticipants,
		retreat.Includes, retreat.NotIncludes, foodInfo, policies, retreat.Images,
		retreat.HeroImageIndex, retreat.HighlightWords, string(retreat.Status),
		retreat.ShowInHero, retreat.WhatsAppNumber,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Retreat{}, apperr.Conflict("a retreat with this slug already exists")
		}
		return domain.Retreat{}, fmt.Errorf("create retreat: %w", err)
	}
	return created, nil
}

// Update replaces a retreat's stored fields.
func (r *Repo) Update(ctx context.Context, retreat domain.Retreat) (domain.Retreat, error) {
	location, pricingTiers, foodInfo, policies, err := marshalJSONFields(retreat)
	if err != nil {
		return domain.Retreat{}, err
	}

	query := `
		UPDATE retreats SET
			slug = $2, title = $3, description = $4, short_description = $5,
			target_audience = $6, experiences = $7, start_date = $8, end_date = $9,
			location = $10, price = $11, currency = $12, pricing_tiers = $13,
			max_participants = $14, includes = $15, not_includes = $16, food_info = $17,
			policies = $18, images = $19, hero_image_index = $20, highlight_words = $21,
			status = $22, show_in_hero = $23, whatsapp_number = $24, updated_at = now()
		WHERE id = $1
		RETURNING ` + retreatColumns

	updated, err := scanRetreat(r.pool.QueryRow(ctx, query,
		retreat.ID, retreat.Slug, retreat.Title, retreat.Description, retreat.ShortDescription,
		retreat.TargetAudience, retreat.Experiences, retreat.StartDate, retreat.EndDate,
		location, retreat.Price, string(retreat.Currency), pricingTiers, retreat.MaxParticipants,
		retreat.Includes, retreat.NotIncludes, foodInfo, policies, retreat.Images,
		retreat.HeroImageIndex, retreat.HighlightWords, string(retreat.Status),
		retreat.ShowInHero, retreat.WhatsAppNumber,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Retreat{}, apperr.NotFound(retreatNotFoundMessage)
		}
		if isUniqueViolation(err) {
			return domain.Retreat{}, apperr.Conflict("a retreat with this slug already exists")
		}
		return domain.Retreat{}, fmt.Errorf("update retreat: %w", err)
	}
	return updated, nil
}

// Delete removes a retreat. Leads and tokens cascade at the schema level;
// testimonials keep their own participant data with retreat_id nulled.
func (r *Repo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM retreats WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete retreat: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(retreatNotFoundMessage)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func marshalJSONFields(retreat domain.Retreat) (location, pricingTiers, foodInfo, policies []byte, err error) {
	if location, err = json.Marshal(retreat.Location); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("marshal location: %w", err)
	}
	tiers := retreat.PricingTiers
	if tiers == nil {
		tiers = []domain.PricingTier{}
	}
	if pricingTiers, err = json.Marshal(tiers); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("marshal pricing tiers: %w", err)
	}
	if foodInfo, err = json.Marshal(retreat.FoodInfo); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("marshal food info: %w", err)
	}
	if policies, err = json.Marshal(retreat.Policies); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("marshal policies: %w", err)
	}
	return location, pricingTiers, foodInfo, policies, nil
}

func scanRetreat(row pgx.Row) (domain.Retreat, error) {
	var rt domain.Retreat
	var location, pricingTiers, foodInfo, policies []byte
	var currency, status string

	err := row.Scan(
		&rt.ID, &rt.Slug, &rt.Title, &rt.Description, &rt.ShortDescription,
		&rt.TargetAudience, &rt.Experiences, &rt.StartDate, &rt.EndDate,
		&location, &rt.Price, &currency, &pricingTiers, &rt.MaxParticipants,
		&rt.Includes, &rt.NotIncludes, &foodInfo, &policies, &rt.Images,
		&rt.HeroImageIndex, &rt.HighlightWords, &status, &rt.ShowInHero,
		&rt.WhatsAppNumber, &rt.CreatedAt, &rt.UpdatedAt,
	)
	if err != nil {
		return domain.Retreat{}, err
	}

	rt.Currency = domain.Currency(currency)
	rt.Status = domain.Status(status)

	if err := json.Unmarshal(location, &rt.Location); err != nil {
		return domain.Retreat{}, fmt.Errorf("unmarshal location: %w", err)
	}
	if err := json.Unmarshal(pricingTiers, &rt.PricingTiers); err != nil {
		return domain.Retreat{}, fmt.Errorf("unmarshal pricing tiers: %w", err)
	}
	if err := json.Unmarshal(foodInfo, &rt.FoodInfo); err != nil {
		return domain.Retreat{}, fmt.Errorf("unmarshal food info: %w", err)
	}
	if err := json.Unmarshal(policies, &rt.Policies); err != nil {
		return domain.Retreat{}, fmt.Errorf("unmarshal policies: %w", err)
	}

	return rt, nil
}

func scanRetreats(rows pgx.Rows) ([]domain.Retreat, error) {
	var results []domain.Retreat
	for rows.Next() {
		rt, err := scanRetreat(rows)
		if err != nil {
			return nil, fmt.Errorf("scan retreat: %w", err)
		}
		results = append(results, rt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate retreats: %w", err)
	}
	return results, nil
}
