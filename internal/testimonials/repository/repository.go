package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"retiros_backend/platform/apperr"
)

const testimonialColumns = `id, name, email, photo, retreat_id, rating, comment, is_approved, is_featured, approved_at, token, notes, created_at, updated_at`

// Repo implements Repository backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new testimonial repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

var _ Repository = (*Repo)(nil)

func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (Testimonial, error) {
	query := fmt.Sprintf(`SELECT %s FROM testimonials WHERE id = $1`, testimonialColumns)

	row := r.pool.QueryRow(ctx, query, id)
	testimonial, err := scanTestimonial(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Testimonial{}, apperr.NotFound("testimonial not found")
		}
		return Testimonial{}, fmt.Errorf("get testimonial: %w", err)
	}
	return testimonial, nil
}

func (r *Repo) List(ctx context.Context, params ListParams) ([]Testimonial, int, error) {
	countQuery := `SELECT COUNT(*) FROM testimonials
		WHERE ($1::uuid IS NULL OR retreat_id = $1)
		  AND ($2::boolean IS NULL OR is_approved = $2)
		  AND ($3::boolean IS NULL OR is_featured = $3)`

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, params.RetreatID, params.Approved, params.Featured).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count testimonials: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM testimonials
		WHERE ($1::uuid IS NULL OR retreat_id = $1)
		  AND ($2::boolean IS NULL OR is_approved = $2)
		  AND ($3::boolean IS NULL OR is_featured = $3)
		ORDER BY created_at DESC
		LIMIT $4 OFFSET $5`, testimonialColumns)

	rows, err := r.pool.Query(ctx, query,
		params.RetreatID, params.Approved, params.Featured, params.Limit, params.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list testimonials: %w", err)
	}
	defer rows.Close()

	testimonials, err := scanTestimonials(rows)
	if err != nil {
		return nil, 0, err
	}
	return testimonials, total, nil
}

func (r *Repo) ListApproved(ctx context.Context, retreatID *uuid.UUID) ([]Testimonial, error) {
	query := fmt.Sprintf(`SELECT %s FROM testimonials
		WHERE is_approved = TRUE
		  AND ($1::uuid IS NULL OR retreat_id = $1)
		ORDER BY created_at DESC`, testimonialColumns)

	rows, err := r.pool.Query(ctx, query, retreatID)
	if err != nil {
		return nil, fmt.Errorf("list approved testimonials: %w", err)
	}
	defer rows.Close()

	return scanTestimonials(rows)
}

func (r *Repo) ListFeatured(ctx context.Context, limit int) ([]Testimonial, error) {
	query := fmt.Sprintf(`SELECT %s FROM testimonials
		WHERE is_approved = TRUE AND is_featured = TRUE
		ORDER BY rating DESC, created_at DESC
		LIMIT $1`, testimonialColumns)

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list featured testimonials: %w", err)
	}
	defer rows.Close()

	return scanTestimonials(rows)
}

func (r *Repo) Create(ctx context.Context, params CreateParams) (Testimonial, error) {
	query := fmt.Sprintf(`INSERT INTO testimonials (name, email, photo, retreat_id, rating, comment, is_approved, is_featured, approved_at, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING %s`, testimonialColumns)

	row := r.pool.QueryRow(ctx, query,
		params.Name, params.Email, params.Photo, params.RetreatID,
		params.Rating, params.Comment, params.IsApproved, params.IsFeatured, params.ApprovedAt, params.Notes)
	testimonial, err := scanTestimonial(row)
	if err != nil {
		return Testimonial{}, fmt.Errorf("create testimonial: %w", err)
	}
	return testimonial, nil
}

func (r *Repo) CreateFromToken(ctx context.Context, token string, now time.Time, params SubmitParams) (Testimonial, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return Testimonial{}, fmt.Errorf("begin redeem: %w", err)
	}
	defer tx.Rollback(ctx)

	// The conditional flip is the linearization point: of two concurrent
	// redemptions, only one UPDATE matches a row.
	var (
		tokenID   uuid.UUID
		email     string
		name      string
		retreatID uuid.UUID
	)
	err = tx.QueryRow(ctx, `UPDATE testimonial_tokens
		SET is_used = TRUE, used_at = $2, updated_at = $2
		WHERE token = $1 AND is_used = FALSE AND expires_at > $2
		RETURNING id, email, participant_name, retreat_id`,
		token, now).Scan(&tokenID, &email, &name, &retreatID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Testimonial{}, apperr.NotFound("token not found or expired")
		}
		return Testimonial{}, fmt.Errorf("consume token: %w", err)
	}

	query := fmt.Sprintf(`INSERT INTO testimonials (name, email, photo, retreat_id, rating, comment, is_approved, is_featured, token)
		VALUES ($1, $2, $3, $4, $5, $6, FALSE, FALSE, $7)
		RETURNING %s`, testimonialColumns)

	row := tx.QueryRow(ctx, query, name, email, params.Photo, retreatID, params.Rating, params.Comment, token)
	testimonial, err := scanTestimonial(row)
	if err != nil {
		return Testimonial{}, fmt.Errorf("insert testimonial: %w", err)
	}

	if _, err := tx.Exec(ctx,
		`UPDATE testimonial_tokens SET testimonial_id = $2 WHERE id = $1`,
		tokenID, testimonial.ID); err != nil {
		return Testimonial{}, fmt.Errorf("link token to testimonial: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return Testimonial{}, fmt.Errorf("commit redeem: %w", err)
	}
	return testimonial, nil
}

func (r *Repo) Update(ctx context.Context, t Testimonial) (Testimonial, error) {
	query := fmt.Sprintf(`UPDATE testimonials SET
		name = $2, email = $3, photo = $4, retreat_id = $5, rating = $6,
		comment = $7, is_approved = $8, is_featured = $9, approved_at = $10,
		notes = $11, updated_at = now()
		WHERE id = $1
		RETURNING %s`, testimonialColumns)

	row := r.pool.QueryRow(ctx, query,
		t.ID, t.Name, t.Email, t.Photo, t.RetreatID, t.Rating,
		t.Comment, t.IsApproved, t.IsFeatured, t.ApprovedAt, t.Notes)
	updated, err := scanTestimonial(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Testimonial{}, apperr.NotFound("testimonial not found")
		}
		return Testimonial{}, fmt.Errorf("update testimonial: %w", err)
	}
	return updated, nil
}

func (r *Repo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM testimonials WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete testimonial: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("testimonial not found")
	}
	return nil
}

func scanTestimonial(row pgx.Row) (Testimonial, error) {
	var t Testimonial
	err := row.Scan(
		&t.ID, &t.Name, &t.Email, &t.Photo, &t.RetreatID, &t.Rating,
		&t.Comment, &t.IsApproved, &t.IsFeatured, &t.ApprovedAt, &t.Token,
		&t.Notes, &t.CreatedAt, &t.UpdatedAt,
	)
	return t, err
}

func scanTestimonials(rows pgx.Rows) ([]Testimonial, error) {
	testimonials := make([]Testimonial, 0)
	for rows.Next() {
		t, err := scanTestimonial(rows)
		if err != nil {
			return nil, fmt.Errorf("scan testimonial: %w", err)
		}
		testimonials = append(testimonials, t)
	}
	return testimonials, rows.Err()
}
