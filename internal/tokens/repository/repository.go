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

	"retiros_backend/platform/apperr"
)

const tokenColumns = `id, token, email, participant_name, retreat_id, is_used, used_at, expires_at, testimonial_id, created_at, updated_at`

// Repo implements Repository backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new token repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

var _ Repository = (*Repo)(nil)

func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (Token, error) {
	query := fmt.Sprintf(`SELECT %s FROM testimonial_tokens WHERE id = $1`, tokenColumns)

	row := r.pool.QueryRow(ctx, query, id)
	token, err := scanToken(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Token{}, apperr.NotFound("token not found")
		}
		return Token{}, fmt.Errorf("get token: %w", err)
	}
	return token, nil
}

func (r *Repo) GetValidByToken(ctx context.Context, tokenStr string, now time.Time) (Token, error) {
	query := fmt.Sprintf(`SELECT %s FROM testimonial_tokens
		WHERE token = $1 AND is_used = FALSE AND expires_at > $2`, tokenColumns)

	row := r.pool.QueryRow(ctx, query, tokenStr, now)
	token, err := scanToken(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Token{}, apperr.NotFound("token not found or expired")
		}
		return Token{}, fmt.Errorf("get valid token: %w", err)
	}
	return token, nil
}

func (r *Repo) List(ctx context.Context, params ListParams) ([]Token, int, error) {
	countQuery := `SELECT COUNT(*) FROM testimonial_tokens
		WHERE ($1::uuid IS NULL OR retreat_id = $1)
		  AND ($2::boolean IS NULL OR is_used = $2)`

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, params.RetreatID, params.Used).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count tokens: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM testimonial_tokens
		WHERE ($1::uuid IS NULL OR retreat_id = $1)
		  AND ($2::boolean IS NULL OR is_used = $2)
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4`, tokenColumns)

	rows, err := r.pool.Query(ctx, query, params.RetreatID, params.Used, params.Limit, params.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list tokens: %w", err)
	}
	defer rows.Close()

	tokens, err := scanTokens(rows)
	if err != nil {
		return nil, 0, err
	}
	return tokens, total, nil
}

func (r *Repo) ListEmailsByRetreat(ctx context.Context, retreatID uuid.UUID) ([]string, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT email FROM testimonial_tokens WHERE retreat_id = $1`, retreatID)
	if err != nil {
		return nil, fmt.Errorf("list token emails: %w", err)
	}
	defer rows.Close()

	var emails []string
	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return nil, fmt.Errorf("scan token email: %w", err)
		}
		emails = append(emails, email)
	}
	return emails, rows.Err()
}

func (r *Repo) Stats(ctx context.Context, now time.Time) (Stats, error) {
	query := `SELECT
		COUNT(*),
		COUNT(*) FILTER (WHERE is_used),
		COUNT(*) FILTER (WHERE NOT is_used AND expires_at <= $1),
		COUNT(*) FILTER (WHERE NOT is_used AND expires_at > $1)
	FROM testimonial_tokens`

	var stats Stats
	err := r.pool.QueryRow(ctx, query, now).Scan(&stats.Total, &stats.Used, &stats.Expired, &stats.Active)
	if err != nil {
		return Stats{}, fmt.Errorf("token stats: %w", err)
	}
	return stats, nil
}

func (r *Repo) Create(ctx context.Context, params CreateParams) (Token, error) {
	query := fmt.Sprintf(`INSERT INTO testimonial_tokens (token, email, participant_name, retreat_id, expires_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING %s`, tokenColumns)

	row := r.pool.QueryRow(ctx, query,
		params.Token, params.Email, params.ParticipantName, params.RetreatID, params.ExpiresAt)
	token, err := scanToken(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505":
				return Token{}, apperr.Conflict("a token already exists for this participant and retreat")
			case "23503":
				return Token{}, apperr.Validation("retreat does not exist")
			}
		}
		return Token{}, fmt.Errorf("create token: %w", err)
	}
	return token, nil
}

func (r *Repo) Replace(ctx context.Context, oldID uuid.UUID, params CreateParams) (Token, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return Token{}, fmt.Errorf("begin replace token: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `DELETE FROM testimonial_tokens WHERE id = $1`, oldID)
	if err != nil {
		return Token{}, fmt.Errorf("delete old token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return Token{}, apperr.NotFound("token not found")
	}

	query := fmt.Sprintf(`INSERT INTO testimonial_tokens (token, email, participant_name, retreat_id, expires_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING %s`, tokenColumns)

	row := tx.QueryRow(ctx, query,
		params.Token, params.Email, params.ParticipantName, params.RetreatID, params.ExpiresAt)
	token, err := scanToken(row)
	if err != nil {
		return Token{}, fmt.Errorf("insert replacement token: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return Token{}, fmt.Errorf("commit replace token: %w", err)
	}
	return token, nil
}

func (r *Repo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM testimonial_tokens WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("token not found")
	}
	return nil
}

func (r *Repo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM testimonial_tokens WHERE is_used = FALSE AND expires_at <= $1`, now)
	if err != nil {
		return 0, fmt.Errorf("delete expired tokens: %w", err)
	}
	return tag.RowsAffected(), nil
}

func scanToken(row pgx.Row) (Token, error) {
	var t Token
	err := row.Scan(
		&t.ID, &t.Token, &t.Email, &t.ParticipantName, &t.RetreatID,
		&t.IsUsed, &t.UsedAt, &t.ExpiresAt, &t.TestimonialID,
		&t.CreatedAt, &t.UpdatedAt,
	)
	return t, err
}

func scanTokens(rows pgx.Rows) ([]Token, error) {
	tokens := make([]Token, 0)
	for rows.Next() {
		t, err := scanToken(rows)
		if err != nil {
			return nil, fmt.Errorf("scan token: %w", err)
		}
		tokens = append(tokens, t)
	}
	return tokens, rows.Err()
}
