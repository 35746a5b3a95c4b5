package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"retiros_backend/platform/apperr"
)

const settingsColumns = `id, facilitator, contact, social, site, email_settings, custom_texts, theme, is_active, created_at, updated_at`

// Repo implements Repository backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new settings repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

var _ Repository = (*Repo)(nil)

func (r *Repo) GetActive(ctx context.Context) (Settings, error) {
	query := fmt.Sprintf(`SELECT %s FROM settings WHERE is_active = TRUE`, settingsColumns)

	row := r.pool.QueryRow(ctx, query)
	settings, err := scanSettings(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Settings{}, apperr.NotFound("settings not found")
		}
		return Settings{}, fmt.Errorf("get active settings: %w", err)
	}
	return settings, nil
}

func (r *Repo) Create(ctx context.Context, s Settings) (Settings, error) {
	fields, err := marshalJSONFields(s)
	if err != nil {
		return Settings{}, err
	}

	query := fmt.Sprintf(`INSERT INTO settings (facilitator, contact, social, site, email_settings, custom_texts, theme, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING %s`, settingsColumns)

	row := r.pool.QueryRow(ctx, query,
		fields.facilitator, fields.contact, fields.social, fields.site,
		fields.emailSettings, fields.customTexts, fields.theme, s.IsActive)
	created, err := scanSettings(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Settings{}, apperr.Conflict("active settings already exist")
		}
		return Settings{}, fmt.Errorf("create settings: %w", err)
	}
	return created, nil
}

func (r *Repo) Update(ctx context.Context, s Settings) (Settings, error) {
	fields, err := marshalJSONFields(s)
	if err != nil {
		return Settings{}, err
	}

	query := fmt.Sprintf(`UPDATE settings SET
		facilitator = $2, contact = $3, social = $4, site = $5,
		email_settings = $6, custom_texts = $7, theme = $8, updated_at = now()
		WHERE id = $1
		RETURNING %s`, settingsColumns)

	row := r.pool.QueryRow(ctx, query, s.ID,
		fields.facilitator, fields.contact, fields.social, fields.site,
		fields.emailSettings, fields.customTexts, fields.theme)
	updated, err := scanSettings(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Settings{}, apperr.NotFound("settings not found")
		}
		return Settings{}, fmt.Errorf("update settings: %w", err)
	}
	return updated, nil
}

func (r *Repo) DeleteAll(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM settings`); err != nil {
		return fmt.Errorf("delete settings: %w", err)
	}
	return nil
}

type jsonFields struct {
	facilitator   []byte
	contact       []byte
	social        []byte
	site          []byte
	emailSettings []byte
	customTexts   []byte
	theme         []byte
}

func marshalJSONFields(s Settings) (jsonFields, error) {
	var fields jsonFields
	var err error
	if fields.facilitator, err = json.Marshal(s.Facilitator); err != nil {
		return jsonFields{}, fmt.Errorf("marshal facilitator: %w", err)
	}
	if fields.contact, err = json.Marshal(s.Contact); err != nil {
		return jsonFields{}, fmt.Errorf("marshal contact: %w", err)
	}
	if fields.social, err = json.Marshal(s.Social); err != nil {
		return jsonFields{}, fmt.Errorf("marshal social: %w", err)
	}
	if fields.site, err = json.Marshal(s.Site); err != nil {
		return jsonFields{}, fmt.Errorf("marshal site: %w", err)
	}
	if fields.emailSettings, err = json.Marshal(s.EmailSettings); err != nil {
		return jsonFields{}, fmt.Errorf("marshal email settings: %w", err)
	}
	if fields.customTexts, err = json.Marshal(s.CustomTexts); err != nil {
		return jsonFields{}, fmt.Errorf("marshal custom texts: %w", err)
	}
	if fields.theme, err = json.Marshal(s.Theme); err != nil {
		return jsonFields{}, fmt.Errorf("marshal theme: %w", err)
	}
	return fields, nil
}

func scanSettings(row pgx.Row) (Settings, error) {
	var s Settings
	var facilitator, contact, social, site, emailSettings, customTexts, theme []byte

	err := row.Scan(
		&s.ID, &facilitator, &contact, &social, &site,
		&emailSettings, &customTexts, &theme, &s.IsActive,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return Settings{}, err
	}

	for _, field := range []struct {
		data []byte
		dest any
	}{
		{facilitator, &s.Facilitator},
		{contact, &s.Contact},
		{social, &s.Social},
		{site, &s.Site},
		{emailSettings, &s.EmailSettings},
		{customTexts, &s.CustomTexts},
		{theme, &s.Theme},
	} {
		if len(field.data) == 0 {
			continue
		}
		if err := json.Unmarshal(field.data, field.dest); err != nil {
			return Settings{}, fmt.Errorf("unmarshal settings field: %w", err)
		}
	}
	return s, nil
}
