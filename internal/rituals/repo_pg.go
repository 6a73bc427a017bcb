package rituals

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const ritualColumns = `id, slug, name, category, summary, description, duration_minutes, price_cents, currency, image_key, active, sort_order, created_at, updated_at`

func (r *PGRepo) List(ctx context.Context, filter ListFilter) ([]Ritual, error) {
	var (
		where []string
		args  []any
	)
	if !filter.IncludeInactive {
		where = append(where, "active = TRUE")
	}
	if filter.Category != "" {
		args = append(args, filter.Category)
		where = append(where, "category = $1")
	}
	query := `SELECT ` + ritualColumns + ` FROM rituals`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY sort_order, name`

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Ritual{}
	for rows.Next() {
		item, err := scanRitual(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (Ritual, error) {
	return r.getOne(ctx, `SELECT `+ritualColumns+` FROM rituals WHERE id = $1 LIMIT 1`, id)
}

func (r *PGRepo) GetBySlug(ctx context.Context, slug string) (Ritual, error) {
	return r.getOne(ctx, `SELECT `+ritualColumns+` FROM rituals WHERE slug = $1 LIMIT 1`, slug)
}

func (r *PGRepo) getOne(ctx context.Context, query string, arg string) (Ritual, error) {
	item, err := scanRitual(r.DB.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Ritual{}, ErrNotFound
		}
		return Ritual{}, err
	}
	return item, nil
}

func (r *PGRepo) Create(ctx context.Context, item Ritual) error {
	const query = `
INSERT INTO rituals (id, slug, name, category, summary, description, duration_minutes, price_cents, currency, image_key, active, sort_order, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.DB.ExecContext(ctx, query,
		item.ID,
		item.Slug,
		item.Name,
		item.Category,
		item.Summary,
		item.Description,
		item.DurationMinutes,
		item.PriceCents,
		item.Currency,
		item.ImageKey,
		item.Active,
		item.SortOrder,
		item.CreatedAt,
		item.UpdatedAt,
	)
	return mapWriteErr(err)
}

func (r *PGRepo) Update(ctx context.Context, item Ritual) error {
	const query = `
UPDATE rituals SET
  slug = $2,
  name = $3,
  category = $4,
  summary = $5,
  description = $6,
  duration_minutes = $7,
  price_cents = $8,
  currency = $9,
  image_key = $10,
  active = $11,
  sort_order = $12,
  updated_at = $13
WHERE id = $1`
	res, err := r.DB.ExecContext(ctx, query,
		item.ID,
		item.Slug,
		item.Name,
		item.Category,
		item.Summary,
		item.Description,
		item.DurationMinutes,
		item.PriceCents,
		item.Currency,
		item.ImageKey,
		item.Active,
		item.SortOrder,
		item.UpdatedAt,
	)
	if err != nil {
		return mapWriteErr(err)
	}
	return requireAffected(res)
}

func (r *PGRepo) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM rituals WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRitual(row rowScanner) (Ritual, error) {
	var item Ritual
	err := row.Scan(
		&item.ID,
		&item.Slug,
		&item.Name,
		&item.Category,
		&item.Summary,
		&item.Description,
		&item.DurationMinutes,
		&item.PriceCents,
		&item.Currency,
		&item.ImageKey,
		&item.Active,
		&item.SortOrder,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	return item, err
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func mapWriteErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ErrSlugTaken
	}
	return err
}
