package leads

import (
	"context"
	"database/sql"
	"errors"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const leadColumns = `id, name, email, phone, message, source, service_slug, preferred_date, diagnostic_category, status, created_at, updated_at`

func (r *PGRepo) Create(ctx context.Context, lead Lead) error {
	const query = `
INSERT INTO leads (id, name, email, phone, message, source, service_slug, preferred_date, diagnostic_category, status, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.DB.ExecContext(ctx, query,
		lead.ID,
		lead.Name,
		lead.Email,
		lead.Phone,
		lead.Message,
		lead.Source,
		lead.ServiceSlug,
		lead.PreferredDate,
		lead.DiagnosticCategory,
		string(lead.Status),
		lead.CreatedAt,
		lead.UpdatedAt,
	)
	return err
}

func (r *PGRepo) Get(ctx context.Context, id string) (Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads WHERE id = $1`
	lead, err := scanLead(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Lead{}, ErrNotFound
		}
		return Lead{}, err
	}
	return lead, nil
}

// List returns leads newest-first plus the total count.
func (r *PGRepo) List(ctx context.Context, limit, offset int) ([]Lead, int, error) {
	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT count(*) FROM leads`).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + leadColumns + ` FROM leads ORDER BY created_at DESC, id DESC LIMIT $1 OFFSET $2`
	rows, err := r.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []Lead{}
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, lead)
	}
	return out, total, rows.Err()
}

func (r *PGRepo) UpdateStatus(ctx context.Context, id string, status Status) (Lead, error) {
	query := `UPDATE leads SET status = $2, updated_at = now() WHERE id = $1 RETURNING ` + leadColumns
	lead, err := scanLead(r.DB.QueryRowContext(ctx, query, id, string(status)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Lead{}, ErrNotFound
		}
		return Lead{}, err
	}
	return lead, nil
}

func (r *PGRepo) SetDiagnosticCategory(ctx context.Context, id, category string) (Lead, error) {
	query := `UPDATE leads SET diagnostic_category = $2, updated_at = now() WHERE id = $1 RETURNING ` + leadColumns
	lead, err := scanLead(r.DB.QueryRowContext(ctx, query, id, category))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Lead{}, ErrNotFound
		}
		return Lead{}, err
	}
	return lead, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLead(row rowScanner) (Lead, error) {
	var lead Lead
	var status string
	err := row.Scan(
		&lead.ID,
		&lead.Name,
		&lead.Email,
		&lead.Phone,
		&lead.Message,
		&lead.Source,
		&lead.ServiceSlug,
		&lead.PreferredDate,
		&lead.DiagnosticCategory,
		&status,
		&lead.CreatedAt,
		&lead.UpdatedAt,
	)
	lead.Status = Status(status)
	return lead, err
}
