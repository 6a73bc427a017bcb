package diagnostic

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// activeConfigID is the primary key of the only row diagnostic_config holds.
const activeConfigID = 1

// PGRepo implements ConfigRepo using Postgres JSONB columns.
type PGRepo struct {
	DB *sql.DB
}

// GetActive reads the active configuration row.
func (r *PGRepo) GetActive(ctx context.Context) (Tables, error) {
	const query = `
SELECT rules, prescriptions
FROM diagnostic_config
WHERE id = $1
LIMIT 1`
	var rulesRaw, prescriptionsRaw []byte
	err := r.DB.QueryRowContext(ctx, query, activeConfigID).Scan(&rulesRaw, &prescriptionsRaw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Tables{}, ErrNotFound
		}
		return Tables{}, err
	}

	var tables Tables
	if err := json.Unmarshal(rulesRaw, &tables.Rules); err != nil {
		return Tables{}, fmt.Errorf("decode rules: %w", err)
	}
	if err := json.Unmarshal(prescriptionsRaw, &tables.Prescriptions); err != nil {
		return Tables{}, fmt.Errorf("decode prescriptions: %w", err)
	}
	return tables, nil
}

// SaveActive upserts the active configuration row.
func (r *PGRepo) SaveActive(ctx context.Context, tables Tables) error {
	const query = `
INSERT INTO diagnostic_config (id, rules, prescriptions, updated_at)
VALUES ($1, $2, $3, now())
ON CONFLICT (id) DO UPDATE SET
  rules = EXCLUDED.rules,
  prescriptions = EXCLUDED.prescriptions,
  updated_at = now()`
	rules, err := json.Marshal(tables.Rules)
	if err != nil {
		return fmt.Errorf("encode rules: %w", err)
	}
	prescriptions, err := json.Marshal(tables.Prescriptions)
	if err != nil {
		return fmt.Errorf("encode prescriptions: %w", err)
	}
	_, err = r.DB.ExecContext(ctx, query, activeConfigID, string(rules), string(prescriptions))
	return err
}

var _ ConfigRepo = (*PGRepo)(nil)
