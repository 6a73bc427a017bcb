package content

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"sync"
)

// Repo persists content blocks.
type Repo interface {
	Get(ctx context.Context, key string) (Block, error)
	Upsert(ctx context.Context, block Block) error
	List(ctx context.Context) ([]Block, error)
}

// MemoryRepo keeps blocks in process memory.
type MemoryRepo struct {
	mu     sync.RWMutex
	blocks map[string]Block
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{blocks: make(map[string]Block)}
}

func (m *MemoryRepo) Get(ctx context.Context, key string) (Block, error) {
	if err := ctx.Err(); err != nil {
		return Block{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.blocks[key]
	if !ok {
		return Block{}, ErrNotFound
	}
	return b, nil
}

func (m *MemoryRepo) Upsert(ctx context.Context, block Block) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blocks[block.Key] = block
	return nil
}

func (m *MemoryRepo) List(ctx context.Context) ([]Block, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	out := make([]Block, 0, len(m.blocks))
	for _, b := range m.blocks {
		out = append(out, b)
	}
	m.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Get(ctx context.Context, key string) (Block, error) {
	const query = `SELECT key, body, updated_at FROM content_blocks WHERE key = $1 LIMIT 1`
	var b Block
	var body string
	err := r.DB.QueryRowContext(ctx, query, key).Scan(&b.Key, &body, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Block{}, ErrNotFound
		}
		return Block{}, err
	}
	b.Body = []byte(body)
	return b, nil
}

func (r *PGRepo) Upsert(ctx context.Context, block Block) error {
	const query = `
INSERT INTO content_blocks (key, body, updated_at)
VALUES ($1, $2, $3)
ON CONFLICT (key) DO UPDATE SET
  body = EXCLUDED.body,
  updated_at = EXCLUDED.updated_at`
	_, err := r.DB.ExecContext(ctx, query, block.Key, string(block.Body), block.UpdatedAt)
	return err
}

func (r *PGRepo) List(ctx context.Context) ([]Block, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT key, body, updated_at FROM content_blocks ORDER BY key`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Block{}
	for rows.Next() {
		var b Block
		var body string
		if err := rows.Scan(&b.Key, &body, &b.UpdatedAt); err != nil {
			return nil, err
		}
		b.Body = []byte(body)
		out = append(out, b)
	}
	return out, rows.Err()
}
