package diagnostic

import (
	"context"
	"sync"
)

// MemoryRepo keeps the active configuration in process memory.
type MemoryRepo struct {
	mu     sync.RWMutex
	tables *Tables
}

// NewMemoryRepo constructs an empty MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{}
}

// GetActive returns the stored configuration or ErrNotFound.
func (r *MemoryRepo) GetActive(ctx context.Context) (Tables, error) {
	if err := ctx.Err(); err != nil {
		return Tables{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.tables == nil {
		return Tables{}, ErrNotFound
	}
	return r.tables.Clone(), nil
}

// SaveActive replaces the stored configuration.
func (r *MemoryRepo) SaveActive(ctx context.Context, tables Tables) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	clone := tables.Clone()
	r.mu.Lock()
	r.tables = &clone
	r.mu.Unlock()
	return nil
}
