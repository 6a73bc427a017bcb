package leads

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepo stores leads in process memory.
type MemoryRepo struct {
	mu    sync.RWMutex
	leads map[string]Lead
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{leads: make(map[string]Lead)}
}

func (m *MemoryRepo) Create(ctx context.Context, lead Lead) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.leads[lead.ID] = lead
	return nil
}

func (m *MemoryRepo) Get(ctx context.Context, id string) (Lead, error) {
	if err := ctx.Err(); err != nil {
		return Lead{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	lead, ok := m.leads[id]
	if !ok {
		return Lead{}, ErrNotFound
	}
	return lead, nil
}

// List returns leads newest-first plus the total count.
func (m *MemoryRepo) List(ctx context.Context, limit, offset int) ([]Lead, int, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	m.mu.RLock()
	all := make([]Lead, 0, len(m.leads))
	for _, l := range m.leads {
		all = append(all, l)
	}
	m.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].ID > all[j].ID
	})
	total := len(all)
	if offset >= total {
		return []Lead{}, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return all[offset:end], total, nil
}

func (m *MemoryRepo) UpdateStatus(ctx context.Context, id string, status Status) (Lead, error) {
	if err := ctx.Err(); err != nil {
		return Lead{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	lead, ok := m.leads[id]
	if !ok {
		return Lead{}, ErrNotFound
	}
	lead.Status = status
	lead.UpdatedAt = time.Now().UTC()
	m.leads[id] = lead
	return lead, nil
}

func (m *MemoryRepo) SetDiagnosticCategory(ctx context.Context, id, category string) (Lead, error) {
	if err := ctx.Err(); err != nil {
		return Lead{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	lead, ok := m.leads[id]
	if !ok {
		return Lead{}, ErrNotFound
	}
	lead.DiagnosticCategory = category
	lead.UpdatedAt = time.Now().UTC()
	m.leads[id] = lead
	return lead, nil
}
