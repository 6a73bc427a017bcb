package rituals

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo keeps the catalogue in process memory.
type MemoryRepo struct {
	mu    sync.RWMutex
	items map[string]Ritual
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{items: make(map[string]Ritual)}
}

func (m *MemoryRepo) List(ctx context.Context, filter ListFilter) ([]Ritual, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	out := make([]Ritual, 0, len(m.items))
	for _, r := range m.items {
		if !filter.IncludeInactive && !r.Active {
			continue
		}
		if filter.Category != "" && r.Category != filter.Category {
			continue
		}
		out = append(out, r)
	}
	m.mu.RUnlock()
	sortCatalogue(out)
	return out, nil
}

func (m *MemoryRepo) GetByID(ctx context.Context, id string) (Ritual, error) {
	if err := ctx.Err(); err != nil {
		return Ritual{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.items[id]
	if !ok {
		return Ritual{}, ErrNotFound
	}
	return r, nil
}

func (m *MemoryRepo) GetBySlug(ctx context.Context, slug string) (Ritual, error) {
	if err := ctx.Err(); err != nil {
		return Ritual{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, r := range m.items {
		if r.Slug == slug {
			return r, nil
		}
	}
	return Ritual{}, ErrNotFound
}

func (m *MemoryRepo) Create(ctx context.Context, r Ritual) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.slugTakenLocked(r.Slug, r.ID) {
		return ErrSlugTaken
	}
	m.items[r.ID] = r
	return nil
}

func (m *MemoryRepo) Update(ctx context.Context, r Ritual) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.items[r.ID]
	if !ok {
		return ErrNotFound
	}
	if m.slugTakenLocked(r.Slug, r.ID) {
		return ErrSlugTaken
	}
	r.CreatedAt = existing.CreatedAt
	m.items[r.ID] = r
	return nil
}

func (m *MemoryRepo) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return ErrNotFound
	}
	delete(m.items, id)
	return nil
}

func (m *MemoryRepo) slugTakenLocked(slug, id string) bool {
	for _, r := range m.items {
		if r.Slug == slug && r.ID != id {
			return true
		}
	}
	return false
}

func sortCatalogue(items []Ritual) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].SortOrder != items[j].SortOrder {
			return items[i].SortOrder < items[j].SortOrder
		}
		return items[i].Name < items[j].Name
	})
}
