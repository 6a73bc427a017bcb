package rituals

import "context"

// Repo persists the services catalogue.
type Repo interface {
	List(ctx context.Context, filter ListFilter) ([]Ritual, error)
	GetByID(ctx context.Context, id string) (Ritual, error)
	GetBySlug(ctx context.Context, slug string) (Ritual, error)
	Create(ctx context.Context, r Ritual) error
	Update(ctx context.Context, r Ritual) error
	Delete(ctx context.Context, id string) error
}
