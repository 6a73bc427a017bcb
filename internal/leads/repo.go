package leads

import "context"

// Repo persists leads.
type Repo interface {
	Create(ctx context.Context, lead Lead) error
	Get(ctx context.Context, id string) (Lead, error)
	List(ctx context.Context, limit, offset int) ([]Lead, int, error)
	UpdateStatus(ctx context.Context, id string, status Status) (Lead, error)
	SetDiagnosticCategory(ctx context.Context, id, category string) (Lead, error)
}
