package diagnostic

import "context"

// ConfigRepo persists the single active rule/prescription configuration.
type ConfigRepo interface {
	GetActive(ctx context.Context) (Tables, error)
	SaveActive(ctx context.Context, tables Tables) error
}
