package diagnostic

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"ritual-backend/internal/shared/metrics"
	"ritual-backend/internal/shared/telemetry"
)

// Service owns the live matcher and its persisted override.
type Service struct {
	Repo       ConfigRepo
	picker     Picker
	live       atomic.Pointer[Matcher]
	overridden atomic.Bool
}

// NewService builds a Service running on DefaultTables. A nil picker selects
// uniformly at random.
func NewService(repo ConfigRepo, picker Picker) *Service {
	if picker == nil {
		picker = RandomPicker()
	}
	s := &Service{Repo: repo, picker: picker}
	m, err := NewMatcher(DefaultTables(), picker)
	if err != nil {
		panic(fmt.Sprintf("diagnostic: default tables invalid: %v", err))
	}
	s.live.Store(m)
	return s
}

// Match scores text with the currently active tables.
func (s *Service) Match(text string) Result {
	res := s.live.Load().Match(text)
	metrics.IncDiagnosticMatch(string(res.Category))
	return res
}

// Prescribe draws a recommendation for an already known category.
func (s *Service) Prescribe(category Category) Recommendation {
	return s.live.Load().Prescribe(category)
}

// Tables returns a copy of the active tables.
func (s *Service) Tables() Tables {
	return s.live.Load().Tables()
}

// Apply validates tables and swaps them in without touching storage.
func (s *Service) Apply(tables Tables) error {
	m, err := NewMatcher(tables, s.picker)
	if err != nil {
		return err
	}
	s.live.Store(m)
	return nil
}

// LoadConfig fetches the stored override and makes it active. On any failure
// the previously active tables stay in place and the error is returned.
func (s *Service) LoadConfig(ctx context.Context) (Tables, error) {
	if s.Repo == nil {
		return Tables{}, errors.New("diagnostic repo not configured")
	}
	tables, err := s.Repo.GetActive(ctx)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			metrics.IncConfigLoadFailed()
			telemetry.Error("diagnostic.config.load_failed", map[string]any{"error": err.Error()})
		}
		return Tables{}, err
	}
	if err := s.Apply(tables); err != nil {
		metrics.IncConfigLoadFailed()
		telemetry.Error("diagnostic.config.invalid", map[string]any{"error": err.Error()})
		return Tables{}, err
	}
	s.overridden.Store(true)
	telemetry.Info("diagnostic.config.loaded", map[string]any{"rules": len(tables.Rules)})
	return tables.Clone(), nil
}

// ApplySeed makes seed tables live unless a stored override exists, in which
// case the override is re-applied and keeps precedence. When storage cannot
// be read and an override is already live, nothing changes.
func (s *Service) ApplySeed(ctx context.Context, seed Tables) error {
	m, err := NewMatcher(seed, s.picker)
	if err != nil {
		return err
	}
	if s.Repo != nil {
		stored, err := s.Repo.GetActive(ctx)
		if err == nil {
			override, verr := NewMatcher(stored, s.picker)
			if verr == nil {
				s.live.Store(override)
				s.overridden.Store(true)
				telemetry.Info("diagnostic.seed.shadowed", map[string]any{"rules": len(stored.Rules)})
				return nil
			}
			err = verr
		}
		if !errors.Is(err, ErrNotFound) && s.overridden.Load() {
			telemetry.Warn("diagnostic.seed.skipped", map[string]any{"error": err.Error()})
			return fmt.Errorf("stored override unreadable, seed not applied: %w", err)
		}
	}
	s.live.Store(m)
	s.overridden.Store(false)
	return nil
}

// SaveConfig persists tables as the active override and, only once storage
// accepted them, makes them live.
func (s *Service) SaveConfig(ctx context.Context, tables Tables) error {
	if s.Repo == nil {
		return errors.New("diagnostic repo not configured")
	}
	m, err := NewMatcher(tables, s.picker)
	if err != nil {
		return err
	}
	if err := s.Repo.SaveActive(ctx, tables); err != nil {
		metrics.IncConfigSaveFailed()
		telemetry.Error("diagnostic.config.save_failed", map[string]any{"error": err.Error()})
		return fmt.Errorf("save diagnostic config: %w", err)
	}
	s.live.Store(m)
	s.overridden.Store(true)
	telemetry.Info("diagnostic.config.saved", map[string]any{"rules": len(tables.Rules)})
	return nil
}
