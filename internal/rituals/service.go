package rituals

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"ritual-backend/internal/diagnostic"
)

const (
	maxNameLen        = 120
	maxSummaryLen     = 400
	maxDescriptionLen = 8000
	defaultCurrency   = "EUR"
)

// Service manages the services catalogue.
type Service struct {
	Repo Repo
	Now  func() time.Time
}

func NewService(repo Repo) *Service {
	return &Service{Repo: repo, Now: func() time.Time { return time.Now().UTC() }}
}

// ListPublic returns active rituals ordered by sort order, optionally narrowed
// to one diagnostic category.
func (s *Service) ListPublic(ctx context.Context, category string) ([]Ritual, error) {
	filter := ListFilter{}
	if strings.TrimSpace(category) != "" {
		c, err := diagnostic.ParseCategory(category)
		if err != nil {
			return nil, fmt.Errorf("%w: unknown category %q", ErrInvalidInput, category)
		}
		filter.Category = string(c)
	}
	return s.Repo.List(ctx, filter)
}

// ListAll returns the whole catalogue including inactive entries.
func (s *Service) ListAll(ctx context.Context) ([]Ritual, error) {
	return s.Repo.List(ctx, ListFilter{IncludeInactive: true})
}

// GetPublic returns an active ritual by slug. Inactive rituals are reported as missing.
func (s *Service) GetPublic(ctx context.Context, slug string) (Ritual, error) {
	r, err := s.Repo.GetBySlug(ctx, strings.ToLower(strings.TrimSpace(slug)))
	if err != nil {
		return Ritual{}, err
	}
	if !r.Active {
		return Ritual{}, ErrNotFound
	}
	return r, nil
}

// Exists reports whether an active ritual with slug is published.
func (s *Service) Exists(ctx context.Context, slug string) (bool, error) {
	_, err := s.GetPublic(ctx, slug)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}

func (s *Service) Create(ctx context.Context, in Input) (Ritual, error) {
	now := s.Now()
	r := Ritual{
		ID:        uuid.NewString(),
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := apply(&r, in); err != nil {
		return Ritual{}, err
	}
	if err := s.Repo.Create(ctx, r); err != nil {
		return Ritual{}, err
	}
	return r, nil
}

func (s *Service) Update(ctx context.Context, id string, in Input) (Ritual, error) {
	r, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return Ritual{}, err
	}
	if err := apply(&r, in); err != nil {
		return Ritual{}, err
	}
	r.UpdatedAt = s.Now()
	if err := s.Repo.Update(ctx, r); err != nil {
		return Ritual{}, err
	}
	return r, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return ErrNotFound
	}
	return s.Repo.Delete(ctx, id)
}

func apply(r *Ritual, in Input) error {
	var problems []string

	name := strings.TrimSpace(in.Name)
	switch {
	case name == "":
		problems = append(problems, "name is required")
	case len(name) > maxNameLen:
		problems = append(problems, "name is too long")
	}

	slug := strings.ToLower(strings.TrimSpace(in.Slug))
	if slug == "" {
		slug = Slugify(name)
	}
	if !ValidSlug(slug) {
		problems = append(problems, "slug must be lowercase letters, digits and dashes")
	}

	category := ""
	if strings.TrimSpace(in.Category) != "" {
		c, err := diagnostic.ParseCategory(in.Category)
		if err != nil {
			problems = append(problems, "unknown category")
		}
		category = string(c)
	}

	if len(in.Summary) > maxSummaryLen {
		problems = append(problems, "summary is too long")
	}
	if len(in.Description) > maxDescriptionLen {
		problems = append(problems, "description is too long")
	}
	if in.DurationMinutes < 0 {
		problems = append(problems, "durationMinutes must not be negative")
	}
	if in.PriceCents < 0 {
		problems = append(problems, "priceCents must not be negative")
	}

	currency := strings.ToUpper(strings.TrimSpace(in.Currency))
	if currency == "" {
		currency = defaultCurrency
	}
	if len(currency) != 3 {
		problems = append(problems, "currency must be a 3-letter code")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidInput, strings.Join(problems, "; "))
	}

	r.Name = name
	r.Slug = slug
	r.Category = category
	r.Summary = strings.TrimSpace(in.Summary)
	r.Description = strings.TrimSpace(in.Description)
	r.DurationMinutes = in.DurationMinutes
	r.PriceCents = in.PriceCents
	r.Currency = currency
	r.ImageKey = strings.TrimSpace(in.ImageKey)
	r.SortOrder = in.SortOrder
	if in.Active != nil {
		r.Active = *in.Active
	}
	return nil
}
