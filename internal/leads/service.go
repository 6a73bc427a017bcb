package leads

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"ritual-backend/internal/diagnostic"
	"ritual-backend/internal/queue"
	"ritual-backend/internal/shared/metrics"
	"ritual-backend/internal/shared/telemetry"
)

const (
	maxNameLen    = 120
	maxMessageLen = 4000
	maxSourceLen  = 40
	defaultSource = "website"
	defaultLimit  = 20
	maxLimit      = 100
)

var phonePattern = regexp.MustCompile(`^\+?[0-9 ().-]{6,20}$`)

// ServiceLookup confirms that a referenced service exists.
type ServiceLookup interface {
	Exists(ctx context.Context, slug string) (bool, error)
}

// Classifier maps a free-text lead message to a diagnostic category.
type Classifier interface {
	Classify(ctx context.Context, text string) (diagnostic.Category, error)
}

// Service records and manages leads. Queue and Classifier are optional; with
// a Queue, uncategorised leads that carry a message are sent for triage.
type Service struct {
	Repo       Repo
	Services   ServiceLookup
	Queue      queue.Client
	Classifier Classifier
	Now        func() time.Time
}

func NewService(repo Repo, services ServiceLookup) *Service {
	return &Service{
		Repo:     repo,
		Services: services,
		Now:      func() time.Time { return time.Now().UTC() },
	}
}

// Create validates a visitor submission and stores it as a new lead.
func (s *Service) Create(ctx context.Context, in Input) (Lead, error) {
	lead, err := normalize(in)
	if err != nil {
		return Lead{}, err
	}

	if lead.ServiceSlug != "" && s.Services != nil {
		ok, err := s.Services.Exists(ctx, lead.ServiceSlug)
		if err != nil {
			return Lead{}, fmt.Errorf("lookup service: %w", err)
		}
		if !ok {
			return Lead{}, fmt.Errorf("%w: unknown serviceSlug %q", ErrInvalidInput, lead.ServiceSlug)
		}
	}

	now := s.Now()
	lead.ID = uuid.NewString()
	lead.Status = StatusNew
	lead.CreatedAt = now
	lead.UpdatedAt = now

	if err := s.Repo.Create(ctx, lead); err != nil {
		telemetry.Error("lead.create_failed", map[string]any{"error": err.Error()})
		return Lead{}, fmt.Errorf("store lead: %w", err)
	}

	metrics.IncLeadCreated()
	telemetry.Info("lead.created", map[string]any{
		"lead_id":  lead.ID,
		"source":   lead.Source,
		"service":  lead.ServiceSlug,
		"category": lead.DiagnosticCategory,
	})
	s.enqueueTriage(ctx, lead)
	return lead, nil
}

// enqueueTriage is best effort: the lead is already stored.
func (s *Service) enqueueTriage(ctx context.Context, lead Lead) {
	if s.Queue == nil || lead.DiagnosticCategory != "" || lead.Message == "" {
		return
	}
	msg := queue.Message{
		LeadID:     lead.ID,
		RequestID:  queue.RequestIDFromContext(ctx),
		EnqueuedAt: s.Now().Format(time.RFC3339),
		Version:    queue.MessageVersion,
	}
	if err := s.Queue.Send(ctx, msg); err != nil {
		telemetry.Warn("lead.triage.enqueue_failed", map[string]any{"lead_id": lead.ID, "error": err.Error()})
	}
}

// TriageLead classifies the lead's message and stores the category. Leads
// that already carry a category or have no message are left untouched.
func (s *Service) TriageLead(ctx context.Context, id string) error {
	if s.Classifier == nil {
		return errors.New("lead classifier not configured")
	}
	lead, err := s.Repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if lead.DiagnosticCategory != "" || strings.TrimSpace(lead.Message) == "" {
		return nil
	}

	category, err := s.Classifier.Classify(ctx, lead.Message)
	if err != nil {
		return fmt.Errorf("classify lead: %w", err)
	}
	if _, err := s.Repo.SetDiagnosticCategory(ctx, id, string(category)); err != nil {
		return fmt.Errorf("store lead category: %w", err)
	}
	telemetry.Info("lead.triaged", map[string]any{"lead_id": id, "category": string(category)})
	return nil
}

// List returns one page of the inbox. limit is clamped to [1, 100].
func (s *Service) List(ctx context.Context, limit, offset int) (Page, error) {
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	if offset < 0 {
		offset = 0
	}
	items, total, err := s.Repo.List(ctx, limit, offset)
	if err != nil {
		return Page{}, err
	}
	return Page{Items: items, Total: total, Limit: limit, Offset: offset}, nil
}

// UpdateStatus moves a lead to status.
func (s *Service) UpdateStatus(ctx context.Context, id string, status Status) (Lead, error) {
	status = Status(strings.ToLower(strings.TrimSpace(string(status))))
	if !status.Valid() {
		return Lead{}, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, status)
	}
	if strings.TrimSpace(id) == "" {
		return Lead{}, ErrNotFound
	}
	return s.Repo.UpdateStatus(ctx, id, status)
}

func normalize(in Input) (Lead, error) {
	var problems []string

	name := strings.TrimSpace(in.Name)
	switch {
	case name == "":
		problems = append(problems, "name is required")
	case len(name) > maxNameLen:
		problems = append(problems, "name is too long")
	}

	email := strings.TrimSpace(in.Email)
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		problems = append(problems, "email is invalid")
	}

	phone := strings.TrimSpace(in.Phone)
	if phone != "" && !phonePattern.MatchString(phone) {
		problems = append(problems, "phone is invalid")
	}

	message := strings.TrimSpace(in.Message)
	if len(message) > maxMessageLen {
		problems = append(problems, "message is too long")
	}

	source := strings.ToLower(strings.TrimSpace(in.Source))
	if source == "" {
		source = defaultSource
	}
	if len(source) > maxSourceLen {
		problems = append(problems, "source is too long")
	}

	preferred := strings.TrimSpace(in.PreferredDate)
	if preferred != "" {
		if _, err := time.Parse(time.DateOnly, preferred); err != nil {
			problems = append(problems, "preferredDate must be YYYY-MM-DD")
		}
	}

	category := ""
	if strings.TrimSpace(in.DiagnosticCategory) != "" {
		c, err := diagnostic.ParseCategory(in.DiagnosticCategory)
		if err != nil {
			problems = append(problems, "diagnosticCategory is unknown")
		}
		category = string(c)
	}

	if len(problems) > 0 {
		return Lead{}, fmt.Errorf("%w: %s", ErrInvalidInput, strings.Join(problems, "; "))
	}

	return Lead{
		Name:               name,
		Email:              strings.ToLower(email),
		Phone:              phone,
		Message:            message,
		Source:             source,
		ServiceSlug:        strings.ToLower(strings.TrimSpace(in.ServiceSlug)),
		PreferredDate:      preferred,
		DiagnosticCategory: category,
	}, nil
}
