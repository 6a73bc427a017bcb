package content

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"ritual-backend/internal/shared/telemetry"
)

// Service reads and edits site copy.
type Service struct {
	Repo Repo
	Now  func() time.Time
}

func NewService(repo Repo) *Service {
	return &Service{Repo: repo, Now: func() time.Time { return time.Now().UTC() }}
}

func (s *Service) Get(ctx context.Context, key string) (Block, error) {
	key = normalizeKey(key)
	if !ValidKey(key) {
		return Block{}, ErrNotFound
	}
	return s.Repo.Get(ctx, key)
}

// Put replaces the body stored under key.
func (s *Service) Put(ctx context.Context, key string, body json.RawMessage) (Block, error) {
	key = normalizeKey(key)
	if !ValidKey(key) {
		return Block{}, fmt.Errorf("%w: key must match %s", ErrInvalidInput, keyPattern.String())
	}
	body = bytes.TrimSpace(body)
	if len(body) == 0 || bytes.Equal(body, []byte("null")) {
		return Block{}, fmt.Errorf("%w: body is required", ErrInvalidInput)
	}
	if len(body) > maxBodyBytes {
		return Block{}, fmt.Errorf("%w: body exceeds %d bytes", ErrInvalidInput, maxBodyBytes)
	}
	if !json.Valid(body) {
		return Block{}, fmt.Errorf("%w: body must be valid JSON", ErrInvalidInput)
	}

	block := Block{Key: key, Body: body, UpdatedAt: s.Now()}
	if err := s.Repo.Upsert(ctx, block); err != nil {
		return Block{}, fmt.Errorf("store content block: %w", err)
	}
	telemetry.Info("content.updated", map[string]any{"key": key, "bytes": len(body)})
	return block, nil
}

func (s *Service) List(ctx context.Context) ([]Block, error) {
	return s.Repo.List(ctx)
}

func normalizeKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}
