package thresholds

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"hiring-backend/internal/shared/telemetry"
)

// Service owns the process-wide threshold configuration. Readers always see a
// complete Config; updates are read-modify-write on the whole value.
// Writers are serialized by writeMu and persist without holding mu, so Get
// never waits on the repo.
type Service struct {
	writeMu sync.Mutex
	mu      sync.RWMutex
	cfg     Config
	repo    Repo
}

// NewService starts from initial, or Default() if initial is invalid. repo may be nil.
func NewService(initial Config, repo Repo) *Service {
	if err := initial.Validate(); err != nil {
		telemetry.Warn("thresholds.invalid_initial", map[string]any{"error": err.Error()})
		initial = Default()
	}
	return &Service{cfg: initial, repo: repo}
}

// Restore replaces the current config with the persisted one, if any.
func (s *Service) Restore(ctx context.Context) error {
	if s.repo == nil {
		return nil
	}
	cfg, err := s.repo.Load(ctx)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		return fmt.Errorf("load thresholds: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		telemetry.Warn("thresholds.persisted_invalid", map[string]any{"error": err.Error()})
		return nil
	}
	s.writeMu.Lock()
	s.mu.Lock()
	s.cfg = cfg
	s.mu.Unlock()
	s.writeMu.Unlock()
	telemetry.Info("thresholds.restored", map[string]any{"thresholds": cfg})
	return nil
}

// Get returns the current thresholds.
func (s *Service) Get() Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

// Update merges patch into the current thresholds. Nothing changes on error.
func (s *Service) Update(ctx context.Context, patch Patch) (Config, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	prev := s.Get()
	next, err := prev.Apply(patch)
	if err != nil {
		return prev, err
	}
	if s.repo != nil {
		if err := s.repo.Save(ctx, next); err != nil {
			return prev, fmt.Errorf("save thresholds: %w", err)
		}
	}
	s.mu.Lock()
	s.cfg = next
	s.mu.Unlock()
	telemetry.Info("thresholds.updated", map[string]any{"previous": prev, "current": next})
	return next, nil
}
