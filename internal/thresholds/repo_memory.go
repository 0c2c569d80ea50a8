package thresholds

import (
	"context"
	"sync"
)

// MemoryRepo keeps settings in process memory.
type MemoryRepo struct {
	mu    sync.RWMutex
	cfg   Config
	saved bool
}

// NewMemoryRepo constructs an empty MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{}
}

func (r *MemoryRepo) Load(ctx context.Context) (Config, error) {
	if err := ctx.Err(); err != nil {
		return Config{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	if !r.saved {
		return Config{}, ErrNotFound
	}
	return r.cfg, nil
}

func (r *MemoryRepo) Save(ctx context.Context, cfg Config) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cfg = cfg
	r.saved = true
	return nil
}
