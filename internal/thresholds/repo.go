package thresholds

import "context"

// Repo persists threshold settings between restarts.
type Repo interface {
	// Load returns ErrNotFound when nothing has been saved yet.
	Load(ctx context.Context) (Config, error)
	Save(ctx context.Context, cfg Config) error
}
