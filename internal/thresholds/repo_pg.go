package thresholds

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// settingsRowID pins the single settings row.
const settingsRowID = 1

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB  *sql.DB
	Now func() time.Time
}

func (r *PGRepo) Load(ctx context.Context) (Config, error) {
	const query = `
SELECT level_1, level_2, level_3, composite
FROM threshold_settings
WHERE id = $1`
	var cfg Config
	err := r.DB.QueryRowContext(ctx, query, settingsRowID).Scan(&cfg.Level1, &cfg.Level2, &cfg.Level3, &cfg.Composite)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Config{}, ErrNotFound
		}
		return Config{}, err
	}
	return cfg, nil
}

func (r *PGRepo) Save(ctx context.Context, cfg Config) error {
	const query = `
INSERT INTO threshold_settings (id, level_1, level_2, level_3, composite, updated_at)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (id) DO UPDATE SET
	level_1 = EXCLUDED.level_1,
	level_2 = EXCLUDED.level_2,
	level_3 = EXCLUDED.level_3,
	composite = EXCLUDED.composite,
	updated_at = EXCLUDED.updated_at`
	now := time.Now
	if r.Now != nil {
		now = r.Now
	}
	_, err := r.DB.ExecContext(ctx, query, settingsRowID, cfg.Level1, cfg.Level2, cfg.Level3, cfg.Composite, now().UTC())
	return err
}
