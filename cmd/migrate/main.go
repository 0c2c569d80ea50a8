package main

// Run database migrations:
//   go run ./cmd/migrate

import (
	"context"
	"os"

	"hiring-backend/internal/shared/config"
	"hiring-backend/internal/shared/storage/db"
	"hiring-backend/internal/shared/telemetry"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()
	defer telemetry.Sync()

	if cfg.DatabaseURL == "" {
		telemetry.Error("migrate.missing_database_url", nil)
		os.Exit(1)
	}

	opts := db.OptionsFromEnv(db.DefaultMigrateOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		telemetry.Error("migrate.connect_failed", map[string]any{"error": err})
		os.Exit(1)
	}
	defer sqlDB.Close()

	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		telemetry.Error("migrate.failed", map[string]any{"error": err})
		os.Exit(1)
	}
	names, _ := db.MigrationNames()
	telemetry.Info("migrate.done", map[string]any{"migrations": names})
}
