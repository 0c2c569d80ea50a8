package bootstrap

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"hiring-backend/internal/shared/config"
	"hiring-backend/internal/thresholds"
)

func devConfig() config.Config {
	return config.Config{
		Env:                "dev",
		LLMProvider:        "placeholder",
		GitHubAPIURL:       "https://api.github.com",
		ValidatorTimeout:   time.Second,
		Level1Threshold:    7,
		Level2Threshold:    6,
		Level3Threshold:    8,
		CompositeThreshold: 8,
		ReportStore:        "none",
	}
}

func TestBuildWithoutDatabase(t *testing.T) {
	app, err := Build(context.Background(), devConfig())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if app.DB != nil || app.Store != nil || app.Queue != nil {
		t.Fatalf("expected optional collaborators to be disabled")
	}
	if got := app.Thresholds.Get(); got.Level1 != 7 || got.Composite != 8 {
		t.Fatalf("unexpected thresholds: %+v", got)
	}

	resp := httptest.NewRecorder()
	app.Router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/session", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
}

func TestBuildLocalStore(t *testing.T) {
	cfg := devConfig()
	cfg.ReportStore = "local"
	cfg.LocalStoreDir = t.TempDir()
	app, err := BuildCore(context.Background(), cfg)
	if err != nil {
		t.Fatalf("BuildCore: %v", err)
	}
	if app.Store == nil {
		t.Fatalf("expected local store")
	}
}

func TestProviderFallsBackInDev(t *testing.T) {
	cfg := devConfig()
	cfg.LLMProvider = "openai"
	if _, err := buildProvider(context.Background(), cfg); err != nil {
		t.Fatalf("expected dev fallback, got %v", err)
	}

	cfg.Env = "production"
	if _, err := buildProvider(context.Background(), cfg); err == nil {
		t.Fatalf("expected missing key to fail in production")
	}
}

func TestInvalidThresholdsFallBackToDefaults(t *testing.T) {
	cfg := devConfig()
	cfg.Level1Threshold = 42
	svc, err := buildThresholds(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("buildThresholds: %v", err)
	}
	if got := svc.Get(); got.Level1 != 7 {
		t.Fatalf("expected default level 1, got %+v", got)
	}
}

func TestThresholdUpdatesWithoutDatabaseUseMemoryRepo(t *testing.T) {
	svc, err := buildThresholds(context.Background(), devConfig(), nil)
	if err != nil {
		t.Fatalf("buildThresholds: %v", err)
	}
	level1 := 5.5
	if _, err := svc.Update(context.Background(), thresholds.Patch{Level1: &level1}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if err := svc.Restore(context.Background()); err != nil {
		t.Fatalf("restore: %v", err)
	}
	if got := svc.Get(); got.Level1 != 5.5 {
		t.Fatalf("expected restored level 1 of 5.5, got %+v", got)
	}
}
