package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"hiring-backend/internal/evaluations"
	"hiring-backend/internal/shared/config"
	"hiring-backend/internal/shared/server/middleware"
	"hiring-backend/internal/thresholds"
)

func newTestRouter(cfg config.Config) *gin.Engine {
	gin.SetMode(gin.TestMode)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	return NewRouter(RouterDeps{
		Config:            cfg,
		EvaluationHandler: evaluations.NewHandler(evaluations.NewService(evaluations.Deps{})),
		ThresholdsHandler: thresholds.NewHandler(thresholds.NewService(thresholds.Default(), nil)),
		RateLimiter:       middleware.NewRateLimiter(func() time.Time { return now }),
	})
}

func TestHealthAndMetrics(t *testing.T) {
	r := newTestRouter(config.Config{Env: "dev", LLMProvider: "placeholder"})

	for _, path := range []string{"/health", "/api/v1/health", "/metrics"} {
		resp := httptest.NewRecorder()
		r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, path, nil))
		if resp.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", path, resp.Code)
		}
	}
}

func TestThresholdUpdateRequiresAdminToken(t *testing.T) {
	r := newTestRouter(config.Config{Env: "production", AdminToken: "s3cret"})

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/config/thresholds", strings.NewReader(`{"level_1": 6}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.Code)
	}

	req = httptest.NewRequest(http.MethodPatch, "/api/v1/config/thresholds", strings.NewReader(`{"level_1": 6}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Admin-Token", "s3cret")
	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/config/thresholds", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected open read, got %d", resp.Code)
	}
}

func TestGenerationRoutesAreRateLimited(t *testing.T) {
	r := newTestRouter(config.Config{Env: "dev", RateLimitRPS: 1, RateLimitBurst: 2})

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		resp := httptest.NewRecorder()
		r.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/api/v1/rubric/generate", nil))
		codes = append(codes, resp.Code)
	}
	if codes[0] == http.StatusTooManyRequests || codes[1] == http.StatusTooManyRequests {
		t.Fatalf("burst should be allowed, got %v", codes)
	}
	if codes[2] != http.StatusTooManyRequests {
		t.Fatalf("expected third call to be limited, got %v", codes)
	}

	// Reads are not in the generation group.
	for i := 0; i < 5; i++ {
		resp := httptest.NewRecorder()
		r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/session", nil))
		if resp.Code != http.StatusOK {
			t.Fatalf("session read %d: got %d", i, resp.Code)
		}
	}
}

func TestAddr(t *testing.T) {
	cases := map[string]string{"": ":8080", "9000": ":9000", ":7000": ":7000"}
	for in, want := range cases {
		if got := Addr(in); got != want {
			t.Fatalf("Addr(%q) = %q, want %q", in, got, want)
		}
	}
}
