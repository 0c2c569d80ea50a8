package thresholds

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func newTestRouter(svc *Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(svc).RegisterRoutes(r.Group("/api/v1"), nil)
	return r
}

func TestGetThresholds(t *testing.T) {
	r := newTestRouter(NewService(Default(), nil))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/config/thresholds", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var got Config
	if err := json.Unmarshal(resp.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got != Default() {
		t.Fatalf("unexpected thresholds: %+v", got)
	}
}

func TestUpdateThresholdsPartial(t *testing.T) {
	svc := NewService(Default(), nil)
	r := newTestRouter(svc)

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/config/thresholds", strings.NewReader(`{"level_1": 6.5}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	if got := svc.Get(); got.Level1 != 6.5 || got.Level2 != 6.0 {
		t.Fatalf("unexpected thresholds: %+v", got)
	}
}

func TestUpdateThresholdsOutOfRange(t *testing.T) {
	r := newTestRouter(NewService(Default(), nil))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/config/thresholds", strings.NewReader(`{"level_2": -1}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), ErrorCodeValidation) {
		t.Fatalf("expected validation code, got %s", resp.Body.String())
	}
}
