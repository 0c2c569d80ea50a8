package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"hiring-backend/internal/evaluations"
	"hiring-backend/internal/services/health"
	"hiring-backend/internal/shared/config"
	"hiring-backend/internal/shared/metrics"
	"hiring-backend/internal/shared/server/middleware"
	"hiring-backend/internal/shared/server/respond"
	"hiring-backend/internal/thresholds"
)

// RouterDeps carries the handlers mounted by NewRouter.
type RouterDeps struct {
	Config            config.Config
	Health            *health.Service
	EvaluationHandler *evaluations.Handler
	ThresholdsHandler *thresholds.Handler
	RateLimiter       *middleware.RateLimiter
}

// Routes that call the analysis provider share the stricter rate limit group.
var generationRoutes = map[string]bool{
	"/api/v1/rubric/generate":      true,
	"/api/v1/rubric/refine":        true,
	"/api/v1/resume/evaluate-text": true,
	"/api/v1/resume/evaluate-file": true,
	"/api/v1/github/analyze":       true,
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	cfg := deps.Config
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(cfg.CORSAllowOrigin),
	)

	healthSvc := deps.Health
	if healthSvc == nil {
		healthSvc = health.NewService(cfg.Env, cfg.LLMProvider, false, nil)
	}
	healthHandler := func(c *gin.Context) {
		status := healthSvc.Status(c.Request.Context())
		code := http.StatusOK
		if !status.OK {
			code = http.StatusServiceUnavailable
		}
		respond.JSON(c, code, status)
	}
	r.GET("/health", healthHandler)
	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	api.Use(middleware.RateLimit(middleware.RateLimitConfig{
		Rules: map[string]middleware.RateLimitRule{
			middleware.GenerationGroup: {Rate: cfg.RateLimitRPS, Burst: cfg.RateLimitBurst},
		},
		GroupFor: generationGroup,
		Limiter:  deps.RateLimiter,
	}))
	api.GET("/health", healthHandler)

	if deps.EvaluationHandler != nil {
		deps.EvaluationHandler.RegisterRoutes(api)
	}
	if deps.ThresholdsHandler != nil {
		deps.ThresholdsHandler.RegisterRoutes(api, middleware.AdminToken(cfg.AdminToken))
	}

	return r
}

func generationGroup(c *gin.Context) string {
	if c.Request.Method == http.MethodPost && generationRoutes[strings.TrimRight(c.Request.URL.Path, "/")] {
		return middleware.GenerationGroup
	}
	return ""
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
