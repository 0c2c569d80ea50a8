package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"hiring-backend/internal/shared/telemetry"
)

// Context keys handlers may set to enrich the request log line.
const (
	SessionIDKey       = "sessionId"
	StageTransitionKey = "stageTransition"
)

// Logging emits a structured log per request.
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		latency := time.Since(start)

		fields := map[string]any{
			"request_id":       RequestIDFromContext(c),
			"method":           c.Request.Method,
			"path":             c.Request.URL.Path,
			"route":            c.FullPath(),
			"status":           c.Writer.Status(),
			"duration_ms":      float64(latency.Microseconds()) / 1000.0,
			"session_id":       c.GetString(SessionIDKey),
			"stage_transition": c.GetString(StageTransitionKey),
			"client_ip":        c.ClientIP(),
			"user_agent":       c.Request.UserAgent(),
		}
		if p := PrincipalFromContext(c); p != "" {
			fields["principal"] = p
		}
		telemetry.Info("request.complete", fields)
	}
}
