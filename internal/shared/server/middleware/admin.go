package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"hiring-backend/internal/shared/server/respond"
)

const principalKey = "principal"

// AdminToken guards administrative routes. An empty token leaves the routes open,
// which is only expected in dev.
func AdminToken(token string) gin.HandlerFunc {
	expected := []byte(strings.TrimSpace(token))
	return func(c *gin.Context) {
		if len(expected) == 0 {
			c.Set(principalKey, "anonymous")
			c.Next()
			return
		}

		supplied := strings.TrimSpace(c.GetHeader("X-Admin-Token"))
		if supplied == "" {
			authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
			if strings.HasPrefix(authHeader, "Bearer ") {
				supplied = strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
			}
		}
		if supplied == "" {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing admin token", nil)
			return
		}
		if subtle.ConstantTimeCompare([]byte(supplied), expected) != 1 {
			respond.Error(c, http.StatusForbidden, "forbidden", "invalid admin token", nil)
			return
		}

		c.Set(principalKey, "admin")
		c.Next()
	}
}

// PrincipalFromContext returns who passed the admin gate, if anyone.
func PrincipalFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(principalKey)
	if p, ok := val.(string); ok {
		return p
	}
	return ""
}
