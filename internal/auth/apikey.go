package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/PratikDhanave/events-protocol-client/internal/events"
)

// tenantCtxKey is the Gin context key used to store the authenticated tenant ID.
const tenantCtxKey = "tenant_id"

// UnauthorizedName is the event name of the reply sent on rejected calls.
const UnauthorizedName = "auth:error"

// APIKeyMiddleware maps X-API-Key to a tenant ID.
// With no keys configured every request passes with an empty tenant.
// Rejections are still protocol envelopes, so clients classify them by name.
func APIKeyMiddleware(keys map[string]string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if len(keys) == 0 {
			c.Next()
			return
		}
		apiKey := strings.TrimSpace(c.GetHeader("X-API-Key"))
		tenantID, ok := keys[apiKey]
		if !ok {
			reply := events.NewEnvelope[any](UnauthorizedName, 1, gin.H{"error": "unauthorized"})
			c.AbortWithStatusJSON(http.StatusUnauthorized, reply)
			return
		}
		c.Set(tenantCtxKey, tenantID)
		c.Next()
	}
}

// TenantID returns the authenticated tenant ID from the request context.
func TenantID(c *gin.Context) string {
	v, _ := c.Get(tenantCtxKey)
	s, _ := v.(string)
	return s
}
