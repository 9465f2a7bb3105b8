package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/land-registry-api/internal/service"
)

// AuditMeta attaches the client IP and user agent to the request context so audit rows written
// by services can record them.
func AuditMeta() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := service.WithAuditMeta(c.Request.Context(), c.ClientIP(), c.GetHeader("User-Agent"))
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
