package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/land-registry-api/internal/models"
	appErrors "github.com/noah-isme/land-registry-api/pkg/errors"
	"github.com/noah-isme/land-registry-api/pkg/response"
)

// CapabilityChecker answers whether a principal holds a capability.
type CapabilityChecker interface {
	Require(actor *models.JWTClaims, capability models.Capability) error
}

// RequireCapability rejects requests whose principal lacks any of the listed capabilities.
// Services repeat the check; this only stops obviously forbidden calls at the edge.
func RequireCapability(checker CapabilityChecker, capabilities ...models.Capability) gin.HandlerFunc {
	return func(c *gin.Context) {
		value, exists := c.Get(ContextUserKey)
		if !exists {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}
		claims, ok := value.(*models.JWTClaims)
		if !ok {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}

		var lastErr error
		for _, capability := range capabilities {
			if err := checker.Require(claims, capability); err != nil {
				lastErr = err
				continue
			}
			c.Next()
			return
		}
		if lastErr == nil {
			lastErr = appErrors.ErrForbidden
		}
		response.Error(c, lastErr)
		c.Abort()
	}
}
