package middleware

import (
	portssvc "github.com/buildledger/site_ledger_app/internal/core/ports/services"
	"github.com/gin-gonic/gin"
)

// APITokenAuth authenticates requests carrying an x-api-key header holding a
// dispatcher API token. On failure it falls through to the JWT middleware
// rather than aborting, so either credential works.
func APITokenAuth(tokenSvc portssvc.APITokenSvc) gin.HandlerFunc {
	return func(c *gin.Context) {
		apiKey := c.GetHeader("x-api-key")
		if apiKey == "" {
			c.Next()
			return
		}

		userID, err := tokenSvc.ValidateToken(c.Request.Context(), apiKey)
		if err != nil {
			GetLoggerFromCtx(c.Request.Context()).Warn("API token validation failed", "error", err)
			c.Next()
			return
		}

		c.Set(string(userIDKey), userID)
		c.Set(string(authMethodKey), "api_token")
		c.Request = c.Request.WithContext(ContextWithUserID(c.Request.Context(), userID))
		c.Next()
	}
}
