package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/buildledger/site_ledger_app/internal/core/ports/services"
	"github.com/buildledger/site_ledger_app/internal/dto"
	"github.com/buildledger/site_ledger_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// authHandler exchanges dispatcher API tokens for short-lived service JWTs.
type authHandler struct {
	tokenService portssvc.APITokenSvc
}

func newAuthHandler(ts portssvc.APITokenSvc) *authHandler {
	return &authHandler{tokenService: ts}
}

// registerAuthRoutes registers public authentication routes.
func registerAuthRoutes(r *gin.Engine, services *portssvc.ServiceContainer) {
	h := newAuthHandler(services.APIToken)

	auth := r.Group("/auth")
	{
		auth.POST("/token", h.exchangeToken)
	}
}

// exchangeToken godoc
// @Summary Exchange an API token for a JWT
// @Description Validates the x-api-key header and mints a short-lived bearer token for the same user.
// @Tags auth
// @Produce json
// @Success 200 {object} dto.TokenExchangeResponse
// @Failure 401 {object} map[string]string "Invalid or missing API token"
// @Failure 500 {object} map[string]string "Failed to issue token"
// @Router /auth/token [post]
func (h *authHandler) exchangeToken(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	apiKey := c.GetHeader("x-api-key")
	if apiKey == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "x-api-key header required"})
		return
	}

	userID, err := h.tokenService.ValidateToken(c.Request.Context(), apiKey)
	if err != nil {
		logger.Warn("API token validation failed", slog.String("error", err.Error()))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid API token"})
		return
	}

	signed, expiresAt, err := h.tokenService.IssueJWT(c.Request.Context(), userID)
	if err != nil {
		logger.Error("Failed to issue JWT", slog.String("error", err.Error()), slog.String("user_id", userID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue token"})
		return
	}

	c.JSON(http.StatusOK, dto.TokenExchangeResponse{AccessToken: signed, ExpiresAt: expiresAt})
}
