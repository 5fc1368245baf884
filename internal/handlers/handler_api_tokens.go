package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/buildledger/site_ledger_app/internal/apperrors"
	portssvc "github.com/buildledger/site_ledger_app/internal/core/ports/services"
	"github.com/buildledger/site_ledger_app/internal/dto"
	"github.com/buildledger/site_ledger_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// apiTokenHandler handles HTTP requests for dispatcher API tokens.
type apiTokenHandler struct {
	tokenService portssvc.APITokenSvc
}

// newAPITokenHandler creates a new apiTokenHandler.
func newAPITokenHandler(ts portssvc.APITokenSvc) *apiTokenHandler {
	return &apiTokenHandler{tokenService: ts}
}

// registerAPITokenRoutes registers the API token routes.
func registerAPITokenRoutes(rg *gin.RouterGroup, tokenService portssvc.APITokenSvc) {
	h := newAPITokenHandler(tokenService)

	tokens := rg.Group("/tokens")
	{
		tokens.POST("", h.createToken)
		tokens.GET("", h.listTokens)
		tokens.DELETE("/:token_id", h.revokeToken)
	}
}

// createToken godoc
// @Summary Create an API token
// @Description Issues a new API token for the calling user. The plaintext is returned exactly once.
// @Tags tokens
// @Accept json
// @Produce json
// @Param token body dto.CreateAPITokenRequest true "Token details"
// @Success 201 {object} dto.CreateAPITokenResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /tokens [post]
func (h *apiTokenHandler) createToken(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateAPITokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateToken", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	token, plaintext, err := h.tokenService.CreateToken(c.Request.Context(), userID, req.Name, req.ExpiresAt)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Failed to create API token", slog.String("error", err.Error()), slog.String("user_id", userID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create API token"})
		return
	}

	c.JSON(http.StatusCreated, dto.CreateAPITokenResponse{
		Token:     dto.ToAPITokenResponse(token),
		Plaintext: plaintext,
	})
}

// listTokens godoc
// @Summary List the calling user's API tokens
// @Tags tokens
// @Produce json
// @Success 200 {object} dto.ListAPITokensResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /tokens [get]
func (h *apiTokenHandler) listTokens(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	tokens, err := h.tokenService.ListTokens(c.Request.Context(), userID)
	if err != nil {
		logger.Error("Failed to list API tokens", slog.String("error", err.Error()), slog.String("user_id", userID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list API tokens"})
		return
	}

	c.JSON(http.StatusOK, dto.ToListAPITokensResponse(tokens))
}

// revokeToken godoc
// @Summary Revoke an API token
// @Tags tokens
// @Param token_id path string true "Token ID"
// @Success 204 "No Content"
// @Failure 404 {object} map[string]string "Token not found"
// @Security BearerAuth
// @Router /tokens/{token_id} [delete]
func (h *apiTokenHandler) revokeToken(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tokenID := c.Param("token_id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.tokenService.RevokeToken(c.Request.Context(), userID, tokenID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Token not found"})
			return
		}
		logger.Error("Failed to revoke API token", slog.String("error", err.Error()), slog.String("token_id", tokenID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to revoke API token"})
		return
	}

	c.Status(http.StatusNoContent)
}
