package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/buildledger/site_ledger_app/internal/apperrors"
	"github.com/buildledger/site_ledger_app/internal/core/domain"
	portssvc "github.com/buildledger/site_ledger_app/internal/core/ports/services"
	"github.com/buildledger/site_ledger_app/internal/dto"
	"github.com/buildledger/site_ledger_app/internal/middleware"
	"github.com/buildledger/site_ledger_app/internal/platform/config"
	"github.com/gin-gonic/gin"
)

// budgetHandler handles HTTP requests related to budgets and their evaluation.
type budgetHandler struct {
	budgetService portssvc.BudgetSvcFacade
	loc           *time.Location
}

// newBudgetHandler creates a new budgetHandler.
func newBudgetHandler(bs portssvc.BudgetSvcFacade, loc *time.Location) *budgetHandler {
	return &budgetHandler{budgetService: bs, loc: loc}
}

// registerBudgetRoutes registers budget routes nested under a project.
func registerBudgetRoutes(rg *gin.RouterGroup, cfg *config.Config, budgetService portssvc.BudgetSvcFacade) {
	h := newBudgetHandler(budgetService, cfg.Location)

	budgets := rg.Group("/budgets")
	{
		budgets.PUT("", h.setBudget)
		budgets.GET("", h.listBudgets)
		budgets.GET("/status", h.projectBudgetStatus)
		budgets.GET("/status/:category", h.budgetStatus)
	}
}

// setBudget godoc
// @Summary Set a category budget
// @Description Upserts the budget for a (project, category) pair. Replacing a budget deactivates the prior one atomically.
// @Tags budgets
// @Accept json
// @Produce json
// @Param project_id path string true "Project ID"
// @Param budget body dto.SetBudgetRequest true "Budget details"
// @Success 200 {object} dto.BudgetResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 403 {object} map[string]string "Forbidden (caller is not owner)"
// @Failure 404 {object} map[string]string "Project not found"
// @Security BearerAuth
// @Router /projects/{project_id}/budgets [put]
func (h *budgetHandler) setBudget(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	projectID := c.Param("project_id")

	var req dto.SetBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for SetBudget", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	category, err := domain.ParseCategory(req.Category)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var period domain.BudgetPeriod
	if req.Period != "" {
		period, err = domain.ParseBudgetPeriod(req.Period)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	logger = logger.With(slog.String("project_id", projectID), slog.String("user_id", userID), slog.String("category", string(category)))

	budget, err := h.budgetService.SetBudget(c.Request.Context(), userID, projectID, category, req.LimitAmount, period)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		} else if errors.Is(err, apperrors.ErrForbidden) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Only an owner can set budgets"})
		} else {
			logger.Error("Failed to set budget", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to set budget"})
		}
		return
	}

	logger.Info("Budget set", slog.String("budget_id", budget.BudgetID), slog.String("period", string(budget.Period)))
	c.JSON(http.StatusOK, dto.ToBudgetResponse(budget))
}

// listBudgets godoc
// @Summary List a project's active budgets
// @Tags budgets
// @Produce json
// @Param project_id path string true "Project ID"
// @Success 200 {object} dto.ListBudgetsResponse
// @Security BearerAuth
// @Router /projects/{project_id}/budgets [get]
func (h *budgetHandler) listBudgets(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	projectID := c.Param("project_id")

	budgets, err := h.budgetService.ListBudgets(c.Request.Context(), projectID)
	if err != nil {
		logger.Error("Failed to list budgets", slog.String("error", err.Error()), slog.String("project_id", projectID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list budgets"})
		return
	}

	c.JSON(http.StatusOK, dto.ToListBudgetsResponse(budgets))
}

// budgetStatus godoc
// @Summary Evaluate one category's budget
// @Description Compares spend against the active budget over the period containing asOf. 404 means no budget is set, which is distinct from "not exceeded".
// @Tags budgets
// @Produce json
// @Param project_id path string true "Project ID"
// @Param category path string true "Category"
// @Param asOf query string false "Evaluation date (YYYY-MM-DD)" default(current date)
// @Success 200 {object} dto.BudgetStatusResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "No active budget for the category"
// @Security BearerAuth
// @Router /projects/{project_id}/budgets/status/{category} [get]
func (h *budgetHandler) budgetStatus(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	projectID := c.Param("project_id")

	category, err := domain.ParseCategory(c.Param("category"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	asOf, ok := h.parseAsOf(c)
	if !ok {
		return
	}

	status, err := h.budgetService.BudgetStatus(c.Request.Context(), projectID, category, asOf)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No active budget for category " + string(category)})
			return
		}
		logger.Error("Failed to evaluate budget", slog.String("error", err.Error()), slog.String("project_id", projectID), slog.String("category", string(category)))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to evaluate budget"})
		return
	}

	c.JSON(http.StatusOK, dto.ToBudgetStatusResponse(status))
}

// projectBudgetStatus godoc
// @Summary Evaluate every active budget of a project
// @Description Evaluates each category independently; one category's failure appears in its entry and never aborts the others.
// @Tags budgets
// @Produce json
// @Param project_id path string true "Project ID"
// @Param asOf query string false "Evaluation date (YYYY-MM-DD)" default(current date)
// @Success 200 {object} dto.ProjectBudgetStatusResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Security BearerAuth
// @Router /projects/{project_id}/budgets/status [get]
func (h *budgetHandler) projectBudgetStatus(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	projectID := c.Param("project_id")

	asOf, ok := h.parseAsOf(c)
	if !ok {
		return
	}

	entries, err := h.budgetService.BudgetStatusForProject(c.Request.Context(), projectID, asOf)
	if err != nil {
		logger.Error("Failed to evaluate project budgets", slog.String("error", err.Error()), slog.String("project_id", projectID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to evaluate project budgets"})
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectBudgetStatusResponse(projectID, asOf, entries))
}

// parseAsOf reads the optional asOf query parameter, defaulting to now.
// Dates resolve in the configured zone so the evaluated period window matches
// the zone the aggregation engine buckets in. It writes the error response
// itself and reports success via ok.
func (h *budgetHandler) parseAsOf(c *gin.Context) (time.Time, bool) {
	asOfStr := c.Query("asOf")
	if asOfStr == "" {
		return time.Now(), true
	}
	asOf, err := time.ParseInLocation("2006-01-02", asOfStr, h.loc)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid asOf date format. Use YYYY-MM-DD"})
		return time.Time{}, false
	}
	return asOf, true
}
