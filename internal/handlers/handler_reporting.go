package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/buildledger/site_ledger_app/internal/apperrors"
	portssvc "github.com/buildledger/site_ledger_app/internal/core/ports/services"
	"github.com/buildledger/site_ledger_app/internal/dto"
	"github.com/buildledger/site_ledger_app/internal/middleware"
	"github.com/buildledger/site_ledger_app/internal/platform/config"
	"github.com/gin-gonic/gin"
)

// reportingHandler handles HTTP requests related to expense reports.
type reportingHandler struct {
	reportingService portssvc.ReportingSvcFacade
	loc              *time.Location
}

// newReportingHandler creates a new reportingHandler.
func newReportingHandler(rs portssvc.ReportingSvcFacade, loc *time.Location) *reportingHandler {
	return &reportingHandler{reportingService: rs, loc: loc}
}

// registerReportingRoutes registers report routes nested under a project.
func registerReportingRoutes(rg *gin.RouterGroup, cfg *config.Config, reportingService portssvc.ReportingSvcFacade) {
	h := newReportingHandler(reportingService, cfg.Location)

	reports := rg.Group("/reports")
	{
		reports.GET("/summary", h.getProjectReport)
		reports.GET("/category-totals", h.getCategoryTotals)
		reports.GET("/daily", h.getDailyBreakdown)
		reports.GET("/day", h.getDailyExpenses)
	}
}

// parseWindow reads the from/to query parameters as local dates and returns
// the half-open window [from, to). Defaults cover the current calendar month.
// It writes the error response itself and reports success via ok.
func (h *reportingHandler) parseWindow(c *gin.Context) (time.Time, time.Time, bool) {
	now := time.Now().In(h.loc)
	defaultFrom := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, h.loc)
	defaultTo := defaultFrom.AddDate(0, 1, 0)

	from := defaultFrom
	if fromStr := c.Query("from"); fromStr != "" {
		parsed, err := time.ParseInLocation("2006-01-02", fromStr, h.loc)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid from date format. Use YYYY-MM-DD"})
			return time.Time{}, time.Time{}, false
		}
		from = parsed
	}

	to := defaultTo
	if toStr := c.Query("to"); toStr != "" {
		parsed, err := time.ParseInLocation("2006-01-02", toStr, h.loc)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid to date format. Use YYYY-MM-DD"})
			return time.Time{}, time.Time{}, false
		}
		to = parsed
	}

	return from, to, true
}

// getProjectReport godoc
// @Summary Generate a project expense summary
// @Description Bundles total spend, per-category totals over the full category set and the entry count for a half-open [from, to) window.
// @Tags reports
// @Produce json
// @Param project_id path string true "Project ID"
// @Param from query string false "Start date inclusive (YYYY-MM-DD)" default(first day of current month)
// @Param to query string false "End date exclusive (YYYY-MM-DD)" default(first day of next month)
// @Success 200 {object} dto.ProjectReportResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Project not found"
// @Security BearerAuth
// @Router /projects/{project_id}/reports/summary [get]
func (h *reportingHandler) getProjectReport(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	projectID := c.Param("project_id")

	from, to, ok := h.parseWindow(c)
	if !ok {
		return
	}

	report, err := h.reportingService.ProjectReport(c.Request.Context(), projectID, from, to)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		} else if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to generate project report", slog.String("error", err.Error()), slog.String("project_id", projectID))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate project report"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectReportResponse(report))
}

// getCategoryTotals godoc
// @Summary Per-category spend totals
// @Description Sums amounts per category over a half-open [from, to) window. Categories without transactions are omitted unless includeZero=true.
// @Tags reports
// @Produce json
// @Param project_id path string true "Project ID"
// @Param from query string false "Start date inclusive (YYYY-MM-DD)"
// @Param to query string false "End date exclusive (YYYY-MM-DD)"
// @Param includeZero query bool false "Include zero-total categories" default(false)
// @Success 200 {object} dto.CategoryTotalsResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Security BearerAuth
// @Router /projects/{project_id}/reports/category-totals [get]
func (h *reportingHandler) getCategoryTotals(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	projectID := c.Param("project_id")

	from, to, ok := h.parseWindow(c)
	if !ok {
		return
	}
	includeZero := c.Query("includeZero") == "true"

	totals, err := h.reportingService.CategoryTotals(c.Request.Context(), projectID, from, to, includeZero)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Failed to compute category totals", slog.String("error", err.Error()), slog.String("project_id", projectID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute category totals"})
		return
	}

	c.JSON(http.StatusOK, dto.ToCategoryTotalsResponse(projectID, from, to, totals))
}

// getDailyBreakdown godoc
// @Summary Per-day spend totals
// @Description Buckets the window's entries into local calendar days.
// @Tags reports
// @Produce json
// @Param project_id path string true "Project ID"
// @Param from query string false "Start date inclusive (YYYY-MM-DD)"
// @Param to query string false "End date exclusive (YYYY-MM-DD)"
// @Success 200 {object} dto.DailyBreakdownResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Security BearerAuth
// @Router /projects/{project_id}/reports/daily [get]
func (h *reportingHandler) getDailyBreakdown(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	projectID := c.Param("project_id")

	from, to, ok := h.parseWindow(c)
	if !ok {
		return
	}

	totals, err := h.reportingService.DailyBreakdown(c.Request.Context(), projectID, from, to)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Failed to compute daily breakdown", slog.String("error", err.Error()), slog.String("project_id", projectID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute daily breakdown"})
		return
	}

	c.JSON(http.StatusOK, dto.ToDailyBreakdownResponse(projectID, from, to, totals))
}

// getDailyExpenses godoc
// @Summary One day's spend total
// @Description Totals the day containing date in the configured time zone. An entry created exactly at midnight counts toward the day that begins there.
// @Tags reports
// @Produce json
// @Param project_id path string true "Project ID"
// @Param date query string false "Day (YYYY-MM-DD)" default(current date)
// @Success 200 {object} dto.DailyExpensesResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Security BearerAuth
// @Router /projects/{project_id}/reports/day [get]
func (h *reportingHandler) getDailyExpenses(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	projectID := c.Param("project_id")

	date := time.Now().In(h.loc)
	if dateStr := c.Query("date"); dateStr != "" {
		parsed, err := time.ParseInLocation("2006-01-02", dateStr, h.loc)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format. Use YYYY-MM-DD"})
			return
		}
		date = parsed
	}

	total, err := h.reportingService.DailyExpenses(c.Request.Context(), projectID, date)
	if err != nil {
		logger.Error("Failed to compute daily expenses", slog.String("error", err.Error()), slog.String("project_id", projectID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute daily expenses"})
		return
	}

	c.JSON(http.StatusOK, dto.DailyExpensesResponse{
		ProjectID: projectID,
		Day:       date.In(h.loc).Format("2006-01-02"),
		Total:     total,
	})
}
