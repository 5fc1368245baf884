package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/buildledger/site_ledger_app/internal/apperrors"
	"github.com/buildledger/site_ledger_app/internal/core/domain"
	portssvc "github.com/buildledger/site_ledger_app/internal/core/ports/services"
	"github.com/buildledger/site_ledger_app/internal/dto"
	"github.com/buildledger/site_ledger_app/internal/middleware"
	"github.com/buildledger/site_ledger_app/internal/platform/config"
	"github.com/gin-gonic/gin"
)

// transactionHandler handles HTTP requests related to the project ledger.
type transactionHandler struct {
	transactionService portssvc.TransactionSvcFacade
	loc                *time.Location
}

// newTransactionHandler creates a new transactionHandler.
func newTransactionHandler(ts portssvc.TransactionSvcFacade, loc *time.Location) *transactionHandler {
	return &transactionHandler{transactionService: ts, loc: loc}
}

// registerTransactionRoutes registers ledger routes nested under a project.
func registerTransactionRoutes(rg *gin.RouterGroup, cfg *config.Config, transactionService portssvc.TransactionSvcFacade) {
	h := newTransactionHandler(transactionService, cfg.Location)

	transactions := rg.Group("/transactions")
	{
		transactions.POST("", h.createTransaction)
		transactions.GET("", h.listTransactions)
		transactions.GET("/:transaction_id", h.getTransaction)
		transactions.POST("/:transaction_id/reverse", h.reverseTransaction)
	}
}

// createTransaction godoc
// @Summary Record an expense
// @Description Appends a ledger entry to the project. Amount must be positive; the category set is closed.
// @Tags transactions
// @Accept json
// @Produce json
// @Param project_id path string true "Project ID"
// @Param transaction body dto.CreateTransactionRequest true "Expense details"
// @Success 201 {object} dto.TransactionResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Project not found"
// @Failure 409 {object} map[string]string "Project is archived"
// @Security BearerAuth
// @Router /projects/{project_id}/transactions [post]
func (h *transactionHandler) createTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	projectID := c.Param("project_id")

	var req dto.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateTransaction", slog.String("error", err.Error()))
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

	logger = logger.With(slog.String("project_id", projectID), slog.String("user_id", userID))

	txn, err := h.transactionService.CreateTransaction(c.Request.Context(), portssvc.CreateTransactionParams{
		ProjectID:   projectID,
		Amount:      req.Amount,
		Category:    category,
		Description: req.Description,
		PhotoURL:    req.PhotoURL,
		CreatedByID: &userID,
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		} else if errors.Is(err, apperrors.ErrForbidden) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		} else if errors.Is(err, apperrors.ErrConflict) {
			c.JSON(http.StatusConflict, gin.H{"error": "Project is archived"})
		} else {
			logger.Error("Failed to create transaction", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create transaction"})
		}
		return
	}

	logger.Info("Transaction recorded", slog.String("transaction_id", txn.TransactionID), slog.String("category", string(txn.Category)))
	c.JSON(http.StatusCreated, dto.ToTransactionResponse(txn))
}

// listTransactions godoc
// @Summary List a project's ledger entries
// @Description Lists ledger entries in insertion order, optionally filtered by category and a half-open [from, to) window.
// @Tags transactions
// @Produce json
// @Param project_id path string true "Project ID"
// @Param category query string false "Category filter"
// @Param from query string false "Start date inclusive (YYYY-MM-DD)"
// @Param to query string false "End date exclusive (YYYY-MM-DD)"
// @Param limit query int false "Page size" default(50)
// @Param offset query int false "Page offset" default(0)
// @Success 200 {object} dto.ListTransactionsResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Security BearerAuth
// @Router /projects/{project_id}/transactions [get]
func (h *transactionHandler) listTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	projectID := c.Param("project_id")

	var filter domain.TransactionFilter

	if categoryStr := c.Query("category"); categoryStr != "" {
		category, err := domain.ParseCategory(categoryStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		filter.Category = &category
	}

	// Window bounds resolve in the configured zone, matching the zone the
	// ledger buckets days in.
	if fromStr := c.Query("from"); fromStr != "" {
		from, err := time.ParseInLocation("2006-01-02", fromStr, h.loc)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid from date format. Use YYYY-MM-DD"})
			return
		}
		filter.From = &from
	}

	if toStr := c.Query("to"); toStr != "" {
		to, err := time.ParseInLocation("2006-01-02", toStr, h.loc)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid to date format. Use YYYY-MM-DD"})
			return
		}
		filter.To = &to
	}

	filter.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "50"))
	filter.Offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))

	txns, err := h.transactionService.ListProjectTransactions(c.Request.Context(), projectID, filter)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Failed to list transactions", slog.String("error", err.Error()), slog.String("project_id", projectID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list transactions"})
		return
	}

	c.JSON(http.StatusOK, dto.ToListTransactionsResponse(txns))
}

// getTransaction godoc
// @Summary Get a ledger entry by ID
// @Tags transactions
// @Produce json
// @Param project_id path string true "Project ID"
// @Param transaction_id path string true "Transaction ID"
// @Success 200 {object} dto.TransactionResponse
// @Failure 404 {object} map[string]string "Transaction not found"
// @Security BearerAuth
// @Router /projects/{project_id}/transactions/{transaction_id} [get]
func (h *transactionHandler) getTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	transactionID := c.Param("transaction_id")

	txn, err := h.transactionService.GetTransactionByID(c.Request.Context(), transactionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Transaction not found"})
			return
		}
		logger.Error("Failed to get transaction", slog.String("error", err.Error()), slog.String("transaction_id", transactionID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get transaction"})
		return
	}

	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

// reverseTransaction godoc
// @Summary Reverse a ledger entry
// @Description Appends a negating entry linked to the original. History is never edited in place.
// @Tags transactions
// @Accept json
// @Produce json
// @Param project_id path string true "Project ID"
// @Param transaction_id path string true "Transaction ID"
// @Param reversal body dto.ReverseTransactionRequest false "Reversal reason"
// @Success 201 {object} dto.TransactionResponse
// @Failure 404 {object} map[string]string "Transaction not found"
// @Failure 409 {object} map[string]string "Transaction already reversed or is itself a reversal"
// @Security BearerAuth
// @Router /projects/{project_id}/transactions/{transaction_id}/reverse [post]
func (h *transactionHandler) reverseTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	transactionID := c.Param("transaction_id")

	// An empty body is allowed; the reason defaults in the service.
	var req dto.ReverseTransactionRequest
	_ = c.ShouldBindJSON(&req)

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	reversal, err := h.transactionService.ReverseTransaction(c.Request.Context(), userID, transactionID, req.Reason)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Transaction not found"})
		} else if errors.Is(err, apperrors.ErrConflict) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		} else if errors.Is(err, apperrors.ErrForbidden) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		} else {
			logger.Error("Failed to reverse transaction", slog.String("error", err.Error()), slog.String("transaction_id", transactionID))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reverse transaction"})
		}
		return
	}

	logger.Info("Transaction reversed", slog.String("transaction_id", transactionID), slog.String("reversal_id", reversal.TransactionID))
	c.JSON(http.StatusCreated, dto.ToTransactionResponse(reversal))
}
