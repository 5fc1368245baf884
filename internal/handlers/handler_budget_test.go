package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/buildledger/site_ledger_app/internal/core/domain"
	"github.com/buildledger/site_ledger_app/internal/platform/config"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newBudgetRouter(t *testing.T, tz string, budgetService *MockBudgetService) (*gin.Engine, *time.Location) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	loc, err := time.LoadLocation(tz)
	require.NoError(t, err)

	router := gin.New()
	group := router.Group("/projects/:project_id")
	registerBudgetRoutes(group, &config.Config{Location: loc}, budgetService)
	return router, loc
}

// A YYYY-MM-DD asOf must resolve to midnight in the configured zone, not UTC.
// For a zone west of UTC, a UTC parse of 2025-03-01 would land inside the
// previous local day and evaluate February's calendar-month budget.
func TestBudgetStatus_AsOfResolvesInConfiguredZone(t *testing.T) {
	budgetService := new(MockBudgetService)
	router, loc := newBudgetRouter(t, "America/New_York", budgetService)

	projectID := uuid.NewString()
	wantAsOf := time.Date(2025, time.March, 1, 0, 0, 0, 0, loc)
	status := &domain.BudgetStatus{
		Budget: domain.Budget{
			BudgetID:    uuid.NewString(),
			ProjectID:   projectID,
			Category:    domain.CategoryMaterials,
			LimitAmount: decimal.NewFromInt(1000),
			Period:      domain.PeriodCalendarMonth,
			IsActive:    true,
		},
		PeriodStart: wantAsOf,
		PeriodEnd:   wantAsOf.AddDate(0, 1, 0),
		Spent:       decimal.NewFromInt(300),
		Remaining:   decimal.NewFromInt(700),
	}

	budgetService.On("BudgetStatus", mock.Anything, projectID, domain.CategoryMaterials,
		mock.MatchedBy(func(asOf time.Time) bool {
			start, _ := domain.PeriodCalendarMonth.Window(asOf, loc)
			return asOf.Equal(wantAsOf) && start.Month() == time.March
		})).Return(status, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/projects/"+projectID+"/budgets/status/MATERIALS?asOf=2025-03-01", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	budgetService.AssertExpectations(t)
}

func TestProjectBudgetStatus_AsOfResolvesInConfiguredZone(t *testing.T) {
	budgetService := new(MockBudgetService)
	router, loc := newBudgetRouter(t, "America/New_York", budgetService)

	projectID := uuid.NewString()
	wantAsOf := time.Date(2025, time.March, 1, 0, 0, 0, 0, loc)

	budgetService.On("BudgetStatusForProject", mock.Anything, projectID,
		mock.MatchedBy(func(asOf time.Time) bool { return asOf.Equal(wantAsOf) })).
		Return([]domain.BudgetStatusEntry{}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/projects/"+projectID+"/budgets/status?asOf=2025-03-01", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	budgetService.AssertExpectations(t)
}

func TestBudgetStatus_MalformedAsOfRejected(t *testing.T) {
	budgetService := new(MockBudgetService)
	router, _ := newBudgetRouter(t, "UTC", budgetService)

	projectID := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/projects/"+projectID+"/budgets/status/MATERIALS?asOf=March+1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	budgetService.AssertNotCalled(t, "BudgetStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
