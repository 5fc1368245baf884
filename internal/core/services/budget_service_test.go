package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/buildledger/site_ledger_app/internal/apperrors"
	"github.com/buildledger/site_ledger_app/internal/core/domain"
	portssvc "github.com/buildledger/site_ledger_app/internal/core/ports/services"
	"github.com/buildledger/site_ledger_app/internal/core/services"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type BudgetServiceTestSuite struct {
	suite.Suite
	mockBudgetRepo *MockBudgetRepository
	mockAuthorizer *MockProjectAuthorizer
	mockReporting  *MockReportingService
	service        portssvc.BudgetSvcFacade
}

func (suite *BudgetServiceTestSuite) SetupTest() {
	suite.mockBudgetRepo = new(MockBudgetRepository)
	suite.mockAuthorizer = new(MockProjectAuthorizer)
	suite.mockReporting = new(MockReportingService)
	suite.service = services.NewBudgetService(suite.mockBudgetRepo, suite.mockAuthorizer, suite.mockReporting, time.UTC, domain.PeriodCalendarMonth)
}

func TestBudgetServiceTestSuite(t *testing.T) {
	suite.Run(t, new(BudgetServiceTestSuite))
}

func (suite *BudgetServiceTestSuite) TestSetBudget_Success() {
	ctx := context.Background()
	projectID := uuid.NewString()
	ownerID := uuid.NewString()

	suite.mockAuthorizer.On("AuthorizeMember", ctx, ownerID, projectID, domain.RoleOwner).Return(nil).Once()
	suite.mockBudgetRepo.On("UpsertBudget", ctx, mock.MatchedBy(func(b domain.Budget) bool {
		return b.ProjectID == projectID &&
			b.Category == domain.CategoryMaterials &&
			b.LimitAmount.Equal(decimal.NewFromInt(5000)) &&
			b.Period == domain.PeriodRolling30d &&
			b.IsActive
	})).Return(nil).Once()

	budget, err := suite.service.SetBudget(ctx, ownerID, projectID, domain.CategoryMaterials, decimal.NewFromInt(5000), domain.PeriodRolling30d)

	suite.Require().NoError(err)
	suite.Require().NotNil(budget)
	suite.Equal(domain.PeriodRolling30d, budget.Period)
	suite.True(budget.IsActive)
	suite.mockBudgetRepo.AssertExpectations(suite.T())
}

func (suite *BudgetServiceTestSuite) TestSetBudget_EmptyPeriodDefaultsCalendarMonth() {
	ctx := context.Background()
	projectID := uuid.NewString()
	ownerID := uuid.NewString()

	suite.mockAuthorizer.On("AuthorizeMember", ctx, ownerID, projectID, domain.RoleOwner).Return(nil).Once()
	suite.mockBudgetRepo.On("UpsertBudget", ctx, mock.MatchedBy(func(b domain.Budget) bool {
		return b.Period == domain.PeriodCalendarMonth
	})).Return(nil).Once()

	budget, err := suite.service.SetBudget(ctx, ownerID, projectID, domain.CategoryLabor, decimal.NewFromInt(1000), "")

	suite.Require().NoError(err)
	suite.Equal(domain.PeriodCalendarMonth, budget.Period)
}

func (suite *BudgetServiceTestSuite) TestSetBudget_RejectsNonPositiveLimit() {
	ctx := context.Background()

	budget, err := suite.service.SetBudget(ctx, uuid.NewString(), uuid.NewString(), domain.CategoryLabor, decimal.Zero, "")

	suite.Require().Error(err)
	suite.Nil(budget)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockBudgetRepo.AssertNotCalled(suite.T(), "UpsertBudget", mock.Anything, mock.Anything)
}

func (suite *BudgetServiceTestSuite) TestSetBudget_RejectsUnknownPeriod() {
	ctx := context.Background()

	budget, err := suite.service.SetBudget(ctx, uuid.NewString(), uuid.NewString(), domain.CategoryLabor, decimal.NewFromInt(100), domain.BudgetPeriod("FORTNIGHT"))

	suite.Require().Error(err)
	suite.Nil(budget)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *BudgetServiceTestSuite) TestSetBudget_NonOwnerForbidden() {
	ctx := context.Background()
	projectID := uuid.NewString()
	memberID := uuid.NewString()

	suite.mockAuthorizer.On("AuthorizeMember", ctx, memberID, projectID, domain.RoleOwner).Return(apperrors.ErrForbidden).Once()

	budget, err := suite.service.SetBudget(ctx, memberID, projectID, domain.CategoryTransport, decimal.NewFromInt(100), "")

	suite.Require().Error(err)
	suite.Nil(budget)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockBudgetRepo.AssertNotCalled(suite.T(), "UpsertBudget", mock.Anything, mock.Anything)
}

func (suite *BudgetServiceTestSuite) TestBudgetStatus_NoBudgetSetNotFound() {
	ctx := context.Background()
	projectID := uuid.NewString()

	suite.mockBudgetRepo.On("FindActiveBudget", ctx, projectID, domain.CategoryOther).Return(nil, apperrors.ErrNotFound).Once()

	status, err := suite.service.BudgetStatus(ctx, projectID, domain.CategoryOther, time.Now())

	suite.Require().Error(err)
	suite.Nil(status)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *BudgetServiceTestSuite) TestBudgetStatus_OverBudget() {
	ctx := context.Background()
	projectID := uuid.NewString()
	asOf := time.Date(2025, time.March, 15, 12, 0, 0, 0, time.UTC)
	budget := &domain.Budget{
		BudgetID:    uuid.NewString(),
		ProjectID:   projectID,
		Category:    domain.CategoryMaterials,
		LimitAmount: decimal.NewFromInt(1000),
		Period:      domain.PeriodCalendarMonth,
		IsActive:    true,
	}
	periodStart := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
	periodEnd := time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC)

	suite.mockBudgetRepo.On("FindActiveBudget", ctx, projectID, domain.CategoryMaterials).Return(budget, nil).Once()
	suite.mockReporting.On("CategoryTotals", ctx, projectID, periodStart, periodEnd, false).
		Return(map[domain.Category]decimal.Decimal{domain.CategoryMaterials: decimal.NewFromInt(1100)}, nil).Once()

	status, err := suite.service.BudgetStatus(ctx, projectID, domain.CategoryMaterials, asOf)

	suite.Require().NoError(err)
	suite.Require().NotNil(status)
	suite.True(status.Spent.Equal(decimal.NewFromInt(1100)))
	suite.True(status.Remaining.Equal(decimal.NewFromInt(-100)))
	suite.True(status.OverBudget)
	suite.Equal(periodStart, status.PeriodStart)
	suite.Equal(periodEnd, status.PeriodEnd)
}

func (suite *BudgetServiceTestSuite) TestBudgetStatus_NoSpendWithinBudget() {
	ctx := context.Background()
	projectID := uuid.NewString()
	asOf := time.Date(2025, time.March, 15, 12, 0, 0, 0, time.UTC)
	budget := &domain.Budget{
		BudgetID:    uuid.NewString(),
		ProjectID:   projectID,
		Category:    domain.CategoryLabor,
		LimitAmount: decimal.NewFromInt(500),
		Period:      domain.PeriodCalendarMonth,
		IsActive:    true,
	}

	suite.mockBudgetRepo.On("FindActiveBudget", ctx, projectID, domain.CategoryLabor).Return(budget, nil).Once()
	suite.mockReporting.On("CategoryTotals", ctx, projectID, mock.Anything, mock.Anything, false).
		Return(map[domain.Category]decimal.Decimal{}, nil).Once()

	status, err := suite.service.BudgetStatus(ctx, projectID, domain.CategoryLabor, asOf)

	suite.Require().NoError(err)
	suite.True(status.Spent.IsZero())
	suite.True(status.Remaining.Equal(decimal.NewFromInt(500)))
	suite.False(status.OverBudget)
}

func (suite *BudgetServiceTestSuite) TestBudgetStatusForProject_EntriesFailIndependently() {
	ctx := context.Background()
	projectID := uuid.NewString()
	asOf := time.Date(2025, time.March, 15, 12, 0, 0, 0, time.UTC)
	budgets := []domain.Budget{
		{BudgetID: uuid.NewString(), ProjectID: projectID, Category: domain.CategoryTransport, LimitAmount: decimal.NewFromInt(200), Period: domain.PeriodCalendarMonth, IsActive: true},
		{BudgetID: uuid.NewString(), ProjectID: projectID, Category: domain.CategoryLabor, LimitAmount: decimal.NewFromInt(800), Period: domain.PeriodCalendarMonth, IsActive: true},
	}
	aggErr := errors.New("aggregation timed out")

	suite.mockBudgetRepo.On("ListActiveBudgets", ctx, projectID).Return(budgets, nil).Once()
	suite.mockReporting.On("CategoryTotals", mock.Anything, projectID, mock.Anything, mock.Anything, false).
		Return(map[domain.Category]decimal.Decimal{domain.CategoryLabor: decimal.NewFromInt(300)}, nil).Once()
	suite.mockReporting.On("CategoryTotals", mock.Anything, projectID, mock.Anything, mock.Anything, false).
		Return(nil, aggErr).Once()

	entries, err := suite.service.BudgetStatusForProject(ctx, projectID, asOf)

	suite.Require().NoError(err)
	suite.Require().Len(entries, 2)
	// Entries come back sorted by category.
	suite.Equal(domain.CategoryLabor, entries[0].Category)
	suite.Equal(domain.CategoryTransport, entries[1].Category)

	var failed, succeeded int
	for _, e := range entries {
		if e.Err != nil {
			failed++
			suite.Nil(e.Status)
		} else {
			succeeded++
			suite.NotNil(e.Status)
		}
	}
	suite.Equal(1, failed)
	suite.Equal(1, succeeded)
}

func (suite *BudgetServiceTestSuite) TestBudgetStatusForProject_NoBudgets() {
	ctx := context.Background()
	projectID := uuid.NewString()

	suite.mockBudgetRepo.On("ListActiveBudgets", ctx, projectID).Return([]domain.Budget{}, nil).Once()

	entries, err := suite.service.BudgetStatusForProject(ctx, projectID, time.Now())

	suite.Require().NoError(err)
	suite.Empty(entries)
	suite.mockReporting.AssertNotCalled(suite.T(), "CategoryTotals", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *BudgetServiceTestSuite) TestListBudgets_EmptyNotNil() {
	ctx := context.Background()
	projectID := uuid.NewString()

	suite.mockBudgetRepo.On("ListActiveBudgets", ctx, projectID).Return([]domain.Budget(nil), nil).Once()

	budgets, err := suite.service.ListBudgets(ctx, projectID)

	suite.Require().NoError(err)
	suite.NotNil(budgets)
	suite.Empty(budgets)
}
