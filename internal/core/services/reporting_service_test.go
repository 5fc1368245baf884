package services_test

import (
	"context"
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

type ReportingServiceTestSuite struct {
	suite.Suite
	mockReportingRepo *MockReportingRepository
	mockProjectRepo   *MockProjectRepository
	service           portssvc.ReportingSvcFacade
}

func (suite *ReportingServiceTestSuite) SetupTest() {
	suite.mockReportingRepo = new(MockReportingRepository)
	suite.mockProjectRepo = new(MockProjectRepository)
	suite.service = services.NewReportingService(suite.mockReportingRepo, suite.mockProjectRepo, time.UTC)
}

func TestReportingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ReportingServiceTestSuite))
}

func (suite *ReportingServiceTestSuite) TestCategoryTotals_InvalidWindow() {
	ctx := context.Background()
	from := time.Now()

	totals, err := suite.service.CategoryTotals(ctx, uuid.NewString(), from, from, false)

	suite.Require().Error(err)
	suite.Nil(totals)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *ReportingServiceTestSuite) TestCategoryTotals_SparseByDefault() {
	ctx := context.Background()
	projectID := uuid.NewString()
	from := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	suite.mockReportingRepo.On("GetCategoryTotals", ctx, projectID, from, to).
		Return(map[domain.Category]decimal.Decimal{domain.CategoryMaterials: decimal.NewFromInt(700)}, nil).Once()

	totals, err := suite.service.CategoryTotals(ctx, projectID, from, to, false)

	suite.Require().NoError(err)
	suite.Len(totals, 1)
	suite.True(totals[domain.CategoryMaterials].Equal(decimal.NewFromInt(700)))
}

func (suite *ReportingServiceTestSuite) TestCategoryTotals_IncludeZeroFillsClosedSet() {
	ctx := context.Background()
	projectID := uuid.NewString()
	from := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	suite.mockReportingRepo.On("GetCategoryTotals", ctx, projectID, from, to).
		Return(map[domain.Category]decimal.Decimal{domain.CategoryLabor: decimal.NewFromInt(50)}, nil).Once()

	totals, err := suite.service.CategoryTotals(ctx, projectID, from, to, true)

	suite.Require().NoError(err)
	suite.Len(totals, len(domain.Categories()))
	for _, c := range domain.Categories() {
		_, ok := totals[c]
		suite.True(ok, "missing category %s", c)
	}
	suite.True(totals[domain.CategoryLabor].Equal(decimal.NewFromInt(50)))
	suite.True(totals[domain.CategoryMaterials].IsZero())
}

func (suite *ReportingServiceTestSuite) TestTotalSpend_SumsCategoryTotals() {
	ctx := context.Background()
	projectID := uuid.NewString()
	from := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	suite.mockReportingRepo.On("GetCategoryTotals", ctx, projectID, from, to).
		Return(map[domain.Category]decimal.Decimal{
			domain.CategoryMaterials: decimal.NewFromInt(700),
			domain.CategoryLabor:     decimal.NewFromInt(300),
			// A reversal nets out against its original inside each bucket.
			domain.CategoryTransport: decimal.NewFromInt(-50),
		}, nil).Once()

	total, err := suite.service.TotalSpend(ctx, projectID, from, to)

	suite.Require().NoError(err)
	suite.True(total.Equal(decimal.NewFromInt(950)))
}

func (suite *ReportingServiceTestSuite) TestDailyExpenses_UsesDayWindow() {
	ctx := context.Background()
	projectID := uuid.NewString()
	date := time.Date(2025, time.March, 15, 13, 45, 0, 0, time.UTC)
	dayStart := time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.AddDate(0, 0, 1)

	suite.mockReportingRepo.On("GetCategoryTotals", ctx, projectID, dayStart, dayEnd).
		Return(map[domain.Category]decimal.Decimal{domain.CategoryOther: decimal.NewFromInt(42)}, nil).Once()

	total, err := suite.service.DailyExpenses(ctx, projectID, date)

	suite.Require().NoError(err)
	suite.True(total.Equal(decimal.NewFromInt(42)))
	suite.mockReportingRepo.AssertExpectations(suite.T())
}

func (suite *ReportingServiceTestSuite) TestDailyBreakdown_EmptyNotNil() {
	ctx := context.Background()
	projectID := uuid.NewString()
	from := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 7)

	suite.mockReportingRepo.On("GetDailyTotals", ctx, projectID, from, to, time.UTC).
		Return([]domain.DailyTotal(nil), nil).Once()

	days, err := suite.service.DailyBreakdown(ctx, projectID, from, to)

	suite.Require().NoError(err)
	suite.NotNil(days)
	suite.Empty(days)
}

func (suite *ReportingServiceTestSuite) TestProjectReport_BundlesTotalsAndCount() {
	ctx := context.Background()
	projectID := uuid.NewString()
	from := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)
	project := &domain.Project{ProjectID: projectID, Name: "Riverside build"}

	suite.mockProjectRepo.On("FindProjectByID", ctx, projectID).Return(project, nil).Once()
	suite.mockReportingRepo.On("GetCategoryTotals", ctx, projectID, from, to).
		Return(map[domain.Category]decimal.Decimal{
			domain.CategoryMaterials: decimal.NewFromInt(900),
			domain.CategoryLabor:     decimal.NewFromInt(100),
		}, nil).Once()
	suite.mockReportingRepo.On("CountTransactions", ctx, projectID, from, to).Return(12, nil).Once()

	report, err := suite.service.ProjectReport(ctx, projectID, from, to)

	suite.Require().NoError(err)
	suite.Require().NotNil(report)
	suite.Equal("Riverside build", report.ProjectName)
	suite.True(report.TotalSpend.Equal(decimal.NewFromInt(1000)))
	suite.Len(report.CategoryTotals, len(domain.Categories()))
	suite.Equal(12, report.TransactionCount)
	suite.Equal(from, report.PeriodStart)
	suite.Equal(to, report.PeriodEnd)
}

func (suite *ReportingServiceTestSuite) TestProjectReport_UnknownProject() {
	ctx := context.Background()
	projectID := uuid.NewString()

	suite.mockProjectRepo.On("FindProjectByID", ctx, projectID).Return(nil, apperrors.ErrNotFound).Once()

	report, err := suite.service.ProjectReport(ctx, projectID, time.Now().Add(-time.Hour), time.Now())

	suite.Require().Error(err)
	suite.Nil(report)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockReportingRepo.AssertNotCalled(suite.T(), "GetCategoryTotals", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
