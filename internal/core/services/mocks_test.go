package services_test

import (
	"context"
	"time"

	"github.com/buildledger/site_ledger_app/internal/core/domain"
	portsrepo "github.com/buildledger/site_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/buildledger/site_ledger_app/internal/core/ports/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// --- Mock UserRepository ---

type MockUserRepository struct {
	mock.Mock
}

var _ portsrepo.UserRepository = (*MockUserRepository)(nil)

func (m *MockUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindUserByExternalID(ctx context.Context, externalID string) (*domain.User, error) {
	args := m.Called(ctx, externalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindUsers(ctx context.Context, limit, offset int) ([]domain.User, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *MockUserRepository) UpdateUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) MarkUserDeleted(ctx context.Context, userID string, deletedAt time.Time, deletedBy string) error {
	args := m.Called(ctx, userID, deletedAt, deletedBy)
	return args.Error(0)
}

// --- Mock ProjectRepository ---

type MockProjectRepository struct {
	mock.Mock
}

var _ portsrepo.ProjectRepository = (*MockProjectRepository)(nil)

func (m *MockProjectRepository) SaveProject(ctx context.Context, project domain.Project, owner domain.Membership) error {
	args := m.Called(ctx, project, owner)
	return args.Error(0)
}

func (m *MockProjectRepository) FindProjectByID(ctx context.Context, projectID string) (*domain.Project, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Project), args.Error(1)
}

func (m *MockProjectRepository) ListProjectsByUserID(ctx context.Context, userID string) ([]domain.Project, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Project), args.Error(1)
}

func (m *MockProjectRepository) MarkProjectArchived(ctx context.Context, projectID string, archivedAt time.Time, archivedBy string) error {
	args := m.Called(ctx, projectID, archivedAt, archivedBy)
	return args.Error(0)
}

func (m *MockProjectRepository) UpsertMembership(ctx context.Context, membership domain.Membership) error {
	args := m.Called(ctx, membership)
	return args.Error(0)
}

func (m *MockProjectRepository) FindMembership(ctx context.Context, projectID, userID string) (*domain.Membership, error) {
	args := m.Called(ctx, projectID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Membership), args.Error(1)
}

func (m *MockProjectRepository) ListMembers(ctx context.Context, projectID string) ([]domain.Membership, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Membership), args.Error(1)
}

func (m *MockProjectRepository) RemoveMembership(ctx context.Context, projectID, userID string) error {
	args := m.Called(ctx, projectID, userID)
	return args.Error(0)
}

// --- Mock TransactionRepository ---

type MockTransactionRepository struct {
	mock.Mock
}

var _ portsrepo.TransactionRepository = (*MockTransactionRepository)(nil)

func (m *MockTransactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction) (*domain.Transaction, error) {
	args := m.Called(ctx, txn)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) FindReversalOf(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) ListTransactions(ctx context.Context, projectID string, filter domain.TransactionFilter) ([]domain.Transaction, error) {
	args := m.Called(ctx, projectID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

// --- Mock BudgetRepository ---

type MockBudgetRepository struct {
	mock.Mock
}

var _ portsrepo.BudgetRepository = (*MockBudgetRepository)(nil)

func (m *MockBudgetRepository) UpsertBudget(ctx context.Context, budget domain.Budget) error {
	args := m.Called(ctx, budget)
	return args.Error(0)
}

func (m *MockBudgetRepository) FindActiveBudget(ctx context.Context, projectID string, category domain.Category) (*domain.Budget, error) {
	args := m.Called(ctx, projectID, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Budget), args.Error(1)
}

func (m *MockBudgetRepository) ListActiveBudgets(ctx context.Context, projectID string) ([]domain.Budget, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Budget), args.Error(1)
}

// --- Mock ReportingRepository ---

type MockReportingRepository struct {
	mock.Mock
}

var _ portsrepo.ReportingRepository = (*MockReportingRepository)(nil)

func (m *MockReportingRepository) GetCategoryTotals(ctx context.Context, projectID string, from, to time.Time) (map[domain.Category]decimal.Decimal, error) {
	args := m.Called(ctx, projectID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[domain.Category]decimal.Decimal), args.Error(1)
}

func (m *MockReportingRepository) GetDailyTotals(ctx context.Context, projectID string, from, to time.Time, loc *time.Location) ([]domain.DailyTotal, error) {
	args := m.Called(ctx, projectID, from, to, loc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DailyTotal), args.Error(1)
}

func (m *MockReportingRepository) CountTransactions(ctx context.Context, projectID string, from, to time.Time) (int, error) {
	args := m.Called(ctx, projectID, from, to)
	return args.Int(0), args.Error(1)
}

// --- Mock APITokenRepository ---

type MockAPITokenRepository struct {
	mock.Mock
}

var _ portsrepo.APITokenRepository = (*MockAPITokenRepository)(nil)

func (m *MockAPITokenRepository) SaveToken(ctx context.Context, token domain.APIToken) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockAPITokenRepository) FindTokenByID(ctx context.Context, tokenID string) (*domain.APIToken, error) {
	args := m.Called(ctx, tokenID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.APIToken), args.Error(1)
}

func (m *MockAPITokenRepository) ListTokensByUserID(ctx context.Context, userID string) ([]domain.APIToken, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.APIToken), args.Error(1)
}

func (m *MockAPITokenRepository) RevokeToken(ctx context.Context, tokenID string, revokedAt time.Time) error {
	args := m.Called(ctx, tokenID, revokedAt)
	return args.Error(0)
}

func (m *MockAPITokenRepository) TouchToken(ctx context.Context, tokenID string, usedAt time.Time) error {
	args := m.Called(ctx, tokenID, usedAt)
	return args.Error(0)
}

// --- Mock ProjectAuthorizer ---

type MockProjectAuthorizer struct {
	mock.Mock
}

var _ portssvc.ProjectAuthorizer = (*MockProjectAuthorizer)(nil)

func (m *MockProjectAuthorizer) AuthorizeMember(ctx context.Context, userID, projectID string, required domain.ProjectRole) error {
	args := m.Called(ctx, userID, projectID, required)
	return args.Error(0)
}

// --- Mock ReportingSvcFacade ---

type MockReportingService struct {
	mock.Mock
}

var _ portssvc.ReportingSvcFacade = (*MockReportingService)(nil)

func (m *MockReportingService) CategoryTotals(ctx context.Context, projectID string, from, to time.Time, includeZero bool) (map[domain.Category]decimal.Decimal, error) {
	args := m.Called(ctx, projectID, from, to, includeZero)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[domain.Category]decimal.Decimal), args.Error(1)
}

func (m *MockReportingService) TotalSpend(ctx context.Context, projectID string, from, to time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, projectID, from, to)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockReportingService) DailyExpenses(ctx context.Context, projectID string, date time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, projectID, date)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockReportingService) DailyBreakdown(ctx context.Context, projectID string, from, to time.Time) ([]domain.DailyTotal, error) {
	args := m.Called(ctx, projectID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DailyTotal), args.Error(1)
}

func (m *MockReportingService) ProjectReport(ctx context.Context, projectID string, from, to time.Time) (*domain.ProjectReport, error) {
	args := m.Called(ctx, projectID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProjectReport), args.Error(1)
}
