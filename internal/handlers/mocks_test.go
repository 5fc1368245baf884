package handlers

import (
	"context"
	"time"

	"github.com/buildledger/site_ledger_app/internal/core/domain"
	portssvc "github.com/buildledger/site_ledger_app/internal/core/ports/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// --- Mock ProjectAuthorizer ---

type MockProjectAuthorizer struct {
	mock.Mock
}

var _ portssvc.ProjectAuthorizer = (*MockProjectAuthorizer)(nil)

func (m *MockProjectAuthorizer) AuthorizeMember(ctx context.Context, userID, projectID string, required domain.ProjectRole) error {
	args := m.Called(ctx, userID, projectID, required)
	return args.Error(0)
}

// --- Mock BudgetSvcFacade ---

type MockBudgetService struct {
	mock.Mock
}

var _ portssvc.BudgetSvcFacade = (*MockBudgetService)(nil)

func (m *MockBudgetService) SetBudget(ctx context.Context, actingUserID, projectID string, category domain.Category, limit decimal.Decimal, period domain.BudgetPeriod) (*domain.Budget, error) {
	args := m.Called(ctx, actingUserID, projectID, category, limit, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Budget), args.Error(1)
}

func (m *MockBudgetService) ListBudgets(ctx context.Context, projectID string) ([]domain.Budget, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Budget), args.Error(1)
}

func (m *MockBudgetService) BudgetStatus(ctx context.Context, projectID string, category domain.Category, asOf time.Time) (*domain.BudgetStatus, error) {
	args := m.Called(ctx, projectID, category, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BudgetStatus), args.Error(1)
}

func (m *MockBudgetService) BudgetStatusForProject(ctx context.Context, projectID string, asOf time.Time) ([]domain.BudgetStatusEntry, error) {
	args := m.Called(ctx, projectID, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BudgetStatusEntry), args.Error(1)
}

// --- Mock TransactionSvcFacade ---

type MockTransactionService struct {
	mock.Mock
}

var _ portssvc.TransactionSvcFacade = (*MockTransactionService)(nil)

func (m *MockTransactionService) CreateTransaction(ctx context.Context, params portssvc.CreateTransactionParams) (*domain.Transaction, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionService) GetTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionService) ListProjectTransactions(ctx context.Context, projectID string, filter domain.TransactionFilter) ([]domain.Transaction, error) {
	args := m.Called(ctx, projectID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

func (m *MockTransactionService) ReverseTransaction(ctx context.Context, actingUserID, transactionID, reason string) (*domain.Transaction, error) {
	args := m.Called(ctx, actingUserID, transactionID, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}
