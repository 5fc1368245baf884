package services

import (
	"context"
	"time"

	"github.com/buildledger/site_ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// BudgetSvcFacade defines budget mutation and the budget evaluator.
type BudgetSvcFacade interface {
	// SetBudget upserts the (project, category) budget atomically. A zero
	// period selects the configured default. Idempotent under identical
	// arguments: exactly one active row remains.
	SetBudget(ctx context.Context, actingUserID, projectID string, category domain.Category, limit decimal.Decimal, period domain.BudgetPeriod) (*domain.Budget, error)
	ListBudgets(ctx context.Context, projectID string) ([]domain.Budget, error)
	// BudgetStatus resolves the active budget and evaluates spend over the
	// budget period containing asOf. Fails with apperrors.ErrNotFound when
	// no active budget exists, so "no budget set" stays distinguishable
	// from "not exceeded".
	BudgetStatus(ctx context.Context, projectID string, category domain.Category, asOf time.Time) (*domain.BudgetStatus, error)
	// BudgetStatusForProject evaluates every active budget independently;
	// one category's failure never aborts the others.
	BudgetStatusForProject(ctx context.Context, projectID string, asOf time.Time) ([]domain.BudgetStatusEntry, error)
}
