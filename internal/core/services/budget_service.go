package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/buildledger/site_ledger_app/internal/apperrors"
	"github.com/buildledger/site_ledger_app/internal/core/domain"
	portsrepo "github.com/buildledger/site_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/buildledger/site_ledger_app/internal/core/ports/services"
	"github.com/buildledger/site_ledger_app/internal/middleware"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// BudgetService handles budget mutation and evaluation. Evaluation is always
// recomputed from the aggregation engine; nothing here caches spend.
type BudgetService struct {
	budgetRepo    portsrepo.BudgetRepository
	authorizer    portssvc.ProjectAuthorizer
	reporting     portssvc.ReportingSvcFacade
	loc           *time.Location
	defaultPeriod domain.BudgetPeriod
}

// NewBudgetService creates a new BudgetService.
func NewBudgetService(br portsrepo.BudgetRepository, auth portssvc.ProjectAuthorizer, reporting portssvc.ReportingSvcFacade, loc *time.Location, defaultPeriod domain.BudgetPeriod) portssvc.BudgetSvcFacade {
	if loc == nil {
		loc = time.UTC
	}
	if defaultPeriod == "" {
		defaultPeriod = domain.PeriodCalendarMonth
	}
	return &BudgetService{
		budgetRepo:    br,
		authorizer:    auth,
		reporting:     reporting,
		loc:           loc,
		defaultPeriod: defaultPeriod,
	}
}

var _ portssvc.BudgetSvcFacade = (*BudgetService)(nil)

// SetBudget upserts the (project, category) budget. The repository replaces
// any prior active row in one transaction, so a concurrent reader never sees
// two active budgets for the pair. Idempotent under identical arguments.
func (s *BudgetService) SetBudget(ctx context.Context, actingUserID, projectID string, category domain.Category, limit decimal.Decimal, period domain.BudgetPeriod) (*domain.Budget, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !limit.IsPositive() {
		return nil, fmt.Errorf("%w: budget limit must be positive, got %s", apperrors.ErrValidation, limit)
	}
	if _, err := domain.ParseCategory(string(category)); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	if period == "" {
		period = s.defaultPeriod
	} else if _, err := domain.ParseBudgetPeriod(string(period)); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	if err := s.authorizer.AuthorizeMember(ctx, actingUserID, projectID, domain.RoleOwner); err != nil {
		return nil, err
	}

	now := time.Now()
	budget := domain.Budget{
		BudgetID:    uuid.NewString(),
		ProjectID:   projectID,
		Category:    category,
		LimitAmount: limit,
		Period:      period,
		IsActive:    true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actingUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: actingUserID,
		},
	}

	if err := s.budgetRepo.UpsertBudget(ctx, budget); err != nil {
		logger.Error("Failed to upsert budget", slog.String("error", err.Error()), slog.String("project_id", projectID), slog.String("category", string(category)))
		return nil, fmt.Errorf("failed to set budget for project %s category %s: %w", projectID, category, err)
	}

	logger.Info("Budget set",
		slog.String("project_id", projectID),
		slog.String("category", string(category)),
		slog.String("limit", limit.String()),
		slog.String("period", string(period)))
	return &budget, nil
}

// ListBudgets returns the project's active budgets.
func (s *BudgetService) ListBudgets(ctx context.Context, projectID string) ([]domain.Budget, error) {
	budgets, err := s.budgetRepo.ListActiveBudgets(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list budgets for project %s: %w", projectID, err)
	}
	if budgets == nil {
		budgets = []domain.Budget{}
	}
	return budgets, nil
}

// BudgetStatus resolves the active budget for (project, category) and
// evaluates spend over the budget period containing asOf. NotFound when no
// active budget exists: "no budget set" is distinguishable from "within
// budget".
func (s *BudgetService) BudgetStatus(ctx context.Context, projectID string, category domain.Category, asOf time.Time) (*domain.BudgetStatus, error) {
	budget, err := s.budgetRepo.FindActiveBudget(ctx, projectID, category)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: no active budget for project %s category %s", apperrors.ErrNotFound, projectID, category)
		}
		return nil, fmt.Errorf("failed to resolve budget for project %s category %s: %w", projectID, category, err)
	}

	return s.evaluate(ctx, budget, asOf)
}

// BudgetStatusForProject evaluates every active budget of the project, one
// entry per budgeted category. Entries are computed concurrently and fail
// independently: one category's error never aborts its siblings.
func (s *BudgetService) BudgetStatusForProject(ctx context.Context, projectID string, asOf time.Time) ([]domain.BudgetStatusEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	budgets, err := s.budgetRepo.ListActiveBudgets(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list budgets for project %s: %w", projectID, err)
	}

	entries := make([]domain.BudgetStatusEntry, len(budgets))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, budget := range budgets {
		g.Go(func() error {
			status, err := s.evaluate(gctx, &budget, asOf)
			entries[i] = domain.BudgetStatusEntry{Category: budget.Category, Status: status, Err: err}
			// Per-entry errors are carried in the entry, never returned:
			// returning one would cancel the sibling evaluations.
			return nil
		})
	}
	_ = g.Wait()

	sort.Slice(entries, func(i, j int) bool { return entries[i].Category < entries[j].Category })

	for _, e := range entries {
		if e.Err != nil {
			logger.Warn("Budget evaluation failed for category",
				slog.String("project_id", projectID),
				slog.String("category", string(e.Category)),
				slog.String("error", e.Err.Error()))
		}
	}
	return entries, nil
}

// evaluate computes budget-vs-actual for one budget row. Spend comes from
// the aggregation engine over the period's half-open window.
func (s *BudgetService) evaluate(ctx context.Context, budget *domain.Budget, asOf time.Time) (*domain.BudgetStatus, error) {
	start, end := budget.Period.Window(asOf, s.loc)

	totals, err := s.reporting.CategoryTotals(ctx, budget.ProjectID, start, end, false)
	if err != nil {
		return nil, fmt.Errorf("failed to compute spend for budget %s: %w", budget.BudgetID, err)
	}

	spent := decimal.Zero
	if v, ok := totals[budget.Category]; ok {
		spent = v
	}

	return &domain.BudgetStatus{
		Budget:      *budget,
		PeriodStart: start,
		PeriodEnd:   end,
		Spent:       spent,
		Remaining:   budget.LimitAmount.Sub(spent),
		OverBudget:  spent.GreaterThan(budget.LimitAmount),
	}, nil
}
