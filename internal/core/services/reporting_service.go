package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/buildledger/site_ledger_app/internal/apperrors"
	"github.com/buildledger/site_ledger_app/internal/core/domain"
	portsrepo "github.com/buildledger/site_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/buildledger/site_ledger_app/internal/core/ports/services"
	"github.com/buildledger/site_ledger_app/internal/middleware"
	"github.com/shopspring/decimal"
)

// ReportingService is the aggregation engine: stateless, pull-based
// derivation over the store. Every quantity flows through CategoryTotals so
// there is exactly one computation path and one half-open interval policy.
type ReportingService struct {
	reportingRepo portsrepo.ReportingRepository
	projectRepo   portsrepo.ProjectRepository
	loc           *time.Location
}

// NewReportingService creates a new ReportingService. The location is the
// process-wide zone used for day-boundary math.
func NewReportingService(rr portsrepo.ReportingRepository, pr portsrepo.ProjectRepository, loc *time.Location) portssvc.ReportingSvcFacade {
	if loc == nil {
		loc = time.UTC
	}
	return &ReportingService{reportingRepo: rr, projectRepo: pr, loc: loc}
}

var _ portssvc.ReportingSvcFacade = (*ReportingService)(nil)

// CategoryTotals sums amounts per category over [from, to). The map is
// sparse unless includeZero requests the full closed set.
func (s *ReportingService) CategoryTotals(ctx context.Context, projectID string, from, to time.Time, includeZero bool) (map[domain.Category]decimal.Decimal, error) {
	if !from.Before(to) {
		return nil, fmt.Errorf("%w: window start must precede end", apperrors.ErrValidation)
	}

	totals, err := s.reportingRepo.GetCategoryTotals(ctx, projectID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate category totals for project %s: %w", projectID, err)
	}
	if totals == nil {
		totals = map[domain.Category]decimal.Decimal{}
	}

	if includeZero {
		for _, c := range domain.Categories() {
			if _, ok := totals[c]; !ok {
				totals[c] = decimal.Zero
			}
		}
	}
	return totals, nil
}

// TotalSpend sums across all categories. Defined as the sum of
// CategoryTotals values for the same window, so the two can never diverge.
func (s *ReportingService) TotalSpend(ctx context.Context, projectID string, from, to time.Time) (decimal.Decimal, error) {
	totals, err := s.CategoryTotals(ctx, projectID, from, to, false)
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, v := range totals {
		total = total.Add(v)
	}
	return total, nil
}

// DailyExpenses totals the day containing date. The window is the half-open
// interval [00:00, next 00:00) in the configured zone; a transaction created
// exactly at midnight belongs to the day beginning at that instant.
func (s *ReportingService) DailyExpenses(ctx context.Context, projectID string, date time.Time) (decimal.Decimal, error) {
	start, end := domain.DayWindow(date, s.loc)
	return s.TotalSpend(ctx, projectID, start, end)
}

// DailyBreakdown returns per-day totals over [from, to), bucketed in the
// configured zone.
func (s *ReportingService) DailyBreakdown(ctx context.Context, projectID string, from, to time.Time) ([]domain.DailyTotal, error) {
	if !from.Before(to) {
		return nil, fmt.Errorf("%w: window start must precede end", apperrors.ErrValidation)
	}

	days, err := s.reportingRepo.GetDailyTotals(ctx, projectID, from, to, s.loc)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate daily totals for project %s: %w", projectID, err)
	}
	if days == nil {
		days = []domain.DailyTotal{}
	}
	return days, nil
}

// ProjectReport bundles the summary consumed by the front end and the
// spreadsheet export. Derived on demand, never cached.
func (s *ReportingService) ProjectReport(ctx context.Context, projectID string, from, to time.Time) (*domain.ProjectReport, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	project, err := s.projectRepo.FindProjectByID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	totals, err := s.CategoryTotals(ctx, projectID, from, to, true)
	if err != nil {
		return nil, err
	}
	total := decimal.Zero
	for _, v := range totals {
		total = total.Add(v)
	}

	count, err := s.reportingRepo.CountTransactions(ctx, projectID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to count transactions for project %s: %w", projectID, err)
	}

	logger.Debug("Project report computed",
		slog.String("project_id", projectID),
		slog.String("total", total.String()),
		slog.Int("transactions", count))

	return &domain.ProjectReport{
		ProjectID:        project.ProjectID,
		ProjectName:      project.Name,
		PeriodStart:      from,
		PeriodEnd:        to,
		TotalSpend:       total,
		CategoryTotals:   totals,
		TransactionCount: count,
	}, nil
}
