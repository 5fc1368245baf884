package services

import (
	"context"
	"time"

	"github.com/buildledger/site_ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ReportingSvcFacade is the pull-based aggregation engine: pure read-side
// derivation over the store, no persisted or cached output. All windows are
// half-open [from, to).
type ReportingSvcFacade interface {
	// CategoryTotals sums amounts per category over [from, to). Categories
	// without transactions are omitted unless includeZero asks for the full
	// closed set.
	CategoryTotals(ctx context.Context, projectID string, from, to time.Time, includeZero bool) (map[domain.Category]decimal.Decimal, error)
	// TotalSpend equals the sum of CategoryTotals values for the same
	// window; both share one computation path.
	TotalSpend(ctx context.Context, projectID string, from, to time.Time) (decimal.Decimal, error)
	// DailyExpenses totals the day containing date in the configured zone.
	DailyExpenses(ctx context.Context, projectID string, date time.Time) (decimal.Decimal, error)
	// DailyBreakdown returns per-day totals over [from, to).
	DailyBreakdown(ctx context.Context, projectID string, from, to time.Time) ([]domain.DailyTotal, error)
	// ProjectReport bundles the summary used by the front end and exports.
	ProjectReport(ctx context.Context, projectID string, from, to time.Time) (*domain.ProjectReport, error)
}
