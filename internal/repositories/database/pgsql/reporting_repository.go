package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/buildledger/site_ledger_app/internal/apperrors"
	"github.com/buildledger/site_ledger_app/internal/core/domain"
	portsrepo "github.com/buildledger/site_ledger_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PgxReportingRepository struct {
	BaseRepository
}

func newPgxReportingRepository(pool *pgxpool.Pool) portsrepo.ReportingRepository {
	return &PgxReportingRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ReportingRepository = (*PgxReportingRepository)(nil)

// GetCategoryTotals sums non-deleted ledger rows per category over the
// half-open window [from, to). Reversing rows carry negative amounts, so
// reversals fall out of the totals without special casing. Categories with no
// rows are absent from the map.
func (r *PgxReportingRepository) GetCategoryTotals(ctx context.Context, projectID string, from, to time.Time) (map[domain.Category]decimal.Decimal, error) {
	query := `
		SELECT t.category, COALESCE(SUM(t.amount), 0) AS total
		FROM transactions t
		WHERE t.project_id = $1
		  AND t.created_at >= $2 AND t.created_at < $3
		  AND t.deleted_at IS NULL
		GROUP BY t.category;
	`
	rows, err := r.Pool.Query(ctx, query, projectID, from, to)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query category totals", err)
	}
	defer rows.Close()

	totals := make(map[domain.Category]decimal.Decimal)
	for rows.Next() {
		var category domain.Category
		var total decimal.Decimal
		if err := rows.Scan(&category, &total); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan category total", err)
		}
		totals[category] = total
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to read category totals", err)
	}
	return totals, nil
}

// GetDailyTotals buckets the window's rows into local calendar days. The
// bucketing time zone is passed to the database so a row near midnight UTC
// lands in the same day the services' window math would assign it to.
func (r *PgxReportingRepository) GetDailyTotals(ctx context.Context, projectID string, from, to time.Time, loc *time.Location) ([]domain.DailyTotal, error) {
	query := `
		SELECT date_trunc('day', t.created_at AT TIME ZONE $4) AS day,
		       COALESCE(SUM(t.amount), 0) AS total
		FROM transactions t
		WHERE t.project_id = $1
		  AND t.created_at >= $2 AND t.created_at < $3
		  AND t.deleted_at IS NULL
		GROUP BY day
		ORDER BY day;
	`
	rows, err := r.Pool.Query(ctx, query, projectID, from, to, loc.String())
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query daily totals", err)
	}
	defer rows.Close()

	var totals []domain.DailyTotal
	for rows.Next() {
		var day time.Time
		var total decimal.Decimal
		if err := rows.Scan(&day, &total); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan daily total", err)
		}
		// date_trunc returns a bare local timestamp; re-anchor it in loc.
		totals = append(totals, domain.DailyTotal{
			Day:   time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, loc),
			Total: total,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to read daily totals", err)
	}
	if totals == nil {
		totals = []domain.DailyTotal{}
	}
	return totals, nil
}

func (r *PgxReportingRepository) CountTransactions(ctx context.Context, projectID string, from, to time.Time) (int, error) {
	var count int
	err := r.Pool.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM transactions t
		WHERE t.project_id = $1
		  AND t.created_at >= $2 AND t.created_at < $3
		  AND t.deleted_at IS NULL;
	`, projectID, from, to).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count transactions for project %s: %w", projectID, err)
	}
	return count, nil
}
