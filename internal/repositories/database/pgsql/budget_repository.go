package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/buildledger/site_ledger_app/internal/apperrors"
	"github.com/buildledger/site_ledger_app/internal/core/domain"
	portsrepo "github.com/buildledger/site_ledger_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxBudgetRepository struct {
	BaseRepository
}

func newPgxBudgetRepository(pool *pgxpool.Pool) portsrepo.BudgetRepository {
	return &PgxBudgetRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.BudgetRepository = (*PgxBudgetRepository)(nil)

const budgetSelectQuery = `
SELECT b.budget_id, b.project_id, b.category, b.limit_amount, b.period, b.is_active,
       b.created_at, b.created_by, b.last_updated_at, b.last_updated_by
FROM budgets b
`

// UpsertBudget deactivates any prior active budget for the (project, category)
// pair and inserts the replacement in one transaction. The partial unique
// index on (project_id, category) WHERE is_active backstops concurrent
// upserts: the loser gets a unique violation, reported as a conflict.
func (r *PgxBudgetRepository) UpsertBudget(ctx context.Context, budget domain.Budget) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	_, err = tx.Exec(ctx, `
		UPDATE budgets
		SET is_active = FALSE, last_updated_at = $1, last_updated_by = $2
		WHERE project_id = $3 AND category = $4 AND is_active;
	`, budget.LastUpdatedAt, budget.LastUpdatedBy, budget.ProjectID, budget.Category)
	if err != nil {
		return fmt.Errorf("failed to deactivate prior budget: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO budgets
			(budget_id, project_id, category, limit_amount, period, is_active,
			 created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`,
		budget.BudgetID,
		budget.ProjectID,
		budget.Category,
		budget.LimitAmount,
		budget.Period,
		budget.IsActive,
		budget.CreatedAt,
		budget.CreatedBy,
		budget.LastUpdatedAt,
		budget.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.NewConflictError("concurrent budget update for project " + budget.ProjectID)
		}
		if isForeignKeyViolation(err) {
			return apperrors.NewNotFoundError("project " + budget.ProjectID + " does not exist")
		}
		return fmt.Errorf("failed to save budget: %w", err)
	}

	return r.Commit(ctx, tx)
}

func (r *PgxBudgetRepository) FindActiveBudget(ctx context.Context, projectID string, category domain.Category) (*domain.Budget, error) {
	rows, err := r.Pool.Query(ctx, budgetSelectQuery+`WHERE b.project_id = $1 AND b.category = $2 AND b.is_active`, projectID, category)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query budget", err)
	}
	defer rows.Close()

	budget, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[domain.Budget])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to collect budget row", err)
	}
	return &budget, nil
}

func (r *PgxBudgetRepository) ListActiveBudgets(ctx context.Context, projectID string) ([]domain.Budget, error) {
	rows, err := r.Pool.Query(ctx, budgetSelectQuery+`WHERE b.project_id = $1 AND b.is_active ORDER BY b.category`, projectID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query budgets", err)
	}
	defer rows.Close()

	budgets, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.Budget])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []domain.Budget{}, nil
		}
		return nil, apperrors.NewAppError(500, "failed to collect budget rows", err)
	}
	return budgets, nil
}
