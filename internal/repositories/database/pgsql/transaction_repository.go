package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/buildledger/site_ledger_app/internal/apperrors"
	"github.com/buildledger/site_ledger_app/internal/core/domain"
	portsrepo "github.com/buildledger/site_ledger_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxTransactionRepository struct {
	BaseRepository
}

func newPgxTransactionRepository(pool *pgxpool.Pool) portsrepo.TransactionRepository {
	return &PgxTransactionRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.TransactionRepository = (*PgxTransactionRepository)(nil)

const transactionSelectQuery = `
SELECT t.transaction_id, t.project_id, t.amount, t.category, t.description,
       t.photo_url, t.created_by_id, t.reverses_transaction_id, t.seq,
       t.created_at, t.deleted_at
FROM transactions t
`

func (r *PgxTransactionRepository) getTransactions(ctx context.Context, filterQuery string, args ...any) ([]domain.Transaction, error) {
	rows, err := r.Pool.Query(ctx, transactionSelectQuery+filterQuery, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query transactions", err)
	}
	defer rows.Close()

	txns, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.Transaction])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []domain.Transaction{}, nil
		}
		return nil, apperrors.NewAppError(500, "failed to collect transaction rows", err)
	}
	return txns, nil
}

// SaveTransaction appends a ledger row. created_at and seq are assigned by
// the database so that the (created_at, seq) ordering is a store-side fact,
// and the saved row is returned with both populated.
func (r *PgxTransactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction) (*domain.Transaction, error) {
	query := `
		INSERT INTO transactions
			(transaction_id, project_id, amount, category, description, photo_url, created_by_id, reverses_transaction_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING seq, created_at;
	`
	err := r.Pool.QueryRow(ctx, query,
		txn.TransactionID,
		txn.ProjectID,
		txn.Amount,
		txn.Category,
		txn.Description,
		txn.PhotoURL,
		txn.CreatedByID,
		txn.ReversesTransactionID,
	).Scan(&txn.Seq, &txn.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperrors.NewConflictError("transaction ID " + txn.TransactionID + " already exists")
		}
		if isForeignKeyViolation(err) {
			return nil, apperrors.NewNotFoundError("project or user for transaction does not exist")
		}
		return nil, fmt.Errorf("failed to save transaction: %w", err)
	}
	return &txn, nil
}

func (r *PgxTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	txns, err := r.getTransactions(ctx, `WHERE t.transaction_id = $1 AND t.deleted_at IS NULL`, transactionID)
	if err != nil {
		return nil, err
	}
	if len(txns) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return &txns[0], nil
}

func (r *PgxTransactionRepository) FindReversalOf(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	txns, err := r.getTransactions(ctx, `WHERE t.reverses_transaction_id = $1 AND t.deleted_at IS NULL`, transactionID)
	if err != nil {
		return nil, err
	}
	if len(txns) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return &txns[0], nil
}

func (r *PgxTransactionRepository) ListTransactions(ctx context.Context, projectID string, filter domain.TransactionFilter) ([]domain.Transaction, error) {
	filterQuery := `WHERE t.project_id = $1 AND t.deleted_at IS NULL`
	args := []any{projectID}

	if filter.Category != nil {
		args = append(args, *filter.Category)
		filterQuery += ` AND t.category = $` + strconv.Itoa(len(args))
	}
	if filter.From != nil {
		args = append(args, *filter.From)
		filterQuery += ` AND t.created_at >= $` + strconv.Itoa(len(args))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		filterQuery += ` AND t.created_at < $` + strconv.Itoa(len(args))
	}

	filterQuery += ` ORDER BY t.created_at, t.seq`

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	args = append(args, limit)
	filterQuery += ` LIMIT $` + strconv.Itoa(len(args))

	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		filterQuery += ` OFFSET $` + strconv.Itoa(len(args))
	}

	return r.getTransactions(ctx, filterQuery, args...)
}
