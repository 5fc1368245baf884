package pgsql

import (
	portsrepo "github.com/buildledger/site_ledger_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider builds every pgx-backed repository over one pool.
func NewRepositoryProvider(pool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		UserRepo:        newPgxUserRepository(pool),
		ProjectRepo:     newPgxProjectRepository(pool),
		TransactionRepo: newPgxTransactionRepository(pool),
		BudgetRepo:      newPgxBudgetRepository(pool),
		ReportingRepo:   newPgxReportingRepository(pool),
		APITokenRepo:    newPgxAPITokenRepository(pool),
	}
}
