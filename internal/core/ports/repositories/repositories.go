// Package repositories defines the persistence ports of the ledger core.
// The Entity Store exclusively owns persisted state; services are stateless
// over these interfaces. Implementations must provide per-record atomic
// writes and map backend errors onto the apperrors taxonomy.
package repositories

import (
	"context"
	"time"

	"github.com/buildledger/site_ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// UserRepository defines persistence operations for Users.
type UserRepository interface {
	SaveUser(ctx context.Context, user domain.User) error
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)
	FindUserByExternalID(ctx context.Context, externalID string) (*domain.User, error)
	FindUsers(ctx context.Context, limit, offset int) ([]domain.User, error)
	UpdateUser(ctx context.Context, user domain.User) error
	MarkUserDeleted(ctx context.Context, userID string, deletedAt time.Time, deletedBy string) error
}

// ProjectRepository defines persistence operations for Projects and their
// Memberships. SaveProject persists the project together with its initial
// owner membership in one transaction so the "at least one owner" invariant
// never has an observable gap.
type ProjectRepository interface {
	SaveProject(ctx context.Context, project domain.Project, owner domain.Membership) error
	FindProjectByID(ctx context.Context, projectID string) (*domain.Project, error)
	ListProjectsByUserID(ctx context.Context, userID string) ([]domain.Project, error)
	MarkProjectArchived(ctx context.Context, projectID string, archivedAt time.Time, archivedBy string) error

	UpsertMembership(ctx context.Context, membership domain.Membership) error
	FindMembership(ctx context.Context, projectID, userID string) (*domain.Membership, error)
	ListMembers(ctx context.Context, projectID string) ([]domain.Membership, error)
	// RemoveMembership flips the membership to REMOVED inside one transaction
	// that also verifies the project keeps at least one OWNER. It returns
	// apperrors.ErrNotFound when no live membership exists and
	// apperrors.ErrConflict when removal would leave the project ownerless,
	// even under concurrent removals.
	RemoveMembership(ctx context.Context, projectID, userID string) error
}

// TransactionRepository defines persistence operations for the append-only
// transaction ledger. There is deliberately no update of amount, category or
// project; corrections land as new rows.
type TransactionRepository interface {
	SaveTransaction(ctx context.Context, txn domain.Transaction) (*domain.Transaction, error)
	FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)
	// FindReversalOf returns the reversing entry for a transaction, or
	// apperrors.ErrNotFound when none exists.
	FindReversalOf(ctx context.Context, transactionID string) (*domain.Transaction, error)
	// ListTransactions returns the project's rows matching filter, totally
	// ordered by (created_at, seq).
	ListTransactions(ctx context.Context, projectID string, filter domain.TransactionFilter) ([]domain.Transaction, error)
}

// BudgetRepository defines persistence operations for Budgets. UpsertBudget
// must deactivate any prior active row for the (project, category) pair and
// insert the replacement in one transaction; a concurrent reader never sees
// two active budgets for the pair.
type BudgetRepository interface {
	UpsertBudget(ctx context.Context, budget domain.Budget) error
	FindActiveBudget(ctx context.Context, projectID string, category domain.Category) (*domain.Budget, error)
	ListActiveBudgets(ctx context.Context, projectID string) ([]domain.Budget, error)
}

// ReportingRepository is the single read-side aggregation primitive. Every
// derived quantity in the core (daily expenses, total spend, budget status)
// is computed from GetCategoryTotals or GetDailyTotals over a half-open
// window [from, to); there is exactly one interval policy and one SQL path.
type ReportingRepository interface {
	GetCategoryTotals(ctx context.Context, projectID string, from, to time.Time) (map[domain.Category]decimal.Decimal, error)
	GetDailyTotals(ctx context.Context, projectID string, from, to time.Time, loc *time.Location) ([]domain.DailyTotal, error)
	CountTransactions(ctx context.Context, projectID string, from, to time.Time) (int, error)
}

// APITokenRepository defines persistence operations for front-end dispatcher
// API tokens. Only the bcrypt hash of a token secret is stored.
type APITokenRepository interface {
	SaveToken(ctx context.Context, token domain.APIToken) error
	FindTokenByID(ctx context.Context, tokenID string) (*domain.APIToken, error)
	ListTokensByUserID(ctx context.Context, userID string) ([]domain.APIToken, error)
	RevokeToken(ctx context.Context, tokenID string, revokedAt time.Time) error
	TouchToken(ctx context.Context, tokenID string, usedAt time.Time) error
}

// RepositoryProvider bundles every repository implementation for wiring.
type RepositoryProvider struct {
	UserRepo        UserRepository
	ProjectRepo     ProjectRepository
	TransactionRepo TransactionRepository
	BudgetRepo      BudgetRepository
	ReportingRepo   ReportingRepository
	APITokenRepo    APITokenRepository
}
