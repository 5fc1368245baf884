package services

import (
	"context"

	"github.com/buildledger/site_ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateTransactionParams carries the already-parsed arguments for recording
// an expense. The core does not care whether they came from a chat command,
// a voice transcription or an HTTP client.
type CreateTransactionParams struct {
	ProjectID   string
	Amount      decimal.Decimal
	Category    domain.Category
	Description string
	PhotoURL    string
	CreatedByID *string
}

// TransactionSvcFacade defines the write side of the ledger. Transactions
// are append-only; the only corrections are reversing entries.
type TransactionSvcFacade interface {
	// CreateTransaction validates amount > 0, the closed category set, the
	// target project and (when given) the creator's authoring membership.
	// It performs no budget evaluation; aggregation is pull-based.
	CreateTransaction(ctx context.Context, params CreateTransactionParams) (*domain.Transaction, error)
	GetTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)
	ListProjectTransactions(ctx context.Context, projectID string, filter domain.TransactionFilter) ([]domain.Transaction, error)
	// ReverseTransaction appends a negating entry for the given transaction.
	// Reversing a reversal, or a transaction that already has one, is a
	// Conflict.
	ReverseTransaction(ctx context.Context, actingUserID, transactionID, reason string) (*domain.Transaction, error)
}
