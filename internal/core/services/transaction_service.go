package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/buildledger/site_ledger_app/internal/apperrors"
	"github.com/buildledger/site_ledger_app/internal/core/domain"
	portsrepo "github.com/buildledger/site_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/buildledger/site_ledger_app/internal/core/ports/services"
	"github.com/buildledger/site_ledger_app/internal/middleware"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionService handles the write side of the append-only ledger.
type TransactionService struct {
	txnRepo     portsrepo.TransactionRepository
	projectRepo portsrepo.ProjectRepository
	authorizer  portssvc.ProjectAuthorizer
}

// NewTransactionService creates a new TransactionService.
func NewTransactionService(tr portsrepo.TransactionRepository, pr portsrepo.ProjectRepository, auth portssvc.ProjectAuthorizer) portssvc.TransactionSvcFacade {
	return &TransactionService{txnRepo: tr, projectRepo: pr, authorizer: auth}
}

var _ portssvc.TransactionSvcFacade = (*TransactionService)(nil)

// CreateTransaction records a single expense. The write has no side effects
// beyond the ledger row: budget evaluation is pull-based, so recording a
// spend never couples to alerting.
func (s *TransactionService) CreateTransaction(ctx context.Context, params portssvc.CreateTransactionParams) (*domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !params.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive, got %s", apperrors.ErrValidation, params.Amount)
	}
	if _, err := domain.ParseCategory(string(params.Category)); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	project, err := s.projectRepo.FindProjectByID(ctx, params.ProjectID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: project %s", apperrors.ErrNotFound, params.ProjectID)
		}
		return nil, fmt.Errorf("failed to validate project: %w", err)
	}
	if project.IsArchived() {
		return nil, fmt.Errorf("%w: project %s is archived", apperrors.ErrConflict, params.ProjectID)
	}

	if params.CreatedByID != nil {
		if err := s.authorizer.AuthorizeMember(ctx, *params.CreatedByID, params.ProjectID, domain.RoleMember); err != nil {
			return nil, err
		}
	}

	txn := domain.Transaction{
		TransactionID: uuid.NewString(),
		ProjectID:     params.ProjectID,
		Amount:        params.Amount,
		Category:      params.Category,
		Description:   params.Description,
		PhotoURL:      params.PhotoURL,
		CreatedByID:   params.CreatedByID,
	}

	// The store assigns created_at and seq; client time never orders the
	// ledger.
	saved, err := s.txnRepo.SaveTransaction(ctx, txn)
	if err != nil {
		logger.Error("Failed to save transaction", slog.String("error", err.Error()), slog.String("project_id", params.ProjectID))
		return nil, fmt.Errorf("failed to record transaction: %w", err)
	}

	logger.Info("Transaction recorded",
		slog.String("transaction_id", saved.TransactionID),
		slog.String("project_id", saved.ProjectID),
		slog.String("category", string(saved.Category)),
		slog.String("amount", saved.Amount.String()))
	return saved, nil
}

// GetTransactionByID retrieves a single ledger row.
func (s *TransactionService) GetTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	return s.txnRepo.FindTransactionByID(ctx, transactionID)
}

// ListProjectTransactions returns the project's rows matching the filter,
// totally ordered by the store's (created_at, seq).
func (s *TransactionService) ListProjectTransactions(ctx context.Context, projectID string, filter domain.TransactionFilter) ([]domain.Transaction, error) {
	if filter.From != nil && filter.To != nil && !filter.From.Before(*filter.To) {
		return nil, fmt.Errorf("%w: time window start must precede end", apperrors.ErrValidation)
	}
	if filter.Category != nil {
		if _, err := domain.ParseCategory(string(*filter.Category)); err != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
	}

	txns, err := s.txnRepo.ListTransactions(ctx, projectID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions for project %s: %w", projectID, err)
	}
	if txns == nil {
		txns = []domain.Transaction{}
	}
	return txns, nil
}

// ReverseTransaction appends a negating entry for an earlier transaction.
// History is never edited: the original row stays, the reversal carries the
// negative amount, and aggregates net out to zero.
func (s *TransactionService) ReverseTransaction(ctx context.Context, actingUserID, transactionID, reason string) (*domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	original, err := s.txnRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: transaction %s", apperrors.ErrNotFound, transactionID)
		}
		return nil, fmt.Errorf("failed to retrieve original transaction: %w", err)
	}

	if original.IsReversal() {
		return nil, fmt.Errorf("%w: cannot reverse a transaction that is already a reversal", apperrors.ErrConflict)
	}
	if _, err := s.txnRepo.FindReversalOf(ctx, transactionID); err == nil {
		return nil, fmt.Errorf("%w: transaction %s is already reversed", apperrors.ErrConflict, transactionID)
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing reversal: %w", err)
	}

	if err := s.authorizer.AuthorizeMember(ctx, actingUserID, original.ProjectID, domain.RoleMember); err != nil {
		return nil, err
	}

	description := reason
	if description == "" {
		description = fmt.Sprintf("Reversal of: %s", original.Description)
	}

	reversal := domain.Transaction{
		TransactionID:         uuid.NewString(),
		ProjectID:             original.ProjectID,
		Amount:                original.Amount.Mul(decimal.NewFromInt(-1)),
		Category:              original.Category,
		Description:           description,
		CreatedByID:           &actingUserID,
		ReversesTransactionID: &original.TransactionID,
	}

	saved, err := s.txnRepo.SaveTransaction(ctx, reversal)
	if err != nil {
		logger.Error("Failed to save reversal", slog.String("error", err.Error()), slog.String("original_id", transactionID))
		return nil, fmt.Errorf("failed to record reversal: %w", err)
	}

	logger.Info("Transaction reversed",
		slog.String("transaction_id", saved.TransactionID),
		slog.String("original_id", transactionID))
	return saved, nil
}
