package dto

import (
	"time"

	"github.com/buildledger/site_ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateTransactionRequest defines data for recording an expense.
type CreateTransactionRequest struct {
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Category    string          `json:"category" binding:"required,txcategory"`
	Description string          `json:"description"`
	PhotoURL    string          `json:"photoURL" binding:"omitempty,url"`
}

// ReverseTransactionRequest defines data for reversing a recorded expense.
type ReverseTransactionRequest struct {
	Reason string `json:"reason"`
}

// TransactionResponse defines data returned for a ledger entry.
type TransactionResponse struct {
	TransactionID         string          `json:"transactionID"`
	ProjectID             string          `json:"projectID"`
	Amount                decimal.Decimal `json:"amount"`
	Category              domain.Category `json:"category"`
	Description           string          `json:"description"`
	PhotoURL              string          `json:"photoURL,omitempty"`
	CreatedByID           *string         `json:"createdByID,omitempty"`
	ReversesTransactionID *string         `json:"reversesTransactionID,omitempty"`
	CreatedAt             time.Time       `json:"createdAt"`
}

// ToTransactionResponse converts domain.Transaction to DTO.
func ToTransactionResponse(t *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		TransactionID:         t.TransactionID,
		ProjectID:             t.ProjectID,
		Amount:                t.Amount,
		Category:              t.Category,
		Description:           t.Description,
		PhotoURL:              t.PhotoURL,
		CreatedByID:           t.CreatedByID,
		ReversesTransactionID: t.ReversesTransactionID,
		CreatedAt:             t.CreatedAt,
	}
}

// ListTransactionsResponse wraps a project's ledger page.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
}

// ToListTransactionsResponse converts a slice of domain.Transaction to DTO.
func ToListTransactionsResponse(ts []domain.Transaction) ListTransactionsResponse {
	list := make([]TransactionResponse, len(ts))
	for i, t := range ts {
		list[i] = ToTransactionResponse(&t)
	}
	return ListTransactionsResponse{Transactions: list}
}
