package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Category classifies a transaction's purpose. The set is closed so that
// aggregation can be exhaustive and invalid input is caught at the boundary
// rather than deep inside a report.
type Category string

const (
	CategoryMaterials Category = "MATERIALS"
	CategoryLabor     Category = "LABOR"
	CategoryTransport Category = "TRANSPORT"
	CategoryOther     Category = "OTHER"
)

// Categories lists every valid category in stable order.
func Categories() []Category {
	return []Category{CategoryMaterials, CategoryLabor, CategoryTransport, CategoryOther}
}

// ParseCategory normalizes and validates a category token.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range Categories() {
		if c == known {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category %q", s)
}

// Transaction is a single recorded expense event. The ledger is append-only:
// amount, category and project are immutable after creation, and corrections
// are made by recording a reversing transaction (negative amount) linked via
// ReversesTransactionID, never by editing history.
type Transaction struct {
	TransactionID string          `json:"transactionID" db:"transaction_id"`
	ProjectID     string          `json:"projectID" db:"project_id"`
	Amount        decimal.Decimal `json:"amount" db:"amount"` // positive on entry, negative on reversing rows
	Category      Category        `json:"category" db:"category"`
	Description   string          `json:"description" db:"description"`
	PhotoURL      string          `json:"photoURL" db:"photo_url"`
	CreatedByID   *string         `json:"createdByID,omitempty" db:"created_by_id"`
	// ReversesTransactionID links a reversing entry to the row it negates.
	ReversesTransactionID *string `json:"reversesTransactionID,omitempty" db:"reverses_transaction_id"`
	// Seq is assigned by the store and breaks ordering ties among rows that
	// share a creation timestamp; clients never supply it.
	Seq       int64      `json:"seq" db:"seq"`
	CreatedAt time.Time  `json:"createdAt" db:"created_at"`
	DeletedAt *time.Time `json:"deletedAt,omitempty" db:"deleted_at"`
}

// IsReversal reports whether the transaction negates an earlier entry.
func (t *Transaction) IsReversal() bool {
	return t.ReversesTransactionID != nil
}

// TransactionFilter narrows ListTransactions range queries. From/To form a
// half-open window [From, To).
type TransactionFilter struct {
	Category *Category
	From     *time.Time
	To       *time.Time
	Limit    int
	Offset   int
}
