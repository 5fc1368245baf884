package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DailyTotal is one day's aggregated spend for a project. Day identifies the
// start of the half-open day window in the configured time zone.
type DailyTotal struct {
	Day   time.Time       `json:"day"`
	Total decimal.Decimal `json:"total"`
}

// ProjectReport is the pull-based summary rendered by the front end and the
// spreadsheet export. It is always derived, never cached.
type ProjectReport struct {
	ProjectID        string                       `json:"projectID"`
	ProjectName      string                       `json:"projectName"`
	PeriodStart      time.Time                    `json:"periodStart"`
	PeriodEnd        time.Time                    `json:"periodEnd"`
	TotalSpend       decimal.Decimal              `json:"totalSpend"`
	CategoryTotals   map[Category]decimal.Decimal `json:"categoryTotals"`
	TransactionCount int                          `json:"transactionCount"`
}

// BudgetStatus is the evaluator's budget-vs-actual result for one
// (project, category) pair. Remaining may be negative.
type BudgetStatus struct {
	Budget      Budget          `json:"budget"`
	PeriodStart time.Time       `json:"periodStart"`
	PeriodEnd   time.Time       `json:"periodEnd"`
	Spent       decimal.Decimal `json:"spent"`
	Remaining   decimal.Decimal `json:"remaining"`
	OverBudget  bool            `json:"overBudget"`
}

// BudgetStatusEntry is one category's outcome in a whole-project evaluation.
// Each entry succeeds or fails independently of its siblings.
type BudgetStatusEntry struct {
	Category Category      `json:"category"`
	Status   *BudgetStatus `json:"status,omitempty"`
	Err      error         `json:"-"`
}
