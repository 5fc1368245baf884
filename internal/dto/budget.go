package dto

import (
	"time"

	"github.com/buildledger/site_ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SetBudgetRequest defines data for setting the (project, category) budget.
// An empty period selects the configured default.
type SetBudgetRequest struct {
	Category    string          `json:"category" binding:"required,txcategory"`
	LimitAmount decimal.Decimal `json:"limitAmount" binding:"required"`
	Period      string          `json:"period" binding:"omitempty,budgetperiod"`
}

// BudgetResponse defines data returned for a budget.
type BudgetResponse struct {
	BudgetID      string              `json:"budgetID"`
	ProjectID     string              `json:"projectID"`
	Category      domain.Category     `json:"category"`
	LimitAmount   decimal.Decimal     `json:"limitAmount"`
	Period        domain.BudgetPeriod `json:"period"`
	IsActive      bool                `json:"isActive"`
	CreatedAt     time.Time           `json:"createdAt"`
	LastUpdatedAt time.Time           `json:"lastUpdatedAt"`
}

// ToBudgetResponse converts domain.Budget to DTO.
func ToBudgetResponse(b *domain.Budget) BudgetResponse {
	return BudgetResponse{
		BudgetID:      b.BudgetID,
		ProjectID:     b.ProjectID,
		Category:      b.Category,
		LimitAmount:   b.LimitAmount,
		Period:        b.Period,
		IsActive:      b.IsActive,
		CreatedAt:     b.CreatedAt,
		LastUpdatedAt: b.LastUpdatedAt,
	}
}

// ListBudgetsResponse wraps a project's active budgets.
type ListBudgetsResponse struct {
	Budgets []BudgetResponse `json:"budgets"`
}

// ToListBudgetsResponse converts a slice of domain.Budget to DTO.
func ToListBudgetsResponse(bs []domain.Budget) ListBudgetsResponse {
	list := make([]BudgetResponse, len(bs))
	for i, b := range bs {
		list[i] = ToBudgetResponse(&b)
	}
	return ListBudgetsResponse{Budgets: list}
}

// BudgetStatusResponse is the budget-vs-actual result for one category.
type BudgetStatusResponse struct {
	Budget      BudgetResponse  `json:"budget"`
	PeriodStart time.Time       `json:"periodStart"`
	PeriodEnd   time.Time       `json:"periodEnd"`
	Spent       decimal.Decimal `json:"spent"`
	Remaining   decimal.Decimal `json:"remaining"`
	OverBudget  bool            `json:"overBudget"`
}

// ToBudgetStatusResponse converts domain.BudgetStatus to DTO.
func ToBudgetStatusResponse(s *domain.BudgetStatus) BudgetStatusResponse {
	return BudgetStatusResponse{
		Budget:      ToBudgetResponse(&s.Budget),
		PeriodStart: s.PeriodStart,
		PeriodEnd:   s.PeriodEnd,
		Spent:       s.Spent,
		Remaining:   s.Remaining,
		OverBudget:  s.OverBudget,
	}
}

// BudgetStatusEntryResponse is one category's outcome in a whole-project
// evaluation. Error is set when that category's evaluation failed; the
// siblings are unaffected.
type BudgetStatusEntryResponse struct {
	Category domain.Category       `json:"category"`
	Status   *BudgetStatusResponse `json:"status,omitempty"`
	Error    string                `json:"error,omitempty"`
}

// ProjectBudgetStatusResponse wraps a whole-project evaluation.
type ProjectBudgetStatusResponse struct {
	ProjectID string                      `json:"projectID"`
	AsOf      time.Time                   `json:"asOf"`
	Entries   []BudgetStatusEntryResponse `json:"entries"`
}

// ToProjectBudgetStatusResponse converts evaluation entries to a DTO.
func ToProjectBudgetStatusResponse(projectID string, asOf time.Time, entries []domain.BudgetStatusEntry) ProjectBudgetStatusResponse {
	response := ProjectBudgetStatusResponse{
		ProjectID: projectID,
		AsOf:      asOf,
		Entries:   make([]BudgetStatusEntryResponse, len(entries)),
	}
	for i, entry := range entries {
		out := BudgetStatusEntryResponse{Category: entry.Category}
		if entry.Status != nil {
			status := ToBudgetStatusResponse(entry.Status)
			out.Status = &status
		}
		if entry.Err != nil {
			out.Error = entry.Err.Error()
		}
		response.Entries[i] = out
	}
	return response
}
