package dto

import (
	"time"

	"github.com/buildledger/site_ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CategoryTotalsResponse represents per-category spend over a window.
type CategoryTotalsResponse struct {
	ProjectID string                     `json:"projectID"`
	FromDate  string                     `json:"fromDate"`
	ToDate    string                     `json:"toDate"`
	Totals    map[string]decimal.Decimal `json:"totals"`
	Total     decimal.Decimal            `json:"total"`
}

// ToCategoryTotalsResponse converts a category totals map to a DTO. Total is
// the sum of the map's values.
func ToCategoryTotalsResponse(projectID string, from, to time.Time, totals map[domain.Category]decimal.Decimal) CategoryTotalsResponse {
	response := CategoryTotalsResponse{
		ProjectID: projectID,
		FromDate:  from.Format("2006-01-02"),
		ToDate:    to.Format("2006-01-02"),
		Totals:    make(map[string]decimal.Decimal, len(totals)),
		Total:     decimal.Zero,
	}
	for category, total := range totals {
		response.Totals[string(category)] = total
		response.Total = response.Total.Add(total)
	}
	return response
}

// DailyTotalResponse represents one day's spend.
type DailyTotalResponse struct {
	Day   string          `json:"day"`
	Total decimal.Decimal `json:"total"`
}

// DailyBreakdownResponse represents per-day spend over a window.
type DailyBreakdownResponse struct {
	ProjectID string               `json:"projectID"`
	FromDate  string               `json:"fromDate"`
	ToDate    string               `json:"toDate"`
	Days      []DailyTotalResponse `json:"days"`
}

// ToDailyBreakdownResponse converts domain daily totals to a DTO.
func ToDailyBreakdownResponse(projectID string, from, to time.Time, totals []domain.DailyTotal) DailyBreakdownResponse {
	response := DailyBreakdownResponse{
		ProjectID: projectID,
		FromDate:  from.Format("2006-01-02"),
		ToDate:    to.Format("2006-01-02"),
		Days:      make([]DailyTotalResponse, len(totals)),
	}
	for i, t := range totals {
		response.Days[i] = DailyTotalResponse{
			Day:   t.Day.Format("2006-01-02"),
			Total: t.Total,
		}
	}
	return response
}

// DailyExpensesResponse represents a single day's total.
type DailyExpensesResponse struct {
	ProjectID string          `json:"projectID"`
	Day       string          `json:"day"`
	Total     decimal.Decimal `json:"total"`
}

// ProjectReportResponse represents the project summary used by the front end
// and the spreadsheet export.
type ProjectReportResponse struct {
	ProjectID        string                     `json:"projectID"`
	ProjectName      string                     `json:"projectName"`
	FromDate         string                     `json:"fromDate"`
	ToDate           string                     `json:"toDate"`
	TotalSpend       decimal.Decimal            `json:"totalSpend"`
	CategoryTotals   map[string]decimal.Decimal `json:"categoryTotals"`
	TransactionCount int                        `json:"transactionCount"`
}

// ToProjectReportResponse converts domain.ProjectReport to a DTO.
func ToProjectReportResponse(r *domain.ProjectReport) ProjectReportResponse {
	response := ProjectReportResponse{
		ProjectID:        r.ProjectID,
		ProjectName:      r.ProjectName,
		FromDate:         r.PeriodStart.Format("2006-01-02"),
		ToDate:           r.PeriodEnd.Format("2006-01-02"),
		TotalSpend:       r.TotalSpend,
		CategoryTotals:   make(map[string]decimal.Decimal, len(r.CategoryTotals)),
		TransactionCount: r.TransactionCount,
	}
	for category, total := range r.CategoryTotals {
		response.CategoryTotals[string(category)] = total
	}
	return response
}
