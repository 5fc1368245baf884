package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// BudgetPeriod determines which time window a budget limit applies to.
type BudgetPeriod string

const (
	// PeriodCalendarMonth covers the calendar month containing the asOf
	// instant, in the configured time zone.
	PeriodCalendarMonth BudgetPeriod = "CALENDAR_MONTH"
	// PeriodRolling30d covers the 30 days ending with the asOf day.
	PeriodRolling30d BudgetPeriod = "ROLLING_30D"
)

// ParseBudgetPeriod normalizes and validates a period token.
func ParseBudgetPeriod(s string) (BudgetPeriod, error) {
	p := BudgetPeriod(strings.ToUpper(strings.TrimSpace(s)))
	switch p {
	case PeriodCalendarMonth, PeriodRolling30d:
		return p, nil
	}
	return "", fmt.Errorf("unknown budget period %q", s)
}

// Window returns the half-open interval [start, end) of the period containing
// asOf, computed in loc. All budget math shares this one interval policy.
func (p BudgetPeriod) Window(asOf time.Time, loc *time.Location) (time.Time, time.Time) {
	local := asOf.In(loc)
	switch p {
	case PeriodRolling30d:
		dayStart, dayEnd := DayWindow(local, loc)
		return dayStart.AddDate(0, 0, -29), dayEnd
	default: // PeriodCalendarMonth
		start := time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, loc)
		return start, start.AddDate(0, 1, 0)
	}
}

// DayWindow returns the half-open interval [00:00:00, next day 00:00:00)
// containing t, in loc. A transaction created exactly at midnight belongs to
// the day that begins at that instant.
func DayWindow(t time.Time, loc *time.Location) (time.Time, time.Time) {
	local := t.In(loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 0, 1)
}

// Budget is a spend limit for one (project, category) pair. At most one
// budget per pair is active at a time; replacing a budget deactivates the
// prior row atomically.
type Budget struct {
	BudgetID    string          `json:"budgetID" db:"budget_id"`
	ProjectID   string          `json:"projectID" db:"project_id"`
	Category    Category        `json:"category" db:"category"`
	LimitAmount decimal.Decimal `json:"limitAmount" db:"limit_amount"`
	Period      BudgetPeriod    `json:"period" db:"period"`
	IsActive    bool            `json:"isActive" db:"is_active"`
	AuditFields
}
