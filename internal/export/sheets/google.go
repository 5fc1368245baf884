// Package sheets exports project reports to a Google spreadsheet using a
// service account.
package sheets

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/buildledger/site_ledger_app/internal/core/domain"
	"github.com/buildledger/site_ledger_app/internal/platform/config"
	"golang.org/x/oauth2/google"
	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

const reportSheetName = "Reports"

// Client writes project report rows to one spreadsheet.
type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
}

// NewClient creates a Sheets client from the configured service account
// credentials. GOOGLE_SERVICE_ACCOUNT_JSON takes precedence over the file
// path variants.
func NewClient(ctx context.Context, cfg *config.Config) (*Client, error) {
	if cfg.GoogleSpreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}

	credentialsJSON, err := loadCredentials(cfg)
	if err != nil {
		return nil, err
	}

	jwtConfig, err := google.JWTConfigFromJSON(credentialsJSON, gsheet.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("parse service account credentials: %w", err)
	}

	svc, err := gsheet.NewService(ctx, goption.WithHTTPClient(jwtConfig.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return &Client{svc: svc, spreadsheetID: cfg.GoogleSpreadsheetID}, nil
}

func loadCredentials(cfg *config.Config) ([]byte, error) {
	if cfg.GoogleServiceAccountJSON != "" {
		return []byte(cfg.GoogleServiceAccountJSON), nil
	}
	if cfg.GoogleServiceAccountFile != "" {
		credentialsJSON, err := os.ReadFile(cfg.GoogleServiceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		return credentialsJSON, nil
	}
	return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON or GOOGLE_SERVICE_ACCOUNT_FILE)")
}

// AppendProjectReport appends one row per report to the Reports sheet. Each
// row carries the window, total spend, per-category totals in the stable
// category order and the entry count.
func (c *Client) AppendProjectReport(ctx context.Context, report *domain.ProjectReport) error {
	row := []interface{}{
		report.ProjectID,
		report.ProjectName,
		report.PeriodStart.Format("2006-01-02"),
		report.PeriodEnd.Format("2006-01-02"),
		report.TotalSpend.String(),
	}
	for _, category := range domain.Categories() {
		row = append(row, report.CategoryTotals[category].String())
	}
	row = append(row, report.TransactionCount)

	valueRange := &gsheet.ValueRange{Values: [][]interface{}{row}}

	_, err := c.svc.Spreadsheets.Values.
		Append(c.spreadsheetID, reportSheetName+"!A:Z", valueRange).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("append report row: %w", err)
	}
	return nil
}
