// Package worker hosts the queue consumers that feed the ledger from the
// conversational front end and keep the spreadsheet export current.
package worker

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/buildledger/site_ledger_app/internal/apperrors"
	"github.com/buildledger/site_ledger_app/internal/core/domain"
	portssvc "github.com/buildledger/site_ledger_app/internal/core/ports/services"
	"github.com/buildledger/site_ledger_app/internal/messaging/amqp"
)

// ReportExporter writes a project report to the external spreadsheet.
type ReportExporter interface {
	AppendProjectReport(ctx context.Context, report *domain.ProjectReport) error
}

// Publisher sends messages to the broker.
type Publisher interface {
	Publish(ctx context.Context, queueName string, msg amqp.Message) error
}

// SyncWorker consumes inbound expense messages and export requests. Each
// recorded expense triggers an export request so the spreadsheet follows the
// ledger without the front end asking for it.
type SyncWorker struct {
	users        portssvc.UserSvcFacade
	transactions portssvc.TransactionSvcFacade
	reporting    portssvc.ReportingSvcFacade
	exporter     ReportExporter
	publisher    Publisher
	exportQueue  string
	loc          *time.Location
}

// NewSyncWorker creates a SyncWorker. exporter and publisher may be nil when
// the spreadsheet integration is disabled.
func NewSyncWorker(
	users portssvc.UserSvcFacade,
	transactions portssvc.TransactionSvcFacade,
	reporting portssvc.ReportingSvcFacade,
	exporter ReportExporter,
	publisher Publisher,
	exportQueue string,
	loc *time.Location,
) *SyncWorker {
	return &SyncWorker{
		users:        users,
		transactions: transactions,
		reporting:    reporting,
		exporter:     exporter,
		publisher:    publisher,
		exportQueue:  exportQueue,
		loc:          loc,
	}
}

// isPermanent reports whether the error cannot succeed on redelivery.
// Permanent failures are dropped; returning them to the consumer would
// requeue the message forever.
func isPermanent(err error) bool {
	return errors.Is(err, apperrors.ErrValidation) ||
		errors.Is(err, apperrors.ErrNotFound) ||
		errors.Is(err, apperrors.ErrConflict) ||
		errors.Is(err, apperrors.ErrForbidden)
}

// HandleInboundTransaction ingests one expense from the front end: resolve
// the sender to a user, append the ledger row, then request an export.
func (w *SyncWorker) HandleInboundTransaction(ctx context.Context, body []byte) error {
	msg, err := amqp.TransactionInboundMessageFromJSON(body)
	if err != nil {
		slog.ErrorContext(ctx, "Dropping undecodable inbound transaction", "error", err)
		return nil
	}

	user, err := w.users.EnsureUser(ctx, msg.ExternalUserID, msg.UserName)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to ensure user for inbound transaction",
			"error", err, "external_user_id", msg.ExternalUserID)
		return err
	}

	category, err := domain.ParseCategory(msg.Category)
	if err != nil {
		slog.WarnContext(ctx, "Dropping inbound transaction with unknown category",
			"category", msg.Category, "project_id", msg.ProjectID)
		return nil
	}

	txn, err := w.transactions.CreateTransaction(ctx, portssvc.CreateTransactionParams{
		ProjectID:   msg.ProjectID,
		Amount:      msg.Amount,
		Category:    category,
		Description: msg.Description,
		PhotoURL:    msg.PhotoURL,
		CreatedByID: &user.UserID,
	})
	if err != nil {
		if isPermanent(err) {
			slog.WarnContext(ctx, "Dropping unprocessable inbound transaction",
				"error", err, "project_id", msg.ProjectID)
			return nil
		}
		slog.ErrorContext(ctx, "Failed to record inbound transaction",
			"error", err, "project_id", msg.ProjectID)
		return err
	}

	slog.InfoContext(ctx, "Recorded inbound transaction",
		"transaction_id", txn.TransactionID,
		"project_id", txn.ProjectID,
		"category", string(txn.Category))

	if w.publisher != nil {
		if err := w.publisher.Publish(ctx, w.exportQueue, amqp.NewReportExportMessage(txn.ProjectID)); err != nil {
			// The ledger row is safe; the periodic export catches up.
			slog.WarnContext(ctx, "Failed to request report export",
				"error", err, "project_id", txn.ProjectID)
		}
	}

	return nil
}

// HandleReportExport refreshes the spreadsheet with the project's current
// calendar month summary.
func (w *SyncWorker) HandleReportExport(ctx context.Context, body []byte) error {
	if w.exporter == nil {
		return nil
	}

	msg, err := amqp.ReportExportMessageFromJSON(body)
	if err != nil {
		slog.ErrorContext(ctx, "Dropping undecodable export request", "error", err)
		return nil
	}

	from, to := domain.PeriodCalendarMonth.Window(time.Now(), w.loc)
	report, err := w.reporting.ProjectReport(ctx, msg.ProjectID, from, to)
	if err != nil {
		if isPermanent(err) {
			slog.WarnContext(ctx, "Dropping export request for unknown project",
				"error", err, "project_id", msg.ProjectID)
			return nil
		}
		slog.ErrorContext(ctx, "Failed to build project report for export",
			"error", err, "project_id", msg.ProjectID)
		return err
	}

	if err := w.exporter.AppendProjectReport(ctx, report); err != nil {
		slog.ErrorContext(ctx, "Failed to export project report",
			"error", err, "project_id", msg.ProjectID)
		return err
	}

	slog.InfoContext(ctx, "Exported project report",
		"project_id", msg.ProjectID,
		"total_spend", report.TotalSpend.String())
	return nil
}
