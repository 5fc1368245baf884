package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/buildledger/site_ledger_app/internal/core/services"
	"github.com/buildledger/site_ledger_app/internal/export/sheets"
	"github.com/buildledger/site_ledger_app/internal/messaging/amqp"
	"github.com/buildledger/site_ledger_app/internal/platform/config"
	"github.com/buildledger/site_ledger_app/internal/repositories/database/pgsql"
	"github.com/buildledger/site_ledger_app/internal/worker"
	"github.com/buildledger/site_ledger_app/pkg/database"
	"golang.org/x/sync/errgroup"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	logger.Info("Starting ledger worker")

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the worker")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer dbPool.Close()

	repos := pgsql.NewRepositoryProvider(dbPool)
	serviceContainer := services.NewServiceContainer(cfg, repos)

	// The spreadsheet export is optional; without it the worker still
	// ingests inbound transactions.
	var exporter worker.ReportExporter
	if cfg.GoogleSpreadsheetID != "" {
		sheetsClient, err := sheets.NewClient(ctx, cfg)
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", slog.String("error", err.Error()))
			os.Exit(1)
		}
		exporter = sheetsClient
		logger.Info("Google Sheets export enabled", slog.String("spreadsheet_id", cfg.GoogleSpreadsheetID))
	} else {
		logger.Info("Google Sheets export disabled - no GOOGLE_SPREADSHEET_ID provided")
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPIngestQueue, cfg.AMQPExportQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer amqpClient.Close()

	syncWorker := worker.NewSyncWorker(
		serviceContainer.User,
		serviceContainer.Transaction,
		serviceContainer.Reporting,
		exporter,
		amqpClient,
		cfg.AMQPExportQueue,
		cfg.Location,
	)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return amqpClient.Consume(ctx, cfg.AMQPIngestQueue, syncWorker.HandleInboundTransaction)
	})
	if exporter != nil {
		g.Go(func() error {
			return amqpClient.Consume(ctx, cfg.AMQPExportQueue, syncWorker.HandleReportExport)
		})
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker stopped with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("Worker shut down")
}
