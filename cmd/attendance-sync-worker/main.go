package main

import (
	"context"
	"errors"
	"os"

	"golang.org/x/sync/errgroup"

	"attendance/internal/amqp"
	"attendance/internal/cli"
	"attendance/internal/config"
	"attendance/internal/log"
	gsheet "attendance/internal/sheets/google"
	"attendance/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(log.ComponentWorker)
	logger.Info("Starting attendance-sync-worker")

	cfg := cli.LoadAndValidateConfig(logger, (*config.Config).ValidateWorker)

	ctx, done := cli.GracefulShutdown(logger, cfg.ShutdownTimeout, nil)

	source := cli.InitBackend(ctx, logger, cfg)
	defer source.Close()

	mirror, err := gsheet.NewFromEnv(ctx)
	if err != nil {
		logger.Error("Failed to initialize Google Sheets client", log.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Google Sheets client initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID)

	client, err := amqp.DialWithRetry(ctx, cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, cfg.AMQPConnectRetries)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", log.FieldError, err)
		os.Exit(1)
	}
	defer client.Close()

	syncWorker := worker.NewSyncWorker(source.Documents, mirror)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		// Recovers documents saved while the worker was down. Failures are
		// logged and never stop consumption.
		logger.Info("Performing startup sync check...")
		if err := syncWorker.StartupSync(gctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("Failed startup sync check", log.FieldError, err)
		}
		return nil
	})
	g.Go(func() error {
		err := client.ConsumeDocumentSaved(gctx, syncWorker.HandleDocumentSaved)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	if err := g.Wait(); err != nil {
		logger.Error("Message consumption failed", log.FieldError, err)
		os.Exit(1)
	}
	<-done
}
