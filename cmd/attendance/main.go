package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"attendance/internal/amqp"
	"attendance/internal/app"
	"attendance/internal/cli"
	"attendance/internal/config"
	apphttp "attendance/internal/http"
	"attendance/internal/log"
	"attendance/internal/middleware/ratelimit"
	"attendance/internal/settings"
	"attendance/internal/sheets"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(log.ComponentApp)

	cfg := cli.LoadAndValidateConfig(logger, (*config.Config).Validate)
	docs := cli.InitBackend(context.Background(), logger, cfg)
	defer func() {
		if err := docs.Close(); err != nil {
			logger.Error("Failed to close document backend", log.FieldError, err)
		}
	}()

	// The publisher is optional: without a broker documents are still
	// written, only the sync worker is not told about them.
	var publisher app.Publisher
	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("AMQP unavailable, document events disabled", log.FieldError, err)
		} else {
			defer client.Close()
			publisher = client.WithBackend(cfg.DocumentBackend)
			logger.Info("AMQP publisher ready", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
		}
	}

	register, err := app.New(app.Options{
		Settings:  settings.New(time.Now(), cfg.DocumentsDir),
		Documents: docs.Documents,
		Publisher: publisher,
		Logger:    logger,
	})
	if err != nil {
		logger.Error("Failed to create application", log.FieldError, err)
		os.Exit(1)
	}

	opts := apphttp.Options{Logger: logger, RateLimit: ratelimit.DefaultConfig()}
	if lister, ok := docs.Documents.(sheets.DocumentLister); ok {
		opts.Lister = lister
	}
	srv := apphttp.NewServer(":"+cfg.Port, register, opts)

	_, done := cli.GracefulShutdown(logger, cfg.ShutdownTimeout, func(shutdownCtx context.Context) {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", log.FieldError, err)
		}
	})

	logger.Info("Starting attendance server", "port", cfg.Port, log.FieldBackend, cfg.DocumentBackend)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", log.FieldError, err, "port", cfg.Port)
		os.Exit(1)
	}

	<-done
	logger.Info("Server stopped gracefully")
}
