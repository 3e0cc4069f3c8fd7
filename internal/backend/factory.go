package backend

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"attendance/internal/cache"
	"attendance/internal/sheets/google"
	"attendance/internal/sheets/memory"
	"attendance/internal/sheets/xlsx"
	"attendance/internal/storage"
)

// Reads of the remote spreadsheet are cached; each one is an API round trip.
const (
	sheetsCacheSize = 32
	sheetsCacheTTL  = 5 * time.Minute
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *slog.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{logger: logger}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Type {
	case XLSXBackend:
		f.logger.Info("Initialized xlsx backend")
		return &BackendResult{Documents: xlsx.New()}, nil
	case MemoryBackend:
		f.logger.Info("Initialized memory backend")
		return &BackendResult{Documents: memory.New()}, nil
	case SQLiteBackend:
		return f.createSQLiteBackend(config)
	case SheetsBackend:
		return f.createSheetsBackend(ctx)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

func (f *DefaultFactory) createSQLiteBackend(config Config) (*BackendResult, error) {
	repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
	}

	f.logger.Info("Initialized SQLite backend", "db_path", config.SQLiteDBPath)

	return &BackendResult{
		Documents: repo,
		Cleanup:   repo.Close,
	}, nil
}

func (f *DefaultFactory) createSheetsBackend(ctx context.Context) (*BackendResult, error) {
	cli, err := google.NewFromEnv(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Google Sheets client: %w", err)
	}

	f.logger.Info("Initialized Google Sheets backend", "cache_size", sheetsCacheSize, "cache_ttl", sheetsCacheTTL)

	return &BackendResult{Documents: cache.NewDocuments(cli, sheetsCacheSize, sheetsCacheTTL)}, nil
}
