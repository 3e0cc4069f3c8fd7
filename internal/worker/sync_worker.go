package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"attendance/internal/amqp"
	"attendance/internal/sheets"
)

// SyncWorker mirrors documents saved by the register to a second backend,
// normally Google Sheets.
type SyncWorker struct {
	source sheets.DocumentReader
	mirror sheets.DocumentWriter
}

func NewSyncWorker(source sheets.DocumentReader, mirror sheets.DocumentWriter) *SyncWorker {
	return &SyncWorker{source: source, mirror: mirror}
}

// HandleDocumentSaved re-reads the saved document from the source backend and
// writes it to the mirror. A document that no longer exists is skipped.
func (w *SyncWorker) HandleDocumentSaved(ctx context.Context, msg *amqp.DocumentSavedMessage) error {
	slog.InfoContext(ctx, "Processing document saved message",
		"message_id", msg.ID,
		"document_path", msg.Path,
		"document_kind", msg.Kind)

	g, err := w.source.ReadDocument(ctx, msg.Path)
	if errors.Is(err, sheets.ErrDocumentNotFound) {
		slog.WarnContext(ctx, "Saved document is gone, skipping", "document_path", msg.Path)
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", msg.Path, err)
	}

	if err := w.mirror.WriteDocument(ctx, msg.Path, g); err != nil {
		return fmt.Errorf("mirror %s: %w", msg.Path, err)
	}

	slog.InfoContext(ctx, "Successfully mirrored document",
		"document_path", msg.Path,
		"rows", g.Rows())
	return nil
}

// StartupSync mirrors every document the source can list. It recovers
// documents saved while the worker was down; sources that cannot list are
// skipped.
func (w *SyncWorker) StartupSync(ctx context.Context) error {
	lister, ok := w.source.(sheets.DocumentLister)
	if !ok {
		slog.InfoContext(ctx, "Source backend cannot list documents, skipping startup sync")
		return nil
	}
	paths, err := lister.ListDocuments(ctx)
	if err != nil {
		return fmt.Errorf("list documents for startup sync: %w", err)
	}
	if len(paths) == 0 {
		slog.InfoContext(ctx, "No documents found on startup")
		return nil
	}

	synced, failed := 0, 0
	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return err
		}
		g, err := w.source.ReadDocument(ctx, p)
		if err == nil {
			err = w.mirror.WriteDocument(ctx, p, g)
		}
		if err != nil {
			slog.ErrorContext(ctx, "Failed to mirror document during startup",
				"document_path", p, "error", err)
			failed++
			continue
		}
		synced++
	}

	slog.InfoContext(ctx, "Startup sync completed",
		"total", len(paths),
		"synced", synced,
		"errors", failed)
	return nil
}
