package worker

import (
	"context"
	"errors"
	"testing"

	"attendance/internal/amqp"
	"attendance/internal/sheets"
	"attendance/internal/sheets/memory"
)

type failingWriter struct{ calls int }

func (f *failingWriter) WriteDocument(context.Context, string, *sheets.Grid) error {
	f.calls++
	return errors.New("quota exceeded")
}

// readerOnly hides the memory store's ListDocuments.
type readerOnly struct{ sheets.DocumentReader }

func sampleGrid(month string) *sheets.Grid {
	g := sheets.NewGrid("Attendance")
	g.Set(1, 1, sheets.Text("Month"))
	g.Set(1, 2, sheets.Text(month))
	return g
}

func TestHandleDocumentSavedMirrorsDocument(t *testing.T) {
	ctx := context.Background()
	source, mirror := memory.New(), memory.New()
	if err := source.WriteDocument(ctx, "/docs/march.xlsx", sampleGrid("March")); err != nil {
		t.Fatal(err)
	}

	w := NewSyncWorker(source, mirror)
	msg := amqp.NewDocumentSavedMessage("/docs/march.xlsx", amqp.KindAttendance, "xlsx")
	if err := w.HandleDocumentSaved(ctx, msg); err != nil {
		t.Fatalf("HandleDocumentSaved() error = %v", err)
	}

	got, err := mirror.ReadDocument(ctx, "/docs/march.xlsx")
	if err != nil {
		t.Fatalf("mirror read: %v", err)
	}
	if got.Get(1, 2).Text != "March" {
		t.Errorf("mirrored month = %q", got.Get(1, 2).Text)
	}
}

func TestHandleDocumentSavedMissingDocument(t *testing.T) {
	mirror := &failingWriter{}
	w := NewSyncWorker(memory.New(), mirror)

	msg := amqp.NewDocumentSavedMessage("/docs/gone.xlsx", amqp.KindReport, "")
	if err := w.HandleDocumentSaved(context.Background(), msg); err != nil {
		t.Fatalf("missing document should be skipped, got %v", err)
	}
	if mirror.calls != 0 {
		t.Errorf("mirror written %d times", mirror.calls)
	}
}

func TestHandleDocumentSavedMirrorFailure(t *testing.T) {
	ctx := context.Background()
	source := memory.New()
	source.WriteDocument(ctx, "/docs/march.xlsx", sampleGrid("March"))

	w := NewSyncWorker(source, &failingWriter{})
	err := w.HandleDocumentSaved(ctx, amqp.NewDocumentSavedMessage("/docs/march.xlsx", amqp.KindAttendance, ""))
	if err == nil {
		t.Fatal("expected mirror error so the message is requeued")
	}
}

func TestStartupSync(t *testing.T) {
	ctx := context.Background()
	source, mirror := memory.New(), memory.New()
	source.WriteDocument(ctx, "/docs/march.xlsx", sampleGrid("March"))
	source.WriteDocument(ctx, "/docs/april.xlsx", sampleGrid("April"))

	if err := NewSyncWorker(source, mirror).StartupSync(ctx); err != nil {
		t.Fatalf("StartupSync() error = %v", err)
	}
	paths, _ := mirror.ListDocuments(ctx)
	if len(paths) != 2 {
		t.Fatalf("mirrored %v", paths)
	}

	// Mirror failures are logged, not returned.
	failing := &failingWriter{}
	if err := NewSyncWorker(source, failing).StartupSync(ctx); err != nil {
		t.Fatalf("StartupSync() error = %v", err)
	}
	if failing.calls != 2 {
		t.Errorf("write attempts = %d", failing.calls)
	}
}

func TestStartupSyncWithoutLister(t *testing.T) {
	failing := &failingWriter{}
	w := NewSyncWorker(readerOnly{memory.New()}, failing)
	if err := w.StartupSync(context.Background()); err != nil {
		t.Fatalf("StartupSync() error = %v", err)
	}
	if failing.calls != 0 {
		t.Errorf("write attempts = %d", failing.calls)
	}
}
