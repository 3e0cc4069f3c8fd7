package app

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"attendance/internal/codec"
	"attendance/internal/core"
	"attendance/internal/log"
	"attendance/internal/settings"
	"attendance/internal/sheets"
	"attendance/internal/sheets/memory"
)

var testNow = time.Date(2024, 3, 9, 14, 5, 6, 0, time.UTC)

type fakePublisher struct {
	events []string
	err    error
}

func (p *fakePublisher) PublishDocumentSaved(_ context.Context, path, kind string) error {
	p.events = append(p.events, kind+":"+path)
	return p.err
}

type failingDocs struct{ err error }

func (f failingDocs) WriteDocument(context.Context, string, *sheets.Grid) error { return f.err }
func (f failingDocs) ReadDocument(context.Context, string) (*sheets.Grid, error) {
	return nil, f.err
}

func newTestApp(t *testing.T, docs sheets.Document, pub Publisher) *App {
	t.Helper()
	a, err := New(Options{
		Settings:  settings.New(testNow, "/docs"),
		Documents: docs,
		Publisher: pub,
		Now:       func() time.Time { return testNow },
		Logger:    log.New(log.Config{Output: io.Discard}),
	})
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	return a
}

func TestNewRequiresBackend(t *testing.T) {
	if _, err := New(Options{}); err == nil {
		t.Fatal("expected error without a document backend")
	}
}

func TestNewSeedsMetadata(t *testing.T) {
	a := newTestApp(t, memory.New(), nil)
	v := a.Refresh()
	if v.Month != "March" || v.DateOfUpdate != "2024-03-09" {
		t.Fatalf("metadata=%q %q", v.Month, v.DateOfUpdate)
	}
	if v.Settings.DefaultSavePath != "/docs" || v.Settings.Theme != settings.ThemeLight {
		t.Fatalf("settings=%+v", v.Settings)
	}
}

func TestResolvePath(t *testing.T) {
	a := newTestApp(t, memory.New(), nil)
	tests := []struct {
		in, want string
	}{
		{"march", "/docs/march.xlsx"},
		{"sub/march.xlsx", "/docs/sub/march.xlsx"},
		{"/abs/report", "/abs/report.xlsx"},
		{"/abs/report.xls", "/abs/report.xls"},
		{"  spaced  ", "/docs/spaced.xlsx"},
	}
	for _, tt := range tests {
		got, err := a.ResolvePath(tt.in)
		if err != nil || got != filepath.FromSlash(tt.want) {
			t.Errorf("ResolvePath(%q)=%q,%v want %q", tt.in, got, err, tt.want)
		}
	}
	if _, err := a.ResolvePath("  "); !errors.Is(err, ErrInvalidPath) {
		t.Fatalf("expected ErrInvalidPath, got %v", err)
	}
}

func TestScenarioSaveLoadKeepsSummary(t *testing.T) {
	docs := memory.New()
	pub := &fakePublisher{}
	a := newTestApp(t, docs, pub)
	ctx := context.Background()

	if _, added, err := a.AddPerson("Alice", "a@x.com", "S1"); err != nil || !added {
		t.Fatalf("add: added=%v err=%v", added, err)
	}
	want := []core.SummaryRow{{Name: "Alice", PresentCount: 0, TotalDays: 31, Percentage: 0}}
	if got := a.ComputeSummary(); !reflect.DeepEqual(got, want) {
		t.Fatalf("summary=%+v", got)
	}

	if err := a.SetAttendance("Alice", 5, true); err != nil {
		t.Fatal(err)
	}
	before := a.ComputeSummary()
	if before[0].PresentCount != 1 || core.FormatSummaryLine(before[0]) != "Alice: 1/31 days (3.2%)" {
		t.Fatalf("summary=%+v", before)
	}

	path, err := a.SaveToPath(ctx, "march")
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	a.Clear()
	if len(a.ComputeSummary()) != 0 {
		t.Fatal("summary after clear must be empty")
	}

	if _, err := a.LoadFromPath(ctx, path); err != nil {
		t.Fatalf("load: %v", err)
	}
	if after := a.ComputeSummary(); !reflect.DeepEqual(before, after) {
		t.Fatalf("summary changed: %+v vs %+v", before, after)
	}
	if len(pub.events) != 1 || pub.events[0] != "attendance:"+filepath.FromSlash("/docs/march.xlsx") {
		t.Fatalf("events=%v", pub.events)
	}
}

func TestLoadFailureKeepsStore(t *testing.T) {
	docs := memory.New()
	a := newTestApp(t, docs, nil)
	ctx := context.Background()
	a.AddPerson("Alice", "", "")
	a.SetMetadata("April", "2024-04-01")

	broken := codec.EncodeAttendance(core.NewStore())
	broken.Set(4, 1, sheets.Text("Bob"))
	broken.Set(4, 4, sheets.Text("Present"))
	if err := docs.WriteDocument(ctx, "/docs/broken.xlsx", broken); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		path string
		want error
	}{
		{"broken", codec.ErrMalformedDocument},
		{"missing", sheets.ErrDocumentNotFound},
	}
	for _, tt := range tests {
		_, err := a.LoadFromPath(ctx, tt.path)
		if !errors.Is(err, tt.want) {
			t.Fatalf("load %s: expected %v, got %v", tt.path, tt.want, err)
		}
		v := a.Refresh()
		if len(v.People) != 1 || v.People[0].Name != "Alice" || v.Month != "April" {
			t.Fatalf("store modified by failed load: %+v", v)
		}
	}
}

func TestSaveFailureAndPublishFailure(t *testing.T) {
	ctx := context.Background()
	ioErr := errors.New("disk full")
	pub := &fakePublisher{}
	a := newTestApp(t, failingDocs{err: ioErr}, pub)
	a.AddPerson("Alice", "", "")

	if _, err := a.SaveToPath(ctx, "x"); !errors.Is(err, ioErr) {
		t.Fatalf("expected wrapped io error, got %v", err)
	}
	if _, err := a.ExportReportToPath(ctx, "x"); !errors.Is(err, ioErr) {
		t.Fatalf("expected wrapped io error, got %v", err)
	}
	if len(pub.events) != 0 {
		t.Fatalf("failed writes must not publish: %v", pub.events)
	}
	if a.Refresh().People[0].Name != "Alice" {
		t.Fatal("store modified by failed save")
	}

	// A broken broker never fails a successful save.
	b := newTestApp(t, memory.New(), &fakePublisher{err: errors.New("broker down")})
	if _, err := b.SaveToPath(ctx, "y"); err != nil {
		t.Fatalf("save with failing publisher: %v", err)
	}
}

func TestExportReport(t *testing.T) {
	docs := memory.New()
	pub := &fakePublisher{}
	a := newTestApp(t, docs, pub)
	ctx := context.Background()
	a.AddPerson("Alice", "", "")
	a.SetAttendance("Alice", 1, true)

	path, err := a.ExportReportToPath(ctx, "/out/report")
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	g, err := docs.ReadDocument(ctx, path)
	if err != nil {
		t.Fatal(err)
	}
	if g.Title != codec.ReportTitle || g.Get(2, 1).Text != "Generated on: 2024-03-09 14:05:06" || g.Get(5, 2).Number != 1 {
		t.Fatalf("unexpected report grid: %+v", g)
	}
	if len(pub.events) != 1 || pub.events[0] != "report:"+path {
		t.Fatalf("events=%v", pub.events)
	}
}

func TestUpdateSettings(t *testing.T) {
	a := newTestApp(t, memory.New(), nil)
	month, dark, bad := "June", "DARK", "sepia"

	s, err := a.UpdateSettings(SettingsChange{DefaultMonth: &month, Theme: &dark})
	if err != nil {
		t.Fatal(err)
	}
	if s.DefaultMonth != "June" || s.Theme != settings.ThemeDark || s.DefaultSavePath != "/docs" {
		t.Fatalf("settings=%+v", s)
	}

	path := "/elsewhere"
	if _, err := a.UpdateSettings(SettingsChange{DefaultSavePath: &path, Theme: &bad}); !errors.Is(err, settings.ErrInvalidTheme) {
		t.Fatalf("expected ErrInvalidTheme, got %v", err)
	}
	if a.Settings().DefaultSavePath != "/docs" {
		t.Fatal("invalid change must not apply partially")
	}
}
