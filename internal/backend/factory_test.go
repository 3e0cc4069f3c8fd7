package backend

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"reflect"
	"testing"

	"attendance/internal/config"
	"attendance/internal/sheets"
	"attendance/internal/sheets/memory"
	"attendance/internal/sheets/xlsx"
	"attendance/internal/storage"
)

func quietFactory() Factory {
	return NewFactory(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestCreateBackend(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "attendance.db")

	tests := []struct {
		name        string
		config      Config
		wantType    any
		wantCleanup bool
	}{
		{"xlsx", Config{Type: XLSXBackend}, &xlsx.Store{}, false},
		{"memory", Config{Type: MemoryBackend}, &memory.Store{}, false},
		{"sqlite", Config{Type: SQLiteBackend, SQLiteDBPath: dbPath}, &storage.SQLiteRepository{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := quietFactory().CreateBackend(ctx, tt.config)
			if err != nil {
				t.Fatalf("CreateBackend() error = %v", err)
			}
			defer res.Close()

			if reflect.TypeOf(res.Documents) != reflect.TypeOf(tt.wantType) {
				t.Errorf("Documents = %T, want %T", res.Documents, tt.wantType)
			}
			if (res.Cleanup != nil) != tt.wantCleanup {
				t.Errorf("Cleanup set = %v, want %v", res.Cleanup != nil, tt.wantCleanup)
			}

			g := sheets.NewGrid("Attendance")
			g.Set(1, 1, sheets.Text("Month"))
			path := filepath.Join(t.TempDir(), "doc.xlsx")
			if err := res.Documents.WriteDocument(ctx, path, g); err != nil {
				t.Fatalf("write through %s backend: %v", tt.name, err)
			}
			got, err := res.Documents.ReadDocument(ctx, path)
			if err != nil || got.Get(1, 1).Text != "Month" {
				t.Fatalf("read through %s backend: %v %v", tt.name, got, err)
			}
		})
	}
}

func TestCreateBackendInvalidConfig(t *testing.T) {
	tests := []Config{
		{Type: "csv"},
		{Type: SQLiteBackend},
		{Type: SheetsBackend},
	}
	for _, cfg := range tests {
		if _, err := quietFactory().CreateBackend(context.Background(), cfg); err == nil {
			t.Errorf("CreateBackend(%+v) expected error", cfg)
		}
	}
}

func TestFromAppConfig(t *testing.T) {
	if _, err := FromAppConfig(nil); err == nil {
		t.Error("expected error for nil config")
	}
	if _, err := FromAppConfig(&config.Config{DocumentBackend: "csv"}); err == nil {
		t.Error("expected error for unknown backend")
	}

	cfg, err := FromAppConfig(&config.Config{
		DocumentBackend:     "sqlite",
		SQLiteDBPath:        "/tmp/a.db",
		GoogleSpreadsheetID: "sid",
	})
	if err != nil {
		t.Fatalf("FromAppConfig() error = %v", err)
	}
	want := Config{Type: SQLiteBackend, SQLiteDBPath: "/tmp/a.db", GoogleSpreadsheetID: "sid"}
	if cfg != want {
		t.Errorf("FromAppConfig() = %+v, want %+v", cfg, want)
	}
}

func TestGetBackendTypeStrings(t *testing.T) {
	got := GetBackendTypeStrings()
	want := []string{"xlsx", "memory", "sqlite", "sheets"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("GetBackendTypeStrings() = %v, want %v", got, want)
	}
}
