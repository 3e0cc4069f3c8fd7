//go:build integration

package google

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	ports "attendance/internal/sheets"
)

// Integration tests require a real spreadsheet and service account.
// Run with: go test -tags=integration ./internal/sheets/google

func TestIntegration_DocumentRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	if os.Getenv("GOOGLE_SPREADSHEET_ID") == "" {
		t.Skip("GOOGLE_SPREADSHEET_ID not set, skipping integration test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	client, err := NewFromEnv(ctx)
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}

	path := fmt.Sprintf("integration-%d.xlsx", time.Now().Unix())
	g := ports.NewGrid("Attendance")
	g.Set(1, 1, ports.Text("Month"))
	g.Set(1, 2, ports.Text("Integration"))
	g.Set(3, 4, ports.Int(1))

	if err := client.WriteDocument(ctx, path, g); err != nil {
		t.Fatalf("Failed to write document: %v", err)
	}
	got, err := client.ReadDocument(ctx, path)
	if err != nil {
		t.Fatalf("Failed to read document: %v", err)
	}
	if got.Get(1, 2).Text != "Integration" || got.Get(3, 4).Number != 1 {
		t.Errorf("Unexpected grid: %v", got.Values())
	}
	t.Logf("Wrote and read back tab %s", TabName(path))
}
