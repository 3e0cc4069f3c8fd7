package codec

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"attendance/internal/core"
	"attendance/internal/sheets"
)

func sampleStore(t *testing.T) *core.Store {
	t.Helper()
	s := core.NewStore()
	s.SetMetadata("March", "2024-03-09")
	for _, p := range [][3]string{{"Alice", "a@x.com", "S1"}, {"Bob", "b@x.com", "S2"}, {"Carol", "", ""}} {
		if _, _, err := s.AddPerson(p[0], p[1], p[2]); err != nil {
			t.Fatalf("add %s: %v", p[0], err)
		}
	}
	for _, d := range []int{1, 5, 31} {
		if err := s.SetAttendance("Alice", d, true); err != nil {
			t.Fatal(err)
		}
	}
	if err := s.SetAttendance("Carol", 2, true); err != nil {
		t.Fatal(err)
	}
	return s
}

func TestEncodeAttendanceLayout(t *testing.T) {
	g := EncodeAttendance(sampleStore(t))

	tests := []struct {
		row, col int
		want     sheets.Cell
	}{
		{1, 1, sheets.Text("Month")},
		{1, 2, sheets.Text("March")},
		{2, 1, sheets.Text("Date of update")},
		{2, 2, sheets.Text("2024-03-09")},
		{3, 1, sheets.Text("Name")},
		{3, 2, sheets.Text("Email")},
		{3, 3, sheets.Text("SAP ID")},
		{3, 4, sheets.Int(1)},
		{3, 34, sheets.Int(31)},
		{4, 1, sheets.Text("Alice")},
		{4, 2, sheets.Text("a@x.com")},
		{4, 3, sheets.Text("S1")},
		{4, 4, sheets.Text("Present")},
		{4, 5, sheets.Text("Absent")},
		{4, 34, sheets.Text("Present")},
		{6, 1, sheets.Text("Carol")},
		{6, 5, sheets.Text("Present")},
	}
	for _, tt := range tests {
		if got := g.Get(tt.row, tt.col); got != tt.want {
			t.Errorf("(%d,%d)=%+v, want %+v", tt.row, tt.col, got, tt.want)
		}
	}
	if g.Rows() != 6 {
		t.Errorf("rows=%d, want 6", g.Rows())
	}
	if g.Width(3) != 34 || g.Width(4) != 34 {
		t.Errorf("widths %d %d, want 34", g.Width(3), g.Width(4))
	}
}

func TestAttendanceRoundTrip(t *testing.T) {
	orig := sampleStore(t)
	got, err := DecodeAttendance(EncodeAttendance(orig))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Month() != "March" || got.DateOfUpdate() != "2024-03-09" {
		t.Fatalf("metadata=%q %q", got.Month(), got.DateOfUpdate())
	}
	a, b := orig.Entries(), got.Entries()
	if len(a) != len(b) {
		t.Fatalf("entries %d, want %d", len(b), len(a))
	}
	for i := range a {
		if a[i].Person.Name() != b[i].Person.Name() ||
			a[i].Person.Email() != b[i].Person.Email() ||
			a[i].Person.SapID() != b[i].Person.SapID() {
			t.Errorf("entry %d: %+v vs %+v", i, a[i].Person, b[i].Person)
		}
		if !reflect.DeepEqual(a[i].Record.Slots(), b[i].Record.Slots()) {
			t.Errorf("entry %d slots differ", i)
		}
	}
	if !reflect.DeepEqual(core.ComputeSummary(orig), core.ComputeSummary(got)) {
		t.Fatal("summary changed across round trip")
	}
}

func TestDecodeStopsAtEmptyName(t *testing.T) {
	g := EncodeAttendance(sampleStore(t))
	g.Set(5, 1, sheets.Text(""))

	s, err := DecodeAttendance(g)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if s.Len() != 1 {
		t.Fatalf("len=%d, want 1 (rows after the empty name are ignored)", s.Len())
	}

	empty := EncodeAttendance(core.NewStore())
	s, err = DecodeAttendance(empty)
	if err != nil {
		t.Fatalf("empty sheet: %v", err)
	}
	if s.Len() != 0 {
		t.Fatalf("empty sheet: len=%d", s.Len())
	}
}

func TestDecodeAcceptsTextDayHeadersAndLooseStatuses(t *testing.T) {
	g := EncodeAttendance(sampleStore(t))
	g.Set(3, 4, sheets.Text("1"))
	g.Set(4, 5, sheets.Text("present"))
	g.Set(4, 6, sheets.Int(1))

	s, err := DecodeAttendance(g)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	rec, _ := s.Record("Alice")
	if p, _ := rec.Present(1); !p {
		t.Error("day 1 should stay present")
	}
	for _, d := range []int{2, 3} {
		if p, _ := rec.Present(d); p {
			t.Errorf("day %d: only the literal Present counts", d)
		}
	}
}

func TestDecodeMalformed(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(g *sheets.Grid)
		row    int
		column int
	}{
		{"missing month label", func(g *sheets.Grid) { g.Set(1, 1, sheets.Text("Mon")) }, 1, 1},
		{"missing date label", func(g *sheets.Grid) { g.Set(2, 1, sheets.Cell{}) }, 2, 1},
		{"bad name header", func(g *sheets.Grid) { g.Set(3, 1, sheets.Text("Who")) }, 3, 1},
		{"non-integer day header", func(g *sheets.Grid) { g.Set(3, 10, sheets.Text("seven")) }, 3, 10},
		{"fractional day header", func(g *sheets.Grid) { g.Set(3, 10, sheets.Number(7.5)) }, 3, 10},
		{"out of order day header", func(g *sheets.Grid) { g.Set(3, 10, sheets.Int(3)) }, 3, 10},
		{"short row", func(g *sheets.Grid) { g.Set(5, 34, sheets.Cell{}) }, 5, 0},
		{"duplicate name", func(g *sheets.Grid) { g.Set(6, 1, sheets.Text("Alice")) }, 6, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := EncodeAttendance(sampleStore(t))
			tt.mutate(g)
			s, err := DecodeAttendance(g)
			if s != nil {
				t.Fatal("expected no store on failure")
			}
			if !errors.Is(err, ErrMalformedDocument) {
				t.Fatalf("expected ErrMalformedDocument, got %v", err)
			}
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("expected *ParseError, got %T", err)
			}
			if pe.Row != tt.row || pe.Column != tt.column {
				t.Fatalf("located at (%d,%d), want (%d,%d): %v", pe.Row, pe.Column, tt.row, tt.column, err)
			}
		})
	}
}

func TestEncodeReportLayout(t *testing.T) {
	rows := []core.SummaryRow{
		{Name: "Alice", PresentCount: 1, TotalDays: 31, Percentage: 100.0 / 31},
		{Name: "Bob", PresentCount: 0, TotalDays: 31, Percentage: 0},
	}
	at := time.Date(2024, 3, 9, 14, 5, 6, 0, time.UTC)
	g := EncodeReport(rows, at)

	if g.Title != "Attendance Report" {
		t.Errorf("title=%q", g.Title)
	}
	tests := []struct {
		row, col int
		want     sheets.Cell
	}{
		{1, 1, sheets.Text("Attendance Report")},
		{2, 1, sheets.Text("Generated on: 2024-03-09 14:05:06")},
		{3, 1, sheets.Cell{}},
		{4, 1, sheets.Text("Name")},
		{4, 2, sheets.Text("Present Days")},
		{4, 3, sheets.Text("Total Days")},
		{4, 4, sheets.Text("Percentage")},
		{5, 1, sheets.Text("Alice")},
		{5, 2, sheets.Int(1)},
		{5, 3, sheets.Int(31)},
		{5, 4, sheets.Number(100.0 / 31)},
		{6, 1, sheets.Text("Bob")},
		{6, 4, sheets.Number(0)},
	}
	for _, tt := range tests {
		if got := g.Get(tt.row, tt.col); got != tt.want {
			t.Errorf("(%d,%d)=%+v, want %+v", tt.row, tt.col, got, tt.want)
		}
	}
	if g.Rows() != 6 {
		t.Errorf("rows=%d, want 6", g.Rows())
	}
}
