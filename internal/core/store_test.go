package core

import (
	"errors"
	"testing"
)

func TestStoreAddPerson(t *testing.T) {
	s := NewStore()

	e, added, err := s.AddPerson("Alice", "a@x.com", "S1")
	if err != nil || !added {
		t.Fatalf("add: added=%v err=%v", added, err)
	}
	if e.Name() != "Alice" || e.Email() != "a@x.com" || e.SapID() != "S1" || e.ID() == "" {
		t.Fatalf("unexpected entry: %+v", e)
	}
	rec, ok := s.Record("Alice")
	if !ok {
		t.Fatal("record missing after add")
	}
	if rec.Len() != DaysInPeriod || rec.PresentCount() != 0 {
		t.Fatalf("fresh record: len=%d present=%d", rec.Len(), rec.PresentCount())
	}
}

func TestStoreAddPersonBlankNameIsCancelled(t *testing.T) {
	s := NewStore()
	for _, name := range []string{"", "   ", "\t"} {
		_, added, err := s.AddPerson(name, "e", "s")
		if err != nil || added {
			t.Fatalf("name %q: added=%v err=%v", name, added, err)
		}
	}
	if s.Len() != 0 {
		t.Fatalf("store changed: len=%d", s.Len())
	}
}

func TestStoreAddPersonDuplicate(t *testing.T) {
	s := NewStore()
	if _, _, err := s.AddPerson("Alice", "", ""); err != nil {
		t.Fatal(err)
	}
	_, added, err := s.AddPerson(" Alice ", "other", "")
	if !errors.Is(err, ErrDuplicateName) || added {
		t.Fatalf("expected ErrDuplicateName, got added=%v err=%v", added, err)
	}
	if s.Len() != 1 {
		t.Fatalf("len=%d, want 1", s.Len())
	}
}

func TestStoreRemoveLast(t *testing.T) {
	s := NewStore()
	if _, err := s.RemoveLast(); !errors.Is(err, ErrNothingToRemove) {
		t.Fatalf("empty store: got %v", err)
	}
	if s.Len() != 0 {
		t.Fatal("empty store changed")
	}

	s.AddPerson("A", "", "")
	s.AddPerson("B", "", "")
	if err := s.SetAttendance("A", 3, true); err != nil {
		t.Fatal(err)
	}
	removed, err := s.RemoveLast()
	if err != nil {
		t.Fatal(err)
	}
	if removed.Name() != "B" {
		t.Fatalf("removed %q, want B", removed.Name())
	}
	if _, ok := s.Record("B"); ok {
		t.Fatal("record of removed person still present")
	}
	rec, ok := s.Record("A")
	if !ok || rec.PresentCount() != 1 {
		t.Fatalf("record of A lost: ok=%v present=%d", ok, rec.PresentCount())
	}
	if len(s.records) != len(s.roster) {
		t.Fatalf("roster/records out of step: %d vs %d", len(s.roster), len(s.records))
	}
}

func TestStoreRemoveLastAfterReAdd(t *testing.T) {
	s := NewStore()
	s.AddPerson("A", "", "")
	s.AddPerson("B", "", "")
	s.RemoveLast()
	s.AddPerson("C", "", "")
	s.RemoveLast()

	if s.Len() != 1 || s.Roster()[0].Name() != "A" {
		t.Fatalf("unexpected roster: %+v", s.Roster())
	}
	if _, ok := s.Record("A"); !ok {
		t.Fatal("record of A removed instead of C")
	}
	if len(s.records) != 1 {
		t.Fatalf("records=%d, want 1", len(s.records))
	}
}

func TestStoreSetAttendance(t *testing.T) {
	s := NewStore()
	s.AddPerson("Alice", "", "")

	tests := []struct {
		name    string
		person  string
		day     int
		wantErr error
	}{
		{"first day", "Alice", 1, nil},
		{"last day", "Alice", 31, nil},
		{"day zero", "Alice", 0, ErrInvalidDay},
		{"day 32", "Alice", 32, ErrInvalidDay},
		{"unknown person", "Bob", 5, ErrUnknownPerson},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.SetAttendance(tt.person, tt.day, true)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("got %v, want %v", err, tt.wantErr)
			}
		})
	}

	rec, _ := s.Record("Alice")
	for day, want := range map[int]bool{1: true, 2: false, 31: true} {
		got, err := rec.Present(day)
		if err != nil || got != want {
			t.Fatalf("day %d: got %v err=%v, want %v", day, got, err, want)
		}
	}

	if err := s.SetAttendance("Alice", 1, false); err != nil {
		t.Fatal(err)
	}
	rec, _ = s.Record("Alice")
	if rec.PresentCount() != 1 {
		t.Fatalf("present=%d after unmarking, want 1", rec.PresentCount())
	}
}

func TestStoreClear(t *testing.T) {
	s := NewStore()
	s.SetMetadata("March", "2025-03-01")
	s.AddPerson("A", "", "")
	s.AddPerson("B", "", "")
	s.Clear()

	if s.Len() != 0 || len(s.records) != 0 {
		t.Fatalf("clear left data: roster=%d records=%d", s.Len(), len(s.records))
	}
	if s.Month() != "March" || s.DateOfUpdate() != "2025-03-01" {
		t.Fatal("clear dropped metadata")
	}
	if _, _, err := s.AddPerson("A", "", ""); err != nil {
		t.Fatalf("add after clear: %v", err)
	}
}

func TestStoreReplaceWith(t *testing.T) {
	s := NewStore()
	s.AddPerson("Old", "", "")
	s.SetMetadata("January", "d1")

	next := NewStore()
	next.SetMetadata("February", "d2")
	rec, _ := AttendanceRecord{}.With(2, true)
	if _, err := next.AppendEntry("New", "n@x", "S9", rec); err != nil {
		t.Fatal(err)
	}

	s.ReplaceWith(next)
	if s.Month() != "February" || s.DateOfUpdate() != "d2" {
		t.Fatalf("metadata not replaced: %q %q", s.Month(), s.DateOfUpdate())
	}
	if s.Len() != 1 || s.Roster()[0].Name() != "New" {
		t.Fatalf("roster not replaced: %+v", s.Roster())
	}
	got, ok := s.Record("New")
	if !ok || got.PresentCount() != 1 {
		t.Fatalf("record not replaced: ok=%v", ok)
	}
}

func TestStoreAppendEntryRejectsBadNames(t *testing.T) {
	s := NewStore()
	if _, err := s.AppendEntry(" ", "", "", AttendanceRecord{}); !errors.Is(err, ErrEmptyName) {
		t.Fatalf("blank: got %v", err)
	}
	s.AppendEntry("A", "", "", AttendanceRecord{})
	if _, err := s.AppendEntry("A", "", "", AttendanceRecord{}); !errors.Is(err, ErrDuplicateName) {
		t.Fatalf("duplicate: got %v", err)
	}
}

func TestAttendanceRecord(t *testing.T) {
	days := make([]bool, 40)
	days[0], days[30], days[35] = true, true, true
	r := NewAttendanceRecord(days)
	if r.Len() != DaysInPeriod {
		t.Fatalf("len=%d", r.Len())
	}
	if r.PresentCount() != 2 {
		t.Fatalf("present=%d, want 2 (extra values ignored)", r.PresentCount())
	}
	slots := r.Slots()
	slots[0] = false
	if p, _ := r.Present(1); !p {
		t.Fatal("Slots must return a copy")
	}
	if _, err := r.Present(0); !errors.Is(err, ErrInvalidDay) {
		t.Fatalf("Present(0): %v", err)
	}
	if _, err := r.With(32, true); !errors.Is(err, ErrInvalidDay) {
		t.Fatalf("With(32): %v", err)
	}
}
