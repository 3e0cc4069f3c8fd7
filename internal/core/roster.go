package core

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// DaysInPeriod is the fixed number of day slots tracked per person.
const DaysInPeriod = 31

type (
	// RosterEntry identifies one tracked person. Fields are read through accessors
	// so an entry cannot be altered once it is on the roster.
	RosterEntry struct {
		id    string
		name  string
		email string
		sapID string
	}

	// AttendanceRecord holds one present/absent flag per day slot.
	// The zero value is a record with every day absent.
	AttendanceRecord struct {
		slots [DaysInPeriod]bool
	}
)

var (
	ErrInvalidDay      = errors.New("invalid day")
	ErrEmptyName       = errors.New("empty name")
	ErrUnknownPerson   = errors.New("unknown person")
	ErrDuplicateName   = errors.New("duplicate name")
	ErrNothingToRemove = errors.New("nothing to remove")
)

// NewRosterEntry builds an entry with a freshly generated id.
func NewRosterEntry(name, email, sapID string) RosterEntry {
	return RosterEntry{
		id:    uuid.NewString(),
		name:  name,
		email: email,
		sapID: sapID,
	}
}

func (e RosterEntry) ID() string    { return e.id }
func (e RosterEntry) Name() string  { return e.name }
func (e RosterEntry) Email() string { return e.email }
func (e RosterEntry) SapID() string { return e.sapID }

// ValidateDay reports ErrInvalidDay unless day is within 1..DaysInPeriod.
func ValidateDay(day int) error {
	if day < 1 || day > DaysInPeriod {
		return fmt.Errorf("%w: %d (must be 1..%d)", ErrInvalidDay, day, DaysInPeriod)
	}
	return nil
}

// NewAttendanceRecord builds a record from per-day flags. Missing trailing
// days are absent; extra values are ignored.
func NewAttendanceRecord(days []bool) AttendanceRecord {
	var r AttendanceRecord
	copy(r.slots[:], days)
	return r
}

// Len returns the number of day slots in the record.
func (r AttendanceRecord) Len() int {
	return len(r.slots)
}

// Present reports whether the person was present on day (1-indexed).
func (r AttendanceRecord) Present(day int) (bool, error) {
	if err := ValidateDay(day); err != nil {
		return false, err
	}
	return r.slots[day-1], nil
}

// With returns a copy of the record with day set to present.
func (r AttendanceRecord) With(day int, present bool) (AttendanceRecord, error) {
	if err := ValidateDay(day); err != nil {
		return r, err
	}
	r.slots[day-1] = present
	return r, nil
}

// PresentCount returns the number of days marked present.
func (r AttendanceRecord) PresentCount() int {
	n := 0
	for _, p := range r.slots {
		if p {
			n++
		}
	}
	return n
}

// Slots returns a copy of the per-day flags, day 1 first.
func (r AttendanceRecord) Slots() []bool {
	out := make([]bool, len(r.slots))
	copy(out, r.slots[:])
	return out
}

// normalizeName trims surrounding whitespace; blank names are treated as a
// cancelled add.
func normalizeName(name string) string {
	return strings.TrimSpace(name)
}
