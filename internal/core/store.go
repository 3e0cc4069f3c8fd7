package core

import (
	"fmt"
)

// Store owns the roster and the attendance record of every person on it.
//
// Records are keyed by the roster entry id, so the roster slice and the record
// map are always updated together and never depend on each other's ordering.
// A Store is not safe for concurrent use; callers serialise access.
type Store struct {
	roster       []RosterEntry
	records      map[string]AttendanceRecord
	month        string
	dateOfUpdate string
}

// Entry pairs a roster entry with its attendance record.
type Entry struct {
	Person RosterEntry
	Record AttendanceRecord
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{records: make(map[string]AttendanceRecord)}
}

// AddPerson appends a person with an all-absent record.
//
// A blank name is treated as a cancelled add: nothing changes and added is
// false with a nil error. A name already on the roster is rejected with
// ErrDuplicateName.
func (s *Store) AddPerson(name, email, sapID string) (entry RosterEntry, added bool, err error) {
	name = normalizeName(name)
	if name == "" {
		return RosterEntry{}, false, nil
	}
	if _, ok := s.find(name); ok {
		return RosterEntry{}, false, fmt.Errorf("%w: %q", ErrDuplicateName, name)
	}
	entry = NewRosterEntry(name, email, sapID)
	s.insert(entry, AttendanceRecord{})
	return entry, true, nil
}

// RemoveLast removes the most recently added person and their record.
// It returns ErrNothingToRemove when the roster is empty.
func (s *Store) RemoveLast() (RosterEntry, error) {
	if len(s.roster) == 0 {
		return RosterEntry{}, ErrNothingToRemove
	}
	last := s.roster[len(s.roster)-1]
	s.roster = s.roster[:len(s.roster)-1]
	delete(s.records, last.id)
	return last, nil
}

// Clear empties the roster and every record. Metadata is kept.
func (s *Store) Clear() {
	s.roster = nil
	s.records = make(map[string]AttendanceRecord)
}

// SetAttendance marks day (1..DaysInPeriod) for the named person.
func (s *Store) SetAttendance(name string, day int, present bool) error {
	if err := ValidateDay(day); err != nil {
		return err
	}
	i, ok := s.find(normalizeName(name))
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownPerson, name)
	}
	id := s.roster[i].id
	rec, err := s.records[id].With(day, present)
	if err != nil {
		return err
	}
	s.records[id] = rec
	return nil
}

// SetMetadata replaces the month label and the date-of-update stamp.
func (s *Store) SetMetadata(month, dateOfUpdate string) {
	s.month = month
	s.dateOfUpdate = dateOfUpdate
}

func (s *Store) Month() string        { return s.month }
func (s *Store) DateOfUpdate() string { return s.dateOfUpdate }

// Len returns the number of people on the roster.
func (s *Store) Len() int {
	return len(s.roster)
}

// Roster returns a copy of the roster in insertion order.
func (s *Store) Roster() []RosterEntry {
	out := make([]RosterEntry, len(s.roster))
	copy(out, s.roster)
	return out
}

// Record returns the attendance record of the named person.
func (s *Store) Record(name string) (AttendanceRecord, bool) {
	i, ok := s.find(normalizeName(name))
	if !ok {
		return AttendanceRecord{}, false
	}
	return s.records[s.roster[i].id], true
}

// Entries returns every person with their record, in roster order.
func (s *Store) Entries() []Entry {
	out := make([]Entry, 0, len(s.roster))
	for _, e := range s.roster {
		out = append(out, Entry{Person: e, Record: s.records[e.id]})
	}
	return out
}

// AppendEntry adds a fully populated person, as read back from a document.
// Blank and duplicate names are rejected.
func (s *Store) AppendEntry(name, email, sapID string, record AttendanceRecord) (RosterEntry, error) {
	name = normalizeName(name)
	if name == "" {
		return RosterEntry{}, ErrEmptyName
	}
	if _, ok := s.find(name); ok {
		return RosterEntry{}, fmt.Errorf("%w: %q", ErrDuplicateName, name)
	}
	entry := NewRosterEntry(name, email, sapID)
	s.insert(entry, record)
	return entry, nil
}

// ReplaceWith swaps the whole content of s with other's. other must not be
// used afterwards.
func (s *Store) ReplaceWith(other *Store) {
	s.roster = other.roster
	s.records = other.records
	if s.records == nil {
		s.records = make(map[string]AttendanceRecord)
	}
	s.month = other.month
	s.dateOfUpdate = other.dateOfUpdate
}

func (s *Store) insert(entry RosterEntry, record AttendanceRecord) {
	if s.records == nil {
		s.records = make(map[string]AttendanceRecord)
	}
	s.roster = append(s.roster, entry)
	s.records[entry.id] = record
}

func (s *Store) find(name string) (int, bool) {
	for i, e := range s.roster {
		if e.name == name {
			return i, true
		}
	}
	return -1, false
}
