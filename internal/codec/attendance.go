// Package codec converts between the attendance store and spreadsheet grids.
//
// Attendance sheet layout (1-indexed):
//
//	row 1   A "Month"           B month
//	row 2   A "Date of update"  B date of update
//	row 3   A "Name" B "Email" C "SAP ID", D..AJ day numbers 1..31
//	row 4+  name, email, SAP ID, then "Present"/"Absent" per day
//
// Data rows end at the first row whose column A is empty.
package codec

import (
	"errors"
	"strings"

	"attendance/internal/core"
	"attendance/internal/sheets"
)

const (
	AttendanceTitle = "Attendance"

	labelMonth        = "Month"
	labelDateOfUpdate = "Date of update"
	headerName        = "Name"
	headerEmail       = "Email"
	headerSapID       = "SAP ID"

	statusPresent = "Present"
	statusAbsent  = "Absent"

	headerRow    = 3
	firstDataRow = 4
	firstDayCol  = 4
	lastDayCol   = firstDayCol + core.DaysInPeriod - 1
)

// EncodeAttendance lays s out as an attendance sheet.
func EncodeAttendance(s *core.Store) *sheets.Grid {
	g := sheets.NewGrid(AttendanceTitle)
	g.Set(1, 1, sheets.Text(labelMonth))
	g.Set(1, 2, sheets.Text(s.Month()))
	g.Set(2, 1, sheets.Text(labelDateOfUpdate))
	g.Set(2, 2, sheets.Text(s.DateOfUpdate()))

	g.Set(headerRow, 1, sheets.Text(headerName))
	g.Set(headerRow, 2, sheets.Text(headerEmail))
	g.Set(headerRow, 3, sheets.Text(headerSapID))
	for day := 1; day <= core.DaysInPeriod; day++ {
		g.Set(headerRow, firstDayCol+day-1, sheets.Int(day))
	}

	for i, e := range s.Entries() {
		row := firstDataRow + i
		g.Set(row, 1, sheets.Text(e.Person.Name()))
		g.Set(row, 2, sheets.Text(e.Person.Email()))
		g.Set(row, 3, sheets.Text(e.Person.SapID()))
		for day, present := range e.Record.Slots() {
			status := statusAbsent
			if present {
				status = statusPresent
			}
			g.Set(row, firstDayCol+day, sheets.Text(status))
		}
	}
	return g
}

// DecodeAttendance builds a new store from an attendance sheet. The caller's
// store is never touched, so a failure leaves it as it was.
func DecodeAttendance(g *sheets.Grid) (*core.Store, error) {
	if g == nil {
		return nil, parseErr(1, 0, "empty document")
	}
	if err := expectLabel(g, 1, 1, labelMonth); err != nil {
		return nil, err
	}
	if err := expectLabel(g, 2, 1, labelDateOfUpdate); err != nil {
		return nil, err
	}
	for col, want := range []string{headerName, headerEmail, headerSapID} {
		if err := expectLabel(g, headerRow, col+1, want); err != nil {
			return nil, err
		}
	}
	for day := 1; day <= core.DaysInPeriod; day++ {
		col := firstDayCol + day - 1
		c := g.Get(headerRow, col)
		n, ok := c.Int()
		if !ok {
			return nil, parseErr(headerRow, col, "day header %q is not an integer", c.String())
		}
		if n != day {
			return nil, parseErr(headerRow, col, "day header is %d, want %d", n, day)
		}
	}

	s := core.NewStore()
	s.SetMetadata(g.Get(1, 2).String(), g.Get(2, 2).String())

	for row := firstDataRow; ; row++ {
		if g.Get(row, 1).IsEmpty() {
			break
		}
		if w := g.Width(row); w < lastDayCol {
			return nil, parseErr(row, 0, "row has %d columns, want %d", w, lastDayCol)
		}
		days := make([]bool, core.DaysInPeriod)
		for i := range days {
			c := g.Get(row, firstDayCol+i)
			days[i] = c.IsString() && c.Text == statusPresent
		}
		name := g.Get(row, 1).String()
		_, err := s.AppendEntry(name, g.Get(row, 2).String(), g.Get(row, 3).String(), core.NewAttendanceRecord(days))
		if errors.Is(err, core.ErrDuplicateName) {
			return nil, parseErr(row, 1, "duplicate name %q", strings.TrimSpace(name))
		}
		if err != nil {
			return nil, parseErr(row, 1, "%v", err)
		}
	}
	return s, nil
}

func expectLabel(g *sheets.Grid, row, col int, want string) error {
	c := g.Get(row, col)
	if strings.TrimSpace(c.String()) != want {
		return parseErr(row, col, "expected %q, found %q", want, c.String())
	}
	return nil
}
