package core

import (
	"fmt"
	"strings"
	"time"
)

type (
	// SummaryRow is the derived attendance statistic of one person.
	SummaryRow struct {
		Name         string  `json:"name"`
		PresentCount int     `json:"present"`
		TotalDays    int     `json:"total"`
		Percentage   float64 `json:"percentage"`
	}

	// Totals aggregates a summary over every person.
	Totals struct {
		Attendees         int     `json:"attendees"`
		TotalDays         int     `json:"total_days"`
		TotalPresent      int     `json:"total_present"`
		TotalPossible     int     `json:"total_possible"`
		OverallPercentage float64 `json:"overall_percentage"`
	}
)

// ComputeSummary projects the store into one SummaryRow per person, in roster
// order. The day count of every row is the record length of the first person.
// Nothing is cached; call it again after any mutation.
func ComputeSummary(s *Store) []SummaryRow {
	entries := s.Entries()
	rows := make([]SummaryRow, 0, len(entries))
	if len(entries) == 0 {
		return rows
	}
	totalDays := entries[0].Record.Len()
	for _, e := range entries {
		present := e.Record.PresentCount()
		pct := 0.0
		if totalDays > 0 {
			pct = float64(present) / float64(totalDays) * 100
		}
		rows = append(rows, SummaryRow{
			Name:         e.Person.Name(),
			PresentCount: present,
			TotalDays:    totalDays,
			Percentage:   pct,
		})
	}
	return rows
}

// Aggregate computes overall statistics for a summary. TotalPossible falls
// back to 1 when there is nothing to divide by.
func Aggregate(rows []SummaryRow) Totals {
	t := Totals{Attendees: len(rows)}
	if len(rows) > 0 {
		t.TotalDays = rows[0].TotalDays
	}
	for _, r := range rows {
		t.TotalPresent += r.PresentCount
	}
	t.TotalPossible = t.TotalDays * len(rows)
	if t.TotalPossible == 0 {
		t.TotalPossible = 1
	}
	t.OverallPercentage = float64(t.TotalPresent) / float64(t.TotalPossible) * 100
	return t
}

// FormatSummaryLine renders a row as "name: present/total days (pct%)".
func FormatSummaryLine(r SummaryRow) string {
	return fmt.Sprintf("%s: %d/%d days (%.1f%%)", r.Name, r.PresentCount, r.TotalDays, r.Percentage)
}

// FormatReport renders the plain-text overall report of a summary, dated at
// now. An empty summary yields a single "no data" line.
func FormatReport(rows []SummaryRow, now time.Time) string {
	if len(rows) == 0 {
		return "No attendance data available.\n"
	}
	t := Aggregate(rows)
	var b strings.Builder
	b.WriteString("ATTENDANCE REPORT\n")
	fmt.Fprintf(&b, "Date: %s\n", now.Format("2006-01-02"))
	fmt.Fprintf(&b, "Total attendees: %d\n", t.Attendees)
	fmt.Fprintf(&b, "Total days recorded: %d\n", t.TotalDays)
	fmt.Fprintf(&b, "Overall attendance: %.1f%%\n\n", t.OverallPercentage)
	b.WriteString("INDIVIDUAL RECORDS:\n")
	for _, r := range rows {
		b.WriteString(FormatSummaryLine(r))
		b.WriteByte('\n')
	}
	return b.String()
}
