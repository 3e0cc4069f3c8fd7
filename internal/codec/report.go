package codec

import (
	"time"

	"attendance/internal/core"
	"attendance/internal/sheets"
)

const ReportTitle = "Attendance Report"

var reportHeaders = []string{"Name", "Present Days", "Total Days", "Percentage"}

// EncodeReport lays a summary out as the exported report: title in A1,
// generation time in A2, headers on row 4 and one numeric row per person
// from row 5.
func EncodeReport(rows []core.SummaryRow, generatedAt time.Time) *sheets.Grid {
	g := sheets.NewGrid(ReportTitle)
	g.Set(1, 1, sheets.Text(ReportTitle))
	g.Set(2, 1, sheets.Text("Generated on: "+generatedAt.Format("2006-01-02 15:04:05")))
	for i, h := range reportHeaders {
		g.Set(4, i+1, sheets.Text(h))
	}
	for i, r := range rows {
		row := 5 + i
		g.Set(row, 1, sheets.Text(r.Name))
		g.Set(row, 2, sheets.Int(r.PresentCount))
		g.Set(row, 3, sheets.Int(r.TotalDays))
		g.Set(row, 4, sheets.Number(r.Percentage))
	}
	return g
}
