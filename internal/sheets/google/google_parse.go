package google

import (
	"fmt"
	"path/filepath"
	"strings"

	ports "attendance/internal/sheets"
)

// TabName maps a document path to its tab title: the base name without the
// extension.
func TabName(path string) string {
	base := filepath.Base(path)
	if name := strings.TrimSuffix(base, filepath.Ext(base)); name != "" {
		return name
	}
	return base
}

// quoteSheet quotes a tab title for use in A1 notation.
func quoteSheet(title string) string {
	return "'" + strings.ReplaceAll(title, "'", "''") + "'"
}

// parseValues converts an unformatted values matrix (as returned by the
// Sheets API) into a grid. Numbers stay numbers; empty strings are skipped.
func parseValues(title string, values [][]interface{}) *ports.Grid {
	g := ports.NewGrid(title)
	for i, row := range values {
		for j, v := range row {
			var c ports.Cell
			switch x := v.(type) {
			case nil:
				continue
			case string:
				if x == "" {
					continue
				}
				c = ports.Text(x)
			case float64:
				c = ports.Number(x)
			case int:
				c = ports.Int(x)
			default:
				c = ports.Text(fmt.Sprint(x))
			}
			g.Set(i+1, j+1, c)
		}
	}
	return g
}
