package sheets

import (
	"strconv"
	"strings"
)

// CellKind tells how a cell value is typed in the document.
type CellKind int

const (
	CellEmpty CellKind = iota
	CellString
	CellNumber
)

// Cell is one typed value of a grid.
type Cell struct {
	Kind   CellKind
	Text   string
	Number float64
}

func Text(s string) Cell { return Cell{Kind: CellString, Text: s} }
func Number(f float64) Cell { return Cell{Kind: CellNumber, Number: f} }
func Int(i int) Cell { return Number(float64(i)) }
func (c Cell) IsEmpty() bool { return c.Kind == CellEmpty || (c.Kind == CellString && strings.TrimSpace(c.Text) == "") }
func (c Cell) IsNumber() bool { return c.Kind == CellNumber }
func (c Cell) IsString() bool { return c.Kind == CellString }

// String renders the cell as text; integral numbers have no decimals.
func (c Cell) String() string {
	switch c.Kind {
	case CellString:
		return c.Text
	case CellNumber:
		return strconv.FormatFloat(c.Number, 'f', -1, 64)
	default:
		return ""
	}
}

// Int returns the integer value of a numeric cell, or of a string cell
// holding an integer. ok is false otherwise.
func (c Cell) Int() (int, bool) {
	switch c.Kind {
	case CellNumber:
		i := int(c.Number)
		if float64(i) != c.Number {
			return 0, false
		}
		return i, true
	case CellString:
		i, err := strconv.Atoi(strings.TrimSpace(c.Text))
		if err != nil {
			return 0, false
		}
		return i, true
	default:
		return 0, false
	}
}

// Grid is a single worksheet addressed by 1-indexed (row, column).
type Grid struct {
	Title string
	rows  [][]Cell
}

// NewGrid returns an empty grid whose worksheet is named title.
func NewGrid(title string) *Grid {
	return &Grid{Title: title}
}

// Set stores c at (row, col). Non-positive coordinates are ignored.
func (g *Grid) Set(row, col int, c Cell) {
	if row < 1 || col < 1 {
		return
	}
	for len(g.rows) < row {
		g.rows = append(g.rows, nil)
	}
	r := g.rows[row-1]
	for len(r) < col {
		r = append(r, Cell{})
	}
	r[col-1] = c
	g.rows[row-1] = r
}

// Get returns the cell at (row, col); absent cells are empty.
func (g *Grid) Get(row, col int) Cell {
	if row < 1 || col < 1 || row > len(g.rows) {
		return Cell{}
	}
	r := g.rows[row-1]
	if col > len(r) {
		return Cell{}
	}
	return r[col-1]
}

// Rows returns the index of the last row holding any cell.
func (g *Grid) Rows() int {
	return len(g.rows)
}

// Width returns the column of the last non-empty cell of row.
func (g *Grid) Width(row int) int {
	if row < 1 || row > len(g.rows) {
		return 0
	}
	r := g.rows[row-1]
	for i := len(r); i > 0; i-- {
		if r[i-1].Kind != CellEmpty {
			return i
		}
	}
	return 0
}

// Clone returns a deep copy of g.
func (g *Grid) Clone() *Grid {
	out := &Grid{Title: g.Title, rows: make([][]Cell, len(g.rows))}
	for i, r := range g.rows {
		out.rows[i] = append([]Cell(nil), r...)
	}
	return out
}

// Each calls fn for every non-empty cell, row by row.
func (g *Grid) Each(fn func(row, col int, c Cell)) {
	for i, r := range g.rows {
		for j, c := range r {
			if c.Kind == CellEmpty {
				continue
			}
			fn(i+1, j+1, c)
		}
	}
}

// Values returns the grid as a dense matrix of plain values (string or
// float64, empty cells as ""), the shape spreadsheet APIs expect.
func (g *Grid) Values() [][]any {
	out := make([][]any, len(g.rows))
	for i, r := range g.rows {
		row := make([]any, len(r))
		for j, c := range r {
			switch c.Kind {
			case CellNumber:
				row[j] = c.Number
			case CellString:
				row[j] = c.Text
			default:
				row[j] = ""
			}
		}
		out[i] = row
	}
	return out
}
