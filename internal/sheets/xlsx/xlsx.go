package xlsx

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"attendance/internal/sheets"

	"github.com/xuri/excelize/v2"
)

// defaultSheet is the worksheet excelize creates in a new workbook.
const defaultSheet = "Sheet1"

// Store reads and writes single-worksheet Office Open XML workbooks.
type Store struct{}

var _ sheets.Document = (*Store)(nil)

func New() *Store { return &Store{} }

// WriteDocument replaces the workbook at path with g. The parent directory
// is created when missing.
func (s *Store) WriteDocument(ctx context.Context, path string, g *sheets.Grid) error {
	if g == nil {
		return fmt.Errorf("write %s: nil grid", path)
	}
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := defaultSheet
	if g.Title != "" && g.Title != defaultSheet {
		if err := f.SetSheetName(defaultSheet, g.Title); err != nil {
			return fmt.Errorf("sheet name %q: %w", g.Title, err)
		}
		sheet = g.Title
	}

	var werr error
	g.Each(func(row, col int, c sheets.Cell) {
		if werr != nil {
			return
		}
		name, err := excelize.CoordinatesToCellName(col, row)
		if err != nil {
			werr = err
			return
		}
		switch c.Kind {
		case sheets.CellNumber:
			werr = f.SetCellValue(sheet, name, c.Number)
		default:
			werr = f.SetCellValue(sheet, name, c.Text)
		}
	})
	if werr != nil {
		return fmt.Errorf("write cells: %w", werr)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory: %w", err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	slog.DebugContext(ctx, "Workbook written", "path", path, "sheet", sheet, "rows", g.Rows())
	return nil
}

// ReadDocument returns the first worksheet of the workbook at path. Shared
// and inline strings stay strings; other values that parse as numbers
// become numbers.
func (s *Store) ReadDocument(ctx context.Context, path string) (*sheets.Grid, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("open %s: %w", path, sheets.ErrDocumentNotFound)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("open %s: no worksheet found", path)
	}
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}

	g := sheets.NewGrid(sheet)
	for i, row := range rows {
		for j, v := range row {
			if v == "" {
				continue
			}
			name, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				return nil, err
			}
			typ, err := f.GetCellType(sheet, name)
			if err != nil {
				return nil, fmt.Errorf("cell %s type: %w", name, err)
			}
			g.Set(i+1, j+1, typedCell(typ, v))
		}
	}
	slog.DebugContext(ctx, "Workbook read", "path", path, "sheet", sheet, "rows", len(rows))
	return g, nil
}

func typedCell(typ excelize.CellType, v string) sheets.Cell {
	switch typ {
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString, excelize.CellTypeBool:
		return sheets.Text(v)
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		return sheets.Number(f)
	}
	return sheets.Text(v)
}
