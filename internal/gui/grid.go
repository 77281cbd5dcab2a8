package gui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/saptools/sapmcp/internal/engine"
)

// GridSnapshot is a request-scoped projection of a grid's data. Rows is
// row-major over the full logical row count; large grids virtualize, so
// the engine materializes rows as they are read.
type GridSnapshot struct {
	RowCount        int        `json:"row_count"`
	VisibleRowCount int        `json:"visible_row_count"`
	ColumnCount     int        `json:"column_count"`
	Columns         []string   `json:"columns"`
	Rows            [][]string `json:"rows"`
}

// CellValue is one grid cell with its display context.
type CellValue struct {
	Row         int    `json:"row"`
	Column      int    `json:"column"`
	ColumnTitle string `json:"column_title"`
	Value       string `json:"value"`
}

// SelectedRows is the expansion of a grid's native selection specification.
type SelectedRows struct {
	SelectedCount   int                 `json:"selected_row_count"`
	SelectedIndices []int               `json:"selected_indices"`
	Rows            []map[string]string `json:"rows"`
}

// grid resolves an element and asserts grid capability.
func grid(sess engine.Session, id string) (engine.Grid, error) {
	el, err := resolve(sess, id)
	if err != nil {
		return nil, err
	}
	g, ok := el.(engine.Grid)
	if !ok {
		return nil, fmt.Errorf("%w: %s (%s) is not a grid view", ErrElementNotFound, id, el.Type())
	}
	return g, nil
}

// wrapCell converts an out-of-range engine failure into ErrInvalidCell,
// echoing the offending coordinates.
func wrapCell(err error, row, col int) error {
	if errors.Is(err, engine.ErrCellOutOfRange) {
		return fmt.Errorf("%w: row=%d column=%d", ErrInvalidCell, row, col)
	}
	return fmt.Errorf("%w: row=%d column=%d: %v", ErrAutomation, row, col, err)
}

// GridData extracts the full grid into a snapshot, bounded by the
// control's reported row and column counts.
func (f *Facade) GridData(sess engine.Session, id string) (GridSnapshot, error) {
	g, err := grid(sess, id)
	if err != nil {
		return GridSnapshot{}, err
	}

	rowCount, err := g.RowCount()
	if err != nil {
		return GridSnapshot{}, fmt.Errorf("%w: reading row count of %s: %v", ErrAutomation, id, err)
	}
	visible, err := g.VisibleRowCount()
	if err != nil {
		return GridSnapshot{}, fmt.Errorf("%w: reading visible row count of %s: %v", ErrAutomation, id, err)
	}
	colCount, err := g.ColumnCount()
	if err != nil {
		return GridSnapshot{}, fmt.Errorf("%w: reading column count of %s: %v", ErrAutomation, id, err)
	}

	columns := make([]string, colCount)
	for col := 0; col < colCount; col++ {
		title, err := g.ColumnTitle(col)
		if err != nil {
			return GridSnapshot{}, wrapCell(err, -1, col)
		}
		columns[col] = title
	}

	rows := make([][]string, rowCount)
	for row := 0; row < rowCount; row++ {
		cells := make([]string, colCount)
		for col := 0; col < colCount; col++ {
			value, err := g.CellValue(row, col)
			if err != nil {
				return GridSnapshot{}, wrapCell(err, row, col)
			}
			cells[col] = value
		}
		rows[row] = cells
	}

	return GridSnapshot{
		RowCount:        rowCount,
		VisibleRowCount: visible,
		ColumnCount:     colCount,
		Columns:         columns,
		Rows:            rows,
	}, nil
}

// GridCellValue reads one cell by explicit coordinates.
func (f *Facade) GridCellValue(sess engine.Session, id string, row, col int) (CellValue, error) {
	g, err := grid(sess, id)
	if err != nil {
		return CellValue{}, err
	}
	value, err := g.CellValue(row, col)
	if err != nil {
		return CellValue{}, wrapCell(err, row, col)
	}
	title, err := g.ColumnTitle(col)
	if err != nil {
		return CellValue{}, wrapCell(err, row, col)
	}
	return CellValue{Row: row, Column: col, ColumnTitle: title, Value: value}, nil
}

// SelectGridRow selects a row by index using the control's native
// selection syntax.
func (f *Facade) SelectGridRow(sess engine.Session, id string, row int) error {
	g, err := grid(sess, id)
	if err != nil {
		return err
	}
	if err := g.SetCurrentCell(row, -1); err != nil {
		return wrapCell(err, row, -1)
	}
	if err := g.SetSelectedRows(strconv.Itoa(row)); err != nil {
		return wrapCell(err, row, -1)
	}
	return nil
}

// SelectedGridRows reads the current selection, expands the native
// specification (comma list with hyphen ranges), and returns the selected
// rows' data keyed by column title.
func (f *Facade) SelectedGridRows(sess engine.Session, id string) (SelectedRows, error) {
	g, err := grid(sess, id)
	if err != nil {
		return SelectedRows{}, err
	}

	spec, err := g.SelectedRows()
	if err != nil {
		return SelectedRows{}, fmt.Errorf("%w: reading selection of %s: %v", ErrAutomation, id, err)
	}
	indices, err := ParseRowSpec(spec)
	if err != nil {
		return SelectedRows{}, fmt.Errorf("%w: selection %q of %s: %v", ErrAutomation, spec, id, err)
	}
	if len(indices) == 0 {
		return SelectedRows{SelectedIndices: []int{}, Rows: []map[string]string{}}, nil
	}

	colCount, err := g.ColumnCount()
	if err != nil {
		return SelectedRows{}, fmt.Errorf("%w: reading column count of %s: %v", ErrAutomation, id, err)
	}
	columns := make([]string, colCount)
	for col := 0; col < colCount; col++ {
		title, err := g.ColumnTitle(col)
		if err != nil {
			return SelectedRows{}, wrapCell(err, -1, col)
		}
		columns[col] = title
	}

	rows := make([]map[string]string, 0, len(indices))
	for _, row := range indices {
		data := make(map[string]string, colCount)
		for col := 0; col < colCount; col++ {
			value, err := g.CellValue(row, col)
			if err != nil {
				return SelectedRows{}, wrapCell(err, row, col)
			}
			data[columns[col]] = value
		}
		rows = append(rows, data)
	}

	return SelectedRows{
		SelectedCount:   len(indices),
		SelectedIndices: indices,
		Rows:            rows,
	}, nil
}

// DoubleClickGridCell double-clicks a cell, typically drilling into the
// record behind it.
func (f *Facade) DoubleClickGridCell(sess engine.Session, id string, row, col int) error {
	g, err := grid(sess, id)
	if err != nil {
		return err
	}
	if err := g.SetCurrentCell(row, col); err != nil {
		return wrapCell(err, row, col)
	}
	if err := g.DoubleClick(row, col); err != nil {
		return wrapCell(err, row, col)
	}
	return nil
}

// ParseRowSpec expands the grid's native selection syntax: a comma list
// whose entries are single indices or hyphen ranges ("2,4-6" → 2,4,5,6).
// Empty input means no selection.
func ParseRowSpec(spec string) ([]int, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return nil, nil
	}
	var indices []int
	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		if lo, hi, ok := strings.Cut(part, "-"); ok {
			start, err := strconv.Atoi(strings.TrimSpace(lo))
			if err != nil {
				return nil, fmt.Errorf("bad range start %q", part)
			}
			end, err := strconv.Atoi(strings.TrimSpace(hi))
			if err != nil {
				return nil, fmt.Errorf("bad range end %q", part)
			}
			if end < start {
				return nil, fmt.Errorf("descending range %q", part)
			}
			for i := start; i <= end; i++ {
				indices = append(indices, i)
			}
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("bad index %q", part)
		}
		indices = append(indices, n)
	}
	return indices, nil
}
