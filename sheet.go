package tracker

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// RowKind tags every persisted row with its structural meaning. The tag is
// the schema: section and category membership of a data row follow from the
// header rows before it, and the human-facing styling is derived from the
// tag at display time, never the other way around.
type RowKind string

const (
	KindTitle            RowKind = "title"
	KindBlank            RowKind = "blank"
	KindColumnHeader     RowKind = "column-header"
	KindSectionHeader    RowKind = "section-header"
	KindCategoryHeader   RowKind = "category-header"
	KindDataRow          RowKind = "data"
	KindCategorySubtotal RowKind = "category-subtotal"
	KindSectionTotal     RowKind = "section-total"
	KindNetChange        RowKind = "net-change"
	KindRunningBalance   RowKind = "running-balance"
)

var rowKinds = map[RowKind]bool{
	KindTitle:            true,
	KindBlank:            true,
	KindColumnHeader:     true,
	KindSectionHeader:    true,
	KindCategoryHeader:   true,
	KindDataRow:          true,
	KindCategorySubtotal: true,
	KindSectionTotal:     true,
	KindNetChange:        true,
	KindRunningBalance:   true,
}

// Section labels used in section header and section total rows.
const (
	SectionOut = "OUT"
	SectionIn  = "IN"
)

// Cell is one cell of a sheet. A cell holds either text, a numeric value, or
// a formula. A formula cell also carries the value of its last evaluation so
// that readers never depend on the output format's formula support.
type Cell struct {
	Text     string
	Value    decimal.Decimal
	HasValue bool
	Formula  string
	Note     string // annotation, used for transaction notes
}

func textCell(s string) Cell           { return Cell{Text: s} }
func valueCell(v decimal.Decimal) Cell { return Cell{Value: v, HasValue: true} }
func formulaCell(f string) Cell        { return Cell{Formula: f} }

// IsEmpty reports whether the cell holds nothing at all.
func (c Cell) IsEmpty() bool {
	return c.Text == "" && !c.HasValue && c.Formula == "" && c.Note == ""
}

// Row is one tagged row of a sheet. ID and Currency are only set on data
// rows; the ID is what dedup keys on across repeated syncs.
type Row struct {
	Kind     RowKind
	Cells    []Cell
	ID       string
	Currency string
}

// Cell returns the cell at the given column, or an empty cell when the row
// is shorter.
func (r Row) Cell(col int) Cell {
	if col < 0 || col >= len(r.Cells) {
		return Cell{}
	}
	return r.Cells[col]
}

// Label returns the text of the first cell, which carries the row label for
// every non-data kind.
func (r Row) Label() string { return r.Cell(colLabel).Text }

// Sheet is one named sheet of the workbook: a month, a year overview, or a
// foreign sheet the tracker does not understand and leaves alone.
type Sheet struct {
	Name string
	Rows []Row
}

// Month column layout: A=Date, B=Description, C=Amount. The transaction id
// lives on the row, not in a cell.
const (
	colDate   = 0
	colDesc   = 1
	colAmount = 2
)

// Overview column layout: A=label, B..M=Jan..Dec, N=Total.
const (
	colLabel         = 0
	colFirstMonth    = 1
	colOverviewTotal = 13
)

// colName converts a zero-based column index to its spreadsheet letter.
func colName(col int) string {
	name := ""
	for col >= 0 {
		name = string(rune('A'+col%26)) + name
		col = col/26 - 1
	}
	return name
}

// ref builds an A1-style reference for a zero-based column and row.
func ref(col, row int) string { return fmt.Sprintf("%s%d", colName(col), row+1) }

// parseRef parses an A1-style reference back into zero-based coordinates.
func parseRef(s string) (col, row int, err error) {
	i := 0
	for i < len(s) && s[i] >= 'A' && s[i] <= 'Z' {
		col = col*26 + int(s[i]-'A') + 1
		i++
	}
	if i == 0 || i == len(s) {
		return 0, 0, fmt.Errorf("invalid cell reference %q", s)
	}
	for ; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, 0, fmt.Errorf("invalid cell reference %q", s)
		}
		row = row*10 + int(s[i]-'0')
	}
	if row == 0 {
		return 0, 0, fmt.Errorf("invalid cell reference %q", s)
	}
	return col - 1, row - 1, nil
}

// cell returns the cell at zero-based (col, row), empty when out of range.
func (s *Sheet) cell(col, row int) Cell {
	if row < 0 || row >= len(s.Rows) {
		return Cell{}
	}
	return s.Rows[row].Cell(col)
}

// setValue writes an evaluated value into the cell at (col, row), keeping
// its formula.
func (s *Sheet) setValue(col, row int, v decimal.Decimal) {
	if row < 0 || row >= len(s.Rows) {
		return
	}
	r := &s.Rows[row]
	for len(r.Cells) <= col {
		r.Cells = append(r.Cells, Cell{})
	}
	r.Cells[col].Value = v
	r.Cells[col].HasValue = true
}

// rowOfKind returns the index of the first row with the given kind, -1 if absent.
func (s *Sheet) rowOfKind(kind RowKind) int {
	for i, r := range s.Rows {
		if r.Kind == kind {
			return i
		}
	}
	return -1
}

// valueOfKind returns the amount-column value of the first row with the
// given kind.
func (s *Sheet) valueOfKind(kind RowKind) decimal.Decimal {
	if i := s.rowOfKind(kind); i >= 0 {
		return s.Rows[i].Cell(colAmount).Value
	}
	return decimal.Zero
}
