package renderer

import (
	tracker "github.com/rohanveit/monzo-tracker"
)

// WorkbookView is the table of contents of a workbook.
type WorkbookView struct {
	Sheets []WorkbookSheetView
}

// WorkbookSheetView is a one-line entry per sheet.
type WorkbookSheetView struct {
	Name    string
	Kind    string
	Balance string
}

func newWorkbookView(store *tracker.Store) *WorkbookView {
	v := &WorkbookView{}
	for sheet := range store.Sheets() {
		v.Sheets = append(v.Sheets, WorkbookSheetView{
			Name:    sheet.Name,
			Kind:    summaryLine(sheet),
			Balance: closingBalance(sheet),
		})
	}
	return v
}

// closingBalance returns the last figure of the running balance row, which on
// a monthly sheet is the month's closing balance and on an overview the
// projected year end.
func closingBalance(s *tracker.Sheet) string {
	for _, row := range s.Rows {
		if row.Kind != tracker.KindRunningBalance {
			continue
		}
		for i := len(row.Cells) - 1; i > 0; i-- {
			if row.Cells[i].HasValue {
				return row.Cells[i].Value.StringFixed(2)
			}
		}
	}
	return ""
}
