package renderer

import (
	"strings"

	tracker "github.com/rohanveit/monzo-tracker"
)

// MonthView is the flattened, display-ready form of a monthly sheet.
type MonthView struct {
	Title          string
	Sections       []SectionView
	NetChange      string
	RunningBalance string
}

// SectionView holds one spending direction (OUT or IN) of a monthly sheet.
type SectionView struct {
	Name       string
	Categories []CategoryView
	Total      string
}

// CategoryView groups the transactions of a single category.
type CategoryView struct {
	Name     string
	Rows     []TransactionView
	Subtotal string
}

// TransactionView is a single transaction line.
type TransactionView struct {
	Date        string
	Description string
	Amount      string
	Notes       string
}

func newMonthView(s *tracker.Sheet) *MonthView {
	v := &MonthView{Title: s.Name}
	var section *SectionView
	var category *CategoryView
	var cur string

	flush := func() {
		if category != nil && section != nil {
			section.Categories = append(section.Categories, *category)
		}
		category = nil
	}

	for _, row := range s.Rows {
		switch row.Kind {
		case tracker.KindSectionHeader:
			flush()
			if section != nil {
				v.Sections = append(v.Sections, *section)
			}
			section = &SectionView{Name: row.Label()}
		case tracker.KindCategoryHeader:
			flush()
			category = &CategoryView{Name: row.Label()}
		case tracker.KindDataRow:
			if category == nil {
				continue
			}
			if row.Currency != "" {
				cur = row.Currency
			}
			category.Rows = append(category.Rows, TransactionView{
				Date:        row.Cell(0).Text,
				Description: row.Cell(1).Text,
				Amount:      formatAmount(row.Cell(2), row.Currency),
				Notes:       row.Cell(1).Note,
			})
		case tracker.KindCategorySubtotal:
			if category != nil {
				category.Subtotal = formatAmount(row.Cell(2), cur)
			}
			flush()
		case tracker.KindSectionTotal:
			if section != nil {
				section.Total = formatAmount(row.Cell(2), cur)
			}
		case tracker.KindNetChange:
			v.NetChange = formatAmount(row.Cell(2), cur)
		case tracker.KindRunningBalance:
			v.RunningBalance = formatAmount(row.Cell(2), cur)
		}
	}
	flush()
	if section != nil {
		v.Sections = append(v.Sections, *section)
	}
	return v
}

// formatAmount renders a value cell with its currency symbol when one is
// known, and as a bare fixed-point number otherwise.
func formatAmount(c tracker.Cell, currency string) string {
	if !c.HasValue {
		return c.Text
	}
	if currency == "" {
		return c.Value.StringFixed(2)
	}
	return tracker.M(c.Value, currency).String()
}

// summaryLine is a one-line description of a sheet for the workbook index.
func summaryLine(s *tracker.Sheet) string {
	if strings.HasSuffix(s.Name, " Overview") {
		return "yearly overview"
	}
	return "monthly sheet"
}
