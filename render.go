package tracker

import (
	"sort"

	"github.com/shopspring/decimal"
)

// renderMonth renders a complete month sheet from records, laying out the
// OUT section, the IN section, a Net Change row and a Running Balance row.
// The balance is a placeholder; the store fills it during the balance pass.
//
// The layout is deterministic: categories are sorted lexicographically,
// records within a category by date then id, so rendering the same record
// set always yields the same rows. Recovery depends on that.
func renderMonth(name string, records []Record) *Sheet {
	var out, in []Record
	for _, r := range records {
		switch {
		case r.Amount.IsNegative():
			out = append(out, r)
		case r.Amount.IsPositive():
			in = append(in, r)
		default:
			// Zero-amount transactions (active card checks) are kept in the
			// OUT section for visibility; they add nothing to its total.
			out = append(out, r)
		}
	}

	s := &Sheet{Name: name}
	s.Rows = append(s.Rows,
		Row{Kind: KindTitle, Cells: []Cell{textCell(name)}},
		Row{Kind: KindBlank},
	)

	outTotal := renderSection(s, SectionOut, out)
	s.Rows = append(s.Rows, Row{Kind: KindBlank})
	inTotal := renderSection(s, SectionIn, in)
	s.Rows = append(s.Rows, Row{Kind: KindBlank})

	s.Rows = append(s.Rows,
		Row{Kind: KindNetChange, Cells: []Cell{textCell("Net Change"), {}, valueCell(inTotal.Sub(outTotal))}},
		Row{Kind: KindRunningBalance, Cells: []Cell{textCell("Running Balance"), {}, valueCell(decimal.Zero)}},
	)
	return s
}

// renderSection appends one OUT or IN section to the sheet and returns the
// section total: the sum of the absolute amounts of all its rows.
func renderSection(s *Sheet, section string, records []Record) decimal.Decimal {
	s.Rows = append(s.Rows,
		Row{Kind: KindSectionHeader, Cells: []Cell{textCell(section)}},
		Row{Kind: KindColumnHeader, Cells: []Cell{textCell("Date"), textCell("Description"), textCell("Amount")}},
	)

	byCategory := make(map[string][]Record)
	for _, r := range records {
		byCategory[r.Category] = append(byCategory[r.Category], r)
	}
	categories := make([]string, 0, len(byCategory))
	for c := range byCategory {
		categories = append(categories, c)
	}
	sort.Strings(categories)

	sectionTotal := decimal.Zero
	for _, category := range categories {
		rows := byCategory[category]
		sort.Slice(rows, func(i, j int) bool {
			if !rows[i].Date.Equal(rows[j].Date) {
				return rows[i].Date.Before(rows[j].Date)
			}
			return rows[i].ID < rows[j].ID
		})

		s.Rows = append(s.Rows, Row{Kind: KindCategoryHeader, Cells: []Cell{textCell(category)}})

		catTotal := decimal.Zero
		for _, r := range rows {
			display := r.Amount.Abs().Decimal()
			catTotal = catTotal.Add(display)
			s.Rows = append(s.Rows, Row{
				Kind: KindDataRow,
				Cells: []Cell{
					textCell(r.Date.Format(DatetimeFormat)),
					{Text: r.Description, Note: r.Notes},
					valueCell(display),
				},
				ID:       r.ID,
				Currency: r.Amount.Currency(),
			})
		}

		s.Rows = append(s.Rows, Row{
			Kind:  KindCategorySubtotal,
			Cells: []Cell{{}, textCell(category + " subtotal"), valueCell(catTotal)},
		})
		sectionTotal = sectionTotal.Add(catTotal)
	}

	s.Rows = append(s.Rows, Row{
		Kind:  KindSectionTotal,
		Cells: []Cell{textCell("TOTAL " + section), {}, valueCell(sectionTotal)},
	})
	return sectionTotal
}
