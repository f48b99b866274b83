package tracker

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// monthSummary is what the overview needs from one realized month sheet:
// its per-category subtotals and its summary rows.
type monthSummary struct {
	outCategories  map[string]decimal.Decimal
	inCategories   map[string]decimal.Decimal
	totalOut       decimal.Decimal
	totalIn        decimal.Decimal
	netChange      decimal.Decimal
	runningBalance decimal.Decimal
}

// extractMonthSummary reads category subtotals and summary values from a
// rendered month sheet.
func extractMonthSummary(s *Sheet) monthSummary {
	sum := monthSummary{
		outCategories: make(map[string]decimal.Decimal),
		inCategories:  make(map[string]decimal.Decimal),
	}
	section := ""
	for _, row := range s.Rows {
		switch row.Kind {
		case KindSectionHeader:
			section = strings.TrimSpace(row.Label())
		case KindCategorySubtotal:
			category := strings.TrimSuffix(row.Cell(colDesc).Text, " subtotal")
			switch section {
			case SectionOut:
				sum.outCategories[category] = row.Cell(colAmount).Value
			case SectionIn:
				sum.inCategories[category] = row.Cell(colAmount).Value
			}
		case KindSectionTotal:
			switch section {
			case SectionOut:
				sum.totalOut = row.Cell(colAmount).Value
			case SectionIn:
				sum.totalIn = row.Cell(colAmount).Value
			}
		case KindNetChange:
			sum.netChange = row.Cell(colAmount).Value
		case KindRunningBalance:
			sum.runningBalance = row.Cell(colAmount).Value
		}
	}
	return sum
}

// rebuildOverviews discards and regenerates the overview sheet of every year
// that has at least one month sheet. Overviews are fully derived: they are
// never patched in place, because category sets and the number of realized
// months can change with any mutation.
func (s *Store) rebuildOverviews() error {
	byYear := make(map[int][]*Sheet)
	for _, sheet := range s.sheets {
		if m, err := ParseMonthName(sheet.Name); err == nil {
			byYear[m.Year()] = append(byYear[m.Year()], sheet)
		}
	}

	for year, months := range byYear {
		sort.Slice(months, func(i, j int) bool {
			return sortKey(months[i].Name).Before(sortKey(months[j].Name))
		})
		overview, err := buildOverview(year, months)
		if err != nil {
			return fmt.Errorf("overview for %d: %w", year, err)
		}
		s.deleteSheet(overview.Name)
		s.replaceSheet(overview)
	}

	// Overviews must land just before their year's months again.
	s.reorder()
	return nil
}

var monthShortNames = []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// buildOverview synthesizes the 12-column overview sheet for one year from
// its realized month sheets. Realized months carry plain values; months with
// no data yet carry projection formulas over the realized cells, so the
// whole sheet stays consistent if a realized value is edited. All formulas
// are evaluated before the sheet is returned.
func buildOverview(year int, months []*Sheet) (*Sheet, error) {
	realized := make(map[time.Month]monthSummary)
	var outCats, inCats []string
	outSeen := make(map[string]bool)
	inSeen := make(map[string]bool)
	for _, sheet := range months {
		m, err := ParseMonthName(sheet.Name)
		if err != nil {
			continue
		}
		sum := extractMonthSummary(sheet)
		realized[m.Month()] = sum
		for c := range sum.outCategories {
			if !outSeen[c] {
				outSeen[c] = true
				outCats = append(outCats, c)
			}
		}
		for c := range sum.inCategories {
			if !inSeen[c] {
				inSeen[c] = true
				inCats = append(inCats, c)
			}
		}
	}
	if len(realized) == 0 {
		return nil, fmt.Errorf("no realized month")
	}
	sort.Strings(outCats)
	sort.Strings(inCats)

	// Columns holding realized data, for the projection formulas.
	var dataCols []int
	for i := 0; i < 12; i++ {
		if _, ok := realized[time.Month(i+1)]; ok {
			dataCols = append(dataCols, colFirstMonth+i)
		}
	}

	s := &Sheet{Name: fmt.Sprintf("%d Overview", year)}
	s.Rows = append(s.Rows,
		Row{Kind: KindTitle, Cells: []Cell{textCell(s.Name)}},
		Row{Kind: KindBlank},
	)
	header := Row{Kind: KindColumnHeader, Cells: []Cell{{}}}
	for _, name := range monthShortNames {
		header.Cells = append(header.Cells, textCell(name))
	}
	header.Cells = append(header.Cells, textCell("Total"))
	s.Rows = append(s.Rows, header)

	outRows := appendOverviewSection(s, SectionOut, outCats, realized, dataCols, false)
	s.Rows = append(s.Rows, Row{Kind: KindBlank})
	inRows := appendOverviewSection(s, SectionIn, inCats, realized, dataCols, true)
	s.Rows = append(s.Rows, Row{Kind: KindBlank})

	// Net Change: realized value, or TOTAL IN - TOTAL OUT of the column.
	netRow := len(s.Rows)
	net := Row{Kind: KindNetChange, Cells: []Cell{textCell("Net Change")}}
	for i := 0; i < 12; i++ {
		col := colFirstMonth + i
		if sum, ok := realized[time.Month(i+1)]; ok {
			net.Cells = append(net.Cells, valueCell(sum.netChange))
		} else {
			net.Cells = append(net.Cells, formulaCell(fmt.Sprintf("%s-%s", ref(col, inRows.total), ref(col, outRows.total))))
		}
	}
	net.Cells = append(net.Cells, formulaCell(sumRange(colFirstMonth, colFirstMonth+11, netRow)))
	s.Rows = append(s.Rows, net)

	// Running Balance: realized value; for a projected month, the previous
	// balance plus that month's net change (a January projection is just its
	// net change). The Total column shows December's balance.
	rbRow := len(s.Rows)
	rb := Row{Kind: KindRunningBalance, Cells: []Cell{textCell("Running Balance")}}
	for i := 0; i < 12; i++ {
		col := colFirstMonth + i
		if sum, ok := realized[time.Month(i+1)]; ok {
			rb.Cells = append(rb.Cells, valueCell(sum.runningBalance))
		} else if col == colFirstMonth {
			rb.Cells = append(rb.Cells, formulaCell(ref(col, netRow)))
		} else {
			rb.Cells = append(rb.Cells, formulaCell(fmt.Sprintf("%s+%s", ref(col-1, rbRow), ref(col, netRow))))
		}
	}
	rb.Cells = append(rb.Cells, formulaCell(ref(colFirstMonth+11, rbRow)))
	s.Rows = append(s.Rows, rb)

	if err := s.evalFormulas(); err != nil {
		return nil, err
	}
	return s, nil
}

// sectionRows locates the rows of one overview section.
type sectionRows struct {
	categories []int // row index per category, in order
	total      int   // TOTAL row index
}

// appendOverviewSection appends one section (header, category rows, TOTAL
// row) to the overview sheet and returns the row positions for later
// formulas.
func appendOverviewSection(s *Sheet, section string, categories []string, realized map[time.Month]monthSummary, dataCols []int, in bool) sectionRows {
	s.Rows = append(s.Rows, Row{Kind: KindSectionHeader, Cells: []Cell{textCell(section)}})

	var pos sectionRows
	for _, category := range categories {
		rowIdx := len(s.Rows)
		pos.categories = append(pos.categories, rowIdx)

		row := Row{Kind: KindCategorySubtotal, Cells: []Cell{textCell(category)}}
		var dataRefs []string
		for _, col := range dataCols {
			dataRefs = append(dataRefs, ref(col, rowIdx))
		}
		for i := 0; i < 12; i++ {
			if sum, ok := realized[time.Month(i+1)]; ok {
				cats := sum.outCategories
				if in {
					cats = sum.inCategories
				}
				if v, ok := cats[category]; ok && !v.IsZero() {
					row.Cells = append(row.Cells, valueCell(v))
				} else {
					// No activity that month: left empty, counts as zero.
					row.Cells = append(row.Cells, Cell{})
				}
			} else {
				row.Cells = append(row.Cells, formulaCell(averageRefs(dataRefs)))
			}
		}
		row.Cells = append(row.Cells, formulaCell(sumRange(colFirstMonth, colFirstMonth+11, rowIdx)))
		s.Rows = append(s.Rows, row)
	}

	pos.total = len(s.Rows)
	total := Row{Kind: KindSectionTotal, Cells: []Cell{textCell("TOTAL " + section)}}
	for i := 0; i < 12; i++ {
		col := colFirstMonth + i
		if sum, ok := realized[time.Month(i+1)]; ok {
			v := sum.totalOut
			if in {
				v = sum.totalIn
			}
			total.Cells = append(total.Cells, valueCell(v))
		} else {
			var refs []string
			for _, r := range pos.categories {
				refs = append(refs, ref(col, r))
			}
			if len(refs) == 0 {
				total.Cells = append(total.Cells, valueCell(decimal.Zero))
			} else {
				total.Cells = append(total.Cells, formulaCell(sumRefs(refs)))
			}
		}
	}
	total.Cells = append(total.Cells, formulaCell(sumRange(colFirstMonth, colFirstMonth+11, pos.total)))
	s.Rows = append(s.Rows, total)
	return pos
}
