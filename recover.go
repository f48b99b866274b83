package tracker

import (
	"log"
	"strings"
)

// recoverRecords reconstructs the records of a rendered month sheet. The
// sheet is the only persisted representation, so any rebuild of a month must
// losslessly invert the render.
//
// Rows are walked top to bottom keeping the current section and category,
// which resolves each data row to the nearest headers above it. A data row
// before any section header defaults to the OUT section; one before any
// category header defaults to "unknown". With tagged rows that can only
// happen on hand-edited sheets, in which case keeping the row under a
// default is safer than dropping it.
func recoverRecords(s *Sheet) []Record {
	var records []Record
	section := SectionOut
	category := "unknown"

	for i, row := range s.Rows {
		switch row.Kind {
		case KindSectionHeader:
			switch strings.TrimSpace(row.Label()) {
			case SectionIn:
				section = SectionIn
			default:
				section = SectionOut
			}
			// Category headers do not cross section boundaries.
			category = "unknown"
		case KindCategoryHeader:
			if c := strings.TrimSpace(row.Label()); c != "" {
				category = c
			}
		case KindDataRow:
			if row.ID == "" {
				// A data row without its identity marker cannot be carried
				// over a rebuild without risking duplication.
				log.Printf("sheet %q row %d: data row without transaction id, skipping (data loss risk)", s.Name, i+1)
				continue
			}
			date, err := ParseDatetime(row.Cell(colDate).Text)
			if err != nil {
				log.Printf("sheet %q row %d: %v, skipping (data loss risk)", s.Name, i+1, err)
				continue
			}
			amount := row.Cell(colAmount).Value.Abs()
			if section == SectionOut {
				amount = amount.Neg()
			}
			currency := row.Currency
			if currency == "" {
				currency = "GBP"
			}
			desc := row.Cell(colDesc)
			records = append(records, Record{
				ID:          row.ID,
				Date:        date,
				Description: desc.Text,
				Amount:      M(amount, currency),
				Category:    category,
				Notes:       desc.Note,
			})
		}
	}
	return records
}

// Records reconstructs every record held in the workbook's monthly sheets,
// in workbook order. Overview sheets hold no records of their own.
func (s *Store) Records() []Record {
	var records []Record
	for sheet := range s.Sheets() {
		if _, err := ParseMonthName(sheet.Name); err != nil {
			continue
		}
		records = append(records, recoverRecords(sheet)...)
	}
	return records
}

// recordIDs returns the set of transaction ids present in a sheet.
func recordIDs(s *Sheet) map[string]bool {
	ids := make(map[string]bool)
	for _, row := range s.Rows {
		if row.Kind == KindDataRow && row.ID != "" {
			ids[row.ID] = true
		}
	}
	return ids
}
