package tracker

import (
	"fmt"
	"iter"
	"log"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Store is the whole workbook: every month sheet, the derived year overview
// sheets, and any foreign sheet it does not recognize. Sheets are kept in
// display order; reorder restores the chronological invariant after a
// mutation.
//
// The store is a plain value passed through the reconciliation phases
// (merge, reorder, balance pass, overview synthesis); no phase relies on
// shared ambient state.
type Store struct {
	sheets []*Sheet
}

// NewStore creates an empty workbook.
func NewStore() *Store { return &Store{} }

// Sheets iterates over the sheets in display order.
func (s *Store) Sheets() iter.Seq[*Sheet] {
	return func(yield func(*Sheet) bool) {
		for _, sh := range s.sheets {
			if !yield(sh) {
				return
			}
		}
	}
}

// Len returns the number of sheets.
func (s *Store) Len() int { return len(s.sheets) }

// Sheet returns the sheet with the given name, or nil.
func (s *Store) Sheet(name string) *Sheet {
	for _, sh := range s.sheets {
		if sh.Name == name {
			return sh
		}
	}
	return nil
}

// replaceSheet swaps in a rebuilt sheet under the same name, or appends it
// when the name is new.
func (s *Store) replaceSheet(sheet *Sheet) {
	for i, sh := range s.sheets {
		if sh.Name == sheet.Name {
			s.sheets[i] = sheet
			return
		}
	}
	s.sheets = append(s.sheets, sheet)
}

// deleteSheet removes the sheet with the given name, if present.
func (s *Store) deleteSheet(name string) {
	for i, sh := range s.sheets {
		if sh.Name == name {
			s.sheets = append(s.sheets[:i], s.sheets[i+1:]...)
			return
		}
	}
}

// Ingest merges a batch of records into the workbook. Records are grouped by
// calendar month; a month all of whose incoming records are already present
// is skipped entirely, any other touched month is rebuilt from the union of
// its recovered records and the new ones. After the merges, sheets are
// reordered, running balances are recomputed over all months, and the
// overview of every year with data is rebuilt.
//
// It returns the number of records actually added.
func (s *Store) Ingest(records ...Record) (int, error) {
	byMonth := make(map[Month][]Record)
	for _, r := range records {
		if r.ID == "" {
			return 0, fmt.Errorf("record %q has no id", r.Description)
		}
		byMonth[r.Month()] = append(byMonth[r.Month()], r)
	}

	months := make([]Month, 0, len(byMonth))
	for m := range byMonth {
		months = append(months, m)
	}
	sort.Slice(months, func(i, j int) bool { return months[i].Before(months[j]) })

	added := 0
	touched := false
	for _, m := range months {
		name := m.SheetName()
		var existing []Record
		seen := make(map[string]bool)
		if sheet := s.Sheet(name); sheet != nil {
			existing = recoverRecords(sheet)
			for id := range recordIDs(sheet) {
				seen[id] = true
			}
		}

		// Dedup by id: already-stored rows win over incoming ones, and the
		// first occurrence wins within the batch itself.
		var fresh []Record
		for _, r := range byMonth[m] {
			if seen[r.ID] {
				continue
			}
			seen[r.ID] = true
			fresh = append(fresh, r)
		}
		if len(fresh) == 0 {
			// Nothing new for this month: leave the sheet untouched so
			// out-of-band edits survive.
			continue
		}

		s.replaceSheet(renderMonth(name, append(existing, fresh...)))
		added += len(fresh)
		touched = true
	}

	if !touched {
		return 0, nil
	}

	s.reorder()
	s.recalculateBalances()
	if err := s.rebuildOverviews(); err != nil {
		return added, err
	}
	return added, nil
}

// Fmt returns a canonical rebuild of the workbook: every monthly sheet is
// re-rendered from its recovered records, the balance chain and the overviews
// are recomputed. Sheets that are neither months nor overviews are carried
// over unchanged.
func (s *Store) Fmt() (*Store, error) {
	out := NewStore()
	for sheet := range s.Sheets() {
		if _, err := ParseMonthName(sheet.Name); err == nil {
			continue
		}
		if _, ok := overviewYear(sheet.Name); ok {
			continue
		}
		out.replaceSheet(sheet)
	}
	if _, err := out.Ingest(s.Records()...); err != nil {
		return nil, err
	}
	out.reorder()
	return out, nil
}

// overviewYear parses a year overview sheet name like "2026 Overview".
func overviewYear(name string) (int, bool) {
	base, ok := strings.CutSuffix(name, " Overview")
	if !ok {
		return 0, false
	}
	year, err := strconv.Atoi(base)
	if err != nil {
		return 0, false
	}
	return year, true
}

// sortKey maps a sheet name to its chronological position. A year overview
// sorts just before that year's January; a sheet whose name parses as
// neither a month nor an overview is foreign and sorts last.
func sortKey(name string) time.Time {
	if year, ok := overviewYear(name); ok {
		return time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	}
	if m, err := ParseMonthName(name); err == nil {
		// One hour past midnight so months land after their year's overview.
		return time.Date(m.Year(), m.Month(), 1, 1, 0, 0, 0, time.UTC)
	}
	return time.Unix(1<<62, 0)
}

// reorder sorts sheets chronologically. The sort is stable so foreign sheets
// keep their relative order at the end rather than being discarded.
func (s *Store) reorder() {
	sort.SliceStable(s.sheets, func(i, j int) bool {
		return sortKey(s.sheets[i].Name).Before(sortKey(s.sheets[j].Name))
	})
}

// recalculateBalances recomputes the running balance of every month sheet in
// one forward pass, in display order, seeding the accumulator at zero. A
// change to any earlier month invalidates every later balance, so the pass
// always covers all months, not just touched ones. Foreign sheets are
// excluded from the chain.
func (s *Store) recalculateBalances() {
	balance := decimal.Zero
	for _, sheet := range s.sheets {
		if _, err := ParseMonthName(sheet.Name); err != nil {
			continue
		}
		balance = balance.Add(sheet.valueOfKind(KindNetChange))
		if i := sheet.rowOfKind(KindRunningBalance); i >= 0 {
			sheet.setValue(colAmount, i, balance)
		} else {
			log.Printf("sheet %q has no running balance row", sheet.Name)
		}
	}
}
