package tracker

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func rec(id string, day int, desc string, amount float64, category string) Record {
	return Record{
		ID:          id,
		Date:        time.Date(2026, 1, day, 10, 0, 0, 0, time.UTC),
		Description: desc,
		Amount:      M(amount, "GBP"),
		Category:    category,
	}
}

func TestRenderMonthLayout(t *testing.T) {
	records := []Record{
		rec("tx_1", 15, "Tesco", -12.50, "groceries"),
		rec("tx_2", 25, "Acme Corp", 1500, "income"),
		rec("tx_3", 10, "Netflix", -9.99, "entertainment"),
		rec("tx_4", 5, "Card check", 0, "unknown"),
	}
	s := renderMonth("January 2026", records)

	if s.Rows[0].Kind != KindTitle || s.Rows[0].Label() != "January 2026" {
		t.Fatalf("first row should be the title, got %+v", s.Rows[0])
	}

	// Categories appear alphabetically within their section.
	var categories []string
	section := ""
	for _, row := range s.Rows {
		switch row.Kind {
		case KindSectionHeader:
			section = row.Label()
		case KindCategoryHeader:
			categories = append(categories, section+"/"+row.Label())
		}
	}
	want := []string{"OUT/entertainment", "OUT/groceries", "OUT/unknown", "IN/income"}
	if len(categories) != len(want) {
		t.Fatalf("categories = %v, want %v", categories, want)
	}
	for i := range want {
		if categories[i] != want[i] {
			t.Errorf("categories[%d] = %q, want %q", i, categories[i], want[i])
		}
	}

	// Data rows show absolute amounts; the section carries the sign.
	for _, row := range s.Rows {
		if row.Kind == KindDataRow && row.Cell(colAmount).Value.IsNegative() {
			t.Errorf("data row %q has a negative displayed amount", row.ID)
		}
	}

	// Zero-amount transactions land in the OUT section.
	inOut := false
	for _, row := range s.Rows {
		if row.Kind == KindSectionHeader {
			inOut = row.Label() == SectionOut
		}
		if row.Kind == KindDataRow && row.ID == "tx_4" && !inOut {
			t.Error("zero-amount transaction should be in the OUT section")
		}
	}

	// Section totals and net change.
	totals := map[string]decimal.Decimal{}
	section = ""
	for _, row := range s.Rows {
		switch row.Kind {
		case KindSectionHeader:
			section = row.Label()
		case KindSectionTotal:
			totals[section] = row.Cell(colAmount).Value
		}
	}
	if want := decimal.NewFromFloat(22.49); !totals[SectionOut].Equal(want) {
		t.Errorf("TOTAL OUT = %s, want %s", totals[SectionOut], want)
	}
	if want := decimal.NewFromInt(1500); !totals[SectionIn].Equal(want) {
		t.Errorf("TOTAL IN = %s, want %s", totals[SectionIn], want)
	}
	if want := decimal.NewFromFloat(1477.51); !s.valueOfKind(KindNetChange).Equal(want) {
		t.Errorf("Net Change = %s, want %s", s.valueOfKind(KindNetChange), want)
	}
}

func TestRenderRecoverRoundTrip(t *testing.T) {
	records := []Record{
		rec("tx_1", 15, "Tesco", -12.50, "groceries"),
		rec("tx_2", 25, "Acme Corp", 1500, "income"),
		rec("tx_3", 10, "Netflix", -9.99, "entertainment"),
		rec("tx_4", 5, "Card check", 0, "unknown"),
	}
	records[0].Notes = "weekly shop"

	s := renderMonth("January 2026", records)
	got := recoverRecords(s)
	if len(got) != len(records) {
		t.Fatalf("recovered %d records, want %d", len(got), len(records))
	}

	byID := make(map[string]Record)
	for _, r := range got {
		byID[r.ID] = r
	}
	for _, want := range records {
		r, ok := byID[want.ID]
		if !ok {
			t.Errorf("record %s lost in round trip", want.ID)
			continue
		}
		if !r.Date.Equal(want.Date) {
			t.Errorf("%s: Date = %v, want %v", want.ID, r.Date, want.Date)
		}
		if r.Description != want.Description {
			t.Errorf("%s: Description = %q, want %q", want.ID, r.Description, want.Description)
		}
		if !r.Amount.Equal(want.Amount) {
			t.Errorf("%s: Amount = %s %s, want %s", want.ID, r.Amount.Decimal(), r.Amount.Currency(), want.Amount.Decimal())
		}
		if r.Category != want.Category {
			t.Errorf("%s: Category = %q, want %q", want.ID, r.Category, want.Category)
		}
		if r.Notes != want.Notes {
			t.Errorf("%s: Notes = %q, want %q", want.ID, r.Notes, want.Notes)
		}
	}
}

func TestRenderDeterministic(t *testing.T) {
	records := []Record{
		rec("tx_b", 15, "B", -2, "cat"),
		rec("tx_a", 15, "A", -1, "cat"),
		rec("tx_c", 10, "C", -3, "cat"),
	}
	a := renderMonth("January 2026", records)
	// Same set, different input order.
	b := renderMonth("January 2026", []Record{records[2], records[0], records[1]})

	if len(a.Rows) != len(b.Rows) {
		t.Fatalf("row counts differ: %d vs %d", len(a.Rows), len(b.Rows))
	}
	for i := range a.Rows {
		if a.Rows[i].ID != b.Rows[i].ID {
			t.Errorf("row %d: id %q vs %q", i, a.Rows[i].ID, b.Rows[i].ID)
		}
	}

	// Within a day, ties break on id.
	var order []string
	for _, row := range a.Rows {
		if row.Kind == KindDataRow {
			order = append(order, row.ID)
		}
	}
	want := []string{"tx_c", "tx_a", "tx_b"}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("data order = %v, want %v", order, want)
			break
		}
	}
}

func TestRecoverDefaults(t *testing.T) {
	// A hand-edited sheet: a data row before any header lands in OUT/unknown,
	// and a row without id is skipped.
	s := &Sheet{Name: "January 2026", Rows: []Row{
		{Kind: KindDataRow, ID: "tx_1", Cells: []Cell{
			textCell("2026-01-05 09:00:00"), textCell("Mystery"), valueCell(decimal.NewFromInt(5)),
		}},
		{Kind: KindDataRow, Cells: []Cell{
			textCell("2026-01-06 09:00:00"), textCell("No id"), valueCell(decimal.NewFromInt(7)),
		}},
	}}

	got := recoverRecords(s)
	if len(got) != 1 {
		t.Fatalf("recovered %d records, want 1", len(got))
	}
	r := got[0]
	if r.Category != "unknown" {
		t.Errorf("Category = %q, want unknown", r.Category)
	}
	if !r.Amount.Equal(M(-5, "GBP")) {
		t.Errorf("Amount = %s %s, want -5 GBP", r.Amount.Decimal(), r.Amount.Currency())
	}
}
