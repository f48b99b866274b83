package tracker

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestIngestSingleMonth(t *testing.T) {
	store := NewStore()
	added, err := store.Ingest(
		rec("tx_1", 15, "Tesco", -12.50, "groceries"),
		rec("tx_2", 25, "Acme Corp", 1500, "income"),
	)
	if err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}
	if added != 2 {
		t.Errorf("added = %d, want 2", added)
	}

	s := store.Sheet("January 2026")
	if s == nil {
		t.Fatal("missing January 2026 sheet")
	}
	if want := decimal.NewFromFloat(1487.5); !s.valueOfKind(KindNetChange).Equal(want) {
		t.Errorf("Net Change = %s, want %s", s.valueOfKind(KindNetChange), want)
	}
	if want := decimal.NewFromFloat(1487.5); !s.valueOfKind(KindRunningBalance).Equal(want) {
		t.Errorf("Running Balance = %s, want %s", s.valueOfKind(KindRunningBalance), want)
	}

	if store.Sheet("2026 Overview") == nil {
		t.Error("overview sheet should have been created")
	}
}

func TestIngestIdempotent(t *testing.T) {
	store := NewStore()
	batch := []Record{
		rec("tx_1", 15, "Tesco", -12.50, "groceries"),
		rec("tx_2", 25, "Acme Corp", 1500, "income"),
	}
	if _, err := store.Ingest(batch...); err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}

	added, err := store.Ingest(batch...)
	if err != nil {
		t.Fatalf("re-Ingest failed: %v", err)
	}
	if added != 0 {
		t.Errorf("re-ingest added %d records, want 0", added)
	}

	records := store.Records()
	if len(records) != 2 {
		t.Errorf("workbook holds %d records, want 2", len(records))
	}
}

func TestIngestStoredRowWins(t *testing.T) {
	store := NewStore()
	if _, err := store.Ingest(rec("tx_1", 15, "Tesco", -12.50, "groceries")); err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}

	// Same id, conflicting fields: the stored row wins.
	conflict := rec("tx_1", 15, "Someone Else", -99, "entertainment")
	added, err := store.Ingest(conflict)
	if err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}
	if added != 0 {
		t.Errorf("conflicting re-ingest added %d, want 0", added)
	}

	records := store.Records()
	if len(records) != 1 {
		t.Fatalf("workbook holds %d records, want 1", len(records))
	}
	if !records[0].Amount.Equal(M(-12.50, "GBP")) {
		t.Errorf("Amount = %s, stored row should win", records[0].Amount.Decimal())
	}
	if records[0].Description != "Tesco" {
		t.Errorf("Description = %q, stored row should win", records[0].Description)
	}
}

func TestIngestBatchFirstWins(t *testing.T) {
	store := NewStore()
	added, err := store.Ingest(
		rec("tx_1", 15, "First", -10, "a"),
		rec("tx_1", 16, "Second", -20, "b"),
	)
	if err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}
	if added != 1 {
		t.Errorf("added = %d, want 1", added)
	}
	records := store.Records()
	if len(records) != 1 || records[0].Description != "First" {
		t.Errorf("records = %v, first occurrence should win", records)
	}
}

func TestIngestRejectsMissingID(t *testing.T) {
	store := NewStore()
	r := rec("", 15, "No id", -10, "a")
	if _, err := store.Ingest(r); err == nil {
		t.Error("Ingest should reject a record without id")
	}
}

func TestBalanceChain(t *testing.T) {
	store := NewStore()
	_, err := store.Ingest(
		rec("tx_1", 10, "Jan in", 150, "income"),
		rec("tx_2", 12, "Jan out", -50, "bills"),
		Record{
			ID:          "tx_3",
			Date:        time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC),
			Description: "Feb in",
			Amount:      M(100, "GBP"),
			Category:    "income",
		},
		Record{
			ID:          "tx_4",
			Date:        time.Date(2026, 2, 12, 9, 0, 0, 0, time.UTC),
			Description: "Feb out",
			Amount:      M(-40, "GBP"),
			Category:    "bills",
		},
	)
	if err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}

	jan := store.Sheet("January 2026")
	feb := store.Sheet("February 2026")
	if jan == nil || feb == nil {
		t.Fatal("missing month sheets")
	}
	if want := decimal.NewFromInt(100); !jan.valueOfKind(KindRunningBalance).Equal(want) {
		t.Errorf("January balance = %s, want %s", jan.valueOfKind(KindRunningBalance), want)
	}
	if want := decimal.NewFromInt(160); !feb.valueOfKind(KindRunningBalance).Equal(want) {
		t.Errorf("February balance = %s, want %s", feb.valueOfKind(KindRunningBalance), want)
	}
}

func TestBalanceRipple(t *testing.T) {
	store := NewStore()
	if _, err := store.Ingest(
		rec("tx_1", 10, "Jan in", 100, "income"),
		Record{
			ID:       "tx_2",
			Date:     time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC),
			Amount:   M(50, "GBP"),
			Category: "income",
		},
	); err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}

	// A late January transaction must ripple into March's balance.
	if _, err := store.Ingest(rec("tx_3", 20, "Jan late", -30, "bills")); err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}
	mar := store.Sheet("March 2026")
	if want := decimal.NewFromInt(120); !mar.valueOfKind(KindRunningBalance).Equal(want) {
		t.Errorf("March balance = %s, want %s", mar.valueOfKind(KindRunningBalance), want)
	}
}

func TestSheetOrdering(t *testing.T) {
	store := NewStore()
	// A foreign sheet the user added by hand.
	store.replaceSheet(&Sheet{Name: "Scratch", Rows: []Row{
		{Kind: KindTitle, Cells: []Cell{textCell("Scratch")}},
	}})

	_, err := store.Ingest(
		Record{
			ID:       "tx_1",
			Date:     time.Date(2025, 12, 10, 9, 0, 0, 0, time.UTC),
			Amount:   M(-10, "GBP"),
			Category: "bills",
		},
		rec("tx_2", 10, "Jan", -10, "bills"),
		Record{
			ID:       "tx_3",
			Date:     time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC),
			Amount:   M(-10, "GBP"),
			Category: "bills",
		},
	)
	if err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}

	var names []string
	for s := range store.Sheets() {
		names = append(names, s.Name)
	}
	want := []string{
		"2025 Overview", "December 2025",
		"2026 Overview", "January 2026", "March 2026",
		"Scratch",
	}
	if len(names) != len(want) {
		t.Fatalf("sheets = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("sheets[%d] = %q, want %q", i, names[i], want[i])
		}
	}

	// The foreign sheet is carried untouched.
	scratch := store.Sheet("Scratch")
	if len(scratch.Rows) != 1 || scratch.Rows[0].Label() != "Scratch" {
		t.Errorf("foreign sheet was modified: %+v", scratch.Rows)
	}
}

func TestFmt(t *testing.T) {
	store := NewStore()
	store.replaceSheet(&Sheet{Name: "Scratch", Rows: []Row{{Kind: KindTitle, Cells: []Cell{textCell("Scratch")}}}})
	if _, err := store.Ingest(
		rec("tx_1", 15, "Tesco", -12.50, "groceries"),
		rec("tx_2", 25, "Acme Corp", 1500, "income"),
	); err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}

	formatted, err := store.Fmt()
	if err != nil {
		t.Fatalf("Fmt failed: %v", err)
	}
	if formatted.Len() != store.Len() {
		t.Errorf("Fmt changed the sheet count: %d vs %d", formatted.Len(), store.Len())
	}
	if formatted.Sheet("Scratch") == nil {
		t.Error("Fmt dropped the foreign sheet")
	}
	records := formatted.Records()
	if len(records) != 2 {
		t.Errorf("Fmt holds %d records, want 2", len(records))
	}
	jan := formatted.Sheet("January 2026")
	if want := decimal.NewFromFloat(1487.5); !jan.valueOfKind(KindRunningBalance).Equal(want) {
		t.Errorf("January balance after Fmt = %s, want %s", jan.valueOfKind(KindRunningBalance), want)
	}
}
