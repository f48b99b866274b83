package tracker

import (
	"bytes"
	"strings"
	"testing"
)

func TestEncodeDecodeStore(t *testing.T) {
	store := NewStore()
	if _, err := store.Ingest(
		rec("tx_1", 15, "Tesco", -12.50, "groceries"),
		rec("tx_2", 25, "Acme Corp", 1500, "income"),
	); err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}

	var buf bytes.Buffer
	if err := EncodeStore(&buf, store); err != nil {
		t.Fatalf("EncodeStore failed: %v", err)
	}

	decoded, err := DecodeStore(&buf)
	if err != nil {
		t.Fatalf("DecodeStore failed: %v", err)
	}

	if decoded.Len() != store.Len() {
		t.Fatalf("decoded %d sheets, want %d", decoded.Len(), store.Len())
	}
	var wantNames, gotNames []string
	for s := range store.Sheets() {
		wantNames = append(wantNames, s.Name)
	}
	for s := range decoded.Sheets() {
		gotNames = append(gotNames, s.Name)
	}
	for i := range wantNames {
		if gotNames[i] != wantNames[i] {
			t.Errorf("sheet order: got %v, want %v", gotNames, wantNames)
			break
		}
	}

	// Row-level fidelity on the month sheet.
	want := store.Sheet("January 2026")
	got := decoded.Sheet("January 2026")
	if len(got.Rows) != len(want.Rows) {
		t.Fatalf("decoded %d rows, want %d", len(got.Rows), len(want.Rows))
	}
	for i := range want.Rows {
		w, g := want.Rows[i], got.Rows[i]
		if g.Kind != w.Kind || g.ID != w.ID || g.Currency != w.Currency {
			t.Errorf("row %d: got %+v, want %+v", i, g, w)
			continue
		}
		for j := range w.Cells {
			wc, gc := w.Cells[j], g.Cells[j]
			if gc.Text != wc.Text || gc.Note != wc.Note || gc.Formula != wc.Formula ||
				gc.HasValue != wc.HasValue || !gc.Value.Equal(wc.Value) {
				t.Errorf("row %d cell %d: got %+v, want %+v", i, j, gc, wc)
			}
		}
	}

	// Records survive the full cycle.
	records := decoded.Records()
	if len(records) != 2 {
		t.Errorf("decoded workbook holds %d records, want 2", len(records))
	}
}

func TestEncodeRowFormat(t *testing.T) {
	store := NewStore()
	if _, err := store.Ingest(rec("tx_1", 15, "Tesco", -12.50, "groceries")); err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}

	var buf bytes.Buffer
	if err := EncodeStore(&buf, store); err != nil {
		t.Fatalf("EncodeStore failed: %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	var dataLine string
	for _, l := range lines {
		if strings.Contains(l, `"kind":"data"`) {
			dataLine = l
			break
		}
	}
	if dataLine == "" {
		t.Fatalf("no data row in output:\n%s", buf.String())
	}
	for _, want := range []string{
		`"sheet":"January 2026"`,
		`"id":"tx_1"`,
		`"currency":"GBP"`,
		`"value":12.5`,
	} {
		if !strings.Contains(dataLine, want) {
			t.Errorf("data row missing %s: %s", want, dataLine)
		}
	}
}

func TestDecodeStoreErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"bad json", `{"sheet":`, "line 1"},
		{"no sheet", `{"kind":"data"}`, "no sheet name"},
		{"unknown kind", `{"sheet":"January 2026","kind":"styled"}`, "unknown row kind"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DecodeStore(strings.NewReader(tc.input))
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Errorf("DecodeStore error = %v, want %q", err, tc.want)
			}
		})
	}
}

func TestDecodeStoreSkipsBlankLines(t *testing.T) {
	input := `{"sheet":"January 2026","kind":"title","cells":[{"text":"January 2026"}]}

{"sheet":"January 2026","kind":"blank"}
`
	store, err := DecodeStore(strings.NewReader(input))
	if err != nil {
		t.Fatalf("DecodeStore failed: %v", err)
	}
	s := store.Sheet("January 2026")
	if s == nil || len(s.Rows) != 2 {
		t.Fatalf("decoded sheet = %+v", s)
	}
}
