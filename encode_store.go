package tracker

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// The workbook is persisted as JSONL: one JSON object per sheet row, tagged
// with its sheet name and row kind, in display order. The kind tag is the
// whole schema; nothing structural is inferred from styling.

// MarshalJSON writes a cell with a stable key order, omitting empty fields.
func (c Cell) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Optional("text", c.Text)
	if c.HasValue {
		w.Append("value", c.Value)
	}
	w.Optional("formula", c.Formula)
	w.Optional("note", c.Note)
	return w.MarshalJSON()
}

// UnmarshalJSON reads a cell, distinguishing an absent value from a zero one.
func (c *Cell) UnmarshalJSON(data []byte) error {
	var temp struct {
		Text    string           `json:"text"`
		Value   *decimal.Decimal `json:"value"`
		Formula string           `json:"formula"`
		Note    string           `json:"note"`
	}
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	*c = Cell{Text: temp.Text, Formula: temp.Formula, Note: temp.Note}
	if temp.Value != nil {
		c.Value = *temp.Value
		c.HasValue = true
	}
	return nil
}

// encodeRow marshals a single sheet row to JSON and writes it to the writer,
// followed by a newline, in JSONL format.
func encodeRow(w io.Writer, sheet string, row Row) error {
	var ow jsonObjectWriter
	ow.Append("sheet", sheet)
	ow.Append("kind", string(row.Kind))
	if len(row.Cells) > 0 {
		ow.Append("cells", row.Cells)
	}
	ow.Optional("id", row.ID)
	ow.Optional("currency", row.Currency)
	data, err := ow.MarshalJSON()
	if err != nil {
		return fmt.Errorf("failed to marshal row: %w", err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write row: %w", err)
	}
	return nil
}

// EncodeStore persists the workbook to an io.Writer in canonical JSONL
// format, sheet by sheet in display order.
func EncodeStore(w io.Writer, store *Store) error {
	decimal.MarshalJSONWithoutQuotes = true
	for sheet := range store.Sheets() {
		for _, row := range sheet.Rows {
			if err := encodeRow(w, sheet.Name, row); err != nil {
				return err
			}
		}
	}
	return nil
}

// DecodeStore reads a JSONL stream and rebuilds the workbook. Sheets are
// created in order of first appearance, which preserves the display order
// the store was saved with.
func DecodeStore(r io.Reader) (*Store, error) {
	store := NewStore()
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		lineBytes := scanner.Bytes()
		if len(lineBytes) == 0 {
			continue
		}

		var temp struct {
			Sheet    string `json:"sheet"`
			Kind     string `json:"kind"`
			Cells    []Cell `json:"cells"`
			ID       string `json:"id"`
			Currency string `json:"currency"`
		}
		if err := json.Unmarshal(lineBytes, &temp); err != nil {
			return nil, fmt.Errorf("could not decode row on line %d: %w", line, err)
		}
		if temp.Sheet == "" {
			return nil, fmt.Errorf("row on line %d has no sheet name", line)
		}
		kind := RowKind(temp.Kind)
		if !rowKinds[kind] {
			return nil, fmt.Errorf("unknown row kind %q on line %d", temp.Kind, line)
		}

		sheet := store.Sheet(temp.Sheet)
		if sheet == nil {
			sheet = &Sheet{Name: temp.Sheet}
			store.sheets = append(store.sheets, sheet)
		}
		sheet.Rows = append(sheet.Rows, Row{
			Kind:     kind,
			Cells:    temp.Cells,
			ID:       temp.ID,
			Currency: temp.Currency,
		})
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading from input: %w", err)
	}
	return store, nil
}
