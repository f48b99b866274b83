package tracker

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

// formulaSheet builds a small sheet whose first row holds plain values and
// whose later rows hold the formulas under test.
func formulaSheet(formulas ...string) *Sheet {
	s := &Sheet{Name: "test"}
	s.Rows = append(s.Rows, Row{Kind: KindDataRow, Cells: []Cell{
		valueCell(decimal.NewFromInt(10)),
		valueCell(decimal.NewFromInt(20)),
		valueCell(decimal.NewFromInt(30)),
	}})
	for _, f := range formulas {
		s.Rows = append(s.Rows, Row{Kind: KindDataRow, Cells: []Cell{formulaCell(f)}})
	}
	return s
}

func TestEvalFormulas(t *testing.T) {
	tests := []struct {
		formula string
		want    string
	}{
		{"A1", "10"},
		{"A1+B1", "30"},
		{"C1-A1", "20"},
		{"SUM(A1,C1)", "40"},
		{"SUM(A1:C1)", "60"},
		{"SUM(A1,C1)/2", "20"},
		{"SUM(A1:C1)/3", "20"},
		{"(A1+B1)*2", "60"},
		{"B1-B1", "0"},
		{"A1+2.5", "12.5"},
	}
	for _, tc := range tests {
		s := formulaSheet(tc.formula)
		if err := s.evalFormulas(); err != nil {
			t.Errorf("evalFormulas(%q) failed: %v", tc.formula, err)
			continue
		}
		c := s.cell(0, 1)
		if !c.HasValue {
			t.Errorf("formula %q: no value stored", tc.formula)
			continue
		}
		want, _ := decimal.NewFromString(tc.want)
		if !c.Value.Equal(want) {
			t.Errorf("formula %q = %s, want %s", tc.formula, c.Value, tc.want)
		}
		if c.Formula != tc.formula {
			t.Errorf("formula %q was not kept with the cell", tc.formula)
		}
	}
}

func TestEvalFormulaChain(t *testing.T) {
	// A formula referencing another formula cell: A2 = A1*2, A3 = A2+1.
	s := formulaSheet("A1*2", "A2+1")
	if err := s.evalFormulas(); err != nil {
		t.Fatalf("evalFormulas failed: %v", err)
	}
	if got := s.cell(0, 2).Value; !got.Equal(decimal.NewFromInt(21)) {
		t.Errorf("A3 = %s, want 21", got)
	}
}

func TestEvalFormulaErrors(t *testing.T) {
	tests := []struct {
		formula string
		want    string
	}{
		{"A1/B2", "division by zero"}, // B2 is an empty cell, resolves to zero
		{"SUM(A1", "malformed SUM"},
		{"A1+", "unexpected"},
		{"SUM(A1:B2)", "spans rows"},
	}
	for _, tc := range tests {
		s := formulaSheet(tc.formula)
		err := s.evalFormulas()
		if err == nil {
			t.Errorf("formula %q should fail", tc.formula)
			continue
		}
		if !strings.Contains(err.Error(), tc.want) {
			t.Errorf("formula %q error = %v, want %q", tc.formula, err, tc.want)
		}
	}
}

func TestEvalFormulaCycle(t *testing.T) {
	// A2 and A3 reference each other.
	s := formulaSheet("A3", "A2")
	err := s.evalFormulas()
	if err == nil || !strings.Contains(err.Error(), "cycle") {
		t.Fatalf("expected a cycle error, got %v", err)
	}
}

func TestFormulaBuilders(t *testing.T) {
	if got := sumRefs([]string{"B4", "D4"}); got != "SUM(B4,D4)" {
		t.Errorf("sumRefs = %q", got)
	}
	if got := sumRange(1, 12, 3); got != "SUM(B4:M4)" {
		t.Errorf("sumRange = %q", got)
	}
	if got := averageRefs([]string{"B4", "D4"}); got != "SUM(B4,D4)/2" {
		t.Errorf("averageRefs = %q", got)
	}
}
