package tracker

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// The overview sheets keep projected values as live formulas over the
// realized cells of the same sheet, in the plain spreadsheet grammar:
//
//	SUM(B4,D4)/2      average of the realized months of a category row
//	SUM(B4:M4)        total column
//	B12-B10           net change from section totals
//	C14+D13           running balance chain
//
// A projected cell is therefore a function of a specific set of realized
// cells. evalFormulas recomputes every formula cell on each synthesis pass,
// so edits to a realized month ripple forward without a rebuild of the
// formula text.

// sumRefs builds a SUM formula over individual cell references.
func sumRefs(refs []string) string { return "SUM(" + strings.Join(refs, ",") + ")" }

// sumRange builds a SUM formula over an inclusive cell range in one row.
func sumRange(fromCol, toCol, row int) string {
	return fmt.Sprintf("SUM(%s:%s)", ref(fromCol, row), ref(toCol, row))
}

// averageRefs builds the projection formula: the sum of the realized cells
// divided by their count, so months without activity count as zero.
func averageRefs(refs []string) string {
	return fmt.Sprintf("%s/%d", sumRefs(refs), len(refs))
}

// evalFormulas evaluates every formula cell of the sheet and stores the
// result as the cell value. Formula cells may reference other formula cells;
// a reference cycle is reported as an error.
func (s *Sheet) evalFormulas() error {
	e := &sheetEvaluator{sheet: s, state: make(map[[2]int]int)}
	for row := range s.Rows {
		for col := range s.Rows[row].Cells {
			if s.Rows[row].Cells[col].Formula == "" {
				continue
			}
			v, err := e.resolve(col, row)
			if err != nil {
				return fmt.Errorf("sheet %q cell %s: %w", s.Name, ref(col, row), err)
			}
			s.setValue(col, row, v)
		}
	}
	return nil
}

const (
	evalPending = 1
	evalDone    = 2
)

type sheetEvaluator struct {
	sheet *Sheet
	state map[[2]int]int
	memo  map[[2]int]decimal.Decimal
}

// resolve returns the numeric value of a cell, evaluating its formula first
// when it has one. Cells with neither value nor formula resolve to zero.
func (e *sheetEvaluator) resolve(col, row int) (decimal.Decimal, error) {
	c := e.sheet.cell(col, row)
	if c.Formula == "" {
		return c.Value, nil
	}
	key := [2]int{col, row}
	switch e.state[key] {
	case evalPending:
		return decimal.Zero, fmt.Errorf("formula cycle through %s", ref(col, row))
	case evalDone:
		return e.memo[key], nil
	}
	e.state[key] = evalPending
	lex := &formulaLexer{input: c.Formula, resolve: e.resolve}
	v, err := lex.parseExpr()
	if err == nil && !lex.isAtEnd() {
		err = fmt.Errorf("unexpected %q in formula %q", lex.peek(), c.Formula)
	}
	if err != nil {
		return decimal.Zero, err
	}
	e.state[key] = evalDone
	if e.memo == nil {
		e.memo = make(map[[2]int]decimal.Decimal)
	}
	e.memo[key] = v
	return v, nil
}

// formulaLexer is a small lexer/evaluator for the formula grammar. Additive
// operators bind loosest, * and / tighter, exactly like the spreadsheet
// formulas it mirrors.
type formulaLexer struct {
	input   string
	pos     int
	resolve func(col, row int) (decimal.Decimal, error)
}

func (l *formulaLexer) skipSpaces() {
	for l.pos < len(l.input) && l.input[l.pos] == ' ' {
		l.pos++
	}
}

func (l *formulaLexer) isAtEnd() bool {
	l.skipSpaces()
	return l.pos >= len(l.input)
}

func (l *formulaLexer) peek() byte {
	l.skipSpaces()
	if l.pos >= len(l.input) {
		return 0
	}
	return l.input[l.pos]
}

func (l *formulaLexer) parseExpr() (decimal.Decimal, error) {
	left, err := l.parseTerm()
	if err != nil {
		return decimal.Zero, err
	}
	for {
		switch l.peek() {
		case '+':
			l.pos++
			right, err := l.parseTerm()
			if err != nil {
				return decimal.Zero, err
			}
			left = left.Add(right)
		case '-':
			l.pos++
			right, err := l.parseTerm()
			if err != nil {
				return decimal.Zero, err
			}
			left = left.Sub(right)
		default:
			return left, nil
		}
	}
}

func (l *formulaLexer) parseTerm() (decimal.Decimal, error) {
	left, err := l.parseFactor()
	if err != nil {
		return decimal.Zero, err
	}
	for {
		switch l.peek() {
		case '*':
			l.pos++
			right, err := l.parseFactor()
			if err != nil {
				return decimal.Zero, err
			}
			left = left.Mul(right)
		case '/':
			l.pos++
			right, err := l.parseFactor()
			if err != nil {
				return decimal.Zero, err
			}
			if right.IsZero() {
				return decimal.Zero, fmt.Errorf("division by zero")
			}
			left = left.Div(right)
		default:
			return left, nil
		}
	}
}

func (l *formulaLexer) parseFactor() (decimal.Decimal, error) {
	switch c := l.peek(); {
	case c == '(':
		l.pos++
		v, err := l.parseExpr()
		if err != nil {
			return decimal.Zero, err
		}
		if l.peek() != ')' {
			return decimal.Zero, fmt.Errorf("missing ) in formula %q", l.input)
		}
		l.pos++
		return v, nil
	case c >= '0' && c <= '9':
		return l.parseNumber()
	case c >= 'A' && c <= 'Z':
		word := l.parseWord()
		if word == "SUM" {
			return l.parseSum()
		}
		col, row, err := parseRef(word)
		if err != nil {
			return decimal.Zero, err
		}
		return l.resolve(col, row)
	default:
		return decimal.Zero, fmt.Errorf("unexpected %q in formula %q", c, l.input)
	}
}

func (l *formulaLexer) parseNumber() (decimal.Decimal, error) {
	l.skipSpaces()
	start := l.pos
	for l.pos < len(l.input) && (l.input[l.pos] >= '0' && l.input[l.pos] <= '9' || l.input[l.pos] == '.') {
		l.pos++
	}
	return decimal.NewFromString(l.input[start:l.pos])
}

func (l *formulaLexer) parseWord() string {
	l.skipSpaces()
	start := l.pos
	for l.pos < len(l.input) && (l.input[l.pos] >= 'A' && l.input[l.pos] <= 'Z' || l.input[l.pos] >= '0' && l.input[l.pos] <= '9') {
		l.pos++
	}
	return l.input[start:l.pos]
}

// parseSum parses the argument list of a SUM, where each argument is a cell
// reference or an inclusive range.
func (l *formulaLexer) parseSum() (decimal.Decimal, error) {
	if l.peek() != '(' {
		return decimal.Zero, fmt.Errorf("missing ( after SUM in %q", l.input)
	}
	l.pos++
	total := decimal.Zero
	for {
		word := l.parseWord()
		col, row, err := parseRef(word)
		if err != nil {
			return decimal.Zero, err
		}
		if l.peek() == ':' {
			l.pos++
			toCol, toRow, err := parseRef(l.parseWord())
			if err != nil {
				return decimal.Zero, err
			}
			if toRow != row {
				return decimal.Zero, fmt.Errorf("range %s:%s spans rows", ref(col, row), ref(toCol, toRow))
			}
			for c := col; c <= toCol; c++ {
				v, err := l.resolve(c, row)
				if err != nil {
					return decimal.Zero, err
				}
				total = total.Add(v)
			}
		} else {
			v, err := l.resolve(col, row)
			if err != nil {
				return decimal.Zero, err
			}
			total = total.Add(v)
		}
		switch l.peek() {
		case ',':
			l.pos++
		case ')':
			l.pos++
			return total, nil
		default:
			return decimal.Zero, fmt.Errorf("malformed SUM in %q", l.input)
		}
	}
}
