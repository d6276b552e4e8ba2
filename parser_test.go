package symbolic_test

import (
	"testing"

	symbolic "github.com/gosymbolic/kernel"
)

// ============================================================
// Parse: basic scenarios
// ============================================================

func TestParse_LikeTermCollapse(t *testing.T) {
	e, err := symbolic.Parse("2x + 3x", nil, nil)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if e.Text() != "5*x" {
		t.Errorf("want 5*x, got %s", e.Text())
	}
}

func TestParse_InvertRoundTrip(t *testing.T) {
	e, err := symbolic.Parse("1/(1/x)", nil, nil)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	x := symbolic.SymbolTerm("x")
	if !e.Equal(x) {
		t.Errorf("want x, got %s", e.Text())
	}
}

func TestParse_ZeroTermDrops(t *testing.T) {
	e, err := symbolic.Parse("0*x + y", nil, nil)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	y := symbolic.SymbolTerm("y")
	if !e.Equal(y) {
		t.Errorf("want y, got %s", e.Text())
	}
}

func TestParse_SqrtFolding(t *testing.T) {
	four, err := symbolic.Parse("sqrt(4)", nil, nil)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if !four.Equal(symbolic.IntTerm(2)) {
		t.Errorf("want 2, got %s", four.Text())
	}

	eight, err := symbolic.Parse("sqrt(8)", nil, nil)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	twoSqrtTwo, err := symbolic.Parse("2*sqrt(2)", nil, nil)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if !eight.Equal(twoSqrtTwo) {
		t.Errorf("want %s, got %s", twoSqrtTwo.Text(), eight.Text())
	}
}

func TestParse_SpaceScopeFunctionApplication(t *testing.T) {
	spaced, err := symbolic.Parse("sin x + 1", nil, nil)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	parenthesized, err := symbolic.Parse("sin(x)+1", nil, nil)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if !spaced.Equal(parenthesized) {
		t.Errorf("want %s, got %s", parenthesized.Text(), spaced.Text())
	}
}

// ============================================================
// Substitution
// ============================================================

func TestParse_SubstitutionWithNumber(t *testing.T) {
	e, err := symbolic.Parse("x+1", map[string]any{"x": symbolic.IntTerm(2)}, nil)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if !e.Equal(symbolic.IntTerm(3)) {
		t.Errorf("want 3, got %s", e.Text())
	}
}

func TestParse_SubstitutionWithExpressionString(t *testing.T) {
	e, err := symbolic.Parse("x^2", map[string]any{"x": "y+1"}, nil)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	expected, err := symbolic.Parse("(y+1)^2", nil, nil)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if !e.Equal(expected) {
		t.Errorf("want %s, got %s", expected.Text(), e.Text())
	}
}

// ============================================================
// Round-trip
// ============================================================

func TestParse_TextRoundTrip(t *testing.T) {
	cases := []string{"a+b*c", "2*x^3 + 5", "(x+1)*(x+2)"}
	for _, s := range cases {
		first, err := symbolic.Parse(s, nil, nil)
		if err != nil {
			t.Fatalf("parse error on %q: %v", s, err)
		}
		second, err := symbolic.Parse(first.Text(), nil, nil)
		if err != nil {
			t.Fatalf("re-parse error on %q: %v", first.Text(), err)
		}
		if !first.Equal(second) {
			t.Errorf("round-trip mismatch for %q: %s vs %s", s, first.Text(), second.Text())
		}
	}
}

// ============================================================
// Parity errors
// ============================================================

func TestParse_UnclosedBracketIsParityError(t *testing.T) {
	_, err := symbolic.Parse("sin(x", nil, nil)
	if err == nil {
		t.Fatalf("want ParityError, got nil")
	}
	if _, ok := err.(*symbolic.ParityError); !ok {
		t.Errorf("want *ParityError, got %T", err)
	}
}

func TestParse_UnmatchedClosingBracketIsParityError(t *testing.T) {
	_, err := symbolic.Parse("(x))", nil, nil)
	if err == nil {
		t.Fatalf("want ParityError, got nil")
	}
	pe, ok := err.(*symbolic.ParityError)
	if !ok {
		t.Fatalf("want *ParityError, got %T", err)
	}
	if pe.Col <= 0 {
		t.Errorf("want a positive column, got %d", pe.Col)
	}
}

// ============================================================
// Implicit multiplication fixpoint
// ============================================================

func TestParse_ImplicitMultiplicationFixpoint(t *testing.T) {
	e, err := symbolic.Parse("2(x+1)3", nil, nil)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	expected, err := symbolic.Parse("2*(x+1)*3", nil, nil)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if !e.Equal(expected) {
		t.Errorf("want %s, got %s", expected.Text(), e.Text())
	}
}

// ============================================================
// Adjacent-operator unary disambiguation
// ============================================================

func TestParse_AdjacentOperatorUnaryMinus(t *testing.T) {
	a := symbolic.SymbolTerm("a")
	b := symbolic.SymbolTerm("b")
	x := symbolic.SymbolTerm("x")

	cases := []struct {
		input string
		want  *symbolic.Term
	}{
		{"2*-3", symbolic.IntTerm(-6)},
		{"a+-b", symbolic.Subtract(a, b)},
		{"1--1", symbolic.IntTerm(2)},
	}
	for _, c := range cases {
		got, err := symbolic.Parse(c.input, nil, nil)
		if err != nil {
			t.Fatalf("parse error on %q: %v", c.input, err)
		}
		if !got.Equal(c.want) {
			t.Errorf("%q: want %s, got %s", c.input, c.want.Text(), got.Text())
		}
	}

	xInvPow, err := symbolic.Pow(x, symbolic.IntTerm(-1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := symbolic.Parse("x^-1", nil, nil)
	if err != nil {
		t.Fatalf("parse error on %q: %v", "x^-1", err)
	}
	if !got.Equal(xInvPow) {
		t.Errorf("x^-1: want %s, got %s", xInvPow.Text(), got.Text())
	}
}

// ============================================================
// Function call arity
// ============================================================

func TestParse_FunctionArityMismatchIsTypedError(t *testing.T) {
	_, err := symbolic.Parse("sin()", nil, nil)
	if err == nil {
		t.Fatalf("want an error for sin() with no argument, got nil")
	}
	if _, ok := err.(*symbolic.NerdamerTypeError); !ok {
		t.Errorf("want *NerdamerTypeError, got %T", err)
	}
}
