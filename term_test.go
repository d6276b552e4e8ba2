package symbolic_test

import (
	"testing"

	symbolic "github.com/gosymbolic/kernel"
)

// ============================================================
// Frac tests
// ============================================================

func TestFrac_Rational(t *testing.T) {
	f := symbolic.FracFromFrac(2, 4)
	if f.String() != "1/2" {
		t.Errorf("want 1/2, got %s", f.String())
	}
}

func TestFrac_IntegerString(t *testing.T) {
	f := symbolic.FracFromInt(7)
	if f.String() != "7" {
		t.Errorf("want 7, got %s", f.String())
	}
}

func TestFrac_InvertZero(t *testing.T) {
	_, err := symbolic.FracFromInt(0).Invert()
	if err == nil {
		t.Errorf("want DivisionByZeroError, got nil")
	}
}

func TestFrac_DecimalLiteral(t *testing.T) {
	f, err := symbolic.FracFromDecimalString("1.25")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.String() != "5/4" {
		t.Errorf("want 5/4, got %s", f.String())
	}
}

// ============================================================
// Term clone / equality tests
// ============================================================

func TestTerm_CloneFidelity(t *testing.T) {
	x := symbolic.SymbolTerm("x")
	sum := symbolic.Add(x, symbolic.IntTerm(1))
	clone := sum.Clone()
	if !clone.Equal(sum) {
		t.Errorf("clone should equal original")
	}
}

func TestTerm_EqualityIsStructural(t *testing.T) {
	a := symbolic.Add(symbolic.SymbolTerm("a"), symbolic.SymbolTerm("b"))
	b := symbolic.Add(symbolic.SymbolTerm("b"), symbolic.SymbolTerm("a"))
	if !a.Equal(b) {
		t.Errorf("commutative sums should be structurally equal, got %s vs %s", a.Text(), b.Text())
	}
}

func TestTerm_Variables(t *testing.T) {
	e, err := symbolic.Parse("2*b*a + c*a", nil, nil)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	vars := e.Variables()
	want := []string{"a", "b", "c"}
	if len(vars) != len(want) {
		t.Fatalf("want %v, got %v", want, vars)
	}
	for i := range want {
		if vars[i] != want[i] {
			t.Errorf("want %v, got %v", want, vars)
		}
	}
}

func TestTerm_Contains(t *testing.T) {
	e, err := symbolic.Parse("x^2 + 1", nil, nil)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if !e.Contains("x") {
		t.Errorf("expected x^2+1 expression to contain x")
	}
	if e.Contains("y") {
		t.Errorf("expected x^2+1 expression to not contain y")
	}
}

func TestTerm_NoZeroMultiplierChildren(t *testing.T) {
	e, err := symbolic.Parse("3*a - 3*a", nil, nil)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if !e.Equal(symbolic.IntTerm(0)) {
		t.Errorf("want 0, got %s", e.Text())
	}
}

func TestTerm_NoZeroChildSurvivesNestedCancellation(t *testing.T) {
	e, err := symbolic.Parse("a + b - b", nil, nil)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	a := symbolic.SymbolTerm("a")
	if !e.Equal(a) {
		t.Errorf("want a, got %s", e.Text())
	}
	for k, c := range e.Children {
		if c.Multiplier.IsZero() {
			t.Errorf("child %q has a zero multiplier", k)
		}
	}
}

func TestTerm_CBChildrenHaveUnitMultiplier(t *testing.T) {
	e, err := symbolic.Parse("2*x*y", nil, nil)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if e.Group != symbolic.CB {
		t.Fatalf("want CB, got %s", e.Group)
	}
	for _, c := range e.Children {
		if !c.Multiplier.IsOne() {
			t.Errorf("CB child %s has non-unit multiplier %s", c.Text(), c.Multiplier.String())
		}
	}
}
