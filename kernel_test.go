package symbolic_test

import (
	"testing"

	symbolic "github.com/gosymbolic/kernel"
)

// ============================================================
// Add tests
// ============================================================

func TestAdd_LikeTermsCollapse(t *testing.T) {
	x := symbolic.SymbolTerm("x")
	sum := symbolic.Add(symbolic.Multiply(symbolic.IntTerm(2), x), symbolic.Multiply(symbolic.IntTerm(3), x))
	if sum.Text() != "5*x" {
		t.Errorf("want 5*x, got %s", sum.Text())
	}
}

func TestAdd_ZeroIdentity(t *testing.T) {
	x := symbolic.SymbolTerm("x")
	y := symbolic.SymbolTerm("y")
	lhs := symbolic.Add(symbolic.Multiply(symbolic.IntTerm(0), x), y)
	if !lhs.Equal(y) {
		t.Errorf("want y, got %s", lhs.Text())
	}
}

func TestAdd_CancelsToZero(t *testing.T) {
	a := symbolic.SymbolTerm("a")
	sum := symbolic.Add(symbolic.Multiply(symbolic.IntTerm(3), a), symbolic.Negate(symbolic.Multiply(symbolic.IntTerm(3), a)))
	if !sum.Equal(symbolic.IntTerm(0)) {
		t.Errorf("want 0, got %s", sum.Text())
	}
}

func TestAdd_Commutative(t *testing.T) {
	a := symbolic.SymbolTerm("a")
	b := symbolic.SymbolTerm("b")
	lhs := symbolic.Add(a, b)
	rhs := symbolic.Add(b, a)
	if !lhs.Equal(rhs) {
		t.Errorf("addition should be commutative, got %s vs %s", lhs.Text(), rhs.Text())
	}
}

func TestAdd_Associative(t *testing.T) {
	a := symbolic.SymbolTerm("a")
	b := symbolic.SymbolTerm("b")
	c := symbolic.SymbolTerm("c")
	lhs := symbolic.Add(symbolic.Add(a, b), c)
	rhs := symbolic.Add(a, symbolic.Add(b, c))
	if !lhs.Equal(rhs) {
		t.Errorf("addition should be associative, got %s vs %s", lhs.Text(), rhs.Text())
	}
}

// ============================================================
// Multiply / Pow tests
// ============================================================

func TestMultiply_ExponentsFold(t *testing.T) {
	x := symbolic.SymbolTerm("x")
	x2, err := symbolic.Pow(x, symbolic.IntTerm(2))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	x3, err := symbolic.Pow(x, symbolic.IntTerm(3))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	prod := symbolic.Multiply(x2, x3)
	x5, err := symbolic.Pow(x, symbolic.IntTerm(5))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !prod.Equal(x5) {
		t.Errorf("want x^5, got %s", prod.Text())
	}
}

func TestPow_DistributesOverIntegerExponent(t *testing.T) {
	x := symbolic.SymbolTerm("x")
	base := symbolic.Add(x, symbolic.IntTerm(1))
	squared, err := symbolic.Pow(base, symbolic.IntTerm(2))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := symbolic.Add(
		symbolic.Add(
			symbolic.Multiply(x, x),
			symbolic.Multiply(symbolic.IntTerm(2), x),
		),
		symbolic.IntTerm(1),
	)
	if !squared.Equal(expected) {
		t.Errorf("want %s, got %s", expected.Text(), squared.Text())
	}
}

func TestPow_DistributesOverProductExponent(t *testing.T) {
	twoX, err := symbolic.Parse("2*x", nil, nil)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	cubed, err := symbolic.Pow(twoX, symbolic.IntTerm(3))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected, err := symbolic.Parse("8*x^3", nil, nil)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if !cubed.Equal(expected) {
		t.Errorf("want %s, got %s", expected.Text(), cubed.Text())
	}
}

func TestPow_ZeroExponentIsOne(t *testing.T) {
	x := symbolic.SymbolTerm("x")
	result, err := symbolic.Pow(x, symbolic.IntTerm(0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Equal(symbolic.IntTerm(1)) {
		t.Errorf("want 1, got %s", result.Text())
	}
}

func TestPow_ZeroToNegativeIsError(t *testing.T) {
	_, err := symbolic.Pow(symbolic.IntTerm(0), symbolic.IntTerm(-1))
	if err == nil {
		t.Errorf("want an error for 0^-1, got nil")
	}
}

func TestSqrt_PerfectSquareFolds(t *testing.T) {
	result, err := symbolic.Sqrt(symbolic.IntTerm(4))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Equal(symbolic.IntTerm(2)) {
		t.Errorf("want 2, got %s", result.Text())
	}
}

func TestSqrt_PerfectPowerFactorsOut(t *testing.T) {
	result, err := symbolic.Sqrt(symbolic.IntTerm(8))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	two, err := symbolic.Sqrt(symbolic.IntTerm(2))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := symbolic.Multiply(symbolic.IntTerm(2), two)
	if !result.Equal(expected) {
		t.Errorf("want %s, got %s", expected.Text(), result.Text())
	}
}

func TestMultiply_CommutativeAndAssociative(t *testing.T) {
	a := symbolic.SymbolTerm("a")
	b := symbolic.SymbolTerm("b")
	c := symbolic.SymbolTerm("c")

	commLHS := symbolic.Multiply(a, b)
	commRHS := symbolic.Multiply(b, a)
	if !commLHS.Equal(commRHS) {
		t.Errorf("multiplication should be commutative, got %s vs %s", commLHS.Text(), commRHS.Text())
	}

	assocLHS := symbolic.Multiply(symbolic.Multiply(a, b), c)
	assocRHS := symbolic.Multiply(a, symbolic.Multiply(b, c))
	if !assocLHS.Equal(assocRHS) {
		t.Errorf("multiplication should be associative, got %s vs %s", assocLHS.Text(), assocRHS.Text())
	}
}

// ============================================================
// Invert / Divide tests
// ============================================================

func TestInvert_RoundTrip(t *testing.T) {
	x := symbolic.SymbolTerm("x")
	inv, err := symbolic.Invert(x)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	back, err := symbolic.Invert(inv)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !back.Equal(x) {
		t.Errorf("want x, got %s", back.Text())
	}
}

func TestInvert_ZeroIsError(t *testing.T) {
	_, err := symbolic.Invert(symbolic.IntTerm(0))
	if err == nil {
		t.Errorf("want DivisionByZeroError, got nil")
	}
}

func TestDivide_CancelsCommonFactor(t *testing.T) {
	x := symbolic.SymbolTerm("x")
	result, err := symbolic.Divide(symbolic.Multiply(symbolic.IntTerm(6), x), symbolic.IntTerm(3))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := symbolic.Multiply(symbolic.IntTerm(2), x)
	if !result.Equal(expected) {
		t.Errorf("want %s, got %s", expected.Text(), result.Text())
	}
}

// ============================================================
// Degree tests
// ============================================================

func TestDegree_Linear(t *testing.T) {
	e, err := symbolic.Parse("2*x + 1", nil, nil)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if !e.IsLinear("x") {
		t.Errorf("want 2x+1 to be linear in x")
	}
}

func TestDegree_Quadratic(t *testing.T) {
	e, err := symbolic.Parse("x^2 + x", nil, nil)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if e.IsLinear("x") {
		t.Errorf("want x^2+x to not be linear in x")
	}
	if symbolic.Degree(e, "x") != 2 {
		t.Errorf("want degree 2, got %d", symbolic.Degree(e, "x"))
	}
}
