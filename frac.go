package symbolic

import (
	"fmt"
	"math"
	"math/big"
	"strings"
)

var (
	posInf = math.Inf(1)
	negInf = math.Inf(-1)
)

// Frac is an exact rational backed by math/big, following the
// teacher's Num/Rational wrapper. num/den are always in lowest terms
// after any arithmetic op and den is never negative; the sign lives
// on num. A Frac may also represent a signed infinity (inf=true);
// infinities are not reduced and den is meaningless on them.
type Frac struct {
	rat *big.Rat
	inf bool
	sgn int // sign of the infinity; only meaningful when inf is true
}

// FracFromInt builds an integer Frac.
func FracFromInt(n int64) Frac {
	return Frac{rat: new(big.Rat).SetInt64(n)}
}

// FracFromFrac builds p/q, reduced to lowest terms.
func FracFromFrac(p, q int64) Frac {
	if q == 0 {
		panic("symbolic: Frac denominator is zero")
	}
	return Frac{rat: new(big.Rat).SetFrac(big.NewInt(p), big.NewInt(q))}
}

// FracFromBigInts builds num/den from arbitrary-precision integers.
func FracFromBigInts(num, den *big.Int) Frac {
	if den.Sign() == 0 {
		panic("symbolic: Frac denominator is zero")
	}
	return Frac{rat: new(big.Rat).SetFrac(num, den)}
}

// InfFrac builds the distinguished, non-reduced infinity with the
// given sign (-1 or +1).
func InfFrac(sign int) Frac {
	if sign < 0 {
		sign = -1
	} else {
		sign = 1
	}
	return Frac{inf: true, sgn: sign}
}

// FracFromDecimalString parses a decimal literal such as "1.25",
// "-3", or "1.2e-3" into an exact Frac.
func FracFromDecimalString(s string) (Frac, error) {
	s = strings.TrimSpace(s)
	r := new(big.Rat)
	if _, ok := r.SetString(s); !ok {
		return Frac{}, fmt.Errorf("symbolic: invalid decimal literal %q", s)
	}
	return Frac{rat: r}, nil
}

func zeroFrac() Frac { return FracFromInt(0) }
func oneFrac() Frac  { return FracFromInt(1) }

func bigOne() *big.Int { return big.NewInt(1) }

func (f Frac) IsInfinity() bool { return f.inf }

func (f Frac) ratOrPanic() *big.Rat {
	if f.inf {
		panic("symbolic: operation undefined on infinity")
	}
	return f.rat
}

// Add returns f+o. Infinities of matching sign propagate; opposite
// signed infinities are undefined and panic, mirroring the kernel's
// "operations are expected to terminate" contract rather than
// silently producing NaN.
func (f Frac) Add(o Frac) Frac {
	if f.inf || o.inf {
		return addInf(f, o)
	}
	return Frac{rat: new(big.Rat).Add(f.rat, o.rat)}
}

func addInf(f, o Frac) Frac {
	switch {
	case f.inf && o.inf:
		if f.sgn != o.sgn {
			panic("symbolic: indeterminate infinity - infinity")
		}
		return InfFrac(f.sgn)
	case f.inf:
		return InfFrac(f.sgn)
	default:
		return InfFrac(o.sgn)
	}
}

func (f Frac) Sub(o Frac) Frac { return f.Add(o.Neg()) }

// Mul returns f*o.
func (f Frac) Mul(o Frac) Frac {
	if f.inf || o.inf {
		sign := f.Sign() * o.Sign()
		if sign == 0 {
			panic("symbolic: indeterminate 0 * infinity")
		}
		return InfFrac(sign)
	}
	return Frac{rat: new(big.Rat).Mul(f.rat, o.rat)}
}

// Neg returns -f.
func (f Frac) Neg() Frac {
	if f.inf {
		return InfFrac(-f.sgn)
	}
	return Frac{rat: new(big.Rat).Neg(f.rat)}
}

// Invert returns 1/f, or a DivisionByZeroError if f is exactly zero.
func (f Frac) Invert() (Frac, error) {
	if f.inf {
		return zeroFrac(), nil
	}
	if f.rat.Sign() == 0 {
		return Frac{}, &DivisionByZeroError{Context: "Frac.Invert"}
	}
	return Frac{rat: new(big.Rat).Inv(f.rat)}, nil
}

// Div returns f/o, or a DivisionByZeroError if o is exactly zero.
func (f Frac) Div(o Frac) (Frac, error) {
	inv, err := o.Invert()
	if err != nil {
		return Frac{}, err
	}
	return f.Mul(inv), nil
}

// Abs returns |f|.
func (f Frac) Abs() Frac {
	if f.inf {
		return InfFrac(1)
	}
	r := new(big.Rat).Set(f.rat)
	if r.Sign() < 0 {
		r.Neg(r)
	}
	return Frac{rat: r}
}

// Sign returns -1, 0, or 1.
func (f Frac) Sign() int {
	if f.inf {
		return f.sgn
	}
	return f.rat.Sign()
}

func (f Frac) IsZero() bool { return !f.inf && f.rat.Sign() == 0 }
func (f Frac) IsOne() bool  { return !f.inf && f.rat.Cmp(oneFrac().rat) == 0 }
func (f Frac) IsNegOne() bool {
	return !f.inf && f.rat.Cmp(new(big.Rat).SetInt64(-1)) == 0
}
func (f Frac) IsInteger() bool { return !f.inf && f.rat.IsInt() }
func (f Frac) IsPositive() bool { return f.Sign() > 0 }
func (f Frac) IsNegative() bool { return f.Sign() < 0 }

// Equals reports exact equality.
func (f Frac) Equals(o Frac) bool {
	if f.inf || o.inf {
		return f.inf && o.inf && f.sgn == o.sgn
	}
	return f.rat.Cmp(o.rat) == 0
}

// LessThan reports f < o for two finite rationals; an infinity always
// compares according to its sign against any finite value.
func (f Frac) LessThan(o Frac) bool {
	if !f.inf && !o.inf {
		return f.rat.Cmp(o.rat) < 0
	}
	if f.inf && o.inf {
		return f.sgn < o.sgn
	}
	if f.inf {
		return f.sgn < 0
	}
	return o.sgn > 0
}

func (f Frac) GreaterThan(o Frac) bool { return o.LessThan(f) }

// Int64Exact returns the integer value of f, panicking if f is not
// an integer — used only on call sites that have already checked
// IsInteger.
func (f Frac) Int64Exact() int64 {
	if !f.IsInteger() {
		panic("symbolic: Int64Exact on a non-integer Frac")
	}
	return f.rat.Num().Int64()
}

// Big returns the underlying *big.Rat (never for an infinity).
func (f Frac) Big() *big.Rat {
	return new(big.Rat).Set(f.ratOrPanic())
}

// String renders the canonical "p/q" (or "n" when integral) form.
func (f Frac) String() string {
	if f.inf {
		if f.sgn < 0 {
			return "-Infinity"
		}
		return "Infinity"
	}
	if f.rat.IsInt() {
		return f.rat.Num().String()
	}
	return f.rat.RatString()
}

// DecimalString renders f to prec decimal digits.
func (f Frac) DecimalString(prec int) string {
	if f.inf {
		return f.String()
	}
	return f.rat.FloatString(prec)
}

// Float64 returns the nearest float64 approximation (used only by
// numeric-evaluation helpers, never by the canonical kernel).
func (f Frac) Float64() float64 {
	if f.inf {
		if f.sgn < 0 {
			return negInf
		}
		return posInf
	}
	v, _ := f.rat.Float64()
	return v
}
