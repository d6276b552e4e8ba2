// Package symbolic implements a deterministic, exact-rational
// symbolic term kernel: a canonical Term representation, a
// hand-written infix tokenizer/parser, and the add/multiply/pow
// arithmetic that keeps Terms in canonical form.
//
// Design goals carried over from the teacher this module was built
// from: single logical unit, exact rational arithmetic (math/big),
// deterministic simplification, stable canonical output.
package symbolic

import (
	"sort"
)

// Group tags the structural shape of a Term. Each group fixes which
// fields are meaningful; see the field comments on Term.
type Group uint8

const (
	// N is a pure numeric constant; all information lives in Multiplier.
	N Group = iota
	// P is a numeric base raised to a non-integer rational power.
	P
	// S is a symbolic atom: a variable or a named constant.
	S
	// EX is a term whose exponent is itself a Term, not a Rational.
	EX
	// FN is a named function application.
	FN
	// PL is a power-list: a sum of terms that share a base, keyed by power.
	PL
	// CP is a composite polynomial: a general sum.
	CP
	// CB is a combination: a product of terms.
	CB
)

func (g Group) String() string {
	switch g {
	case N:
		return "N"
	case P:
		return "P"
	case S:
		return "S"
	case EX:
		return "EX"
	case FN:
		return "FN"
	case PL:
		return "PL"
	case CP:
		return "CP"
	case CB:
		return "CB"
	default:
		return "?"
	}
}

func (g Group) isComposite() bool { return g == PL || g == CP || g == CB }

// constHashSentinel is the identity value stored for group-N terms
// (spec.md §6.2 CONST_HASH). It never collides with a variable name
// because it is not a valid identifier.
const constHashSentinel = "#"

// Term is the canonical, hashable symbolic value described by
// spec.md §3.2. Terms are conceptually value-typed: every kernel
// input is cloned before mutation, and the kernel returns either a
// mutated clone or a freshly constructed Term. There is no
// shared-state lifetime tangle and no cyclic references — a Term's
// Power may itself be a Term, but only by ownership, never a back
// pointer.
type Term struct {
	Group Group

	// Multiplier is the rational coefficient carried on every term.
	Multiplier Frac

	// PowerFrac is the exponent for every group except EX.
	PowerFrac Frac
	// PowerTerm is the exponent for group EX only.
	PowerTerm *Term

	// Value is the identity string. Its meaning depends on Group: the
	// constant sentinel for N, the base's decimal string for P, the
	// atom name for S, "fname(arg,arg,...)" for FN, and the canonical
	// content hash (computed by updateHash) for PL/CP/CB. For EX it
	// is inherited, unchanged, from the term's shape before promotion
	// (see PreviousGroup).
	Value string

	// FName and Args are meaningful for FN only.
	FName string
	Args  []*Term

	// Children holds the child map for PL/CP/CB, keyed per §4.1. For
	// EX, if PreviousGroup names a composite, Children is inherited
	// from the pre-promotion shape.
	Children map[string]*Term

	// PreviousGroup remembers the group a Term had before promotion
	// to EX, so demotion (§3.2 invariant 6-ish path for EX) can
	// restore it exactly.
	PreviousGroup *Group

	Imaginary  bool
	IsInfinity bool
	IsUnit     bool
}

func newTerm(g Group) *Term {
	return &Term{
		Group:      g,
		Multiplier: oneFrac(),
		PowerFrac:  oneFrac(),
	}
}

// NumberTerm builds a group-N constant.
func NumberTerm(f Frac) *Term {
	t := newTerm(N)
	t.Multiplier = f
	t.Value = constHashSentinel
	return t
}

// IntTerm is a convenience constructor for an integer constant.
func IntTerm(n int64) *Term { return NumberTerm(FracFromInt(n)) }

// FracTerm is a convenience constructor for p/q.
func FracTerm(p, q int64) *Term { return NumberTerm(FracFromFrac(p, q)) }

// SymbolTerm builds a group-S atom for the given name.
func SymbolTerm(name string) *Term {
	t := newTerm(S)
	t.Value = name
	return t
}

// clone deep-copies t: children are cloned recursively, Args are
// cloned recursively, PowerTerm is cloned, Multiplier/PowerFrac are
// value types and copy by assignment.
func (t *Term) clone() *Term {
	if t == nil {
		return nil
	}
	c := &Term{
		Group:      t.Group,
		Multiplier: t.Multiplier,
		PowerFrac:  t.PowerFrac,
		Value:      t.Value,
		FName:      t.FName,
		Imaginary:  t.Imaginary,
		IsInfinity: t.IsInfinity,
		IsUnit:     t.IsUnit,
	}
	if t.PreviousGroup != nil {
		pg := *t.PreviousGroup
		c.PreviousGroup = &pg
	}
	if t.PowerTerm != nil {
		c.PowerTerm = t.PowerTerm.clone()
	}
	if t.Args != nil {
		c.Args = make([]*Term, len(t.Args))
		for i, a := range t.Args {
			c.Args[i] = a.clone()
		}
	}
	if t.Children != nil {
		c.Children = make(map[string]*Term, len(t.Children))
		for k, v := range t.Children {
			c.Children[k] = v.clone()
		}
	}
	return c
}

// Clone returns a deep, independent copy of t.
func (t *Term) Clone() *Term { return t.clone() }

func sortedKeys(m map[string]*Term) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Equal reports structural equality per spec.md §8 property 2: value,
// group, power, and multiplier coincide and children maps agree
// key-wise.
func (t *Term) Equal(o *Term) bool {
	if t == nil || o == nil {
		return t == o
	}
	if t.Group != o.Group {
		return false
	}
	if !t.Multiplier.Equals(o.Multiplier) {
		return false
	}
	if t.Group == EX {
		if !t.PowerTerm.Equal(o.PowerTerm) {
			return false
		}
	} else if !t.PowerFrac.Equals(o.PowerFrac) {
		return false
	}
	switch t.Group {
	case N:
		return true
	case P, S:
		return t.Value == o.Value
	case FN:
		if t.FName != o.FName || len(t.Args) != len(o.Args) {
			return false
		}
		for i := range t.Args {
			if !t.Args[i].Equal(o.Args[i]) {
				return false
			}
		}
		return true
	case EX:
		pg1, pg2 := t.PreviousGroup, o.PreviousGroup
		if (pg1 == nil) != (pg2 == nil) {
			return false
		}
		if pg1 != nil && *pg1 != *pg2 {
			return false
		}
		shadowT := t.baseShadow()
		shadowO := o.baseShadow()
		return shadowT.Equal(shadowO)
	case PL, CP, CB:
		if len(t.Children) != len(o.Children) {
			return false
		}
		for k, v := range t.Children {
			ov, ok := o.Children[k]
			if !ok || !v.Equal(ov) {
				return false
			}
		}
		return true
	}
	return false
}

// baseShadow returns a Term identical to t's pre-EX-promotion shape:
// same Group/Value/FName/Args/Children, but with a unit multiplier
// and power so it can be compared, hashed, or rendered exactly as it
// was before promotion.
func (t *Term) baseShadow() *Term {
	g := t.Group
	if t.Group == EX && t.PreviousGroup != nil {
		g = *t.PreviousGroup
	}
	return &Term{
		Group:      g,
		Multiplier: oneFrac(),
		PowerFrac:  oneFrac(),
		Value:      t.Value,
		FName:      t.FName,
		Args:       t.Args,
		Children:   t.Children,
	}
}

// Contains reports whether name appears anywhere in t (as a symbol
// name, a function name's argument, or nested inside children).
func (t *Term) Contains(name string) bool {
	if t == nil {
		return false
	}
	switch t.Group {
	case S:
		return t.Value == name
	case FN:
		for _, a := range t.Args {
			if a.Contains(name) {
				return true
			}
		}
		return false
	case EX:
		if t.PowerTerm.Contains(name) {
			return true
		}
		return t.baseShadow().Contains(name)
	case PL, CP, CB:
		for _, c := range t.Children {
			if c.Contains(name) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// Variables returns the alphabetically sorted list of distinct
// symbol names appearing in t.
func (t *Term) Variables() []string {
	set := map[string]struct{}{}
	collectVariables(t, set)
	names := make([]string, 0, len(set))
	for n := range set {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func collectVariables(t *Term, out map[string]struct{}) {
	if t == nil {
		return
	}
	switch t.Group {
	case S:
		out[t.Value] = struct{}{}
	case FN:
		for _, a := range t.Args {
			collectVariables(a, out)
		}
	case EX:
		collectVariables(t.PowerTerm, out)
		collectVariables(t.baseShadow(), out)
	case PL, CP, CB:
		for _, c := range t.Children {
			collectVariables(c, out)
		}
	}
}

// IsConstant reports whether t contains no free symbols.
func (t *Term) IsConstant() bool { return len(t.Variables()) == 0 }

// IsImaginary reports the Imaginary flag.
func (t *Term) IsImaginary() bool { return t.Imaginary }

// IsInteger reports whether t is a group-N term with an integer
// multiplier. Non-numeric terms are never integers.
func (t *Term) IsInteger() bool {
	return t.Group == N && t.Multiplier.IsInteger()
}

// IsPoly reports whether t is a polynomial: sums/products/non-negative
// integer powers of symbols and numbers. Any number of distinct
// variables may appear.
func (t *Term) IsPoly() bool {
	switch t.Group {
	case N, S:
		return t.PowerFrac.IsInteger() && t.PowerFrac.Sign() >= 0
	case CP, CB:
		for _, c := range t.Children {
			if !c.IsPoly() {
				return false
			}
		}
		return t.PowerFrac.IsInteger() && t.PowerFrac.Sign() >= 0
	default:
		return false
	}
}

// IsLinear reports whether Degree(t, varName) is at most 1. It does
// not check that t is a polynomial: a constant, a negative power of
// varName, or varName inside a function argument also counts as linear.
func (t *Term) IsLinear(varName string) bool {
	return Degree(t, varName) <= 1
}

// GetNum returns the numerator of t's multiplier (t must be a
// numeric-shaped term for this to be meaningful).
func (t *Term) GetNum() *Term { return NumberTerm(FracFromBigInts(t.Multiplier.ratOrPanic().Num(), bigOne())) }

// GetDenom returns the denominator of t's multiplier.
func (t *Term) GetDenom() *Term {
	return NumberTerm(FracFromBigInts(t.Multiplier.ratOrPanic().Denom(), bigOne()))
}

// Sign returns the sign of a numeric term's multiplier.
func (t *Term) Sign() int { return t.Multiplier.Sign() }

// LessThan compares two numeric (group-N) terms.
func (t *Term) LessThan(o *Term) (bool, error) {
	if t.Group != N || o.Group != N {
		return false, &NerdamerTypeError{Op: "LessThan", Message: "both operands must be numeric"}
	}
	return t.Multiplier.LessThan(o.Multiplier), nil
}

// GreaterThan compares two numeric (group-N) terms.
func (t *Term) GreaterThan(o *Term) (bool, error) {
	if t.Group != N || o.Group != N {
		return false, &NerdamerTypeError{Op: "GreaterThan", Message: "both operands must be numeric"}
	}
	return t.Multiplier.GreaterThan(o.Multiplier), nil
}
