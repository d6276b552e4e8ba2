package symbolic

import (
	"fmt"
	"math/big"
)

// This file is the arithmetic kernel described by spec.md §4.3: pure
// functions over Terms that keep every result in canonical form. Every
// entry point clones its inputs before mutating anything, so callers
// never observe a kernel op changing a Term they still hold.

const expansionCap = 32 // configured cap for distributing integer powers over composites (§4.3 pow rule)

func isZeroTerm(t *Term) bool { return t.Group == N && t.Multiplier.IsZero() }
func isOneTerm(t *Term) bool  { return t.Group == N && t.Multiplier.IsOne() }

// Add implements spec.md §4.3 add(a, b).
func Add(a, b *Term) *Term {
	a = a.clone()
	b = b.clone()
	if isZeroTerm(a) {
		return b
	}
	if isZeroTerm(b) {
		return a
	}
	if a.Group == N && b.Group == N {
		return NumberTerm(a.Multiplier.Add(b.Multiplier))
	}
	if likeTerms(a, b) {
		newMult := a.Multiplier.Add(b.Multiplier)
		if newMult.IsZero() {
			return IntTerm(0)
		}
		result := a.clone()
		result.Multiplier = newMult
		return result
	}
	cp := newTerm(CP)
	insertAddTerm(cp, a)
	insertAddTerm(cp, b)
	return finalizeCP(cp)
}

// likeTerms reports whether a and b differ only by multiplier: same
// group, same base content, same power.
func likeTerms(a, b *Term) bool {
	if a.Group != b.Group {
		return false
	}
	if a.contentText() != b.contentText() {
		return false
	}
	return a.powerKeyText() == b.powerKeyText()
}

func insertAddTerm(cp *Term, x *Term) {
	if isZeroTerm(x) {
		return
	}
	if x.Group == CP {
		xx := x
		if !xx.Multiplier.IsOne() {
			xx = distributeMultiplierCP(xx)
		}
		for _, k := range sortedKeys(xx.Children) {
			insertAddTerm(cp, xx.Children[k])
		}
		return
	}
	key := x.keyForGroup(CP)
	if existing, ok := cp.Children[key]; ok {
		merged := Add(existing, x)
		if isZeroTerm(merged) {
			delete(cp.Children, key)
		} else {
			cp.Children[key] = merged
		}
	} else {
		if cp.Children == nil {
			cp.Children = map[string]*Term{}
		}
		cp.Children[key] = x.clone()
	}
}

// distributeMultiplierCP folds a CP's held-up top-level multiplier
// into every child and resets the top-level multiplier to 1. The
// kernel never does this unprompted for a Term it is merely asked to
// return (spec.md §4.3 step 4 lazy-multiplier rule); it is only used
// internally, to keep the math correct while merging two composites
// whose outer multipliers would otherwise be lost.
func distributeMultiplierCP(cp *Term) *Term {
	out := newTerm(CP)
	for k, c := range cp.Children {
		cc := c.clone()
		cc.Multiplier = cc.Multiplier.Mul(cp.Multiplier)
		out.Children = ensureChildren(out.Children)
		out.Children[k] = cc
	}
	out.updateHash()
	return out
}

func ensureChildren(m map[string]*Term) map[string]*Term {
	if m == nil {
		return map[string]*Term{}
	}
	return m
}

func finalizeCP(cp *Term) *Term {
	switch len(cp.Children) {
	case 0:
		return IntTerm(0)
	case 1:
		for _, v := range cp.Children {
			res := v.clone()
			res.Multiplier = res.Multiplier.Mul(cp.Multiplier)
			if isZeroTerm(res) {
				return IntTerm(0)
			}
			return res
		}
	}
	cp.updateHash()
	return cp
}

// Multiply implements spec.md §4.3 multiply(a, b).
func Multiply(a, b *Term) *Term {
	a = a.clone()
	b = b.clone()
	if isZeroTerm(a) || isZeroTerm(b) {
		return IntTerm(0)
	}
	if isOneTerm(a) {
		return b
	}
	if isOneTerm(b) {
		return a
	}
	if a.Group == N && b.Group == N {
		return NumberTerm(a.Multiplier.Mul(b.Multiplier))
	}
	if a.Group == CP && a.PowerFrac.IsOne() {
		return distributeSumMultiply(a, b)
	}
	if b.Group == CP && b.PowerFrac.IsOne() {
		return distributeSumMultiply(b, a)
	}
	if sameBase(a, b) {
		return combineLikeFactors(a, b)
	}
	cb := newTerm(CB)
	insertMulTerm(cb, a)
	insertMulTerm(cb, b)
	return finalizeCB(cb)
}

// distributeSumMultiply multiplies a sum (group CP, unit power) by
// other term-by-term: (c1+c2+...)*other == c1*other + c2*other + ...
// Each recursive Multiply call sees a non-CP left operand, so if other
// is itself a sum the recursion distributes it too, yielding full
// cross-product expansion rather than a collapsed power-of-sum form.
func distributeSumMultiply(sum, other *Term) *Term {
	result := IntTerm(0)
	sumMult := NumberTerm(sum.Multiplier)
	for _, k := range sortedKeys(sum.Children) {
		term := Multiply(Multiply(sum.Children[k], sumMult), other)
		result = Add(result, term)
	}
	return result
}

func sameBase(a, b *Term) bool {
	return a.Group == b.Group && a.contentText() == b.contentText()
}

// combineLikeFactors multiplies two terms that share a base: the
// powers add (spec.md §4.3, and §8 property 6) and the multipliers
// multiply.
func combineLikeFactors(a, b *Term) *Term {
	result := a.clone()
	result.Multiplier = a.Multiplier.Mul(b.Multiplier)
	newPowerFrac, newPowerTerm := addPowers(a, b)
	applyPower(result, newPowerFrac, newPowerTerm)
	return demoteIfNeeded(result)
}

// addPowers adds the exponents of two like-based terms. If both
// exponents are plain rationals the sum is returned as a Frac; if
// either is a Term (group EX), the sum is computed via the kernel
// itself and may or may not fold back to a Frac.
func addPowers(a, b *Term) (Frac, *Term) {
	if a.Group != EX && b.Group != EX {
		return a.PowerFrac.Add(b.PowerFrac), nil
	}
	sum := Add(powerAsTerm(a), powerAsTerm(b))
	if sum.Group == N {
		return sum.Multiplier, nil
	}
	return Frac{}, sum
}

func powerAsTerm(t *Term) *Term {
	if t.Group == EX {
		return t.PowerTerm
	}
	return NumberTerm(t.PowerFrac)
}

// applyPower sets t's power field, promoting to/demoting from EX as
// needed depending on whether the new power is a Frac or a Term.
func applyPower(t *Term, f Frac, term *Term) {
	if term != nil {
		if t.Group != EX {
			g := t.Group
			t.PreviousGroup = &g
			t.Group = EX
		}
		t.PowerTerm = term
		return
	}
	if t.Group == EX {
		if t.PreviousGroup != nil {
			t.Group = *t.PreviousGroup
			t.PreviousGroup = nil
		}
		t.PowerTerm = nil
	}
	t.PowerFrac = f
}

// demoteIfNeeded folds a group-P term whose power has become an
// integer back into group N (spec.md §3.2 invariant 6), and collapses
// a term whose exponent is exactly zero to its multiplier alone.
func demoteIfNeeded(t *Term) *Term {
	if t.Group != EX && t.PowerFrac.IsZero() {
		return NumberTerm(t.Multiplier)
	}
	if t.Group == P && t.PowerFrac.IsInteger() {
		base := parseBigIntOrZero(t.Value)
		powered := new(big.Int).Exp(base, new(big.Int).Abs(big.NewInt(t.PowerFrac.Int64Exact())), nil)
		folded := FracFromBigInts(powered, bigOne())
		if t.PowerFrac.IsNegative() {
			inv, err := folded.Invert()
			if err != nil {
				return IntTerm(0)
			}
			folded = inv
		}
		return NumberTerm(t.Multiplier.Mul(folded))
	}
	return t
}

func parseBigIntOrZero(s string) *big.Int {
	n := new(big.Int)
	if _, ok := n.SetString(s, 10); !ok {
		return big.NewInt(0)
	}
	return n
}

func insertMulTerm(cb *Term, x *Term) {
	if isOneTerm(x) {
		return
	}
	if x.Group == N {
		cb.Multiplier = cb.Multiplier.Mul(x.Multiplier)
		return
	}
	if x.Group == CB {
		cb.Multiplier = cb.Multiplier.Mul(x.Multiplier)
		for _, k := range sortedKeys(x.Children) {
			insertMulTerm(cb, x.Children[k])
		}
		return
	}
	childMult := x.Multiplier
	child := x.clone()
	child.Multiplier = oneFrac()
	cb.Multiplier = cb.Multiplier.Mul(childMult)
	key := child.keyForGroup(CB)
	cb.Children = ensureChildren(cb.Children)
	if existing, ok := cb.Children[key]; ok {
		merged := combineLikeFactors(existing, child)
		if isZeroTerm(merged) {
			cb.Multiplier = zeroFrac()
			return
		}
		if merged.Group == N {
			cb.Multiplier = cb.Multiplier.Mul(merged.Multiplier)
			delete(cb.Children, key)
		} else {
			cb.Children[key] = merged
		}
	} else {
		cb.Children[key] = child
	}
}

func finalizeCB(cb *Term) *Term {
	if cb.Multiplier.IsZero() {
		return IntTerm(0)
	}
	switch len(cb.Children) {
	case 0:
		return NumberTerm(cb.Multiplier)
	case 1:
		for _, v := range cb.Children {
			res := v.clone()
			res.Multiplier = res.Multiplier.Mul(cb.Multiplier)
			if isZeroTerm(res) {
				return IntTerm(0)
			}
			return res
		}
	}
	cb.updateHash()
	return cb
}

// Negate returns -t.
func Negate(t *Term) *Term { return Multiply(t, IntTerm(-1)) }

// Subtract implements spec.md §4.3: subtract(a, b) = add(a, negate(b)).
func Subtract(a, b *Term) *Term { return Add(a, Negate(b)) }

// Invert negates the power of every multiplicative factor of t and
// inverts its multiplier, per spec.md §4.3.
func Invert(t *Term) (*Term, error) {
	t = t.clone()
	if isZeroTerm(t) {
		return nil, &DivisionByZeroError{Context: "invert"}
	}
	invMult, err := t.Multiplier.Invert()
	if err != nil {
		return nil, err
	}
	switch t.Group {
	case N:
		return NumberTerm(invMult), nil
	case CB:
		out := newTerm(CB)
		out.Multiplier = invMult
		for k, c := range t.Children {
			cc := c.clone()
			if cc.Group == EX {
				cc.PowerTerm = Negate(cc.PowerTerm)
			} else {
				cc.PowerFrac = cc.PowerFrac.Neg()
			}
			out.Children = ensureChildren(out.Children)
			out.Children[k] = cc
		}
		out.updateHash()
		return finalizeCB(out), nil
	default:
		t.Multiplier = invMult
		if t.Group == EX {
			t.PowerTerm = Negate(t.PowerTerm)
		} else {
			t.PowerFrac = t.PowerFrac.Neg()
		}
		return demoteIfNeeded(t), nil
	}
}

// Divide implements spec.md §4.3: divide(a, b) = multiply(a, invert(b)).
func Divide(a, b *Term) (*Term, error) {
	inv, err := Invert(b)
	if err != nil {
		return nil, err
	}
	return Multiply(a, inv), nil
}

// Pow implements spec.md §4.3 pow(base, exp).
func Pow(base, exp *Term) (*Term, error) {
	base = base.clone()
	if exp.Group != N {
		return powSymbolicExponent(base, exp.clone())
	}
	e := exp.Multiplier
	if isZeroTerm(base) {
		switch {
		case e.IsZero():
			return IntTerm(1), nil // 0^0 defined as 1 for convenience
		case e.IsPositive():
			return IntTerm(0), nil
		default:
			return nil, &DivisionByZeroError{Context: "0^negative"}
		}
	}
	if e.IsZero() {
		return IntTerm(1), nil
	}
	if e.IsOne() {
		return base, nil
	}
	if base.Group == N {
		if e.IsInteger() {
			return NumberTerm(fracPowInt(base.Multiplier, e.Int64Exact())), nil
		}
		return powNumericFractional(base, e)
	}
	if base.Group.isComposite() && e.IsInteger() && e.IsPositive() {
		n := e.Int64Exact()
		if n <= expansionCap {
			return expandIntegerPower(base, n), nil
		}
	}
	// (coeff*rest)^e == coeff^e * rest^e: split off the multiplier so
	// it gets raised to the power too, instead of being left behind.
	coeff := base.Multiplier
	base.Multiplier = oneFrac()
	newPowerFrac, newPowerTerm := multiplyPowerByFrac(base, e)
	applyPower(base, newPowerFrac, newPowerTerm)
	result := demoteIfNeeded(base)
	if coeff.IsOne() {
		return result, nil
	}
	coeffPow, err := Pow(NumberTerm(coeff), exp)
	if err != nil {
		return nil, err
	}
	return Multiply(coeffPow, result), nil
}

func multiplyPowerByFrac(base *Term, e Frac) (Frac, *Term) {
	if base.Group == EX {
		product := Multiply(base.PowerTerm, NumberTerm(e))
		if product.Group == N {
			return product.Multiplier, nil
		}
		return Frac{}, product
	}
	return base.PowerFrac.Mul(e), nil
}

func expandIntegerPower(base *Term, n int64) *Term {
	result := IntTerm(1)
	for i := int64(0); i < n; i++ {
		result = Multiply(result, base)
	}
	return result
}

// powSymbolicExponent promotes base to group EX, folding any
// pre-existing rational power into the new exponent (so that
// (x^p)^y == x^(p*y) holds even across the EX promotion boundary).
func powSymbolicExponent(base, exp *Term) (*Term, error) {
	if base.Group == EX {
		result := base.clone()
		result.PowerTerm = Multiply(base.PowerTerm, exp)
		return result, nil
	}
	prevGroup := base.Group
	result := base.clone()
	result.PreviousGroup = &prevGroup
	result.Group = EX
	if base.PowerFrac.IsOne() {
		result.PowerTerm = exp
	} else {
		result.PowerTerm = Multiply(NumberTerm(base.PowerFrac), exp)
	}
	result.PowerFrac = oneFrac()
	return result, nil
}

func fracPowInt(f Frac, n int64) Frac {
	if n == 0 {
		return oneFrac()
	}
	neg := n < 0
	if neg {
		n = -n
	}
	result := oneFrac()
	base := f
	for n > 0 {
		if n&1 == 1 {
			result = result.Mul(base)
		}
		base = base.Mul(base)
		n >>= 1
	}
	if neg {
		inv, err := result.Invert()
		if err != nil {
			return zeroFrac()
		}
		return inv
	}
	return result
}

// powNumericFractional handles N^e for a non-integer rational e,
// folding perfect powers and factoring out perfect-power factors the
// way sqrt(8) folds to 2*sqrt(2).
func powNumericFractional(base *Term, e Frac) (*Term, error) {
	m := base.Multiplier
	if m.IsInteger() {
		return powIntegerBaseFractional(m.Int64Exact(), e)
	}
	r := m.Big()
	numPow, err := powIntegerBaseFractional(r.Num().Int64(), e)
	if err != nil {
		return nil, err
	}
	denPow, err := powIntegerBaseFractional(r.Denom().Int64(), e.Neg())
	if err != nil {
		return nil, err
	}
	return Multiply(numPow, denPow), nil
}

// powIntegerBaseFractional computes baseInt^e exactly where possible
// (folding perfect powers), and otherwise returns an unfolded group-P
// term carrying the reduced rational exponent.
//
// Fractional powers of a negative base are outside this kernel's
// scope (no complex-number support, spec.md §1 Non-goals) and surface
// as a NerdamerTypeError rather than a silently wrong real value.
func powIntegerBaseFractional(baseInt int64, e Frac) (*Term, error) {
	if baseInt < 0 {
		return nil, &NerdamerTypeError{Op: "pow", Message: "fractional power of a negative base is not representable"}
	}
	if baseInt == 0 {
		return IntTerm(0), nil
	}
	num := e.Big().Num()
	den := e.Big().Denom()
	if !den.IsInt64() {
		return unfoldedP(baseInt, e), nil
	}
	q := den.Int64()
	absNum := new(big.Int).Abs(num)
	if !absNum.IsInt64() || absNum.Int64() > 4096 {
		return unfoldedP(baseInt, e), nil
	}
	powered := new(big.Int).Exp(big.NewInt(baseInt), absNum, nil)
	factor, remainder := extractPerfectPower(powered, q)

	var result *Term
	if remainder.Cmp(bigOne()) == 0 {
		result = NumberTerm(FracFromBigInts(factor, bigOne()))
	} else {
		p := newTerm(P)
		p.Value = remainder.String()
		p.PowerFrac = FracFromFrac(1, q)
		if factor.Cmp(bigOne()) != 0 {
			p.Multiplier = FracFromBigInts(factor, bigOne())
		}
		result = p
	}
	if num.Sign() < 0 {
		return Invert(result)
	}
	return result, nil
}

func unfoldedP(baseInt int64, e Frac) *Term {
	p := newTerm(P)
	p.Value = fmt.Sprint(baseInt)
	p.PowerFrac = e
	return p
}

// extractPerfectPower factors n = factor^q * remainder where
// remainder carries no further q-th-power factor, via bounded trial
// division. The bound is generous enough for hand-entered
// expressions; astronomically large radicands are left unfolded.
func extractPerfectPower(n *big.Int, q int64) (factor, remainder *big.Int) {
	remainder = new(big.Int).Set(n)
	factor = big.NewInt(1)
	limit := big.NewInt(100000)
	d := big.NewInt(2)
	qq := big.NewInt(q)
	for d.Cmp(limit) <= 0 {
		dSquared := new(big.Int).Mul(d, d)
		if dSquared.Cmp(remainder) > 0 {
			break
		}
		dq := new(big.Int).Exp(d, qq, nil)
		for {
			quot, rem := new(big.Int).QuoRem(remainder, dq, new(big.Int))
			if rem.Sign() != 0 {
				break
			}
			remainder = quot
			factor = factor.Mul(factor, d)
		}
		d = new(big.Int).Add(d, bigOne())
	}
	return factor, remainder
}

// Sqrt constructs x^(1/2), per spec.md §4.3 sqrt(x).
func Sqrt(x *Term) (*Term, error) { return Pow(x, FracTerm(1, 2)) }

// Degree returns the highest power of varName appearing in expr,
// treating expr as a polynomial (spec.md §6.1 isPoly/isLinear support).
func Degree(expr *Term, varName string) int {
	switch expr.Group {
	case N:
		return 0
	case S:
		if expr.Value == varName && expr.PowerFrac.IsInteger() {
			return int(expr.PowerFrac.Int64Exact())
		}
		return 0
	case CP, PL:
		max := 0
		for _, c := range expr.Children {
			if d := Degree(c, varName); d > max {
				max = d
			}
		}
		return max
	case CB:
		total := 0
		for _, c := range expr.Children {
			total += Degree(c, varName)
		}
		return total
	default:
		return 0
	}
}
