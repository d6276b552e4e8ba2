package symbolic

import (
	"regexp"
	"strconv"
	"strings"
)

// prepareExpression runs the user-registered preprocessor hooks (in
// registration order) and then the built-in passes spec.md §4.2
// enumerates, iterating the implicit-multiplication step to a
// fixpoint. Each rewrite either strictly increases operator count or
// leaves the string unchanged, so the loop is guaranteed to
// terminate (spec.md §5).
func prepareExpression(s string, ctx *Context) string {
	s = ctx.preprocess.apply(s)
	s = collapseWhitespace(s)
	s = trimBracketWhitespace(s)
	s = expandScientificNotation(s)

	for {
		next := insertImplicitMultiplication(s, ctx)
		if next == s {
			break
		}
		s = next
	}
	if !ctx.Settings.UseMultiCharacterVars {
		s = splitSingleCharacterVars(s, ctx)
	}
	return s
}

// isRegisteredFunctionName reports whether name is a function ctx's
// FunctionProvider recognizes, resolved through the Context passed
// into prepareExpression rather than a package-level global, so two
// Contexts with different function tables never interfere with each
// other's preprocessing pass.
func isRegisteredFunctionName(name string, ctx *Context) bool {
	_, ok := ctx.Functions.GetFunctionDescriptor(name)
	return ok
}

var whitespaceRun = regexp.MustCompile(`\s+`)

func collapseWhitespace(s string) string {
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(s, " "))
}

var bracketWhitespace = regexp.MustCompile(`\s*([()\[\]])\s*`)

func trimBracketWhitespace(s string) string {
	return bracketWhitespace.ReplaceAllString(s, "$1")
}

var scientificLiteral = regexp.MustCompile(`(\d+(?:\.\d+)?)[eE]([+-]?\d+)`)

// expandScientificNotation rewrites "1.2e-3" into its exact expanded
// decimal literal, since scientific notation is only a display
// convenience for the same exact rational (spec.md §4.2 step 3).
func expandScientificNotation(s string) string {
	return scientificLiteral.ReplaceAllStringFunc(s, func(m string) string {
		parts := scientificLiteral.FindStringSubmatch(m)
		mantissa, expStr := parts[1], parts[2]
		exp, err := strconv.Atoi(expStr)
		if err != nil {
			return m
		}
		return shiftDecimalPoint(mantissa, exp)
	})
}

// shiftDecimalPoint moves mantissa's decimal point by exp places
// (positive = right, negative = left), padding with zeros — an exact,
// lossless operation since it never rounds, only repositions digits.
func shiftDecimalPoint(mantissa string, exp int) string {
	neg := strings.HasPrefix(mantissa, "-")
	if neg {
		mantissa = mantissa[1:]
	}
	intPart, fracPart := mantissa, ""
	if i := strings.IndexByte(mantissa, '.'); i >= 0 {
		intPart, fracPart = mantissa[:i], mantissa[i+1:]
	}
	digits := intPart + fracPart
	point := len(intPart) + exp

	switch {
	case point <= 0:
		digits = strings.Repeat("0", -point+1) + digits
		point = 1
	case point > len(digits):
		digits = digits + strings.Repeat("0", point-len(digits))
	}
	out := digits[:point]
	if rest := digits[point:]; rest != "" {
		out += "." + rest
	}
	if neg {
		out = "-" + out
	}
	return out
}

// insertImplicitMultiplication inserts "*" at coefficient/identifier
// boundaries per the configured regex, skipping insertion before an
// opening paren when the identifier run ending at the matched
// character names a registered function. The pattern carries two
// alternative capture-group pairs — digit/closing-bracket before a
// letter-or-paren, and closing-bracket before a digit — so both "2x"
// and "(x+1)3" style boundaries are covered without also matching a
// plain multi-digit number like "23". A letter directly followed by
// "(" matches neither pair, so "x(y)" is left unchanged here.
func insertImplicitMultiplication(s string, ctx *Context) string {
	pattern := ctx.Settings.ImpliedMultiplicationRegex()
	return pattern.ReplaceAllStringFunc(s, func(m string) string {
		idx := pattern.FindStringSubmatchIndex(m)
		if idx == nil || len(idx) < 10 {
			return m
		}
		var left, right string
		if idx[2] != -1 {
			left = m[idx[2]:idx[3]]
			right = m[idx[4]:idx[5]]
		} else {
			left = m[idx[6]:idx[7]]
			right = m[idx[8]:idx[9]]
		}
		if right == "(" && isFunctionNameBefore(s, m, left, ctx) {
			return m
		}
		return left + "*" + right
	})
}

// isFunctionNameBefore reports whether the identifier run immediately
// preceding the matched "(" names a registered function, in which
// case no "*" should be inserted — this is a call, not a product.
func isFunctionNameBefore(fullString, matched, leftBoundaryChar string, ctx *Context) bool {
	// leftBoundaryChar is a single digit/letter/bracket; walk fullString
	// for its first occurrence of matched to recover the identifier run
	// ending at leftBoundaryChar. Since insertImplicitMultiplication
	// operates per-match independent of position, a conservative
	// per-match string scan is used rather than threading index state
	// through ReplaceAllStringFunc.
	idx := strings.Index(fullString, matched)
	if idx < 0 {
		return false
	}
	end := idx + len(leftBoundaryChar)
	start := end
	for start > 0 && isIdentChar(rune(fullString[start-1])) {
		start--
	}
	name := fullString[start:end]
	return isRegisteredFunctionName(name, ctx)
}

func isIdentChar(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_'
}

var identRun = regexp.MustCompile(`[A-Za-z_][A-Za-z0-9_]*`)

// splitSingleCharacterVars rewrites multi-letter identifiers that are
// not function names into explicit single-character products, e.g.
// "abc" -> "a*b*c" (spec.md §4.2 step 4, USE_MULTICHARACTER_VARS=false).
func splitSingleCharacterVars(s string, ctx *Context) string {
	return identRun.ReplaceAllStringFunc(s, func(name string) string {
		if len(name) <= 1 || isRegisteredFunctionName(name, ctx) {
			return name
		}
		letters := strings.Split(name, "")
		return strings.Join(letters, "*")
	})
}
