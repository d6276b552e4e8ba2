package symbolic

import "strings"

// scan is the single forward pass spec.md §4.2 "Scanning" describes:
// it turns the prepared string into a tree of Scopes carrying Tokens,
// honoring bracket nesting, operator chunkify, and the space-as-scope
// rule for bare function-argument application ("sin x" == "sin(x)").
func scan(s string, ctx *Context) (*Scope, error) {
	runes := []rune(s)
	root := &Scope{Type: ""}
	stack := []*Scope{root}
	var brackets []*BracketDescriptor
	var spaceScope []bool

	var pending strings.Builder
	pendingCol := 0

	flushPending := func() {
		if pending.Len() == 0 {
			return
		}
		text := pending.String()
		tok := classify(text, pendingCol, ctx)
		top := stack[len(stack)-1]
		top.Items = append(top.Items, tok)
		pending.Reset()
	}

	closeTrailingSpaceScope := func() {
		if len(spaceScope) > 0 && spaceScope[len(spaceScope)-1] {
			stack = stack[:len(stack)-1]
			spaceScope = spaceScope[:len(spaceScope)-1]
		}
	}

	cur := 0
	for cur < len(runes) {
		ch := runes[cur]
		col := cur + 1

		switch {
		case isOperatorChar(ch):
			flushPending()
			closeTrailingSpaceScope()
			start := cur
			for cur < len(runes) && isOperatorChar(runes[cur]) {
				cur++
			}
			run := runes[start:cur]
			top := stack[len(stack)-1]
			precedingIsOperand := len(top.Items) > 0 && isOperand(top.Items[len(top.Items)-1])
			chunks, err := chunkify(string(run), ctx, precedingIsOperand)
			if err != nil {
				return nil, &ParityError{Col: start + 1, Message: err.Error()}
			}
			for _, c := range chunks {
				op, ok := ctx.Operators.Lookup(c)
				if !ok {
					return nil, &ParityError{Col: start + 1, Message: "unknown operator " + c}
				}
				top.Items = append(top.Items, &Token{Kind: TokOperator, Value: c, Col: start + 1, Op: op})
				top = stack[len(stack)-1]
			}

		case isBracketGlyph(ch, ctx, true):
			flushPending()
			b := ctx.Operators.Brackets[string(ch)]
			newScope := &Scope{Col: col, Type: b.MapsTo}
			stack[len(stack)-1].Items = append(stack[len(stack)-1].Items, newScope)
			stack = append(stack, newScope)
			brackets = append(brackets, b)
			cur++

		case isBracketGlyph(ch, ctx, false):
			flushPending()
			b := ctx.Operators.Brackets[string(ch)]
			if len(brackets) == 0 {
				return nil, &ParityError{Col: col, Message: "unmatched closing bracket"}
			}
			opener := brackets[len(brackets)-1]
			if !MatchesOpener(opener, b) {
				return nil, &ParityError{Col: col, Message: "mismatched bracket"}
			}
			brackets = brackets[:len(brackets)-1]
			stack = stack[:len(stack)-1]
			cur++

		case ch == ' ':
			flushPending()
			if len(spaceScope) > 0 && spaceScope[len(spaceScope)-1] {
				stack = stack[:len(stack)-1]
				spaceScope = spaceScope[:len(spaceScope)-1]
			} else {
				top := stack[len(stack)-1]
				if n := len(top.Items); n > 0 {
					if tok, ok := top.Items[n-1].(*Token); ok && tok.Kind == TokFunction {
						sp := &Scope{Col: col, Type: "parens"}
						top.Items = append(top.Items, sp)
						stack = append(stack, sp)
						spaceScope = append(spaceScope, true)
					}
				}
			}
			cur++

		default:
			if pending.Len() == 0 {
				pendingCol = col
			}
			pending.WriteRune(ch)
			cur++
		}
	}
	flushPending()
	if len(brackets) > 0 {
		return nil, &ParityError{Col: len(runes) + 1, Message: "unclosed bracket"}
	}
	for len(spaceScope) > 0 {
		spaceScope = spaceScope[:len(spaceScope)-1]
	}
	return root, nil
}

func isOperatorChar(ch rune) bool {
	switch ch {
	case '+', '-', '*', '/', '^', ',':
		return true
	default:
		return false
	}
}

func isBracketGlyph(ch rune, ctx *Context, open bool) bool {
	b, ok := ctx.Operators.Brackets[string(ch)]
	if !ok {
		return false
	}
	if open {
		return b.IsOpen
	}
	return b.IsClose
}

// classify decides a flushed identifier/literal's token kind: numeric
// literal, unit, function name, or plain symbol (spec.md §3.3).
func classify(text string, col int, ctx *Context) *Token {
	if isNumericLiteral(text) {
		return &Token{Kind: TokVarOrLiteral, Value: text, Col: col}
	}
	if _, ok := ctx.Units[text]; ok {
		return &Token{Kind: TokUnit, Value: text, Col: col}
	}
	if _, ok := ctx.Functions.GetFunctionDescriptor(text); ok {
		return &Token{Kind: TokFunction, Value: text, Col: col}
	}
	return &Token{Kind: TokVarOrLiteral, Value: text, Col: col}
}

func isNumericLiteral(s string) bool {
	if s == "" {
		return false
	}
	seenDot := false
	for i, r := range s {
		switch {
		case r >= '0' && r <= '9':
		case r == '.' && !seenDot:
			seenDot = true
		case r == '-' && i == 0:
		default:
			return false
		}
	}
	return true
}

// opChunk is one longest-match operator glyph found inside a maximal
// run of operator characters.
type opChunk = string

// chunkify splits a run of operator characters into known multi-char
// operator glyphs by greedy longest match (spec.md §4.2 "Scanning").
// precedingIsOperand disambiguates a leading "-" as binary subtraction
// (true) or unary negation, dispatched under the internal "u-" glyph
// (false). The operand/not-operand state is recomputed after every
// emitted chunk, not just once for the run's first glyph: any emitted
// operator leaves the next position in non-operand context unless that
// operator is itself Postfix, so adjacent operator runs like "2*-3",
// "x^-1", "a+-b", and "1--1" resolve each "-" independently instead of
// only the run's leading one.
func chunkify(run string, ctx *Context, precedingIsOperand bool) ([]opChunk, error) {
	glyphs := ctx.Operators.Glyphs()
	var out []opChunk
	i := 0
	operand := precedingIsOperand
	for i < len(run) {
		best := ""
		for _, g := range glyphs {
			if g == "u-" {
				continue
			}
			if strings.HasPrefix(run[i:], g) && len(g) > len(best) {
				best = g
			}
		}
		if best == "" {
			return nil, &NameValidationError{Name: run[i:], Reason: "not a recognized operator"}
		}
		emit := best
		if best == "-" && !operand {
			emit = "u-"
		}
		out = append(out, emit)
		i += len(best)
		op, ok := ctx.Operators.Lookup(emit)
		operand = ok && op.Postfix
	}
	return out, nil
}
