package symbolic

import "fmt"

// exprParser walks one Scope's flat Items left-to-right and builds a
// Term by precedence climbing — a concrete realization of the
// abstract Q-work-stack tree-construction pass spec.md §4.2 describes,
// honoring each OperatorDescriptor's precedence/associativity/prefix
// flags while it goes, and dispatching straight to the kernel rather
// than first materializing a separate operator-tree type.
type exprParser struct {
	items []ScopeItem
	pos   int
	subs  map[string]*Term
	ctx   *Context
}

func (p *exprParser) peek() ScopeItem {
	if p.pos >= len(p.items) {
		return nil
	}
	return p.items[p.pos]
}

func (p *exprParser) advance() ScopeItem {
	item := p.peek()
	p.pos++
	return item
}

// parseExpression implements precedence climbing: minPrec is the
// lowest-precedence operator this call is allowed to consume.
func (p *exprParser) parseExpression(minPrec int) (*Term, error) {
	left, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		item := p.peek()
		tok, ok := item.(*Token)
		if !ok || tok.Kind != TokOperator || tok.Op == nil || tok.Op.Dispatch == nil {
			break
		}
		if tok.Op.Arity != 2 || tok.Op.Precedence < minPrec {
			break
		}
		p.advance()
		nextMin := tok.Op.Precedence + 1
		if tok.Op.Assoc == RightAssoc {
			nextMin = tok.Op.Precedence
		}
		right, err := p.parseExpression(nextMin)
		if err != nil {
			return nil, err
		}
		left, err = tok.Op.Dispatch([]*Term{left, right})
		if err != nil {
			return nil, err
		}
	}
	return left, nil
}

func (p *exprParser) parsePrimary() (*Term, error) {
	item := p.advance()
	switch v := item.(type) {
	case nil:
		return nil, &ParityError{Col: 0, Message: "unexpected end of expression"}
	case *Scope:
		return p.subParse(v)
	case *Token:
		switch v.Kind {
		case TokFunction:
			argsItem := p.advance()
			argsScope, ok := argsItem.(*Scope)
			if !ok {
				return nil, &ParityError{Col: v.Col, Message: "function " + v.Value + " is missing its argument list"}
			}
			args, err := p.parseArgList(argsScope)
			if err != nil {
				return nil, err
			}
			return p.ctx.Functions.Call(v.Value, args)
		case TokVarOrLiteral:
			return p.resolveLeaf(v)
		case TokUnit:
			return p.resolveLeaf(v)
		case TokOperator:
			if !v.Op.Prefix {
				return nil, &ParityError{Col: v.Col, Message: "unexpected operator " + v.Value}
			}
			operand, err := p.parseExpression(v.Op.Precedence)
			if err != nil {
				return nil, err
			}
			return v.Op.Dispatch([]*Term{operand})
		}
	}
	return nil, &ParityError{Col: 0, Message: "unrecognized token"}
}

func (p *exprParser) subParse(scope *Scope) (*Term, error) {
	sub := &exprParser{items: scope.Items, subs: p.subs, ctx: p.ctx}
	t, err := sub.parseExpression(0)
	if err != nil {
		return nil, err
	}
	if sub.pos != len(sub.items) {
		return nil, &ParityError{Col: scope.Col, Message: "unexpected trailing tokens in scope"}
	}
	return t, nil
}

// parseArgList splits an args scope's top-level items on comma
// operator tokens and parses each piece as an independent expression.
func (p *exprParser) parseArgList(scope *Scope) ([]*Term, error) {
	if len(scope.Items) == 0 {
		return nil, nil
	}
	var groups [][]ScopeItem
	start := 0
	for i, it := range scope.Items {
		if tok, ok := it.(*Token); ok && tok.Kind == TokOperator && tok.Value == "," {
			groups = append(groups, scope.Items[start:i])
			start = i + 1
		}
	}
	groups = append(groups, scope.Items[start:])

	args := make([]*Term, len(groups))
	for i, g := range groups {
		sub := &exprParser{items: g, subs: p.subs, ctx: p.ctx}
		t, err := sub.parseExpression(0)
		if err != nil {
			return nil, err
		}
		args[i] = t
	}
	return args, nil
}

func (p *exprParser) resolveLeaf(tok *Token) (*Term, error) {
	if isNumericLiteral(tok.Value) {
		frac, err := FracFromDecimalString(tok.Value)
		if err != nil {
			return nil, err
		}
		return NumberTerm(frac), nil
	}
	if p.subs != nil {
		if sub, ok := p.subs[tok.Value]; ok {
			return sub.clone(), nil
		}
	}
	if tok.Value == p.ctx.Settings.Imaginary {
		s := SymbolTerm(tok.Value)
		s.Imaginary = true
		return s, nil
	}
	return SymbolTerm(tok.Value), nil
}

// Parse is the main entry point spec.md §6.1 names: prepare the
// input, scan it into a scope tree, and parse that tree into a Term.
// subs maps free variable names to a replacement Term or a string to
// be parsed (recursively, with no further substitution) first.
func Parse(expression string, subs map[string]any, ctx *Context) (*Term, error) {
	if ctx == nil {
		ctx = DefaultContext()
	}
	resolvedSubs, err := resolveSubs(subs, ctx)
	if err != nil {
		return nil, err
	}
	prepared := prepareExpression(expression, ctx)
	root, err := scan(prepared, ctx)
	if err != nil {
		return nil, err
	}
	p := &exprParser{items: root.Items, subs: resolvedSubs, ctx: ctx}
	t, err := p.parseExpression(0)
	if err != nil {
		return nil, err
	}
	if p.pos != len(p.items) {
		return nil, &ParityError{Col: root.Col, Message: "unexpected trailing tokens"}
	}
	return t, nil
}

func resolveSubs(subs map[string]any, ctx *Context) (map[string]*Term, error) {
	if subs == nil {
		return nil, nil
	}
	out := make(map[string]*Term, len(subs))
	for name, v := range subs {
		switch val := v.(type) {
		case *Term:
			out[name] = val
		case Term:
			out[name] = &val
		case string:
			t, err := Parse(val, nil, ctx)
			if err != nil {
				return nil, err
			}
			out[name] = t
		default:
			return nil, fmt.Errorf("symbolic: substitution for %q must be a Term or string", name)
		}
	}
	return out, nil
}

// Evaluate returns an equal, owned deep clone of t: it adds exact
// zero, which Add short-circuits. It does not re-run the kernel over
// t's subterms and performs no rational-to-decimal folding; constants
// stay exact rationals.
func Evaluate(t *Term) (*Term, error) {
	return Add(t, IntTerm(0)), nil
}
