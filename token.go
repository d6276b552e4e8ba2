package symbolic

// TokenKind distinguishes the token roles spec.md §3.3 names.
type TokenKind uint8

const (
	TokOperator TokenKind = iota
	TokFunction
	TokVarOrLiteral
	TokUnit
)

// Token is one lexical unit produced by the scanning pass: raw text,
// its kind, its source column, and — for operators — the descriptor
// that carries precedence/arity/associativity.
type Token struct {
	Kind  TokenKind
	Value string
	Col   int
	Op    *OperatorDescriptor
}

// ScopeItem is either a *Token or a nested *Scope; the scanning pass
// builds a tree of these rather than a flat token list (spec.md §3.3).
type ScopeItem interface {
	isScopeItem()
}

func (*Token) isScopeItem() {}
func (*Scope) isScopeItem() {}

// Scope is an ordered sequence of ScopeItems opened by a bracket or by
// the space-after-function rule. Type names the bracket family (or
// function-args wrapper) that opened it, "" for the root scope.
type Scope struct {
	Items []ScopeItem
	Col   int
	Type  string
}

func isOperand(item ScopeItem) bool {
	switch v := item.(type) {
	case *Scope:
		return true
	case *Token:
		return v.Kind == TokVarOrLiteral || v.Kind == TokUnit || (v.Kind == TokOperator && v.Op != nil && v.Op.Postfix)
	}
	return false
}
