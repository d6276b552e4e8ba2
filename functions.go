package symbolic

import (
	"math"
	"strconv"
)

// FunctionDescriptor answers arity/name queries for a registered
// function (spec.md §6.3 FunctionProvider.getFunctionDescriptor).
type FunctionDescriptor struct {
	Name  string
	Arity int // -1 means variadic
}

// FunctionProvider resolves function names to descriptors and
// evaluates calls, per spec.md §4.4/§6.3. The tokenizer consults
// GetFunctionDescriptor to classify an identifier as a function name
// or a plain symbol; the parser driver consults Call once every
// argument Term has been evaluated. A plain symbol directly followed
// by a bracket is not multiplied by it: "x(y)" fails to parse.
type FunctionProvider interface {
	GetFunctionDescriptor(name string) (*FunctionDescriptor, bool)
	Call(name string, args []*Term) (*Term, error)
}

// DefaultFunctionProvider resolves the same function names the
// teacher's Func type recognized (sin, cos, tan, exp, ln, abs, asin,
// acos, atan, sinh, cosh, tanh, floor, ceil, sign), plus the
// spec-reserved sqrt/parens names, folding numeric arguments via
// math.* exactly as the teacher's Func.Eval/Simplify do. A call whose
// argument is not fully numeric is returned unevaluated as a group-FN
// wrapper (spec.md §4.4: "may itself be a group-FN wrapper if the
// function has no reduction rule").
type DefaultFunctionProvider struct {
	settings *Settings
}

// NewDefaultFunctionProvider builds a provider honoring the sqrt and
// parenthesis names configured in settings.
func NewDefaultFunctionProvider(settings *Settings) *DefaultFunctionProvider {
	return &DefaultFunctionProvider{settings: settings}
}

// defaultFunctionProvider returns a provider using DefaultSettings'
// reserved names, for callers that don't need a custom Settings.
func defaultFunctionProvider() *DefaultFunctionProvider {
	return NewDefaultFunctionProvider(DefaultSettings())
}

var mathUnary = map[string]func(float64) float64{
	"sin": math.Sin, "cos": math.Cos, "tan": math.Tan,
	"asin": math.Asin, "acos": math.Acos, "atan": math.Atan,
	"sinh": math.Sinh, "cosh": math.Cosh, "tanh": math.Tanh,
	"exp": math.Exp, "ln": math.Log,
	"floor": math.Floor, "ceil": math.Ceil,
	"abs": math.Abs,
}

func (p *DefaultFunctionProvider) GetFunctionDescriptor(name string) (*FunctionDescriptor, bool) {
	if name == p.settings.Sqrt || name == p.settings.Parenthesis || name == "sign" {
		return &FunctionDescriptor{Name: name, Arity: 1}, true
	}
	if _, ok := mathUnary[name]; ok {
		return &FunctionDescriptor{Name: name, Arity: 1}, true
	}
	return nil, false
}

// Call evaluates a function application. The transparent-parens
// wrapper and sqrt get their own reduction rules (sqrt folds through
// the kernel's Sqrt, so `sqrt(8)` normalizes the way `8^(1/2)` would);
// every other recognized name folds numerically when its argument is
// a plain number (group N), and otherwise remains an unevaluated FN
// term.
func (p *DefaultFunctionProvider) Call(name string, args []*Term) (*Term, error) {
	descriptor, ok := p.GetFunctionDescriptor(name)
	if !ok {
		return nil, &NerdamerTypeError{Op: name, Message: "unrecognized function"}
	}
	if len(args) != descriptor.Arity {
		return nil, &NerdamerTypeError{
			Op:      name,
			Message: "expected " + strconv.Itoa(descriptor.Arity) + " argument(s), got " + strconv.Itoa(len(args)),
		}
	}
	if name == p.settings.Parenthesis {
		return args[0], nil
	}
	if name == p.settings.Sqrt {
		return Sqrt(args[0])
	}
	arg := args[0]
	if name == "sign" {
		if arg.Group == N {
			return IntTerm(int64(arg.Sign())), nil
		}
		return wrapFN(name, args), nil
	}
	fn, ok := mathUnary[name]
	if !ok {
		return wrapFN(name, args), nil
	}
	if arg.Group != N {
		return wrapFN(name, args), nil
	}
	v := fn(arg.Multiplier.Float64())
	frac, err := FracFromDecimalString(trimFloat(v))
	if err != nil {
		return wrapFN(name, args), nil
	}
	return NumberTerm(frac), nil
}

func wrapFN(name string, args []*Term) *Term {
	t := newTerm(FN)
	t.FName = name
	t.Args = make([]*Term, len(args))
	for i, a := range args {
		t.Args[i] = a.clone()
	}
	t.updateHash()
	return t
}

func trimFloat(v float64) string {
	// math.* results are already approximate once they leave the
	// rational domain; this just gives FracFromDecimalString a
	// well-formed literal to parse, not additional precision.
	return strconv.FormatFloat(v, 'f', -1, 64)
}
