package symbolic

import (
	"os"
	"regexp"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// Settings collects the process-wide, rarely-mutated configuration
// spec.md §6.2 enumerates. It replaces the global mutable state the
// teacher's design notes flag: every parse/tokenize/kernel entry point
// takes a *Context carrying one of these explicitly, with
// DefaultSettings/DefaultContext kept as ergonomic convenience
// constructors (spec.md §9 "Global mutable state").
type Settings struct {
	ConstHash    string `yaml:"const_hash"`
	Imaginary    string `yaml:"imaginary"`
	Sqrt         string `yaml:"sqrt"`
	Parenthesis  string `yaml:"parenthesis"`
	PowerOperator string `yaml:"power_operator"`

	UseMultiCharacterVars bool `yaml:"use_multicharacter_vars"`

	// ImpliedMultiplicationPattern is the regex text for
	// IMPLIED_MULTIPLICATION_REGEX; compiled into impliedMulRegex on
	// load so the zero value is still safe to use via DefaultSettings.
	ImpliedMultiplicationPattern string `yaml:"implied_multiplication_regex"`
	impliedMulRegex              *regexp.Regexp

	Precision int `yaml:"precision"`
}

// DefaultSettings returns the settings the default context uses.
func DefaultSettings() *Settings {
	s := &Settings{
		ConstHash:                    constHashSentinel,
		Imaginary:                    "i",
		Sqrt:                         "sqrt",
		Parenthesis:                  "parens",
		PowerOperator:                "^",
		UseMultiCharacterVars:        true,
		ImpliedMultiplicationPattern: `([0-9)\]])([A-Za-z(])|([)\]])([0-9])`,
		Precision:                    15,
	}
	s.compile()
	return s
}

func (s *Settings) compile() {
	s.impliedMulRegex = regexp.MustCompile(s.ImpliedMultiplicationPattern)
}

// ImpliedMultiplicationRegex lazily compiles ImpliedMultiplicationPattern
// (needed when Settings was populated by LoadSettingsYAML rather than
// DefaultSettings).
func (s *Settings) ImpliedMultiplicationRegex() *regexp.Regexp {
	if s.impliedMulRegex == nil {
		s.compile()
	}
	return s.impliedMulRegex
}

// LoadSettingsYAML loads a Settings override from a YAML file, falling
// back to DefaultSettings for any field the file omits. This is the
// one persistence exception spec.md §9's Non-goals carve out: Terms
// are never persisted, but a Settings profile legitimately is (e.g. a
// server process pinning precision and variable-splitting mode).
func LoadSettingsYAML(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s := DefaultSettings()
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, err
	}
	s.compile()
	return s, nil
}

// Context bundles every injected dependency the tokenizer, parser
// driver, and kernel need: Settings, the operator/bracket tables, the
// function provider, and a Units table. Its mutable state is Settings
// and its preprocessor-hook registry, and callers are expected to treat it
// as read-mostly (spec.md §5 "scoped acquisition" mutation discipline
// applies to Settings, not to Context as a whole).
type Context struct {
	Settings   *Settings
	Operators  *OperatorDictionary
	Functions  FunctionProvider
	Units      map[string]*Term
	preprocess *preprocessorRegistry

	id uuid.UUID
}

// DefaultContext returns a Context wired with the default operator
// table, bracket table, and function provider — the convenience the
// teacher's single-global-state design lacked.
func DefaultContext() *Context {
	return &Context{
		Settings:   DefaultSettings(),
		Operators:  DefaultOperatorDictionary(),
		Functions:  defaultFunctionProvider(),
		Units:      map[string]*Term{},
		preprocess: newPreprocessorRegistry(),
		id:         uuid.New(),
	}
}

// ID identifies this Context instance, so a long-running process (an
// MCP/JSON tool server, say) can correlate which default context a
// given request was served by across log lines.
func (c *Context) ID() uuid.UUID {
	if c.id == uuid.Nil {
		c.id = uuid.New()
	}
	return c.id
}

// AddPreprocessor registers a named input-rewrite hook, invoked in
// registration order (or at the explicit order, if given) before the
// built-in preprocessing passes run. Per spec.md §7, a nil fn is a
// PreprocessorError.
func (c *Context) AddPreprocessor(name string, fn func(string) string, order int) error {
	if fn == nil {
		return &PreprocessorError{Name: name}
	}
	c.preprocess.add(name, fn, order)
	return nil
}

// RemovePreprocessor unregisters a hook by name; it is a no-op if the
// name was never registered.
func (c *Context) RemovePreprocessor(name string) {
	c.preprocess.remove(name)
}

// GetPreprocessors returns the registered hook names in invocation order.
func (c *Context) GetPreprocessors() []string {
	return c.preprocess.names()
}

type preprocessorEntry struct {
	name  string
	fn    func(string) string
	order int
}

// preprocessorRegistry is the process-wide (per-Context, here)
// ordered hook table spec.md §4.2/§5 describes.
type preprocessorRegistry struct {
	entries []preprocessorEntry
	seq     int
}

func newPreprocessorRegistry() *preprocessorRegistry {
	return &preprocessorRegistry{}
}

func (r *preprocessorRegistry) add(name string, fn func(string) string, order int) {
	r.remove(name)
	if order == 0 {
		r.seq++
		order = r.seq * 1000
	}
	r.entries = append(r.entries, preprocessorEntry{name: name, fn: fn, order: order})
	sortPreprocessors(r.entries)
}

func (r *preprocessorRegistry) remove(name string) {
	out := r.entries[:0]
	for _, e := range r.entries {
		if e.name != name {
			out = append(out, e)
		}
	}
	r.entries = out
}

func (r *preprocessorRegistry) names() []string {
	names := make([]string, len(r.entries))
	for i, e := range r.entries {
		names[i] = e.name
	}
	return names
}

func (r *preprocessorRegistry) apply(s string) string {
	for _, e := range r.entries {
		s = e.fn(s)
	}
	return s
}

func sortPreprocessors(entries []preprocessorEntry) {
	for i := 1; i < len(entries); i++ {
		for j := i; j > 0 && entries[j-1].order > entries[j].order; j-- {
			entries[j-1], entries[j] = entries[j], entries[j-1]
		}
	}
}
