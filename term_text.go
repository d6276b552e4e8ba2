package symbolic

import "strings"

// keyForGroup answers the deterministic per-group hash used to
// insert t into parent's child map, per spec.md §4.1.
func (t *Term) keyForGroup(parent Group) string {
	switch parent {
	case CB:
		return t.contentText()
	case CP:
		return t.contentText() + "^" + t.powerKeyText()
	case PL:
		return t.powerKeyText()
	default:
		return t.contentText()
	}
}

// contentText is t's identity text excluding its own multiplier and
// its own power: the "base hash" of spec.md §4.1.
func (t *Term) contentText() string {
	switch t.Group {
	case N:
		return constHashSentinel
	case P, S:
		return t.Value
	case FN:
		return t.Value
	case EX:
		return t.Value
	case PL, CP, CB:
		return t.Value
	default:
		return t.Value
	}
}

// powerKeyText stringifies t's power for use as a PL/CP key.
func (t *Term) powerKeyText() string {
	if t.Group == EX {
		return t.PowerTerm.Text()
	}
	return t.PowerFrac.String()
}

// updateHash recomputes Value from children whenever they mutate,
// per spec.md §4.1. It is a no-op for non-composite, non-FN groups.
func (t *Term) updateHash() {
	switch t.Group {
	case FN:
		parts := make([]string, len(t.Args))
		for i, a := range t.Args {
			parts[i] = a.Text()
		}
		t.Value = t.FName + "(" + strings.Join(parts, ",") + ")"
	case CP, PL:
		keys := sortedKeys(t.Children)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = t.Children[k].Text()
		}
		t.Value = strings.Join(parts, "+")
	case CB:
		keys := sortedKeys(t.Children)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = t.Children[k].Text()
		}
		t.Value = strings.Join(parts, "*")
	}
}

// Text renders t's minimal canonical infix form: enough to hash,
// round-trip through parse, and read during development. It is not a
// pretty-printer (see spec.md §1 Non-goals) — no LaTeX, no spacing
// configuration, no alternate radices.
func (t *Term) Text() string {
	switch t.Group {
	case N:
		return t.Multiplier.String()
	case P:
		return withMultiplier(t.Multiplier, withPower(t.Value, t.PowerFrac))
	case S:
		return withMultiplier(t.Multiplier, withPower(t.Value, t.PowerFrac))
	case FN:
		return withMultiplier(t.Multiplier, withPower(t.Value, t.PowerFrac))
	case EX:
		base := t.baseShadow().Text()
		powered := maybeParenForPower(base) + "^" + maybeParenForPower(t.PowerTerm.Text())
		return withMultiplier(t.Multiplier, powered)
	case CP, PL:
		return t.sumText()
	case CB:
		return t.productText()
	default:
		return t.Value
	}
}

func (t *Term) sumText() string {
	keys := sortedKeys(t.Children)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = t.Children[k].Text()
	}
	body := strings.Join(parts, " + ")
	if len(keys) == 0 {
		body = "0"
	}
	if !t.Multiplier.IsOne() {
		body = t.Multiplier.String() + "*(" + body + ")"
	}
	if !t.PowerFrac.IsOne() {
		body = maybeParenForPower(body) + "^" + maybeParenForPower(t.PowerFrac.String())
	}
	return body
}

func (t *Term) productText() string {
	keys := sortedKeys(t.Children)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = t.Children[k].Text()
	}
	var body string
	if t.Multiplier.IsOne() {
		body = strings.Join(parts, "*")
		if body == "" {
			body = "1"
		}
	} else if len(parts) == 0 {
		body = t.Multiplier.String()
	} else {
		body = t.Multiplier.String() + "*" + strings.Join(parts, "*")
	}
	if !t.PowerFrac.IsOne() {
		body = maybeParenForPower(body) + "^" + maybeParenForPower(t.PowerFrac.String())
	}
	return body
}

func withPower(base string, power Frac) string {
	if power.IsOne() {
		return base
	}
	return maybeParenForPower(base) + "^" + maybeParenForPower(power.String())
}

func withMultiplier(mult Frac, text string) string {
	if mult.IsOne() {
		return text
	}
	return mult.String() + "*" + text
}

func maybeParenForPower(s string) string {
	if strings.ContainsAny(s, "+*/") {
		return "(" + s + ")"
	}
	return s
}

// String implements fmt.Stringer via the canonical text form.
func (t *Term) String() string { return t.Text() }
