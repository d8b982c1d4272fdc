package flow

// Rule is one row of a first-match-wins decision table.
type Rule[I, O any] struct {
	Name string
	When func(I) bool
	Out  func(I) O
}

// RuleTable is an ordered set of rules evaluated top to bottom. The
// first rule whose predicate matches determines the output; later rules
// are not evaluated. Tables are plain data so precedence is testable
// without re-deriving it from branching code.
type RuleTable[I, O any] struct {
	rules    []Rule[I, O]
	fallback func(I) O
}

func NewRuleTable[I, O any](fallback func(I) O, rules ...Rule[I, O]) *RuleTable[I, O] {
	return &RuleTable[I, O]{
		rules:    rules,
		fallback: fallback,
	}
}

func (rt *RuleTable[I, O]) Apply(in I) O {
	for _, r := range rt.rules {
		if r.When(in) {
			return r.Out(in)
		}
	}
	return rt.fallback(in)
}

// Match reports which rule decided the output for the given input, or
// the empty string when the fallback applied.
func (rt *RuleTable[I, O]) Match(in I) string {
	for _, r := range rt.rules {
		if r.When(in) {
			return r.Name
		}
	}
	return ""
}

// Always adapts a constant to a rule output.
func Always[I, O any](v O) func(I) O {
	return func(I) O {
		return v
	}
}
