package flow_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ScoopDroid/signalbar/flow"
)

func TestRuleTableFirstMatchWins(t *testing.T) {
	table := flow.NewRuleTable(
		flow.Always[int]("fallback"),
		flow.Rule[int, string]{
			Name: "negative",
			When: func(v int) bool { return v < 0 },
			Out:  flow.Always[int]("negative"),
		},
		flow.Rule[int, string]{
			Name: "small",
			When: func(v int) bool { return v < 10 },
			Out:  flow.Always[int]("small"),
		},
	)

	assert.Equal(t, "negative", table.Apply(-1))
	assert.Equal(t, "small", table.Apply(5))
	assert.Equal(t, "fallback", table.Apply(50))
}

func TestRuleTableStopsAtFirstMatch(t *testing.T) {
	// A later rule's predicate must not run once an earlier rule
	// matched.
	table := flow.NewRuleTable(
		flow.Always[int](0),
		flow.Rule[int, int]{
			Name: "match",
			When: func(int) bool { return true },
			Out:  flow.Always[int](1),
		},
		flow.Rule[int, int]{
			Name: "unreachable",
			When: func(int) bool { panic("later rule evaluated") },
			Out:  flow.Always[int](2),
		},
	)

	assert.NotPanics(t, func() {
		assert.Equal(t, 1, table.Apply(0))
	})
}

func TestRuleTableMatchNames(t *testing.T) {
	table := flow.NewRuleTable(
		flow.Always[bool](false),
		flow.Rule[bool, bool]{
			Name: "on",
			When: func(v bool) bool { return v },
			Out:  flow.Always[bool](true),
		},
	)

	assert.Equal(t, "on", table.Match(true))
	assert.Equal(t, "", table.Match(false))
}
