package flow_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ScoopDroid/signalbar/flow"
)

func TestStateReplaysOnSubscribe(t *testing.T) {
	sys := flow.NewSystem()
	src := flow.NewSignal(sys, 1)
	doubled := flow.Computed1(sys, src, func(v int) int {
		return v * 2
	})
	st := flow.NewState(sys, doubled, 0)

	var seen []int
	st.Subscribe(func(v int) {
		seen = append(seen, v)
	})
	assert.Equal(t, []int{2}, seen)

	src.Set(3)
	assert.Equal(t, []int{2, 6}, seen)
}

func TestStateMulticastConsistency(t *testing.T) {
	// Two observers attaching at different times see the same ordered
	// subsequence from their attach point onward, and the late
	// observer's first value is the most recent computed one.
	sys := flow.NewSystem()
	src := flow.NewSignal(sys, "a")
	up := flow.Computed1(sys, src, identity[string])
	st := flow.NewState(sys, up, "")

	var first []string
	st.Subscribe(func(v string) {
		first = append(first, v)
	})

	src.Set("b")
	src.Set("c")

	var second []string
	st.Subscribe(func(v string) {
		second = append(second, v)
	})
	require.Equal(t, []string{"c"}, second)

	src.Set("d")
	assert.Equal(t, []string{"a", "b", "c", "d"}, first)
	assert.Equal(t, []string{"c", "d"}, second)
}

func TestStateSingleUpstreamComputation(t *testing.T) {
	// One live evaluation chain no matter how many observers attach.
	sys := flow.NewSystem()
	src := flow.NewSignal(sys, 1)
	callCount := 0
	up := flow.Computed1(sys, src, func(v int) int {
		callCount++
		return v + 1
	})
	st := flow.NewState(sys, up, 0)

	st.Subscribe(func(int) {})
	st.Subscribe(func(int) {})
	st.Subscribe(func(int) {})
	assert.Equal(t, 1, callCount)

	src.Set(2)
	assert.Equal(t, 2, callCount)
}

func TestStateDedupesEmissions(t *testing.T) {
	// The combinator output collapses to one emission per distinct
	// value even when inputs keep changing.
	sys := flow.NewSystem()
	src := flow.NewSignal(sys, 1)
	parity := flow.Computed1(sys, src, func(v int) bool {
		return v%2 == 0
	})
	st := flow.NewState(sys, parity, false)

	var seen []bool
	st.Subscribe(func(v bool) {
		seen = append(seen, v)
	})
	require.Equal(t, []bool{false}, seen)

	src.Set(3)
	src.Set(5)
	src.Set(7)
	assert.Equal(t, []bool{false}, seen)

	src.Set(8)
	assert.Equal(t, []bool{false, true}, seen)
}

func TestStateSuspendsAndRetainsValue(t *testing.T) {
	sys := flow.NewSystem()
	src := flow.NewSignal(sys, 1)
	callCount := 0
	up := flow.Computed1(sys, src, func(v int) int {
		callCount++
		return v * 10
	})
	st := flow.NewState(sys, up, 0)

	stop := st.Subscribe(func(int) {})
	assert.Equal(t, 1, callCount)
	assert.Equal(t, 10, st.Value())

	// Last observer detaches: upstream is suspended but the value is
	// retained, not reset to the initial default.
	stop()
	assert.Equal(t, 10, st.Value())

	src.Set(2)
	assert.Equal(t, 1, callCount)
	assert.Equal(t, 10, st.Value())

	// Restart on the next observer: evaluation resumes against the
	// current upstream value.
	var seen []int
	st.Subscribe(func(v int) {
		seen = append(seen, v)
	})
	assert.Equal(t, []int{20}, seen)
	assert.Equal(t, 20, st.Value())
}

func TestStateDetachIsIdempotent(t *testing.T) {
	sys := flow.NewSystem()
	src := flow.NewSignal(sys, 1)
	st := flow.NewState[int](sys, src, 0)

	stop := st.Subscribe(func(int) {})
	stop()
	assert.NotPanics(t, func() {
		stop()
	})

	// Reattach after full detach is defined behavior.
	assert.NotPanics(t, func() {
		st.Subscribe(func(int) {})
	})
}

func TestStateDetachDoesNotAffectOtherObservers(t *testing.T) {
	sys := flow.NewSystem()
	src := flow.NewSignal(sys, 1)
	st := flow.NewState[int](sys, src, 0)

	var kept []int
	stopA := st.Subscribe(func(int) {})
	st.Subscribe(func(v int) {
		kept = append(kept, v)
	})

	stopA()
	src.Set(2)
	assert.Equal(t, []int{1, 2}, kept)
}

func TestStateSubscribeAfterRetirePanics(t *testing.T) {
	sys := flow.NewSystem()
	src := flow.NewSignal(sys, 1)
	st := flow.NewState[int](sys, src, 0)

	st.Retire()
	assert.Panics(t, func() {
		st.Subscribe(func(int) {})
	})
}

func TestStateTapReceivesTransitions(t *testing.T) {
	sys := flow.NewSystem()
	src := flow.NewSignal(sys, 1)

	type pair struct{ prev, cur int }
	var taps []pair
	st := flow.NewState[int](sys, src, 0, flow.WithTap(func(prev, cur int) {
		taps = append(taps, pair{prev, cur})
	}))

	st.Subscribe(func(int) {})
	src.Set(2)
	src.Set(2)
	src.Set(3)

	assert.Equal(t, []pair{{0, 1}, {1, 2}, {2, 3}}, taps)
}

func TestStatePanickingTapDoesNotAffectObservers(t *testing.T) {
	sys := flow.NewSystem()
	src := flow.NewSignal(sys, 1)
	st := flow.NewState[int](sys, src, 0, flow.WithTap(func(prev, cur int) {
		panic("recorder down")
	}))

	var seen []int
	require.NotPanics(t, func() {
		st.Subscribe(func(v int) {
			seen = append(seen, v)
		})
		src.Set(2)
	})
	assert.Equal(t, []int{1, 2}, seen)
}
