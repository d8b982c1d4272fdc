package mobile_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ScoopDroid/signalbar/mobile"
)

func TestRegistryTrackIsIdempotent(t *testing.T) {
	reg := mobile.NewRegistry(mobile.DefaultConfig())

	a := reg.Track(1)
	b := reg.Track(1)
	assert.Same(t, a, b)

	assert.Equal(t, []mobile.Identity{1}, reg.Identities())
}

func TestRegistryIdentitiesShareNothing(t *testing.T) {
	reg := mobile.NewRegistry(mobile.DefaultConfig())

	one := reg.Track(1)
	two := reg.Track(2)
	require.NotSame(t, one, two)
	require.NotSame(t, one.Sources, two.Sources)

	var oneSeen, twoSeen []bool
	one.VM.Roaming.Subscribe(func(v bool) { oneSeen = append(oneSeen, v) })
	two.VM.Roaming.Subscribe(func(v bool) { twoSeen = append(twoSeen, v) })

	one.Sources.Roaming.Set(true)
	assert.Equal(t, []bool{false, true}, oneSeen)
	assert.Equal(t, []bool{false}, twoSeen)
}

func TestRegistryForgetTearsDown(t *testing.T) {
	reg := mobile.NewRegistry(mobile.DefaultConfig())

	e := reg.Track(1)
	reg.Forget(1)

	_, ok := reg.Get(1)
	assert.False(t, ok)
	assert.True(t, e.VM.TornDown())

	// Observing a torn-down facade is a lifecycle bug and fails fast.
	assert.Panics(t, func() {
		e.VM.Visible.Subscribe(func(bool) {})
	})

	// Forgetting an unknown identity is a no-op.
	assert.NotPanics(t, func() {
		reg.Forget(42)
	})
}

func TestRegistryTrackAfterForgetIsFresh(t *testing.T) {
	reg := mobile.NewRegistry(mobile.DefaultConfig())

	old := reg.Track(1)
	reg.Forget(1)
	fresh := reg.Track(1)

	require.NotSame(t, old, fresh)
	assert.False(t, fresh.VM.TornDown())
	assert.NotPanics(t, func() {
		fresh.VM.Visible.Subscribe(func(bool) {})
	})
}
