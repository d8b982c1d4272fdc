package flow

import (
	mapset "github.com/deckarep/golang-set/v2"
)

// State is the shared cache and multicast endpoint over one derived
// stream. At most one live upstream chain exists no matter how many
// observers attach. Each new observer synchronously receives the most
// recently computed value. Upstream evaluation starts when the observer
// count goes 0→1 and is suspended at 1→0; the last value is retained
// across suspension, never reset to the initial default.
type State[T comparable] struct {
	sys      *System
	upstream Dependency
	initial  T
	last     T
	primed   bool
	attached bool
	retired  bool
	tap      func(prev, cur T)

	// It's a set because registrations must deduplicate; one observer
	// attached twice must still be refreshed once per change.
	observers mapset.Set[*stateObserver[T]]
}

type stateObserver[T comparable] struct {
	fn func(T)
}

type StateOption[T comparable] func(*State[T])

// WithTap installs a best-effort transition sink called once per
// accepted post-dedupe change. A panicking tap never affects the value
// delivered to observers.
func WithTap[T comparable](fn func(prev, cur T)) StateOption[T] {
	return func(st *State[T]) {
		st.tap = fn
	}
}

func NewState[T comparable](sys *System, upstream Dependency, initial T, opts ...StateOption[T]) *State[T] {
	st := &State[T]{
		sys:       sys,
		upstream:  upstream,
		initial:   initial,
		last:      initial,
		observers: mapset.NewSet[*stateObserver[T]](),
	}
	for _, opt := range opts {
		opt(st)
	}
	return st
}

// Value peeks at the cached value without starting upstream work.
func (st *State[T]) Value() T {
	st.sys.mu.Lock()
	defer st.sys.mu.Unlock()
	if !st.primed {
		return st.initial
	}
	return st.last
}

// Subscribe attaches an observer. The current value is replayed
// synchronously before any future change is delivered. Subscribing to a
// retired node is a lifecycle bug in the owner and panics.
func (st *State[T]) Subscribe(fn func(T)) (stop func()) {
	st.sys.mu.Lock()
	defer st.sys.mu.Unlock()

	if st.retired {
		panic("flow: subscribe on retired state node")
	}

	if st.observers.Cardinality() == 0 {
		st.attach()
	}
	ob := &stateObserver[T]{fn: fn}
	st.observers.Add(ob)

	if st.primed {
		fn(st.last)
	} else {
		fn(st.initial)
	}

	return func() {
		st.sys.mu.Lock()
		defer st.sys.mu.Unlock()
		if !st.observers.Contains(ob) {
			return
		}
		st.observers.Remove(ob)
		if st.observers.Cardinality() == 0 && st.attached {
			st.detach()
		}
	}
}

// Retire tears the node down: upstream is released and all observers
// dropped. Called when the owning facade is discarded.
func (st *State[T]) Retire() {
	st.sys.mu.Lock()
	defer st.sys.mu.Unlock()
	st.retired = true
	if st.attached {
		st.detach()
	}
	st.observers.Clear()
}

func (st *State[T]) attach() {
	st.upstream.addSub(st)
	st.attached = true

	next := st.upstream.value().(T)
	if !st.primed {
		prev := st.initial
		st.primed = true
		st.last = next
		if next != prev {
			st.emitTap(prev, next)
		}
		return
	}
	// Restart after suspension: the retained value seeds dedupe.
	if next != st.last {
		prev := st.last
		st.last = next
		st.emitTap(prev, next)
	}
}

func (st *State[T]) detach() {
	st.upstream.removeSub(st)
	st.attached = false
}

func (st *State[T]) markStale() {
	if !st.attached {
		return
	}
	st.sys.schedule(st)
}

func (st *State[T]) flush() {
	if !st.attached {
		return
	}
	next := st.upstream.value().(T)
	if st.primed && next == st.last {
		return
	}
	prev := st.last
	st.last = next
	st.primed = true
	st.emitTap(prev, next)
	for _, ob := range st.observers.ToSlice() {
		ob.fn(next)
	}
}

// Tap failures must not reach observers.
func (st *State[T]) emitTap(prev, cur T) {
	if st.tap == nil {
		return
	}
	defer func() {
		_ = recover()
	}()
	st.tap(prev, cur)
}
