package flow

import "sync"

// System is one scheduling domain. Every signal, derived value and state
// node belonging to one tracked identity shares a System, so all
// propagation for that identity is serialized. Separate Systems never
// share state and may run concurrently.
type System struct {
	mu    *sync.Mutex
	queue []sink
}

func NewSystem() *System {
	return &System{
		mu: &sync.Mutex{},
	}
}

// cell is a graph node that can be marked stale when something upstream
// of it changes.
type cell interface {
	markStale()
}

// sink is a terminal node flushed once per propagation sweep.
type sink interface {
	flush()
}

// Dependency is a node whose current value other nodes read. The
// unexported methods assume the system lock is held.
type Dependency interface {
	value() any
	addSub(cell)
	removeSub(cell)
}

// Source is the contract an upstream fact provider exposes: a
// synchronous peek plus subscription with latest-value replay. Both
// Signal and State satisfy it.
type Source[T any] interface {
	Value() T
	Subscribe(fn func(T)) (stop func())
}

func (sys *System) schedule(s sink) {
	for _, queued := range sys.queue {
		if queued == s {
			return
		}
	}
	sys.queue = append(sys.queue, s)
}

// Sweep order is schedule order. Marking happens before any evaluation,
// so every sink pulls fully current input values.
func (sys *System) sweep() {
	for len(sys.queue) > 0 {
		q := sys.queue
		sys.queue = nil
		for _, s := range q {
			s.flush()
		}
	}
}

// Signal is a writable upstream value. Setting an equal value is a
// no-op; nothing downstream is re-evaluated.
type Signal[T comparable] struct {
	sys       *System
	v         T
	subs      []cell
	observers []*rawObserver[T]
}

type rawObserver[T comparable] struct {
	fn func(T)
}

func NewSignal[T comparable](sys *System, initial T) *Signal[T] {
	return &Signal[T]{sys: sys, v: initial}
}

func (s *Signal[T]) Value() T {
	s.sys.mu.Lock()
	defer s.sys.mu.Unlock()
	return s.v
}

func (s *Signal[T]) value() any {
	return s.v
}

// Set updates the signal and propagates to everything downstream.
// Observer callbacks run while the system is locked; they must not
// write back into the same system.
func (s *Signal[T]) Set(v T) {
	s.sys.mu.Lock()
	defer s.sys.mu.Unlock()

	if s.v == v {
		return
	}
	s.v = v

	for _, ob := range s.observers {
		ob.fn(v)
	}
	for _, c := range s.subs {
		c.markStale()
	}
	s.sys.sweep()
}

// Subscribe replays the current value synchronously, then delivers every
// subsequent change until stop is called.
func (s *Signal[T]) Subscribe(fn func(T)) (stop func()) {
	s.sys.mu.Lock()
	defer s.sys.mu.Unlock()

	ob := &rawObserver[T]{fn: fn}
	s.observers = append(s.observers, ob)
	fn(s.v)

	return func() {
		s.sys.mu.Lock()
		defer s.sys.mu.Unlock()
		for i, existing := range s.observers {
			if existing == ob {
				s.observers = append(s.observers[:i], s.observers[i+1:]...)
				return
			}
		}
	}
}

func (s *Signal[T]) addSub(c cell) {
	s.subs = append(s.subs, c)
}

func (s *Signal[T]) removeSub(c cell) {
	for i, sub := range s.subs {
		if sub == c {
			s.subs = append(s.subs[:i], s.subs[i+1:]...)
			return
		}
	}
}

// Const is a dependency that never changes. Used where a platform
// capability pins a derived output to a fixed value.
type Const[T comparable] struct {
	v T
}

func NewConst[T comparable](v T) *Const[T] {
	return &Const[T]{v: v}
}

func (c *Const[T]) value() any     { return c.v }
func (c *Const[T]) addSub(cell)    {}
func (c *Const[T]) removeSub(cell) {}
