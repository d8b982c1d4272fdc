package flow

// Derived is a value computed from one or more dependencies. It is
// re-evaluated lazily: a change upstream marks it stale, and the next
// read pulls all current input values, skipping the combinator entirely
// when the input tuple is unchanged and bailing out of propagation when
// the result is equal to the previous one.
type Derived[O comparable] struct {
	sys    *System
	stale  bool
	v      O
	deps   []Dependency
	cached []any
	subs   []cell
	fn     func(args ...any) O
}

func newDerived[O comparable](sys *System, fn func(...any) O, deps ...Dependency) *Derived[O] {
	d := &Derived[O]{
		sys:  sys,
		fn:   fn,
		deps: deps,
	}
	d.cached = make([]any, len(deps))
	for i, dep := range deps {
		d.cached[i] = dep.value()
		dep.addSub(d)
	}
	d.v = fn(d.cached...)
	return d
}

func (d *Derived[O]) Value() O {
	d.sys.mu.Lock()
	defer d.sys.mu.Unlock()
	return d.value().(O)
}

func (d *Derived[O]) markStale() {
	if d.stale {
		return
	}
	d.stale = true
	for _, c := range d.subs {
		c.markStale()
	}
}

func (d *Derived[O]) value() any {
	if !d.stale {
		return d.v
	}
	d.stale = false

	allMatch := true
	for i, dep := range d.deps {
		arg := dep.value()
		if arg != d.cached[i] {
			allMatch = false
			d.cached[i] = arg
		}
	}
	if allMatch {
		return d.v
	}

	next := d.fn(d.cached...)
	if next == d.v {
		return d.v
	}
	d.v = next
	return d.v
}

func (d *Derived[O]) addSub(c cell) {
	d.subs = append(d.subs, c)
}

func (d *Derived[O]) removeSub(c cell) {
	for i, sub := range d.subs {
		if sub == c {
			d.subs = append(d.subs[:i], d.subs[i+1:]...)
			return
		}
	}
}

func Computed1[T0, O comparable](
	sys *System,
	arg0 Dependency,
	fn func(T0) O,
) *Derived[O] {
	anyFn := func(args ...any) O {
		return fn(args[0].(T0))
	}
	return newDerived(sys, anyFn, arg0)
}

func Computed2[T0, T1, O comparable](
	sys *System,
	arg0, arg1 Dependency,
	fn func(T0, T1) O,
) *Derived[O] {
	anyFn := func(args ...any) O {
		return fn(
			args[0].(T0),
			args[1].(T1),
		)
	}
	return newDerived(sys, anyFn, arg0, arg1)
}

func Computed3[T0, T1, T2, O comparable](
	sys *System,
	arg0, arg1, arg2 Dependency,
	fn func(T0, T1, T2) O,
) *Derived[O] {
	anyFn := func(args ...any) O {
		return fn(
			args[0].(T0),
			args[1].(T1),
			args[2].(T2),
		)
	}
	return newDerived(sys, anyFn, arg0, arg1, arg2)
}

func Computed4[T0, T1, T2, T3, O comparable](
	sys *System,
	arg0, arg1, arg2, arg3 Dependency,
	fn func(T0, T1, T2, T3) O,
) *Derived[O] {
	anyFn := func(args ...any) O {
		return fn(
			args[0].(T0),
			args[1].(T1),
			args[2].(T2),
			args[3].(T3),
		)
	}
	return newDerived(sys, anyFn, arg0, arg1, arg2, arg3)
}

func Computed5[T0, T1, T2, T3, T4, O comparable](
	sys *System,
	arg0, arg1, arg2, arg3, arg4 Dependency,
	fn func(T0, T1, T2, T3, T4) O,
) *Derived[O] {
	anyFn := func(args ...any) O {
		return fn(
			args[0].(T0),
			args[1].(T1),
			args[2].(T2),
			args[3].(T3),
			args[4].(T4),
		)
	}
	return newDerived(sys, anyFn, arg0, arg1, arg2, arg3, arg4)
}
