// Package solver provides constraint programming abstractions.
// This file implements the Context: the mutation gateway every propagator
// and branching decision narrows domains through, plus the event log the
// scheduler consumes to decide which propagators to re-wake.
package solver

// ChangeKind is the granularity of a recorded domain change. Granularity is
// a performance hint for future watch refinement; the scheduler wakes every
// syntactic dependent regardless of kind.
type ChangeKind uint8

const (
	// ChangeFixed records a domain collapsing to a singleton.
	ChangeFixed ChangeKind = iota
	// ChangeBounds records a min or max bound tightening.
	ChangeBounds
	// ChangeDomain records an interior value removal.
	ChangeDomain
)

// String names the change kind for logs.
func (k ChangeKind) String() string {
	switch k {
	case ChangeFixed:
		return "fixed"
	case ChangeBounds:
		return "bounds"
	default:
		return "domain"
	}
}

// Event records one successful domain narrowing: which variable, and how
// coarse the change was.
type Event struct {
	Var  Var
	Kind ChangeKind
}

// Context wraps the store with an event log. There is exactly one active
// Context per solving session; propagators receive it in Prune and must do
// all mutation through it so that changes are trailed for backtracking and
// logged for rescheduling.
type Context struct {
	store  *Store
	events []Event
}

// newContext creates a context over the store.
func newContext(s *Store) *Context {
	return &Context{store: s, events: make([]Event, 0, 32)}
}

// Store exposes the underlying store for read-only inspection.
func (c *Context) Store() *Store { return c.store }

// takeEvents returns the events recorded since the last call and clears the
// log. The scheduler drains this after every Prune invocation.
func (c *Context) takeEvents() []Event {
	evs := c.events
	c.events = c.events[len(c.events):]
	return evs
}

// emit appends an event, classifying the change that was just applied.
func (c *Context) emit(vid int, fallback ChangeKind) {
	kind := fallback
	if c.store.isFixed(vid) {
		kind = ChangeFixed
	}
	c.events = append(c.events, Event{Var: c.store.handleAt(vid), Kind: kind})
}

// fail reports an emptied domain. The sentinel is recovered by the search
// driver; it never reaches the caller directly.
func (c *Context) fail() error { return ErrInconsistent }

// --- typed mutators on base variables -------------------------------------
//
// All mutators follow the same shape: cheap no-change pre-check, trail the
// pre-mutation checkpoint, mutate, emit an event, and signal failure when
// the domain empties. A no-op narrowing is success, not failure.

func (c *Context) intRemoveBelow(vid int, v int64) error {
	d := c.store.vars[vid].idom
	if d.Empty() {
		return c.fail()
	}
	if v <= d.Min() {
		return nil
	}
	c.store.record(vid)
	d.RemoveBelow(v)
	if d.Empty() {
		return c.fail()
	}
	c.emit(vid, ChangeBounds)
	return nil
}

func (c *Context) intRemoveAbove(vid int, v int64) error {
	d := c.store.vars[vid].idom
	if d.Empty() {
		return c.fail()
	}
	if v >= d.Max() {
		return nil
	}
	c.store.record(vid)
	d.RemoveAbove(v)
	if d.Empty() {
		return c.fail()
	}
	c.emit(vid, ChangeBounds)
	return nil
}

func (c *Context) intRemove(vid int, v int64) error {
	d := c.store.vars[vid].idom
	if !d.Contains(v) {
		if d.Empty() {
			return c.fail()
		}
		return nil
	}
	c.store.record(vid)
	wasBound := v == d.Min() || v == d.Max()
	d.Remove(v)
	if d.Empty() {
		return c.fail()
	}
	if wasBound {
		c.emit(vid, ChangeBounds)
	} else {
		c.emit(vid, ChangeDomain)
	}
	return nil
}

func (c *Context) intFix(vid int, v int64) error {
	d := c.store.vars[vid].idom
	if !d.Contains(v) {
		if !d.Empty() {
			c.store.record(vid)
			d.Fix(v) // wipes out
		}
		return c.fail()
	}
	if d.IsFixed() {
		return nil
	}
	c.store.record(vid)
	d.Fix(v)
	c.emit(vid, ChangeFixed)
	return nil
}

func (c *Context) floatGe(vid int, v float64) error {
	d := c.store.vars[vid].fdom
	if d.Empty() {
		return c.fail()
	}
	c.store.record(vid)
	if !d.Ge(v) {
		c.store.trail = c.store.trail[:len(c.store.trail)-1]
		return nil
	}
	if d.Empty() {
		return c.fail()
	}
	c.emit(vid, ChangeBounds)
	return nil
}

func (c *Context) floatLe(vid int, v float64) error {
	d := c.store.vars[vid].fdom
	if d.Empty() {
		return c.fail()
	}
	c.store.record(vid)
	if !d.Le(v) {
		c.store.trail = c.store.trail[:len(c.store.trail)-1]
		return nil
	}
	if d.Empty() {
		return c.fail()
	}
	c.emit(vid, ChangeBounds)
	return nil
}

func (c *Context) floatFix(vid int, v float64) error {
	d := c.store.vars[vid].fdom
	if d.Empty() {
		return c.fail()
	}
	if d.IsFixed() && d.Contains(v) {
		return nil
	}
	c.store.record(vid)
	d.Fix(v)
	if d.Empty() {
		return c.fail()
	}
	c.emit(vid, ChangeFixed)
	return nil
}
