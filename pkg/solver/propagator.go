// Package solver provides constraint propagation infrastructure.
// This file defines the Propagator capability, the dependency table mapping
// variables to the propagators they re-trigger, and the event-driven
// fixpoint scheduler.
package solver

// PropID identifies a registered propagator within its model.
type PropID int

// Propagator is a constraint's executable filtering behavior.
//
// Prune attempts to narrow the domains of the propagator's variables through
// the context. It returns ErrInconsistent exactly when some domain becomes
// empty, proving the problem infeasible at this node; it returns nil
// otherwise, whether or not anything changed. Prune must be monotone:
// removing values never un-removes them, so the fixpoint's final domains are
// independent of invocation order.
//
// Triggers enumerates every variable whose change must re-invoke this
// propagator. The set is read once at registration to build the reverse
// dependency index and must never change afterwards.
type Propagator interface {
	Prune(ctx *Context) error
	Triggers() []Var
}

// noOp is a placeholder propagator: it never prunes and reports an empty
// trigger set so the scheduler never re-wakes it. It stands in for
// constraints whose filtering was fully applied at posting or branching
// time, and for declared constraint variants whose effect is achieved
// through alternate encodings.
type noOp struct{}

// NewNoOp returns the placeholder propagator.
func NewNoOp() Propagator { return noOp{} }

func (noOp) Prune(*Context) error { return nil }
func (noOp) Triggers() []Var      { return nil }

// agenda is the fixpoint work queue: pending propagator ids with O(1)
// membership so an already-pending propagator is never re-queued.
type agenda struct {
	queue  []PropID
	queued []bool
	peak   int
}

func newAgenda(n int) *agenda {
	return &agenda{queue: make([]PropID, 0, n), queued: make([]bool, n)}
}

func (a *agenda) push(id PropID) {
	if a.queued[id] {
		return
	}
	a.queued[id] = true
	a.queue = append(a.queue, id)
	if len(a.queue) > a.peak {
		a.peak = len(a.queue)
	}
}

func (a *agenda) pop() (PropID, bool) {
	if len(a.queue) == 0 {
		return 0, false
	}
	id := a.queue[0]
	a.queue = a.queue[1:]
	a.queued[id] = false
	return id, true
}

// fixpoint runs propagators from the agenda until quiescence or failure.
//
//  1. Pop a pending propagator and invoke Prune.
//  2. On failure, abort the whole round: the node is infeasible.
//  3. For every variable Prune changed, enqueue its dependents
//     (deduplicated).
//  4. Repeat until the queue drains.
//
// Full quiescence rather than a single pass guarantees soundness: a
// constraint that only becomes prunable after another constraint narrows a
// shared variable is still revisited. Because propagators only ever remove
// values, the final domains do not depend on pop order.
func (s *Solver) fixpoint(a *agenda) error {
	for {
		id, ok := a.pop()
		if !ok {
			return nil
		}
		s.stats.Propagations++
		if err := s.model.props[id].Prune(s.ctx); err != nil {
			s.ctx.takeEvents() // discard the failed round's tail
			return err
		}
		for _, ev := range s.ctx.takeEvents() {
			for _, dep := range s.model.watchers[ev.Var.id] {
				a.push(dep)
			}
		}
		if a.peak > s.stats.PeakQueue {
			s.stats.PeakQueue = a.peak
		}
	}
}

// seedAll queues every registered propagator (the initial root round).
func (s *Solver) seedAll(a *agenda) {
	for id := range s.model.props {
		a.push(PropID(id))
	}
}

// seedEvents queues only the dependents of the variables named in evs
// (the incremental round after a branching decision).
func (s *Solver) seedEvents(a *agenda, evs []Event) {
	for _, ev := range evs {
		for _, dep := range s.model.watchers[ev.Var.id] {
			a.push(dep)
		}
	}
}
