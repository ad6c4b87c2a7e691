// Package solver provides constraint solving infrastructure.
// This file implements the depth-first backtracking search driver.
//
// The driver is a state machine over search nodes:
//
//	Propagate: run the fixpoint. Failure -> backtrack. All variables
//	           singleton -> emit a solution. Otherwise -> branch.
//	Branch:    pick an undetermined variable, take a trail mark, apply one
//	           alternative as a domain narrowing, go to Propagate.
//	Backtrack: restore the mark, try the next alternative; when none remain,
//	           pop to the previous choice point.
//
// The search is iterative with an explicit frame stack, and every mark taken
// is matched by a restore on every exit path (solution limits, node budgets,
// context cancellation), so the store is never left partially restored.
package solver

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"
)

// Solver drives propagation and search over one model. A Solver exclusively
// owns its model's store while solving; it is not safe for concurrent use.
type Solver struct {
	model  *Model
	config *SolverConfig
	ctx    *Context
	stats  Stats
	log    logrus.FieldLogger
}

// NewSolver creates a solver for the given model, using the model's
// configuration.
func NewSolver(model *Model) *Solver {
	return NewSolverWithConfig(model, model.Config())
}

// NewSolverWithConfig creates a solver with a configuration overriding the
// model's.
func NewSolverWithConfig(model *Model, config *SolverConfig) *Solver {
	if config == nil {
		config = model.Config()
	}
	config.normalize()
	return &Solver{
		model:  model,
		config: config,
		ctx:    newContext(model.store),
		log:    config.Logger,
	}
}

// Stats returns the statistics of the most recent solving run.
func (s *Solver) Stats() Stats { return s.stats }

// decOp is the kind of narrowing a branching decision applies.
type decOp uint8

const (
	decAssign decOp = iota // v == val (integer value assignment)
	decLe                  // v <= val (float bisection, lower half)
	decGe                  // v >= val (float bisection, upper half)
)

// decision is one branching alternative: a domain narrowing applied as if it
// were a constraint.
type decision struct {
	v   Var
	op  decOp
	val Value
}

// apply narrows the store through the mutation gateway so the change is
// trailed and its events seed incremental propagation.
func (d decision) apply(ctx *Context) error {
	w := NewView(d.v)
	switch d.op {
	case decAssign:
		return ctx.TrySetValue(w, d.val)
	case decLe:
		return ctx.TrySetMax(w, d.val)
	default:
		return ctx.TrySetMin(w, d.val)
	}
}

// frame is one choice point on the search stack.
type frame struct {
	mark      Mark
	decisions []decision
	idx       int
}

// Solve finds the first solution. Returns ErrUnsatisfiable when the search
// space is exhausted without one, ErrSearchLimitReached on a node budget,
// or the context error on cancellation/timeout.
func (s *Solver) Solve(ctx context.Context) (*Solution, error) {
	var sol *Solution
	err := s.EnumerateSolutions(ctx, func(x *Solution) bool {
		sol = x
		return false
	})
	if err != nil {
		return nil, err
	}
	if sol == nil {
		return nil, ErrUnsatisfiable
	}
	return sol, nil
}

// SolveAll collects every solution. An empty slice with a nil error means
// the problem is unsatisfiable.
func (s *Solver) SolveAll(ctx context.Context) ([]*Solution, error) {
	out := make([]*Solution, 0, 8)
	err := s.EnumerateSolutions(ctx, func(x *Solution) bool {
		out = append(out, x)
		return true
	})
	return out, err
}

// SolveWithProgress is Solve with a progress callback invoked every
// ProgressInterval nodes (default 1000 when unset). The callback receives
// read-only statistics and must not mutate solver state.
func (s *Solver) SolveWithProgress(ctx context.Context, cb ProgressFunc) (*Solution, error) {
	prevCB, prevIv := s.config.Progress, s.config.ProgressInterval
	s.config.Progress = cb
	if s.config.ProgressInterval <= 0 {
		s.config.ProgressInterval = 1000
	}
	defer func() {
		s.config.Progress, s.config.ProgressInterval = prevCB, prevIv
	}()
	return s.Solve(ctx)
}

// EnumerateSolutions yields solutions one at a time, lazily: the search only
// advances while yield keeps returning true. Each solution is treated as a
// dead end afterwards, so the sequence is forward-only and finite. Exhausting
// the tree is not an error here; an enumeration of zero solutions simply
// never calls yield.
func (s *Solver) EnumerateSolutions(ctx context.Context, yield func(*Solution) bool) error {
	if err := s.model.Validate(); err != nil {
		return err
	}
	s.stats = Stats{}
	root := s.model.store.Mark()
	defer s.model.store.RestoreTo(root)

	// Root fixpoint over every propagator.
	a := newAgenda(len(s.model.props))
	s.seedAll(a)
	if err := s.fixpoint(a); err != nil {
		if errors.Is(err, ErrInconsistent) {
			s.log.WithField("propagations", s.stats.Propagations).Debug("root propagation failed")
			return nil
		}
		return err
	}
	if s.recordTrailPeak(); s.isComplete() {
		s.emit(yield)
		return nil
	}

	stack := make([]frame, 0, 64)
	stack = append(stack, frame{mark: s.model.store.Mark(), decisions: s.branch()})

	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}
		if s.config.NodeLimit > 0 && s.stats.Nodes >= s.config.NodeLimit {
			return ErrSearchLimitReached
		}

		fr := &stack[len(stack)-1]
		if fr.idx >= len(fr.decisions) {
			s.model.store.RestoreTo(fr.mark)
			stack = stack[:len(stack)-1]
			s.stats.Backtracks++
			continue
		}

		d := fr.decisions[fr.idx]
		fr.idx++
		s.model.store.RestoreTo(fr.mark)
		s.countNode(len(stack))

		if err := d.apply(s.ctx); err != nil {
			s.ctx.takeEvents()
			if errors.Is(err, ErrInconsistent) {
				continue
			}
			return err
		}
		a := newAgenda(len(s.model.props))
		s.seedEvents(a, s.ctx.takeEvents())
		if err := s.fixpoint(a); err != nil {
			if errors.Is(err, ErrInconsistent) {
				continue
			}
			return err
		}
		s.recordTrailPeak()

		if s.isComplete() {
			if !s.emit(yield) {
				return nil
			}
			continue // enumerate past the solution as if it were a dead end
		}
		stack = append(stack, frame{mark: s.model.store.Mark(), decisions: s.branch()})
	}
	return nil
}

// countNode accounts a node visit, tracks depth, and drives the progress
// callback at its bounded cadence.
func (s *Solver) countNode(depth int) {
	s.stats.Nodes++
	if depth > s.stats.MaxDepth {
		s.stats.MaxDepth = depth
	}
	if s.config.Progress != nil && s.config.ProgressInterval > 0 &&
		s.stats.Nodes%s.config.ProgressInterval == 0 {
		s.config.Progress(s.stats)
	}
}

// recordTrailPeak tracks the deepest undo trail seen.
func (s *Solver) recordTrailPeak() {
	if t := s.model.store.trailSize(); t > s.stats.PeakTrail {
		s.stats.PeakTrail = t
	}
}

// isComplete reports whether every variable is bound.
func (s *Solver) isComplete() bool {
	for i := 0; i < s.model.store.VarCount(); i++ {
		if !s.model.store.isFixed(i) {
			return false
		}
	}
	return true
}

// emit snapshots the current total assignment and hands it to yield.
func (s *Solver) emit(yield func(*Solution) bool) bool {
	s.stats.Solutions++
	sol := s.extract()
	s.log.WithFields(logrus.Fields{
		"nodes":     s.stats.Nodes,
		"solutions": s.stats.Solutions,
	}).Debug("solution found")
	return yield(sol)
}

// extract builds an independent Solution from the fully assigned store.
func (s *Solver) extract() *Solution {
	st := s.model.store
	values := make([]Value, st.VarCount())
	for i := range values {
		values[i] = st.valueOf(i)
	}
	return &Solution{store: st.id, values: values, stats: s.stats}
}

// branch selects an undetermined variable per the configured heuristic and
// returns its alternatives: one assignment per value for integers, a
// two-way bisection for floats.
func (s *Solver) branch() []decision {
	vid := s.selectVariable()
	if vid < 0 {
		return nil
	}
	st := s.model.store
	v := st.handleAt(vid)
	vr := &st.vars[vid]

	if vr.kind == IntVar {
		values := vr.idom.Values()
		if s.config.ValueHeuristic == ValueDescending {
			for i, j := 0, len(values)-1; i < j; i, j = i+1, j-1 {
				values[i], values[j] = values[j], values[i]
			}
		}
		out := make([]decision, len(values))
		for i, val := range values {
			out[i] = decision{v: v, op: decAssign, val: IntValue(val)}
		}
		return out
	}

	// Float: bisect at the grid midpoint. mid >= lo and next(mid) <= hi hold
	// for any interval with at least two grid points, so both halves shrink.
	// The value heuristic picks which half is explored first.
	lo, hi := vr.fdom.Min(), vr.fdom.Max()
	mid := st.g.floor(lo + (hi-lo)/2)
	if mid < lo {
		mid = lo
	}
	lower := decision{v: v, op: decLe, val: FloatValue(mid)}
	upper := decision{v: v, op: decGe, val: FloatValue(st.g.next(mid))}
	if s.config.ValueHeuristic == ValueDescending {
		return []decision{upper, lower}
	}
	return []decision{lower, upper}
}

// selectVariable returns the index of the next variable to branch on, or -1
// when all are bound.
func (s *Solver) selectVariable() int {
	st := s.model.store
	best := -1
	var bestSize int64
	for i := 0; i < st.VarCount(); i++ {
		if st.isFixed(i) {
			continue
		}
		switch s.config.VariableHeuristic {
		case HeuristicLex:
			return i
		default: // HeuristicDom: smallest remaining domain first
			size := st.domainSize(i)
			if best == -1 || size < bestSize {
				best, bestSize = i, size
			}
		}
	}
	return best
}
