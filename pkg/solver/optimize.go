// Package solver provides constraint solving infrastructure.
// This file implements optimization: branch-and-bound minimization and
// maximization over one objective variable, an optional fast-path hook for
// specialized algorithms, and read-only extraction of linear constraints
// those algorithms consume.
package solver

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

// FastPath is a pluggable optimization shortcut. It receives the model, the
// objective and the direction, and either returns a proven-optimal solution
// (ok true), declines (ok false, nil error) so the solver falls back to
// branch-and-bound, or fails the whole optimization with an error. A fast
// path must not mutate the model.
type FastPath func(m *Model, objective Var, minimize bool) (*Solution, bool, error)

// optConfig collects per-call optimization settings.
type optConfig struct {
	timeLimit time.Duration
	nodeLimit int
	target    *Value
	fastPath  FastPath
}

// OptimizeOption configures a single Minimize or Maximize call.
type OptimizeOption func(*optConfig)

// WithTimeLimit bounds the wall-clock time of the optimization. On expiry the
// best incumbent found so far is returned together with the context error.
func WithTimeLimit(d time.Duration) OptimizeOption {
	return func(oc *optConfig) { oc.timeLimit = d }
}

// WithNodeLimit bounds the number of search nodes. On exhaustion the best
// incumbent found so far is returned together with ErrSearchLimitReached.
func WithNodeLimit(n int) OptimizeOption {
	return func(oc *optConfig) { oc.nodeLimit = n }
}

// WithTargetObjective stops the search as soon as an incumbent reaches the
// target (<= target when minimizing, >= target when maximizing). The
// incumbent is returned as-is without proving optimality.
func WithTargetObjective(v Value) OptimizeOption {
	return func(oc *optConfig) { oc.target = &v }
}

// WithFastPath installs a shortcut tried before branch-and-bound.
func WithFastPath(fp FastPath) OptimizeOption {
	return func(oc *optConfig) { oc.fastPath = fp }
}

// Minimize finds an assignment minimizing the objective variable. It runs
// branch-and-bound: each incumbent installs a strictly tighter objective
// cutoff (one unit step below, one grid step for floats) on every node
// explored afterwards, so the final incumbent is a proven minimum.
//
// Returns ErrUnsatisfiable when no solution exists at all. When a node or
// time budget runs out after at least one incumbent was found, the incumbent
// is returned together with the budget error.
func (s *Solver) Minimize(ctx context.Context, objective Var, opts ...OptimizeOption) (*Solution, error) {
	return s.optimize(ctx, objective, true, opts)
}

// Maximize is Minimize with the objective negated through an opposite view;
// the cutoff direction and target comparison flip accordingly.
func (s *Solver) Maximize(ctx context.Context, objective Var, opts ...OptimizeOption) (*Solution, error) {
	return s.optimize(ctx, objective, false, opts)
}

func (s *Solver) optimize(ctx context.Context, objective Var, minimize bool, opts []OptimizeOption) (*Solution, error) {
	if _, err := s.model.store.check(objective); err != nil {
		return nil, err
	}
	var oc optConfig
	for _, opt := range opts {
		opt(&oc)
	}
	if oc.timeLimit > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, oc.timeLimit)
		defer cancel()
	}

	if oc.fastPath != nil {
		sol, ok, err := oc.fastPath(s.model, objective, minimize)
		if err != nil {
			return nil, fmt.Errorf("optimization fast path: %w", err)
		}
		if ok {
			s.log.Debug("fast path solved the optimization")
			return sol, nil
		}
	}

	// Maximizing w is minimizing -w; incumbents and targets are compared on
	// the negated scale and solutions carry the untouched base values.
	obj := NewView(objective)
	target := oc.target
	if !minimize {
		obj = obj.Opposite()
		if target != nil {
			t := target.Neg()
			target = &t
		}
	}

	// Bias value ordering toward the improving direction so the first leaf is
	// already a strong incumbent and the cutoff prunes most of the tree.
	prevVH := s.config.ValueHeuristic
	if minimize {
		s.config.ValueHeuristic = ValueAscending
	} else {
		s.config.ValueHeuristic = ValueDescending
	}
	defer func() { s.config.ValueHeuristic = prevVH }()

	return s.branchAndBound(ctx, obj, target, &oc)
}

// branchAndBound is the depth-first search loop with an objective cutoff.
// Structure mirrors EnumerateSolutions; the difference is the cutoff applied
// at every node once an incumbent exists, and that a complete assignment
// tightens the incumbent instead of being yielded.
func (s *Solver) branchAndBound(ctx context.Context, obj View, target *Value, oc *optConfig) (*Solution, error) {
	if err := s.model.Validate(); err != nil {
		return nil, err
	}
	s.stats = Stats{}
	root := s.model.store.Mark()
	defer s.model.store.RestoreTo(root)

	var best *Solution
	var bestVal Value
	finish := func(err error) (*Solution, error) {
		if best == nil {
			if err != nil {
				return nil, err
			}
			return nil, ErrUnsatisfiable
		}
		return best, err
	}

	a := newAgenda(len(s.model.props))
	s.seedAll(a)
	if err := s.fixpoint(a); err != nil {
		if errors.Is(err, ErrInconsistent) {
			return nil, ErrUnsatisfiable
		}
		return nil, err
	}
	s.recordTrailPeak()
	if s.isComplete() {
		// Root propagation alone bound everything; the sole assignment is
		// trivially optimal.
		s.stats.Solutions++
		return s.extract(), nil
	}

	stack := make([]frame, 0, 64)
	stack = append(stack, frame{mark: s.model.store.Mark(), decisions: s.branch()})

	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return finish(err)
		}
		if oc.nodeLimit > 0 && s.stats.Nodes >= oc.nodeLimit {
			return finish(ErrSearchLimitReached)
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

		// Cutoff first: a branch that cannot beat the incumbent dies before
		// any propagation work is spent on it.
		if best != nil {
			if err := s.ctx.TrySetMax(obj, s.stepBelow(bestVal)); err != nil {
				s.ctx.takeEvents()
				if errors.Is(err, ErrInconsistent) {
					continue
				}
				return finish(err)
			}
		}
		if err := d.apply(s.ctx); err != nil {
			s.ctx.takeEvents()
			if errors.Is(err, ErrInconsistent) {
				continue
			}
			return finish(err)
		}
		a := newAgenda(len(s.model.props))
		s.seedEvents(a, s.ctx.takeEvents())
		if err := s.fixpoint(a); err != nil {
			if errors.Is(err, ErrInconsistent) {
				continue
			}
			return finish(err)
		}
		s.recordTrailPeak()

		if s.isComplete() {
			v, err := s.ctx.ValueOf(obj)
			if err != nil {
				return finish(err)
			}
			if best == nil || v.Less(bestVal) {
				best, bestVal = s.extract(), v
				s.stats.Solutions++
				s.log.WithFields(logrus.Fields{
					"objective": v.String(),
					"nodes":     s.stats.Nodes,
				}).Debug("incumbent improved")
				if target != nil && v.Compare(*target) <= 0 {
					return best, nil
				}
			}
			continue
		}
		stack = append(stack, frame{mark: s.model.store.Mark(), decisions: s.branch()})
	}
	return finish(nil)
}

// stepBelow returns the largest representable value strictly below v: one for
// integers, one grid step for floats. Using the grid step rather than a
// machine epsilon keeps the cutoff sequence finite.
func (s *Solver) stepBelow(v Value) Value {
	if v.Kind() == KindInt {
		return IntValue(v.Int() - 1)
	}
	return FloatValue(s.model.store.g.prev(v.Float()))
}

// ExtractLinear returns read-only descriptions of every linear constraint in
// the model, in posting order. Fast paths (LP relaxations, specialized
// simplex hooks) consume these without touching propagator internals.
func (m *Model) ExtractLinear() []LinearConstraint {
	out := make([]LinearConstraint, 0, len(m.props))
	for _, p := range m.props {
		if lp, ok := p.(linearizable); ok {
			out = append(out, lp.linear())
		}
	}
	return out
}
