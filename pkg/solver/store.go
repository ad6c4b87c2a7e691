// Package solver provides constraint programming abstractions.
// This file implements the variable store: the single owner of all domains,
// with trail-based checkpoint/restore for backtracking.
package solver

import (
	"fmt"
	"sync/atomic"
)

// maxIntUniverse caps the width of an integer variable's universe. The sparse
// set allocates two arrays of universe width, so an unbounded range would be
// a resource bug rather than a model.
const maxIntUniverse = 1 << 24

// storeSerial hands out process-unique store identities so that handles can
// be validated against the store that created them.
var storeSerial atomic.Uint32

// VarKind discriminates integer and float variables.
type VarKind uint8

const (
	// IntVar marks a variable with a sparse-set integer domain.
	IntVar VarKind = iota
	// FloatVar marks a variable with a step-quantized interval domain.
	FloatVar
)

// String returns "int" or "float".
func (k VarKind) String() string {
	if k == IntVar {
		return "int"
	}
	return "float"
}

// Var is an opaque handle to a decision variable. Handles are stable for the
// model's lifetime and valid only against the store that created them; using
// a foreign handle fails with ForeignHandleError rather than silently
// indexing.
type Var struct {
	id    int
	store uint32
}

// variable pairs a kind tag with exactly one live domain representation.
type variable struct {
	kind VarKind
	idom *IntDomain
	fdom *FloatDomain
	name string
}

// trailEntry records one domain checkpoint taken just before a mutation.
type trailEntry struct {
	vid int
	ic  IntCheckpoint
	fc  FloatCheckpoint
}

// Mark is a position in the undo trail. Restoring to a mark rolls every
// domain mutation made after it back, in reverse order.
type Mark int

// Store owns all variables of one model. It is exclusively owned by a single
// solving session; no aliasing is permitted during an active solve, which is
// why no locking exists here.
type Store struct {
	id    uint32
	vars  []variable
	trail []trailEntry
	g     grid
}

// NewStore creates an empty store whose float variables are quantized to the
// given step (precision). A non-positive step selects the 1e-6 default.
func NewStore(precision float64) *Store {
	return &Store{
		id:    storeSerial.Add(1),
		vars:  make([]variable, 0, 64),
		trail: make([]trailEntry, 0, 1024),
		g:     newGrid(precision),
	}
}

// NewIntVar creates an integer variable with domain [lo, hi].
// Fails with InvalidDomainError when lo > hi.
func (s *Store) NewIntVar(lo, hi int64) (Var, error) {
	if lo > hi {
		return Var{}, &InvalidDomainError{Kind: IntVar, Lo: IntValue(lo), Hi: IntValue(hi)}
	}
	if hi-lo+1 > maxIntUniverse {
		return Var{}, fmt.Errorf("integer universe [%d, %d] exceeds %d values", lo, hi, maxIntUniverse)
	}
	id := len(s.vars)
	s.vars = append(s.vars, variable{
		kind: IntVar,
		idom: newIntDomain(lo, hi),
		name: fmt.Sprintf("v%d", id),
	})
	return Var{id: id, store: s.id}, nil
}

// NewIntVarValues creates an integer variable holding exactly the given
// values. Fails with InvalidDomainError when the value set is empty.
func (s *Store) NewIntVarValues(values ...int64) (Var, error) {
	if len(values) == 0 {
		return Var{}, &InvalidDomainError{Kind: IntVar, Lo: IntValue(1), Hi: IntValue(0)}
	}
	id := len(s.vars)
	s.vars = append(s.vars, variable{
		kind: IntVar,
		idom: newIntDomainValues(values),
		name: fmt.Sprintf("v%d", id),
	})
	return Var{id: id, store: s.id}, nil
}

// NewFloatVar creates a float variable with domain [lo, hi].
// Fails with InvalidDomainError when lo > hi. Bounds whose magnitude exceeds
// what the precision step can resolve are rejected: beyond that range
// next/prev stop moving and strict bounds would silently turn non-strict.
func (s *Store) NewFloatVar(lo, hi float64) (Var, error) {
	if lo > hi {
		return Var{}, &InvalidDomainError{Kind: FloatVar, Lo: FloatValue(lo), Hi: FloatValue(hi)}
	}
	if lim := s.g.maxMagnitude(); lo < -lim || hi > lim {
		return Var{}, fmt.Errorf("float bounds [%g, %g] exceed magnitude %g resolvable at step %g", lo, hi, lim, s.g.step)
	}
	id := len(s.vars)
	d := newFloatDomain(lo, hi, s.g)
	if d.Empty() {
		// The interval was narrower than one grid step and contained no
		// grid point.
		return Var{}, &InvalidDomainError{Kind: FloatVar, Lo: FloatValue(lo), Hi: FloatValue(hi)}
	}
	s.vars = append(s.vars, variable{
		kind: FloatVar,
		fdom: d,
		name: fmt.Sprintf("v%d", id),
	})
	return Var{id: id, store: s.id}, nil
}

// check validates that v was created by this store.
func (s *Store) check(v Var) (*variable, error) {
	if v.store != s.id || v.id < 0 || v.id >= len(s.vars) {
		return nil, &ForeignHandleError{Handle: v, Store: s.id}
	}
	return &s.vars[v.id], nil
}

// Kind returns the variable's kind.
func (s *Store) Kind(v Var) (VarKind, error) {
	vr, err := s.check(v)
	if err != nil {
		return 0, err
	}
	return vr.kind, nil
}

// VarCount returns the number of variables in the store.
func (s *Store) VarCount() int { return len(s.vars) }

// handleAt rebuilds the handle for variable index i. Internal use only.
func (s *Store) handleAt(i int) Var { return Var{id: i, store: s.id} }

// Mark returns the current trail position. Every Mark taken must be matched
// by a RestoreTo (or the model discarded) so the store never ends up
// partially restored.
func (s *Store) Mark() Mark { return Mark(len(s.trail)) }

// RestoreTo rolls all domain mutations made after the mark back, most recent
// first, and truncates the trail.
func (s *Store) RestoreTo(m Mark) {
	for i := len(s.trail) - 1; i >= int(m); i-- {
		e := s.trail[i]
		vr := &s.vars[e.vid]
		if vr.kind == IntVar {
			vr.idom.Restore(e.ic)
		} else {
			vr.fdom.Restore(e.fc)
		}
	}
	s.trail = s.trail[:int(m)]
}

// trailSize is exposed for statistics (peak trail depth).
func (s *Store) trailSize() int { return len(s.trail) }

// record pushes a checkpoint of variable vid's current domain onto the trail.
// Called by the mutation gateway immediately before each change.
func (s *Store) record(vid int) {
	vr := &s.vars[vid]
	e := trailEntry{vid: vid}
	if vr.kind == IntVar {
		e.ic = vr.idom.Checkpoint()
	} else {
		e.fc = vr.fdom.Checkpoint()
	}
	s.trail = append(s.trail, e)
}

// isFixed reports whether variable index vid is bound to a single value.
func (s *Store) isFixed(vid int) bool {
	vr := &s.vars[vid]
	if vr.kind == IntVar {
		return vr.idom.IsFixed()
	}
	return vr.fdom.IsFixed()
}

// isEmpty reports whether variable index vid has an empty domain.
func (s *Store) isEmpty(vid int) bool {
	vr := &s.vars[vid]
	if vr.kind == IntVar {
		return vr.idom.Empty()
	}
	return vr.fdom.Empty()
}

// valueOf returns the bound value of a fixed variable.
// Undefined when the variable is not fixed.
func (s *Store) valueOf(vid int) Value {
	vr := &s.vars[vid]
	if vr.kind == IntVar {
		return IntValue(vr.idom.Min())
	}
	return FloatValue(vr.fdom.Value())
}

// domainSize returns the number of values remaining for variable index vid.
func (s *Store) domainSize(vid int) int64 {
	vr := &s.vars[vid]
	if vr.kind == IntVar {
		return int64(vr.idom.Size())
	}
	return vr.fdom.Size()
}

// String summarizes the store for diagnostics.
func (s *Store) String() string {
	return fmt.Sprintf("Store{id: %d, vars: %d, trail: %d}", s.id, len(s.vars), len(s.trail))
}
