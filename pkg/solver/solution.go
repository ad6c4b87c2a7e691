// Package solver provides constraint solving infrastructure.
// This file defines the Solution snapshot and solving statistics.
package solver

import (
	"fmt"
	"strings"
)

// Stats holds statistics about a solving run. Snapshots are handed to
// progress callbacks and embedded in solutions; they are plain data and safe
// to retain.
type Stats struct {
	Propagations int // propagator Prune invocations
	Nodes        int // search nodes explored
	Backtracks   int // exhausted choice points
	Solutions    int // solutions found so far
	MaxDepth     int // deepest search stack
	PeakTrail    int // largest undo trail
	PeakQueue    int // largest propagation queue
}

// Solution is an immutable snapshot of a complete assignment: one Value per
// variable, plus the statistics at the moment it was found. It holds no
// references back into the live store, so it stays valid after further
// search mutates or discards the model.
type Solution struct {
	store  uint32
	values []Value
	stats  Stats
}

// Value returns the assigned value of v. Fails with ForeignHandleError when
// v was created by a different store than the one this solution describes.
func (s *Solution) Value(v Var) (Value, error) {
	if v.store != s.store || v.id < 0 || v.id >= len(s.values) {
		return Value{}, &ForeignHandleError{Handle: v, Store: s.store}
	}
	return s.values[v.id], nil
}

// Values returns all assignments in variable-creation order.
func (s *Solution) Values() []Value {
	out := make([]Value, len(s.values))
	copy(out, s.values)
	return out
}

// Stats returns the statistics snapshot taken when the solution was emitted.
func (s *Solution) Stats() Stats { return s.stats }

// String renders the assignment like "{v0=1, v1=3}".
func (s *Solution) String() string {
	var b strings.Builder
	b.WriteString("{")
	for i, v := range s.values {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "v%d=%s", i, v)
	}
	b.WriteString("}")
	return b.String()
}
