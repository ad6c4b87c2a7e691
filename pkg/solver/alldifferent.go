// Package solver provides constraint propagation infrastructure.
// This file implements the AllDifferent global constraint.
package solver

import "fmt"

// AllDifferent ensures all variables take pairwise distinct values.
//
// Filtering is singleton elimination plus a pigeonhole feasibility check:
// once a variable is fixed, its value is removed from every peer, and if the
// union of remaining values is smaller than the number of variables the node
// fails immediately. This is deliberately weaker than full matching-based
// arc-consistency and much cheaper; search supplies the rest.
type AllDifferent struct {
	vars []Var
}

// NewAllDifferent creates an AllDifferent constraint over integer variables.
// Returns an error on an empty variable list or a non-integer operand.
func NewAllDifferent(s *Store, vars []Var) (*AllDifferent, error) {
	if len(vars) == 0 {
		return nil, fmt.Errorf("AllDifferent requires at least one variable")
	}
	for _, v := range vars {
		k, err := s.Kind(v)
		if err != nil {
			return nil, err
		}
		if k != IntVar {
			return nil, fmt.Errorf("AllDifferent requires integer variables, got %s", k)
		}
	}
	varsCopy := make([]Var, len(vars))
	copy(varsCopy, vars)
	return &AllDifferent{vars: varsCopy}, nil
}

// Triggers implements Propagator.
func (c *AllDifferent) Triggers() []Var { return c.vars }

// Prune implements Propagator.
func (c *AllDifferent) Prune(ctx *Context) error {
	// Singleton elimination: strip each fixed value from every peer.
	for _, v := range c.vars {
		d := ctx.store.vars[v.id].idom
		if !d.IsFixed() {
			continue
		}
		fixed := d.Min()
		for _, p := range c.vars {
			if p.id == v.id {
				continue
			}
			if err := ctx.intRemove(p.id, fixed); err != nil {
				return err
			}
		}
	}

	// Pigeonhole: fewer distinct values than variables cannot work.
	distinct := make(map[int64]struct{}, len(c.vars)*2)
	for _, v := range c.vars {
		d := ctx.store.vars[v.id].idom
		if d.Empty() {
			return ctx.fail()
		}
		for _, val := range d.Values() {
			distinct[val] = struct{}{}
		}
		if len(distinct) >= len(c.vars) {
			return nil
		}
	}
	if len(distinct) < len(c.vars) {
		return ctx.fail()
	}
	return nil
}

// String returns a human-readable representation.
func (c *AllDifferent) String() string {
	ids := make([]int, len(c.vars))
	for i, v := range c.vars {
		ids[i] = v.id
	}
	return fmt.Sprintf("AllDifferent(%v)", ids)
}
