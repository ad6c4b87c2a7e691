// Package solver provides constraint propagation for finite-domain and
// interval constraint programming.
//
// This file implements the arithmetic and comparison propagators. All of
// them are written against views, so a single equality propagator also
// covers shifted, scaled and negated operands. Ordering propagators use
// bounds propagation; strict inequalities are expressed through successor/
// predecessor views, which means a float strict bound always moves by one
// quantization step, never by one machine epsilon.
package solver

import "fmt"

// Relation is the comparison a LinearSum enforces against its bound.
type Relation uint8

const (
	// RelEq enforces sum == bound.
	RelEq Relation = iota
	// RelLe enforces sum <= bound.
	RelLe
	// RelGe enforces sum >= bound.
	RelGe
)

// String returns the operator symbol.
func (r Relation) String() string {
	switch r {
	case RelEq:
		return "=="
	case RelLe:
		return "<="
	default:
		return ">="
	}
}

// Equals enforces x == y with bidirectional bounds propagation.
type Equals struct {
	x, y View
}

// NewEquals creates the constraint x == y.
func NewEquals(x, y View) *Equals { return &Equals{x: x, y: y} }

// Triggers implements Propagator.
func (c *Equals) Triggers() []Var { return []Var{c.x.Base(), c.y.Base()} }

// Prune narrows each side to the other's bounds.
func (c *Equals) Prune(ctx *Context) error {
	loy, hiy, err := ctx.Bounds(c.y)
	if err != nil {
		return err
	}
	if err := ctx.TrySetMin(c.x, loy); err != nil {
		return err
	}
	if err := ctx.TrySetMax(c.x, hiy); err != nil {
		return err
	}
	lox, hix, err := ctx.Bounds(c.x)
	if err != nil {
		return err
	}
	if err := ctx.TrySetMin(c.y, lox); err != nil {
		return err
	}
	return ctx.TrySetMax(c.y, hix)
}

// EqualsConst enforces x == v.
type EqualsConst struct {
	x View
	v Value
}

// NewEqualsConst creates the constraint x == v.
func NewEqualsConst(x View, v Value) *EqualsConst { return &EqualsConst{x: x, v: v} }

// Triggers implements Propagator.
func (c *EqualsConst) Triggers() []Var { return []Var{c.x.Base()} }

// Prune fixes the view; fixing is idempotent so re-wakes are cheap no-ops.
func (c *EqualsConst) Prune(ctx *Context) error {
	return ctx.TrySetValue(c.x, c.v)
}

// LessOrEqual enforces x <= y with bounds propagation: x loses values above
// max(y), y loses values below min(x). Intentionally bounds-consistent, not
// arc-consistent; search supplies the final consistency check.
type LessOrEqual struct {
	x, y View
}

// NewLessOrEqual creates the constraint x <= y.
func NewLessOrEqual(x, y View) *LessOrEqual { return &LessOrEqual{x: x, y: y} }

// NewLessThan creates the strict constraint x < y, encoded as
// x <= prev(y): strictness costs exactly one unit step of the operands'
// kind (1 for integers, the grid step for floats).
func NewLessThan(x, y View) *LessOrEqual { return &LessOrEqual{x: x, y: y.Prev()} }

// NewGreaterOrEqual creates x >= y.
func NewGreaterOrEqual(x, y View) *LessOrEqual { return &LessOrEqual{x: y, y: x} }

// NewGreaterThan creates x > y.
func NewGreaterThan(x, y View) *LessOrEqual { return NewLessThan(y, x) }

// Triggers implements Propagator.
func (c *LessOrEqual) Triggers() []Var { return []Var{c.x.Base(), c.y.Base()} }

// Prune implements Propagator.
func (c *LessOrEqual) Prune(ctx *Context) error {
	hiy, err := ctx.Max(c.y)
	if err != nil {
		return err
	}
	if err := ctx.TrySetMax(c.x, hiy); err != nil {
		return err
	}
	lox, err := ctx.Min(c.x)
	if err != nil {
		return err
	}
	return ctx.TrySetMin(c.y, lox)
}

// LessOrEqualConst enforces x <= v.
type LessOrEqualConst struct {
	x View
	v Value
}

// NewLessOrEqualConst creates x <= v.
func NewLessOrEqualConst(x View, v Value) *LessOrEqualConst {
	return &LessOrEqualConst{x: x, v: v}
}

// NewLessThanConst creates the strict constraint x < v, encoded as
// next(x) <= v so the bound tightens by one quantization step.
func NewLessThanConst(x View, v Value) *LessOrEqualConst {
	return &LessOrEqualConst{x: x.Next(), v: v}
}

// NewGreaterOrEqualConst creates x >= v via the opposite view.
func NewGreaterOrEqualConst(x View, v Value) *LessOrEqualConst {
	return &LessOrEqualConst{x: x.Opposite(), v: v.Neg()}
}

// NewGreaterThanConst creates x > v.
func NewGreaterThanConst(x View, v Value) *LessOrEqualConst {
	return &LessOrEqualConst{x: x.Opposite().Next(), v: v.Neg()}
}

// Triggers implements Propagator.
func (c *LessOrEqualConst) Triggers() []Var { return []Var{c.x.Base()} }

// Prune implements Propagator.
func (c *LessOrEqualConst) Prune(ctx *Context) error {
	return ctx.TrySetMax(c.x, c.v)
}

// NotEqual enforces x != y by singleton elimination: once one side is fixed,
// its value is removed from the other. For float operands only boundary
// values are removable, which is still sound (bounds-consistent).
type NotEqual struct {
	x, y View
}

// NewNotEqual creates the constraint x != y.
func NewNotEqual(x, y View) *NotEqual { return &NotEqual{x: x, y: y} }

// Triggers implements Propagator.
func (c *NotEqual) Triggers() []Var { return []Var{c.x.Base(), c.y.Base()} }

// Prune implements Propagator.
func (c *NotEqual) Prune(ctx *Context) error {
	xf, err := ctx.IsFixed(c.x)
	if err != nil {
		return err
	}
	if xf {
		v, err := ctx.ValueOf(c.x)
		if err != nil {
			return err
		}
		if err := ctx.Remove(c.y, v); err != nil {
			return err
		}
	}
	yf, err := ctx.IsFixed(c.y)
	if err != nil {
		return err
	}
	if yf {
		v, err := ctx.ValueOf(c.y)
		if err != nil {
			return err
		}
		return ctx.Remove(c.x, v)
	}
	return nil
}

// NotEqualConst enforces x != v.
type NotEqualConst struct {
	x View
	v Value
}

// NewNotEqualConst creates x != v.
func NewNotEqualConst(x View, v Value) *NotEqualConst { return &NotEqualConst{x: x, v: v} }

// Triggers implements Propagator.
func (c *NotEqualConst) Triggers() []Var { return []Var{c.x.Base()} }

// Prune implements Propagator.
func (c *NotEqualConst) Prune(ctx *Context) error {
	return ctx.Remove(c.x, c.v)
}

// LinearConstraint is the read-only description of a linear propagator,
// extracted for external optimization routines: sum(Coeffs[i]*Vars[i])
// Rel Bound.
type LinearConstraint struct {
	Vars   []Var
	Coeffs []Value
	Rel    Relation
	Bound  Value
}

// linearizable marks propagators that can describe themselves as a linear
// constraint. The extraction is side-effect-free.
type linearizable interface {
	linear() LinearConstraint
}

// LinearSum enforces sum(coeffs[i]*vars[i]) Rel bound with bounds
// propagation. All variables, coefficients and the bound must share one
// kind; cross-kind sums require explicit modeling.
//
// Each term is held as a view: positive coefficients scale directly,
// negative coefficients flip through Opposite first, so the bound-direction
// bookkeeping lives entirely in the view layer.
type LinearSum struct {
	vars   []Var
	coeffs []Value
	terms  []View
	rel    Relation
	bound  Value
}

// NewLinearSum creates sum(coeffs[i]*vars[i]) rel bound.
// Returns an error on length mismatch, an empty term list, a zero
// coefficient, a foreign variable handle, or any variable or coefficient
// whose kind differs from the bound's.
func NewLinearSum(s *Store, vars []Var, coeffs []Value, rel Relation, bound Value) (*LinearSum, error) {
	if len(vars) == 0 {
		return nil, fmt.Errorf("LinearSum requires at least one term")
	}
	if len(vars) != len(coeffs) {
		return nil, fmt.Errorf("LinearSum: %d variables but %d coefficients", len(vars), len(coeffs))
	}
	terms := make([]View, len(vars))
	for i, v := range vars {
		k, err := s.Kind(v)
		if err != nil {
			return nil, err
		}
		if valueKindOf(k) != bound.Kind() {
			return nil, ErrKindMismatch
		}
		a := coeffs[i]
		if a.Kind() != bound.Kind() {
			return nil, ErrKindMismatch
		}
		w := NewView(v)
		switch {
		case a.IsPositive():
			terms[i] = w.TimesPos(a)
		case a.Neg().IsPositive():
			terms[i] = w.Opposite().TimesPos(a.Neg())
		default:
			return nil, fmt.Errorf("LinearSum: zero coefficient for term %d", i)
		}
	}
	varsCopy := make([]Var, len(vars))
	copy(varsCopy, vars)
	coeffsCopy := make([]Value, len(coeffs))
	copy(coeffsCopy, coeffs)
	return &LinearSum{vars: varsCopy, coeffs: coeffsCopy, terms: terms, rel: rel, bound: bound}, nil
}

// Triggers implements Propagator.
func (c *LinearSum) Triggers() []Var { return c.vars }

// Prune applies bounds propagation: with S- = sum of term minima and
// S+ = sum of term maxima, term i is capped at bound - (S- - min_i) for <=
// and floored at bound - (S+ - max_i) for >=.
func (c *LinearSum) Prune(ctx *Context) error {
	n := len(c.terms)
	mins := make([]Value, n)
	maxs := make([]Value, n)
	var sumMin, sumMax Value
	for i, w := range c.terms {
		lo, hi, err := ctx.Bounds(w)
		if err != nil {
			return err
		}
		mins[i], maxs[i] = lo, hi
		if i == 0 {
			sumMin, sumMax = lo, hi
			continue
		}
		if sumMin, err = sumMin.Add(lo); err != nil {
			return err
		}
		if sumMax, err = sumMax.Add(hi); err != nil {
			return err
		}
	}

	if c.rel == RelEq || c.rel == RelLe {
		for i, w := range c.terms {
			rest, err := sumMin.Sub(mins[i])
			if err != nil {
				return err
			}
			ub, err := c.bound.Sub(rest)
			if err != nil {
				return err
			}
			if err := ctx.TrySetMax(w, ub); err != nil {
				return err
			}
		}
	}
	if c.rel == RelEq || c.rel == RelGe {
		for i, w := range c.terms {
			rest, err := sumMax.Sub(maxs[i])
			if err != nil {
				return err
			}
			floor, err := c.bound.Sub(rest)
			if err != nil {
				return err
			}
			if err := ctx.TrySetMin(w, floor); err != nil {
				return err
			}
		}
	}
	return nil
}

// linear implements linearizable for read-only extraction.
func (c *LinearSum) linear() LinearConstraint {
	vars := make([]Var, len(c.vars))
	copy(vars, c.vars)
	coeffs := make([]Value, len(c.coeffs))
	copy(coeffs, c.coeffs)
	return LinearConstraint{Vars: vars, Coeffs: coeffs, Rel: c.rel, Bound: c.bound}
}

// String returns a human-readable representation.
func (c *LinearSum) String() string {
	return fmt.Sprintf("LinearSum(%d terms %s %s)", len(c.vars), c.rel, c.bound)
}

// Modulo enforces r = x mod y over integer variables. Propagation activates
// once the divisor is fixed: the remainder is clamped to the divisor's
// residue range, a fixed x fixes r, and a fixed r filters x by residue when
// the dividend domain is small enough to enumerate.
type Modulo struct {
	x, y, r Var
}

// moduloEnumLimit caps the dividend domain size for residue filtering.
const moduloEnumLimit = 4096

// NewModulo creates r = x mod y. All three must be integer variables.
func NewModulo(s *Store, x, y, r Var) (*Modulo, error) {
	for _, v := range []Var{x, y, r} {
		k, err := s.Kind(v)
		if err != nil {
			return nil, err
		}
		if k != IntVar {
			return nil, fmt.Errorf("Modulo requires integer variables, got %s", k)
		}
	}
	return &Modulo{x: x, y: y, r: r}, nil
}

// Triggers implements Propagator.
func (c *Modulo) Triggers() []Var { return []Var{c.x, c.y, c.r} }

// Prune implements Propagator.
func (c *Modulo) Prune(ctx *Context) error {
	yv := NewView(c.y)
	yf, err := ctx.IsFixed(yv)
	if err != nil {
		return err
	}
	if !yf {
		return nil
	}
	mVal, err := ctx.ValueOf(yv)
	if err != nil {
		return err
	}
	m := mVal.Int()
	if m == 0 {
		return ctx.fail()
	}
	if m < 0 {
		m = -m
	}

	xd := ctx.store.vars[c.x.id].idom
	rv := NewView(c.r)

	// Residues follow the dividend's sign, like Go's % operator.
	if xd.Min() >= 0 {
		if err := ctx.TrySetMin(rv, IntValue(0)); err != nil {
			return err
		}
	}
	if xd.Max() <= 0 {
		if err := ctx.TrySetMax(rv, IntValue(0)); err != nil {
			return err
		}
	}
	if err := ctx.TrySetMin(rv, IntValue(-(m - 1))); err != nil {
		return err
	}
	if err := ctx.TrySetMax(rv, IntValue(m-1)); err != nil {
		return err
	}

	if xd.IsFixed() {
		return ctx.TrySetValue(rv, IntValue(xd.Min()%m))
	}

	rd := ctx.store.vars[c.r.id].idom
	if rd.IsFixed() && xd.Size() <= moduloEnumLimit {
		want := rd.Min()
		for _, v := range xd.Values() {
			if v%m != want {
				if err := ctx.intRemove(c.x.id, v); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// Absolute enforces y = |x| with bounds propagation.
type Absolute struct {
	x, y View
}

// NewAbsolute creates y = |x|.
func NewAbsolute(x, y View) *Absolute { return &Absolute{x: x, y: y} }

// Triggers implements Propagator.
func (c *Absolute) Triggers() []Var { return []Var{c.x.Base(), c.y.Base()} }

// Prune implements Propagator.
func (c *Absolute) Prune(ctx *Context) error {
	lox, hix, err := ctx.Bounds(c.x)
	if err != nil {
		return err
	}
	zero := zeroOf(lox.Kind())

	// Forward: |x| bounds from x bounds.
	absLo, absHi := lox, hix
	if absLo.Less(zero) {
		absLo = absLo.Neg()
	}
	if absHi.Less(zero) {
		absHi = absHi.Neg()
	}
	if absHi.Less(absLo) {
		absLo, absHi = absHi, absLo
	}
	if lox.Less(zero) && zero.Less(hix) || lox.Equal(zero) || hix.Equal(zero) {
		absLo = zero
	}
	if err := ctx.TrySetMin(c.y, absLo); err != nil {
		return err
	}
	if err := ctx.TrySetMax(c.y, absHi); err != nil {
		return err
	}

	// Backward: x in [-max(y), max(y)], refined when x's sign is known.
	loy, hiy, err := ctx.Bounds(c.y)
	if err != nil {
		return err
	}
	if err := ctx.TrySetMin(c.x, hiy.Neg()); err != nil {
		return err
	}
	if err := ctx.TrySetMax(c.x, hiy); err != nil {
		return err
	}
	lox, _, err = ctx.Bounds(c.x)
	if err != nil {
		return err
	}
	if !lox.Less(zero) {
		return ctx.TrySetMin(c.x, loy)
	}
	return nil
}
