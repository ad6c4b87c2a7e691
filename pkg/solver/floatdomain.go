// Package solver provides constraint programming abstractions.
// This file implements the interval domain for float variables: a closed
// interval [lo, hi] with both bounds quantized to the configured step grid.
package solver

import "fmt"

// FloatDomain is a closed interval [lo, hi] whose bounds live on a decimal
// step grid. lo <= hi holds for every live domain; lo > hi is the failure
// signal, produced by narrowing and detected by the caller via Empty.
//
// Tightening always moves bounds by at least one grid step (Gt/Lt) or onto a
// grid point (Ge/Le), which bounds the number of distinct domains and keeps
// bisection search terminating regardless of the interval's width.
type FloatDomain struct {
	lo float64
	hi float64
	g  grid
}

// FloatCheckpoint is an opaque rollback token for a FloatDomain.
type FloatCheckpoint struct {
	lo float64
	hi float64
}

// newFloatDomain creates the interval [lo, hi] snapped outward-safe onto the
// grid: the stored lower bound is the smallest grid point >= lo and the upper
// bound the largest grid point <= hi. Callers validate lo <= hi beforehand.
func newFloatDomain(lo, hi float64, g grid) *FloatDomain {
	return &FloatDomain{lo: g.ceil(lo), hi: g.floor(hi), g: g}
}

// Empty reports whether the interval has been wiped out.
func (d *FloatDomain) Empty() bool { return d.lo > d.hi }

// IsFixed reports whether the interval has collapsed to a single grid point.
func (d *FloatDomain) IsFixed() bool {
	return !d.Empty() && d.hi-d.lo < d.g.step/2
}

// Min returns the lower bound.
func (d *FloatDomain) Min() float64 { return d.lo }

// Max returns the upper bound.
func (d *FloatDomain) Max() float64 { return d.hi }

// Size returns the number of grid points in the interval.
func (d *FloatDomain) Size() int64 { return d.g.points(d.lo, d.hi) }

// Contains reports whether v (snapped to the grid) lies in the interval.
func (d *FloatDomain) Contains(v float64) bool {
	s := d.g.round(v)
	return s >= d.lo-d.g.step/2 && s <= d.hi+d.g.step/2 && !d.Empty()
}

// Ge tightens the lower bound to at least v. Returns true if the domain
// changed; callers must check Empty afterwards.
func (d *FloatDomain) Ge(v float64) bool {
	nl := d.g.ceil(v)
	if nl <= d.lo {
		return false
	}
	d.lo = nl
	return true
}

// Le tightens the upper bound to at most v. Returns true if changed.
func (d *FloatDomain) Le(v float64) bool {
	nh := d.g.floor(v)
	if nh >= d.hi {
		return false
	}
	d.hi = nh
	return true
}

// Gt enforces the strict bound x > v as Ge(next(v)): one full grid step, not
// one machine epsilon.
func (d *FloatDomain) Gt(v float64) bool { return d.Ge(d.g.next(v)) }

// Lt enforces the strict bound x < v as Le(prev(v)).
func (d *FloatDomain) Lt(v float64) bool { return d.Le(d.g.prev(v)) }

// Intersect narrows the domain to its overlap with [lo, hi].
// Returns true if the domain changed.
func (d *FloatDomain) Intersect(lo, hi float64) bool {
	a := d.Ge(lo)
	b := d.Le(hi)
	return a || b
}

// Fix collapses the interval to the grid point nearest v, or wipes it out if
// that point is outside the interval. Returns true if the domain changed.
func (d *FloatDomain) Fix(v float64) bool {
	s := d.g.round(v)
	if s < d.lo-d.g.step/2 || s > d.hi+d.g.step/2 {
		if d.Empty() {
			return false
		}
		d.lo, d.hi = 1, 0
		return true
	}
	if d.IsFixed() {
		return false
	}
	d.lo, d.hi = s, s
	return true
}

// Value returns the single grid point of a fixed domain.
// Undefined when not fixed.
func (d *FloatDomain) Value() float64 { return d.lo }

// Checkpoint returns a rollback token for the current bounds.
func (d *FloatDomain) Checkpoint() FloatCheckpoint {
	return FloatCheckpoint{lo: d.lo, hi: d.hi}
}

// Restore rolls the bounds back to the state captured by the token.
func (d *FloatDomain) Restore(c FloatCheckpoint) {
	d.lo = c.lo
	d.hi = c.hi
}

// String renders the interval like [1.5, 2.75].
func (d *FloatDomain) String() string {
	if d.Empty() {
		return "[]"
	}
	if d.IsFixed() {
		return fmt.Sprintf("[%g]", d.lo)
	}
	return fmt.Sprintf("[%g, %g]", d.lo, d.hi)
}
