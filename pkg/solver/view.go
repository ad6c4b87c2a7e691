// Package solver provides constraint programming abstractions.
// This file implements views: algebraic transformations over a variable
// (affine shift, positive scale, negation, successor, predecessor) exposed
// as a uniform read/mutate interface. Propagators are written once against
// views; narrowing a view translates back to a narrowing of the underlying
// variable's native domain. All translation logic lives here, in one place.
package solver

import "fmt"

type viewOpKind uint8

const (
	opNeg viewOpKind = iota
	opPlus
	opTimesPos
	opNext
	opPrev
)

// viewOp is one element of a view's transform stack.
type viewOp struct {
	kind viewOpKind
	k    Value
}

// View is an ephemeral composition object: a base variable handle plus a
// chain of transforms applied base-to-view in order. Views do not own
// variables; every access is evaluated against the store through a Context.
type View struct {
	base Var
	ops  []viewOp
}

// NewView wraps a variable in an identity view.
func NewView(v Var) View { return View{base: v} }

// with returns a copy of the view with one more transform. Copying keeps
// chained views independent.
func (w View) with(op viewOp) View {
	ops := make([]viewOp, len(w.ops)+1)
	copy(ops, w.ops)
	ops[len(w.ops)] = op
	return View{base: w.base, ops: ops}
}

// Opposite returns the view -w.
func (w View) Opposite() View { return w.with(viewOp{kind: opNeg}) }

// Plus returns the view w + k.
func (w View) Plus(k Value) View { return w.with(viewOp{kind: opPlus, k: k}) }

// Minus returns the view w - k.
func (w View) Minus(k Value) View { return w.with(viewOp{kind: opPlus, k: k.Neg()}) }

// TimesPos returns the view k*w for a strictly positive k. Negative scales
// must flip through Opposite first; a non-positive k is a programming error
// and panics rather than silently mishandling the bound directions.
func (w View) TimesPos(k Value) View {
	if !k.IsPositive() {
		panic(fmt.Sprintf("TimesPos requires a positive scale, got %s; compose Opposite() for negative scales", k))
	}
	return w.with(viewOp{kind: opTimesPos, k: k})
}

// Next returns the successor view w + 1 (integers) or w + step (floats).
func (w View) Next() View { return w.with(viewOp{kind: opNext}) }

// Prev returns the predecessor view w - 1 (integers) or w - step (floats).
func (w View) Prev() View { return w.with(viewOp{kind: opPrev}) }

// Base returns the underlying variable handle.
func (w View) Base() Var { return w.base }

// stepValue is the unit increment in the kind of the view's base variable.
func (c *Context) stepValue(kind VarKind) Value {
	if kind == IntVar {
		return IntValue(1)
	}
	return FloatValue(c.store.g.step)
}

// forward maps a base-scale value onto the view scale.
func (c *Context) forward(w View, kind VarKind, v Value) (Value, error) {
	var err error
	for _, op := range w.ops {
		switch op.kind {
		case opNeg:
			v = v.Neg()
		case opPlus:
			v, err = v.Add(op.k)
		case opTimesPos:
			v, err = v.Mul(op.k)
		case opNext:
			v, err = v.Add(c.stepValue(kind))
		case opPrev:
			v, err = v.Sub(c.stepValue(kind))
		}
		if err != nil {
			return Value{}, err
		}
	}
	return v, nil
}

// Bounds returns the view's current [min, max] on the view scale.
// Negations swap and flip the bound pair; positive scales and shifts
// preserve orientation.
func (c *Context) Bounds(w View) (Value, Value, error) {
	vr, err := c.store.check(w.base)
	if err != nil {
		return Value{}, Value{}, err
	}
	var lo, hi Value
	if vr.kind == IntVar {
		lo, hi = IntValue(vr.idom.Min()), IntValue(vr.idom.Max())
	} else {
		lo, hi = FloatValue(vr.fdom.Min()), FloatValue(vr.fdom.Max())
	}
	for _, op := range w.ops {
		switch op.kind {
		case opNeg:
			lo, hi = hi.Neg(), lo.Neg()
		case opPlus:
			lo, err = lo.Add(op.k)
			if err == nil {
				hi, err = hi.Add(op.k)
			}
		case opTimesPos:
			lo, err = lo.Mul(op.k)
			if err == nil {
				hi, err = hi.Mul(op.k)
			}
		case opNext:
			step := c.stepValue(vr.kind)
			lo, _ = lo.Add(step)
			hi, err = hi.Add(step)
		case opPrev:
			step := c.stepValue(vr.kind)
			lo, _ = lo.Sub(step)
			hi, err = hi.Sub(step)
		}
		if err != nil {
			return Value{}, Value{}, err
		}
	}
	return lo, hi, nil
}

// Min returns the view's smallest current value.
func (c *Context) Min(w View) (Value, error) {
	lo, _, err := c.Bounds(w)
	return lo, err
}

// Max returns the view's largest current value.
func (c *Context) Max(w View) (Value, error) {
	_, hi, err := c.Bounds(w)
	return hi, err
}

// Size returns the number of values the view can take. Transforms are
// bijective on the base domain, so this is the base domain's size.
func (c *Context) Size(w View) (int64, error) {
	if _, err := c.store.check(w.base); err != nil {
		return 0, err
	}
	return c.store.domainSize(w.base.id), nil
}

// IsFixed reports whether the view is bound to a single value.
func (c *Context) IsFixed(w View) (bool, error) {
	if _, err := c.store.check(w.base); err != nil {
		return false, err
	}
	return c.store.isFixed(w.base.id), nil
}

// ValueOf returns the view's value when fixed.
func (c *Context) ValueOf(w View) (Value, error) {
	vr, err := c.store.check(w.base)
	if err != nil {
		return Value{}, err
	}
	return c.forward(w, vr.kind, c.store.valueOf(w.base.id))
}

// invertExact maps a view-scale value back to the base scale. ok is false
// when no base value maps onto v (a non-divisible positive scale).
func (c *Context) invertExact(w View, kind VarKind, v Value) (Value, bool, error) {
	var err error
	for i := len(w.ops) - 1; i >= 0; i-- {
		op := w.ops[i]
		switch op.kind {
		case opNeg:
			v = v.Neg()
		case opPlus:
			v, err = v.Sub(op.k)
		case opTimesPos:
			if kind == IntVar {
				if v.Int()%op.k.Int() != 0 {
					return Value{}, false, nil
				}
				v = IntValue(v.Int() / op.k.Int())
			} else {
				v, err = v.Div(op.k)
			}
		case opNext:
			v, err = v.Sub(c.stepValue(kind))
		case opPrev:
			v, err = v.Add(c.stepValue(kind))
		}
		if err != nil {
			return Value{}, false, err
		}
	}
	return v, true, nil
}

// invertBound maps a view-scale bound back to the base scale, tracking
// whether it remains a lower bound. Each negation flips the direction;
// integer scale inversion rounds with ceil for lower bounds and floor for
// upper bounds so the translated bound never overshoots.
func (c *Context) invertBound(w View, kind VarKind, v Value, isMin bool) (Value, bool, error) {
	var err error
	for i := len(w.ops) - 1; i >= 0; i-- {
		op := w.ops[i]
		switch op.kind {
		case opNeg:
			v = v.Neg()
			isMin = !isMin
		case opPlus:
			v, err = v.Sub(op.k)
		case opTimesPos:
			if kind == IntVar {
				if isMin {
					v = IntValue(ceilDiv(v.Int(), op.k.Int()))
				} else {
					v = IntValue(floorDiv(v.Int(), op.k.Int()))
				}
			} else {
				v, err = v.Div(op.k)
			}
		case opNext:
			v, err = v.Sub(c.stepValue(kind))
		case opPrev:
			v, err = v.Add(c.stepValue(kind))
		}
		if err != nil {
			return Value{}, isMin, err
		}
	}
	return v, isMin, nil
}

// ceilDiv divides with rounding toward +inf; b must be positive.
func ceilDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && a > 0 {
		q++
	}
	return q
}

// floorDiv divides with rounding toward -inf; b must be positive.
func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && a < 0 {
		q--
	}
	return q
}

// Contains reports whether the view can currently take value v.
func (c *Context) Contains(w View, v Value) (bool, error) {
	vr, err := c.store.check(w.base)
	if err != nil {
		return false, err
	}
	if v.Kind() != valueKindOf(vr.kind) {
		return false, ErrKindMismatch
	}
	base, ok, err := c.invertExact(w, vr.kind, v)
	if err != nil || !ok {
		return false, err
	}
	if vr.kind == IntVar {
		return vr.idom.Contains(base.Int()), nil
	}
	return vr.fdom.Contains(base.Float()), nil
}

// TrySetMin narrows the view to values >= v, translated back to the base
// variable. A float bound on an integer view rounds up to the smallest
// satisfying integer (never overshooting an on-integer value); any other kind
// mixing is an error. Returns ErrInconsistent when the base domain empties.
func (c *Context) TrySetMin(w View, v Value) error {
	vr, err := c.store.check(w.base)
	if err != nil {
		return err
	}
	if v.Kind() != valueKindOf(vr.kind) {
		if vr.kind != IntVar || v.Kind() != KindFloat {
			return ErrKindMismatch
		}
		v = IntValue(intLowerBound(v.Float()))
	}
	base, isMin, err := c.invertBound(w, vr.kind, v, true)
	if err != nil {
		return err
	}
	if vr.kind == IntVar {
		if isMin {
			return c.intRemoveBelow(w.base.id, base.Int())
		}
		return c.intRemoveAbove(w.base.id, base.Int())
	}
	if isMin {
		return c.floatGe(w.base.id, base.Float())
	}
	return c.floatLe(w.base.id, base.Float())
}

// TrySetMax narrows the view to values <= v. A float bound on an integer
// view rounds down, symmetric to TrySetMin.
func (c *Context) TrySetMax(w View, v Value) error {
	vr, err := c.store.check(w.base)
	if err != nil {
		return err
	}
	if v.Kind() != valueKindOf(vr.kind) {
		if vr.kind != IntVar || v.Kind() != KindFloat {
			return ErrKindMismatch
		}
		v = IntValue(intUpperBound(v.Float()))
	}
	base, isMin, err := c.invertBound(w, vr.kind, v, false)
	if err != nil {
		return err
	}
	if vr.kind == IntVar {
		if isMin {
			return c.intRemoveBelow(w.base.id, base.Int())
		}
		return c.intRemoveAbove(w.base.id, base.Int())
	}
	if isMin {
		return c.floatGe(w.base.id, base.Float())
	}
	return c.floatLe(w.base.id, base.Float())
}

// TrySetValue fixes the view to exactly v. A value outside the view's image
// (for example a non-divisible scale) is a local inconsistency.
func (c *Context) TrySetValue(w View, v Value) error {
	vr, err := c.store.check(w.base)
	if err != nil {
		return err
	}
	if v.Kind() != valueKindOf(vr.kind) {
		return ErrKindMismatch
	}
	base, ok, err := c.invertExact(w, vr.kind, v)
	if err != nil {
		return err
	}
	if !ok {
		return c.fail()
	}
	if vr.kind == IntVar {
		return c.intFix(w.base.id, base.Int())
	}
	return c.floatFix(w.base.id, base.Float())
}

// Remove excludes value v from the view. For float variables only boundary
// values can be excluded (interval domains cannot hold interior holes);
// removing an interior point is a sound no-op.
func (c *Context) Remove(w View, v Value) error {
	vr, err := c.store.check(w.base)
	if err != nil {
		return err
	}
	if v.Kind() != valueKindOf(vr.kind) {
		return ErrKindMismatch
	}
	base, ok, err := c.invertExact(w, vr.kind, v)
	if err != nil {
		return err
	}
	if !ok {
		return nil // value not in the view's image: nothing to remove
	}
	if vr.kind == IntVar {
		return c.intRemove(w.base.id, base.Int())
	}
	return c.floatRemoveBound(w.base.id, base.Float())
}

// floatRemoveBound excludes v from a float interval when v sits on one of
// its bounds; interior points are ignored, a fixed domain equal to v fails.
func (c *Context) floatRemoveBound(vid int, v float64) error {
	d := c.store.vars[vid].fdom
	if d.Empty() {
		return c.fail()
	}
	if !d.Contains(v) {
		return nil
	}
	if d.IsFixed() {
		c.store.record(vid)
		d.Fix(v - 2*c.store.g.step) // outside: wipes out
		return c.fail()
	}
	s := c.store.g.round(v)
	if s <= d.Min()+c.store.g.step/2 {
		return c.floatGe(vid, c.store.g.next(d.Min()))
	}
	if s >= d.Max()-c.store.g.step/2 {
		return c.floatLe(vid, c.store.g.prev(d.Max()))
	}
	return nil
}

// valueKindOf maps a variable kind to the matching value kind.
func valueKindOf(k VarKind) ValueKind {
	if k == IntVar {
		return KindInt
	}
	return KindFloat
}
