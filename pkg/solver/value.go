// Package solver provides constraint programming abstractions.
// This file defines the Value union over integer and floating-point
// quantities that variables, views and propagators exchange.
package solver

import (
	"fmt"
	"math"
)

// ValueKind discriminates the two numeric kinds a Value can hold.
type ValueKind uint8

const (
	// KindInt marks an int64-backed value.
	KindInt ValueKind = iota
	// KindFloat marks a float64-backed value.
	KindFloat
)

// String returns "int" or "float".
func (k ValueKind) String() string {
	if k == KindInt {
		return "int"
	}
	return "float"
}

// Value is a discriminated union over Int(int64) and Float(float64).
//
// Equality between differing kinds coerces through numeric comparison with a
// ULP tolerance rather than bit equality, so Int(5) equals Float(5.0) but not
// Float(5.0 + 2eps). Arithmetic is defined only for same-kind operands;
// combining kinds returns ErrKindMismatch, never an implicit conversion.
type Value struct {
	kind ValueKind
	i    int64
	f    float64
}

// IntValue wraps an int64 as a Value.
func IntValue(v int64) Value { return Value{kind: KindInt, i: v} }

// FloatValue wraps a float64 as a Value.
func FloatValue(v float64) Value { return Value{kind: KindFloat, f: v} }

// Kind returns the value's kind.
func (v Value) Kind() ValueKind { return v.kind }

// Int returns the integer payload. Panics if the value holds a float;
// use AsFloat for explicit numeric coercion.
func (v Value) Int() int64 {
	if v.kind != KindInt {
		panic(fmt.Sprintf("Int() called on %s value %s", v.kind, v))
	}
	return v.i
}

// Float returns the float payload. Panics if the value holds an integer;
// use AsFloat for explicit numeric coercion.
func (v Value) Float() float64 {
	if v.kind != KindFloat {
		panic(fmt.Sprintf("Float() called on %s value %s", v.kind, v))
	}
	return v.f
}

// AsFloat coerces either kind to float64. This is the single explicit
// conversion point between the kinds.
func (v Value) AsFloat() float64 {
	if v.kind == KindInt {
		return float64(v.i)
	}
	return v.f
}

// Equal reports numeric equality under the default ULP tolerance.
// Same-kind integers compare exactly; any comparison involving a float uses
// ULP distance (see EqualWithin).
func (v Value) Equal(o Value) bool {
	return v.EqualWithin(o, defaultULPTolerance)
}

// EqualWithin reports numeric equality with an explicit ULP tolerance for
// float comparisons. Opposite-signed floats are equal only at distance zero,
// which makes +0.0 and -0.0 equal and nothing else across the sign boundary.
func (v Value) EqualWithin(o Value, ulpTol int64) bool {
	if v.kind == KindInt && o.kind == KindInt {
		return v.i == o.i
	}
	return floatEqualULP(v.AsFloat(), o.AsFloat(), ulpTol)
}

// Compare returns -1, 0 or +1 ordering v against o. Ordering is total within
// a kind; cross-kind ordering coerces through numeric comparison.
func (v Value) Compare(o Value) int {
	if v.kind == KindInt && o.kind == KindInt {
		switch {
		case v.i < o.i:
			return -1
		case v.i > o.i:
			return 1
		default:
			return 0
		}
	}
	a, b := v.AsFloat(), o.AsFloat()
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Less reports v < o under Compare ordering.
func (v Value) Less(o Value) bool { return v.Compare(o) < 0 }

// Add returns v + o for same-kind operands.
func (v Value) Add(o Value) (Value, error) {
	if v.kind != o.kind {
		return Value{}, ErrKindMismatch
	}
	if v.kind == KindInt {
		return IntValue(v.i + o.i), nil
	}
	return FloatValue(v.f + o.f), nil
}

// Sub returns v - o for same-kind operands.
func (v Value) Sub(o Value) (Value, error) {
	if v.kind != o.kind {
		return Value{}, ErrKindMismatch
	}
	if v.kind == KindInt {
		return IntValue(v.i - o.i), nil
	}
	return FloatValue(v.f - o.f), nil
}

// Mul returns v * o for same-kind operands.
func (v Value) Mul(o Value) (Value, error) {
	if v.kind != o.kind {
		return Value{}, ErrKindMismatch
	}
	if v.kind == KindInt {
		return IntValue(v.i * o.i), nil
	}
	return FloatValue(v.f * o.f), nil
}

// Div returns v / o for same-kind operands. Integer division by zero is an
// error; integer division truncates toward zero like Go's / operator.
func (v Value) Div(o Value) (Value, error) {
	if v.kind != o.kind {
		return Value{}, ErrKindMismatch
	}
	if v.kind == KindInt {
		if o.i == 0 {
			return Value{}, fmt.Errorf("integer division by zero")
		}
		return IntValue(v.i / o.i), nil
	}
	return FloatValue(v.f / o.f), nil
}

// Rem returns the remainder of v / o for same-kind operands. Float remainder
// follows math.Mod.
func (v Value) Rem(o Value) (Value, error) {
	if v.kind != o.kind {
		return Value{}, ErrKindMismatch
	}
	if v.kind == KindInt {
		if o.i == 0 {
			return Value{}, fmt.Errorf("integer remainder by zero")
		}
		return IntValue(v.i % o.i), nil
	}
	return FloatValue(math.Mod(v.f, o.f)), nil
}

// Neg returns -v.
func (v Value) Neg() Value {
	if v.kind == KindInt {
		return IntValue(-v.i)
	}
	return FloatValue(-v.f)
}

// IsPositive reports v > 0 in its own kind.
func (v Value) IsPositive() bool {
	if v.kind == KindInt {
		return v.i > 0
	}
	return v.f > 0
}

// zeroOf returns the zero value of the given kind.
func zeroOf(k ValueKind) Value {
	if k == KindInt {
		return IntValue(0)
	}
	return FloatValue(0)
}

// String returns a human-readable representation, e.g. "5" or "5.5".
func (v Value) String() string {
	if v.kind == KindInt {
		return fmt.Sprintf("%d", v.i)
	}
	return fmt.Sprintf("%g", v.f)
}
