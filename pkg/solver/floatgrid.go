package solver

// floatgrid.go: finite-precision float handling.
//
// Two distinct notions of "adjacent float" coexist here on purpose:
//
//   - The decimal step grid (grid type) defines the next/previous
//     representable value for float domains as lo+step / hi-step. Branching
//     and strict-inequality posting always go through the grid, which keeps
//     search terminating on wide ranges.
//   - ULP distance defines equality between floats. It is bit-exact and
//     independent of the grid; it serves value comparison, not enumeration.
//
// Strict inequalities must never degrade to the bit-level step: bisecting
// [1.0, 10.0] one machine epsilon at a time does not terminate in any
// practical sense.

import "math"

// defaultULPTolerance is the bit-pattern distance within which two floats
// compare equal when no explicit tolerance is configured.
const defaultULPTolerance = 4

// snapSlack is the relative tolerance used to decide that a quotient is
// "already on" a grid point before taking a ceiling or floor. Without it,
// ceil(x/step) overshoots by a full step whenever x/step lands one rounding
// error above an integer.
const snapSlack = 1e-9

// orderedBits maps a float to a signed integer such that the integer order
// matches the float order and adjacent floats map to adjacent integers.
// Both zeros map to 0.
func orderedBits(f float64) int64 {
	u := int64(math.Float64bits(f))
	if u < 0 {
		u = math.MinInt64 - u
	}
	return u
}

// ulpDistance returns the number of representable floats between a and b.
func ulpDistance(a, b float64) int64 {
	d := orderedBits(a) - orderedBits(b)
	if d < 0 {
		d = -d
	}
	return d
}

// floatEqualULP reports a == b within tol units in the last place.
// Opposite-signed values are equal only at distance 0, so +0.0 == -0.0 holds
// and nothing else bridges the sign boundary.
func floatEqualULP(a, b float64, tol int64) bool {
	if a == b {
		return true
	}
	if math.IsNaN(a) || math.IsNaN(b) {
		return false
	}
	if math.Signbit(a) != math.Signbit(b) {
		return false
	}
	return ulpDistance(a, b) <= tol
}

// grid quantizes float bounds to multiples of a fixed step derived from the
// configured decimal precision (e.g. step 1e-6). All float domain bounds are
// kept on this grid.
type grid struct {
	step float64
}

func newGrid(step float64) grid {
	if step <= 0 {
		step = 1e-6
	}
	return grid{step: step}
}

// round snaps x to the nearest grid point.
func (g grid) round(x float64) float64 {
	return math.Round(x/g.step) * g.step
}

// ceil snaps x to the smallest grid point >= x, without overshooting when x
// is already on the grid up to rounding noise.
func (g grid) ceil(x float64) float64 {
	q := x / g.step
	r := math.Round(q)
	if math.Abs(q-r) <= snapSlack*math.Max(1, math.Abs(q)) {
		return r * g.step
	}
	return math.Ceil(q) * g.step
}

// floor snaps x to the largest grid point <= x, symmetric to ceil.
func (g grid) floor(x float64) float64 {
	q := x / g.step
	r := math.Round(q)
	if math.Abs(q-r) <= snapSlack*math.Max(1, math.Abs(q)) {
		return r * g.step
	}
	return math.Floor(q) * g.step
}

// next returns the next representable value on the grid: round(x) + step.
// Strictly monotone (x < next(x)) for |x| within maxMagnitude.
func (g grid) next(x float64) float64 {
	return g.round(x) + g.step
}

// prev returns the previous representable value on the grid: round(x) - step.
func (g grid) prev(x float64) float64 {
	return g.round(x) - g.step
}

// maxMagnitude is the largest |x| at which the step is still representable:
// past step * 2^52 adjacent floats are spaced wider than the step itself, so
// round(x)+step rounds back onto x and next/prev would stall. Domain bounds
// must stay within this range.
func (g grid) maxMagnitude() float64 {
	return g.step * float64(int64(1)<<52)
}

// points returns the number of grid points in [lo, hi], assuming both bounds
// are on the grid. Returns 0 when lo > hi.
func (g grid) points(lo, hi float64) int64 {
	if lo > hi {
		return 0
	}
	return int64(math.Round((hi-lo)/g.step)) + 1
}

// intLowerBound converts a float lower bound into the smallest integer
// satisfying it: ceil(x), with on-integer values snapped so that e.g.
// 3.0000000001 yields 3, not 4.
func intLowerBound(x float64) int64 {
	r := math.Round(x)
	if math.Abs(x-r) <= snapSlack*math.Max(1, math.Abs(x)) {
		return int64(r)
	}
	return int64(math.Ceil(x))
}

// intUpperBound converts a float upper bound into the largest integer
// satisfying it, symmetric to intLowerBound.
func intUpperBound(x float64) int64 {
	r := math.Round(x)
	if math.Abs(x-r) <= snapSlack*math.Max(1, math.Abs(x)) {
		return int64(r)
	}
	return int64(math.Floor(x))
}
