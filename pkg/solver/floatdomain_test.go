package solver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFloatDomainBasics(t *testing.T) {
	g := newGrid(1e-6)
	d := newFloatDomain(1.0, 10.0, g)

	assert.False(t, d.Empty())
	assert.False(t, d.IsFixed())
	assert.Equal(t, 1.0, d.Min())
	assert.Equal(t, 10.0, d.Max())
	assert.True(t, d.Contains(5.5))
	assert.False(t, d.Contains(0.5))
	assert.False(t, d.Contains(10.1))
	assert.Equal(t, int64(9000001), d.Size())
}

func TestFloatDomainBoundsSnapToGrid(t *testing.T) {
	g := newGrid(1e-4)
	d := newFloatDomain(1.00003, 9.99997, g)

	// Lower bound snaps up, upper bound snaps down.
	assert.InDelta(t, 1.0001, d.Min(), 1e-12)
	assert.InDelta(t, 9.9999, d.Max(), 1e-12)
}

func TestFloatDomainTighten(t *testing.T) {
	g := newGrid(1e-4)
	d := newFloatDomain(1.0, 10.0, g)

	assert.True(t, d.Ge(2.5))
	assert.InDelta(t, 2.5, d.Min(), 1e-12)
	assert.False(t, d.Ge(2.0), "loosening is a no-op")

	assert.True(t, d.Le(7.5))
	assert.InDelta(t, 7.5, d.Max(), 1e-12)

	assert.True(t, d.Ge(8.0))
	assert.True(t, d.Empty())
}

func TestFloatDomainStrictBoundsMoveOneStep(t *testing.T) {
	for _, step := range []float64{1e-4, 1e-6} {
		g := newGrid(step)
		d := newFloatDomain(1.0, 10.0, g)

		require.True(t, d.Lt(5.5))
		assert.InDelta(t, 5.5-step, d.Max(), step/100,
			"strict upper bound must land one grid step below, step %g", step)

		require.True(t, d.Gt(2.0))
		assert.InDelta(t, 2.0+step, d.Min(), step/100,
			"strict lower bound must land one grid step above, step %g", step)
	}
}

func TestFloatDomainFix(t *testing.T) {
	g := newGrid(1e-4)
	d := newFloatDomain(1.0, 10.0, g)

	assert.True(t, d.Fix(5.50003))
	assert.True(t, d.IsFixed())
	assert.InDelta(t, 5.5, d.Value(), 1e-12, "fix snaps to the nearest grid point")
	assert.False(t, d.Fix(5.5), "fixing a fixed domain to its value is a no-op")

	d2 := newFloatDomain(1.0, 10.0, g)
	assert.True(t, d2.Fix(11.0))
	assert.True(t, d2.Empty())
}

func TestFloatDomainIntersect(t *testing.T) {
	g := newGrid(1e-4)
	d := newFloatDomain(1.0, 10.0, g)

	assert.True(t, d.Intersect(2.0, 8.0))
	assert.InDelta(t, 2.0, d.Min(), 1e-12)
	assert.InDelta(t, 8.0, d.Max(), 1e-12)
	assert.False(t, d.Intersect(1.0, 9.0), "superset intersection changes nothing")
}

func TestFloatDomainCheckpointRestoreBitExact(t *testing.T) {
	g := newGrid(1e-6)
	d := newFloatDomain(1.0, 10.0, g)
	d.Ge(1.234567)
	loBefore, hiBefore := d.Min(), d.Max()
	cp := d.Checkpoint()

	d.Le(3.5)
	d.Gt(2.0)
	d.Fix(2.5)
	require.True(t, d.IsFixed())

	d.Restore(cp)
	assert.Equal(t, loBefore, d.Min(), "restored lower bound must be bit-identical")
	assert.Equal(t, hiBefore, d.Max(), "restored upper bound must be bit-identical")
}

func TestFloatDomainSingleton(t *testing.T) {
	g := newGrid(1e-4)
	d := newFloatDomain(2.5, 2.5, g)

	assert.True(t, d.IsFixed())
	assert.Equal(t, int64(1), d.Size())
	assert.Equal(t, 2.5, d.Value())
}

func TestFloatDomainString(t *testing.T) {
	g := newGrid(1e-4)
	d := newFloatDomain(1.5, 2.75, g)
	assert.Equal(t, "[1.5, 2.75]", d.String())

	d.Fix(2.0)
	assert.Equal(t, "[2]", d.String())

	d.Ge(3.0)
	assert.Equal(t, "[]", d.String())
}
