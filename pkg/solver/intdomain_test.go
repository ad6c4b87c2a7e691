package solver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntDomainBasics(t *testing.T) {
	d := newIntDomain(1, 9)

	assert.Equal(t, 9, d.Size())
	assert.False(t, d.Empty())
	assert.False(t, d.IsFixed())
	assert.Equal(t, int64(1), d.Min())
	assert.Equal(t, int64(9), d.Max())
	assert.True(t, d.Contains(5))
	assert.False(t, d.Contains(0))
	assert.False(t, d.Contains(10))
}

func TestIntDomainValuesConstructor(t *testing.T) {
	d := newIntDomainValues([]int64{7, 3, 3, 11, 5})

	assert.Equal(t, 4, d.Size(), "duplicates collapse")
	assert.Equal(t, int64(3), d.Min())
	assert.Equal(t, int64(11), d.Max())
	assert.Equal(t, []int64{3, 5, 7, 11}, d.Values())
	assert.False(t, d.Contains(4), "holes in the universe are absent")
	assert.False(t, d.Contains(8))
}

func TestIntDomainRemove(t *testing.T) {
	d := newIntDomain(1, 5)

	assert.True(t, d.Remove(3))
	assert.False(t, d.Remove(3), "removing twice is a no-op")
	assert.Equal(t, 4, d.Size())
	assert.False(t, d.Contains(3))
	assert.Equal(t, []int64{1, 2, 4, 5}, d.Values())

	// Bound removal rescans min/max.
	assert.True(t, d.Remove(1))
	assert.Equal(t, int64(2), d.Min())
	assert.True(t, d.Remove(5))
	assert.Equal(t, int64(4), d.Max())
}

func TestIntDomainRemoveBounds(t *testing.T) {
	d := newIntDomain(1, 10)

	assert.True(t, d.RemoveBelow(4))
	assert.Equal(t, int64(4), d.Min())
	assert.False(t, d.RemoveBelow(3), "already satisfied")

	assert.True(t, d.RemoveAbove(7))
	assert.Equal(t, int64(7), d.Max())
	assert.Equal(t, 4, d.Size())
	assert.Equal(t, []int64{4, 5, 6, 7}, d.Values())

	assert.True(t, d.RemoveBelow(8))
	assert.True(t, d.Empty())
}

func TestIntDomainFix(t *testing.T) {
	d := newIntDomain(1, 9)

	assert.True(t, d.Fix(4))
	assert.True(t, d.IsFixed())
	assert.Equal(t, int64(4), d.Min())
	assert.Equal(t, int64(4), d.Max())
	assert.False(t, d.Fix(4), "fixing to the same value again is a no-op")

	// Fixing to an absent value wipes the domain.
	d2 := newIntDomain(1, 9)
	d2.Remove(5)
	assert.True(t, d2.Fix(5))
	assert.True(t, d2.Empty())
}

func TestIntDomainCheckpointRestore(t *testing.T) {
	d := newIntDomain(1, 9)
	d.Remove(4)
	before := d.Values()
	cp := d.Checkpoint()

	d.RemoveBelow(3)
	d.Remove(7)
	d.Fix(5)
	require.True(t, d.IsFixed())

	d.Restore(cp)
	assert.Equal(t, before, d.Values(), "restore must reproduce the exact member set")
	assert.Equal(t, int64(1), d.Min())
	assert.Equal(t, int64(9), d.Max())
	assert.Equal(t, 8, d.Size())
}

func TestIntDomainNestedCheckpoints(t *testing.T) {
	d := newIntDomain(1, 6)
	cp1 := d.Checkpoint()
	d.Remove(2)
	cp2 := d.Checkpoint()
	d.RemoveAbove(4)

	d.Restore(cp2)
	assert.Equal(t, []int64{1, 3, 4, 5, 6}, d.Values())

	d.Restore(cp1)
	assert.Equal(t, []int64{1, 2, 3, 4, 5, 6}, d.Values())
}

func TestIntDomainRestoreAfterWipe(t *testing.T) {
	d := newIntDomain(1, 5)
	cp := d.Checkpoint()
	d.Fix(9) // absent: wipes out
	require.True(t, d.Empty())

	d.Restore(cp)
	assert.Equal(t, 5, d.Size())
	assert.Equal(t, []int64{1, 2, 3, 4, 5}, d.Values())
}

func TestIntDomainString(t *testing.T) {
	assert.Equal(t, "{1..5}", newIntDomain(1, 5).String())

	d := newIntDomain(1, 3)
	d.Remove(2)
	assert.Equal(t, "{1,3}", d.String())
	d.Fix(1)
	assert.Equal(t, "{1}", d.String())
	d.Remove(1)
	assert.Equal(t, "{}", d.String())
}
