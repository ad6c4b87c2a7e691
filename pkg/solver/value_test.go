package solver

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueKinds(t *testing.T) {
	i := IntValue(5)
	f := FloatValue(5.0)

	assert.Equal(t, KindInt, i.Kind())
	assert.Equal(t, KindFloat, f.Kind())
	assert.Equal(t, int64(5), i.Int())
	assert.Equal(t, 5.0, f.Float())
	assert.Equal(t, 5.0, i.AsFloat())
}

func TestValueCrossKindEquality(t *testing.T) {
	tests := []struct {
		name string
		a, b Value
		want bool
	}{
		{"int equals same int", IntValue(5), IntValue(5), true},
		{"int differs from other int", IntValue(5), IntValue(6), false},
		{"int equals exact float", IntValue(5), FloatValue(5.0), true},
		{"float equals exact int", FloatValue(5.0), IntValue(5), true},
		{"int differs from distant float", IntValue(5), FloatValue(5.0000001), false},
		{"float within one ulp", FloatValue(1.0), FloatValue(math.Nextafter(1.0, 2.0)), true},
		{"positive zero equals negative zero", FloatValue(0.0), FloatValue(math.Copysign(0, -1)), true},
		{"opposite signs never bridge", FloatValue(math.SmallestNonzeroFloat64), FloatValue(-math.SmallestNonzeroFloat64), false},
		{"nan equals nothing", FloatValue(math.NaN()), FloatValue(math.NaN()), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Equal(tt.b))
		})
	}
}

func TestValueEqualWithin(t *testing.T) {
	a := 1.0
	b := math.Nextafter(math.Nextafter(a, 2), 2) // two ulps away

	assert.True(t, FloatValue(a).EqualWithin(FloatValue(b), 2))
	assert.False(t, FloatValue(a).EqualWithin(FloatValue(b), 1))
}

func TestValueCompare(t *testing.T) {
	tests := []struct {
		name string
		a, b Value
		want int
	}{
		{"int less", IntValue(1), IntValue(2), -1},
		{"int greater", IntValue(3), IntValue(2), 1},
		{"int equal", IntValue(2), IntValue(2), 0},
		{"cross kind less", IntValue(1), FloatValue(1.5), -1},
		{"cross kind greater", FloatValue(2.5), IntValue(2), 1},
		{"cross kind equal", IntValue(2), FloatValue(2.0), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Compare(tt.b))
			assert.Equal(t, tt.want < 0, tt.a.Less(tt.b))
		})
	}
}

func TestValueArithmetic(t *testing.T) {
	sum, err := IntValue(2).Add(IntValue(3))
	require.NoError(t, err)
	assert.Equal(t, int64(5), sum.Int())

	diff, err := FloatValue(2.5).Sub(FloatValue(1.0))
	require.NoError(t, err)
	assert.Equal(t, 1.5, diff.Float())

	prod, err := IntValue(4).Mul(IntValue(3))
	require.NoError(t, err)
	assert.Equal(t, int64(12), prod.Int())

	quot, err := IntValue(7).Div(IntValue(2))
	require.NoError(t, err)
	assert.Equal(t, int64(3), quot.Int())

	rem, err := IntValue(47).Rem(IntValue(10))
	require.NoError(t, err)
	assert.Equal(t, int64(7), rem.Int())

	assert.Equal(t, int64(-5), IntValue(5).Neg().Int())
	assert.True(t, IntValue(1).IsPositive())
	assert.False(t, FloatValue(-0.5).IsPositive())
}

func TestValueKindMismatch(t *testing.T) {
	_, err := IntValue(1).Add(FloatValue(1.0))
	assert.ErrorIs(t, err, ErrKindMismatch)

	_, err = FloatValue(1.0).Mul(IntValue(2))
	assert.ErrorIs(t, err, ErrKindMismatch)
}

func TestValueDivisionByZero(t *testing.T) {
	_, err := IntValue(1).Div(IntValue(0))
	assert.Error(t, err)

	_, err = IntValue(1).Rem(IntValue(0))
	assert.Error(t, err)
}

func TestValueString(t *testing.T) {
	assert.Equal(t, "5", IntValue(5).String())
	assert.Equal(t, "5.5", FloatValue(5.5).String())
	assert.Equal(t, "-3", IntValue(-3).String())
}
