package solver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// propagateRoot runs the initial full fixpoint round, as the search driver
// does before its first branch.
func propagateRoot(t *testing.T, s *Solver) error {
	t.Helper()
	a := newAgenda(len(s.model.props))
	s.seedAll(a)
	return s.fixpoint(a)
}

func TestFixpointBoundsChain(t *testing.T) {
	m := NewModel()
	x, err := m.NewIntVar(1, 10)
	require.NoError(t, err)
	y, err := m.NewIntVar(1, 10)
	require.NoError(t, err)
	z, err := m.NewIntVar(1, 10)
	require.NoError(t, err)

	// x <= y <= z and z <= 4 squeezes the whole chain.
	_, err = m.Post(NewLessOrEqual(NewView(x), NewView(y)))
	require.NoError(t, err)
	_, err = m.Post(NewLessOrEqual(NewView(y), NewView(z)))
	require.NoError(t, err)
	_, err = m.Post(NewLessOrEqualConst(NewView(z), IntValue(4)))
	require.NoError(t, err)

	s := NewSolver(m)
	require.NoError(t, propagateRoot(t, s))

	assert.Equal(t, int64(4), m.store.vars[x.id].idom.Max())
	assert.Equal(t, int64(4), m.store.vars[y.id].idom.Max())
	assert.Equal(t, int64(4), m.store.vars[z.id].idom.Max())
}

func TestFixpointOrderIndependence(t *testing.T) {
	type poster func(m *Model, x, y, z Var) error
	posters := []poster{
		func(m *Model, x, y, z Var) error {
			_, err := m.Post(NewLessOrEqual(NewView(x), NewView(y)))
			return err
		},
		func(m *Model, x, y, z Var) error {
			_, err := m.Post(NewLessOrEqual(NewView(y), NewView(z)))
			return err
		},
		func(m *Model, x, y, z Var) error {
			_, err := m.Post(NewLessOrEqualConst(NewView(z), IntValue(5)))
			return err
		},
		func(m *Model, x, y, z Var) error {
			_, err := m.Post(NewGreaterOrEqualConst(NewView(x), IntValue(3)))
			return err
		},
	}
	orders := [][]int{
		{0, 1, 2, 3},
		{3, 2, 1, 0},
		{2, 0, 3, 1},
		{1, 3, 0, 2},
	}

	type bounds struct{ lo, hi int64 }
	var want []bounds
	for _, order := range orders {
		m := NewModel()
		x, err := m.NewIntVar(1, 10)
		require.NoError(t, err)
		y, err := m.NewIntVar(1, 10)
		require.NoError(t, err)
		z, err := m.NewIntVar(1, 10)
		require.NoError(t, err)
		for _, i := range order {
			require.NoError(t, posters[i](m, x, y, z))
		}

		s := NewSolver(m)
		require.NoError(t, propagateRoot(t, s))

		got := []bounds{
			{m.store.vars[x.id].idom.Min(), m.store.vars[x.id].idom.Max()},
			{m.store.vars[y.id].idom.Min(), m.store.vars[y.id].idom.Max()},
			{m.store.vars[z.id].idom.Min(), m.store.vars[z.id].idom.Max()},
		}
		if want == nil {
			want = got
			continue
		}
		assert.Equal(t, want, got, "fixpoint must not depend on posting order %v", order)
	}
}

func TestFixpointIdempotentAtQuiescence(t *testing.T) {
	m := NewModel()
	x, err := m.NewIntVar(1, 10)
	require.NoError(t, err)
	y, err := m.NewIntVar(3, 12)
	require.NoError(t, err)
	_, err = m.Post(NewEquals(NewView(x), NewView(y)))
	require.NoError(t, err)

	s := NewSolver(m)
	require.NoError(t, propagateRoot(t, s))
	trailAfterFirst := m.store.trailSize()

	// A second full round must change nothing: no new trail entries.
	require.NoError(t, propagateRoot(t, s))
	assert.Equal(t, trailAfterFirst, m.store.trailSize())
	assert.Equal(t, int64(3), m.store.vars[x.id].idom.Min())
	assert.Equal(t, int64(10), m.store.vars[x.id].idom.Max())
	assert.Equal(t, int64(3), m.store.vars[y.id].idom.Min())
	assert.Equal(t, int64(10), m.store.vars[y.id].idom.Max())
}

func TestFixpointDetectsInfeasibility(t *testing.T) {
	m := NewModel()
	x, err := m.NewIntVar(1, 5)
	require.NoError(t, err)
	_, err = m.Post(NewGreaterThanConst(NewView(x), IntValue(5)))
	require.NoError(t, err)

	s := NewSolver(m)
	err = propagateRoot(t, s)
	assert.ErrorIs(t, err, ErrInconsistent)
}

func TestFixpointFloatEquality(t *testing.T) {
	m := NewModel()
	x, err := m.NewFloatVar(1.0, 10.0)
	require.NoError(t, err)
	y, err := m.NewFloatVar(4.5, 20.0)
	require.NoError(t, err)
	_, err = m.Post(NewEquals(NewView(x), NewView(y)))
	require.NoError(t, err)

	s := NewSolver(m)
	require.NoError(t, propagateRoot(t, s))

	assert.InDelta(t, 4.5, m.store.vars[x.id].fdom.Min(), 1e-9)
	assert.InDelta(t, 10.0, m.store.vars[x.id].fdom.Max(), 1e-9)
	assert.InDelta(t, 4.5, m.store.vars[y.id].fdom.Min(), 1e-9)
	assert.InDelta(t, 10.0, m.store.vars[y.id].fdom.Max(), 1e-9)
}

func TestNotEqualSingletonElimination(t *testing.T) {
	m := NewModel()
	x, err := m.NewIntVar(3, 3)
	require.NoError(t, err)
	y, err := m.NewIntVar(1, 5)
	require.NoError(t, err)
	_, err = m.Post(NewNotEqual(NewView(x), NewView(y)))
	require.NoError(t, err)

	s := NewSolver(m)
	require.NoError(t, propagateRoot(t, s))

	assert.False(t, m.store.vars[y.id].idom.Contains(3))
	assert.Equal(t, 4, m.store.vars[y.id].idom.Size())
}

func TestAllDifferentPigeonhole(t *testing.T) {
	m := NewModel()
	vars := make([]Var, 3)
	for i := range vars {
		v, err := m.NewIntVar(1, 2)
		require.NoError(t, err)
		vars[i] = v
	}
	ad, err := NewAllDifferent(m.Store(), vars)
	require.NoError(t, err)
	_, err = m.Post(ad)
	require.NoError(t, err)

	// Three variables over two values cannot be pairwise distinct.
	s := NewSolver(m)
	err = propagateRoot(t, s)
	assert.ErrorIs(t, err, ErrInconsistent)
}

func TestAllDifferentRejectsFloatVars(t *testing.T) {
	m := NewModel()
	f, err := m.NewFloatVar(0, 1)
	require.NoError(t, err)

	_, err = NewAllDifferent(m.Store(), []Var{f})
	assert.Error(t, err)
}

func TestLinearSumBoundsPropagation(t *testing.T) {
	m := NewModel()
	x, err := m.NewIntVar(0, 10)
	require.NoError(t, err)
	y, err := m.NewIntVar(0, 10)
	require.NoError(t, err)

	// 2x + 3y <= 12 caps x at 6 and y at 4.
	ls, err := NewLinearSum(
		m.Store(),
		[]Var{x, y},
		[]Value{IntValue(2), IntValue(3)},
		RelLe, IntValue(12),
	)
	require.NoError(t, err)
	_, err = m.Post(ls)
	require.NoError(t, err)

	s := NewSolver(m)
	require.NoError(t, propagateRoot(t, s))

	assert.Equal(t, int64(6), m.store.vars[x.id].idom.Max())
	assert.Equal(t, int64(4), m.store.vars[y.id].idom.Max())
}

func TestLinearSumNegativeCoefficient(t *testing.T) {
	m := NewModel()
	x, err := m.NewIntVar(0, 10)
	require.NoError(t, err)
	y, err := m.NewIntVar(0, 10)
	require.NoError(t, err)

	// x - y >= 5 forces x >= 5 and y <= 5.
	ls, err := NewLinearSum(
		m.Store(),
		[]Var{x, y},
		[]Value{IntValue(1), IntValue(-1)},
		RelGe, IntValue(5),
	)
	require.NoError(t, err)
	_, err = m.Post(ls)
	require.NoError(t, err)

	s := NewSolver(m)
	require.NoError(t, propagateRoot(t, s))

	assert.Equal(t, int64(5), m.store.vars[x.id].idom.Min())
	assert.Equal(t, int64(5), m.store.vars[y.id].idom.Max())
}

func TestLinearSumConstructorValidation(t *testing.T) {
	m := NewModel()
	x, err := m.NewIntVar(0, 10)
	require.NoError(t, err)
	f, err := m.NewFloatVar(0, 10)
	require.NoError(t, err)

	_, err = NewLinearSum(m.Store(), nil, nil, RelEq, IntValue(0))
	assert.Error(t, err, "empty term list")

	_, err = NewLinearSum(m.Store(), []Var{x}, []Value{IntValue(1), IntValue(2)}, RelEq, IntValue(0))
	assert.Error(t, err, "length mismatch")

	_, err = NewLinearSum(m.Store(), []Var{x}, []Value{IntValue(0)}, RelEq, IntValue(0))
	assert.Error(t, err, "zero coefficient")

	_, err = NewLinearSum(m.Store(), []Var{x}, []Value{FloatValue(1.0)}, RelEq, IntValue(0))
	assert.ErrorIs(t, err, ErrKindMismatch, "coefficient kind vs bound kind")

	// A float variable under an integer bound is rejected up front, not
	// deep inside a search.
	_, err = NewLinearSum(m.Store(), []Var{f}, []Value{IntValue(1)}, RelEq, IntValue(0))
	assert.ErrorIs(t, err, ErrKindMismatch, "variable kind vs bound kind")

	other := NewModel()
	foreign, err := other.NewIntVar(0, 1)
	require.NoError(t, err)
	_, err = NewLinearSum(m.Store(), []Var{foreign}, []Value{IntValue(1)}, RelEq, IntValue(0))
	var fhe *ForeignHandleError
	assert.ErrorAs(t, err, &fhe)
}

func TestAbsolutePropagation(t *testing.T) {
	m := NewModel()
	x, err := m.NewIntVar(-10, 10)
	require.NoError(t, err)
	y, err := m.NewIntVar(0, 4)
	require.NoError(t, err)
	_, err = m.Post(NewAbsolute(NewView(x), NewView(y)))
	require.NoError(t, err)

	s := NewSolver(m)
	require.NoError(t, propagateRoot(t, s))

	// y = |x| with y <= 4 confines x to [-4, 4].
	assert.Equal(t, int64(-4), m.store.vars[x.id].idom.Min())
	assert.Equal(t, int64(4), m.store.vars[x.id].idom.Max())
}

func TestPostRejectsForeignTriggers(t *testing.T) {
	m := NewModel()
	other := NewModel()
	foreign, err := other.NewIntVar(1, 5)
	require.NoError(t, err)

	_, err = m.Post(NewEqualsConst(NewView(foreign), IntValue(1)))
	var fhe *ForeignHandleError
	assert.ErrorAs(t, err, &fhe)
}

func TestNoOpPropagator(t *testing.T) {
	m := NewModel()
	_, err := m.NewIntVar(1, 3)
	require.NoError(t, err)
	_, err = m.Post(NewNoOp())
	require.NoError(t, err)

	s := NewSolver(m)
	require.NoError(t, propagateRoot(t, s))
	assert.Equal(t, 1, s.Stats().Propagations)
}
