// Package solver provides constraint programming infrastructure.
// This file defines the Model: the declarative container for variables,
// registered propagators and their dependency table.
package solver

import "fmt"

// Model holds a constraint satisfaction problem: a variable store, the
// registered propagators, and the reverse dependency index (variable ->
// dependent propagator ids). Models are constructed incrementally and are
// immutable during solving except for domain state, which the solving
// session mutates through its Context and rolls back on backtrack.
//
// A Model is exclusively owned by one solving session at a time.
type Model struct {
	store    *Store
	props    []Propagator
	watchers [][]PropID // indexed by variable id
	config   *SolverConfig
}

// NewModel creates an empty model with the default configuration.
func NewModel() *Model {
	return NewModelWithConfig(DefaultSolverConfig())
}

// NewModelWithConfig creates an empty model with a custom configuration.
func NewModelWithConfig(config *SolverConfig) *Model {
	if config == nil {
		config = DefaultSolverConfig()
	}
	config.normalize()
	return &Model{
		store:  NewStore(config.Precision),
		props:  make([]Propagator, 0, 16),
		config: config,
	}
}

// NewIntVar creates an integer decision variable with domain [lo, hi].
// Fails with InvalidDomainError when lo > hi.
func (m *Model) NewIntVar(lo, hi int64) (Var, error) {
	v, err := m.store.NewIntVar(lo, hi)
	if err != nil {
		return Var{}, err
	}
	m.watchers = append(m.watchers, nil)
	return v, nil
}

// NewIntVarValues creates an integer variable holding exactly the given
// values. Fails with InvalidDomainError on an empty value set.
func (m *Model) NewIntVarValues(values ...int64) (Var, error) {
	v, err := m.store.NewIntVarValues(values...)
	if err != nil {
		return Var{}, err
	}
	m.watchers = append(m.watchers, nil)
	return v, nil
}

// NewFloatVar creates a float decision variable with domain [lo, hi],
// quantized to the configured precision.
func (m *Model) NewFloatVar(lo, hi float64) (Var, error) {
	v, err := m.store.NewFloatVar(lo, hi)
	if err != nil {
		return Var{}, err
	}
	m.watchers = append(m.watchers, nil)
	return v, nil
}

// Post registers a propagator. Its trigger set is read once here to extend
// the dependency table; identity and triggers never change afterwards.
// Posting fails if any trigger handle belongs to a different store.
func (m *Model) Post(p Propagator) (PropID, error) {
	if p == nil {
		return 0, fmt.Errorf("cannot post a nil propagator")
	}
	for _, v := range p.Triggers() {
		if _, err := m.store.check(v); err != nil {
			return 0, err
		}
	}
	id := PropID(len(m.props))
	m.props = append(m.props, p)
	for _, v := range p.Triggers() {
		m.watchers[v.id] = append(m.watchers[v.id], id)
	}
	return id, nil
}

// Store exposes the model's variable store for read-only inspection.
func (m *Model) Store() *Store { return m.store }

// Config returns the model's solver configuration.
func (m *Model) Config() *SolverConfig { return m.config }

// VarCount returns the number of decision variables.
func (m *Model) VarCount() int { return m.store.VarCount() }

// PropagatorCount returns the number of registered propagators.
func (m *Model) PropagatorCount() int { return len(m.props) }

// Validate checks that the model is ready for solving: no variable starts
// with an empty domain. Construction-time errors surface here, before any
// search begins.
func (m *Model) Validate() error {
	for i := range m.store.vars {
		if !m.store.isEmpty(i) {
			continue
		}
		vr := &m.store.vars[i]
		e := &InvalidDomainError{Kind: vr.kind, Name: vr.name}
		if vr.kind == IntVar {
			// A wiped sparse set has no meaningful bounds left.
			e.Lo, e.Hi = IntValue(1), IntValue(0)
		} else {
			// An empty interval stores its crossed bounds verbatim.
			e.Lo, e.Hi = FloatValue(vr.fdom.lo), FloatValue(vr.fdom.hi)
		}
		return e
	}
	return nil
}

// String summarizes the model.
func (m *Model) String() string {
	return fmt.Sprintf("Model{variables: %d, propagators: %d}", m.VarCount(), len(m.props))
}
