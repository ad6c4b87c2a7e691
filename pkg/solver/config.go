package solver

// config.go: solver configuration and search heuristics.

import (
	"io"

	"github.com/sirupsen/logrus"
)

// VariableHeuristic selects which undetermined variable the search branches
// on next.
type VariableHeuristic int

const (
	// HeuristicDom branches on the variable with the smallest remaining
	// domain (first-fail).
	HeuristicDom VariableHeuristic = iota
	// HeuristicLex branches on the lowest-numbered undetermined variable,
	// i.e. first-declared order.
	HeuristicLex
)

// ValueHeuristic selects the order in which an integer variable's values are
// tried at a choice point. Float variables always bisect.
type ValueHeuristic int

const (
	// ValueAscending tries values smallest-first.
	ValueAscending ValueHeuristic = iota
	// ValueDescending tries values largest-first.
	ValueDescending
)

// ProgressFunc receives a read-only statistics snapshot at a bounded cadence
// during search. It must not mutate solver state; it runs synchronously on
// the solving goroutine.
type ProgressFunc func(Stats)

// SolverConfig holds numeric precision settings, search heuristics, resource
// budgets and observability hooks.
type SolverConfig struct {
	// Precision is the float domain step size, e.g. 1e-6 for six decimal
	// digits. All float bounds are quantized to multiples of this step.
	Precision float64

	// ULPTolerance is the bit-pattern distance within which two floats
	// compare equal. Independent of Precision: it serves equality testing,
	// not domain enumeration.
	ULPTolerance int64

	// VariableHeuristic and ValueHeuristic control branching order.
	VariableHeuristic VariableHeuristic
	ValueHeuristic    ValueHeuristic

	// NodeLimit bounds the number of search nodes explored; <= 0 means
	// unlimited. On expiry the search unwinds cleanly and reports
	// ErrSearchLimitReached.
	NodeLimit int

	// ProgressInterval invokes Progress every N nodes; <= 0 disables it.
	ProgressInterval int
	Progress         ProgressFunc

	// Logger receives debug-level search traces (branch decisions, incumbent
	// updates, fixpoint failures). Defaults to a discard logger.
	Logger logrus.FieldLogger
}

// DefaultSolverConfig returns the standard configuration: 1e-6 precision,
// 4-ULP equality tolerance, first-fail variable ordering, ascending values,
// no limits, silent logger.
func DefaultSolverConfig() *SolverConfig {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return &SolverConfig{
		Precision:         1e-6,
		ULPTolerance:      defaultULPTolerance,
		VariableHeuristic: HeuristicDom,
		ValueHeuristic:    ValueAscending,
		Logger:            l,
	}
}

// normalize fills zero-valued fields with defaults so partially constructed
// configs behave.
func (c *SolverConfig) normalize() {
	if c.Precision <= 0 {
		c.Precision = 1e-6
	}
	if c.ULPTolerance <= 0 {
		c.ULPTolerance = defaultULPTolerance
	}
	if c.Logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		c.Logger = l
	}
}
