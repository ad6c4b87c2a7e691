package solver

// errors.go: the failure taxonomy for model construction and search.
//
// Construction-time errors (InvalidDomainError, ForeignHandleError) are
// surfaced to the caller immediately and never retried. Domain emptiness
// during propagation is an internal signal (ErrInconsistent) that triggers
// backtracking; it only escapes as ErrUnsatisfiable when it happens at the
// root with no choice points left. Budget expiry (ErrSearchLimitReached or
// the context error) is always distinguishable from unsatisfiability because
// the true status is unknown.

import (
	"errors"
	"fmt"
)

// ErrInconsistent signals that a propagator emptied a domain. It is recovered
// locally by backtracking and never unwinds past the search driver.
var ErrInconsistent = errors.New("domain wiped out during propagation")

// ErrUnsatisfiable indicates the search exhausted every choice point without
// finding a consistent total assignment.
var ErrUnsatisfiable = errors.New("no solution exists")

// ErrSearchLimitReached indicates a run terminated due to a configured search
// limit (for example a node limit). Any incumbent returned alongside it is
// valid, but optimality or unsatisfiability is not proven.
var ErrSearchLimitReached = errors.New("search limit reached")

// ErrKindMismatch indicates an operation combined an integer and a float
// quantity without an explicit conversion.
var ErrKindMismatch = errors.New("mixed integer/float operands require explicit conversion")

// InvalidDomainError reports an empty variable domain: declared with lo > hi
// or an empty explicit value set, or found already emptied at validation.
// Name identifies the variable when the error comes from an existing one;
// it is empty for construction-time failures.
type InvalidDomainError struct {
	Kind VarKind
	Name string
	Lo   Value
	Hi   Value
}

func (e *InvalidDomainError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("invalid %s domain for %s: lo %s > hi %s", e.Kind, e.Name, e.Lo, e.Hi)
	}
	return fmt.Sprintf("invalid %s domain: lo %s > hi %s", e.Kind, e.Lo, e.Hi)
}

// ForeignHandleError reports a variable handle used against a store that did
// not create it.
type ForeignHandleError struct {
	Handle Var
	Store  uint32
}

func (e *ForeignHandleError) Error() string {
	return fmt.Sprintf("variable v%d belongs to store %d, not store %d",
		e.Handle.id, e.Handle.store, e.Store)
}
