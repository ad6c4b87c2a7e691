// Package solver implements a propagation-and-search engine for constraint
// satisfaction problems over integer and floating-point decision variables.
//
// The engine is built from five layers:
//
//   - Values and domains: a tagged Int/Float value type, a sparse-set domain
//     for integers, and a step-quantized interval domain for floats.
//   - Views: affine/unary transforms over a variable (offset, positive scale,
//     negation, successor, predecessor) so propagators are written once
//     against transformed quantities rather than concrete variables.
//   - Propagators: constraint filtering behaviors registered against the
//     variables that must re-trigger them.
//   - The context/event gateway: every domain mutation flows through a
//     Context that records which variables changed and how, driving an
//     event-based fixpoint scheduler.
//   - The search driver: depth-first backtracking with trail-based
//     checkpoint/restore, pluggable ordering heuristics, lazy enumeration,
//     and branch-and-bound optimization with an optional pre-solve fast path.
//
// All solving is single-threaded and synchronous; a Model and its Store are
// exclusively owned by one solving session at a time. Cancellation and
// budgets are supported through context.Context and SolverConfig limits.
package solver
