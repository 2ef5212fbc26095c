// Package composition implements the composition arithmetic that bounds
// cumulative privacy loss across many expenditures.
//
// # Overview
//
// All functions are pure: they operate on a snapshot of ledger records
// plus a slack parameter and perform no I/O and no mutation. The package
// provides two bounds and the machinery to invert them:
//
//   - Naive composition: epsilon and delta both add up. Exact and always
//     valid.
//   - Advanced (strong) composition: trades a slack of extra delta for a
//     tighter epsilon when many small-epsilon expenditures are summed.
//
// Compose returns whichever bound yields the smaller epsilon for an
// acceptable delta, Admits turns that into an admission predicate, and
// MaxEpsilon inverts the predicate by bisection to answer "what per-query
// epsilon is still affordable".
//
// # Advanced composition bound
//
// For slack s in (0, 1):
//
//	epsilon(s) = sqrt(2 * ln(1/s) * sum(eps_i^2)) + sum(eps_i * (e^eps_i - 1))
//	delta(s)   = sum(delta_i) + s
//
// The bound is valid for any s in (0, 1). It beats naive composition when
// per-record epsilons are small relative to 1/k; for few or large-epsilon
// records naive composition wins, which is why Compose takes the minimum.
//
// # Monotonicity
//
// Both bounds are monotonically increasing in every per-record epsilon and
// delta, so admission is a monotone predicate in a candidate's cost. That
// monotonicity is what makes the bisection in MaxEpsilon well-defined.
package composition
