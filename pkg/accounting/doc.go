// Package accounting tracks cumulative privacy loss across randomized
// computations run against the same dataset and prevents that loss from
// exceeding a declared budget.
//
// # Overview
//
// Individual differential-privacy mechanisms do not decide for
// themselves whether they may run. They report their intended cost to an
// Accountant, which admits or rejects the spend before any result is
// released:
//
//	acc, err := accounting.New(accounting.Config{Epsilon: 5})
//	if err != nil {
//	    // malformed budget
//	}
//
//	if err := acc.Spend(1, 0); err != nil {
//	    // over budget - the mechanism must not release its result
//	}
//
//	total := acc.Total()        // composed (epsilon, delta) so far
//	left := acc.Remaining(1)    // affordable per-query epsilon
//
// # Scope resolution
//
// Call sites that do not name an accountant are resolved through a fixed
// priority list: explicit argument, context value, scope stack, shared
// default, and finally a fresh unbounded accountant that enforces
// nothing. See Resolver.
//
//	defer acc.Activate()()      // scoped default, restored on any exit
//	acc.SetDefault()            // long-lived shared default
//	accounting.Spend(ctx, 1, 0) // resolves, then spends
//
// # Concurrency
//
// An accountant may be shared across goroutines. The check-then-append
// in Spend is one critical section under a per-accountant mutex, so
// concurrent spends can never jointly exceed the budget. Reads take the
// same lock for consistent snapshots.
//
// # Fail-closed contract
//
// A rejected spend surfaces as a typed BudgetError and leaves the ledger
// untouched. It is never retried by the core, never downgraded to a
// warning, and never turned into a silently reduced epsilon.
package accounting
