package accounting

import (
	"errors"
	"fmt"
)

// Budget is the total privacy loss an accountant may admit. It is fixed
// at construction and never mutated.
type Budget struct {
	// Epsilon is the total epsilon budget. May be +Inf for the
	// unbounded fallback accountant.
	Epsilon float64

	// Delta is the total delta budget, in [0, 1].
	Delta float64
}

// Cost is an (epsilon, delta) pair: a spend request, a composed total,
// or a remaining headroom.
type Cost struct {
	Epsilon float64
	Delta   float64
}

// Error sentinels for the two failure classes of the accounting core.
var (
	// ErrInvalidConfig is returned for malformed budget parameters at
	// construction and malformed spend requests.
	ErrInvalidConfig = errors.New("invalid accounting configuration")

	// ErrBudgetExceeded is returned when committing a well-formed spend
	// would push the composed bound past the budget.
	ErrBudgetExceeded = errors.New("privacy budget exceeded")
)

// ConfigError reports a malformed parameter. It is detected synchronously
// before any ledger interaction; values are never silently clamped.
type ConfigError struct {
	// Parameter is the offending parameter name (epsilon, delta, slack).
	Parameter string

	// Value is the rejected value.
	Value float64

	// Reason explains the constraint that was violated.
	Reason string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid %s %v: %s", e.Parameter, e.Value, e.Reason)
}

// Unwrap returns ErrInvalidConfig so callers can match with errors.Is.
func (e *ConfigError) Unwrap() error {
	return ErrInvalidConfig
}

// BudgetError reports a spend that was rejected because it would exceed
// the budget. The ledger is left untouched. Requested and Remaining let
// the caller decide whether to retry at a lower cost; the core never
// retries on its own.
type BudgetError struct {
	// Accountant is the name of the accountant that rejected the spend.
	Accountant string

	// Requested is the cost of the rejected spend.
	Requested Cost

	// Remaining is the accountant's remaining headroom for one further
	// query at the time of rejection.
	Remaining Cost
}

// Error implements the error interface.
func (e *BudgetError) Error() string {
	return fmt.Sprintf("privacy budget exceeded for %s: requested (%g, %g), remaining (%g, %g)",
		e.Accountant, e.Requested.Epsilon, e.Requested.Delta, e.Remaining.Epsilon, e.Remaining.Delta)
}

// Unwrap returns ErrBudgetExceeded so callers can match with errors.Is.
func (e *BudgetError) Unwrap() error {
	return ErrBudgetExceeded
}
