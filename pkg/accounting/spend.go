package accounting

import "context"

// Spend charges (epsilon, delta) to the accountant resolved from the
// current scope: the context, the scope stack, the shared default, or -
// when nothing is in scope - a fresh unbounded accountant.
//
// It returns the accountant that was charged so callers can tell whether
// the spend landed on a real budget or on the unbounded fallback
// (Unbounded reports true on the latter). Mechanisms that need an
// explicit accountant call its Spend method directly.
func Spend(ctx context.Context, epsilon, delta float64) (*Accountant, error) {
	acc := defaultResolver.Resolve(ctx, nil)
	if err := acc.Spend(epsilon, delta); err != nil {
		return acc, err
	}
	return acc, nil
}
