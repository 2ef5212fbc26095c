package composition

import (
	"math"

	"mercator-hq/callisto/pkg/accounting/ledger"
)

// maxBisectIter caps the bisection loop. 200 halvings shrink any starting
// interval far below every useful tolerance; the cap only guards against
// pathological tolerance values.
const maxBisectIter = 200

// Naive returns the naive composition bound: epsilon and delta are the
// coordinatewise sums over all records. Delta is clamped at 1, the point
// where the guarantee is vacuous anyway.
func Naive(records []ledger.Record) (epsilon, delta float64) {
	for _, r := range records {
		epsilon += r.Epsilon
		delta += r.Delta
	}
	return epsilon, math.Min(delta, 1)
}

// Advanced returns the strong composition bound for the given slack,
// which must lie in (0, 1):
//
//	epsilon = sqrt(2 * ln(1/slack) * sum(eps_i^2)) + sum(eps_i * (e^eps_i - 1))
//	delta   = sum(delta_i) + slack
//
// Delta is clamped at 1. For an empty record set the epsilon term is 0
// but delta still includes the slack.
func Advanced(records []ledger.Record, slack float64) (epsilon, delta float64) {
	var sumSq, sumLinear float64
	for _, r := range records {
		sumSq += r.Epsilon * r.Epsilon
		// math.Expm1 keeps precision for the small epsilons this bound
		// is designed for.
		sumLinear += r.Epsilon * math.Expm1(r.Epsilon)
		delta += r.Delta
	}
	epsilon = math.Sqrt(2*math.Log(1/slack)*sumSq) + sumLinear
	return epsilon, math.Min(delta+slack, 1)
}

// Compose returns the tighter of the naive and advanced bounds, measured
// by epsilon, among candidates whose delta does not exceed deltaCap.
// The advanced bound participates only when slack > 0. Ties go to the
// naive bound, which spends no slack.
//
// When neither candidate fits under deltaCap the naive bound is returned
// unchanged; Admits then rejects on the delta coordinate.
func Compose(records []ledger.Record, slack, deltaCap float64) (epsilon, delta float64) {
	epsilon, delta = Naive(records)

	if slack <= 0 {
		return epsilon, delta
	}

	advEps, advDelta := Advanced(records, slack)
	if advDelta > deltaCap {
		return epsilon, delta
	}
	if delta > deltaCap || advEps < epsilon {
		return advEps, advDelta
	}
	return epsilon, delta
}

// Admits reports whether appending candidate to records keeps the
// composed bound within (epsilonTotal, deltaTotal). The input slice is
// not modified.
func Admits(records []ledger.Record, candidate ledger.Record, epsilonTotal, deltaTotal, slack float64) bool {
	return admitsK(records, candidate, 1, epsilonTotal, deltaTotal, slack)
}

// admitsK reports whether appending k copies of candidate stays within
// budget.
func admitsK(records []ledger.Record, candidate ledger.Record, k int, epsilonTotal, deltaTotal, slack float64) bool {
	extended := make([]ledger.Record, 0, len(records)+k)
	extended = append(extended, records...)
	for i := 0; i < k; i++ {
		extended = append(extended, candidate)
	}

	epsilon, delta := Compose(extended, slack, deltaTotal)
	return epsilon <= epsilonTotal && delta <= deltaTotal
}

// MaxEpsilon returns the supremum per-query epsilon such that k further
// records of (epsilon, deltaPerQuery) are still admitted against the
// budget. It exploits the monotonicity of admission and bisects over
// [0, epsilonTotal] until the bracket is narrower than tol relative to
// its upper end, returning the admissible (lower) endpoint so the result
// never overshoots the budget.
//
// Special cases: k == 0 returns epsilonTotal (the theoretical ceiling,
// nothing further will be appended); an infinite epsilonTotal returns
// +Inf; 0 means not even an arbitrarily small positive query fits.
func MaxEpsilon(records []ledger.Record, epsilonTotal, deltaTotal, slack float64, k int, deltaPerQuery, tol float64) float64 {
	if k <= 0 {
		return epsilonTotal
	}
	if math.IsInf(epsilonTotal, 1) {
		return math.Inf(1)
	}

	admits := func(eps float64) bool {
		return admitsK(records, ledger.Record{Epsilon: eps, Delta: deltaPerQuery}, k, epsilonTotal, deltaTotal, slack)
	}

	// The whole budget may still be affordable, e.g. on a fresh ledger
	// with naive composition.
	if admits(epsilonTotal) {
		return epsilonTotal
	}

	lo, hi := 0.0, epsilonTotal
	for i := 0; i < maxBisectIter && hi-lo > tol*math.Max(hi, 1); i++ {
		mid := lo + (hi-lo)/2
		if admits(mid) {
			lo = mid
		} else {
			hi = mid
		}
	}
	return lo
}
