package accounting

import (
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"

	"mercator-hq/callisto/pkg/accounting/composition"
	"mercator-hq/callisto/pkg/accounting/ledger"
)

// remainingTolerance is the relative tolerance of the bisection that
// inverts the composed bound in Remaining. Documented and fixed so the
// behavior is reproducible across implementations.
const remainingTolerance = 1e-9

// Config contains construction parameters for an Accountant.
type Config struct {
	// Epsilon is the total epsilon budget. Must be >= 0.
	Epsilon float64

	// Delta is the total delta budget. Must be in [0, 1).
	Delta float64

	// Slack is the delta set aside for the advanced composition bound.
	// Must be in [0, Delta]; in particular it must be 0 when Delta is 0,
	// since slack cannot manufacture delta budget that was never granted.
	Slack float64

	// Name identifies the accountant in logs, errors, and metric labels.
	// A random UUID is assigned when empty.
	Name string

	// Logger is the structured logger to use. Defaults to
	// slog.Default() with a component attribute.
	Logger *slog.Logger

	// Metrics receives per-spend observations when non-nil.
	Metrics *Metrics
}

// Accountant tracks cumulative privacy spend against a fixed budget and
// rejects spends that would exceed it.
//
// The accountant exclusively owns its ledger. The check-then-append
// sequence in Spend runs as a single critical section under a
// per-accountant mutex; without it two concurrent spends could each see
// pre-expenditure totals that look admissible individually but jointly
// blow the budget. Reads take the same lock for a consistent snapshot.
type Accountant struct {
	name      string
	budget    Budget
	slack     float64
	unbounded bool

	ledger  *ledger.Ledger
	logger  *slog.Logger
	metrics *Metrics

	mu sync.Mutex
}

// New creates an Accountant with the given configuration.
//
// Example:
//
//	acc, err := accounting.New(accounting.Config{
//	    Epsilon: 5,
//	    Delta:   1e-6,
//	    Slack:   1e-7,
//	})
//
// It returns a ConfigError when Epsilon is negative, Delta is outside
// [0, 1), or Slack is outside [0, Delta].
func New(cfg Config) (*Accountant, error) {
	if cfg.Epsilon < 0 || math.IsNaN(cfg.Epsilon) {
		return nil, &ConfigError{Parameter: "epsilon", Value: cfg.Epsilon, Reason: "total epsilon budget must be non-negative"}
	}
	if cfg.Delta < 0 || cfg.Delta >= 1 || math.IsNaN(cfg.Delta) {
		return nil, &ConfigError{Parameter: "delta", Value: cfg.Delta, Reason: "total delta budget must be in [0, 1)"}
	}
	if cfg.Slack < 0 || cfg.Slack > cfg.Delta || math.IsNaN(cfg.Slack) {
		return nil, &ConfigError{Parameter: "slack", Value: cfg.Slack, Reason: "slack must be in [0, delta]"}
	}

	name := cfg.Name
	if name == "" {
		name = uuid.NewString()
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default().With("component", "accounting")
	}

	return &Accountant{
		name:    name,
		budget:  Budget{Epsilon: cfg.Epsilon, Delta: cfg.Delta},
		slack:   cfg.Slack,
		ledger:  ledger.New(),
		logger:  logger,
		metrics: cfg.Metrics,
	}, nil
}

// NewUnbounded creates the ephemeral fallback accountant used when no
// accountant is in scope: an effectively unconstrained budget of
// (+Inf, 1). Code written without any accounting still runs against it,
// but accrues no enforceable guarantee. Unbounded reports true so it is
// always distinguishable from a real accountant.
func NewUnbounded() *Accountant {
	return &Accountant{
		name:      uuid.NewString(),
		budget:    Budget{Epsilon: math.Inf(1), Delta: 1},
		unbounded: true,
		ledger:    ledger.New(),
		logger:    slog.Default().With("component", "accounting"),
	}
}

// Name returns the accountant's name.
func (a *Accountant) Name() string {
	return a.name
}

// Budget returns the fixed total budget.
func (a *Accountant) Budget() Budget {
	return a.budget
}

// Slack returns the fixed slack parameter.
func (a *Accountant) Slack() float64 {
	return a.slack
}

// Unbounded reports whether this is the unconstrained fallback
// accountant, which enforces nothing.
func (a *Accountant) Unbounded() bool {
	return a.unbounded
}

// Spend attempts to commit an expenditure of (epsilon, delta).
//
// It returns a ConfigError for a malformed request (epsilon <= 0 or
// delta outside [0, 1)), a BudgetError when committing would exceed the
// budget, and nil on success. A rejected spend leaves the ledger
// byte-for-byte as it was; there is no partial spend and no automatic
// retry. The decision to retry at lower cost belongs to the caller.
func (a *Accountant) Spend(epsilon, delta float64) error {
	if epsilon <= 0 || math.IsNaN(epsilon) {
		return &ConfigError{Parameter: "epsilon", Value: epsilon, Reason: "spend epsilon must be strictly positive"}
	}
	if delta < 0 || delta >= 1 || math.IsNaN(delta) {
		return &ConfigError{Parameter: "delta", Value: delta, Reason: "spend delta must be in [0, 1)"}
	}

	start := time.Now()

	a.mu.Lock()
	defer a.mu.Unlock()

	records := a.ledger.Records()
	candidate := ledger.Record{Epsilon: epsilon, Delta: delta}

	if !composition.Admits(records, candidate, a.budget.Epsilon, a.budget.Delta, a.slack) {
		remaining := a.remainingLocked(1)
		a.logger.Warn("spend rejected",
			"accountant", a.name,
			"epsilon", epsilon,
			"delta", delta,
			"remaining_epsilon", remaining.Epsilon,
			"remaining_delta", remaining.Delta,
		)
		if a.metrics != nil {
			a.metrics.RecordSpend(a.name, false)
			a.metrics.ObserveDuration("spend", time.Since(start).Seconds())
		}
		return &BudgetError{
			Accountant: a.name,
			Requested:  Cost{Epsilon: epsilon, Delta: delta},
			Remaining:  remaining,
		}
	}

	a.ledger.Append(candidate)

	total := a.totalLocked()
	a.logger.Debug("spend committed",
		"accountant", a.name,
		"epsilon", epsilon,
		"delta", delta,
		"total_epsilon", total.Epsilon,
		"total_delta", total.Delta,
		"records", a.ledger.Len(),
	)
	if a.metrics != nil {
		a.metrics.RecordSpend(a.name, true)
		a.metrics.UpdateUsage(a.name, total, a.remainingLocked(1).Epsilon, a.ledger.Len())
		a.metrics.ObserveDuration("spend", time.Since(start).Seconds())
	}
	return nil
}

// Total returns the composed privacy loss over the full ledger. With
// zero slack this is the coordinatewise sum of all committed spends.
func (a *Accountant) Total() Cost {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.totalLocked()
}

// Remaining returns the per-query epsilon such that k further queries of
// equal cost (and zero delta) stay within budget, paired with the
// residual delta headroom. k defaults are the caller's business; k <= 0
// yields the theoretical epsilon ceiling.
func (a *Accountant) Remaining(k int) Cost {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.remainingLocked(k)
}

// Len returns the number of committed spends.
func (a *Accountant) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.ledger.Len()
}

// totalLocked composes the ledger. Caller must hold a.mu.
func (a *Accountant) totalLocked() Cost {
	epsilon, delta := composition.Compose(a.ledger.Records(), a.slack, a.budget.Delta)
	return Cost{Epsilon: epsilon, Delta: delta}
}

// remainingLocked inverts the composed bound. Caller must hold a.mu.
func (a *Accountant) remainingLocked(k int) Cost {
	records := a.ledger.Records()
	epsilon := composition.MaxEpsilon(records, a.budget.Epsilon, a.budget.Delta, a.slack, k, 0, remainingTolerance)
	_, spentDelta := composition.Compose(records, a.slack, a.budget.Delta)
	return Cost{Epsilon: epsilon, Delta: a.budget.Delta - spentDelta}
}
