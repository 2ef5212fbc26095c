package accounting

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/robfig/cron/v3"
)

// Reporter refreshes the spent/remaining gauges for every registered
// accountant on a cron schedule. Spends already update gauges inline;
// the reporter keeps gauges of idle accountants current, so dashboards
// do not show stale remaining-budget values for budgets nobody has
// touched recently.
type Reporter struct {
	registry *Registry
	metrics  *Metrics
	schedule string
	cron     *cron.Cron
	logger   *slog.Logger

	mu      sync.Mutex
	running bool
}

// NewReporter creates a reporter for the given registry and metrics.
//
// Common schedules:
//   - "@every 1m"  - every minute
//   - "0 * * * *"  - hourly on the hour
func NewReporter(registry *Registry, metrics *Metrics, schedule string) *Reporter {
	return &Reporter{
		registry: registry,
		metrics:  metrics,
		schedule: schedule,
		cron:     cron.New(),
		logger:   slog.Default().With("component", "accounting.reporter"),
	}
}

// Start begins scheduled reporting. An empty schedule disables the
// reporter and Start does nothing. The reporter stops when the context
// is cancelled or Stop is called.
func (r *Reporter) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.schedule == "" {
		r.logger.Info("reporting schedule not configured, skipping reporter")
		return nil
	}

	if _, err := cron.ParseStandard(r.schedule); err != nil {
		return fmt.Errorf("invalid reporting schedule %q: %w", r.schedule, err)
	}

	if _, err := r.cron.AddFunc(r.schedule, r.refresh); err != nil {
		return fmt.Errorf("failed to schedule reporting: %w", err)
	}

	r.cron.Start()
	r.running = true

	r.logger.Info("budget reporter started", "schedule", r.schedule)

	go func() {
		<-ctx.Done()
		r.Stop()
	}()

	return nil
}

// refresh exports current usage for every registered accountant.
func (r *Reporter) refresh() {
	for _, acc := range r.registry.Accountants() {
		total := acc.Total()
		remaining := acc.Remaining(1)
		r.metrics.UpdateUsage(acc.Name(), total, remaining.Epsilon, acc.Len())
	}
	r.logger.Debug("budget gauges refreshed",
		"accountants", len(r.registry.Names()),
	)
}

// Stop stops the scheduler and waits for a running refresh to finish.
func (r *Reporter) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cron != nil && r.running {
		ctx := r.cron.Stop()
		<-ctx.Done()
		r.running = false
		r.logger.Info("budget reporter stopped")
	}
}

// IsRunning reports whether the reporter is running.
func (r *Reporter) IsRunning() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}
