package accounting

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics_RecordSpendOutcomes(t *testing.T) {
	registry := prometheus.NewRegistry()
	metrics := NewMetrics(registry)

	acc := mustNew(t, Config{Epsilon: 1.5, Name: "metered", Metrics: metrics})

	if err := acc.Spend(1, 0); err != nil {
		t.Fatalf("Spend rejected: %v", err)
	}
	if err := acc.Spend(1, 0); err == nil {
		t.Fatal("Expected second spend rejected")
	}

	committed := testutil.ToFloat64(metrics.spends.WithLabelValues("metered", "committed"))
	if committed != 1 {
		t.Errorf("Expected 1 committed spend, got %v", committed)
	}

	rejected := testutil.ToFloat64(metrics.spends.WithLabelValues("metered", "rejected"))
	if rejected != 1 {
		t.Errorf("Expected 1 rejected spend, got %v", rejected)
	}

	rejections := testutil.ToFloat64(metrics.rejections.WithLabelValues("metered"))
	if rejections != 1 {
		t.Errorf("Expected 1 rejection, got %v", rejections)
	}
}

func TestMetrics_UsageGauges(t *testing.T) {
	registry := prometheus.NewRegistry()
	metrics := NewMetrics(registry)

	acc := mustNew(t, Config{Epsilon: 5, Name: "gauged", Metrics: metrics})

	if err := acc.Spend(2, 0); err != nil {
		t.Fatalf("Spend rejected: %v", err)
	}

	spent := testutil.ToFloat64(metrics.epsilonSpent.WithLabelValues("gauged"))
	if spent != 2 {
		t.Errorf("Expected epsilon_spent 2, got %v", spent)
	}

	records := testutil.ToFloat64(metrics.ledgerRecords.WithLabelValues("gauged"))
	if records != 1 {
		t.Errorf("Expected 1 ledger record, got %v", records)
	}

	remaining := testutil.ToFloat64(metrics.epsilonRemaining.WithLabelValues("gauged"))
	if remaining < 2.9 || remaining > 3 {
		t.Errorf("Expected remaining epsilon about 3, got %v", remaining)
	}
}
