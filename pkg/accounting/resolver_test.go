package accounting

import (
	"context"
	"testing"
)

// resetResolver clears the process-wide resolver state after a test.
func resetResolver(t *testing.T) {
	t.Helper()
	t.Cleanup(func() {
		defaultResolver.SetDefault(nil)
		defaultResolver.mu.Lock()
		defaultResolver.stack = nil
		defaultResolver.mu.Unlock()
	})
}

func TestResolver_PriorityOrder(t *testing.T) {
	resetResolver(t)

	explicit := mustNew(t, Config{Epsilon: 1, Name: "explicit"})
	inContext := mustNew(t, Config{Epsilon: 1, Name: "context"})
	scoped := mustNew(t, Config{Epsilon: 1, Name: "scoped"})
	shared := mustNew(t, Config{Epsilon: 1, Name: "shared"})

	ctx := WithAccountant(context.Background(), inContext)
	shared.SetDefault()
	release := scoped.Activate()
	defer release()

	// Explicit argument beats everything.
	if got := Resolve(ctx, explicit); got != explicit {
		t.Errorf("Expected explicit accountant, got %q", got.Name())
	}

	// Context beats the scope stack and the shared default.
	if got := Resolve(ctx, nil); got != inContext {
		t.Errorf("Expected context accountant, got %q", got.Name())
	}

	// Scope stack beats the shared default.
	if got := Resolve(context.Background(), nil); got != scoped {
		t.Errorf("Expected scoped accountant, got %q", got.Name())
	}

	// Shared default is used once the scope is released.
	release()
	if got := Resolve(context.Background(), nil); got != shared {
		t.Errorf("Expected shared default, got %q", got.Name())
	}

	// With nothing in scope, resolution falls back to a fresh unbounded
	// accountant.
	defaultResolver.SetDefault(nil)
	if got := Resolve(context.Background(), nil); !got.Unbounded() {
		t.Errorf("Expected unbounded fallback, got %q", got.Name())
	}
}

func TestResolver_NestedScopes(t *testing.T) {
	resetResolver(t)

	outer := mustNew(t, Config{Epsilon: 1, Name: "outer"})
	inner := mustNew(t, Config{Epsilon: 1, Name: "inner"})

	releaseOuter := outer.Activate()
	releaseInner := inner.Activate()

	if got := Resolve(context.Background(), nil); got != inner {
		t.Errorf("Expected inner scope, got %q", got.Name())
	}

	releaseInner()
	if got := Resolve(context.Background(), nil); got != outer {
		t.Errorf("Expected outer scope after inner release, got %q", got.Name())
	}

	releaseOuter()
}

func TestResolver_ReleaseIsIdempotent(t *testing.T) {
	resetResolver(t)

	a := mustNew(t, Config{Epsilon: 1, Name: "a"})
	b := mustNew(t, Config{Epsilon: 1, Name: "b"})

	releaseA := a.Activate()
	releaseB := b.Activate()

	// Releasing twice must not pop someone else's scope.
	releaseB()
	releaseB()

	if got := Resolve(context.Background(), nil); got != a {
		t.Errorf("Expected scope a after double release of b, got %q", got.Name())
	}
	releaseA()
}

func TestResolver_RestoredOnPanic(t *testing.T) {
	resetResolver(t)

	outer := mustNew(t, Config{Epsilon: 1, Name: "outer"})
	inner := mustNew(t, Config{Epsilon: 1, Name: "inner"})

	releaseOuter := outer.Activate()
	defer releaseOuter()

	func() {
		defer func() {
			if r := recover(); r == nil {
				t.Fatal("Expected the panic to propagate")
			}
		}()
		defer inner.Activate()()
		panic("mechanism failed")
	}()

	if got := Resolve(context.Background(), nil); got != outer {
		t.Errorf("Expected outer scope restored after panic, got %q", got.Name())
	}
}

func TestSpend_ResolutionStylesAreEquivalent(t *testing.T) {
	resetResolver(t)

	// The same budget reached through explicit, default, and scoped
	// resolution must behave identically.

	// Explicit parametrization.
	explicit := mustNew(t, Config{Epsilon: 5, Name: "style-explicit"})
	if err := explicit.Spend(1.618, 0); err != nil {
		t.Fatalf("Explicit spend rejected: %v", err)
	}
	if total := explicit.Total(); !approxEqual(total.Epsilon, 1.618) {
		t.Errorf("Expected explicit total 1.618, got %v", total.Epsilon)
	}

	// Shared default.
	def := mustNew(t, Config{Epsilon: 5, Name: "style-default"})
	def.SetDefault()
	charged, err := Spend(context.Background(), 2.718, 0)
	if err != nil {
		t.Fatalf("Default-resolved spend rejected: %v", err)
	}
	if charged != def {
		t.Errorf("Expected spend charged to %q, got %q", def.Name(), charged.Name())
	}
	if total := def.Total(); !approxEqual(total.Epsilon, 2.718) {
		t.Errorf("Expected default total 2.718, got %v", total.Epsilon)
	}

	// Scoped acquisition.
	scoped := mustNew(t, Config{Epsilon: 5, Name: "style-scoped"})
	func() {
		defer scoped.Activate()()
		for i := 0; i < 2; i++ {
			if _, err := Spend(context.Background(), 1.5705, 0); err != nil {
				t.Fatalf("Scoped spend rejected: %v", err)
			}
		}
	}()
	if total := scoped.Total(); !approxEqual(total.Epsilon, 3.141) {
		t.Errorf("Expected scoped total 3.141, got %v", total.Epsilon)
	}
}

func TestSpend_FallsBackToUnbounded(t *testing.T) {
	resetResolver(t)

	charged, err := Spend(context.Background(), 42, 0)
	if err != nil {
		t.Fatalf("Expected fallback spend admitted, got %v", err)
	}
	if !charged.Unbounded() {
		t.Error("Expected the charge to land on an unbounded accountant")
	}
}

func TestSpend_PropagatesBudgetError(t *testing.T) {
	resetResolver(t)

	acc := mustNew(t, Config{Epsilon: 1, Name: "tight"})
	acc.SetDefault()

	charged, err := Spend(context.Background(), 2, 0)
	if err == nil {
		t.Fatal("Expected budget error")
	}
	if charged != acc {
		t.Errorf("Expected the resolved accountant back, got %q", charged.Name())
	}
	if acc.Len() != 0 {
		t.Errorf("Expected ledger untouched, got %d records", acc.Len())
	}
}
