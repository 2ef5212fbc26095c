package accounting

import (
	"context"
	"sync"
)

// contextKey is a private type for context values carried by this
// package.
type contextKey string

// accountantKey is the context key under which an accountant travels.
const accountantKey contextKey = "accountant"

// WithAccountant returns a context carrying the given accountant.
// Context carriage is the per-goroutine analogue of a scoped default:
// every resolution through the returned context (and its children)
// prefers this accountant over the scope stack and the shared default.
func WithAccountant(ctx context.Context, acc *Accountant) context.Context {
	return context.WithValue(ctx, accountantKey, acc)
}

// FromContext returns the accountant carried by ctx, or nil.
func FromContext(ctx context.Context) *Accountant {
	if ctx == nil {
		return nil
	}
	acc, _ := ctx.Value(accountantKey).(*Accountant)
	return acc
}

// Resolver determines which accountant a call site should charge when
// none is supplied explicitly. Resolution order is a fixed priority
// list:
//
//  1. the explicit argument - parametrization always wins
//  2. an accountant carried by the context
//  3. the top of the scope stack (most recent Activate)
//  4. the shared default installed via SetDefault
//  5. a fresh unbounded accountant, so unaccounted code still runs but
//     accrues no enforceable guarantee
//
// The scope stack and default slot are shared mutable state guarded by
// the resolver's own mutex.
type Resolver struct {
	mu    sync.Mutex
	stack []*Accountant
	def   *Accountant
}

// NewResolver returns a resolver with an empty scope stack and no
// default.
func NewResolver() *Resolver {
	return &Resolver{}
}

// Resolve returns the effective accountant for a call site, following
// the priority list documented on Resolver. It never returns nil.
func (r *Resolver) Resolve(ctx context.Context, explicit *Accountant) *Accountant {
	if explicit != nil {
		return explicit
	}
	if acc := FromContext(ctx); acc != nil {
		return acc
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if n := len(r.stack); n > 0 {
		return r.stack[n-1]
	}
	if r.def != nil {
		return r.def
	}
	return NewUnbounded()
}

// SetDefault installs acc as the long-lived shared default until
// replaced by another call. A nil acc clears the default.
func (r *Resolver) SetDefault(acc *Accountant) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.def = acc
}

// Default returns the currently installed shared default, or nil.
func (r *Resolver) Default() *Accountant {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.def
}

// Push makes acc the scoped default and returns a release function that
// restores the previous state. Release is idempotent and removes acc by
// identity rather than popping blindly, so out-of-order releases from
// abnormal exit paths cannot restore the wrong accountant.
//
// The intended shape is a guard:
//
//	defer resolver.Push(acc)()
func (r *Resolver) Push(acc *Accountant) (release func()) {
	r.mu.Lock()
	r.stack = append(r.stack, acc)
	r.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			r.mu.Lock()
			defer r.mu.Unlock()
			for i := len(r.stack) - 1; i >= 0; i-- {
				if r.stack[i] == acc {
					r.stack = append(r.stack[:i], r.stack[i+1:]...)
					return
				}
			}
		})
	}
}

// defaultResolver is the process-wide resolver used by the package-level
// convenience API.
var defaultResolver = NewResolver()

// DefaultResolver returns the process-wide resolver.
func DefaultResolver() *Resolver {
	return defaultResolver
}

// Resolve resolves against the process-wide resolver.
func Resolve(ctx context.Context, explicit *Accountant) *Accountant {
	return defaultResolver.Resolve(ctx, explicit)
}

// SetDefault installs this accountant as the process-wide default until
// another call replaces it or an active scope overrides it.
func (a *Accountant) SetDefault() {
	defaultResolver.SetDefault(a)
}

// Activate pushes this accountant onto the process-wide scope stack,
// making it the resolution target for every nested spend that does not
// name an accountant. The returned release function restores the prior
// state on every exit path:
//
//	defer acc.Activate()()
func (a *Accountant) Activate() (release func()) {
	return defaultResolver.Push(a)
}
