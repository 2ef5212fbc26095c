package accounting

import (
	"fmt"
	"sort"
	"sync"

	"mercator-hq/callisto/pkg/config"
)

// Registry maps names to accountants so independent call sites can share
// budgets declared in the catalog. Accountants are only ever added:
// a budget, once built, is immutable for the life of the process.
type Registry struct {
	mu          sync.RWMutex
	accountants map[string]*Accountant
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		accountants: make(map[string]*Accountant),
	}
}

// NewRegistryFromConfig builds an accountant for every catalog entry and
// installs the configured default on the process-wide resolver. The
// metrics argument may be nil.
func NewRegistryFromConfig(cfg *config.Config, metrics *Metrics) (*Registry, error) {
	r := NewRegistry()
	if _, err := r.Reload(cfg, metrics); err != nil {
		return nil, err
	}

	if cfg.Default != "" {
		def, ok := r.Get(cfg.Default)
		if !ok {
			return nil, fmt.Errorf("default accountant %q not found in catalog", cfg.Default)
		}
		def.SetDefault()
	}

	return r, nil
}

// Register adds an accountant under its name. Registering a name twice
// is an error: replacing an accountant would discard committed spend.
func (r *Registry) Register(acc *Accountant) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.accountants[acc.Name()]; exists {
		return fmt.Errorf("accountant %q already registered", acc.Name())
	}
	r.accountants[acc.Name()] = acc
	return nil
}

// Get returns the accountant registered under name.
func (r *Registry) Get(name string) (*Accountant, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	acc, ok := r.accountants[name]
	return acc, ok
}

// Names returns all registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.accountants))
	for name := range r.accountants {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Accountants returns a snapshot of all registered accountants.
func (r *Registry) Accountants() []*Accountant {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Accountant, 0, len(r.accountants))
	for _, acc := range r.accountants {
		out = append(out, acc)
	}
	return out
}

// Reload builds accountants for catalog entries whose names are not yet
// registered and returns the names added, sorted. Existing accountants
// are left untouched even when the catalog now declares a different
// budget for their name: committed privacy loss cannot be renegotiated
// by editing a file.
func (r *Registry) Reload(cfg *config.Config, metrics *Metrics) ([]string, error) {
	var added []string

	for name, ac := range cfg.Accountants {
		if _, exists := r.Get(name); exists {
			continue
		}

		acc, err := New(Config{
			Epsilon: ac.Epsilon,
			Delta:   ac.Delta,
			Slack:   ac.Slack,
			Name:    name,
			Metrics: metrics,
		})
		if err != nil {
			return added, fmt.Errorf("building accountant %q: %w", name, err)
		}
		if err := r.Register(acc); err != nil {
			return added, err
		}
		added = append(added, name)
	}

	sort.Strings(added)
	return added, nil
}
