package tdb

import (
	"context"
	"sync"
)

// GeneratedRulesFunc produces rules computed at runtime rather than
// declared statically — e.g. rules discovered by scanning a directory, or
// rules parsed from an external config file. It is called at most once
// per Registry lifetime, on first materialization.
type GeneratedRulesFunc func(ctx context.Context) ([]NamedRule, error)

// Registry stores rules keyed by target name. It supports a lazy
// "generated rules" hook that merges dynamically produced rules on first
// use; the merged result is then immutable for the Registry's lifetime.
type Registry struct {
	staticOrder []string
	static      map[string]Rule
	hook        GeneratedRulesFunc

	mu      sync.Mutex
	done    bool
	merged  map[string]Rule
	order   []string
	hookErr error
}

// NewRegistry builds a Registry from a static, ordered rule list and an
// optional generated-rules hook. static's order is preserved; later
// entries with a duplicate name overwrite earlier ones without changing
// their position in the enumeration order.
func NewRegistry(static []NamedRule, hook GeneratedRulesFunc) *Registry {
	st := make(map[string]Rule, len(static))
	order := make([]string, 0, len(static))
	for _, nr := range static {
		if _, exists := st[nr.Name]; !exists {
			order = append(order, nr.Name)
		}
		st[nr.Name] = nr.Rule
	}
	return &Registry{staticOrder: order, static: st, hook: hook}
}

// Materialize returns the merged mapping of static and generated rules,
// plus the enumeration order (static-first, then generated, each in
// insertion order). The generated-rules hook, if any, runs at most once;
// its result and any error it returns are cached forever after.
func (r *Registry) Materialize(ctx context.Context) (map[string]Rule, []string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.done {
		return r.merged, r.order, r.hookErr
	}

	merged := make(map[string]Rule, len(r.static))
	order := append([]string{}, r.staticOrder...)
	for name, rule := range r.static {
		merged[name] = rule
	}

	if r.hook != nil {
		generated, err := r.hook(ctx)
		if err != nil {
			r.done = true
			r.hookErr = err
			return nil, nil, err
		}
		for _, nr := range generated {
			if _, exists := merged[nr.Name]; !exists {
				order = append(order, nr.Name)
			}
			// Generated overwrites static on collision — pinned by spec.
			merged[nr.Name] = nr.Rule
		}
	}

	r.merged = merged
	r.order = order
	r.done = true
	return merged, order, nil
}

// Lookup returns the rule for name, if any. It triggers materialization on
// first call.
func (r *Registry) Lookup(ctx context.Context, name string) (Rule, bool, error) {
	all, _, err := r.Materialize(ctx)
	if err != nil {
		return Rule{}, false, err
	}
	rule, ok := all[name]
	return rule, ok, nil
}
