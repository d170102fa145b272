package registry

import (
	"context"
	"fmt"
	"sync"

	"github.com/aretw0/verdict/pkg/domain"
	"github.com/aretw0/verdict/pkg/ports"
)

// RuleFunction evaluates an application-specific rule against a value host.
type RuleFunction func(host ports.ValueHost, resolver ports.Resolver) domain.TriState

// AsyncRuleFunction evaluates a rule that needs blocking work, such as a remote lookup.
type AsyncRuleFunction func(ctx context.Context, host ports.ValueHost, resolver ports.Resolver) (domain.TriState, error)

// Registry manages the functions available to the Function condition.
type Registry struct {
	mu    sync.RWMutex
	sync  map[string]RuleFunction
	async map[string]AsyncRuleFunction
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		sync:  make(map[string]RuleFunction),
		async: make(map[string]AsyncRuleFunction),
	}
}

// Register adds a synchronous function to the registry.
// If a function with the same name exists, it is overwritten.
func (r *Registry) Register(name string, fn RuleFunction) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.async, name)
	r.sync[name] = fn
}

// RegisterAsync adds an asynchronous function to the registry.
// If a function with the same name exists, it is overwritten.
func (r *Registry) RegisterAsync(name string, fn AsyncRuleFunction) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sync, name)
	r.async[name] = fn
}

// Lookup returns the function registered under name. Exactly one of the returned
// functions is non-nil when err is nil.
func (r *Registry) Lookup(name string) (RuleFunction, AsyncRuleFunction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if fn, ok := r.sync[name]; ok {
		return fn, nil, nil
	}
	if fn, ok := r.async[name]; ok {
		return nil, fn, nil
	}
	return nil, nil, fmt.Errorf("function not found: %s", name)
}
