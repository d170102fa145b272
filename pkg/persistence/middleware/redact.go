package middleware

import (
	"context"
	"fmt"
	"regexp"
	"slices"

	"github.com/aretw0/verdict/pkg/domain"
	"github.com/aretw0/verdict/pkg/ports"
)

// Mask replaces redacted values in stored snapshots.
const Mask = "***"

type redactMiddleware struct {
	next     ports.StateStore
	patterns []*regexp.Regexp
}

// NewRedactMiddleware creates a middleware that masks the native and input values of
// value hosts whose name matches one of patterns before they reach the store.
// Issues and validation status are kept, so a reloaded form still reports them.
func NewRedactMiddleware(patterns []string) (Middleware, error) {
	compiled := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid redaction pattern %q: %w", p, err)
		}
		compiled[i] = re
	}
	return func(next ports.StateStore) ports.StateStore {
		return &redactMiddleware{next: next, patterns: compiled}
	}, nil
}

func (m *redactMiddleware) Save(ctx context.Context, sessionID string, state *domain.ManagerState) error {
	// Copy so the caller's published snapshot is untouched.
	cloned := &domain.ManagerState{
		ValueHosts:              slices.Clone(state.ValueHosts),
		FormBusinessLogicErrors: state.FormBusinessLogicErrors,
	}
	for i, vh := range cloned.ValueHosts {
		if !m.matches(vh.Name) {
			continue
		}
		vh.Value = mask(vh.Value)
		vh.InputValue = mask(vh.InputValue)
		vh.Items = nil
		cloned.ValueHosts[i] = vh
	}
	return m.next.Save(ctx, sessionID, cloned)
}

func (m *redactMiddleware) Load(ctx context.Context, sessionID string) (*domain.ManagerState, error) {
	return m.next.Load(ctx, sessionID)
}

func (m *redactMiddleware) Delete(ctx context.Context, sessionID string) error {
	return m.next.Delete(ctx, sessionID)
}

func (m *redactMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}

func (m *redactMiddleware) matches(name string) bool {
	for _, p := range m.patterns {
		if p.MatchString(name) {
			return true
		}
	}
	return false
}

// mask keeps nil and Undefined so absence is still distinguishable after a reload.
func mask(v any) any {
	if v == nil || domain.IsUndefined(v) {
		return v
	}
	return Mask
}
