package conditions

import (
	"github.com/aretw0/verdict/pkg/domain"
	"github.com/aretw0/verdict/pkg/ports"
	"github.com/aretw0/verdict/pkg/services"
)

type fakeHost struct {
	name  string
	kind  domain.ValueHostKind
	value any
	input any
	items map[string]any
}

func newHost(name string, value any) *fakeHost {
	return &fakeHost{name: name, kind: domain.KindStatic, value: value, input: domain.Undefined}
}

func newInputHost(name string, value, input any) *fakeHost {
	return &fakeHost{name: name, kind: domain.KindInput, value: value, input: input}
}

func (h *fakeHost) Name() string               { return h.name }
func (h *fakeHost) Label() string              { return h.name }
func (h *fakeHost) DataType() string           { return "" }
func (h *fakeHost) Kind() domain.ValueHostKind { return h.kind }
func (h *fakeHost) Value() any                 { return h.value }
func (h *fakeHost) InputValue() any            { return h.input }
func (h *fakeHost) ChangeCounter() int         { return 0 }

func (h *fakeHost) Item(key string) (any, bool) {
	v, ok := h.items[key]
	return v, ok
}

func (h *fakeHost) SetItem(key string, value any) {
	if h.items == nil {
		h.items = make(map[string]any)
	}
	h.items[key] = value
}

type fakeResolver struct {
	hosts    map[string]ports.ValueHost
	services ports.Services
}

func newResolver(hosts ...*fakeHost) *fakeResolver {
	r := &fakeResolver{
		hosts:    make(map[string]ports.ValueHost),
		services: ports.Services{Comparer: services.NewComparer(services.NewConverter())},
	}
	for _, h := range hosts {
		r.hosts[h.name] = h
	}
	return r
}

func (r *fakeResolver) ValueHost(name string) (ports.ValueHost, bool) {
	h, ok := r.hosts[name]
	return h, ok
}

func (r *fakeResolver) Services() ports.Services { return r.services }

// fixed is a condition with a predetermined result.
type fixed struct {
	base
	result domain.TriState
	calls  *int
}

func (c fixed) Evaluate(ports.ValueHost, ports.Resolver) (domain.TriState, error) {
	if c.calls != nil {
		*c.calls++
	}
	return c.result, nil
}

// fixedFactory returns a factory that also understands {"conditionType": "Fixed", "result": "..."}.
func fixedFactory(calls *int) *Factory {
	f := NewFactory()
	f.Register("Fixed", func(_ Creator, cfg domain.ConditionConfig) (Condition, error) {
		ts, err := domain.ParseTriState(cfg["result"].(string))
		if err != nil {
			return nil, err
		}
		return fixed{base: base{conditionType: "Fixed"}, result: ts, calls: calls}, nil
	})
	return f
}

func fixedConfigs(results ...domain.TriState) []any {
	out := make([]any, 0, len(results))
	for _, r := range results {
		out = append(out, map[string]any{"conditionType": "Fixed", "result": string(r)})
	}
	return out
}
