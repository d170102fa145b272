package runtime

import (
	"fmt"
	"log/slog"
	"slices"
	"sort"
	"time"

	"github.com/aretw0/verdict/internal/logging"
	"github.com/aretw0/verdict/pkg/conditions"
	"github.com/aretw0/verdict/pkg/domain"
	"github.com/aretw0/verdict/pkg/ports"
	"github.com/aretw0/verdict/pkg/services"
)

// Manager owns the value hosts of one form and orchestrates their validation.
//
// A Manager is single-threaded: every call, including cross-field ripple, completes on
// the caller's goroutine. Callers that share a Manager must serialize access.
type Manager struct {
	order  []string
	hosts  map[string]*ValueHost
	inputs map[string]*InputValueHost

	// dependents maps a value host name to the input value hosts whose conditions
	// reference it. Rebuilt whenever a value host is added, updated or discarded.
	dependents map[string][]string

	formErrors []domain.BusinessLogicError
	pending    map[string]pendingBatch
	saved      map[string]domain.ValueHostState

	creator  conditions.Creator
	services ports.Services
	hooks    domain.LifecycleHooks
	logger   *slog.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithFactory sets the creator used to instantiate conditions.
func WithFactory(creator conditions.Creator) Option {
	return func(m *Manager) {
		m.creator = creator
	}
}

// WithComparer replaces the default comparer service.
func WithComparer(c ports.Comparer) Option {
	return func(m *Manager) {
		m.services.Comparer = c
	}
}

// WithConverter replaces the default converter service.
func WithConverter(c ports.Converter) Option {
	return func(m *Manager) {
		m.services.Converter = c
	}
}

// WithLocalization sets the culture used to resolve issue messages.
func WithLocalization(loc domain.LocalizationContext) Option {
	return func(m *Manager) {
		m.services.Localization = loc
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(m *Manager) {
		m.hooks = m.hooks.Merge(hooks)
	}
}

// WithState restores the state of a previous Manager built from the same descriptors.
func WithState(state *domain.ManagerState) Option {
	return func(m *Manager) {
		if state == nil {
			return
		}
		for _, s := range state.ValueHosts {
			m.saved[s.Name] = s
		}
		m.formErrors = slices.Clone(state.FormBusinessLogicErrors)
	}
}

// New creates a Manager for descriptors.
func New(descriptors []domain.ValueHostDescriptor, opts ...Option) (*Manager, error) {
	m := &Manager{
		hosts:      make(map[string]*ValueHost),
		inputs:     make(map[string]*InputValueHost),
		dependents: make(map[string][]string),
		pending:    make(map[string]pendingBatch),
		saved:      make(map[string]domain.ValueHostState),
		logger:     logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}

	if m.services.Converter == nil {
		m.services.Converter = services.NewConverter()
	}
	if m.services.Comparer == nil {
		m.services.Comparer = services.NewComparer(m.services.Converter)
	}
	m.services.Logger = m.logger
	if m.creator == nil {
		m.creator = conditions.NewFactory(conditions.WithLogger(m.logger))
	}

	for _, desc := range descriptors {
		if err := m.add(desc); err != nil {
			return nil, err
		}
	}
	m.saved = nil
	m.rebuildDependents()
	return m, nil
}

// ValueHost implements ports.Resolver.
func (m *Manager) ValueHost(name string) (ports.ValueHost, bool) {
	if in, ok := m.inputs[name]; ok {
		return in, true
	}
	if h, ok := m.hosts[name]; ok {
		return h, true
	}
	return nil, false
}

// Services implements ports.Resolver.
func (m *Manager) Services() ports.Services {
	return m.services
}

// Host returns the named value host of any kind.
func (m *Manager) Host(name string) (*ValueHost, bool) {
	h, ok := m.hosts[name]
	return h, ok
}

// Input returns the named input value host.
func (m *Manager) Input(name string) (*InputValueHost, bool) {
	in, ok := m.inputs[name]
	return in, ok
}

func (m *Manager) input(name string) *InputValueHost {
	return m.inputs[name]
}

// Names lists the value hosts in the order they were added.
func (m *Manager) Names() []string {
	return slices.Clone(m.order)
}

// AddValueHost creates a value host. The name must be unused.
func (m *Manager) AddValueHost(desc domain.ValueHostDescriptor) error {
	if err := m.add(desc); err != nil {
		return err
	}
	m.rebuildDependents()
	return nil
}

// UpdateValueHost replaces the descriptor of an existing value host. The value and change
// counter are kept; validation starts over because the rules may have changed.
func (m *Manager) UpdateValueHost(desc domain.ValueHostDescriptor) error {
	old, ok := m.hosts[desc.Name]
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrValueHostNotFound, desc.Name)
	}

	state := domain.NewValueHostState(desc)
	state.Value = old.state.Value
	state.ChangeCounter = old.state.ChangeCounter
	state.Items = old.state.Items
	if state.Kind == domain.KindInput && old.state.Kind == domain.KindInput {
		state.InputValue = old.state.InputValue
		state.BusinessLogicErrors = old.state.BusinessLogicErrors
	}

	h, in, err := m.build(desc, state)
	if err != nil {
		return err
	}
	m.dropPending(desc.Name)
	m.hosts[desc.Name] = h
	delete(m.inputs, desc.Name)
	if in != nil {
		m.inputs[desc.Name] = in
	}
	m.rebuildDependents()
	m.logger.Debug("value host updated", "value_host", desc.Name, "kind", state.Kind)
	return nil
}

// DiscardValueHost removes a value host.
func (m *Manager) DiscardValueHost(name string) error {
	if _, ok := m.hosts[name]; !ok {
		return fmt.Errorf("%w: %s", domain.ErrValueHostNotFound, name)
	}
	delete(m.hosts, name)
	delete(m.inputs, name)
	m.dropPending(name)
	m.order = slices.DeleteFunc(m.order, func(n string) bool { return n == name })
	m.rebuildDependents()
	m.logger.Debug("value host discarded", "value_host", name)
	return nil
}

// Dependents returns the input value hosts whose conditions reference name.
func (m *Manager) Dependents(name string) []string {
	return slices.Clone(m.dependents[name])
}

func (m *Manager) add(desc domain.ValueHostDescriptor) error {
	if desc.Name == "" || desc.Name == domain.FormFieldName {
		return fmt.Errorf("%w: value host name %q is reserved or empty", domain.ErrInvalidConfig, desc.Name)
	}
	if _, exists := m.hosts[desc.Name]; exists {
		return fmt.Errorf("%w: %s", domain.ErrDuplicateValueHost, desc.Name)
	}

	state := domain.NewValueHostState(desc)
	if saved, ok := m.saved[desc.Name]; ok && saved.Kind == state.Kind {
		state = saved
	}

	h, in, err := m.build(desc, state)
	if err != nil {
		return err
	}
	m.hosts[desc.Name] = h
	if in != nil {
		m.inputs[desc.Name] = in
	}
	m.order = append(m.order, desc.Name)
	return nil
}

func (m *Manager) build(desc domain.ValueHostDescriptor, state domain.ValueHostState) (*ValueHost, *InputValueHost, error) {
	h := newValueHost(m, desc, state)
	if h.Kind() != domain.KindInput {
		return h, nil, nil
	}
	in, err := newInputValueHost(h, m.creator)
	if err != nil {
		return nil, nil, fmt.Errorf("value host %s: %w", desc.Name, err)
	}
	return h, in, nil
}

func (m *Manager) rebuildDependents() {
	index := make(map[string][]string)
	for _, name := range m.order {
		in, ok := m.inputs[name]
		if !ok {
			continue
		}
		for ref := range in.refs {
			if ref == name {
				continue
			}
			index[ref] = append(index[ref], name)
		}
	}
	for ref := range index {
		sort.Strings(index[ref])
	}
	m.dependents = index
}

// ripple propagates a value change of source to the input value hosts that depend on
// it. It walks one level only: a rippled value host never ripples further.
func (m *Manager) ripple(source string, revalidate bool) error {
	for _, name := range m.dependents[source] {
		if name == source {
			continue
		}
		in := m.inputs[name]
		if in == nil || in.state.Status == domain.StatusNotAttempted {
			continue
		}

		if revalidate {
			if _, err := in.Validate(ValidateOptions{}); err != nil {
				return err
			}
		} else {
			in.apply(action{typ: actRipple})
			m.dropPending(name)
		}

		m.logger.Debug("ripple", "source", source, "target", name, "revalidated", revalidate)
		if m.hooks.OnRipple != nil {
			m.hooks.OnRipple(&domain.RippleEvent{
				EventBase:   domain.EventBase{Timestamp: time.Now(), Type: domain.EventRipple},
				Source:      source,
				Target:      name,
				Revalidated: revalidate,
			})
		}
	}
	return nil
}
