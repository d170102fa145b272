package verdict

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/verdict/internal/logging"
	"github.com/aretw0/verdict/internal/runtime"
	"github.com/aretw0/verdict/pkg/conditions"
	"github.com/aretw0/verdict/pkg/domain"
	"github.com/aretw0/verdict/pkg/loader"
	"github.com/aretw0/verdict/pkg/ports"
	"github.com/aretw0/verdict/pkg/registry"
)

// SetValueOptions controls the side effects of a value change.
type SetValueOptions = runtime.SetValueOptions

// ValidateOptions controls a validation pass.
type ValidateOptions = runtime.ValidateOptions

// Form is the high-level entry point of the library. It owns the value hosts of one
// form and is not safe for concurrent use; see pkg/session for serialized access.
type Form struct {
	Name string

	manager      *runtime.Manager
	descriptors  []domain.ValueHostDescriptor
	factory      conditions.Creator
	registry     *registry.Registry
	comparer     ports.Comparer
	converter    ports.Converter
	localization domain.LocalizationContext
	hooks        domain.LifecycleHooks
	state        *domain.ManagerState
	logger       *slog.Logger
}

// Option defines a functional option for configuring the Form.
type Option func(*Form)

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Form) {
		f.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(f *Form) {
		f.hooks = f.hooks.Merge(hooks)
	}
}

// WithFactory replaces the condition factory. WithRegistry is ignored when set.
func WithFactory(factory conditions.Creator) Option {
	return func(f *Form) {
		f.factory = factory
	}
}

// WithRegistry sets the functions available to the Function condition.
func WithRegistry(reg *registry.Registry) Option {
	return func(f *Form) {
		f.registry = reg
	}
}

// WithComparer replaces the default comparer service.
func WithComparer(c ports.Comparer) Option {
	return func(f *Form) {
		f.comparer = c
	}
}

// WithConverter replaces the default converter service.
func WithConverter(c ports.Converter) Option {
	return func(f *Form) {
		f.converter = c
	}
}

// WithLocalization sets the culture used to resolve issue messages.
func WithLocalization(loc domain.LocalizationContext) Option {
	return func(f *Form) {
		f.localization = loc
	}
}

// WithState restores a snapshot taken with State from a form with the same descriptors.
func WithState(state *domain.ManagerState) Option {
	return func(f *Form) {
		f.state = state
	}
}

// WithName labels the form in logs.
func WithName(name string) Option {
	return func(f *Form) {
		f.Name = name
	}
}

// New builds a form from its value host descriptors.
func New(descriptors []domain.ValueHostDescriptor, opts ...Option) (*Form, error) {
	f := &Form{descriptors: descriptors}
	for _, opt := range opts {
		opt(f)
	}

	if f.logger == nil {
		f.logger = logging.NewNop()
	}
	if f.Name != "" {
		f.logger = f.logger.With("form", f.Name)
	}
	if f.factory == nil {
		factoryOpts := []conditions.FactoryOption{conditions.WithLogger(f.logger)}
		if f.registry != nil {
			factoryOpts = append(factoryOpts, conditions.WithRegistry(f.registry))
		}
		f.factory = conditions.NewFactory(factoryOpts...)
	}

	m, err := runtime.New(descriptors,
		runtime.WithLogger(f.logger),
		runtime.WithFactory(f.factory),
		runtime.WithComparer(f.comparer),
		runtime.WithConverter(f.converter),
		runtime.WithLocalization(f.localization),
		runtime.WithLifecycleHooks(f.hooks),
		runtime.WithState(f.state),
	)
	if err != nil {
		return nil, err
	}
	f.manager = m
	return f, nil
}

// Open loads a form file (.yaml, .yml or .json) and builds the form.
func Open(path string, opts ...Option) (*Form, error) {
	def, err := loader.LoadFile(path)
	if err != nil {
		return nil, err
	}
	name := def.Name
	if name == "" {
		name = path
	}
	return New(def.ValueHosts, append([]Option{WithName(name)}, opts...)...)
}

// Descriptors returns the value host descriptors the form was built from.
func (f *Form) Descriptors() []domain.ValueHostDescriptor {
	return f.descriptors
}

// Manager exposes the underlying validation manager.
func (f *Form) Manager() *runtime.Manager {
	return f.manager
}

// SetValue sets the native value of the named value host.
func (f *Form) SetValue(name string, value any, opts SetValueOptions) error {
	h, ok := f.manager.Host(name)
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrValueHostNotFound, name)
	}
	return h.SetValue(value, opts)
}

// SetInputValue sets the raw input value of the named input value host.
func (f *Form) SetInputValue(name string, input any, opts SetValueOptions) error {
	in, ok := f.manager.Input(name)
	if !ok {
		return fmt.Errorf("%w: %s is not an input value host", domain.ErrValueHostNotFound, name)
	}
	return in.SetInputValue(input, opts)
}

// SetValues sets the native and input values of the named input value host together.
func (f *Form) SetValues(name string, value, input any, opts SetValueOptions) error {
	in, ok := f.manager.Input(name)
	if !ok {
		return fmt.Errorf("%w: %s is not an input value host", domain.ErrValueHostNotFound, name)
	}
	return in.SetValues(value, input, opts)
}

// SetValueToUndefined marks the native value of the named value host as unresolved.
func (f *Form) SetValueToUndefined(name string, opts SetValueOptions) error {
	h, ok := f.manager.Host(name)
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrValueHostNotFound, name)
	}
	return h.SetValueToUndefined(opts)
}

// Value returns the native value of the named value host.
func (f *Form) Value(name string) (any, bool) {
	h, ok := f.manager.Host(name)
	if !ok {
		return nil, false
	}
	return h.Value(), true
}

// Validate validates the form.
func (f *Form) Validate(opts ValidateOptions) (domain.ValidateResult, error) {
	return f.manager.Validate(opts)
}

// ResolvePending completes the async conditions started by earlier validations.
func (f *Form) ResolvePending(ctx context.Context) error {
	return f.manager.ResolvePending(ctx)
}

// IsValid reports whether no field, and not the form itself, is Invalid.
func (f *Form) IsValid() bool {
	return f.manager.IsValid()
}

// DoNotSaveNativeValue reports whether the native values are unsafe to save.
func (f *Form) DoNotSaveNativeValue() bool {
	return f.manager.DoNotSaveNativeValue()
}

// SetBusinessLogicErrors replaces the business logic errors of the form.
func (f *Form) SetBusinessLogicErrors(errs []domain.BusinessLogicError) {
	f.manager.SetBusinessLogicErrors(errs)
}

// ClearValidation resets every field to NotAttempted.
func (f *Form) ClearValidation() {
	f.manager.ClearValidation()
}

// IssuesFor returns the issues of a field, or of the form for domain.FormFieldName.
func (f *Form) IssuesFor(name string) []domain.Issue {
	return f.manager.IssuesFor(name)
}

// Summary returns every issue of the form, limited to group when set.
func (f *Form) Summary(group string) []domain.Issue {
	return f.manager.Summary(group)
}

// State returns a serializable snapshot of the form.
func (f *Form) State() *domain.ManagerState {
	return f.manager.State()
}
