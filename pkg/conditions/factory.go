package conditions

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/aretw0/verdict/internal/logging"
	"github.com/aretw0/verdict/pkg/domain"
	"github.com/aretw0/verdict/pkg/registry"
	"github.com/mitchellh/mapstructure"
)

// Built-in condition types.
const (
	TypeRequireText        = "RequireText"
	TypeNotNull            = "NotNull"
	TypeRegExp             = "RegExp"
	TypeStringLength       = "StringLength"
	TypeRange              = "Range"
	TypeEqualTo            = "EqualTo"
	TypeNotEqualTo         = "NotEqualTo"
	TypeLessThan           = "LessThan"
	TypeLessThanOrEqual    = "LessThanOrEqual"
	TypeGreaterThan        = "GreaterThan"
	TypeGreaterThanOrEqual = "GreaterThanOrEqual"
	TypeDataTypeCheck      = "DataTypeCheck"
	TypeFunction           = "Function"
	TypeAllMatch           = "AllMatch"
	TypeAnyMatch           = "AnyMatch"
	TypeCountMatches       = "CountMatches"
	TypeNot                = "Not"
)

// Constructor builds a condition from its config. Compound constructors use creator
// to instantiate their children.
type Constructor func(creator Creator, cfg domain.ConditionConfig) (Condition, error)

// Factory creates conditions by conditionType.
type Factory struct {
	mu           sync.RWMutex
	constructors map[string]Constructor
	registry     *registry.Registry
	logger       *slog.Logger
}

// FactoryOption configures a Factory.
type FactoryOption func(*Factory)

// WithRegistry sets the function registry used by the Function condition.
func WithRegistry(reg *registry.Registry) FactoryOption {
	return func(f *Factory) {
		f.registry = reg
	}
}

// WithLogger sets the logger used to report configuration faults.
func WithLogger(logger *slog.Logger) FactoryOption {
	return func(f *Factory) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// NewFactory creates a factory with every built-in condition type registered.
func NewFactory(opts ...FactoryOption) *Factory {
	f := &Factory{
		constructors: make(map[string]Constructor),
		registry:     registry.NewRegistry(),
		logger:       logging.NewNop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	f.registerBuiltins()
	return f
}

// Register adds or replaces the constructor for conditionType.
func (f *Factory) Register(conditionType string, ctor Constructor) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.constructors[conditionType] = ctor
}

// Types lists the registered condition types in sorted order.
func (f *Factory) Types() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	types := make([]string, 0, len(f.constructors))
	for t := range f.constructors {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// Registry returns the function registry bound to the Function condition.
func (f *Factory) Registry() *registry.Registry {
	return f.registry
}

// Create instantiates the condition described by cfg. Configuration faults are
// logged and returned.
func (f *Factory) Create(cfg domain.ConditionConfig) (Condition, error) {
	cond, err := f.build(cfg)
	if err != nil {
		var ce *ConfigError
		if errors.As(err, &ce) {
			return nil, fault(f.logger, ce)
		}
		f.logger.Error("condition creation failed", "condition_type", cfg.Type(), "err", err)
		return nil, err
	}
	return cond, nil
}

func (f *Factory) build(cfg domain.ConditionConfig) (Condition, error) {
	conditionType := cfg.Type()
	f.mu.RLock()
	ctor, ok := f.constructors[conditionType]
	f.mu.RUnlock()
	if !ok {
		return nil, &ConfigError{
			ConditionType: conditionType,
			ValueHostName: cfg.ValueHostName(),
			Property:      domain.KeyConditionType,
			Err:           domain.ErrUnknownConditionType,
		}
	}
	return ctor(childCreator{f}, cfg)
}

// childCreator builds nested conditions without logging, so a fault deep in a tree
// is logged once by the outermost Create.
type childCreator struct {
	f *Factory
}

func (c childCreator) Create(cfg domain.ConditionConfig) (Condition, error) {
	return c.f.build(cfg)
}

// Decode copies cfg into the typed config pointed to by out. Unknown keys are rejected.
func Decode(cfg domain.ConditionConfig, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		TagName:          "mapstructure",
	})
	if err != nil {
		return err
	}
	if err := decoder.Decode(map[string]any(cfg)); err != nil {
		return &ConfigError{
			ConditionType: cfg.Type(),
			ValueHostName: cfg.ValueHostName(),
			Reason:        err.Error(),
			Err:           domain.ErrInvalidConfig,
		}
	}
	return nil
}

// typed adapts a constructor over a decoded config struct.
func typed[C any](build func(creator Creator, cfg C) (Condition, error)) Constructor {
	return func(creator Creator, raw domain.ConditionConfig) (Condition, error) {
		var cfg C
		if err := Decode(raw, &cfg); err != nil {
			return nil, err
		}
		return build(creator, cfg)
	}
}

func compareConstructor(op Operator) Constructor {
	return typed(func(_ Creator, cfg CompareConfig) (Condition, error) {
		return NewCompare(op, cfg)
	})
}

func (f *Factory) registerBuiltins() {
	f.Register(TypeRequireText, typed(func(_ Creator, cfg RequireTextConfig) (Condition, error) {
		return NewRequireText(cfg), nil
	}))
	f.Register(TypeNotNull, typed(func(_ Creator, cfg NotNullConfig) (Condition, error) {
		return NewNotNull(cfg), nil
	}))
	f.Register(TypeRegExp, typed(func(_ Creator, cfg RegExpConfig) (Condition, error) {
		return NewRegExp(cfg)
	}))
	f.Register(TypeStringLength, typed(func(_ Creator, cfg StringLengthConfig) (Condition, error) {
		return NewStringLength(cfg)
	}))
	f.Register(TypeRange, typed(func(_ Creator, cfg RangeConfig) (Condition, error) {
		return NewRange(cfg), nil
	}))
	for _, op := range []Operator{OpEqualTo, OpNotEqualTo, OpLessThan, OpLessThanOrEqual, OpGreaterThan, OpGreaterThanOrEqual} {
		f.Register(string(op), compareConstructor(op))
	}
	f.Register(TypeDataTypeCheck, typed(func(_ Creator, cfg DataTypeCheckConfig) (Condition, error) {
		return NewDataTypeCheck(cfg), nil
	}))
	f.Register(TypeFunction, typed(func(_ Creator, cfg FunctionConfig) (Condition, error) {
		return NewFunction(f.registry, cfg)
	}))
	f.Register(TypeAllMatch, typed(func(creator Creator, cfg CompoundConfig) (Condition, error) {
		return NewAllMatch(creator, cfg)
	}))
	f.Register(TypeAnyMatch, typed(func(creator Creator, cfg CompoundConfig) (Condition, error) {
		return NewAnyMatch(creator, cfg)
	}))
	f.Register(TypeCountMatches, typed(func(creator Creator, cfg CountMatchesConfig) (Condition, error) {
		return NewCountMatches(creator, cfg)
	}))
	f.Register(TypeNot, typed(func(creator Creator, cfg NotConfig) (Condition, error) {
		return NewNot(creator, cfg)
	}))
}

// String implements fmt.Stringer for debugging.
func (f *Factory) String() string {
	return fmt.Sprintf("conditions.Factory%v", f.Types())
}
