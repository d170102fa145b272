package conditions

import (
	"context"

	"github.com/aretw0/verdict/pkg/domain"
	"github.com/aretw0/verdict/pkg/ports"
	"github.com/aretw0/verdict/pkg/registry"
)

// FunctionConfig configures Function.
type FunctionConfig struct {
	CommonConfig `mapstructure:",squash"`
	Function     string `mapstructure:"function"`
}

// Function delegates to an application function looked up in a registry when the
// condition is created. Functions registered as async are only evaluated through
// Capabilities().Async.
type Function struct {
	base
	name  string
	fn    registry.RuleFunction
	async registry.AsyncRuleFunction
}

// NewFunction creates a Function condition bound to a function of reg.
func NewFunction(reg *registry.Registry, cfg FunctionConfig) (*Function, error) {
	if cfg.Function == "" {
		return nil, &ConfigError{ConditionType: TypeFunction, ValueHostName: cfg.ValueHostName,
			Property: "function", Reason: "function name is required", Err: domain.ErrInvalidConfig}
	}
	if reg == nil {
		return nil, &ConfigError{ConditionType: TypeFunction, ValueHostName: cfg.ValueHostName,
			Property: "function", Reason: "no function registry configured", Err: domain.ErrInvalidConfig}
	}
	fn, async, err := reg.Lookup(cfg.Function)
	if err != nil {
		return nil, &ConfigError{ConditionType: TypeFunction, ValueHostName: cfg.ValueHostName,
			Property: "function", Reason: err.Error(), Err: domain.ErrInvalidConfig}
	}
	return &Function{
		base:  newBase(cfg.CommonConfig, TypeFunction, domain.CategoryUndetermined),
		name:  cfg.Function,
		fn:    fn,
		async: async,
	}, nil
}

// FunctionName returns the registry name the condition is bound to.
func (c *Function) FunctionName() string { return c.name }

func (c *Function) Evaluate(host ports.ValueHost, resolver ports.Resolver) (domain.TriState, error) {
	target, err := c.resolveHost(host, resolver)
	if err != nil {
		return domain.Undetermined, err
	}
	if c.fn == nil || domain.IsUndefined(target.Value()) {
		return domain.Undetermined, nil
	}
	return c.fn(target, resolver), nil
}

func (c *Function) Capabilities() Capabilities {
	if c.async == nil {
		return Capabilities{}
	}
	return Capabilities{Async: c.evaluateAsync}
}

func (c *Function) evaluateAsync(ctx context.Context, host ports.ValueHost, resolver ports.Resolver) (domain.TriState, error) {
	target, err := c.resolveHost(host, resolver)
	if err != nil {
		return domain.Undetermined, err
	}
	if domain.IsUndefined(target.Value()) {
		return domain.Undetermined, nil
	}
	return c.async(ctx, target, resolver)
}
