package conditions

import (
	"context"
	"log/slog"

	"github.com/aretw0/verdict/internal/logging"
	"github.com/aretw0/verdict/pkg/domain"
	"github.com/aretw0/verdict/pkg/ports"
)

// Condition is a single business rule evaluated to a tri-state result.
// Instances are immutable once constructed.
type Condition interface {
	// ConditionType returns the discriminator used to create the condition.
	ConditionType() string

	// Category groups the condition by purpose.
	Category() domain.ConditionCategory

	// Evaluate runs the rule against host, or against the value host named in the
	// condition's own config. The error is reserved for configuration faults.
	Evaluate(host ports.ValueHost, resolver ports.Resolver) (domain.TriState, error)

	// GatherValueHostNames adds every value host name the condition references by name.
	GatherValueHostNames(into map[string]struct{})

	// Capabilities describes the optional evaluation paths.
	Capabilities() Capabilities
}

// Capabilities lists optional evaluation paths. A nil field means "not supported".
type Capabilities struct {
	// DuringEdit evaluates the raw input text while the user is still typing.
	DuringEdit func(text string, host ports.ValueHost) domain.TriState

	// Async evaluates the rule when the result requires blocking work.
	// Conditions exposing Async return domain.Undetermined from Evaluate.
	Async AsyncEvaluator
}

// AsyncEvaluator produces a result that is not available synchronously.
type AsyncEvaluator func(ctx context.Context, host ports.ValueHost, resolver ports.Resolver) (domain.TriState, error)

// Creator instantiates conditions from configs.
type Creator interface {
	Create(cfg domain.ConditionConfig) (Condition, error)
}

// CommonConfig holds the properties shared by every condition.
type CommonConfig struct {
	ConditionType string                   `mapstructure:"conditionType"`
	ValueHostName string                   `mapstructure:"valueHostName"`
	Category      domain.ConditionCategory `mapstructure:"category"`
}

// base carries identity shared by the concrete conditions.
type base struct {
	conditionType string
	category      domain.ConditionCategory
	valueHostName string
}

func newBase(common CommonConfig, conditionType string, category domain.ConditionCategory) base {
	b := base{
		conditionType: conditionType,
		category:      category,
		valueHostName: common.ValueHostName,
	}
	if common.Category != "" {
		b.category = common.Category
	}
	return b
}

func (b base) ConditionType() string              { return b.conditionType }
func (b base) Category() domain.ConditionCategory { return b.category }
func (b base) Capabilities() Capabilities         { return Capabilities{} }

func (b base) GatherValueHostNames(into map[string]struct{}) {
	if b.valueHostName != "" {
		into[b.valueHostName] = struct{}{}
	}
}

// resolveHost returns the value host the condition targets: its own valueHostName when
// configured, otherwise host. An unknown name is a configuration fault.
func (b base) resolveHost(host ports.ValueHost, resolver ports.Resolver) (ports.ValueHost, error) {
	if b.valueHostName == "" {
		if host == nil {
			return nil, fault(loggerOf(resolver), &ConfigError{
				ConditionType: b.conditionType,
				Property:      domain.KeyValueHostName,
				Reason:        "no value host supplied and none configured",
				Err:           domain.ErrValueHostNotFound,
			})
		}
		return host, nil
	}
	if resolver != nil {
		if target, ok := resolver.ValueHost(b.valueHostName); ok {
			return target, nil
		}
	}
	return nil, fault(loggerOf(resolver), &ConfigError{
		ConditionType: b.conditionType,
		ValueHostName: b.valueHostName,
		Property:      domain.KeyValueHostName,
		Err:           domain.ErrValueHostNotFound,
	})
}

func servicesOf(resolver ports.Resolver) ports.Services {
	if resolver == nil {
		return ports.Services{}
	}
	return resolver.Services()
}

func loggerOf(resolver ports.Resolver) *slog.Logger {
	if l := servicesOf(resolver).Logger; l != nil {
		return l
	}
	return logging.NewNop()
}

func comparerOf(b base, resolver ports.Resolver) (ports.Comparer, error) {
	if c := servicesOf(resolver).Comparer; c != nil {
		return c, nil
	}
	return nil, fault(loggerOf(resolver), &ConfigError{
		ConditionType: b.conditionType,
		ValueHostName: b.valueHostName,
		Reason:        "no comparer service available",
		Err:           domain.ErrInvalidConfig,
	})
}

func boolOr(p *bool, fallback bool) bool {
	if p == nil {
		return fallback
	}
	return *p
}
