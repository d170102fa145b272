package conditions

import (
	"fmt"

	"github.com/aretw0/verdict/pkg/domain"
	"github.com/aretw0/verdict/pkg/ports"
)

// RangeConfig configures Range. Bounds are inclusive; a nil bound is unconstrained.
type RangeConfig struct {
	CommonConfig        `mapstructure:",squash"`
	Minimum             any    `mapstructure:"minimum"`
	Maximum             any    `mapstructure:"maximum"`
	ConversionLookupKey string `mapstructure:"conversionLookupKey"`
}

// Range checks that a value lies between two bounds using the comparer service.
type Range struct {
	base
	min, max  any
	lookupKey string
}

// NewRange creates a Range condition.
func NewRange(cfg RangeConfig) *Range {
	return &Range{
		base:      newBase(cfg.CommonConfig, TypeRange, domain.CategoryComparison),
		min:       cfg.Minimum,
		max:       cfg.Maximum,
		lookupKey: cfg.ConversionLookupKey,
	}
}

func (c *Range) Evaluate(host ports.ValueHost, resolver ports.Resolver) (domain.TriState, error) {
	target, err := c.resolveHost(host, resolver)
	if err != nil {
		return domain.Undetermined, err
	}
	value := target.Value()
	if value == nil || domain.IsUndefined(value) {
		return domain.Undetermined, nil
	}
	comparer, err := comparerOf(c.base, resolver)
	if err != nil {
		return domain.Undetermined, err
	}

	if c.min != nil {
		switch cmp := comparer.Compare(value, c.min, c.lookupKey, c.lookupKey); cmp {
		case domain.LessThan:
			return domain.NoMatch, nil
		case domain.ComparisonUndefined, domain.NotEquals:
			c.warnMismatch(resolver, target, "minimum", value, c.min)
			return domain.Undetermined, nil
		}
	}
	if c.max != nil {
		switch cmp := comparer.Compare(value, c.max, c.lookupKey, c.lookupKey); cmp {
		case domain.GreaterThan:
			return domain.NoMatch, nil
		case domain.ComparisonUndefined, domain.NotEquals:
			c.warnMismatch(resolver, target, "maximum", value, c.max)
			return domain.Undetermined, nil
		}
	}
	return domain.Match, nil
}

func (c *Range) warnMismatch(resolver ports.Resolver, target ports.ValueHost, property string, value, bound any) {
	loggerOf(resolver).Warn("range bound cannot be compared with value",
		"condition_type", c.conditionType,
		"value_host", target.Name(),
		"property", property,
		"value_type", typeName(value),
		"bound_type", typeName(bound),
	)
}

// Operator selects the relation tested by a Compare condition.
type Operator string

const (
	OpEqualTo            Operator = TypeEqualTo
	OpNotEqualTo         Operator = TypeNotEqualTo
	OpLessThan           Operator = TypeLessThan
	OpLessThanOrEqual    Operator = TypeLessThanOrEqual
	OpGreaterThan        Operator = TypeGreaterThan
	OpGreaterThanOrEqual Operator = TypeGreaterThanOrEqual
)

// CompareConfig configures the pairwise comparison conditions.
// SecondValueHostName takes precedence over SecondValue when the value host exists.
type CompareConfig struct {
	CommonConfig              `mapstructure:",squash"`
	SecondValue               any    `mapstructure:"secondValue"`
	SecondValueHostName       string `mapstructure:"secondValueHostName"`
	ConversionLookupKey       string `mapstructure:"conversionLookupKey"`
	SecondConversionLookupKey string `mapstructure:"secondConversionLookupKey"`
}

// Compare relates the value of a host to a literal or to another value host.
type Compare struct {
	base
	op            Operator
	secondValue   any
	secondName    string
	lookupKey     string
	secondLookKey string
}

// NewCompare creates a pairwise comparison for op.
func NewCompare(op Operator, cfg CompareConfig) (*Compare, error) {
	if cfg.SecondValue == nil && cfg.SecondValueHostName == "" {
		return nil, &ConfigError{ConditionType: string(op), ValueHostName: cfg.ValueHostName,
			Property: "secondValue", Reason: "neither secondValue nor secondValueHostName is set",
			Err: domain.ErrMissingSecondOperand}
	}
	return &Compare{
		base:          newBase(cfg.CommonConfig, string(op), domain.CategoryComparison),
		op:            op,
		secondValue:   cfg.SecondValue,
		secondName:    cfg.SecondValueHostName,
		lookupKey:     cfg.ConversionLookupKey,
		secondLookKey: cfg.SecondConversionLookupKey,
	}, nil
}

func (c *Compare) GatherValueHostNames(into map[string]struct{}) {
	c.base.GatherValueHostNames(into)
	if c.secondName != "" {
		into[c.secondName] = struct{}{}
	}
}

func (c *Compare) Evaluate(host ports.ValueHost, resolver ports.Resolver) (domain.TriState, error) {
	target, err := c.resolveHost(host, resolver)
	if err != nil {
		return domain.Undetermined, err
	}
	value := target.Value()
	if domain.IsUndefined(value) {
		return domain.Undetermined, nil
	}

	second, err := c.second(target, resolver)
	if err != nil {
		return domain.Undetermined, err
	}
	if domain.IsUndefined(second) {
		return domain.Undetermined, nil
	}

	comparer, err := comparerOf(c.base, resolver)
	if err != nil {
		return domain.Undetermined, err
	}
	return c.relate(comparer.Compare(value, second, c.lookupKey, c.secondLookKey)), nil
}

func (c *Compare) second(target ports.ValueHost, resolver ports.Resolver) (any, error) {
	if c.secondName != "" && resolver != nil {
		if other, ok := resolver.ValueHost(c.secondName); ok {
			return other.Value(), nil
		}
	}
	if c.secondValue != nil {
		return c.secondValue, nil
	}
	return nil, fault(loggerOf(resolver), &ConfigError{
		ConditionType: c.conditionType,
		ValueHostName: target.Name(),
		Property:      "secondValueHostName",
		Reason:        c.secondName,
		Err:           domain.ErrValueHostNotFound,
	})
}

func (c *Compare) relate(cmp domain.ComparisonResult) domain.TriState {
	if cmp == domain.ComparisonUndefined {
		return domain.Undetermined
	}

	var ok bool
	switch c.op {
	case OpEqualTo:
		ok = cmp == domain.Equals
	case OpNotEqualTo:
		ok = cmp != domain.Equals
	default:
		// Ordering operators cannot relate values that are merely unequal.
		if cmp == domain.NotEquals {
			return domain.Undetermined
		}
		switch c.op {
		case OpLessThan:
			ok = cmp == domain.LessThan
		case OpLessThanOrEqual:
			ok = cmp == domain.LessThan || cmp == domain.Equals
		case OpGreaterThan:
			ok = cmp == domain.GreaterThan
		case OpGreaterThanOrEqual:
			ok = cmp == domain.GreaterThan || cmp == domain.Equals
		}
	}

	if ok {
		return domain.Match
	}
	return domain.NoMatch
}

func typeName(v any) string {
	return fmt.Sprintf("%T", v)
}
