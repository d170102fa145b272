package conditions

import (
	"math"

	"github.com/aretw0/verdict/pkg/domain"
	"github.com/aretw0/verdict/pkg/ports"
)

// CompoundConfig holds the properties shared by the compound conditions.
type CompoundConfig struct {
	CommonConfig        `mapstructure:",squash"`
	Conditions          []domain.ConditionConfig `mapstructure:"conditions"`
	TreatUndeterminedAs string                   `mapstructure:"treatUndeterminedAs"`
}

// CountMatchesConfig configures CountMatches. Minimum defaults to 1 and Maximum to
// unbounded.
type CountMatchesConfig struct {
	CompoundConfig `mapstructure:",squash"`
	Minimum        *int `mapstructure:"minimum"`
	Maximum        *int `mapstructure:"maximum"`
}

// compound owns the instantiated children of a compound condition.
type compound struct {
	base
	children      []Condition
	treatUndeterm domain.TriState
}

func newCompound(creator Creator, cfg CompoundConfig, conditionType string) (compound, error) {
	c := compound{base: newBase(cfg.CommonConfig, conditionType, domain.CategoryChildren)}

	if cfg.TreatUndeterminedAs != "" {
		ts, err := domain.ParseTriState(cfg.TreatUndeterminedAs)
		if err != nil {
			return c, &ConfigError{ConditionType: conditionType, ValueHostName: cfg.ValueHostName,
				Property: "treatUndeterminedAs", Reason: err.Error(), Err: domain.ErrInvalidConfig}
		}
		c.treatUndeterm = ts
	}

	for _, childCfg := range cfg.Conditions {
		child, err := creator.Create(childCfg)
		if err != nil {
			return c, err
		}
		c.children = append(c.children, child)
	}
	return c, nil
}

// GatherValueHostNames recurses into the children. The set de-duplicates.
func (c compound) GatherValueHostNames(into map[string]struct{}) {
	c.base.GatherValueHostNames(into)
	for _, child := range c.children {
		child.GatherValueHostNames(into)
	}
}

// Children returns the child conditions in evaluation order.
func (c compound) Children() []Condition {
	out := make([]Condition, len(c.children))
	copy(out, c.children)
	return out
}

// target returns the host shared with the children. Without an explicit name the
// parent host is passed through, even when nil, so named children still resolve.
func (c compound) target(host ports.ValueHost, resolver ports.Resolver) (ports.ValueHost, error) {
	if c.valueHostName == "" {
		return host, nil
	}
	return c.resolveHost(host, resolver)
}

// evaluateChild runs child against the shared parent host and applies the
// treatUndeterminedAs override.
func (c compound) evaluateChild(child Condition, host ports.ValueHost, resolver ports.Resolver) (domain.TriState, error) {
	result, err := child.Evaluate(host, resolver)
	if err != nil {
		return domain.Undetermined, err
	}
	if result == domain.Undetermined && c.treatUndeterm != "" {
		return c.treatUndeterm, nil
	}
	return result, nil
}

// AllMatch matches when every child matches.
type AllMatch struct {
	compound
}

// NewAllMatch creates an AllMatch condition whose children are built by creator.
func NewAllMatch(creator Creator, cfg CompoundConfig) (*AllMatch, error) {
	c, err := newCompound(creator, cfg, TypeAllMatch)
	if err != nil {
		return nil, err
	}
	return &AllMatch{compound: c}, nil
}

func (c *AllMatch) Evaluate(host ports.ValueHost, resolver ports.Resolver) (domain.TriState, error) {
	target, err := c.target(host, resolver)
	if err != nil {
		return domain.Undetermined, err
	}
	if len(c.children) == 0 {
		return domain.Undetermined, nil
	}
	for _, child := range c.children {
		result, err := c.evaluateChild(child, target, resolver)
		if err != nil {
			return domain.Undetermined, err
		}
		if result != domain.Match {
			return result, nil
		}
	}
	return domain.Match, nil
}

// AnyMatch matches when at least one child matches.
type AnyMatch struct {
	compound
}

// NewAnyMatch creates an AnyMatch condition whose children are built by creator.
func NewAnyMatch(creator Creator, cfg CompoundConfig) (*AnyMatch, error) {
	c, err := newCompound(creator, cfg, TypeAnyMatch)
	if err != nil {
		return nil, err
	}
	return &AnyMatch{compound: c}, nil
}

func (c *AnyMatch) Evaluate(host ports.ValueHost, resolver ports.Resolver) (domain.TriState, error) {
	target, err := c.target(host, resolver)
	if err != nil {
		return domain.Undetermined, err
	}
	if len(c.children) == 0 {
		return domain.Undetermined, nil
	}
	matches := 0
	for _, child := range c.children {
		result, err := c.evaluateChild(child, target, resolver)
		if err != nil {
			return domain.Undetermined, err
		}
		switch result {
		case domain.Undetermined:
			return domain.Undetermined, nil
		case domain.Match:
			matches++
		}
	}
	if matches > 0 {
		return domain.Match, nil
	}
	return domain.NoMatch, nil
}

// CountMatches matches when the number of matching children lies within
// [minimum, maximum].
type CountMatches struct {
	compound
	min, max int
}

// NewCountMatches creates a CountMatches condition whose children are built by creator.
func NewCountMatches(creator Creator, cfg CountMatchesConfig) (*CountMatches, error) {
	c, err := newCompound(creator, cfg.CompoundConfig, TypeCountMatches)
	if err != nil {
		return nil, err
	}
	cm := &CountMatches{compound: c, min: 1, max: math.MaxInt}
	if cfg.Minimum != nil {
		cm.min = *cfg.Minimum
	}
	if cfg.Maximum != nil {
		cm.max = *cfg.Maximum
	}
	if cm.min > cm.max {
		return nil, &ConfigError{ConditionType: TypeCountMatches, ValueHostName: cfg.ValueHostName,
			Property: "minimum", Reason: "minimum is greater than maximum", Err: domain.ErrInvalidConfig}
	}
	return cm, nil
}

func (c *CountMatches) Evaluate(host ports.ValueHost, resolver ports.Resolver) (domain.TriState, error) {
	target, err := c.target(host, resolver)
	if err != nil {
		return domain.Undetermined, err
	}
	if len(c.children) == 0 {
		return domain.Undetermined, nil
	}
	matches := 0
	for _, child := range c.children {
		result, err := c.evaluateChild(child, target, resolver)
		if err != nil {
			return domain.Undetermined, err
		}
		switch result {
		case domain.Undetermined:
			return domain.Undetermined, nil
		case domain.Match:
			matches++
		}
	}
	if matches >= c.min && matches <= c.max {
		return domain.Match, nil
	}
	return domain.NoMatch, nil
}

// NotConfig configures Not.
type NotConfig struct {
	CommonConfig        `mapstructure:",squash"`
	Condition           domain.ConditionConfig `mapstructure:"condition"`
	TreatUndeterminedAs string                 `mapstructure:"treatUndeterminedAs"`
}

// Not inverts a single child. Undetermined stays Undetermined unless overridden.
type Not struct {
	compound
}

// NewNot creates a Not condition whose child is built by creator.
func NewNot(creator Creator, cfg NotConfig) (*Not, error) {
	if cfg.Condition == nil {
		return nil, &ConfigError{ConditionType: TypeNot, ValueHostName: cfg.ValueHostName,
			Property: "condition", Reason: "child condition is required", Err: domain.ErrInvalidConfig}
	}
	c, err := newCompound(creator, CompoundConfig{
		CommonConfig:        cfg.CommonConfig,
		Conditions:          []domain.ConditionConfig{cfg.Condition},
		TreatUndeterminedAs: cfg.TreatUndeterminedAs,
	}, TypeNot)
	if err != nil {
		return nil, err
	}
	return &Not{compound: c}, nil
}

func (c *Not) Evaluate(host ports.ValueHost, resolver ports.Resolver) (domain.TriState, error) {
	target, err := c.target(host, resolver)
	if err != nil {
		return domain.Undetermined, err
	}
	result, err := c.evaluateChild(c.children[0], target, resolver)
	if err != nil {
		return domain.Undetermined, err
	}
	switch result {
	case domain.Match:
		return domain.NoMatch, nil
	case domain.NoMatch:
		return domain.Match, nil
	}
	return domain.Undetermined, nil
}
