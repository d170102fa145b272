package conditions

import (
	"github.com/aretw0/verdict/pkg/domain"
	"github.com/aretw0/verdict/pkg/ports"
)

// NotNullConfig configures NotNull.
type NotNullConfig struct {
	CommonConfig `mapstructure:",squash"`
}

// NotNull requires a value that is not nil.
type NotNull struct {
	base
}

// NewNotNull creates a NotNull condition.
func NewNotNull(cfg NotNullConfig) *NotNull {
	return &NotNull{base: newBase(cfg.CommonConfig, TypeNotNull, domain.CategoryRequired)}
}

func (c *NotNull) Evaluate(host ports.ValueHost, resolver ports.Resolver) (domain.TriState, error) {
	target, err := c.resolveHost(host, resolver)
	if err != nil {
		return domain.Undetermined, err
	}
	switch target.Value().(type) {
	case domain.UndefinedValue:
		return domain.Undetermined, nil
	case nil:
		return domain.NoMatch, nil
	}
	return domain.Match, nil
}

// DataTypeCheckConfig configures DataTypeCheck.
type DataTypeCheckConfig struct {
	CommonConfig `mapstructure:",squash"`
}

// DataTypeCheck reports whether the input of a value host could be converted to its
// native value. A defined native value matches; an undefined native value with
// non-empty input text means conversion failed.
type DataTypeCheck struct {
	base
}

// NewDataTypeCheck creates a DataTypeCheck condition.
func NewDataTypeCheck(cfg DataTypeCheckConfig) *DataTypeCheck {
	return &DataTypeCheck{base: newBase(cfg.CommonConfig, TypeDataTypeCheck, domain.CategoryDataTypeCheck)}
}

func (c *DataTypeCheck) Evaluate(host ports.ValueHost, resolver ports.Resolver) (domain.TriState, error) {
	target, err := c.resolveHost(host, resolver)
	if err != nil {
		return domain.Undetermined, err
	}
	if !domain.IsUndefined(target.Value()) {
		return domain.Match, nil
	}
	if target.Kind() != domain.KindInput {
		return domain.Undetermined, nil
	}
	switch in := target.InputValue().(type) {
	case domain.UndefinedValue, nil:
		return domain.Undetermined, nil
	case string:
		if in == "" {
			return domain.Undetermined, nil
		}
	}
	return domain.NoMatch, nil
}
