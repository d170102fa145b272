package domain

// ValueHostKind selects the value host flavor created from a descriptor.
type ValueHostKind string

const (
	KindStatic ValueHostKind = "static" // Native value only
	KindInput  ValueHostKind = "input"  // Adds an input value and per-field validation
)

// ConditionConfig holds the rule parameters of one condition.
// Keys are camelCase property names; KeyConditionType selects the condition kind.
// Configs are treated as immutable once handed to a factory.
type ConditionConfig map[string]any

// Type returns the conditionType discriminator.
func (c ConditionConfig) Type() string {
	s, _ := c[KeyConditionType].(string)
	return s
}

// ValueHostName returns the explicit target value host name, if any.
func (c ConditionConfig) ValueHostName() string {
	s, _ := c[KeyValueHostName].(string)
	return s
}

// With returns a copy of c with key set to value.
func (c ConditionConfig) With(key string, value any) ConditionConfig {
	next := make(ConditionConfig, len(c)+1)
	for k, v := range c {
		next[k] = v
	}
	next[key] = value
	return next
}

// ValidatorDescriptor attaches a condition to an input value host together with the
// messages reported when the condition does not match.
type ValidatorDescriptor struct {
	Condition      ConditionConfig `json:"condition" yaml:"condition" mapstructure:"condition"`
	ErrorCode      string          `json:"errorCode,omitempty" yaml:"errorCode,omitempty" mapstructure:"errorCode"`
	ErrorMessage   string          `json:"errorMessage,omitempty" yaml:"errorMessage,omitempty" mapstructure:"errorMessage"`
	SummaryMessage string          `json:"summaryMessage,omitempty" yaml:"summaryMessage,omitempty" mapstructure:"summaryMessage"`
	Severity       Severity        `json:"severity,omitempty" yaml:"severity,omitempty" mapstructure:"severity"`
	// Enabled defaults to true when nil.
	Enabled *bool `json:"enabled,omitempty" yaml:"enabled,omitempty" mapstructure:"enabled"`
}

// IsEnabled reports whether the validator participates in validation.
func (v ValidatorDescriptor) IsEnabled() bool {
	return v.Enabled == nil || *v.Enabled
}

// EffectiveSeverity returns the configured severity, defaulting to SeverityError.
func (v ValidatorDescriptor) EffectiveSeverity() Severity {
	if v.Severity == "" {
		return SeverityError
	}
	return v.Severity
}

// ValueHostDescriptor is the immutable configuration of one value host.
type ValueHostDescriptor struct {
	Name     string        `json:"name" yaml:"name" mapstructure:"name"`
	Kind     ValueHostKind `json:"kind,omitempty" yaml:"kind,omitempty" mapstructure:"kind"`
	Label    string        `json:"label,omitempty" yaml:"label,omitempty" mapstructure:"label"`
	DataType string        `json:"dataType,omitempty" yaml:"dataType,omitempty" mapstructure:"dataType"`
	// InitialValue seeds the native value when no prior state is supplied.
	// A nil InitialValue leaves the value Undefined.
	InitialValue any `json:"initialValue,omitempty" yaml:"initialValue,omitempty" mapstructure:"initialValue"`
	// Group restricts validation to ValidateOptions with a matching group. Empty matches every group.
	Group      string                `json:"group,omitempty" yaml:"group,omitempty" mapstructure:"group"`
	Validators []ValidatorDescriptor `json:"validators,omitempty" yaml:"validators,omitempty" mapstructure:"validators"`
}

// EffectiveKind defaults to KindInput when validators are present and KindStatic otherwise.
func (d ValueHostDescriptor) EffectiveKind() ValueHostKind {
	if d.Kind != "" {
		return d.Kind
	}
	if len(d.Validators) > 0 {
		return KindInput
	}
	return KindStatic
}

// EffectiveLabel falls back to the name.
func (d ValueHostDescriptor) EffectiveLabel() string {
	if d.Label == "" {
		return d.Name
	}
	return d.Label
}
