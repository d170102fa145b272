package dsl

import "github.com/aretw0/verdict/pkg/domain"

func cond(conditionType string, kv ...any) domain.ConditionConfig {
	c := domain.ConditionConfig{domain.KeyConditionType: conditionType}
	for i := 0; i+1 < len(kv); i += 2 {
		c[kv[i].(string)] = kv[i+1]
	}
	return c
}

// RequireText requires a non-empty string.
func RequireText() domain.ConditionConfig { return cond("RequireText") }

// NotNull requires a value.
func NotNull() domain.ConditionConfig { return cond("NotNull") }

// DataTypeCheck requires that the input converted to a native value.
func DataTypeCheck() domain.ConditionConfig { return cond("DataTypeCheck") }

// RegExp requires the value to match expression.
func RegExp(expression string) domain.ConditionConfig {
	return cond("RegExp", "expression", expression)
}

// Length bounds the length of a string. A negative bound is omitted.
func Length(minimum, maximum int) domain.ConditionConfig {
	c := cond("StringLength")
	if minimum >= 0 {
		c["minimum"] = minimum
	}
	if maximum >= 0 {
		c["maximum"] = maximum
	}
	return c
}

// Range bounds the value inclusively. A nil bound is unconstrained.
func Range(minimum, maximum any) domain.ConditionConfig {
	c := cond("Range")
	if minimum != nil {
		c["minimum"] = minimum
	}
	if maximum != nil {
		c["maximum"] = maximum
	}
	return c
}

// EqualTo requires the value to equal the value host named other.
func EqualTo(other string) domain.ConditionConfig {
	return cond("EqualTo", "secondValueHostName", other)
}

// Compare relates the value to a literal with one of the pairwise condition types,
// such as "LessThan" or "GreaterThanOrEqual".
func Compare(conditionType string, value any) domain.ConditionConfig {
	return cond(conditionType, "secondValue", value)
}

// Func evaluates a function of the registry.
func Func(name string) domain.ConditionConfig {
	return cond("Function", "function", name)
}

// AllMatch matches when every child matches.
func AllMatch(children ...domain.ConditionConfig) domain.ConditionConfig {
	return cond("AllMatch", "conditions", children)
}

// AnyMatch matches when at least one child matches.
func AnyMatch(children ...domain.ConditionConfig) domain.ConditionConfig {
	return cond("AnyMatch", "conditions", children)
}

// CountMatches matches when between minimum and maximum children match.
func CountMatches(minimum, maximum int, children ...domain.ConditionConfig) domain.ConditionConfig {
	return cond("CountMatches", "minimum", minimum, "maximum", maximum, "conditions", children)
}

// Not inverts child.
func Not(child domain.ConditionConfig) domain.ConditionConfig {
	return cond("Not", "condition", child)
}

// Optional treats an Undetermined result as a match: the rule only applies once a value
// is present.
func Optional(c domain.ConditionConfig) domain.ConditionConfig {
	return cond("AllMatch", "conditions", []domain.ConditionConfig{c}, "treatUndeterminedAs", string(domain.Match))
}

// On targets the condition at another value host.
func On(valueHostName string, c domain.ConditionConfig) domain.ConditionConfig {
	return c.With(domain.KeyValueHostName, valueHostName)
}
