// Package messages resolves the user-facing text of issues.
//
// Templates may contain the tokens {Label}, {Value}, {DataType} and {ConditionType}.
// Localized text is looked up through an explicit domain.LocalizationContext; nothing
// here reads global culture settings.
package messages

import (
	"fmt"
	"strings"

	"github.com/aretw0/verdict/pkg/domain"
)

// Tokens are the values substituted into a message template.
type Tokens struct {
	Label         string
	Value         any
	DataType      string
	ConditionType string
}

var defaults = map[string]string{
	"RequireText":        "{Label} is required.",
	"NotNull":            "{Label} is required.",
	"RegExp":             "{Label} has an invalid format.",
	"StringLength":       "{Label} has an invalid length.",
	"Range":              "{Label} is out of range.",
	"EqualTo":            "{Label} does not match.",
	"NotEqualTo":         "{Label} must be different.",
	"LessThan":           "{Label} is too large.",
	"LessThanOrEqual":    "{Label} is too large.",
	"GreaterThan":        "{Label} is too small.",
	"GreaterThanOrEqual": "{Label} is too small.",
	"DataTypeCheck":      "{Label} is not a valid {DataType}.",
}

// Default returns the built-in template for conditionType.
func Default(conditionType string) string {
	if tmpl, ok := defaults[conditionType]; ok {
		return tmpl
	}
	return "{Label} is invalid."
}

// Resolve picks the template for an issue: the localized text for code when one exists,
// then text, then the built-in default of conditionType.
func Resolve(loc domain.LocalizationContext, code, text, conditionType string) string {
	if text == "" {
		text = Default(conditionType)
	}
	return loc.Localize(code, text)
}

// Format substitutes tokens into tmpl. Unknown tokens are left untouched.
func Format(tmpl string, t Tokens) string {
	if !strings.Contains(tmpl, "{") {
		return tmpl
	}
	r := strings.NewReplacer(
		"{Label}", t.Label,
		"{Value}", formatValue(t.Value),
		"{DataType}", t.DataType,
		"{ConditionType}", t.ConditionType,
	)
	return r.Replace(tmpl)
}

func formatValue(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case domain.UndefinedValue:
		return ""
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	}
	return fmt.Sprint(v)
}
