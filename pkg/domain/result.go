package domain

import "fmt"

// TriState is the outcome of evaluating a condition.
type TriState string

const (
	Match        TriState = "match"        // The rule is satisfied
	NoMatch      TriState = "no_match"     // The rule is violated
	Undetermined TriState = "undetermined" // The rule could not be evaluated
)

// Valid reports whether t is one of the three defined outcomes.
func (t TriState) Valid() bool {
	switch t {
	case Match, NoMatch, Undetermined:
		return true
	}
	return false
}

// ParseTriState converts the textual form of a TriState.
// Accepts the canonical values as well as "Match", "NoMatch" and "Undetermined".
func ParseTriState(s string) (TriState, error) {
	switch s {
	case "match", "Match":
		return Match, nil
	case "no_match", "NoMatch", "nomatch":
		return NoMatch, nil
	case "undetermined", "Undetermined":
		return Undetermined, nil
	}
	return "", fmt.Errorf("%w: unknown tri-state %q", ErrInvalidConfig, s)
}

// ComparisonResult is returned by a comparer when relating two values.
type ComparisonResult string

const (
	Equals              ComparisonResult = "equals"
	LessThan            ComparisonResult = "less_than"
	GreaterThan         ComparisonResult = "greater_than"
	NotEquals           ComparisonResult = "not_equals" // Unordered values that differ
	ComparisonUndefined ComparisonResult = "undetermined"
)

// ValidationStatus is the validation state of an input value host.
type ValidationStatus string

const (
	StatusNotAttempted               ValidationStatus = "not_attempted"
	StatusValueChangedButUnvalidated ValidationStatus = "value_changed_but_unvalidated"
	StatusValid                      ValidationStatus = "valid"
	StatusInvalid                    ValidationStatus = "invalid"
	StatusUndetermined               ValidationStatus = "undetermined"
	StatusAsyncProcessing            ValidationStatus = "async_processing"
)

// Severity ranks issues. Only issues above SeverityWarning make a field invalid.
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
	SeveritySevere  Severity = "severe" // Stops evaluation of later validators on the same field
)

// Rank orders severities; unknown values rank as SeverityError.
func (s Severity) Rank() int {
	switch s {
	case SeverityWarning:
		return 0
	case SeveritySevere:
		return 2
	default:
		return 1
	}
}

// AboveWarning reports whether s makes its field invalid.
func (s Severity) AboveWarning() bool {
	return s.Rank() > SeverityWarning.Rank()
}

// ConditionCategory groups condition kinds by purpose.
type ConditionCategory string

const (
	CategoryUndetermined  ConditionCategory = "undetermined"
	CategoryRequired      ConditionCategory = "required"
	CategoryComparison    ConditionCategory = "comparison"
	CategoryDataTypeCheck ConditionCategory = "data_type_check"
	CategoryContents      ConditionCategory = "contents"
	CategoryChildren      ConditionCategory = "children"
)
