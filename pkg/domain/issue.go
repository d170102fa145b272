package domain

// Issue is an immutable report of one failing rule on a value host.
type Issue struct {
	ConditionType  string   `json:"conditionType"`
	ValueHostName  string   `json:"valueHostName"`
	Severity       Severity `json:"severity"`
	ErrorCode      string   `json:"errorCode,omitempty"`
	ErrorMessage   string   `json:"errorMessage"`
	SummaryMessage string   `json:"summaryMessage,omitempty"`
}

// BusinessLogicError is an error produced outside condition evaluation, typically by a
// server after the form was submitted.
type BusinessLogicError struct {
	ErrorMessage   string   `json:"errorMessage"`
	SummaryMessage string   `json:"summaryMessage,omitempty"`
	Severity       Severity `json:"severity,omitempty"`
	ErrorCode      string   `json:"errorCode,omitempty"`
	// AssociatedValueHostName targets one value host. Empty means the whole form.
	AssociatedValueHostName string `json:"associatedValueHostName,omitempty"`
}

// EffectiveSeverity returns the configured severity, defaulting to SeverityError.
func (b BusinessLogicError) EffectiveSeverity() Severity {
	if b.Severity == "" {
		return SeverityError
	}
	return b.Severity
}

// AsIssue converts the error into the issue reported for valueHostName.
func (b BusinessLogicError) AsIssue(valueHostName string) Issue {
	return Issue{
		ConditionType:  "BusinessLogic",
		ValueHostName:  valueHostName,
		Severity:       b.EffectiveSeverity(),
		ErrorCode:      b.ErrorCode,
		ErrorMessage:   b.ErrorMessage,
		SummaryMessage: b.SummaryMessage,
	}
}

// ValueHostValidateResult reports the outcome of validating one input value host.
type ValueHostValidateResult struct {
	ValueHostName string           `json:"valueHostName"`
	Status        ValidationStatus `json:"status"`
	Issues        []Issue          `json:"issues,omitempty"`
	Pending       int              `json:"pending,omitempty"`
}

// ValidateResult aggregates a validation pass over the whole form.
type ValidateResult struct {
	IsValid              bool                      `json:"isValid"`
	DoNotSaveNativeValue bool                      `json:"doNotSaveNativeValue"`
	Fields               []ValueHostValidateResult `json:"fields"`
	Issues               []Issue                   `json:"issues,omitempty"`
}
