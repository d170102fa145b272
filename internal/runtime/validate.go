package runtime

import (
	"github.com/aretw0/verdict/pkg/domain"
)

// Validate validates every input value host of opts.Group, in descriptor order, and
// returns the aggregated result. Fields and Issues only cover the validated value hosts
// plus form level issues; IsValid and DoNotSaveNativeValue describe the whole form.
// A configuration fault stops the pass.
func (m *Manager) Validate(opts ValidateOptions) (domain.ValidateResult, error) {
	var result domain.ValidateResult
	for _, name := range m.order {
		in, ok := m.inputs[name]
		if !ok || !inGroup(in.desc.Group, opts.Group) {
			continue
		}
		field, err := in.Validate(opts)
		if err != nil {
			m.logger.Error("validation stopped by configuration fault", "value_host", name, "err", err)
			return result, err
		}
		result.Fields = append(result.Fields, field)
		result.Issues = append(result.Issues, field.Issues...)
	}
	result.Issues = append(result.Issues, m.formIssues()...)
	result.IsValid = m.IsValid()
	result.DoNotSaveNativeValue = m.DoNotSaveNativeValue()

	m.logger.Debug("form validated",
		"group", opts.Group,
		"during_edit", opts.DuringEdit,
		"valid", result.IsValid,
		"issues", len(result.Issues),
	)
	return result, nil
}

// IsValid is false when any input value host, or the form itself, is Invalid.
func (m *Manager) IsValid() bool {
	if formInvalid(m.formErrors) {
		return false
	}
	for _, in := range m.inputs {
		if in.Status() == domain.StatusInvalid {
			return false
		}
	}
	return true
}

// DoNotSaveNativeValue is a stricter gate than IsValid: native values should not be
// saved while any input value host is Invalid, waiting on async work, or changed since
// it was last validated.
func (m *Manager) DoNotSaveNativeValue() bool {
	if formInvalid(m.formErrors) {
		return true
	}
	for _, in := range m.inputs {
		switch in.Status() {
		case domain.StatusInvalid, domain.StatusAsyncProcessing, domain.StatusValueChangedButUnvalidated:
			return true
		}
	}
	return false
}

// ClearValidation returns every input value host to NotAttempted and drops all
// business logic errors.
func (m *Manager) ClearValidation() {
	for _, name := range m.order {
		if in, ok := m.inputs[name]; ok {
			in.ClearValidation()
		}
	}
	m.formErrors = nil
}

// IssuesFor returns the issues of the named value host. domain.FormFieldName returns the
// form-level business logic errors.
func (m *Manager) IssuesFor(name string) []domain.Issue {
	if name == domain.FormFieldName {
		return m.formIssues()
	}
	if in, ok := m.inputs[name]; ok {
		return in.Issues()
	}
	return nil
}

// Summary returns every issue of the form, restricted to value hosts of group when set.
// Form-level issues are always included.
func (m *Manager) Summary(group string) []domain.Issue {
	var issues []domain.Issue
	for _, name := range m.order {
		in, ok := m.inputs[name]
		if !ok || !inGroup(in.desc.Group, group) {
			continue
		}
		issues = append(issues, in.Issues()...)
	}
	return append(issues, m.formIssues()...)
}

func (m *Manager) formIssues() []domain.Issue {
	issues := make([]domain.Issue, 0, len(m.formErrors))
	for _, ble := range m.formErrors {
		issues = append(issues, ble.AsIssue(domain.FormFieldName))
	}
	return issues
}

func formInvalid(errs []domain.BusinessLogicError) bool {
	for _, ble := range errs {
		if ble.EffectiveSeverity().AboveWarning() {
			return true
		}
	}
	return false
}
