package runtime

import "github.com/aretw0/verdict/pkg/domain"

// SetBusinessLogicErrors replaces every business logic error of the form. Errors
// targeting an input value host are attached to it; the rest, including those naming an
// unknown value host, are kept at form level.
func (m *Manager) SetBusinessLogicErrors(errs []domain.BusinessLogicError) {
	perHost := make(map[string][]domain.BusinessLogicError)
	var form []domain.BusinessLogicError

	for _, ble := range errs {
		name := ble.AssociatedValueHostName
		if _, ok := m.inputs[name]; ok && name != domain.FormFieldName {
			perHost[name] = append(perHost[name], ble)
			continue
		}
		if name != "" && name != domain.FormFieldName {
			m.logger.Warn("business logic error for unknown value host kept at form level", "value_host", name)
		}
		form = append(form, ble)
	}

	for _, name := range m.order {
		if in, ok := m.inputs[name]; ok {
			in.apply(action{typ: actSetBusinessLogicErrors, errors: perHost[name]})
		}
	}
	m.formErrors = form
}

// FormBusinessLogicErrors returns the business logic errors not attached to a value host.
func (m *Manager) FormBusinessLogicErrors() []domain.BusinessLogicError {
	out := make([]domain.BusinessLogicError, len(m.formErrors))
	copy(out, m.formErrors)
	return out
}
