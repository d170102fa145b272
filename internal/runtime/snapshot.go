package runtime

import (
	"slices"

	"github.com/aretw0/verdict/pkg/domain"
)

// State returns a snapshot of every value host in descriptor order. Pass it to
// WithState, together with the same descriptors, to rebuild an equivalent Manager.
func (m *Manager) State() *domain.ManagerState {
	state := &domain.ManagerState{
		ValueHosts:              make([]domain.ValueHostState, 0, len(m.order)),
		FormBusinessLogicErrors: slices.Clone(m.formErrors),
	}
	for _, name := range m.order {
		state.ValueHosts = append(state.ValueHosts, m.hosts[name].state)
	}
	return state
}
