package domain

import (
	"reflect"
)

// StateDiff represents the changes between two manager states.
// It is designed to be serialized to JSON for partial updates on the client.
type StateDiff struct {
	// SessionID is always present to identify the target.
	SessionID string `json:"session_id"`

	// Changed contains the full new state of every value host that changed or was added.
	Changed []ValueHostState `json:"changed,omitempty"`

	// Removed lists value hosts present in the old state only.
	Removed []string `json:"removed,omitempty"`

	// FormBusinessLogicErrors is set when the form-level errors changed.
	FormBusinessLogicErrors *[]BusinessLogicError `json:"form_business_logic_errors,omitempty"`
}

// Diff calculates the difference between oldState and newState.
// If oldState is nil, it returns a diff representing the entire newState (initial load).
// Returns nil when nothing changed.
func Diff(sessionID string, oldState, newState *ManagerState) *StateDiff {
	if newState == nil {
		return nil
	}

	diff := &StateDiff{SessionID: sessionID}

	seen := make(map[string]bool, len(newState.ValueHosts))
	for _, next := range newState.ValueHosts {
		seen[next.Name] = true
		prev, ok := oldState.Find(next.Name)
		if !ok || !reflect.DeepEqual(prev, next) {
			diff.Changed = append(diff.Changed, next)
		}
	}

	if oldState != nil {
		for _, prev := range oldState.ValueHosts {
			if !seen[prev.Name] {
				diff.Removed = append(diff.Removed, prev.Name)
			}
		}
	}

	var oldForm []BusinessLogicError
	if oldState != nil {
		oldForm = oldState.FormBusinessLogicErrors
	}
	if len(oldForm) != len(newState.FormBusinessLogicErrors) ||
		(len(oldForm) > 0 && !reflect.DeepEqual(oldForm, newState.FormBusinessLogicErrors)) {
		form := newState.FormBusinessLogicErrors
		diff.FormBusinessLogicErrors = &form
	}

	if diff.IsEmpty() {
		return nil
	}
	return diff
}

// IsEmpty checks if the diff contains any actionable changes.
func (d *StateDiff) IsEmpty() bool {
	return len(d.Changed) == 0 &&
		len(d.Removed) == 0 &&
		d.FormBusinessLogicErrors == nil
}
