package domain

import "encoding/json"

// ValueHostState is the snapshot of one value host.
//
// States are immutable by convention: updates produce a new ValueHostState and slices or
// maps held by a published state are never modified in place.
type ValueHostState struct {
	// Name identifies the value host within its manager.
	Name string

	// Kind is the flavor of the value host that owns this state.
	Kind ValueHostKind

	// Value is the native value. Undefined means "could not be produced", nil means absent.
	Value any

	// ChangeCounter increments on every value change and resets to 0 on an explicit reset.
	ChangeCounter int

	// Items holds data cached by conditions, such as a measured string length.
	Items map[string]any

	// InputValue is the raw edited representation (input value hosts only).
	InputValue any

	// Status is the validation state (input value hosts only).
	Status ValidationStatus

	// IssuesFound is the ordered result of the latest validation pass.
	IssuesFound []Issue

	// ConversionErrorTokenValue describes why the input could not be converted to a native value.
	ConversionErrorTokenValue string

	// BusinessLogicErrors were supplied by the latest SetBusinessLogicErrors call.
	BusinessLogicErrors []BusinessLogicError
}

// NewValueHostState creates the default state for a descriptor.
func NewValueHostState(desc ValueHostDescriptor) ValueHostState {
	state := ValueHostState{
		Name:  desc.Name,
		Kind:  desc.EffectiveKind(),
		Value: Undefined,
	}
	if desc.InitialValue != nil {
		state.Value = desc.InitialValue
	}
	if state.Kind == KindInput {
		state.InputValue = Undefined
		state.Status = StatusNotAttempted
	}
	return state
}

// Item returns a cached item.
func (s ValueHostState) Item(key string) (any, bool) {
	v, ok := s.Items[key]
	return v, ok
}

type valueHostStateJSON struct {
	Name                      string               `json:"name"`
	Kind                      ValueHostKind        `json:"kind"`
	Value                     any                  `json:"value,omitempty"`
	ValueUndefined            bool                 `json:"valueUndefined,omitempty"`
	ChangeCounter             int                  `json:"changeCounter"`
	Items                     map[string]any       `json:"items,omitempty"`
	InputValue                any                  `json:"inputValue,omitempty"`
	InputValueUndefined       bool                 `json:"inputValueUndefined,omitempty"`
	Status                    ValidationStatus     `json:"status,omitempty"`
	IssuesFound               []Issue              `json:"issuesFound,omitempty"`
	ConversionErrorTokenValue string               `json:"conversionErrorTokenValue,omitempty"`
	BusinessLogicErrors       []BusinessLogicError `json:"businessLogicErrors,omitempty"`
}

// MarshalJSON keeps Undefined distinguishable from null.
func (s ValueHostState) MarshalJSON() ([]byte, error) {
	raw := valueHostStateJSON{
		Name:                      s.Name,
		Kind:                      s.Kind,
		ChangeCounter:             s.ChangeCounter,
		Items:                     s.Items,
		Status:                    s.Status,
		IssuesFound:               s.IssuesFound,
		ConversionErrorTokenValue: s.ConversionErrorTokenValue,
		BusinessLogicErrors:       s.BusinessLogicErrors,
	}
	if IsUndefined(s.Value) {
		raw.ValueUndefined = true
	} else {
		raw.Value = s.Value
	}
	if IsUndefined(s.InputValue) {
		raw.InputValueUndefined = true
	} else {
		raw.InputValue = s.InputValue
	}
	return json.Marshal(raw)
}

// UnmarshalJSON restores Undefined markers written by MarshalJSON.
func (s *ValueHostState) UnmarshalJSON(data []byte) error {
	var raw valueHostStateJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = ValueHostState{
		Name:                      raw.Name,
		Kind:                      raw.Kind,
		Value:                     raw.Value,
		ChangeCounter:             raw.ChangeCounter,
		Items:                     raw.Items,
		InputValue:                raw.InputValue,
		Status:                    raw.Status,
		IssuesFound:               raw.IssuesFound,
		ConversionErrorTokenValue: raw.ConversionErrorTokenValue,
		BusinessLogicErrors:       raw.BusinessLogicErrors,
	}
	if raw.ValueUndefined {
		s.Value = Undefined
	}
	if raw.InputValueUndefined {
		s.InputValue = Undefined
	}
	return nil
}

// ManagerState is the serializable snapshot of a whole form.
type ManagerState struct {
	// ValueHosts are listed in descriptor order.
	ValueHosts []ValueHostState `json:"valueHosts"`

	// FormBusinessLogicErrors are business logic errors without an associated value host.
	FormBusinessLogicErrors []BusinessLogicError `json:"formBusinessLogicErrors,omitempty"`
}

// Find returns the state stored for name.
func (m *ManagerState) Find(name string) (ValueHostState, bool) {
	if m == nil {
		return ValueHostState{}, false
	}
	for _, s := range m.ValueHosts {
		if s.Name == name {
			return s, true
		}
	}
	return ValueHostState{}, false
}
