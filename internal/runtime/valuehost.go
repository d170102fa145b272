package runtime

import (
	"reflect"
	"time"

	"github.com/aretw0/verdict/pkg/domain"
)

// SetValueOptions controls the side effects of a value change.
type SetValueOptions struct {
	// Validate re-validates the value host, and every dependent value host, right away.
	Validate bool
	// Reset clears validation and sets the change counter back to zero.
	Reset bool
	// SkipValueChangedCallback suppresses the OnValueChanged and OnInputValueChanged hooks.
	SkipValueChangedCallback bool
	// ConversionErrorTokenValue explains why the input did not produce a native value.
	ConversionErrorTokenValue string
	// DuringEdit validates with the during-edit path of each condition.
	DuringEdit bool
}

// ValueHost holds one named value of a form. Its state is replaced, never modified.
type ValueHost struct {
	desc   domain.ValueHostDescriptor
	state  domain.ValueHostState
	reduce reducer
	owner  *Manager
}

func newValueHost(owner *Manager, desc domain.ValueHostDescriptor, state domain.ValueHostState) *ValueHost {
	state.Name = desc.Name
	state.Kind = desc.EffectiveKind()
	h := &ValueHost{desc: desc, state: state, owner: owner, reduce: reduceValueHost}
	if state.Kind == domain.KindInput {
		h.reduce = reduceInputValueHost
	}
	return h
}

func (h *ValueHost) Name() string               { return h.desc.Name }
func (h *ValueHost) Label() string              { return h.desc.EffectiveLabel() }
func (h *ValueHost) DataType() string           { return h.desc.DataType }
func (h *ValueHost) Kind() domain.ValueHostKind { return h.state.Kind }
func (h *ValueHost) Value() any                 { return h.state.Value }
func (h *ValueHost) ChangeCounter() int         { return h.state.ChangeCounter }

// Descriptor returns the configuration the value host was created from.
func (h *ValueHost) Descriptor() domain.ValueHostDescriptor { return h.desc }

// State returns the current state snapshot.
func (h *ValueHost) State() domain.ValueHostState { return h.state }

// InputValue returns the raw edited value, domain.Undefined on static value hosts.
func (h *ValueHost) InputValue() any {
	if h.state.Kind != domain.KindInput {
		return domain.Undefined
	}
	return h.state.InputValue
}

func (h *ValueHost) Item(key string) (any, bool) {
	return h.state.Item(key)
}

func (h *ValueHost) SetItem(key string, value any) {
	h.apply(action{typ: actSetItem, key: key, item: value})
}

// IsChanged reports whether the value changed since the last reset.
func (h *ValueHost) IsChanged() bool {
	return h.state.ChangeCounter > 0
}

// SetValue replaces the native value.
func (h *ValueHost) SetValue(value any, opts SetValueOptions) error {
	return h.update(action{
		typ:        actSetValue,
		value:      value,
		reset:      opts.Reset,
		tokenValue: opts.ConversionErrorTokenValue,
	}, opts)
}

// SetValueToUndefined marks the native value as unresolved, typically after a failed
// conversion described by opts.ConversionErrorTokenValue.
func (h *ValueHost) SetValueToUndefined(opts SetValueOptions) error {
	return h.SetValue(domain.Undefined, opts)
}

// apply replaces the state with the reduction of a. It reports whether anything changed.
func (h *ValueHost) apply(a action) bool {
	next := h.reduce(h.state, a)
	if reflect.DeepEqual(h.state, next) {
		return false
	}
	h.state = next
	return true
}

// update applies a value mutation and runs its side effects: validation or reset,
// the value changed hook and the ripple to dependent value hosts.
func (h *ValueHost) update(a action, opts SetValueOptions) error {
	old := h.state
	h.apply(a)
	valueChanged := !valuesEqual(old.Value, h.state.Value)

	if input := h.owner.input(h.desc.Name); input != nil {
		if opts.Validate && h.state.Status == domain.StatusValueChangedButUnvalidated {
			if _, err := input.Validate(ValidateOptions{DuringEdit: opts.DuringEdit}); err != nil {
				return err
			}
		} else if opts.Reset {
			input.ClearValidation()
		}
	}

	if !opts.SkipValueChangedCallback {
		hooks := h.owner.hooks
		if valueChanged && hooks.OnValueChanged != nil {
			hooks.OnValueChanged(h.changeEvent(domain.EventValueChanged, old.Value, h.state.Value))
		}
		if !valuesEqual(old.InputValue, h.state.InputValue) && hooks.OnInputValueChanged != nil {
			hooks.OnInputValueChanged(h.changeEvent(domain.EventInputValueChanged, old.InputValue, h.state.InputValue))
		}
	}
	if !valueChanged {
		return nil
	}
	return h.owner.ripple(h.desc.Name, opts.Validate)
}

func (h *ValueHost) changeEvent(typ domain.EventType, oldValue, newValue any) *domain.ValueChangedEvent {
	return &domain.ValueChangedEvent{
		EventBase:     domain.EventBase{Timestamp: time.Now(), Type: typ},
		ValueHostName: h.desc.Name,
		OldValue:      oldValue,
		NewValue:      newValue,
		ChangeCounter: h.state.ChangeCounter,
	}
}

func valuesEqual(a, b any) bool {
	return reflect.DeepEqual(a, b)
}
