package domain

import "time"

// EventType defines the category of the event.
type EventType string

const (
	EventValueChanged      EventType = "value_changed"
	EventInputValueChanged EventType = "input_value_changed"
	EventValidated         EventType = "validated"
	EventRipple            EventType = "ripple"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
}

// ValueChangedEvent is emitted after a value host's native or input value changed.
type ValueChangedEvent struct {
	EventBase
	ValueHostName string `json:"value_host_name"`
	OldValue      any    `json:"old_value,omitempty"`
	NewValue      any    `json:"new_value,omitempty"`
	ChangeCounter int    `json:"change_counter"`
}

// ValidatedEvent is emitted after an input value host finished a validation pass.
type ValidatedEvent struct {
	EventBase
	ValueHostName string           `json:"value_host_name"`
	Status        ValidationStatus `json:"status"`
	Issues        []Issue          `json:"issues,omitempty"`
	DuringEdit    bool             `json:"during_edit,omitempty"`
}

// RippleEvent is emitted when a value change reaches a dependent value host.
type RippleEvent struct {
	EventBase
	Source      string `json:"source"`
	Target      string `json:"target"`
	Revalidated bool   `json:"revalidated"`
}

// LifecycleHooks defines callbacks for engine observability.
// Hooks run synchronously inside the call that triggered them.
type LifecycleHooks struct {
	OnValueChanged      func(*ValueChangedEvent)
	OnInputValueChanged func(*ValueChangedEvent)
	OnValidated         func(*ValidatedEvent)
	OnRipple            func(*RippleEvent)
}

// Merge returns hooks that call h first and then other.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnValueChanged:      chain(h.OnValueChanged, other.OnValueChanged),
		OnInputValueChanged: chain(h.OnInputValueChanged, other.OnInputValueChanged),
		OnValidated:         chain(h.OnValidated, other.OnValidated),
		OnRipple:            chain(h.OnRipple, other.OnRipple),
	}
}

func chain[E any](a, b func(*E)) func(*E) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(e *E) {
		a(e)
		b(e)
	}
}
