package runtime

import (
	"maps"
	"slices"

	"github.com/aretw0/verdict/pkg/domain"
)

type actionType int

const (
	actSetValue actionType = iota
	actSetInputValue
	actSetValues
	actSetItem
	actSetValidation
	actClearValidation
	actSetBusinessLogicErrors
	actRipple
)

// action describes one state transition of a value host.
type action struct {
	typ        actionType
	value      any
	input      any
	reset      bool
	tokenValue string

	key  string
	item any

	status domain.ValidationStatus
	issues []domain.Issue
	errors []domain.BusinessLogicError
}

// reducer returns the state that follows s under a. It never modifies s.
type reducer func(s domain.ValueHostState, a action) domain.ValueHostState

// reduceValueHost handles the transitions shared by every value host.
func reduceValueHost(s domain.ValueHostState, a action) domain.ValueHostState {
	switch a.typ {
	case actSetValue, actSetValues:
		if valuesEqual(s.Value, a.value) && !a.reset && s.ConversionErrorTokenValue == a.tokenValue {
			return s
		}
		next := s
		next.Value = a.value
		next.ConversionErrorTokenValue = a.tokenValue
		next.ChangeCounter = bump(s.ChangeCounter, a.reset)
		return next

	case actSetItem:
		if old, ok := s.Items[a.key]; ok && valuesEqual(old, a.item) {
			return s
		}
		next := s
		next.Items = maps.Clone(s.Items)
		if next.Items == nil {
			next.Items = make(map[string]any, 1)
		}
		next.Items[a.key] = a.item
		return next
	}
	return s
}

// reduceInputValueHost adds input value tracking and validation state.
func reduceInputValueHost(s domain.ValueHostState, a action) domain.ValueHostState {
	switch a.typ {
	case actSetValue:
		next := reduceValueHost(s, a)
		if next.ChangeCounter != s.ChangeCounter || a.reset {
			next.Status = domain.StatusValueChangedButUnvalidated
		}
		return next

	case actSetInputValue:
		if valuesEqual(s.InputValue, a.input) && !a.reset {
			return s
		}
		next := s
		next.InputValue = a.input
		next.ChangeCounter = bump(s.ChangeCounter, a.reset)
		next.Status = domain.StatusValueChangedButUnvalidated
		return next

	case actSetValues:
		next := reduceValueHost(s, a)
		if !valuesEqual(s.InputValue, a.input) {
			next.InputValue = a.input
			if next.ChangeCounter == s.ChangeCounter {
				next.ChangeCounter = bump(s.ChangeCounter, a.reset)
			}
		}
		if next.ChangeCounter != s.ChangeCounter || a.reset {
			next.Status = domain.StatusValueChangedButUnvalidated
		}
		return next

	case actSetValidation:
		next := s
		next.Status = a.status
		next.IssuesFound = slices.Clone(a.issues)
		return next

	case actClearValidation:
		next := s
		next.Status = domain.StatusNotAttempted
		next.IssuesFound = nil
		next.BusinessLogicErrors = nil
		return next

	case actSetBusinessLogicErrors:
		next := s
		next.BusinessLogicErrors = slices.Clone(a.errors)
		return next

	case actRipple:
		if s.Status == domain.StatusNotAttempted {
			return s
		}
		next := s
		next.Status = domain.StatusValueChangedButUnvalidated
		return next
	}
	return reduceValueHost(s, a)
}

func bump(counter int, reset bool) int {
	if reset {
		return 0
	}
	return counter + 1
}
