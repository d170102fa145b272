package runtime_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/aretw0/verdict/internal/runtime"
	"github.com/aretw0/verdict/pkg/conditions"
	"github.com/aretw0/verdict/pkg/domain"
	"github.com/aretw0/verdict/pkg/ports"
	"github.com/aretw0/verdict/pkg/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func required() domain.ValidatorDescriptor {
	return domain.ValidatorDescriptor{
		Condition:    domain.ConditionConfig{"conditionType": conditions.TypeRequireText},
		ErrorMessage: "{Label} is required",
	}
}

func signupForm() []domain.ValueHostDescriptor {
	return []domain.ValueHostDescriptor{
		{Name: "email", Label: "Email", Validators: []domain.ValidatorDescriptor{required()}},
		{
			Name:  "confirm",
			Label: "Confirm email",
			Validators: []domain.ValidatorDescriptor{{
				Condition: domain.ConditionConfig{
					"conditionType":       conditions.TypeEqualTo,
					"secondValueHostName": "email",
				},
				ErrorMessage: "Emails do not match",
			}},
		},
		{Name: "nickname", Validators: []domain.ValidatorDescriptor{required()}},
		{Name: "plan", InitialValue: "free"},
	}
}

func newManager(t *testing.T, opts ...runtime.Option) *runtime.Manager {
	t.Helper()
	m, err := runtime.New(signupForm(), opts...)
	require.NoError(t, err)
	return m
}

func input(t *testing.T, m *runtime.Manager, name string) *runtime.InputValueHost {
	t.Helper()
	in, ok := m.Input(name)
	require.True(t, ok, "input value host %s", name)
	return in
}

func TestManager_New(t *testing.T) {
	m := newManager(t)

	assert.Equal(t, []string{"email", "confirm", "nickname", "plan"}, m.Names())

	plan, ok := m.Host("plan")
	require.True(t, ok)
	assert.Equal(t, domain.KindStatic, plan.Kind())
	assert.Equal(t, "free", plan.Value())
	assert.Equal(t, domain.Undefined, plan.InputValue())

	_, ok = m.Input("plan")
	assert.False(t, ok)

	email := input(t, m, "email")
	assert.Equal(t, domain.StatusNotAttempted, email.Status())
	assert.True(t, domain.IsUndefined(email.Value()))

	assert.Equal(t, []string{"confirm"}, m.Dependents("email"))
	assert.Empty(t, m.Dependents("nickname"))
}

func TestManager_DuplicateValueHost(t *testing.T) {
	m := newManager(t)
	err := m.AddValueHost(domain.ValueHostDescriptor{Name: "email"})
	assert.ErrorIs(t, err, domain.ErrDuplicateValueHost)

	_, err = runtime.New([]domain.ValueHostDescriptor{{Name: domain.FormFieldName}})
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)
}

func TestManager_Ripple(t *testing.T) {
	m := newManager(t)
	email := input(t, m, "email")
	confirm := input(t, m, "confirm")
	nickname := input(t, m, "nickname")

	require.NoError(t, email.SetValue("a@b.c", runtime.SetValueOptions{}))
	require.NoError(t, confirm.SetValue("a@b.c", runtime.SetValueOptions{}))
	_, err := m.Validate(runtime.ValidateOptions{})
	require.NoError(t, err)
	require.Equal(t, domain.StatusValid, confirm.Status())

	t.Run("Unrelated change leaves dependents alone", func(t *testing.T) {
		before := confirm.State()
		require.NoError(t, nickname.SetValue("ann", runtime.SetValueOptions{}))
		assert.Equal(t, before, confirm.State())
	})

	t.Run("Change reaches dependents", func(t *testing.T) {
		require.NoError(t, email.SetValue("x@y.z", runtime.SetValueOptions{}))
		assert.Equal(t, domain.StatusValueChangedButUnvalidated, confirm.Status())
		assert.Equal(t, domain.StatusValueChangedButUnvalidated, email.Status())
		assert.True(t, m.DoNotSaveNativeValue())
	})

	t.Run("Immediate revalidation", func(t *testing.T) {
		require.NoError(t, email.SetValue("a@b.c", runtime.SetValueOptions{Validate: true}))
		assert.Equal(t, domain.StatusValid, email.Status())
		assert.Equal(t, domain.StatusValid, confirm.Status())

		require.NoError(t, email.SetValue("q@r.s", runtime.SetValueOptions{Validate: true}))
		assert.Equal(t, domain.StatusInvalid, confirm.Status())
		require.Len(t, confirm.Issues(), 1)
		assert.Equal(t, "Emails do not match", confirm.Issues()[0].ErrorMessage)
	})
}

func TestManager_RippleSkipsNotAttempted(t *testing.T) {
	m := newManager(t)
	require.NoError(t, input(t, m, "email").SetValue("a@b.c", runtime.SetValueOptions{}))
	assert.Equal(t, domain.StatusNotAttempted, input(t, m, "confirm").Status())
}

func TestManager_DiscardRebuildsDependents(t *testing.T) {
	m := newManager(t)
	require.NoError(t, m.DiscardValueHost("confirm"))
	assert.Empty(t, m.Dependents("email"))

	err := m.DiscardValueHost("confirm")
	assert.ErrorIs(t, err, domain.ErrValueHostNotFound)

	require.NoError(t, m.AddValueHost(domain.ValueHostDescriptor{
		Name: "other",
		Validators: []domain.ValidatorDescriptor{{
			Condition: domain.ConditionConfig{"conditionType": conditions.TypeNotNull, "valueHostName": "email"},
		}},
	}))
	assert.Equal(t, []string{"other"}, m.Dependents("email"))
}

func TestManager_UpdateValueHostKeepsValue(t *testing.T) {
	m := newManager(t)
	require.NoError(t, input(t, m, "nickname").SetValue("", runtime.SetValueOptions{Validate: true}))
	require.Equal(t, domain.StatusInvalid, input(t, m, "nickname").Status())

	require.NoError(t, m.UpdateValueHost(domain.ValueHostDescriptor{Name: "nickname", Kind: domain.KindInput}))
	nick := input(t, m, "nickname")
	assert.Equal(t, "", nick.Value())
	assert.Equal(t, domain.StatusNotAttempted, nick.Status())

	res, err := nick.Validate(runtime.ValidateOptions{})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusValid, res.Status, "no validators means valid")
}

func TestManager_DoNotSaveNativeValue(t *testing.T) {
	m := newManager(t)
	assert.False(t, m.DoNotSaveNativeValue(), "nothing attempted yet")

	email := input(t, m, "email")
	require.NoError(t, email.SetValue("a@b.c", runtime.SetValueOptions{}))
	assert.True(t, m.DoNotSaveNativeValue(), "changed but unvalidated")
	assert.True(t, m.IsValid())

	require.NoError(t, input(t, m, "confirm").SetValue("a@b.c", runtime.SetValueOptions{}))
	require.NoError(t, input(t, m, "nickname").SetValue("ann", runtime.SetValueOptions{}))
	res, err := m.Validate(runtime.ValidateOptions{})
	require.NoError(t, err)
	assert.True(t, res.IsValid)
	assert.False(t, res.DoNotSaveNativeValue)

	require.NoError(t, input(t, m, "nickname").SetValue("", runtime.SetValueOptions{Validate: true}))
	assert.False(t, m.IsValid())
	assert.True(t, m.DoNotSaveNativeValue())
}

func TestManager_ValidateReportsIssues(t *testing.T) {
	m := newManager(t)
	res, err := m.Validate(runtime.ValidateOptions{})
	require.NoError(t, err)

	assert.True(t, res.IsValid, "undetermined fields are not invalid")
	require.Len(t, res.Fields, 3)
	assert.Equal(t, "email", res.Fields[0].ValueHostName)
	// An undefined email is neither present nor absent.
	assert.Equal(t, domain.StatusUndetermined, res.Fields[0].Status)

	require.NoError(t, input(t, m, "nickname").SetValue(nil, runtime.SetValueOptions{}))
	res, err = m.Validate(runtime.ValidateOptions{})
	require.NoError(t, err)
	require.Len(t, res.Issues, 1)
	assert.Equal(t, "nickname is required", res.Issues[0].ErrorMessage)
	assert.Equal(t, domain.SeverityError, res.Issues[0].Severity)
}

func TestManager_Groups(t *testing.T) {
	m, err := runtime.New([]domain.ValueHostDescriptor{
		{Name: "street", Group: "address", Validators: []domain.ValidatorDescriptor{required()}},
		{Name: "card", Group: "payment", Validators: []domain.ValidatorDescriptor{required()}},
	})
	require.NoError(t, err)
	require.NoError(t, input(t, m, "street").SetValue("", runtime.SetValueOptions{}))
	require.NoError(t, input(t, m, "card").SetValue("", runtime.SetValueOptions{}))

	res, err := m.Validate(runtime.ValidateOptions{Group: "address"})
	require.NoError(t, err)
	require.Len(t, res.Fields, 1)
	assert.Equal(t, "street", res.Fields[0].ValueHostName)
	require.Len(t, res.Issues, 1)
	assert.Equal(t, "street", res.Issues[0].ValueHostName)
	assert.False(t, res.IsValid)
	assert.Equal(t, domain.StatusInvalid, input(t, m, "street").Status())
	assert.Equal(t, domain.StatusValueChangedButUnvalidated, input(t, m, "card").Status())
	assert.Len(t, m.Summary("address"), 1)
	assert.Empty(t, m.Summary("payment"))
}

func TestManager_SevereStopsValidators(t *testing.T) {
	m, err := runtime.New([]domain.ValueHostDescriptor{{
		Name: "code",
		Validators: []domain.ValidatorDescriptor{
			{Condition: domain.ConditionConfig{"conditionType": conditions.TypeNotNull}, Severity: domain.SeveritySevere},
			{Condition: domain.ConditionConfig{"conditionType": conditions.TypeRequireText}},
		},
	}})
	require.NoError(t, err)
	code := input(t, m, "code")
	require.NoError(t, code.SetValue(nil, runtime.SetValueOptions{}))

	res, err := code.Validate(runtime.ValidateOptions{})
	require.NoError(t, err)
	require.Len(t, res.Issues, 1)
	assert.Equal(t, conditions.TypeNotNull, res.Issues[0].ConditionType)
}

func TestManager_WarningDoesNotInvalidate(t *testing.T) {
	m, err := runtime.New([]domain.ValueHostDescriptor{{
		Name: "bio",
		Validators: []domain.ValidatorDescriptor{{
			Condition: domain.ConditionConfig{"conditionType": conditions.TypeStringLength, "maximum": 5},
			Severity:  domain.SeverityWarning,
		}},
	}})
	require.NoError(t, err)
	bio := input(t, m, "bio")
	require.NoError(t, bio.SetValue("a long biography", runtime.SetValueOptions{Validate: true}))

	assert.Equal(t, domain.StatusValid, bio.Status())
	assert.Len(t, bio.Issues(), 1)
	n, ok := bio.Item(domain.ItemLength)
	require.True(t, ok)
	assert.Equal(t, 16, n)
}

func TestManager_ConfigurationFault(t *testing.T) {
	m, err := runtime.New([]domain.ValueHostDescriptor{{
		Name: "confirm",
		Validators: []domain.ValidatorDescriptor{{
			Condition: domain.ConditionConfig{"conditionType": conditions.TypeRequireText, "valueHostName": "ghost"},
		}},
	}})
	require.NoError(t, err)

	_, err = m.Validate(runtime.ValidateOptions{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrValueHostNotFound))
	assert.Equal(t, domain.StatusNotAttempted, input(t, m, "confirm").Status())

	_, err = runtime.New([]domain.ValueHostDescriptor{{
		Name:       "x",
		Validators: []domain.ValidatorDescriptor{{Condition: domain.ConditionConfig{"conditionType": "Nope"}}},
	}})
	assert.ErrorIs(t, err, domain.ErrUnknownConditionType)
}

func TestManager_DuringEdit(t *testing.T) {
	m, err := runtime.New([]domain.ValueHostDescriptor{{
		Name: "name",
		Validators: []domain.ValidatorDescriptor{{
			Condition: domain.ConditionConfig{"conditionType": conditions.TypeRequireText, "emptyValue": "EMPTY"},
		}},
	}})
	require.NoError(t, err)
	name := input(t, m, "name")

	require.NoError(t, name.SetInputValue(" EMPTY ", runtime.SetValueOptions{Validate: true, DuringEdit: true}))
	assert.Equal(t, domain.StatusInvalid, name.Status())

	require.NoError(t, name.SetInputValue(" A ", runtime.SetValueOptions{Validate: true, DuringEdit: true}))
	assert.Equal(t, domain.StatusValid, name.Status())
}

func TestManager_DuringEditKeepsUncheckedRules(t *testing.T) {
	equalToEmail := domain.ValidatorDescriptor{
		Condition: domain.ConditionConfig{
			"conditionType":       conditions.TypeEqualTo,
			"secondValueHostName": "email",
		},
		ErrorMessage: "Emails do not match",
	}
	newForm := func(t *testing.T, confirmValue string) *runtime.Manager {
		t.Helper()
		m, err := runtime.New([]domain.ValueHostDescriptor{
			{Name: "email", Validators: []domain.ValidatorDescriptor{required()}},
			{Name: "confirm", Validators: []domain.ValidatorDescriptor{required(), equalToEmail}},
			{Name: "code", Validators: []domain.ValidatorDescriptor{equalToEmail}},
		})
		require.NoError(t, err)
		require.NoError(t, input(t, m, "email").SetValues("a@b.c", "a@b.c", runtime.SetValueOptions{}))
		require.NoError(t, input(t, m, "confirm").SetValues(confirmValue, confirmValue, runtime.SetValueOptions{Validate: true}))
		return m
	}
	edit := runtime.SetValueOptions{Validate: true, DuringEdit: true}

	tests := []struct {
		name         string
		confirmValue string
		field        string
		input        any
		wantStatus   domain.ValidationStatus
		wantIssues   []string
	}{
		{
			name:         "Mismatch survives an edit that passes text rules",
			confirmValue: "x@y.z",
			field:        "confirm",
			input:        "x@y.z ",
			wantStatus:   domain.StatusInvalid,
			wantIssues:   []string{conditions.TypeEqualTo},
		},
		{
			name:         "Text rule fails next to a kept mismatch",
			confirmValue: "x@y.z",
			field:        "confirm",
			input:        "   ",
			wantStatus:   domain.StatusInvalid,
			wantIssues:   []string{conditions.TypeRequireText, conditions.TypeEqualTo},
		},
		{
			name:         "Non-string input",
			confirmValue: "x@y.z",
			field:        "confirm",
			input:        42,
			wantStatus:   domain.StatusInvalid,
			wantIssues:   []string{conditions.TypeEqualTo},
		},
		{
			name:         "Undefined input after a valid pass",
			confirmValue: "a@b.c",
			field:        "confirm",
			input:        domain.Undefined,
			wantStatus:   domain.StatusUndetermined,
		},
		{
			name:         "Only rules without an edit path",
			confirmValue: "a@b.c",
			field:        "code",
			input:        "a@b.c",
			wantStatus:   domain.StatusUndetermined,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newForm(t, tt.confirmValue)
			field := input(t, m, tt.field)

			require.NoError(t, field.SetInputValue(tt.input, edit))

			assert.Equal(t, tt.wantStatus, field.Status())
			var types []string
			for _, issue := range field.Issues() {
				types = append(types, issue.ConditionType)
			}
			assert.Equal(t, tt.wantIssues, types)
			assert.Equal(t, tt.wantStatus != domain.StatusInvalid, m.IsValid())
		})
	}

	t.Run("Full validation replaces kept issues", func(t *testing.T) {
		m := newForm(t, "x@y.z")
		confirm := input(t, m, "confirm")
		require.NoError(t, confirm.SetInputValue("a@b.c", edit))
		require.Equal(t, domain.StatusInvalid, confirm.Status())

		require.NoError(t, confirm.SetValue("a@b.c", runtime.SetValueOptions{Validate: true}))
		assert.Equal(t, domain.StatusValid, confirm.Status())
		assert.Empty(t, confirm.Issues())
	})
}

func TestManager_BusinessLogicErrors(t *testing.T) {
	m := newManager(t)

	m.SetBusinessLogicErrors([]domain.BusinessLogicError{
		{ErrorMessage: "email taken", AssociatedValueHostName: "email"},
		{ErrorMessage: "server busy"},
		{ErrorMessage: "stale", AssociatedValueHostName: "gone"},
	})
	assert.Equal(t, domain.StatusInvalid, input(t, m, "email").Status())
	assert.False(t, m.IsValid())
	assert.True(t, m.DoNotSaveNativeValue())
	require.Len(t, m.IssuesFor(domain.FormFieldName), 2)
	assert.Equal(t, domain.FormFieldName, m.IssuesFor(domain.FormFieldName)[0].ValueHostName)

	t.Run("Replaced, not appended", func(t *testing.T) {
		m.SetBusinessLogicErrors([]domain.BusinessLogicError{
			{ErrorMessage: "consider a shorter nickname", AssociatedValueHostName: "nickname", Severity: domain.SeverityWarning},
		})
		assert.Equal(t, domain.StatusNotAttempted, input(t, m, "email").Status())
		assert.Empty(t, m.IssuesFor(domain.FormFieldName))
		assert.Len(t, m.IssuesFor("nickname"), 1)
		assert.True(t, m.IsValid())
	})

	t.Run("Cleared with validation", func(t *testing.T) {
		m.SetBusinessLogicErrors([]domain.BusinessLogicError{{ErrorMessage: "nope", AssociatedValueHostName: "email"}})
		m.ClearValidation()
		assert.Empty(t, m.Summary(""))
		assert.True(t, m.IsValid())
	})
}

func TestManager_RoundTrip(t *testing.T) {
	m := newManager(t)
	require.NoError(t, input(t, m, "email").SetValues("a@b.c", "a@b.c", runtime.SetValueOptions{}))
	require.NoError(t, input(t, m, "confirm").SetValue("x@y.z", runtime.SetValueOptions{}))
	_, err := m.Validate(runtime.ValidateOptions{})
	require.NoError(t, err)
	m.SetBusinessLogicErrors([]domain.BusinessLogicError{{ErrorMessage: "try later"}})

	raw, err := json.Marshal(m.State())
	require.NoError(t, err)
	var state domain.ManagerState
	require.NoError(t, json.Unmarshal(raw, &state))

	restored, err := runtime.New(signupForm(), runtime.WithState(&state))
	require.NoError(t, err)

	for _, name := range m.Names() {
		orig, _ := m.Host(name)
		got, ok := restored.Host(name)
		require.True(t, ok)
		assert.Equal(t, orig.Value(), got.Value(), name)
		assert.Equal(t, orig.ChangeCounter(), got.ChangeCounter(), name)
		if in, ok := m.Input(name); ok {
			assert.Equal(t, in.Status(), input(t, restored, name).Status(), name)
			assert.Equal(t, in.Issues(), input(t, restored, name).Issues(), name)
		}
	}
	assert.Equal(t, m.IsValid(), restored.IsValid())
	assert.Equal(t, m.DoNotSaveNativeValue(), restored.DoNotSaveNativeValue())
}

func TestManager_Hooks(t *testing.T) {
	var changed, validated []string
	var inputs []domain.ValueChangedEvent
	var ripples []domain.RippleEvent
	m := newManager(t, runtime.WithLifecycleHooks(domain.LifecycleHooks{
		OnValueChanged:      func(e *domain.ValueChangedEvent) { changed = append(changed, e.ValueHostName) },
		OnInputValueChanged: func(e *domain.ValueChangedEvent) { inputs = append(inputs, *e) },
		OnValidated:         func(e *domain.ValidatedEvent) { validated = append(validated, e.ValueHostName) },
		OnRipple:            func(e *domain.RippleEvent) { ripples = append(ripples, *e) },
	}))

	_, err := m.Validate(runtime.ValidateOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"email", "confirm", "nickname"}, validated)

	email := input(t, m, "email")
	require.NoError(t, email.SetValue("a@b.c", runtime.SetValueOptions{}))
	require.NoError(t, email.SetValue("a@b.c", runtime.SetValueOptions{}))
	require.NoError(t, email.SetValue("d@e.f", runtime.SetValueOptions{SkipValueChangedCallback: true}))
	assert.Equal(t, []string{"email"}, changed)

	require.Len(t, ripples, 2)
	assert.Equal(t, "email", ripples[0].Source)
	assert.Equal(t, "confirm", ripples[0].Target)
	assert.False(t, ripples[0].Revalidated)

	t.Run("Input changes", func(t *testing.T) {
		require.NoError(t, email.SetInputValue("d@e.f", runtime.SetValueOptions{}))
		require.NoError(t, email.SetInputValue("d@e.f", runtime.SetValueOptions{}))
		require.NoError(t, email.SetInputValue("g@h.i", runtime.SetValueOptions{SkipValueChangedCallback: true}))

		require.Len(t, inputs, 1)
		assert.Equal(t, domain.EventInputValueChanged, inputs[0].Type)
		assert.Equal(t, "email", inputs[0].ValueHostName)
		assert.Equal(t, domain.Undefined, inputs[0].OldValue)
		assert.Equal(t, "d@e.f", inputs[0].NewValue)
		assert.Equal(t, []string{"email"}, changed)
		assert.Len(t, ripples, 2)
	})
}

func TestManager_Async(t *testing.T) {
	reg := registry.NewRegistry()
	calls := 0
	reg.RegisterAsync("available", func(_ context.Context, host ports.ValueHost, _ ports.Resolver) (domain.TriState, error) {
		calls++
		if host.Value() == "taken" {
			return domain.NoMatch, nil
		}
		return domain.Match, nil
	})
	m, err := runtime.New([]domain.ValueHostDescriptor{{
		Name: "user",
		Validators: []domain.ValidatorDescriptor{
			required(),
			{
				Condition:    domain.ConditionConfig{"conditionType": conditions.TypeFunction, "function": "available"},
				ErrorMessage: "{Value} is taken",
			},
		},
	}}, runtime.WithFactory(conditions.NewFactory(conditions.WithRegistry(reg))))
	require.NoError(t, err)
	user := input(t, m, "user")
	ctx := context.Background()

	t.Run("Pending until resolved", func(t *testing.T) {
		require.NoError(t, user.SetValue("taken", runtime.SetValueOptions{Validate: true}))
		assert.Equal(t, domain.StatusAsyncProcessing, user.Status())
		assert.Equal(t, 1, m.Pending())
		assert.True(t, m.DoNotSaveNativeValue())

		require.NoError(t, m.ResolvePending(ctx))
		assert.Equal(t, domain.StatusInvalid, user.Status())
		require.Len(t, user.Issues(), 1)
		assert.Equal(t, "taken is taken", user.Issues()[0].ErrorMessage)
		assert.Zero(t, m.Pending())
	})

	t.Run("Stale results are discarded", func(t *testing.T) {
		require.NoError(t, user.SetValue("free", runtime.SetValueOptions{Validate: true}))
		require.Equal(t, domain.StatusAsyncProcessing, user.Status())
		require.NoError(t, user.SetValue("taken", runtime.SetValueOptions{}))

		before := calls
		require.NoError(t, m.ResolvePending(ctx))
		assert.Equal(t, before+1, calls)
		assert.Equal(t, domain.StatusValueChangedButUnvalidated, user.Status())
		assert.Zero(t, m.Pending())
	})

	t.Run("Cancelled context", func(t *testing.T) {
		require.NoError(t, user.SetValue("other", runtime.SetValueOptions{Validate: true}))
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		assert.ErrorIs(t, m.ResolvePending(cctx), context.Canceled)
		assert.Equal(t, 1, m.Pending())
	})
}
