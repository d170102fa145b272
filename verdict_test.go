package verdict_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/verdict"
	"github.com/aretw0/verdict/pkg/domain"
	"github.com/aretw0/verdict/pkg/ports"
	"github.com/aretw0/verdict/pkg/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForm_Validate(t *testing.T) {
	form, err := verdict.New([]domain.ValueHostDescriptor{
		{Name: "age", Label: "Age", DataType: "Integer", Validators: []domain.ValidatorDescriptor{{
			Condition:    domain.ConditionConfig{"conditionType": "Range", "minimum": 18, "maximum": 120},
			ErrorMessage: "{Label} must be between 18 and 120, got {Value}",
		}}},
	})
	require.NoError(t, err)

	require.NoError(t, form.SetValue("age", 12, verdict.SetValueOptions{}))
	res, err := form.Validate(verdict.ValidateOptions{})
	require.NoError(t, err)
	assert.False(t, res.IsValid)
	require.Len(t, res.Issues, 1)
	assert.Equal(t, "Age must be between 18 and 120, got 12", res.Issues[0].ErrorMessage)

	err = form.SetValue("missing", 1, verdict.SetValueOptions{})
	assert.ErrorIs(t, err, domain.ErrValueHostNotFound)
}

func TestForm_Localization(t *testing.T) {
	form, err := verdict.New([]domain.ValueHostDescriptor{
		{Name: "name", Label: "Nome", Validators: []domain.ValidatorDescriptor{{
			Condition: domain.ConditionConfig{"conditionType": "RequireText"},
			ErrorCode: "required",
		}}},
	}, verdict.WithLocalization(domain.LocalizationContext{
		CultureID: "pt-BR",
		Lookup: func(key, culture string) (string, bool) {
			return "{Label} é obrigatório", key == "required" && culture == "pt-BR"
		},
	}))
	require.NoError(t, err)

	require.NoError(t, form.SetValue("name", "", verdict.SetValueOptions{Validate: true}))
	issues := form.IssuesFor("name")
	require.Len(t, issues, 1)
	assert.Equal(t, "Nome é obrigatório", issues[0].ErrorMessage)
}

func TestForm_AsyncRegistry(t *testing.T) {
	reg := registry.NewRegistry()
	reg.RegisterAsync("unique", func(ctx context.Context, host ports.ValueHost, _ ports.Resolver) (domain.TriState, error) {
		return domain.Match, nil
	})
	form, err := verdict.New([]domain.ValueHostDescriptor{
		{Name: "user", Validators: []domain.ValidatorDescriptor{{
			Condition: domain.ConditionConfig{"conditionType": "Function", "function": "unique"},
		}}},
	}, verdict.WithRegistry(reg))
	require.NoError(t, err)

	require.NoError(t, form.SetValue("user", "ann", verdict.SetValueOptions{Validate: true}))
	assert.True(t, form.DoNotSaveNativeValue())
	require.NoError(t, form.ResolvePending(context.Background()))
	assert.False(t, form.DoNotSaveNativeValue())
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "signup.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
name: signup
valueHosts:
  - name: email
    validators:
      - condition:
          conditionType: RegExp
          expression: "^[^@]+@[^@]+$"
        errorMessage: Invalid email
`), 0o644))

	form, err := verdict.Open(path)
	require.NoError(t, err)
	assert.Equal(t, "signup", form.Name)

	require.NoError(t, form.SetValue("email", "nope", verdict.SetValueOptions{Validate: true}))
	assert.False(t, form.IsValid())
	assert.Equal(t, "Invalid email", form.Summary("")[0].ErrorMessage)

	restored, err := verdict.New(form.Descriptors(), verdict.WithState(form.State()))
	require.NoError(t, err)
	assert.False(t, restored.IsValid())
}
