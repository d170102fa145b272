package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/verdict/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const signupYAML = `
name: signup
valueHosts:
  - name: email
    label: Email
    validators:
      - condition:
          conditionType: RequireText
        errorMessage: "{Label} is required"
      - condition:
          conditionType: StringLength
          maximum: 80
        severity: warning
  - name: plan
    kind: static
    initialValue: free
  - name: age
    dataType: Integer
    group: profile
    validators:
      - enabled: false
        condition:
          conditionType: Range
          minimum: 18
`

func TestParse_YAML(t *testing.T) {
	def, err := Parse([]byte(signupYAML))
	require.NoError(t, err)

	assert.Equal(t, "signup", def.Name)
	require.Len(t, def.ValueHosts, 3)

	email := def.ValueHosts[0]
	assert.Equal(t, "Email", email.Label)
	require.Len(t, email.Validators, 2)
	assert.Equal(t, "RequireText", email.Validators[0].Condition.Type())
	assert.Equal(t, domain.SeverityWarning, email.Validators[1].Severity)
	assert.Equal(t, 80, email.Validators[1].Condition["maximum"])

	assert.Equal(t, domain.KindStatic, def.ValueHosts[1].Kind)
	assert.Equal(t, "free", def.ValueHosts[1].InitialValue)

	age := def.ValueHosts[2]
	assert.Equal(t, "profile", age.Group)
	assert.False(t, age.Validators[0].IsEnabled())
}

func TestParse_JSON(t *testing.T) {
	def, err := Parse([]byte(`{"valueHosts": [{"name": "a", "validators": [{"condition": {"conditionType": "NotNull"}}]}]}`))
	require.NoError(t, err)
	require.Len(t, def.ValueHosts, 1)
	assert.Equal(t, domain.KindInput, def.ValueHosts[0].EffectiveKind())
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want error
	}{
		{"duplicate", "valueHosts: [{name: a}, {name: a}]", domain.ErrDuplicateValueHost},
		{"missing name", "valueHosts: [{label: A}]", domain.ErrInvalidConfig},
		{"unknown key", "valueHosts: [{name: a, colour: red}]", domain.ErrInvalidConfig},
		{"missing type", "valueHosts: [{name: a, validators: [{condition: {minimum: 1}}]}]", domain.ErrInvalidConfig},
		{"bad kind", "valueHosts: [{name: a, kind: dynamic}]", domain.ErrInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "form.yml")
	require.NoError(t, os.WriteFile(path, []byte(signupYAML), 0o644))
	def, err := LoadFile(path)
	require.NoError(t, err)
	assert.Len(t, def.ValueHosts, 3)

	_, err = LoadFile(filepath.Join(dir, "form.toml"))
	assert.Error(t, err)

	values := filepath.Join(dir, "values.json")
	require.NoError(t, os.WriteFile(values, []byte(`{"email": "a@b.c", "age": 30}`), 0o644))
	got, err := LoadValues(values)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"email": "a@b.c", "age": 30}, got)
}
