package conditions

import (
	"errors"
	"testing"

	"github.com/aretw0/verdict/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestRequireText_Evaluate(t *testing.T) {
	c := NewRequireText(RequireTextConfig{TextConfig: TextConfig{EmptyValue: "EMPTY"}})
	r := newResolver()

	tests := []struct {
		name  string
		value any
		want  domain.TriState
	}{
		{"undefined", domain.Undefined, domain.Undetermined},
		{"nil", nil, domain.NoMatch},
		{"empty", "", domain.NoMatch},
		{"placeholder", "EMPTY", domain.NoMatch},
		{"untrimmed text", " ", domain.Match},
		{"text", "A", domain.Match},
		{"number", 10, domain.Undetermined},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.Evaluate(newHost("f", tt.value), r)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRequireText_DuringEdit(t *testing.T) {
	c := NewRequireText(RequireTextConfig{TextConfig: TextConfig{EmptyValue: "EMPTY"}})
	edit := c.Capabilities().DuringEdit
	require.NotNil(t, edit)

	assert.Equal(t, domain.NoMatch, edit(" EMPTY ", nil))
	assert.Equal(t, domain.NoMatch, edit("   ", nil))
	assert.Equal(t, domain.Match, edit(" A ", nil))

	disabled := false
	off := NewRequireText(RequireTextConfig{TextConfig: TextConfig{SupportsDuringEdit: &disabled}})
	for _, in := range []string{"", " EMPTY ", "A"} {
		assert.Equal(t, domain.Undetermined, off.Capabilities().DuringEdit(in, nil), "input %q", in)
	}
}

func TestNotNull_Evaluate(t *testing.T) {
	c := NewNotNull(NotNullConfig{})
	r := newResolver()

	got, _ := c.Evaluate(newHost("f", nil), r)
	assert.Equal(t, domain.NoMatch, got)
	got, _ = c.Evaluate(newHost("f", domain.Undefined), r)
	assert.Equal(t, domain.Undetermined, got)
	got, _ = c.Evaluate(newHost("f", 0), r)
	assert.Equal(t, domain.Match, got)
}

func TestDataTypeCheck_Evaluate(t *testing.T) {
	c := NewDataTypeCheck(DataTypeCheckConfig{})
	r := newResolver()

	got, _ := c.Evaluate(newInputHost("age", 3, "3"), r)
	assert.Equal(t, domain.Match, got)
	got, _ = c.Evaluate(newInputHost("age", domain.Undefined, "three"), r)
	assert.Equal(t, domain.NoMatch, got)
	got, _ = c.Evaluate(newInputHost("age", domain.Undefined, ""), r)
	assert.Equal(t, domain.Undetermined, got)
	got, _ = c.Evaluate(newHost("age", domain.Undefined), r)
	assert.Equal(t, domain.Undetermined, got)
}

func TestRegExp(t *testing.T) {
	t.Run("Evaluate", func(t *testing.T) {
		c, err := NewRegExp(RegExpConfig{Expression: `^\d{3}$`})
		require.NoError(t, err)
		r := newResolver()

		got, _ := c.Evaluate(newHost("code", "123"), r)
		assert.Equal(t, domain.Match, got)
		got, _ = c.Evaluate(newHost("code", "12a"), r)
		assert.Equal(t, domain.NoMatch, got)
		got, _ = c.Evaluate(newHost("code", ""), r)
		assert.Equal(t, domain.Undetermined, got)
		got, _ = c.Evaluate(newHost("code", 123), r)
		assert.Equal(t, domain.Undetermined, got)
	})

	t.Run("IgnoreCase and Not", func(t *testing.T) {
		c, err := NewRegExp(RegExpConfig{Expression: "^abc$", IgnoreCase: true, Not: true})
		require.NoError(t, err)
		got, _ := c.Evaluate(newHost("f", "ABC"), newResolver())
		assert.Equal(t, domain.NoMatch, got)
	})

	t.Run("Malformed expression", func(t *testing.T) {
		_, err := NewRegExp(RegExpConfig{Expression: "(["})
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrInvalidExpression))

		var ce *ConfigError
		require.True(t, errors.As(err, &ce))
		assert.Equal(t, "expression", ce.Property)
	})
}

func TestStringLength(t *testing.T) {
	lo, hi := 2, 4
	c, err := NewStringLength(StringLengthConfig{Minimum: &lo, Maximum: &hi})
	require.NoError(t, err)
	r := newResolver()

	host := newHost("f", "héllo")
	got, _ := c.Evaluate(host, r)
	assert.Equal(t, domain.NoMatch, got)
	n, ok := host.Item(domain.ItemLength)
	require.True(t, ok)
	assert.Equal(t, 5, n)

	got, _ = c.Evaluate(newHost("f", "abc"), r)
	assert.Equal(t, domain.Match, got)

	edit := c.Capabilities().DuringEdit
	assert.Equal(t, domain.Match, edit("  ab  ", newHost("f", domain.Undefined)))

	_, err = NewStringLength(StringLengthConfig{Minimum: &hi, Maximum: &lo})
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)
}

func TestRange_Letters(t *testing.T) {
	c := NewRange(RangeConfig{Minimum: "C", Maximum: "G"})
	r := newResolver()

	tests := []struct {
		value any
		want  domain.TriState
	}{
		{"B", domain.NoMatch},
		{"C", domain.Match},
		{"G", domain.Match},
		{"H", domain.NoMatch},
		{"c", domain.NoMatch},
		{nil, domain.Undetermined},
		{domain.Undefined, domain.Undetermined},
	}
	for _, tt := range tests {
		got, err := c.Evaluate(newHost("f", tt.value), r)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "value %v", tt.value)
	}
}

func TestRange_OpenBounds(t *testing.T) {
	r := newResolver()

	onlyMin := NewRange(RangeConfig{Minimum: 10})
	got, _ := onlyMin.Evaluate(newHost("f", 1_000_000), r)
	assert.Equal(t, domain.Match, got)

	onlyMax := NewRange(RangeConfig{Maximum: 10.5})
	got, _ = onlyMax.Evaluate(newHost("f", 11), r)
	assert.Equal(t, domain.NoMatch, got)
}

type mockComparer struct {
	mock.Mock
}

func (m *mockComparer) Compare(a, b any, keyA, keyB string) domain.ComparisonResult {
	args := m.Called(a, b, keyA, keyB)
	return args.Get(0).(domain.ComparisonResult)
}

func TestRange_TypeMismatchIsUndetermined(t *testing.T) {
	cmp := new(mockComparer)
	cmp.On("Compare", "x", 1, "Integer", "Integer").Return(domain.ComparisonUndefined)

	r := newResolver()
	r.services.Comparer = cmp

	c := NewRange(RangeConfig{Minimum: 1, Maximum: 5, ConversionLookupKey: "Integer"})
	got, err := c.Evaluate(newHost("f", "x"), r)
	require.NoError(t, err)
	assert.Equal(t, domain.Undetermined, got)

	// The maximum is never consulted once the minimum comparison fails.
	cmp.AssertNumberOfCalls(t, "Compare", 1)
	cmp.AssertExpectations(t)
}

func TestCompare(t *testing.T) {
	email := newHost("email", "a@b.c")
	confirm := newHost("confirm", "a@b.c")
	other := newHost("other", "x@y.z")
	r := newResolver(email, confirm, other)

	t.Run("Second value host takes precedence", func(t *testing.T) {
		c, err := NewCompare(OpEqualTo, CompareConfig{SecondValue: "nope", SecondValueHostName: "email"})
		require.NoError(t, err)
		got, err := c.Evaluate(confirm, r)
		require.NoError(t, err)
		assert.Equal(t, domain.Match, got)

		got, _ = c.Evaluate(other, r)
		assert.Equal(t, domain.NoMatch, got)
	})

	t.Run("Literal fallback when host is not registered", func(t *testing.T) {
		c, err := NewCompare(OpEqualTo, CompareConfig{SecondValue: "x@y.z", SecondValueHostName: "missing"})
		require.NoError(t, err)
		got, err := c.Evaluate(other, r)
		require.NoError(t, err)
		assert.Equal(t, domain.Match, got)
	})

	t.Run("Unresolvable host without literal is a fault", func(t *testing.T) {
		c, err := NewCompare(OpEqualTo, CompareConfig{SecondValueHostName: "missing"})
		require.NoError(t, err)
		_, err = c.Evaluate(other, r)
		assert.ErrorIs(t, err, domain.ErrValueHostNotFound)
	})

	t.Run("Missing operand", func(t *testing.T) {
		_, err := NewCompare(OpLessThan, CompareConfig{})
		assert.ErrorIs(t, err, domain.ErrMissingSecondOperand)
	})

	t.Run("Ordering", func(t *testing.T) {
		tests := []struct {
			op    Operator
			value any
			want  domain.TriState
		}{
			{OpLessThan, 4, domain.Match},
			{OpLessThan, 5, domain.NoMatch},
			{OpLessThanOrEqual, 5, domain.Match},
			{OpGreaterThan, 6, domain.Match},
			{OpGreaterThanOrEqual, 4, domain.NoMatch},
			{OpNotEqualTo, 4, domain.Match},
			{OpGreaterThan, "five", domain.Undetermined},
		}
		for _, tt := range tests {
			c, err := NewCompare(tt.op, CompareConfig{SecondValue: 5})
			require.NoError(t, err)
			got, err := c.Evaluate(newHost("n", tt.value), r)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got, "%s %v", tt.op, tt.value)
		}
	})

	t.Run("Gathers both names", func(t *testing.T) {
		c, err := NewCompare(OpEqualTo, CompareConfig{
			CommonConfig:        CommonConfig{ValueHostName: "confirm"},
			SecondValueHostName: "email",
		})
		require.NoError(t, err)
		names := map[string]struct{}{}
		c.GatherValueHostNames(names)
		assert.Equal(t, map[string]struct{}{"confirm": {}, "email": {}}, names)
	})
}

func TestResolveHost_UnknownNameIsFault(t *testing.T) {
	c := NewRequireText(RequireTextConfig{CommonConfig: CommonConfig{ValueHostName: "ghost"}})
	_, err := c.Evaluate(newHost("f", "A"), newResolver())
	require.Error(t, err)

	var ce *ConfigError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "ghost", ce.ValueHostName)
	assert.ErrorIs(t, err, domain.ErrValueHostNotFound)
}
