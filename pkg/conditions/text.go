package conditions

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/aretw0/verdict/pkg/domain"
	"github.com/aretw0/verdict/pkg/ports"
)

// TextConfig holds the during-edit settings shared by string rules.
type TextConfig struct {
	// SupportsDuringEdit enables evaluation of raw input text. Defaults to true.
	SupportsDuringEdit *bool `mapstructure:"supportsDuringEdit"`
	// Trim removes surrounding whitespace from input text. Defaults to true.
	Trim *bool `mapstructure:"trim"`
	// EmptyValue is a placeholder string treated as empty.
	EmptyValue string `mapstructure:"emptyValue"`
}

// textRule implements the during-edit preprocessing shared by string rules.
type textRule struct {
	duringEdit bool
	trim       bool
	emptyValue string
}

func newTextRule(cfg TextConfig) textRule {
	return textRule{
		duringEdit: boolOr(cfg.SupportsDuringEdit, true),
		trim:       boolOr(cfg.Trim, true),
		emptyValue: cfg.EmptyValue,
	}
}

// prepare normalizes input text. ok is false when during-edit evaluation is disabled.
func (r textRule) prepare(text string) (string, bool) {
	if !r.duringEdit {
		return "", false
	}
	if r.trim {
		text = strings.TrimSpace(text)
	}
	if r.emptyValue != "" && text == r.emptyValue {
		text = ""
	}
	return text, true
}

// RequireTextConfig configures RequireText.
type RequireTextConfig struct {
	CommonConfig `mapstructure:",squash"`
	TextConfig   `mapstructure:",squash"`
}

// RequireText requires a non-empty string.
// The native value is not trimmed; trimming belongs to whatever produced it.
type RequireText struct {
	base
	text textRule
}

// NewRequireText creates a RequireText condition.
func NewRequireText(cfg RequireTextConfig) *RequireText {
	return &RequireText{
		base: newBase(cfg.CommonConfig, TypeRequireText, domain.CategoryRequired),
		text: newTextRule(cfg.TextConfig),
	}
}

func (c *RequireText) Evaluate(host ports.ValueHost, resolver ports.Resolver) (domain.TriState, error) {
	target, err := c.resolveHost(host, resolver)
	if err != nil {
		return domain.Undetermined, err
	}
	value := target.Value()
	switch v := value.(type) {
	case domain.UndefinedValue:
		return domain.Undetermined, nil
	case nil:
		return domain.NoMatch, nil
	case string:
		if v == "" || (c.text.emptyValue != "" && v == c.text.emptyValue) {
			return domain.NoMatch, nil
		}
		return domain.Match, nil
	}
	return domain.Undetermined, nil
}

func (c *RequireText) Capabilities() Capabilities {
	return Capabilities{DuringEdit: c.duringEdit}
}

func (c *RequireText) duringEdit(text string, _ ports.ValueHost) domain.TriState {
	text, ok := c.text.prepare(text)
	if !ok {
		return domain.Undetermined
	}
	if text == "" {
		return domain.NoMatch
	}
	return domain.Match
}

// RegExpConfig configures RegExp.
type RegExpConfig struct {
	CommonConfig `mapstructure:",squash"`
	TextConfig   `mapstructure:",squash"`
	Expression   string `mapstructure:"expression"`
	IgnoreCase   bool   `mapstructure:"ignoreCase"`
	Multiline    bool   `mapstructure:"multiline"`
	// Not inverts the rule: the value must not match the expression.
	Not bool `mapstructure:"not"`
}

// RegExp tests a string against a regular expression.
// Empty strings are left to RequireText and evaluate to Undetermined.
type RegExp struct {
	base
	text textRule
	re   *regexp.Regexp
	not  bool
}

// NewRegExp compiles the expression and creates a RegExp condition.
func NewRegExp(cfg RegExpConfig) (*RegExp, error) {
	b := newBase(cfg.CommonConfig, TypeRegExp, domain.CategoryContents)
	if cfg.Expression == "" {
		return nil, &ConfigError{ConditionType: TypeRegExp, ValueHostName: cfg.ValueHostName,
			Property: "expression", Reason: "expression is required", Err: domain.ErrInvalidExpression}
	}

	flags := ""
	if cfg.IgnoreCase {
		flags += "i"
	}
	if cfg.Multiline {
		flags += "m"
	}
	source := cfg.Expression
	if flags != "" {
		source = "(?" + flags + ")" + source
	}

	re, err := regexp.Compile(source)
	if err != nil {
		return nil, &ConfigError{ConditionType: TypeRegExp, ValueHostName: cfg.ValueHostName,
			Property: "expression", Reason: err.Error(), Err: domain.ErrInvalidExpression}
	}
	return &RegExp{base: b, text: newTextRule(cfg.TextConfig), re: re, not: cfg.Not}, nil
}

func (c *RegExp) Evaluate(host ports.ValueHost, resolver ports.Resolver) (domain.TriState, error) {
	target, err := c.resolveHost(host, resolver)
	if err != nil {
		return domain.Undetermined, err
	}
	s, ok := target.Value().(string)
	if !ok {
		return domain.Undetermined, nil
	}
	return c.test(s), nil
}

func (c *RegExp) Capabilities() Capabilities {
	return Capabilities{DuringEdit: c.duringEdit}
}

func (c *RegExp) duringEdit(text string, _ ports.ValueHost) domain.TriState {
	text, ok := c.text.prepare(text)
	if !ok {
		return domain.Undetermined
	}
	return c.test(text)
}

func (c *RegExp) test(s string) domain.TriState {
	if s == "" {
		return domain.Undetermined
	}
	if c.re.MatchString(s) != c.not {
		return domain.Match
	}
	return domain.NoMatch
}

// StringLengthConfig configures StringLength.
type StringLengthConfig struct {
	CommonConfig `mapstructure:",squash"`
	TextConfig   `mapstructure:",squash"`
	Minimum      *int `mapstructure:"minimum"`
	Maximum      *int `mapstructure:"maximum"`
}

// StringLength checks the rune count of a string against inclusive bounds.
// The measured length is cached on the value host under domain.ItemLength.
type StringLength struct {
	base
	text     textRule
	min, max *int
}

// NewStringLength creates a StringLength condition.
func NewStringLength(cfg StringLengthConfig) (*StringLength, error) {
	if cfg.Minimum != nil && cfg.Maximum != nil && *cfg.Minimum > *cfg.Maximum {
		return nil, &ConfigError{ConditionType: TypeStringLength, ValueHostName: cfg.ValueHostName,
			Property: "minimum", Reason: "minimum exceeds maximum", Err: domain.ErrInvalidConfig}
	}
	return &StringLength{
		base: newBase(cfg.CommonConfig, TypeStringLength, domain.CategoryContents),
		text: newTextRule(cfg.TextConfig),
		min:  cfg.Minimum,
		max:  cfg.Maximum,
	}, nil
}

func (c *StringLength) Evaluate(host ports.ValueHost, resolver ports.Resolver) (domain.TriState, error) {
	target, err := c.resolveHost(host, resolver)
	if err != nil {
		return domain.Undetermined, err
	}
	s, ok := target.Value().(string)
	if !ok {
		return domain.Undetermined, nil
	}
	return c.measure(s, target), nil
}

func (c *StringLength) Capabilities() Capabilities {
	return Capabilities{DuringEdit: c.duringEdit}
}

func (c *StringLength) duringEdit(text string, host ports.ValueHost) domain.TriState {
	text, ok := c.text.prepare(text)
	if !ok {
		return domain.Undetermined
	}
	return c.measure(text, host)
}

func (c *StringLength) measure(s string, host ports.ValueHost) domain.TriState {
	n := utf8.RuneCountInString(s)
	if host != nil {
		host.SetItem(domain.ItemLength, n)
	}
	if c.min != nil && n < *c.min {
		return domain.NoMatch
	}
	if c.max != nil && n > *c.max {
		return domain.NoMatch
	}
	return domain.Match
}
