package main

import (
	"context"
	"fmt"

	"github.com/aretw0/verdict"
	"github.com/aretw0/verdict/pkg/domain"
	"github.com/aretw0/verdict/pkg/loader"
)

// openForm loads the form file and, when valuesPath is set, applies the values in it.
func openForm(path, valuesPath string, opts ...verdict.Option) (*verdict.Form, error) {
	form, err := verdict.Open(path, append([]verdict.Option{verdict.WithLogger(logger)}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to load form: %w", err)
	}
	if valuesPath == "" {
		return form, nil
	}

	values, err := loader.LoadValues(valuesPath)
	if err != nil {
		return nil, err
	}
	if err := applyValues(form, values); err != nil {
		return nil, err
	}
	return form, nil
}

// applyValues feeds each value in descriptor order. Input value hosts receive it as
// both native and input value.
func applyValues(form *verdict.Form, values map[string]any) error {
	for _, desc := range form.Descriptors() {
		value, ok := values[desc.Name]
		if !ok {
			continue
		}
		var err error
		if desc.EffectiveKind() == domain.KindInput {
			err = form.SetValues(desc.Name, value, value, verdict.SetValueOptions{})
		} else {
			err = form.SetValue(desc.Name, value, verdict.SetValueOptions{})
		}
		if err != nil {
			return err
		}
	}
	for name := range values {
		if _, ok := form.Value(name); !ok {
			logger.Warn("ignoring value for unknown value host", "value_host", name)
		}
	}
	return nil
}

// validateForm runs a full pass and waits for async conditions.
func validateForm(ctx context.Context, form *verdict.Form, group string) (domain.ValidateResult, error) {
	result, err := form.Validate(verdict.ValidateOptions{Group: group})
	if err != nil {
		return result, err
	}
	if err := form.ResolvePending(ctx); err != nil {
		return result, err
	}
	result.IsValid = form.IsValid()
	result.DoNotSaveNativeValue = form.DoNotSaveNativeValue()
	result.Issues = form.Summary(group)
	return result, nil
}
