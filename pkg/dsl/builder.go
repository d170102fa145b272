package dsl

import (
	"fmt"

	"github.com/aretw0/verdict/pkg/domain"
)

// Builder manages the form construction.
type Builder struct {
	order  []string
	fields map[string]*FieldBuilder
}

// New creates a new form builder.
func New() *Builder {
	return &Builder{
		fields: make(map[string]*FieldBuilder),
	}
}

// Add creates a new value host in the form.
// If the value host already exists, it returns the existing builder.
func (b *Builder) Add(name string) *FieldBuilder {
	if fb, ok := b.fields[name]; ok {
		return fb
	}
	fb := &FieldBuilder{
		desc: domain.ValueHostDescriptor{
			Name: name,
		},
	}
	b.fields[name] = fb
	b.order = append(b.order, name)
	return fb
}

// Build returns the descriptors in the order the value hosts were added.
func (b *Builder) Build() ([]domain.ValueHostDescriptor, error) {
	descriptors := make([]domain.ValueHostDescriptor, 0, len(b.order))
	for _, name := range b.order {
		fb := b.fields[name]
		for i, v := range fb.desc.Validators {
			if v.Condition.Type() == "" {
				return nil, fmt.Errorf("value host %s: validator %d has no condition type: %w", name, i, domain.ErrInvalidConfig)
			}
		}
		descriptors = append(descriptors, fb.Build())
	}
	return descriptors, nil
}

// FieldBuilder provides a fluent API for configuring a value host.
type FieldBuilder struct {
	desc domain.ValueHostDescriptor
}

// Label sets the text used for {Label} in messages.
func (f *FieldBuilder) Label(label string) *FieldBuilder {
	f.desc.Label = label
	return f
}

// DataType sets the lookup key describing the native value.
func (f *FieldBuilder) DataType(dataType string) *FieldBuilder {
	f.desc.DataType = dataType
	return f
}

// Static marks the value host as holding a native value only.
func (f *FieldBuilder) Static() *FieldBuilder {
	f.desc.Kind = domain.KindStatic
	return f
}

// Input marks the value host as an input value host, even without validators.
func (f *FieldBuilder) Input() *FieldBuilder {
	f.desc.Kind = domain.KindInput
	return f
}

// Initial seeds the native value.
func (f *FieldBuilder) Initial(value any) *FieldBuilder {
	f.desc.InitialValue = value
	return f
}

// Group assigns the value host to a validation group.
func (f *FieldBuilder) Group(group string) *FieldBuilder {
	f.desc.Group = group
	return f
}

// Rule adds a validator with the given error message.
func (f *FieldBuilder) Rule(cond domain.ConditionConfig, message string) *FieldBuilder {
	f.desc.Validators = append(f.desc.Validators, domain.ValidatorDescriptor{
		Condition:    cond,
		ErrorMessage: message,
	})
	return f
}

// Warn adds a validator whose issues do not invalidate the value host.
func (f *FieldBuilder) Warn(cond domain.ConditionConfig, message string) *FieldBuilder {
	f.desc.Validators = append(f.desc.Validators, domain.ValidatorDescriptor{
		Condition:    cond,
		ErrorMessage: message,
		Severity:     domain.SeverityWarning,
	})
	return f
}

// Validator adds a fully specified validator.
func (f *FieldBuilder) Validator(v domain.ValidatorDescriptor) *FieldBuilder {
	f.desc.Validators = append(f.desc.Validators, v)
	return f
}

// Build returns the underlying descriptor.
func (f *FieldBuilder) Build() domain.ValueHostDescriptor {
	return f.desc
}
