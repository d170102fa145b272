package ports

import "github.com/aretw0/verdict/pkg/domain"

// ValueHost is the view of a value host available to conditions.
type ValueHost interface {
	Name() string
	Label() string
	DataType() string
	Kind() domain.ValueHostKind

	// Value returns the native value, domain.Undefined when it could not be produced.
	Value() any

	// InputValue returns the raw edited value. Static value hosts return domain.Undefined.
	InputValue() any

	ChangeCounter() int

	// Item returns data cached by a condition.
	Item(key string) (any, bool)

	// SetItem caches data on the value host. It replaces the state but is not a value change.
	SetItem(key string, value any)
}

// Resolver looks up value hosts by name.
type Resolver interface {
	// ValueHost returns the named value host, or false if it is not registered.
	ValueHost(name string) (ValueHost, bool)

	// Services returns the collaborators shared by every condition.
	Services() Services
}
