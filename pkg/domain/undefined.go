package domain

// UndefinedValue is the type of Undefined.
type UndefinedValue struct{}

// Undefined marks a value that could not be produced, such as the native value of an
// input that failed conversion. It is distinct from nil, which means real absence.
var Undefined = UndefinedValue{}

func (UndefinedValue) String() string { return "undefined" }

// IsUndefined reports whether v is the Undefined sentinel.
func IsUndefined(v any) bool {
	_, ok := v.(UndefinedValue)
	return ok
}
