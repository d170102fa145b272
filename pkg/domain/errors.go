package domain

import "errors"

// ErrValueHostNotFound is returned when a condition references a value host name that the resolver cannot find.
var ErrValueHostNotFound = errors.New("value host not found")

// ErrMissingSecondOperand is returned when a comparison has neither a second value nor a second value host.
var ErrMissingSecondOperand = errors.New("missing second operand")

// ErrUnknownConditionType is returned by a condition factory for an unregistered condition type.
var ErrUnknownConditionType = errors.New("unknown condition type")

// ErrInvalidExpression is returned when a regular expression source cannot be compiled.
var ErrInvalidExpression = errors.New("invalid expression")

// ErrInvalidConfig is returned when a condition or descriptor property is malformed.
var ErrInvalidConfig = errors.New("invalid configuration")

// ErrDuplicateValueHost is returned when a descriptor reuses a name already held by the manager.
var ErrDuplicateValueHost = errors.New("duplicate value host")

// ErrSessionNotFound is returned when a session ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")
