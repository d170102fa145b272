package ports

import (
	"log/slog"

	"github.com/aretw0/verdict/pkg/domain"
)

// Comparer relates two values, optionally converting each side first.
type Comparer interface {
	// Compare returns domain.ComparisonUndefined when the values cannot be related,
	// for example because their types differ.
	Compare(a, b any, lookupKeyA, lookupKeyB string) domain.ComparisonResult
}

// Converter converts a value toward the primitive type named by a lookup key.
type Converter interface {
	// ConvertToPrimitive returns domain.Undefined when the value cannot be converted.
	// An empty lookup key returns the value unchanged.
	ConvertToPrimitive(value any, lookupKey string) any
}

// Services bundles the collaborators handed to conditions through the Resolver.
type Services struct {
	Comparer     Comparer
	Converter    Converter
	Logger       *slog.Logger
	Localization domain.LocalizationContext
}
