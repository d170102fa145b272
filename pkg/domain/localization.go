package domain

// LocalizationContext carries the culture used to resolve user-facing text.
// It is passed explicitly instead of being read from global state.
type LocalizationContext struct {
	CultureID string

	// Lookup returns the localized text for key, or false when none exists.
	Lookup func(key, cultureID string) (string, bool)
}

// Localize returns the localized text for key, or fallback.
func (l LocalizationContext) Localize(key, fallback string) string {
	if key == "" || l.Lookup == nil {
		return fallback
	}
	if text, ok := l.Lookup(key, l.CultureID); ok {
		return text
	}
	return fallback
}
