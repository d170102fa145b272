package observability

import (
	"log/slog"

	"github.com/aretw0/verdict/pkg/domain"
)

// LogHooks returns lifecycle hooks that write each event to logger at debug level.
func LogHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnValueChanged: func(e *domain.ValueChangedEvent) {
			logger.Debug("value_changed",
				"value_host", e.ValueHostName,
				"change_counter", e.ChangeCounter,
			)
		},
		OnInputValueChanged: func(e *domain.ValueChangedEvent) {
			logger.Debug("input_value_changed",
				"value_host", e.ValueHostName,
				"change_counter", e.ChangeCounter,
			)
		},
		OnValidated: func(e *domain.ValidatedEvent) {
			logger.Debug("validated",
				"value_host", e.ValueHostName,
				"status", e.Status,
				"issues", len(e.Issues),
				"during_edit", e.DuringEdit,
			)
		},
		OnRipple: func(e *domain.RippleEvent) {
			logger.Debug("ripple",
				"source", e.Source,
				"target", e.Target,
				"revalidated", e.Revalidated,
			)
		},
	}
}
