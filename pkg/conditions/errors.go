package conditions

import (
	"fmt"
	"log/slog"
)

// ConfigError reports a configuration fault in a condition.
// It wraps one of the sentinel errors of the domain package.
type ConfigError struct {
	ConditionType string
	ValueHostName string
	Property      string
	Reason        string
	Err           error
}

func (e *ConfigError) Error() string {
	msg := fmt.Sprintf("condition %s", e.ConditionType)
	if e.ValueHostName != "" {
		msg += fmt.Sprintf(" on value host '%s'", e.ValueHostName)
	}
	if e.Property != "" {
		msg += fmt.Sprintf(" property %s", e.Property)
	}
	if e.Reason != "" {
		return fmt.Sprintf("%s: %v: %s", msg, e.Err, e.Reason)
	}
	return fmt.Sprintf("%s: %v", msg, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// fault logs a configuration fault and returns it.
func fault(logger *slog.Logger, err *ConfigError) error {
	logger.Error("condition configuration fault",
		"condition_type", err.ConditionType,
		"value_host", err.ValueHostName,
		"property", err.Property,
		"err", err.Err,
		"reason", err.Reason,
	)
	return err
}
