package observability

import (
	"github.com/aretw0/verdict/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the collectors fed by form lifecycle events.
type Metrics struct {
	ValueChanges *prometheus.CounterVec
	Validations  *prometheus.CounterVec
	Issues       *prometheus.CounterVec
	Ripples      *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ValueChanges: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "verdict_value_changes_total",
				Help: "Total number of value host changes",
			},
			[]string{"value_host"},
		),
		Validations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "verdict_validations_total",
				Help: "Total number of validation passes by resulting status",
			},
			[]string{"value_host", "status"},
		),
		Issues: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "verdict_issues_total",
				Help: "Total number of issues reported by condition type and severity",
			},
			[]string{"condition_type", "severity"},
		),
		Ripples: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "verdict_ripples_total",
				Help: "Total number of dependent value hosts touched by a change",
			},
			[]string{"revalidated"},
		),
	}
	if reg != nil {
		reg.MustRegister(m.ValueChanges, m.Validations, m.Issues, m.Ripples)
	}
	return m
}

// Hooks returns lifecycle hooks that record into m.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnValueChanged: func(e *domain.ValueChangedEvent) {
			m.ValueChanges.WithLabelValues(e.ValueHostName).Inc()
		},
		OnValidated: func(e *domain.ValidatedEvent) {
			m.Validations.WithLabelValues(e.ValueHostName, string(e.Status)).Inc()
			for _, issue := range e.Issues {
				m.Issues.WithLabelValues(issue.ConditionType, string(issue.Severity)).Inc()
			}
		},
		OnRipple: func(e *domain.RippleEvent) {
			label := "false"
			if e.Revalidated {
				label = "true"
			}
			m.Ripples.WithLabelValues(label).Inc()
		},
	}
}
