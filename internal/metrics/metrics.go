package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "wellremind"

// Metrics holds the engine's collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	triggers      *prometheus.CounterVec
	persistWrites *prometheus.CounterVec
	activities    *prometheus.CounterVec
	polls         prometheus.Counter
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		triggers: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reminder_triggers_total",
			Help:      "Reminder notifications fired, by reminder type.",
		}, []string{"type"}),
		persistWrites: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "persist_writes_total",
			Help:      "Reminder list writes to storage, by result.",
		}, []string{"result"}),
		activities: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "activity_sessions_total",
			Help:      "Activity countdown sessions, by outcome.",
		}, []string{"outcome"}),
		polls: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scheduler_polls_total",
			Help:      "Scheduler poll ticks executed.",
		}),
	}
	reg.MustRegister(m.triggers, m.persistWrites, m.activities, m.polls)
	return m
}

// Handler serves the metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

func (m *Metrics) Triggered(reminderType string) {
	if m == nil {
		return
	}
	m.triggers.WithLabelValues(reminderType).Inc()
}

func (m *Metrics) Persisted(err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.persistWrites.WithLabelValues(result).Inc()
}

// Activity records a session outcome: started, completed, cancelled or replaced.
func (m *Metrics) Activity(outcome string) {
	if m == nil {
		return
	}
	m.activities.WithLabelValues(outcome).Inc()
}

func (m *Metrics) Polled() {
	if m == nil {
		return
	}
	m.polls.Inc()
}
