package metrics

import (
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.Triggered("water")
	m.Triggered("water")
	m.Persisted(nil)
	m.Persisted(errors.New("disk full"))
	m.Activity("completed")
	m.Polled()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.triggers.WithLabelValues("water")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.persistWrites.WithLabelValues("error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.activities.WithLabelValues("completed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.polls))

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), "wellremind_reminder_triggers_total")
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.Triggered("eyes")
		m.Persisted(nil)
		m.Activity("started")
		m.Polled()
	})
}
