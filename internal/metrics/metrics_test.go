package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.Recomputed(true)
	m.Recomputed(false)
	m.FieldOutcome("employees", OutcomeCommitted)
	m.FieldOutcome("employees", OutcomeParseError)
	m.FieldOutcome("employees", OutcomeParseError)
	m.Published("pricing")
	m.SkippedPublish("variables")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.recomputations))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.validationFailures))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.fieldOutcomes.WithLabelValues("employees", OutcomeCommitted)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.fieldOutcomes.WithLabelValues("employees", OutcomeParseError)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.publishes.WithLabelValues("pricing")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.skippedPublishes.WithLabelValues("variables")))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.Recomputed(false)
		m.FieldOutcome("revenue", OutcomeRejected)
		m.Published("pricing")
		m.SkippedPublish("pricing")
	})

	samples, err := m.Gather()
	require.NoError(t, err)
	assert.Nil(t, samples)
}

func TestGather(t *testing.T) {
	m := New(nil)
	m.Recomputed(true)
	m.Published("industries")

	samples, err := m.Gather()
	require.NoError(t, err)

	byName := map[string]Sample{}
	for _, s := range samples {
		byName[s.Name] = s
	}

	require.Contains(t, byName, "estimator_session_recomputations_total")
	assert.Equal(t, 1.0, byName["estimator_session_recomputations_total"].Value)

	require.Contains(t, byName, "estimator_settings_publishes_total")
	assert.Equal(t, "industries", byName["estimator_settings_publishes_total"].Labels["section"])
}
