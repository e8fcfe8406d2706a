package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Counters(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveMutation("upsert", OutcomeOK)
	m.ObserveMutation("upsert", OutcomeOK)
	m.ObserveMutation("delete", OutcomeNotFound)
	m.IncValidationFailure("name")
	m.IncNavigation("back")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Mutations.WithLabelValues("upsert", OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Mutations.WithLabelValues("delete", OutcomeNotFound)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ValidationFailures.WithLabelValues("name")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.NavigationEvents.WithLabelValues("back")))
}

func TestMetrics_Gauges(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveCategoryLoad(OutcomeOK, 6)
	assert.Equal(t, 6.0, testutil.ToFloat64(m.CategoriesLoaded))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CategoryLoads.WithLabelValues(OutcomeOK)))

	m.WatchStarted()
	m.WatchStarted()
	m.WatchStopped()
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ActiveWatches))
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveMutation("upsert", OutcomeOK)
		m.IncValidationFailure("name")
		m.ObserveCategoryLoad(OutcomeError, 0)
		m.WatchStarted()
		m.WatchStopped()
		m.IncNavigation("back")
	})
}
