// Package metrics provides Prometheus instrumentation for the recipe core.
//
// A nil *Metrics is valid and records nothing, so components can take an
// optional *Metrics without guarding every call.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels.
const (
	OutcomeOK       = "ok"
	OutcomeError    = "error"
	OutcomeNotFound = "not_found"
	OutcomeInvalid  = "invalid"
)

// Metrics tracks repository and edit-session activity.
type Metrics struct {
	Mutations          *prometheus.CounterVec
	ValidationFailures *prometheus.CounterVec
	CategoryLoads      *prometheus.CounterVec
	CategoriesLoaded   prometheus.Gauge
	ActiveWatches      prometheus.Gauge
	NavigationEvents   *prometheus.CounterVec
}

// New creates a Metrics instance registered with reg.
// Pass prometheus.NewRegistry() in tests to avoid global registration.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Mutations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "recipebox_mutations_total",
			Help: "Total number of recipe mutations by operation and outcome",
		}, []string{"op", "outcome"}),
		ValidationFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "recipebox_validation_failures_total",
			Help: "Total number of failed field validations on save",
		}, []string{"field"}),
		CategoryLoads: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "recipebox_category_loads_total",
			Help: "Total number of category asset loads by outcome",
		}, []string{"outcome"}),
		CategoriesLoaded: factory.NewGauge(prometheus.GaugeOpts{
			Name: "recipebox_categories_loaded",
			Help: "Number of categories currently cached",
		}),
		ActiveWatches: factory.NewGauge(prometheus.GaugeOpts{
			Name: "recipebox_active_watches",
			Help: "Number of live recipe subscriptions",
		}),
		NavigationEvents: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "recipebox_navigation_events_total",
			Help: "Total number of dispatched navigation events by kind",
		}, []string{"kind"}),
	}
}

// ObserveMutation records one upsert or delete.
func (m *Metrics) ObserveMutation(op, outcome string) {
	if m == nil {
		return
	}
	m.Mutations.WithLabelValues(op, outcome).Inc()
}

// IncValidationFailure records a failed field on save.
func (m *Metrics) IncValidationFailure(field string) {
	if m == nil {
		return
	}
	m.ValidationFailures.WithLabelValues(field).Inc()
}

// ObserveCategoryLoad records a category load and the resulting list size.
func (m *Metrics) ObserveCategoryLoad(outcome string, n int) {
	if m == nil {
		return
	}
	m.CategoryLoads.WithLabelValues(outcome).Inc()
	m.CategoriesLoaded.Set(float64(n))
}

// WatchStarted records a new live subscription.
func (m *Metrics) WatchStarted() {
	if m == nil {
		return
	}
	m.ActiveWatches.Inc()
}

// WatchStopped records the end of a live subscription.
func (m *Metrics) WatchStopped() {
	if m == nil {
		return
	}
	m.ActiveWatches.Dec()
}

// IncNavigation records a dispatched navigation event.
func (m *Metrics) IncNavigation(kind string) {
	if m == nil {
		return
	}
	m.NavigationEvents.WithLabelValues(kind).Inc()
}
