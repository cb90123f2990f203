// Package metrics counts calculator and settings activity with Prometheus.
// A nil *Metrics is valid and records nothing.
package metrics

import (
	"sort"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// Field outcomes
const (
	OutcomeCommitted  = "committed"
	OutcomeParseError = "parse_error"
	OutcomeRejected   = "rejected"
	OutcomeCancelled  = "cancelled"
)

const namespace = "estimator"

// Metrics holds the estimator counters
type Metrics struct {
	registry prometheus.Gatherer

	recomputations     prometheus.Counter
	validationFailures prometheus.Counter
	fieldOutcomes      *prometheus.CounterVec
	publishes          *prometheus.CounterVec
	skippedPublishes   *prometheus.CounterVec
}

// New registers the counters on registerer. A nil registerer gets a private
// registry, which Gather reads from.
func New(registerer prometheus.Registerer) *Metrics {
	var gatherer prometheus.Gatherer
	if registerer == nil {
		reg := prometheus.NewRegistry()
		registerer, gatherer = reg, reg
	} else if g, ok := registerer.(prometheus.Gatherer); ok {
		gatherer = g
	}

	m := &Metrics{
		registry: gatherer,
		recomputations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "recomputations_total",
			Help:      "Form updates that triggered validation and repricing.",
		}),
		validationFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "validation_failures_total",
			Help:      "Recomputations that ended with a validation error.",
		}),
		fieldOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "field",
			Name:      "outcomes_total",
			Help:      "Debounced field timer outcomes by field and result.",
		}, []string{"field", "outcome"}),
		publishes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "settings",
			Name:      "publishes_total",
			Help:      "Configuration snapshots published by section.",
		}, []string{"section"}),
		skippedPublishes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "settings",
			Name:      "skipped_publishes_total",
			Help:      "Section flushes skipped because nothing changed.",
		}, []string{"section"}),
	}

	registerer.MustRegister(
		m.recomputations,
		m.validationFailures,
		m.fieldOutcomes,
		m.publishes,
		m.skippedPublishes,
	)
	return m
}

// Recomputed records one session recompute
func (m *Metrics) Recomputed(valid bool) {
	if m == nil {
		return
	}
	m.recomputations.Inc()
	if !valid {
		m.validationFailures.Inc()
	}
}

// FieldOutcome records how a debounced field timer ended
func (m *Metrics) FieldOutcome(field, outcome string) {
	if m == nil {
		return
	}
	m.fieldOutcomes.WithLabelValues(field, outcome).Inc()
}

// Published records a snapshot publish for section
func (m *Metrics) Published(section string) {
	if m == nil {
		return
	}
	m.publishes.WithLabelValues(section).Inc()
}

// SkippedPublish records a no-op flush for section
func (m *Metrics) SkippedPublish(section string) {
	if m == nil {
		return
	}
	m.skippedPublishes.WithLabelValues(section).Inc()
}

// Sample is one counter value
type Sample struct {
	Name   string
	Labels map[string]string
	Value  float64
}

// Gather returns every counter sample sorted by name. It returns nil when
// the registerer given to New cannot be gathered.
func (m *Metrics) Gather() ([]Sample, error) {
	if m == nil || m.registry == nil {
		return nil, nil
	}
	families, err := m.registry.Gather()
	if err != nil {
		return nil, err
	}

	var samples []Sample
	for _, family := range families {
		if family.GetType() != dto.MetricType_COUNTER {
			continue
		}
		for _, metric := range family.GetMetric() {
			labels := make(map[string]string, len(metric.GetLabel()))
			for _, pair := range metric.GetLabel() {
				labels[pair.GetName()] = pair.GetValue()
			}
			samples = append(samples, Sample{
				Name:   family.GetName(),
				Labels: labels,
				Value:  metric.GetCounter().GetValue(),
			})
		}
	}

	sort.SliceStable(samples, func(i, j int) bool {
		return samples[i].Name < samples[j].Name
	})
	return samples, nil
}
