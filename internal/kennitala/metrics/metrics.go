// Package metrics provides Prometheus metrics for kennitala inspection and generation.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Result label values for inspections.
const (
	ResultValid   = "valid"
	ResultInvalid = "invalid"
)

// Source label values for generated codes.
const (
	SourceBirthday = "birthday"
	SourceRandom   = "random"
)

type Metrics struct {
	InspectionsTotal     *prometheus.CounterVec // by result and kind
	GeneratedTotal       *prometheus.CounterVec // by source and kind
	ChecksumRetriesTotal prometheus.Counter     // sequences discarded for check value 10
	GenerateDuration     *prometheus.HistogramVec
}

// New registers metrics with the default Prometheus registry.
func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

// NewWith registers metrics with reg. Tests pass a fresh registry so repeated
// construction does not panic on duplicate registration.
func NewWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		InspectionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "kennitala_inspections_total",
			Help: "Total number of inspected codes by result and kind",
		}, []string{"result", "kind"}),

		GeneratedTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "kennitala_generated_total",
			Help: "Total number of generated codes by source and kind",
		}, []string{"source", "kind"}),

		ChecksumRetriesTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "kennitala_checksum_retries_total",
			Help: "Total number of sequence draws discarded because the check value was 10",
		}),

		GenerateDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "kennitala_generate_duration_seconds",
			Help:    "Duration of generate operations by source",
			Buckets: []float64{0.00001, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		}, []string{"source"}),
	}
}

func (m *Metrics) IncrementInspection(valid bool, kind string) {
	result := ResultInvalid
	if valid {
		result = ResultValid
	}
	m.InspectionsTotal.WithLabelValues(result, kind).Inc()
}

func (m *Metrics) IncrementGenerated(source, kind string, n int) {
	m.GeneratedTotal.WithLabelValues(source, kind).Add(float64(n))
}

func (m *Metrics) IncrementChecksumRetry() {
	m.ChecksumRetriesTotal.Inc()
}

func (m *Metrics) ObserveGenerate(source string, start time.Time) {
	m.GenerateDuration.WithLabelValues(source).Observe(time.Since(start).Seconds())
}
