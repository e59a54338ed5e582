// Package metrics records build and validation counters in a Prometheus
// registry. A batch run has no scrape endpoint, so the registry is written
// to a node-exporter textfile at the end of the run.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/roach88/qbcube/internal/cube"
	"github.com/roach88/qbcube/internal/integrity"
)

const namespace = "qbcube"

// Metrics holds the qbcube collectors.
type Metrics struct {
	registry *prometheus.Registry

	// RowsRead counts input rows by cube.
	RowsRead *prometheus.CounterVec
	// RowsDropped counts rows skipped by cube and reason
	// (incomplete, invalid, unmatched).
	RowsDropped *prometheus.CounterVec
	// Observations counts emitted observations by cube.
	Observations *prometheus.CounterVec
	// CodedResources counts emitted dimension values by cube.
	CodedResources *prometheus.CounterVec
	// Statements is the size of the last built graph by cube.
	Statements *prometheus.GaugeVec
	// BuildDuration measures cube builds.
	BuildDuration *prometheus.HistogramVec
	// RuleViolated is 1 when the rule reported a violation on the cube.
	RuleViolated *prometheus.GaugeVec
}

// New registers the collectors on reg. A nil reg gets a fresh registry.
func New(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	factory := promauto.With(reg)
	return &Metrics{
		registry: reg,
		RowsRead: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_read_total",
			Help:      "Input rows read by cube",
		}, []string{"cube"}),
		RowsDropped: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_dropped_total",
			Help:      "Input rows dropped by cube and reason",
		}, []string{"cube", "reason"}),
		Observations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "observations_total",
			Help:      "Observations emitted by cube",
		}, []string{"cube"}),
		CodedResources: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "coded_resources_total",
			Help:      "Coded dimension values emitted by cube",
		}, []string{"cube"}),
		Statements: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "statements",
			Help:      "Statements in the last built graph by cube",
		}, []string{"cube"}),
		BuildDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "build_duration_seconds",
			Help:      "Cube build duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"cube"}),
		RuleViolated: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "rule_violated",
			Help:      "1 when an integrity rule is violated on a cube, 0 otherwise",
		}, []string{"cube", "rule"}),
	}
}

// Registry returns the registry the collectors live in.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordBuild records the outcome of one cube build.
func (m *Metrics) RecordBuild(res *cube.Result, elapsed time.Duration) {
	name := string(res.Kind)
	m.RowsRead.WithLabelValues(name).Add(float64(res.Stats.RowsRead))
	for _, reason := range res.Stats.DropReasons() {
		m.RowsDropped.WithLabelValues(name, reason).Add(float64(res.Stats.Dropped[reason]))
	}
	m.Observations.WithLabelValues(name).Add(float64(res.Stats.Observations))
	m.CodedResources.WithLabelValues(name).Add(float64(res.Stats.CodedResources))
	m.Statements.WithLabelValues(name).Set(float64(res.Graph.Len()))
	m.BuildDuration.WithLabelValues(name).Observe(elapsed.Seconds())
}

// RecordReport records the verdicts of a validation run. Rules that failed
// to evaluate are left unset.
func (m *Metrics) RecordReport(report *integrity.Report) {
	for _, r := range report.Results {
		if r.Error != "" {
			continue
		}
		v := 0.0
		if r.Violated {
			v = 1
		}
		m.RuleViolated.WithLabelValues(report.Cube, r.ID).Set(v)
	}
}

// WriteTextfile writes the registry in the Prometheus text format. The file
// is replaced atomically.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
