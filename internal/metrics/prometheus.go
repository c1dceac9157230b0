package metrics

import (
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/arloliu/tawzi/types"
)

// PrometheusCollector implements types.MetricsCollector backed by Prometheus.
//
// Collectors are created and registered lazily on first use so that an
// unused collector never touches the registry.
type PrometheusCollector struct {
	reg       prometheus.Registerer
	namespace string
	once      sync.Once

	runDuration   prometheus.Histogram
	runs          *prometheus.CounterVec
	assignments   *prometheus.GaugeVec
	coverage      prometheus.Gauge
	unassigned    prometheus.Gauge
	warnings      *prometheus.CounterVec
	storeDuration *prometheus.HistogramVec
	storeResults  *prometheus.CounterVec
}

// Compile-time assertion that PrometheusCollector implements MetricsCollector.
var _ types.MetricsCollector = (*PrometheusCollector)(nil)

// NewPrometheus creates a new Prometheus-backed metrics collector.
//
// Parameters:
//   - reg: Prometheus registerer interface (uses prometheus.DefaultRegisterer if nil)
//   - namespace: Prometheus metrics namespace (defaults to "tawzi" if empty)
//
// Returns:
//   - *PrometheusCollector: A MetricsCollector implementation using Prometheus
func NewPrometheus(reg prometheus.Registerer, namespace string) *PrometheusCollector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if namespace == "" {
		namespace = "tawzi"
	}

	return &PrometheusCollector{reg: reg, namespace: namespace}
}

func (p *PrometheusCollector) ensureRegistered() {
	p.once.Do(func() {
		p.runDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "distribution",
			Name:      "run_duration_seconds",
			Help:      "Duration of distribution runs in seconds.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 12), // 0.5ms .. ~1s
		})

		p.runs = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "distribution",
			Name:      "runs_total",
			Help:      "Total distribution runs by outcome (success,aborted).",
		}, []string{"result"})

		p.assignments = prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: p.namespace,
			Subsystem: "distribution",
			Name:      "assignments",
			Help:      "Final assignments of the last run by method.",
		}, []string{"method"})

		p.coverage = prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: p.namespace,
			Subsystem: "distribution",
			Name:      "coverage_ratio",
			Help:      "Assigned school ratio of the last run (0..1).",
		})

		p.unassigned = prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: p.namespace,
			Subsystem: "distribution",
			Name:      "unassigned_schools",
			Help:      "Schools left unassigned by the last run.",
		})

		p.warnings = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "distribution",
			Name:      "warnings_total",
			Help:      "Total non-fatal run warnings by kind.",
		}, []string{"kind"})

		p.storeDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "store",
			Name:      "operation_duration_seconds",
			Help:      "Assignment store operation latency in seconds by operation.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}, []string{"op"})

		p.storeResults = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "store",
			Name:      "operations_total",
			Help:      "Total assignment store operations by operation and success.",
		}, []string{"op", "success"})

		p.reg.MustRegister(p.runDuration)
		p.reg.MustRegister(p.runs)
		p.reg.MustRegister(p.assignments)
		p.reg.MustRegister(p.coverage)
		p.reg.MustRegister(p.unassigned)
		p.reg.MustRegister(p.warnings)
		p.reg.MustRegister(p.storeDuration)
		p.reg.MustRegister(p.storeResults)
	})
}

// RecordRunDuration observes the duration of a run in seconds.
func (p *PrometheusCollector) RecordRunDuration(duration float64) {
	p.ensureRegistered()
	p.runDuration.Observe(duration)
}

// RecordRun increments the run counter for the outcome.
func (p *PrometheusCollector) RecordRun(success bool) {
	p.ensureRegistered()
	result := "success"
	if !success {
		result = "aborted"
	}
	p.runs.WithLabelValues(result).Inc()
}

// RecordAssignments sets the assignment gauge for the method.
func (p *PrometheusCollector) RecordAssignments(method string, count int) {
	p.ensureRegistered()
	p.assignments.WithLabelValues(method).Set(float64(count))
}

// RecordCoverage sets the coverage gauge.
func (p *PrometheusCollector) RecordCoverage(ratio float64) {
	p.ensureRegistered()
	p.coverage.Set(ratio)
}

// RecordUnassigned sets the unassigned schools gauge.
func (p *PrometheusCollector) RecordUnassigned(count int) {
	p.ensureRegistered()
	p.unassigned.Set(float64(count))
}

// RecordWarnings adds count to the warning counter for kind.
func (p *PrometheusCollector) RecordWarnings(kind string, count int) {
	p.ensureRegistered()
	p.warnings.WithLabelValues(kind).Add(float64(count))
}

// RecordStoreOperation observes a store operation.
func (p *PrometheusCollector) RecordStoreOperation(operation string, duration float64, success bool) {
	p.ensureRegistered()
	p.storeDuration.WithLabelValues(operation).Observe(duration)
	p.storeResults.WithLabelValues(operation, strconv.FormatBool(success)).Inc()
}
