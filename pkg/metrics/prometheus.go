// Package metrics provides Prometheus metrics for a selfarena tournament run.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Default metrics configuration constants.
const (
	defaultNamespace = "selfarena"
	defaultSubsystem = "tournament"
)

// Failure reasons used as label values.
const (
	ReasonExec    = "exec"
	ReasonParse   = "parse"
	ReasonTimeout = "timeout"
)

// Pairwise outcomes used as label values.
const (
	OutcomeDecisive = "decisive"
	OutcomeDraw     = "draw"
)

// defaultMatchBuckets covers referee runs from 10ms up to ~80s.
var defaultMatchBuckets = prometheus.ExponentialBuckets(10, 2, 14) //nolint:gochecknoglobals // immutable bucket layout

// Manager owns every metric of a tournament run.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	constLabels      prometheus.Labels
	registry         prometheus.Registerer
	gatherer         prometheus.Gatherer

	// Schedule
	tasksTotal     prometheus.Gauge
	tasksRemaining prometheus.Gauge

	// Match execution
	matchesCompleted prometheus.Counter
	matchFailures    *prometheus.CounterVec
	matchDuration    prometheus.Histogram

	// Pool
	workersActive prometheus.Gauge
	workersPool   prometheus.Gauge

	// Results stream
	streamDepth     prometheus.Gauge
	streamPublished prometheus.Counter
	streamConsumed  prometheus.Counter

	// Aggregation
	pairwiseOutcomes *prometheus.CounterVec
	voidResults      prometheus.Counter
}

var globalManager *Manager //nolint:gochecknoglobals // singleton used by the Record*/Update* helpers

// Custom registry so the run only exposes its own series.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // shared registry backing Handler

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        defaultNamespace,
		subsystem:        defaultSubsystem,
		histogramBuckets: defaultMatchBuckets,
		enabled:          true,
		constLabels:      prometheus.Labels{},
		registry:         prometheus.DefaultRegisterer,
		gatherer:         prometheus.DefaultGatherer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.tasksTotal = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "tasks_total",
		Help:        "Number of matches scheduled for this run",
		ConstLabels: m.constLabels,
	})

	m.tasksRemaining = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "tasks_remaining",
		Help:        "Number of matches not yet completed",
		ConstLabels: m.constLabels,
	})

	m.matchesCompleted = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "matches_completed_total",
		Help:        "Matches that finished, successfully or not",
		ConstLabels: m.constLabels,
	})

	m.matchFailures = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "match_failures_total",
		Help:        "Matches recorded as void, by failure reason",
		ConstLabels: m.constLabels,
	}, []string{"reason"})

	m.matchDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "match_duration_milliseconds",
		Help:        "Wall time of one referee invocation in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	})

	m.workersActive = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "workers_active",
		Help:        "Pool workers currently running a match",
		ConstLabels: m.constLabels,
	})

	m.workersPool = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "workers_started",
		Help:        "Pool workers started for this run",
		ConstLabels: m.constLabels,
	})

	m.streamDepth = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "results_stream_depth",
		Help:        "Results published but not yet consumed",
		ConstLabels: m.constLabels,
	})

	m.streamPublished = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "results_published_total",
		Help:        "Results published to the stream",
		ConstLabels: m.constLabels,
	})

	m.streamConsumed = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "results_consumed_total",
		Help:        "Results consumed from the stream",
		ConstLabels: m.constLabels,
	})

	m.pairwiseOutcomes = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "pairwise_comparisons_total",
		Help:        "Pairwise seat comparisons ingested, by outcome",
		ConstLabels: m.constLabels,
	}, []string{"outcome"})

	m.voidResults = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "void_results_total",
		Help:        "Results ingested without scores",
		ConstLabels: m.constLabels,
	})
}

// Gatherer returns the gatherer backing this manager.
func (m *Manager) Gatherer() prometheus.Gatherer {
	return m.gatherer
}

// Handler serves the global registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(customRegistry, promhttp.HandlerOpts{})
}

// Registry exposes the global registry, mainly for tests.
func Registry() *prometheus.Registry {
	return customRegistry
}

// UpdateTasksTotal sets both the scheduled and remaining task gauges.
func UpdateTasksTotal(n int) {
	if globalManager != nil && globalManager.enabled {
		globalManager.tasksTotal.Set(float64(n))
		globalManager.tasksRemaining.Set(float64(n))
	}
}

// RecordMatchCompleted records one finished match and its wall time.
func RecordMatchCompleted(elapsed time.Duration) {
	if globalManager != nil && globalManager.enabled {
		globalManager.matchesCompleted.Inc()
		globalManager.tasksRemaining.Dec()
		globalManager.matchDuration.Observe(float64(elapsed) / float64(time.Millisecond))
	}
}

// RecordMatchFailure records a void match by reason.
func RecordMatchFailure(reason string) {
	if globalManager != nil && globalManager.enabled {
		globalManager.matchFailures.WithLabelValues(reason).Inc()
	}
}

// UpdateWorkersStarted sets the number of pool workers started.
func UpdateWorkersStarted(n int) {
	if globalManager != nil && globalManager.enabled {
		globalManager.workersPool.Set(float64(n))
	}
}

// WorkerBusy marks one worker as running a match.
func WorkerBusy() {
	if globalManager != nil && globalManager.enabled {
		globalManager.workersActive.Inc()
	}
}

// WorkerIdle marks one worker as done with its match.
func WorkerIdle() {
	if globalManager != nil && globalManager.enabled {
		globalManager.workersActive.Dec()
	}
}

// RecordStreamPublish records one result entering the stream.
func RecordStreamPublish(depth int) {
	if globalManager != nil && globalManager.enabled {
		globalManager.streamPublished.Inc()
		globalManager.streamDepth.Set(float64(depth))
	}
}

// RecordStreamConsume records one result leaving the stream.
func RecordStreamConsume(depth int) {
	if globalManager != nil && globalManager.enabled {
		globalManager.streamConsumed.Inc()
		globalManager.streamDepth.Set(float64(depth))
	}
}

// RecordPairwise records one ingested pairwise comparison.
func RecordPairwise(outcome string) {
	if globalManager != nil && globalManager.enabled {
		globalManager.pairwiseOutcomes.WithLabelValues(outcome).Inc()
	}
}

// RecordVoidResult records one ingested result without scores.
func RecordVoidResult() {
	if globalManager != nil && globalManager.enabled {
		globalManager.voidResults.Inc()
	}
}
