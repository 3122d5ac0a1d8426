package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	PlanDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "converge_plan_duration_seconds",
			Help:    "Time taken to compute an execution plan.",
			Buckets: prometheus.DefBuckets,
		},
	)

	ApplyDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "converge_apply_duration_seconds",
			Help:    "Time taken to apply a plan to a machine.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"machine"},
	)

	ResourcesConverged = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "converge_resources_converged_total",
			Help: "Total number of resources that converged successfully.",
		},
		[]string{"machine", "kind"},
	)

	ResourcesFailed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "converge_resources_failed_total",
			Help: "Total number of resources that failed to converge.",
		},
		[]string{"machine", "kind"},
	)

	ResourcesUnchanged = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "converge_resources_unchanged_total",
			Help: "Total number of resources left unchanged by an apply.",
		},
		[]string{"machine"},
	)

	DriftFindingsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "converge_drift_findings_total",
			Help: "Total number of drift findings emitted.",
		},
		[]string{"machine"},
	)

	ApplyRunsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "converge_apply_runs_total",
			Help: "Total number of apply invocations.",
		},
	)
)

func init() {
	prometheus.MustRegister(
		PlanDuration,
		ApplyDuration,
		ResourcesConverged,
		ResourcesFailed,
		ResourcesUnchanged,
		DriftFindingsTotal,
		ApplyRunsTotal,
	)
}

// Handler returns the Prometheus scrape handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Timer measures elapsed wall-clock time for a single operation.
type Timer struct {
	start time.Time
}

// NewTimer starts a timer.
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// ObserveDuration records the elapsed time to histogram.
func (t *Timer) ObserveDuration(histogram prometheus.Histogram) {
	histogram.Observe(time.Since(t.start).Seconds())
}

// ObserveDurationVec records the elapsed time to a labeled histogram.
func (t *Timer) ObserveDurationVec(histogram prometheus.ObserverVec, labels ...string) {
	histogram.WithLabelValues(labels...).Observe(time.Since(t.start).Seconds())
}

// Duration returns the elapsed time since the timer started.
func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}
