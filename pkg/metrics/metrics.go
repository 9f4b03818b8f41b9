// Package metrics exposes Prometheus metrics for the print agent along with
// liveness and readiness probes.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Exporter holds the agent's Prometheus metrics on a dedicated registry.
type Exporter struct {
	registry *prometheus.Registry

	jobsTotal     *prometheus.CounterVec
	printAttempts *prometheus.CounterVec
	pollErrors    prometheus.Counter
	activeJob     prometheus.Gauge
	jobDuration   prometheus.Histogram
	lastPoll      prometheus.Gauge
}

// NewExporter creates and registers the agent metric set.
func NewExporter() *Exporter {
	e := &Exporter{
		registry: prometheus.NewRegistry(),
		jobsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "print_agent_jobs_total",
				Help: "Print jobs processed by final outcome",
			},
			[]string{"outcome"},
		),
		printAttempts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "print_agent_print_attempts_total",
				Help: "Print dispatch attempts by strategy and outcome",
			},
			[]string{"strategy", "outcome"},
		),
		pollErrors: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "print_agent_poll_errors_total",
				Help: "Queue polls that ended in an error",
			},
		),
		activeJob: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "print_agent_active_job",
				Help: "1 while a job is being processed, 0 when idle",
			},
		),
		jobDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "print_agent_job_duration_seconds",
				Help:    "Wall time spent processing a job end to end",
				Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
			},
		),
		lastPoll: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "print_agent_last_poll_timestamp_seconds",
				Help: "Unix time of the most recent queue poll",
			},
		),
	}

	e.registry.MustRegister(e.jobsTotal)
	e.registry.MustRegister(e.printAttempts)
	e.registry.MustRegister(e.pollErrors)
	e.registry.MustRegister(e.activeJob)
	e.registry.MustRegister(e.jobDuration)
	e.registry.MustRegister(e.lastPoll)

	return e
}

// Handler returns the HTTP handler serving this exporter's registry.
func (e *Exporter) Handler() http.Handler {
	return promhttp.HandlerFor(e.registry, promhttp.HandlerOpts{})
}

// JobCompleted records a finished job and its duration.
func (e *Exporter) JobCompleted(outcome string, duration time.Duration) {
	e.jobsTotal.WithLabelValues(outcome).Inc()
	e.jobDuration.Observe(duration.Seconds())
}

// PrintAttempt records one dispatch attempt against a strategy.
func (e *Exporter) PrintAttempt(strategy, outcome string) {
	e.printAttempts.WithLabelValues(strategy, outcome).Inc()
}

// PollError records a failed queue poll.
func (e *Exporter) PollError() {
	e.pollErrors.Inc()
}

// Polled marks the timestamp of a completed poll.
func (e *Exporter) Polled() {
	e.lastPoll.SetToCurrentTime()
}

// SetActive flips the active-job gauge.
func (e *Exporter) SetActive(active bool) {
	if active {
		e.activeJob.Set(1)
	} else {
		e.activeJob.Set(0)
	}
}
