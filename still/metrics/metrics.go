/*
DESCRIPTION
  metrics.go provides prometheus metrics for the still pipeline and frame
  processor.

AUTHORS
  Scott Barnard <scott@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package metrics provides the prometheus metrics and loop rate statistics
// of the still pipeline. All methods may be called on a nil *Metrics, which
// records nothing.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "still"

// Number of loop periods averaged by the loop rate monitor.
const rateWindow = 50

// Metrics holds the pipeline and processor collectors.
type Metrics struct {
	reg *prometheus.Registry

	iterations   prometheus.Counter
	grabFailures prometheus.Counter
	changed      prometheus.Counter
	promoted     prometheus.Counter
	rejected     prometheus.Counter
	shapeErrors  prometheus.Counter
	staleStored  prometheus.Counter
	dispatched   *prometheus.CounterVec
	results      *prometheus.CounterVec
	tiles        prometheus.Histogram
	processing   prometheus.Histogram
	loopPeriod   prometheus.Gauge
	loopJitter   prometheus.Gauge

	rate *Rate
}

// New creates the collectors and registers them with reg. A nil reg uses a
// new registry.
func New(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	counter := func(name, help string) prometheus.Counter {
		return prometheus.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: name, Help: help})
	}
	m := &Metrics{
		reg:          reg,
		iterations:   counter("loop_iterations_total", "Pipeline loop iterations."),
		grabFailures: counter("grab_failures_total", "Iterations where no frame could be grabbed or retrieved."),
		changed:      counter("changed_frames_total", "Small frames observed as changed."),
		promoted:     counter("promoted_frames_total", "Full frames retrieved after enough dwell."),
		rejected:     counter("rejected_frames_total", "Full frames with too few sharp tiles."),
		shapeErrors:  counter("shape_errors_total", "Iterations aborted by an unexpected frame shape."),
		staleStored:  counter("stale_stored_total", "Jobs moved into the stale reservoir."),
		dispatched: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dispatched_jobs_total",
			Help:      "Jobs handed to the processor.",
		}, []string{"source"}),
		results: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "processor_results_total",
			Help:      "Finished processor jobs by status.",
		}, []string{"status"}),
		tiles: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "sharp_tiles",
			Help:      "Sharp tiles found per analysed frame.",
			Buckets:   []float64{0, 1, 2, 4, 8, 16, 32, 64, 128},
		}),
		processing: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "processing_seconds",
			Help:      "Time taken by processor jobs.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12),
		}),
		loopPeriod: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "loop_period_seconds",
			Help:      "Mean pipeline loop period over the last window.",
		}),
		loopJitter: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "loop_period_stddev_seconds",
			Help:      "Standard deviation of the pipeline loop period over the last window.",
		}),
		rate: NewRate(rateWindow),
	}
	reg.MustRegister(
		m.iterations, m.grabFailures, m.changed, m.promoted, m.rejected,
		m.shapeErrors, m.staleStored, m.dispatched, m.results, m.tiles,
		m.processing, m.loopPeriod, m.loopJitter,
	)
	return m
}

// Registry returns the registry the collectors are registered with.
func (m *Metrics) Registry() *prometheus.Registry { return m.reg }

// Handler returns an HTTP handler serving the metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}

// Iteration records one loop iteration at time now. It returns true, with
// the mean and standard deviation of the loop period, each time a full
// window of periods has been collected.
func (m *Metrics) Iteration(now time.Time) (mean, stddev time.Duration, ok bool) {
	if m == nil {
		return 0, 0, false
	}
	m.iterations.Inc()
	mean, stddev, ok = m.rate.Tick(now)
	if ok {
		m.loopPeriod.Set(mean.Seconds())
		m.loopJitter.Set(stddev.Seconds())
	}
	return mean, stddev, ok
}

// GrabFailed records an iteration without a usable frame.
func (m *Metrics) GrabFailed() {
	if m != nil {
		m.grabFailures.Inc()
	}
}

// Changed records a small frame observed as changed.
func (m *Metrics) Changed() {
	if m != nil {
		m.changed.Inc()
	}
}

// Promoted records a full frame retrieve.
func (m *Metrics) Promoted() {
	if m != nil {
		m.promoted.Inc()
	}
}

// Tiles records the number of sharp tiles found and whether the frame was
// rejected for having too few.
func (m *Metrics) Tiles(n int, rejected bool) {
	if m == nil {
		return
	}
	m.tiles.Observe(float64(n))
	if rejected {
		m.rejected.Inc()
	}
}

// ShapeError records an iteration aborted by a bad frame shape.
func (m *Metrics) ShapeError() {
	if m != nil {
		m.shapeErrors.Inc()
	}
}

// StaleStored records a job moved into the stale reservoir.
func (m *Metrics) StaleStored() {
	if m != nil {
		m.staleStored.Inc()
	}
}

// Dispatched records a job handed to the processor.
func (m *Metrics) Dispatched(stale bool) {
	if m == nil {
		return
	}
	src := "fresh"
	if stale {
		src = "stale"
	}
	m.dispatched.WithLabelValues(src).Inc()
}

// Result records a finished processor job.
func (m *Metrics) Result(status string, took time.Duration) {
	if m == nil {
		return
	}
	m.results.WithLabelValues(status).Inc()
	m.processing.Observe(took.Seconds())
}
