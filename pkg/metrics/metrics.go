// Package metrics records per-step counters and durations for a run and
// exports them in the Prometheus text format, e.g. for the node_exporter
// textfile collector on CI hosts.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/systemstart/testrun/pkg/steps"
)

const namespace = "testrun"

// Recorder observes step execution. It implements processing.Observer.
type Recorder struct {
	registry *prometheus.Registry
	steps    *prometheus.CounterVec
	duration *prometheus.HistogramVec
	inFlight prometheus.Gauge
}

// NewRecorder creates a recorder with its own registry.
func NewRecorder(runID string) *Recorder {
	labels := prometheus.Labels{"run_id": runID}
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		steps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "steps_total",
			Help:        "Executed steps by kind and outcome.",
			ConstLabels: labels,
		}, []string{"kind", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   namespace,
			Name:        "step_duration_seconds",
			Help:        "Step execution time.",
			ConstLabels: labels,
			Buckets:     prometheus.ExponentialBuckets(0.01, 4, 8),
		}, []string{"kind"}),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        "steps_in_flight",
			Help:        "Steps currently executing; never more than one.",
			ConstLabels: labels,
		}),
	}
	r.registry.MustRegister(r.steps, r.duration, r.inFlight)
	return r
}

func (r *Recorder) StepStarted(steps.Step) {
	r.inFlight.Inc()
}

func (r *Recorder) StepFinished(step steps.Step, res steps.Result, elapsed time.Duration) {
	r.inFlight.Dec()
	outcome := "success"
	if !res.OK() {
		outcome = "failure"
	}
	r.steps.WithLabelValues(string(step.Kind()), outcome).Inc()
	r.duration.WithLabelValues(string(step.Kind())).Observe(elapsed.Seconds())
}

// Registry exposes the underlying registry, mainly for tests.
func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

// WriteFile atomically writes all metrics to path in the text exposition format.
func (r *Recorder) WriteFile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("writing metrics file: %w", err)
	}
	return nil
}
