// Package metrics exposes Prometheus instrumentation for the tracking
// pipeline and the job API. Collectors are registered once on the
// default registry; the API server serves them at /metrics. Batch
// invocations register the same collectors harmlessly and simply never
// serve them.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "colortrack"

var (
	framesSampled = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "frames_sampled_total",
		Help:      "Frames successfully decoded and analyzed.",
	})

	framesUnavailable = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "frames_unavailable_total",
		Help:      "Sampled seconds with no decodable frame.",
	})

	secondsDetected = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "seconds_detected_total",
		Help:      "Sampled seconds with a detected centroid.",
	})

	jobsByState = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "jobs_total",
		Help:      "Jobs by terminal state.",
	}, []string{"state"})

	jobDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "job_duration_seconds",
		Help:      "Wall-clock duration of completed jobs.",
		Buckets:   prometheus.ExponentialBuckets(0.1, 2, 12),
	})

	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests by endpoint, method, and status code.",
	}, []string{"endpoint", "method", "status"})
)

// RecordFrameSampled counts one successfully analyzed frame.
func RecordFrameSampled() { framesSampled.Inc() }

// RecordFrameUnavailable counts one second with no usable frame.
func RecordFrameUnavailable() { framesUnavailable.Inc() }

// RecordDetection counts one second with a detected centroid.
func RecordDetection() { secondsDetected.Inc() }

// RecordJob counts a job reaching a terminal state ("done"/"failed")
// and observes its duration in seconds.
func RecordJob(state string, seconds float64) {
	jobsByState.WithLabelValues(state).Inc()
	jobDuration.Observe(seconds)
}

// RecordHTTPRequest counts one handled HTTP request.
func RecordHTTPRequest(endpoint, method, status string) {
	httpRequests.WithLabelValues(endpoint, method, status).Inc()
}
