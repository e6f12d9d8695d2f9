package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce        sync.Once
	requestsTotal       *prometheus.CounterVec
	latencySeconds      *prometheus.HistogramVec
	errorsTotal         *prometheus.CounterVec
	submissionsRecorded prometheus.Counter
	gradesRecorded      prometheus.Counter
)

// RegisterMetrics initialises the Prometheus collectors for the workflow endpoints.
func RegisterMetrics() {
	registerOnce.Do(func() {
		requestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "classdesk_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		latencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "classdesk_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		errorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "classdesk_errors_total",
			Help: "Total number of error responses returned.",
		}, []string{"method", "route", "status"})

		submissionsRecorded = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "classdesk_submissions_recorded_total",
			Help: "Total number of student submissions appended to the response log.",
		})

		gradesRecorded = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "classdesk_grades_recorded_total",
			Help: "Total number of grading writes completed.",
		})

		prometheus.MustRegister(requestsTotal, latencySeconds, errorsTotal, submissionsRecorded, gradesRecorded)
	})
}

// Requests exposes the counter for served requests.
func Requests() *prometheus.CounterVec {
	RegisterMetrics()
	return requestsTotal
}

// Latency exposes the latency histogram.
func Latency() *prometheus.HistogramVec {
	RegisterMetrics()
	return latencySeconds
}

// Errors exposes the counter for error responses.
func Errors() *prometheus.CounterVec {
	RegisterMetrics()
	return errorsTotal
}

// SubmissionsRecorded exposes the submission counter.
func SubmissionsRecorded() prometheus.Counter {
	RegisterMetrics()
	return submissionsRecorded
}

// GradesRecorded exposes the grading counter.
func GradesRecorded() prometheus.Counter {
	RegisterMetrics()
	return gradesRecorded
}
