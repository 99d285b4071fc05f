// Package observability provides Prometheus metrics and HTTP middleware
// for the judge gateway.
package observability

import "github.com/prometheus/client_golang/prometheus"

// JudgeBuckets covers judge round trips from 100ms to two minutes, the
// wait=true call returns only after the program finished.
var JudgeBuckets = []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60, 120}

// Submission outcomes
const (
	OutcomeOK          = "ok"
	OutcomeRemoteError = "remote_error"
	OutcomeTransport   = "transport_error"
	OutcomeRateLimited = "rate_limited"
	OutcomeError       = "error"
)

var (
	// RequestsTotal counts HTTP requests by method, route and status class.
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "judgerunner_requests_total",
			Help: "Total requests",
		},
		[]string{"method", "route", "status"},
	)

	// RequestDuration records HTTP request duration in seconds.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "judgerunner_request_duration_seconds",
			Help:    "Request duration",
			Buckets: JudgeBuckets,
		},
		[]string{"method", "route"},
	)

	// SubmissionsTotal counts judge submissions by language and outcome.
	SubmissionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "judgerunner_submissions_total",
			Help: "Judge submissions",
		},
		[]string{"language_id", "outcome"},
	)

	// JudgeLatency records the judge round trip in seconds.
	JudgeLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "judgerunner_judge_latency_seconds",
			Help:    "Judge latency",
			Buckets: JudgeBuckets,
		},
		[]string{"language_id"},
	)
)

func init() {
	prometheus.MustRegister(
		RequestsTotal,
		RequestDuration,
		SubmissionsTotal,
		JudgeLatency,
	)
}
