package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// StageTransitions counts accepted pipeline stage transitions by target stage.
	StageTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hirepath_stage_transitions_total",
			Help: "Total number of accepted application stage transitions",
		},
		[]string{"to_stage"},
	)

	// TransitionConflicts counts optimistic-lock losses on stage mutations.
	TransitionConflicts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hirepath_transition_conflicts_total",
			Help: "Total number of stage mutations lost to a concurrent writer",
		},
	)

	// FeedbackSubmissions counts finalised interview feedback by recommendation.
	FeedbackSubmissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hirepath_feedback_submissions_total",
			Help: "Total number of submitted interview feedback forms",
		},
		[]string{"recommendation"},
	)

	// AuthAttempts records authentication attempts by result (success|failure).
	AuthAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hirepath_auth_attempts_total",
			Help: "Total number of authentication attempts",
		},
		[]string{"result"},
	)

	// APILatency measures HTTP request latencies.
	APILatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "hirepath_api_latency_seconds",
			Help:    "API endpoint latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)
