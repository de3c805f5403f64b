package services

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Turn outcomes used as the chat_turns_total label.
const (
	outcomeOK               = "ok"
	outcomeFallback         = "fallback"
	outcomeCompletionFailed = "completion_failed"
	outcomeStoreFailed      = "store_failed"
	outcomeRejected         = "rejected"
)

var (
	// chatTurns counts chat turns by outcome.
	chatTurns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_turns_total",
			Help: "Total number of chat turns by outcome.",
		},
		[]string{"outcome"},
	)

	// completionLatency records completion-service latency in seconds.
	completionLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "chat_completion_duration_seconds",
			Help:    "Duration of completion-service calls in seconds.",
			Buckets: []float64{0.25, 0.5, 1, 2, 4, 8, 15, 30, 60},
		},
		[]string{"result"},
	)

	// historyTurns observes how many prior turns were sent to the model.
	historyTurns = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "chat_history_turns",
			Help:    "Number of prior turns sent with each completion request.",
			Buckets: []float64{0, 2, 4, 8, 16, 32, 64, 128},
		},
	)

	// languageMismatch counts turns whose detected language differs from the requested one.
	languageMismatch = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_language_mismatch_total",
			Help: "Chat turns where the detected message language differs from the requested language.",
		},
		[]string{"requested", "detected"},
	)
)

func init() {
	prometheus.MustRegister(chatTurns, completionLatency, historyTurns, languageMismatch)
}
