package monitor

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	messagesReceivedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shopbot_messages_received_total",
			Help: "Total number of webhook messages received",
		},
		[]string{"type"},
	)

	messagesDedupedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "shopbot_messages_deduped_total",
			Help: "Total number of duplicate messages dropped",
		},
	)

	intentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shopbot_intents_total",
			Help: "Total number of classified intents by action",
		},
		[]string{"action"},
	)

	repliesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shopbot_replies_total",
			Help: "Total number of replies sent by outcome",
		},
		[]string{"outcome"},
	)

	commerceOpsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shopbot_commerce_ops_total",
			Help: "Total number of commerce operations by outcome",
		},
		[]string{"op", "outcome"},
	)

	modelRequestDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "shopbot_model_request_duration_seconds",
			Help:    "Latency of model completion calls",
			Buckets: prometheus.DefBuckets,
		},
	)
)

// MessageReceived records one inbound webhook message
func MessageReceived(msgType string) {
	messagesReceivedTotal.WithLabelValues(msgType).Inc()
}

// MessageDeduped records one dropped duplicate message
func MessageDeduped() {
	messagesDedupedTotal.Inc()
}

// IntentClassified records one extracted intent
func IntentClassified(action string) {
	intentsTotal.WithLabelValues(action).Inc()
}

// ReplySent records one outbound reply by outcome (ok, clarification, error)
func ReplySent(outcome string) {
	repliesTotal.WithLabelValues(outcome).Inc()
}

// CommerceOp records one commerce operation result
func CommerceOp(op, outcome string) {
	commerceOpsTotal.WithLabelValues(op, outcome).Inc()
}

// ObserveModelRequest records the duration of one model completion call
func ObserveModelRequest(d time.Duration) {
	modelRequestDuration.Observe(d.Seconds())
}

// Handler returns the Prometheus scrape handler
func Handler() http.Handler {
	return promhttp.Handler()
}
