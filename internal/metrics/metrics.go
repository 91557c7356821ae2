// Package metrics exposes the service's Prometheus collectors.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	webhookDeliveries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lineglot_webhook_deliveries_total",
			Help: "Webhook deliveries received, by response status",
		},
		[]string{"status"},
	)

	webhookEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lineglot_webhook_events_total",
			Help: "Individual webhook events processed, by event type",
		},
		[]string{"type"},
	)

	translationRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lineglot_translation_requests_total",
			Help: "Provider translation calls, by provider, target language and outcome",
		},
		[]string{"provider", "target", "status"},
	)

	translationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "lineglot_translation_duration_seconds",
			Help:    "Duration of provider translation calls",
			Buckets: []float64{0.1, 0.5, 1.0, 2.0, 5.0, 10.0, 30.0},
		},
		[]string{"provider"},
	)

	replyFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "lineglot_reply_failures_total",
			Help: "Reply deliveries rejected by the messaging API",
		},
	)
)

// RecordDelivery counts one webhook delivery with its HTTP response status.
func RecordDelivery(status string) {
	webhookDeliveries.WithLabelValues(status).Inc()
}

// RecordEvent counts one processed webhook event.
func RecordEvent(eventType string) {
	webhookEvents.WithLabelValues(eventType).Inc()
}

// RecordTranslation counts one provider call and observes its duration.
func RecordTranslation(provider, target string, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	translationRequests.WithLabelValues(provider, target, status).Inc()
	translationDuration.WithLabelValues(provider).Observe(duration.Seconds())
}

// RecordReplyFailure counts one failed reply delivery.
func RecordReplyFailure() {
	replyFailures.Inc()
}
