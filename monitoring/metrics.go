package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ticketsIssued = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tickets_issued_total",
			Help: "Total tickets issued from approved payments",
		},
	)

	webhookNotifications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webhook_notifications_total",
			Help: "Total webhook notifications by processing outcome",
		},
		[]string{"outcome"},
	)

	paymentLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_lookups_total",
			Help: "Total payment status lookups against the gateway",
		},
		[]string{"status"},
	)

	checkoutPreferences = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "checkout_preferences_total",
			Help: "Total checkout preferences created",
		},
		[]string{"status"},
	)

	ticketArtifacts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ticket_artifacts_total",
			Help: "Total ticket image generations",
		},
		[]string{"status"},
	)

	ticketEmails = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ticket_emails_total",
			Help: "Total ticket delivery emails",
		},
		[]string{"status"},
	)

	webhookDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "webhook_duration_seconds",
			Help:    "Duration of webhook notification processing",
			Buckets: prometheus.DefBuckets,
		},
	)

	paymentBreakerState = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "payment_breaker_state",
			Help: "Payment lookup circuit breaker state (0 closed, 1 half-open, 2 open)",
		},
	)
)

// Track issued tickets
func TrackTicketIssued() {
	ticketsIssued.Inc()
}

// Track webhook notifications by outcome (issued, replayed, ignored, ...)
func TrackWebhook(outcome string) {
	webhookNotifications.WithLabelValues(outcome).Inc()
}

// Track gateway payment lookups
func TrackPaymentLookup(status string) {
	paymentLookups.WithLabelValues(status).Inc()
}

// Track checkout preference creation
func TrackCheckout(status string) {
	checkoutPreferences.WithLabelValues(status).Inc()
}

// Track ticket image generation
func TrackArtifact(status string) {
	ticketArtifacts.WithLabelValues(status).Inc()
}

// Track ticket delivery emails
func TrackEmail(status string) {
	ticketEmails.WithLabelValues(status).Inc()
}

// Track webhook processing duration
func ObserveWebhookDuration(d time.Duration) {
	webhookDuration.Observe(d.Seconds())
}

// Track the payment lookup breaker state
func SetBreakerState(state int) {
	paymentBreakerState.Set(float64(state))
}
