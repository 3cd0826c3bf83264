package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymclass_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gymclass_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// BookingAttemptsTotal counts booking attempts by outcome: booked,
	// session_full, insufficient_credits, conflict, try_again, error.
	BookingAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymclass_booking_attempts_total",
			Help: "Total number of booking attempts by outcome",
		},
		[]string{"outcome"},
	)

	BookingCancellationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymclass_booking_cancellations_total",
			Help: "Total number of booking cancellations",
		},
		[]string{"by"},
	)

	CheckInsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymclass_checkins_total",
			Help: "Total number of check-in attempts by outcome",
		},
		[]string{"outcome"},
	)

	SubscriptionsIssuedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gymclass_subscriptions_issued_total",
			Help: "Total number of subscriptions issued",
		},
	)

	SubscriptionDecisionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymclass_subscription_decisions_total",
			Help: "Total number of approval decisions",
		},
		[]string{"decision"},
	)

	LockContentionTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymclass_lock_contention_total",
			Help: "Operations aborted because a row lock could not be acquired in time",
		},
		[]string{"operation"},
	)

	EmailsSentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymclass_emails_sent_total",
			Help: "Total number of emails sent",
		},
		[]string{"type", "status"},
	)

	EmailQueueLength = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gymclass_email_queue_length",
			Help: "Current length of email queue",
		},
	)
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

func RecordBookingAttempt(outcome string) {
	BookingAttemptsTotal.WithLabelValues(outcome).Inc()
}

func RecordBookingCancellation(by string) {
	BookingCancellationsTotal.WithLabelValues(by).Inc()
}

func RecordCheckIn(outcome string) {
	CheckInsTotal.WithLabelValues(outcome).Inc()
}

func RecordSubscriptionIssued() {
	SubscriptionsIssuedTotal.Inc()
}

func RecordDecision(decision string) {
	SubscriptionDecisionsTotal.WithLabelValues(decision).Inc()
}

func RecordLockContention(operation string) {
	LockContentionTotal.WithLabelValues(operation).Inc()
}

func RecordEmail(emailType, status string) {
	EmailsSentTotal.WithLabelValues(emailType, status).Inc()
}
