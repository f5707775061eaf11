package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "cabins"

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total HTTP requests by method, route and status.",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	BookingsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bookings_created_total",
			Help:      "Bookings committed, by cabin.",
		},
		[]string{"cabin"},
	)

	BookingConflicts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "booking_conflicts_total",
			Help:      "Commits lost to a concurrent booking of the same slot.",
		},
		[]string{"cabin"},
	)

	BookingsCancelled = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bookings_cancelled_total",
			Help:      "Bookings moved to cancelled, by cabin.",
		},
		[]string{"cabin"},
	)

	BookingRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "booking_rejections_total",
			Help:      "Booking requests rejected by validation, by reason.",
		},
		[]string{"reason"},
	)

	AvailabilityLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "availability_lookups_total",
			Help:      "Availability source lookups, by cabin and outcome.",
		},
		[]string{"cabin", "status"},
	)

	NotificationsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_total",
			Help:      "Notification attempts, by event type and outcome.",
		},
		[]string{"type", "status"},
	)

	KafkaMessages = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "kafka_messages_total",
			Help:      "Kafka messages handled, by direction, topic and outcome.",
		},
		[]string{"direction", "topic", "status"},
	)

	KafkaDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "kafka_message_duration_seconds",
			Help:      "Time spent publishing or handling a Kafka message.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"direction", "topic"},
	)
)

const (
	StatusSuccess = "success"
	StatusFailure = "failure"
	StatusSkipped = "skipped"
)

func Outcome(err error) string {
	if err != nil {
		return StatusFailure
	}
	return StatusSuccess
}

func RecordHTTPRequest(method, route, status string, seconds float64) {
	HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(seconds)
}

func RecordBookingCreated(cabin string) {
	BookingsCreated.WithLabelValues(cabin).Inc()
}

func RecordBookingConflict(cabin string) {
	BookingConflicts.WithLabelValues(cabin).Inc()
}

func RecordBookingCancelled(cabin string) {
	BookingsCancelled.WithLabelValues(cabin).Inc()
}

func RecordRejection(reason string) {
	BookingRejections.WithLabelValues(reason).Inc()
}

func RecordAvailabilityLookup(cabin string, err error) {
	AvailabilityLookups.WithLabelValues(cabin, Outcome(err)).Inc()
}

func RecordNotification(eventType, status string) {
	NotificationsSent.WithLabelValues(eventType, status).Inc()
}

func RecordKafkaMessage(direction, topic string, err error, seconds float64) {
	KafkaMessages.WithLabelValues(direction, topic, Outcome(err)).Inc()
	KafkaDuration.WithLabelValues(direction, topic).Observe(seconds)
}

// Handler exposes the default registry for scraping.
func Handler() http.Handler {
	return promhttp.Handler()
}
