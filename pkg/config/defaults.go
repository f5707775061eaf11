package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "cabins"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort     = "8080"
	DefaultLogLevel = "info"
	DefaultEnvFile  = ".env"

	DefaultRateLimitRequests = 30
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 64 * 1024 // 64KB

	DefaultReadTimeout     = 5 * time.Second
	DefaultWriteTimeout    = 5 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultTimeZone    = "Europe/Amsterdam"
	DefaultOpenHour    = 9
	DefaultCloseHour   = 21
	DefaultSlotMinutes = 15

	DefaultAvailabilityTimeout = 5 * time.Second

	DefaultNotificationTransport = TransportKafka
	DefaultNotificationTimeout   = 5 * time.Second
	DefaultNotificationTopic     = "booking-events"
	DefaultNotificationDLQTopic  = "booking-events-dlq"
	DefaultNotifierGroupID       = "cabins-notifier"
)

const (
	TransportKafka   = "kafka"
	TransportWebhook = "webhook"
	TransportNone    = "none"
)
