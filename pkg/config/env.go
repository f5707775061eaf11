package config

const (
	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"
	EnvEnvFile  = "ENV_FILE"

	EnvRateLimitRequests = "RATE_LIMIT_REQUESTS"
	EnvRateLimitWindow   = "RATE_LIMIT_WINDOW"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvIdempotencyTTL = "IDEMPOTENCY_TTL"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"

	EnvTimeZone    = "TIME_ZONE"
	EnvOpenHour    = "OPEN_HOUR"
	EnvCloseHour   = "CLOSE_HOUR"
	EnvSlotMinutes = "SLOT_MINUTES"

	EnvResourcesFile       = "RESOURCES_FILE"
	EnvAvailabilityTimeout = "AVAILABILITY_TIMEOUT"

	EnvNotificationTransport = "NOTIFICATION_TRANSPORT"
	EnvNotificationTimeout   = "NOTIFICATION_TIMEOUT"
	EnvNotificationTopic     = "NOTIFICATION_TOPIC"
	EnvNotificationDLQTopic  = "NOTIFICATION_DLQ_TOPIC"
	EnvNotifierGroupID       = "NOTIFIER_GROUP_ID"
	EnvWebhookSecret         = "WEBHOOK_SECRET"

	EnvIdentitySecret = "IDENTITY_JWT_SECRET"
)
