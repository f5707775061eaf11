package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"cabins/pkg/client"
	"cabins/pkg/logger"

	"github.com/joho/godotenv"
)

type Config struct {
	MongoURI          string
	MongoDatabaseName string
	MongoConnTimeout  time.Duration

	Port string

	RateLimitRequests int
	RateLimitWindow   time.Duration

	RequestTimeout time.Duration
	IdempotencyTTL time.Duration
	MaxRequestSize int

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	// Operating window. Slot labels are wall-clock times in Location.
	TimeZone    string
	Location    *time.Location
	OpenHour    int
	CloseHour   int
	SlotMinutes int

	ResourcesFile       string
	AvailabilityTimeout time.Duration

	NotificationTransport string
	NotificationTimeout   time.Duration
	NotificationTopic     string
	NotificationDLQTopic  string
	NotifierGroupID       string
	WebhookSecret         string

	IdentitySecret string

	Log    *logger.Logger
	Client *client.Client
}

func Load(serviceName string) *Config {
	// A missing .env file is the normal case outside local development.
	_ = godotenv.Load(getEnvStr(EnvEnvFile, DefaultEnvFile))

	tz := getEnvStr(EnvTimeZone, DefaultTimeZone)
	loc, err := time.LoadLocation(tz)
	if err != nil {
		loc = nil
	}

	return &Config{
		MongoURI:          getEnvStr(EnvMongoURI, DefaultMongoURI),
		MongoDatabaseName: getEnvStr(EnvMongoDatabaseName, DefaultMongoDatabaseName),
		MongoConnTimeout:  getEnvDuration(EnvMongoConnTimeout, DefaultMongoConnTimeout),

		Port: getEnvStr(EnvPort, DefaultPort),

		RateLimitRequests: getEnvNum(EnvRateLimitRequests, DefaultRateLimitRequests),
		RateLimitWindow:   getEnvDuration(EnvRateLimitWindow, DefaultRateLimitWindow),

		RequestTimeout: getEnvDuration(EnvRequestTimeout, DefaultRequestTimeout),
		IdempotencyTTL: getEnvDuration(EnvIdempotencyTTL, DefaultIdempotencyTTL),
		MaxRequestSize: getEnvNum(EnvMaxRequestSize, DefaultMaxRequestSize),

		ReadTimeout:     getEnvDuration(EnvReadTimeout, DefaultReadTimeout),
		WriteTimeout:    getEnvDuration(EnvWriteTimeout, DefaultWriteTimeout),
		IdleTimeout:     getEnvDuration(EnvIdleTimeout, DefaultIdleTimeout),
		ShutdownTimeout: getEnvDuration(EnvShutdownTimeout, DefaultShutdownTimeout),

		TimeZone:    tz,
		Location:    loc,
		OpenHour:    getEnvNum(EnvOpenHour, DefaultOpenHour),
		CloseHour:   getEnvNum(EnvCloseHour, DefaultCloseHour),
		SlotMinutes: getEnvNum(EnvSlotMinutes, DefaultSlotMinutes),

		ResourcesFile:       getEnvStr(EnvResourcesFile, ""),
		AvailabilityTimeout: getEnvDuration(EnvAvailabilityTimeout, DefaultAvailabilityTimeout),

		NotificationTransport: strings.ToLower(getEnvStr(EnvNotificationTransport, DefaultNotificationTransport)),
		NotificationTimeout:   getEnvDuration(EnvNotificationTimeout, DefaultNotificationTimeout),
		NotificationTopic:     getEnvStr(EnvNotificationTopic, DefaultNotificationTopic),
		NotificationDLQTopic:  getEnvStr(EnvNotificationDLQTopic, DefaultNotificationDLQTopic),
		NotifierGroupID:       getEnvStr(EnvNotifierGroupID, DefaultNotifierGroupID),
		WebhookSecret:         getEnvStr(EnvWebhookSecret, ""),

		IdentitySecret: getEnvStr(EnvIdentitySecret, ""),

		Log: logger.New(logger.Config{
			Level:     getEnvStr(EnvLogLevel, DefaultLogLevel),
			Format:    logger.JSON,
			AddSource: true,
			Service:   serviceName,
		}),
		Client: client.NewClient(),
	}
}

func (cfg *Config) SetMongo() {
	cfg.Client.SetMongo(cfg.Log, cfg.MongoURI, cfg.MongoConnTimeout)
}

func (cfg *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(cfg.Port); err != nil || port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("Port must be between 1 and 65535, got: %s", cfg.Port))
	}

	if cfg.MongoURI == "" {
		errors = append(errors, "MongoURI cannot be empty")
	} else if !regexp.MustCompile(`^mongodb(\+srv)?://`).MatchString(cfg.MongoURI) {
		errors = append(errors, fmt.Sprintf("MongoURI must start with 'mongodb://' or 'mongodb+srv://', got: %s", redactMongoURI(cfg.MongoURI)))
	}
	if cfg.MongoDatabaseName == "" {
		errors = append(errors, "MongoDatabaseName cannot be empty")
	}

	if cfg.Location == nil {
		errors = append(errors, fmt.Sprintf("TimeZone must be a valid IANA zone name, got: %s", cfg.TimeZone))
	}
	if cfg.OpenHour < 0 || cfg.CloseHour > 24 || cfg.OpenHour >= cfg.CloseHour {
		errors = append(errors, fmt.Sprintf("Operating window must satisfy 0 <= OpenHour < CloseHour <= 24, got: %d-%d", cfg.OpenHour, cfg.CloseHour))
	}
	if cfg.SlotMinutes <= 0 {
		errors = append(errors, fmt.Sprintf("SlotMinutes must be positive, got: %d", cfg.SlotMinutes))
	} else if cfg.OpenHour < cfg.CloseHour && ((cfg.CloseHour-cfg.OpenHour)*60)%cfg.SlotMinutes != 0 {
		errors = append(errors, fmt.Sprintf("SlotMinutes (%d) must divide the operating window evenly", cfg.SlotMinutes))
	}

	switch cfg.NotificationTransport {
	case TransportKafka, TransportWebhook, TransportNone:
	default:
		errors = append(errors, fmt.Sprintf("NotificationTransport must be one of [kafka, webhook, none], got: %s", cfg.NotificationTransport))
	}

	positive := map[string]time.Duration{
		"MongoConnTimeout":    cfg.MongoConnTimeout,
		"RateLimitWindow":     cfg.RateLimitWindow,
		"RequestTimeout":      cfg.RequestTimeout,
		"IdempotencyTTL":      cfg.IdempotencyTTL,
		"ReadTimeout":         cfg.ReadTimeout,
		"WriteTimeout":        cfg.WriteTimeout,
		"IdleTimeout":         cfg.IdleTimeout,
		"ShutdownTimeout":     cfg.ShutdownTimeout,
		"AvailabilityTimeout": cfg.AvailabilityTimeout,
		"NotificationTimeout": cfg.NotificationTimeout,
	}
	for _, name := range sortedKeys(positive) {
		if positive[name] <= 0 {
			errors = append(errors, fmt.Sprintf("%s must be positive, got: %s", name, positive[name]))
		}
	}

	if cfg.RateLimitRequests <= 0 {
		errors = append(errors, fmt.Sprintf("RateLimitRequests must be positive, got: %d", cfg.RateLimitRequests))
	}
	if cfg.MaxRequestSize <= 0 {
		errors = append(errors, fmt.Sprintf("MaxRequestSize must be positive, got: %d", cfg.MaxRequestSize))
	}

	if len(errors) > 0 {
		errMsg := "Configuration validation failed:\n"
		for i, err := range errors {
			errMsg += fmt.Sprintf("  %d. %s\n", i+1, err)
		}
		return fmt.Errorf("%s", errMsg)
	}

	return nil
}

func (cfg *Config) LogConfiguration() {
	cfg.Log.Info("Configuration loaded successfully",
		"mongo_uri", redactMongoURI(cfg.MongoURI),
		"mongo_database", cfg.MongoDatabaseName,
		"mongo_conn_timeout", cfg.MongoConnTimeout,
		"port", cfg.Port,
		"rate_limit_requests", cfg.RateLimitRequests,
		"rate_limit_window", cfg.RateLimitWindow,
		"request_timeout", cfg.RequestTimeout,
		"idempotency_ttl", cfg.IdempotencyTTL,
		"max_request_size", cfg.MaxRequestSize,
		"read_timeout", cfg.ReadTimeout,
		"write_timeout", cfg.WriteTimeout,
		"idle_timeout", cfg.IdleTimeout,
		"shutdown_timeout", cfg.ShutdownTimeout,
		"time_zone", cfg.TimeZone,
		"open_hour", cfg.OpenHour,
		"close_hour", cfg.CloseHour,
		"slot_minutes", cfg.SlotMinutes,
		"resources_file", cfg.ResourcesFile,
		"availability_timeout", cfg.AvailabilityTimeout,
		"notification_transport", cfg.NotificationTransport,
		"notification_timeout", cfg.NotificationTimeout,
		"notification_topic", cfg.NotificationTopic,
		"webhook_secret_set", cfg.WebhookSecret != "",
		"identity_secret_set", cfg.IdentitySecret != "",
	)
}

func (cfg *Config) GracefulShutdown() {
	cfg.Client.GracefulShutdown(cfg.Log, cfg.ShutdownTimeout)
}

func redactMongoURI(uri string) string {
	credentialRegex := regexp.MustCompile(`(mongodb(\+srv)?://)[^:]+:[^@]+@`)
	return credentialRegex.ReplaceAllString(uri, "${1}***:***@")
}

func sortedKeys(m map[string]time.Duration) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	for i := 1; i < len(keys); i++ {
		for j := i; j > 0 && keys[j] < keys[j-1]; j-- {
			keys[j], keys[j-1] = keys[j-1], keys[j]
		}
	}
	return keys
}

func getEnvStr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvNum(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
