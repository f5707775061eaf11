package main

import (
	"context"
	"time"

	"cabins/internal/availability"
	"cabins/internal/bookings/handler"
	"cabins/internal/bookings/repository"
	"cabins/internal/bookings/service"
	"cabins/internal/bookings/validator"
	mongoMigration "cabins/internal/migrations/mongo"
	"cabins/internal/notifications"
	"cabins/internal/resources"
	"cabins/pkg/app"
	"cabins/pkg/config"
	"cabins/pkg/kafka"
	kafka_config "cabins/pkg/kafka/config"
	kafka_middleware "cabins/pkg/kafka/middleware"
)

const ServiceName = "bookings"

func main() {
	cfg := config.Load(ServiceName)

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal("Invalid configuration", "error", err)
	}
	cfg.LogConfiguration()

	cfg.Log.Info("Starting Bookings service")
	cfg.SetMongo()

	ensureIndexes(cfg)

	serverApp := app.NewApplication(cfg)
	bookingService, relay := initServices(cfg)

	serverApp.SetApp(
		handler.NewBookingHandler(bookingService, cfg.Log),
		handler.NewHealthHandler(cfg.Client.Mongo, cfg.Log),
	)
	serverApp.OnShutdown("notification-relay", relay.Close)
	serverApp.OnShutdown("mongo", func(ctx context.Context) error {
		cfg.GracefulShutdown()
		return nil
	})
	serverApp.Run()
}

func ensureIndexes(cfg *config.Config) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	if err := mongoMigration.EnsureBookingIndexes(ctx, db); err != nil {
		cfg.Log.Fatal("Failed to ensure booking indexes", "error", err)
	}
}

func initServices(cfg *config.Config) (service.BookingService, *notifications.Relay) {
	catalog, err := resources.Load(cfg.ResourcesFile)
	if err != nil {
		cfg.Log.Fatal("Failed to load cabin catalog", "error", err, "path", cfg.ResourcesFile)
	}

	generator, err := availability.NewSlotGenerator(availability.Window{
		OpenHour:    cfg.OpenHour,
		CloseHour:   cfg.CloseHour,
		SlotMinutes: cfg.SlotMinutes,
	})
	if err != nil {
		cfg.Log.Fatal("Invalid operating window", "error", err)
	}

	bookingRepo := repository.NewMongoBookingRepository(cfg)

	// Bookings made here are always busy, whatever the external source says.
	source := availability.MultiSource{
		availability.NewHTTPBusySource(cfg.AvailabilityTimeout, cfg.Log),
		availability.NewBookingBusySource(bookingRepo, cfg.Location, cfg.SlotMinutes),
	}
	resolver := availability.NewResolver(generator, catalog, source, cfg.Location, cfg.Log)
	bookingValidator := validator.NewBookingValidator(resolver, catalog, cfg.Location, cfg.Log)

	relay := notifications.NewRelay(initPublisher(cfg, catalog), cfg.NotificationTimeout, cfg.Log)

	bookingService := service.NewBookingService(
		bookingRepo,
		catalog,
		resolver,
		bookingValidator,
		relay,
		cfg.Log,
	)

	cfg.Log.Info("Booking service initialized",
		"database", cfg.MongoDatabaseName,
		"cabins", catalog.IDs(),
		"slots_per_day", len(generator.Labels()),
	)
	return bookingService, relay
}

func initPublisher(cfg *config.Config, catalog *resources.Catalog) notifications.Publisher {
	switch cfg.NotificationTransport {
	case config.TransportKafka:
		kafkaCfg := kafka_config.Load()
		if err := kafkaCfg.Validate(); err != nil {
			cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
		}
		kafkaCfg.LogConfiguration(cfg.Log)

		producer, err := kafka.NewProducer(kafkaCfg, cfg.NotificationTopic, cfg.NotificationDLQTopic, cfg.Log)
		if err != nil {
			cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
		}
		producer.Use(kafka_middleware.LoggingProducerMiddleware(cfg.Log))
		producer.Use(kafka_middleware.MetricsProducerMiddleware())
		return notifications.NewKafkaPublisher(producer, ServiceName)

	case config.TransportWebhook:
		return notifications.NewWebhookPublisher(catalog, cfg.NotificationTimeout, cfg.WebhookSecret)

	default:
		cfg.Log.Warn("Booking notifications disabled")
		return notifications.NopPublisher{}
	}
}
