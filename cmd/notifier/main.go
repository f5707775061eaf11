package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"cabins/internal/notifications"
	"cabins/internal/resources"
	"cabins/pkg/config"
	"cabins/pkg/kafka"
	kafka_config "cabins/pkg/kafka/config"
	kafka_middleware "cabins/pkg/kafka/middleware"
	"cabins/pkg/metrics"
)

const ServiceName = "notifier"

// The notifier moves booking events from Kafka to each cabin's webhook.
func main() {
	cfg := config.Load(ServiceName)

	kafkaCfg := kafka_config.Load()
	if err := kafkaCfg.Validate(); err != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}
	kafkaCfg.LogConfiguration(cfg.Log)

	catalog, err := resources.Load(cfg.ResourcesFile)
	if err != nil {
		cfg.Log.Fatal("Failed to load cabin catalog", "error", err, "path", cfg.ResourcesFile)
	}

	publisher := notifications.NewWebhookPublisher(catalog, cfg.NotificationTimeout, cfg.WebhookSecret)
	consumer, err := kafka.NewConsumer(
		kafkaCfg,
		cfg.NotificationTopic,
		cfg.NotifierGroupID,
		cfg.NotificationDLQTopic,
		notifications.NewDeliveryHandler(publisher, cfg.Log),
		cfg.Log,
	)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka consumer", "error", err)
	}
	consumer.Use(kafka_middleware.LoggingConsumerMiddleware(cfg.Log))
	consumer.Use(kafka_middleware.MetricsConsumerMiddleware())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metricsServer := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     metrics.Handler(),
		ReadTimeout: cfg.ReadTimeout,
	}
	go func() {
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			cfg.Log.Error("Metrics server failed", "error", err)
		}
	}()

	cfg.Log.Info("Starting notifier",
		"topic", cfg.NotificationTopic,
		"group_id", cfg.NotifierGroupID,
		"cabins", catalog.IDs(),
	)
	if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		cfg.Log.Error("Consumer stopped", "error", err)
	}

	if err := consumer.Close(); err != nil {
		cfg.Log.Error("Failed to close consumer", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		cfg.Log.Error("Failed to stop metrics server", "error", err)
	}
	cfg.Log.Info("Notifier stopped")
}
