package main

import (
	"context"
	"errors"
	"log"
	"myShopHub/business/notification"
	"myShopHub/internal/messaging"
	mailjet "myShopHub/internal/repository/notification"
	"myShopHub/internal/telemetry"
	"myShopHub/pkg/config"
	"myShopHub/pkg/logger"
	"myShopHub/pkg/metrics"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/segmentio/kafka-go"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.App.Environment)

	if !cfg.Kafka.Enabled() {
		logger.Fatal("KAFKA_BROKERS is required for the notification worker")
	}

	shutdownTracer, err := telemetry.InitTracerProvider(context.Background(), cfg.Telemetry.OTLPEndpoint, cfg.App.Name+"-notify-worker", cfg.App.Version)
	if err != nil {
		logger.Fatal("Failed to init tracer provider", "error", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracer(ctx)
	}()

	metricsHandler, shutdownMeter, err := telemetry.InitMeterProvider(cfg.App.Name+"-notify-worker", cfg.App.Version)
	if err != nil {
		logger.Fatal("Failed to init meter provider", "error", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownMeter(ctx)
	}()

	metrics.Init()

	mux := http.NewServeMux()
	mux.Handle("/metrics", metricsHandler)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	metricsServer := &http.Server{
		Addr:         ":" + cfg.Worker.MetricsPort,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Serving worker metrics", "port", cfg.Worker.MetricsPort)
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Metrics server error", "error", err)
		}
	}()
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = metricsServer.Shutdown(ctx)
	}()

	mailer := mailjet.NewMailjetRepository(mailjet.MailjetConfig{
		MailjetBaseURL:           cfg.Mailjet.MailjetBaseUrl,
		MailjetBasicAuthUsername: cfg.Mailjet.MailjetBasicAuthUsername,
		MailjetBasicAuthPassword: cfg.Mailjet.MailjetBasicAuthPassword,
		MailjetSenderEmail:       cfg.Mailjet.MailjetSenderEmail,
		MailjetSenderName:        cfg.Mailjet.MailjetSenderName,
	})
	service := notification.NewService(mailer, cfg.App.Name)

	// Failed deliveries are logged and committed; email is best effort.
	onError := func(_ context.Context, msg kafka.Message, err error) {
		logger.Error("Failed to deliver notification", "error", err, "key", string(msg.Key), "offset", msg.Offset)
	}

	consumer := messaging.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.NotificationTopic, cfg.Kafka.ConsumerGroup, onError)
	defer func() { _ = consumer.Close() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		stop := make(chan os.Signal, 1)
		signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
		<-stop
		logger.Info("Shutting down notification worker")
		cancel()
	}()

	logger.Info("Starting notification worker", "brokers", cfg.Kafka.Brokers, "topic", cfg.Kafka.NotificationTopic)

	if err := consumer.Consume(ctx, messaging.NotificationHandler(service.Deliver)); err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Info("Consumer stopped")
			return
		}
		logger.Fatal("Consumer error", "error", err)
	}
}
