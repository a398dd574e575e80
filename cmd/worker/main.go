package main

import (
	"catalog/infra/rabbitmq"
	"catalog/internal/consumers"
	"catalog/pkg/config"
	"catalog/pkg/events"
	"catalog/pkg/logging"
	"catalog/pkg/notify"
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
)

func main() {
	appConfig := config.Read()
	logger := logging.Init(appConfig.LogLevel)
	defer logger.Sync()

	zap.L().Info("Catalog mail worker starting...",
		zap.String("serviceName", appConfig.ServiceName),
	)

	if appConfig.RabbitMQURL == "" {
		zap.L().Fatal("RABBITMQ_URL is required for worker service")
	}
	if appConfig.EmailUser == "" || appConfig.EmailPass == "" {
		zap.L().Fatal("EMAIL_USER and EMAIL_PASS are required for worker service")
	}

	mailer := notify.NewSMTPNotifier(notify.SMTPConfig{
		Host:     appConfig.SMTPHost,
		Port:     appConfig.SMTPPort,
		Username: appConfig.EmailUser,
		Password: appConfig.EmailPass,
	})
	handler := consumers.NewEnquiryMailHandler(mailer)

	// Queue name: {service}.{domain}.{events}.{version}
	consumer, err := rabbitmq.NewConsumer(appConfig.RabbitMQURL, rabbitmq.ConsumerConfig{
		Exchange:      events.EnquiryExchange,
		QueueName:     appConfig.ServiceName + ".enquiry.created.v1",
		RoutingKeys:   []string{events.EnquiryCreatedEvent + "." + events.EventVersionV1},
		ServiceName:   appConfig.ServiceName,
		PrefetchCount: 10,
	})
	if err != nil {
		zap.L().Fatal("Failed to create enquiry consumer", zap.Error(err))
	}
	defer consumer.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := consumer.Consume(ctx, handler.HandleEvent); err != nil && !errors.Is(err, context.Canceled) {
			zap.L().Error("Enquiry consumer error", zap.Error(err))
		}
	}()

	zap.L().Info("Worker service started successfully. Waiting for events...",
		zap.String("exchange", events.EnquiryExchange),
	)

	select {
	case <-sigChan:
		zap.L().Info("Shutdown signal received, stopping worker service...")
	case <-done:
		zap.L().Warn("Consumer stopped, shutting down worker service")
	}
	cancel()
	<-done

	zap.L().Info("Worker service stopped gracefully")
}
