package main

import (
	"catalog/infra/database"
	"catalog/infra/rabbitmq"
	"catalog/internal/server"
	"catalog/pkg/aws"
	"catalog/pkg/config"
	"catalog/pkg/events"
	"catalog/pkg/logging"
	"catalog/pkg/notify"
	"catalog/pkg/upload"
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
)

func main() {
	appConfig := config.Read()
	logger := logging.Init(appConfig.LogLevel)
	defer logger.Sync()

	zap.L().Info("app starting...", zap.String("service", appConfig.ServiceName))

	store, err := database.Open(database.Options{
		Driver:       appConfig.DBDriver,
		DSN:          appConfig.DBDSN,
		MaxOpenConns: appConfig.DBMaxOpenConns,
		Seed:         appConfig.SeedSampleData,
	})
	if err != nil {
		zap.L().Fatal("Failed to open database", zap.Error(err))
	}
	if err := store.Initialize(context.Background()); err != nil {
		store.Close()
		zap.L().Fatal("Failed to initialize database", zap.Error(err))
	}

	backend, serveUploads, err := newUploadBackend(appConfig)
	if err != nil {
		store.Close()
		zap.L().Fatal("Failed to prepare upload storage", zap.Error(err))
	}

	var publisher events.Publisher
	if appConfig.RabbitMQURL != "" {
		p, err := rabbitmq.NewRabbitMQPublisher(appConfig.RabbitMQURL, appConfig.ServiceName)
		if err != nil {
			store.Close()
			zap.L().Fatal("Failed to connect event publisher", zap.Error(err))
		}
		publisher = p
		defer p.Close()
	}

	notifier, err := notify.New(appConfig, publisher)
	if err != nil {
		store.Close()
		zap.L().Fatal("Failed to configure notifier", zap.Error(err))
	}

	srv := server.New(server.Dependencies{
		Config:       appConfig,
		Store:        store,
		Images:       upload.NewUploader(backend, appConfig.UploadMaxFileBytes),
		Notifier:     notifier,
		Publisher:    publisher,
		ServeUploads: serveUploads,
	})

	go func() {
		if err := srv.App.Listen(fmt.Sprintf("0.0.0.0:%s", appConfig.Port)); err != nil {
			zap.L().Error("Failed to start server", zap.Error(err))
			os.Exit(1)
		}
	}()

	zap.L().Info("Server started on port", zap.String("port", appConfig.Port))

	monitorCtx, stopMonitor := context.WithCancel(context.Background())
	go monitorPool(monitorCtx, store)

	gracefulShutdown(srv, store, stopMonitor)
}

func monitorPool(ctx context.Context, store *database.Store) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			stats := store.GetPoolStats()
			zap.L().Debug("Connection pool stats",
				zap.Int("max_open", stats["max_open_connections"].(int)),
				zap.Int("open", stats["open_connections"].(int)),
				zap.Int("in_use", stats["in_use"].(int)),
				zap.Int("idle", stats["idle"].(int)),
				zap.Int64("wait_count", stats["wait_count"].(int64)),
				zap.Int64("wait_duration_ms", stats["wait_duration_ms"].(int64)),
			)
		}
	}
}

func newUploadBackend(cfg *config.AppConfig) (upload.Backend, bool, error) {
	switch cfg.StorageBackend {
	case "", "disk":
		disk, err := upload.NewDisk(cfg.UploadDir, cfg.UploadURLPrefix)
		return disk, true, err
	case "s3":
		bucket := aws.NewS3Bucket(aws.Config{
			Endpoint:  cfg.AWSEndpoint,
			Bucket:    cfg.AWSBucket,
			Region:    cfg.AWSDefaultRegion,
			AccessKey: cfg.AWSAccessKey,
			SecretKey: cfg.AWSSecretKey,
		})
		return upload.NewS3(bucket), false, nil
	default:
		return nil, false, fmt.Errorf("unknown STORAGE_BACKEND %q", cfg.StorageBackend)
	}
}

func gracefulShutdown(srv *server.Server, store *database.Store, stopMonitor context.CancelFunc) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	zap.L().Info("Shutting down server...")
	stopMonitor()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zap.L().Error("Error during server shutdown", zap.Error(err))
	}

	if err := store.Close(); err != nil {
		zap.L().Error("Error closing database", zap.Error(err))
	}

	zap.L().Info("Server gracefully stopped")
}
