package main

import (
	"catalog/infra/database"
	"catalog/infra/grpc"
	"catalog/pkg/config"
	"catalog/pkg/logging"
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
)

const healthInterval = 10 * time.Second

func main() {
	appConfig := config.Read()
	logger := logging.Init(appConfig.LogLevel)
	defer logger.Sync()

	zap.L().Info("Catalog gRPC health service starting...")

	store, err := database.Open(database.Options{
		Driver:       appConfig.DBDriver,
		DSN:          appConfig.DBDSN,
		MaxOpenConns: appConfig.DBMaxOpenConns,
	})
	if err != nil {
		zap.L().Fatal("Failed to open database", zap.Error(err))
	}
	defer store.Close()

	grpcServer, err := grpc.NewServer(appConfig.GRPCPort)
	if err != nil {
		zap.L().Error("failed to create grpc server", zap.Error(err))
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reporter := grpc.NewHealthReporter(grpcServer.Health(), store, healthInterval)
	go reporter.Run(ctx)

	zap.L().Info("starting gRPC server...", zap.String("port", appConfig.GRPCPort))
	go func() {
		if err := grpcServer.Start(); err != nil {
			zap.L().Error("failed to start grpc server", zap.Error(err))
			os.Exit(1)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	zap.L().Info("Shutting down server...")

	cancel()
	grpcServer.GracefulStop()

	zap.L().Info("Server gracefully stopped")
}
