package main

import (
	"catalog/infra/database"
	"catalog/internal/sweep"
	"catalog/pkg/aws"
	"catalog/pkg/config"
	"catalog/pkg/logging"
	"catalog/pkg/upload"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
)

func main() {
	dryRun := flag.Bool("dry-run", false, "report orphaned uploads without deleting them")
	flag.Parse()

	appConfig := config.Read()
	logger := logging.Init(appConfig.LogLevel)
	defer logger.Sync()

	if err := run(appConfig, *dryRun); err != nil {
		zap.L().Error("Upload sweep failed", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}

func run(cfg *config.AppConfig, dryRun bool) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := database.Open(database.Options{
		Driver:       cfg.DBDriver,
		DSN:          cfg.DBDSN,
		MaxOpenConns: cfg.DBMaxOpenConns,
	})
	if err != nil {
		return err
	}
	defer store.Close()

	var backend upload.Backend
	switch cfg.StorageBackend {
	case "", "disk":
		backend, err = upload.NewDisk(cfg.UploadDir, cfg.UploadURLPrefix)
		if err != nil {
			return err
		}
	case "s3":
		backend = upload.NewS3(aws.NewS3Bucket(aws.Config{
			Endpoint:  cfg.AWSEndpoint,
			Bucket:    cfg.AWSBucket,
			Region:    cfg.AWSDefaultRegion,
			AccessKey: cfg.AWSAccessKey,
			SecretKey: cfg.AWSSecretKey,
		}))
	default:
		return fmt.Errorf("unknown STORAGE_BACKEND %q", cfg.StorageBackend)
	}

	report, err := sweep.New(store, backend, cfg.SweepGrace).Run(ctx, dryRun)
	if err != nil {
		return err
	}

	for _, name := range report.Orphans {
		fmt.Println(name)
	}
	if report.Failed > 0 {
		return fmt.Errorf("%d orphaned uploads could not be deleted", report.Failed)
	}
	return nil
}
