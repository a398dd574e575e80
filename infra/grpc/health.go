package grpc

import (
	"context"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// CatalogService is the health service name reported alongside the overall
// ("") status.
const CatalogService = "catalog.Catalog"

type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthReporter mirrors database reachability into the gRPC health server.
type HealthReporter struct {
	health   *health.Server
	db       Pinger
	interval time.Duration
	timeout  time.Duration
}

func NewHealthReporter(h *health.Server, db Pinger, interval time.Duration) *HealthReporter {
	return &HealthReporter{
		health:   h,
		db:       db,
		interval: interval,
		timeout:  2 * time.Second,
	}
}

// Check pings the database once and publishes the result.
func (r *HealthReporter) Check(ctx context.Context) healthpb.HealthCheckResponse_ServingStatus {
	pingCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	status := healthpb.HealthCheckResponse_SERVING
	if err := r.db.Ping(pingCtx); err != nil {
		zap.L().Warn("Database ping failed", zap.Error(err))
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}

	r.health.SetServingStatus("", status)
	r.health.SetServingStatus(CatalogService, status)
	return status
}

// Run checks immediately and then on every interval until ctx is done.
func (r *HealthReporter) Run(ctx context.Context) {
	r.Check(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Check(ctx)
		}
	}
}
