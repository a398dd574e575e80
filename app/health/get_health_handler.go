package health

import (
	"context"
	"time"
)

const pingTimeout = 2 * time.Second

type Pinger interface {
	Ping(ctx context.Context) error
}

// Broker is the event publisher, when one is configured.
type Broker interface {
	IsHealthy() bool
}

type GetHealthHandler struct {
	db     Pinger
	broker Broker
	now    func() time.Time
}

type GetHealthRequest struct{}

type GetHealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Database  string    `json:"database"`
	Broker    string    `json:"broker,omitempty"`
}

// NewGetHealthHandler reports on db and, if broker is non-nil, on the broker.
func NewGetHealthHandler(db Pinger, broker Broker) *GetHealthHandler {
	return &GetHealthHandler{
		db:     db,
		broker: broker,
		now:    time.Now,
	}
}

// Handle always answers; a failed check only changes the reported state.
func (h GetHealthHandler) Handle(ctx context.Context, _ *GetHealthRequest) (*GetHealthResponse, error) {
	res := &GetHealthResponse{
		Status:    "OK",
		Timestamp: h.now().UTC(),
		Database:  "Connected",
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := h.db.Ping(pingCtx); err != nil {
		res.Status = "DEGRADED"
		res.Database = "Disconnected"
	}

	if h.broker != nil {
		res.Broker = "Connected"
		if !h.broker.IsHealthy() {
			res.Status = "DEGRADED"
			res.Broker = "Disconnected"
		}
	}

	return res, nil
}
