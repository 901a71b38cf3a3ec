package server

import (
	"context"

	"steam-trends-service/internal/prober"
)

// Prober defines the minimal upstream probe behavior needed by the server.
type Prober interface {
	Start(ctx context.Context)
	Stop(ctx context.Context) error
	Status() prober.Status
}
