package server

import (
	"time"

	"steam-trends-service/internal/app/dashboard"
)

const (
	readTimeout  = 10 * time.Second
	writeTimeout = 10 * time.Second
	idleTimeout  = 60 * time.Second
	// writeSlack is added to the aggregation deadline so a slow build can still be written.
	writeSlack = 5 * time.Second
)

// shutdownTimeout remains a var for tests to override.
var shutdownTimeout = 10 * time.Second

// responseWriteTimeout never cuts off a dashboard build that is still within its deadline.
func responseWriteTimeout(deadline time.Duration) time.Duration {
	if deadline <= 0 {
		deadline = dashboard.DefaultDeadline
	}
	if deadline+writeSlack > writeTimeout {
		return deadline + writeSlack
	}
	return writeTimeout
}
