package providers

import (
	"errors"
	"fmt"
	"time"
)

// ErrProviderUnavailable is returned when no upstream provider is configured.
var ErrProviderUnavailable = errors.New("provider unavailable")

// UpstreamError reports a transport failure or an unexpected HTTP status.
type UpstreamError struct {
	Provider   string
	Endpoint   string
	StatusCode int
	Err        error
}

func (e *UpstreamError) Error() string {
	switch {
	case e.StatusCode > 0 && e.Err != nil:
		return fmt.Sprintf("%s %s: unexpected status %d: %v", e.Provider, e.Endpoint, e.StatusCode, e.Err)
	case e.StatusCode > 0:
		return fmt.Sprintf("%s %s: unexpected status %d", e.Provider, e.Endpoint, e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("%s %s: %v", e.Provider, e.Endpoint, e.Err)
	default:
		return fmt.Sprintf("%s %s: upstream unavailable", e.Provider, e.Endpoint)
	}
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// ShapeError reports a response body that could not be decoded or lacked expected keys.
type ShapeError struct {
	Provider string
	Endpoint string
	Reason   string
	Err      error
}

func (e *ShapeError) Error() string {
	msg := fmt.Sprintf("%s %s: unexpected response shape", e.Provider, e.Endpoint)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ShapeError) Unwrap() error { return e.Err }

// RateLimitError captures rate limit responses from upstream providers.
type RateLimitError struct {
	Provider   string
	StatusCode int
	RetryAfter time.Duration
	Remaining  string
	Message    string
}

func (e *RateLimitError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "provider rate limited"
	}
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s (status=%d)", msg, e.StatusCode)
	}
	return msg
}

// AsRateLimitError attempts to unwrap an error into a RateLimitError.
func AsRateLimitError(err error) (*RateLimitError, bool) {
	var rlErr *RateLimitError
	if errors.As(err, &rlErr) {
		return rlErr, true
	}
	return nil, false
}

// IsShapeError reports whether err is, or wraps, a ShapeError.
func IsShapeError(err error) bool {
	var shapeErr *ShapeError
	return errors.As(err, &shapeErr)
}
