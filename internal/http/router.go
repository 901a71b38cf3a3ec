package http

import (
	nethttp "net/http"

	"steam-trends-service/internal/http/handlers"
)

// NewRouter registers HTTP routes on a ServeMux.
func NewRouter(handler *handlers.Handler) nethttp.Handler {
	mux := nethttp.NewServeMux()
	mux.HandleFunc("/api/health", handler.Health)
	mux.HandleFunc("/api/ready", handler.Ready)
	mux.HandleFunc("/api/data", handler.Data)
	mux.HandleFunc("/", handler.Dashboard)
	return mux
}
