package handlers

import (
	"bytes"
	"context"
	"html/template"
	"log/slog"
	nethttp "net/http"
	"sync/atomic"
	"time"

	"steam-trends-service/internal/domain/games"
	"steam-trends-service/internal/logging"
	"steam-trends-service/internal/prober"
	"steam-trends-service/internal/timeutil"
	"steam-trends-service/web"
)

type nowFunc func() time.Time

// DashboardBuilder produces the dashboard payload for one request.
type DashboardBuilder interface {
	Build(ctx context.Context) games.ResponsePayload
}

const (
	dashboardTitle = "Steam Game Trends"
	dataPath       = "/api/data"
)

// Handler wires HTTP routes to the dashboard service.
type Handler struct {
	dashboard DashboardBuilder
	pages     *template.Template
	logger    *slog.Logger
	now       nowFunc
	statusFn  func() prober.Status
	draining  atomic.Bool
}

// NewHandler constructs a Handler with defaults. A nil statusFn reports ready.
func NewHandler(dashboard DashboardBuilder, pages *template.Template, logger *slog.Logger, statusFn func() prober.Status) *Handler {
	return &Handler{
		dashboard: dashboard,
		pages:     pages,
		logger:    logger,
		now:       time.Now,
		statusFn:  statusFn,
	}
}

// ServeHTTP dispatches to the route handlers.
func (h *Handler) ServeHTTP(w nethttp.ResponseWriter, r *nethttp.Request) {
	switch r.URL.Path {
	case "/api/health":
		h.Health(w, r)
	case "/api/ready":
		h.Ready(w, r)
	case dataPath:
		h.Data(w, r)
	default:
		h.Dashboard(w, r)
	}
}

// BeginShutdown makes health checks fail so load balancers drain traffic.
func (h *Handler) BeginShutdown() {
	h.draining.Store(true)
}

// Health reports liveness with the current time.
func (h *Handler) Health(w nethttp.ResponseWriter, r *nethttp.Request) {
	if r.Method != nethttp.MethodGet {
		writeError(w, r, nethttp.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}
	if h.draining.Load() || r.Context().Err() != nil {
		writeError(w, r, nethttp.StatusServiceUnavailable, "shutting down", h.logger)
		return
	}
	resp := map[string]string{
		"status":    "healthy",
		"timestamp": timeutil.FormatISO(h.now()),
	}
	writeJSON(w, nethttp.StatusOK, resp, h.logger)
}

// Ready reports whether the upstream has been reachable recently.
func (h *Handler) Ready(w nethttp.ResponseWriter, r *nethttp.Request) {
	if r.Method != nethttp.MethodGet {
		writeError(w, r, nethttp.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}
	if h.statusFn == nil {
		writeJSON(w, nethttp.StatusOK, map[string]string{"status": "ready"}, h.logger)
		return
	}
	status := h.statusFn()
	if status.IsReady() {
		writeJSON(w, nethttp.StatusOK, map[string]string{"status": "ready"}, h.logger)
		return
	}
	msg := status.LastError
	if msg == "" {
		msg = "not ready"
	}
	writeError(w, r, nethttp.StatusServiceUnavailable, msg, h.logger)
}

// Data builds and returns the dashboard payload. Upstream failures degrade the
// payload but never change the status code.
func (h *Handler) Data(w nethttp.ResponseWriter, r *nethttp.Request) {
	if r.Method != nethttp.MethodGet {
		writeError(w, r, nethttp.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}
	if h.dashboard == nil {
		writeError(w, r, nethttp.StatusServiceUnavailable, "dashboard unavailable", h.logger)
		return
	}

	payload := h.dashboard.Build(r.Context())
	logging.Info(loggerFromContext(r, h.logger), "served dashboard data",
		slog.Int(logging.FieldCount, payload.TotalGames),
		slog.Bool(logging.FieldDegraded, payload.Degraded),
	)
	writeJSON(w, nethttp.StatusOK, payload, h.logger)
}

// Dashboard renders the HTML page, which loads its data from /api/data.
func (h *Handler) Dashboard(w nethttp.ResponseWriter, r *nethttp.Request) {
	if r.URL.Path != "/" {
		writeError(w, r, nethttp.StatusNotFound, "not found", h.logger)
		return
	}
	if r.Method != nethttp.MethodGet && r.Method != nethttp.MethodHead {
		writeError(w, r, nethttp.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}
	if h.pages == nil {
		writeError(w, r, nethttp.StatusInternalServerError, "templates not loaded", h.logger)
		return
	}

	var buf bytes.Buffer
	data := web.DashboardData{Title: dashboardTitle, DataURL: dataPath}
	if err := h.pages.ExecuteTemplate(&buf, web.DashboardTemplate, data); err != nil {
		logging.Error(loggerFromContext(r, h.logger), "template execution failed", err)
		writeError(w, r, nethttp.StatusInternalServerError, "failed to render page", h.logger)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(nethttp.StatusOK)
	if r.Method == nethttp.MethodHead {
		return
	}
	_, _ = w.Write(buf.Bytes())
}
