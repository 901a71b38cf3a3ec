package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"steam-trends-service/internal/app/dashboard"
	"steam-trends-service/internal/config"
	httpserver "steam-trends-service/internal/http"
	"steam-trends-service/internal/http/handlers"
	"steam-trends-service/internal/http/middleware"
	"steam-trends-service/internal/logging"
	"steam-trends-service/internal/metrics"
	"steam-trends-service/internal/prober"
	"steam-trends-service/internal/providers"
	"steam-trends-service/internal/timeutil"
	"steam-trends-service/web"
)

var metricsSetup = metrics.Setup

type Server struct {
	cfg           config.Config
	logger        *slog.Logger
	metrics       *metrics.Recorder
	dashboard     *dashboard.Service
	handler       *handlers.Handler
	httpServer    httpServer
	metricsServer httpServer
	prober        Prober
	metricsStop   func(context.Context) error
}

// New constructs a server with the configured provider and probe wiring.
func New(cfg config.Config, logger *slog.Logger) *Server {
	return newServerWithMetrics(cfg, logger, nil, nil)
}

func newServerWithProvider(cfg config.Config, logger *slog.Logger, provider providers.StoreProvider) *Server {
	return newServerWithMetrics(cfg, logger, provider, nil)
}

func newServerWithMetrics(cfg config.Config, logger *slog.Logger, provider providers.StoreProvider, recorder *metrics.Recorder) *Server {
	if logger == nil {
		logger = logging.NewLogger(logging.Config{})
	}
	recorder, metricsSrv, metricsShutdown := buildMetrics(cfg, logger, recorder)

	if provider == nil {
		provider = selectProvider(cfg, logger)
	}
	instrumented := newProviderFactory(logger, recorder).wrap(provider)

	dashSvc := dashboard.NewService(instrumented, dashboard.Config{
		TopN:        cfg.Pipeline.TopN,
		Concurrency: cfg.Pipeline.Concurrency,
		Deadline:    cfg.Pipeline.Deadline,
		Location:    resolveLocation(cfg.Pipeline.Timezone, logger),
	}, logger, recorder)

	// The prober records its own cycle metrics, so it bypasses the per-endpoint instrumentation.
	var prb Prober
	if cfg.Probe.Enabled {
		prb = prober.New(provider, logger, recorder, cfg.Probe.Interval, cfg.Probe.InitialBackoff)
	}

	handler := buildHandler(dashSvc, logger, prb)
	httpSrv := buildHTTPServer(cfg, handler, logger, recorder)

	return &Server{
		cfg:           cfg,
		logger:        logger,
		metrics:       recorder,
		dashboard:     dashSvc,
		handler:       handler,
		httpServer:    httpSrv,
		metricsServer: metricsSrv,
		prober:        prb,
		metricsStop:   metricsShutdown,
	}
}

// newServerWithDeps is used for testing to inject custom components.
func newServerWithDeps(cfg config.Config, logger *slog.Logger, handler *handlers.Handler, httpSrv httpServer, prb Prober) *Server {
	return &Server{
		cfg:        cfg,
		logger:     logger,
		handler:    handler,
		httpServer: httpSrv,
		prober:     prb,
	}
}

func resolveLocation(tz string, logger *slog.Logger) *time.Location {
	loc := timeutil.ResolveLocation(tz)
	if loc == nil && tz != "" && logger != nil {
		logger.Warn("unknown timezone, using local time", slog.String("timezone", tz))
	}
	return loc
}

func buildHandler(dashSvc *dashboard.Service, logger *slog.Logger, prb Prober) *handlers.Handler {
	var statusFn func() prober.Status
	if prb != nil {
		statusFn = prb.Status
	}
	pages, err := web.ParseTemplates()
	if err != nil {
		logging.Error(logger, "failed to parse page templates", err)
	}
	return handlers.NewHandler(dashSvc, pages, logger, statusFn)
}

func buildHTTPServer(cfg config.Config, handler *handlers.Handler, logger *slog.Logger, recorder *metrics.Recorder) httpServer {
	router := httpserver.NewRouter(handler)
	wrapped := middleware.LoggingMiddleware(logger, recorder, middleware.Recover(logger, router))

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      wrapped,
		ReadTimeout:  readTimeout,
		WriteTimeout: responseWriteTimeout(cfg.Pipeline.Deadline),
		IdleTimeout:  idleTimeout,
	}

	return netHTTPServer{srv: srv}
}

// Run starts the probe and HTTP server, then waits for context cancellation to shut down gracefully.
func (s *Server) Run(ctx context.Context, stop context.CancelFunc) {
	s.startMetrics()
	s.startServer(stop)
	if s.prober != nil {
		s.prober.Start(ctx)
	}

	<-ctx.Done()
	if s.logger != nil {
		s.logger.Info("shutdown signal received")
	}

	s.gracefulShutdown()
}

func (s *Server) startServer(stop context.CancelFunc) {
	if s.logger != nil {
		s.logger.Info("http server starting", slog.String("addr", s.httpServer.Addr()))
	}
	launchServer("http", s.httpServer, s.logger, func(err error) {
		if stop != nil {
			stop()
		}
	})
}

func (s *Server) startMetrics() {
	if s.metricsServer == nil {
		return
	}
	if s.logger != nil {
		s.logger.Info("metrics server starting", slog.String("addr", s.metricsServer.Addr()))
	}
	launchServer("metrics", s.metricsServer, s.logger, nil)
}

func (s *Server) gracefulShutdown() {
	if s.handler != nil {
		s.handler.BeginShutdown()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if s.metricsStop != nil {
		if err := s.metricsStop(shutdownCtx); err != nil && s.logger != nil {
			s.logger.Warn("metrics shutdown failed", "error", err)
		}
	}

	if s.metricsServer != nil {
		if err := s.metricsServer.Shutdown(shutdownCtx); err != nil && s.logger != nil {
			s.logger.Warn("metrics server shutdown failed", "error", err)
		}
	}

	if s.prober != nil {
		if err := s.prober.Stop(shutdownCtx); err != nil && s.logger != nil {
			s.logger.Error("failed to stop prober", "error", err)
		}
	}

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil && s.logger != nil {
		s.logger.Error("graceful shutdown failed", "error", err)
	}

	if s.logger != nil {
		s.logger.Info("shutdown complete")
	}
}

func buildMetrics(cfg config.Config, logger *slog.Logger, recorder *metrics.Recorder) (*metrics.Recorder, httpServer, func(context.Context) error) {
	if recorder != nil {
		return recorder, nil, nil
	}

	recCfg := metrics.TelemetryConfig{
		Enabled:      cfg.Metrics.Enabled,
		Port:         cfg.Metrics.Port,
		ServiceName:  cfg.Metrics.ServiceName,
		OtlpEndpoint: cfg.Metrics.OtlpEndpoint,
		OtlpInsecure: cfg.Metrics.OtlpInsecure,
	}

	rec, handler, shutdown, err := metricsSetup(context.Background(), recCfg)
	if err != nil {
		if logger != nil {
			logger.Warn("metrics setup failed, continuing without telemetry", "err", err)
		}
		return metrics.NewRecorder(), nil, nil
	}

	var metricsSrv httpServer
	if handler != nil && recCfg.Enabled {
		metricsSrv = netHTTPServer{
			srv: &http.Server{
				Addr:    ":" + recCfg.Port,
				Handler: handler,
			},
		}
	}

	return rec, metricsSrv, shutdown
}

func launchServer(name string, srv httpServer, logger *slog.Logger, onError func(error)) {
	go func() {
		if logger != nil {
			logger.Info("starting "+name+" server", slog.String("addr", srv.Addr()))
		}
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			if logger != nil {
				logger.Warn(name+" server failed", "error", err)
			}
			if onError != nil {
				onError(err)
			}
		}
	}()
}

// Handler exposes the HTTP handler (useful for tests).
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler()
}
