package server

import (
	"log/slog"

	"steam-trends-service/internal/metrics"
	"steam-trends-service/internal/providers"
)

// providerFactory assembles the provider with the shared instrumentation wrapper.
type providerFactory struct {
	logger  *slog.Logger
	metrics *metrics.Recorder
}

func newProviderFactory(logger *slog.Logger, metrics *metrics.Recorder) providerFactory {
	return providerFactory{logger: logger, metrics: metrics}
}

func (f providerFactory) wrap(base providers.StoreProvider) providers.StoreProvider {
	return providers.NewInstrumentedProvider(base, f.logger, f.metrics, providerName(base))
}
