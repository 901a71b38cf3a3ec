package server

import (
	"log/slog"

	"steam-trends-service/internal/config"
	"steam-trends-service/internal/providers"
	"steam-trends-service/internal/providers/fixture"
	"steam-trends-service/internal/providers/steam"
)

func selectProvider(cfg config.Config, logger *slog.Logger) providers.StoreProvider {
	switch cfg.Provider {
	case steam.ProviderName, "":
		return steam.NewClient(steam.Config{
			ChartsBaseURL:  cfg.Steam.ChartsBaseURL,
			StoreBaseURL:   cfg.Steam.StoreBaseURL,
			Timeout:        cfg.Steam.Timeout,
			ReviewsPerPage: cfg.Steam.ReviewsPerPage,
			Language:       cfg.Steam.Language,
		})
	case fixture.ProviderName:
		return fixture.New()
	default:
		if logger != nil {
			logger.Warn("unknown provider, falling back to fixture", slog.String("provider", cfg.Provider))
		}
		return fixture.New()
	}
}
