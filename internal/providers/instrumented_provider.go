package providers

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"steam-trends-service/internal/domain/games"
	"steam-trends-service/internal/domain/reviews"
	"steam-trends-service/internal/logging"
	"steam-trends-service/internal/metrics"
)

// instrumentedProvider wraps a StoreProvider, timing every call and recording
// per-endpoint metrics. Each call is made exactly once.
type instrumentedProvider struct {
	inner        StoreProvider
	logger       *slog.Logger
	metrics      *metrics.Recorder
	providerName string
	now          func() time.Time
}

// NewInstrumentedProvider wraps inner with metrics and failure logging.
func NewInstrumentedProvider(inner StoreProvider, logger *slog.Logger, recorder *metrics.Recorder, providerName string) StoreProvider {
	name := strings.TrimSpace(providerName)
	if name == "" {
		name = "provider"
	}
	return &instrumentedProvider{
		inner:        inner,
		logger:       logger,
		metrics:      recorder,
		providerName: name,
		now:          time.Now,
	}
}

func (p *instrumentedProvider) FetchTopGames(ctx context.Context, limit int) ([]games.RawGameRank, error) {
	if p.inner == nil {
		return nil, p.unavailable(ctx, EndpointTopGames)
	}
	start := p.now()
	ranks, err := p.inner.FetchTopGames(ctx, limit)
	p.observe(ctx, EndpointTopGames, start, err, slog.Int("limit", limit))
	return ranks, err
}

func (p *instrumentedProvider) FetchGameDetails(ctx context.Context, appID int) (*games.GameDetails, error) {
	if p.inner == nil {
		return nil, p.unavailable(ctx, EndpointDetails)
	}
	start := p.now()
	details, err := p.inner.FetchGameDetails(ctx, appID)
	p.observe(ctx, EndpointDetails, start, err, slog.Int(logging.FieldAppID, appID))
	return details, err
}

func (p *instrumentedProvider) FetchGameReviews(ctx context.Context, appID int) ([]reviews.Review, error) {
	if p.inner == nil {
		return nil, p.unavailable(ctx, EndpointReviews)
	}
	start := p.now()
	items, err := p.inner.FetchGameReviews(ctx, appID)
	p.observe(ctx, EndpointReviews, start, err, slog.Int(logging.FieldAppID, appID))
	return items, err
}

func (p *instrumentedProvider) observe(ctx context.Context, endpoint string, start time.Time, err error, attrs ...any) {
	key := metrics.ProviderKey(p.providerName, endpoint)
	elapsed := p.now().Sub(start)
	p.metrics.RecordProviderAttempt(key, elapsed, err)
	if rlErr, ok := AsRateLimitError(err); ok {
		p.metrics.RecordRateLimit(key, rlErr.RetryAfter)
	}
	if err == nil {
		return
	}

	attrs = append(attrs,
		slog.String(logging.FieldEndpoint, endpoint),
		slog.String(logging.FieldOutcome, string(Classify(err))),
		slog.Int64(logging.FieldDurationMS, elapsed.Milliseconds()),
		slog.Any("error", err),
	)
	logWithProvider(ctx, logging.FromContext(ctx, p.logger), slog.LevelWarn, p.providerName, "provider fetch failed", attrs...)
}

func (p *instrumentedProvider) unavailable(ctx context.Context, endpoint string) error {
	logWithProvider(ctx, logging.FromContext(ctx, p.logger), slog.LevelWarn, p.providerName, "provider unavailable",
		slog.String(logging.FieldEndpoint, endpoint))
	return ErrProviderUnavailable
}
