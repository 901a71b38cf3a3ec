package dashboard

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"steam-trends-service/internal/analysis"
	"steam-trends-service/internal/domain/games"
	"steam-trends-service/internal/logging"
	"steam-trends-service/internal/metrics"
	"steam-trends-service/internal/providers"
	"steam-trends-service/internal/timeutil"
)

const (
	DefaultTopN        = 10
	DefaultConcurrency = 4
	DefaultDeadline    = 30 * time.Second
)

// Config bounds a single dashboard build.
type Config struct {
	TopN        int
	Concurrency int
	Deadline    time.Duration
	// Location sets the payload timestamp zone; nil uses the server's local time.
	Location *time.Location
}

func (c Config) withDefaults() Config {
	if c.TopN <= 0 {
		c.TopN = DefaultTopN
	}
	if c.Concurrency <= 0 {
		c.Concurrency = DefaultConcurrency
	}
	if c.Deadline <= 0 {
		c.Deadline = DefaultDeadline
	}
	return c
}

// Service builds the dashboard payload from live upstream data. It holds no
// per-request state and is safe for concurrent use.
type Service struct {
	fetchers *Fetchers
	cfg      Config
	logger   *slog.Logger
	metrics  *metrics.Recorder
	now      func() time.Time
}

// NewService constructs a Service over provider.
func NewService(provider providers.StoreProvider, cfg Config, logger *slog.Logger, recorder *metrics.Recorder) *Service {
	return &Service{
		fetchers: NewFetchers(provider),
		cfg:      cfg.withDefaults(),
		logger:   logger,
		metrics:  recorder,
		now:      time.Now,
	}
}

// Build fetches the top games, enriches each one concurrently and aggregates
// trends. It always returns a payload; upstream failures only blank out the
// affected fields and set Degraded.
func (s *Service) Build(ctx context.Context) games.ResponsePayload {
	start := s.now()
	ctx, cancel := context.WithTimeout(ctx, s.cfg.Deadline)
	defer cancel()

	top := s.fetchers.FetchTopGames(ctx, s.cfg.TopN)
	enriched := make([]games.EnrichedGame, len(top.Value))
	failed := make([]bool, len(top.Value))

	var g errgroup.Group
	g.SetLimit(s.cfg.Concurrency)
	for i, rank := range top.Value {
		i, rank := i, rank
		g.Go(func() error {
			enriched[i], failed[i] = s.enrich(ctx, rank)
			return nil
		})
	}
	_ = g.Wait()

	degradedGames := 0
	for _, f := range failed {
		if f {
			degradedGames++
		}
	}
	degraded := top.Outcome.Degraded() || degradedGames > 0

	payload := games.NewResponsePayload(
		enriched,
		analysis.AggregateTrends(enriched),
		timeutil.FormatTimestamp(timeutil.In(s.now(), s.cfg.Location)),
		degraded,
	)

	elapsed := s.now().Sub(start)
	s.metrics.RecordEnrichment(elapsed, payload.TotalGames, degradedGames)
	s.log(ctx, top, payload, degradedGames, elapsed)
	return payload
}

// enrich builds one game record and reports whether any of its fetches failed.
func (s *Service) enrich(ctx context.Context, rank games.RawGameRank) (games.EnrichedGame, bool) {
	details := s.fetchers.FetchGameDetails(ctx, rank.AppID)
	items := s.fetchers.FetchGameReviews(ctx, rank.AppID)
	sentiment := analysis.ClassifySentiment(items.Value)

	name := games.UnknownName
	if details.Value != nil && details.Value.Name != "" {
		name = details.Value.Name
	}

	return games.EnrichedGame{
		Rank:              rank.Rank,
		AppID:             rank.AppID,
		Name:              name,
		ConcurrentPlayers: rank.ConcurrentPlayers,
		SentimentRatio:    sentiment.Ratio,
		SentimentLabel:    string(sentiment.Label),
		ReviewCount:       sentiment.Count,
		Details:           details.Value,
	}, details.Outcome.Degraded() || items.Outcome.Degraded()
}

func (s *Service) log(ctx context.Context, top providers.Result[[]games.RawGameRank], payload games.ResponsePayload, degradedGames int, elapsed time.Duration) {
	logger := logging.FromContext(ctx, s.logger)
	attrs := []any{
		slog.Int(logging.FieldCount, payload.TotalGames),
		slog.Bool(logging.FieldDegraded, payload.Degraded),
		slog.Int("degraded_games", degradedGames),
		slog.Int64(logging.FieldDurationMS, elapsed.Milliseconds()),
	}
	if !top.OK() {
		attrs = append(attrs, slog.String("top_games_outcome", string(top.Outcome)))
	}
	if payload.Degraded {
		logging.Warn(logger, "dashboard built with defaults", attrs...)
		return
	}
	logging.Info(logger, "dashboard built", attrs...)
}
