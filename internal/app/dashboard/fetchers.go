package dashboard

import (
	"context"

	"steam-trends-service/internal/domain/games"
	"steam-trends-service/internal/domain/reviews"
	"steam-trends-service/internal/providers"
)

// Fetchers adapt a StoreProvider into calls that never fail. Every error is
// folded into the Result outcome and the value falls back to a safe default.
type Fetchers struct {
	provider providers.StoreProvider
}

// NewFetchers wraps provider. A nil provider yields upstream_unavailable results.
func NewFetchers(provider providers.StoreProvider) *Fetchers {
	return &Fetchers{provider: provider}
}

// FetchTopGames returns up to limit chart entries, or an empty slice.
func (f *Fetchers) FetchTopGames(ctx context.Context, limit int) providers.Result[[]games.RawGameRank] {
	fallback := []games.RawGameRank{}
	if f.provider == nil {
		return unavailable(fallback)
	}
	ranks, err := f.provider.FetchTopGames(ctx, limit)
	if err == nil && limit >= 0 && len(ranks) > limit {
		ranks = ranks[:limit]
	}
	return providers.Resolve(ranks, err, fallback, func(v []games.RawGameRank) bool { return len(v) == 0 })
}

// FetchGameDetails returns store details, or nil when absent or unavailable.
func (f *Fetchers) FetchGameDetails(ctx context.Context, appID int) providers.Result[*games.GameDetails] {
	if f.provider == nil {
		return unavailable[*games.GameDetails](nil)
	}
	details, err := f.provider.FetchGameDetails(ctx, appID)
	return providers.Resolve(details, err, nil, func(d *games.GameDetails) bool { return d == nil })
}

// FetchGameReviews returns the latest reviews, or an empty slice.
func (f *Fetchers) FetchGameReviews(ctx context.Context, appID int) providers.Result[[]reviews.Review] {
	fallback := []reviews.Review{}
	if f.provider == nil {
		return unavailable(fallback)
	}
	items, err := f.provider.FetchGameReviews(ctx, appID)
	return providers.Resolve(items, err, fallback, func(v []reviews.Review) bool { return len(v) == 0 })
}

func unavailable[T any](fallback T) providers.Result[T] {
	return providers.Result[T]{
		Value:   fallback,
		Outcome: providers.OutcomeUpstreamUnavailable,
		Err:     providers.ErrProviderUnavailable,
	}
}
