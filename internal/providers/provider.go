package providers

import (
	"context"

	"steam-trends-service/internal/domain/games"
	"steam-trends-service/internal/domain/reviews"
)

// StoreProvider fetches chart, store and review data from an upstream storefront.
// Implementations return typed errors (see errors.go); callers that must never
// fail wrap the results with Resolve.
type StoreProvider interface {
	// FetchTopGames returns up to limit entries of the most-played chart in rank order.
	FetchTopGames(ctx context.Context, limit int) ([]games.RawGameRank, error)
	// FetchGameDetails returns store details, or nil with no error when the
	// storefront reports no data for the app.
	FetchGameDetails(ctx context.Context, appID int) (*games.GameDetails, error)
	// FetchGameReviews returns the most recent page of reviews.
	FetchGameReviews(ctx context.Context, appID int) ([]reviews.Review, error)
}

// Endpoint names used in metrics and logs.
const (
	EndpointTopGames = "top_games"
	EndpointDetails  = "app_details"
	EndpointReviews  = "app_reviews"
)
