package testutil

import (
	"encoding/json"

	"steam-trends-service/internal/domain/games"
	"steam-trends-service/internal/domain/reviews"
)

// SampleRank returns a chart entry for appID at the given rank.
func SampleRank(rank, appID, players int) games.RawGameRank {
	return games.RawGameRank{Rank: rank, AppID: appID, ConcurrentPlayers: players}
}

// MustDetails decodes a store details document or panics; intended for tests.
func MustDetails(raw string) *games.GameDetails {
	var d games.GameDetails
	if err := json.Unmarshal([]byte(raw), &d); err != nil {
		panic(err)
	}
	return &d
}

// SampleReviews returns positive recommendations followed by negative ones.
func SampleReviews(positive, negative int) []reviews.Review {
	out := make([]reviews.Review, 0, positive+negative)
	for i := 0; i < positive; i++ {
		out = append(out, reviews.Review{VotedUp: true})
	}
	for i := 0; i < negative; i++ {
		out = append(out, reviews.Review{VotedUp: false})
	}
	return out
}
