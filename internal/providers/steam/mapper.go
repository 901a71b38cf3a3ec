package steam

import (
	"encoding/json"

	"steam-trends-service/internal/domain/games"
)

func mapRanks(in []rankResponse) []games.RawGameRank {
	out := make([]games.RawGameRank, 0, len(in))
	for _, r := range in {
		out = append(out, mapRank(r))
	}
	return out
}

// mapRank reads concurrent players from peak_in_game, defaulting to zero.
func mapRank(r rankResponse) games.RawGameRank {
	players := 0
	if r.PeakInGame != nil {
		players = *r.PeakInGame
	}
	return games.RawGameRank{
		Rank:              r.Rank,
		AppID:             r.AppID,
		ConcurrentPlayers: players,
	}
}

func mapDetails(raw json.RawMessage) (*games.GameDetails, error) {
	var details games.GameDetails
	if err := json.Unmarshal(raw, &details); err != nil {
		return nil, err
	}
	return &details, nil
}
