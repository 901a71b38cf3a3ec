package games

import (
	"encoding/json"
	"fmt"
)

// UnknownName is used when a game's store details could not be resolved.
const UnknownName = "Unknown"

// RawGameRank is a single entry of the most-played chart.
type RawGameRank struct {
	Rank              int `json:"rank"`
	AppID             int `json:"app_id"`
	ConcurrentPlayers int `json:"concurrent_players"`
}

// Descriptor is a genre or category label attached to store details.
type Descriptor struct {
	ID          json.RawMessage `json:"id,omitempty"`
	Description string          `json:"description"`
}

// GameDetails holds the store metadata for a game. Only the fields the
// pipeline reads are typed; the full upstream object is kept in raw and
// emitted unchanged when the details are serialized.
type GameDetails struct {
	Name       string       `json:"name"`
	Genres     []Descriptor `json:"genres,omitempty"`
	Categories []Descriptor `json:"categories,omitempty"`

	raw json.RawMessage
}

// UnmarshalJSON decodes the typed fields and retains the original document.
func (d *GameDetails) UnmarshalJSON(data []byte) error {
	type plain GameDetails
	var decoded plain
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	*d = GameDetails(decoded)
	d.raw = append(json.RawMessage(nil), data...)
	return nil
}

// MarshalJSON re-emits the upstream document when available.
func (d GameDetails) MarshalJSON() ([]byte, error) {
	if len(d.raw) > 0 {
		return d.raw, nil
	}
	type plain GameDetails
	return json.Marshal(plain(d))
}

// GenreNames returns genre descriptions in upstream order.
func (d *GameDetails) GenreNames() []string {
	if d == nil {
		return nil
	}
	return descriptions(d.Genres)
}

// CategoryNames returns category descriptions in upstream order.
func (d *GameDetails) CategoryNames() []string {
	if d == nil {
		return nil
	}
	return descriptions(d.Categories)
}

func descriptions(items []Descriptor) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.Description)
	}
	return out
}

// EnrichedGame joins chart, store and review data for one game.
type EnrichedGame struct {
	Rank              int          `json:"rank"`
	AppID             int          `json:"app_id"`
	Name              string       `json:"name"`
	ConcurrentPlayers int          `json:"concurrent_players"`
	SentimentRatio    float64      `json:"sentiment_ratio"`
	SentimentLabel    string       `json:"sentiment_label"`
	ReviewCount       int          `json:"review_count"`
	Details           *GameDetails `json:"details"`
}

// NameCount is a ranked label with its frequency. It serializes as a
// two-element array, e.g. ["Action", 3].
type NameCount struct {
	Name  string
	Count int
}

// MarshalJSON encodes the pair as [name, count].
func (n NameCount) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{n.Name, n.Count})
}

// UnmarshalJSON decodes a [name, count] pair.
func (n *NameCount) UnmarshalJSON(data []byte) error {
	var pair []json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("games: expected [name, count] pair, got %d elements", len(pair))
	}
	if err := json.Unmarshal(pair[0], &n.Name); err != nil {
		return err
	}
	return json.Unmarshal(pair[1], &n.Count)
}

// TrendSummary aggregates statistics across the current top games.
type TrendSummary struct {
	TotalPlayers  int         `json:"total_players"`
	TopGenres     []NameCount `json:"top_genres"`
	TopCategories []NameCount `json:"top_categories"`
}

// ResponsePayload is the body returned by /api/data.
type ResponsePayload struct {
	Games      []EnrichedGame `json:"games"`
	Trends     TrendSummary   `json:"trends"`
	Timestamp  string         `json:"timestamp"`
	TotalGames int            `json:"total_games"`
	// Degraded is set when at least one upstream call failed and defaults were used.
	Degraded bool `json:"degraded"`
}

// NewResponsePayload builds a payload, deriving the game count.
func NewResponsePayload(games []EnrichedGame, trends TrendSummary, timestamp string, degraded bool) ResponsePayload {
	if games == nil {
		games = []EnrichedGame{}
	}
	return ResponsePayload{
		Games:      games,
		Trends:     trends,
		Timestamp:  timestamp,
		TotalGames: len(games),
		Degraded:   degraded,
	}
}
