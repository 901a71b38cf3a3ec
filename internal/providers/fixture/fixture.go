package fixture

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"steam-trends-service/internal/domain/games"
	"steam-trends-service/internal/domain/reviews"
)

// ProviderName identifies the fixture provider in logs and metrics.
const ProviderName = "fixture"

type entry struct {
	appID    int
	players  int
	details  string
	positive int
	negative int
}

// catalog is ordered by rank. Team Fortress 2 deliberately has no store
// details so local runs exercise the Unknown fallback.
var catalog = []entry{
	{appID: 730, players: 1_450_000, positive: 16, negative: 4, details: `{"type":"game","name":"Counter-Strike 2","steam_appid":730,"is_free":true,
		"genres":[{"id":"1","description":"Action"},{"id":"37","description":"Free to Play"}],
		"categories":[{"id":1,"description":"Multi-player"},{"id":49,"description":"PvP"},{"id":22,"description":"Steam Achievements"}]}`},
	{appID: 570, players: 720_000, positive: 15, negative: 5, details: `{"type":"game","name":"Dota 2","steam_appid":570,"is_free":true,
		"genres":[{"id":"1","description":"Action"},{"id":"2","description":"Strategy"},{"id":"37","description":"Free to Play"}],
		"categories":[{"id":1,"description":"Multi-player"},{"id":49,"description":"PvP"},{"id":22,"description":"Steam Achievements"}]}`},
	{appID: 578080, players: 310_000, positive: 11, negative: 9, details: `{"type":"game","name":"PUBG: BATTLEGROUNDS","steam_appid":578080,"is_free":true,
		"genres":[{"id":"1","description":"Action"},{"id":"25","description":"Adventure"},{"id":"29","description":"Massively Multiplayer"}],
		"categories":[{"id":1,"description":"Multi-player"},{"id":49,"description":"PvP"}]}`},
	{appID: 1172470, players: 180_000, positive: 13, negative: 7, details: `{"type":"game","name":"Apex Legends","steam_appid":1172470,"is_free":true,
		"genres":[{"id":"1","description":"Action"},{"id":"25","description":"Adventure"},{"id":"37","description":"Free to Play"}],
		"categories":[{"id":1,"description":"Multi-player"},{"id":9,"description":"Co-op"}]}`},
	{appID: 440, players: 95_000},
	{appID: 1086940, players: 87_000, positive: 19, negative: 1, details: `{"type":"game","name":"Baldur's Gate 3","steam_appid":1086940,"is_free":false,
		"genres":[{"id":"3","description":"RPG"},{"id":"25","description":"Adventure"},{"id":"2","description":"Strategy"}],
		"categories":[{"id":2,"description":"Single-player"},{"id":1,"description":"Multi-player"},{"id":9,"description":"Co-op"}]}`},
}

// Provider serves a static catalog, useful for local runs without network access.
type Provider struct {
	now func() time.Time
}

// New creates a fixture provider with a time source.
func New() *Provider {
	return &Provider{
		now: time.Now,
	}
}

// FetchTopGames returns up to limit catalog entries in rank order.
func (p *Provider) FetchTopGames(ctx context.Context, limit int) ([]games.RawGameRank, error) {
	_ = ctx
	out := make([]games.RawGameRank, 0, len(catalog))
	for i, e := range catalog {
		if limit >= 0 && i >= limit {
			break
		}
		out = append(out, games.RawGameRank{
			Rank:              i + 1,
			AppID:             e.appID,
			ConcurrentPlayers: e.players,
		})
	}
	return out, nil
}

// FetchGameDetails returns catalog details, or nil for unknown apps.
func (p *Provider) FetchGameDetails(ctx context.Context, appID int) (*games.GameDetails, error) {
	_ = ctx
	e, ok := lookup(appID)
	if !ok || e.details == "" {
		return nil, nil
	}
	var details games.GameDetails
	if err := json.Unmarshal([]byte(e.details), &details); err != nil {
		return nil, err
	}
	return &details, nil
}

// FetchGameReviews returns a deterministic mix of positive and negative reviews.
func (p *Provider) FetchGameReviews(ctx context.Context, appID int) ([]reviews.Review, error) {
	_ = ctx
	e, ok := lookup(appID)
	if !ok {
		return nil, nil
	}
	created := p.now().UTC().Truncate(time.Hour)
	total := e.positive + e.negative
	out := make([]reviews.Review, 0, total)
	for i := 0; i < total; i++ {
		review, err := fixtureReview(appID*100+i, i < e.positive, created.Add(-time.Duration(i)*time.Hour))
		if err != nil {
			return nil, err
		}
		out = append(out, review)
	}
	return out, nil
}

// fixtureReview builds a review the way the store returns it, so passthrough
// fields survive.
func fixtureReview(id int, votedUp bool, created time.Time) (reviews.Review, error) {
	doc, err := json.Marshal(map[string]any{
		"recommendationid":  strconv.Itoa(id),
		"language":          "english",
		"voted_up":          votedUp,
		"timestamp_created": created.Unix(),
	})
	if err != nil {
		return reviews.Review{}, err
	}
	var review reviews.Review
	err = json.Unmarshal(doc, &review)
	return review, err
}

func lookup(appID int) (entry, bool) {
	for _, e := range catalog {
		if e.appID == appID {
			return e, true
		}
	}
	return entry{}, false
}
