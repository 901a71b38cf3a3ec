package analysis

import (
	"sort"

	"steam-trends-service/internal/domain/games"
)

// TopTrendCount caps the genre and category rankings.
const TopTrendCount = 5

// AggregateTrends sums player counts and ranks the most common genres and
// categories across the given games. Games without details still count
// toward the player total.
func AggregateTrends(items []games.EnrichedGame) games.TrendSummary {
	genres := newCounter()
	categories := newCounter()
	total := 0

	for _, g := range items {
		total += g.ConcurrentPlayers
		if g.Details == nil {
			continue
		}
		genres.addAll(g.Details.GenreNames())
		categories.addAll(g.Details.CategoryNames())
	}

	return games.TrendSummary{
		TotalPlayers:  total,
		TopGenres:     genres.mostCommon(TopTrendCount),
		TopCategories: categories.mostCommon(TopTrendCount),
	}
}

// counter tallies labels while remembering first-seen order for tie breaks.
type counter struct {
	order  []string
	counts map[string]int
}

func newCounter() *counter {
	return &counter{counts: make(map[string]int)}
}

func (c *counter) addAll(names []string) {
	for _, name := range names {
		if _, seen := c.counts[name]; !seen {
			c.order = append(c.order, name)
		}
		c.counts[name]++
	}
}

func (c *counter) mostCommon(n int) []games.NameCount {
	ranked := make([]games.NameCount, 0, len(c.order))
	for _, name := range c.order {
		ranked = append(ranked, games.NameCount{Name: name, Count: c.counts[name]})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}
