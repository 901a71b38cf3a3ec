package teststubs

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"steam-trends-service/internal/domain/games"
	"steam-trends-service/internal/domain/reviews"
)

// StubProvider is a test double for providers.StoreProvider. Responses are
// keyed by app id; missing keys yield nil values with no error.
type StubProvider struct {
	Ranks    []games.RawGameRank
	RanksErr error

	Details    map[int]*games.GameDetails
	DetailsErr map[int]error

	Reviews    map[int][]reviews.Review
	ReviewsErr map[int]error

	// Delay is applied to every per-game call, honoring context cancellation.
	Delay time.Duration
	// Hang lists app ids whose per-game calls block until the context ends.
	Hang map[int]bool

	TopCalls     atomic.Int32
	DetailsCalls atomic.Int32
	ReviewsCalls atomic.Int32
	Notify       chan struct{}

	mu          sync.Mutex
	inFlight    int
	maxInFlight int
}

// FetchTopGames returns the configured ranks truncated to limit.
func (s *StubProvider) FetchTopGames(ctx context.Context, limit int) ([]games.RawGameRank, error) {
	_ = ctx
	s.notify()
	s.TopCalls.Add(1)
	if s.RanksErr != nil {
		return nil, s.RanksErr
	}
	ranks := s.Ranks
	if limit >= 0 && len(ranks) > limit {
		ranks = ranks[:limit]
	}
	return ranks, nil
}

// FetchGameDetails returns the configured details for appID.
func (s *StubProvider) FetchGameDetails(ctx context.Context, appID int) (*games.GameDetails, error) {
	s.DetailsCalls.Add(1)
	if err := s.wait(ctx, appID); err != nil {
		return nil, err
	}
	if err := s.DetailsErr[appID]; err != nil {
		return nil, err
	}
	return s.Details[appID], nil
}

// FetchGameReviews returns the configured reviews for appID.
func (s *StubProvider) FetchGameReviews(ctx context.Context, appID int) ([]reviews.Review, error) {
	s.ReviewsCalls.Add(1)
	if err := s.wait(ctx, appID); err != nil {
		return nil, err
	}
	if err := s.ReviewsErr[appID]; err != nil {
		return nil, err
	}
	return s.Reviews[appID], nil
}

// MaxInFlight reports the highest number of concurrent per-game calls observed.
func (s *StubProvider) MaxInFlight() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.maxInFlight
}

func (s *StubProvider) wait(ctx context.Context, appID int) error {
	s.mu.Lock()
	s.inFlight++
	if s.inFlight > s.maxInFlight {
		s.maxInFlight = s.inFlight
	}
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.inFlight--
		s.mu.Unlock()
	}()

	if s.Hang[appID] {
		<-ctx.Done()
		return ctx.Err()
	}
	if s.Delay <= 0 {
		return nil
	}
	timer := time.NewTimer(s.Delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (s *StubProvider) notify() {
	if s.Notify == nil {
		return
	}
	select {
	case <-s.Notify:
	default:
		close(s.Notify)
	}
}
