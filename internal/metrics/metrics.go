package metrics

import (
	"sync"
	"time"
)

type providerStats struct {
	calls           int
	errors          int
	rateLimitHits   int
	lastRetryAfter  time.Duration
	lastCallLatency time.Duration
}

// Recorder captures lightweight, in-memory metrics about upstream calls and
// mirrors them to OpenTelemetry instruments when configured.
type Recorder struct {
	mu     sync.Mutex
	stats  map[string]*providerStats
	builds buildStats
	otel   *otelInstruments
}

type buildStats struct {
	count         int
	degradedGames int
	lastDuration  time.Duration
}

func NewRecorder() *Recorder {
	return newRecorder(nil)
}

func newRecorder(otel *otelInstruments) *Recorder {
	return &Recorder{
		stats: make(map[string]*providerStats),
		otel:  otel,
	}
}

// RecordProviderAttempt increments counters for a provider call and stores the last observed latency.
func (r *Recorder) RecordProviderAttempt(provider string, duration time.Duration, err error) {
	if r == nil {
		return
	}

	r.update(provider, func(stats *providerStats) {
		stats.calls++
		stats.lastCallLatency = duration
		if err != nil {
			stats.errors++
		}
	})
	if r.otel != nil {
		r.otel.recordProviderAttempt(provider, duration, err)
	}
}

// RecordRateLimit tracks that a provider response hit a rate limit and stores the last Retry-After.
func (r *Recorder) RecordRateLimit(provider string, retryAfter time.Duration) {
	if r == nil {
		return
	}

	r.update(provider, func(stats *providerStats) {
		stats.rateLimitHits++
		if retryAfter > 0 {
			stats.lastRetryAfter = retryAfter
		}
	})
	if r.otel != nil {
		r.otel.recordRateLimit(provider, retryAfter)
	}
}

// ProviderCalls returns the total attempts recorded for a provider.
func (r *Recorder) ProviderCalls(provider string) int {
	return r.Snapshot(provider).Calls
}

// ProviderErrors returns the total failed attempts recorded for a provider.
func (r *Recorder) ProviderErrors(provider string) int {
	return r.Snapshot(provider).Errors
}

// RateLimitHits returns the number of rate limit events seen for a provider.
func (r *Recorder) RateLimitHits(provider string) int {
	return r.Snapshot(provider).RateLimitHits
}

// LastRetryAfter returns the most recent Retry-After recorded for a provider.
func (r *Recorder) LastRetryAfter(provider string) time.Duration {
	return r.Snapshot(provider).LastRetryAfter
}

// LastCallLatency returns the last recorded latency for a provider call.
func (r *Recorder) LastCallLatency(provider string) time.Duration {
	return r.Snapshot(provider).LastCallLatency
}

// Snapshot is a copy of the stats recorded for one provider key.
type Snapshot struct {
	Calls           int
	Errors          int
	RateLimitHits   int
	LastRetryAfter  time.Duration
	LastCallLatency time.Duration
}

// Snapshot returns a copy of the current stats for the provider.
func (r *Recorder) Snapshot(provider string) Snapshot {
	if r == nil {
		return Snapshot{}
	}
	stats := r.snapshot(provider)
	return Snapshot{
		Calls:           stats.calls,
		Errors:          stats.errors,
		RateLimitHits:   stats.rateLimitHits,
		LastRetryAfter:  stats.lastRetryAfter,
		LastCallLatency: stats.lastCallLatency,
	}
}

// RecordHTTPRequest tracks basic HTTP metrics.
func (r *Recorder) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	if r == nil || r.otel == nil {
		return
	}
	r.otel.recordHTTPRequest(method, path, status, duration)
}

// RecordProbeCycle tracks upstream probe cycles and errors.
func (r *Recorder) RecordProbeCycle(duration time.Duration, err error) {
	if r == nil || r.otel == nil {
		return
	}
	r.otel.recordProbe(duration, err)
}

// RecordEnrichment tracks one dashboard build: its latency, how many games it
// produced and how many of those fell back to defaults.
func (r *Recorder) RecordEnrichment(duration time.Duration, games, degradedGames int) {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.builds.count++
	r.builds.degradedGames += degradedGames
	r.builds.lastDuration = duration
	r.mu.Unlock()
	if r.otel != nil {
		r.otel.recordEnrichment(duration, games, degradedGames)
	}
}

// BuildSnapshot summarizes recorded dashboard builds.
type BuildSnapshot struct {
	Builds        int
	DegradedGames int
	LastDuration  time.Duration
}

// Builds returns a copy of the recorded build stats.
func (r *Recorder) Builds() BuildSnapshot {
	if r == nil {
		return BuildSnapshot{}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return BuildSnapshot{
		Builds:        r.builds.count,
		DegradedGames: r.builds.degradedGames,
		LastDuration:  r.builds.lastDuration,
	}
}

// ProviderKey joins a provider and endpoint name, e.g. "steam.top_games".
func ProviderKey(provider, endpoint string) string {
	if endpoint == "" {
		return provider
	}
	return provider + "." + endpoint
}

// update applies fn to the provider's stats while holding the lock.
func (r *Recorder) update(provider string, fn func(*providerStats)) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stats, ok := r.stats[provider]
	if !ok {
		stats = &providerStats{}
		r.stats[provider] = stats
	}
	fn(stats)
}

func (r *Recorder) snapshot(provider string) providerStats {
	r.mu.Lock()
	defer r.mu.Unlock()

	if stats, ok := r.stats[provider]; ok && stats != nil {
		return *stats
	}
	return providerStats{}
}
