package prober

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"

	"steam-trends-service/internal/domain/games"
	"steam-trends-service/internal/logging"
	"steam-trends-service/internal/metrics"
)

const (
	defaultInterval       = 5 * time.Minute
	defaultInitialBackoff = 5 * time.Second
	defaultProbeTimeout   = 10 * time.Second
	readyFailureThreshold = 3
)

// Target is the upstream call used to check reachability.
type Target interface {
	FetchTopGames(ctx context.Context, limit int) ([]games.RawGameRank, error)
}

// Prober periodically checks that the charts endpoint answers and exposes the
// result for readiness checks. While probes fail the next attempt is spaced by
// an exponential backoff capped at the regular interval.
type Prober struct {
	target   Target
	logger   *slog.Logger
	metrics  *metrics.Recorder
	interval time.Duration
	timeout  time.Duration
	backoff  backoff.BackOff
	now      func() time.Time

	done     chan struct{}
	stopOnce sync.Once
	startMu  sync.Mutex
	started  bool

	statusMu sync.RWMutex
	status   Status
}

// Status describes the recent health of the upstream.
type Status struct {
	ConsecutiveFailures int
	LastError           string
	LastAttempt         time.Time
	LastSuccess         time.Time
}

// IsReady reports whether a probe has succeeded and the upstream is not failing repeatedly.
func (s Status) IsReady() bool {
	if s.LastSuccess.IsZero() {
		return false
	}
	return s.ConsecutiveFailures < readyFailureThreshold
}

// New constructs a Prober. Non-positive durations fall back to defaults.
func New(target Target, logger *slog.Logger, recorder *metrics.Recorder, interval, initialBackoff time.Duration) *Prober {
	if interval <= 0 {
		interval = defaultInterval
	}
	if initialBackoff <= 0 {
		initialBackoff = defaultInitialBackoff
	}
	if initialBackoff > interval {
		initialBackoff = interval
	}
	return &Prober{
		target:   target,
		logger:   logger,
		metrics:  recorder,
		interval: interval,
		timeout:  defaultProbeTimeout,
		backoff:  newBackOff(initialBackoff, interval),
		now:      time.Now,
		done:     make(chan struct{}),
	}
}

func newBackOff(initial, max time.Duration) *backoff.ExponentialBackOff {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = initial
	bo.MaxInterval = max
	bo.MaxElapsedTime = 0
	bo.Reset()
	return bo
}

// Start probes immediately and then keeps probing until ctx is cancelled or Stop is called.
func (p *Prober) Start(ctx context.Context) {
	p.startMu.Lock()
	if p.started {
		p.startMu.Unlock()
		return
	}
	p.started = true
	p.startMu.Unlock()

	go func() {
		logging.Info(p.logger, "prober started", slog.Int64(logging.FieldDurationMS, p.interval.Milliseconds()))
		timer := time.NewTimer(p.nextDelay(p.probeOnce(ctx)))
		defer timer.Stop()

		for {
			select {
			case <-ctx.Done():
				logging.Info(p.logger, "prober stopped")
				return
			case <-p.done:
				logging.Info(p.logger, "prober stopped")
				return
			case <-timer.C:
				timer.Reset(p.nextDelay(p.probeOnce(ctx)))
			}
		}
	}()
}

// Stop halts the probe loop.
func (p *Prober) Stop(ctx context.Context) error {
	_ = ctx
	p.stopOnce.Do(func() {
		close(p.done)
	})
	return nil
}

func (p *Prober) probeOnce(ctx context.Context) error {
	start := p.now()
	p.recordAttempt(start)

	probeCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	var err error
	if p.target == nil {
		err = errNoTarget
	} else {
		_, err = p.target.FetchTopGames(probeCtx, 1)
	}
	elapsed := p.now().Sub(start)
	p.metrics.RecordProbeCycle(elapsed, err)

	if err != nil {
		p.recordFailure(err, start)
		logging.Warn(p.logger, "upstream probe failed",
			slog.Int("consecutive_failures", p.Status().ConsecutiveFailures),
			slog.Int64(logging.FieldDurationMS, elapsed.Milliseconds()),
			slog.Any("error", err),
		)
		return err
	}
	p.recordSuccess(start)
	return nil
}

// nextDelay returns the regular interval after a success, otherwise the next
// backoff step, never exceeding the interval.
func (p *Prober) nextDelay(err error) time.Duration {
	if err == nil {
		p.backoff.Reset()
		return p.interval
	}
	d := p.backoff.NextBackOff()
	if d == backoff.Stop || d <= 0 || d > p.interval {
		return p.interval
	}
	return d
}

func (p *Prober) recordAttempt(at time.Time) {
	p.statusMu.Lock()
	defer p.statusMu.Unlock()
	p.status.LastAttempt = at
}

func (p *Prober) recordSuccess(at time.Time) {
	p.statusMu.Lock()
	defer p.statusMu.Unlock()
	p.status.ConsecutiveFailures = 0
	p.status.LastError = ""
	p.status.LastSuccess = at
}

func (p *Prober) recordFailure(err error, at time.Time) {
	p.statusMu.Lock()
	defer p.statusMu.Unlock()
	p.status.ConsecutiveFailures++
	if err != nil {
		p.status.LastError = err.Error()
	}
	p.status.LastAttempt = at
}

// Status returns a snapshot of the prober's recent results.
func (p *Prober) Status() Status {
	p.statusMu.RLock()
	defer p.statusMu.RUnlock()
	return p.status
}

// IsReady reports readiness based on the latest status.
func (p *Prober) IsReady() bool {
	return p.Status().IsReady()
}
