package prober

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"

	"steam-trends-service/internal/domain/games"
	"steam-trends-service/internal/metrics"
	"steam-trends-service/internal/teststubs"
)

type flakyTarget struct {
	calls    atomic.Int32
	failures int32
}

func (f *flakyTarget) FetchTopGames(ctx context.Context, limit int) ([]games.RawGameRank, error) {
	n := f.calls.Add(1)
	if n <= f.failures {
		return nil, errors.New("upstream down")
	}
	return []games.RawGameRank{{Rank: 1, AppID: 730}}, nil
}

func TestProberProbesOnStartAndBecomesReady(t *testing.T) {
	stub := &teststubs.StubProvider{
		Ranks:  []games.RawGameRank{{Rank: 1, AppID: 730}},
		Notify: make(chan struct{}),
	}
	p := New(stub, nil, nil, 10*time.Millisecond, time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	p.Start(ctx)

	select {
	case <-stub.Notify:
	case <-time.After(500 * time.Millisecond):
		t.Fatal("timed out waiting for initial probe")
	}

	deadline := time.Now().Add(500 * time.Millisecond)
	for !p.IsReady() && time.Now().Before(deadline) {
		time.Sleep(2 * time.Millisecond)
	}
	if !p.IsReady() {
		t.Fatalf("expected prober to become ready, status %+v", p.Status())
	}
	_ = p.Stop(context.Background())
}

func TestProberStopsOnContextCancel(t *testing.T) {
	stub := &teststubs.StubProvider{Notify: make(chan struct{})}
	p := New(stub, nil, nil, 5*time.Millisecond, time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())

	p.Start(ctx)
	<-stub.Notify
	cancel()
	time.Sleep(20 * time.Millisecond)

	calls := stub.TopCalls.Load()
	time.Sleep(20 * time.Millisecond)
	if stub.TopCalls.Load() != calls {
		t.Fatalf("expected probing to stop after cancel")
	}
}

func TestProberStartIsIdempotentAndStopIsSafe(t *testing.T) {
	stub := &teststubs.StubProvider{}
	p := New(stub, nil, nil, time.Hour, time.Second)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p.Start(ctx)
	p.Start(ctx)
	if err := p.Stop(context.Background()); err != nil {
		t.Fatalf("unexpected stop error: %v", err)
	}
	if err := p.Stop(context.Background()); err != nil {
		t.Fatalf("second stop should be a no-op, got %v", err)
	}
}

func TestProbeOnceTracksFailuresAndRecovery(t *testing.T) {
	target := &flakyTarget{failures: 3}
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	recorder := metrics.NewRecorder()
	p := New(target, logger, recorder, time.Minute, time.Second)

	for i := 0; i < 3; i++ {
		if err := p.probeOnce(context.Background()); err == nil {
			t.Fatalf("expected failure on probe %d", i)
		}
	}
	st := p.Status()
	if st.ConsecutiveFailures != 3 || st.LastError != "upstream down" || p.IsReady() {
		t.Fatalf("unexpected failing status %+v", st)
	}
	if !strings.Contains(buf.String(), "upstream probe failed") {
		t.Fatalf("expected failure log, got %q", buf.String())
	}

	if err := p.probeOnce(context.Background()); err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	st = p.Status()
	if st.ConsecutiveFailures != 0 || st.LastError != "" || st.LastSuccess.IsZero() || !p.IsReady() {
		t.Fatalf("unexpected recovered status %+v", st)
	}
}

func TestStatusIsReady(t *testing.T) {
	now := time.Now()
	cases := []struct {
		status Status
		want   bool
	}{
		{Status{}, false},
		{Status{LastSuccess: now}, true},
		{Status{LastSuccess: now, ConsecutiveFailures: 2}, true},
		{Status{LastSuccess: now, ConsecutiveFailures: 3}, false},
	}
	for _, tc := range cases {
		if got := tc.status.IsReady(); got != tc.want {
			t.Fatalf("status %+v: expected %v, got %v", tc.status, tc.want, got)
		}
	}
}

func TestNextDelayBacksOffAndResets(t *testing.T) {
	p := New(nil, nil, nil, 40*time.Second, 5*time.Second)
	bo := newBackOff(5*time.Second, 40*time.Second)
	bo.RandomizationFactor = 0
	bo.Reset()
	p.backoff = bo

	boom := errors.New("boom")
	want := []time.Duration{5 * time.Second, 7500 * time.Millisecond, 11250 * time.Millisecond}
	for i, w := range want {
		if got := p.nextDelay(boom); got != w {
			t.Fatalf("step %d: expected %s, got %s", i, w, got)
		}
	}
	for i := 0; i < 10; i++ {
		if got := p.nextDelay(boom); got > 40*time.Second {
			t.Fatalf("backoff exceeded interval: %s", got)
		}
	}
	if got := p.nextDelay(nil); got != 40*time.Second {
		t.Fatalf("expected interval after success, got %s", got)
	}
	if got := p.nextDelay(boom); got != 5*time.Second {
		t.Fatalf("expected backoff reset after success, got %s", got)
	}
}

func TestNextDelayStopFallsBackToInterval(t *testing.T) {
	p := New(nil, nil, nil, time.Minute, time.Second)
	p.backoff = &backoff.StopBackOff{}
	if got := p.nextDelay(errors.New("boom")); got != time.Minute {
		t.Fatalf("expected interval when backoff stops, got %s", got)
	}
}

func TestProbeWithoutTarget(t *testing.T) {
	p := New(nil, nil, nil, time.Minute, time.Second)
	if err := p.probeOnce(context.Background()); !errors.Is(err, errNoTarget) {
		t.Fatalf("expected no target error, got %v", err)
	}
}

func TestNewDefaults(t *testing.T) {
	p := New(nil, nil, nil, 0, 0)
	if p.interval != defaultInterval || p.timeout != defaultProbeTimeout {
		t.Fatalf("unexpected defaults interval=%s timeout=%s", p.interval, p.timeout)
	}
	capped := New(nil, nil, nil, time.Second, time.Minute)
	bo := capped.backoff.(*backoff.ExponentialBackOff)
	if bo.InitialInterval != time.Second || bo.MaxInterval != time.Second {
		t.Fatalf("expected initial backoff capped at interval, got %+v", bo)
	}
}
