package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"steam-trends-service/internal/config"
	"steam-trends-service/internal/domain/games"
	"steam-trends-service/internal/domain/reviews"
	"steam-trends-service/internal/http/handlers"
	"steam-trends-service/internal/prober"
	"steam-trends-service/internal/providers"
	"steam-trends-service/internal/providers/fixture"
	"steam-trends-service/internal/providers/steam"
	"steam-trends-service/internal/teststubs"
	"steam-trends-service/internal/testutil"
)

func probeConfig() config.Config {
	return config.Config{
		Probe: config.ProbeConfig{Enabled: true, Interval: 5 * time.Millisecond, InitialBackoff: time.Millisecond},
	}
}

func TestServerServesHealthAndData(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	provider := &teststubs.StubProvider{
		Ranks: []games.RawGameRank{testutil.SampleRank(1, 730, 50000)},
		Details: map[int]*games.GameDetails{
			730: testutil.MustDetails(`{"name":"Counter-Strike 2","genres":[{"id":"1","description":"Action"}]}`),
		},
		Reviews: map[int][]reviews.Review{730: testutil.SampleReviews(7, 3)},
		Notify:  make(chan struct{}),
	}

	srv := newServerWithProvider(probeConfig(), nil, provider)
	srv.prober.Start(ctx)
	defer func() { _ = srv.prober.Stop(context.Background()) }()

	select {
	case <-provider.Notify:
	case <-time.After(500 * time.Millisecond):
		t.Fatal("timed out waiting for prober to fetch")
	}

	router := srv.Handler()

	healthRec := httptest.NewRecorder()
	router.ServeHTTP(healthRec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	testutil.AssertStatus(t, healthRec, http.StatusOK)
	if healthRec.Header().Get("X-Request-ID") == "" {
		t.Fatalf("expected request id header from middleware")
	}

	dataRec := httptest.NewRecorder()
	router.ServeHTTP(dataRec, httptest.NewRequest(http.MethodGet, "/api/data", nil))
	testutil.AssertStatus(t, dataRec, http.StatusOK)

	var payload games.ResponsePayload
	testutil.DecodeJSON(t, dataRec, &payload)
	if payload.TotalGames != 1 || payload.Games[0].Name != "Counter-Strike 2" {
		t.Fatalf("unexpected payload %+v", payload)
	}
	if payload.Games[0].SentimentLabel != "Very Positive" {
		t.Fatalf("unexpected sentiment label %s", payload.Games[0].SentimentLabel)
	}
	if payload.Degraded {
		t.Fatalf("expected healthy payload")
	}
	if calls := srv.metrics.ProviderCalls("teststubs.stubprovider.top_games"); calls < 1 {
		t.Fatalf("expected top games calls recorded, got %d", calls)
	}
}

func TestServerServesDashboardPage(t *testing.T) {
	srv := newServerWithProvider(config.Config{}, nil, &teststubs.StubProvider{})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	testutil.AssertStatus(t, rec, http.StatusOK)
	if !strings.Contains(rec.Body.String(), "<html") {
		t.Fatalf("expected html body")
	}
}

func TestServerHandlesProviderErrorGracefully(t *testing.T) {
	provider := &teststubs.StubProvider{RanksErr: context.DeadlineExceeded}
	srv := newServerWithProvider(config.Config{}, nil, provider)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/data", nil))
	testutil.AssertStatus(t, rec, http.StatusOK)

	var payload games.ResponsePayload
	testutil.DecodeJSON(t, rec, &payload)
	if len(payload.Games) != 0 || !payload.Degraded {
		t.Fatalf("expected empty degraded payload, got %+v", payload)
	}
}

func TestServerReadyReflectsProbe(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	provider := &teststubs.StubProvider{
		RanksErr: &providers.UpstreamError{Endpoint: "top_games", StatusCode: http.StatusServiceUnavailable},
		Notify:   make(chan struct{}),
	}
	srv := newServerWithProvider(probeConfig(), nil, provider)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/ready", nil))
	testutil.AssertStatus(t, rec, http.StatusServiceUnavailable)

	srv.prober.Start(ctx)
	defer func() { _ = srv.prober.Stop(context.Background()) }()
	<-provider.Notify

	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/ready", nil))
	testutil.AssertStatus(t, rec, http.StatusServiceUnavailable)
}

func TestServerWithoutProbeIsReady(t *testing.T) {
	srv := newServerWithProvider(config.Config{}, nil, &teststubs.StubProvider{})
	if srv.prober != nil {
		t.Fatalf("expected no prober when probing is disabled")
	}

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/ready", nil))
	testutil.AssertStatus(t, rec, http.StatusOK)
}

func TestServerRecoversHandlerPanics(t *testing.T) {
	srv := newServerWithProvider(config.Config{}, nil, panicProvider{&teststubs.StubProvider{}})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/data", nil))
	testutil.AssertStatus(t, rec, http.StatusInternalServerError)
}

type panicProvider struct{ *teststubs.StubProvider }

func (panicProvider) FetchTopGames(context.Context, int) ([]games.RawGameRank, error) {
	panic("boom")
}

func TestSelectProviderFallsBackToFixture(t *testing.T) {
	provider := selectProvider(config.Config{Provider: "unknown"}, nil)
	if _, ok := provider.(*fixture.Provider); !ok {
		t.Fatalf("expected fixture fallback, got %T", provider)
	}
}

func TestSelectProviderChoosesSteam(t *testing.T) {
	for _, name := range []string{"steam", ""} {
		provider := selectProvider(config.Config{
			Provider: name,
			Steam:    config.SteamConfig{ChartsBaseURL: "http://example.com", StoreBaseURL: "http://example.com"},
		}, nil)
		if _, ok := provider.(*steam.Client); !ok {
			t.Fatalf("expected steam provider for %q, got %T", name, provider)
		}
	}
}

func TestSelectProviderChoosesFixture(t *testing.T) {
	provider := selectProvider(config.Config{Provider: "fixture"}, nil)
	if _, ok := provider.(*fixture.Provider); !ok {
		t.Fatalf("expected fixture provider, got %T", provider)
	}
}

func TestNewConstructsServer(t *testing.T) {
	cfg := config.Config{
		Port:     "0",
		Provider: "fixture",
		Probe:    config.ProbeConfig{Enabled: true},
		Metrics:  config.MetricsConfig{Enabled: false},
	}
	srv := New(cfg, nil)
	if srv == nil || srv.Handler() == nil {
		t.Fatalf("expected server with handler")
	}
	if srv.prober == nil {
		t.Fatalf("expected prober when enabled")
	}
	if _, ok := srv.prober.(*prober.Prober); !ok {
		t.Fatalf("expected real prober, got %T", srv.prober)
	}
}

func TestNewServesFixtureData(t *testing.T) {
	srv := New(config.Config{Provider: "fixture"}, nil)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/data", nil))
	testutil.AssertStatus(t, rec, http.StatusOK)

	var payload games.ResponsePayload
	testutil.DecodeJSON(t, rec, &payload)
	if payload.TotalGames == 0 {
		t.Fatalf("expected fixture games")
	}
	if srv.metrics.ProviderCalls("fixture.top_games") != 1 {
		t.Fatalf("expected fixture calls recorded under fixture prefix")
	}
}

func TestGracefulShutdownCallsStopAndShutdown(t *testing.T) {
	p := &testutil.StubProber{}
	httpSrv := &testutil.StubHTTPServer{}
	handler := handlers.NewHandler(nil, nil, nil, nil)

	srv := newServerWithDeps(config.Config{}, nil, handler, httpSrv, p)
	srv.gracefulShutdown()

	if p.StopCalls != 1 {
		t.Fatalf("expected prober Stop to be called once, got %d", p.StopCalls)
	}
	if httpSrv.ShutdownCalls != 1 {
		t.Fatalf("expected server Shutdown to be called once, got %d", httpSrv.ShutdownCalls)
	}

	rec := testutil.Serve(handler, http.MethodGet, "/api/health", nil)
	testutil.AssertStatus(t, rec, http.StatusServiceUnavailable)
}

func TestGracefulShutdownWithoutProber(t *testing.T) {
	httpSrv := &testutil.StubHTTPServer{}
	srv := newServerWithDeps(config.Config{}, nil, nil, httpSrv, nil)
	srv.gracefulShutdown()

	if httpSrv.ShutdownCalls != 1 {
		t.Fatalf("expected server Shutdown to be called once, got %d", httpSrv.ShutdownCalls)
	}
}

func TestGracefulShutdownTimesOutLongRunningShutdown(t *testing.T) {
	p := &testutil.StubProber{}

	blocking := &testutil.BlockingHTTPServer{
		AddrVal:    ":0",
		HandlerVal: http.NewServeMux(),
		Unblock:    make(chan struct{}),
	}

	original := shutdownTimeout
	shutdownTimeout = 5 * time.Millisecond
	defer func() { shutdownTimeout = original }()

	srv := newServerWithDeps(config.Config{}, nil, nil, blocking, p)

	start := time.Now()
	srv.gracefulShutdown()
	elapsed := time.Since(start)

	if blocking.ShutdownCalls != 1 {
		t.Fatalf("expected server Shutdown to be called once, got %d", blocking.ShutdownCalls)
	}
	if p.StopCalls != 1 {
		t.Fatalf("expected prober Stop to be called once, got %d", p.StopCalls)
	}
	if elapsed > 200*time.Millisecond {
		t.Fatalf("shutdown took too long: %s", elapsed)
	}
}

func TestGracefulShutdownContinuesWhenProberStopErrors(t *testing.T) {
	p := &testutil.StubProber{Err: errors.New("stop failure")}
	httpSrv := &testutil.StubHTTPServer{}
	logger, buf := testutil.NewBufferLogger()

	srv := newServerWithDeps(config.Config{}, logger, nil, httpSrv, p)
	srv.gracefulShutdown()

	if p.StopCalls != 1 {
		t.Fatalf("expected prober Stop to be called once, got %d", p.StopCalls)
	}
	if httpSrv.ShutdownCalls != 1 {
		t.Fatalf("expected server Shutdown to be called once, got %d", httpSrv.ShutdownCalls)
	}
	if !strings.Contains(buf.String(), "failed to stop prober") {
		t.Fatalf("expected stop failure logged, got %q", buf.String())
	}
}

func TestServerStartHandlesListenErrorAndStops(t *testing.T) {
	httpSrv := &testutil.ErrHTTPServer{}
	srv := newServerWithDeps(config.Config{}, nil, nil, httpSrv, &testutil.StubProber{})

	var wg sync.WaitGroup
	wg.Add(1)
	stopCalled := make(chan struct{})
	stop := func() {
		close(stopCalled)
		wg.Done()
	}

	srv.startServer(stop)

	select {
	case <-stopCalled:
	case <-time.After(200 * time.Millisecond):
		t.Fatal("expected stop to be called on listen failure")
	}

	wg.Wait()
}

func TestRunCancelsAndStopsComponents(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	plr := &testutil.StubProber{}
	httpSrv := &testutil.CloseableHTTPServer{}

	srv := newServerWithDeps(config.Config{}, nil, nil, httpSrv, plr)

	done := make(chan struct{})
	go func() {
		srv.Run(ctx, cancel)
		close(done)
	}()

	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(500 * time.Millisecond):
		t.Fatal("run did not return after cancel")
	}

	if plr.StartCalls != 1 {
		t.Fatalf("expected prober Start called once, got %d", plr.StartCalls)
	}
	if plr.StopCalls != 1 {
		t.Fatalf("expected prober Stop called once, got %d", plr.StopCalls)
	}
	if httpSrv.ShutdownCalls != 1 {
		t.Fatalf("expected server Shutdown called once, got %d", httpSrv.ShutdownCalls)
	}
}

func TestResponseWriteTimeoutCoversDeadline(t *testing.T) {
	cases := map[time.Duration]time.Duration{
		0:                35 * time.Second,
		time.Second:      writeTimeout,
		30 * time.Second: 35 * time.Second,
		time.Minute:      time.Minute + writeSlack,
	}
	for deadline, want := range cases {
		if got := responseWriteTimeout(deadline); got != want {
			t.Fatalf("deadline %s: expected %s, got %s", deadline, want, got)
		}
	}
}

func TestResolveLocationWarnsOnUnknownZone(t *testing.T) {
	logger, buf := testutil.NewBufferLogger()
	if loc := resolveLocation("Mars/Olympus", logger); loc != nil {
		t.Fatalf("expected nil location for unknown zone")
	}
	if !strings.Contains(buf.String(), "unknown timezone") {
		t.Fatalf("expected warning logged, got %q", buf.String())
	}
	if loc := resolveLocation("UTC", logger); loc == nil {
		t.Fatalf("expected UTC location")
	}
}

func TestReadinessChecksStayOutOfProviderMetrics(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	provider := &teststubs.StubProvider{
		Ranks:  []games.RawGameRank{testutil.SampleRank(1, 730, 50000)},
		Notify: make(chan struct{}),
	}
	srv := newServerWithProvider(probeConfig(), nil, provider)
	srv.prober.Start(ctx)
	<-provider.Notify
	_ = srv.prober.Stop(context.Background())

	key := "teststubs.stubprovider.top_games"
	if calls := srv.metrics.ProviderCalls(key); calls != 0 {
		t.Fatalf("expected readiness calls excluded from provider metrics, got %d", calls)
	}

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/data", nil))
	testutil.AssertStatus(t, rec, http.StatusOK)
	if calls := srv.metrics.ProviderCalls(key); calls != 1 {
		t.Fatalf("expected one recorded call from the data request, got %d", calls)
	}
}

func TestDataToleratesUnexpectedReviewFieldTypes(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case strings.HasPrefix(r.URL.Path, "/ISteamChartsService/"):
			_, _ = w.Write([]byte(`{"response":{"ranks":[{"rank":1,"appid":730,"peak_in_game":50000}]}}`))
		case r.URL.Path == "/api/appdetails":
			_, _ = w.Write([]byte(`{"730":{"success":true,"data":{"name":"Counter-Strike 2"}}}`))
		case r.URL.Path == "/appreviews/730":
			_, _ = w.Write([]byte(`{"success":1,"reviews":[{"voted_up":true,"votes_up":"3"},{"voted_up":true}]}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer upstream.Close()

	cfg := config.Config{
		Provider: "steam",
		Steam:    config.SteamConfig{ChartsBaseURL: upstream.URL, StoreBaseURL: upstream.URL},
	}
	srv := New(cfg, nil)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/data", nil))
	testutil.AssertStatus(t, rec, http.StatusOK)

	var payload games.ResponsePayload
	testutil.DecodeJSON(t, rec, &payload)
	if payload.Degraded || payload.TotalGames != 1 {
		t.Fatalf("expected healthy payload, got %+v", payload)
	}
	game := payload.Games[0]
	if game.ReviewCount != 2 || game.SentimentLabel != "Overwhelmingly Positive" {
		t.Fatalf("expected both reviews counted, got %+v", game)
	}
}
