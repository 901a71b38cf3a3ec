package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != defaultPort {
		t.Fatalf("expected default port %s, got %s", defaultPort, cfg.Port)
	}
	if cfg.Provider != defaultProvider {
		t.Fatalf("expected default provider %s, got %s", defaultProvider, cfg.Provider)
	}
	if cfg.Steam.ChartsBaseURL != defaultSteamChartsURL || cfg.Steam.StoreBaseURL != defaultSteamStoreURL {
		t.Fatalf("unexpected steam urls %+v", cfg.Steam)
	}
	if cfg.Steam.Timeout != 10*time.Second || cfg.Steam.ReviewsPerPage != 20 || cfg.Steam.Language != "english" {
		t.Fatalf("unexpected steam defaults %+v", cfg.Steam)
	}
	if cfg.Pipeline.TopN != 10 || cfg.Pipeline.Concurrency != 4 || cfg.Pipeline.Deadline != 30*time.Second {
		t.Fatalf("unexpected pipeline defaults %+v", cfg.Pipeline)
	}
	if !cfg.Probe.Enabled || cfg.Probe.Interval != 5*time.Minute {
		t.Fatalf("unexpected probe defaults %+v", cfg.Probe)
	}
	if cfg.Metrics.ServiceName != defaultServiceName || cfg.Metrics.Port != defaultMetricsPort {
		t.Fatalf("unexpected metrics defaults %+v", cfg.Metrics)
	}
	if cfg.Log.Level != "info" || cfg.Log.Format != "text" {
		t.Fatalf("unexpected log defaults %+v", cfg.Log)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv(envPort, "8080")
	t.Setenv(envProvider, "fixture")
	t.Setenv(envSteamChartsURL, "http://charts.local")
	t.Setenv(envSteamStoreURL, "http://store.local")
	t.Setenv(envSteamTimeout, "3s")
	t.Setenv(envSteamPerPage, "50")
	t.Setenv(envSteamLanguage, "german")
	t.Setenv(envTopN, "5")
	t.Setenv(envFetchConcurrency, "2")
	t.Setenv(envAggregateDeadline, "12s")
	t.Setenv(envTimezone, "Europe/Berlin")
	t.Setenv(envProbeEnabled, "false")
	t.Setenv(envProbeInterval, "1m")
	t.Setenv(envLogLevel, "debug")
	t.Setenv(envLogFormat, "json")

	cfg := Load()

	if cfg.Port != "8080" || cfg.Provider != "fixture" {
		t.Fatalf("unexpected port/provider %s/%s", cfg.Port, cfg.Provider)
	}
	if cfg.Steam.ChartsBaseURL != "http://charts.local" || cfg.Steam.StoreBaseURL != "http://store.local" {
		t.Fatalf("unexpected steam urls %+v", cfg.Steam)
	}
	if cfg.Steam.Timeout != 3*time.Second || cfg.Steam.ReviewsPerPage != 50 || cfg.Steam.Language != "german" {
		t.Fatalf("unexpected steam overrides %+v", cfg.Steam)
	}
	if cfg.Pipeline.TopN != 5 || cfg.Pipeline.Concurrency != 2 || cfg.Pipeline.Deadline != 12*time.Second {
		t.Fatalf("unexpected pipeline overrides %+v", cfg.Pipeline)
	}
	if cfg.Pipeline.Timezone != "Europe/Berlin" {
		t.Fatalf("unexpected timezone %s", cfg.Pipeline.Timezone)
	}
	if cfg.Probe.Enabled || cfg.Probe.Interval != time.Minute {
		t.Fatalf("unexpected probe overrides %+v", cfg.Probe)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Fatalf("unexpected log overrides %+v", cfg.Log)
	}
}

func TestLoadInvalidDurationFallsBack(t *testing.T) {
	t.Setenv(envProbeInterval, "not-a-duration")
	t.Setenv(envAggregateDeadline, "0s")

	cfg := Load()

	if cfg.Probe.Interval != defaultProbeInterval {
		t.Fatalf("expected default probe interval on invalid value, got %s", cfg.Probe.Interval)
	}
	if cfg.Pipeline.Deadline != defaultAggregateDeadline {
		t.Fatalf("expected default deadline on non-positive value, got %s", cfg.Pipeline.Deadline)
	}
}

func TestLoadInvalidIntFallsBack(t *testing.T) {
	t.Setenv(envTopN, "-3")
	t.Setenv(envFetchConcurrency, "many")

	cfg := Load()

	if cfg.Pipeline.TopN != defaultTopN || cfg.Pipeline.Concurrency != defaultFetchConcurrency {
		t.Fatalf("expected defaults on invalid ints, got %+v", cfg.Pipeline)
	}
}

func TestLoadDotEnvDoesNotOverrideEnvironment(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := "STEAM_TRENDS_DOTENV_A=from-file\nSTEAM_TRENDS_DOTENV_B=from-file\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Setenv("STEAM_TRENDS_DOTENV_B", "from-env")
	t.Cleanup(func() { _ = os.Unsetenv("STEAM_TRENDS_DOTENV_A") })

	if got := loadDotEnv(filepath.Join(dir, "missing.env"), path); got != path {
		t.Fatalf("expected %s to be loaded, got %q", path, got)
	}
	if got := os.Getenv("STEAM_TRENDS_DOTENV_A"); got != "from-file" {
		t.Fatalf("expected value from file, got %q", got)
	}
	if got := os.Getenv("STEAM_TRENDS_DOTENV_B"); got != "from-env" {
		t.Fatalf("expected environment to win, got %q", got)
	}
}

func TestLoadDotEnvMissingFiles(t *testing.T) {
	if got := loadDotEnv(filepath.Join(t.TempDir(), "nope.env")); got != "" {
		t.Fatalf("expected no file loaded, got %q", got)
	}
}
