package config

import "time"

const (
	envPort              = "PORT"
	envProvider          = "PROVIDER"
	envSteamChartsURL    = "STEAM_CHARTS_BASE_URL"
	envSteamStoreURL     = "STEAM_STORE_BASE_URL"
	envSteamTimeout      = "STEAM_HTTP_TIMEOUT"
	envSteamPerPage      = "STEAM_REVIEWS_PER_PAGE"
	envSteamLanguage     = "STEAM_REVIEW_LANGUAGE"
	envTopN              = "TOP_N"
	envFetchConcurrency  = "FETCH_CONCURRENCY"
	envAggregateDeadline = "AGGREGATE_DEADLINE"
	envTimezone          = "DASHBOARD_TIMEZONE"
	envProbeEnabled      = "PROBE_ENABLED"
	envProbeInterval     = "PROBE_INTERVAL"
	envProbeBackoff      = "PROBE_INITIAL_BACKOFF"
	envMetricsPort       = "METRICS_PORT"
	envMetricsOn         = "METRICS_ENABLED"
	envOtelEndpoint      = "OTEL_EXPORTER_OTLP_ENDPOINT"
	envOtelService       = "OTEL_SERVICE_NAME"
	envOtelInsecure      = "OTEL_EXPORTER_OTLP_INSECURE"
	envLogLevel          = "LOG_LEVEL"
	envLogFormat         = "LOG_FORMAT"

	defaultPort              = "5000"
	defaultProvider          = "steam"
	defaultSteamChartsURL    = "https://api.steampowered.com"
	defaultSteamStoreURL     = "https://store.steampowered.com"
	defaultSteamTimeout      = 10 * Duration(time.Second)
	defaultSteamPerPage      = 20
	defaultSteamLanguage     = "english"
	defaultTopN              = 10
	defaultFetchConcurrency  = 4
	defaultAggregateDeadline = 30 * Duration(time.Second)
	defaultProbeEnabled      = true
	defaultProbeInterval     = 5 * Duration(time.Minute)
	defaultProbeBackoff      = 5 * Duration(time.Second)
	defaultMetricsPort       = "9090"
	defaultServiceName       = "steam-trends-service"
	defaultLogLevel          = "info"
	defaultLogFormat         = "text"
)
