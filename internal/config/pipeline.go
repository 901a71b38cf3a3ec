package config

import "time"

// PipelineConfig bounds a single dashboard build.
type PipelineConfig struct {
	TopN        int
	Concurrency int
	Deadline    time.Duration
	// Timezone is an IANA zone name for payload timestamps; empty means local time.
	Timezone string
}

func loadPipeline() PipelineConfig {
	return PipelineConfig{
		TopN:        intEnvOrDefault(envTopN, defaultTopN),
		Concurrency: intEnvOrDefault(envFetchConcurrency, defaultFetchConcurrency),
		Deadline:    durationEnvOrDefault(envAggregateDeadline, defaultAggregateDeadline),
		Timezone:    envOrDefault(envTimezone, ""),
	}
}

// ProbeConfig controls the background upstream probe.
type ProbeConfig struct {
	Enabled        bool
	Interval       time.Duration
	InitialBackoff time.Duration
}

func loadProbe() ProbeConfig {
	return ProbeConfig{
		Enabled:        boolEnvOrDefault(envProbeEnabled, defaultProbeEnabled),
		Interval:       durationEnvOrDefault(envProbeInterval, defaultProbeInterval),
		InitialBackoff: durationEnvOrDefault(envProbeBackoff, defaultProbeBackoff),
	}
}

// LogConfig selects the log level and handler format.
type LogConfig struct {
	Level  string
	Format string
}

func loadLog() LogConfig {
	return LogConfig{
		Level:  envOrDefault(envLogLevel, defaultLogLevel),
		Format: envOrDefault(envLogFormat, defaultLogFormat),
	}
}
