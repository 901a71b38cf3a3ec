package config

// Config holds runtime configuration for the server.
type Config struct {
	Port     string
	Provider string
	Steam    SteamConfig
	Pipeline PipelineConfig
	Probe    ProbeConfig
	Metrics  MetricsConfig
	Log      LogConfig
	// EnvFile is the dotenv file that was loaded, if any.
	EnvFile string
}

// Load reads configuration from environment variables with sensible defaults.
// A .env file in the working directory is applied first without overriding
// variables that are already set.
func Load() Config {
	envFile := loadDotEnv(dotEnvFiles...)
	return Config{
		Port:     envOrDefault(envPort, defaultPort),
		Provider: envOrDefault(envProvider, defaultProvider),
		Steam:    loadSteam(),
		Pipeline: loadPipeline(),
		Probe:    loadProbe(),
		Metrics:  loadMetrics(),
		Log:      loadLog(),
		EnvFile:  envFile,
	}
}
