package config

import "time"

// SteamConfig controls how we talk to the Steam charts and store APIs.
type SteamConfig struct {
	ChartsBaseURL  string
	StoreBaseURL   string
	Timeout        time.Duration
	ReviewsPerPage int
	Language       string
}

func loadSteam() SteamConfig {
	return SteamConfig{
		ChartsBaseURL:  envOrDefault(envSteamChartsURL, defaultSteamChartsURL),
		StoreBaseURL:   envOrDefault(envSteamStoreURL, defaultSteamStoreURL),
		Timeout:        durationEnvOrDefault(envSteamTimeout, defaultSteamTimeout),
		ReviewsPerPage: intEnvOrDefault(envSteamPerPage, defaultSteamPerPage),
		Language:       envOrDefault(envSteamLanguage, defaultSteamLanguage),
	}
}
