package server

import (
	"fmt"
	"strings"

	"steam-trends-service/internal/providers"
	"steam-trends-service/internal/providers/fixture"
	"steam-trends-service/internal/providers/steam"
)

// providerName is the metric and log prefix for a provider, e.g. "steam" in
// "steam.top_games". Unknown implementations fall back to their type name.
func providerName(provider providers.StoreProvider) string {
	switch provider.(type) {
	case nil:
		return "provider"
	case *steam.Client:
		return steam.ProviderName
	case *fixture.Provider:
		return fixture.ProviderName
	default:
		return strings.TrimPrefix(strings.ToLower(fmt.Sprintf("%T", provider)), "*")
	}
}
