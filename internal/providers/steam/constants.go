package steam

import "time"

// ProviderName identifies this provider in logs and metrics.
const ProviderName = "steam"

const (
	defaultChartsBaseURL  = "https://api.steampowered.com"
	defaultStoreBaseURL   = "https://store.steampowered.com"
	defaultHTTPTimeout    = 10 * time.Second
	defaultReviewsPerPage = 20
	defaultLanguage       = "english"

	topGamesPath   = "/ISteamChartsService/GetMostPlayedGames/v1/"
	appDetailsPath = "/api/appdetails"
	appReviewsPath = "/appreviews/"

	errorBodyLimit = 512
)
