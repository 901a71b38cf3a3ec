package steam

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"steam-trends-service/internal/domain/games"
	"steam-trends-service/internal/domain/reviews"
	"steam-trends-service/internal/providers"
)

// Config controls how the Steam client reaches the charts and store APIs.
type Config struct {
	ChartsBaseURL  string
	StoreBaseURL   string
	HTTPClient     *http.Client
	Timeout        time.Duration
	ReviewsPerPage int
	Language       string
}

// Client fetches most-played charts, store details and reviews from Steam.
// Each method issues exactly one request.
type Client struct {
	chartsBaseURL  string
	storeBaseURL   string
	httpClient     httpDoer
	reviewsPerPage int
	language       string
}

var _ providers.StoreProvider = (*Client)(nil)

// NewClient constructs a Steam client with the provided configuration.
func NewClient(cfg Config) *Client {
	return &Client{
		chartsBaseURL:  normalizeBaseURL(cfg.ChartsBaseURL, defaultChartsBaseURL),
		storeBaseURL:   normalizeBaseURL(cfg.StoreBaseURL, defaultStoreBaseURL),
		httpClient:     resolveHTTPClient(cfg.HTTPClient, cfg.Timeout),
		reviewsPerPage: resolvePerPage(cfg.ReviewsPerPage),
		language:       resolveLanguage(cfg.Language),
	}
}

// FetchTopGames returns up to limit chart entries in upstream rank order.
func (c *Client) FetchTopGames(ctx context.Context, limit int) ([]games.RawGameRank, error) {
	var payload topGamesResponse
	if err := c.getJSON(ctx, providers.EndpointTopGames, c.chartsBaseURL+topGamesPath, nil, &payload); err != nil {
		return nil, err
	}
	if payload.Response == nil || payload.Response.Ranks == nil {
		return nil, shapeError(providers.EndpointTopGames, "missing response.ranks", nil)
	}
	ranks := *payload.Response.Ranks
	if limit >= 0 && len(ranks) > limit {
		ranks = ranks[:limit]
	}
	return mapRanks(ranks), nil
}

// FetchGameDetails returns the store details for appID, or nil when the store
// has no successful entry for it.
func (c *Client) FetchGameDetails(ctx context.Context, appID int) (*games.GameDetails, error) {
	query := url.Values{}
	query.Set("appids", strconv.Itoa(appID))

	var payload map[string]appDetailsEntry
	if err := c.getJSON(ctx, providers.EndpointDetails, c.storeBaseURL+appDetailsPath, query, &payload); err != nil {
		return nil, err
	}
	entry, ok := payload[strconv.Itoa(appID)]
	if !ok || !entry.Success {
		return nil, nil
	}
	if len(entry.Data) == 0 || string(entry.Data) == "null" {
		return nil, nil
	}
	details, err := mapDetails(entry.Data)
	if err != nil {
		return nil, shapeError(providers.EndpointDetails, "decode data", err)
	}
	return details, nil
}

// FetchGameReviews returns the most recent page of reviews for appID. A
// response without a reviews list yields no reviews.
func (c *Client) FetchGameReviews(ctx context.Context, appID int) ([]reviews.Review, error) {
	query := url.Values{}
	query.Set("json", "1")
	query.Set("language", c.language)
	query.Set("num_per_page", strconv.Itoa(c.reviewsPerPage))
	query.Set("purchase_type", "all")

	var payload reviewsResponse
	endpoint := c.storeBaseURL + appReviewsPath + strconv.Itoa(appID)
	if err := c.getJSON(ctx, providers.EndpointReviews, endpoint, query, &payload); err != nil {
		return nil, err
	}
	if payload.Reviews == nil {
		return nil, nil
	}
	return *payload.Reviews, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint, rawURL string, query url.Values, dest any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return &providers.UpstreamError{Provider: ProviderName, Endpoint: endpoint, Err: err}
	}
	if len(query) > 0 {
		req.URL.RawQuery = query.Encode()
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &providers.UpstreamError{Provider: ProviderName, Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return rateLimitError(resp)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyLimit))
		var cause error
		if msg := strings.TrimSpace(string(body)); msg != "" {
			cause = errors.New(msg)
		}
		return &providers.UpstreamError{Provider: ProviderName, Endpoint: endpoint, StatusCode: resp.StatusCode, Err: cause}
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return &providers.UpstreamError{Provider: ProviderName, Endpoint: endpoint, Err: ctxErr}
		}
		return shapeError(endpoint, "decode body", err)
	}
	return nil
}

func rateLimitError(resp *http.Response) error {
	return &providers.RateLimitError{
		Provider:   ProviderName,
		StatusCode: resp.StatusCode,
		RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
		Message:    "steam rate limited",
	}
}

func parseRetryAfter(v string) time.Duration {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return 0
}

func shapeError(endpoint, reason string, err error) error {
	return &providers.ShapeError{
		Provider: ProviderName,
		Endpoint: endpoint,
		Reason:   reason,
		Err:      err,
	}
}
