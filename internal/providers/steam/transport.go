package steam

import (
	"net/http"
	"strings"
	"time"
)

type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

func resolveHTTPClient(client *http.Client, timeout time.Duration) httpDoer {
	if client != nil {
		return client
	}
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}
	return &http.Client{Timeout: timeout}
}

func normalizeBaseURL(raw, fallback string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		raw = fallback
	}
	return strings.TrimSuffix(raw, "/")
}

func resolvePerPage(n int) int {
	if n <= 0 {
		return defaultReviewsPerPage
	}
	return n
}

func resolveLanguage(lang string) string {
	lang = strings.TrimSpace(lang)
	if lang == "" {
		return defaultLanguage
	}
	return lang
}
