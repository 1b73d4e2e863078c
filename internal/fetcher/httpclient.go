package fetcher

import (
	"time"

	"resty.dev/v3"
)

// DefaultUserAgent is sent to providers that reject requests without a
// browser-like agent.
const DefaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"

// ClientOptions tunes the HTTP client shared by providers.
type ClientOptions struct {
	// Timeout bounds a single request. Zero leaves requests unbounded.
	Timeout time.Duration

	// UserAgent overrides DefaultUserAgent when set.
	UserAgent string
}

// NewHTTPClient creates a JSON HTTP client for a provider.
// Retries are disabled: a failed ticker is skipped, never re-requested.
func NewHTTPClient(baseURL string, opts ClientOptions) *resty.Client {
	ua := opts.UserAgent
	if ua == "" {
		ua = DefaultUserAgent
	}

	client := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", ua).
		SetRetryCount(0)

	if opts.Timeout > 0 {
		client.SetTimeout(opts.Timeout)
	}

	return client
}
