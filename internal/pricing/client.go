package pricing

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Currency identifiers understood by the price API.
const (
	CurrencyEthereum = "ethereum"
	CurrencyUSD      = "usd"
)

// Config holds price oracle configuration
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// LoadConfig reads config from env with sensible defaults.
// You can override with PRICE_API_BASE_URL and PRICE_API_TIMEOUT.
func LoadConfig() Config {
	baseURL := os.Getenv("PRICE_API_BASE_URL")
	if baseURL == "" {
		baseURL = "https://api.coingecko.com/api/v3"
	}

	timeout := 10 * time.Second
	if v := os.Getenv("PRICE_API_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			timeout = d
		}
	}

	return Config{BaseURL: baseURL, Timeout: timeout}
}

// Client fetches exchange rates from the public price-quote API. A rate of
// zero means "unknown": the client never returns an error, and callers must
// not divide by the result.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a price oracle client.
func NewClient(cfg Config) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

// FetchRate returns the current base->quote exchange rate, or zero when the
// rate cannot be determined. One attempt per call, no retry; the caller
// decides when to refresh.
func (c *Client) FetchRate(ctx context.Context, base, quote string) decimal.Decimal {
	endpoint := fmt.Sprintf("%s/simple/price?ids=%s&vs_currencies=%s",
		c.baseURL, url.QueryEscape(base), url.QueryEscape(quote))

	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		log.Printf("Warning: failed to create price request: %v", err)
		return decimal.Zero
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Printf("Warning: price fetch failed for %s/%s: %v", base, quote, err)
		return decimal.Zero
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("Warning: price API returned status %d for %s/%s", resp.StatusCode, base, quote)
		return decimal.Zero
	}

	// Response shape: {"<base>":{"<quote>":<number>}}
	var body map[string]map[string]json.Number
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		log.Printf("Warning: failed to decode price response: %v", err)
		return decimal.Zero
	}

	raw, ok := body[base][quote]
	if !ok {
		log.Printf("Warning: price response missing %s.%s field", base, quote)
		return decimal.Zero
	}

	rate, err := decimal.NewFromString(raw.String())
	if err != nil {
		log.Printf("Warning: price response has non-numeric rate %q: %v", raw.String(), err)
		return decimal.Zero
	}
	return rate
}
