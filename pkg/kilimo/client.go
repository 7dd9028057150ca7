package kilimo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	// BaseURL is the Kilimo statistics API base URL.
	BaseURL = "https://statistics.kilimo.go.ke/api/v1"
)

// StatusError is returned when the API answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Endpoint   string
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("kilimo %s: unexpected status %d", e.Endpoint, e.StatusCode)
}

// Temporary reports whether retrying the request may succeed.
func (e *StatusError) Temporary() bool {
	return e.StatusCode >= 500 || e.StatusCode == http.StatusTooManyRequests
}

// Client is a minimal HTTP client for the Kilimo statistics API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	debug      bool
}

// NewClient constructs a client for baseURL; an empty baseURL uses BaseURL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = BaseURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		debug:      os.Getenv("ENV") == "development",
	}
}

// GetMarketPrices fetches one page of market prices.
func (c *Client) GetMarketPrices(ctx context.Context, q PriceQuery) (*MarketPricesResponse, error) {
	params := url.Values{}
	setIf(params, "product", q.Product)
	setIf(params, "market", q.Market)
	setIf(params, "county", q.County)
	if q.Page > 0 {
		params.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}
	var resp MarketPricesResponse
	if err := c.get(ctx, "/market-prices", params, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetCommodities fetches the commodity names available for filtering.
func (c *Client) GetCommodities(ctx context.Context) ([]string, error) {
	var resp NamesResponse
	if err := c.get(ctx, "/commodities", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// GetMarkets fetches the market names available for filtering.
func (c *Client) GetMarkets(ctx context.Context) ([]string, error) {
	var resp NamesResponse
	if err := c.get(ctx, "/markets", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// GetMarketHighlights fetches the dashboard subset of market prices.
func (c *Client) GetMarketHighlights(ctx context.Context) ([]MarketPrice, error) {
	var resp HighlightsResponse
	if err := c.get(ctx, "/market-highlights", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// GetTopSelling fetches the ranked commodities for a county.
func (c *Client) GetTopSelling(ctx context.Context, county string) ([]TopSelling, error) {
	params := url.Values{}
	params.Set("county", county)
	var resp TopSellingResponse
	if err := c.get(ctx, "/top-selling", params, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// get performs a GET against the API and decodes the JSON body into result.
func (c *Client) get(ctx context.Context, endpoint string, params url.Values, result any) error {
	target := c.baseURL + endpoint
	if len(params) > 0 {
		target += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if c.debug {
		log.Debug().
			Str("endpoint", target).
			Int("status_code", resp.StatusCode).
			Int("bytes", len(body)).
			Msg("[KILIMO] Incoming response")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{StatusCode: resp.StatusCode, Endpoint: endpoint, Body: truncate(string(body), 256)}
	}

	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func setIf(v url.Values, key, value string) {
	if value != "" {
		v.Set(key, value)
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
