package coingecko

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/rovelin/investment-tracker/internal/domain"
)

const (
	defaultBaseURL  = "https://api.coingecko.com/api/v3"
	simplePricePath = "/simple/price"
)

// Client resolves current crypto prices from the CoinGecko simple price API.
// Prices are requested in USD; lookups are keyed by the token's canonical
// CoinGecko id (e.g. "bitcoin"), not its ticker symbol.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a CoinGecko client. The API key is optional; the free
// tier works without one.
func NewClient(apiKey string) *Client {
	return &Client{
		baseURL: defaultBaseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// NewClientWithHTTPClient creates a client with a custom HTTP client (for testing).
func NewClientWithHTTPClient(apiKey string, httpClient *http.Client) *Client {
	return &Client{
		baseURL:    defaultBaseURL,
		apiKey:     apiKey,
		httpClient: httpClient,
	}
}

// SetBaseURL overrides the API base URL (useful for testing).
func (c *Client) SetBaseURL(baseURL string) {
	c.baseURL = baseURL
}

// CryptoPrice returns the current USD price for the given token id.
func (c *Client) CryptoPrice(ctx context.Context, tokenID string) (domain.Decimal, error) {
	params := url.Values{}
	params.Add("ids", tokenID)
	params.Add("vs_currencies", "usd")

	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, simplePricePath, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return domain.Zero, fmt.Errorf("failed to create request: %w", err)
	}
	if c.apiKey != "" {
		req.Header.Set("x-cg-demo-api-key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.Zero, fmt.Errorf("failed to execute request: %w", err)
	}

	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			slog.Warn("failed to close response body", "error", closeErr, "url", reqURL)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return domain.Zero, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
	}

	// Response shape: {"bitcoin": {"usd": 67000.12}}. json.Number keeps the
	// quoted digits intact for exact decimal parsing.
	var priceResp map[string]map[string]json.Number
	if err := json.NewDecoder(resp.Body).Decode(&priceResp); err != nil {
		return domain.Zero, fmt.Errorf("failed to decode response: %w", err)
	}

	quotes, ok := priceResp[tokenID]
	if !ok {
		return domain.Zero, fmt.Errorf("no price data found for token: %s", tokenID)
	}
	raw, ok := quotes["usd"]
	if !ok {
		return domain.Zero, fmt.Errorf("no USD quote for token: %s", tokenID)
	}

	price, err := domain.NewDecimalFromString(raw.String())
	if err != nil {
		return domain.Zero, fmt.Errorf("failed to parse price: %w", err)
	}
	if !price.IsPositive() {
		return domain.Zero, fmt.Errorf("invalid price %s for token: %s", price, tokenID)
	}

	return price, nil
}
