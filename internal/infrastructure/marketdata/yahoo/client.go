package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/rovelin/investment-tracker/internal/domain"
)

const (
	defaultBaseURL = "https://query2.finance.yahoo.com"
	chartPath      = "/v8/finance/chart"
	userAgent      = "investment-tracker/1.0"
)

// Client resolves equity quotes and spot FX rates from the Yahoo Finance
// chart API. Both kinds of lookup go through the same endpoint: equities by
// ticker, currency pairs as synthetic "FROMTO=X" symbols.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient() *Client {
	return &Client{
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// NewClientWithHTTPClient creates a client with a custom HTTP client (for testing).
func NewClientWithHTTPClient(httpClient *http.Client) *Client {
	return &Client{
		baseURL:    defaultBaseURL,
		httpClient: httpClient,
	}
}

// SetBaseURL overrides the API base URL (useful for testing).
func (c *Client) SetBaseURL(baseURL string) {
	c.baseURL = baseURL
}

// chartResponse is the subset of the Yahoo chart payload we consume.
// json.Number keeps the quoted digits intact for exact decimal parsing.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				RegularMarketPrice json.Number `json:"regularMarketPrice"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []json.Number `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error interface{} `json:"error"`
	} `json:"chart"`
}

// EquityPrice returns the current USD price for a ticker symbol.
func (c *Client) EquityPrice(ctx context.Context, symbol string) (domain.Decimal, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return domain.Zero, fmt.Errorf("empty symbol")
	}
	return c.chartPrice(ctx, symbol, "1m")
}

// Rate returns how many units of 'to' one unit of 'from' buys, using the
// FROMTO=X synthetic pair symbol.
func (c *Client) Rate(ctx context.Context, from, to string) (domain.Decimal, error) {
	from = strings.ToUpper(strings.TrimSpace(from))
	to = strings.ToUpper(strings.TrimSpace(to))
	if from == "" || to == "" {
		return domain.Zero, fmt.Errorf("invalid currency pair %q/%q", from, to)
	}
	if from == to {
		return domain.NewDecimalFromInt(1), nil
	}
	return c.chartPrice(ctx, from+to+"=X", "1h")
}

func (c *Client) chartPrice(ctx context.Context, symbol, interval string) (domain.Decimal, error) {
	reqURL := fmt.Sprintf("%s%s/%s?interval=%s&range=1d", c.baseURL, chartPath, symbol, interval)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return domain.Zero, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

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

	var chartResp chartResponse
	if err := json.NewDecoder(resp.Body).Decode(&chartResp); err != nil {
		return domain.Zero, fmt.Errorf("failed to decode response: %w", err)
	}

	if len(chartResp.Chart.Result) == 0 {
		return domain.Zero, fmt.Errorf("no chart data found for symbol: %s", symbol)
	}

	result := chartResp.Chart.Result[0]
	price, err := parsePositive(result.Meta.RegularMarketPrice)

	// Fallback: last non-zero close when the meta price is missing.
	if err != nil && len(result.Indicators.Quote) > 0 {
		closes := result.Indicators.Quote[0].Close
		for i := len(closes) - 1; i >= 0; i-- {
			if p, perr := parsePositive(closes[i]); perr == nil {
				price, err = p, nil
				break
			}
		}
	}

	if err != nil {
		return domain.Zero, fmt.Errorf("no usable price for symbol %s: %w", symbol, err)
	}
	return price, nil
}

func parsePositive(raw json.Number) (domain.Decimal, error) {
	if raw == "" {
		return domain.Zero, fmt.Errorf("missing value")
	}
	d, err := domain.NewDecimalFromString(raw.String())
	if err != nil {
		return domain.Zero, err
	}
	if !d.IsPositive() {
		return domain.Zero, fmt.Errorf("non-positive value %s", d)
	}
	return d, nil
}
