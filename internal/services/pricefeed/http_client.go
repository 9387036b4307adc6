package pricefeed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// HTTPClient fetches BRL ticker prices from an upstream market data
// endpoint. The endpoint is expected to answer
// GET {baseURL}/ticker?symbol=<feedSymbol> with {"symbol": ..., "price": ...}.
type HTTPClient struct {
	baseURL string
	http    *http.Client
}

func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &HTTPClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

type tickerResponse struct {
	Symbol string  `json:"symbol"`
	Price  float64 `json:"price"`
}

func (c *HTTPClient) FetchPrice(ctx context.Context, feedSymbol string) (float64, error) {
	u := fmt.Sprintf("%s/ticker?symbol=%s", c.baseURL, url.QueryEscape(feedSymbol))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to build ticker request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("ticker request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("ticker request for %s returned %d", feedSymbol, resp.StatusCode)
	}

	var ticker tickerResponse
	if err := json.NewDecoder(resp.Body).Decode(&ticker); err != nil {
		return 0, fmt.Errorf("failed to decode ticker response: %w", err)
	}
	if ticker.Price <= 0 {
		return 0, fmt.Errorf("ticker for %s has non-positive price %v", feedSymbol, ticker.Price)
	}
	return ticker.Price, nil
}
