// Package marketdata talks to the external market data collaborator. Every
// fetch can fail independently; callers treat a failed fetch as the asset
// being unavailable for the run, never as a zero-valued series.
package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/quantdesk/advisor/internal/domain"
)

// Source is the read interface the engines consume. Implemented by Client
// and by test fakes.
type Source interface {
	ListAssets(ctx context.Context, assetType domain.AssetType) ([]Asset, error)
	GetBars(ctx context.Context, code string, days int) ([]Bar, error)
	GetFundamentals(ctx context.Context, code string) (*Fundamentals, error)
	GetNAVHistory(ctx context.Context, code string) ([]NAVPoint, error)
	GetHoldings(ctx context.Context, code string) ([]Holding, error)
	GetManager(ctx context.Context, code string) (*Manager, error)
	GetBenchmark(ctx context.Context, code string) (*FundBenchmark, error)
}

// Client is an HTTP market data client
type Client struct {
	baseURL string
	client  *http.Client
	log     zerolog.Logger
}

// NewClient creates a new market data client
func NewClient(baseURL string, timeout time.Duration, log zerolog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: timeout,
		},
		log: log.With().Str("client", "marketdata").Logger(),
	}
}

// ListAssets returns the candidate universe for one asset type.
func (c *Client) ListAssets(ctx context.Context, assetType domain.AssetType) ([]Asset, error) {
	var assets []Asset
	endpoint := fmt.Sprintf("/api/assets?type=%s", url.QueryEscape(string(assetType)))
	if err := c.getJSON(ctx, endpoint, &assets); err != nil {
		return nil, fmt.Errorf("list %s assets: %w", assetType, err)
	}
	return assets, nil
}

// GetBars returns up to days daily bars for a stock, oldest first.
func (c *Client) GetBars(ctx context.Context, code string, days int) ([]Bar, error) {
	var bars []Bar
	endpoint := fmt.Sprintf("/api/stocks/%s/bars?days=%d", url.PathEscape(code), days)
	if err := c.getJSON(ctx, endpoint, &bars); err != nil {
		return nil, fmt.Errorf("bars for %s: %w", code, err)
	}
	return bars, nil
}

// GetFundamentals returns the latest fundamental snapshot for a stock.
func (c *Client) GetFundamentals(ctx context.Context, code string) (*Fundamentals, error) {
	var f Fundamentals
	endpoint := fmt.Sprintf("/api/stocks/%s/fundamentals", url.PathEscape(code))
	if err := c.getJSON(ctx, endpoint, &f); err != nil {
		return nil, fmt.Errorf("fundamentals for %s: %w", code, err)
	}
	return &f, nil
}

// GetNAVHistory returns the full NAV history for a fund, oldest first.
func (c *Client) GetNAVHistory(ctx context.Context, code string) ([]NAVPoint, error) {
	var navs []NAVPoint
	endpoint := fmt.Sprintf("/api/funds/%s/nav", url.PathEscape(code))
	if err := c.getJSON(ctx, endpoint, &navs); err != nil {
		return nil, fmt.Errorf("nav history for %s: %w", code, err)
	}
	return navs, nil
}

// GetHoldings returns the fund's disclosed top holdings.
func (c *Client) GetHoldings(ctx context.Context, code string) ([]Holding, error) {
	var holdings []Holding
	endpoint := fmt.Sprintf("/api/funds/%s/holdings", url.PathEscape(code))
	if err := c.getJSON(ctx, endpoint, &holdings); err != nil {
		return nil, fmt.Errorf("holdings for %s: %w", code, err)
	}
	return holdings, nil
}

// GetManager returns the fund's current manager record.
func (c *Client) GetManager(ctx context.Context, code string) (*Manager, error) {
	var m Manager
	endpoint := fmt.Sprintf("/api/funds/%s/manager", url.PathEscape(code))
	if err := c.getJSON(ctx, endpoint, &m); err != nil {
		return nil, fmt.Errorf("manager for %s: %w", code, err)
	}
	return &m, nil
}

// GetBenchmark returns benchmark daily returns for a fund.
func (c *Client) GetBenchmark(ctx context.Context, code string) (*FundBenchmark, error) {
	var b FundBenchmark
	endpoint := fmt.Sprintf("/api/funds/%s/benchmark", url.PathEscape(code))
	if err := c.getJSON(ctx, endpoint, &b); err != nil {
		return nil, fmt.Errorf("benchmark for %s: %w", code, err)
	}
	return &b, nil
}

// getJSON performs a GET request and decodes the JSON response
func (c *Client) getJSON(ctx context.Context, endpoint string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.log.Warn().
			Int("status", resp.StatusCode).
			Str("endpoint", endpoint).
			Msg("Market data request failed")
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}
