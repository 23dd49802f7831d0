// Package api talks to the stock summary backend.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pders01/screener/internal/config"
	"github.com/pders01/screener/internal/debuglog"
	"github.com/pders01/screener/internal/filter"
)

const (
	autocompletePath = "/api/v1/search/auto-complete"
	searchPath       = "/api/v1/ticker-summary/list"
	detailsPath      = "/api/v1/stock-details/summary/"

	defaultTimeout = 15 * time.Second
)

var ErrEmptySymbol = errors.New("empty symbol")

// StatusError reports a non-2xx response.
type StatusError struct {
	StatusCode int
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP error: %d (%s)", e.StatusCode, e.URL)
}

// Client issues raw requests. It does no caching and returns every error.
type Client struct {
	baseURL   string
	userAgent string
	client    *http.Client
}

func NewClient(cfg *config.Config) *Client {
	timeout := cfg.API.HTTPTimeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL:   strings.TrimRight(cfg.API.BaseURL, "/"),
		userAgent: cfg.API.UserAgent,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

func (c *Client) BaseURL() string { return c.baseURL }

func (c *Client) FetchAutocomplete(ctx context.Context, query string) ([]Suggestion, error) {
	var resp autocompleteResponse
	if err := c.getJSON(ctx, autocompletePath, url.Values{"query": {query}}, &resp); err != nil {
		return nil, err
	}
	if resp.Results == nil {
		return []Suggestion{}, nil
	}
	return resp.Results, nil
}

func (c *Client) FetchSearch(ctx context.Context, query string, opts filter.Options) (SearchPage, error) {
	var page SearchPage
	if err := c.getJSON(ctx, searchPath, filter.Encode(query, opts), &page); err != nil {
		return SearchPage{}, err
	}
	return page, nil
}

func (c *Client) FetchStockDetails(ctx context.Context, symbol string) (*StockDetails, error) {
	symbol = strings.TrimSpace(symbol)
	if symbol == "" {
		return nil, ErrEmptySymbol
	}
	var details StockDetails
	if err := c.getJSON(ctx, detailsPath+url.PathEscape(symbol), nil, &details); err != nil {
		return nil, err
	}
	return &details, nil
}

func (c *Client) getJSON(ctx context.Context, path string, params url.Values, out any) error {
	target := c.baseURL + path
	if len(params) > 0 {
		target += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	log := debuglog.WithFields(map[string]interface{}{"request_id": requestID, "url": target})
	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("fetching %s: %w", path, err)
	}
	defer resp.Body.Close()
	log.Debugf("HTTP %d in %s", resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{StatusCode: resp.StatusCode, URL: target}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s: %w", path, err)
	}
	return nil
}
