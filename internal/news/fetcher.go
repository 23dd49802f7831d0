package news

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pders01/screener/internal/config"
)

const defaultTimeout = 10 * time.Second

var ErrDisabled = errors.New("news disabled")

type Fetcher struct {
	client    *http.Client
	userAgent string
	template  string
	maxItems  int
	enabled   bool
	parser    *Parser
}

func NewFetcher(cfg *config.Config) *Fetcher {
	timeout := cfg.News.HTTPTimeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Fetcher{
		client: &http.Client{
			Timeout: timeout,
		},
		userAgent: cfg.API.UserAgent,
		template:  cfg.News.FeedURLTemplate,
		maxItems:  cfg.News.MaxItems,
		enabled:   cfg.News.Enabled && cfg.News.FeedURLTemplate != "",
		parser:    NewParser(),
	}
}

func (f *Fetcher) Enabled() bool { return f.enabled }

// FeedURL expands the configured template for a ticker.
func (f *Fetcher) FeedURL(ticker string) string {
	return fmt.Sprintf(f.template, url.QueryEscape(strings.ToUpper(strings.TrimSpace(ticker))))
}

// Headlines returns at most MaxItems recent headlines for the ticker.
func (f *Fetcher) Headlines(ctx context.Context, ticker string) ([]Headline, error) {
	if !f.enabled {
		return nil, ErrDisabled
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.FeedURL(ticker), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}
	req.Header.Set("Accept", "application/rss+xml, application/atom+xml, application/xml, text/xml")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("HTTP error: %d", resp.StatusCode)
	}

	headlines, err := f.parser.Parse(resp.Body)
	if err != nil {
		return nil, err
	}
	if f.maxItems > 0 && len(headlines) > f.maxItems {
		headlines = headlines[:f.maxItems]
	}
	return headlines, nil
}
