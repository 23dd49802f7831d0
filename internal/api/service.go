package api

import (
	"context"
	"errors"
	"strings"

	"github.com/pders01/screener/internal/cache"
	"github.com/pders01/screener/internal/config"
	"github.com/pders01/screener/internal/debuglog"
	"github.com/pders01/screener/internal/filter"
)

const fallbackLimit = 10

// Suggester serves autocomplete suggestions from somewhere other than the
// backend.
type Suggester interface {
	Suggest(ctx context.Context, query string, limit int) ([]Suggestion, error)
}

type SuggesterFunc func(ctx context.Context, query string, limit int) ([]Suggestion, error)

func (f SuggesterFunc) Suggest(ctx context.Context, query string, limit int) ([]Suggestion, error) {
	return f(ctx, query, limit)
}

// Service is the fetch layer the UI uses. Autocomplete and search never
// fail: errors are logged and resolve to empty results. The only error they
// return is cache.ErrSuperseded, which tells the caller to drop the result.
type Service struct {
	client   *Client
	cache    *cache.QueryCache
	query    config.QueryConfig
	fallback Suggester
	observe  func([]Stock)
}

func NewService(client *Client, qc *cache.QueryCache, cfg config.QueryConfig) *Service {
	return &Service{client: client, cache: qc, query: cfg}
}

// SetFallback installs a suggester consulted when the backend autocomplete
// fails.
func (s *Service) SetFallback(f Suggester) { s.fallback = f }

// SetObserver registers a callback receiving every non-empty result set.
func (s *Service) SetObserver(fn func([]Stock)) { s.observe = fn }

// AutocompleteEnabled reports whether a query is long enough to send.
func (s *Service) AutocompleteEnabled(query string) bool {
	n := strings.TrimSpace(query)
	return n != "" && len(n) >= max(s.query.AutocompleteMinLength, 1)
}

func (s *Service) Autocomplete(ctx context.Context, query string) ([]Suggestion, error) {
	if !s.AutocompleteEnabled(query) {
		return []Suggestion{}, nil
	}
	res, err := cache.Fetch(ctx, s.cache, cache.SlotAutocomplete, query, s.query.StaleAutocomplete,
		func(ctx context.Context) ([]Suggestion, error) {
			return s.client.FetchAutocomplete(ctx, query)
		})
	if errors.Is(err, cache.ErrSuperseded) {
		return nil, err
	}
	if err != nil {
		debuglog.Warnf("Autocomplete error: %v", err)
		return s.suggestLocally(ctx, query), nil
	}
	return res, nil
}

func (s *Service) suggestLocally(ctx context.Context, query string) []Suggestion {
	if s.fallback == nil {
		return []Suggestion{}
	}
	res, err := s.fallback.Suggest(ctx, strings.TrimSpace(query), fallbackLimit)
	if err != nil {
		debuglog.Warnf("Local suggestions failed: %v", err)
		return []Suggestion{}
	}
	if res == nil {
		return []Suggestion{}
	}
	return res
}

func (s *Service) Search(ctx context.Context, query string, opts filter.Options) (ResultPage, error) {
	page, err := cache.Fetch(ctx, s.cache, cache.SlotSearch, filter.Key(query, opts), s.query.StaleSearch,
		func(ctx context.Context) (SearchPage, error) {
			return s.client.FetchSearch(ctx, query, opts)
		})
	if errors.Is(err, cache.ErrSuperseded) {
		return ResultPage{}, err
	}
	if err != nil {
		debuglog.Warnf("Search error: %v", err)
		return EmptySearchPage().Results(), nil
	}
	if s.observe != nil && len(page.Content) > 0 {
		s.observe(page.Content)
	}
	return page.Results(), nil
}

// StockDetails returns the detail summary for a symbol. Unlike search it
// reports failure so the detail view can say so.
func (s *Service) StockDetails(ctx context.Context, symbol string) (*StockDetails, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	return cache.Fetch(ctx, s.cache, cache.SlotDetail, symbol, s.query.StaleDetail,
		func(ctx context.Context) (*StockDetails, error) {
			return s.client.FetchStockDetails(ctx, symbol)
		})
}

// BasicInfo looks the symbol up through the list endpoint and returns the
// matching row, or nil when there is none.
func (s *Service) BasicInfo(ctx context.Context, symbol string) (*Stock, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, ErrEmptySymbol
	}
	page, err := cache.Fetch(ctx, s.cache, cache.SlotBasicInfo, symbol, s.query.StaleDetail,
		func(ctx context.Context) (SearchPage, error) {
			return s.client.FetchSearch(ctx, symbol, filter.Options{Page: filter.Int(1), PageSize: filter.Int(filter.DefaultPageSize)})
		})
	if err != nil {
		return nil, err
	}
	for i := range page.Content {
		if strings.EqualFold(page.Content[i].Ticker, symbol) {
			stock := page.Content[i]
			return &stock, nil
		}
	}
	return nil, nil
}
