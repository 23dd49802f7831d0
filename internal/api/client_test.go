package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/pders01/screener/internal/config"
	"github.com/pders01/screener/internal/filter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	cfg := config.TestConfig()
	cfg.API.BaseURL = srv.URL + "/"
	return NewClient(cfg)
}

func TestFetchAutocomplete(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, autocompletePath, r.URL.Path)
		assert.Equal(t, "ap", r.URL.Query().Get("query"))
		assert.Equal(t, "screener-test/1.0", r.Header.Get("User-Agent"))
		_, err := uuid.Parse(r.Header.Get("X-Request-ID"))
		assert.NoError(t, err)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"query":"ap","results":[{"symbol":"AAPL","name":"Apple Inc.","score":0.9}]}`))
	})

	res, err := client.FetchAutocomplete(context.Background(), "ap")
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, "AAPL", res[0].Symbol)
	assert.Equal(t, "Apple Inc.", res[0].Name)
	require.NotNil(t, res[0].Score)
	assert.InDelta(t, 0.9, *res[0].Score, 1e-9)
}

func TestFetchAutocompleteMissingResults(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"query":"zz"}`))
	})

	res, err := client.FetchAutocomplete(context.Background(), "zz")
	require.NoError(t, err)
	assert.NotNil(t, res)
	assert.Empty(t, res)
}

func TestFetchSearchEncodesOptions(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, searchPath, r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "apple", q.Get("query"))
		assert.Equal(t, "1", q.Get("page"))
		assert.Equal(t, "10", q.Get("pageSize"))
		assert.Equal(t, "5", q.Get("minPe"))
		assert.Equal(t, "mega,large", q.Get("marketCapCategories"))
		w.Write([]byte(`{
			"content":[{"ticker":"AAPL","companyName":"Apple Inc.","marketCap":3.4e12,"peRatio":31.2}],
			"pageNumber":1,"pageSize":10,"totalElements":11,"totalPages":2,"numberOfElements":1,
			"sort":{"empty":false,"sorted":true,"unsorted":false}
		}`))
	})

	opts := filter.Options{
		Page:                filter.Int(2),
		PageSize:            filter.Int(10),
		PE:                  filter.Range{Min: filter.Float(5)},
		MarketCapCategories: []string{"mega", "large"},
	}
	page, err := client.FetchSearch(context.Background(), "apple", opts)
	require.NoError(t, err)
	assert.Equal(t, 1, page.PageNumber)
	assert.Equal(t, int64(11), page.TotalElements)
	require.Len(t, page.Content, 1)
	assert.Equal(t, "AAPL", page.Content[0].Ticker)
	require.NotNil(t, page.Content[0].PERatio)
	assert.InDelta(t, 31.2, *page.Content[0].PERatio, 1e-9)
	assert.Nil(t, page.Content[0].DividendYield)

	results := page.Results()
	assert.Equal(t, 2, results.Page)
	assert.Equal(t, 2, results.TotalPages)
}

func TestFetchStockDetails(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, detailsPath+"BRK.B", r.URL.Path)
		w.Write([]byte(`{
			"previousClose":412.5,
			"companyName":"Berkshire Hathaway",
			"valuation":{"marketCap":8.9e11,"peRatio":9.1,"fiftyDayAverage":{"movingAverage":405.1,"percentChangeFromPreviousClose":1.8}},
			"margin":{"grossMargin":23.4},
			"growth":{"trailingEps":45.2},
			"dividend":{}
		}`))
	})

	d, err := client.FetchStockDetails(context.Background(), " BRK.B ")
	require.NoError(t, err)
	assert.Equal(t, "Berkshire Hathaway", d.CompanyName)
	require.NotNil(t, d.PreviousClose)
	assert.InDelta(t, 412.5, *d.PreviousClose, 1e-9)
	require.NotNil(t, d.Valuation.FiftyDayAverage.PercentChangeFromPreviousClose)
	assert.InDelta(t, 1.8, *d.Valuation.FiftyDayAverage.PercentChangeFromPreviousClose, 1e-9)
	assert.Nil(t, d.Valuation.TwoHundredDayAverage.MovingAverage)
	assert.Nil(t, d.Margin.EBITDAMargin)
	assert.Nil(t, d.Dividend.DividendYield)
}

func TestFetchStockDetailsEmptySymbol(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	})

	_, err := client.FetchStockDetails(context.Background(), "  ")
	assert.ErrorIs(t, err, ErrEmptySymbol)
}

func TestStatusError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := client.FetchSearch(context.Background(), "", filter.Options{})
	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusBadGateway, statusErr.StatusCode)
}

func TestMalformedJSON(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"content":[`))
	})

	_, err := client.FetchSearch(context.Background(), "", filter.Options{})
	assert.ErrorContains(t, err, "decoding")
}

func TestEmptySearchPage(t *testing.T) {
	page := EmptySearchPage()
	assert.Equal(t, 25, page.PageSize)
	assert.True(t, page.Sort.Empty)
	assert.True(t, page.Sort.Unsorted)
	assert.False(t, page.Sort.Sorted)

	res := page.Results()
	assert.Equal(t, 1, res.Page)
	assert.Equal(t, int64(0), res.Total)
	assert.NotNil(t, res.Stocks)
}
