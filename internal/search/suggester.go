package search

import (
	"context"

	"github.com/pders01/screener/internal/api"
	"github.com/pders01/screener/internal/debuglog"
	"github.com/pders01/screener/internal/storage"
)

// Suggester adapts a Searcher to the api fallback hook.
func Suggester(s Searcher) api.SuggesterFunc {
	return func(ctx context.Context, query string, limit int) ([]api.Suggestion, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		results, err := s.Suggest(query, limit)
		if err != nil {
			return nil, err
		}
		out := make([]api.Suggestion, 0, len(results))
		for _, r := range results {
			score := r.Score
			out = append(out, api.Suggestion{Symbol: r.Symbol, Name: r.Name, Score: &score})
		}
		return out, nil
	}
}

// Recorder returns a callback that adds every stock it sees to the catalog
// and, when the searcher keeps an index, to that index.
func Recorder(store *storage.Store, s Searcher) func([]api.Stock) {
	return func(stocks []api.Stock) {
		symbols := make([]*storage.Symbol, 0, len(stocks))
		for _, st := range stocks {
			symbols = append(symbols, &storage.Symbol{
				Symbol:    st.Ticker,
				Name:      st.CompanyName,
				MarketCap: st.MarketCap,
			})
		}
		if err := store.SaveSymbols(symbols); err != nil {
			debuglog.Warnf("Saving symbols failed: %v", err)
			return
		}
		if l, ok := s.(UpdateListener); ok {
			l.OnSymbolsUpdated(symbols)
		}
	}
}
