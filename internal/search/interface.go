package search

import "github.com/pders01/screener/internal/storage"

// Result is a symbol matching a suggestion query.
type Result struct {
	Symbol  string
	Name    string
	Score   float64
	Matches []Match
}

// Match represents where text was found
type Match struct {
	Field  string // "symbol" or "name"
	Text   string
	Weight float64
}

// Searcher defines the minimal suggestion API used for local autocomplete.
type Searcher interface {
	Suggest(query string, limit int) ([]*Result, error)
}

// UpdateListener can be implemented by search engines that maintain
// an external index and want to be notified about catalog changes.
type UpdateListener interface {
	OnSymbolsUpdated(symbols []*storage.Symbol)
}

// DebugStatser provides lightweight stats for visibility/debugging.
type DebugStatser interface {
	DocCount() (int, error)
}
