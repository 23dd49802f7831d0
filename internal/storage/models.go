package storage

import (
	"time"
)

// WatchItem is a symbol on the user's watchlist.
type WatchItem struct {
	Symbol  string    `json:"symbol"`
	Name    string    `json:"name"`
	AddedAt time.Time `json:"added_at"`
}

// RecentSearch is a query the user ran, kept with its encoded parameters so
// it can be replayed.
type RecentSearch struct {
	Key        string    `json:"key"`
	Query      string    `json:"query"`
	Params     string    `json:"params"`
	Filters    int       `json:"filters"`
	SearchedAt time.Time `json:"searched_at"`
}

// Symbol is a ticker seen in a search result. The catalog backs the local
// suggestion index.
type Symbol struct {
	Symbol    string    `json:"symbol"`
	Name      string    `json:"name"`
	MarketCap *float64  `json:"market_cap,omitempty"`
	SeenAt    time.Time `json:"seen_at"`
}
