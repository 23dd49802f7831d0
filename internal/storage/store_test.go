package storage

import (
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "test.db"), time.Second)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

// steppingClock advances one minute per call so ordering is deterministic.
func steppingClock(store *Store) {
	current := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time {
		current = current.Add(time.Minute)
		return current
	}
}

func TestStore_Watchlist(t *testing.T) {
	store := setupTestStore(t)

	item, err := store.AddToWatchlist(" msft ", "Microsoft Corporation")
	if err != nil {
		t.Fatalf("failed to add: %v", err)
	}
	if item.Symbol != "MSFT" {
		t.Errorf("expected normalised symbol MSFT, got %s", item.Symbol)
	}
	if _, err := store.AddToWatchlist("AAPL", "Apple Inc."); err != nil {
		t.Fatalf("failed to add: %v", err)
	}

	again, err := store.AddToWatchlist("MSFT", "renamed")
	if err != nil {
		t.Fatalf("failed to re-add: %v", err)
	}
	if again.Name != "Microsoft Corporation" {
		t.Errorf("re-adding should keep the original entry, got %q", again.Name)
	}

	items, err := store.GetWatchlist()
	if err != nil {
		t.Fatalf("failed to list: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].Symbol != "AAPL" || items[1].Symbol != "MSFT" {
		t.Errorf("expected symbol order, got %s, %s", items[0].Symbol, items[1].Symbol)
	}

	if !store.IsWatched("msft") {
		t.Error("expected msft to be watched")
	}
	if err := store.RemoveFromWatchlist("MSFT"); err != nil {
		t.Fatalf("failed to remove: %v", err)
	}
	if store.IsWatched("MSFT") {
		t.Error("expected MSFT to be removed")
	}
	if err := store.RemoveFromWatchlist("MSFT"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_AddToWatchlistEmpty(t *testing.T) {
	store := setupTestStore(t)
	if _, err := store.AddToWatchlist("  ", "x"); err == nil {
		t.Error("expected error for empty symbol")
	}
}

func TestStore_ToggleWatch(t *testing.T) {
	store := setupTestStore(t)

	watched, err := store.ToggleWatch("NVDA", "NVIDIA")
	if err != nil || !watched {
		t.Fatalf("expected watched, got %v, %v", watched, err)
	}
	watched, err = store.ToggleWatch("nvda", "NVIDIA")
	if err != nil || watched {
		t.Fatalf("expected unwatched, got %v, %v", watched, err)
	}
}

func TestStore_RecentSearches(t *testing.T) {
	store := setupTestStore(t)
	steppingClock(store)

	for _, q := range []string{"apple", "micro", "tesla"} {
		if err := store.RecordSearch(&RecentSearch{Query: q, Params: "query=" + q}, 10); err != nil {
			t.Fatalf("failed to record %s: %v", q, err)
		}
	}
	if err := store.RecordSearch(&RecentSearch{Query: "apple", Params: "query=apple"}, 10); err != nil {
		t.Fatalf("failed to re-record: %v", err)
	}

	searches, err := store.GetRecentSearches(0)
	if err != nil {
		t.Fatalf("failed to list: %v", err)
	}
	if len(searches) != 3 {
		t.Fatalf("expected 3 deduplicated searches, got %d", len(searches))
	}
	want := []string{"apple", "tesla", "micro"}
	for i, q := range want {
		if searches[i].Query != q {
			t.Errorf("position %d: expected %s, got %s", i, q, searches[i].Query)
		}
	}

	limited, err := store.GetRecentSearches(2)
	if err != nil {
		t.Fatalf("failed to list: %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("expected 2, got %d", len(limited))
	}
}

func TestStore_RecentSearchesCap(t *testing.T) {
	store := setupTestStore(t)
	steppingClock(store)

	for _, q := range []string{"a", "b", "c", "d"} {
		if err := store.RecordSearch(&RecentSearch{Query: q, Params: "query=" + q}, 2); err != nil {
			t.Fatal(err)
		}
	}

	searches, err := store.GetRecentSearches(0)
	if err != nil {
		t.Fatal(err)
	}
	if len(searches) != 2 {
		t.Fatalf("expected cap of 2, got %d", len(searches))
	}
	if searches[0].Query != "d" || searches[1].Query != "c" {
		t.Errorf("expected newest kept, got %s, %s", searches[0].Query, searches[1].Query)
	}

	if err := store.ClearRecentSearches(); err != nil {
		t.Fatal(err)
	}
	searches, _ = store.GetRecentSearches(0)
	if len(searches) != 0 {
		t.Errorf("expected empty history, got %d", len(searches))
	}
}

func TestStore_Symbols(t *testing.T) {
	store := setupTestStore(t)

	mc := 3.1e12
	err := store.SaveSymbols([]*Symbol{
		{Symbol: "msft", Name: "Microsoft Corporation", MarketCap: &mc},
		{Symbol: "AAPL", Name: "Apple Inc."},
		{Symbol: " ", Name: "ignored"},
	})
	if err != nil {
		t.Fatalf("failed to save: %v", err)
	}

	sym, err := store.GetSymbol("MSFT")
	if err != nil {
		t.Fatalf("failed to get: %v", err)
	}
	if sym.Name != "Microsoft Corporation" || sym.MarketCap == nil || *sym.MarketCap != mc {
		t.Errorf("unexpected symbol: %+v", sym)
	}
	if sym.SeenAt.IsZero() {
		t.Error("expected SeenAt to be set")
	}

	if _, err := store.GetSymbol("ZZZZ"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	all, err := store.GetAllSymbols()
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 || all[0].Symbol != "AAPL" {
		t.Errorf("expected 2 symbols starting with AAPL, got %d", len(all))
	}
}
