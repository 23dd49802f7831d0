package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	bolt "go.etcd.io/bbolt"
)

var (
	watchlistBucket = []byte("watchlist")
	recentBucket    = []byte("recent")
	symbolsBucket   = []byte("symbols")
)

var ErrNotFound = errors.New("not found")

const defaultTimeout = 1 * time.Second

type Store struct {
	db  *bolt.DB
	now func() time.Time
}

func NewStore(dbPath string, timeout time.Duration) (*Store, error) {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	db, err := bolt.Open(dbPath, 0o600, &bolt.Options{Timeout: timeout})
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{watchlistBucket, recentBucket, symbolsBucket} {
			if _, createErr := tx.CreateBucketIfNotExists(bucket); createErr != nil {
				return createErr
			}
		}
		return nil
	})

	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating buckets: %w", err)
	}

	return &Store{db: db, now: time.Now}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func normalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

func putJSON(b *bolt.Bucket, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return b.Put([]byte(key), data)
}

func (s *Store) AddToWatchlist(symbol, name string) (*WatchItem, error) {
	item := &WatchItem{Symbol: normalizeSymbol(symbol), Name: name, AddedAt: s.now()}
	if item.Symbol == "" {
		return nil, fmt.Errorf("empty symbol")
	}
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(watchlistBucket)
		if existing := b.Get([]byte(item.Symbol)); existing != nil {
			return json.Unmarshal(existing, item)
		}
		return putJSON(b, item.Symbol, item)
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (s *Store) RemoveFromWatchlist(symbol string) error {
	key := []byte(normalizeSymbol(symbol))
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(watchlistBucket)
		if b.Get(key) == nil {
			return fmt.Errorf("watchlist %s: %w", key, ErrNotFound)
		}
		return b.Delete(key)
	})
}

// ToggleWatch adds the symbol when absent and removes it otherwise. It
// reports whether the symbol is watched afterwards.
func (s *Store) ToggleWatch(symbol, name string) (bool, error) {
	if s.IsWatched(symbol) {
		return false, s.RemoveFromWatchlist(symbol)
	}
	_, err := s.AddToWatchlist(symbol, name)
	return err == nil, err
}

func (s *Store) IsWatched(symbol string) bool {
	key := []byte(normalizeSymbol(symbol))
	found := false
	_ = s.db.View(func(tx *bolt.Tx) error {
		found = tx.Bucket(watchlistBucket).Get(key) != nil
		return nil
	})
	return found
}

// GetWatchlist returns the watchlist ordered by symbol.
func (s *Store) GetWatchlist() ([]*WatchItem, error) {
	var items []*WatchItem
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(watchlistBucket).ForEach(func(_ []byte, v []byte) error {
			var item WatchItem
			if err := json.Unmarshal(v, &item); err != nil {
				return err
			}
			items = append(items, &item)
			return nil
		})
	})
	return items, err
}

// RecordSearch stores a search, replacing an earlier entry with the same
// key, and keeps at most limit entries.
func (s *Store) RecordSearch(search *RecentSearch, limit int) error {
	if search.Key == "" {
		search.Key = search.Params
	}
	search.SearchedAt = s.now()
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(recentBucket)
		if err := putJSON(b, search.Key, search); err != nil {
			return err
		}
		if limit <= 0 {
			return nil
		}
		all, err := readRecent(b)
		if err != nil {
			return err
		}
		for _, old := range all[min(limit, len(all)):] {
			if err := b.Delete([]byte(old.Key)); err != nil {
				return err
			}
		}
		return nil
	})
}

// GetRecentSearches returns searches newest first.
func (s *Store) GetRecentSearches(limit int) ([]*RecentSearch, error) {
	var searches []*RecentSearch
	err := s.db.View(func(tx *bolt.Tx) error {
		var err error
		searches, err = readRecent(tx.Bucket(recentBucket))
		return err
	})
	if limit > 0 && len(searches) > limit {
		searches = searches[:limit]
	}
	return searches, err
}

func (s *Store) ClearRecentSearches() error {
	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket(recentBucket); err != nil {
			return err
		}
		_, err := tx.CreateBucket(recentBucket)
		return err
	})
}

func readRecent(b *bolt.Bucket) ([]*RecentSearch, error) {
	var searches []*RecentSearch
	err := b.ForEach(func(_ []byte, v []byte) error {
		var rs RecentSearch
		if err := json.Unmarshal(v, &rs); err != nil {
			return nil
		}
		searches = append(searches, &rs)
		return nil
	})
	sort.SliceStable(searches, func(i, j int) bool {
		return searches[i].SearchedAt.After(searches[j].SearchedAt)
	})
	return searches, err
}

// SaveSymbols upserts symbols into the catalog.
func (s *Store) SaveSymbols(symbols []*Symbol) error {
	now := s.now()
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(symbolsBucket)
		for _, sym := range symbols {
			sym.Symbol = normalizeSymbol(sym.Symbol)
			if sym.Symbol == "" {
				continue
			}
			if sym.SeenAt.IsZero() {
				sym.SeenAt = now
			}
			if err := putJSON(b, sym.Symbol, sym); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Store) GetSymbol(symbol string) (*Symbol, error) {
	key := normalizeSymbol(symbol)
	var sym Symbol
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(symbolsBucket).Get([]byte(key))
		if data == nil {
			return fmt.Errorf("symbol %s: %w", key, ErrNotFound)
		}
		return json.Unmarshal(data, &sym)
	})
	if err != nil {
		return nil, err
	}
	return &sym, nil
}

// GetAllSymbols returns the catalog ordered by symbol.
func (s *Store) GetAllSymbols() ([]*Symbol, error) {
	var symbols []*Symbol
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(symbolsBucket).ForEach(func(_ []byte, v []byte) error {
			var sym Symbol
			if err := json.Unmarshal(v, &sym); err != nil {
				return err
			}
			symbols = append(symbols, &sym)
			return nil
		})
	})
	return symbols, err
}
