package main

import (
	"fmt"
	"io"

	"github.com/pders01/screener/internal/api"
	"github.com/pders01/screener/internal/auth"
	"github.com/pders01/screener/internal/browser"
	"github.com/pders01/screener/internal/cache"
	"github.com/pders01/screener/internal/config"
	"github.com/pders01/screener/internal/debuglog"
	"github.com/pders01/screener/internal/news"
	"github.com/pders01/screener/internal/search"
	"github.com/pders01/screener/internal/storage"
	"github.com/pders01/screener/internal/tui"
)

// runtime holds the long-lived collaborators shared by the commands.
type runtime struct {
	cfg      *config.Config
	store    *storage.Store
	searcher search.Searcher
	api      *api.Service
	launcher *browser.Launcher
	closers  []io.Closer
}

// openRuntime builds the fetch layer and, when possible, the local store and
// symbol index. With requireStore a store that cannot be opened is an error;
// otherwise the store features are left out.
func openRuntime(cfg *config.Config, requireStore bool) (*runtime, error) {
	rt := &runtime{
		cfg:      cfg,
		api:      api.NewService(api.NewClient(cfg), cache.New(cfg.Query.CacheTime, cfg.API.RetryCount), cfg.Query),
		launcher: browser.NewLauncher(cfg),
	}

	store, err := storage.NewStore(cfg.Database.Path, cfg.Database.Timeout)
	if err != nil {
		if requireStore {
			return nil, fmt.Errorf("opening database %s: %w", cfg.Database.Path, err)
		}
		debuglog.Warnf("Continuing without local store: %v", err)
		return rt, nil
	}
	rt.store = store
	rt.closers = append(rt.closers, store)

	rt.searcher = openSearcher(cfg, store)
	if c, ok := rt.searcher.(io.Closer); ok {
		// the index closes before the store it reads from
		rt.closers = append(rt.closers, c)
	}
	rt.api.SetFallback(search.Suggester(rt.searcher))
	rt.api.SetObserver(search.Recorder(store, rt.searcher))
	return rt, nil
}

// openSearcher prefers the on-disk index and falls back to scoring the
// catalog in memory.
func openSearcher(cfg *config.Config, store *storage.Store) search.Searcher {
	if cfg.Database.SearchIndex != "" {
		s, err := search.NewBleveEngine(store, cfg.Database.SearchIndex)
		if err == nil {
			return s
		}
		debuglog.Warnf("Search index unavailable, using in-memory search: %v", err)
	}
	return search.NewEngine(store)
}

func (rt *runtime) services() tui.Services {
	return tui.Services{
		API:     rt.api,
		Store:   rt.store,
		Auth:    auth.NewKeyringProvider(rt.cfg.Auth, rt.launcher),
		Browser: rt.launcher,
		News:    news.NewFetcher(rt.cfg),
	}
}

func (rt *runtime) Close() error {
	var first error
	for i := len(rt.closers) - 1; i >= 0; i-- {
		if err := rt.closers[i].Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
