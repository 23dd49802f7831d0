//go:build bleve

package search

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pders01/screener/internal/api"
	"github.com/pders01/screener/internal/storage"
)

func TestBleveEngineIndexesAndSuggests(t *testing.T) {
	dir := t.TempDir()
	store, err := storage.NewStore(filepath.Join(dir, "test.db"), time.Second)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.SaveSymbols([]*storage.Symbol{
		{Symbol: "AAPL", Name: "Apple Inc."},
		{Symbol: "MSFT", Name: "Microsoft Corporation"},
	}))

	idxPath := filepath.Join(dir, "index.bleve")
	eng, err := NewBleveEngine(store, idxPath)
	require.NoError(t, err)

	res, err := eng.Suggest("aap", 10)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(res), 1)
	require.Equal(t, "AAPL", res[0].Symbol)

	res, err = eng.Suggest("microsoft", 10)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(res), 1)
	require.Equal(t, "MSFT", res[0].Symbol)
	require.Equal(t, "Microsoft Corporation", res[0].Name)

	fi, err := os.Stat(idxPath)
	require.NoError(t, err)
	require.True(t, fi.IsDir())

	// new symbols arrive through the recorder
	Recorder(store, eng)([]api.Stock{{Ticker: "NVDA", CompanyName: "NVIDIA Corporation"}})
	res, err = eng.Suggest("nvid", 10)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(res), 1)
	require.Equal(t, "NVDA", res[0].Symbol)

	stats, ok := eng.(DebugStatser)
	require.True(t, ok)
	n, err := stats.DocCount()
	require.NoError(t, err)
	require.Equal(t, 3, n)
}
