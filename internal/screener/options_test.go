package screener

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pders01/screener/internal/config"
	"github.com/pders01/screener/internal/filter"
)

func TestInitialOptions_Defaults(t *testing.T) {
	o, err := InitialOptions(config.ScreenerConfig{DefaultPageSize: 10, DefaultSortBy: "market_cap", DefaultSortOrder: "desc"})
	require.NoError(t, err)
	assert.Equal(t, 10, *o.PageSize)
	assert.Equal(t, 1, *o.Page)
	assert.Equal(t, "market_cap", *o.SortBy)
	assert.Equal(t, filter.SortDesc, *o.SortOrder)
}

func TestInitialOptions_InvalidSortOrder(t *testing.T) {
	_, err := InitialOptions(config.ScreenerConfig{DefaultSortOrder: "sideways"})
	assert.Error(t, err)
}

func TestInitialOptions_Preset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "value.toml")
	data := `name = "value"
market_cap_categories = ["Large Cap"]

[ranges.pe]
max = 15.0
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	o, err := InitialOptions(config.ScreenerConfig{DefaultPageSize: 50, DefaultSortBy: "ticker", Preset: path})
	require.NoError(t, err)
	assert.Equal(t, 50, *o.PageSize)
	assert.Equal(t, "ticker", *o.SortBy)
	require.NotNil(t, o.PE.Max)
	assert.Equal(t, 15.0, *o.PE.Max)
	assert.Equal(t, []string{"Large Cap"}, o.MarketCapCategories)
	require.NotNil(t, o.MarketCap.Min)
	assert.Equal(t, 10e9, *o.MarketCap.Min)
}

func TestInitialOptions_MissingPreset(t *testing.T) {
	_, err := InitialOptions(config.ScreenerConfig{Preset: filepath.Join(t.TempDir(), "nope.toml")})
	assert.Error(t, err)
}

func TestPageSizes(t *testing.T) {
	assert.Equal(t, PageSizeOptions, PageSizes(config.ScreenerConfig{}))
	assert.Equal(t, []int{10, 20}, PageSizes(config.ScreenerConfig{PageSizeOptions: []int{0, 10, 20}}))
}

func TestNextPageSize(t *testing.T) {
	sizes := []int{5, 10, 25, 50}
	tests := []struct {
		current, step, want int
	}{
		{25, 1, 50},
		{25, -1, 10},
		{50, 1, 50},
		{5, -1, 5},
		{20, 1, 25},
		{20, -1, 10},
		{100, 1, 50},
		{1, -1, 5},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NextPageSize(sizes, tt.current, tt.step), "current=%d step=%d", tt.current, tt.step)
	}
}
