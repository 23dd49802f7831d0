package screener

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pders01/screener/internal/filter"
)

func TestPanelEditAndApply(t *testing.T) {
	out := NewOutbox()
	p := NewFilterPanel(filter.Defaults(), out)

	require.NoError(t, p.EditMin(filter.DimDividend, "3"))
	assert.True(t, p.IsOpen(filter.DimDividend))
	assert.Equal(t, OpenDirty, p.State(filter.DimDividend))
	assert.Equal(t, 1, p.Coordinator().DirtyFilterCount())

	require.True(t, p.Apply(filter.DimDividend))
	assert.Equal(t, Closed, p.State(filter.DimDividend))
	assert.Equal(t, 1, p.Coordinator().AppliedFilterCount())
	assert.Equal(t, 0, p.Coordinator().DirtyFilterCount())
	require.Len(t, out.Drain(), 1)

	assert.False(t, p.Apply(filter.DimDividend), "closed widget cannot apply")
}

func TestPanelEditOpensAndClosesOthers(t *testing.T) {
	p := NewFilterPanel(filter.Defaults(), NewOutbox())
	p.Toggle(filter.DimPrice)
	require.NoError(t, p.EditMax(filter.DimPE, "30"))

	assert.True(t, p.IsOpen(filter.DimPE))
	assert.Equal(t, Closed, p.State(filter.DimPrice))
}

func TestPanelRejectsNonFiniteBounds(t *testing.T) {
	out := NewOutbox()
	p := NewFilterPanel(filter.Defaults(), out)

	for _, tc := range []struct {
		dim  filter.Dimension
		text string
	}{
		{filter.DimDividend, "NaN"},
		{filter.DimPrice, "Inf"},
		{filter.DimPE, "-inf"},
	} {
		require.NoError(t, p.EditMin(tc.dim, tc.text))
		assert.Equal(t, OpenInvalid, p.State(tc.dim), tc.text)
		assert.Equal(t, "Must be a number", p.Range(tc.dim).Errors()[string(p.Range(tc.dim).Spec().MinField)])
		assert.False(t, p.Apply(tc.dim))
	}
	assert.False(t, p.ApplyAll())
	assert.Equal(t, 0, out.Len())
	assert.Equal(t, 0, p.Coordinator().AppliedFilterCount())
}

func TestPanelInvalidBlocksApply(t *testing.T) {
	out := NewOutbox()
	p := NewFilterPanel(filter.Defaults(), out)

	require.NoError(t, p.EditMin(filter.DimPayout, "1200"))
	assert.Equal(t, OpenInvalid, p.State(filter.DimPayout))
	assert.False(t, p.Apply(filter.DimPayout))
	assert.False(t, p.ApplyAll())
	assert.Equal(t, 0, out.Len())

	require.NoError(t, p.EditMin(filter.DimPayout, "20"))
	assert.True(t, p.ApplyAll())
	assert.Equal(t, 1, out.Len())
}

func TestPanelCategories(t *testing.T) {
	out := NewOutbox()
	p := NewFilterPanel(filter.Defaults(), out)

	p.ToggleCategory("Mega Cap")
	p.ToggleCategory("Small Cap")
	assert.True(t, p.IsOpen(filter.DimMarketCapCategories))
	assert.Equal(t, OpenDirty, p.State(filter.DimMarketCapCategories))

	require.True(t, p.Apply(filter.DimMarketCapCategories))
	o := out.Drain()[0].Options
	assert.Equal(t, 300e6, *o.MarketCap.Min)

	p.Toggle(filter.DimMarketCapCategories)
	p.ClearCategories()
	assert.Equal(t, 1, p.Coordinator().DirtyFilterCount())
}

func TestPanelResetClearsWidgets(t *testing.T) {
	initial := filter.Defaults()
	initial.PE = filter.Range{Min: filter.Float(4)}
	initial.MarketCapCategories = []string{"Mid Cap"}
	p := NewFilterPanel(initial, NewOutbox())

	require.NoError(t, p.EditMax(filter.DimPrice, "oops"))
	p.ToggleCategory("Nano Cap")

	p.Reset()

	for _, d := range WidgetOrder {
		assert.Equal(t, Closed, p.State(d), string(d))
	}
	assert.Equal(t, "", p.Range(filter.DimPE).MinText())
	assert.Equal(t, "", p.Range(filter.DimPrice).MaxText())
	assert.Empty(t, p.Range(filter.DimPrice).Errors())
	assert.Empty(t, p.Categories().Pending())
	assert.Equal(t, 0, p.Coordinator().AppliedFilterCount())
}

func TestPanelUnknownDimension(t *testing.T) {
	p := NewFilterPanel(filter.Defaults(), NewOutbox())
	assert.ErrorIs(t, p.EditMin(filter.DimMarketCap, "1"), filter.ErrUnknownDimension)
	assert.Nil(t, p.Range(filter.DimMarketCapCategories))
	assert.Equal(t, Closed, p.State("nope"))
}
