package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	d := Defaults()
	require.NotNil(t, d.SortBy)
	assert.Equal(t, "ticker", *d.SortBy)
	assert.Equal(t, SortAsc, *d.SortOrder)
	assert.Equal(t, 1, *d.Page)
	assert.Equal(t, 25, *d.PageSize)
	assert.Empty(t, d.AppliedDimensions())
	assert.Nil(t, d.Query)
}

func TestCloneDoesNotAlias(t *testing.T) {
	o := Defaults()
	o.PE = Range{Min: Float(5)}
	o.MarketCapCategories = []string{"Mid Cap"}

	c := o.Clone()
	require.True(t, o.Equal(c))

	*c.PE.Min = 10
	*c.Page = 3
	c.MarketCapCategories[0] = "Mega Cap"

	assert.Equal(t, 5.0, *o.PE.Min)
	assert.Equal(t, 1, *o.Page)
	assert.Equal(t, "Mid Cap", o.MarketCapCategories[0])
}

func TestBoundAccessors(t *testing.T) {
	var o Options
	require.NoError(t, o.SetBound(FieldMinDividendYield, Float(1.5)))
	require.NoError(t, o.SetBound(FieldMaxDividendYield, Float(4)))

	v, err := o.Bound(FieldMinDividendYield)
	require.NoError(t, err)
	assert.Equal(t, 1.5, *v)
	assert.Equal(t, 4.0, *o.DividendYield.Max)

	require.NoError(t, o.SetBound(FieldMinDividendYield, nil))
	assert.Nil(t, o.DividendYield.Min)

	assert.ErrorIs(t, o.SetBound(FieldMarketCapCategories, Float(1)), ErrUnknownField)
	_, err = o.Bound("bogus")
	assert.ErrorIs(t, err, ErrUnknownField)

	_, err = o.Range(DimMarketCapCategories)
	assert.ErrorIs(t, err, ErrUnknownDimension)
}

func TestAppliedDimensions(t *testing.T) {
	o := Defaults()
	o.PreviousClose.Max = Float(100)
	o.PayoutRatio = Range{Min: Float(10), Max: Float(60)}
	o.MarketCapCategories = []string{"Small Cap"}
	o.MarketCap = DeriveMarketCap(o.MarketCapCategories)

	assert.Equal(t,
		[]Dimension{DimPrice, DimMarketCap, DimPayout, DimMarketCapCategories},
		o.AppliedDimensions())
}

func TestSameCategories(t *testing.T) {
	assert.True(t, SameCategories(nil, []string{}))
	assert.True(t, SameCategories([]string{"Mid Cap", "Mega Cap"}, []string{"Mega Cap", "Mid Cap"}))
	assert.False(t, SameCategories([]string{"Mid Cap"}, []string{"Mid Cap", "Nano Cap"}))
	assert.False(t, SameCategories([]string{"Mid Cap", "Nano Cap"}, []string{"Mid Cap"}))
}

func TestDimensionOf(t *testing.T) {
	d, ok := DimensionOf(FieldMaxForwardPE)
	assert.True(t, ok)
	assert.Equal(t, DimForwardPE, d)

	d, ok = DimensionOf(FieldMarketCapCategories)
	assert.True(t, ok)
	assert.Equal(t, DimMarketCapCategories, d)

	_, ok = DimensionOf("minFoo")
	assert.False(t, ok)
}
