package filter

// Field is the wire name of a single filter parameter.
type Field string

const (
	FieldMinPreviousClose  Field = "minPreviousClose"
	FieldMaxPreviousClose  Field = "maxPreviousClose"
	FieldMinPE             Field = "minPe"
	FieldMaxPE             Field = "maxPe"
	FieldMinForwardPE      Field = "minForwardPe"
	FieldMaxForwardPE      Field = "maxForwardPe"
	FieldMinDividendYield  Field = "minDividendYield"
	FieldMaxDividendYield  Field = "maxDividendYield"
	FieldMinDividendGrowth Field = "minAnnualDividendGrowth"
	FieldMaxDividendGrowth Field = "maxAnnualDividendGrowth"
	FieldMinMarketCap      Field = "minMarketCap"
	FieldMaxMarketCap      Field = "maxMarketCap"
	FieldMinPayoutRatio    Field = "minPayoutRatio"
	FieldMaxPayoutRatio    Field = "maxPayoutRatio"

	FieldMarketCapCategories Field = "marketCapCategories"
)

// Dimension groups the fields a single widget edits.
type Dimension string

const (
	DimPrice               Dimension = "price"
	DimPE                  Dimension = "pe"
	DimForwardPE           Dimension = "forwardPe"
	DimDividend            Dimension = "dividend"
	DimDividendGrowth      Dimension = "dividendGrowth"
	DimMarketCap           Dimension = "marketCap"
	DimPayout              Dimension = "payout"
	DimMarketCapCategories Dimension = "marketCapCategories"
)

// DimensionSpec describes a range dimension and how its bounds validate.
type DimensionSpec struct {
	Dimension     Dimension
	MinField      Field
	MaxField      Field
	Label         string
	Title         string
	Percent       bool
	AllowNegative bool
}

// RangeDimensions lists the seven range dimensions. The market-cap range is
// normally derived from the category selection.
var RangeDimensions = []DimensionSpec{
	{Dimension: DimPrice, MinField: FieldMinPreviousClose, MaxField: FieldMaxPreviousClose,
		Label: "Price", Title: "Previous Close Price"},
	{Dimension: DimPE, MinField: FieldMinPE, MaxField: FieldMaxPE,
		Label: "P/E", Title: "P/E Ratio", AllowNegative: true},
	{Dimension: DimForwardPE, MinField: FieldMinForwardPE, MaxField: FieldMaxForwardPE,
		Label: "Forward P/E", Title: "Forward P/E Ratio", AllowNegative: true},
	{Dimension: DimDividend, MinField: FieldMinDividendYield, MaxField: FieldMaxDividendYield,
		Label: "Dividend", Title: "Dividend Yield (%)", Percent: true},
	{Dimension: DimDividendGrowth, MinField: FieldMinDividendGrowth, MaxField: FieldMaxDividendGrowth,
		Label: "Dividend Growth", Title: "Annual Dividend Growth (%)", AllowNegative: true},
	{Dimension: DimMarketCap, MinField: FieldMinMarketCap, MaxField: FieldMaxMarketCap,
		Label: "Market Cap", Title: "Market Capitalization"},
	{Dimension: DimPayout, MinField: FieldMinPayoutRatio, MaxField: FieldMaxPayoutRatio,
		Label: "Payout", Title: "Payout Ratio (%)", Percent: true},
}

// SpecFor looks up a range dimension.
func SpecFor(d Dimension) (DimensionSpec, bool) {
	for _, s := range RangeDimensions {
		if s.Dimension == d {
			return s, true
		}
	}
	return DimensionSpec{}, false
}

// DimensionOf maps a field to the dimension it belongs to.
func DimensionOf(f Field) (Dimension, bool) {
	if f == FieldMarketCapCategories {
		return DimMarketCapCategories, true
	}
	d, _, ok := boundField(f)
	return d, ok
}

func boundField(f Field) (Dimension, bool, bool) {
	for _, s := range RangeDimensions {
		switch f {
		case s.MinField:
			return s.Dimension, true, true
		case s.MaxField:
			return s.Dimension, false, true
		}
	}
	return "", false, false
}
