package filter

// CapTier is one market-capitalisation bucket. A nil bound is open.
type CapTier struct {
	Key   string
	Label string
	Min   *float64
	Max   *float64
}

var MarketCapTiers = []CapTier{
	{Key: "Mega Cap", Label: "Mega Cap ($200B+)", Min: Float(200e9)},
	{Key: "Large Cap", Label: "Large Cap ($10B - $200B)", Min: Float(10e9), Max: Float(200e9)},
	{Key: "Mid Cap", Label: "Mid Cap ($2B - $10B)", Min: Float(2e9), Max: Float(10e9)},
	{Key: "Small Cap", Label: "Small Cap ($300M - $2B)", Min: Float(300e6), Max: Float(2e9)},
	{Key: "Micro Cap", Label: "Micro Cap ($50M - $300M)", Min: Float(50e6), Max: Float(300e6)},
	{Key: "Nano Cap", Label: "Nano Cap (< $50M)", Max: Float(50e6)},
}

func TierByKey(key string) (CapTier, bool) {
	for _, t := range MarketCapTiers {
		if t.Key == key {
			return t, true
		}
	}
	return CapTier{}, false
}

// DeriveMarketCap merges the selected tiers into one interval: the lowest
// lower bound and the highest upper bound. Any tier with an open side leaves
// that side of the result open. Unknown keys are ignored; an empty or
// entirely unknown selection yields an unconstrained range.
func DeriveMarketCap(categories []string) Range {
	var (
		r                    Range
		known                bool
		openBelow, openAbove bool
	)
	for _, key := range categories {
		t, ok := TierByKey(key)
		if !ok {
			continue
		}
		known = true
		if t.Min == nil {
			openBelow = true
		} else if r.Min == nil || *t.Min < *r.Min {
			r.Min = Float(*t.Min)
		}
		if t.Max == nil {
			openAbove = true
		} else if r.Max == nil || *t.Max > *r.Max {
			r.Max = Float(*t.Max)
		}
	}
	if !known {
		return Range{}
	}
	if openBelow {
		r.Min = nil
	}
	if openAbove {
		r.Max = nil
	}
	return r
}
