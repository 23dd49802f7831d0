// Package filter holds the screener's query model: optional range
// constraints, the market-cap category multi-select, sort and paging, and
// their canonical wire encoding.
package filter

import (
	"errors"
	"slices"
)

// SortOrder is the direction of the result ordering.
type SortOrder string

const (
	SortAsc  SortOrder = "ASC"
	SortDesc SortOrder = "DESC"
)

const (
	DefaultSortBy   = "ticker"
	DefaultPage     = 1
	DefaultPageSize = 25
)

var (
	ErrUnknownField     = errors.New("unknown filter field")
	ErrUnknownDimension = errors.New("unknown filter dimension")
)

// Range is an optional numeric interval. A nil bound means no constraint.
type Range struct {
	Min *float64 `json:"min,omitempty" toml:"min,omitempty" yaml:"min,omitempty"`
	Max *float64 `json:"max,omitempty" toml:"max,omitempty" yaml:"max,omitempty"`
}

// IsSet reports whether either bound is present.
func (r Range) IsSet() bool {
	return r.Min != nil || r.Max != nil
}

func (r Range) Equal(o Range) bool {
	return FloatEqual(r.Min, o.Min) && FloatEqual(r.Max, o.Max)
}

func (r Range) clone() Range {
	return Range{Min: cloneFloat(r.Min), Max: cloneFloat(r.Max)}
}

// Options is the full filter and paging state of a screener query. Every
// field is optional; absence is never the same as zero.
type Options struct {
	Query     *string
	Page      *int
	PageSize  *int
	SortBy    *string
	SortOrder *SortOrder

	PreviousClose  Range
	PE             Range
	ForwardPE      Range
	DividendYield  Range
	DividendGrowth Range
	MarketCap      Range
	PayoutRatio    Range

	MarketCapCategories []string
}

// Defaults returns the options used at startup and after a reset.
func Defaults() Options {
	return Options{
		Page:      Int(DefaultPage),
		PageSize:  Int(DefaultPageSize),
		SortBy:    String(DefaultSortBy),
		SortOrder: Order(SortAsc),
	}
}

// Clone returns a deep copy so snapshots handed to other components never
// alias the owner's state.
func (o Options) Clone() Options {
	c := Options{
		Query:          cloneString(o.Query),
		Page:           cloneInt(o.Page),
		PageSize:       cloneInt(o.PageSize),
		SortBy:         cloneString(o.SortBy),
		PreviousClose:  o.PreviousClose.clone(),
		PE:             o.PE.clone(),
		ForwardPE:      o.ForwardPE.clone(),
		DividendYield:  o.DividendYield.clone(),
		DividendGrowth: o.DividendGrowth.clone(),
		MarketCap:      o.MarketCap.clone(),
		PayoutRatio:    o.PayoutRatio.clone(),
	}
	if o.SortOrder != nil {
		c.SortOrder = Order(*o.SortOrder)
	}
	if o.MarketCapCategories != nil {
		c.MarketCapCategories = slices.Clone(o.MarketCapCategories)
	}
	return c
}

// Range returns the interval of a range dimension.
func (o *Options) Range(d Dimension) (Range, error) {
	p := o.rangePtr(d)
	if p == nil {
		return Range{}, ErrUnknownDimension
	}
	return *p, nil
}

// SetRange replaces both bounds of a range dimension.
func (o *Options) SetRange(d Dimension, r Range) error {
	p := o.rangePtr(d)
	if p == nil {
		return ErrUnknownDimension
	}
	*p = r.clone()
	return nil
}

// Bound returns the value of a single min/max field.
func (o *Options) Bound(f Field) (*float64, error) {
	d, isMin, ok := boundField(f)
	if !ok {
		return nil, ErrUnknownField
	}
	p := o.rangePtr(d)
	if isMin {
		return p.Min, nil
	}
	return p.Max, nil
}

// SetBound sets a single min/max field. A nil value clears it.
func (o *Options) SetBound(f Field, v *float64) error {
	d, isMin, ok := boundField(f)
	if !ok {
		return ErrUnknownField
	}
	p := o.rangePtr(d)
	if isMin {
		p.Min = cloneFloat(v)
	} else {
		p.Max = cloneFloat(v)
	}
	return nil
}

func (o *Options) rangePtr(d Dimension) *Range {
	switch d {
	case DimPrice:
		return &o.PreviousClose
	case DimPE:
		return &o.PE
	case DimForwardPE:
		return &o.ForwardPE
	case DimDividend:
		return &o.DividendYield
	case DimDividendGrowth:
		return &o.DividendGrowth
	case DimMarketCap:
		return &o.MarketCap
	case DimPayout:
		return &o.PayoutRatio
	}
	return nil
}

// AppliedDimensions lists every dimension that currently constrains the
// query, in RangeDimensions order followed by the category dimension.
func (o Options) AppliedDimensions() []Dimension {
	var dims []Dimension
	for _, spec := range RangeDimensions {
		if o.rangePtr(spec.Dimension).IsSet() {
			dims = append(dims, spec.Dimension)
		}
	}
	if len(o.MarketCapCategories) > 0 {
		dims = append(dims, DimMarketCapCategories)
	}
	return dims
}

// Equal compares two option sets field by field. Category order is
// significant.
func (o Options) Equal(other Options) bool {
	if !stringEqual(o.Query, other.Query) || !intEqual(o.Page, other.Page) ||
		!intEqual(o.PageSize, other.PageSize) || !stringEqual(o.SortBy, other.SortBy) {
		return false
	}
	if (o.SortOrder == nil) != (other.SortOrder == nil) ||
		(o.SortOrder != nil && *o.SortOrder != *other.SortOrder) {
		return false
	}
	for _, spec := range RangeDimensions {
		if !o.rangePtr(spec.Dimension).Equal(*other.rangePtr(spec.Dimension)) {
			return false
		}
	}
	return slices.Equal(o.MarketCapCategories, other.MarketCapCategories)
}

// SameCategories reports whether two category selections hold the same set
// of labels, ignoring order.
func SameCategories(a, b []string) bool {
	seen := make(map[string]struct{}, len(a))
	for _, c := range a {
		seen[c] = struct{}{}
	}
	other := make(map[string]struct{}, len(b))
	for _, c := range b {
		if _, ok := seen[c]; !ok {
			return false
		}
		other[c] = struct{}{}
	}
	return len(seen) == len(other)
}

func Float(v float64) *float64 { return &v }

func Int(v int) *int { return &v }

func String(v string) *string { return &v }

func Order(v SortOrder) *SortOrder { return &v }

// FloatEqual compares optional numbers; two absent values are equal.
func FloatEqual(a, b *float64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func intEqual(a, b *int) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func stringEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func cloneFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	return Float(*v)
}

func cloneInt(v *int) *int {
	if v == nil {
		return nil
	}
	return Int(*v)
}

func cloneString(v *string) *string {
	if v == nil {
		return nil
	}
	return String(*v)
}
