package filter

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Encode serialises a query and its options as backend parameters. Only
// present fields are written. The backend pages from zero, so the page is
// decremented on the way out. The search text is always the query
// argument; o.Query is a preset's starting text, not a wire field.
func Encode(query string, o Options) url.Values {
	v := url.Values{}
	if query != "" {
		v.Set("query", query)
	}
	if o.Page != nil {
		v.Set("page", strconv.Itoa(max(*o.Page-1, 0)))
	}
	if o.PageSize != nil {
		v.Set("pageSize", strconv.Itoa(*o.PageSize))
	}
	if o.SortBy != nil {
		v.Set("sortBy", *o.SortBy)
	}
	if o.SortOrder != nil {
		v.Set("sortOrder", string(*o.SortOrder))
	}
	for _, spec := range RangeDimensions {
		r := *o.rangePtr(spec.Dimension)
		if r.Min != nil {
			v.Set(string(spec.MinField), formatFloat(*r.Min))
		}
		if r.Max != nil {
			v.Set(string(spec.MaxField), formatFloat(*r.Max))
		}
	}
	if len(o.MarketCapCategories) > 0 {
		v.Set(string(FieldMarketCapCategories), strings.Join(o.MarketCapCategories, ","))
	}
	return v
}

// Decode is the inverse of Encode.
func Decode(v url.Values) (string, Options, error) {
	var o Options
	query := v.Get("query")

	if s := v.Get("page"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return "", Options{}, fmt.Errorf("decoding page: %w", err)
		}
		o.Page = Int(n + 1)
	}
	if s := v.Get("pageSize"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return "", Options{}, fmt.Errorf("decoding pageSize: %w", err)
		}
		o.PageSize = Int(n)
	}
	if s := v.Get("sortBy"); s != "" {
		o.SortBy = String(s)
	}
	if s := v.Get("sortOrder"); s != "" {
		switch SortOrder(strings.ToUpper(s)) {
		case SortAsc:
			o.SortOrder = Order(SortAsc)
		case SortDesc:
			o.SortOrder = Order(SortDesc)
		default:
			return "", Options{}, fmt.Errorf("decoding sortOrder: invalid value %q", s)
		}
	}
	for _, spec := range RangeDimensions {
		for _, f := range []Field{spec.MinField, spec.MaxField} {
			s := v.Get(string(f))
			if s == "" {
				continue
			}
			n, err := ParseBound(s)
			if err != nil {
				return "", Options{}, fmt.Errorf("decoding %s: %w", f, err)
			}
			_ = o.SetBound(f, n)
		}
	}
	for _, raw := range v[string(FieldMarketCapCategories)] {
		for _, c := range strings.Split(raw, ",") {
			if c = strings.TrimSpace(c); c != "" {
				o.MarketCapCategories = append(o.MarketCapCategories, c)
			}
		}
	}
	return query, o, nil
}

// Key is the canonical identity of a query, suitable as a cache key.
func Key(query string, o Options) string {
	return Encode(query, o).Encode()
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
