package screener

import (
	"fmt"
	"strings"

	"github.com/pders01/screener/internal/config"
	"github.com/pders01/screener/internal/filter"
)

// InitialOptions builds the startup query options from the screener config.
// A configured preset overrides the defaults it names.
func InitialOptions(cfg config.ScreenerConfig) (filter.Options, error) {
	o := filter.Defaults()
	if cfg.DefaultPageSize > 0 {
		o.PageSize = filter.Int(cfg.DefaultPageSize)
	}
	if cfg.DefaultSortBy != "" {
		o.SortBy = filter.String(cfg.DefaultSortBy)
	}
	switch filter.SortOrder(strings.ToUpper(cfg.DefaultSortOrder)) {
	case filter.SortDesc:
		o.SortOrder = filter.Order(filter.SortDesc)
	case filter.SortAsc, "":
	default:
		return o, fmt.Errorf("invalid default sort order %q", cfg.DefaultSortOrder)
	}
	if cfg.Preset == "" {
		return o, nil
	}
	p, err := filter.LoadPreset(cfg.Preset)
	if err != nil {
		return o, err
	}
	po, err := p.Options()
	if err != nil {
		return o, err
	}
	if p.PageSize == 0 {
		po.PageSize = o.PageSize
	}
	if p.SortBy == "" {
		po.SortBy, po.SortOrder = o.SortBy, o.SortOrder
	}
	return po, nil
}

// PageSizes returns the configured page size choices, falling back to
// PageSizeOptions.
func PageSizes(cfg config.ScreenerConfig) []int {
	var out []int
	for _, n := range cfg.PageSizeOptions {
		if n > 0 {
			out = append(out, n)
		}
	}
	if len(out) == 0 {
		return PageSizeOptions
	}
	return out
}

// NextPageSize steps through sizes from current. Unknown sizes snap to the
// nearest option in the direction of travel.
func NextPageSize(sizes []int, current, step int) int {
	if len(sizes) == 0 {
		return current
	}
	for i, n := range sizes {
		if n == current {
			return sizes[min(max(i+step, 0), len(sizes)-1)]
		}
	}
	if step > 0 {
		for _, n := range sizes {
			if n > current {
				return n
			}
		}
		return sizes[len(sizes)-1]
	}
	for i := len(sizes) - 1; i >= 0; i-- {
		if sizes[i] < current {
			return sizes[i]
		}
	}
	return sizes[0]
}
