package filter

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Preset is a named, persisted set of filters. Ranges are keyed by
// dimension name (e.g. "pe", "dividend").
type Preset struct {
	Name                string           `toml:"name" yaml:"name"`
	Query               string           `toml:"query,omitempty" yaml:"query,omitempty"`
	SortBy              string           `toml:"sort_by,omitempty" yaml:"sort_by,omitempty"`
	SortOrder           string           `toml:"sort_order,omitempty" yaml:"sort_order,omitempty"`
	PageSize            int              `toml:"page_size,omitempty" yaml:"page_size,omitempty"`
	Ranges              map[string]Range `toml:"ranges,omitempty" yaml:"ranges,omitempty"`
	MarketCapCategories []string         `toml:"market_cap_categories,omitempty" yaml:"market_cap_categories,omitempty"`
}

// Options converts the preset into validated options, starting from the
// defaults. Market-cap bounds are derived when categories are present.
func (p Preset) Options() (Options, error) {
	o := Defaults()
	if p.Query != "" {
		o.Query = String(p.Query)
	}
	if p.SortBy != "" {
		o.SortBy = String(p.SortBy)
	}
	if p.SortOrder != "" {
		switch SortOrder(strings.ToUpper(p.SortOrder)) {
		case SortAsc:
			o.SortOrder = Order(SortAsc)
		case SortDesc:
			o.SortOrder = Order(SortDesc)
		default:
			return Options{}, fmt.Errorf("preset %q: invalid sort order %q", p.Name, p.SortOrder)
		}
	}
	if p.PageSize > 0 {
		o.PageSize = Int(p.PageSize)
	}
	for name, r := range p.Ranges {
		spec, ok := SpecFor(Dimension(name))
		if !ok {
			return Options{}, fmt.Errorf("preset %q: %w: %s", p.Name, ErrUnknownDimension, name)
		}
		if errs := ValidateRange(spec, r.Min, r.Max); len(errs) > 0 {
			return Options{}, fmt.Errorf("preset %q: invalid %s range", p.Name, name)
		}
		_ = o.SetRange(spec.Dimension, r)
	}
	if len(p.MarketCapCategories) > 0 {
		for _, c := range p.MarketCapCategories {
			if _, ok := TierByKey(c); !ok {
				return Options{}, fmt.Errorf("preset %q: unknown market cap category %q", p.Name, c)
			}
		}
		o.MarketCapCategories = append([]string(nil), p.MarketCapCategories...)
		o.MarketCap = DeriveMarketCap(o.MarketCapCategories)
	}
	return o, nil
}

// PresetFromOptions captures the filter dimensions of o. The derived
// market-cap range is not stored when categories drive it.
func PresetFromOptions(name, query string, o Options) Preset {
	p := Preset{Name: name, Query: query, Ranges: map[string]Range{}}
	if o.SortBy != nil {
		p.SortBy = *o.SortBy
	}
	if o.SortOrder != nil {
		p.SortOrder = string(*o.SortOrder)
	}
	if o.PageSize != nil {
		p.PageSize = *o.PageSize
	}
	for _, spec := range RangeDimensions {
		if spec.Dimension == DimMarketCap && len(o.MarketCapCategories) > 0 {
			continue
		}
		if r := *o.rangePtr(spec.Dimension); r.IsSet() {
			p.Ranges[string(spec.Dimension)] = r.clone()
		}
	}
	if len(o.MarketCapCategories) > 0 {
		p.MarketCapCategories = append([]string(nil), o.MarketCapCategories...)
	}
	return p
}

// LoadPreset reads a preset from a .toml, .yaml or .yml file.
func LoadPreset(path string) (Preset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Preset{}, fmt.Errorf("reading preset: %w", err)
	}
	var p Preset
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = toml.Unmarshal(data, &p)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &p)
	default:
		return Preset{}, fmt.Errorf("unsupported preset format: %s", filepath.Ext(path))
	}
	if err != nil {
		return Preset{}, fmt.Errorf("parsing preset: %w", err)
	}
	if p.Name == "" {
		p.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return p, nil
}

// SavePreset writes p in the format implied by the file extension.
func SavePreset(path string, p Preset) error {
	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		data, err = toml.Marshal(p)
	case ".yaml", ".yml":
		data, err = yaml.Marshal(p)
	default:
		return fmt.Errorf("unsupported preset format: %s", filepath.Ext(path))
	}
	if err != nil {
		return fmt.Errorf("encoding preset: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating preset directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing preset: %w", err)
	}
	return nil
}
