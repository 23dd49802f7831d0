package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"os"
	"os/signal"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/pders01/screener/internal/api"
	"github.com/pders01/screener/internal/filter"
	"github.com/pders01/screener/internal/screener"
	"github.com/pders01/screener/internal/tui"
)

type searchFlags struct {
	filters    []string
	categories []string
	sortBy     string
	order      string
	page       int
	pageSize   int
	preset     string
	savePreset string
	asJSON     bool
}

var sf searchFlags

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Run a screen and print one page of results",
	Example: `  screener search micro
  screener search --filter minPe=5 --filter maxPe=20 --category "Large Cap" --sort pe
  screener search --preset ~/.config/screener/value.toml --json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSearch,
}

func init() {
	f := searchCmd.Flags()
	f.StringArrayVar(&sf.filters, "filter", nil, "Range bound as field=value, e.g. minPe=5 (repeatable)")
	f.StringArrayVar(&sf.categories, "category", nil, "Market cap category, e.g. \"Large Cap\" (repeatable)")
	f.StringVar(&sf.sortBy, "sort", "", "Sort field or column label")
	f.StringVar(&sf.order, "order", "", "Sort order: asc or desc")
	f.IntVar(&sf.page, "page", 0, "Page number, starting at 1")
	f.IntVar(&sf.pageSize, "page-size", 0, "Results per page")
	f.StringVar(&sf.preset, "preset", "", "Load filters from a .toml or .yaml preset")
	f.StringVar(&sf.savePreset, "save-preset", "", "Save the resulting filters as a preset")
	f.BoolVar(&sf.asJSON, "json", false, "Print the result page as JSON")
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if sf.preset != "" {
		cfg.Screener.Preset = expandHome(sf.preset)
	}

	opts, err := screener.InitialOptions(cfg.Screener)
	if err != nil {
		return err
	}
	opts, err = applySearchFlags(opts, sf)
	if err != nil {
		return err
	}

	query := ""
	if len(args) > 0 {
		query = strings.TrimSpace(args[0])
	} else if opts.Query != nil {
		query = *opts.Query
	}

	if sf.savePreset != "" {
		path := expandHome(sf.savePreset)
		if err := filter.SavePreset(path, filter.PresetFromOptions("", query, opts)); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Saved preset to %s\n", path)
	}

	rt, err := openRuntime(cfg, false)
	if err != nil {
		return err
	}
	defer rt.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	page, err := rt.api.Search(ctx, query, opts)
	if err != nil {
		return err
	}
	if sf.asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(page)
	}
	printResults(cmd.OutOrStdout(), query, page)
	return nil
}

// applySearchFlags layers the command line filters over opts. Range fields
// use their wire names; see filter.RangeDimensions.
func applySearchFlags(opts filter.Options, f searchFlags) (filter.Options, error) {
	values := url.Values{}
	for _, kv := range f.filters {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			return opts, fmt.Errorf("invalid filter %q: want field=value", kv)
		}
		k = strings.TrimSpace(k)
		if d, known := filter.DimensionOf(filter.Field(k)); !known || d == filter.DimMarketCapCategories {
			return opts, fmt.Errorf("unknown filter field %q", k)
		}
		values.Set(k, strings.TrimSpace(v))
	}
	_, decoded, err := filter.Decode(values)
	if err != nil {
		return opts, err
	}

	for _, spec := range filter.RangeDimensions {
		for _, field := range []filter.Field{spec.MinField, spec.MaxField} {
			if values.Get(string(field)) == "" {
				continue
			}
			v, _ := decoded.Bound(field)
			_ = opts.SetBound(field, v)
		}
		r, _ := opts.Range(spec.Dimension)
		if errs := filter.ValidateRange(spec, r.Min, r.Max); len(errs) > 0 {
			return opts, fmt.Errorf("%s: %s", spec.Label, firstError(spec, errs))
		}
	}

	if len(f.categories) > 0 {
		cats := make([]string, 0, len(f.categories))
		for _, c := range f.categories {
			tier, ok := tierByName(c)
			if !ok {
				return opts, fmt.Errorf("unknown market cap category %q", c)
			}
			cats = append(cats, tier.Key)
		}
		opts.MarketCapCategories = cats
		opts.MarketCap = filter.DeriveMarketCap(cats)
	}

	if f.sortBy != "" {
		field := f.sortBy
		if mapped, ok := screener.ColumnToField[f.sortBy]; ok {
			field = mapped
		}
		opts.SortBy = filter.String(field)
		if opts.SortOrder == nil {
			opts.SortOrder = filter.Order(filter.SortAsc)
		}
	}
	if f.order != "" {
		switch filter.SortOrder(strings.ToUpper(f.order)) {
		case filter.SortAsc:
			opts.SortOrder = filter.Order(filter.SortAsc)
		case filter.SortDesc:
			opts.SortOrder = filter.Order(filter.SortDesc)
		default:
			return opts, fmt.Errorf("invalid sort order %q: want asc or desc", f.order)
		}
	}
	if f.page < 0 || f.pageSize < 0 {
		return opts, fmt.Errorf("page and page size must be positive")
	}
	if f.page > 0 {
		opts.Page = filter.Int(f.page)
	}
	if f.pageSize > 0 {
		opts.PageSize = filter.Int(f.pageSize)
	}
	return opts, nil
}

func firstError(spec filter.DimensionSpec, errs filter.Errors) string {
	for _, key := range []string{string(spec.MinField), string(spec.MaxField), filter.RangeErrorKey} {
		if msg, ok := errs[key]; ok {
			return msg
		}
	}
	return "invalid range"
}

// tierByName accepts a tier key in any case, with or without the "Cap"
// suffix ("large", "Large Cap").
func tierByName(name string) (filter.CapTier, bool) {
	n := strings.ToLower(strings.TrimSpace(name))
	for _, t := range filter.MarketCapTiers {
		key := strings.ToLower(t.Key)
		if n == key || n+" cap" == key {
			return t, true
		}
	}
	return filter.CapTier{}, false
}

func printResults(w io.Writer, query string, page api.ResultPage) {
	if len(page.Stocks) == 0 {
		if query != "" {
			fmt.Fprintln(w, tui.MsgNoResultsFor(query))
		} else {
			fmt.Fprintln(w, tui.MsgNoResults)
		}
		return
	}

	headers := make([]string, len(screener.Columns))
	for i, c := range screener.Columns {
		headers[i] = c.Label
	}
	cell := lipgloss.NewStyle().Padding(0, 1)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(tui.MutedColor)).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return cell.Bold(true).Foreground(tui.PrimaryColor)
			}
			return cell
		})
	for _, s := range page.Stocks {
		t.Row(tui.StockRow(s)...)
	}

	from, to := screener.ShownRange(page.Page, page.PageSize, len(page.Stocks), page.Total)
	fmt.Fprintln(w, t.String())
	fmt.Fprintf(w, "%s (page %d of %d)\n", tui.MsgShowing(from, to, page.Total), page.Page, max(page.TotalPages, 1))
}
