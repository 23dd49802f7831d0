package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"github.com/pders01/screener/internal/api"
	"github.com/pders01/screener/internal/auth"
	"github.com/pders01/screener/internal/debuglog"
	"github.com/pders01/screener/internal/format"
	"github.com/pders01/screener/internal/news"
	"github.com/pders01/screener/internal/screener"
	"github.com/pders01/screener/internal/storage"
)

type sessionMsg struct {
	session auth.Session
	err     error
}

type searchDebounceFireMsg struct {
	seq uint64
}

type suggestionsMsg struct {
	query       string
	suggestions []api.Suggestion
	err         error
}

type filterChangesMsg struct {
	changes []screener.FilterChange
}

type resultsMsg struct {
	key  string
	page api.ResultPage
	err  error
}

type detailsMsg struct {
	symbol  string
	name    string
	content string
}

type watchToggledMsg struct {
	symbol  string
	watched bool
	err     error
}

type dashboardMsg struct {
	watchlist []*storage.WatchItem
	recent    []*storage.RecentSearch
	err       error
}

type statusMsg struct {
	text string
	kind StatusKind
}

type errorMsg struct {
	err error
}

func (a *App) loadSession() tea.Cmd {
	if a.auth == nil {
		return nil
	}
	return func() tea.Msg {
		return sessionMsg{session: a.auth.Load()}
	}
}

// scheduleDebounce records new search text and arms the debounce tick.
func (a *App) scheduleDebounce(value string) tea.Cmd {
	seq := a.debounce.Push(value)
	return tea.Tick(a.debounce.Delay(), func(time.Time) tea.Msg {
		return searchDebounceFireMsg{seq: seq}
	})
}

func (a *App) onDebounceFire(seq uint64) tea.Cmd {
	value, changed := a.debounce.Fire(seq)
	if !changed {
		return nil
	}
	if strings.TrimSpace(value) == "" || a.suggestionSelected || !a.service.AutocompleteEnabled(value) {
		a.suggestions = nil
		a.showSuggestions = false
		return nil
	}
	return a.fetchSuggestions(value)
}

func (a *App) fetchSuggestions(query string) tea.Cmd {
	ctx := a.ctx
	return func() tea.Msg {
		res, err := a.service.Autocomplete(ctx, query)
		return suggestionsMsg{query: query, suggestions: res, err: err}
	}
}

// fetchResults requests the page for the current query. Results for any
// other key are dropped when they arrive.
func (a *App) fetchResults() tea.Cmd {
	key := a.query.Key()
	query := a.query.SearchQuery()
	opts := a.query.Filters()
	ctx := a.ctx
	a.loading = true
	a.refreshColumns()
	return tea.Batch(a.spinner.Tick, func() tea.Msg {
		page, err := a.service.Search(ctx, query, opts)
		return resultsMsg{key: key, page: page, err: err}
	})
}

// recordSearch keeps searches and filtered listings in the recent list.
// Plain unfiltered listings are not recorded.
func (a *App) recordSearch() tea.Cmd {
	if a.store == nil {
		return nil
	}
	applied := a.panel.Coordinator().AppliedFilterCount()
	if strings.TrimSpace(a.query.SearchQuery()) == "" && applied == 0 {
		return nil
	}
	rs := &storage.RecentSearch{
		Query:   a.query.SearchQuery(),
		Params:  a.query.Values().Encode(),
		Filters: applied,
	}
	limit := a.config.Database.MaxRecent
	return func() tea.Msg {
		if err := a.store.RecordSearch(rs, limit); err != nil {
			debuglog.Warnf("Recording search failed: %v", err)
		}
		return nil
	}
}

// loadDetails fetches the summary, the matching list row and the headlines
// in parallel and renders them as one markdown document.
func (a *App) loadDetails(symbol string) tea.Cmd {
	ctx := a.ctx
	width := a.wordWrapWidth()
	return func() tea.Msg {
		var (
			details   *api.StockDetails
			basic     *api.Stock
			headlines []news.Headline
			detailErr error
		)

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			details, detailErr = a.service.StockDetails(gctx, symbol)
			return nil
		})
		g.Go(func() error {
			var err error
			basic, err = a.service.BasicInfo(gctx, symbol)
			if err != nil {
				debuglog.Debugf("Basic info for %s: %v", symbol, err)
			}
			return nil
		})
		if a.news != nil && a.news.Enabled() {
			g.Go(func() error {
				var err error
				headlines, err = a.news.Headlines(gctx, symbol)
				if err != nil && !errors.Is(err, news.ErrDisabled) {
					debuglog.Debugf("Headlines for %s: %v", symbol, err)
				}
				return nil
			})
		}
		_ = g.Wait()

		name := companyName(details, basic)
		var doc string
		if detailErr != nil || details == nil {
			debuglog.Warnf("Stock details for %s: %v", symbol, detailErr)
			doc = fmt.Sprintf("# %s\n\n## Error Loading Stock Details\n\nUnable to load details for %s. Please try again later.\n", symbol, symbol)
		} else {
			doc = detailsMarkdown(symbol, name, details, basic, headlines)
		}

		rendered, err := a.renderMarkdown(doc, width)
		if err != nil {
			return detailsMsg{symbol: symbol, name: name, content: doc}
		}
		return detailsMsg{symbol: symbol, name: name, content: rendered}
	}
}

func companyName(d *api.StockDetails, basic *api.Stock) string {
	if d != nil && d.CompanyName != "" {
		return d.CompanyName
	}
	if basic != nil && basic.CompanyName != "" {
		return basic.CompanyName
	}
	return "Company Name"
}

func detailsMarkdown(symbol, name string, d *api.StockDetails, basic *api.Stock, headlines []news.Headline) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n**%s**\n\n", symbol, name)

	prev := d.PreviousClose
	if prev == nil && basic != nil {
		prev = basic.PreviousClose
	}
	if prev != nil {
		fmt.Fprintf(&b, "Previous Close: **%s**\n\n", format.Currency(prev))
	}

	v := d.Valuation
	b.WriteString("## Valuation\n\n| | |\n|---|---|\n")
	row(&b, "Market Cap", format.MarketCap(v.MarketCap))
	row(&b, "P/E | Forward P/E", format.Number(v.PERatio, 2)+" / "+format.Number(v.ForwardPERatio, 2))
	row(&b, "Enterprise to EBITDA", format.Number(v.EnterpriseToEBITDA, 2))
	row(&b, "Price to Book", format.Number(v.PriceToBook, 2))
	row(&b, "50-Day Moving Average", movingAverage(v.FiftyDayAverage))
	row(&b, "200-Day Moving Average", movingAverage(v.TwoHundredDayAverage))

	g := d.Growth
	b.WriteString("\n## Growth\n\n| | |\n|---|---|\n")
	row(&b, "Revenue Growth (trailing 1 year)", format.Change(g.RevenueGrowth))
	row(&b, "Earnings Growth (trailing 1 year)", format.Change(g.EarningsGrowth))
	row(&b, "Trailing EPS", format.Number(g.TrailingEPS, 2))
	row(&b, "Forward EPS", format.Number(g.ForwardEPS, 2))
	row(&b, "Forward Earnings Growth Estimate (1 year)", format.Change(g.ForwardEarningsGrowth))
	row(&b, "PEG Ratio", format.Number(g.PEG, 2))

	m := d.Margin
	b.WriteString("\n## Margins\n\n| | |\n|---|---|\n")
	row(&b, "Gross Margin", format.Percent(m.GrossMargin, 2))
	row(&b, "Operating Margin", format.Percent(m.OperatingMargin, 2))
	row(&b, "Profit Margin", format.Percent(m.ProfitMargin, 2))
	row(&b, "EBITDA Margin", format.Percent(m.EBITDAMargin, 2))

	b.WriteString("\n## Dividend\n\n| | |\n|---|---|\n")
	row(&b, "Dividend Yield", format.Percent(d.Dividend.DividendYield, 2))
	row(&b, "Payout Ratio", format.Percent(d.Dividend.PayoutRatio, 2))

	if len(headlines) > 0 {
		b.WriteString("\n## Headlines\n\n")
		for _, h := range headlines {
			line := h.Title
			if h.URL != "" {
				line = fmt.Sprintf("[%s](%s)", h.Title, h.URL)
			}
			if !h.Published.IsZero() {
				line += " *" + h.Published.Format("Jan 2, 15:04") + "*"
			}
			b.WriteString("- " + line + "\n")
		}
	}
	return b.String()
}

func row(b *strings.Builder, label, value string) {
	fmt.Fprintf(b, "| %s | %s |\n", label, strings.ReplaceAll(value, "|", "/"))
}

func movingAverage(m api.MovingAverage) string {
	s := format.Currency(m.MovingAverage)
	if m.PercentChangeFromPreviousClose != nil {
		s += " (" + format.Change(m.PercentChangeFromPreviousClose) + ")"
	}
	return s
}

func (a *App) toggleWatch(symbol, name string) tea.Cmd {
	if a.store == nil || symbol == "" {
		return nil
	}
	return func() tea.Msg {
		watched, err := a.store.ToggleWatch(symbol, name)
		return watchToggledMsg{symbol: strings.ToUpper(symbol), watched: watched, err: err}
	}
}

func (a *App) removeWatch(symbol string) tea.Cmd {
	if a.store == nil {
		return nil
	}
	return func() tea.Msg {
		err := a.store.RemoveFromWatchlist(symbol)
		if errors.Is(err, storage.ErrNotFound) {
			err = nil
		}
		return watchToggledMsg{symbol: strings.ToUpper(symbol), watched: false, err: err}
	}
}

func (a *App) loadDashboard() tea.Cmd {
	if a.store == nil {
		return func() tea.Msg { return dashboardMsg{} }
	}
	limit := a.config.Database.MaxRecent
	return func() tea.Msg {
		watchlist, err := a.store.GetWatchlist()
		if err != nil {
			return dashboardMsg{err: wrapErr("loading watchlist", err)}
		}
		recent, err := a.store.GetRecentSearches(limit)
		if err != nil {
			return dashboardMsg{err: wrapErr("loading recent searches", err)}
		}
		return dashboardMsg{watchlist: watchlist, recent: recent}
	}
}

func (a *App) signIn(token, name string) tea.Cmd {
	return func() tea.Msg {
		if err := a.auth.SignIn(token, name); err != nil {
			return sessionMsg{session: a.auth.Current(), err: wrapErr("sign in", err)}
		}
		return sessionMsg{session: a.auth.Current()}
	}
}

func (a *App) signOut() tea.Cmd {
	return func() tea.Msg {
		if err := a.auth.SignOut(); err != nil {
			return errorMsg{err: err}
		}
		return statusMsg{text: MsgSignedOut, kind: StatusInfo}
	}
}

func (a *App) redirect(fn func() error) tea.Cmd {
	return func() tea.Msg {
		if err := fn(); err != nil {
			return errorMsg{err: err}
		}
		return nil
	}
}

func (a *App) openQuote(symbol string) tea.Cmd {
	if a.launcher == nil || symbol == "" {
		return nil
	}
	return func() tea.Msg {
		if err := a.launcher.OpenQuote(symbol); err != nil {
			return errorMsg{err: wrapErr("open quote", err)}
		}
		return statusMsg{text: "Opened " + truncateMiddle(a.launcher.QuoteURL(symbol), 60), kind: StatusInfo}
	}
}

func (a *App) copySymbol(symbol string) tea.Cmd {
	if symbol == "" {
		return nil
	}
	return func() tea.Msg {
		if err := a.copyText(symbol); err != nil {
			return errorMsg{err: wrapErr("copy", err)}
		}
		return statusMsg{text: MsgCopied(symbol), kind: StatusSuccess}
	}
}
