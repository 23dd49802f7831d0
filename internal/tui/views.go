package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/pders01/screener/internal/api"
	"github.com/pders01/screener/internal/auth"
	"github.com/pders01/screener/internal/filter"
	"github.com/pders01/screener/internal/format"
	"github.com/pders01/screener/internal/screener"
)

func (a *App) renderLanding(height int) string {
	rows := []string{GetWelcomeMessage(), ""}
	if a.session.Present() {
		rows = append(rows, HeaderStyle.Render("Welcome back, "+a.session.User.Greeting()), "")
	}
	rows = append(rows, renderMuted("Search and discover stock information with powerful filters"), "")
	for _, f := range Features {
		rows = append(rows, "• "+f)
	}
	if a.showHelp {
		rows = append(rows, "", a.renderHelpOverlay())
	}
	return renderCentered(a.width, height, lipgloss.JoinVertical(lipgloss.Center, rows...))
}

func (a *App) renderScreener() string {
	title := "Stock Listings"
	if a.query.HasSearched() {
		title = "Search Results"
	}

	inputWidth := max(a.width-12, 10)
	search := renderInputFrame(a.searchInput.View(), a.focus == focusSearch, inputWidth)
	parts := []string{renderHeader("› "+title, a.resultsSubtitle(), a.width), search}

	if a.showSuggestions && a.focus == focusSearch {
		parts = append(parts, a.renderSuggestions())
	}

	parts = append(parts, a.renderFilterBar())
	if a.focus == focusFilters {
		parts = append(parts, a.renderFilterPanel())
	}

	switch {
	case a.loading && !a.hasResults:
		parts = append(parts, "", a.spinner.View()+" "+MsgLoading)
	case a.hasResults && len(a.results.Stocks) == 0:
		empty := MsgNoResults
		if q := a.query.SearchQuery(); q != "" {
			empty = MsgNoResultsFor(q)
		}
		parts = append(parts, "", renderMuted(empty))
	default:
		parts = append(parts, a.table.View())
	}

	if bar := renderPageBar(a.query.Page(), a.results.TotalPages, a.width); bar != "" && a.hasResults {
		parts = append(parts, bar)
	}
	footer := fmt.Sprintf("Page size: %d", a.query.PageSize())
	if a.focus == focusGoto {
		footer += "  Go to page: " + a.gotoInput.View()
	}
	if a.loading && a.hasResults {
		footer += "  " + a.spinner.View()
	}
	parts = append(parts, renderMuted(footer))
	if a.showHelp {
		parts = append(parts, a.renderHelpOverlay())
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// resultsSubtitle is the "Showing a – b of n results" line.
func (a *App) resultsSubtitle() string {
	if !a.hasResults {
		return ""
	}
	from, to := screener.ShownRange(a.results.Page, a.results.PageSize, len(a.results.Stocks), a.results.Total)
	return MsgShowing(from, to, a.results.Total)
}

func (a *App) renderSuggestions() string {
	var rows []string
	for i, s := range a.suggestions {
		line := fmt.Sprintf("%-8s %s", s.Symbol, truncateEnd(s.Name, max(a.width-16, 10)))
		if i == a.suggestionCursor {
			line = SelectedItemStyle.Render(line)
		}
		rows = append(rows, line)
	}
	return PanelStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (a *App) renderFilterBar() string {
	coord := a.panel.Coordinator()
	applied := coord.Applied()
	chips := make([]string, 0, len(screener.WidgetOrder)+1)
	for i, d := range screener.WidgetOrder {
		chips = append(chips, renderChip(i+1, dimensionLabel(d), a.panel.State(d), dimensionApplied(applied, d),
			a.focus == focusFilters && a.filterIndex == i))
	}
	summary := renderMuted(MsgFilterSummary(coord.AppliedFilterCount(), coord.DirtyFilterCount()))
	return lipgloss.JoinHorizontal(lipgloss.Center, append(chips, " ", summary)...)
}

func dimensionLabel(d filter.Dimension) string {
	if d == filter.DimMarketCapCategories {
		return "Market Cap"
	}
	if spec, ok := filter.SpecFor(d); ok {
		return spec.Label
	}
	return string(d)
}

func dimensionApplied(o filter.Options, d filter.Dimension) bool {
	if d == filter.DimMarketCapCategories {
		return len(o.MarketCapCategories) > 0
	}
	r, err := o.Range(d)
	return err == nil && r.IsSet()
}

func (a *App) renderFilterPanel() string {
	d := a.focusedDimension()
	var body []string

	if d == filter.DimMarketCapCategories {
		cats := a.panel.Categories()
		body = append(body, HeaderStyle.Render("Market Cap"))
		for i, t := range filter.MarketCapTiers {
			box := "[ ]"
			if cats.Selected(t.Key) {
				box = "[x]"
			}
			line := box + " " + t.Label
			if i == a.categoryCursor {
				line = SelectedItemStyle.Render(line)
			}
			body = append(body, line)
		}
		return PanelStyle.Render(lipgloss.JoinVertical(lipgloss.Left, body...))
	}

	w := a.panel.Range(d)
	if w == nil {
		return ""
	}
	spec := w.Spec()
	body = append(body, HeaderStyle.Render(spec.Title))
	body = append(body, lipgloss.JoinHorizontal(lipgloss.Center,
		renderInputFrame(a.minInput.View(), a.minInput.Focused(), 12),
		" to ",
		renderInputFrame(a.maxInput.View(), a.maxInput.Focused(), 12),
	))
	errs := w.Errors()
	for _, key := range []string{string(spec.MinField), string(spec.MaxField), filter.RangeErrorKey} {
		if msg, ok := errs[key]; ok {
			body = append(body, ErrorMessageStyle.Render(msg))
		}
	}
	if d == filter.DimMarketCap && len(a.panel.Coordinator().Applied().MarketCapCategories) > 0 {
		body = append(body, renderMuted(MsgDerivedCap))
	}
	return PanelStyle.Render(lipgloss.JoinVertical(lipgloss.Left, body...))
}

func (a *App) renderDetails(height int) string {
	if a.loadingDetail {
		return renderCentered(a.width, height, a.spinner.View()+" "+MsgLoadingDetails)
	}
	header := renderHeader("› "+a.detailSymbol, a.detailName, a.width)
	return lipgloss.JoinVertical(lipgloss.Top, header, a.viewport.View())
}

func (a *App) renderDashboard(height int) string {
	switch a.session.Status {
	case auth.StatusLoading:
		return renderCentered(a.width, height, a.spinner.View()+" "+MsgCheckingAuth)
	case auth.StatusAbsent:
		return renderCentered(a.width, height, renderMuted(MsgSignInRequired))
	}

	name := ""
	if a.session.User != nil {
		name = a.session.User.Greeting()
	}
	parts := []string{renderHeader("› dashboard", "Signed in as "+name, a.width), ""}

	parts = append(parts, a.sectionTitle("Watchlist", sectionWatchlist))
	if len(a.watchlist) == 0 {
		parts = append(parts, renderMuted("  Nothing watched yet. Press "+a.keyHandler.bind(a.config.Keys.Bindings.Watch)+" on a stock."))
	}
	for i, w := range a.watchlist {
		line := fmt.Sprintf("  %-8s %s", w.Symbol, truncateEnd(w.Name, max(a.width-30, 10)))
		line += renderMuted("  added " + w.AddedAt.Format("Jan 2"))
		parts = append(parts, a.dashboardLine(line, sectionWatchlist, i))
	}

	parts = append(parts, "", a.sectionTitle("Recent searches", sectionRecent))
	if len(a.recent) == 0 {
		parts = append(parts, renderMuted("  No recent searches"))
	}
	for i, r := range a.recent {
		label := r.Query
		if label == "" {
			label = "(all stocks)"
		}
		if r.Filters > 0 {
			label += fmt.Sprintf(" • %d filters", r.Filters)
		}
		line := "  " + truncateEnd(label, max(a.width-24, 10)) + renderMuted("  "+r.SearchedAt.Format("Jan 2, 15:04"))
		parts = append(parts, a.dashboardLine(line, sectionRecent, i))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (a *App) sectionTitle(title string, s dashboardSection) string {
	if a.dashboardSection == s {
		return HeaderStyle.Render("▸ " + title)
	}
	return renderMuted("  " + title)
}

func (a *App) dashboardLine(line string, s dashboardSection, i int) string {
	if a.dashboardSection == s && a.dashboardCursor == i {
		return SelectedItemStyle.Render(line)
	}
	return line
}

func (a *App) renderSignIn(height int) string {
	width := max(min(a.width-12, 60), 10)
	return renderCentered(a.width, height, lipgloss.JoinVertical(lipgloss.Center,
		TitleStyle.Render("› sign in"),
		"",
		renderMuted("Sign in on the web, then paste the session token here."),
		"",
		renderInputFrame(a.nameInput.View(), a.nameInput.Focused(), width),
		renderInputFrame(a.tokenInput.View(), a.tokenInput.Focused(), width),
		"",
		renderHelp("Enter: sign in • Esc: cancel"),
	))
}

func (a *App) renderHelpOverlay() string {
	lines := a.keyHandler.GetHelpForCurrentView()
	return PanelStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// StockRow formats one result as table cells in screener.Columns order.
func StockRow(s api.Stock) table.Row {
	return table.Row{
		s.Ticker,
		s.CompanyName,
		format.MarketCap(s.MarketCap),
		format.Currency(s.PreviousClose),
		format.Currency(s.FiftyDayAverage),
		format.Currency(s.TwoHundredDayAverage),
		format.Number(s.PERatio, 2),
		format.Number(s.ForwardPERatio, 2),
		format.Percent(s.DividendYield, 2),
		format.Percent(s.PayoutRatio, 2),
	}
}
