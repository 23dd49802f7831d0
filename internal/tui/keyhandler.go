package tui

import (
	"net/url"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pders01/screener/internal/auth"
	"github.com/pders01/screener/internal/config"
	"github.com/pders01/screener/internal/filter"
	"github.com/pders01/screener/internal/screener"
	"github.com/pders01/screener/internal/storage"
	"github.com/pders01/screener/internal/validation"
)

type KeyHandler struct {
	app         *App
	config      *config.Config
	modifierKey string
}

func NewKeyHandler(app *App, cfg *config.Config) *KeyHandler {
	modifierKey := cfg.Keys.Modifier + "+"
	return &KeyHandler{app: app, config: cfg, modifierKey: modifierKey}
}

// bind returns the full key string of a modifier binding, e.g. "ctrl+w".
func (kh *KeyHandler) bind(key string) string {
	return kh.modifierKey + key
}

func (kh *KeyHandler) HandleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" || key == kh.bind(kh.config.Keys.Bindings.Quit) {
		kh.app.Close()
		return kh.app, tea.Quit
	}

	if kh.app.view == ViewScreener && kh.app.focus == focusFilters {
		return kh.handleFilterKeys(msg)
	}

	if kh.isInTextInputMode() {
		return kh.handleTextInputMode(msg)
	}

	if model, cmd, handled := kh.handleCustomKeys(key); handled {
		return model, cmd
	}

	return kh.delegateToCharm(msg)
}

func (kh *KeyHandler) isInTextInputMode() bool {
	switch kh.app.view {
	case ViewScreener:
		return kh.app.focus == focusSearch || kh.app.focus == focusGoto
	case ViewSignIn:
		return true
	default:
		return false
	}
}

func (kh *KeyHandler) handleTextInputMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	a := kh.app
	switch {
	case a.view == ViewSignIn:
		return kh.handleSignInInput(msg)
	case a.focus == focusGoto:
		return kh.handleGotoInput(msg)
	default:
		return kh.handleSearchInput(msg)
	}
}

func (kh *KeyHandler) handleSearchInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	a := kh.app
	switch msg.String() {
	case "esc":
		if a.searchInput.Value() == "" {
			kh.focusTable()
			return a, nil
		}
		// Clearing must not let the stale debounced text reopen the
		// dropdown, and it returns the listing to the unsearched query.
		a.searchInput.SetValue("")
		a.suggestions = nil
		a.showSuggestions = false
		a.suggestionSelected = false
		debounce := a.scheduleDebounce("")
		a.query.Search("")
		return a, tea.Batch(debounce, a.fetchResults())

	case "enter":
		if a.showSuggestions && a.suggestionCursor < len(a.suggestions) {
			return a, kh.selectSuggestion(a.suggestions[a.suggestionCursor].Symbol)
		}
		value := strings.TrimSpace(a.searchInput.Value())
		if value == "" {
			return a, nil
		}
		return a, kh.runSearch(value)

	case "down", "ctrl+n":
		if a.showSuggestions {
			a.suggestionCursor = min(a.suggestionCursor+1, len(a.suggestions)-1)
			return a, nil
		}
		kh.focusTable()
		return a, nil

	case "up", "ctrl+p":
		if a.showSuggestions && a.suggestionCursor > 0 {
			a.suggestionCursor--
		}
		return a, nil

	case "tab":
		kh.focusTable()
		return a, nil
	}

	prev := a.searchInput.Value()
	var cmd tea.Cmd
	a.searchInput, cmd = a.searchInput.Update(msg)
	if value := a.searchInput.Value(); value != prev {
		a.suggestionSelected = false
		return a, tea.Batch(cmd, a.scheduleDebounce(value))
	}
	return a, cmd
}

func (kh *KeyHandler) selectSuggestion(symbol string) tea.Cmd {
	a := kh.app
	a.searchInput.SetValue(symbol)
	a.searchInput.CursorEnd()
	a.suggestionSelected = true
	return tea.Batch(a.scheduleDebounce(symbol), kh.runSearch(symbol))
}

func (kh *KeyHandler) runSearch(query string) tea.Cmd {
	a := kh.app
	a.query.Search(query)
	a.showSuggestions = false
	a.table.SetCursor(0)
	kh.focusTable()
	return a.fetchResults()
}

func (kh *KeyHandler) handleGotoInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	a := kh.app
	switch msg.String() {
	case "esc":
		a.gotoInput.SetValue("")
		kh.focusTable()
		return a, nil
	case "enter":
		ok := a.query.GoToPage(a.gotoInput.Value(), a.totalPages())
		a.gotoInput.SetValue("")
		kh.focusTable()
		if !ok {
			a.setStatus("Enter a page between 1 and "+strconv.Itoa(a.totalPages()), StatusWarn)
			return a, nil
		}
		return a, a.fetchResults()
	}
	var cmd tea.Cmd
	a.gotoInput, cmd = a.gotoInput.Update(msg)
	return a, cmd
}

func (kh *KeyHandler) handleSignInInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	a := kh.app
	switch msg.String() {
	case kh.config.Keys.Bindings.Back:
		m, cmd, _ := kh.navigateBack()
		return m, cmd
	case kh.bind(kh.config.Keys.Bindings.Open):
		return a, a.redirect(a.auth.RedirectToSignIn)
	case "ctrl+u":
		return a, a.redirect(a.auth.RedirectToSignUp)
	case "tab", "shift+tab", "up", "down":
		if a.tokenInput.Focused() {
			a.tokenInput.Blur()
			return a, a.nameInput.Focus()
		}
		a.nameInput.Blur()
		return a, a.tokenInput.Focus()
	case "enter":
		token := strings.TrimSpace(a.tokenInput.Value())
		if token == "" {
			a.nameInput.Blur()
			return a, a.tokenInput.Focus()
		}
		name := a.nameInput.Value()
		a.tokenInput.SetValue("")
		return a, a.signIn(token, name)
	}

	var cmd tea.Cmd
	if a.tokenInput.Focused() {
		a.tokenInput, cmd = a.tokenInput.Update(msg)
	} else {
		a.nameInput, cmd = a.nameInput.Update(msg)
	}
	return a, cmd
}

// handleFilterKeys routes keys to the open filter widget.
func (kh *KeyHandler) handleFilterKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	a := kh.app
	key := msg.String()
	d := a.focusedDimension()

	switch key {
	case "esc":
		a.panel.Close()
		kh.focusTable()
		return a, nil
	case "enter":
		if a.panel.State(d) == screener.OpenInvalid {
			a.setStatus(MsgFiltersInvalid, StatusWarn)
			return a, nil
		}
		a.panel.Apply(d)
		a.panel.Close()
		kh.focusTable()
		return a, nil
	case kh.bind(kh.config.Keys.Bindings.ApplyAll):
		kh.applyAll()
		return a, nil
	case kh.bind(kh.config.Keys.Bindings.Reset):
		kh.resetFilters()
		return a, nil
	case "ctrl+n":
		kh.openFilter((a.filterIndex + 1) % len(screener.WidgetOrder))
		return a, nil
	case "ctrl+p":
		kh.openFilter((a.filterIndex + len(screener.WidgetOrder) - 1) % len(screener.WidgetOrder))
		return a, nil
	}

	if d == filter.DimMarketCapCategories {
		return kh.handleCategoryKeys(key)
	}
	return kh.handleRangeKeys(msg, d)
}

func (kh *KeyHandler) handleCategoryKeys(key string) (tea.Model, tea.Cmd) {
	a := kh.app
	switch key {
	case "up", "k":
		if a.categoryCursor > 0 {
			a.categoryCursor--
		}
	case "down", "j":
		if a.categoryCursor < len(filter.MarketCapTiers)-1 {
			a.categoryCursor++
		}
	case " ", "x":
		a.panel.ToggleCategory(filter.MarketCapTiers[a.categoryCursor].Key)
	case "backspace", "delete":
		a.panel.ClearCategories()
	}
	return a, nil
}

func (kh *KeyHandler) handleRangeKeys(msg tea.KeyMsg, d filter.Dimension) (tea.Model, tea.Cmd) {
	a := kh.app
	switch msg.String() {
	case "tab", "shift+tab", "left", "right":
		if msg.String() == "left" || msg.String() == "right" {
			// left and right move the text cursor unless at an edge
			in := a.minInput
			if a.maxInput.Focused() {
				in = a.maxInput
			}
			atStart := in.Position() == 0
			atEnd := in.Position() == len([]rune(in.Value()))
			if (msg.String() == "left" && !atStart) || (msg.String() == "right" && !atEnd) {
				break
			}
		}
		if a.minInput.Focused() {
			a.minInput.Blur()
			return a, a.maxInput.Focus()
		}
		a.maxInput.Blur()
		return a, a.minInput.Focus()
	}

	var cmd tea.Cmd
	var err error
	if a.maxInput.Focused() {
		prev := a.maxInput.Value()
		a.maxInput, cmd = a.maxInput.Update(msg)
		if a.maxInput.Value() != prev {
			err = a.panel.EditMax(d, a.maxInput.Value())
		}
	} else {
		prev := a.minInput.Value()
		a.minInput, cmd = a.minInput.Update(msg)
		if a.minInput.Value() != prev {
			err = a.panel.EditMin(d, a.minInput.Value())
		}
	}
	if err != nil {
		a.setStatus(err.Error(), StatusWarn)
	}
	return a, cmd
}

// openFilter moves interaction to the widget at index i, closing whichever
// widget was open before.
func (kh *KeyHandler) openFilter(i int) {
	a := kh.app
	d := screener.WidgetOrder[i]
	a.panel.Focus(d)
	if !a.panel.IsOpen(d) {
		a.panel.Toggle(d)
	}
	a.filterIndex = i
	a.focus = focusFilters
	a.searchInput.Blur()
	a.showSuggestions = false
	if w := a.panel.Range(d); w != nil {
		a.minInput.SetValue(w.MinText())
		a.maxInput.SetValue(w.MaxText())
		a.maxInput.Blur()
		a.minInput.Focus()
	}
	a.layout()
}

func (kh *KeyHandler) applyAll() {
	a := kh.app
	if !a.panel.ApplyAll() {
		if a.panel.Coordinator().HasDirty() {
			a.setStatus(MsgFiltersInvalid, StatusWarn)
		}
		return
	}
	kh.focusTable()
}

func (kh *KeyHandler) resetFilters() {
	a := kh.app
	a.panel.Reset()
	a.minInput.SetValue("")
	a.maxInput.SetValue("")
	kh.focusTable()
}

func (kh *KeyHandler) focusTable() {
	a := kh.app
	a.focus = focusTable
	a.searchInput.Blur()
	a.minInput.Blur()
	a.maxInput.Blur()
	a.gotoInput.Blur()
	a.showSuggestions = false
	a.table.Focus()
	a.layout()
}

func (kh *KeyHandler) focusSearch() tea.Cmd {
	a := kh.app
	a.focus = focusSearch
	a.table.Blur()
	a.refreshColumns()
	return a.searchInput.Focus()
}

func (kh *KeyHandler) handleCustomKeys(key string) (tea.Model, tea.Cmd, bool) {
	a := kh.app
	b := kh.config.Keys.Bindings

	if a.status != "" || a.err != nil {
		a.clearStatus()
	}

	switch key {
	case b.Help:
		a.showHelp = !a.showHelp
		return a, nil, true
	case kh.bind(b.Dashboard):
		return a, a.openDashboard(), true
	case kh.bind(b.SignIn):
		return a, kh.openSignIn(), true
	case kh.bind(b.SignOut):
		if a.auth == nil || !a.session.Present() {
			return a, nil, true
		}
		a.session = auth.Session{Status: auth.StatusAbsent}
		if a.view == ViewDashboard {
			a.view = ViewLanding
		}
		return a, a.signOut(), true
	}

	switch a.view {
	case ViewLanding:
		return kh.handleLandingKeys(key)
	case ViewScreener:
		return kh.handleScreenerKeys(key)
	case ViewDetails:
		return kh.handleDetailsKeys(key)
	case ViewDashboard:
		return kh.handleDashboardKeys(key)
	}
	return a, nil, false
}

func (kh *KeyHandler) handleLandingKeys(key string) (tea.Model, tea.Cmd, bool) {
	a := kh.app
	switch key {
	case "enter", "/", kh.bind(kh.config.Keys.Bindings.Search):
		return a, kh.openScreener(), true
	case "q":
		a.Close()
		return a, tea.Quit, true
	}
	return a, nil, false
}

func (kh *KeyHandler) handleScreenerKeys(key string) (tea.Model, tea.Cmd, bool) {
	a := kh.app
	b := kh.config.Keys.Bindings

	switch key {
	case "/", kh.bind(b.Search):
		return a, kh.focusSearch(), true
	case "1", "2", "3", "4", "5", "6", "7":
		i := int(key[0] - '1')
		if i < len(screener.WidgetOrder) {
			kh.openFilter(i)
		}
		return a, nil, true
	case kh.bind(b.ApplyAll):
		kh.applyAll()
		return a, nil, true
	case kh.bind(b.Reset):
		kh.resetFilters()
		return a, nil, true
	case "[":
		n := len(sortableColumns())
		a.sortCursor = (a.sortCursor + n - 1) % n
		a.refreshColumns()
		return a, nil, true
	case "]":
		a.sortCursor = (a.sortCursor + 1) % len(sortableColumns())
		a.refreshColumns()
		return a, nil, true
	case "s":
		if !a.query.OnSort(a.sortColumn().Label) {
			return a, nil, true
		}
		a.table.SetCursor(0)
		return a, a.fetchResults(), true
	case "n", "right":
		if a.query.Page() >= a.totalPages() {
			return a, nil, true
		}
		a.query.OnPageChange(a.query.Page() + 1)
		a.table.SetCursor(0)
		return a, a.fetchResults(), true
	case "p", "left":
		if a.query.Page() <= 1 {
			return a, nil, true
		}
		a.query.OnPageChange(a.query.Page() - 1)
		a.table.SetCursor(0)
		return a, a.fetchResults(), true
	case "+", "=", "-":
		step := 1
		if key == "-" {
			step = -1
		}
		size := screener.NextPageSize(a.pageSizes, a.query.PageSize(), step)
		if size == a.query.PageSize() {
			return a, nil, true
		}
		a.query.OnPageSizeChange(size)
		a.table.SetCursor(0)
		return a, a.fetchResults(), true
	case ":", "g":
		if a.totalPages() <= 1 {
			return a, nil, true
		}
		a.focus = focusGoto
		a.table.Blur()
		return a, a.gotoInput.Focus(), true
	case "enter":
		if s, ok := a.selectedStock(); ok {
			return a, kh.openDetails(s.Ticker), true
		}
		return a, nil, true
	case b.Back:
		return kh.navigateBack()
	}

	if model, cmd, handled := kh.handleSymbolKeys(key); handled {
		return model, cmd, true
	}
	return a, nil, false
}

// handleSymbolKeys are the actions on the current symbol shared by the
// screener, details and dashboard views.
func (kh *KeyHandler) handleSymbolKeys(key string) (tea.Model, tea.Cmd, bool) {
	a := kh.app
	b := kh.config.Keys.Bindings
	symbol, name := a.currentSymbol()

	switch key {
	case kh.bind(b.Watch):
		return a, a.toggleWatch(symbol, name), true
	case kh.bind(b.Open):
		return a, a.openQuote(symbol), true
	case "y":
		return a, a.copySymbol(symbol), true
	}
	return a, nil, false
}

func (kh *KeyHandler) handleDetailsKeys(key string) (tea.Model, tea.Cmd, bool) {
	if key == kh.config.Keys.Bindings.Back {
		m, cmd, _ := kh.navigateBack()
		return m, cmd, true
	}
	return kh.handleSymbolKeys(key)
}

func (kh *KeyHandler) handleDashboardKeys(key string) (tea.Model, tea.Cmd, bool) {
	a := kh.app
	switch key {
	case kh.config.Keys.Bindings.Back:
		return kh.navigateBack()
	case "tab", "shift+tab":
		if a.dashboardSection == sectionWatchlist {
			a.dashboardSection = sectionRecent
		} else {
			a.dashboardSection = sectionWatchlist
		}
		a.dashboardCursor = 0
		return a, nil, true
	case "up", "k":
		if a.dashboardCursor > 0 {
			a.dashboardCursor--
		}
		return a, nil, true
	case "down", "j":
		a.dashboardCursor++
		a.clampDashboardCursor()
		return a, nil, true
	case "enter":
		if a.dashboardSection == sectionWatchlist {
			if a.dashboardCursor < len(a.watchlist) {
				return a, kh.openDetails(a.watchlist[a.dashboardCursor].Symbol), true
			}
			return a, nil, true
		}
		if a.dashboardCursor < len(a.recent) {
			return a, kh.restoreSearch(a.recent[a.dashboardCursor]), true
		}
		return a, nil, true
	case "x", "delete", "backspace":
		if a.dashboardSection == sectionWatchlist && a.dashboardCursor < len(a.watchlist) {
			return a, a.removeWatch(a.watchlist[a.dashboardCursor].Symbol), true
		}
		return a, nil, true
	case "c":
		if a.dashboardSection == sectionRecent && a.store != nil {
			return a, func() tea.Msg {
				if err := a.store.ClearRecentSearches(); err != nil {
					return errorMsg{err: err}
				}
				return a.loadDashboard()()
			}, true
		}
		return a, nil, true
	}
	return kh.handleSymbolKeys(key)
}

func (kh *KeyHandler) delegateToCharm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	a := kh.app
	var cmd tea.Cmd
	switch a.view {
	case ViewScreener:
		a.table, cmd = a.table.Update(msg)
	case ViewDetails:
		a.viewport, cmd = a.viewport.Update(msg)
	}
	return a, cmd
}

func (kh *KeyHandler) openScreener() tea.Cmd {
	a := kh.app
	a.previousView = a.view
	a.view = ViewScreener
	cmds := []tea.Cmd{kh.focusSearch()}
	if !a.hasResults && !a.loading {
		cmds = append(cmds, a.fetchResults())
	}
	return tea.Batch(cmds...)
}

// openDetails shows the detail view for symbol. An invalid ticker returns
// to the screener instead.
func (kh *KeyHandler) openDetails(symbol string) tea.Cmd {
	a := kh.app
	sym, err := validation.ValidateSymbol(symbol)
	if err != nil {
		a.view = ViewScreener
		a.setStatus(err.Error(), StatusWarn)
		if !a.hasResults && !a.loading {
			return a.fetchResults()
		}
		return nil
	}
	if a.view != ViewDetails {
		a.previousView = a.view
	}
	a.view = ViewDetails
	a.detailSymbol = sym
	a.detailName = ""
	a.loadingDetail = true
	a.viewport.SetContent("")
	return tea.Batch(a.loadDetails(sym), a.spinner.Tick)
}

func (kh *KeyHandler) openSignIn() tea.Cmd {
	a := kh.app
	if a.auth == nil {
		return nil
	}
	if a.session.Present() {
		a.setStatus(MsgSignedIn(a.session.User.Greeting()), StatusInfo)
		return nil
	}
	if a.view != ViewSignIn {
		a.previousView = a.view
	}
	a.view = ViewSignIn
	a.tokenInput.SetValue("")
	a.nameInput.Blur()
	return a.tokenInput.Focus()
}

// restoreSearch replays a recent search from its stored parameters.
func (kh *KeyHandler) restoreSearch(rs *storage.RecentSearch) tea.Cmd {
	a := kh.app
	values, err := url.ParseQuery(rs.Params)
	if err != nil {
		a.setStatus(wrapErr("recent search", err).Error(), StatusError)
		return nil
	}
	query, opts, err := filter.Decode(values)
	if err != nil {
		a.setStatus(wrapErr("recent search", err).Error(), StatusError)
		return nil
	}
	page := filter.DefaultPage
	if opts.Page != nil {
		page = *opts.Page
	}
	a.resetScreener(opts)
	if query != "" {
		a.query.Search(query)
		a.query.OnPageChange(page)
	}
	a.searchInput.SetValue(query)
	a.suggestionSelected = true
	a.previousView = ViewDashboard
	a.view = ViewScreener
	kh.focusTable()
	return a.fetchResults()
}

func (kh *KeyHandler) navigateBack() (tea.Model, tea.Cmd, bool) {
	a := kh.app
	switch a.view {
	case ViewDetails:
		back := a.previousView
		if back == ViewDetails || back == ViewSignIn {
			back = ViewScreener
		}
		a.view = back
		a.detailSymbol = ""
		if back == ViewScreener && !a.hasResults {
			return a, a.fetchResults(), true
		}
		if back == ViewDashboard {
			return a, a.loadDashboard(), true
		}
	case ViewScreener:
		a.view = ViewLanding
	case ViewDashboard, ViewSignIn:
		back := a.previousView
		if back == a.view || back == ViewDashboard || back == ViewSignIn {
			back = ViewLanding
		}
		a.view = back
		a.tokenInput.Blur()
		a.nameInput.Blur()
	}
	return a, nil, true
}

// GetHelpForCurrentView lists the key hints shown in the status bar.
func (kh *KeyHandler) GetHelpForCurrentView() []string {
	a := kh.app
	b := kh.config.Keys.Bindings
	m := kh.modifierKey

	switch a.view {
	case ViewLanding:
		help := []string{"enter: screener", m + b.Dashboard + ": dashboard"}
		if a.session.Present() {
			help = append(help, m+b.SignOut+": sign out")
		} else {
			help = append(help, m+b.SignIn+": sign in")
		}
		return append(help, "q: quit")
	case ViewScreener:
		switch a.focus {
		case focusSearch:
			return []string{"enter: search", "↑↓: suggestions", "tab: results", "esc: clear"}
		case focusGoto:
			return []string{"enter: go to page", "esc: cancel"}
		case focusFilters:
			if a.focusedDimension() == filter.DimMarketCapCategories {
				return []string{"space: toggle", "backspace: clear", "enter: apply", m + b.ApplyAll + ": apply all", m + b.Reset + ": reset", "esc: close"}
			}
			return []string{"tab: min/max", "enter: apply", "ctrl+n/p: next filter", m + b.ApplyAll + ": apply all", m + b.Reset + ": reset", "esc: close"}
		}
		return []string{"/: search", "1-7: filters", "[ ]: column", "s: sort", "n/p: page", "+/-: size", ":: go to", "enter: details", m + b.Watch + ": watch", "y: copy", "esc: back"}
	case ViewDetails:
		return []string{"↑↓: scroll", m + b.Watch + ": watch", m + b.Open + ": open quote", "y: copy", "esc: back"}
	case ViewDashboard:
		return []string{"tab: section", "enter: open", "x: remove", "c: clear recent", "esc: back"}
	case ViewSignIn:
		return []string{"enter: sign in", "tab: switch field", m + b.Open + ": sign-in page", "ctrl+u: sign-up page", "esc: back"}
	}
	return nil
}
