package tui

import (
	"context"
	"strings"
	"sync"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/pders01/screener/internal/api"
	"github.com/pders01/screener/internal/auth"
	"github.com/pders01/screener/internal/browser"
	"github.com/pders01/screener/internal/config"
	"github.com/pders01/screener/internal/debuglog"
	"github.com/pders01/screener/internal/filter"
	"github.com/pders01/screener/internal/news"
	"github.com/pders01/screener/internal/screener"
	"github.com/pders01/screener/internal/storage"
)

// SessionProvider is the identity provider plus the token sign-in used by
// the sign-in view.
type SessionProvider interface {
	auth.Provider
	Load() auth.Session
	SignIn(token, displayName string) error
}

// Services are the collaborators the UI drives. Store, Browser and News may
// be nil; the features needing them are then unavailable.
type Services struct {
	API     *api.Service
	Store   *storage.Store
	Auth    SessionProvider
	Browser *browser.Launcher
	News    *news.Fetcher
}

type App struct {
	config     *config.Config
	service    *api.Service
	store      *storage.Store
	auth       SessionProvider
	launcher   *browser.Launcher
	news       *news.Fetcher
	keyHandler *KeyHandler
	copyText   func(string) error

	ctx    context.Context
	cancel context.CancelFunc

	initial  filter.Options
	outbox   *screener.Outbox
	panel    *screener.FilterPanel
	query    *screener.QueryCoordinator
	debounce *screener.Debouncer[string]

	searchInput textinput.Model
	minInput    textinput.Model
	maxInput    textinput.Model
	gotoInput   textinput.Model
	nameInput   textinput.Model
	tokenInput  textinput.Model
	table       table.Model
	viewport    viewport.Model
	spinner     spinner.Model

	view         View
	previousView View
	focus        focusArea
	showHelp     bool

	// filter panel cursor
	filterIndex    int
	categoryCursor int

	sortCursor int
	pageSizes  []int

	suggestions        []api.Suggestion
	suggestionCursor   int
	showSuggestions    bool
	suggestionSelected bool

	results    api.ResultPage
	resultsKey string
	loading    bool
	hasResults bool

	detailSymbol  string
	detailName    string
	loadingDetail bool

	session          auth.Session
	watchlist        []*storage.WatchItem
	recent           []*storage.RecentSearch
	dashboardSection dashboardSection
	dashboardCursor  int

	width      int
	height     int
	err        error
	status     string
	statusKind StatusKind

	// the renderer is used from detail-loading commands
	rendererMu      sync.Mutex
	glamourRenderer *glamour.TermRenderer
	rendererWidth   int
}

func NewApp(cfg *config.Config, svc Services) *App {
	initial, err := screener.InitialOptions(cfg.Screener)
	if err != nil {
		debuglog.Warnf("Using default filters: %v", err)
	}

	si := textinput.New()
	si.Placeholder = "Search for stocks..."
	si.Prompt = "⌕ "

	minIn := textinput.New()
	minIn.Placeholder = "min"
	minIn.CharLimit = 16
	minIn.Width = 12

	maxIn := textinput.New()
	maxIn.Placeholder = "max"
	maxIn.CharLimit = 16
	maxIn.Width = 12

	gi := textinput.New()
	gi.Placeholder = "page"
	gi.CharLimit = 6
	gi.Width = 6

	ni := textinput.New()
	ni.Placeholder = "Name or email"

	ti := textinput.New()
	ti.Placeholder = "Paste your session token"
	ti.EchoMode = textinput.EchoPassword
	ti.EchoCharacter = '•'

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(AccentColor)

	tbl := table.New(table.WithFocused(true))
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(MutedColor).
		BorderBottom(true).
		Bold(true)
	styles.Selected = SelectedItemStyle
	tbl.SetStyles(styles)

	ctx, cancel := context.WithCancel(context.Background())

	app := &App{
		config:       cfg,
		service:      svc.API,
		store:        svc.Store,
		auth:         svc.Auth,
		launcher:     svc.Browser,
		news:         svc.News,
		copyText:     clipboard.WriteAll,
		ctx:          ctx,
		cancel:       cancel,
		initial:      initial,
		debounce:     screener.NewDebouncer("", cfg.Query.DebounceDelay),
		searchInput:  si,
		minInput:     minIn,
		maxInput:     maxIn,
		gotoInput:    gi,
		nameInput:    ni,
		tokenInput:   ti,
		table:        tbl,
		viewport:     viewport.New(0, 0),
		spinner:      sp,
		view:         ViewLanding,
		previousView: ViewLanding,
		pageSizes:    screener.PageSizes(cfg.Screener),
		session:      auth.Session{Status: auth.StatusLoading},
	}
	if app.auth == nil {
		app.session = auth.Session{Status: auth.StatusAbsent}
	}
	app.resetScreener(initial)
	app.keyHandler = NewKeyHandler(app, cfg)

	return app
}

// resetScreener starts a fresh filter and query state from opts.
func (a *App) resetScreener(opts filter.Options) {
	a.outbox = screener.NewOutbox()
	a.panel = screener.NewFilterPanel(opts, a.outbox)
	a.query = screener.NewQueryCoordinator(opts)
	a.searchInput.SetValue(a.query.SearchQuery())
	a.focus = focusTable
	a.refreshColumns()
}

// wordWrapWidth is the markdown wrap width for the current window. Call it
// from Update, never from a command.
func (a *App) wordWrapWidth() int {
	maxWidth := a.config.UI.Details.WordWrapMaxWidth
	minWidth := a.config.UI.Details.WordWrapMinWidth
	width := (a.width * 9) / 10
	if maxWidth > 0 && width > maxWidth {
		width = maxWidth
	}
	if width < minWidth {
		width = minWidth
	}
	if a.width < 50 {
		width = max(a.width-4, 20)
	}
	return width
}

// renderMarkdown renders doc with the cached renderer, rebuilding it when
// the wrap width moved by more than ten columns.
func (a *App) renderMarkdown(doc string, width int) (string, error) {
	a.rendererMu.Lock()
	defer a.rendererMu.Unlock()

	if a.glamourRenderer == nil || abs(a.rendererWidth-width) > 10 {
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return "", err
		}
		a.glamourRenderer = r
		a.rendererWidth = width
	}
	return a.glamourRenderer.Render(doc)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(
		a.loadSession(),
		a.spinner.Tick,
	)
}

// Update runs one step and then drains the filter outbox, so committed
// filter changes reach the query side as a single message on the next turn.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	model, cmd := a.update(msg)
	if a.outbox.Len() > 0 {
		changes := a.outbox.Drain()
		cmd = tea.Batch(cmd, func() tea.Msg { return filterChangesMsg{changes: changes} })
	}
	return model, cmd
}

func (a *App) update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.layout()

	case tea.KeyMsg:
		return a.keyHandler.HandleKey(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case sessionMsg:
		a.session = msg.session
		if msg.err != nil {
			a.setStatus(msg.err.Error(), StatusError)
		}
		if a.view == ViewDashboard {
			return a, a.guardDashboard()
		}
		if a.view == ViewSignIn && a.session.Present() {
			a.setStatus(MsgSignedIn(a.session.User.Greeting()), StatusSuccess)
			return a, a.openDashboard()
		}

	case searchDebounceFireMsg:
		return a, a.onDebounceFire(msg.seq)

	case suggestionsMsg:
		if superseded(msg.err) {
			return a, nil
		}
		if msg.query != a.debounce.Latest() || a.suggestionSelected || a.focus != focusSearch {
			return a, nil
		}
		a.suggestions = msg.suggestions
		a.suggestionCursor = 0
		a.showSuggestions = len(msg.suggestions) > 0

	case filterChangesMsg:
		a.query.Deliver(msg.changes)
		return a, a.fetchResults()

	case resultsMsg:
		if superseded(msg.err) || msg.key != a.query.Key() {
			return a, nil
		}
		a.loading = false
		a.hasResults = true
		a.results = msg.page
		a.resultsKey = msg.key
		a.refreshRows()
		return a, a.recordSearch()

	case detailsMsg:
		if msg.symbol != a.detailSymbol {
			return a, nil
		}
		a.loadingDetail = false
		a.detailName = msg.name
		a.viewport.SetContent(msg.content)
		a.viewport.GotoTop()

	case watchToggledMsg:
		if msg.err != nil {
			a.setStatus(wrapErr("watchlist", msg.err).Error(), StatusError)
			return a, nil
		}
		a.setStatus(MsgWatched(msg.symbol, msg.watched), StatusSuccess)
		if a.view == ViewDashboard {
			return a, a.loadDashboard()
		}

	case dashboardMsg:
		if msg.err != nil {
			a.err = msg.err
			return a, nil
		}
		a.watchlist = msg.watchlist
		a.recent = msg.recent
		a.clampDashboardCursor()

	case statusMsg:
		a.setStatus(msg.text, msg.kind)

	case errorMsg:
		a.err = msg.err
	}

	if a.view == ViewDetails {
		switch msg.(type) {
		case tea.MouseMsg:
			var cmd tea.Cmd
			a.viewport, cmd = a.viewport.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	return a, tea.Batch(cmds...)
}

func (a *App) setStatus(text string, kind StatusKind) {
	a.status = text
	a.statusKind = kind
	if kind != StatusError {
		a.err = nil
	}
}

func (a *App) clearStatus() {
	a.status = ""
	a.err = nil
}

// busy reports whether anything is waiting on the network.
func (a *App) busy() bool {
	return a.loading || a.loadingDetail || a.session.Status == auth.StatusLoading
}

func (a *App) layout() {
	a.searchInput.Width = max(a.width-12, 10)
	a.viewport.Width = a.width
	a.viewport.Height = max(a.height-6, 3)
	a.tokenInput.Width = max(min(a.width-12, 60), 10)
	a.nameInput.Width = a.tokenInput.Width
	a.table.SetWidth(a.width)
	a.table.SetHeight(a.tableHeight())
	a.refreshColumns()
}

// tableHeight leaves room for the search box, filter chips, results header,
// pagination and the status bar.
func (a *App) tableHeight() int {
	h := a.height - 14
	if a.panel.Coordinator().OpenDimension() != "" {
		h -= 6
	}
	return max(h, 3)
}

// sortableColumns are the indexes of Columns that accept a sort.
func sortableColumns() []int {
	var out []int
	for i, c := range screener.Columns {
		if c.Sortable {
			out = append(out, i)
		}
	}
	return out
}

func (a *App) sortColumn() screener.Column {
	cols := sortableColumns()
	return screener.Columns[cols[a.sortCursor%len(cols)]]
}

func (a *App) refreshColumns() {
	opts := a.query.Filters()
	widths := columnWidths(a.width)
	cols := make([]table.Column, len(screener.Columns))
	current := a.sortColumn().Label
	for i, c := range screener.Columns {
		title := c.Label
		if ind := screener.SortIndicator(c.Label, opts); ind != "" {
			title += " " + ind
		}
		if a.focus == focusTable && c.Label == current {
			title = "›" + title
		}
		cols[i] = table.Column{Title: title, Width: widths[i]}
	}
	a.table.SetColumns(cols)
}

// columnWidths spreads the width over the columns, giving the name column
// whatever is left.
func columnWidths(width int) []int {
	base := []int{8, 0, 11, 12, 11, 12, 9, 11, 10, 10}
	used := 0
	for _, w := range base {
		used += w + 2
	}
	name := max(width-used, 14)
	out := make([]int, len(base))
	copy(out, base)
	out[1] = name
	return out
}

func (a *App) refreshRows() {
	rows := make([]table.Row, 0, len(a.results.Stocks))
	for _, s := range a.results.Stocks {
		rows = append(rows, StockRow(s))
	}
	a.table.SetRows(rows)
	if a.table.Cursor() >= len(rows) {
		a.table.SetCursor(max(len(rows)-1, 0))
	}
	a.refreshColumns()
}

// selectedStock is the row under the table cursor.
func (a *App) selectedStock() (api.Stock, bool) {
	i := a.table.Cursor()
	if i < 0 || i >= len(a.results.Stocks) {
		return api.Stock{}, false
	}
	return a.results.Stocks[i], true
}

// currentSymbol is the symbol the watch, open and copy actions apply to.
func (a *App) currentSymbol() (string, string) {
	switch a.view {
	case ViewDetails:
		return a.detailSymbol, a.detailName
	case ViewDashboard:
		if a.dashboardSection == sectionWatchlist && a.dashboardCursor < len(a.watchlist) {
			w := a.watchlist[a.dashboardCursor]
			return w.Symbol, w.Name
		}
	case ViewScreener:
		if s, ok := a.selectedStock(); ok {
			return s.Ticker, s.CompanyName
		}
	}
	return "", ""
}

func (a *App) clampDashboardCursor() {
	n := len(a.watchlist)
	if a.dashboardSection == sectionRecent {
		n = len(a.recent)
	}
	if a.dashboardCursor >= n {
		a.dashboardCursor = max(n-1, 0)
	}
}

func (a *App) totalPages() int {
	return max(a.results.TotalPages, 1)
}

// focusedDimension is the filter widget under the panel cursor.
func (a *App) focusedDimension() filter.Dimension {
	return screener.WidgetOrder[a.filterIndex]
}

// openDashboard enters the protected dashboard.
func (a *App) openDashboard() tea.Cmd {
	if a.view != ViewDashboard {
		a.previousView = a.view
	}
	a.view = ViewDashboard
	a.dashboardSection = sectionWatchlist
	a.dashboardCursor = 0
	return a.guardDashboard()
}

// guardDashboard keeps the dashboard behind a session: while the session is
// loading the view waits, and without one it falls back to the landing view.
func (a *App) guardDashboard() tea.Cmd {
	switch a.session.Status {
	case auth.StatusLoading:
		return a.spinner.Tick
	case auth.StatusPresent:
		if a.session.User != nil {
			return a.loadDashboard()
		}
	}
	a.view = ViewLanding
	a.previousView = ViewLanding
	a.setStatus(MsgSignInRequired, StatusWarn)
	return nil
}

// Close cancels outstanding requests.
func (a *App) Close() {
	a.cancel()
	a.debounce.Stop()
}

func (a *App) View() string {
	var content string
	bodyHeight := max(a.height-2, 1)

	switch a.view {
	case ViewLanding:
		content = a.renderLanding(bodyHeight)
	case ViewScreener:
		content = a.renderScreener()
	case ViewDetails:
		content = a.renderDetails(bodyHeight)
	case ViewDashboard:
		content = a.renderDashboard(bodyHeight)
	case ViewSignIn:
		content = a.renderSignIn(bodyHeight)
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(bodyHeight).
		MaxHeight(bodyHeight).
		Render(content)

	status := a.getCustomStatusBar()
	if status == "" {
		return content
	}
	separator := lipgloss.NewStyle().
		Foreground(MutedColor).
		Render(strings.Repeat("─", max(a.width-1, 0)))
	return lipgloss.JoinVertical(lipgloss.Top, content, separator, status)
}

func (a *App) getCustomStatusBar() string {
	if a.err != nil {
		return StatusBarStyle.Width(a.width).Render(StatusErrorStyle.Render("✗ " + a.err.Error()))
	}
	if a.status != "" {
		return StatusBarStyle.Width(a.width).Render(a.statusKind.style().Render(a.status))
	}

	commands := a.keyHandler.GetHelpForCurrentView()
	if len(commands) == 0 {
		return ""
	}
	return StatusBarStyle.Width(a.width).Render(truncateEnd(strings.Join(commands, " • "), max(a.width-2, 1)))
}
