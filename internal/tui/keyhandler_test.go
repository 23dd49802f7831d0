package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pders01/screener/internal/filter"
)

func TestKeyHandler_ModifierKey(t *testing.T) {
	app, _ := newTestApp(t)

	assert.NotNil(t, app.keyHandler)
	assert.Equal(t, "ctrl+", app.keyHandler.modifierKey)
	assert.Equal(t, "ctrl+w", app.keyHandler.bind("w"))
}

func TestKeyHandler_Quit(t *testing.T) {
	app, _ := newTestApp(t)

	cmd := press(app, "ctrl+q")
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.True(t, app.debounce.Stopped())
}

func TestKeyHandler_SearchShortcut(t *testing.T) {
	app, _ := newTestApp(t)
	app.view = ViewScreener
	app.focus = focusTable

	press(app, "/")
	assert.Equal(t, focusSearch, app.focus)
	assert.True(t, app.searchInput.Focused())

	press(app, "a")
	assert.Equal(t, "a", app.searchInput.Value())
	assert.Equal(t, "a", app.debounce.Latest())
	assert.Equal(t, "", app.debounce.Value(), "typing only arms the debounce")
}

func TestKeyHandler_CategoryFilter(t *testing.T) {
	app, _ := newTestApp(t)
	app.view = ViewScreener
	app.focus = focusTable

	press(app, "2")
	require.Equal(t, filter.DimMarketCapCategories, app.focusedDimension())

	press(app, "space", "j", "x")
	cats := app.panel.Categories()
	assert.True(t, cats.Selected("Mega Cap"))
	assert.True(t, cats.Selected("Large Cap"))

	press(app, "enter")
	assert.Equal(t, []string{"Mega Cap", "Large Cap"}, app.panel.Coordinator().Applied().MarketCapCategories)
	assert.Equal(t, focusTable, app.focus)
}

func TestKeyHandler_FilterNavigation(t *testing.T) {
	app, _ := newTestApp(t)
	app.view = ViewScreener
	app.focus = focusTable

	press(app, "7")
	assert.Equal(t, filter.DimPayout, app.focusedDimension())

	app.Update(tea.KeyMsg{Type: tea.KeyCtrlN})
	assert.Equal(t, filter.DimPrice, app.focusedDimension(), "next wraps to the first widget")
	assert.True(t, app.panel.IsOpen(filter.DimPrice))
	assert.False(t, app.panel.IsOpen(filter.DimPayout))

	app.Update(tea.KeyMsg{Type: tea.KeyCtrlP})
	assert.Equal(t, filter.DimPayout, app.focusedDimension())

	press(app, "esc")
	assert.Equal(t, focusTable, app.focus)
	assert.Equal(t, filter.Dimension(""), app.panel.Coordinator().OpenDimension())
}

func TestKeyHandler_RangeMinMaxSwitch(t *testing.T) {
	app, _ := newTestApp(t)
	app.view = ViewScreener
	app.focus = focusTable

	press(app, "3", "5", "tab", "2", "0")
	assert.Equal(t, "5", app.minInput.Value())
	assert.Equal(t, "20", app.maxInput.Value())

	pending := app.panel.Coordinator().Pending()
	require.NotNil(t, pending.PE.Min)
	require.NotNil(t, pending.PE.Max)
	assert.Equal(t, 5.0, *pending.PE.Min)
	assert.Equal(t, 20.0, *pending.PE.Max)
}

func TestKeyHandler_ApplyAllAndReset(t *testing.T) {
	app, _ := newTestApp(t)
	app.view = ViewScreener
	app.focus = focusTable

	press(app, "3", "5")
	press(app, "ctrl+a")
	assert.Equal(t, focusTable, app.focus)
	applied := app.panel.Coordinator().Applied()
	require.NotNil(t, applied.PE.Min)
	assert.Equal(t, 1, app.panel.Coordinator().AppliedFilterCount())

	press(app, "ctrl+r")
	assert.Equal(t, 0, app.panel.Coordinator().AppliedFilterCount())
	assert.Empty(t, app.minInput.Value())
}

func TestKeyHandler_DashboardSections(t *testing.T) {
	app, _ := newTestApp(t)
	withStore(t, app)
	app.view = ViewDashboard
	app.previousView = ViewLanding

	press(app, "tab")
	assert.Equal(t, sectionRecent, app.dashboardSection)
	press(app, "tab")
	assert.Equal(t, sectionWatchlist, app.dashboardSection)

	press(app, "j")
	assert.Equal(t, 0, app.dashboardCursor, "the cursor stays inside an empty section")

	press(app, "esc")
	assert.Equal(t, ViewLanding, app.view)
}

func TestKeyHandler_HelpPerView(t *testing.T) {
	app, _ := newTestApp(t)

	assert.Contains(t, app.keyHandler.GetHelpForCurrentView(), "ctrl+l: sign in")

	app.view = ViewScreener
	app.focus = focusTable
	assert.Contains(t, app.keyHandler.GetHelpForCurrentView(), "ctrl+w: watch")

	app.focus = focusSearch
	assert.Contains(t, app.keyHandler.GetHelpForCurrentView(), "enter: search")

	app.view = ViewSignIn
	assert.Contains(t, app.keyHandler.GetHelpForCurrentView(), "ctrl+u: sign-up page")
}
