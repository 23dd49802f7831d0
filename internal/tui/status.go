package tui

import (
	"fmt"
	"strings"

	"github.com/pders01/screener/internal/format"
)

// Canonical short status messages used across the app.
const (
	MsgLoading        = "Loading…"
	MsgSearching      = "Searching…"
	MsgLoadingDetails = "Loading stock details…"
	MsgCheckingAuth   = "Checking authentication…"
	MsgNoResults      = "No stocks found"
	MsgSignInRequired = "Sign in to view your dashboard"
	MsgSignedOut      = "Signed out"
	MsgFiltersInvalid = "Fix the highlighted values first"
	MsgDerivedCap     = "Market cap follows the selected categories"
	MsgDetailsFailed  = "Unable to load stock details."
)

func MsgResultsCount(n int64) string {
	if n == 1 {
		return "1 result"
	}
	return fmt.Sprintf("%s results", format.Count(n))
}

// MsgShowing is the results header line, e.g. "Showing 26 – 50 of 1,234 results".
func MsgShowing(from, to, total int64) string {
	return fmt.Sprintf("Showing %s – %s of %s", format.Count(from), format.Count(to), MsgResultsCount(total))
}

func MsgNoResultsFor(query string) string {
	return fmt.Sprintf("No results for %q", strings.TrimSpace(query))
}

func MsgWatched(symbol string, watched bool) string {
	if watched {
		return fmt.Sprintf("Added %s to watchlist", symbol)
	}
	return fmt.Sprintf("Removed %s from watchlist", symbol)
}

func MsgCopied(symbol string) string {
	return fmt.Sprintf("Copied %s to clipboard", symbol)
}

func MsgSignedIn(name string) string {
	if name == "" {
		return "Signed in"
	}
	return "Signed in as " + name
}

func MsgFilterSummary(applied, dirty int) string {
	switch {
	case applied == 0 && dirty == 0:
		return "No filters"
	case dirty == 0:
		return fmt.Sprintf("%d applied", applied)
	default:
		return fmt.Sprintf("%d applied • %d pending", applied, dirty)
	}
}
