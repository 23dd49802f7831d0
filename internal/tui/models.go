package tui

type View int

const (
	ViewLanding View = iota
	ViewScreener
	ViewDetails
	ViewDashboard
	ViewSignIn
)

func (v View) String() string {
	switch v {
	case ViewLanding:
		return "landing"
	case ViewScreener:
		return "screener"
	case ViewDetails:
		return "details"
	case ViewDashboard:
		return "dashboard"
	case ViewSignIn:
		return "sign-in"
	default:
		return "unknown"
	}
}

// focusArea is the part of the screener view that receives keys.
type focusArea int

const (
	focusTable focusArea = iota
	focusSearch
	focusFilters
	focusGoto
)

// dashboardSection is the list the dashboard cursor moves in.
type dashboardSection int

const (
	sectionWatchlist dashboardSection = iota
	sectionRecent
)
