package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/pders01/screener/internal/config"
)

const AppName = "screener"

// LogoLines is the canonical logo.
var LogoLines = []string{
	"┏━┓┏━╸┏━┓┏━╸┏━╸┏┓╻┏━╸┏━┓",
	"┗━┓┃  ┣┳┛┣╸ ┣╸ ┃┗┫┣╸ ┣┳┛",
	"┗━┛┗━╸╹┗╸┗━╸┗━╸╹ ╹┗━╸╹┗╸",
}

const CompactLogo = `screener ›`

// Features are listed on the landing view.
var Features = []string{
	"Search any listed company by name or ticker",
	"Filter by price, valuation, dividends and market cap",
	"Sort and page through the full listing",
	"Drill into valuation, margins and growth for a stock",
	"Keep a watchlist and your recent searches",
}

var BannerColors = []lipgloss.Color{
	lipgloss.Color("#4ADE80"),
	lipgloss.Color("#34D399"),
	lipgloss.Color("#60A5FA"),
}

var (
	PrimaryColor   = lipgloss.Color("#4ADE80")
	SecondaryColor = lipgloss.Color("#60A5FA")
	AccentColor    = lipgloss.Color("#FBBF24")

	BackgroundColor = lipgloss.Color("#0F172A")
	SurfaceColor    = lipgloss.Color("#1E293B")
	TextColor       = lipgloss.Color("#E2E8F0")
	MutedColor      = lipgloss.Color("#94A3B8")

	WarnColor    = lipgloss.Color("#FBBF24")
	ErrorColor   = lipgloss.Color("#F87171")
	SuccessColor = lipgloss.Color("#4ADE80")
)

var (
	LogoStyle          lipgloss.Style
	TitleStyle         lipgloss.Style
	HeaderStyle        lipgloss.Style
	StatusBarStyle     lipgloss.Style
	SelectedItemStyle  lipgloss.Style
	HelpStyle          lipgloss.Style
	ChipStyle          lipgloss.Style
	PanelStyle         lipgloss.Style
	ErrorMessageStyle  lipgloss.Style
	StatusInfoStyle    lipgloss.Style
	StatusSuccessStyle lipgloss.Style
	StatusWarnStyle    lipgloss.Style
	StatusErrorStyle   lipgloss.Style
	GainStyle          lipgloss.Style
	LossStyle          lipgloss.Style
)

func init() {
	buildStyles()
}

func buildStyles() {
	LogoStyle = lipgloss.NewStyle().
		Foreground(PrimaryColor).
		Bold(true)

	TitleStyle = lipgloss.NewStyle().
		Foreground(TextColor).
		Background(SurfaceColor).
		Bold(true).
		Padding(0, 2)

	HeaderStyle = lipgloss.NewStyle().
		Foreground(SecondaryColor).
		Bold(true)

	StatusBarStyle = lipgloss.NewStyle().
		Foreground(MutedColor).
		Padding(0, 1)

	SelectedItemStyle = lipgloss.NewStyle().
		Foreground(BackgroundColor).
		Background(AccentColor).
		Bold(true)

	HelpStyle = lipgloss.NewStyle().
		Foreground(MutedColor).
		Italic(true)

	ChipStyle = lipgloss.NewStyle().
		Foreground(TextColor).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(MutedColor).
		Padding(0, 1)

	PanelStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(AccentColor).
		Padding(0, 1)

	ErrorMessageStyle = lipgloss.NewStyle().
		Foreground(ErrorColor)

	StatusInfoStyle = lipgloss.NewStyle().
		Foreground(MutedColor)

	StatusSuccessStyle = lipgloss.NewStyle().
		Foreground(SuccessColor)

	StatusWarnStyle = lipgloss.NewStyle().
		Foreground(WarnColor)

	StatusErrorStyle = lipgloss.NewStyle().
		Foreground(ErrorColor).
		Bold(true)

	GainStyle = lipgloss.NewStyle().Foreground(SuccessColor)
	LossStyle = lipgloss.NewStyle().Foreground(ErrorColor)
}

// ApplyTheme replaces the palette with configured colours. Empty entries keep
// the built-in value.
func ApplyTheme(c config.UIColors) {
	set := func(dst *lipgloss.Color, v string) {
		if v != "" {
			*dst = lipgloss.Color(v)
		}
	}
	set(&PrimaryColor, c.Primary)
	set(&SecondaryColor, c.Secondary)
	set(&AccentColor, c.Accent)
	set(&BackgroundColor, c.Background)
	set(&SurfaceColor, c.Surface)
	set(&TextColor, c.Text)
	set(&MutedColor, c.Muted)
	set(&ErrorColor, c.Error)
	set(&SuccessColor, c.Success)
	buildStyles()
}

func GetWelcomeMessage() string {
	return GetCompactBanner("Press enter to open the screener")
}

func GetCompactBanner(message string) string {
	var coloredLines []string
	for _, line := range LogoLines {
		coloredLines = append(coloredLines, LogoStyle.Render(line))
	}

	logo := lipgloss.JoinVertical(lipgloss.Center, coloredLines...)

	return lipgloss.JoinVertical(
		lipgloss.Center,
		logo,
		"",
		HelpStyle.Render(message),
	)
}

// Banner renders the startup banner with the version tagline.
func Banner(version string) string {
	lines := make([]string, len(LogoLines)+1)
	copy(lines, LogoLines)

	tagline := "    Stock Screener"
	if version != "" && version != "dev" {
		if version[0] != 'v' && version[0] != 'V' {
			version = "v" + version
		}
		tagline += " " + version
	}
	lines = append(lines, tagline)

	var coloredLines []string
	for i, line := range lines {
		if line == "" {
			coloredLines = append(coloredLines, line)
			continue
		}
		style := lipgloss.NewStyle().
			Foreground(BannerColors[i%len(BannerColors)]).
			Bold(i < len(LogoLines))
		coloredLines = append(coloredLines, style.Render(line))
	}

	banner := lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(SecondaryColor).
		Padding(1, 3).
		MarginTop(1).
		Render(lipgloss.JoinVertical(lipgloss.Center, coloredLines...))

	return lipgloss.NewStyle().
		Width(60).
		Align(lipgloss.Center).
		MarginBottom(1).
		Render(banner)
}

func ShowBanner(version string) {
	fmt.Println(Banner(version))
}
