package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/pders01/screener/internal/screener"
)

// pageButtonWidth is the rendered width of one page button, separator included.
const pageButtonWidth = 6

// renderHeader returns a styled header with an optional muted subtitle.
func renderHeader(title, subtitle string, width int) string {
	title = truncateEnd(title, width-2)
	subtitle = truncateEnd(subtitle, width-2)
	rows := []string{HeaderStyle.Render(title)}
	if subtitle != "" {
		rows = append(rows, renderMuted(subtitle))
	}
	return lipgloss.JoinVertical(lipgloss.Top, rows...)
}

// renderInputFrame draws a rounded border around an already rendered input.
func renderInputFrame(inputView string, focused bool, contentWidth int) string {
	borderColor := MutedColor
	if focused {
		borderColor = AccentColor
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Padding(0, 1).
		Width(contentWidth + 4).
		Render(inputView)
}

func renderCentered(width, height int, content string) string {
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}

func renderMuted(text string) string {
	return lipgloss.NewStyle().Foreground(MutedColor).Render(text)
}

func renderHelp(text string) string {
	return HelpStyle.Render(text)
}

// renderChip draws one filter chip. The label is marked when the filter is
// applied and coloured by the widget state.
func renderChip(index int, label string, state screener.WidgetState, applied, focused bool) string {
	text := strconv.Itoa(index) + " " + label
	if applied {
		text += " ●"
	}
	style := ChipStyle
	switch state {
	case screener.OpenInvalid:
		style = style.BorderForeground(ErrorColor)
	case screener.OpenDirty:
		style = style.BorderForeground(WarnColor)
	case screener.OpenClean:
		style = style.BorderForeground(AccentColor)
	}
	if focused {
		style = style.Bold(true)
	}
	return style.Render(text)
}

// renderPageBar draws the pagination buttons for the current page window.
func renderPageBar(current, total, width int) string {
	if total <= 1 {
		return ""
	}
	labels := screener.PageLabels(current, total, screener.VisibleSlots(width-2*pageButtonWidth, pageButtonWidth))
	parts := make([]string, 0, len(labels)+2)
	prev := "‹ prev"
	if current <= 1 {
		prev = renderMuted(prev)
	}
	parts = append(parts, prev)
	for _, l := range labels {
		if l.Gap {
			parts = append(parts, renderMuted(padCenter("…", pageButtonWidth-1)))
			continue
		}
		label := padCenter(strconv.Itoa(l.Page), pageButtonWidth-1)
		if l.Page == current {
			label = SelectedItemStyle.Render(label)
		}
		parts = append(parts, label)
	}
	next := "next ›"
	if current >= total {
		next = renderMuted(next)
	}
	parts = append(parts, next)
	return strings.Join(parts, " ")
}
