package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8890a0"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e4e4ec")).
			Bold(true)

	normalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#c0c4d0"))

	metaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#505868"))

	// Help bar
	helpKeyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8890a0"))

	helpLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#505868"))

	accentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#34d474"))

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ade80")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e06060"))

	// Tally
	yesStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ade80"))

	ifNeedBeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#d4a844"))

	noStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#b45555"))

	bestStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#1e1e2a")).
			Background(lipgloss.Color("#4ade80")).
			Bold(true)

	sectionHeaderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#606878")).
				Bold(true)

	inputPromptStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#34d474")).
				Bold(true)

	inputPlaceholderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#343c4a"))
)

// helpEntry renders a single "key label" pair for help bars.
func helpEntry(key, label string) string {
	return helpKeyStyle.Render(key) + " " + helpLabelStyle.Render(label)
}

// helpBar joins key/label pairs into one help line.
func helpBar(pairs ...string) string {
	var b strings.Builder
	b.WriteString(" ")
	for i := 0; i+1 < len(pairs); i += 2 {
		if i > 0 {
			b.WriteString("  ")
		}
		b.WriteString(helpEntry(pairs[i], pairs[i+1]))
	}
	return b.String()
}

// tabBar renders equal-width tab columns across the terminal.
func tabBar(width int, labels []string, active int) string {
	if len(labels) == 0 {
		return ""
	}
	colWidth := width / len(labels)
	var b strings.Builder
	for i, name := range labels {
		key := string(rune('1' + i))
		var label string
		if i == active {
			label = accentStyle.Render(key) + " " + selectedStyle.Underline(true).Render(name)
		} else {
			label = metaStyle.Render(key) + " " + dimStyle.Render(name)
		}
		labelWidth := lipgloss.Width(label)
		leftPad := max((colWidth-labelWidth)/2, 0)
		rightPad := max(colWidth-labelWidth-leftPad, 0)
		b.WriteString(strings.Repeat(" ", leftPad) + label + strings.Repeat(" ", rightPad))
	}
	return b.String()
}

// availabilityStyle colors an availability symbol.
func availabilityStyle(a string) lipgloss.Style {
	switch a {
	case "Yes":
		return yesStyle
	case "IfNeedBe":
		return ifNeedBeStyle
	case "No":
		return noStyle
	default:
		return metaStyle
	}
}
