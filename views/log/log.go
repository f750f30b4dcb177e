package log

import (
	"fmt"

	"waveportal-tui/helpers"
	"waveportal-tui/styles"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"
)

// PanelHeight returns how many log lines fit for a terminal of height h:
// a third of the screen, at most 12 and at least 3.
func PanelHeight(h int) int {
	return helpers.Max(3, helpers.Min(h/3, 12))
}

// Render renders the diagnostic log panel
func Render(width int, vp viewport.Model) string {
	title := lipgloss.NewStyle().
		Foreground(styles.CAccent2).
		Bold(true).
		Render("Log")

	scrollInfo := ""
	if vp.TotalLineCount() > vp.Height {
		scrollInfo = lipgloss.NewStyle().
			Foreground(styles.CMuted).
			Render(fmt.Sprintf(" [%d%%]", int(vp.ScrollPercent()*100)))
	}

	border := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(styles.CBorder).
		Padding(0, 1).
		Width(helpers.Max(0, width-2))

	return border.Render(title + scrollInfo + "\n" + vp.View())
}
