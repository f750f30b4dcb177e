package feed

import (
	"strings"

	"waveportal-tui/helpers"
	"waveportal-tui/portal"
	"waveportal-tui/styles"

	"github.com/charmbracelet/lipgloss"
)

// Header is shown above the list
const Header = "Previous Links"

// Render renders the wave cards. names maps lower-cased addresses to ENS
// names and may be nil. A positive height limits the output to the cards
// around selected that fit.
func Render(waves []portal.Wave, selected int, names map[string]string, width, height int) string {
	header := styles.TitleStyle.Render(Header)
	if len(waves) == 0 {
		return header + "\n\n" + styles.MutedStyle.Render("No links yet.")
	}

	cardWidth := helpers.Max(20, width)
	cards := make([]string, 0, len(waves))
	for i, w := range waves {
		style := styles.CardStyle
		if i == selected {
			style = styles.SelectedCardStyle
		}
		cards = append(cards, style.Width(cardWidth).Render(Card(w, names)))
	}
	if height > 0 {
		start, end := window(cards, selected, height-lipgloss.Height(header))
		cards = cards[start:end]
	}
	return header + "\n" + strings.Join(cards, "\n")
}

// window picks the run of cards containing selected that fits in height
// lines, preferring cards above the selection.
func window(cards []string, selected, height int) (int, int) {
	if selected < 0 || selected >= len(cards) {
		selected = 0
	}
	used := lipgloss.Height(cards[selected])
	start, end := selected, selected+1
	for start > 0 && used+lipgloss.Height(cards[start-1]) <= height {
		start--
		used += lipgloss.Height(cards[start])
	}
	for end < len(cards) && used+lipgloss.Height(cards[end]) <= height {
		used += lipgloss.Height(cards[end])
		end++
	}
	return start, end
}

// Card renders the content of one wave
func Card(w portal.Wave, names map[string]string) string {
	link := lipgloss.NewStyle().Bold(true).Render(helpers.Hyperlink(w.Message))
	from := w.Address
	if name, ok := names[strings.ToLower(w.Address)]; ok && name != "" {
		from = name + " (" + helpers.ShortenAddr(w.Address) + ")"
	}
	return strings.Join([]string{
		link,
		"Sent: " + helpers.SentDate(w.Timestamp),
		"From: " + from,
	}, "\n")
}
