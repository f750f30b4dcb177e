package home

import (
	"strings"

	"waveportal-tui/helpers"
	"waveportal-tui/styles"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

// Title is the page header
const Title = "Send me a link on the blockchain!"

var bio = []string{
	"I'm Matt. This is a place for friends who are into Ethereum and reading.",
	"Start by connecting your wallet. Then send me a link to something you think I should read!",
	"Every link is stored as a transaction on the Ethereum blockchain. The contract behind this app may randomly reward you with a little bit of ETH.",
	"",
	"Two important notes:",
	"  • The contract lives on a testnet. Point your RPC endpoint at that network and fund the account from a faucet.",
	"  • You can not send more than one link per hour.",
}

// Render renders the header and bio text
func Render(width int) string {
	title := lipgloss.NewStyle().Bold(true).Render(helpers.FadeString(Title, "#7EE787", "#82CFFD"))
	body := lipgloss.NewStyle().
		Foreground(styles.CText).
		Width(helpers.Max(20, width)).
		Render(strings.Join(bio, "\n"))
	return title + "\n\n" + body
}

// Nav returns the navigation bar built from the active key bindings
func Nav(width int, bindings []key.Binding) string {
	var parts []string
	for _, b := range bindings {
		if !b.Enabled() {
			continue
		}
		h := b.Help()
		parts = append(parts, styles.Key(h.Key)+" "+h.Desc)
	}
	return styles.NavStyle.Width(width).Render(strings.Join(parts, "   "))
}
