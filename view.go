package main

import (
	"fmt"
	"strings"

	"waveportal-tui/helpers"
	"waveportal-tui/rpc"
	"waveportal-tui/styles"
	"waveportal-tui/views/feed"
	"waveportal-tui/views/form"
	"waveportal-tui/views/home"
	logview "waveportal-tui/views/log"

	"github.com/charmbracelet/lipgloss"
)

// -------------------- VIEW --------------------

// renderAlert renders the blocking alert dialog
func (m *model) renderAlert() string {
	msg := helpers.FadeString(m.alert, "#F25D94", "#EDFF82")
	question := lipgloss.NewStyle().Width(50).Align(lipgloss.Center).Render(msg)
	ui := lipgloss.JoinVertical(lipgloss.Center, question, okButtonStyle.Render("OK"))

	return lipgloss.Place(
		m.w, m.h,
		lipgloss.Center, lipgloss.Center,
		dialogBoxStyle.Render(ui),
	)
}

// renderQRPopup renders the selected link as a QR code
func (m *model) renderQRPopup() string {
	w, ok := m.selectedWave()
	if !ok {
		return ""
	}
	href := helpers.LinkHref(w.Message)

	title := lipgloss.NewStyle().
		Foreground(cAccent2).
		Bold(true).
		Render("Scan to open")
	help := lipgloss.NewStyle().
		Foreground(cMuted).
		MarginTop(1).
		Render("Esc/Enter: Close")

	ui := lipgloss.JoinVertical(lipgloss.Center, title, "", rpc.GenerateQRCode(href), href, help)
	return lipgloss.Place(
		m.w, m.h,
		lipgloss.Center, lipgloss.Center,
		dialogBoxStyle.Render(ui),
	)
}

func (m *model) globalHeader() string {
	availableWidth := helpers.Max(0, m.w-8) // Account for panel padding

	// Connected account
	var addrDisplay string
	if m.account != "" {
		addrDisplay = lipgloss.NewStyle().
			Foreground(cAccent2).
			Bold(true).
			Render("Account: " + helpers.FadeString(helpers.ShortenAddr(m.account), "#F25D94", "#EDFF82"))
	} else {
		addrDisplay = lipgloss.NewStyle().
			Foreground(cMuted).
			Render("Account: Not connected")
	}

	// RPC status with a green dot once connected
	var statusIcon, statusText string
	statusColor := lipgloss.Color("#c01c28")
	switch {
	case m.cfg.RPCURL == "":
		statusIcon, statusText = "○", "No wallet"
	case m.rpcConnecting:
		statusIcon, statusText = "○", "Connecting..."
	case m.rpcFailed || m.client == nil:
		statusIcon, statusText = "○", "Connection Failed"
	default:
		statusIcon, statusColor = "●", cAccent
		statusText = "Connected"
		if m.client.ChainID != nil {
			statusText = fmt.Sprintf("Chain %s", m.client.ChainID)
		}
	}

	rpcDisplay := lipgloss.NewStyle().
		Foreground(statusColor).
		Bold(true).
		Render(statusIcon + " " + statusText)

	titleText := lipgloss.NewStyle().
		Foreground(cAccent).
		Bold(true).
		Render(helpers.FadeString("wave portal", "#7EE787", "#82CFFD"))

	addrWidth := lipgloss.Width(addrDisplay)
	rpcWidth := lipgloss.Width(rpcDisplay)
	titleWidth := lipgloss.Width(titleText)
	totalOtherWidth := addrWidth + rpcWidth + titleWidth

	var headerLine string
	if totalOtherWidth+4 > availableWidth {
		// Not enough space, stack vertically
		headerLine = addrDisplay + "\n" + titleText + "\n" + rpcDisplay
	} else {
		// Three-column layout: Account | Title (centered) | RPC
		remainingSpace := availableWidth - totalOtherWidth
		leftPadding := remainingSpace / 2
		rightPadding := remainingSpace - leftPadding

		leftSpacer := strings.Repeat(" ", helpers.Max(1, leftPadding))
		rightSpacer := strings.Repeat(" ", helpers.Max(1, rightPadding))

		headerLine = addrDisplay + leftSpacer + titleText + rightSpacer + rpcDisplay
	}

	separator := lipgloss.NewStyle().
		Foreground(cBorder).
		Render(strings.Repeat("─", availableWidth))

	return headerLine + "\n" + separator
}

// composer renders the form, the connect button and the mining banner
func (m *model) composer(width int) string {
	parts := []string{form.Render(m.form)}

	if m.account == "" {
		parts = append(parts, styles.ButtonStyle.Render("Connect Wallet")+"  "+styles.MutedStyle.Render("press c"))
	}
	if m.loading {
		parts = append(parts, loadingStyle.Render(m.spin.View()+" Mining transaction..."))
	}
	if m.copiedMsg != "" {
		parts = append(parts, lipgloss.NewStyle().Foreground(cAccent).Bold(true).Render(m.copiedMsg))
	}

	border := cBorder
	if m.focus == focusForm {
		border = cAccent2
	}
	return panelStyle.
		BorderForeground(border).
		Padding(0, 1).
		Width(width).
		Render(strings.Join(parts, "\n"))
}

// View implements tea.Model interface and renders the UI
func (m *model) View() string {
	if m.alert != "" {
		return appStyle.Render(m.renderAlert())
	}
	if m.showQR {
		return appStyle.Render(m.renderQRPopup())
	}

	width := helpers.Max(0, m.w-2)
	headerPanel := panelStyle.Padding(0, 2).Width(width).Render(m.globalHeader())
	intro := lipgloss.NewStyle().Padding(0, 2).Render(home.Render(helpers.Max(20, m.w-6)))
	composer := m.composer(width)

	bindings := m.keys.listHelp()
	if m.focus == focusForm {
		bindings = m.keys.formHelp()
	}
	nav := home.Nav(width, bindings)

	var logPanel string
	if m.logEnabled {
		logPanel = logview.Render(m.w, m.logViewport)
	}

	used := lipgloss.Height(headerPanel) + lipgloss.Height(intro) + lipgloss.Height(composer) + lipgloss.Height(nav)
	if logPanel != "" {
		used += lipgloss.Height(logPanel)
	}
	listHeight := 0
	if m.h > 0 {
		listHeight = helpers.Max(5, m.h-used)
	}
	list := lipgloss.NewStyle().Padding(0, 2).Render(
		feed.Render(m.feed.Waves(), m.selected, m.names, helpers.Max(20, m.w-6), listHeight),
	)

	sections := []string{headerPanel, intro, composer, list}
	if logPanel != "" {
		sections = append(sections, logPanel)
	}
	sections = append(sections, nav)
	return appStyle.Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}
