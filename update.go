package main

import (
	"errors"
	"fmt"
	"strings"

	"waveportal-tui/helpers"
	"waveportal-tui/portal"
	"waveportal-tui/views/form"
	logview "waveportal-tui/views/log"
	"waveportal-tui/wallet"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/ethereum/go-ethereum/common"
)

// Alert texts
const (
	alertNoWallet     = "You need a wallet to use this functionality."
	alertEmptyMessage = "Please enter a message"
)

// resetForm clears the draft and builds a fresh form around it
func (m *model) resetForm() {
	*m.draft = ""
	m.form = form.New(m.draft, m.formWidth())
}

func (m *model) formWidth() int {
	if m.w == 0 {
		return 0
	}
	return helpers.Max(20, m.w-8)
}

// handleConnect asks the wallet for an account, or alerts without one
func (m *model) handleConnect() tea.Cmd {
	if m.wallet == nil {
		m.alert = alertNoWallet
		return nil
	}
	m.addLog("info", "Requesting account authorization")
	return connectWallet(m.ctx, m.wallet)
}

// handleSubmit sends the current draft as a wave
func (m *model) handleSubmit() tea.Cmd {
	message := *m.draft
	m.resetForm()

	if message == "" {
		m.alert = alertEmptyMessage
		return nil
	}
	if m.wallet == nil || m.contract == nil {
		m.addLog("error", errNoProvider.Error())
		return nil
	}
	if m.account == "" {
		m.addLog("warning", "No authorized account, connect your wallet first")
		return nil
	}
	return submitWave(m.ctx, m.contract, m.signer, m.account, message, m.cfg.GasLimit)
}

// moveSelection moves the highlight by delta, clamped to the feed
func (m *model) moveSelection(delta int) {
	n := m.feed.Len()
	if n == 0 {
		m.selected = 0
		return
	}
	m.selected = helpers.Max(0, helpers.Min(n-1, m.selected+delta))
}

// setAccount records the connected account
func (m *model) setAccount(account string) {
	m.account = account
	m.keys.Connect.SetEnabled(account == "")
}

// Update implements tea.Model interface and handles all messages
func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	// The form sees every message while focused so its internal
	// messages come back to it.
	if m.focus == focusForm && m.alert == "" && m.form != nil {
		if keyMsg, ok := msg.(tea.KeyMsg); ok {
			switch {
			case keyMsg.String() == "ctrl+c":
				return m, tea.Quit
			case key.Matches(keyMsg, m.keys.Leave):
				m.focus = focusList
				return m, nil
			}
		}

		f, cmd := m.form.Update(msg)
		if ff, ok := f.(*huh.Form); ok {
			m.form = ff
		}

		switch m.form.State {
		case huh.StateCompleted:
			// Return without the form's cmd, the form is rebuilt
			return m, m.handleSubmit()
		case huh.StateAborted:
			m.resetForm()
			m.focus = focusList
			return m, nil
		}

		if _, ok := msg.(tea.KeyMsg); ok {
			return m, cmd
		}
		cmds = append(cmds, cmd)
	}

	switch msg := msg.(type) {

	case rpcConnectedMsg:
		m.rpcConnecting = false
		if msg.err != nil {
			// Connection failed, behave as if no wallet is present
			m.rpcFailed = true
			m.addLog("error", fmt.Sprintf("RPC connection failed: `%s`", msg.err.Error()))
			cmds = append(cmds, detectWallet(m.ctx, nil))
			break
		}

		m.client = msg.client
		m.wallet = msg.client
		m.signer = msg.client
		m.addLog("success", fmt.Sprintf("RPC connected to `%s`", msg.client.URL), "chain", msg.client.ChainID)

		if !helpers.IsValidEthAddress(m.cfg.ContractAddress) {
			m.addLog("error", fmt.Sprintf("Invalid contract address `%s`", m.cfg.ContractAddress))
			cmds = append(cmds, detectWallet(m.ctx, m.wallet))
			break
		}
		p, err := portal.New(common.HexToAddress(m.cfg.ContractAddress), msg.client, m.cfg.PollEvery())
		if err != nil {
			m.addLog("error", err.Error())
			cmds = append(cmds, detectWallet(m.ctx, m.wallet))
			break
		}
		m.contract = p
		cmds = append(cmds, detectWallet(m.ctx, m.wallet), subscribeWaves(m.ctx, m.contract))

	case walletDetectedMsg:
		switch {
		case errors.Is(msg.err, wallet.ErrNoWallet):
			m.addLog("warning", "Make sure you have a wallet!")
		case msg.err != nil:
			m.addLog("error", msg.err.Error())
		case msg.account == "":
			m.addLog("info", "No authorized account found")
		default:
			m.addLog("success", "Found an authorized account", "account", msg.account)
			m.setAccount(msg.account)
			cmds = append(cmds, fetchAllWaves(m.ctx, m.contract))
		}

	case walletConnectedMsg:
		if msg.err != nil {
			m.addLog("error", msg.err.Error())
			break
		}
		m.addLog("success", "Connected", "account", msg.account)
		m.setAccount(msg.account)
		cmds = append(cmds, fetchAllWaves(m.ctx, m.contract))

	case wavesLoadedMsg:
		if msg.err != nil {
			m.addLog("error", fmt.Sprintf("Loading waves failed: %v", msg.err))
			break
		}
		m.feed.Replace(msg.waves)
		m.moveSelection(0)
		m.addLog("info", fmt.Sprintf("Loaded %d waves", len(msg.waves)))
		cmds = append(cmds, m.resolveNames(msg.waves...))

	case waveSentMsg:
		if msg.err != nil {
			m.addLog("error", fmt.Sprintf("Wave failed: %v", msg.err))
			break
		}
		m.addLog("info", "Retrieved total wave count...", "total", msg.total)
		m.loading = true
		m.pendingTx = msg.tx.Hash()
		m.addLog("info", "Mining -- "+msg.tx.Hash().Hex())
		cmds = append(cmds, waitMined(m.ctx, m.contract, msg.tx))

	case waveMinedMsg:
		// Cleared whatever the outcome so a failed send never leaves the
		// banner up.
		m.loading = false
		if msg.err != nil {
			m.addLog("error", fmt.Sprintf("Mining failed: %v", msg.err), "tx", msg.tx.Hash().Hex())
			break
		}
		m.addLog("success", "Mined -- "+msg.tx.Hash().Hex())
		cmds = append(cmds, fetchTotalWaves(m.ctx, m.contract))

	case totalWavesMsg:
		if msg.err != nil {
			m.addLog("error", fmt.Sprintf("Reading wave count failed: %v", msg.err))
			break
		}
		m.addLog("info", "Retrieved total wave count...", "total", msg.total)

	case subscribedMsg:
		if msg.err != nil {
			m.addLog("error", fmt.Sprintf("NewWave subscription failed: %v", msg.err))
			break
		}
		m.sub = msg.sub
		m.addLog("info", "Listening for NewWave events")
		cmds = append(cmds, waitForWave(m.sub))

	case newWaveMsg:
		m.addLog("info", "NewWave", "from", msg.wave.Address, "message", msg.wave.Message)
		if m.feed.Append(msg.wave) {
			cmds = append(cmds, m.resolveNames(msg.wave))
		} else {
			m.addLog("debug", "Dropped duplicate wave", "key", msg.wave.Key())
		}
		if m.sub != nil {
			cmds = append(cmds, waitForWave(m.sub))
		}

	case subscriptionEndedMsg:
		if msg.err != nil {
			m.addLog("warning", fmt.Sprintf("NewWave subscription ended: %v", msg.err))
		}

	case ensLookupResultMsg:
		if msg.debugInfo != "" {
			m.addLog("debug", fmt.Sprintf("ENS debug: %s", msg.debugInfo))
		}
		if msg.err == nil && msg.ensName != "" {
			m.names[strings.ToLower(msg.address)] = msg.ensName
		}

	case clipboardCopiedMsg:
		if msg.err != nil {
			m.addLog("error", fmt.Sprintf("Copy failed: %v", msg.err))
			break
		}
		m.copiedMsg = "✓ Copied link to clipboard"
		cmds = append(cmds, clearCopied())

	case clearCopiedMsg:
		m.copiedMsg = ""

	case tea.WindowSizeMsg:
		m.w, m.h = msg.Width, msg.Height
		// Width accounts for border and padding
		m.logViewport.Width = helpers.Max(0, msg.Width-6)
		m.logViewport.Height = logview.PanelHeight(msg.Height)
		m.updateLogViewport()
		if m.form != nil && m.focus != focusForm {
			m.form = m.form.WithWidth(m.formWidth())
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		cmds = append(cmds, cmd)

	case tea.MouseMsg:
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			m.moveSelection(-1)
		case tea.MouseButtonWheelDown:
			m.moveSelection(1)
		}

	case tea.KeyMsg:
		return m, m.handleKey(msg)
	}

	return m, tea.Batch(cmds...)
}

// handleKey handles keys while the list has focus
func (m *model) handleKey(msg tea.KeyMsg) tea.Cmd {
	// Alert dialog blocks everything until dismissed
	if m.alert != "" {
		switch {
		case msg.String() == "ctrl+c":
			return tea.Quit
		case key.Matches(msg, m.keys.Dismiss):
			m.alert = ""
		}
		return nil
	}

	if m.showQR {
		switch {
		case msg.String() == "ctrl+c":
			return tea.Quit
		case key.Matches(msg, m.keys.Dismiss), key.Matches(msg, m.keys.QR):
			m.showQR = false
		}
		return nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit

	case key.Matches(msg, m.keys.Focus):
		m.focus = focusForm

	case key.Matches(msg, m.keys.Connect):
		return m.handleConnect()

	case key.Matches(msg, m.keys.Refresh):
		if m.contract == nil {
			m.addLog("warning", errNoProvider.Error())
			return nil
		}
		m.addLog("info", "Refreshing waves")
		return fetchAllWaves(m.ctx, m.contract)

	case key.Matches(msg, m.keys.Up):
		m.moveSelection(-1)

	case key.Matches(msg, m.keys.Down):
		m.moveSelection(1)

	case key.Matches(msg, m.keys.Copy):
		if w, ok := m.selectedWave(); ok {
			return copyToClipboard(helpers.LinkHref(w.Message))
		}

	case key.Matches(msg, m.keys.QR):
		if _, ok := m.selectedWave(); ok {
			m.showQR = true
		}

	case key.Matches(msg, m.keys.Log):
		m.logEnabled = !m.logEnabled
		m.updateLogViewport()
	}
	return nil
}
