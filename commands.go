package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"waveportal-tui/helpers"
	"waveportal-tui/portal"
	"waveportal-tui/rpc"
	"waveportal-tui/wallet"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// -------------------- COMMAND FUNCTIONS --------------------
// Functions that return tea.Cmd for async operations

// errNoProvider is reported by contract commands run without a connection
var errNoProvider = errors.New("Ethereum object doesn't exist")

// signerSource builds transaction options that sign for an account
type signerSource interface {
	Transactor(ctx context.Context, from common.Address) *bind.TransactOpts
}

// connectRPC establishes an RPC connection to the wallet endpoint
func connectRPC(url string) tea.Cmd {
	return func() tea.Msg {
		result := rpc.Connect(url)
		return rpcConnectedMsg{client: result.Client, err: result.Error}
	}
}

// detectWallet checks for an already-authorized account without prompting
func detectWallet(ctx context.Context, w wallet.Injected) tea.Cmd {
	return func() tea.Msg {
		account, err := wallet.AuthorizedAccount(ctx, w)
		return walletDetectedMsg{account: account, err: err}
	}
}

// connectWallet asks the wallet to authorize an account
func connectWallet(ctx context.Context, w wallet.Injected) tea.Cmd {
	return func() tea.Msg {
		account, err := wallet.RequestAccount(ctx, w)
		return walletConnectedMsg{account: account, err: err}
	}
}

// fetchAllWaves reads the whole history from the contract
func fetchAllWaves(ctx context.Context, c portal.Contract) tea.Cmd {
	return func() tea.Msg {
		if c == nil {
			return wavesLoadedMsg{err: errNoProvider}
		}
		waves, err := c.AllWaves(ctx)
		return wavesLoadedMsg{waves: waves, err: err}
	}
}

// fetchTotalWaves reads the wave count for the log
func fetchTotalWaves(ctx context.Context, c portal.Contract) tea.Cmd {
	return func() tea.Msg {
		if c == nil {
			return totalWavesMsg{err: errNoProvider}
		}
		total, err := c.TotalWaves(ctx)
		return totalWavesMsg{total: total, err: err}
	}
}

// submitWave reads the count, then sends wave(message) with a fixed gas limit
func submitWave(ctx context.Context, c portal.Contract, signer signerSource, account, message string, gasLimit uint64) tea.Cmd {
	return func() tea.Msg {
		if c == nil || signer == nil {
			return waveSentMsg{err: errNoProvider}
		}
		total, err := c.TotalWaves(ctx)
		if err != nil {
			return waveSentMsg{err: err}
		}

		opts := signer.Transactor(ctx, common.HexToAddress(account))
		opts.GasLimit = gasLimit
		tx, err := c.Wave(opts, message)
		return waveSentMsg{tx: tx, total: total, err: err}
	}
}

// waitMined waits for a sent wave to be mined
func waitMined(ctx context.Context, c portal.Contract, tx *types.Transaction) tea.Cmd {
	return func() tea.Msg {
		receipt, err := c.WaitMined(ctx, tx)
		return waveMinedMsg{tx: tx, receipt: receipt, err: err}
	}
}

// subscribeWaves acquires the live NewWave feed
func subscribeWaves(ctx context.Context, c portal.Contract) tea.Cmd {
	return func() tea.Msg {
		if c == nil {
			return subscribedMsg{err: errNoProvider}
		}
		sub, err := portal.Subscribe(ctx, c)
		return subscribedMsg{sub: sub, err: err}
	}
}

// waitForWave blocks until the next live wave or the end of the feed
func waitForWave(sub *portal.Subscription) tea.Cmd {
	return func() tea.Msg {
		w, ok := <-sub.Events()
		if !ok {
			return subscriptionEndedMsg{err: sub.Err()}
		}
		return newWaveMsg{wave: w}
	}
}

// lookupENS performs reverse ENS lookup (address -> name)
func lookupENS(client *rpc.Client, address string) tea.Cmd {
	return func() tea.Msg {
		if client == nil {
			return ensLookupResultMsg{address: address, err: fmt.Errorf("no RPC client")}
		}
		result := helpers.LookupENS(address, client)
		return ensLookupResultMsg{
			address:   address,
			ensName:   result.Name,
			err:       result.Error,
			debugInfo: result.DebugInfo,
		}
	}
}

// copyToClipboard copies text to clipboard
func copyToClipboard(text string) tea.Cmd {
	return func() tea.Msg {
		return clipboardCopiedMsg{err: clipboard.WriteAll(text)}
	}
}

// clearCopied waits 2 seconds then clears clipboard feedback
func clearCopied() tea.Cmd {
	return tea.Tick(2*time.Second, func(t time.Time) tea.Msg {
		return clearCopiedMsg{}
	})
}

// -------------------- MODEL HELPER METHODS --------------------

// addLog adds a log entry with level
func (m *model) addLog(level, message string, keyvals ...interface{}) {
	if m.logger == nil {
		return
	}

	switch level {
	case "info":
		m.logger.Info(message, keyvals...)
	case "success":
		m.logger.Info("✓ "+message, keyvals...)
	case "error":
		m.logger.Error(message, keyvals...)
	case "warning":
		m.logger.Warn(message, keyvals...)
	case "debug":
		m.logger.Debug(message, keyvals...)
	default:
		m.logger.Print(message, keyvals...)
	}

	m.updateLogViewport()
}

// updateLogViewport refreshes the viewport content with log output
func (m *model) updateLogViewport() {
	if m.logBuffer == nil {
		return
	}
	m.logViewport.SetContent(m.logBuffer.String())
	m.logViewport.GotoBottom()
}

// resolveNames issues ENS lookups for senders not seen before
func (m *model) resolveNames(waves ...portal.Wave) tea.Cmd {
	if !m.cfg.ResolveENS || m.client == nil {
		return nil
	}
	var cmds []tea.Cmd
	for _, w := range waves {
		addr := strings.ToLower(w.Address)
		if m.lookedUp[addr] {
			continue
		}
		m.lookedUp[addr] = true
		cmds = append(cmds, lookupENS(m.client, w.Address))
	}
	return tea.Batch(cmds...)
}
