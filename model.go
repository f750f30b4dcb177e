package main

import (
	"context"
	"io"
	"strings"

	"waveportal-tui/config"
	"waveportal-tui/portal"
	"waveportal-tui/rpc"
	"waveportal-tui/styles"
	"waveportal-tui/views/form"
	"waveportal-tui/wallet"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/ethereum/go-ethereum/common"
)

// -------------------- MODEL --------------------

// focus is the part of the screen receiving keys
type focus int

const (
	focusList focus = iota
	focusForm
)

// model represents the application state following The Elm Architecture
type model struct {
	w, h int

	// ctx bounds every chain call and the live feed; cancelled on exit
	ctx context.Context
	cfg config.Config

	// connection
	rpcConnecting bool
	rpcFailed     bool
	client        *rpc.Client
	wallet        wallet.Injected // nil when no wallet is present
	signer        signerSource
	contract      portal.Contract
	sub           *portal.Subscription

	// connected account, empty until detected or authorized
	account string

	// wave list
	feed     *portal.Feed
	selected int

	// true between an accepted send and the end of its mined wait
	loading   bool
	pendingTx common.Hash

	// message form
	draft *string
	form  *huh.Form
	focus focus

	// blocking alert dialog
	alert string

	// reverse ENS names by lower-cased address
	names    map[string]string
	lookedUp map[string]bool

	// QR popup for the selected link
	showQR bool

	// clipboard feedback
	copiedMsg string

	spin spinner.Model
	keys keyMap

	// logger panel
	logEnabled  bool
	logger      *log.Logger
	logBuffer   *strings.Builder
	logViewport viewport.Model
}

// -------------------- INIT --------------------

// newModel creates the model. Extra receives a copy of every log line
// when non-nil.
func newModel(ctx context.Context, cfg config.Config, extra io.Writer) *model {
	cfg = cfg.WithDefaults()

	// spinner
	sp := spinner.New()
	sp.Spinner = spinner.Line
	sp.Style = lipgloss.NewStyle().Foreground(styles.CAccent2)

	// Initialize log viewport
	vp := viewport.New(0, 8) // Will be resized in Update on first WindowSizeMsg
	vp.Style = lipgloss.NewStyle().
		Foreground(styles.CText).
		Background(styles.CPanel)

	buf := &strings.Builder{}
	var out io.Writer = buf
	if extra != nil {
		out = io.MultiWriter(buf, extra)
	}

	draft := ""
	m := &model{
		ctx:           ctx,
		cfg:           cfg,
		rpcConnecting: cfg.RPCURL != "",
		feed:          &portal.Feed{},
		draft:         &draft,
		form:          form.New(&draft, 0),
		names:         make(map[string]string),
		lookedUp:      make(map[string]bool),
		spin:          sp,
		keys:          newKeyMap(),
		logEnabled:    cfg.Logger,
		logger:        newLogger(out),
		logBuffer:     buf,
		logViewport:   vp,
	}
	return m
}

// newLogger creates a logger styled for the log panel
func newLogger(w io.Writer) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
		Prefix:          "",
	})
	// Set log level and styling
	logger.SetLevel(log.DebugLevel)
	logger.SetStyles(&log.Styles{
		Timestamp: lipgloss.NewStyle().Foreground(styles.CMuted),
		Caller:    lipgloss.NewStyle().Faint(true),
		Prefix:    lipgloss.NewStyle().Bold(true).Foreground(styles.CAccent2),
		Message:   lipgloss.NewStyle().Foreground(styles.CText),
		Key:       lipgloss.NewStyle().Foreground(styles.CAccent),
		Value:     lipgloss.NewStyle().Foreground(styles.CText),
		Separator: lipgloss.NewStyle().Faint(true),
		Levels: map[log.Level]lipgloss.Style{
			log.DebugLevel: lipgloss.NewStyle().Foreground(styles.CMuted).SetString("DEBUG"),
			log.InfoLevel:  lipgloss.NewStyle().Foreground(styles.CAccent2).SetString("INFO"),
			log.WarnLevel:  lipgloss.NewStyle().Foreground(styles.CWarn).SetString("WARN"),
			log.ErrorLevel: lipgloss.NewStyle().Foreground(styles.CError).SetString("ERROR"),
		},
	})
	return logger
}

// Init implements tea.Model interface and returns initial commands
func (m model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spin.Tick}
	// connect if rpc is set, otherwise there is no wallet to look at
	if m.cfg.RPCURL != "" {
		cmds = append(cmds, connectRPC(m.cfg.RPCURL))
	} else {
		cmds = append(cmds, detectWallet(m.ctx, nil))
	}
	return tea.Batch(cmds...)
}

// close releases the live feed and the connection
func (m *model) close() {
	if m.sub != nil {
		m.sub.Close()
	}
	m.client.Close()
}

// selectedWave returns the highlighted wave
func (m *model) selectedWave() (portal.Wave, bool) {
	if m.selected < 0 || m.selected >= m.feed.Len() {
		return portal.Wave{}, false
	}
	return m.feed.At(m.selected), true
}
