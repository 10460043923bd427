package main

import (
	"context"
	"time"

	"charm-dblog-tui/blog"
	"charm-dblog-tui/config"
	"charm-dblog-tui/domain"
	"charm-dblog-tui/metrics"
	"charm-dblog-tui/rpc"
	"charm-dblog-tui/styles"
	"charm-dblog-tui/views/feed"
	"charm-dblog-tui/views/home"
	logview "charm-dblog-tui/views/log"
	"charm-dblog-tui/views/toast"
	"charm-dblog-tui/wallet"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
)

// -------------------- MODEL --------------------

// model represents the application state following The Elm Architecture
type model struct {
	w, h int

	activePage config.Page

	cfg        config.Config
	configPath string
	fs         afero.Fs

	// connection state
	rpcClient     *rpc.Client
	rpcConnected  bool // true if RPC is successfully connected
	rpcConnecting bool // true if connection attempt is in progress

	// session; gen increments on every rebuild so late messages from an
	// old session are ignored
	app      *blog.App
	provider *wallet.Provider
	gen      int

	// wallet
	connecting bool
	passphrase string
	passForm   *huh.Form

	// metrics endpoint
	metrics       *metrics.Recorder
	metricsCancel context.CancelFunc

	// toasts
	toasts    *toast.Queue
	toastList []toast.Toast

	// home form
	homeForm *huh.Form

	// feed; only the result of request feedSeq is applied
	feedSeq int
	feed    feed.State
	posts   []domain.Post

	// clipboard feedback
	flashTime time.Time

	// compose
	composeForm  *huh.Form
	imagePreview string
	previewPath  string
	submitting   bool

	// tip dialog
	showTipDialog bool
	tipForm       *huh.Form
	tipPost       blog.PostView
	tipSending    bool

	spin spinner.Model

	// logger panel
	logEnabled  bool
	logger      *log.Logger
	logBuffer   *logview.Buffer
	logViewport viewport.Model
	logReady    bool
	logSpinner  spinner.Model
}

// -------------------- INIT --------------------

// newModel creates and initializes a new model from the loaded config
func newModel(cfg config.Config, configPath string) model {
	// spinner
	sp := spinner.New()
	sp.Spinner = spinner.Line
	sp.Style = lipgloss.NewStyle().Foreground(styles.CAccent2)

	// Initialize log viewport
	vp := viewport.New(0, 20) // Will be resized in Update on first WindowSizeMsg
	vp.Style = lipgloss.NewStyle().
		Foreground(styles.CText).
		Background(styles.CPanel)

	// Initialize log spinner
	logSpin := spinner.New()
	logSpin.Spinner = spinner.Dot
	logSpin.Style = lipgloss.NewStyle().Foreground(styles.CAccent2)

	// The logger records even while the panel is hidden
	buf := &logview.Buffer{}

	m := model{
		activePage:    config.PageHome,
		cfg:           cfg,
		configPath:    configPath,
		fs:            afero.NewOsFs(),
		rpcConnecting: cfg.RPCURL != "",
		metrics:       metrics.New(),
		toasts:        toast.NewQueue(16),
		homeForm:      home.CreateForm(false),
		spin:          sp,
		logEnabled:    cfg.Logger,
		logger:        logview.NewLogger(buf),
		logBuffer:     buf,
		logViewport:   vp,
		logSpinner:    logSpin,
	}

	return m
}

// Init implements tea.Model interface and returns initial commands
func (m *model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spin.Tick, m.toasts.Listen()}
	if m.logEnabled {
		cmds = append(cmds, initLogViewport(), m.logSpinner.Tick)
	}
	if m.cfg.MetricsAddr != "" {
		ctx, cancel := context.WithCancel(context.Background())
		m.metricsCancel = cancel
		cmds = append(cmds, serveMetrics(ctx, m.metrics, m.cfg.MetricsAddr))
	}
	// connect if rpc is set
	if m.cfg.RPCURL != "" {
		cmds = append(cmds, connectRPC(m.cfg.RPCURL, m.cfg.RPCTimeout, m.gen))
	} else {
		cmds = append(cmds, openSession(m.sessionConfig(), nil, m.metrics, m.toasts, m.logger, m.gen))
	}
	return tea.Batch(cmds...)
}

// shutdown releases the session and stops the metrics endpoint
func (m *model) shutdown() {
	if m.metricsCancel != nil {
		m.metricsCancel()
	}
	if m.app != nil {
		m.app.Close()
	}
	if m.rpcClient != nil && m.rpcClient.Client != nil {
		m.rpcClient.Close()
	}
}
