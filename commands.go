package main

import (
	"context"
	"fmt"
	"time"

	"charm-dblog-tui/blog"
	"charm-dblog-tui/config"
	"charm-dblog-tui/contract"
	"charm-dblog-tui/metrics"
	"charm-dblog-tui/pinning"
	"charm-dblog-tui/rpc"
	"charm-dblog-tui/views/compose"
	"charm-dblog-tui/wallet"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/log"
	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/afero"
)

// -------------------- COMMAND FUNCTIONS --------------------
// Functions that return tea.Cmd for async operations

// connectRPC establishes an RPC connection to the Ethereum node
func connectRPC(url string, timeout time.Duration, gen int) tea.Cmd {
	return func() tea.Msg {
		result := rpc.ConnectWithTimeout(url, timeout)
		return rpcConnectedMsg{client: result.Client, gen: gen, err: result.Error}
	}
}

// initLogViewport initializes the log viewport
func initLogViewport() tea.Cmd {
	return func() tea.Msg {
		return logInitMsg{}
	}
}

// openSession builds the provider, contract gateway and pinning client
// around client. Any piece that cannot be built is left out of the
// session; the controllers report its absence when used.
func openSession(cfg config.Config, client *rpc.Client, rec *metrics.Recorder, notifier blog.Notifier, logger *log.Logger, gen int) tea.Cmd {
	return func() tea.Msg {
		deps := blog.Deps{
			Notifier:      notifier,
			Logger:        logger,
			Fs:            afero.NewOsFs(),
			RPCTimeout:    cfg.RPCTimeout,
			UploadTimeout: cfg.UploadTimeout,
			Pinner: pinning.New(pinning.Options{
				Endpoint: cfg.PinataEndpoint,
				JWT:      cfg.PinataJWT,
				Gateway:  cfg.IPFSGateway,
				Timeout:  cfg.UploadTimeout,
				Metrics:  rec,
			}),
		}
		if client == nil {
			return sessionReadyMsg{app: blog.New(deps), gen: gen}
		}

		var (
			provider *wallet.Provider
			signer   contract.Signer
			openErr  error
		)
		watcher := rpc.NewChainWatcher(client.Client, client.ChainID, cfg.ChainPollInterval)
		provider, openErr = wallet.Open(client, wallet.Options{
			KeystoreDir: cfg.KeystoreDir,
			Passphrase:  cfg.KeystorePassphrase,
			Watcher:     watcher,
		})
		if openErr != nil {
			logger.Warn("Wallet provider unavailable", "err", openErr)
			provider = nil
		} else {
			deps.Provider = provider
			signer = provider
		}

		gw, err := contract.NewGateway(common.HexToAddress(cfg.ContractAddress), client.Client, signer, rec)
		if err != nil {
			logger.Error("Contract binding failed", "err", err)
		} else {
			deps.Gateway = gw
		}

		return sessionReadyMsg{app: blog.New(deps), provider: provider, gen: gen, err: err}
	}
}

// closeSession tears down a session and its RPC connection off the UI loop
func closeSession(app *blog.App, client *rpc.Client) tea.Cmd {
	return func() tea.Msg {
		if app != nil {
			app.Close()
		}
		if client != nil && client.Client != nil {
			client.Close()
		}
		return nil
	}
}

// listenNotifications waits for the next provider event
func listenNotifications(ch <-chan wallet.Notification, gen int) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		n, ok := <-ch
		if !ok {
			return nil
		}
		return notificationMsg{n: n, gen: gen}
	}
}

// handleNotification applies a provider event to the session
func handleNotification(app *blog.App, n wallet.Notification, gen int) tea.Cmd {
	return func() tea.Msg {
		return notificationHandledMsg{action: app.Wallet.HandleNotification(context.Background(), n), gen: gen}
	}
}

// connectWallet asks the provider for account access
func connectWallet(app *blog.App) tea.Cmd {
	return func() tea.Msg {
		addr, err := app.Wallet.Connect(context.Background())
		return walletConnectedMsg{addr: addr, err: err}
	}
}

// loadFeed reads the post list for request seq
func loadFeed(app *blog.App, seq int) tea.Cmd {
	return func() tea.Msg {
		return feedLoadedMsg{seq: seq, res: app.Feed.Load(context.Background())}
	}
}

// submitPost publishes the compose form's draft
func submitPost(app *blog.App, d blog.Draft) tea.Cmd {
	return func() tea.Msg {
		res, err := app.Authoring.Submit(context.Background(), d)
		return postSubmittedMsg{res: res, err: err}
	}
}

// sendTip confirms the pending tip with amount in ether
func sendTip(app *blog.App, amount string) tea.Cmd {
	return func() tea.Msg {
		res, err := app.Tipping.Confirm(context.Background(), amount)
		return tipSentMsg{res: res, err: err}
	}
}

// copyToClipboard copies text to clipboard
func copyToClipboard(text, what string) tea.Cmd {
	return func() tea.Msg {
		return clipboardCopiedMsg{what: what, err: clipboard.WriteAll(text)}
	}
}

// clearFlash waits 2 seconds then clears the copy feedback
func clearFlash() tea.Cmd {
	return tea.Tick(2*time.Second, func(t time.Time) tea.Msg {
		return clearFlashMsg{}
	})
}

// serveMetrics exposes the prometheus endpoint until ctx is cancelled
func serveMetrics(ctx context.Context, rec *metrics.Recorder, addr string) tea.Cmd {
	return func() tea.Msg {
		return metricsStoppedMsg{err: rec.Serve(ctx, addr)}
	}
}

// -------------------- HELPERS --------------------

// addLog adds a log entry with timestamp and type
func (m *model) addLog(logType, message string) {
	if m.logger == nil {
		return
	}

	switch logType {
	case "info":
		m.logger.Info(message)
	case "success":
		m.logger.Info("✓", "msg", message)
	case "error":
		m.logger.Error(message)
	case "warning":
		m.logger.Warn(message)
	case "debug":
		m.logger.Debug(message)
	default:
		m.logger.Print(message)
	}

	m.updateLogViewport()
}

// updateLogViewport refreshes the viewport content with log output
func (m *model) updateLogViewport() {
	if !m.logEnabled || !m.logReady || m.logBuffer == nil {
		return
	}

	m.logViewport.SetContent(m.logBuffer.String())
	// Scroll to bottom to show latest entries
	m.logViewport.GotoBottom()
}

// textInputActive returns true if a form or dialog currently owns the keyboard
func (m *model) textInputActive() bool {
	if m.passForm != nil || m.showTipDialog {
		return true
	}
	return m.activePage == config.PageAddPost && m.composeForm != nil && m.composeForm.State == huh.StateNormal
}

// connectOrPrompt connects the wallet, asking for the keystore passphrase
// first when none is configured.
func (m *model) connectOrPrompt() tea.Cmd {
	if m.app == nil || m.connecting {
		return nil
	}
	if m.provider != nil && m.cfg.KeystorePassphrase == "" && m.passphrase == "" {
		m.passForm = createPassphraseForm()
		return nil
	}
	m.connecting = true
	m.addLog("info", "Requesting wallet access")
	return connectWallet(m.app)
}

// reloadFeed starts a new feed request; older in-flight results are dropped
func (m *model) reloadFeed() tea.Cmd {
	if m.app == nil {
		return nil
	}
	m.feedSeq++
	m.feed.Loading = true
	m.addLog("debug", fmt.Sprintf("Loading posts (request %d)", m.feedSeq))
	return loadFeed(m.app, m.feedSeq)
}

// restart rebuilds the RPC connection and the session after a network change
func (m *model) restart() tea.Cmd {
	old, client := m.app, m.rpcClient
	m.gen++
	m.app = nil
	m.provider = nil
	m.rpcClient = nil
	m.rpcConnected = false
	m.rpcConnecting = true
	m.connecting = false
	m.showTipDialog = false
	m.tipForm = nil
	m.addLog("warning", "Network changed, rebuilding session")
	return tea.Batch(
		closeSession(old, client),
		connectRPC(m.cfg.RPCURL, m.cfg.RPCTimeout, m.gen),
	)
}

// openCompose shows the post form. A draft survives leaving the page
// and is only cleared once it has been published.
func (m *model) openCompose() {
	m.activePage = config.PageAddPost
	if m.composeForm == nil || m.composeForm.State != huh.StateNormal {
		m.rebuildComposeForm()
	}
}

// rebuildComposeForm recreates the post form around the current draft
func (m *model) rebuildComposeForm() {
	m.composeForm = compose.CreateForm(func(path string) error {
		if m.app == nil {
			return nil
		}
		return m.app.Authoring.CheckImage(path)
	})
	m.refreshPreview()
}

// refreshPreview describes the image currently in the compose form
func (m *model) refreshPreview() {
	if compose.TempImagePath == m.previewPath {
		return
	}
	m.previewPath = compose.TempImagePath
	preview, err := compose.Preview(m.fs, compose.TempImagePath)
	if err != nil {
		m.imagePreview = ""
		return
	}
	m.imagePreview = preview
}

// sessionConfig is the config the next session is opened with. A
// passphrase typed at the prompt outlives session rebuilds.
func (m *model) sessionConfig() config.Config {
	cfg := m.cfg
	if m.passphrase != "" {
		cfg.KeystorePassphrase = m.passphrase
	}
	return cfg
}
