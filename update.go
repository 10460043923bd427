package main

import (
	"errors"
	"fmt"
	"time"

	"charm-dblog-tui/blog"
	"charm-dblog-tui/config"
	"charm-dblog-tui/domain"
	"charm-dblog-tui/helpers"
	"charm-dblog-tui/views/compose"
	"charm-dblog-tui/views/home"
	"charm-dblog-tui/views/tip"
	"charm-dblog-tui/views/toast"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
)

// -------------------- TEMP FORM STORAGE --------------------
// Temporary form field storage (package-level to avoid pointer-to-copy issues)
var tempPassphrase string

func createPassphraseForm() *huh.Form {
	tempPassphrase = ""

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Keystore Passphrase").
				Description("Unlocks the first keystore account for this session").
				EchoMode(huh.EchoModePassword).
				Value(&tempPassphrase),
		),
	).WithTheme(huh.ThemeCatppuccin())

	// Initialize the form
	form.Init()
	return form
}

func (m *model) resetHomeForm() {
	connected := m.app != nil && m.app.Session.Connected()
	m.homeForm = home.CreateForm(connected)
}

func (m *model) openTipDialog(v blog.PostView) {
	if err := m.app.Tipping.Open(v.Post.ID); err != nil {
		return
	}
	m.tipPost = v
	m.tipSending = false
	m.tipForm = tip.CreateForm(false)
	m.showTipDialog = true
	m.addLog("info", fmt.Sprintf("Tipping post #%s by `%s`", v.Post.ID, v.AuthorShort))
}

func (m *model) closeTipDialog() {
	if m.app != nil {
		m.app.Tipping.Cancel()
	}
	m.showTipDialog = false
	m.tipForm = nil
	m.tipSending = false
}

// -------------------- UPDATE --------------------

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	// The focused form sees every message; huh drives its own field
	// navigation through internal messages.
	if cmd, consumed := m.updateForms(msg); consumed {
		return m, cmd
	} else if cmd != nil {
		cmds = append(cmds, cmd)
	}

	switch msg := msg.(type) {

	case logInitMsg:
		if !m.logEnabled {
			return m, tea.Batch(cmds...)
		}
		m.logReady = true
		m.addLog("info", "Logger enabled")

	case rpcConnectedMsg:
		if msg.gen != m.gen {
			return m, tea.Batch(append(cmds, closeSession(nil, msg.client))...)
		}
		m.rpcConnecting = false
		if msg.err != nil {
			// Connection failed; the session still opens so the feed can
			// show its error state
			m.rpcClient = nil
			m.rpcConnected = false
			m.addLog("error", fmt.Sprintf("RPC connection failed: `%s`", msg.err.Error()))
			cmds = append(cmds, openSession(m.sessionConfig(), nil, m.metrics, m.toasts, m.logger, m.gen))
		} else {
			m.rpcClient = msg.client
			m.rpcConnected = true
			m.addLog("success", fmt.Sprintf("RPC connected to `%s` (chain %s)", msg.client.URL, msg.client.ChainID))
			cmds = append(cmds, openSession(m.sessionConfig(), msg.client, m.metrics, m.toasts, m.logger, m.gen))
		}

	case sessionReadyMsg:
		if msg.gen != m.gen {
			return m, tea.Batch(append(cmds, closeSession(msg.app, nil))...)
		}
		m.app = msg.app
		m.provider = msg.provider
		if m.provider != nil {
			m.addLog("info", "Wallet provider ready")
		} else {
			m.addLog("warning", "No wallet provider; browsing is read-only")
		}
		m.resetHomeForm()
		cmds = append(cmds,
			listenNotifications(m.app.Session.Notifications(), m.gen),
			m.reloadFeed(),
		)

	case notificationMsg:
		if msg.gen != m.gen || m.app == nil {
			return m, tea.Batch(cmds...)
		}
		m.addLog("debug", fmt.Sprintf("Provider event: %s", msg.n.Kind))
		cmds = append(cmds,
			handleNotification(m.app, msg.n, msg.gen),
			listenNotifications(m.app.Session.Notifications(), msg.gen),
		)

	case notificationHandledMsg:
		if msg.gen != m.gen {
			return m, tea.Batch(cmds...)
		}
		switch msg.action {
		case blog.ActionRestart:
			cmds = append(cmds, m.restart())
		case blog.ActionReloadFeed:
			m.resetHomeForm()
			cmds = append(cmds, m.reloadFeed())
		default:
			m.resetHomeForm()
			if m.showTipDialog && !m.app.Session.Connected() {
				m.closeTipDialog()
			}
		}

	case walletConnectedMsg:
		m.connecting = false
		if msg.err != nil {
			m.addLog("error", "Wallet connection failed: "+msg.err.Error())
			if errors.Is(msg.err, domain.ErrUserRejected) && m.provider != nil && m.cfg.KeystorePassphrase == "" {
				// ask again next time
				m.passphrase = ""
				m.provider.SetPassphrase("")
			}
		} else {
			m.addLog("success", fmt.Sprintf("Wallet connected: `%s`", helpers.ShortenAddr(msg.addr.Hex())))
		}
		m.resetHomeForm()

	case feedLoadedMsg:
		if msg.seq != m.feedSeq {
			m.addLog("debug", fmt.Sprintf("Dropped stale feed result (request %d)", msg.seq))
			return m, tea.Batch(cmds...)
		}
		res := msg.res
		m.feed.Loading = false
		m.feed.Loaded = true
		m.feed.Result = res.State
		m.feed.Empty = res.Empty
		m.feed.Err = res.Err
		m.feed.LoadedAt = res.LoadedAt
		m.posts = res.Posts
		if m.feed.Selected >= len(m.posts) {
			m.feed.Selected = max(0, len(m.posts)-1)
		}
		if len(m.posts) == 0 {
			m.feed.Expanded = false
		}

	case postSubmittedMsg:
		m.submitting = false
		if msg.err != nil {
			m.addLog("error", "Post not published: "+msg.err.Error())
			// keep the draft so it can be fixed and sent again
			m.rebuildComposeForm()
			return m, tea.Batch(cmds...)
		}
		if msg.res.ImageDropped {
			m.addLog("warning", "Post published without its image")
		}
		m.addLog("success", fmt.Sprintf("Post submitted: `%s`", msg.res.TxHash.Hex()))
		compose.Reset()
		m.composeForm = nil
		m.imagePreview = ""
		m.previewPath = ""
		m.activePage = config.PagePosts
		cmds = append(cmds, m.reloadFeed())

	case tipSentMsg:
		m.tipSending = false
		switch {
		case msg.err == nil:
			m.addLog("success", fmt.Sprintf("Tip sent: `%s`", msg.res.TxHash.Hex()))
			m.closeTipDialog()
			cmds = append(cmds, m.reloadFeed())
		case errors.Is(msg.err, domain.ErrNoTipTarget):
			m.closeTipDialog()
		default:
			m.addLog("error", "Tip failed: "+msg.err.Error())
			if m.showTipDialog {
				m.tipForm = tip.CreateForm(true)
			}
		}

	case clipboardCopiedMsg:
		if msg.err != nil {
			m.addLog("error", "Clipboard copy failed: "+msg.err.Error())
			m.toasts.Notify(blog.LevelError, "Could not copy to clipboard")
			return m, tea.Batch(cmds...)
		}
		m.feed.Flash = "✓ Copied " + msg.what + " to clipboard"
		m.flashTime = time.Now()
		cmds = append(cmds, clearFlash())

	case clearFlashMsg:
		if time.Since(m.flashTime) >= 2*time.Second {
			m.feed.Flash = ""
		}

	case metricsStoppedMsg:
		if msg.err != nil {
			m.addLog("error", "Metrics endpoint stopped: "+msg.err.Error())
		}

	case toast.Msg:
		m.toastList = toast.Push(m.toastList, msg.Toast)
		cmds = append(cmds, toast.Expire(msg.Toast.ID), m.toasts.Listen())

	case toast.ExpiredMsg:
		m.toastList = toast.Remove(m.toastList, msg.ID)

	case tea.WindowSizeMsg:
		m.w, m.h = msg.Width, msg.Height

		// Only initialize viewport if log is enabled
		if m.logEnabled {
			// Width accounts for border and padding
			m.logViewport.Width = max(0, msg.Width-6)
			if m.logReady {
				m.updateLogViewport()
			}
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		cmds = append(cmds, cmd)
		// Update log spinner too if log is enabled but not ready
		if m.logEnabled && !m.logReady {
			m.logSpinner, cmd = m.logSpinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case tea.MouseMsg:
		if m.activePage == config.PagePosts && !m.showTipDialog && !m.feed.Expanded {
			switch msg.Button {
			case tea.MouseButtonWheelUp:
				m.moveSelection(-1)
			case tea.MouseButtonWheelDown:
				m.moveSelection(1)
			}
		}

	case tea.KeyMsg:
		cmds = append(cmds, m.handleKey(msg))
	}

	// controllers log from command goroutines
	m.updateLogViewport()
	return m, tea.Batch(cmds...)
}

// updateForms routes msg to the form that owns the keyboard and acts on
// its completion. consumed is true when msg must not reach other handlers.
func (m *model) updateForms(msg tea.Msg) (tea.Cmd, bool) {
	keyMsg, isKey := msg.(tea.KeyMsg)
	if isKey && keyMsg.String() == "ctrl+c" {
		return nil, false
	}

	switch {
	case m.passForm != nil:
		if isKey && keyMsg.String() == "esc" {
			m.passForm = nil
			return nil, true
		}
		form, cmd := m.passForm.Update(msg)
		if f, ok := form.(*huh.Form); ok {
			m.passForm = f
			switch f.State {
			case huh.StateCompleted:
				m.passForm = nil
				m.passphrase = tempPassphrase
				tempPassphrase = ""
				if m.provider != nil {
					m.provider.SetPassphrase(m.passphrase)
				}
				return tea.Batch(cmd, m.connectOrPrompt()), isKey
			case huh.StateAborted:
				m.passForm = nil
			}
		}
		return cmd, isKey

	case m.showTipDialog:
		if !isKey {
			if m.tipForm == nil || m.tipSending {
				return nil, false
			}
		} else if keyMsg.String() == "esc" {
			if !m.tipSending {
				m.closeTipDialog()
				m.addLog("info", "Tip cancelled")
			}
			return nil, true
		}
		if m.tipSending || m.tipForm == nil {
			return nil, true
		}
		form, cmd := m.tipForm.Update(msg)
		if f, ok := form.(*huh.Form); ok {
			m.tipForm = f
			if f.State == huh.StateCompleted {
				m.tipSending = true
				m.addLog("info", fmt.Sprintf("Sending %s ETH tip", tip.TempAmount))
				return tea.Batch(cmd, sendTip(m.app, tip.TempAmount)), isKey
			}
		}
		return cmd, isKey

	case m.activePage == config.PageAddPost && m.composeForm != nil && !m.submitting:
		if isKey {
			switch keyMsg.String() {
			case "esc":
				m.activePage = config.PageHome
				return nil, true
			case "ctrl+x":
				if compose.TempImagePath != "" {
					compose.TempImagePath = ""
					m.rebuildComposeForm()
					m.addLog("info", "Image removed from draft")
				}
				return nil, true
			}
		}
		form, cmd := m.composeForm.Update(msg)
		if f, ok := form.(*huh.Form); ok {
			m.composeForm = f
			m.refreshPreview()
			if f.State == huh.StateCompleted {
				if !compose.TempPublish {
					// back to editing with the same values
					m.rebuildComposeForm()
					return cmd, isKey
				}
				return tea.Batch(cmd, m.publish()), isKey
			}
		}
		return cmd, isKey

	case m.activePage == config.PageHome && m.homeForm != nil:
		// global hotkeys take precedence on the home page
		if isKey && m.isGlobalKey(keyMsg.String()) {
			return nil, false
		}
		form, cmd := m.homeForm.Update(msg)
		if f, ok := form.(*huh.Form); ok {
			m.homeForm = f
			if f.State == huh.StateCompleted {
				selection := home.TempSelection
				m.resetHomeForm()
				return tea.Batch(cmd, m.selectHome(selection)), isKey
			}
		}
		return cmd, isKey
	}

	return nil, false
}

// publish hands the compose form's values to the authoring controller
func (m *model) publish() tea.Cmd {
	if m.app == nil {
		m.rebuildComposeForm()
		return nil
	}
	m.submitting = true
	m.addLog("info", fmt.Sprintf("Publishing `%s`", compose.TempTitle))
	return submitPost(m.app, blog.Draft{
		Title:     compose.TempTitle,
		Content:   compose.TempContent,
		ImagePath: compose.ExpandHome(compose.TempImagePath),
	})
}

func (m *model) selectHome(selection string) tea.Cmd {
	switch selection {
	case home.SelectExplore:
		return m.showPosts()
	case home.SelectCreate:
		m.openCompose()
	case home.SelectConnect:
		return m.connectOrPrompt()
	case home.SelectDisconnect:
		m.disconnect()
	}
	return nil
}

func (m *model) showPosts() tea.Cmd {
	m.activePage = config.PagePosts
	return m.reloadFeed()
}

func (m *model) disconnect() {
	if m.app == nil || !m.app.Session.Connected() {
		return
	}
	m.app.Wallet.Disconnect()
	m.addLog("info", "Wallet disconnected")
	m.resetHomeForm()
}

func (m *model) toggleWallet() tea.Cmd {
	if m.app != nil && m.app.Session.Connected() {
		m.disconnect()
		return nil
	}
	return m.connectOrPrompt()
}

func (m *model) isGlobalKey(k string) bool {
	switch k {
	case "q", "l", "L", "p", "n", "c", "pageup", "pagedown":
		return true
	}
	return false
}

func (m *model) moveSelection(delta int) {
	if len(m.posts) == 0 {
		return
	}
	m.feed.Selected = min(max(0, m.feed.Selected+delta), len(m.posts)-1)
}

// selectedPost returns the highlighted post as seen by the active account
func (m *model) selectedPost() (blog.PostView, bool) {
	if m.app == nil || m.feed.Selected < 0 || m.feed.Selected >= len(m.posts) {
		return blog.PostView{}, false
	}
	return m.app.Feed.Render(m.posts[m.feed.Selected], m.app.Session.AccountHex()), true
}

func (m *model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if msg.String() == "ctrl+c" {
		return tea.Quit
	}

	// global keys
	if !m.textInputActive() {
		switch msg.String() {
		case "q":
			return tea.Quit

		case "l", "L":
			return m.toggleLogger()

		case "p":
			return m.showPosts()

		case "n":
			m.openCompose()
			return nil

		case "c":
			return m.toggleWallet()

		case "pageup", "pagedown":
			// Allow scrolling in log viewport when enabled
			if m.logEnabled && m.logReady {
				var cmd tea.Cmd
				m.logViewport, cmd = m.logViewport.Update(msg)
				return cmd
			}
			return nil
		}
	}

	// page-specific behavior
	switch m.activePage {
	case config.PagePosts:
		return m.handleFeedKey(msg)
	}
	return nil
}

func (m *model) handleFeedKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "up", "k":
		if !m.feed.Expanded {
			m.moveSelection(-1)
		}

	case "down", "j":
		if !m.feed.Expanded {
			m.moveSelection(1)
		}

	case "g", "home":
		m.feed.Selected = 0
		m.feed.Expanded = false

	case "r", "R":
		return m.reloadFeed()

	case "enter":
		if m.feed.Loaded && m.feed.Result == blog.FeedEmpty {
			if m.app != nil && m.app.Session.Connected() {
				m.openCompose()
				return nil
			}
			return m.connectOrPrompt()
		}
		if m.feed.Loaded && m.feed.Result == blog.FeedError {
			return m.reloadFeed()
		}
		if len(m.posts) > 0 {
			m.feed.Expanded = !m.feed.Expanded
		}

	case "esc", "backspace":
		if m.feed.Expanded {
			m.feed.Expanded = false
			return nil
		}
		m.activePage = config.PageHome

	case "t", "T":
		v, ok := m.selectedPost()
		if !ok {
			return nil
		}
		if !v.Tippable {
			m.addLog("debug", "Own post; no tip control")
			return nil
		}
		m.openTipDialog(v)

	case "a", "A":
		if v, ok := m.selectedPost(); ok {
			return copyToClipboard(v.Post.Author.Hex(), "author address")
		}

	case "i", "I":
		if v, ok := m.selectedPost(); ok && v.ImageURL != "" {
			return copyToClipboard(v.ImageURL, "image URL")
		}
	}
	return nil
}

// toggleLogger shows or hides the log panel and saves the choice
func (m *model) toggleLogger() tea.Cmd {
	m.logEnabled = !m.logEnabled
	m.cfg.Logger = m.logEnabled
	if err := config.SetLogger(m.configPath, m.logEnabled); err != nil {
		m.addLog("error", "Saving config failed: "+err.Error())
	}

	if m.logEnabled {
		// Initialize viewport when enabling
		if m.w > 0 {
			m.logViewport.Width = m.w - 6
		}
		m.logReady = false
		return tea.Batch(initLogViewport(), m.logSpinner.Tick)
	}

	// Clear logs when disabling
	if m.logBuffer != nil {
		m.logBuffer.Reset()
	}
	m.logReady = false
	return nil
}
