package main

import (
	"strings"

	"charm-dblog-tui/blog"
	"charm-dblog-tui/config"
	"charm-dblog-tui/helpers"
	"charm-dblog-tui/styles"
	"charm-dblog-tui/views/compose"
	"charm-dblog-tui/views/feed"
	"charm-dblog-tui/views/home"
	logview "charm-dblog-tui/views/log"
	"charm-dblog-tui/views/tip"
	"charm-dblog-tui/views/toast"

	"github.com/charmbracelet/lipgloss"
)

// -------------------- VIEW --------------------

func (m *model) renderPassphraseDialog() string {
	title := lipgloss.NewStyle().
		Foreground(cAccent2).
		Bold(true).
		Render("Unlock Wallet")

	help := lipgloss.NewStyle().
		Foreground(cMuted).
		MarginTop(1).
		Render("Enter: Unlock • Esc: Cancel")

	ui := lipgloss.JoinVertical(lipgloss.Left, title, "", m.passForm.View(), help)
	dialog := styles.DialogStyle.Width(56).Render(ui)

	// Center the dialog on screen
	return lipgloss.Place(
		m.w, m.h,
		lipgloss.Center, lipgloss.Center,
		dialog,
	)
}

func (m *model) globalHeader() string {
	availableWidth := max(0, m.w-8) // Account for panel padding

	// Connected wallet and its balance
	var walletDisplay string
	switch {
	case m.app != nil && m.app.Session.Connected():
		addr := helpers.ShortenAddr(m.app.Session.AccountHex())
		walletDisplay = lipgloss.NewStyle().
			Foreground(cAccent2).
			Bold(true).
			Render("Wallet: "+helpers.FadeString(addr, "#F25D94", "#EDFF82")) +
			lipgloss.NewStyle().Foreground(cWarn).Render("  "+helpers.FormatETH(m.app.Session.Balance()))
	case m.connecting:
		walletDisplay = lipgloss.NewStyle().
			Foreground(cMuted).
			Render("Wallet: " + m.spin.View() + " Connecting...")
	default:
		walletDisplay = lipgloss.NewStyle().
			Foreground(cMuted).
			Render("Wallet: Not connected")
	}

	// RPC Status with green dot
	var statusIcon string
	var statusColor lipgloss.Color
	var statusText string

	if m.cfg.RPCURL == "" {
		statusIcon = "○"
		statusColor = lipgloss.Color("#c01c28")
		statusText = "No RPC"
	} else if m.rpcConnecting {
		statusIcon = "○"
		statusColor = lipgloss.Color("#c01c28")
		statusText = "Connecting..."
	} else if !m.rpcConnected {
		statusIcon = "○"
		statusColor = lipgloss.Color("#c01c28")
		statusText = "Connection Failed"
	} else {
		statusIcon = "●"
		statusColor = cAccent
		statusText = "Connected"
		if m.rpcClient != nil && m.rpcClient.ChainID != nil {
			statusText = "Chain " + m.rpcClient.ChainID.String()
		}
	}

	rpcDisplay := lipgloss.NewStyle().
		Foreground(statusColor).
		Bold(true).
		Render(statusIcon + " " + statusText)

	// Center title
	titleText := lipgloss.NewStyle().
		Foreground(cAccent).
		Bold(true).
		Render(helpers.FadeString("dblog", "#7EE787", "#82CFFD"))

	walletWidth := lipgloss.Width(walletDisplay)
	rpcWidth := lipgloss.Width(rpcDisplay)
	titleWidth := lipgloss.Width(titleText)
	totalOtherWidth := walletWidth + rpcWidth + titleWidth

	var headerLine string
	if totalOtherWidth+4 > availableWidth {
		// Not enough space, stack vertically
		headerLine = walletDisplay + "\n" + titleText + "\n" + rpcDisplay
	} else {
		// Three-column layout: Wallet | Title (centered) | RPC
		remainingSpace := availableWidth - totalOtherWidth
		leftPadding := remainingSpace / 2
		rightPadding := remainingSpace - leftPadding

		leftSpacer := strings.Repeat(" ", max(1, leftPadding))
		rightSpacer := strings.Repeat(" ", max(1, rightPadding))

		headerLine = walletDisplay + leftSpacer + titleText + rightSpacer + rpcDisplay
	}

	// Add separator line
	separator := lipgloss.NewStyle().
		Foreground(cBorder).
		Render(strings.Repeat("─", availableWidth))

	return headerLine + "\n" + separator
}

// feedState renders the loaded posts for the current account. Views are
// rebuilt on every frame so connecting or switching accounts updates the
// author badges and tip controls without a reload.
func (m *model) feedState() feed.State {
	s := m.feed
	s.SpinnerView = m.spin.View()
	if m.app == nil {
		return s
	}
	s.Views = m.app.Feed.RenderAll(m.posts)
	if s.Result == blog.FeedEmpty {
		if m.app.Session.Connected() {
			s.Empty = blog.EmptyActionCreatePost
		} else {
			s.Empty = blog.EmptyActionConnectWallet
		}
	}
	return s
}

func (m *model) View() string {
	if m.passForm != nil {
		return appStyle.Render(m.renderPassphraseDialog())
	}
	if m.showTipDialog {
		balance := ""
		if m.app != nil && m.app.Session.Connected() {
			balance = helpers.FormatEther(m.app.Session.Balance())
		}
		return appStyle.Render(tip.Render(m.w, m.h, m.tipPost, balance, m.tipForm, m.tipSending, m.spin.View()))
	}

	// Render global header outside of page content
	headerPanel := panelStyle.Width(max(0, m.w-2)).Render(m.globalHeader())

	var nav string
	switch m.activePage {
	case config.PagePosts:
		nav = feed.Nav(m.w-2, m.feedState())
	case config.PageAddPost:
		nav = compose.Nav(m.w-2, compose.TempImagePath != "")
	default:
		nav = home.Nav(m.w - 2)
	}

	// Render log panel only if enabled
	var logPanel string
	if m.logEnabled {
		// Ensure viewport height stays in sync with the rendered panel
		m.logViewport.Height = logview.PanelHeight(m.h)
		logPanel = logview.Render(m.w, m.h, m.logReady, m.logSpinner.View(), m.logViewport)
	}

	toasts := toast.Render(m.toastList, max(0, m.w-2))

	// panel border and padding take four lines
	bodyHeight := m.h - lipgloss.Height(headerPanel) - lipgloss.Height(nav) - 4
	if logPanel != "" {
		bodyHeight -= lipgloss.Height(logPanel)
	}
	if toasts != "" {
		bodyHeight -= lipgloss.Height(toasts)
	}
	bodyHeight = max(3, bodyHeight)

	var body string
	switch m.activePage {
	case config.PagePosts:
		body = feed.Render(m.feedState(), m.w-6, bodyHeight)
	case config.PageAddPost:
		body = compose.Render(m.composeForm, m.imagePreview, m.submitting, m.spin.View())
	default:
		body = home.Render(m.homeForm)
	}
	pageContent := panelStyle.Width(max(0, m.w-2)).Render(body)

	sections := []string{headerPanel}
	if toasts != "" {
		sections = append(sections, toasts)
	}
	sections = append(sections, pageContent, nav)
	if logPanel != "" {
		sections = append(sections, logPanel)
	}

	return appStyle.Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}
