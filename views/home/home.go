package home

import (
	"strings"

	"charm-dblog-tui/helpers"
	"charm-dblog-tui/styles"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// TempSelection stores the home menu selection
var TempSelection string

// Menu values
const (
	SelectExplore    = "explore"
	SelectCreate     = "create"
	SelectConnect    = "connect"
	SelectDisconnect = "disconnect"
)

// CreateForm creates the home menu form. The wallet entry follows the
// connection state.
func CreateForm(connected bool) *huh.Form {
	TempSelection = ""

	walletOption := huh.NewOption("Connect Wallet", SelectConnect)
	if connected {
		walletOption = huh.NewOption("Disconnect Wallet", SelectDisconnect)
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Options(
					huh.NewOption("Explore Posts", SelectExplore),
					huh.NewOption("Create Post", SelectCreate),
					walletOption,
				).
				Title("Share your thoughts on the blockchain").
				Description("Publish posts, pin images to IPFS and tip the authors you like").
				Value(&TempSelection),
		),
	).WithTheme(huh.ThemeCatppuccin())

	form.Init()
	return form
}

// Render renders the home view
func Render(form *huh.Form) string {
	hero := lipgloss.NewStyle().Bold(true).Render(
		helpers.FadeString("decentralized blog", "#7EE787", "#82CFFD"),
	)
	if form != nil {
		return hero + "\n\n" + form.View()
	}
	return hero + "\n\nLoading menu..."
}

// Nav returns the navigation bar for home view
func Nav(width int) string {
	left := strings.Join([]string{
		styles.Key("↑/↓") + " select",
		styles.Key("Enter") + " go",
		styles.Key("p") + " posts",
		styles.Key("n") + " new post",
		styles.Key("c") + " connect",
		styles.Key("l") + " logger",
		styles.Key("q") + " quit",
	}, "   ")

	return styles.NavStyle.Width(width).Render(left)
}
