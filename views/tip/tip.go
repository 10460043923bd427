package tip

import (
	"strings"

	"charm-dblog-tui/blog"
	"charm-dblog-tui/helpers"
	"charm-dblog-tui/styles"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// DefaultAmount is prefilled in the dialog
const DefaultAmount = "0.001"

// TempAmount stores the tip amount input
var TempAmount string

// CreateForm creates the tip amount form. The previous amount is kept so
// a failed tip can be retried as is.
func CreateForm(keepAmount bool) *huh.Form {
	if !keepAmount || TempAmount == "" {
		TempAmount = DefaultAmount
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Tip Amount (ETH)").
				Description("Sent to the post through the blog contract").
				Value(&TempAmount).
				Placeholder(DefaultAmount).
				Validate(func(s string) error {
					_, err := helpers.ParseEther(s)
					return err
				}),
		),
	).WithTheme(huh.ThemeCatppuccin())

	form.Init()
	return form
}

// Render draws the tip dialog centered on the screen
func Render(width, height int, post blog.PostView, balance string, form *huh.Form, sending bool, spinnerView string) string {
	title := lipgloss.NewStyle().
		Foreground(styles.CAccent2).
		Bold(true).
		Render("Send a Tip")

	about := helpers.FadeString(
		"Tip \""+helpers.Truncate(post.Post.Title, 40)+"\" by "+post.AuthorShort,
		"#F25D94", "#EDFF82",
	)

	lines := []string{title, "", about}
	if balance != "" {
		lines = append(lines, styles.MutedStyle.Render("Available: "+balance+" ETH"))
	}
	lines = append(lines, "")

	if sending {
		lines = append(lines, spinnerView+" Sending tip...")
	} else if form != nil {
		lines = append(lines, form.View())
	}

	help := styles.MutedStyle.Render(strings.Join([]string{"Enter: Confirm", "Esc: Cancel"}, " • "))
	lines = append(lines, "", help)

	dialog := styles.DialogStyle.Width(56).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, dialog)
}
