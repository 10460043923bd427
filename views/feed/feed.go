package feed

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"charm-dblog-tui/blog"
	"charm-dblog-tui/helpers"
	"charm-dblog-tui/styles"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/mdp/qrterminal/v3"
)

// previewLines is how many content lines a card shows
const previewLines = 3

// State is everything the feed page needs to draw itself
type State struct {
	Views       []blog.PostView
	Result      blog.FeedState
	Empty       blog.EmptyAction
	Err         error
	Loading     bool
	Loaded      bool
	LoadedAt    time.Time
	Selected    int
	Expanded    bool
	SpinnerView string
	Flash       string
}

// Render draws the post list, or the selected post when expanded
func Render(s State, width, height int) string {
	inner := helpers.Max(20, width-4)

	header := styles.TitleStyle.Render("Latest Posts")
	if !s.LoadedAt.IsZero() || s.Loading {
		header += styles.MutedStyle.Render("  " + helpers.LoadedAt(s.LoadedAt, s.Loading))
	}

	if s.Loading && len(s.Views) == 0 {
		return header + "\n\n" + s.SpinnerView + " Loading posts from the blockchain..."
	}
	if !s.Loaded {
		return header + "\n\n" + styles.MutedStyle.Render("Posts have not been loaded yet. Press "+styles.Key("r")+" to load.")
	}

	var body string
	switch s.Result {
	case blog.FeedError:
		body = renderError(s.Err)
	case blog.FeedEmpty:
		body = renderEmpty(s.Empty)
	default:
		if s.Expanded && s.Selected >= 0 && s.Selected < len(s.Views) {
			body = RenderDetail(s.Views[s.Selected], inner)
		} else {
			body = renderList(s.Views, s.Selected, inner, helpers.Max(3, height-4))
		}
	}

	out := header + "\n\n" + body
	if s.Flash != "" {
		out += "\n" + lipgloss.NewStyle().Foreground(styles.CAccent).Bold(true).Render(s.Flash)
	}
	return out
}

func renderEmpty(action blog.EmptyAction) string {
	var cta string
	if action == blog.EmptyActionCreatePost {
		cta = styles.ActiveButtonStyle.Render(styles.Key("n") + " Create Your First Post")
	} else {
		cta = styles.ActiveButtonStyle.Render(styles.Key("c") + " Connect Wallet to Create Post")
	}
	return lipgloss.JoinVertical(lipgloss.Center,
		lipgloss.NewStyle().Bold(true).Render("No posts yet"),
		styles.MutedStyle.Render("Be the first to create a post and share your thoughts with the community!"),
		"",
		cta,
	)
}

func renderError(err error) string {
	msg := "We couldn't load posts from the blockchain. Please try again later."
	lines := []string{
		lipgloss.NewStyle().Foreground(styles.CWarn).Bold(true).Render("⚠ Error Loading Posts"),
		styles.MutedStyle.Render(msg),
	}
	if err != nil {
		lines = append(lines, styles.MutedStyle.Faint(true).Render(ansi.Truncate(err.Error(), 80, "…")))
	}
	lines = append(lines, "", styles.ActiveButtonStyle.Render(styles.Key("r")+" Try Again"))
	return lipgloss.JoinVertical(lipgloss.Center, lines...)
}

func renderList(views []blog.PostView, selected, width, height int) string {
	cards := make([]string, len(views))
	heights := make([]int, len(views))
	for i, v := range views {
		cards[i] = RenderCard(v, i == selected, width)
		heights[i] = lipgloss.Height(cards[i])
	}

	start, end := Window(heights, selected, height)
	visible := cards[start:end]

	out := strings.Join(visible, "\n")
	if start > 0 || end < len(cards) {
		out += "\n" + styles.MutedStyle.Render(fmt.Sprintf("post %d of %d", selected+1, len(cards)))
	}
	return out
}

// Window picks the range of cards to show so that selected is visible
// within height lines.
func Window(heights []int, selected, height int) (int, int) {
	if len(heights) == 0 {
		return 0, 0
	}
	if selected < 0 {
		selected = 0
	}
	if selected >= len(heights) {
		selected = len(heights) - 1
	}

	start := 0
	used := 0
	for i := 0; i <= selected; i++ {
		used += heights[i]
	}
	for used > height && start < selected {
		used -= heights[start]
		start++
	}

	end := selected + 1
	for end < len(heights) && used+heights[end] <= height {
		used += heights[end]
		end++
	}
	return start, end
}

func byline(v blog.PostView) string {
	author := styles.MutedStyle.Render("by ") +
		lipgloss.NewStyle().Foreground(styles.CAccent2).Render(v.AuthorShort)
	if v.IsAuthor {
		author += " " + styles.BadgeStyle.Render("You")
	}
	when := v.Date
	if v.Age != "" {
		when += " (" + v.Age + ")"
	}
	if when != "" {
		author += styles.MutedStyle.Render("  •  " + when)
	}
	return author
}

func tipLine(v blog.PostView, selected bool) string {
	tips := lipgloss.NewStyle().Foreground(styles.CWarn).Render("◆ " + v.TipDisplay + " ETH")
	if !v.Tippable {
		return tips
	}
	button := styles.ButtonStyle.Render("Tip")
	if selected {
		button = styles.ActiveButtonStyle.Render(styles.Key("t") + " Tip")
	}
	return tips + "   " + button
}

// RenderCard draws one post in the list
func RenderCard(v blog.PostView, selected bool, width int) string {
	textWidth := helpers.Max(10, width-4)

	title := ansi.Truncate(v.Post.Title, textWidth, "…")
	lines := []string{
		lipgloss.NewStyle().Bold(true).Foreground(styles.CText).Render(title),
		byline(v),
		"",
	}

	content := strings.Split(v.Post.Content, "\n")
	for i, line := range content {
		if i == previewLines {
			lines = append(lines, styles.MutedStyle.Render("…"))
			break
		}
		lines = append(lines, ansi.Truncate(line, textWidth, "…"))
	}

	if v.ImageURL != "" {
		lines = append(lines, "", styles.MutedStyle.Render("🖼  ")+ansi.Truncate(v.ImageURL, textWidth-4, "…"))
	}
	lines = append(lines, "", tipLine(v, selected))

	style := styles.CardStyle
	if selected {
		style = styles.SelectedCardStyle
	}
	return style.Width(helpers.Max(0, width-2)).Render(strings.Join(lines, "\n"))
}

// RenderDetail draws the full post with a QR code for its image
func RenderDetail(v blog.PostView, width int) string {
	textWidth := helpers.Max(10, width-4)

	lines := []string{
		lipgloss.NewStyle().Bold(true).Foreground(styles.CText).Render(ansi.Wordwrap(v.Post.Title, textWidth, "")),
		byline(v),
		styles.MutedStyle.Render("author " + v.Post.Author.Hex()),
		"",
		ansi.Wrap(v.Post.Content, textWidth, ""),
	}
	if v.ImageURL != "" {
		lines = append(lines, "",
			styles.MutedStyle.Render("Image: ")+v.ImageURL,
			QRCode(v.ImageURL),
		)
	}
	lines = append(lines, tipLine(v, true))
	return styles.SelectedCardStyle.Width(helpers.Max(0, width-2)).Render(strings.Join(lines, "\n"))
}

// QRCode renders text as a half-block terminal QR code
func QRCode(text string) string {
	if text == "" {
		return ""
	}
	var buf bytes.Buffer
	qrterminal.GenerateHalfBlock(text, qrterminal.L, &buf)
	return buf.String()
}

// Nav returns the navigation bar for the feed view
func Nav(width int, s State) string {
	keys := []string{
		styles.Key("↑/↓") + " select",
		styles.Key("Enter") + " open",
	}
	if len(s.Views) > 0 {
		keys = append(keys, styles.Key("t")+" tip", styles.Key("a")+" copy author", styles.Key("i")+" copy image")
	}
	keys = append(keys,
		styles.Key("g")+" top",
		styles.Key("r")+" reload",
		styles.Key("n")+" new post",
		styles.Key("Esc")+" back",
	)
	return styles.NavStyle.Width(width).Render(strings.Join(keys, "   "))
}
