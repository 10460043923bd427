package compose

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"charm-dblog-tui/styles"

	"github.com/charmbracelet/huh"
	"github.com/dustin/go-humanize"
	"github.com/gabriel-vasile/mimetype"
	"github.com/spf13/afero"
)

// Temporary form field storage (package-level to avoid pointer-to-copy issues)
var (
	TempTitle     string
	TempContent   string
	TempImagePath string
	TempPublish   bool
)

var userHomeDir = os.UserHomeDir

// Reset clears the form fields
func Reset() {
	TempTitle = ""
	TempContent = ""
	TempImagePath = ""
}

// CreateForm builds the post form around the current field values.
// checkImage validates the optional image path.
func CreateForm(checkImage func(string) error) *huh.Form {
	TempPublish = true

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Description("Give your post a title").
				Value(&TempTitle).
				Placeholder("Hello, chain"),

			huh.NewText().
				Title("Content").
				Description("Line breaks are kept").
				Value(&TempContent).
				Lines(6).
				CharLimit(0),

			huh.NewInput().
				Title("Image (optional)").
				Description("Path to an image file to pin on IPFS").
				Value(&TempImagePath).
				Placeholder("~/Pictures/cover.png").
				Validate(func(s string) error {
					if checkImage == nil {
						return nil
					}
					return checkImage(ExpandHome(s))
				}),

			huh.NewConfirm().
				Title("Publish this post?").
				Affirmative("Publish").
				Negative("Keep editing").
				Value(&TempPublish),
		),
	).WithTheme(huh.ThemeCatppuccin())

	form.Init()
	return form
}

// ExpandHome replaces a leading ~ with the user's home directory
func ExpandHome(path string) string {
	path = strings.TrimSpace(path)
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := userHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}

// Preview describes the selected image: name, size and detected type
func Preview(fs afero.Fs, path string) (string, error) {
	path = ExpandHome(path)
	if path == "" {
		return "", nil
	}
	f, err := fs.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", err
	}
	mt, err := mimetype.DetectReader(io.LimitReader(f, 3072))
	if err != nil {
		return "", err
	}
	preview := fmt.Sprintf("%s · %s · %s", filepath.Base(path), humanize.Bytes(uint64(info.Size())), mt.String())
	if !strings.HasPrefix(mt.String(), "image/") {
		preview += " (not an image)"
	}
	return preview, nil
}

// Render renders the compose page
func Render(form *huh.Form, preview string, submitting bool, spinnerView string) string {
	out := styles.TitleStyle.Render("Create New Post") + "\n\n"
	if submitting {
		return out + spinnerView + " Publishing your post..."
	}
	if form != nil {
		out += form.View()
	}
	if preview != "" {
		out += "\n" + styles.MutedStyle.Render("🖼  ") + preview
	}
	return out
}

// Nav returns the navigation bar for the compose view
func Nav(width int, hasImage bool) string {
	keys := []string{
		styles.Key("Tab") + " next field",
		styles.Key("Enter") + " next/submit",
	}
	if hasImage {
		keys = append(keys, styles.Key("Ctrl+x")+" remove image")
	}
	keys = append(keys, styles.Key("Esc")+" back")
	return styles.NavStyle.Width(width).Render(strings.Join(keys, "   "))
}
