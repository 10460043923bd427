package helpers

import (
	"errors"
	"fmt"
	"image/color"
	"math/big"
	"regexp"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/gamut"
)

var (
	// weiPerEther is 10^18.
	weiPerEther = new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)

	decimalRe = regexp.MustCompile(`^(\d+\.?\d*|\.\d+)$`)
)

// ShortenAddr shortens an Ethereum address for display: first 6 and last 4
// characters joined by an ellipsis. Empty input stays empty and inputs of
// ten characters or fewer are returned unchanged.
func ShortenAddr(addr string) string {
	if addr == "" {
		return ""
	}
	if len(addr) <= 10 {
		return addr
	}
	return addr[:6] + "..." + addr[len(addr)-4:]
}

// SameAddress compares two hex addresses case-insensitively.
func SameAddress(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return strings.EqualFold(a, b)
}

// FormatEther formats wei as ether with four decimals, e.g. "2.5000".
func FormatEther(wei *big.Int) string {
	if wei == nil {
		return "0.0000"
	}
	return new(big.Rat).SetFrac(wei, weiPerEther).FloatString(4)
}

// FormatETH formats wei as ether with a unit suffix.
func FormatETH(wei *big.Int) string {
	return FormatEther(wei) + " ETH"
}

// ParseEther converts a decimal ether amount into wei. The conversion is
// exact; amounts with more than 18 decimals are rejected.
func ParseEther(s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, errors.New("amount is required")
	}
	if !decimalRe.MatchString(s) {
		return nil, fmt.Errorf("invalid amount %q", s)
	}
	r, ok := new(big.Rat).SetString(s)
	if !ok {
		return nil, fmt.Errorf("invalid amount %q", s)
	}
	if r.Sign() <= 0 {
		return nil, errors.New("amount must be greater than 0")
	}
	r.Mul(r, new(big.Rat).SetInt(weiPerEther))
	if !r.IsInt() {
		return nil, errors.New("amount has more than 18 decimals")
	}
	return new(big.Int).Set(r.Num()), nil
}

// LoadedAt formats the loaded timestamp
func LoadedAt(t time.Time, loading bool) string {
	if loading {
		return "loading…"
	}
	if t.IsZero() {
		return "never"
	}
	return t.Format("15:04:05")
}

// FadeString creates a gradient colored string
func FadeString(s string, firstColor string, lastColor string) string {
	if s == "" {
		return ""
	}
	blends := gamut.Blends(lipgloss.Color(firstColor), lipgloss.Color(lastColor), len(s))
	return rainbow(lipgloss.NewStyle(), s, blends)
}

func rainbow(baseStyle lipgloss.Style, str string, colors []color.Color) string {
	var result strings.Builder
	for i, c := range str {
		col, _ := colorful.MakeColor(colors[i%len(colors)])
		result.WriteString(baseStyle.Foreground(lipgloss.Color(col.Hex())).Render(string(c)))
	}
	return result.String()
}

// Truncate shortens s to at most n cells, ending in an ellipsis when cut
func Truncate(s string, n int) string {
	return ansi.Truncate(s, n, "…")
}

// Max returns the maximum of two integers
func Max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// Min returns the minimum of two integers
func Min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
