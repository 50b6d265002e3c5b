package display

import (
	"strings"

	units "github.com/docker/go-units"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// BannerWidth is the column width of banners and separators
const BannerWidth = 60

// Separator returns a full-width line of dashes
func Separator() string {
	return strings.Repeat("-", BannerWidth)
}

// Banner returns the three lines of a framed heading with text centered
// between two rules of "=". An empty text yields a blank middle line.
func Banner(text string) []string {
	rule := strings.Repeat("=", BannerWidth)
	return []string{rule, Center(text, BannerWidth), rule}
}

// Center pads text with spaces on both sides to width runes. Extra padding
// goes to the right. Text wider than width is returned unchanged.
func Center(text string, width int) string {
	n := len([]rune(text))
	if n >= width {
		return text
	}
	left := (width - n) / 2
	right := width - n - left
	return strings.Repeat(" ", left) + text + strings.Repeat(" ", right)
}

// countPrinter formats counts with English digit grouping
var countPrinter = message.NewPrinter(language.English)

// FormatCount formats n with comma thousands separators (1234567 -> "1,234,567")
func FormatCount(n int) string {
	return countPrinter.Sprintf("%d", n)
}

// FormatSize renders a byte count in binary units, e.g. "1.5MiB"
func FormatSize(bytes int64) string {
	return units.BytesSize(float64(bytes))
}
