package ui

// helpers.go holds the low-level rendering primitives shared by all
// views: ANSI-aware width math, the two-box frame, and small styled
// render shorthands.

import (
	"regexp"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var ansiRe = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// StringWidth returns the display width of s, ignoring ANSI sequences.
func StringWidth(s string) int {
	return lipgloss.Width(s)
}

// stripEscapeCodes removes ANSI color sequences so a line can be
// re-styled without embedded resets killing the background.
func stripEscapeCodes(s string) string {
	return ansiRe.ReplaceAllString(s, "")
}

// truncateToWidth cuts s to at most width display cells.
func truncateToWidth(s string, width int) string {
	if StringWidth(s) <= width {
		return s
	}
	var b strings.Builder
	w := 0
	for _, r := range s {
		rw := lipgloss.Width(string(r))
		if w+rw > width {
			break
		}
		b.WriteRune(r)
		w += rw
	}
	return b.String()
}

// Truncate shortens s to maxLen characters, appending "…" when cut.
func Truncate(s string, maxLen int) string {
	if maxLen <= 1 || len([]rune(s)) <= maxLen {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxLen-1]) + "…"
}

// PadContentToHeight pads content with trailing newlines to fill the
// target number of lines, keeping the footer box anchored.
func PadContentToHeight(content string, targetHeight int) string {
	lines := strings.Count(content, "\n") + 1
	if lines >= targetHeight {
		return content
	}
	return content + strings.Repeat("\n", targetHeight-lines)
}

// StandardInit is the Init command shared by all full-screen models.
func StandardInit() tea.Cmd {
	return tea.ClearScreen
}

// BuildTwoBoxView renders the standard frame: a red-bordered main box
// over a single-row white-bordered help box with centered text.
func BuildTwoBoxView(content, helpText string, layout Layout) string {
	main := BorderStyle.
		Padding(0, 1).
		Width(layout.ViewportWidth).
		Render(PadContentToHeight(content, layout.ViewportHeight-6))

	help := HelpBorderStyle.
		Width(layout.ViewportWidth).
		Render(CenterText(HintText(helpText), layout.InnerWidth))

	return main + "\n" + help
}

// CenterText centers text within the given width.
func CenterText(text string, width int) string {
	textW := StringWidth(text)
	if textW >= width {
		return text
	}
	padding := (width - textW) / 2
	return strings.Repeat(" ", padding) + text
}

// HintText styles footer help text.
func HintText(s string) string {
	return NormalStyle.Render(s)
}

func RenderTitle(s string) string  { return TitleStyle.Render(s) }
func RenderDim(s string) string    { return DimStyle.Render(s) }
func RenderNormal(s string) string { return NormalStyle.Render(s) }
func RenderError(s string) string  { return ErrorStyle.Render(s) }
func RenderAccent(s string) string { return AccentStyle.Render(s) }

func RenderTabActive(s string) string {
	return TabActiveStyle.Render(s)
}

func RenderTabInactive(s string) string {
	return TabInactiveStyle.Render(s)
}

// RenderSelectedWidth renders s with the selection highlight padded to
// the full width.
func RenderSelectedWidth(s string, width int) string {
	clean := stripEscapeCodes(s)
	if StringWidth(clean) < width {
		clean += strings.Repeat(" ", width-StringWidth(clean))
	} else if StringWidth(clean) > width {
		clean = truncateToWidth(clean, width)
	}
	return SelectedStyle.Render(clean)
}
