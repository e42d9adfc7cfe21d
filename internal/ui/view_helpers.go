package ui

// view_helpers.go provides the shared View() building blocks used by
// the console and form screens.

import (
	"strings"

	"github.com/charmbracelet/bubbles/table"
)

// RenderTableWithSelection renders a bubbles table with a full-width
// selection highlight. The table's own Selected style stays neutral;
// the highlight is painted here so it spans the whole inner width.
//
// Line 0 of the bubbles output is the header; data rows follow, with
// viewport scrolling applied. The visible cursor position has to be
// recomputed from the cursor and the scroll offset.
func RenderTableWithSelection(t table.Model, layout Layout) string {
	lines := strings.Split(t.View(), "\n")
	var result []string

	cursor := t.Cursor()
	height := t.Height()
	totalRows := len(t.Rows())

	start := 0
	if totalRows > height {
		if cursor >= height {
			start = cursor - height + 1
		}
		maxStart := totalRows - height
		if start > maxStart {
			start = maxStart
		}
	}
	visibleCursorIndex := cursor - start

	for i, line := range lines {
		if i == 0 {
			result = append(result, NormalStyle.Render(line))
			result = append(result, strings.Repeat("─", layout.InnerWidth))
			continue
		}

		if i-1 == visibleCursorIndex {
			result = append(result, RenderSelectedWidth(line, layout.InnerWidth))
			continue
		}
		result = append(result, NormalStyle.Render(line))
	}

	return strings.Join(result, "\n")
}

// ViewHeader renders title + full-width divider + spacing.
func ViewHeader(title string, innerWidth int) string {
	var b strings.Builder
	b.WriteString(RenderTitle(title))
	b.WriteString("\n")
	b.WriteString(strings.Repeat("─", innerWidth))
	b.WriteString("\n\n")
	return b.String()
}

// ViewHeaderWithSubtitle renders title + subtitle + divider + spacing.
func ViewHeaderWithSubtitle(title, subtitle string, innerWidth int) string {
	var b strings.Builder
	b.WriteString(RenderTitle(title))
	b.WriteString("\n")
	if subtitle != "" {
		b.WriteString(RenderDim(subtitle))
		b.WriteString("\n")
	}
	b.WriteString(strings.Repeat("─", innerWidth))
	b.WriteString("\n\n")
	return b.String()
}

// TwoBoxView constructs the standard two-box layout.
func TwoBoxView(content, helpText string, layout Layout) string {
	return BuildTwoBoxView(content, helpText, layout)
}

// FullWidthDivider returns a horizontal divider spanning the inner width.
func FullWidthDivider(innerWidth int) string {
	return strings.Repeat("─", innerWidth)
}
