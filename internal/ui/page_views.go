package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/table"
)

// PageViewBuilder provides a fluent API for building page views. It
// handles titles, dividers, spacing and the two-box layout.
//
//	return NewPageView(m.layout).
//	    Title("Mitglieder").
//	    Divider().
//	    Table(m.table).
//	    Status(m.statusMsg).
//	    Help("↑/↓: navigieren | Enter: Aktion").
//	    Build()
type PageViewBuilder struct {
	layout     Layout
	content    strings.Builder
	helpText   string
	hadContent bool
}

// NewPageView creates a new PageViewBuilder with the given layout.
func NewPageView(layout Layout) *PageViewBuilder {
	return &PageViewBuilder{layout: layout}
}

// Title adds a title line (bold white).
func (b *PageViewBuilder) Title(title string) *PageViewBuilder {
	b.content.WriteString(RenderTitle(title))
	b.content.WriteString("\n")
	b.hadContent = true
	return b
}

// Subtitle adds a subtitle line (dim gray).
func (b *PageViewBuilder) Subtitle(subtitle string) *PageViewBuilder {
	b.content.WriteString(RenderDim(subtitle))
	b.content.WriteString("\n")
	b.hadContent = true
	return b
}

// Divider adds a full-width horizontal divider.
func (b *PageViewBuilder) Divider() *PageViewBuilder {
	b.content.WriteString(strings.Repeat("─", b.layout.InnerWidth))
	b.content.WriteString("\n")
	b.hadContent = true
	return b
}

// Spacing adds blank lines.
func (b *PageViewBuilder) Spacing(lines int) *PageViewBuilder {
	for i := 0; i < lines; i++ {
		b.content.WriteString("\n")
	}
	return b
}

// Text adds normal text content.
func (b *PageViewBuilder) Text(text string) *PageViewBuilder {
	b.content.WriteString(NormalStyle.Render(text))
	b.content.WriteString("\n")
	b.hadContent = true
	return b
}

// DimText adds dimmed text content.
func (b *PageViewBuilder) DimText(text string) *PageViewBuilder {
	b.content.WriteString(DimStyle.Render(text))
	b.content.WriteString("\n")
	b.hadContent = true
	return b
}

// CustomContent adds pre-rendered content.
func (b *PageViewBuilder) CustomContent(content string) *PageViewBuilder {
	b.content.WriteString(content)
	b.hadContent = true
	return b
}

// Table adds a table with full-width selection highlighting.
func (b *PageViewBuilder) Table(t table.Model) *PageViewBuilder {
	if b.hadContent {
		b.content.WriteString("\n")
	}
	b.content.WriteString(RenderTableWithSelection(t, b.layout))
	b.hadContent = true
	return b
}

// Status adds a status message (if not empty).
func (b *PageViewBuilder) Status(msg string) *PageViewBuilder {
	if msg != "" {
		if b.hadContent {
			b.content.WriteString("\n")
		}
		b.content.WriteString(StatusMsgStyle.Render(msg))
		b.content.WriteString("\n")
		b.hadContent = true
	}
	return b
}

// Error adds an error message.
func (b *PageViewBuilder) Error(err error) *PageViewBuilder {
	if err != nil {
		if b.hadContent {
			b.content.WriteString("\n")
		}
		b.content.WriteString(RenderError("Fehler: " + err.Error()))
		b.content.WriteString("\n")
		b.hadContent = true
	}
	return b
}

// Help sets the help text for the footer box.
func (b *PageViewBuilder) Help(helpText string) *PageViewBuilder {
	b.helpText = helpText
	return b
}

// Build constructs the final view string with two-box layout.
func (b *PageViewBuilder) Build() string {
	return TwoBoxView(b.content.String(), b.helpText, b.layout)
}

// BuildContent builds just the content portion without the frame.
func (b *PageViewBuilder) BuildContent() string {
	return b.content.String()
}
