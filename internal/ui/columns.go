package ui

// columns.go provides column width calculation for bubbles/table plus
// the column layouts of the five console tabs.

import (
	"github.com/charmbracelet/bubbles/table"
)

// ColumnSpec defines a table column with flexible or fixed width.
// Use FlexRatio for columns that should expand with terminal width,
// FixedWidth for constant-width columns.
type ColumnSpec struct {
	Title      string
	MinWidth   int // Minimum width (0 = no minimum)
	FixedWidth int // If > 0, use this exact width (ignores FlexRatio)
	FlexRatio  int // Relative ratio for flexible columns
}

// CalculateColumns computes column widths from specs. Flexible columns
// split the space remaining after fixed columns by ratio, respecting
// minimums.
func CalculateColumns(specs []ColumnSpec, totalWidth int) []table.Column {
	if totalWidth < 50 {
		totalWidth = 50
	}

	fixedTotal := 0
	flexTotal := 0
	for _, s := range specs {
		if s.FixedWidth > 0 {
			fixedTotal += s.FixedWidth
		} else {
			flexTotal += s.FlexRatio
		}
	}

	remaining := totalWidth - fixedTotal
	if remaining < 0 {
		remaining = 0
	}

	columns := make([]table.Column, len(specs))
	for i, s := range specs {
		var width int
		if s.FixedWidth > 0 {
			width = s.FixedWidth
		} else if flexTotal > 0 {
			width = remaining * s.FlexRatio / flexTotal
		}
		if s.MinWidth > 0 && width < s.MinWidth {
			width = s.MinWidth
		}
		columns[i] = table.Column{Title: s.Title, Width: width}
	}

	return columns
}

// MemberColumns returns the column specs for the members tab.
func MemberColumns() []ColumnSpec {
	return []ColumnSpec{
		{Title: "Name", FlexRatio: 25, MinWidth: 14},
		{Title: "Ort", FlexRatio: 14, MinWidth: 8},
		{Title: "Benutzername", FlexRatio: 15, MinWidth: 12},
		{Title: "E-Mail", FlexRatio: 26, MinWidth: 18},
		{Title: "Beitrag", FixedWidth: 18},
		{Title: "Schlüssel", FixedWidth: 10},
		{Title: "Bezahlt bis", FixedWidth: 12},
	}
}

// ApplicantColumns returns the column specs for the applicants tab.
func ApplicantColumns() []ColumnSpec {
	return []ColumnSpec{
		{Title: "Name", FlexRatio: 24, MinWidth: 14},
		{Title: "Strasse", FlexRatio: 22, MinWidth: 12},
		{Title: "Ort", FlexRatio: 14, MinWidth: 8},
		{Title: "Beitrag", FixedWidth: 18},
		{Title: "Eingegangen", FlexRatio: 24, MinWidth: 18},
	}
}

// QueueColumns returns the column specs for the queue, dequeue and
// trash tabs, which all show the same record shape.
func QueueColumns() []ColumnSpec {
	return []ColumnSpec{
		{Title: "Name", FlexRatio: 22, MinWidth: 14},
		{Title: "Strasse", FlexRatio: 20, MinWidth: 12},
		{Title: "Ort", FlexRatio: 12, MinWidth: 8},
		{Title: "Benutzername", FlexRatio: 14, MinWidth: 12},
		{Title: "E-Mail", FlexRatio: 22, MinWidth: 16},
		{Title: "Beitrag", FixedWidth: 18},
	}
}

// AuditColumns returns the column specs for the audit log view.
func AuditColumns() []ColumnSpec {
	return []ColumnSpec{
		{Title: "Zeitpunkt", FixedWidth: 18},
		{Title: "Aktion", FixedWidth: 14},
		{Title: "Betrifft", FlexRatio: 40, MinWidth: 20},
		{Title: "Detail", FlexRatio: 60, MinWidth: 20},
	}
}
