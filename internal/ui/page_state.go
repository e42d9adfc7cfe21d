package ui

import (
	"time"
)

// PageState contains state every full-screen view needs. Embed it to
// get layout tracking and expiring status messages.
type PageState struct {
	Layout       Layout
	StatusMsg    string
	StatusExpiry time.Time
	Quitting     bool
}

// NewPageState creates a new PageState with the given layout.
func NewPageState(layout Layout) PageState {
	return PageState{Layout: layout}
}

// SetStatus sets a status message that expires after the given
// duration. Duration 0 keeps it until replaced.
func (p *PageState) SetStatus(msg string, duration time.Duration) {
	p.StatusMsg = msg
	if duration > 0 {
		p.StatusExpiry = time.Now().Add(duration)
	} else {
		p.StatusExpiry = time.Time{}
	}
}

// ClearExpiredStatus clears the status message once it has expired.
// Call from Update().
func (p *PageState) ClearExpiredStatus() {
	if !p.StatusExpiry.IsZero() && time.Now().After(p.StatusExpiry) {
		p.StatusMsg = ""
		p.StatusExpiry = time.Time{}
	}
}

// HasStatus returns true if there is a non-empty status message.
func (p *PageState) HasStatus() bool {
	return p.StatusMsg != ""
}

// UpdateLayout recomputes the layout and reports whether it changed.
// Use in the WindowSizeMsg handler.
func (p *PageState) UpdateLayout(width, height int) bool {
	newLayout := NewLayout(width, height)
	if newLayout.ViewportWidth != p.Layout.ViewportWidth ||
		newLayout.ViewportHeight != p.Layout.ViewportHeight {
		p.Layout = newLayout
		return true
	}
	return false
}
