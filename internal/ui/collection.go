package ui

// collection.go holds the per-tab list state. Each tab owns one
// CollectionView; there is no state shared between tabs. Responses are
// matched against a monotonic sequence number so a slow answer to an
// older request can never overwrite a newer page.

import (
	"github.com/charmbracelet/bubbles/table"
)

// CollectionState is the lifecycle of one tab's list.
type CollectionState int

const (
	CollectionIdle CollectionState = iota
	CollectionLoading
	CollectionRendered
	CollectionEmpty
	CollectionFailed
)

// EmptyPlaceholder is the single row shown when a page has no entries.
const EmptyPlaceholder = "Keine Einträge"

// Page is one fetched page of rows, already rendered to cells. IDs
// carry the per-row identity (sanitized email, or the record key) in
// row order; Cursors carry the value to resume pagination from, per
// row, so advancing uses the last row's cursor.
type Page struct {
	Rows    []table.Row
	IDs     []string
	Cursors []string
}

// CollectionView tracks pagination and load state for one tab.
type CollectionView struct {
	PageSize int

	state  CollectionState
	seq    uint64 // last issued request sequence
	cursor string // cursor the current page was loaded with
	page   Page
	err    error
}

// NewCollectionView creates an idle view with the given page size.
func NewCollectionView(pageSize int) *CollectionView {
	return &CollectionView{PageSize: pageSize}
}

// State returns the current lifecycle state.
func (v *CollectionView) State() CollectionState { return v.state }

// Err returns the error of the last failed load, if any.
func (v *CollectionView) Err() error { return v.err }

// Cursor returns the cursor the current page was requested with.
func (v *CollectionView) Cursor() string { return v.cursor }

// Load marks the view loading from the given cursor and returns the
// sequence number the response must echo back.
func (v *CollectionView) Load(cursor string) uint64 {
	v.seq++
	v.cursor = cursor
	v.state = CollectionLoading
	return v.seq
}

// Apply installs a fetched page. Responses carrying a stale sequence
// number are discarded and the call reports false. A load error keeps
// the previously rendered rows visible.
func (v *CollectionView) Apply(seq uint64, page Page, err error) bool {
	if seq != v.seq {
		return false
	}
	if err != nil {
		v.err = err
		if len(v.page.Rows) > 0 {
			v.state = CollectionRendered
		} else {
			v.state = CollectionFailed
		}
		return true
	}
	v.err = nil
	v.page = page
	if len(page.Rows) == 0 {
		v.state = CollectionEmpty
	} else {
		v.state = CollectionRendered
	}
	return true
}

// Rows returns the rows to display, substituting the localized
// placeholder row when the page is empty.
func (v *CollectionView) Rows(columns int) []table.Row {
	if v.state == CollectionEmpty || v.state == CollectionFailed ||
		(v.state == CollectionLoading && len(v.page.Rows) == 0) {
		row := make(table.Row, columns)
		row[0] = EmptyPlaceholder
		return []table.Row{row}
	}
	return v.page.Rows
}

// HasRecords reports whether real records are rendered, as opposed to
// the placeholder row.
func (v *CollectionView) HasRecords() bool {
	return len(v.page.Rows) > 0 && v.state != CollectionEmpty
}

// RowID returns the identity of the rendered row at index, or "".
func (v *CollectionView) RowID(index int) string {
	if index < 0 || index >= len(v.page.IDs) {
		return ""
	}
	return v.page.IDs[index]
}

// NextEnabled reports whether a further page may exist: exactly a full
// page was returned. A final page of exactly PageSize records yields
// one more fetch, showing an empty page.
func (v *CollectionView) NextEnabled() bool {
	return len(v.page.Rows) == v.PageSize
}

// PrevEnabled reports whether the view sits on a later page. The
// cursor protocol is forward-only; this only gates the cosmetic
// restart-from-the-top navigation.
func (v *CollectionView) PrevEnabled() bool {
	return v.cursor != ""
}

// NextCursor returns the cursor for the following page: the last
// rendered row's cursor value.
func (v *CollectionView) NextCursor() string {
	if len(v.page.Cursors) == 0 {
		return v.cursor
	}
	return v.page.Cursors[len(v.page.Cursors)-1]
}

// RemoveRow drops the row with the given identity locally, without a
// refetch. Reports whether a row was removed.
func (v *CollectionView) RemoveRow(id string) bool {
	for i, rowID := range v.page.IDs {
		if rowID == id {
			v.page.Rows = append(v.page.Rows[:i], v.page.Rows[i+1:]...)
			v.page.IDs = append(v.page.IDs[:i], v.page.IDs[i+1:]...)
			v.page.Cursors = append(v.page.Cursors[:i], v.page.Cursors[i+1:]...)
			if len(v.page.Rows) == 0 {
				v.state = CollectionEmpty
			}
			return true
		}
	}
	return false
}
