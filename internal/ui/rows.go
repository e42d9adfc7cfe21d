package ui

// rows.go maps wire records to table rows. Rendering is pure: the
// same record always yields the same cells, actions are attached by
// row identity elsewhere.

import (
	"github.com/charmbracelet/bubbles/table"

	"github.com/starshipfactory/memberctl/internal/models"
)

// MemberRow renders a member for the members tab.
func MemberRow(m *models.Member) table.Row {
	hasKey := "nein"
	if m.HasKey {
		hasKey = "ja"
	}
	return table.Row{
		m.Name,
		m.City,
		m.UsernameOrPlaceholder(),
		m.Email,
		m.FeeString(),
		hasKey,
		m.PaidUntilString(),
	}
}

// ApplicantRow renders a membership request for the applicants tab.
func ApplicantRow(a *models.MemberWithKey) table.Row {
	requested := a.Metadata.RequestedAtString()
	if ip := a.Metadata.SourceIPString(); ip != "-" {
		requested += " (" + ip + ")"
	}
	return table.Row{
		a.Name,
		a.Street,
		a.City,
		a.FeeString(),
		requested,
	}
}

// QueueRow renders a queue, dequeue or trash record.
func QueueRow(q *models.MemberWithKey) table.Row {
	return table.Row{
		q.Name,
		q.Street,
		q.City,
		q.UsernameOrPlaceholder(),
		q.Email,
		q.FeeString(),
	}
}

// MemberPage converts a members list page for the collection view.
// Row identity is the sanitized email; the pagination cursor is the
// raw email.
func MemberPage(members []models.Member) Page {
	p := Page{
		Rows:    make([]table.Row, 0, len(members)),
		IDs:     make([]string, 0, len(members)),
		Cursors: make([]string, 0, len(members)),
	}
	for i := range members {
		p.Rows = append(p.Rows, MemberRow(&members[i]))
		p.IDs = append(p.IDs, models.RowID(members[i].Email))
		p.Cursors = append(p.Cursors, members[i].Email)
	}
	return p
}

// ApplicantPage converts an applicants list page. Identity and cursor
// are both the record key.
func ApplicantPage(applicants []models.MemberWithKey) Page {
	p := Page{
		Rows:    make([]table.Row, 0, len(applicants)),
		IDs:     make([]string, 0, len(applicants)),
		Cursors: make([]string, 0, len(applicants)),
	}
	for i := range applicants {
		p.Rows = append(p.Rows, ApplicantRow(&applicants[i]))
		p.IDs = append(p.IDs, applicants[i].Key)
		p.Cursors = append(p.Cursors, applicants[i].Key)
	}
	return p
}

// QueuePage converts a queue, dequeue or trash list page. Queue row
// identities carry a "q-" prefix so they can never collide with
// member row identities.
func QueuePage(records []models.MemberWithKey) Page {
	p := Page{
		Rows:    make([]table.Row, 0, len(records)),
		IDs:     make([]string, 0, len(records)),
		Cursors: make([]string, 0, len(records)),
	}
	for i := range records {
		p.Rows = append(p.Rows, QueueRow(&records[i]))
		p.IDs = append(p.IDs, "q-"+records[i].Key)
		p.Cursors = append(p.Cursors, records[i].Key)
	}
	return p
}
