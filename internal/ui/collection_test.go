package ui

import (
	"errors"
	"fmt"
	"testing"

	"github.com/charmbracelet/bubbles/table"

	"github.com/starshipfactory/memberctl/internal/models"
)

func fullPage(n int) Page {
	p := Page{}
	for i := 0; i < n; i++ {
		p.Rows = append(p.Rows, table.Row{fmt.Sprintf("row %d", i)})
		p.IDs = append(p.IDs, fmt.Sprintf("id-%d", i))
		p.Cursors = append(p.Cursors, fmt.Sprintf("cursor-%d", i))
	}
	return p
}

func TestPagerEnablementAtBoundary(t *testing.T) {
	tests := []struct {
		name     string
		cursor   string
		rows     int
		wantNext bool
		wantPrev bool
	}{
		{"first page full", "", 25, true, false},
		{"first page short", "", 24, false, false},
		{"later page short", "q-42", 3, false, true},
		{"later page full", "q-42", 25, true, true},
		{"empty page", "x", 0, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewCollectionView(25)
			seq := v.Load(tt.cursor)
			v.Apply(seq, fullPage(tt.rows), nil)

			if got := v.NextEnabled(); got != tt.wantNext {
				t.Errorf("NextEnabled = %v, want %v", got, tt.wantNext)
			}
			if got := v.PrevEnabled(); got != tt.wantPrev {
				t.Errorf("PrevEnabled = %v, want %v", got, tt.wantPrev)
			}
		})
	}
}

func TestNextCursorIsLastRow(t *testing.T) {
	v := NewCollectionView(25)
	seq := v.Load("")
	v.Apply(seq, fullPage(25), nil)

	if got := v.NextCursor(); got != "cursor-24" {
		t.Errorf("NextCursor = %q, want cursor-24", got)
	}
}

func TestEmptyPageShowsSinglePlaceholder(t *testing.T) {
	v := NewCollectionView(25)
	seq := v.Load("end")
	v.Apply(seq, Page{}, nil)

	if v.State() != CollectionEmpty {
		t.Fatalf("state = %v, want CollectionEmpty", v.State())
	}
	rows := v.Rows(6)
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	if rows[0][0] != EmptyPlaceholder {
		t.Errorf("placeholder = %q", rows[0][0])
	}
	if v.HasRecords() {
		t.Error("placeholder page reports records")
	}
	if v.RowID(0) != "" {
		t.Errorf("placeholder row has identity %q", v.RowID(0))
	}
}

func TestStaleResponseDiscarded(t *testing.T) {
	v := NewCollectionView(25)

	seq1 := v.Load("")
	seq2 := v.Load("cursor-24") // operator paged on before the first answer

	if v.Apply(seq1, fullPage(25), nil) {
		t.Error("stale response was applied")
	}
	if !v.Apply(seq2, fullPage(3), nil) {
		t.Error("current response was discarded")
	}
	if len(v.Rows(1)) != 3 {
		t.Errorf("rendered %d rows, want 3 from the newer response", len(v.Rows(1)))
	}

	// A stale response arriving after the fresh one changes nothing.
	if v.Apply(seq1, fullPage(25), nil) {
		t.Error("late stale response was applied")
	}
	if len(v.Rows(1)) != 3 {
		t.Error("late stale response overwrote the page")
	}
}

func TestLoadErrorKeepsRenderedRows(t *testing.T) {
	v := NewCollectionView(25)
	seq := v.Load("")
	v.Apply(seq, fullPage(10), nil)

	seq = v.Load("cursor-9")
	v.Apply(seq, Page{}, errors.New("connection refused"))

	if v.State() != CollectionRendered {
		t.Errorf("state = %v, want CollectionRendered", v.State())
	}
	if len(v.Rows(1)) != 10 {
		t.Errorf("rendered %d rows after failure, want previous 10", len(v.Rows(1)))
	}
	if v.Err() == nil {
		t.Error("error not retained")
	}
}

func TestRemoveRow(t *testing.T) {
	v := NewCollectionView(25)
	seq := v.Load("")
	v.Apply(seq, fullPage(3), nil)

	if !v.RemoveRow("id-1") {
		t.Fatal("RemoveRow did not find id-1")
	}
	if len(v.Rows(1)) != 2 {
		t.Errorf("got %d rows, want 2", len(v.Rows(1)))
	}
	if v.RowID(1) != "id-2" {
		t.Errorf("RowID(1) = %q, want id-2", v.RowID(1))
	}
	if v.RemoveRow("id-1") {
		t.Error("removed a row twice")
	}

	v.RemoveRow("id-0")
	v.RemoveRow("id-2")
	if v.State() != CollectionEmpty {
		t.Errorf("state = %v after removing all rows, want CollectionEmpty", v.State())
	}
}

func TestMemberPageIdentityAndOrder(t *testing.T) {
	members := []models.Member{
		{Name: "Jane Doe", City: "Basel", Email: "jane@doe.ch", Fee: 250, FeeYearly: true, HasKey: true},
		{Name: "Max Muster", City: "Bern", Email: "max@muster.ch", Fee: 20},
	}
	p := MemberPage(members)

	if p.IDs[0] != "jane_doe_ch" {
		t.Errorf("row identity = %q, want jane_doe_ch", p.IDs[0])
	}
	if p.Cursors[1] != "max@muster.ch" {
		t.Errorf("cursor = %q", p.Cursors[1])
	}

	jane := p.Rows[0]
	want := table.Row{"Jane Doe", "Basel", "Keiner", "jane@doe.ch", "250 CHF pro Jahr", "ja", "-"}
	for i := range want {
		if jane[i] != want[i] {
			t.Errorf("cell %d = %q, want %q", i, jane[i], want[i])
		}
	}
}

func TestApplicantPageRendering(t *testing.T) {
	applicants := []models.MemberWithKey{
		{
			Key: "abc-123",
			Member: models.Member{
				Name: "Max Muster", Street: "Gasse 2", City: "Basel",
				Fee: 50, FeeYearly: true,
			},
			Metadata: &models.MembershipMetadata{
				RequestTimestamp: 1735689600,
				RequestSourceIP:  "192.0.2.1",
			},
		},
	}
	p := ApplicantPage(applicants)

	if p.IDs[0] != "abc-123" {
		t.Errorf("identity = %q", p.IDs[0])
	}
	row := p.Rows[0]
	if row[3] != "50 CHF pro Jahr" {
		t.Errorf("fee cell = %q", row[3])
	}
	if row[4] != "2025-01-01 00:00 (192.0.2.1)" {
		t.Errorf("requested cell = %q", row[4])
	}
}

func TestQueuePagePrefixesIdentity(t *testing.T) {
	records := []models.MemberWithKey{
		{Key: "42", Member: models.Member{Name: "Queued Person", Email: "q@p.ch", Fee: 20}},
	}
	p := QueuePage(records)

	if p.IDs[0] != "q-42" {
		t.Errorf("identity = %q, want q-42", p.IDs[0])
	}
	if p.Cursors[0] != "42" {
		t.Errorf("cursor = %q, want raw key", p.Cursors[0])
	}
	if p.Rows[0][3] != "Keiner" {
		t.Errorf("username cell = %q, want Keiner", p.Rows[0][3])
	}
}
