package export

import (
	"bytes"
	"encoding/csv"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/starshipfactory/memberctl/internal/models"
)

var testMembers = []models.Member{
	{
		Name: "Jane Doe", Street: "Gasse 1", Zipcode: "4056", City: "Basel",
		Country: "Schweiz", Email: "jane@doe.ch", Fee: 250, FeeYearly: true,
		HasKey: true, PaymentsCaughtUpTo: 1735689600,
	},
	{
		Name: "Max Muster", City: "Bern", Country: "Schweiz",
		Email: "max@muster.ch", Fee: 20, FeeYearly: false,
	},
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, testMembers); err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("failed to read back CSV: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("got %d records, want 3", len(records))
	}
	if records[0][0] != "Name" {
		t.Errorf("header = %v", records[0])
	}
	jane := records[1]
	if jane[8] != "250 CHF pro Jahr" {
		t.Errorf("fee cell = %q", jane[8])
	}
	if jane[9] != "ja" {
		t.Errorf("key cell = %q", jane[9])
	}
	if jane[10] != "2025-01-01" {
		t.Errorf("paid-until cell = %q", jane[10])
	}
	max := records[2]
	if max[7] != "Keiner" {
		t.Errorf("username cell = %q, want Keiner", max[7])
	}
	if max[10] != "-" {
		t.Errorf("paid-until cell = %q, want -", max[10])
	}
}

func TestWriteXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mitglieder.xlsx")
	if err := WriteXLSX(path, testMembers); err != nil {
		t.Fatalf("WriteXLSX failed: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("failed to open workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Mitglieder")
	if err != nil {
		t.Fatalf("failed to read sheet: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(rows))
	}
	if !strings.Contains(strings.Join(rows[1], " "), "jane@doe.ch") {
		t.Errorf("jane row = %v", rows[1])
	}
	if rows[2][8] != "20 CHF pro Monat" {
		t.Errorf("fee cell = %q", rows[2][8])
	}
}
