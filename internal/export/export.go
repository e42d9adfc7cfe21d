// Package export writes member rosters to CSV and XLSX files.
package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/starshipfactory/memberctl/internal/models"
)

var rosterHeader = []string{
	"Name", "Strasse", "PLZ", "Ort", "Land", "E-Mail", "Telefon",
	"Benutzername", "Beitrag", "Schlüssel", "Bezahlt bis",
}

func rosterRow(m *models.Member) []string {
	hasKey := "nein"
	if m.HasKey {
		hasKey = "ja"
	}
	return []string{
		m.Name,
		m.Street,
		m.Zipcode,
		m.City,
		m.Country,
		m.Email,
		m.Phone,
		m.UsernameOrPlaceholder(),
		m.FeeString(),
		hasKey,
		m.PaidUntilString(),
	}
}

// WriteCSV writes the member roster as CSV to w.
func WriteCSV(w io.Writer, members []models.Member) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(rosterHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for i := range members {
		if err := cw.Write(rosterRow(&members[i])); err != nil {
			return fmt.Errorf("failed to write row for %s: %w", members[i].Email, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteXLSX writes the member roster as an XLSX workbook to path.
func WriteXLSX(path string, members []models.Member) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Mitglieder"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	for col, title := range rosterHeader {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(sheet, cell, title)
	}
	for i := range members {
		for col, value := range rosterRow(&members[i]) {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			f.SetCellValue(sheet, cell, value)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}
