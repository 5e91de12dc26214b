// Package export renders the registration roster as CSV or as an xlsx
// workbook for offline processing.
package export

import (
	"encoding/csv"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"eventreg/internal/registration"
)

var header = []string{
	"Name", "Email", "Phone", "DOB", "School", "City", "Grade", "Stream",
	"Guardian Name", "Guardian Contact", "Guardian Email",
	"T-Shirt Size", "Allergies", "Accommodation", "Payment Status", "Registered At",
}

func toRow(reg registration.Registration) []string {
	dob := ""
	if reg.DOB != nil {
		dob = reg.DOB.Format("2006-01-02")
	}
	accommodation := "NO"
	if reg.Accommodation {
		accommodation = "YES"
	}
	return []string{
		reg.FullName, reg.Email, reg.Phone, dob, reg.School, reg.City, reg.Grade, reg.Stream,
		reg.GuardianName, reg.GuardianContact, reg.GuardianEmail,
		reg.TShirtSize, reg.Allergies, accommodation, string(reg.PaymentStatus),
		reg.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// WriteCSV streams the roster to w.
func WriteCSV(w io.Writer, regs []registration.Registration) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, reg := range regs {
		if err := cw.Write(toRow(reg)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Workbook builds a single-sheet xlsx of the roster with a bold, filterable
// header row.
func Workbook(regs []registration.Registration) (*excelize.File, error) {
	f := excelize.NewFile()
	const sheet = "Registrations"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}

	bold, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	for col, h := range header {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellStr(sheet, cell, h); err != nil {
			return nil, err
		}
	}
	end, _ := excelize.CoordinatesToCellName(len(header), 1)
	_ = f.SetCellStyle(sheet, "A1", end, bold)
	_ = f.AutoFilter(sheet, "A1:"+end, nil)

	for r, reg := range regs {
		for c, val := range toRow(reg) {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			if err := f.SetCellStr(sheet, cell, val); err != nil {
				return nil, err
			}
		}
	}
	return f, nil
}
