package export

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"eventreg/internal/registration"
)

func sampleRegs() []registration.Registration {
	dob := time.Date(2009, 5, 14, 0, 0, 0, 0, time.UTC)
	return []registration.Registration{
		{
			FullName:      "Alice",
			Email:         "alice@x.com",
			Phone:         "999",
			DOB:           &dob,
			School:        "State High",
			City:          "Pune",
			Grade:         "10",
			Accommodation: true,
			PaymentStatus: registration.PaymentSuccess,
			CreatedAt:     time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		},
		{
			FullName:      "Bob",
			Email:         "bob@x.com",
			PaymentStatus: registration.PaymentPending,
			CreatedAt:     time.Date(2026, 1, 3, 0, 0, 0, 0, time.UTC),
		},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, sampleRegs()); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("parse output: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("got %d records, want header + 2 rows", len(records))
	}
	if records[0][0] != "Name" || records[0][len(records[0])-1] != "Registered At" {
		t.Fatalf("unexpected header: %v", records[0])
	}
	if records[1][1] != "alice@x.com" || records[1][3] != "2009-05-14" {
		t.Fatalf("row not rendered: %v", records[1])
	}
	if records[1][13] != "YES" || records[2][13] != "NO" {
		t.Fatal("accommodation flag not rendered as YES/NO")
	}
	if records[2][3] != "" {
		t.Fatal("missing DOB should render empty")
	}
}

func TestWorkbook(t *testing.T) {
	wb, err := Workbook(sampleRegs())
	if err != nil {
		t.Fatalf("Workbook: %v", err)
	}

	got, err := wb.GetCellValue("Registrations", "A1")
	if err != nil {
		t.Fatalf("GetCellValue: %v", err)
	}
	if got != "Name" {
		t.Fatalf("A1 = %q, want header", got)
	}
	got, err = wb.GetCellValue("Registrations", "B3")
	if err != nil {
		t.Fatalf("GetCellValue: %v", err)
	}
	if got != "bob@x.com" {
		t.Fatalf("B3 = %q, want second row email", got)
	}
}
