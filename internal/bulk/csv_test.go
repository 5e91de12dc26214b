package bulk

import (
	"strings"
	"testing"
)

func TestReadRowsHeaderCaseAndBOM(t *testing.T) {
	input := "\ufeffEmail,Full Name\nalice@x.com,Alice\n"
	rows, err := ReadRows(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadRows: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	if rows[0].Get("email") != "alice@x.com" {
		t.Fatalf("BOM-prefixed header not normalized: %v", rows[0])
	}
	if rows[0].Get("EMAIL") != "alice@x.com" {
		t.Fatal("Get should be case-insensitive on the key")
	}
}

func TestReadRowsRaggedRecords(t *testing.T) {
	input := "email,name,city\n" +
		"a@x.com,Alice\n" +
		"b@x.com,Bob,Pune,extra\n"
	rows, err := ReadRows(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadRows: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if rows[0].Get("city") != "" {
		t.Fatal("short record should read missing cells as empty")
	}
	if rows[1].Get("city") != "Pune" {
		t.Fatal("long record should keep headered cells")
	}
}

func TestReadRowsEmptyInput(t *testing.T) {
	rows, err := ReadRows(strings.NewReader(""))
	if err != nil {
		t.Fatalf("ReadRows: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("got %d rows from empty input", len(rows))
	}
}

func TestYes(t *testing.T) {
	for _, v := range []string{"yes", "YES", " Yes "} {
		if !Yes(v) {
			t.Errorf("Yes(%q) = false", v)
		}
	}
	for _, v := range []string{"", "no", "true", "1"} {
		if Yes(v) {
			t.Errorf("Yes(%q) = true", v)
		}
	}
}
