package bulk

import (
	"encoding/csv"
	"io"
	"strings"
)

// Row is one parsed CSV record keyed by lower-cased header name, so Email
// and email columns are interchangeable.
type Row map[string]string

func (r Row) Get(key string) string {
	return strings.TrimSpace(r[strings.ToLower(key)])
}

// Yes matches the truthy spelling used by the import sheets.
func Yes(v string) bool {
	return strings.EqualFold(strings.TrimSpace(v), "yes")
}

// ReadRows parses a headered CSV stream into memory. Short or long records
// are tolerated; extra cells are dropped and missing ones read as empty.
func ReadRows(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, err
	}
	for i := range header {
		header[i] = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(header[i], "\ufeff")))
	}

	var rows []Row
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		row := Row{}
		for i, name := range header {
			if i < len(rec) {
				row[name] = rec[i]
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}
