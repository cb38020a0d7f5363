package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
)

// ReadCSV adapts a CSV stream to the importer's row shape. It is the one
// place a whole-file problem becomes a hard error: a file that cannot be
// parsed as tabular data aborts the import with no state change.
func ReadCSV(r io.Reader) ([]string, []Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	headers, err := cr.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("reading header row: %w", err)
	}
	if len(headers) == 0 {
		return nil, nil, errors.New("file has no header row")
	}

	var rows []Row
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("reading row %d: %w", len(rows)+2, err)
		}

		row := make(Row, len(headers))
		for i, h := range headers {
			if i < len(record) {
				row[h] = record[i]
			}
		}
		rows = append(rows, row)
	}

	return headers, rows, nil
}

// WriteCSV renders an exported table back out, for the file-download
// boundary.
func WriteCSV(w io.Writer, headers []string, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(headers); err != nil {
		return fmt.Errorf("writing header row: %w", err)
	}
	for _, row := range rows {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
