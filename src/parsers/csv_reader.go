// backend/src/parsers/csv_reader.go
package parsers

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/username/shipflow/backend/src/models"
	"github.com/username/shipflow/backend/src/security/validation"
)

// CSVReader reads comma-separated sources. Header names and cell values are
// trimmed of surrounding whitespace; rows shorter than the header are padded
// with empty strings so identical business data parses identically to the
// spreadsheet reader.
type CSVReader struct{}

func NewCSVReader() *CSVReader {
	return &CSVReader{}
}

func (p *CSVReader) Read(file io.Reader) ([]models.RawRow, error) {
	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, ErrMissingHeaderRow
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	for i, name := range header {
		header[i] = strings.TrimSpace(name)
	}

	var rows []models.RawRow
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV record: %w", err)
		}

		row := make(models.RawRow, len(header))
		for i, name := range header {
			if name == "" {
				continue
			}
			value := ""
			if i < len(record) {
				value = validation.StripUnprintable(strings.TrimSpace(record[i]))
			}
			row[name] = value
		}
		rows = append(rows, row)
	}

	return rows, nil
}
