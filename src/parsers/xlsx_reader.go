// backend/src/parsers/xlsx_reader.go
package parsers

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/username/shipflow/backend/src/logger"
	"github.com/username/shipflow/backend/src/models"
	"github.com/username/shipflow/backend/src/security/validation"
)

// XLSXReader reads the first sheet of a spreadsheet. Row 0 is the header;
// cell values come back display-formatted, so numeric and date cells yield
// the same strings a CSV export of the sheet would.
type XLSXReader struct{}

func NewXLSXReader() *XLSXReader {
	return &XLSXReader{}
}

func (p *XLSXReader) Read(file io.Reader) ([]models.RawRow, error) {
	workbook, err := excelize.OpenReader(file)
	if err != nil {
		return nil, fmt.Errorf("failed to open spreadsheet: %w", err)
	}
	defer func() {
		if cerr := workbook.Close(); cerr != nil {
			logger.L.Warn("Failed to close workbook", "error", cerr)
		}
	}()

	sheet := workbook.GetSheetName(0)
	if sheet == "" {
		return nil, ErrMissingHeaderRow
	}

	// GetRows returns display-formatted cell strings.
	sheetRows, err := workbook.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	if len(sheetRows) == 0 {
		return nil, ErrMissingHeaderRow
	}

	header := sheetRows[0]
	for i, name := range header {
		header[i] = strings.TrimSpace(name)
	}

	var rows []models.RawRow
	for _, sheetRow := range sheetRows[1:] {
		if len(sheetRow) == 0 {
			continue
		}

		row := make(models.RawRow, len(header))
		for i, name := range header {
			if name == "" {
				continue
			}
			value := ""
			if i < len(sheetRow) {
				value = validation.StripUnprintable(strings.TrimSpace(sheetRow[i]))
			}
			row[name] = value
		}
		rows = append(rows, row)
	}

	return rows, nil
}
