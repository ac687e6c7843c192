// backend/src/parsers/factory.go
package parsers

import (
	"fmt"
	"path/filepath"
	"strings"
)

// GetReader picks a RowReader from the uploaded file's extension.
func GetReader(filename string) (RowReader, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".csv":
		return NewCSVReader(), nil
	case ".xlsx":
		return NewXLSXReader(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}
