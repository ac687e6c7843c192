// backend/src/parsers/errors.go
package parsers

import "errors"

var (
	// ErrUnsupportedFormat marks a file extension no reader exists for.
	// Fatal to the whole ingestion call.
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// ErrMissingHeaderRow marks a spreadsheet whose first sheet has no
	// header row. Fatal to the whole ingestion call.
	ErrMissingHeaderRow = errors.New("header row is missing")
)
