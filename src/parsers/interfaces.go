// backend/src/parsers/interfaces.go
package parsers

import (
	"io"

	"github.com/username/shipflow/backend/src/models"
)

// RowReader turns one tabular byte stream into raw rows. The first row of the
// source is the header; every following row becomes one RawRow keyed by the
// header names. A reader makes a single pass and is not restartable.
type RowReader interface {
	Read(file io.Reader) ([]models.RawRow, error)
}
