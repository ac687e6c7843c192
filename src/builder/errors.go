// backend/src/builder/errors.go
package builder

import "errors"

var (
	// ErrMissingMandatoryField marks a blank value in a column the carrier
	// requires. Fatal to that row only.
	ErrMissingMandatoryField = errors.New("missing mandatory field")

	// ErrInvalidField marks a non-numeric value in a numeric-mandatory
	// column. Fatal to that row only.
	ErrInvalidField = errors.New("invalid field value")
)
