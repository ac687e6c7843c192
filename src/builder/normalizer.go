// backend/src/builder/normalizer.go
package builder

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ToCarrierDate encodes a YYYY-MM-DD calendar date as the carrier's wire
// token "/Date(<millis>)/", where millis is the Unix epoch offset of midnight
// of that date in the local time zone. The envelope is a carrier protocol
// requirement and must be reproduced exactly.
func ToCarrierDate(value string) (string, error) {
	if strings.TrimSpace(value) == "" {
		return "", ErrMissingMandatoryField
	}
	date, err := time.ParseInLocation("2006-01-02", value, time.Local)
	if err != nil {
		return "", fmt.Errorf("%w: %q is not a YYYY-MM-DD date", ErrInvalidField, value)
	}
	return fmt.Sprintf("/Date(%d)/", date.UnixMilli()), nil
}

// ParseMandatoryInt parses a numeric-mandatory column. A value that is not an
// integer is a hard input error, never silently defaulted.
func ParseMandatoryInt(value, field string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q is not an integer", ErrInvalidField, field, value)
	}
	return n, nil
}
