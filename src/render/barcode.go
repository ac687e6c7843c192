// backend/src/render/barcode.go
package render

import (
	"bytes"
	"errors"
	"fmt"
	"image/png"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/code128"
)

// ErrBarcodeEncoding marks an identifier that cannot be rendered as a
// Code-128 symbol. Fatal to that render.
var ErrBarcodeEncoding = errors.New("barcode encoding failed")

const (
	barcodeWidth  = 300
	barcodeHeight = 60
)

// Barcode renders an identifier as a Code-128 PNG at the fixed module
// resolution used for label embedding.
func Barcode(text string) ([]byte, error) {
	if text == "" {
		return nil, fmt.Errorf("%w: empty identifier", ErrBarcodeEncoding)
	}
	symbol, err := code128.Encode(text)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBarcodeEncoding, err)
	}
	scaled, err := barcode.Scale(symbol, barcodeWidth, barcodeHeight)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBarcodeEncoding, err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, scaled); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBarcodeEncoding, err)
	}
	return buf.Bytes(), nil
}
