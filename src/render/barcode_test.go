package render

import (
	"bytes"
	"errors"
	"image/png"
	"testing"
)

func TestBarcode(t *testing.T) {
	data, err := Barcode("12345678901")
	if err != nil {
		t.Fatalf("Barcode() error = %v", err)
	}

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Barcode() output is not a PNG: %v", err)
	}
	bounds := img.Bounds()
	if bounds.Dx() != 300 || bounds.Dy() != 60 {
		t.Errorf("barcode size = %dx%d, want 300x60", bounds.Dx(), bounds.Dy())
	}
}

func TestBarcodeEmptyIdentifier(t *testing.T) {
	_, err := Barcode("")
	if !errors.Is(err, ErrBarcodeEncoding) {
		t.Errorf("Barcode(\"\") error = %v, want ErrBarcodeEncoding", err)
	}
}
