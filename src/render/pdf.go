// backend/src/render/pdf.go
package render

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/username/shipflow/backend/src/models"
)

// ErrNoStoredRequest marks a record whose stored request is wholly absent.
var ErrNoStoredRequest = errors.New("waybill record has no stored request")

const (
	pageMargin  = 20.0
	blockPad    = 6.0
	labelTitle  = "SHIPPING WAYBILL"
	outDateFmt  = "02-01-2006"
	barcodeBoxW = 200.0
	barcodeBoxH = 50.0
)

// LabelRenderer lays out the printable 4-up waybill label: a single page per
// record holding a 2x2 grid of four identical label blocks, as courier
// workflows need four tear-off copies. Purely functional; one record in, one
// document out.
type LabelRenderer struct{}

func NewLabelRenderer() *LabelRenderer {
	return &LabelRenderer{}
}

// Render produces the label document for one record. Size is "A4" or "A5";
// anything else falls back to A4.
func (r *LabelRenderer) Render(record *models.WaybillRecord, size string) ([]byte, error) {
	return r.RenderBulk([]*models.WaybillRecord{record}, size)
}

// RenderBulk produces one grid page per record in a single document.
func (r *LabelRenderer) RenderBulk(records []*models.WaybillRecord, size string) ([]byte, error) {
	if size != "A5" {
		size = "A4"
	}
	pdf := gofpdf.New("P", "pt", size, "")
	pdf.SetAutoPageBreak(false, 0)

	for _, record := range records {
		if record == nil || record.Request == nil {
			return nil, ErrNoStoredRequest
		}
		if err := r.addGridPage(pdf, record); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render label document: %w", err)
	}
	return buf.Bytes(), nil
}

// addGridPage draws the 2x2 grid. All four blocks come from the same
// renderBlock call path, so identical content is guaranteed by construction.
func (r *LabelRenderer) addGridPage(pdf *gofpdf.Fpdf, record *models.WaybillRecord) error {
	barcodePNG, err := Barcode(record.AWBNo)
	if err != nil {
		return err
	}
	imageName := "awb-" + record.AWBNo
	pdf.RegisterImageOptionsReader(imageName, gofpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(barcodePNG))

	pdf.AddPage()
	pageW, pageH := pdf.GetPageSize()
	cellW := (pageW - 2*pageMargin) / 2
	cellH := (pageH - 2*pageMargin) / 2

	for i := 0; i < 4; i++ {
		x := pageMargin + float64(i%2)*cellW
		y := pageMargin + float64(i/2)*cellH

		pdf.SetDrawColor(128, 128, 128)
		pdf.SetLineWidth(0.5)
		pdf.Rect(x, y, cellW, cellH, "D")

		r.renderBlock(pdf, record, imageName, x+blockPad, y+blockPad, cellW-2*blockPad)
	}
	return pdf.Error()
}

// renderBlock draws one label copy: title, metadata panel, shipper/consignee
// panel, services panel and the barcode.
func (r *LabelRenderer) renderBlock(pdf *gofpdf.Fpdf, record *models.WaybillRecord, imageName string, x, y, w float64) {
	req := record.Request

	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetXY(x, y)
	pdf.CellFormat(w, 16, labelTitle, "", 0, "C", false, 0, "")
	y += 20

	y = r.metaRow(pdf, x, y, w, "AWB No", record.AWBNo)
	y = r.metaRow(pdf, x, y, w, "Reference", record.CreditReferenceNo)
	y = r.metaRow(pdf, x, y, w, "Pickup Date", formatCreatedDate(record.CreatedAt))
	y += 4

	half := w / 2
	r.sectionHeader(pdf, x, y, half, "SHIPPER")
	r.sectionHeader(pdf, x+half, y, half, "CONSIGNEE")
	y += 13

	shipperLines := partyLines(shipperDetails(req.Shipper))
	consigneeLines := partyLines(consigneeDetails(req.Consignee))
	boxH := 4*10.0 + 6
	pdf.Rect(x, y, half, boxH, "D")
	pdf.Rect(x+half, y, half, boxH, "D")
	r.textLines(pdf, x+3, y+3, half-6, shipperLines)
	r.textLines(pdf, x+half+3, y+3, half-6, consigneeLines)
	y += boxH + 4

	r.sectionHeader(pdf, x, y, w, "SERVICES")
	y += 13
	serviceBoxH := 5*10.0 + 6
	pdf.Rect(x, y, w, serviceBoxH, "D")
	r.textLines(pdf, x+3, y+3, w-6, serviceLines(req))
	y += serviceBoxH + 6

	boxW := barcodeBoxW
	if boxW > w {
		boxW = w
	}
	boxH = boxW * barcodeBoxH / barcodeBoxW
	pdf.ImageOptions(imageName, x+(w-boxW)/2, y, boxW, boxH, false, gofpdf.ImageOptions{ImageType: "PNG"}, 0, "")
}

func (r *LabelRenderer) metaRow(pdf *gofpdf.Fpdf, x, y, w float64, label, value string) float64 {
	labelW := w / 3
	pdf.SetXY(x, y)
	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(labelW, 13, label, "1", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(w-labelW, 13, na(value), "1", 0, "L", false, 0, "")
	return y + 13
}

func (r *LabelRenderer) sectionHeader(pdf *gofpdf.Fpdf, x, y, w float64, title string) {
	pdf.SetXY(x, y)
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(211, 211, 211)
	pdf.CellFormat(w, 13, title, "1", 0, "L", true, 0, "")
}

func (r *LabelRenderer) textLines(pdf *gofpdf.Fpdf, x, y, w float64, lines []string) {
	pdf.SetFont("Helvetica", "", 8)
	for i, line := range lines {
		pdf.SetXY(x, y+float64(i)*10)
		pdf.CellFormat(w, 10, line, "", 0, "L", false, 0, "")
	}
}

// shipperDetails pulls the fields the label shows from the shipper section.
// A nil section degrades to all-absent values, never a render failure.
func shipperDetails(s *models.Shipper) (name, mobile, address, city, pincode string) {
	if s == nil {
		return
	}
	return s.CustomerName, s.CustomerMobile, s.CustomerAddress1, "", s.CustomerPincode
}

func consigneeDetails(c *models.Consignee) (name, mobile, address, city, pincode string) {
	if c == nil {
		return
	}
	return c.ConsigneeName, c.ConsigneeMobile, c.ConsigneeAddress1, "", c.ConsigneePincode
}

func partyLines(name, mobile, address, city, pincode string) []string {
	return []string{
		na(name),
		"Mob: " + na(mobile),
		na(address) + ",",
		na(city) + " - " + na(pincode),
	}
}

func serviceLines(req *models.WaybillRequest) []string {
	weight, declared, pieces, collectable := serviceSummary(req)
	itemName := req.FirstItemName()
	return []string{
		"Weight: " + na(weight),
		"DeclaredValue: " + na(declared),
		"PieceCount: " + na(pieces),
		"ItemName: " + na(itemName),
		"CollectableAmount: " + na(collectable),
	}
}

func serviceSummary(req *models.WaybillRequest) (weight, declared, pieces, collectable string) {
	switch {
	case req.Simple != nil:
		s := req.Simple
		return s.ActualWeight, s.DeclaredValue, s.PieceCount, s.CollectableAmount
	case req.Extended != nil:
		s := req.Extended
		return s.ActualWeight, strconv.Itoa(s.DeclaredValue), s.PieceCount, strconv.Itoa(s.CollectableAmount)
	default:
		return
	}
}

// formatCreatedDate renders the stored creation timestamp as dd-MM-yyyy.
// Accepts a date-time or a date-only input and falls back to the raw string
// when neither parses.
func formatCreatedDate(value string) string {
	for _, layout := range []string{"2006-01-02T15:04:05", time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t.Format(outDateFmt)
		}
	}
	return value
}

func na(value string) string {
	if value == "" {
		return "NA"
	}
	return value
}
