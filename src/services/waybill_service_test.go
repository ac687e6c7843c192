package services

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/patrickmn/go-cache"

	"github.com/username/shipflow/backend/src/builder"
	"github.com/username/shipflow/backend/src/database"
	"github.com/username/shipflow/backend/src/logger"
	"github.com/username/shipflow/backend/src/models"
	"github.com/username/shipflow/backend/src/render"
)

func TestMain(m *testing.M) {
	logger.InitLogger("error")

	dir, err := os.MkdirTemp("", "waybill-service-test-*")
	if err != nil {
		panic(err)
	}
	database.InitDB(filepath.Join(dir, "test.db"))

	code := m.Run()
	os.RemoveAll(dir)
	os.Exit(code)
}

func newTestService() WaybillService {
	profile := models.Profile{LoginID: "GG940111", LicenceKey: "test-key", APIType: "S"}
	return NewWaybillService(
		builder.New(profile),
		render.NewLabelRenderer(),
		NewLocalAWBAllocator(),
		&MockEmailService{},
		cache.New(DefaultCacheExpiration, CacheCleanupInterval),
	)
}

func testRequest(t *testing.T, reference string) *models.WaybillRequest {
	t.Helper()
	profile := models.Profile{LoginID: "GG940111", LicenceKey: "test-key", APIType: "S"}
	row := models.RawRow{
		"CustomerName":      "Acme Traders",
		"ConsigneeName":     "R Kumar",
		"PickupDate":        "2024-03-15",
		"DeclaredValue":     "500",
		"PieceCount":        "2",
		"CollectableAmount": "0",
		"ItemName":          "Widgets",
		"ItemValue":         "500",
		"Itemquantity":      "2",
		"CreditReferenceNo": reference,
	}
	req, err := builder.New(profile).BuildExtended(row)
	if err != nil {
		t.Fatalf("building test request: %v", err)
	}
	return req
}

func TestCreateAndGetWaybill(t *testing.T) {
	svc := newTestService()

	record, err := svc.CreateWaybill(testRequest(t, "REF-create"))
	if err != nil {
		t.Fatalf("CreateWaybill() error = %v", err)
	}
	if len(record.AWBNo) != 11 {
		t.Errorf("AWBNo = %q, want 11 digits", record.AWBNo)
	}
	if record.CreditReferenceNo != "REF-create" {
		t.Errorf("CreditReferenceNo = %q, want REF-create", record.CreditReferenceNo)
	}
	if record.ID == 0 {
		t.Errorf("record ID not populated")
	}

	got, err := svc.GetWaybill(record.AWBNo)
	if err != nil {
		t.Fatalf("GetWaybill(%s) error = %v", record.AWBNo, err)
	}
	if got.Request == nil {
		t.Fatalf("stored request not restored")
	}
	if got.Request.Shape != models.ShapeExtended {
		t.Errorf("restored Shape = %q, want extended", got.Request.Shape)
	}
	if got.Request.Extended == nil || got.Request.Extended.DeclaredValue != 500 {
		t.Errorf("restored services section wrong: %+v", got.Request.Extended)
	}
	if got.Request.Profile == nil || got.Request.Profile.LoginID != "GG940111" {
		t.Errorf("restored profile wrong: %+v", got.Request.Profile)
	}
}

func TestGetWaybillNotFound(t *testing.T) {
	svc := newTestService()
	_, err := svc.GetWaybill("00000000000")
	if !errors.Is(err, ErrRecordNotFound) {
		t.Errorf("GetWaybill() error = %v, want ErrRecordNotFound", err)
	}
}

func TestIngestBulkSkipsBadRows(t *testing.T) {
	svc := newTestService()

	input := "CustomerName,ConsigneeName,PickupDate,DeclaredValue,PieceCount,CollectableAmount,ItemName,ItemValue,Itemquantity,CreditReferenceNo\n" +
		"Acme,Kumar,2024-03-15,500,2,0,Widgets,500,2,REF-ok-1\n" +
		"Acme,Kumar,not-a-date,500,2,0,Widgets,500,2,REF-bad-date\n" +
		"Acme,Kumar,2024-03-15,lots,2,0,Widgets,500,2,REF-bad-value\n" +
		"Acme,Kumar,2024-03-16,250,1,0,Widgets,250,1,REF-ok-2\n"

	result, err := svc.IngestBulk(strings.NewReader(input), "bulk.csv", models.ShapeExtended)
	if err != nil {
		t.Fatalf("IngestBulk() error = %v", err)
	}
	if result.BatchID == "" {
		t.Errorf("BatchID empty")
	}
	if len(result.Records) != 2 {
		t.Errorf("created %d records, want 2", len(result.Records))
	}
	if len(result.RowErrors) != 2 {
		t.Fatalf("RowErrors = %+v, want 2 entries", result.RowErrors)
	}

	// Data rows count from 2; the bad rows are the file's 3rd and 4th lines.
	if result.RowErrors[0].Row != 3 || result.RowErrors[1].Row != 4 {
		t.Errorf("RowErrors rows = %d,%d, want 3,4", result.RowErrors[0].Row, result.RowErrors[1].Row)
	}
	if !strings.Contains(result.RowErrors[0].Message, "PickupDate") {
		t.Errorf("row 3 message %q does not name PickupDate", result.RowErrors[0].Message)
	}
	if !strings.Contains(result.RowErrors[1].Message, "DeclaredValue") {
		t.Errorf("row 4 message %q does not name DeclaredValue", result.RowErrors[1].Message)
	}
}

func TestIngestBulkUnsupportedFormat(t *testing.T) {
	svc := newTestService()
	_, err := svc.IngestBulk(strings.NewReader("x"), "upload.xls", models.ShapeExtended)
	if !errors.Is(err, ErrParsingFailed) {
		t.Errorf("IngestBulk() error = %v, want ErrParsingFailed", err)
	}
}

func TestIngestBulkEmptyFile(t *testing.T) {
	svc := newTestService()
	_, err := svc.IngestBulk(strings.NewReader(""), "upload.csv", models.ShapeExtended)
	if !errors.Is(err, ErrParsingFailed) {
		t.Errorf("IngestBulk() on empty file error = %v, want ErrParsingFailed", err)
	}
}

func TestRenderLabel(t *testing.T) {
	svc := newTestService()

	record, err := svc.CreateWaybill(testRequest(t, "REF-label"))
	if err != nil {
		t.Fatalf("CreateWaybill() error = %v", err)
	}

	pdf, err := svc.RenderLabel(record.AWBNo, "A4")
	if err != nil {
		t.Fatalf("RenderLabel() error = %v", err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Errorf("RenderLabel() output does not start with %%PDF")
	}

	again, err := svc.RenderLabel(record.AWBNo, "A4")
	if err != nil {
		t.Fatalf("cached RenderLabel() error = %v", err)
	}
	if !bytes.Equal(pdf, again) {
		t.Errorf("cached render differs from first render")
	}
}

func TestRenderLabelUnknownAWB(t *testing.T) {
	svc := newTestService()
	_, err := svc.RenderLabel("99999999999", "A4")
	if !errors.Is(err, ErrRecordNotFound) {
		t.Errorf("RenderLabel() error = %v, want ErrRecordNotFound", err)
	}
}

func TestListWaybillsNewestFirst(t *testing.T) {
	svc := newTestService()

	first, err := svc.CreateWaybill(testRequest(t, "REF-list-1"))
	if err != nil {
		t.Fatalf("CreateWaybill() error = %v", err)
	}
	second, err := svc.CreateWaybill(testRequest(t, "REF-list-2"))
	if err != nil {
		t.Fatalf("CreateWaybill() error = %v", err)
	}

	records, err := svc.ListWaybills()
	if err != nil {
		t.Fatalf("ListWaybills() error = %v", err)
	}
	if len(records) < 2 {
		t.Fatalf("ListWaybills() returned %d records, want at least 2", len(records))
	}

	posFirst, posSecond := -1, -1
	for i, r := range records {
		switch r.AWBNo {
		case first.AWBNo:
			posFirst = i
		case second.AWBNo:
			posSecond = i
		}
	}
	if posFirst == -1 || posSecond == -1 {
		t.Fatalf("created records missing from listing")
	}
	if posSecond > posFirst {
		t.Errorf("newest record listed after older one (positions %d, %d)", posSecond, posFirst)
	}
}

func TestLocalAWBAllocator(t *testing.T) {
	allocator := NewLocalAWBAllocator()
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		awb, err := allocator.Next()
		if err != nil {
			t.Fatalf("Next() error = %v", err)
		}
		if len(awb) != 11 {
			t.Errorf("Next() = %q, want 11 digits", awb)
		}
		for _, c := range awb {
			if c < '0' || c > '9' {
				t.Errorf("Next() = %q contains non-digit %q", awb, c)
			}
		}
		seen[awb] = true
	}
	if len(seen) < 49 {
		t.Errorf("allocator produced %d distinct values out of 50", len(seen))
	}
}
