package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/username/shipflow/backend/src/builder"
	"github.com/username/shipflow/backend/src/config"
	"github.com/username/shipflow/backend/src/database"
	"github.com/username/shipflow/backend/src/logger"
	"github.com/username/shipflow/backend/src/models"
	"github.com/username/shipflow/backend/src/render"
	"github.com/username/shipflow/backend/src/security"
	"github.com/username/shipflow/backend/src/services"
)

func TestMain(m *testing.M) {
	logger.InitLogger("error")
	config.Cfg = &config.AppConfig{
		Port:               "8080",
		LogLevel:           "error",
		MaxUploadSizeBytes: 10 * 1024 * 1024,
		JWTSecret:          "test-secret-for-handlers-minimum-32b",
		ServiceAPIKey:      "valid-api-key",
		AccessTokenExpiry:  time.Hour,
		CarrierLoginID:     "GG940111",
		CarrierAPIType:     "S",
		DefaultLabelSize:   "A4",
	}

	dir, err := os.MkdirTemp("", "waybill-handler-test-*")
	if err != nil {
		panic(err)
	}
	database.InitDB(filepath.Join(dir, "test.db"))

	code := m.Run()
	os.RemoveAll(dir)
	os.Exit(code)
}

func newTestHandlers() (*AuthHandler, *WaybillHandler) {
	requestBuilder := builder.New(config.Cfg.CarrierProfile())
	waybillService := services.NewWaybillService(
		requestBuilder,
		render.NewLabelRenderer(),
		services.NewLocalAWBAllocator(),
		&services.MockEmailService{},
		cache.New(services.DefaultCacheExpiration, services.CacheCleanupInterval),
	)
	authHandler := NewAuthHandler(security.NewAuthService(config.Cfg.JWTSecret))
	return authHandler, NewWaybillHandler(waybillService, services.NewTemplateService(), requestBuilder)
}

func createRowJSON() string {
	return `{
		"CustomerName": "Acme Traders",
		"ConsigneeName": "R Kumar",
		"PickupDate": "2024-03-15",
		"DeclaredValue": "500",
		"PieceCount": "2",
		"CollectableAmount": "0",
		"ItemName": "Widgets",
		"ItemValue": "500",
		"Itemquantity": "2",
		"CreditReferenceNo": "REF-h1"
	}`
}

func TestHandleCreateWaybill(t *testing.T) {
	_, h := newTestHandlers()

	req := httptest.NewRequest(http.MethodPost, "/api/bluedart/waybill", strings.NewReader(createRowJSON()))
	rr := httptest.NewRecorder()
	h.HandleCreateWaybill(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201; body: %s", rr.Code, rr.Body.String())
	}

	var record models.WaybillRecord
	if err := json.Unmarshal(rr.Body.Bytes(), &record); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(record.AWBNo) != 11 {
		t.Errorf("AWBNo = %q, want 11 digits", record.AWBNo)
	}
	if record.CreditReferenceNo != "REF-h1" {
		t.Errorf("CreditReferenceNo = %q, want REF-h1", record.CreditReferenceNo)
	}
}

func TestHandleCreateWaybillBadInput(t *testing.T) {
	_, h := newTestHandlers()

	tests := []struct {
		name string
		body string
	}{
		{name: "not json", body: "not json at all"},
		{name: "missing pickup date", body: `{"DeclaredValue": "500"}`},
		{name: "bad declared value", body: strings.Replace(createRowJSON(), `"500"`, `"lots"`, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/bluedart/waybill", strings.NewReader(tt.body))
			rr := httptest.NewRecorder()
			h.HandleCreateWaybill(rr, req)
			if rr.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400; body: %s", rr.Code, rr.Body.String())
			}
		})
	}
}

func multipartCSV(t *testing.T, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	header.Set("Content-Type", "text/csv")
	part, err := writer.CreatePart(header)
	if err != nil {
		t.Fatalf("creating multipart part: %v", err)
	}
	if _, err := part.Write([]byte(content)); err != nil {
		t.Fatalf("writing multipart content: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("closing multipart writer: %v", err)
	}
	return &buf, writer.FormDataContentType()
}

func TestHandleBulkUpload(t *testing.T) {
	_, h := newTestHandlers()

	csvContent := "CustomerName,ConsigneeName,PickupDate,DeclaredValue,PieceCount,CollectableAmount,ItemName,ItemValue,Itemquantity,CreditReferenceNo\n" +
		"Acme,Kumar,2024-03-15,500,2,0,Widgets,500,2,REF-b1\n" +
		"Acme,Kumar,bad-date,500,2,0,Widgets,500,2,REF-b2\n"

	body, contentType := multipartCSV(t, "bulk.csv", csvContent)
	req := httptest.NewRequest(http.MethodPost, "/api/bluedart/waybill/bulk", body)
	req.Header.Set("Content-Type", contentType)
	rr := httptest.NewRecorder()
	h.HandleBulkUpload(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", rr.Code, rr.Body.String())
	}
	if got := rr.Header().Get("Content-Type"); got != "application/pdf" {
		t.Errorf("Content-Type = %q, want application/pdf", got)
	}
	if !bytes.HasPrefix(rr.Body.Bytes(), []byte("%PDF")) {
		t.Errorf("response body is not a PDF")
	}
	if rr.Header().Get("X-Batch-Id") == "" {
		t.Errorf("X-Batch-Id header missing")
	}
	if got := rr.Header().Get("X-Skipped-Rows"); got != "1" {
		t.Errorf("X-Skipped-Rows = %q, want 1", got)
	}
}

func TestHandleBulkUploadAllRowsBad(t *testing.T) {
	_, h := newTestHandlers()

	csvContent := "CustomerName,PickupDate\nAcme,not-a-date\n"
	body, contentType := multipartCSV(t, "bulk.csv", csvContent)
	req := httptest.NewRequest(http.MethodPost, "/api/bluedart/waybill/bulk", body)
	req.Header.Set("Content-Type", contentType)
	rr := httptest.NewRecorder()
	h.HandleBulkUpload(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400; body: %s", rr.Code, rr.Body.String())
	}

	var payload struct {
		BatchID   string              `json:"batchId"`
		RowErrors []services.RowError `json:"rowErrors"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if payload.BatchID == "" {
		t.Errorf("batchId missing from failure response")
	}
	if len(payload.RowErrors) != 1 || payload.RowErrors[0].Row != 2 {
		t.Errorf("rowErrors = %+v, want one entry for row 2", payload.RowErrors)
	}
}

func TestHandleBulkUploadUnsupportedExtension(t *testing.T) {
	_, h := newTestHandlers()

	body, contentType := multipartCSV(t, "bulk.xls", "CustomerName\nAcme\n")
	req := httptest.NewRequest(http.MethodPost, "/api/bluedart/waybill/bulk", body)
	req.Header.Set("Content-Type", contentType)
	rr := httptest.NewRecorder()
	h.HandleBulkUpload(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400; body: %s", rr.Code, rr.Body.String())
	}
}

func TestHandleDownloadLabelNotFound(t *testing.T) {
	_, h := newTestHandlers()

	req := httptest.NewRequest(http.MethodGet, "/api/bluedart/waybill/00000000000/pdf", nil)
	req.SetPathValue("awb", "00000000000")
	rr := httptest.NewRecorder()
	h.HandleDownloadLabel(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rr.Code)
	}
}

func TestHandleListWaybillsETag(t *testing.T) {
	_, h := newTestHandlers()

	first := httptest.NewRecorder()
	h.HandleListWaybills(first, httptest.NewRequest(http.MethodGet, "/api/bluedart/waybills", nil))
	if first.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", first.Code)
	}
	etag := first.Header().Get("ETag")
	if etag == "" {
		t.Fatalf("ETag header missing")
	}

	second := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/bluedart/waybills", nil)
	req.Header.Set("If-None-Match", etag)
	h.HandleListWaybills(second, req)
	if second.Code != http.StatusNotModified {
		t.Errorf("status with matching ETag = %d, want 304", second.Code)
	}
}

func TestHandleDownloadTemplate(t *testing.T) {
	_, h := newTestHandlers()

	rr := httptest.NewRecorder()
	h.HandleDownloadTemplate(rr, httptest.NewRequest(http.MethodGet, "/api/bluedart/waybill/bulk/template", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	if got := rr.Header().Get("Content-Disposition"); !strings.Contains(got, "Bulk_Waybill_Template.xlsx") {
		t.Errorf("Content-Disposition = %q, want the template filename", got)
	}
	// XLSX files are zip containers.
	if !bytes.HasPrefix(rr.Body.Bytes(), []byte("PK")) {
		t.Errorf("template body is not a zip container")
	}
}

func TestAuthMiddleware(t *testing.T) {
	authHandler, _ := newTestHandlers()

	protected := authHandler.AuthMiddleware(func(w http.ResponseWriter, r *http.Request) {
		client, ok := GetClientFromContext(r.Context())
		if !ok {
			t.Errorf("client missing from request context")
		}
		w.Write([]byte(client))
	})

	t.Run("missing header", func(t *testing.T) {
		rr := httptest.NewRecorder()
		protected(rr, httptest.NewRequest(http.MethodGet, "/api/bluedart/waybills", nil))
		if rr.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rr.Code)
		}
	})

	t.Run("garbage token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/bluedart/waybills", nil)
		req.Header.Set("Authorization", "Bearer not.a.token")
		rr := httptest.NewRecorder()
		protected(rr, req)
		if rr.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rr.Code)
		}
	})

	t.Run("valid token", func(t *testing.T) {
		tokenReq := httptest.NewRequest(http.MethodPost, "/api/auth/token",
			strings.NewReader(`{"apiKey": "valid-api-key", "client": "warehouse-app"}`))
		tokenRR := httptest.NewRecorder()
		authHandler.HandleIssueToken(tokenRR, tokenReq)
		if tokenRR.Code != http.StatusOK {
			t.Fatalf("token issue status = %d, want 200; body: %s", tokenRR.Code, tokenRR.Body.String())
		}
		var tokenResp map[string]string
		if err := json.Unmarshal(tokenRR.Body.Bytes(), &tokenResp); err != nil {
			t.Fatalf("decoding token response: %v", err)
		}

		req := httptest.NewRequest(http.MethodGet, "/api/bluedart/waybills", nil)
		req.Header.Set("Authorization", "Bearer "+tokenResp["accessToken"])
		rr := httptest.NewRecorder()
		protected(rr, req)
		if rr.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", rr.Code)
		}
		if rr.Body.String() != "warehouse-app" {
			t.Errorf("client = %q, want warehouse-app", rr.Body.String())
		}
	})
}

func TestHandleIssueTokenWrongKey(t *testing.T) {
	authHandler, _ := newTestHandlers()

	req := httptest.NewRequest(http.MethodPost, "/api/auth/token",
		strings.NewReader(`{"apiKey": "wrong-key"}`))
	rr := httptest.NewRecorder()
	authHandler.HandleIssueToken(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rr.Code)
	}
}
