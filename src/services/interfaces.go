package services

import (
	"errors"
	"io"

	"github.com/username/shipflow/backend/src/models"
)

var (
	// ErrParsingFailed wraps format- and header-level failures; these abort
	// the whole ingestion call.
	ErrParsingFailed = errors.New("parsing the uploaded file failed")

	// ErrRecordNotFound is returned when a lookup or render is requested for
	// an unknown AWB number.
	ErrRecordNotFound = errors.New("waybill record not found")
)

// RowError is one rejected input row. Row numbers are 1-based positions in
// the source file, counting the header as row 1.
type RowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// BulkResult is the outcome of one bulk ingestion: the persisted records plus
// the rows that were skipped. Row-level failures never abort the batch.
type BulkResult struct {
	BatchID   string                  `json:"batchId"`
	Records   []*models.WaybillRecord `json:"records"`
	RowErrors []RowError              `json:"rowErrors,omitempty"`
}

// WaybillService is the orchestration surface: normalize input into canonical
// requests, persist the resulting records, and serve label documents.
type WaybillService interface {
	CreateWaybill(req *models.WaybillRequest) (*models.WaybillRecord, error)
	IngestBulk(file io.Reader, filename string, shape models.RequestShape) (*BulkResult, error)
	GetWaybill(awbNo string) (*models.WaybillRecord, error)
	ListWaybills() ([]*models.WaybillRecord, error)
	RenderLabel(awbNo, size string) ([]byte, error)
	RenderLabels(records []*models.WaybillRecord, size string) ([]byte, error)
}

// TemplateService produces the spreadsheet template offered to bulk-upload
// users.
type TemplateService interface {
	GenerateTemplate() ([]byte, error)
}

// EmailService sends operational notifications. Providers are selected by
// configuration; the mock provider only logs.
type EmailService interface {
	SendWaybillCreated(toEmail, awbNo, reference string) error
	SendBulkSummary(toEmail, batchID string, created, failed int) error
}

// AWBAllocator hands out carrier shipment identifiers. The real allocation
// happens during carrier submission, which is an external collaborator; the
// local allocator stands in for deployments without a live carrier link.
type AWBAllocator interface {
	Next() (string, error)
}
