// backend/src/services/waybill_service.go
package services

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/username/shipflow/backend/src/builder"
	"github.com/username/shipflow/backend/src/config"
	"github.com/username/shipflow/backend/src/database"
	"github.com/username/shipflow/backend/src/logger"
	"github.com/username/shipflow/backend/src/models"
	"github.com/username/shipflow/backend/src/parsers"
	"github.com/username/shipflow/backend/src/render"
)

const (
	ckWaybillList = "agg_waybill_list"
	ckLabelPDF    = "res_label_pdf_%s_%s"

	DefaultCacheExpiration = 15 * time.Minute
	CacheCleanupInterval   = 30 * time.Minute

	createdAtLayout = "2006-01-02T15:04:05"
)

type waybillServiceImpl struct {
	requestBuilder *builder.Builder
	renderer       *render.LabelRenderer
	allocator      AWBAllocator
	emailService   EmailService
	resultCache    *cache.Cache
}

func NewWaybillService(
	requestBuilder *builder.Builder,
	renderer *render.LabelRenderer,
	allocator AWBAllocator,
	emailService EmailService,
	resultCache *cache.Cache,
) WaybillService {
	return &waybillServiceImpl{
		requestBuilder: requestBuilder,
		renderer:       renderer,
		allocator:      allocator,
		emailService:   emailService,
		resultCache:    resultCache,
	}
}

func (s *waybillServiceImpl) CreateWaybill(req *models.WaybillRequest) (*models.WaybillRecord, error) {
	record, err := s.persist(req)
	if err != nil {
		return nil, err
	}

	if config.Cfg != nil && config.Cfg.NotifyEmail != "" {
		if err := s.emailService.SendWaybillCreated(config.Cfg.NotifyEmail, record.AWBNo, record.CreditReferenceNo); err != nil {
			logger.L.Warn("Waybill created notification failed", "awbNo", record.AWBNo, "error", err)
		}
	}
	return record, nil
}

func (s *waybillServiceImpl) IngestBulk(file io.Reader, filename string, shape models.RequestShape) (*BulkResult, error) {
	overallStartTime := time.Now()
	batchID := uuid.NewString()
	logger.L.Info("IngestBulk START", "batchId", batchID, "filename", filename, "shape", shape)

	reader, err := parsers.GetReader(filename)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParsingFailed, err)
	}

	rows, err := reader.Read(file)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParsingFailed, err)
	}

	result := &BulkResult{BatchID: batchID}
	for i, row := range rows {
		// Row 1 is the header, so data rows start at 2.
		rowNo := i + 2

		req, err := s.requestBuilder.Build(row, shape)
		if err != nil {
			logger.L.Warn("Skipping row", "batchId", batchID, "row", rowNo, "error", err)
			result.RowErrors = append(result.RowErrors, RowError{Row: rowNo, Message: err.Error()})
			continue
		}

		record, err := s.persist(req)
		if err != nil {
			return nil, fmt.Errorf("error persisting waybill for row %d: %w", rowNo, err)
		}
		result.Records = append(result.Records, record)
	}

	if config.Cfg != nil && config.Cfg.NotifyEmail != "" {
		if err := s.emailService.SendBulkSummary(config.Cfg.NotifyEmail, batchID, len(result.Records), len(result.RowErrors)); err != nil {
			logger.L.Warn("Bulk summary notification failed", "batchId", batchID, "error", err)
		}
	}

	logger.L.Info("IngestBulk END", "batchId", batchID,
		"created", len(result.Records), "skipped", len(result.RowErrors),
		"duration", time.Since(overallStartTime))
	return result, nil
}

// persist allocates an AWB number and stores the record. The stored request
// JSON is the exact carrier payload, shape envelope included.
func (s *waybillServiceImpl) persist(req *models.WaybillRequest) (*models.WaybillRecord, error) {
	if req == nil {
		return nil, fmt.Errorf("nil waybill request")
	}

	awbNo, err := s.allocator.Next()
	if err != nil {
		return nil, err
	}

	requestJSON, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("error encoding waybill request: %w", err)
	}

	record := &models.WaybillRecord{
		AWBNo:             awbNo,
		CreditReferenceNo: req.CreditReferenceNo(),
		CreatedAt:         time.Now().Format(createdAtLayout),
		Request:           req,
	}

	res, err := database.DB.Exec(
		`INSERT INTO waybills (awb_no, credit_reference_no, shape, request_json, created_at) VALUES (?, ?, ?, ?, ?)`,
		record.AWBNo, record.CreditReferenceNo, string(req.Shape), string(requestJSON), record.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("error inserting waybill (AWB: %s): %w", awbNo, err)
	}
	if id, err := res.LastInsertId(); err == nil {
		record.ID = id
	}

	s.resultCache.Delete(ckWaybillList)
	return record, nil
}

func (s *waybillServiceImpl) GetWaybill(awbNo string) (*models.WaybillRecord, error) {
	row := database.DB.QueryRow(
		`SELECT id, awb_no, credit_reference_no, request_json, created_at FROM waybills WHERE awb_no = ?`, awbNo)
	record, err := scanWaybill(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", ErrRecordNotFound, awbNo)
	}
	if err != nil {
		return nil, fmt.Errorf("error reading waybill %s: %w", awbNo, err)
	}
	return record, nil
}

func (s *waybillServiceImpl) ListWaybills() ([]*models.WaybillRecord, error) {
	if cached, found := s.resultCache.Get(ckWaybillList); found {
		if records, ok := cached.([]*models.WaybillRecord); ok {
			return records, nil
		}
	}

	rows, err := database.DB.Query(
		`SELECT id, awb_no, credit_reference_no, request_json, created_at FROM waybills ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("error listing waybills: %w", err)
	}
	defer rows.Close()

	var records []*models.WaybillRecord
	for rows.Next() {
		record, err := scanWaybill(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning waybill row: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating waybill rows: %w", err)
	}

	s.resultCache.Set(ckWaybillList, records, DefaultCacheExpiration)
	return records, nil
}

func (s *waybillServiceImpl) RenderLabel(awbNo, size string) ([]byte, error) {
	cacheKey := fmt.Sprintf(ckLabelPDF, awbNo, size)
	if cached, found := s.resultCache.Get(cacheKey); found {
		if pdf, ok := cached.([]byte); ok {
			return pdf, nil
		}
	}

	record, err := s.GetWaybill(awbNo)
	if err != nil {
		return nil, err
	}

	pdf, err := s.renderer.Render(record, size)
	if err != nil {
		return nil, err
	}

	s.resultCache.Set(cacheKey, pdf, DefaultCacheExpiration)
	return pdf, nil
}

func (s *waybillServiceImpl) RenderLabels(records []*models.WaybillRecord, size string) ([]byte, error) {
	return s.renderer.RenderBulk(records, size)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanWaybill(row rowScanner) (*models.WaybillRecord, error) {
	var record models.WaybillRecord
	var requestJSON string
	if err := row.Scan(&record.ID, &record.AWBNo, &record.CreditReferenceNo, &requestJSON, &record.CreatedAt); err != nil {
		return nil, err
	}

	var req models.WaybillRequest
	if err := json.Unmarshal([]byte(requestJSON), &req); err != nil {
		return nil, fmt.Errorf("corrupt stored request for AWB %s: %w", record.AWBNo, err)
	}
	record.Request = &req
	return &record, nil
}
