// backend/src/handlers/waybill_handler.go
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/username/shipflow/backend/src/builder"
	"github.com/username/shipflow/backend/src/config"
	"github.com/username/shipflow/backend/src/logger"
	"github.com/username/shipflow/backend/src/models"
	"github.com/username/shipflow/backend/src/render"
	"github.com/username/shipflow/backend/src/security/validation"
	"github.com/username/shipflow/backend/src/services"
	"github.com/username/shipflow/backend/src/utils"
)

type WaybillHandler struct {
	waybillService  services.WaybillService
	templateService services.TemplateService
	requestBuilder  *builder.Builder
}

func NewWaybillHandler(waybillService services.WaybillService, templateService services.TemplateService, requestBuilder *builder.Builder) *WaybillHandler {
	return &WaybillHandler{
		waybillService:  waybillService,
		templateService: templateService,
		requestBuilder:  requestBuilder,
	}
}

// HandleCreateWaybill accepts a flat column-name/value JSON object (the same
// columns the bulk sources carry) and creates a single extended-shape
// waybill.
func (h *WaybillHandler) HandleCreateWaybill(w http.ResponseWriter, r *http.Request) {
	var row models.RawRow
	if err := json.NewDecoder(r.Body).Decode(&row); err != nil {
		utils.SendJSONError(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}

	req, err := h.requestBuilder.BuildExtended(row)
	if err != nil {
		if errors.Is(err, builder.ErrMissingMandatoryField) || errors.Is(err, builder.ErrInvalidField) {
			utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
			return
		}
		logger.L.Error("Internal error building waybill request", "error", err)
		utils.SendJSONError(w, "An internal error occurred while building the waybill request.", http.StatusInternalServerError)
		return
	}

	record, err := h.waybillService.CreateWaybill(req)
	if err != nil {
		logger.L.Error("Internal error creating waybill", "error", err)
		utils.SendJSONError(w, "An internal error occurred while creating the waybill.", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(record); err != nil {
		logger.L.Error("Error encoding JSON response for created waybill", "awbNo", record.AWBNo, "error", err)
	}
}

// HandleBulkUpload ingests an uploaded CSV or XLSX file and responds with the
// combined label document for every created waybill.
func (h *WaybillHandler) HandleBulkUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(config.Cfg.MaxUploadSizeBytes); err != nil {
		logger.L.Warn("Failed to parse multipart form or request too large", "error", err, "limit", config.Cfg.MaxUploadSizeBytes)
		utils.SendJSONError(w, fmt.Sprintf("Failed to parse form or request too large (max %d MB)", config.Cfg.MaxUploadSizeBytes/(1024*1024)), http.StatusBadRequest)
		return
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		logger.L.Warn("Failed to retrieve file from request", "error", err)
		utils.SendJSONError(w, "Failed to retrieve file from request. Ensure 'file' field is used.", http.StatusBadRequest)
		return
	}
	defer file.Close()

	if fileHeader.Size > config.Cfg.MaxUploadSizeBytes {
		logger.L.Warn("Uploaded file header reports size too large", "fileSize", fileHeader.Size, "limit", config.Cfg.MaxUploadSizeBytes)
		utils.SendJSONError(w, fmt.Sprintf("File too large, max %d MB (header check)", config.Cfg.MaxUploadSizeBytes/(1024*1024)), http.StatusBadRequest)
		return
	}

	clientContentType := fileHeader.Header.Get("Content-Type")
	if err := validation.ValidateClientContentType(clientContentType); err != nil {
		logger.L.Warn("Invalid client-declared file type", "contentType", clientContentType, "error", err)
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	detectedContentType, err := validation.ValidateFileContentByMagicBytes(file)
	if err != nil {
		logger.L.Warn("Server-side file content validation failed", "filename", fileHeader.Filename, "error", err)
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	logger.L.Info("File content validated by magic bytes", "filename", fileHeader.Filename, "clientType", clientContentType, "detectedType", detectedContentType)

	shape := models.ShapeExtended
	if s := r.FormValue("shape"); s != "" {
		switch models.RequestShape(s) {
		case models.ShapeSimple, models.ShapeExtended:
			shape = models.RequestShape(s)
		default:
			utils.SendJSONError(w, fmt.Sprintf("Unknown request shape %q", s), http.StatusBadRequest)
			return
		}
	}

	result, err := h.waybillService.IngestBulk(file, fileHeader.Filename, shape)
	if err != nil {
		if errors.Is(err, services.ErrParsingFailed) {
			logger.L.Warn("Bulk upload failed during parsing", "filename", fileHeader.Filename, "error", err)
			utils.SendJSONError(w, fmt.Sprintf("Error parsing uploaded file: %v", err), http.StatusBadRequest)
		} else {
			logger.L.Error("Internal error processing bulk upload", "filename", fileHeader.Filename, "error", err)
			utils.SendJSONError(w, "An internal error occurred while processing the file. Please try again later.", http.StatusInternalServerError)
		}
		return
	}

	if len(result.Records) == 0 {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]any{
			"error":     "No waybills could be created from the uploaded file",
			"batchId":   result.BatchID,
			"rowErrors": result.RowErrors,
		})
		return
	}

	pdf, err := h.waybillService.RenderLabels(result.Records, labelSize(r))
	if err != nil {
		logger.L.Error("Error rendering bulk label document", "batchId", result.BatchID, "error", err)
		utils.SendJSONError(w, "An internal error occurred while rendering labels.", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Disposition", "attachment; filename=bulk-waybills.pdf")
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("X-Batch-Id", result.BatchID)
	w.Header().Set("X-Skipped-Rows", strconv.Itoa(len(result.RowErrors)))
	w.Write(pdf)
}

// HandleListWaybills returns all stored waybill records, with ETag support.
func (h *WaybillHandler) HandleListWaybills(w http.ResponseWriter, r *http.Request) {
	records, err := h.waybillService.ListWaybills()
	if err != nil {
		logger.L.Error("Error retrieving waybill list", "error", err)
		utils.SendJSONError(w, "An internal error occurred while listing waybills.", http.StatusInternalServerError)
		return
	}
	if records == nil {
		records = []*models.WaybillRecord{}
	}

	w.Header().Set("Cache-Control", "no-cache, private")

	currentETag, etagErr := utils.GenerateETag(records)
	if etagErr == nil && currentETag != "" {
		quotedETag := fmt.Sprintf("%q", currentETag)
		w.Header().Set("ETag", quotedETag)
		for _, clientETag := range strings.Split(r.Header.Get("If-None-Match"), ",") {
			if strings.TrimSpace(clientETag) == quotedETag {
				w.WriteHeader(http.StatusNotModified)
				return
			}
		}
	} else {
		logger.L.Warn("Proceeding without ETag check due to ETag generation error", "error", etagErr)
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(records); err != nil {
		logger.L.Error("Error encoding JSON response for waybill list", "error", err)
	}
}

// HandleDownloadLabel streams the 4-up label PDF for one AWB number.
func (h *WaybillHandler) HandleDownloadLabel(w http.ResponseWriter, r *http.Request) {
	awbNo := r.PathValue("awb")

	pdf, err := h.waybillService.RenderLabel(awbNo, labelSize(r))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrRecordNotFound):
			utils.SendJSONError(w, fmt.Sprintf("Waybill %s not found", awbNo), http.StatusNotFound)
		case errors.Is(err, render.ErrBarcodeEncoding), errors.Is(err, render.ErrNoStoredRequest):
			logger.L.Error("Label render failed", "awbNo", awbNo, "error", err)
			utils.SendJSONError(w, fmt.Sprintf("Unable to render label for waybill %s", awbNo), http.StatusUnprocessableEntity)
		default:
			logger.L.Error("Internal error rendering label", "awbNo", awbNo, "error", err)
			utils.SendJSONError(w, "An internal error occurred while rendering the label.", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=waybill-%s.pdf", awbNo))
	w.Header().Set("Content-Type", "application/pdf")
	w.Write(pdf)
}

// HandleDownloadTemplate streams the bulk-upload spreadsheet template.
func (h *WaybillHandler) HandleDownloadTemplate(w http.ResponseWriter, r *http.Request) {
	file, err := h.templateService.GenerateTemplate()
	if err != nil {
		logger.L.Error("Error generating bulk template", "error", err)
		utils.SendJSONError(w, "An internal error occurred while generating the template.", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Disposition", "attachment; filename=Bulk_Waybill_Template.xlsx")
	w.Header().Set("Content-Type", "application/octet-stream")
	w.Write(file)
}

func labelSize(r *http.Request) string {
	size := r.URL.Query().Get("size")
	if size == "" {
		size = config.Cfg.DefaultLabelSize
	}
	return size
}
