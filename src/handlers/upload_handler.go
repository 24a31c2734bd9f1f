// backend/src/handlers/upload_handler.go
package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/alyal/vendalytics/backend/src/config"
	"github.com/alyal/vendalytics/backend/src/logger"
	"github.com/alyal/vendalytics/backend/src/models"
	"github.com/alyal/vendalytics/backend/src/security/validation"
	"github.com/alyal/vendalytics/backend/src/services"
	"github.com/alyal/vendalytics/backend/src/utils"
)

type UploadHandler struct {
	ingestion services.IngestionService
}

func NewUploadHandler(ingestion services.IngestionService) *UploadHandler {
	return &UploadHandler{ingestion: ingestion}
}

// uploadResponse is the ImportResult with row errors capped for presentation.
type uploadResponse struct {
	models.ImportResult
	OmittedErrors int `json:"omitted_errors,omitempty"`
}

func (h *UploadHandler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(config.Cfg.MaxUploadSizeBytes); err != nil {
		logger.L.Warn("Failed to parse multipart form or request too large", "error", err, "limit", config.Cfg.MaxUploadSizeBytes)
		utils.SendJSONError(w, fmt.Sprintf("Falha ao processar ou o ficheiro é demasiado grande (max %d MB)", config.Cfg.MaxUploadSizeBytes/(1024*1024)), http.StatusBadRequest)
		return
	}

	marketplaceID, err := strconv.ParseInt(r.FormValue("marketplace_id"), 10, 64)
	if err != nil || marketplaceID <= 0 {
		utils.SendJSONError(w, "Selecione um marketplace válido.", http.StatusBadRequest)
		return
	}
	var tenantID *int64
	if raw := r.FormValue("tenant_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			utils.SendJSONError(w, "Selecione uma empresa válida.", http.StatusBadRequest)
			return
		}
		tenantID = &id
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		utils.SendJSONError(w, "Envie um arquivo no campo 'file'.", http.StatusBadRequest)
		return
	}
	defer file.Close()

	if fileHeader.Size > config.Cfg.MaxUploadSizeBytes {
		utils.SendJSONError(w, fmt.Sprintf("Ficheiro demasiado grande, max %d MB", config.Cfg.MaxUploadSizeBytes/(1024*1024)), http.StatusBadRequest)
		return
	}

	if err := validation.ValidateClientContentType(fileHeader.Header.Get("Content-Type")); err != nil {
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if _, err := validation.ValidateFileContent(file); err != nil {
		logger.L.Warn("Server-side file content validation failed", "filename", fileHeader.Filename, "error", err)
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := h.ingestion.ProcessUpload(r.Context(), file, marketplaceID, tenantID, fileHeader.Filename, r.FormValue("adapter"))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUnknownMarketplace):
			utils.SendJSONError(w, "Marketplace não encontrado.", http.StatusNotFound)
		case errors.Is(err, services.ErrUnknownAdapter):
			utils.SendJSONError(w, "Adaptador de importação desconhecido.", http.StatusBadRequest)
		case errors.Is(err, services.ErrEmptyUpload), errors.Is(err, services.ErrParsingFailed):
			// Fatal file errors: nothing was imported and nothing will be.
			utils.SendJSONError(w, err.Error(), http.StatusUnprocessableEntity)
		default:
			logger.L.Error("Upload processing failed", "filename", fileHeader.Filename, "error", err)
			utils.SendJSONError(w, "Erro interno ao processar o ficheiro.", http.StatusInternalServerError)
		}
		return
	}

	resp := uploadResponse{ImportResult: *result}
	if max := config.Cfg.MaxReportedRowErrors; max > 0 && len(resp.RowErrors) > max {
		resp.OmittedErrors = len(resp.RowErrors) - max
		resp.RowErrors = resp.RowErrors[:max]
	}

	// Zero imported rows with row errors is a valid (if sad) outcome and is
	// deliberately not an HTTP error: the caller distinguishes it from a
	// fatal file problem by the response shape.
	status := http.StatusCreated
	if result.Imported == 0 {
		status = http.StatusOK
	}
	utils.SendJSONResponse(w, resp, status)
}
