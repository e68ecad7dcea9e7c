package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"fieldreport-backend/internal/httputil"
	"fieldreport-backend/internal/model"
	"fieldreport-backend/internal/service"
)

type ReportHandler struct {
	reportService *service.ReportService
}

func NewReportHandler(reportService *service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// Create handles POST /reports
func (h *ReportHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, r, "Invalid request body")
		return
	}

	report, err := h.reportService.Create(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrCategoryMissing):
			httputil.WriteValidationError(w, r, "Category is required")
		case errors.Is(err, model.ErrCategoryTooLong):
			httputil.WriteValidationError(w, r, "Category too long (max 100 characters)")
		default:
			log.Printf("[ERROR] Create report handler: err=%v", err)
			httputil.WriteInternalError(w, r, httputil.ErrCodeInternal, "Failed to create report")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, report)
}

// Get handles GET /reports/{id}
// Returns the report with its photos.
func (h *ReportHandler) Get(w http.ResponseWriter, r *http.Request) {
	reportID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.WriteBadRequest(w, r, "Invalid report ID")
		return
	}

	report, err := h.reportService.GetByID(r.Context(), reportID)
	if err != nil {
		if errors.Is(err, model.ErrReportNotFound) {
			httputil.WriteNotFound(w, r, "Report not found")
			return
		}
		log.Printf("[ERROR] Get report handler: report=%d err=%v", reportID, err)
		httputil.WriteInternalError(w, r, httputil.ErrCodeInternal, "Failed to get report")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, report)
}

// ListPhotos handles GET /reports/{reportID}/photos
func (h *ReportHandler) ListPhotos(w http.ResponseWriter, r *http.Request) {
	reportID, err := strconv.ParseInt(chi.URLParam(r, "reportID"), 10, 64)
	if err != nil {
		httputil.WriteBadRequest(w, r, "Invalid report ID")
		return
	}

	photos, err := h.reportService.ListPhotos(r.Context(), reportID)
	if err != nil {
		if errors.Is(err, model.ErrReportNotFound) {
			httputil.WriteNotFound(w, r, "Report not found")
			return
		}
		log.Printf("[ERROR] List photos handler: report=%d err=%v", reportID, err)
		httputil.WriteInternalError(w, r, httputil.ErrCodeInternal, "Failed to list photos")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{"photos": photos})
}
