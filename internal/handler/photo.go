package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"fieldreport-backend/internal/httputil"
	"fieldreport-backend/internal/model"
	"fieldreport-backend/internal/service"
)

// Multipart bodies get a little headroom over the file ceiling for the
// caption field and part boundaries.
const maxUploadBodyBytes = model.MaxPhotoSizeBytes + 1<<20

type PhotoHandler struct {
	photoService *service.PhotoService
}

func NewPhotoHandler(photoService *service.PhotoService) *PhotoHandler {
	return &PhotoHandler{photoService: photoService}
}

// Upload handles POST /reports/{reportID}/photos
// Accepts multipart/form-data with a required "file" part and an
// optional "caption" field.
func (h *PhotoHandler) Upload(w http.ResponseWriter, r *http.Request) {
	reportIDStr := chi.URLParam(r, "reportID")
	reportID, err := strconv.ParseInt(reportIDStr, 10, 64)
	if err != nil {
		httputil.WriteBadRequest(w, r, "Invalid report ID")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBodyBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		httputil.WriteValidationError(w, r, "A file is required")
		return
	}
	defer file.Close()

	var caption *string
	if c := strings.TrimSpace(r.FormValue("caption")); c != "" {
		caption = &c
	}

	photo, err := h.photoService.Upload(r.Context(), reportID, file, header, caption)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrReportNotFound):
			httputil.WriteNotFound(w, r, "Report not found")
		case errors.Is(err, model.ErrInvalidImageType):
			httputil.WriteValidationError(w, r, "Unsupported image type. Allowed: jpeg, jpg, png, webp")
		case errors.Is(err, model.ErrFileTooLarge):
			httputil.WriteValidationError(w, r, "File exceeds the 5MB limit")
		default:
			log.Printf("[ERROR] Upload photo handler: report=%d err=%v", reportID, err)
			httputil.WriteInternalError(w, r, model.CodeUploadFailed, "Failed to upload photo")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, model.PhotoResponse{
		ID:        photo.ID,
		URL:       photo.URL,
		Caption:   photo.Caption,
		CreatedAt: photo.CreatedAt,
	})
}

// Delete handles DELETE /photos/{id}
// Removes the stored row after a best-effort delete of the remote asset.
func (h *PhotoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	photoIDStr := chi.URLParam(r, "id")
	photoID, err := strconv.ParseInt(photoIDStr, 10, 64)
	if err != nil {
		httputil.WriteBadRequest(w, r, "Invalid photo ID")
		return
	}

	err = h.photoService.Delete(r.Context(), photoID)
	if err != nil {
		if errors.Is(err, model.ErrPhotoNotFound) {
			httputil.WriteNotFound(w, r, "Photo not found")
			return
		}
		log.Printf("[ERROR] Delete photo handler: photo=%d err=%v", photoID, err)
		httputil.WriteInternalError(w, r, model.CodeDeleteFailed, "Failed to delete photo")
		return
	}

	httputil.WriteNoContent(w)
}
