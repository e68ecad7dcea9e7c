package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/disintegration/imaging"

	"fieldreport-backend/internal/imagestore"
	"fieldreport-backend/internal/model"
	"fieldreport-backend/internal/repository"
)

const (
	maxStoredDimension = 2048
	jpegQuality        = 82
	photoCacheControl  = "public, max-age=31536000" // 1 year
)

// ImageStore is the remote asset store the photo service uploads to.
type ImageStore interface {
	Upload(ctx context.Context, data []byte, folder string, opts imagestore.UploadOptions) (*imagestore.UploadResult, error)
	Delete(ctx context.Context, publicID string) error
}

type PhotoService struct {
	reportRepo repository.ReportRepository
	photoRepo  repository.PhotoRepository
	store      ImageStore
}

func NewPhotoService(reportRepo repository.ReportRepository, photoRepo repository.PhotoRepository, store ImageStore) *PhotoService {
	return &PhotoService{
		reportRepo: reportRepo,
		photoRepo:  photoRepo,
		store:      store,
	}
}

// Upload validates the file, pushes it to the remote store under a
// folder keyed by the report, and persists the resulting row.
// Validation short-circuits before any remote or insert call is made.
func (s *PhotoService) Upload(ctx context.Context, reportID int64, file multipart.File, header *multipart.FileHeader, caption *string) (*model.Photo, error) {
	exists, err := s.reportRepo.Exists(ctx, reportID)
	if err != nil {
		return nil, fmt.Errorf("check report: %w", err)
	}
	if !exists {
		return nil, model.ErrReportNotFound
	}

	data, contentType, err := readAndValidateImage(file, header, model.MaxPhotoSizeBytes)
	if err != nil {
		return nil, err
	}

	data, contentType, err = normalizeForStorage(data, contentType)
	if err != nil {
		return nil, err
	}

	folder := fmt.Sprintf("%s/%d", model.PhotoFolderPrefix, reportID)
	res, err := s.store.Upload(ctx, data, folder, imagestore.UploadOptions{
		ContentType:  contentType,
		CacheControl: photoCacheControl,
	})
	if err != nil {
		return nil, fmt.Errorf("upload to store: %w", err)
	}

	photo := &model.Photo{
		ReportID: reportID,
		URL:      res.SecureURL,
		Caption:  caption,
	}
	if err := s.photoRepo.Create(ctx, photo); err != nil {
		return nil, fmt.Errorf("persist photo: %w", err)
	}

	return photo, nil
}

// Delete removes the photo row, deleting the remote asset first on a
// best-effort basis. Remote failures are logged and swallowed so a
// dangling asset never blocks the row delete.
func (s *PhotoService) Delete(ctx context.Context, photoID int64) error {
	photo, err := s.photoRepo.GetByID(ctx, photoID)
	if err != nil {
		return err
	}

	if publicID, ok := imagestore.ExtractPublicID(photo.URL); ok {
		if err := s.store.Delete(ctx, publicID); err != nil {
			log.Printf("[WARN] Remote delete failed: photo=%d public_id=%s err=%v", photo.ID, publicID, err)
		}
	} else {
		log.Printf("[WARN] Photo URL does not encode a store id, skipping remote delete: photo=%d url=%s", photo.ID, photo.URL)
	}

	return s.photoRepo.Delete(ctx, photoID)
}

// readAndValidateImage loads the upload into memory with type and size checks.
func readAndValidateImage(file multipart.File, header *multipart.FileHeader, maxSize int64) ([]byte, string, error) {
	contentType := header.Header.Get("Content-Type")
	if idx := strings.Index(contentType, ";"); idx != -1 {
		contentType = contentType[:idx]
	}
	contentType = strings.TrimSpace(contentType)
	if contentType != "" && !model.IsAllowedImageType(contentType) {
		return nil, "", model.ErrInvalidImageType
	}

	if header.Size > maxSize {
		return nil, "", model.ErrFileTooLarge
	}

	limitedReader := io.LimitReader(file, maxSize+1)
	data, err := io.ReadAll(limitedReader)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read upload: %w", err)
	}
	if int64(len(data)) > maxSize {
		return nil, "", model.ErrFileTooLarge
	}

	if contentType == "" && len(data) > 0 {
		contentType = http.DetectContentType(data[:min(len(data), 512)])
		if !model.IsAllowedImageType(contentType) {
			return nil, "", model.ErrInvalidImageType
		}
	}

	return data, contentType, nil
}

// normalizeForStorage bounds the image to maxStoredDimension and
// re-encodes it as JPEG. WebP has no encoder in the stack and is
// stored as received.
func normalizeForStorage(data []byte, contentType string) ([]byte, string, error) {
	if contentType == model.ContentTypeWebP {
		return data, contentType, nil
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() > maxStoredDimension || bounds.Dy() > maxStoredDimension {
		img = imaging.Fit(img, maxStoredDimension, maxStoredDimension, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(jpegQuality)); err != nil {
		return nil, "", fmt.Errorf("failed to encode jpeg: %w", err)
	}

	return buf.Bytes(), model.ContentTypeJPEG, nil
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
