package model

import (
	"errors"
	"time"
)

// Photo references an asset hosted on the remote image store.
// URL is the public https location; the store's identifier is recovered
// from it when the asset has to be deleted.
type Photo struct {
	ID        int64     `db:"id" json:"id"`
	ReportID  int64     `db:"report_id" json:"-"`
	URL       string    `db:"url" json:"url"`
	Caption   *string   `db:"caption" json:"caption,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// PhotoResponse is the upload response body.
type PhotoResponse struct {
	ID        int64     `json:"id"`
	URL       string    `json:"url"`
	Caption   *string   `json:"caption,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

const (
	MaxPhotoSizeBytes = 5 * 1024 * 1024 // 5MiB ceiling per upload
	PhotoFolderPrefix = "reports"
)

// Supported image content types for upload validation
const (
	ContentTypeJPEG = "image/jpeg"
	ContentTypeJPG  = "image/jpg"
	ContentTypePNG  = "image/png"
	ContentTypeWebP = "image/webp"
)

var allowedImageTypes = map[string]struct{}{
	ContentTypeJPEG: {},
	ContentTypeJPG:  {},
	ContentTypePNG:  {},
	ContentTypeWebP: {},
}

// Error codes for HTTP responses
const (
	CodeValidationError = "VALIDATION_ERROR"
	CodeUploadFailed    = "UPLOAD_FAILED"
	CodeDeleteFailed    = "DELETE_FAILED"
)

// Domain errors for photo operations
var (
	ErrPhotoNotFound    = errors.New("photo not found")
	ErrFileMissing      = errors.New("file is required")
	ErrFileTooLarge     = errors.New("file exceeds 5MB limit")
	ErrInvalidImageType = errors.New("unsupported image type")
)

// IsAllowedImageType reports if the provided content type is supported
func IsAllowedImageType(contentType string) bool {
	_, ok := allowedImageTypes[contentType]
	return ok
}
