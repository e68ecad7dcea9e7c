package model

import (
	"errors"
	"time"
)

// Report is a parent record that owns zero or more photos.
type Report struct {
	ID        int64     `db:"id" json:"id"`
	Category  string    `db:"category" json:"category"`
	Note      string    `db:"note" json:"note"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`

	// Joined field (not in reports table)
	Photos []Photo `json:"photos,omitempty"`
}

// CreateReportRequest is the request body for creating a report.
type CreateReportRequest struct {
	Category string `json:"category"`
	Note     string `json:"note"`
}

const MaxReportCategoryLength = 100

var (
	ErrReportNotFound  = errors.New("report not found")
	ErrCategoryMissing = errors.New("category is required")
	ErrCategoryTooLong = errors.New("category too long")
)
