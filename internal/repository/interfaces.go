package repository

import (
	"context"

	"fieldreport-backend/internal/model"
)

type ReportRepository interface {
	Create(ctx context.Context, report *model.Report) error
	GetByID(ctx context.Context, id int64) (*model.Report, error)
	// Exists checks report presence without loading the row
	Exists(ctx context.Context, id int64) (bool, error)
}

type PhotoRepository interface {
	Create(ctx context.Context, photo *model.Photo) error
	GetByID(ctx context.Context, id int64) (*model.Photo, error)
	GetByReportID(ctx context.Context, reportID int64) ([]model.Photo, error)
	Delete(ctx context.Context, id int64) error
}
