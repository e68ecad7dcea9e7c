package service

import (
	"context"
	"fmt"
	"strings"

	"fieldreport-backend/internal/model"
	"fieldreport-backend/internal/repository"
)

type ReportService struct {
	reportRepo repository.ReportRepository
	photoRepo  repository.PhotoRepository
}

func NewReportService(reportRepo repository.ReportRepository, photoRepo repository.PhotoRepository) *ReportService {
	return &ReportService{
		reportRepo: reportRepo,
		photoRepo:  photoRepo,
	}
}

func (s *ReportService) Create(ctx context.Context, req model.CreateReportRequest) (*model.Report, error) {
	category := strings.TrimSpace(req.Category)
	if category == "" {
		return nil, model.ErrCategoryMissing
	}
	if len(category) > model.MaxReportCategoryLength {
		return nil, model.ErrCategoryTooLong
	}

	report := &model.Report{
		Category: category,
		Note:     strings.TrimSpace(req.Note),
	}
	if err := s.reportRepo.Create(ctx, report); err != nil {
		return nil, fmt.Errorf("create report: %w", err)
	}
	return report, nil
}

// GetByID returns a report with its photos attached.
func (s *ReportService) GetByID(ctx context.Context, id int64) (*model.Report, error) {
	report, err := s.reportRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	photos, err := s.photoRepo.GetByReportID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load report photos: %w", err)
	}
	report.Photos = photos

	return report, nil
}

func (s *ReportService) ListPhotos(ctx context.Context, reportID int64) ([]model.Photo, error) {
	exists, err := s.reportRepo.Exists(ctx, reportID)
	if err != nil {
		return nil, fmt.Errorf("check report: %w", err)
	}
	if !exists {
		return nil, model.ErrReportNotFound
	}

	return s.photoRepo.GetByReportID(ctx, reportID)
}
