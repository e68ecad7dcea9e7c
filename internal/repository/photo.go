package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"fieldreport-backend/internal/model"
)

type photoRepository struct {
	db *sqlx.DB
}

func NewPhotoRepository(db *sqlx.DB) PhotoRepository {
	return &photoRepository{db: db}
}

func (r *photoRepository) Create(ctx context.Context, photo *model.Photo) error {
	query := `
		INSERT INTO photos (report_id, url, caption)
		VALUES ($1, $2, $3)
		RETURNING id, report_id, url, caption, created_at
	`
	err := r.db.GetContext(ctx, photo, query, photo.ReportID, photo.URL, photo.Caption)
	if err != nil {
		return fmt.Errorf("insert photo: %w", err)
	}
	return nil
}

func (r *photoRepository) GetByID(ctx context.Context, id int64) (*model.Photo, error) {
	query := `SELECT id, report_id, url, caption, created_at FROM photos WHERE id = $1`
	var photo model.Photo
	err := r.db.GetContext(ctx, &photo, query, id)
	if err == sql.ErrNoRows {
		return nil, model.ErrPhotoNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get photo: %w", err)
	}
	return &photo, nil
}

func (r *photoRepository) GetByReportID(ctx context.Context, reportID int64) ([]model.Photo, error) {
	query := `
		SELECT id, report_id, url, caption, created_at
		FROM photos
		WHERE report_id = $1
		ORDER BY created_at, id
	`
	photos := []model.Photo{}
	err := r.db.SelectContext(ctx, &photos, query, reportID)
	if err != nil {
		return nil, fmt.Errorf("get photos by report: %w", err)
	}
	return photos, nil
}

func (r *photoRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM photos WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete photo: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return model.ErrPhotoNotFound
	}
	return nil
}
