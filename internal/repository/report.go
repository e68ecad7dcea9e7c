package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"fieldreport-backend/internal/model"
)

type reportRepository struct {
	db *sqlx.DB
}

func NewReportRepository(db *sqlx.DB) ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) Create(ctx context.Context, report *model.Report) error {
	query := `
		INSERT INTO reports (category, note)
		VALUES ($1, $2)
		RETURNING id, category, note, created_at
	`
	err := r.db.GetContext(ctx, report, query, report.Category, report.Note)
	if err != nil {
		return fmt.Errorf("insert report: %w", err)
	}
	return nil
}

func (r *reportRepository) GetByID(ctx context.Context, id int64) (*model.Report, error) {
	query := `SELECT id, category, note, created_at FROM reports WHERE id = $1`
	var report model.Report
	err := r.db.GetContext(ctx, &report, query, id)
	if err == sql.ErrNoRows {
		return nil, model.ErrReportNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get report: %w", err)
	}
	return &report, nil
}

func (r *reportRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM reports WHERE id = $1)`, id)
	if err != nil {
		return false, fmt.Errorf("check report exists: %w", err)
	}
	return exists, nil
}
