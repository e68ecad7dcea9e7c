package http

import (
	"context"
	"fmt"
	"log"
	stdhttp "net/http"

	"fieldreport-backend/internal/config"
	"fieldreport-backend/internal/database"
	"fieldreport-backend/internal/handler"
	"fieldreport-backend/internal/imagestore"
	"fieldreport-backend/internal/repository"
	"fieldreport-backend/internal/service"
)

func Run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := database.Migrate(cfg); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	store, err := imagestore.NewClient(context.Background(), cfg)
	if err != nil {
		return fmt.Errorf("failed to create image store client: %w", err)
	}

	reportRepo := repository.NewReportRepository(db)
	photoRepo := repository.NewPhotoRepository(db)

	reportService := service.NewReportService(reportRepo, photoRepo)
	photoService := service.NewPhotoService(reportRepo, photoRepo, store)

	router := NewRouter(RouterConfig{
		ReportHandler: handler.NewReportHandler(reportService),
		PhotoHandler:  handler.NewPhotoHandler(photoService),
	})

	addr := ":" + cfg.ServerPort
	log.Printf("Starting server on %s", addr)
	return stdhttp.ListenAndServe(addr, router)
}
