package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"fieldreport-backend/internal/handler"
	"fieldreport-backend/internal/httputil"
)

// RouterConfig holds the dependencies needed to create routes
type RouterConfig struct {
	ReportHandler *handler.ReportHandler
	PhotoHandler  *handler.PhotoHandler
}

// NewRouter creates and configures a new Chi router with all route groups
func NewRouter(cfg RouterConfig) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoint (useful for deployment/monitoring)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteJSON(w, 200, map[string]string{"status": "ok"})
	})

	r.Route("/reports", func(r chi.Router) {
		r.Post("/", cfg.ReportHandler.Create)
		r.Get("/{id}", cfg.ReportHandler.Get)
		r.Get("/{reportID}/photos", cfg.ReportHandler.ListPhotos)
		r.Post("/{reportID}/photos", cfg.PhotoHandler.Upload)
	})

	r.Delete("/photos/{id}", cfg.PhotoHandler.Delete)

	return r
}
