package rest

import (
	"database/sql"
	"log/slog"

	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"

	"github.com/akwasiboateng/campus-market/internal/recon"
	"github.com/akwasiboateng/campus-market/internal/transport/middleware"
)

// RegisterAllRoutes mounts the health endpoints publicly and the sync/report
// endpoints behind the admin token guard.
func RegisterAllRoutes(router *chi.Mux, db *sql.DB, reconHandler *recon.Handler, adminSecret string, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		if reconHandler != nil {
			r.Route("/admin", func(ar chi.Router) {
				ar.Use(middleware.AdminAuth(adminSecret, logger))

				ar.Post("/sync", reconHandler.TriggerSync)
				ar.Get("/balance", reconHandler.GetBalance)
				ar.Get("/settlements", reconHandler.GetSettlements)
			})
		}
	})
}
