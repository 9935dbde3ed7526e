package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"retailsync/internal/metrics"
	"retailsync/internal/mw"
	"retailsync/internal/service"
)

func NewRouter(eventSvc *service.EventService, m *metrics.Metrics) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(mw.Instrument(m))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", HealthHandler())

	r.Post("/events", IngestEventHandler(eventSvc))
	r.Get("/events", ListEventsHandler(eventSvc))

	r.Get("/metrics", MetricsHandler(eventSvc))
	r.Post("/sync", SyncHandler(eventSvc))

	return r
}
