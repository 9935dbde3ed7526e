package handler

import (
	"log/slog"
	"net/http"

	"retailsync/internal/service"
)

type countsResponse struct {
	TotalEvents     int64 `json:"total_events"`
	PendingEvents   int64 `json:"pending_events"`
	ProcessedEvents int64 `json:"processed_events"`
}

func MetricsHandler(eventSvc *service.EventService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		counts, err := eventSvc.Counts(r.Context())
		if err != nil {
			slog.Error("event counts failed", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		writeJSON(w, http.StatusOK, countsResponse{
			TotalEvents:     counts.Total,
			PendingEvents:   counts.Pending,
			ProcessedEvents: counts.Processed,
		})
	}
}
