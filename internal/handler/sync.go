package handler

import (
	"log/slog"
	"net/http"

	"retailsync/internal/service"
)

type syncResponse struct {
	ProcessedEvents int64  `json:"processed_events"`
	Message         string `json:"message"`
}

func SyncHandler(eventSvc *service.EventService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		processed, err := eventSvc.SyncPending(r.Context())
		if err != nil {
			slog.Error("sync failed", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		writeJSON(w, http.StatusOK, syncResponse{ProcessedEvents: processed, Message: "Sync completed"})
	}
}

func HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
