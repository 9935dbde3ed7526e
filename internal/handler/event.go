package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"retailsync/internal/service"
)

const maxEventBody = 1 << 16

func IngestEventHandler(eventSvc *service.EventService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in service.EventInput
		body := http.MaxBytesReader(w, r.Body, maxEventBody)
		if err := json.NewDecoder(body).Decode(&in); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json: "+err.Error())
			return
		}

		event, err := eventSvc.Ingest(r.Context(), in)
		if err != nil {
			var verr *service.ValidationError
			if errors.As(err, &verr) {
				writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: "validation failed", Fields: verr.Fields})
				return
			}
			slog.Error("event ingest failed", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		writeJSON(w, http.StatusCreated, toEventResponse(event))
	}
}

func ListEventsHandler(eventSvc *service.EventService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		events, err := eventSvc.List(r.Context(), r.URL.Query().Get("status"))
		if err != nil {
			slog.Error("event list failed", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		writeJSON(w, http.StatusOK, toEventResponses(events))
	}
}
