package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"retailsync/internal/model"
)

type eventResponse struct {
	ID         int64   `json:"id"`
	TerminalID string  `json:"terminal_id"`
	ReceiptID  string  `json:"receipt_id"`
	Amount     float64 `json:"amount"`
	Currency   string  `json:"currency"`
	Status     string  `json:"status"`
	CreatedAt  string  `json:"created_at"`
}

func toEventResponse(e model.SaleEvent) eventResponse {
	return eventResponse{
		ID:         e.ID,
		TerminalID: e.TerminalID,
		ReceiptID:  e.ReceiptID,
		Amount:     e.Amount,
		Currency:   e.Currency,
		Status:     string(e.Status),
		CreatedAt:  e.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func toEventResponses(events []model.SaleEvent) []eventResponse {
	out := make([]eventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, toEventResponse(e))
	}
	return out
}

type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response failed", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
