package model

import (
	"strings"
	"time"
)

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusProcessed Status = "PROCESSED"
)

const DefaultCurrency = "INR"

// SaleEvent is one row of sale_events.
type SaleEvent struct {
	ID         int64     `db:"id"`
	TerminalID string    `db:"terminal_id"`
	ReceiptID  string    `db:"receipt_id"`
	Amount     float64   `db:"amount"`
	Currency   string    `db:"currency"`
	Status     Status    `db:"status"`
	CreatedAt  time.Time `db:"created_at"`
}

// NormalizeStatus upper-cases a status filter. The result is not checked
// against the known statuses, so an unknown value simply matches no rows.
func NormalizeStatus(s string) Status {
	return Status(strings.ToUpper(s))
}

type EventCounts struct {
	Total     int64
	Pending   int64
	Processed int64
}
