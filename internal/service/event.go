package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/doug-martin/goqu/v9"

	"retailsync/internal/database"
	"retailsync/internal/metrics"
	"retailsync/internal/model"
)

type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// EventInput is an ingestion request as it arrives from a terminal.
type EventInput struct {
	TerminalID string   `json:"terminal_id" validate:"required,max=50"`
	ReceiptID  string   `json:"receipt_id" validate:"required,max=100"`
	Amount     *float64 `json:"amount" validate:"required"`
	Currency   *string  `json:"currency" validate:"omitempty,max=10"`
}

type EventService struct {
	gw      *database.Gateway
	metrics *metrics.Metrics
	logger  *slog.Logger
	clock   Clock
}

func NewEventService(gw *database.Gateway, m *metrics.Metrics, logger *slog.Logger, clock Clock) *EventService {
	return &EventService{gw: gw, metrics: m, logger: logger, clock: clock}
}

// Ingest validates in and stores it as a new PENDING event. Identical
// receipts are stored again; nothing deduplicates them.
func (s *EventService) Ingest(ctx context.Context, in EventInput) (model.SaleEvent, error) {
	if err := validateInput(in); err != nil {
		return model.SaleEvent{}, err
	}

	event := model.SaleEvent{
		TerminalID: in.TerminalID,
		ReceiptID:  in.ReceiptID,
		Amount:     *in.Amount,
		Currency:   model.DefaultCurrency,
		Status:     model.StatusPending,
		CreatedAt:  s.clock.Now().UTC().Truncate(time.Microsecond),
	}
	if in.Currency != nil && *in.Currency != "" {
		event.Currency = *in.Currency
	}

	err := s.gw.Scope(ctx, func(tx *goqu.TxDatabase) error {
		id, err := insertEvent(ctx, tx, event)
		if err != nil {
			return err
		}
		event.ID = id
		return nil
	})
	if err != nil {
		s.metrics.RecordDBError(metrics.DBOperationInsert)
		return model.SaleEvent{}, fmt.Errorf("insert event: %w", err)
	}

	s.metrics.RecordIngested()
	s.logger.Info("ingested event",
		"id", event.ID,
		"terminal_id", event.TerminalID,
		"receipt_id", event.ReceiptID,
		"amount", event.Amount,
		"currency", event.Currency,
		"status", event.Status,
	)
	return event, nil
}

func insertEvent(ctx context.Context, tx *goqu.TxDatabase, event model.SaleEvent) (int64, error) {
	ds := tx.Insert(database.TableSaleEvents).Prepared(true).Rows(goqu.Record{
		"terminal_id": event.TerminalID,
		"receipt_id":  event.ReceiptID,
		"amount":      event.Amount,
		"currency":    event.Currency,
		"status":      event.Status,
		"created_at":  event.CreatedAt,
	})

	// goqu's sqlite3 dialect has no RETURNING support
	if tx.Dialect() == "postgres" {
		var id int64
		if _, err := ds.Returning("id").Executor().ScanValContext(ctx, &id); err != nil {
			return 0, err
		}
		return id, nil
	}

	res, err := ds.Executor().ExecContext(ctx)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// List returns events newest first. A non-empty status is compared
// case-insensitively; a value that is not a known status yields no rows.
func (s *EventService) List(ctx context.Context, status string) ([]model.SaleEvent, error) {
	events := []model.SaleEvent{}
	filter := "ALL"

	err := s.gw.Scope(ctx, func(tx *goqu.TxDatabase) error {
		ds := tx.From(database.TableSaleEvents).Prepared(true).
			Order(goqu.C("created_at").Desc(), goqu.C("id").Desc())
		if status != "" {
			normalized := model.NormalizeStatus(status)
			filter = string(normalized)
			ds = ds.Where(goqu.C("status").Eq(normalized))
		}
		return ds.ScanStructsContext(ctx, &events)
	})
	if err != nil {
		s.metrics.RecordDBError(metrics.DBOperationRead)
		return nil, fmt.Errorf("list events: %w", err)
	}

	s.logger.Info("listed events", "count", len(events), "status_filter", filter)
	return events, nil
}

// Counts runs three separate count queries. Under concurrent writes the
// figures are not guaranteed to add up.
func (s *EventService) Counts(ctx context.Context) (model.EventCounts, error) {
	var counts model.EventCounts

	err := s.gw.Scope(ctx, func(tx *goqu.TxDatabase) error {
		var err error
		table := tx.From(database.TableSaleEvents).Prepared(true)

		if counts.Total, err = table.CountContext(ctx); err != nil {
			return err
		}
		if counts.Pending, err = table.Where(goqu.C("status").Eq(model.StatusPending)).CountContext(ctx); err != nil {
			return err
		}
		counts.Processed, err = table.Where(goqu.C("status").Eq(model.StatusProcessed)).CountContext(ctx)
		return err
	})
	if err != nil {
		s.metrics.RecordDBError(metrics.DBOperationCount)
		return model.EventCounts{}, fmt.Errorf("count events: %w", err)
	}

	s.logger.Info("counted events", "total", counts.Total, "pending", counts.Pending, "processed", counts.Processed)
	return counts, nil
}

// SyncPending moves every PENDING event to PROCESSED in one transaction and
// returns how many rows changed. Calling it with nothing pending returns 0.
func (s *EventService) SyncPending(ctx context.Context) (int64, error) {
	var pendingBefore, processed int64

	err := s.gw.Scope(ctx, func(tx *goqu.TxDatabase) error {
		var err error
		pendingBefore, err = tx.From(database.TableSaleEvents).Prepared(true).
			Where(goqu.C("status").Eq(model.StatusPending)).
			CountContext(ctx)
		if err != nil {
			return err
		}

		res, err := tx.Update(database.TableSaleEvents).Prepared(true).
			Set(goqu.Record{"status": model.StatusProcessed}).
			Where(goqu.C("status").Eq(model.StatusPending)).
			Executor().ExecContext(ctx)
		if err != nil {
			return err
		}
		processed, err = res.RowsAffected()
		return err
	})
	if err != nil {
		s.metrics.RecordDBError(metrics.DBOperationSync)
		return 0, fmt.Errorf("sync pending events: %w", err)
	}

	s.metrics.RecordSync(processed)
	s.logger.Info("synced events", "processed", processed, "pending_before", pendingBefore)
	return processed, nil
}
