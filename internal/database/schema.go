package database

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"
)

const TableSaleEvents = "sale_events"

const postgresSchemaSQL = `
CREATE TABLE IF NOT EXISTS sale_events (
    id BIGSERIAL PRIMARY KEY,
    terminal_id VARCHAR(50) NOT NULL,
    receipt_id VARCHAR(100) NOT NULL,
    amount DOUBLE PRECISION NOT NULL,
    currency VARCHAR(10) NOT NULL DEFAULT 'INR',
    status VARCHAR(20) NOT NULL DEFAULT 'PENDING',
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_sale_events_terminal_id ON sale_events(terminal_id);
CREATE INDEX IF NOT EXISTS idx_sale_events_receipt_id ON sale_events(receipt_id);
CREATE INDEX IF NOT EXISTS idx_sale_events_status ON sale_events(status);
CREATE INDEX IF NOT EXISTS idx_sale_events_created_at ON sale_events(created_at);
`

const sqliteSchemaSQL = `
CREATE TABLE IF NOT EXISTS sale_events (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    terminal_id VARCHAR(50) NOT NULL,
    receipt_id VARCHAR(100) NOT NULL,
    amount REAL NOT NULL,
    currency VARCHAR(10) NOT NULL DEFAULT 'INR',
    status VARCHAR(20) NOT NULL DEFAULT 'PENDING',
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_sale_events_terminal_id ON sale_events(terminal_id);
CREATE INDEX IF NOT EXISTS idx_sale_events_receipt_id ON sale_events(receipt_id);
CREATE INDEX IF NOT EXISTS idx_sale_events_status ON sale_events(status);
CREATE INDEX IF NOT EXISTS idx_sale_events_created_at ON sale_events(created_at);
`

// InitSchema creates the sale_events table and its indexes if absent.
func InitSchema(ctx context.Context, db *sql.DB, driver string) error {
	var ddl string
	switch driver {
	case DriverPostgres:
		ddl = postgresSchemaSQL
	case DriverSQLite:
		ddl = sqliteSchemaSQL
	default:
		return errors.Errorf("unsupported driver %q", driver)
	}

	if _, err := db.ExecContext(ctx, ddl); err != nil {
		return errors.Wrap(err, "failed to init schema")
	}
	return nil
}
