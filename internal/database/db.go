package database

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pkg/errors"
	_ "modernc.org/sqlite"
)

const (
	DriverPostgres = "pgx"
	DriverSQLite   = "sqlite"
)

// Config is the connection target, fixed for the lifetime of the process.
type Config struct {
	Driver       string
	URI          string
	MaxOpenConns int
}

// NewDB opens the pool described by cfg and checks that the database answers.
func NewDB(ctx context.Context, cfg Config) (*sql.DB, error) {
	if _, err := dialectFor(cfg.Driver); err != nil {
		return nil, err
	}

	db, err := sql.Open(cfg.Driver, cfg.URI)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open db")
	}

	if cfg.Driver == DriverSQLite {
		// sqlite serialises writers; a single connection avoids SQLITE_BUSY
		db.SetMaxOpenConns(1)
	} else if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
		db.SetMaxIdleConns(cfg.MaxOpenConns)
	}
	db.SetConnMaxIdleTime(5 * time.Minute)

	if err = db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "failed to ping db")
	}

	return db, nil
}

func CloseDB(db *sql.DB) {
	if err := db.Close(); err != nil {
		slog.Error("failed to close DB", "error", err)
	}
}

func dialectFor(driver string) (string, error) {
	switch driver {
	case DriverPostgres:
		return "postgres", nil
	case DriverSQLite:
		return "sqlite3", nil
	default:
		return "", errors.Errorf("unsupported driver %q", driver)
	}
}

// Gateway hands out one transactional scope per operation. It is the only
// path through which rows are written.
type Gateway struct {
	db *goqu.Database
}

func NewGateway(db *sql.DB, driver string) (*Gateway, error) {
	dialect, err := dialectFor(driver)
	if err != nil {
		return nil, err
	}
	return &Gateway{db: goqu.New(dialect, db)}, nil
}

// Scope runs fn inside a transaction. The transaction is committed when fn
// returns nil and rolled back when fn fails or panics; either way it is
// released before Scope returns.
func (g *Gateway) Scope(ctx context.Context, fn func(tx *goqu.TxDatabase) error) (err error) {
	tx, err := g.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin tx")
	}

	committed := false
	defer func() {
		if committed {
			return
		}
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			slog.Warn("rollback failed", "error", rbErr)
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return errors.Wrap(err, "commit tx")
	}
	committed = true
	return nil
}
