// Package dbtest provides a throwaway SQLite-backed store for tests.
package dbtest

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"retailsync/internal/database"
)

// Open creates a fresh database file under t.TempDir with the schema
// applied. It is closed when the test ends.
func Open(t *testing.T) (*sql.DB, *database.Gateway) {
	t.Helper()

	cfg := database.Config{
		Driver: database.DriverSQLite,
		URI:    filepath.Join(t.TempDir(), "events.db"),
	}
	db, err := database.NewDB(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { database.CloseDB(db) })

	require.NoError(t, database.InitSchema(context.Background(), db, cfg.Driver))

	gw, err := database.NewGateway(db, cfg.Driver)
	require.NoError(t, err)
	return db, gw
}
