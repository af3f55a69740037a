package db

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestOpenWithMigrations(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	db, err := OpenWithMigrations(DriverCGO, dbPath, zaptest.NewLogger(t).Sugar())
	require.NoError(t, err)
	defer db.Close()

	for _, table := range []string{"schema_migrations", "reference", "persona", "eventa", "event", "event_eventa", "individual_event", "ingest_log"} {
		var n int
		err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&n)
		require.NoError(t, err)
		assert.Equal(t, 1, n, "table %s should exist", table)
	}
}

func TestMigrateIsIdempotent(t *testing.T) {
	db, err := Open(DriverCGO, ":memory:", nil)
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, Migrate(db, nil))
	require.NoError(t, Migrate(db, nil))

	var versions int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&versions))
	assert.Equal(t, 4, versions)

	var types int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM event_type").Scan(&types))
	assert.Equal(t, 14, types, "seed rows must be inserted exactly once")
}

func TestSeededEventTypes(t *testing.T) {
	db, err := OpenWithMigrations(DriverPureGo, ":memory:", nil)
	require.NoError(t, err)
	defer db.Close()

	var name string
	var grp int
	require.NoError(t, db.QueryRow("SELECT name, grp FROM event_type WHERE id = 1").Scan(&name, &grp))
	assert.Equal(t, "Birth", name)
	assert.Equal(t, 1, grp)
}
