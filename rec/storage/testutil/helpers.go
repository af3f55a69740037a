package testutil

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/teranos/kinlink/db"
)

// SetupTestDB creates an in-memory SQLite database with the real
// migrations applied. The pool is a single connection, so a test must not
// query the *sql.DB while a transaction on it is open.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	testDB, err := db.OpenWithMigrations(db.DriverCGO, ":memory:", nil)
	require.NoError(t, err, "Failed to open test database")
	t.Cleanup(func() { testDB.Close() })
	return testDB
}

// SetupTestTx opens a migrated database and a transaction on it that is
// rolled back when the test ends.
func SetupTestTx(t *testing.T) *sql.Tx {
	t.Helper()
	testDB := SetupTestDB(t)
	tx, err := testDB.Begin()
	require.NoError(t, err)
	t.Cleanup(func() { tx.Rollback() })
	return tx
}

// SetupEmptyDB creates an in-memory SQLite database without any schema,
// for testing how callers surface storage failures.
func SetupEmptyDB(t *testing.T) *sql.DB {
	t.Helper()
	emptyDB, err := db.Open(db.DriverCGO, ":memory:", nil)
	require.NoError(t, err)
	t.Cleanup(func() { emptyDB.Close() })
	return emptyDB
}
