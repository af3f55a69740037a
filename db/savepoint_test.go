package db

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func beginTestTx(t *testing.T) *sql.Tx {
	t.Helper()
	db, err := OpenWithMigrations(DriverCGO, ":memory:", nil)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	tx, err := db.BeginTx(context.Background(), nil)
	require.NoError(t, err)
	t.Cleanup(func() { tx.Rollback() })
	return tx
}

func insertReference(t *testing.T, tx *sql.Tx, title string) {
	t.Helper()
	_, err := tx.Exec("INSERT INTO reference (title) VALUES (?)", title)
	require.NoError(t, err)
}

func countReferences(t *testing.T, tx *sql.Tx, title string) int {
	t.Helper()
	var n int
	require.NoError(t, tx.QueryRow("SELECT COUNT(*) FROM reference WHERE title = ?", title).Scan(&n))
	return n
}

func TestSavepoints(t *testing.T) {
	ctx := context.Background()

	t.Run("release keeps nested work", func(t *testing.T) {
		tx := beginTestTx(t)
		sp := NewSavepoints(tx, zaptest.NewLogger(t).Sugar())
		insertReference(t, tx, "outer")

		require.NoError(t, sp.Savepoint(ctx, "doc_1"))
		insertReference(t, tx, "inner")
		require.NoError(t, sp.Release(ctx, "doc_1"))

		assert.Equal(t, 1, countReferences(t, tx, "outer"))
		assert.Equal(t, 1, countReferences(t, tx, "inner"))
	})

	t.Run("rollback discards only nested work", func(t *testing.T) {
		tx := beginTestTx(t)
		sp := NewSavepoints(tx, zaptest.NewLogger(t).Sugar())
		insertReference(t, tx, "outer")

		require.NoError(t, sp.Savepoint(ctx, "doc_1"))
		insertReference(t, tx, "inner")
		require.NoError(t, sp.RollbackTo(ctx, "doc_1"))

		assert.Equal(t, 1, countReferences(t, tx, "outer"))
		assert.Equal(t, 0, countReferences(t, tx, "inner"))

		// the savepoint is gone from the stack
		assert.Error(t, sp.Release(ctx, "doc_1"))
	})
}

func TestSavepointNames(t *testing.T) {
	sp := NewSavepoints(nil, nil)
	ctx := context.Background()

	for _, bad := range []string{"", "1doc", "doc-1", "doc;DROP TABLE x"} {
		assert.Error(t, sp.Savepoint(ctx, bad), "name %q", bad)
	}
}

func TestSavepointDriverFailure(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()

	mock.ExpectExec("ROLLBACK TO SAVEPOINT doc").WillReturnError(assert.AnError)

	sp := NewSavepoints(mockDB, nil)
	err = sp.RollbackTo(context.Background(), "doc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rollback to savepoint doc")
	require.NoError(t, mock.ExpectationsWereMet())
}
