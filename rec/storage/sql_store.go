// Package storage is the SQLite Record Store. Every method takes a
// context and runs on a db.DBTX, so a store built over a *sql.Tx keeps
// a whole ingest run inside one transaction.
package storage

import (
	"context"
	"database/sql"
	"strconv"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"github.com/teranos/kinlink/db"
	"github.com/teranos/kinlink/errors"
	"github.com/teranos/kinlink/rec"
)

// SQLStore implements rec.Store with a SQLite backend
type SQLStore struct {
	db     db.DBTX
	logger *zap.SugaredLogger

	// event types are seeded vocabulary and never change during a run
	types *cache.Cache
}

var _ rec.Store = (*SQLStore)(nil)

// NewSQLStore creates a store over conn, normally the batch *sql.Tx
func NewSQLStore(conn db.DBTX, logger *zap.SugaredLogger) *SQLStore {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &SQLStore{
		db:     conn,
		logger: logger,
		types:  cache.New(cache.NoExpiration, 0),
	}
}

// insert runs an INSERT and returns the new row id
func (s *SQLStore) insert(ctx context.Context, query string, args ...any) (int64, error) {
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// exec runs a statement that must touch exactly one row
func (s *SQLStore) execOne(ctx context.Context, what string, id int64, query string, args ...any) error {
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return errors.Wrapf(err, "update %s %d", what, id)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrapf(err, "update %s %d", what, id)
	}
	if n == 0 {
		return errors.NewNotFoundError("%s %d", what, id)
	}
	return nil
}

// notFound maps sql.ErrNoRows onto the package sentinel
func notFound(err error, what string, id int64) error {
	if errors.Is(err, sql.ErrNoRows) {
		return errors.NewNotFoundError("%s %d", what, id)
	}
	return errors.Wrapf(err, "read %s %d", what, id)
}

func (s *SQLStore) queryIDs(ctx context.Context, query string, args ...any) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func cacheKey(prefix string, id int64) string {
	return prefix + ":" + strconv.FormatInt(id, 10)
}
