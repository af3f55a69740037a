package storage

import (
	"context"

	"github.com/teranos/kinlink/errors"
	"github.com/teranos/kinlink/rec/types"
)

const (
	ingestInsertQuery = `
		INSERT INTO ingest_log (run_id, ref_id, path, digest, outcome) VALUES (?, ?, ?, ?, ?)`
	ingestHistoryQuery = `
		SELECT id, run_id, ref_id, path, digest, outcome, created_at
		FROM ingest_log WHERE ref_id = ? ORDER BY id`

	tableCountQuery = `SELECT COUNT(*) FROM `
)

func (s *SQLStore) RecordIngest(ctx context.Context, entry *types.IngestEntry) error {
	id, err := s.insert(ctx, ingestInsertQuery, entry.RunID, entry.RefID, entry.Path, entry.Digest, entry.Outcome)
	if err != nil {
		return errors.Wrapf(err, "record ingest of reference %d", entry.RefID)
	}
	entry.ID = id
	return nil
}

func (s *SQLStore) IngestHistory(ctx context.Context, refID int64) ([]types.IngestEntry, error) {
	rows, err := s.db.QueryContext(ctx, ingestHistoryQuery, refID)
	if err != nil {
		return nil, errors.Wrapf(err, "ingest history of reference %d", refID)
	}
	defer rows.Close()

	var entries []types.IngestEntry
	for rows.Next() {
		var e types.IngestEntry
		if err := rows.Scan(&e.ID, &e.RunID, &e.RefID, &e.Path, &e.Digest, &e.Outcome, &e.CreatedAt); err != nil {
			return nil, errors.Wrap(err, "scan ingest entry")
		}
		entries = append(entries, e)
	}
	return entries, errors.Wrap(rows.Err(), "iterate ingest history")
}

// CountedTables are the tables reported by Counts, in display order.
var CountedTables = []string{
	"reference", "persona", "individual", "family", "name", "date", "place",
	"eventa", "eventa_persona", "event", "event_eventa", "individual_event",
	"event_type_role", "ingest_log",
}

// Counts returns the row count of each table in CountedTables.
func (s *SQLStore) Counts(ctx context.Context) (map[string]int64, error) {
	counts := make(map[string]int64, len(CountedTables))
	for _, table := range CountedTables {
		var n int64
		// table names come from the fixed list above
		if err := s.db.QueryRowContext(ctx, tableCountQuery+table).Scan(&n); err != nil {
			return nil, errors.Wrapf(err, "count %s", table)
		}
		counts[table] = n
	}
	return counts, nil
}
