package storage

import (
	"context"

	"github.com/teranos/kinlink/errors"
	"github.com/teranos/kinlink/rec/types"
)

const (
	referenceEnsureQuery = `
		INSERT INTO reference (id, user_ref) VALUES (?, ?)
		ON CONFLICT(id) DO NOTHING`

	referenceSaveQuery = `
		INSERT INTO reference (id, title, statement, user_ref) VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			statement = excluded.statement,
			user_ref = excluded.user_ref`

	referenceSelectQuery = `
		SELECT id, title, statement, user_ref FROM reference WHERE id = ?`

	referenceEntityInsertQuery = `
		INSERT INTO reference_entity (ref_id, entity_type, entity_id, sequence) VALUES (?, ?, ?, ?)`

	referenceEntityListQuery = `
		SELECT id, ref_id, entity_type, entity_id, sequence
		FROM reference_entity WHERE ref_id = ? ORDER BY sequence, id`
)

func (s *SQLStore) EnsureReference(ctx context.Context, id int64) error {
	if _, err := s.db.ExecContext(ctx, referenceEnsureQuery, id, types.UserRef(id)); err != nil {
		return errors.Wrapf(err, "ensure reference %d", id)
	}
	return nil
}

// SaveReference inserts or replaces the reference's title and statement
func (s *SQLStore) SaveReference(ctx context.Context, ref *types.Reference) error {
	if ref.UserRef == "" {
		ref.UserRef = types.UserRef(ref.ID)
	}
	if _, err := s.db.ExecContext(ctx, referenceSaveQuery, ref.ID, ref.Title, ref.Statement, ref.UserRef); err != nil {
		return errors.Wrapf(err, "save reference %d", ref.ID)
	}
	return nil
}

func (s *SQLStore) GetReference(ctx context.Context, id int64) (*types.Reference, error) {
	var ref types.Reference
	err := s.db.QueryRowContext(ctx, referenceSelectQuery, id).Scan(&ref.ID, &ref.Title, &ref.Statement, &ref.UserRef)
	if err != nil {
		return nil, notFound(err, "reference", id)
	}
	return &ref, nil
}

func (s *SQLStore) AddReferenceEntity(ctx context.Context, link *types.ReferenceEntity) error {
	id, err := s.insert(ctx, referenceEntityInsertQuery, link.RefID, int(link.EntityType), link.EntityID, link.Sequence)
	if err != nil {
		return errors.Wrapf(err, "link reference %d to %s %d", link.RefID, link.EntityType, link.EntityID)
	}
	link.ID = id
	return nil
}

func (s *SQLStore) ListReferenceEntities(ctx context.Context, refID int64) ([]types.ReferenceEntity, error) {
	rows, err := s.db.QueryContext(ctx, referenceEntityListQuery, refID)
	if err != nil {
		return nil, errors.Wrapf(err, "list entities of reference %d", refID)
	}
	defer rows.Close()

	var links []types.ReferenceEntity
	for rows.Next() {
		var l types.ReferenceEntity
		var et int
		if err := rows.Scan(&l.ID, &l.RefID, &et, &l.EntityID, &l.Sequence); err != nil {
			return nil, errors.Wrap(err, "scan reference entity")
		}
		l.EntityType = types.EntityType(et)
		links = append(links, l)
	}
	return links, errors.Wrap(rows.Err(), "iterate reference entities")
}
