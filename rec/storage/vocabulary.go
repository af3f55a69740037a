package storage

import (
	"context"
	"database/sql"

	"github.com/patrickmn/go-cache"

	"github.com/teranos/kinlink/errors"
	"github.com/teranos/kinlink/rec/types"
	"github.com/teranos/kinlink/sym"
)

const (
	eventTypeSelectQuery = `SELECT id, grp, name FROM event_type WHERE id = ?`

	roleSelectQuery     = `SELECT id, type_id, prime, official, name FROM event_type_role WHERE id = ?`
	roleFindByNameQuery = `
		SELECT id, type_id, prime, official, name FROM event_type_role
		WHERE type_id = ? AND name = ? COLLATE NOCASE
		ORDER BY official DESC, id LIMIT 1`
	roleInsertQuery = `
		INSERT INTO event_type_role (type_id, prime, official, name) VALUES (?, ?, 0, ?)`

	roleDeleteOrphanedQuery = `
		DELETE FROM event_type_role
		WHERE official = 0
		AND id NOT IN (SELECT role_id FROM eventa_persona)
		AND id NOT IN (SELECT role_id FROM individual_event)`
)

// GetEventType reads a seeded event type, cached for the life of the store
func (s *SQLStore) GetEventType(ctx context.Context, id int64) (*types.EventType, error) {
	key := cacheKey("event_type", id)
	if cached, ok := s.types.Get(key); ok {
		et := cached.(types.EventType)
		return &et, nil
	}

	var et types.EventType
	var grp int
	if err := s.db.QueryRowContext(ctx, eventTypeSelectQuery, id).Scan(&et.ID, &grp, &et.Name); err != nil {
		return nil, notFound(err, "event type", id)
	}
	et.Group = types.TypeGroup(grp)
	s.types.Set(key, et, cache.NoExpiration)
	return &et, nil
}

func (s *SQLStore) GetRole(ctx context.Context, id int64) (*types.Role, error) {
	role, err := scanRole(s.db.QueryRowContext(ctx, roleSelectQuery, id))
	if err != nil {
		return nil, notFound(err, "role", id)
	}
	return role, nil
}

func (s *SQLStore) FindOrCreateRole(ctx context.Context, typeID int64, name string, prime bool) (*types.Role, error) {
	role, err := scanRole(s.db.QueryRowContext(ctx, roleFindByNameQuery, typeID, name))
	if err == nil {
		return role, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, errors.Wrapf(err, "find role %q for type %d", name, typeID)
	}

	id, err := s.insert(ctx, roleInsertQuery, typeID, boolInt(prime), name)
	if err != nil {
		return nil, errors.Wrapf(err, "create role %q for type %d", name, typeID)
	}
	s.logger.Debugw("Created ad hoc role", "role_id", id, "type_id", typeID, "name", name, "symbol", sym.DB)
	return &types.Role{ID: id, TypeID: typeID, Prime: prime, Name: name}, nil
}

func (s *SQLStore) DeleteOrphanedRoles(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, roleDeleteOrphanedQuery)
	if err != nil {
		return 0, errors.Wrap(err, "delete orphaned roles")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, errors.Wrap(err, "delete orphaned roles")
	}
	if n > 0 {
		s.logger.Infow("Deleted orphaned roles", "count", n, "symbol", sym.DB)
	}
	return n, nil
}

func scanRole(row *sql.Row) (*types.Role, error) {
	var r types.Role
	var prime, official int
	if err := row.Scan(&r.ID, &r.TypeID, &prime, &official, &r.Name); err != nil {
		return nil, err
	}
	r.Prime = prime != 0
	r.Official = official != 0
	return &r, nil
}
