package storage

import (
	"context"

	"github.com/teranos/kinlink/errors"
	"github.com/teranos/kinlink/rec/types"
)

const (
	eventaInsertQuery = `
		INSERT INTO eventa (title, ref_id, type_id, date1_id, date2_id, place_id, note, date_pt)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	eventaSelectQuery = `
		SELECT id, title, ref_id, type_id, date1_id, date2_id, place_id, note, date_pt
		FROM eventa WHERE id = ?`

	eventaPersonaNextSeqQuery = `
		SELECT COALESCE(MAX(per_seq), 0) + 1 FROM eventa_persona WHERE eventa_id = ?`
	eventaPersonaInsertQuery = `
		INSERT INTO eventa_persona (eventa_id, per_id, role_id, note, per_seq) VALUES (?, ?, ?, ?, ?)`
	eventaPersonasQuery = `
		SELECT id, eventa_id, per_id, role_id, note, per_seq
		FROM eventa_persona WHERE eventa_id = ? ORDER BY per_seq, id`
)

func (s *SQLStore) CreateEventa(ctx context.Context, e *types.Eventa) error {
	id, err := s.insert(ctx, eventaInsertQuery,
		e.Title, e.RefID, e.TypeID, e.Date1ID, e.Date2ID, e.PlaceID, e.Note, e.DatePt)
	if err != nil {
		return errors.Wrapf(err, "create eventa %q", e.Title)
	}
	e.ID = id
	return nil
}

func (s *SQLStore) GetEventa(ctx context.Context, id int64) (*types.Eventa, error) {
	var e types.Eventa
	err := s.db.QueryRowContext(ctx, eventaSelectQuery, id).Scan(
		&e.ID, &e.Title, &e.RefID, &e.TypeID, &e.Date1ID, &e.Date2ID, &e.PlaceID, &e.Note, &e.DatePt)
	if err != nil {
		return nil, notFound(err, "eventa", id)
	}
	return &e, nil
}

func (s *SQLStore) CreateEventaPersona(ctx context.Context, ep *types.EventaPersona) error {
	if ep.PerSeq == 0 {
		if err := s.db.QueryRowContext(ctx, eventaPersonaNextSeqQuery, ep.EventaID).Scan(&ep.PerSeq); err != nil {
			return errors.Wrapf(err, "next participant sequence for eventa %d", ep.EventaID)
		}
	}
	id, err := s.insert(ctx, eventaPersonaInsertQuery, ep.EventaID, ep.PerID, ep.RoleID, ep.Note, ep.PerSeq)
	if err != nil {
		return errors.Wrapf(err, "add persona %d to eventa %d", ep.PerID, ep.EventaID)
	}
	ep.ID = id
	return nil
}

func (s *SQLStore) EventaPersonas(ctx context.Context, eventaID int64) ([]types.EventaPersona, error) {
	rows, err := s.db.QueryContext(ctx, eventaPersonasQuery, eventaID)
	if err != nil {
		return nil, errors.Wrapf(err, "participants of eventa %d", eventaID)
	}
	defer rows.Close()

	var eps []types.EventaPersona
	for rows.Next() {
		var ep types.EventaPersona
		if err := rows.Scan(&ep.ID, &ep.EventaID, &ep.PerID, &ep.RoleID, &ep.Note, &ep.PerSeq); err != nil {
			return nil, errors.Wrap(err, "scan eventa persona")
		}
		eps = append(eps, ep)
	}
	return eps, errors.Wrap(rows.Err(), "iterate eventa personas")
}
