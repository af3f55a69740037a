package storage

import (
	"context"
	"database/sql"

	"github.com/teranos/kinlink/errors"
	"github.com/teranos/kinlink/rec/types"
)

const (
	eventInsertQuery = `
		INSERT INTO event (title, type_id, date1_id, date2_id, place_id, note, date_pt)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	eventSelectQuery = `
		SELECT id, title, type_id, date1_id, date2_id, place_id, note, date_pt FROM event WHERE id = ?`
	eventUpdateQuery = `
		UPDATE event SET title = ?, type_id = ?, date1_id = ?, date2_id = ?, place_id = ?, note = ?, date_pt = ?
		WHERE id = ?`

	eventEventaInsertQuery = `
		INSERT INTO event_eventa (event_id, eventa_id, conf) VALUES (?, ?, ?)`
	eventEventaFindQuery = `
		SELECT id FROM event_eventa WHERE event_id = ? AND eventa_id = ?`
	eventEventaConfQuery = `
		UPDATE event_eventa SET conf = ? WHERE id = ?`
	eventLinksForEventaQuery = `
		SELECT id, event_id, eventa_id, conf FROM event_eventa WHERE eventa_id = ? ORDER BY id`

	eventsForIndividualQuery = `
		SELECT DISTINCT e.id FROM event e
		JOIN individual_event ie ON ie.event_id = e.id
		WHERE ie.ind_id = ? AND e.type_id = ?
		ORDER BY e.id`
	individualEventExistsQuery = `
		SELECT EXISTS(SELECT 1 FROM individual_event WHERE ind_id = ? AND event_id = ? AND role_id = ?)`
	individualEventNextSeqQuery = `
		SELECT COALESCE(MAX(ind_seq), 0) + 1 FROM individual_event WHERE ind_id = ?`
	individualEventInsertQuery = `
		INSERT INTO individual_event (ind_id, event_id, role_id, note, ind_seq) VALUES (?, ?, ?, ?, ?)`
	individualEventsQuery = `
		SELECT id, ind_id, event_id, role_id, note, ind_seq FROM individual_event
		WHERE event_id = ? ORDER BY id`
)

func (s *SQLStore) CreateEvent(ctx context.Context, e *types.Event) error {
	id, err := s.insert(ctx, eventInsertQuery,
		e.Title, e.TypeID, e.Date1ID, e.Date2ID, e.PlaceID, e.Note, e.DatePt)
	if err != nil {
		return errors.Wrapf(err, "create event %q", e.Title)
	}
	e.ID = id
	return nil
}

func (s *SQLStore) GetEvent(ctx context.Context, id int64) (*types.Event, error) {
	var e types.Event
	err := s.db.QueryRowContext(ctx, eventSelectQuery, id).Scan(
		&e.ID, &e.Title, &e.TypeID, &e.Date1ID, &e.Date2ID, &e.PlaceID, &e.Note, &e.DatePt)
	if err != nil {
		return nil, notFound(err, "event", id)
	}
	return &e, nil
}

func (s *SQLStore) UpdateEvent(ctx context.Context, e *types.Event) error {
	return s.execOne(ctx, "event", e.ID, eventUpdateQuery,
		e.Title, e.TypeID, e.Date1ID, e.Date2ID, e.PlaceID, e.Note, e.DatePt, e.ID)
}

func (s *SQLStore) LinkEventEventa(ctx context.Context, link *types.EventEventa) (bool, error) {
	err := s.db.QueryRowContext(ctx, eventEventaFindQuery, link.EventID, link.EventaID).Scan(&link.ID)
	switch {
	case err == nil:
		return false, s.execOne(ctx, "event link", link.ID, eventEventaConfQuery, link.Conf, link.ID)
	case !errors.Is(err, sql.ErrNoRows):
		return false, errors.Wrapf(err, "find link of eventa %d to event %d", link.EventaID, link.EventID)
	}

	id, err := s.insert(ctx, eventEventaInsertQuery, link.EventID, link.EventaID, link.Conf)
	if err != nil {
		return false, errors.Wrapf(err, "link eventa %d to event %d", link.EventaID, link.EventID)
	}
	link.ID = id
	return true, nil
}

func (s *SQLStore) EventLinksForEventa(ctx context.Context, eventaID int64) ([]types.EventEventa, error) {
	rows, err := s.db.QueryContext(ctx, eventLinksForEventaQuery, eventaID)
	if err != nil {
		return nil, errors.Wrapf(err, "event links of eventa %d", eventaID)
	}
	defer rows.Close()

	var links []types.EventEventa
	for rows.Next() {
		var l types.EventEventa
		if err := rows.Scan(&l.ID, &l.EventID, &l.EventaID, &l.Conf); err != nil {
			return nil, errors.Wrap(err, "scan event link")
		}
		links = append(links, l)
	}
	return links, errors.Wrap(rows.Err(), "iterate event links")
}

func (s *SQLStore) EventsForIndividual(ctx context.Context, indID, typeID int64) ([]int64, error) {
	ids, err := s.queryIDs(ctx, eventsForIndividualQuery, indID, typeID)
	if err != nil {
		return nil, errors.Wrapf(err, "events of type %d for individual %d", typeID, indID)
	}
	return ids, nil
}

func (s *SQLStore) IndividualEventExists(ctx context.Context, indID, eventID, roleID int64) (bool, error) {
	var exists bool
	if err := s.db.QueryRowContext(ctx, individualEventExistsQuery, indID, eventID, roleID).Scan(&exists); err != nil {
		return false, errors.Wrapf(err, "check individual %d in event %d", indID, eventID)
	}
	return exists, nil
}

func (s *SQLStore) CreateIndividualEvent(ctx context.Context, ie *types.IndividualEvent) error {
	if ie.IndSeq == 0 {
		if err := s.db.QueryRowContext(ctx, individualEventNextSeqQuery, ie.IndID).Scan(&ie.IndSeq); err != nil {
			return errors.Wrapf(err, "next event sequence for individual %d", ie.IndID)
		}
	}
	id, err := s.insert(ctx, individualEventInsertQuery, ie.IndID, ie.EventID, ie.RoleID, ie.Note, ie.IndSeq)
	if err != nil {
		return errors.Wrapf(err, "add individual %d to event %d", ie.IndID, ie.EventID)
	}
	ie.ID = id
	return nil
}

func (s *SQLStore) IndividualEvents(ctx context.Context, eventID int64) ([]types.IndividualEvent, error) {
	rows, err := s.db.QueryContext(ctx, individualEventsQuery, eventID)
	if err != nil {
		return nil, errors.Wrapf(err, "participants of event %d", eventID)
	}
	defer rows.Close()

	var ies []types.IndividualEvent
	for rows.Next() {
		var ie types.IndividualEvent
		if err := rows.Scan(&ie.ID, &ie.IndID, &ie.EventID, &ie.RoleID, &ie.Note, &ie.IndSeq); err != nil {
			return nil, errors.Wrap(err, "scan individual event")
		}
		ies = append(ies, ie)
	}
	return ies, errors.Wrap(rows.Err(), "iterate individual events")
}
