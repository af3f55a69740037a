package storage

import (
	"context"

	"github.com/teranos/kinlink/errors"
	"github.com/teranos/kinlink/rec/dates"
	"github.com/teranos/kinlink/rec/types"
)

const (
	dateInsertQuery = `
		INSERT INTO date (jdn, span, prec, type, descrip, rel_id) VALUES (?, ?, ?, ?, ?, ?)`
	dateSelectQuery = `
		SELECT id, jdn, span, prec, type, descrip, rel_id FROM date WHERE id = ?`
	dateUpdateQuery = `
		UPDATE date SET jdn = ?, span = ?, prec = ?, type = ?, descrip = ?, rel_id = ? WHERE id = ?`

	relativeDateInsertQuery = `
		INSERT INTO relative_date (val, unit, base_id, type) VALUES (?, ?, ?, ?)`

	placeInsertQuery     = `INSERT INTO place (date1_id) VALUES (?)`
	placePartInsertQuery = `INSERT INTO place_part (place_id, type_id, val, sequence) VALUES (?, ?, ?, ?)`
	placeSelectQuery     = `SELECT id, date1_id FROM place WHERE id = ?`
	placePartsQuery      = `
		SELECT id, place_id, type_id, val, sequence FROM place_part WHERE place_id = ? ORDER BY sequence, id`
)

func (s *SQLStore) CreateDate(ctx context.Context, d *dates.Date) error {
	id, err := s.insert(ctx, dateInsertQuery, d.JDN, d.Span, int(d.Prec), int(d.Type), d.Descrip, d.RelID)
	if err != nil {
		return errors.Wrapf(err, "create date %q", d.Descrip)
	}
	d.ID = id
	return nil
}

func (s *SQLStore) GetDate(ctx context.Context, id int64) (*dates.Date, error) {
	var d dates.Date
	var prec, typ int
	err := s.db.QueryRowContext(ctx, dateSelectQuery, id).Scan(&d.ID, &d.JDN, &d.Span, &prec, &typ, &d.Descrip, &d.RelID)
	if err != nil {
		return nil, notFound(err, "date", id)
	}
	d.Prec = dates.Precision(prec)
	d.Type = dates.Qualifier(typ)
	return &d, nil
}

func (s *SQLStore) UpdateDate(ctx context.Context, d *dates.Date) error {
	return s.execOne(ctx, "date", d.ID, dateUpdateQuery,
		d.JDN, d.Span, int(d.Prec), int(d.Type), d.Descrip, d.RelID, d.ID)
}

func (s *SQLStore) CreateRelativeDate(ctx context.Context, r *dates.Relative) error {
	id, err := s.insert(ctx, relativeDateInsertQuery, r.Val, int(r.Unit), r.BaseID, int(r.Type))
	if err != nil {
		return errors.Wrapf(err, "create relative date on base %d", r.BaseID)
	}
	r.ID = id
	return nil
}

func (s *SQLStore) CompareDates(ctx context.Context, a, b int64) (dates.Flags, error) {
	if a == 0 || b == 0 {
		return dates.FlagUnknown, nil
	}
	da, err := s.GetDate(ctx, a)
	if err != nil {
		return 0, err
	}
	other, err := s.GetDate(ctx, b)
	if err != nil {
		return 0, err
	}
	return dates.Compare(*da, *other), nil
}

func (s *SQLStore) CreatePlace(ctx context.Context, p *types.Place) error {
	id, err := s.insert(ctx, placeInsertQuery, p.Date1ID)
	if err != nil {
		return errors.Wrap(err, "create place")
	}
	p.ID = id
	for i := range p.Parts {
		part := &p.Parts[i]
		part.PlaceID = id
		if part.Sequence == 0 {
			part.Sequence = i + 1
		}
		pid, err := s.insert(ctx, placePartInsertQuery, id, int(part.Type), part.Val, part.Sequence)
		if err != nil {
			return errors.Wrapf(err, "create part of place %d", id)
		}
		part.ID = pid
	}
	return nil
}

func (s *SQLStore) GetPlace(ctx context.Context, id int64) (*types.Place, error) {
	var p types.Place
	if err := s.db.QueryRowContext(ctx, placeSelectQuery, id).Scan(&p.ID, &p.Date1ID); err != nil {
		return nil, notFound(err, "place", id)
	}

	rows, err := s.db.QueryContext(ctx, placePartsQuery, id)
	if err != nil {
		return nil, errors.Wrapf(err, "parts of place %d", id)
	}
	defer rows.Close()
	for rows.Next() {
		var part types.PlacePart
		var typ int
		if err := rows.Scan(&part.ID, &part.PlaceID, &typ, &part.Val, &part.Sequence); err != nil {
			return nil, errors.Wrap(err, "scan place part")
		}
		part.Type = types.PlacePartType(typ)
		p.Parts = append(p.Parts, part)
	}
	return &p, errors.Wrap(rows.Err(), "iterate place parts")
}
