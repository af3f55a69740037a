package storage

import (
	"context"

	"github.com/teranos/kinlink/errors"
	"github.com/teranos/kinlink/rec/types"
)

const (
	personaInsertQuery = `INSERT INTO persona (ref_id, sex, note) VALUES (?, ?, ?)`
	personaSelectQuery = `SELECT id, ref_id, sex, note FROM persona WHERE id = ?`

	individualInsertQuery = `
		INSERT INTO individual (id, sex) VALUES (?, ?)
		ON CONFLICT(id) DO NOTHING`
	individualSelectQuery    = `SELECT id, sex, fam_id, note FROM individual WHERE id = ?`
	individualSetFamilyQuery = `UPDATE individual SET fam_id = ? WHERE id = ?`

	individualPersonaInsertQuery = `
		INSERT INTO individual_persona (ind_id, per_id, conf, note) VALUES (?, ?, ?, ?)`
	individualsForPersonaQuery = `
		SELECT DISTINCT ind_id FROM individual_persona WHERE per_id = ? ORDER BY ind_id`

	familyInsertQuery = `INSERT INTO family (husb_id, wife_id) VALUES (?, ?)`

	nameNextSequenceQuery = `
		SELECT COALESCE(MAX(sequence), 0) + 1 FROM name WHERE per_id = ? AND ind_id = ?`
	nameInsertQuery      = `INSERT INTO name (ind_id, per_id, style_id, sequence) VALUES (?, ?, ?, ?)`
	namePartInsertQuery  = `INSERT INTO name_part (name_id, type_id, val, sequence) VALUES (?, ?, ?, ?)`
	namesForPersonaQuery = `
		SELECT n.id, n.ind_id, n.per_id, n.style_id, n.sequence,
			COALESCE(p.id, 0), COALESCE(p.type_id, 0), COALESCE(p.val, ''), COALESCE(p.sequence, 0)
		FROM name n LEFT JOIN name_part p ON p.name_id = n.id
		WHERE n.per_id = ?
		ORDER BY n.sequence, n.id, p.sequence`
)

func (s *SQLStore) CreatePersona(ctx context.Context, p *types.Persona) error {
	id, err := s.insert(ctx, personaInsertQuery, p.RefID, int(p.Sex), p.Note)
	if err != nil {
		return errors.Wrapf(err, "create persona for reference %d", p.RefID)
	}
	p.ID = id
	return nil
}

func (s *SQLStore) GetPersona(ctx context.Context, id int64) (*types.Persona, error) {
	var p types.Persona
	var sex int
	if err := s.db.QueryRowContext(ctx, personaSelectQuery, id).Scan(&p.ID, &p.RefID, &sex, &p.Note); err != nil {
		return nil, notFound(err, "persona", id)
	}
	p.Sex = types.Sex(sex)
	return &p, nil
}

func (s *SQLStore) EnsureIndividual(ctx context.Context, id int64, sex types.Sex) (bool, error) {
	res, err := s.db.ExecContext(ctx, individualInsertQuery, id, int(sex))
	if err != nil {
		return false, errors.Wrapf(err, "ensure individual %d", id)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, errors.Wrapf(err, "ensure individual %d", id)
	}
	return n > 0, nil
}

func (s *SQLStore) GetIndividual(ctx context.Context, id int64) (*types.Individual, error) {
	var ind types.Individual
	var sex int
	if err := s.db.QueryRowContext(ctx, individualSelectQuery, id).Scan(&ind.ID, &sex, &ind.FamID, &ind.Note); err != nil {
		return nil, notFound(err, "individual", id)
	}
	ind.Sex = types.Sex(sex)
	return &ind, nil
}

func (s *SQLStore) CreateIndividualPersona(ctx context.Context, link *types.IndividualPersona) error {
	id, err := s.insert(ctx, individualPersonaInsertQuery, link.IndID, link.PerID, link.Conf, link.Note)
	if err != nil {
		return errors.Wrapf(err, "link persona %d to individual %d", link.PerID, link.IndID)
	}
	link.ID = id
	return nil
}

func (s *SQLStore) IndividualsForPersona(ctx context.Context, perID int64) ([]int64, error) {
	ids, err := s.queryIDs(ctx, individualsForPersonaQuery, perID)
	if err != nil {
		return nil, errors.Wrapf(err, "individuals for persona %d", perID)
	}
	return ids, nil
}

func (s *SQLStore) CreateFamily(ctx context.Context, fam *types.Family) error {
	id, err := s.insert(ctx, familyInsertQuery, fam.HusbID, fam.WifeID)
	if err != nil {
		return errors.Wrap(err, "create family")
	}
	fam.ID = id
	return nil
}

func (s *SQLStore) SetIndividualFamily(ctx context.Context, indID, famID int64) error {
	return s.execOne(ctx, "individual", indID, individualSetFamilyQuery, famID, indID)
}

func (s *SQLStore) CreateName(ctx context.Context, n *types.Name) error {
	if n.PerID == 0 && n.IndID == 0 {
		return errors.New("name has no owner")
	}
	if n.Sequence == 0 {
		if err := s.db.QueryRowContext(ctx, nameNextSequenceQuery, n.PerID, n.IndID).Scan(&n.Sequence); err != nil {
			return errors.Wrapf(err, "next name sequence for persona %d", n.PerID)
		}
	}
	id, err := s.insert(ctx, nameInsertQuery, n.IndID, n.PerID, int(n.Style), n.Sequence)
	if err != nil {
		return errors.Wrapf(err, "create name for persona %d", n.PerID)
	}
	n.ID = id

	for i := range n.Parts {
		part := &n.Parts[i]
		part.NameID = id
		if part.Sequence == 0 {
			part.Sequence = i + 1
		}
		pid, err := s.insert(ctx, namePartInsertQuery, id, int(part.Type), part.Val, part.Sequence)
		if err != nil {
			return errors.Wrapf(err, "create part %d of name %d", part.Sequence, id)
		}
		part.ID = pid
	}
	return nil
}

func (s *SQLStore) NamesForPersona(ctx context.Context, perID int64) ([]types.Name, error) {
	rows, err := s.db.QueryContext(ctx, namesForPersonaQuery, perID)
	if err != nil {
		return nil, errors.Wrapf(err, "names for persona %d", perID)
	}
	defer rows.Close()

	var names []types.Name
	for rows.Next() {
		var n types.Name
		var style int
		var part types.NamePart
		var partType int
		if err := rows.Scan(&n.ID, &n.IndID, &n.PerID, &style, &n.Sequence,
			&part.ID, &partType, &part.Val, &part.Sequence); err != nil {
			return nil, errors.Wrap(err, "scan name")
		}
		n.Style = types.NameStyle(style)
		if len(names) == 0 || names[len(names)-1].ID != n.ID {
			names = append(names, n)
		}
		if part.ID != 0 {
			part.NameID = n.ID
			part.Type = types.NamePartType(partType)
			last := &names[len(names)-1]
			last.Parts = append(last.Parts, part)
		}
	}
	return names, errors.Wrap(rows.Err(), "iterate names")
}
