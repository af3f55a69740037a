package markup

import (
	"context"
	"strings"

	"github.com/teranos/kinlink/errors"
	"github.com/teranos/kinlink/rec/dates"
	"github.com/teranos/kinlink/rec/types"
)

// Confidence given to a persona-to-individual link asserted by markup.
const individualPersonaConf = 0.99

// parseContext carries the state of one document parse. It is built for
// each document and dropped when the document is done.
type parseContext struct {
	refID int64
	syms  *LocalIDs
	seq   int // last provenance sequence used

	curPersona    int64
	curDate       int64
	curPlace      int64
	curEventa     int64
	curEventaType int64

	// individuals named by IP statements, in order, for the family pass
	individuals []int64
	// eventas built, in order, and those already linked by an EE statement
	eventas []int64
	linked  map[int64]bool
}

// dropped is a statement outcome that created nothing.
type dropped struct{ reason string }

func (d dropped) Error() string { return d.reason }

func drop(reason string) error { return dropped{reason: reason} }

// build dispatches one statement. A dropped error means the statement
// was malformed; any other error is a storage failure.
func (p *Processor) build(ctx context.Context, pc *parseContext, st Statement) (int64, error) {
	switch st.Kind {
	case KindPersona:
		return p.buildPersona(ctx, pc, st.Payload)
	case KindIndividualPersona:
		return p.buildIndividualPersona(ctx, pc, st.Payload)
	case KindName:
		return p.buildName(ctx, pc, st.Payload)
	case KindDate:
		return p.buildDate(ctx, pc, st.Payload)
	case KindPlace:
		return p.buildPlace(ctx, pc, st.Payload)
	case KindEventa:
		return p.buildEventa(ctx, pc, st.Payload)
	case KindEventaPersona:
		return p.buildEventaPersona(ctx, pc, st.Payload)
	case KindRole:
		return p.buildRole(ctx, pc, st.Payload)
	case KindEventLink:
		return p.buildEventLink(ctx, pc, st.Payload)
	case KindUnknown:
		return 0, drop("unknown statement tag")
	}
	return 0, drop("unknown statement tag")
}

func (p *Processor) provenance(ctx context.Context, pc *parseContext, et types.EntityType, id int64) error {
	pc.seq++
	return p.store.AddReferenceEntity(ctx, &types.ReferenceEntity{
		RefID:      pc.refID,
		EntityType: et,
		EntityID:   id,
		Sequence:   pc.seq,
	})
}

// Pa: <sex>[,"name"][,"note"]
func (p *Processor) buildPersona(ctx context.Context, pc *parseContext, payload string) (int64, error) {
	if strings.TrimSpace(payload) == "" {
		return 0, drop("empty persona")
	}
	sex, rest := ReadSex(payload)
	name, rest := ReadText(rest)
	note, _ := ReadText(rest)

	per := &types.Persona{RefID: pc.refID, Sex: sex, Note: note}
	if err := p.store.CreatePersona(ctx, per); err != nil {
		return 0, err
	}
	if err := p.provenance(ctx, pc, types.EntityPersona, per.ID); err != nil {
		return 0, err
	}
	if parts := types.SplitName(name); len(parts) > 0 {
		n := &types.Name{PerID: per.ID, Parts: parts}
		if err := p.store.CreateName(ctx, n); err != nil {
			return 0, err
		}
		if err := p.provenance(ctx, pc, types.EntityName, n.ID); err != nil {
			return 0, err
		}
	}
	pc.curPersona = per.ID
	return per.ID, nil
}

// IP: D-I<id>[,L-Pa<n>]
func (p *Processor) buildIndividualPersona(ctx context.Context, pc *parseContext, payload string) (int64, error) {
	indTok, rest := ReadText(payload)
	indID := pc.syms.FindID(indTok)
	if indID <= 0 {
		return 0, drop("no individual id")
	}
	perID := pc.curPersona
	if perTok, _ := ReadText(rest); perTok != "" {
		perID = pc.syms.FindIDOf(perTok, KindPersona)
	}
	if perID == 0 {
		return 0, drop("no persona")
	}

	per, err := p.store.GetPersona(ctx, perID)
	if err != nil {
		if errors.IsNotFoundError(err) {
			return 0, drop("persona does not exist")
		}
		return 0, err
	}
	if _, err := p.store.EnsureIndividual(ctx, indID, per.Sex); err != nil {
		return 0, err
	}
	link := &types.IndividualPersona{IndID: indID, PerID: perID, Conf: individualPersonaConf}
	if err := p.store.CreateIndividualPersona(ctx, link); err != nil {
		return 0, err
	}
	pc.individuals = append(pc.individuals, indID)
	return indID, nil
}

// N: "name"[,<style>]
func (p *Processor) buildName(ctx context.Context, pc *parseContext, payload string) (int64, error) {
	if !strings.HasPrefix(payload, `"`) {
		return 0, drop("name is not quoted")
	}
	if pc.curPersona == 0 {
		return 0, drop("no current persona")
	}
	full, rest := ReadText(payload)
	parts := types.SplitName(full)
	if len(parts) == 0 {
		return 0, drop("empty name")
	}

	style, ok := types.NameStyleFromKeyword(strings.TrimSpace(rest))
	if !ok {
		n, _, _ := ReadInt(rest)
		style = types.NameStyle(n)
	}
	name := &types.Name{PerID: pc.curPersona, Style: style, Parts: parts}
	if err := p.store.CreateName(ctx, name); err != nil {
		return 0, err
	}
	if err := p.provenance(ctx, pc, types.EntityName, name.ID); err != nil {
		return 0, err
	}
	return name.ID, nil
}

// D: "text" | <unit><n>,<base>
func (p *Processor) buildDate(ctx context.Context, pc *parseContext, payload string) (int64, error) {
	quoted := strings.HasPrefix(payload, `"`)
	text, rest := ReadText(payload)
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, drop("empty date")
	}

	var d dates.Date
	val, unit, isAge := dates.ParseAge(text)
	switch {
	case !quoted && isAge:
		baseTok, _ := ReadText(rest)
		baseID := pc.syms.FindIDOf(baseTok, KindDate)
		if baseID == 0 {
			return 0, drop("relative date has no base")
		}
		base, err := p.store.GetDate(ctx, baseID)
		if err != nil {
			if errors.IsNotFoundError(err) {
				return 0, drop("relative date base does not exist")
			}
			return 0, err
		}
		rel := &dates.Relative{Val: val, Unit: unit, BaseID: baseID, Type: dates.RelAgeRoundDown}
		if err := p.store.CreateRelativeDate(ctx, rel); err != nil {
			return 0, err
		}
		d = rel.Resolve(*base)
	default:
		d = dates.Parse(text)
	}

	if err := p.store.CreateDate(ctx, &d); err != nil {
		return 0, err
	}
	if err := p.provenance(ctx, pc, types.EntityDate, d.ID); err != nil {
		return 0, err
	}
	pc.curDate = d.ID
	return d.ID, nil
}

// P: "address"
func (p *Processor) buildPlace(ctx context.Context, pc *parseContext, payload string) (int64, error) {
	addr, _ := ReadText(payload)
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return 0, drop("empty place")
	}
	place := &types.Place{Parts: []types.PlacePart{{Type: types.PlacePartAddress, Val: addr}}}
	if err := p.store.CreatePlace(ctx, place); err != nil {
		return 0, err
	}
	if err := p.provenance(ctx, pc, types.EntityPlace, place.ID); err != nil {
		return 0, err
	}
	pc.curPlace = place.ID
	return place.ID, nil
}

// Ea: D-ET<type>[,L-Pa<n>[,<role>]]
func (p *Processor) buildEventa(ctx context.Context, pc *parseContext, payload string) (int64, error) {
	head, rest := ReadText(payload)
	var typeID int64
	if strings.HasPrefix(head, "D-ET") {
		typeID = pc.syms.FindID(head)
	}
	et, err := p.store.GetEventType(ctx, typeID)
	if err != nil {
		if errors.IsNotFoundError(err) {
			return 0, drop("unknown event type")
		}
		return 0, err
	}

	title := et.Name
	if perTok, _ := ReadText(rest); strings.HasPrefix(perTok, LocalPrefix+"Pa") {
		if perID := pc.syms.FindIDOf(perTok, KindPersona); perID != 0 {
			names, err := p.store.NamesForPersona(ctx, perID)
			if err != nil {
				return 0, err
			}
			if len(names) > 0 {
				title = et.Name + " of " + names[0].String()
			}
		}
	}

	ea := &types.Eventa{
		Title:   title,
		RefID:   pc.refID,
		TypeID:  et.ID,
		Date1ID: pc.curDate,
		PlaceID: pc.curPlace,
	}
	if pc.curDate != 0 {
		d, err := p.store.GetDate(ctx, pc.curDate)
		if err != nil {
			return 0, err
		}
		ea.DatePt = d.JDN
	}
	if err := p.store.CreateEventa(ctx, ea); err != nil {
		return 0, err
	}
	if err := p.provenance(ctx, pc, types.EntityEventa, ea.ID); err != nil {
		return 0, err
	}
	pc.curEventa, pc.curEventaType = ea.ID, ea.TypeID
	pc.eventas = append(pc.eventas, ea.ID)

	// the rest of the payload is the first participant
	if _, err := p.buildEventaPersona(ctx, pc, rest); err != nil {
		var d dropped
		if !errors.As(err, &d) {
			return 0, err
		}
	}
	return ea.ID, nil
}

// EP: <persona>[,<role>][,"note"]
func (p *Processor) buildEventaPersona(ctx context.Context, pc *parseContext, payload string) (int64, error) {
	if pc.curEventa == 0 {
		return 0, drop(errors.ErrNoCurrentEventa.Error())
	}
	perTok, rest := ReadText(payload)
	perID := pc.syms.FindIDOf(perTok, KindPersona)
	if perID == 0 {
		return 0, drop("no persona")
	}
	if _, err := p.store.GetPersona(ctx, perID); err != nil {
		if errors.IsNotFoundError(err) {
			return 0, drop("persona does not exist")
		}
		return 0, err
	}
	roleTok, rest := ReadText(rest)
	note, _ := ReadText(rest)

	roleID, err := p.resolveRole(ctx, pc, strings.TrimSpace(roleTok))
	if err != nil {
		return 0, err
	}
	ep := &types.EventaPersona{EventaID: pc.curEventa, PerID: perID, RoleID: roleID, Note: note}
	if err := p.store.CreateEventaPersona(ctx, ep); err != nil {
		return 0, err
	}
	return ep.ID, nil
}

// resolveRole reads a role token: an id (D-Ro12 or L-Ro1), free text
// naming an ad hoc role for the current eventa's type, or nothing.
func (p *Processor) resolveRole(ctx context.Context, pc *parseContext, tok string) (int64, error) {
	switch {
	case tok == "":
		return 0, nil
	case strings.HasPrefix(tok, "D-Ro"), strings.HasPrefix(tok, LocalPrefix+"Ro"):
		return pc.syms.FindIDOf(tok, KindRole), nil
	}
	role, err := p.store.FindOrCreateRole(ctx, pc.curEventaType, tok, false)
	if err != nil {
		return 0, err
	}
	return role.ID, nil
}

// Ro: [D-ET<type>,]"name"[,<prime>]
func (p *Processor) buildRole(ctx context.Context, pc *parseContext, payload string) (int64, error) {
	typeID := pc.curEventaType
	name, rest := ReadText(payload)
	if strings.HasPrefix(name, "D-ET") {
		typeID = pc.syms.FindID(name)
		name, rest = ReadText(rest)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, drop("empty role name")
	}
	prime, _ := ReadBool(rest)
	role, err := p.store.FindOrCreateRole(ctx, typeID, name, prime)
	if err != nil {
		return 0, err
	}
	return role.ID, nil
}

// EE: runs the matcher on the current eventa. The payload is unused.
func (p *Processor) buildEventLink(ctx context.Context, pc *parseContext, _ string) (int64, error) {
	if pc.curEventa == 0 {
		return 0, drop(errors.ErrNoCurrentEventa.Error())
	}
	res, err := p.linker.Link(ctx, pc.curEventa)
	if err != nil {
		return 0, err
	}
	pc.linked[pc.curEventa] = true
	return res.EventID, nil
}

// linkRemaining runs the matcher on every eventa of the document that no
// EE statement linked.
func (p *Processor) linkRemaining(ctx context.Context, pc *parseContext) (int, error) {
	n := 0
	for _, id := range pc.eventas {
		if pc.linked[id] {
			continue
		}
		if _, err := p.linker.Link(ctx, id); err != nil {
			return n, err
		}
		pc.linked[id] = true
		n++
	}
	return n, nil
}

// createFamilies gives each individual named in the document that has no
// family a new one, as husband when male and wife otherwise.
func (p *Processor) createFamilies(ctx context.Context, pc *parseContext) (int, error) {
	seen := make(map[int64]bool, len(pc.individuals))
	created := 0
	for _, indID := range pc.individuals {
		if seen[indID] {
			continue
		}
		seen[indID] = true

		ind, err := p.store.GetIndividual(ctx, indID)
		if err != nil {
			return created, err
		}
		if ind.FamID != 0 {
			continue
		}
		fam := &types.Family{}
		if ind.Sex == types.SexMale {
			fam.HusbID = indID
		} else {
			fam.WifeID = indID
		}
		if err := p.store.CreateFamily(ctx, fam); err != nil {
			return created, err
		}
		if err := p.store.SetIndividualFamily(ctx, indID, fam.ID); err != nil {
			return created, err
		}
		created++
	}
	return created, nil
}
