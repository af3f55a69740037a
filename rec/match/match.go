// Package match links event assertions (eventas) to canonical events.
//
// Candidates are the events of the eventa's type that any individual
// behind its participants already takes part in. Birth, death and personal
// summary events are one per individual, so every candidate is taken as
// the same occurrence. Other groups keep only candidates whose first date
// overlaps the eventa's. With no candidate left a new event is created
// from the eventa. N matched candidates each get a link of confidence
// MaxConf/N, old links included: the ambiguity is recorded, not resolved.
//
// Family groups are matched on date overlap alone; participant sets are
// not compared. See DESIGN.md.
package match

import (
	"context"

	"go.uber.org/zap"

	"github.com/teranos/kinlink/errors"
	"github.com/teranos/kinlink/logger"
	"github.com/teranos/kinlink/rec"
	"github.com/teranos/kinlink/rec/dates"
	"github.com/teranos/kinlink/rec/types"
	"github.com/teranos/kinlink/sym"
)

// MaxConf is the confidence of an unambiguous eventa-to-event link.
const MaxConf = 0.999

// Result describes how one eventa was linked.
type Result struct {
	// EventID is the representative event: the first linked or created.
	EventID int64
	// Events are all events the eventa is now linked to by this match.
	Events []int64
	// Conf is the confidence given to each link.
	Conf float64
	// Created is true when a new canonical event was materialized.
	Created bool
}

// Matcher links eventas to canonical events through the Record Store.
type Matcher struct {
	store  rec.MatchStore
	logger *zap.SugaredLogger
}

func New(store rec.MatchStore, log *zap.SugaredLogger) *Matcher {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Matcher{store: store, logger: log}
}

// Link finds or creates the canonical event for eventa eventaID.
func (m *Matcher) Link(ctx context.Context, eventaID int64) (*Result, error) {
	ea, err := m.store.GetEventa(ctx, eventaID)
	if err != nil {
		return nil, err
	}
	et, err := m.store.GetEventType(ctx, ea.TypeID)
	if err != nil {
		return nil, err
	}
	eps, err := m.store.EventaPersonas(ctx, eventaID)
	if err != nil {
		return nil, err
	}

	candidates, err := m.candidates(ctx, ea, eps)
	if err != nil {
		return nil, err
	}
	if !et.Group.OnePerIndividual() && len(candidates) > 0 {
		if candidates, err = m.dateGate(ctx, ea, candidates); err != nil {
			return nil, err
		}
	}

	if len(candidates) == 0 {
		eventID, err := m.Materialize(ctx, ea, eps)
		if err != nil {
			return nil, err
		}
		m.logger.Debugw("Created canonical event",
			logger.FieldEventaID, eventaID, logger.FieldEventID, eventID,
			"group", et.Group.String(), logger.FieldSymbol, sym.Match)
		return &Result{EventID: eventID, Events: []int64{eventID}, Conf: MaxConf, Created: true}, nil
	}

	// every candidate, including events linked by an earlier match, shares
	// the same confidence so the links of one eventa sum to MaxConf
	conf := MaxConf / float64(len(candidates))
	onePer := et.Group.OnePerIndividual()
	for _, eventID := range candidates {
		if err := m.merge(ctx, ea, eps, eventID, conf, onePer); err != nil {
			return nil, err
		}
	}
	m.logger.Debugw("Linked eventa to existing events",
		logger.FieldEventaID, eventaID, "events", candidates, logger.FieldConf, conf,
		"group", et.Group.String(), logger.FieldSymbol, sym.Match)
	return &Result{EventID: candidates[0], Events: candidates, Conf: conf}, nil
}

// candidates collects, in discovery order and without repeats, the events
// of the eventa's type that its participants' individuals take part in.
// Events the eventa is already linked to come first.
func (m *Matcher) candidates(ctx context.Context, ea *types.Eventa, eps []types.EventaPersona) ([]int64, error) {
	seen := make(map[int64]bool)
	var out []int64
	add := func(id int64) {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}

	links, err := m.store.EventLinksForEventa(ctx, ea.ID)
	if err != nil {
		return nil, err
	}
	for _, l := range links {
		add(l.EventID)
	}

	for _, ep := range eps {
		inds, err := m.store.IndividualsForPersona(ctx, ep.PerID)
		if err != nil {
			return nil, err
		}
		for _, indID := range inds {
			events, err := m.store.EventsForIndividual(ctx, indID, ea.TypeID)
			if err != nil {
				return nil, err
			}
			for _, id := range events {
				add(id)
			}
		}
	}
	return out, nil
}

// dateGate keeps candidates whose first date overlaps the eventa's or
// nests within it at a finer grain. Events the eventa is already linked
// to always stay, so matching the same eventa again finds the same event.
func (m *Matcher) dateGate(ctx context.Context, ea *types.Eventa, candidates []int64) ([]int64, error) {
	links, err := m.store.EventLinksForEventa(ctx, ea.ID)
	if err != nil {
		return nil, err
	}
	linked := make(map[int64]bool, len(links))
	for _, l := range links {
		linked[l.EventID] = true
	}

	var kept []int64
	for _, id := range candidates {
		if linked[id] {
			kept = append(kept, id)
			continue
		}
		ev, err := m.store.GetEvent(ctx, id)
		if err != nil {
			return nil, err
		}
		flags, err := m.store.CompareDates(ctx, ea.Date1ID, ev.Date1ID)
		if err != nil {
			return nil, err
		}
		if flags.Any(dates.FlagOverlap | dates.FlagWithinType) {
			kept = append(kept, id)
		}
	}
	return kept, nil
}

// merge links the eventa to an existing event, widens the event's date to
// cover the eventa's and adds any missing participation rows. An existing
// link takes the new confidence.
func (m *Matcher) merge(ctx context.Context, ea *types.Eventa, eps []types.EventaPersona, eventID int64, conf float64, onePer bool) error {
	link := &types.EventEventa{EventID: eventID, EventaID: ea.ID, Conf: conf}
	if _, err := m.store.LinkEventEventa(ctx, link); err != nil {
		return err
	}
	if err := m.widen(ctx, ea, eventID); err != nil {
		return errors.Wrapf(err, "widen event %d", eventID)
	}
	return m.addParticipants(ctx, ea.TypeID, eventID, eps, onePer)
}

func (m *Matcher) widen(ctx context.Context, ea *types.Eventa, eventID int64) error {
	if ea.Date1ID == 0 {
		return nil
	}
	ev, err := m.store.GetEvent(ctx, eventID)
	if err != nil {
		return err
	}
	if ev.Date1ID == 0 {
		cp, err := m.copyDate(ctx, ea.Date1ID)
		if err != nil {
			return err
		}
		ev.Date1ID, ev.DatePt = cp.ID, cp.JDN
		return m.store.UpdateEvent(ctx, ev)
	}

	evDate, err := m.store.GetDate(ctx, ev.Date1ID)
	if err != nil {
		return err
	}
	eaDate, err := m.store.GetDate(ctx, ea.Date1ID)
	if err != nil {
		return err
	}
	wide := dates.Widen(*evDate, *eaDate)
	if wide == *evDate {
		return nil
	}
	if err := m.store.UpdateDate(ctx, &wide); err != nil {
		return err
	}
	if ev.DatePt != wide.JDN {
		ev.DatePt = wide.JDN
		return m.store.UpdateEvent(ctx, ev)
	}
	return nil
}

// Materialize creates a canonical event from the eventa with copies of its
// dates, links it at MaxConf and derives its participation rows.
func (m *Matcher) Materialize(ctx context.Context, ea *types.Eventa, eps []types.EventaPersona) (int64, error) {
	ev := &types.Event{
		Title:   ea.Title,
		TypeID:  ea.TypeID,
		PlaceID: ea.PlaceID,
		Note:    ea.Note,
		DatePt:  ea.DatePt,
	}
	d1, err := m.copyDate(ctx, ea.Date1ID)
	if err != nil {
		return 0, err
	}
	d2, err := m.copyDate(ctx, ea.Date2ID)
	if err != nil {
		return 0, err
	}
	ev.Date1ID, ev.Date2ID = d1.ID, d2.ID
	if err := m.store.CreateEvent(ctx, ev); err != nil {
		return 0, err
	}
	if _, err := m.store.LinkEventEventa(ctx, &types.EventEventa{EventID: ev.ID, EventaID: ea.ID, Conf: MaxConf}); err != nil {
		return 0, err
	}
	if err := m.addParticipants(ctx, ea.TypeID, ev.ID, eps, false); err != nil {
		return 0, err
	}
	return ev.ID, nil
}

// copyDate snapshots a date into a new record. Id 0 copies to the zero Date.
func (m *Matcher) copyDate(ctx context.Context, id int64) (dates.Date, error) {
	if id == 0 {
		return dates.Date{}, nil
	}
	d, err := m.store.GetDate(ctx, id)
	if err != nil {
		return dates.Date{}, err
	}
	cp := *d
	cp.ID, cp.RelID = 0, 0
	if err := m.store.CreateDate(ctx, &cp); err != nil {
		return dates.Date{}, err
	}
	return cp, nil
}

// addParticipants gives every individual behind each participant persona
// a row in the event with the participant's role, unless one exists. With
// onePer set an individual already in another event of the type is left
// out: an individual has one birth, death and personal summary.
func (m *Matcher) addParticipants(ctx context.Context, typeID, eventID int64, eps []types.EventaPersona, onePer bool) error {
	for _, ep := range eps {
		inds, err := m.store.IndividualsForPersona(ctx, ep.PerID)
		if err != nil {
			return err
		}
		for _, indID := range inds {
			if onePer {
				other, err := m.inOtherEvent(ctx, indID, typeID, eventID)
				if err != nil {
					return err
				}
				if other {
					continue
				}
			}
			exists, err := m.store.IndividualEventExists(ctx, indID, eventID, ep.RoleID)
			if err != nil {
				return err
			}
			if exists {
				continue
			}
			ie := &types.IndividualEvent{IndID: indID, EventID: eventID, RoleID: ep.RoleID, Note: ep.Note}
			if err := m.store.CreateIndividualEvent(ctx, ie); err != nil {
				return err
			}
		}
	}
	return nil
}

// inOtherEvent reports whether the individual takes part in an event of
// the type other than eventID.
func (m *Matcher) inOtherEvent(ctx context.Context, indID, typeID, eventID int64) (bool, error) {
	events, err := m.store.EventsForIndividual(ctx, indID, typeID)
	if err != nil {
		return false, err
	}
	for _, id := range events {
		if id != eventID {
			return true, nil
		}
	}
	return false, nil
}
