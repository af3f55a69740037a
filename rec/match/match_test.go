package match

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/teranos/kinlink/rec/dates"
	"github.com/teranos/kinlink/rec/storage"
	"github.com/teranos/kinlink/rec/storage/testutil"
	"github.com/teranos/kinlink/rec/types"
)

const (
	typeBirth     = 1
	typeDeath     = 2
	typeMarriage  = 3
	typeResidence = 7

	roleBorn     = 1
	roleResident = 12
)

type fixture struct {
	t       *testing.T
	ctx     context.Context
	store   *storage.SQLStore
	matcher *Matcher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	log := zaptest.NewLogger(t).Sugar()
	store := storage.NewSQLStore(testutil.SetupTestDB(t), log)
	f := &fixture{t: t, ctx: context.Background(), store: store, matcher: New(store, log)}
	require.NoError(t, store.EnsureReference(f.ctx, 1))
	return f
}

// persona creates a persona linked to each of the given individuals.
func (f *fixture) persona(inds ...int64) int64 {
	f.t.Helper()
	p := &types.Persona{RefID: 1, Sex: types.SexMale}
	require.NoError(f.t, f.store.CreatePersona(f.ctx, p))
	for _, ind := range inds {
		_, err := f.store.EnsureIndividual(f.ctx, ind, types.SexMale)
		require.NoError(f.t, err)
		require.NoError(f.t, f.store.CreateIndividualPersona(f.ctx, &types.IndividualPersona{IndID: ind, PerID: p.ID, Conf: 0.99}))
	}
	return p.ID
}

func (f *fixture) date(text string) int64 {
	f.t.Helper()
	d := dates.Parse(text)
	require.NoError(f.t, f.store.CreateDate(f.ctx, &d))
	return d.ID
}

func (f *fixture) eventa(typeID, dateID, perID, roleID int64) int64 {
	f.t.Helper()
	ea := &types.Eventa{Title: "test", RefID: 1, TypeID: typeID, Date1ID: dateID}
	require.NoError(f.t, f.store.CreateEventa(f.ctx, ea))
	require.NoError(f.t, f.store.CreateEventaPersona(f.ctx, &types.EventaPersona{EventaID: ea.ID, PerID: perID, RoleID: roleID}))
	return ea.ID
}

func (f *fixture) eventDate(eventID int64) *dates.Date {
	f.t.Helper()
	ev, err := f.store.GetEvent(f.ctx, eventID)
	require.NoError(f.t, err)
	d, err := f.store.GetDate(f.ctx, ev.Date1ID)
	require.NoError(f.t, err)
	return d
}

func TestLinkMaterializesWithoutCandidates(t *testing.T) {
	f := newFixture(t)
	per := f.persona(100)
	dateID := f.date("3 Apr 1861")
	eaID := f.eventa(typeBirth, dateID, per, roleBorn)

	res, err := f.matcher.Link(f.ctx, eaID)
	require.NoError(t, err)
	assert.True(t, res.Created)
	assert.Equal(t, []int64{res.EventID}, res.Events)

	ev, err := f.store.GetEvent(f.ctx, res.EventID)
	require.NoError(t, err)
	assert.Equal(t, int64(typeBirth), ev.TypeID)
	assert.Equal(t, "test", ev.Title)
	assert.NotEqual(t, dateID, ev.Date1ID, "event date is a copy")
	assert.Equal(t, "3 Apr 1861", dates.Format(*f.eventDate(res.EventID)))

	links, err := f.store.EventLinksForEventa(f.ctx, eaID)
	require.NoError(t, err)
	require.Len(t, links, 1)
	assert.Equal(t, MaxConf, links[0].Conf)

	ies, err := f.store.IndividualEvents(f.ctx, res.EventID)
	require.NoError(t, err)
	require.Len(t, ies, 1)
	assert.Equal(t, int64(100), ies[0].IndID)
	assert.Equal(t, int64(roleBorn), ies[0].RoleID)
}

func TestLinkPersonaWithoutIndividual(t *testing.T) {
	f := newFixture(t)
	eaID := f.eventa(typeBirth, f.date("1861"), f.persona(), roleBorn)

	res, err := f.matcher.Link(f.ctx, eaID)
	require.NoError(t, err)
	assert.True(t, res.Created)

	ies, err := f.store.IndividualEvents(f.ctx, res.EventID)
	require.NoError(t, err)
	assert.Empty(t, ies)
}

func TestBirthMergesRegardlessOfDate(t *testing.T) {
	f := newFixture(t)
	first, err := f.matcher.Link(f.ctx, f.eventa(typeBirth, f.date("3 Apr 1861"), f.persona(100), roleBorn))
	require.NoError(t, err)

	// a second source gives a different year for the same person
	second, err := f.matcher.Link(f.ctx, f.eventa(typeBirth, f.date("1862"), f.persona(100), roleBorn))
	require.NoError(t, err)
	assert.False(t, second.Created)
	assert.Equal(t, first.EventID, second.EventID)
	assert.Equal(t, MaxConf, second.Conf)

	d := f.eventDate(first.EventID)
	assert.Equal(t, dates.ToJDN(1861, 4, 3), d.JDN)
	assert.Equal(t, dates.ToJDN(1862, 12, 31), d.End())

	ies, err := f.store.IndividualEvents(f.ctx, first.EventID)
	require.NoError(t, err)
	assert.Len(t, ies, 1, "existing participation is not repeated")
}

func TestLinkIsIdempotent(t *testing.T) {
	f := newFixture(t)
	for _, typeID := range []int64{typeBirth, typeResidence} {
		eaID := f.eventa(typeID, f.date("1861"), f.persona(200+typeID), roleResident)

		first, err := f.matcher.Link(f.ctx, eaID)
		require.NoError(t, err)
		again, err := f.matcher.Link(f.ctx, eaID)
		require.NoError(t, err)
		assert.Equal(t, first.EventID, again.EventID)
		assert.False(t, again.Created)

		links, err := f.store.EventLinksForEventa(f.ctx, eaID)
		require.NoError(t, err)
		assert.Len(t, links, 1)
	}

	t.Run("undated eventa", func(t *testing.T) {
		eaID := f.eventa(typeResidence, 0, f.persona(300), roleResident)
		first, err := f.matcher.Link(f.ctx, eaID)
		require.NoError(t, err)
		again, err := f.matcher.Link(f.ctx, eaID)
		require.NoError(t, err)
		assert.Equal(t, first.EventID, again.EventID)
	})
}

func TestOtherGroupsAreDateGated(t *testing.T) {
	f := newFixture(t)
	r1861, err := f.matcher.Link(f.ctx, f.eventa(typeResidence, f.date("1861"), f.persona(100), roleResident))
	require.NoError(t, err)

	r1871, err := f.matcher.Link(f.ctx, f.eventa(typeResidence, f.date("1871"), f.persona(100), roleResident))
	require.NoError(t, err)
	assert.True(t, r1871.Created)
	assert.NotEqual(t, r1861.EventID, r1871.EventID)

	// a finer date inside 1861 is the same residence
	nested, err := f.matcher.Link(f.ctx, f.eventa(typeResidence, f.date("Apr 1861"), f.persona(100), roleResident))
	require.NoError(t, err)
	assert.False(t, nested.Created)
	assert.Equal(t, []int64{r1861.EventID}, nested.Events)
}

func TestFamilyGroupUsesDateOverlapOnly(t *testing.T) {
	f := newFixture(t)
	m1, err := f.matcher.Link(f.ctx, f.eventa(typeMarriage, f.date("1885"), f.persona(100), 6))
	require.NoError(t, err)

	// a different bride, same groom and year: still merged
	ea := f.eventa(typeMarriage, f.date("Jun 1885"), f.persona(100), 6)
	require.NoError(t, f.store.CreateEventaPersona(f.ctx, &types.EventaPersona{EventaID: ea, PerID: f.persona(101), RoleID: 5}))
	m2, err := f.matcher.Link(f.ctx, ea)
	require.NoError(t, err)
	assert.Equal(t, m1.EventID, m2.EventID)

	ies, err := f.store.IndividualEvents(f.ctx, m1.EventID)
	require.NoError(t, err)
	assert.Len(t, ies, 2)
}

func TestConfidenceIsDilutedAcrossCandidates(t *testing.T) {
	f := newFixture(t)
	// two death events already recorded for one individual
	_, err := f.store.EnsureIndividual(f.ctx, 100, types.SexMale)
	require.NoError(t, err)
	var events []int64
	for _, text := range []string{"1901", "1903"} {
		ea := f.eventa(typeDeath, f.date(text), f.persona(), 4)
		eaRec, err := f.store.GetEventa(f.ctx, ea)
		require.NoError(t, err)
		id, err := f.matcher.Materialize(f.ctx, eaRec, nil)
		require.NoError(t, err)
		require.NoError(t, f.store.CreateIndividualEvent(f.ctx, &types.IndividualEvent{IndID: 100, EventID: id, RoleID: 4}))
		events = append(events, id)
	}

	eaID := f.eventa(typeDeath, f.date("2 Feb 1905"), f.persona(100), 4)
	res, err := f.matcher.Link(f.ctx, eaID)
	require.NoError(t, err)
	assert.ElementsMatch(t, events, res.Events)

	links, err := f.store.EventLinksForEventa(f.ctx, eaID)
	require.NoError(t, err)
	require.Len(t, links, 2)
	total := 0.0
	for _, l := range links {
		assert.InDelta(t, MaxConf/2, l.Conf, 1e-9)
		total += l.Conf
	}
	assert.LessOrEqual(t, total, MaxConf+1e-9)

	newDate := dates.ToJDN(1905, 2, 2)
	for _, id := range events {
		d := f.eventDate(id)
		assert.True(t, d.JDN <= newDate && newDate <= d.End(), "event %d widened", id)
	}
}

func TestRelinkSharesConfidenceWithLinkedEvent(t *testing.T) {
	f := newFixture(t)
	existing, err := f.matcher.Link(f.ctx, f.eventa(typeBirth, f.date("1861"), f.persona(100), roleBorn))
	require.NoError(t, err)

	// linked while its persona has no individual yet
	per := f.persona()
	eaID := f.eventa(typeBirth, f.date("1861"), per, roleBorn)
	own, err := f.matcher.Link(f.ctx, eaID)
	require.NoError(t, err)
	require.True(t, own.Created)

	_, err = f.store.EnsureIndividual(f.ctx, 100, types.SexMale)
	require.NoError(t, err)
	require.NoError(t, f.store.CreateIndividualPersona(f.ctx, &types.IndividualPersona{IndID: 100, PerID: per, Conf: 0.99}))

	again, err := f.matcher.Link(f.ctx, eaID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{own.EventID, existing.EventID}, again.Events)
	assert.InDelta(t, MaxConf/2, again.Conf, 1e-9)

	links, err := f.store.EventLinksForEventa(f.ctx, eaID)
	require.NoError(t, err)
	require.Len(t, links, 2)
	for _, l := range links {
		assert.InDelta(t, again.Conf, l.Conf, 1e-9)
	}

	events, err := f.store.EventsForIndividual(f.ctx, 100, typeBirth)
	require.NoError(t, err)
	assert.Equal(t, []int64{existing.EventID}, events)
}

func TestLinkStorageFailure(t *testing.T) {
	store := storage.NewSQLStore(testutil.SetupEmptyDB(t), nil)
	_, err := New(store, nil).Link(context.Background(), 1)
	assert.Error(t, err)
}
