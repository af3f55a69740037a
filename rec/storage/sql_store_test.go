package storage

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/teranos/kinlink/errors"
	"github.com/teranos/kinlink/rec/dates"
	"github.com/teranos/kinlink/rec/storage/testutil"
	"github.com/teranos/kinlink/rec/types"
)

func newTestStore(t *testing.T) *SQLStore {
	t.Helper()
	return NewSQLStore(testutil.SetupTestDB(t), zaptest.NewLogger(t).Sugar())
}

func TestReferences(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	require.NoError(t, store.EnsureReference(ctx, 42))
	require.NoError(t, store.EnsureReference(ctx, 42), "ensure is idempotent")

	ref, err := store.GetReference(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, "RD42", ref.UserRef)
	assert.Empty(t, ref.Title)

	require.NoError(t, store.SaveReference(ctx, &types.Reference{ID: 42, Title: "Census 1861", Statement: "<!-- HTML -->\n<div/>"}))
	ref, err = store.GetReference(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, "Census 1861", ref.Title)
	assert.Equal(t, "RD42", ref.UserRef)

	_, err = store.GetReference(ctx, 99)
	assert.True(t, errors.IsNotFoundError(err))
}

func TestReferenceEntities(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	require.NoError(t, store.EnsureReference(ctx, 1))

	for seq, et := range []types.EntityType{types.EntityPersona, types.EntityDate, types.EntityEventa} {
		require.NoError(t, store.AddReferenceEntity(ctx, &types.ReferenceEntity{
			RefID: 1, EntityType: et, EntityID: int64(10 + seq), Sequence: seq + 1,
		}))
	}

	links, err := store.ListReferenceEntities(ctx, 1)
	require.NoError(t, err)
	require.Len(t, links, 3)
	assert.Equal(t, types.EntityPersona, links[0].EntityType)
	assert.Equal(t, types.EntityEventa, links[2].EntityType)
	assert.Equal(t, 3, links[2].Sequence)
}

func TestPersonaRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	require.NoError(t, store.EnsureReference(ctx, 1))

	p := &types.Persona{RefID: 1, Sex: types.SexFemale, Note: "Spinster"}
	require.NoError(t, store.CreatePersona(ctx, p))
	require.NotZero(t, p.ID)

	got, err := store.GetPersona(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, *p, *got)

	t.Run("foreign key to reference", func(t *testing.T) {
		err := store.CreatePersona(ctx, &types.Persona{RefID: 999})
		assert.Error(t, err)
	})
}

func TestIndividuals(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	require.NoError(t, store.EnsureReference(ctx, 1))

	created, err := store.EnsureIndividual(ctx, 7, types.SexMale)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = store.EnsureIndividual(ctx, 7, types.SexFemale)
	require.NoError(t, err)
	assert.False(t, created, "existing individual is kept")

	ind, err := store.GetIndividual(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, types.SexMale, ind.Sex)

	p1 := &types.Persona{RefID: 1, Sex: types.SexMale}
	require.NoError(t, store.CreatePersona(ctx, p1))
	require.NoError(t, store.CreateIndividualPersona(ctx, &types.IndividualPersona{IndID: 7, PerID: p1.ID, Conf: 0.99}))
	_, err = store.EnsureIndividual(ctx, 8, types.SexMale)
	require.NoError(t, err)
	require.NoError(t, store.CreateIndividualPersona(ctx, &types.IndividualPersona{IndID: 8, PerID: p1.ID, Conf: 0.5}))

	ids, err := store.IndividualsForPersona(ctx, p1.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{7, 8}, ids)

	fam := &types.Family{HusbID: 7}
	require.NoError(t, store.CreateFamily(ctx, fam))
	require.NoError(t, store.SetIndividualFamily(ctx, 7, fam.ID))
	ind, err = store.GetIndividual(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, fam.ID, ind.FamID)

	assert.True(t, errors.IsNotFoundError(store.SetIndividualFamily(ctx, 404, fam.ID)))
}

func TestNames(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	require.NoError(t, store.EnsureReference(ctx, 1))
	p := &types.Persona{RefID: 1}
	require.NoError(t, store.CreatePersona(ctx, p))

	first := &types.Name{PerID: p.ID, Parts: types.SplitName("John Smith")}
	second := &types.Name{PerID: p.ID, Style: types.NameStyleAlias, Parts: types.SplitName("Jack")}
	require.NoError(t, store.CreateName(ctx, first))
	require.NoError(t, store.CreateName(ctx, second))
	assert.Equal(t, 1, first.Sequence)
	assert.Equal(t, 2, second.Sequence)

	names, err := store.NamesForPersona(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, names, 2)
	assert.Equal(t, "John Smith", names[0].String())
	assert.Equal(t, types.NamePartSurname, names[0].Parts[1].Type)
	assert.Equal(t, "Jack", names[1].String())
	assert.Equal(t, types.NameStyleAlias, names[1].Style)

	assert.Error(t, store.CreateName(ctx, &types.Name{}), "owner is required")
}

func TestDates(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	d := dates.Parse("3 Apr 1861")
	require.NoError(t, store.CreateDate(ctx, &d))
	got, err := store.GetDate(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, d, *got)

	month := dates.Parse("Apr 1861")
	require.NoError(t, store.CreateDate(ctx, &month))
	flags, err := store.CompareDates(ctx, d.ID, month.ID)
	require.NoError(t, err)
	assert.True(t, flags.Has(dates.FlagWithinType))

	flags, err = store.CompareDates(ctx, d.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, dates.FlagUnknown, flags)

	widened := dates.Widen(*got, dates.Parse("8 Apr 1861"))
	require.NoError(t, store.UpdateDate(ctx, &widened))
	got, err = store.GetDate(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, "3 Apr 1861 ~ 8 Apr 1861", got.Descrip)

	rel := &dates.Relative{Val: 32, Unit: dates.UnitYear, BaseID: d.ID, Type: dates.RelAgeRoundDown}
	require.NoError(t, store.CreateRelativeDate(ctx, rel))
	assert.NotZero(t, rel.ID)

	_, err = store.GetDate(ctx, 12345)
	assert.True(t, errors.IsNotFoundError(err))
}

func TestPlaces(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	p := &types.Place{Parts: []types.PlacePart{{Type: types.PlacePartAddress, Val: "Dover, Kent"}}}
	require.NoError(t, store.CreatePlace(ctx, p))

	got, err := store.GetPlace(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dover, Kent", got.Address())
	assert.Equal(t, 1, got.Parts[0].Sequence)
}

func TestVocabulary(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	et, err := store.GetEventType(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, "Residence", et.Name)
	assert.Equal(t, types.GroupOther, et.Group)

	cached, err := store.GetEventType(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, et, cached)

	_, err = store.GetEventType(ctx, 500)
	assert.True(t, errors.IsNotFoundError(err))

	t.Run("official role found by name", func(t *testing.T) {
		role, err := store.FindOrCreateRole(ctx, 1, "mother", false)
		require.NoError(t, err)
		assert.Equal(t, int64(2), role.ID)
		assert.True(t, role.Official)
	})

	t.Run("ad hoc role created once", func(t *testing.T) {
		role, err := store.FindOrCreateRole(ctx, 8, "Carpenter", true)
		require.NoError(t, err)
		assert.False(t, role.Official)
		assert.True(t, role.Prime)

		again, err := store.FindOrCreateRole(ctx, 8, "Carpenter", false)
		require.NoError(t, err)
		assert.Equal(t, role.ID, again.ID)

		fetched, err := store.GetRole(ctx, role.ID)
		require.NoError(t, err)
		assert.Equal(t, *role, *fetched)
	})
}

func TestDeleteOrphanedRoles(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	require.NoError(t, store.EnsureReference(ctx, 1))

	used, err := store.FindOrCreateRole(ctx, 8, "Carpenter", true)
	require.NoError(t, err)
	orphan, err := store.FindOrCreateRole(ctx, 8, "Sawyer", true)
	require.NoError(t, err)

	p := &types.Persona{RefID: 1}
	require.NoError(t, store.CreatePersona(ctx, p))
	ea := &types.Eventa{RefID: 1, TypeID: 8}
	require.NoError(t, store.CreateEventa(ctx, ea))
	require.NoError(t, store.CreateEventaPersona(ctx, &types.EventaPersona{EventaID: ea.ID, PerID: p.ID, RoleID: used.ID}))

	n, err := store.DeleteOrphanedRoles(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = store.GetRole(ctx, orphan.ID)
	assert.True(t, errors.IsNotFoundError(err))
	_, err = store.GetRole(ctx, used.ID)
	assert.NoError(t, err)
	_, err = store.GetRole(ctx, 11)
	assert.NoError(t, err, "official roles are never collected")
}

func TestEventasAndEvents(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	require.NoError(t, store.EnsureReference(ctx, 1))

	p := &types.Persona{RefID: 1, Sex: types.SexMale}
	require.NoError(t, store.CreatePersona(ctx, p))
	ea := &types.Eventa{Title: "Birth of John Smith", RefID: 1, TypeID: 1}
	require.NoError(t, store.CreateEventa(ctx, ea))

	require.NoError(t, store.CreateEventaPersona(ctx, &types.EventaPersona{EventaID: ea.ID, PerID: p.ID, RoleID: 1}))
	require.NoError(t, store.CreateEventaPersona(ctx, &types.EventaPersona{EventaID: ea.ID, PerID: p.ID, RoleID: 3}))
	eps, err := store.EventaPersonas(ctx, ea.ID)
	require.NoError(t, err)
	require.Len(t, eps, 2)
	assert.Equal(t, []int{1, 2}, []int{eps[0].PerSeq, eps[1].PerSeq})

	ev := &types.Event{Title: ea.Title, TypeID: 1}
	require.NoError(t, store.CreateEvent(ctx, ev))

	created, err := store.LinkEventEventa(ctx, &types.EventEventa{EventID: ev.ID, EventaID: ea.ID, Conf: 0.999})
	require.NoError(t, err)
	assert.True(t, created)
	created, err = store.LinkEventEventa(ctx, &types.EventEventa{EventID: ev.ID, EventaID: ea.ID, Conf: 0.5})
	require.NoError(t, err)
	assert.False(t, created, "relinking updates the existing link")

	links, err := store.EventLinksForEventa(ctx, ea.ID)
	require.NoError(t, err)
	require.Len(t, links, 1)
	assert.Equal(t, 0.5, links[0].Conf)

	_, err = store.EnsureIndividual(ctx, 5, types.SexMale)
	require.NoError(t, err)
	require.NoError(t, store.CreateIndividualEvent(ctx, &types.IndividualEvent{IndID: 5, EventID: ev.ID, RoleID: 1}))

	exists, err := store.IndividualEventExists(ctx, 5, ev.ID, 1)
	require.NoError(t, err)
	assert.True(t, exists)
	exists, err = store.IndividualEventExists(ctx, 5, ev.ID, 2)
	require.NoError(t, err)
	assert.False(t, exists)

	ids, err := store.EventsForIndividual(ctx, 5, 1)
	require.NoError(t, err)
	assert.Equal(t, []int64{ev.ID}, ids)
	ids, err = store.EventsForIndividual(ctx, 5, 2)
	require.NoError(t, err)
	assert.Empty(t, ids)

	ev.Note = "merged"
	require.NoError(t, store.UpdateEvent(ctx, ev))
	got, err := store.GetEvent(ctx, ev.ID)
	require.NoError(t, err)
	assert.Equal(t, "merged", got.Note)

	ies, err := store.IndividualEvents(ctx, ev.ID)
	require.NoError(t, err)
	require.Len(t, ies, 1)
	assert.Equal(t, 1, ies[0].IndSeq)
}

func TestIngestLog(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	entry := &types.IngestEntry{RunID: "run-1", RefID: 3, Path: "rd00/rd00003.htm", Digest: "abc", Outcome: "processed"}
	require.NoError(t, store.RecordIngest(ctx, entry))

	history, err := store.IngestHistory(ctx, 3)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "processed", history[0].Outcome)
	assert.False(t, history[0].CreatedAt.IsZero())

	counts, err := store.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts["ingest_log"])
	assert.Equal(t, int64(21), counts["event_type_role"])
}

func TestStorageFailurePropagates(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()

	mock.ExpectExec("INSERT INTO persona").WillReturnError(assert.AnError)

	store := NewSQLStore(mockDB, nil)
	err = store.CreatePersona(context.Background(), &types.Persona{RefID: 1})
	require.Error(t, err)
	assert.True(t, errors.Is(err, assert.AnError))
	assert.Contains(t, err.Error(), "create persona for reference 1")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMissingSchema(t *testing.T) {
	store := NewSQLStore(testutil.SetupEmptyDB(t), nil)
	_, err := store.GetEventa(context.Background(), 1)
	require.Error(t, err)
	assert.False(t, errors.IsNotFoundError(err))
}
