// Package rec declares the Record Store surfaces the markup builder and
// the event matcher work against. rec/storage implements them on SQLite.
package rec

import (
	"context"

	"github.com/teranos/kinlink/rec/dates"
	"github.com/teranos/kinlink/rec/types"
)

// ReferenceStore persists source documents and their provenance links.
type ReferenceStore interface {
	// EnsureReference creates an empty reference row if id is new.
	EnsureReference(ctx context.Context, id int64) error
	SaveReference(ctx context.Context, ref *types.Reference) error
	GetReference(ctx context.Context, id int64) (*types.Reference, error)
	AddReferenceEntity(ctx context.Context, link *types.ReferenceEntity) error
	ListReferenceEntities(ctx context.Context, refID int64) ([]types.ReferenceEntity, error)
}

// PersonStore covers personas, individuals, families and names.
type PersonStore interface {
	CreatePersona(ctx context.Context, p *types.Persona) error
	GetPersona(ctx context.Context, id int64) (*types.Persona, error)

	// EnsureIndividual creates individual id with sex when it does not exist.
	EnsureIndividual(ctx context.Context, id int64, sex types.Sex) (created bool, err error)
	GetIndividual(ctx context.Context, id int64) (*types.Individual, error)
	CreateIndividualPersona(ctx context.Context, link *types.IndividualPersona) error
	// IndividualsForPersona lists the individuals a persona is linked to.
	IndividualsForPersona(ctx context.Context, perID int64) ([]int64, error)

	CreateFamily(ctx context.Context, fam *types.Family) error
	SetIndividualFamily(ctx context.Context, indID, famID int64) error

	// CreateName stores the name and its parts, appending it after the
	// owner's existing names.
	CreateName(ctx context.Context, n *types.Name) error
	NamesForPersona(ctx context.Context, perID int64) ([]types.Name, error)
}

// ValueStore covers dates and places.
type ValueStore interface {
	CreateDate(ctx context.Context, d *dates.Date) error
	GetDate(ctx context.Context, id int64) (*dates.Date, error)
	UpdateDate(ctx context.Context, d *dates.Date) error
	CreateRelativeDate(ctx context.Context, r *dates.Relative) error
	// CompareDates classifies date a against date b. A zero id compares as unknown.
	CompareDates(ctx context.Context, a, b int64) (dates.Flags, error)

	CreatePlace(ctx context.Context, p *types.Place) error
	GetPlace(ctx context.Context, id int64) (*types.Place, error)
}

// VocabularyStore covers event types and roles.
type VocabularyStore interface {
	GetEventType(ctx context.Context, id int64) (*types.EventType, error)
	GetRole(ctx context.Context, id int64) (*types.Role, error)
	// FindOrCreateRole returns the role called name for the type, creating
	// an ad hoc one when none exists.
	FindOrCreateRole(ctx context.Context, typeID int64, name string, prime bool) (*types.Role, error)
	// DeleteOrphanedRoles removes ad hoc roles nothing references.
	DeleteOrphanedRoles(ctx context.Context) (int64, error)
}

// EventaStore covers event assertions and their participants.
type EventaStore interface {
	CreateEventa(ctx context.Context, e *types.Eventa) error
	GetEventa(ctx context.Context, id int64) (*types.Eventa, error)
	// CreateEventaPersona appends a participant after the existing ones.
	CreateEventaPersona(ctx context.Context, ep *types.EventaPersona) error
	EventaPersonas(ctx context.Context, eventaID int64) ([]types.EventaPersona, error)
}

// EventStore covers canonical events and their links.
type EventStore interface {
	CreateEvent(ctx context.Context, e *types.Event) error
	GetEvent(ctx context.Context, id int64) (*types.Event, error)
	UpdateEvent(ctx context.Context, e *types.Event) error

	// LinkEventEventa records that eventa was merged into event. An
	// existing link takes the new confidence and is reported as not created.
	LinkEventEventa(ctx context.Context, link *types.EventEventa) (created bool, err error)
	EventLinksForEventa(ctx context.Context, eventaID int64) ([]types.EventEventa, error)

	// EventsForIndividual lists events of typeID the individual takes part in.
	EventsForIndividual(ctx context.Context, indID, typeID int64) ([]int64, error)
	IndividualEventExists(ctx context.Context, indID, eventID, roleID int64) (bool, error)
	// CreateIndividualEvent appends a participation row after the individual's existing ones.
	CreateIndividualEvent(ctx context.Context, ie *types.IndividualEvent) error
	IndividualEvents(ctx context.Context, eventID int64) ([]types.IndividualEvent, error)
}

// IngestLog records per-document outcomes of batch runs.
type IngestLog interface {
	RecordIngest(ctx context.Context, entry *types.IngestEntry) error
	IngestHistory(ctx context.Context, refID int64) ([]types.IngestEntry, error)
}

// MatchStore is what the event matcher needs.
type MatchStore interface {
	ValueStore
	VocabularyStore
	EventaStore
	EventStore
	IndividualsForPersona(ctx context.Context, perID int64) ([]int64, error)
}

// Store is the full Record Store.
type Store interface {
	ReferenceStore
	PersonStore
	ValueStore
	VocabularyStore
	EventaStore
	EventStore
	IngestLog
}
