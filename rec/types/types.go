// Package types defines the records kinlink persists: source references,
// personas and individuals, names, places, event assertions (eventas)
// and the canonical events they are merged into.
package types

import (
	"strconv"
	"time"
)

// Sex as stated by a source.
type Sex int

const (
	SexUnstated Sex = iota
	SexMale
	SexFemale
	SexUnknown
)

func (s Sex) String() string {
	switch s {
	case SexMale:
		return "male"
	case SexFemale:
		return "female"
	case SexUnknown:
		return "unknown"
	default:
		return "unstated"
	}
}

// Reference is an ingested source document.
type Reference struct {
	ID        int64
	Title     string
	Statement string
	UserRef   string
}

// EntityType names the table a provenance link points into.
type EntityType int

const (
	EntityUnstated EntityType = iota
	EntityPersona
	EntityName
	EntityDate
	EntityPlace
	EntityEventa
)

func (e EntityType) String() string {
	switch e {
	case EntityPersona:
		return "persona"
	case EntityName:
		return "name"
	case EntityDate:
		return "date"
	case EntityPlace:
		return "place"
	case EntityEventa:
		return "eventa"
	default:
		return "unstated"
	}
}

// ReferenceEntity is one provenance link, ordered within its reference.
type ReferenceEntity struct {
	ID         int64
	RefID      int64
	EntityType EntityType
	EntityID   int64
	Sequence   int
}

// Persona is one source's mention of a person.
type Persona struct {
	ID    int64
	RefID int64
	Sex   Sex
	Note  string
}

// Individual is the canonical person personas are linked to.
type Individual struct {
	ID    int64
	Sex   Sex
	FamID int64
	Note  string
}

// Family groups a couple; either partner may be absent (0).
type Family struct {
	ID     int64
	HusbID int64
	WifeID int64
}

// IndividualPersona links a persona to an individual with a confidence.
type IndividualPersona struct {
	ID    int64
	IndID int64
	PerID int64
	Conf  float64
	Note  string
}

// IngestEntry records the outcome of one document in one run.
type IngestEntry struct {
	ID        int64
	RunID     string
	RefID     int64
	Path      string
	Digest    string
	Outcome   string
	CreatedAt time.Time
}

// UserRef is the user-facing code of a reference.
func UserRef(refID int64) string {
	return "RD" + strconv.FormatInt(refID, 10)
}
