package types

// TypeGroup is the coarse classification of an event type that selects
// the matching policy.
type TypeGroup int

const (
	GroupUnstated TypeGroup = iota
	GroupBirth
	GroupNrBirth
	GroupFamUnion
	GroupFamOther
	GroupDeath
	GroupNrDeath
	GroupOther
	GroupPersonal
)

func (g TypeGroup) String() string {
	switch g {
	case GroupBirth:
		return "birth"
	case GroupNrBirth:
		return "nr-birth"
	case GroupFamUnion:
		return "family-union"
	case GroupFamOther:
		return "family-other"
	case GroupDeath:
		return "death"
	case GroupNrDeath:
		return "nr-death"
	case GroupOther:
		return "other"
	case GroupPersonal:
		return "personal"
	default:
		return "unstated"
	}
}

// OnePerIndividual reports whether an individual can have only one event
// of the group, so every candidate is the same occurrence.
func (g TypeGroup) OnePerIndividual() bool {
	switch g {
	case GroupBirth, GroupDeath, GroupPersonal:
		return true
	}
	return false
}

type EventType struct {
	ID    int64
	Group TypeGroup
	Name  string
}

// Role is a participant role scoped to an event type. Ad hoc roles
// (not Official) are collected once nothing references them.
type Role struct {
	ID       int64
	TypeID   int64
	Prime    bool
	Official bool
	Name     string
}

// Eventa is one source's claim that an event happened.
type Eventa struct {
	ID      int64
	Title   string
	RefID   int64
	TypeID  int64
	Date1ID int64
	Date2ID int64
	PlaceID int64
	Note    string
	DatePt  int64
}

// EventaPersona is one participant of an eventa.
type EventaPersona struct {
	ID       int64
	EventaID int64
	PerID    int64
	RoleID   int64
	Note     string
	PerSeq   int
}

// Event is the canonical record of a real occurrence.
type Event struct {
	ID      int64
	Title   string
	TypeID  int64
	Date1ID int64
	Date2ID int64
	PlaceID int64
	Note    string
	DatePt  int64
}

// EventEventa links an eventa to the event it was merged into.
type EventEventa struct {
	ID       int64
	EventID  int64
	EventaID int64
	Conf     float64
}

// IndividualEvent is one individual's participation in an event.
type IndividualEvent struct {
	ID      int64
	IndID   int64
	EventID int64
	RoleID  int64
	Note    string
	IndSeq  int
}
