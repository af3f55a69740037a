package markup

import "strings"

// LocalPrefix marks a statement that defines a document-local record.
const LocalPrefix = "L-"

// Kind is the record a local statement builds.
type Kind int

const (
	KindUnknown Kind = iota
	KindPersona
	KindIndividualPersona
	KindName
	KindDate
	KindPlace
	KindEventa
	KindEventaPersona
	KindRole
	KindEventLink
)

var kindNames = [...]string{
	KindUnknown:           "unknown",
	KindPersona:           "persona",
	KindIndividualPersona: "individual-persona",
	KindName:              "name",
	KindDate:              "date",
	KindPlace:             "place",
	KindEventa:            "eventa",
	KindEventaPersona:     "eventa-persona",
	KindRole:              "role",
	KindEventLink:         "event-link",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return kindNames[KindUnknown]
	}
	return kindNames[k]
}

// KindOf classifies a local symbol by its tag. Two-letter tags are
// checked before the one-letter N, D and P.
func KindOf(local string) Kind {
	if len(local) >= 2 {
		switch local[:2] {
		case "Pa":
			return KindPersona
		case "IP":
			return KindIndividualPersona
		case "Ea":
			return KindEventa
		case "EP":
			return KindEventaPersona
		case "Ro":
			return KindRole
		case "EE":
			return KindEventLink
		}
	}
	if local == "" {
		return KindUnknown
	}
	switch local[0] {
	case 'N':
		return KindName
	case 'D':
		return KindDate
	case 'P':
		return KindPlace
	}
	return KindUnknown
}

// Statement is one local record statement split into its parts.
type Statement struct {
	Local   string // symbol without the L- prefix, e.g. "Pa1"
	Kind    Kind
	Payload string
}

// ParseStatement splits "L-<symbol>:<payload>". It reports false for a
// statement that is not a local record or has fewer than three
// characters before its first ':'.
func ParseStatement(s string) (Statement, bool) {
	if !strings.HasPrefix(s, LocalPrefix) {
		return Statement{}, false
	}
	pos := strings.IndexByte(s, ':')
	if pos < 3 {
		return Statement{}, false
	}
	local := s[len(LocalPrefix):pos]
	return Statement{Local: local, Kind: KindOf(local), Payload: s[pos+1:]}, true
}
