package types

import "strings"

// NameStyle distinguishes the kinds of name a person is known by.
type NameStyle int

const (
	NameStyleDefault NameStyle = iota
	NameStyleBirth
	NameStyleMarried
	NameStyleAlias
)

// NameStyleFromKeyword maps Birth, Married and Alias (any case).
func NameStyleFromKeyword(s string) (NameStyle, bool) {
	switch strings.ToLower(s) {
	case "birth":
		return NameStyleBirth, true
	case "married":
		return NameStyleMarried, true
	case "alias":
		return NameStyleAlias, true
	}
	return NameStyleDefault, false
}

// NamePartType is the role of one word group in a name.
type NamePartType int

const (
	NamePartGiven NamePartType = iota + 1
	NamePartSurname
)

type NamePart struct {
	ID       int64
	NameID   int64
	Type     NamePartType
	Val      string
	Sequence int
}

// Name belongs to exactly one persona or individual.
type Name struct {
	ID       int64
	IndID    int64
	PerID    int64
	Style    NameStyle
	Sequence int
	Parts    []NamePart
}

// String joins the parts in sequence order.
func (n Name) String() string {
	vals := make([]string, 0, len(n.Parts))
	for _, p := range n.Parts {
		vals = append(vals, p.Val)
	}
	return strings.Join(vals, " ")
}

// SplitName breaks a full name into given names and a surname, the
// surname being the last word. A single word is a given name.
func SplitName(full string) []NamePart {
	words := strings.Fields(full)
	if len(words) == 0 {
		return nil
	}
	parts := make([]NamePart, 0, 2)
	given := words
	var surname string
	if len(words) > 1 {
		given, surname = words[:len(words)-1], words[len(words)-1]
	}
	parts = append(parts, NamePart{Type: NamePartGiven, Val: strings.Join(given, " "), Sequence: 1})
	if surname != "" {
		parts = append(parts, NamePart{Type: NamePartSurname, Val: surname, Sequence: 2})
	}
	return parts
}
