package markup

import (
	"strconv"
	"strings"
)

// Symbol is a local id bound to a persisted record.
type Symbol struct {
	Kind Kind
	ID   int64
}

// LocalIDs maps a document's local symbols to persisted ids. A table
// lives for one document parse; symbols are only visible to statements
// that come after the one defining them.
type LocalIDs struct {
	syms map[string]Symbol
}

func NewLocalIDs() *LocalIDs {
	return &LocalIDs{syms: make(map[string]Symbol)}
}

// Register binds local to id. A later definition of the same symbol wins.
func (l *LocalIDs) Register(local string, kind Kind, id int64) {
	l.syms[local] = Symbol{Kind: kind, ID: id}
}

// Lookup returns the symbol bound to local.
func (l *LocalIDs) Lookup(local string) (Symbol, bool) {
	s, ok := l.syms[local]
	return s, ok
}

// Len is the number of bound symbols.
func (l *LocalIDs) Len() int { return len(l.syms) }

// FindID resolves a reference token. "L-<symbol>" resolves through the
// table and is 0 when the symbol is not yet defined. "D-<x><n>" embeds a
// persisted id directly: the three characters "D-<x>" are skipped and
// the first signed run of digits after them is the id, so "D-I42" and
// "D-ET1" read as 42 and 1. Anything else is 0.
func (l *LocalIDs) FindID(ref string) int64 {
	if len(ref) <= 3 {
		return 0
	}
	switch {
	case strings.HasPrefix(ref, LocalPrefix):
		return l.syms[ref[len(LocalPrefix):]].ID
	case ref[0] == 'D':
		return embeddedID(ref[3:])
	}
	return 0
}

// FindIDOf is FindID for a token that must name a record of kind. A
// local symbol bound to another kind resolves to 0.
func (l *LocalIDs) FindIDOf(ref string, kind Kind) int64 {
	if local, ok := strings.CutPrefix(ref, LocalPrefix); ok {
		if sym := l.syms[local]; sym.Kind == kind {
			return sym.ID
		}
		return 0
	}
	return l.FindID(ref)
}

// embeddedID reads the first optionally signed run of digits in s.
func embeddedID(s string) int64 {
	start := strings.IndexFunc(s, func(r rune) bool {
		return r == '-' || (r >= '0' && r <= '9')
	})
	if start < 0 {
		return 0
	}
	end := start + 1
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	id, err := strconv.ParseInt(s[start:end], 10, 64)
	if err != nil {
		return 0
	}
	return id
}
