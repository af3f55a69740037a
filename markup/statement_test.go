package markup

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	tests := map[string]Kind{
		"Pa1": KindPersona,
		"IP1": KindIndividualPersona,
		"Ea2": KindEventa,
		"EP3": KindEventaPersona,
		"Ro1": KindRole,
		"EE1": KindEventLink,
		"N1":  KindName,
		"D1":  KindDate,
		"P1":  KindPlace,
		"X1":  KindUnknown,
		"":    KindUnknown,
	}
	for local, want := range tests {
		assert.Equal(t, want, KindOf(local), local)
	}
}

func TestParseStatement(t *testing.T) {
	st, ok := ParseStatement(`L-Pa1:M,"John Smith"`)
	assert.True(t, ok)
	assert.Equal(t, Statement{Local: "Pa1", Kind: KindPersona, Payload: `M,"John Smith"`}, st)

	st, ok = ParseStatement("L-EE1:")
	assert.True(t, ok)
	assert.Equal(t, KindEventLink, st.Kind)
	assert.Empty(t, st.Payload)

	for _, in := range []string{"", "B: 2", "L-:x", "L:x", "X-Pa1:M"} {
		_, ok := ParseStatement(in)
		assert.False(t, ok, in)
	}
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "eventa-persona", KindEventaPersona.String())
	assert.Equal(t, "unknown", Kind(99).String())
}

func TestFindID(t *testing.T) {
	syms := NewLocalIDs()

	// a symbol used before its definition does not resolve
	assert.Zero(t, syms.FindID("L-Pa1"))

	syms.Register("Pa1", KindPersona, 17)
	assert.Equal(t, int64(17), syms.FindID("L-Pa1"))
	assert.Equal(t, 1, syms.Len())

	tests := map[string]int64{
		"D-I42":   42,
		"D-ET1":   1,
		"D-Ro12":  12,
		"D-I-5":   -5,
		"D-Ixyz":  0,
		"D-I":     0,
		"L-Pa":    0,
		"Pa1":     0,
		"X-I42":   0,
		"D-I7,L-": 7,
	}
	for ref, want := range tests {
		assert.Equal(t, want, syms.FindID(ref), ref)
	}
}

func TestFindIDOf(t *testing.T) {
	syms := NewLocalIDs()
	syms.Register("Pa1", KindPersona, 3)
	syms.Register("D1", KindDate, 8)

	assert.Equal(t, int64(3), syms.FindIDOf("L-Pa1", KindPersona))
	assert.Zero(t, syms.FindIDOf("L-D1", KindPersona), "wrong kind")
	assert.Equal(t, int64(8), syms.FindIDOf("L-D1", KindDate))
	assert.Equal(t, int64(12), syms.FindIDOf("D-Ro12", KindRole))
}
