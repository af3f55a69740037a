package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitName(t *testing.T) {
	tests := []struct {
		full string
		want []NamePart
	}{
		{"John Smith", []NamePart{
			{Type: NamePartGiven, Val: "John", Sequence: 1},
			{Type: NamePartSurname, Val: "Smith", Sequence: 2},
		}},
		{"Mary Ann  Jones", []NamePart{
			{Type: NamePartGiven, Val: "Mary Ann", Sequence: 1},
			{Type: NamePartSurname, Val: "Jones", Sequence: 2},
		}},
		{"Bessie", []NamePart{{Type: NamePartGiven, Val: "Bessie", Sequence: 1}}},
		{"   ", nil},
	}
	for _, tt := range tests {
		t.Run(tt.full, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitName(tt.full))
		})
	}
}

func TestNameString(t *testing.T) {
	n := Name{Parts: SplitName("Mary Ann Jones")}
	assert.Equal(t, "Mary Ann Jones", n.String())
	assert.Equal(t, "", Name{}.String())
}

func TestNameStyleFromKeyword(t *testing.T) {
	style, ok := NameStyleFromKeyword("Married")
	assert.True(t, ok)
	assert.Equal(t, NameStyleMarried, style)

	_, ok = NameStyleFromKeyword("nickname")
	assert.False(t, ok)
}

func TestTypeGroupPolicy(t *testing.T) {
	for _, g := range []TypeGroup{GroupBirth, GroupDeath, GroupPersonal} {
		assert.True(t, g.OnePerIndividual(), g.String())
	}
	for _, g := range []TypeGroup{GroupUnstated, GroupNrBirth, GroupFamUnion, GroupFamOther, GroupNrDeath, GroupOther} {
		assert.False(t, g.OnePerIndividual(), g.String())
	}
}

func TestUserRef(t *testing.T) {
	assert.Equal(t, "RD142", UserRef(142))
}

func TestPlaceAddress(t *testing.T) {
	p := Place{Parts: []PlacePart{{Type: PlacePartAddress, Val: "Dover, Kent"}}}
	assert.Equal(t, "Dover, Kent", p.Address())
	assert.Equal(t, "", Place{}.Address())
}
