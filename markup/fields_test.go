package markup

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/teranos/kinlink/rec/types"
)

func TestReadText(t *testing.T) {
	tests := []struct {
		in, text, rest string
	}{
		{`"John Smith",rest`, "John Smith", "rest"},
		{`"a, b",c`, "a, b", "c"},
		{`"unterminated`, "unterminated", ""},
		{`plain,rest`, "plain", "rest"},
		{`plain`, "plain", ""},
		{``, "", ""},
		{`"",x`, "", "x"},
	}
	for _, tt := range tests {
		text, rest := ReadText(tt.in)
		assert.Equal(t, tt.text, text, tt.in)
		assert.Equal(t, tt.rest, rest, tt.in)
	}
}

func TestReadSex(t *testing.T) {
	tests := []struct {
		in   string
		sex  types.Sex
		rest string
	}{
		{`M,"John"`, types.SexMale, `"John"`},
		{`F`, types.SexFemale, ""},
		{`U,x`, types.SexUnknown, "x"},
		{`,"Anon"`, types.SexUnstated, `"Anon"`},
		{`"Anon"`, types.SexUnstated, `"Anon"`},
		{``, types.SexUnstated, ""},
	}
	for _, tt := range tests {
		sex, rest := ReadSex(tt.in)
		assert.Equal(t, tt.sex, sex, tt.in)
		assert.Equal(t, tt.rest, rest, tt.in)
	}
}

func TestReadInt(t *testing.T) {
	n, rest, ok := ReadInt("42,x")
	assert.True(t, ok)
	assert.Equal(t, int64(42), n)
	assert.Equal(t, "x", rest)

	n, _, ok = ReadInt(" -7 ")
	assert.True(t, ok)
	assert.Equal(t, int64(-7), n)

	n, rest, ok = ReadInt("abc,y")
	assert.False(t, ok)
	assert.Zero(t, n)
	assert.Equal(t, "y", rest)
}

// The decoder's polarity is literal: "true" reads as false.
func TestReadBool(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"", false},
		{"0", false},
		{"true", false},
		{"TRUE", false},
		{"1", true},
		{"yes", true},
		{"false", true},
	}
	for _, tt := range tests {
		got, _ := ReadBool(tt.in)
		assert.Equal(t, tt.want, got, "ReadBool(%q)", tt.in)
	}

	_, rest := ReadBool("1,tail")
	assert.Equal(t, "tail", rest)
}
