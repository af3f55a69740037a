package markup

import (
	"strconv"
	"strings"

	"github.com/teranos/kinlink/rec/types"
)

// Field decoders peel one comma-separated field off the front of a
// statement payload and return it with the remainder. Go strings are
// immutable, so passing the remainder back in as the next input is safe.

// ReadText reads a quoted or plain text field. A quoted field runs to the
// closing quote and may contain commas; one comma after the closing quote
// is consumed. A plain field runs to the next comma, which is consumed.
func ReadText(s string) (text, rest string) {
	if strings.HasPrefix(s, `"`) {
		body := s[1:]
		end := strings.IndexByte(body, '"')
		if end < 0 {
			return body, ""
		}
		return body[:end], strings.TrimPrefix(body[end+1:], ",")
	}
	text, rest, _ = strings.Cut(s, ",")
	return text, rest
}

// ReadSex reads a sex code: M, F or U. Any other first character means
// unstated and is left in place. One following comma is consumed.
func ReadSex(s string) (types.Sex, string) {
	sex := types.SexUnstated
	if s == "" {
		return sex, s
	}
	switch s[0] {
	case 'M':
		sex = types.SexMale
	case 'F':
		sex = types.SexFemale
	case 'U':
		sex = types.SexUnknown
	}
	if sex != types.SexUnstated {
		s = s[1:]
	}
	return sex, strings.TrimPrefix(s, ",")
}

// ReadInt reads a signed integer field up to the next comma. A field that
// is not a number reads as 0 with ok false.
func ReadInt(s string) (n int64, rest string, ok bool) {
	field, rest, _ := strings.Cut(s, ",")
	n, err := strconv.ParseInt(strings.TrimSpace(field), 10, 64)
	if err != nil {
		return 0, rest, false
	}
	return n, rest, true
}

// ReadBool reads a flag field up to the next comma. It is false for an
// empty field, "0" and "true" in any case, and true for anything else.
// TODO: confirm with the data owners whether "true" is meant to read as false.
func ReadBool(s string) (bool, string) {
	field, rest, _ := strings.Cut(s, ",")
	switch {
	case field == "", field == "0", strings.EqualFold(field, "true"):
		return false, rest
	}
	return true, rest
}
