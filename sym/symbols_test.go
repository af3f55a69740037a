package sym

import (
	"testing"
	"unicode/utf8"
)

func TestLabelsRoundTrip(t *testing.T) {
	for glyph, label := range Labels {
		if got := FromLabel(label); got != glyph {
			t.Errorf("FromLabel(%q) = %q, want %q", label, got, glyph)
		}
	}
}

func TestFromLabelUnknown(t *testing.T) {
	if got := FromLabel("nope"); got != "" {
		t.Errorf("FromLabel(unknown) = %q, want empty", got)
	}
}

func TestGlyphsAreSingleRunes(t *testing.T) {
	for _, g := range []string{AM, IX, DB, Doc, Match, AS, Persona, Eventa, Event, Date, Place} {
		if n := utf8.RuneCountInString(g); n != 1 {
			t.Errorf("glyph %q has %d runes, want 1", g, n)
		}
	}
}
