package dates

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJDN(t *testing.T) {
	assert.Equal(t, int64(2451545), ToJDN(2000, 1, 1))
	assert.Equal(t, int64(2400000), ToJDN(1858, 11, 16))

	y, m, d := FromJDN(ToJDN(1861, 4, 3))
	assert.Equal(t, []int{1861, 4, 3}, []int{y, m, d})

	assert.Equal(t, 29, DaysInMonth(1860, 2))
	assert.Equal(t, 28, DaysInMonth(1900, 2))
	assert.Equal(t, 29, DaysInMonth(2000, 2))
}

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		beg   int64
		end   int64
		prec  Precision
		qual  Qualifier
		shown string
	}{
		{"day", "3 Apr 1861", ToJDN(1861, 4, 3), ToJDN(1861, 4, 3), PrecDay, 0, "3 Apr 1861"},
		{"month", "Apr 1861", ToJDN(1861, 4, 1), ToJDN(1861, 4, 30), PrecMonth, 0, "Apr 1861"},
		{"year", "1861", ToJDN(1861, 1, 1), ToJDN(1861, 12, 31), PrecYear, 0, "1861"},
		{"full month name", "3 April 1861", ToJDN(1861, 4, 3), ToJDN(1861, 4, 3), PrecDay, 0, "3 Apr 1861"},
		{"about", "abt 1850", ToJDN(1850, 1, 1), ToJDN(1850, 12, 31), PrecYear, QualAbout, "abt 1850"},
		{"before", "bef Mar 1850", ToJDN(1850, 3, 1), ToJDN(1850, 3, 31), PrecMonth, QualBefore, "bef Mar 1850"},
		{"range", "1 Jan 1861 ~ 31 Mar 1861", ToJDN(1861, 1, 1), ToJDN(1861, 3, 31), PrecDay, QualRange, "1 Jan 1861 ~ 31 Mar 1861"},
		{"mixed range", "1861 ~ Mar 1862", ToJDN(1861, 1, 1), ToJDN(1862, 3, 31), PrecYear, QualRange, "1861 ~ 1862"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Parse(tt.text)
			require.True(t, d.IsKnown())
			assert.Equal(t, tt.beg, d.JDN)
			assert.Equal(t, tt.end, d.End())
			assert.Equal(t, tt.prec, d.Prec)
			assert.Equal(t, tt.qual, d.Type)
			assert.Equal(t, tt.text, d.Descrip)
			assert.Equal(t, tt.shown, Format(d))
		})
	}
}

func TestParseUnplaceable(t *testing.T) {
	for _, text := range []string{"", "Michaelmas", "31 Feb 1861", "Foo 1861", "1861 ~ 1850", "0"} {
		d := Parse(text)
		assert.False(t, d.IsKnown(), "text %q", text)
		assert.Equal(t, text, d.Descrip)
		assert.Equal(t, text, Format(d))
	}
}

func TestCompare(t *testing.T) {
	day := Parse("3 Apr 1861")
	month := Parse("Apr 1861")
	year := Parse("1861")
	later := Parse("1871")
	unknown := Parse("sometime")

	tests := []struct {
		name string
		a, b Date
		want Flags
	}{
		{"equal", day, Parse("3 Apr 1861"), FlagOverlap | FlagEqual},
		{"day within month", day, month, FlagOverlap | FlagWithin | FlagWithinType},
		{"year contains month", year, month, FlagOverlap | FlagContains | FlagWithinType},
		{"before", year, later, FlagBefore},
		{"after", later, year, FlagAfter},
		{"partial overlap", Parse("1860 ~ 1861"), Parse("1861 ~ 1862"), FlagOverlap},
		{"unknown", day, unknown, FlagUnknown},
		{"nested same precision", Parse("2 Apr 1861 ~ 4 Apr 1861"), Parse("1 Apr 1861 ~ 9 Apr 1861"), FlagOverlap | FlagWithin},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Compare(tt.a, tt.b))
		})
	}

	assert.True(t, Compare(day, month).Any(FlagOverlap|FlagWithinType))
	assert.False(t, Compare(year, later).Any(FlagOverlap|FlagWithinType))
	assert.True(t, Compare(day, month).Has(FlagWithin|FlagWithinType))
}

func TestWiden(t *testing.T) {
	t.Run("extends both ends", func(t *testing.T) {
		a := Parse("3 Apr 1861")
		a.ID = 7
		w := Widen(a, Parse("8 Apr 1861"))

		assert.Equal(t, int64(7), w.ID)
		assert.Equal(t, ToJDN(1861, 4, 3), w.JDN)
		assert.Equal(t, ToJDN(1861, 4, 8), w.End())
		assert.Equal(t, "3 Apr 1861 ~ 8 Apr 1861", w.Descrip)
		assert.True(t, Compare(Parse("8 Apr 1861"), w).Has(FlagWithin))
	})

	t.Run("contained date leaves range unchanged", func(t *testing.T) {
		a := Parse("1861")
		assert.Equal(t, a, Widen(a, Parse("3 Apr 1861")))
	})

	t.Run("coarser precision wins", func(t *testing.T) {
		w := Widen(Parse("3 Apr 1861"), Parse("1862"))
		assert.Equal(t, PrecYear, w.Prec)
		assert.Equal(t, "1861 ~ 1862", w.Descrip)
	})

	t.Run("unknown sides", func(t *testing.T) {
		known := Parse("1861")
		empty := Date{ID: 3}
		w := Widen(empty, known)
		assert.Equal(t, int64(3), w.ID)
		assert.Equal(t, known.JDN, w.JDN)
		assert.Equal(t, known, Widen(known, empty))
	})
}
