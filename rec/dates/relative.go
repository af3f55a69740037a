package dates

import (
	"strconv"
)

// Unit of a relative age.
type Unit int

const (
	UnitUnstated Unit = iota
	UnitYear
	UnitMonth
	UnitWeek
	UnitDay
)

// RelativeType says how a relative value is applied to its base.
type RelativeType int

const (
	RelUnstated RelativeType = iota
	// RelAgeRoundDown: an age of Val units at the base date, as people
	// state ages (completed units, rounded down).
	RelAgeRoundDown
)

// Relative is a span measured back from a base date.
type Relative struct {
	ID     int64
	Val    int64
	Unit   Unit
	BaseID int64
	Type   RelativeType
}

var unitPrefixes = map[byte]Unit{
	'y': UnitYear,
	'm': UnitMonth,
	'w': UnitWeek,
	'd': UnitDay,
}

// ParseAge reads "y32", "m6", "w3" or "d10".
func ParseAge(s string) (val int64, unit Unit, ok bool) {
	if len(s) < 2 {
		return 0, UnitUnstated, false
	}
	unit, ok = unitPrefixes[s[0]]
	if !ok {
		return 0, UnitUnstated, false
	}
	val, err := strconv.ParseInt(s[1:], 10, 64)
	if err != nil || val < 0 {
		return 0, UnitUnstated, false
	}
	return val, unit, true
}

// Resolve computes the dates consistent with the relative age at base.
// Someone aged n years on day B was born after B-(n+1)y and on or before
// B-ny. A ranged base widens the result at both ends.
func (r Relative) Resolve(base Date) Date {
	if !base.IsKnown() || r.Unit == UnitUnstated {
		return Date{RelID: r.ID}
	}
	n := int(r.Val)
	latest := back(base.End(), r.Unit, n)
	earliest := back(base.JDN, r.Unit, n+1) + 1
	if r.Type != RelAgeRoundDown {
		earliest = back(base.JDN, r.Unit, n)
	}
	if earliest > latest {
		earliest = latest
	}

	d := Date{
		JDN:   earliest,
		Span:  latest - earliest,
		Prec:  PrecDay,
		Type:  QualRange,
		RelID: r.ID,
	}
	if d.Span == 0 {
		d.Type = 0
	}
	d.Descrip = Format(d)
	return d
}

func back(jdn int64, unit Unit, n int) int64 {
	switch unit {
	case UnitYear:
		return addMonths(jdn, -12*n)
	case UnitMonth:
		return addMonths(jdn, -n)
	case UnitWeek:
		return jdn - int64(7*n)
	default:
		return jdn - int64(n)
	}
}
