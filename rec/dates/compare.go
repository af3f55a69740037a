package dates

// Flags describe how one date range relates to another.
type Flags uint

const (
	FlagUnknown    Flags = 1 << iota // either date is off the calendar
	FlagEqual                        // same range
	FlagOverlap                      // ranges share at least one day
	FlagWithin                       // a lies inside b
	FlagContains                     // b lies inside a
	FlagWithinType                   // nested, and the inner date is finer grained
	FlagBefore                       // a ends before b starts
	FlagAfter                        // a starts after b ends
)

// Has reports whether all of want are set.
func (f Flags) Has(want Flags) bool { return f&want == want }

// Any reports whether any of want are set.
func (f Flags) Any(want Flags) bool { return f&want != 0 }

// Compare classifies a against b.
func Compare(a, b Date) Flags {
	if !a.IsKnown() || !b.IsKnown() {
		return FlagUnknown
	}
	if a.End() < b.JDN {
		return FlagBefore
	}
	if a.JDN > b.End() {
		return FlagAfter
	}

	f := FlagOverlap
	aInB := a.JDN >= b.JDN && a.End() <= b.End()
	bInA := b.JDN >= a.JDN && b.End() <= a.End()
	switch {
	case aInB && bInA:
		f |= FlagEqual
	case aInB:
		f |= FlagWithin
		if a.Prec < b.Prec {
			f |= FlagWithinType
		}
	case bInA:
		f |= FlagContains
		if b.Prec < a.Prec {
			f |= FlagWithinType
		}
	}
	return f
}
