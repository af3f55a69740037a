// Package dates holds genealogical date values: closed day ranges with a
// precision and qualifiers, parsed from free text or derived from a
// relative age, plus the comparison flags the matcher gates on.
package dates

import (
	"fmt"
	"strconv"
	"strings"
)

// Precision is the granularity a date was stated at. Larger is coarser.
type Precision int

const (
	PrecUnknown Precision = iota
	PrecDay
	PrecMonth
	PrecYear
)

// Qualifier flags carried from the source text.
type Qualifier int

const (
	QualAbout Qualifier = 1 << iota
	QualBefore
	QualAfter
	QualRange
)

// Date is the closed interval of days [JDN, JDN+Span]. JDN 0 means the
// text could not be placed on the calendar.
type Date struct {
	ID      int64
	JDN     int64
	Span    int64
	Prec    Precision
	Type    Qualifier
	Descrip string
	RelID   int64
}

// End is the last day covered.
func (d Date) End() int64 { return d.JDN + d.Span }

// IsKnown reports whether the date is on the calendar.
func (d Date) IsKnown() bool { return d.JDN != 0 }

var monthNames = []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

var qualifiers = map[string]Qualifier{
	"abt":    QualAbout,
	"about":  QualAbout,
	"c":      QualAbout,
	"circa":  QualAbout,
	"bef":    QualBefore,
	"before": QualBefore,
	"aft":    QualAfter,
	"after":  QualAfter,
}

// Parse reads "3 Apr 1861", "Apr 1861", "1861", an optional leading
// qualifier (abt, bef, aft) and ranges "A ~ B". Text it cannot place
// keeps its description with an unknown JDN.
func Parse(text string) Date {
	text = strings.TrimSpace(text)
	d := Date{Descrip: text}
	if text == "" {
		return d
	}

	body := text
	if fields := strings.Fields(body); len(fields) > 1 {
		if q, ok := qualifiers[strings.ToLower(strings.TrimSuffix(fields[0], "."))]; ok {
			d.Type |= q
			body = strings.Join(fields[1:], " ")
		}
	}

	if lo, hi, found := strings.Cut(body, "~"); found {
		b1, _, p1, ok1 := parsePeriod(lo)
		_, e2, p2, ok2 := parsePeriod(hi)
		if !ok1 || !ok2 || e2 < b1 {
			return Date{Descrip: text}
		}
		d.JDN, d.Span, d.Prec = b1, e2-b1, maxPrec(p1, p2)
		d.Type |= QualRange
		return d
	}

	beg, end, prec, ok := parsePeriod(body)
	if !ok {
		return Date{Descrip: text}
	}
	d.JDN, d.Span, d.Prec = beg, end-beg, prec
	return d
}

// parsePeriod reads [day] [month] year into its first and last day.
func parsePeriod(s string) (beg, end int64, prec Precision, ok bool) {
	fields := strings.Fields(s)
	switch len(fields) {
	case 1:
		y, err := strconv.Atoi(fields[0])
		if err != nil || y <= 0 {
			return 0, 0, 0, false
		}
		return ToJDN(y, 1, 1), ToJDN(y, 12, 31), PrecYear, true
	case 2:
		m := monthIndex(fields[0])
		y, err := strconv.Atoi(fields[1])
		if m == 0 || err != nil || y <= 0 {
			return 0, 0, 0, false
		}
		return ToJDN(y, m, 1), ToJDN(y, m, DaysInMonth(y, m)), PrecMonth, true
	case 3:
		day, err1 := strconv.Atoi(fields[0])
		m := monthIndex(fields[1])
		y, err2 := strconv.Atoi(fields[2])
		if err1 != nil || err2 != nil || m == 0 || y <= 0 || day < 1 || day > DaysInMonth(y, m) {
			return 0, 0, 0, false
		}
		j := ToJDN(y, m, day)
		return j, j, PrecDay, true
	}
	return 0, 0, 0, false
}

func monthIndex(s string) int {
	s = strings.TrimSuffix(s, ".")
	if len(s) < 3 {
		return 0
	}
	for i, name := range monthNames {
		if strings.EqualFold(s[:3], name) {
			return i + 1
		}
	}
	return 0
}

func maxPrec(a, b Precision) Precision {
	if a > b {
		return a
	}
	return b
}

// Format renders the date at its precision; a range whose ends render
// differently comes out as "A ~ B".
func Format(d Date) string {
	if !d.IsKnown() {
		return d.Descrip
	}
	beg := formatDay(d.JDN, d.Prec)
	end := formatDay(d.End(), d.Prec)
	s := beg
	if beg != end {
		s = beg + " ~ " + end
	}
	switch {
	case d.Type&QualAbout != 0:
		s = "abt " + s
	case d.Type&QualBefore != 0:
		s = "bef " + s
	case d.Type&QualAfter != 0:
		s = "aft " + s
	}
	return s
}

func formatDay(jdn int64, prec Precision) string {
	y, m, day := FromJDN(jdn)
	switch prec {
	case PrecYear:
		return strconv.Itoa(y)
	case PrecMonth:
		return fmt.Sprintf("%s %d", monthNames[m-1], y)
	default:
		return fmt.Sprintf("%d %s %d", day, monthNames[m-1], y)
	}
}

// Widen returns a with its range extended to cover b. The result keeps
// a's identity and takes the coarser precision.
func Widen(a, b Date) Date {
	if !b.IsKnown() {
		return a
	}
	if !a.IsKnown() {
		b.ID, b.RelID = a.ID, 0
		return b
	}
	beg, end := a.JDN, a.End()
	if b.JDN < beg {
		beg = b.JDN
	}
	if b.End() > end {
		end = b.End()
	}
	if beg == a.JDN && end == a.End() {
		return a
	}
	w := a
	w.JDN, w.Span = beg, end-beg
	w.Prec = maxPrec(a.Prec, b.Prec)
	w.Type = (a.Type &^ (QualBefore | QualAfter)) | QualRange
	w.RelID = 0
	w.Descrip = Format(w)
	return w
}
