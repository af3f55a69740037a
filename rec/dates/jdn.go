package dates

// Gregorian calendar <-> Julian Day Number conversions.

// ToJDN returns the Julian Day Number of a Gregorian calendar day.
func ToJDN(year, month, day int) int64 {
	a := (14 - month) / 12
	y := int64(year) + 4800 - int64(a)
	m := int64(month) + 12*int64(a) - 3
	return int64(day) + (153*m+2)/5 + 365*y + floorDiv(y, 4) - floorDiv(y, 100) + floorDiv(y, 400) - 32045
}

// FromJDN returns the Gregorian calendar day for a Julian Day Number.
func FromJDN(jdn int64) (year, month, day int) {
	a := jdn + 32044
	b := floorDiv(4*a+3, 146097)
	c := a - floorDiv(146097*b, 4)
	d := floorDiv(4*c+3, 1461)
	e := c - floorDiv(1461*d, 4)
	m := floorDiv(5*e+2, 153)
	day = int(e - floorDiv(153*m+2, 5) + 1)
	month = int(m + 3 - 12*floorDiv(m, 10))
	year = int(100*b + d - 4800 + floorDiv(m, 10))
	return year, month, day
}

// DaysInMonth returns the length of a Gregorian month.
func DaysInMonth(year, month int) int {
	switch month {
	case 2:
		if isLeap(year) {
			return 29
		}
		return 28
	case 4, 6, 9, 11:
		return 30
	default:
		return 31
	}
}

func isLeap(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// addMonths moves a calendar day by n months, clamping the day to the
// length of the target month.
func addMonths(jdn int64, n int) int64 {
	y, m, d := FromJDN(jdn)
	total := y*12 + (m - 1) + n
	ny, nm := total/12, total%12+1
	if dim := DaysInMonth(ny, nm); d > dim {
		d = dim
	}
	return ToJDN(ny, nm, d)
}
