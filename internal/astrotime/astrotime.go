// Package astrotime implements the day-number time scale used by the orbital
// and solar prediction code.
//
// A moment is a whole day number plus a fraction of the day in [0,1). Day
// numbers come from a truncated-polynomial mapping of the civil date that is
// continuous across leap years for 1901-2099, and relate to the Julian Date by
//
//	JD(midnight) = DN + 1721409.5
//
// All times are UTC. The representation is deliberately cheap: propagation
// needs only differences of day numbers and fractions, never full calendar
// arithmetic.
package astrotime

import (
	"fmt"
	"math"
	"time"
)

// daysPerYear is the calendar polynomial year length (Julian year).
const daysPerYear = 365.25

// Time is a UTC moment as a whole day number and a fraction of the day.
type Time struct {
	DN int64   // day number
	TN float64 // fraction of the day, [0,1)
}

// DayNumber converts a civil date to a day number. Valid for 1901-2099;
// dates outside that range silently get the polynomial's wrong answer.
// Day 0 of a month is accepted and means the last day of the previous month.
func DayNumber(year, month, day int) int64 {
	if month < 3 {
		month += 12
		year--
	}
	return int64(float64(year)*daysPerYear) + int64(float64(month+1)*30.6) + int64(day-428)
}

// CivilDate converts a day number back to a civil date. Exact inverse of
// DayNumber over the valid 1901-2099 range.
func CivilDate(dn int64) (year, month, day int) {
	d := dn + 428
	year = int((float64(d) - 122.1) / daysPerYear)
	d -= int64(float64(year) * daysPerYear)
	month = int(float64(d) / 30.61)
	d -= int64(float64(month) * 30.6)
	month--
	if month > 12 {
		month -= 12
		year++
	}
	day = int(d)
	return year, month, day
}

// New builds a Time from a civil date and UTC clock time.
func New(year, month, day, hour, min, sec int) Time {
	return Time{
		DN: DayNumber(year, month, day),
		TN: (float64(hour)*3600.0 + float64(min)*60.0 + float64(sec)) / 86400.0,
	}
}

// FromTime converts a time.Time (any location) to a Time.
func FromTime(t time.Time) Time {
	t = t.UTC()
	secs := float64(t.Hour()*3600+t.Minute()*60+t.Second()) + float64(t.Nanosecond())/1e9
	return Time{DN: DayNumber(t.Year(), int(t.Month()), t.Day()), TN: secs / 86400.0}
}

// Civil returns the civil date and clock time. The clock is extracted to the
// nearest second so that New followed by Civil round-trips exactly; a fraction
// that rounds to 86400 carries into the next day.
func (t Time) Civil() (year, month, day, hour, min, sec int) {
	dn := t.DN
	s := int64(math.Round(t.TN * 86400.0))
	if s >= 86400 {
		s -= 86400
		dn++
	}
	year, month, day = CivilDate(dn)
	hour = int(s / 3600)
	min = int(s % 3600 / 60)
	sec = int(s % 60)
	return year, month, day, hour, min, sec
}

// ToTime converts to a time.Time in UTC, at second granularity.
func (t Time) ToTime() time.Time {
	y, mo, d, h, mi, s := t.Civil()
	return time.Date(y, time.Month(mo), d, h, mi, s, 0, time.UTC)
}

// Add returns the Time advanced by days (negative moves backward). The
// fraction is renormalized with floor semantics so it stays in [0,1).
func (t Time) Add(days float64) Time {
	tn := t.TN + days
	f := math.Floor(tn)
	t.DN += int64(f)
	t.TN = tn - f
	if t.TN >= 1 { // float rounding at the day boundary
		t.DN++
		t.TN--
	}
	return t
}

// RoundUp returns the Time advanced to the next integer multiple of step
// (in days). A fraction already on a multiple advances by a full step.
func (t Time) RoundUp(step float64) Time {
	inc := step - math.Mod(t.TN, step)
	return t.Add(inc)
}

// Sub returns t minus u in days.
func (t Time) Sub(u Time) float64 {
	return float64(t.DN-u.DN) + (t.TN - u.TN)
}

// Before reports whether t is earlier than u.
func (t Time) Before(u Time) bool {
	return t.DN < u.DN || (t.DN == u.DN && t.TN < u.TN)
}

// String formats the moment as "2019-05-11 00:53:13".
func (t Time) String() string {
	y, mo, d, h, mi, s := t.Civil()
	return fmt.Sprintf("%4d-%02d-%02d %02d:%02d:%02d", y, mo, d, h, mi, s)
}
