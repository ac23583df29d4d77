// Package calendar implements the calendar view engine: visible-range
// computation, event bucketing and user filtering. Everything in this
// package is a pure function over in-memory values; there is no clock,
// no I/O and no shared state, so calls are idempotent and safe to
// repeat with identical inputs.
package calendar

import (
	"time"

	"github.com/pkg/errors"
)

const dateLayout = "2006-01-02"

// Date is a calendar date with no time-of-day component.
// All-day events are modeled with Date rather than a midnight timestamp,
// which removes a class of off-by-one timezone bugs.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{Year: year, Month: month, Day: day}
}

// DateOf returns the calendar date of t in t's location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// ParseDate parses a date in "2006-01-02" form.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, errors.Wrapf(err, "parsing date %q", s)
	}
	return DateOf(t), nil
}

// Time returns the midnight instant of d in loc.
func (d Date) Time(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

// AddDays returns d shifted by n calendar days (n may be negative).
func (d Date) AddDays(n int) Date {
	return DateOf(d.Time(time.UTC).AddDate(0, 0, n))
}

// DaysUntil returns the number of calendar days from d to o.
func (d Date) DaysUntil(o Date) int {
	return int(o.Time(time.UTC).Sub(d.Time(time.UTC)) / (24 * time.Hour))
}

func (d Date) Weekday() time.Weekday { return d.Time(time.UTC).Weekday() }

func (d Date) Before(o Date) bool {
	if d.Year != o.Year {
		return d.Year < o.Year
	}
	if d.Month != o.Month {
		return d.Month < o.Month
	}
	return d.Day < o.Day
}

func (d Date) After(o Date) bool { return o.Before(d) }

func (d Date) IsZero() bool { return d == Date{} }

func (d Date) String() string { return d.Time(time.UTC).Format(dateLayout) }

// MarshalText implements encoding.TextMarshaler; it also makes Date
// usable as a JSON object key.
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Date) UnmarshalText(text []byte) error {
	parsed, err := ParseDate(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
