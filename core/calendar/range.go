package calendar

import "time"

// Range is an inclusive visible date window.
type Range struct {
	Start Date `json:"start"`
	End   Date `json:"end"`
}

// Contains reports whether d falls within the range.
func (r Range) Contains(d Date) bool {
	return !d.Before(r.Start) && !d.After(r.End)
}

// Days lists every date in the range in order.
func (r Range) Days() []Date {
	if r.End.Before(r.Start) {
		return nil
	}
	days := make([]Date, 0, r.Start.DaysUntil(r.End)+1)
	for d := r.Start; !d.After(r.End); d = d.AddDays(1) {
		days = append(days, d)
	}
	return days
}

// ComputeRange returns the inclusive start/end of the window a view
// renders around ref. Weeks start on Monday; the month grid is padded
// to full weeks so leading/trailing days of adjacent months show up.
// Pure and stable: identical inputs always yield identical output.
func ComputeRange(ref Date, view View) Range {
	switch view {
	case ViewWeek:
		start := mondayOnOrBefore(ref)
		return Range{Start: start, End: start.AddDays(6)}
	case ViewMonth, ViewAgenda:
		first := NewDate(ref.Year, ref.Month, 1)
		last := first.AddDays(daysInMonth(ref.Year, ref.Month) - 1)
		return Range{Start: mondayOnOrBefore(first), End: sundayOnOrAfter(last)}
	case ViewYear:
		return Range{
			Start: NewDate(ref.Year, time.January, 1),
			End:   NewDate(ref.Year, time.December, 31),
		}
	default: // day
		return Range{Start: ref, End: ref}
	}
}

func mondayOnOrBefore(d Date) Date {
	// time.Weekday has Sunday == 0
	return d.AddDays(-((int(d.Weekday()) + 6) % 7))
}

func sundayOnOrAfter(d Date) Date {
	return d.AddDays((7 - int(d.Weekday())) % 7)
}

func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
