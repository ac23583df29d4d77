package calendar

import "time"

// Event is the engine's view of a calendar event.
//
// Timed events carry Start/End timestamps with the invariant Start <= End.
// All-day events carry StartDay/EndDay calendar dates instead; their
// timestamp fields are zero and ignored. The engine never mutates events:
// all outputs are newly constructed groupings referencing the inputs.
type Event struct {
	ID     string
	Title  string
	Start  time.Time // timed events only
	End    time.Time
	AllDay bool
	StartDay Date // all-day events only
	EndDay   Date
	UserID string // empty = unassigned
	Color  string
	// Recurrence holds an optional RRULE ("FREQ=..."); see Expand.
	Recurrence string
}

// overlapsDay reports whether e overlaps calendar day d: any overlap
// counts, not just a same-day start, so multi-day events land in every
// day they span.
func (e Event) overlapsDay(d Date, loc *time.Location) bool {
	if e.AllDay {
		return !d.Before(e.StartDay) && !d.After(e.EndDay)
	}
	dayStart := d.Time(loc)
	nextDayStart := d.AddDays(1).Time(loc)
	// start <= endOfDay(d) && end >= startOfDay(d)
	return e.Start.Before(nextDayStart) && !e.End.Before(dayStart)
}

// startKey is the instant used for chronological ordering within a
// bucket; all-day events sort at midnight of their first day.
func (e Event) startKey(loc *time.Location) time.Time {
	if e.AllDay {
		return e.StartDay.Time(loc)
	}
	return e.Start
}
