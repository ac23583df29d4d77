package calendar

import (
	"time"

	"github.com/pkg/errors"
	"github.com/teambition/rrule-go"
)

// maxOccurrences caps per-event expansion so a runaway rule cannot
// blow up a view computation.
const maxOccurrences = 1000

// Expand replaces recurring events with their concrete occurrences
// inside the visible range. Events without a Recurrence rule pass
// through untouched. Occurrence ids are derived from the base id and
// the instance time, keeping bucket tie-breaks deterministic.
func Expand(events []Event, r Range, loc *time.Location) ([]Event, error) {
	out := make([]Event, 0, len(events))
	for _, e := range events {
		if e.Recurrence == "" {
			out = append(out, e)
			continue
		}
		occs, err := expandEvent(e, r, loc)
		if err != nil {
			return nil, errors.Wrapf(err, "expanding event %s", e.ID)
		}
		out = append(out, occs...)
	}
	return out, nil
}

func expandEvent(e Event, r Range, loc *time.Location) ([]Event, error) {
	rule, err := rrule.StrToRRule(e.Recurrence)
	if err != nil {
		return nil, err
	}

	var dtstart time.Time
	var span time.Duration
	var spanDays int
	if e.AllDay {
		dtstart = e.StartDay.Time(loc)
		spanDays = e.StartDay.DaysUntil(e.EndDay)
	} else {
		dtstart = e.Start
		span = e.End.Sub(e.Start)
	}
	rule.DTStart(dtstart)

	// widen the window backwards so occurrences that started before the
	// range but still overlap it are kept
	windowStart := r.Start.Time(loc).Add(-span)
	if e.AllDay {
		windowStart = r.Start.AddDays(-spanDays).Time(loc)
	}
	windowEnd := r.End.AddDays(1).Time(loc).Add(-time.Nanosecond)

	starts := rule.Between(windowStart, windowEnd, true)
	if len(starts) > maxOccurrences {
		starts = starts[:maxOccurrences]
	}

	occs := make([]Event, 0, len(starts))
	for _, start := range starts {
		occ := e
		occ.Recurrence = ""
		occ.ID = e.ID + ":" + start.UTC().Format("20060102T150405Z")
		if e.AllDay {
			occ.StartDay = DateOf(start.In(loc))
			occ.EndDay = occ.StartDay.AddDays(spanDays)
		} else {
			occ.Start = start
			occ.End = start.Add(span)
		}
		occs = append(occs, occ)
	}
	return occs, nil
}
