package calendar

import (
	"sort"
	"time"
)

// HourKey addresses a single hour cell of a day/week grid.
type HourKey struct {
	Day  Date
	Hour int
}

// BucketByDay partitions events into per-day buckets over the visible
// range. Every day in the range gets a bucket, possibly empty. An event
// lands in each day it overlaps (multi-day events repeat across their
// whole span); a zero-duration event lands in exactly the day of its
// instant. Buckets carry the full event list: "+N more" truncation is a
// rendering concern. Within a bucket events are ordered by start time,
// ties broken by id.
func BucketByDay(events []Event, r Range, loc *time.Location) map[Date][]Event {
	buckets := make(map[Date][]Event, r.Start.DaysUntil(r.End)+1)
	for _, d := range r.Days() {
		var bucket []Event
		for _, e := range events {
			if e.overlapsDay(d, loc) {
				bucket = append(bucket, e)
			}
		}
		sortBucket(bucket, loc)
		buckets[d] = bucket
	}
	return buckets
}

// BucketByHour partitions events for the hourly grids of the day and
// week views. Timed events are keyed by their start's (day, hour) pair
// only; all-day events go to the per-day all-day lane, independent of
// the hourly grid.
func BucketByHour(events []Event, r Range, loc *time.Location) (map[HourKey][]Event, map[Date][]Event) {
	hours := make(map[HourKey][]Event)
	allDay := make(map[Date][]Event)

	for _, e := range events {
		if e.AllDay {
			continue
		}
		start := e.Start.In(loc)
		day := DateOf(start)
		if !r.Contains(day) {
			continue
		}
		key := HourKey{Day: day, Hour: start.Hour()}
		hours[key] = append(hours[key], e)
	}
	for key := range hours {
		sortBucket(hours[key], loc)
	}

	for _, d := range r.Days() {
		var lane []Event
		for _, e := range events {
			if e.AllDay && e.overlapsDay(d, loc) {
				lane = append(lane, e)
			}
		}
		sortBucket(lane, loc)
		allDay[d] = lane
	}
	return hours, allDay
}

func sortBucket(bucket []Event, loc *time.Location) {
	sort.SliceStable(bucket, func(i, j int) bool {
		ki, kj := bucket[i].startKey(loc), bucket[j].startKey(loc)
		if ki.Equal(kj) {
			return bucket[i].ID < bucket[j].ID
		}
		return ki.Before(kj)
	})
}
