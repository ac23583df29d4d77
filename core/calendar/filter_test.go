package calendar

import (
	"testing"
	"time"
)

func TestFilterByUserEmptySetIsIdentity(t *testing.T) {
	events := []Event{
		{ID: "a", UserID: "u1"},
		{ID: "b"},
	}
	got := FilterByUser(events, NewUserIDSet())
	if len(got) != len(events) || &got[0] != &events[0] {
		t.Fatal("empty filter must return the input slice unchanged")
	}
}

func TestFilterByUser(t *testing.T) {
	events := []Event{
		{ID: "a", UserID: "u1"},
		{ID: "b", UserID: "u2"},
		{ID: "c"}, // unassigned
	}

	tests := []struct {
		name string
		ids  UserIDSet
		want []string
	}{
		{name: "single user", ids: NewUserIDSet("u1"), want: []string{"a"}},
		{name: "multiple users", ids: NewUserIDSet("u1", "u2"), want: []string{"a", "b"}},
		{name: "unknown user matches nothing", ids: NewUserIDSet("u3"), want: []string{}},
		{
			// strict inclusion: unassigned events disappear under any active filter
			name: "unassigned excluded once a filter is active",
			ids:  NewUserIDSet("u1", "u2", "u3"),
			want: []string{"a", "b"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterByUser(events, tt.ids)
			assertIDs(t, got, tt.want...)
		})
	}
}

func TestFilterThenBucketAgree(t *testing.T) {
	// filtering before bucketing is how every view consumes the engine;
	// the filtered-out event must not surface in any bucket
	events := []Event{
		{ID: "mine", UserID: "u1", Start: ts(2025, time.January, 13, 9, 0), End: ts(2025, time.January, 13, 10, 0)},
		{ID: "theirs", UserID: "u2", Start: ts(2025, time.January, 13, 9, 0), End: ts(2025, time.January, 13, 10, 0)},
	}
	r := ComputeRange(NewDate(2025, time.January, 13), ViewWeek)
	buckets := BucketByDay(FilterByUser(events, NewUserIDSet("u1")), r, time.UTC)
	assertIDs(t, buckets[NewDate(2025, time.January, 13)], "mine")
}
