package event_test

import (
	"context"
	"testing"
	"time"

	"github.com/kymanzi/ofisi/core/calendar"
	"github.com/kymanzi/ofisi/core/event"
	dummydb "github.com/kymanzi/ofisi/storage/database/dummy"
)

func setup(t *testing.T) *event.Service {
	t.Helper()
	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("setup() failed: %v", err)
	}
	return event.NewService(dummydb.NewEventRepository(db))
}

func TestServiceCreate(t *testing.T) {
	svc := setup(t)
	ctx := context.Background()

	t.Run("timed", func(t *testing.T) {
		loc := time.FixedZone("UTC+2", 2*3600)
		evt, err := svc.Create(ctx, event.NewEvent{
			Title: "Standup",
			Start: time.Date(2025, 1, 15, 11, 0, 0, 0, loc),
			End:   time.Date(2025, 1, 15, 11, 15, 0, 0, loc),
		})
		if err != nil {
			t.Fatalf("Create() failed: %v", err)
		}
		if evt.ID == "" {
			t.Error("expected a generated id")
		}
		if evt.Start.Location() != time.UTC {
			t.Errorf("start stored in %v; want UTC", evt.Start.Location())
		}
		if want := time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC); !evt.Start.Equal(want) {
			t.Errorf("start = %v; want %v", evt.Start, want)
		}
	})

	t.Run("all-day", func(t *testing.T) {
		evt, err := svc.Create(ctx, event.NewEvent{
			Title:    "Offsite",
			AllDay:   true,
			StartDay: calendar.NewDate(2025, time.January, 16),
			Start:    time.Date(2025, 1, 16, 9, 0, 0, 0, time.UTC), // stray timestamp
		})
		if err != nil {
			t.Fatalf("Create() failed: %v", err)
		}
		if !evt.Start.IsZero() || !evt.End.IsZero() {
			t.Errorf("all-day event kept timestamps: %v / %v", evt.Start, evt.End)
		}
		if evt.EndDay != evt.StartDay {
			t.Errorf("end day = %v; want defaulted to start day %v", evt.EndDay, evt.StartDay)
		}
	})
}

func TestServiceUpdate(t *testing.T) {
	svc := setup(t)
	ctx := context.Background()

	evt, err := svc.Create(ctx, event.NewEvent{
		Title:  "Standup",
		Start:  time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC),
		End:    time.Date(2025, 1, 15, 9, 15, 0, 0, time.UTC),
		UserID: "mbr-ada",
	})
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	t.Run("partial update keeps the rest", func(t *testing.T) {
		got, err := svc.Update(ctx, evt.ID, event.UpdateEvent{Title: "Daily standup"})
		if err != nil {
			t.Fatalf("Update() failed: %v", err)
		}
		if got.Title != "Daily standup" {
			t.Errorf("title = %q", got.Title)
		}
		if !got.Start.Equal(evt.Start) || got.UserID != evt.UserID {
			t.Error("unrelated fields changed")
		}
	})

	t.Run("switch to all-day clears timestamps", func(t *testing.T) {
		allDay := true
		got, err := svc.Update(ctx, evt.ID, event.UpdateEvent{
			AllDay:   &allDay,
			StartDay: calendar.NewDate(2025, time.January, 15),
		})
		if err != nil {
			t.Fatalf("Update() failed: %v", err)
		}
		if !got.AllDay {
			t.Fatal("expected all-day")
		}
		if !got.Start.IsZero() || !got.End.IsZero() {
			t.Errorf("timestamps not cleared: %v / %v", got.Start, got.End)
		}
		if got.EndDay != got.StartDay {
			t.Errorf("end day = %v; want %v", got.EndDay, got.StartDay)
		}
	})

	t.Run("unassign user", func(t *testing.T) {
		empty := ""
		got, err := svc.Update(ctx, evt.ID, event.UpdateEvent{UserID: &empty})
		if err != nil {
			t.Fatalf("Update() failed: %v", err)
		}
		if got.UserID.Valid {
			t.Errorf("user id = %v; want unset", got.UserID)
		}
	})

	t.Run("unknown id", func(t *testing.T) {
		if _, err := svc.Update(ctx, "nope", event.UpdateEvent{Title: "x"}); err != event.ErrNotFound {
			t.Errorf("err = %v; want ErrNotFound", err)
		}
	})
}

func TestServiceView(t *testing.T) {
	svc := setup(t)
	ctx := context.Background()

	standup, err := svc.Create(ctx, event.NewEvent{
		Title:      "Standup",
		Start:      time.Date(2025, 1, 13, 9, 0, 0, 0, time.UTC),
		End:        time.Date(2025, 1, 13, 9, 15, 0, 0, time.UTC),
		UserID:     "mbr-ada",
		Recurrence: "FREQ=DAILY;COUNT=5",
	})
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	offsite, err := svc.Create(ctx, event.NewEvent{
		Title:    "Offsite",
		AllDay:   true,
		StartDay: calendar.NewDate(2025, time.January, 16),
		EndDay:   calendar.NewDate(2025, time.January, 17),
		UserID:   "mbr-grace",
	})
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	state := calendar.ViewState{
		Date: calendar.NewDate(2025, time.January, 15),
		View: calendar.ViewWeek,
	}

	t.Run("day granularity", func(t *testing.T) {
		data, err := svc.View(ctx, state, calendar.GranularityDay, time.UTC)
		if err != nil {
			t.Fatalf("View() failed: %v", err)
		}
		if data.Range.Start.String() != "2025-01-13" || data.Range.End.String() != "2025-01-19" {
			t.Fatalf("range = %v", data.Range)
		}
		if len(data.Days) != 7 {
			t.Fatalf("got %d day buckets; want 7", len(data.Days))
		}

		// the recurrence expands Mon..Fri, one occurrence per day
		for i := 0; i < 5; i++ {
			d := calendar.NewDate(2025, time.January, 13+i)
			var found bool
			for _, e := range data.Days[d] {
				if e.Recurrence != "" {
					t.Errorf("occurrence %q kept its rule", e.ID)
				}
				if e.Title == "Standup" {
					found = true
					if i > 0 && e.ID == standup.ID {
						t.Errorf("occurrence on %v reused the base id", d)
					}
				}
			}
			if !found {
				t.Errorf("no standup occurrence on %v", d)
			}
		}

		// the two-day all-day event spans Thu and Fri
		for _, day := range []int{16, 17} {
			d := calendar.NewDate(2025, time.January, day)
			var found bool
			for _, e := range data.Days[d] {
				if e.ID == offsite.ID {
					found = true
				}
			}
			if !found {
				t.Errorf("offsite missing on %v", d)
			}
		}
	})

	t.Run("hour granularity", func(t *testing.T) {
		data, err := svc.View(ctx, state, calendar.GranularityHour, time.UTC)
		if err != nil {
			t.Fatalf("View() failed: %v", err)
		}
		key := calendar.HourKey{Day: calendar.NewDate(2025, time.January, 15), Hour: 9}
		if len(data.Hours[key]) != 1 {
			t.Errorf("hour 9 on Wednesday = %+v; want one occurrence", data.Hours[key])
		}
		lane := data.AllDayLane[calendar.NewDate(2025, time.January, 16)]
		if len(lane) != 1 || lane[0].ID != offsite.ID {
			t.Errorf("all-day lane = %+v; want just the offsite", lane)
		}
	})

	t.Run("user filter", func(t *testing.T) {
		filtered := state
		filtered.UserIDs = calendar.NewUserIDSet("mbr-grace")
		data, err := svc.View(ctx, filtered, calendar.GranularityDay, time.UTC)
		if err != nil {
			t.Fatalf("View() failed: %v", err)
		}
		for d, bucket := range data.Days {
			for _, e := range bucket {
				if e.UserID != "mbr-grace" {
					t.Errorf("day %v leaked event %q of user %q", d, e.ID, e.UserID)
				}
			}
		}
	})

	t.Run("timezone shifts day membership", func(t *testing.T) {
		// 23:30 UTC on the 14th is already the 15th in UTC+2
		late, err := svc.Create(ctx, event.NewEvent{
			Title: "Late sync",
			Start: time.Date(2025, 1, 14, 23, 30, 0, 0, time.UTC),
			End:   time.Date(2025, 1, 14, 23, 45, 0, 0, time.UTC),
		})
		if err != nil {
			t.Fatalf("Create() failed: %v", err)
		}
		loc := time.FixedZone("UTC+2", 2*3600)
		data, err := svc.View(ctx, state, calendar.GranularityDay, loc)
		if err != nil {
			t.Fatalf("View() failed: %v", err)
		}
		var found bool
		for _, e := range data.Days[calendar.NewDate(2025, time.January, 15)] {
			if e.ID == late.ID {
				found = true
			}
		}
		if !found {
			t.Error("23:30 UTC event missing from the next local day")
		}
	})
}

func TestServiceReminders(t *testing.T) {
	svc := setup(t)
	ctx := context.Background()

	now := time.Date(2025, 1, 15, 8, 45, 0, 0, time.UTC)
	due, err := svc.Create(ctx, event.NewEvent{
		Title:  "Standup",
		Start:  now.Add(15 * time.Minute),
		End:    now.Add(30 * time.Minute),
		UserID: "mbr-ada",
	})
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if _, err = svc.Create(ctx, event.NewEvent{
		Title:  "Later",
		Start:  now.Add(2 * time.Hour),
		End:    now.Add(3 * time.Hour),
		UserID: "mbr-ada",
	}); err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	got, err := svc.DueReminders(ctx, now, time.Hour)
	if err != nil {
		t.Fatalf("DueReminders() failed: %v", err)
	}
	if len(got) != 1 || got[0].ID != due.ID {
		t.Fatalf("due = %+v; want just %q", got, due.Title)
	}

	if err := svc.MarkReminded(ctx, due.ID); err != nil {
		t.Fatalf("MarkReminded() failed: %v", err)
	}
	got, err = svc.DueReminders(ctx, now, time.Hour)
	if err != nil {
		t.Fatalf("DueReminders() failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("due after marking = %+v; want none", got)
	}
}
