package event

import (
	"strings"
	"testing"
	"time"

	"github.com/kymanzi/ofisi/core/calendar"
)

func TestExportICS(t *testing.T) {
	events := []calendar.Event{
		{
			ID:    "evt-1",
			Title: "Standup",
			Start: time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC),
			End:   time.Date(2025, 1, 15, 9, 15, 0, 0, time.UTC),
		},
		{
			ID:       "evt-2",
			Title:    "Offsite",
			AllDay:   true,
			StartDay: calendar.NewDate(2025, time.January, 16),
			EndDay:   calendar.NewDate(2025, time.January, 17),
		},
	}

	ics := ExportICS(events, "-//Ofisi//Calendar//EN")

	for _, want := range []string{
		"BEGIN:VCALENDAR",
		"PRODID:-//Ofisi//Calendar//EN",
		"SUMMARY:Standup",
		"DTSTART:20250115T090000Z",
		"SUMMARY:Offsite",
		"DTSTART;VALUE=DATE:20250116",
		// all-day DTEND is exclusive: the 17th inclusive becomes the 18th
		"DTEND;VALUE=DATE:20250118",
		"END:VCALENDAR",
	} {
		if !strings.Contains(ics, want) {
			t.Errorf("export missing %q", want)
		}
	}
}

func TestImportICSRoundTrip(t *testing.T) {
	events := []calendar.Event{
		{
			ID:    "evt-1",
			Title: "Standup",
			Start: time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC),
			End:   time.Date(2025, 1, 15, 9, 15, 0, 0, time.UTC),
		},
		{
			ID:       "evt-2",
			Title:    "Offsite",
			AllDay:   true,
			StartDay: calendar.NewDate(2025, time.January, 16),
			EndDay:   calendar.NewDate(2025, time.January, 17),
		},
	}

	parsed, skipped, err := ImportICS([]byte(ExportICS(events, "-//Ofisi//Calendar//EN")))
	if err != nil {
		t.Fatalf("ImportICS() failed: %v", err)
	}
	if len(skipped) != 0 {
		t.Errorf("skipped = %v; want none", skipped)
	}
	if len(parsed) != 2 {
		t.Fatalf("parsed %d events; want 2", len(parsed))
	}

	var standup, offsite NewEvent
	for _, ne := range parsed {
		switch ne.Title {
		case "Standup":
			standup = ne
		case "Offsite":
			offsite = ne
		}
	}

	if standup.AllDay {
		t.Error("timed event imported as all-day")
	}
	if want := time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC); !standup.Start.Equal(want) {
		t.Errorf("start = %v; want %v", standup.Start, want)
	}
	if want := time.Date(2025, 1, 15, 9, 15, 0, 0, time.UTC); !standup.End.Equal(want) {
		t.Errorf("end = %v; want %v", standup.End, want)
	}

	if !offsite.AllDay {
		t.Error("date-valued event imported as timed")
	}
	if offsite.StartDay.String() != "2025-01-16" || offsite.EndDay.String() != "2025-01-17" {
		t.Errorf("all-day span = %v..%v; want 2025-01-16..2025-01-17", offsite.StartDay, offsite.EndDay)
	}
}

func TestImportICSSkipsBrokenEntries(t *testing.T) {
	ics := strings.Join([]string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//Test//EN",
		"BEGIN:VEVENT",
		"UID:ok",
		"DTSTAMP:20250110T000000Z",
		"DTSTART:20250115T090000Z",
		"DTEND:20250115T100000Z",
		"SUMMARY:Fine",
		"END:VEVENT",
		"BEGIN:VEVENT",
		"UID:no-summary",
		"DTSTAMP:20250110T000000Z",
		"DTSTART:20250115T090000Z",
		"END:VEVENT",
		"BEGIN:VEVENT",
		"UID:no-start",
		"DTSTAMP:20250110T000000Z",
		"SUMMARY:Floating",
		"END:VEVENT",
		"END:VCALENDAR",
	}, "\r\n")

	parsed, skipped, err := ImportICS([]byte(ics))
	if err != nil {
		t.Fatalf("ImportICS() failed: %v", err)
	}
	if len(parsed) != 1 || parsed[0].Title != "Fine" {
		t.Errorf("parsed = %+v; want just the valid entry", parsed)
	}
	if len(skipped) != 2 {
		t.Errorf("skipped = %v; want 2 entries", skipped)
	}

	if _, _, err := ImportICS(nil); err == nil {
		t.Error("expected an error for an empty body")
	}
}
