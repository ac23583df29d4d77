package echoapi

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/kymanzi/ofisi/core/event"
)

func TestEventAPI_create(t *testing.T) {
	app := newTestApp(t)

	rec := app.request(t, http.MethodPost, "/v1/events", marshallObj(t, map[string]interface{}{
		"title": "Standup",
		"start": "2025-01-15T09:00:00Z",
		"end":   "2025-01-15T09:15:00Z",
		"color": "teal",
	}))
	checkCode(t, rec, http.StatusCreated)

	var evt event.Event
	decodeBody(t, rec, &evt)
	if evt.ID == "" {
		t.Error("expected a generated id")
	}
	if evt.Color.String != "teal" {
		t.Errorf("color = %q; want %q", evt.Color.String, "teal")
	}

	tests := []struct {
		name    string
		body    map[string]interface{}
		wantFld string
	}{
		{
			name:    "missing title",
			body:    map[string]interface{}{"start": "2025-01-15T09:00:00Z"},
			wantFld: "title",
		},
		{
			name: "end before start",
			body: map[string]interface{}{
				"title": "Backwards",
				"start": "2025-01-15T10:00:00Z",
				"end":   "2025-01-15T09:00:00Z",
			},
			wantFld: "end",
		},
		{
			name:    "all-day without start day",
			body:    map[string]interface{}{"title": "Retreat", "all_day": true},
			wantFld: "start_day",
		},
		{
			name: "unknown color",
			body: map[string]interface{}{
				"title": "Neon",
				"start": "2025-01-15T09:00:00Z",
				"color": "chartreuse",
			},
			wantFld: "color",
		},
		{
			name: "bad recurrence rule",
			body: map[string]interface{}{
				"title":      "Glitch",
				"start":      "2025-01-15T09:00:00Z",
				"recurrence": "FREQ=SOMETIMES",
			},
			wantFld: "recurrence",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := app.request(t, http.MethodPost, "/v1/events", marshallObj(t, tt.body))
			checkCode(t, rec, http.StatusBadRequest)

			var fldErrs map[string]string
			decodeBody(t, rec, &fldErrs)
			if _, ok := fldErrs[tt.wantFld]; !ok {
				t.Errorf("expected a field error for %q; got %v", tt.wantFld, fldErrs)
			}
		})
	}
}

func TestEventAPI_detail(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()

	evt, err := app.eventSvc.Create(ctx, event.NewEvent{
		Title: "Standup",
		Start: time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC),
		End:   time.Date(2025, 1, 15, 9, 15, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("creating fixture failed: %v", err)
	}

	rec := app.request(t, http.MethodGet, "/v1/events/"+evt.ID)
	checkCode(t, rec, http.StatusOK)

	rec = app.request(t, http.MethodGet, "/v1/events/nope")
	checkCode(t, rec, http.StatusNotFound)

	rec = app.request(t, http.MethodPut, "/v1/events/"+evt.ID,
		marshallObj(t, map[string]interface{}{"title": "Daily standup"}))
	checkCode(t, rec, http.StatusOK)
	var updated event.Event
	decodeBody(t, rec, &updated)
	if updated.Title != "Daily standup" {
		t.Errorf("title = %q; want %q", updated.Title, "Daily standup")
	}
	if !updated.Start.Equal(evt.Start) {
		t.Errorf("start changed on a title-only update: %v", updated.Start)
	}

	rec = app.request(t, http.MethodDelete, "/v1/events/"+evt.ID)
	checkCode(t, rec, http.StatusNoContent)
	if _, err := app.eventSvc.GetByID(ctx, evt.ID); err != event.ErrNotFound {
		t.Errorf("expected event gone; err = %v", err)
	}
}

func TestEventAPI_importICS(t *testing.T) {
	app := newTestApp(t)

	ics := strings.Join([]string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//Test//EN",
		"BEGIN:VEVENT",
		"UID:evt-1",
		"DTSTAMP:20250110T000000Z",
		"DTSTART:20250115T090000Z",
		"DTEND:20250115T100000Z",
		"SUMMARY:Imported meeting",
		"END:VEVENT",
		"BEGIN:VEVENT",
		"UID:evt-2",
		"DTSTAMP:20250110T000000Z",
		"DTSTART;VALUE=DATE:20250120",
		"DTEND;VALUE=DATE:20250121",
		"SUMMARY:Imported holiday",
		"END:VEVENT",
		"END:VCALENDAR",
	}, "\r\n")

	rec := app.request(t, http.MethodPost, "/v1/events/import", []byte(ics))
	checkCode(t, rec, http.StatusCreated)

	var resp ImportResponse
	decodeBody(t, rec, &resp)
	if len(resp.Created) != 2 {
		t.Fatalf("created = %d; want 2; skipped = %v", len(resp.Created), resp.Skipped)
	}

	var holiday event.Event
	for _, evt := range resp.Created {
		if evt.Title == "Imported holiday" {
			holiday = evt
		}
	}
	if !holiday.AllDay {
		t.Error("expected the date-valued entry to import as all-day")
	}
	if holiday.StartDay.String() != "2025-01-20" || holiday.EndDay.String() != "2025-01-20" {
		t.Errorf("all-day span = %v..%v; want a single day, exclusive DTEND collapsed", holiday.StartDay, holiday.EndDay)
	}

	t.Run("garbage body", func(t *testing.T) {
		rec := app.request(t, http.MethodPost, "/v1/events/import", []byte("not an ics"))
		checkCode(t, rec, http.StatusBadRequest)
	})
}
