package event

import (
	"bytes"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/pkg/errors"

	"github.com/kymanzi/ofisi/core/calendar"
)

// ExportICS serializes the given (already expanded and filtered)
// events as an iCalendar feed.
func ExportICS(events []calendar.Event, prodID string) string {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(prodID)

	for _, e := range events {
		ve := cal.AddEvent(e.ID)
		ve.SetDtStampTime(time.Now().UTC())
		ve.SetSummary(e.Title)
		if e.AllDay {
			ve.SetAllDayStartAt(e.StartDay.Time(time.UTC))
			// DTEND is exclusive for all-day events
			ve.SetAllDayEndAt(e.EndDay.AddDays(1).Time(time.UTC))
		} else {
			ve.SetStartAt(e.Start)
			ve.SetEndAt(e.End)
		}
	}
	return cal.Serialize()
}

// ImportICS parses an iCalendar payload into NewEvent values ready for
// validation and creation. Events the parser cannot make sense of are
// skipped and reported by title in the second return value.
func ImportICS(body []byte) ([]NewEvent, []string, error) {
	if len(body) == 0 {
		return nil, nil, errors.New("empty ICS body")
	}
	cal, err := ical.ParseCalendar(bytes.NewReader(body))
	if err != nil {
		return nil, nil, errors.Wrap(err, "parsing ICS")
	}

	var (
		out     []NewEvent
		skipped []string
	)
	for _, ve := range cal.Events() {
		ne, err := parseVEvent(ve)
		if err != nil {
			title := "(untitled)"
			if p := ve.GetProperty(ical.ComponentPropertySummary); p != nil && p.Value != "" {
				title = p.Value
			}
			skipped = append(skipped, title)
			continue
		}
		out = append(out, ne)
	}
	return out, skipped, nil
}

func parseVEvent(ve *ical.VEvent) (NewEvent, error) {
	var ne NewEvent

	if p := ve.GetProperty(ical.ComponentPropertySummary); p != nil {
		ne.Title = p.Value
	}
	if ne.Title == "" {
		return ne, errors.New("missing SUMMARY")
	}
	if p := ve.GetProperty(ical.ComponentPropertyDescription); p != nil {
		ne.Description = p.Value
	}
	if p := ve.GetProperty(ical.ComponentPropertyRrule); p != nil {
		ne.Recurrence = p.Value
	}

	start, err := ve.GetStartAt()
	if err != nil {
		return ne, errors.Wrap(err, "reading DTSTART")
	}
	end, err := ve.GetEndAt()
	if err != nil {
		end = start
	}

	// all-day when DTSTART has VALUE=DATE or a date-only value
	if p := ve.GetProperty(ical.ComponentPropertyDtStart); p != nil {
		allDay := !strings.Contains(p.Value, "T")
		if params := p.ICalParameters; params != nil {
			if vs, ok := params["VALUE"]; ok && len(vs) > 0 && strings.EqualFold(vs[0], "DATE") {
				allDay = true
			}
		}
		ne.AllDay = allDay
	}

	if ne.AllDay {
		ne.StartDay = calendar.DateOf(start)
		// DTEND is exclusive for all-day events
		ne.EndDay = calendar.DateOf(end)
		if ne.EndDay.After(ne.StartDay) {
			ne.EndDay = ne.EndDay.AddDays(-1)
		}
	} else {
		ne.Start = start
		ne.End = end
	}
	return ne, nil
}
