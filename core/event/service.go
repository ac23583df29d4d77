package event

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"

	"github.com/kymanzi/ofisi/core/calendar"
)

var (
	// errors
	ErrNotFound = errors.New("event not found")
)

type (
	Repository interface {
		CreateEvent(ctx context.Context, evt Event) (Event, error)
		GetEventByID(ctx context.Context, id string) (Event, error)
		QueryAllEvents(ctx context.Context) ([]Event, error)
		// FilterEvents applies AND operation on available QueryFilter fields.
		// The From/To window matches any overlap, and recurring events are
		// always included so the caller can expand them over the window.
		FilterEvents(ctx context.Context, filter QueryFilter) ([]Event, error)
		UpdateEvent(ctx context.Context, evt Event) (Event, error)
		DeleteEventsByID(ctx context.Context, ids ...string) error

		// reminder support
		QueryDueReminders(ctx context.Context, from, to time.Time) ([]Event, error)
		MarkReminderSent(ctx context.Context, ids ...string) error
	}

	Service struct {
		repo Repository
	}

	// ViewData is the computed payload the view renderers consume. All
	// five view modes are assembled from the same three engine calls.
	ViewData struct {
		State       calendar.ViewState
		Granularity calendar.Granularity
		Range       calendar.Range
		Days        map[calendar.Date][]calendar.Event
		Hours       map[calendar.HourKey][]calendar.Event
		AllDayLane  map[calendar.Date][]calendar.Event
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Create(ctx context.Context, ne NewEvent) (Event, error) {
	now := time.Now().UTC()
	evt := Event{
		ID:          uuid.New().String(),
		Title:       ne.Title,
		Description: null.NewString(ne.Description, ne.Description != ""),
		Start:       ne.Start.UTC(),
		End:         ne.End.UTC(),
		AllDay:      ne.AllDay,
		StartDay:    ne.StartDay,
		EndDay:      ne.EndDay,
		UserID:      null.NewString(ne.UserID, ne.UserID != ""),
		Color:       null.NewString(ne.Color, ne.Color != ""),
		Recurrence:  null.NewString(ne.Recurrence, ne.Recurrence != ""),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if evt.AllDay {
		evt.Start, evt.End = time.Time{}, time.Time{}
		if evt.EndDay.IsZero() {
			evt.EndDay = evt.StartDay
		}
	}
	return svc.repo.CreateEvent(ctx, evt)
}

func (svc *Service) GetByID(ctx context.Context, id string) (Event, error) {
	return svc.repo.GetEventByID(ctx, id)
}

func (svc *Service) QueryAll(ctx context.Context) ([]Event, error) {
	return svc.repo.QueryAllEvents(ctx)
}

func (svc *Service) Filter(ctx context.Context, filter QueryFilter) ([]Event, error) {
	filter.Clean()
	return svc.repo.FilterEvents(ctx, filter)
}

func (svc *Service) Update(ctx context.Context, id string, ue UpdateEvent) (Event, error) {
	evt, err := svc.repo.GetEventByID(ctx, id)
	if err != nil {
		return Event{}, err
	}

	if ue.Title != "" {
		evt.Title = ue.Title
	}
	if ue.Description != nil {
		evt.Description = null.NewString(*ue.Description, *ue.Description != "")
	}
	if ue.AllDay != nil {
		evt.AllDay = *ue.AllDay
	}
	if !ue.Start.IsZero() {
		evt.Start = ue.Start.UTC()
	}
	if !ue.End.IsZero() {
		evt.End = ue.End.UTC()
	}
	if !ue.StartDay.IsZero() {
		evt.StartDay = ue.StartDay
	}
	if !ue.EndDay.IsZero() {
		evt.EndDay = ue.EndDay
	}
	if ue.UserID != nil {
		evt.UserID = null.NewString(*ue.UserID, *ue.UserID != "")
	}
	if ue.Color != nil {
		evt.Color = null.NewString(*ue.Color, *ue.Color != "")
	}
	if ue.Recurrence != nil {
		evt.Recurrence = null.NewString(*ue.Recurrence, *ue.Recurrence != "")
	}
	if evt.AllDay {
		evt.Start, evt.End = time.Time{}, time.Time{}
		if evt.EndDay.IsZero() {
			evt.EndDay = evt.StartDay
		}
	} else {
		evt.StartDay, evt.EndDay = calendar.Date{}, calendar.Date{}
	}
	evt.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateEvent(ctx, evt)
}

func (svc *Service) Delete(ctx context.Context, ids ...string) error {
	return svc.repo.DeleteEventsByID(ctx, ids...)
}

// View computes the visible range, expands recurrences, applies the
// user filter and buckets the result at the requested granularity.
// This is the single shared implementation behind every view renderer.
func (svc *Service) View(
	ctx context.Context,
	state calendar.ViewState,
	granularity calendar.Granularity,
	loc *time.Location,
) (*ViewData, error) {
	if loc == nil {
		loc = time.UTC
	}
	r := calendar.ComputeRange(state.Date, state.View)

	stored, err := svc.repo.FilterEvents(ctx, QueryFilter{
		From: r.Start.Time(loc),
		To:   r.End.AddDays(1).Time(loc),
	})
	if err != nil {
		return nil, err
	}

	snapshot := make([]calendar.Event, 0, len(stored))
	for _, evt := range stored {
		snapshot = append(snapshot, evt.Calendar())
	}

	expanded, err := calendar.Expand(snapshot, r, loc)
	if err != nil {
		return nil, err
	}
	visible := calendar.FilterByUser(expanded, state.UserIDs)

	data := &ViewData{
		State:       state,
		Granularity: granularity,
		Range:       r,
	}
	switch granularity {
	case calendar.GranularityHour:
		data.Hours, data.AllDayLane = calendar.BucketByHour(visible, r, loc)
	default:
		data.Days = calendar.BucketByDay(visible, r, loc)
	}
	return data, nil
}

// VisibleEvents returns the filtered, recurrence-expanded events of the
// window without bucketing; the ICS export feeds off this.
func (svc *Service) VisibleEvents(
	ctx context.Context,
	state calendar.ViewState,
	loc *time.Location,
) ([]calendar.Event, calendar.Range, error) {
	if loc == nil {
		loc = time.UTC
	}
	r := calendar.ComputeRange(state.Date, state.View)

	stored, err := svc.repo.FilterEvents(ctx, QueryFilter{
		From: r.Start.Time(loc),
		To:   r.End.AddDays(1).Time(loc),
	})
	if err != nil {
		return nil, r, err
	}
	snapshot := make([]calendar.Event, 0, len(stored))
	for _, evt := range stored {
		snapshot = append(snapshot, evt.Calendar())
	}
	expanded, err := calendar.Expand(snapshot, r, loc)
	if err != nil {
		return nil, r, err
	}
	return calendar.FilterByUser(expanded, state.UserIDs), r, nil
}

// DueReminders lists events starting within the lead window that have
// not been reminded yet.
func (svc *Service) DueReminders(ctx context.Context, now time.Time, lead time.Duration) ([]Event, error) {
	return svc.repo.QueryDueReminders(ctx, now, now.Add(lead))
}

func (svc *Service) MarkReminded(ctx context.Context, ids ...string) error {
	return svc.repo.MarkReminderSent(ctx, ids...)
}
