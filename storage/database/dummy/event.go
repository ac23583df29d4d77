package dummydb

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/kymanzi/ofisi/core/event"
)

type eventRepository struct {
	db *eventTable
}

var _ event.Repository = (*eventRepository)(nil) // interface compliance check

func NewEventRepository(db *DB) event.Repository {
	return &eventRepository{db: db.event}
}

func (repo *eventRepository) query() []event.Event {
	events := make([]event.Event, 0, len(repo.db.table))
	for _, e := range repo.db.table {
		events = append(events, *e)
	}
	sort.Slice(events, func(i, j int) bool {
		if events[i].Start.Equal(events[j].Start) {
			return events[i].ID < events[j].ID
		}
		return events[i].Start.Before(events[j].Start)
	})
	return events
}

func (repo *eventRepository) CreateEvent(_ context.Context, evt event.Event) (event.Event, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.table[evt.ID] = &evt
	return evt, nil
}

func (repo *eventRepository) GetEventByID(_ context.Context, id string) (event.Event, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if evt, ok := repo.db.table[id]; ok {
		return *evt, nil
	}
	return event.Event{}, event.ErrNotFound
}

func (repo *eventRepository) QueryAllEvents(_ context.Context) ([]event.Event, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.query(), nil
}

func (repo *eventRepository) FilterEvents(_ context.Context, filter event.QueryFilter) ([]event.Event, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	matched := make([]event.Event, 0)
	for _, evt := range repo.query() {
		if !matchWindow(evt, filter.From, filter.To) {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(evt.Title), strings.ToLower(filter.Search)) {
			continue
		}
		if len(filter.UserIDs) > 0 && !containsStr(filter.UserIDs, evt.UserID.String) {
			continue
		}
		matched = append(matched, evt)
	}
	return matched, nil
}

func matchWindow(evt event.Event, from, to time.Time) bool {
	if from.IsZero() || to.IsZero() {
		return true
	}
	if evt.Recurrence.Valid {
		return true
	}
	start, end := evt.Start, evt.End
	if evt.AllDay {
		start = evt.StartDay.Time(time.UTC)
		end = evt.EndDay.Time(time.UTC)
	}
	return start.Before(to) && !end.Before(from)
}

func containsStr(hay []string, needle string) bool {
	for _, s := range hay {
		if s == needle {
			return true
		}
	}
	return false
}

func (repo *eventRepository) UpdateEvent(_ context.Context, evt event.Event) (event.Event, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[evt.ID]; !ok {
		return event.Event{}, event.ErrNotFound
	}
	repo.db.table[evt.ID] = &evt
	return evt, nil
}

func (repo *eventRepository) DeleteEventsByID(_ context.Context, ids ...string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, id := range ids {
		delete(repo.db.table, id)
	}
	return nil
}

func (repo *eventRepository) QueryDueReminders(_ context.Context, from, to time.Time) ([]event.Event, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	due := make([]event.Event, 0)
	for _, evt := range repo.query() {
		if evt.ReminderSent || evt.AllDay || evt.Recurrence.Valid || !evt.UserID.Valid {
			continue
		}
		if !evt.Start.Before(from) && evt.Start.Before(to) {
			due = append(due, evt)
		}
	}
	return due, nil
}

func (repo *eventRepository) MarkReminderSent(_ context.Context, ids ...string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, id := range ids {
		if evt, ok := repo.db.table[id]; ok {
			evt.ReminderSent = true
		}
	}
	return nil
}
