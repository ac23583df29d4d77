package sqlxrepos

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/kymanzi/ofisi/core/calendar"
	"github.com/kymanzi/ofisi/core/event"
)

type eventRepository struct {
	db *sqlx.DB
}

var _ event.Repository = (*eventRepository)(nil) // interface compliance check

func NewEventRepository(db *sqlx.DB) event.Repository {
	return &eventRepository{db: db}
}

// dbEvent is the table row shape. All-day events are stored with their
// midnight-UTC bounds and converted back to date-only values on load.
type dbEvent struct {
	ID           string      `db:"id"`
	Title        string      `db:"title"`
	Description  null.String `db:"description"`
	StartAt      time.Time   `db:"start_at"`
	EndAt        time.Time   `db:"end_at"`
	AllDay       bool        `db:"all_day"`
	UserID       null.String `db:"user_id"`
	Color        null.String `db:"color"`
	Recurrence   null.String `db:"recurrence"`
	ReminderSent bool        `db:"reminder_sent"`
	CreatedAt    time.Time   `db:"created_at"`
	UpdatedAt    time.Time   `db:"updated_at"`
}

func toRow(evt event.Event) dbEvent {
	row := dbEvent{
		ID:           evt.ID,
		Title:        evt.Title,
		Description:  evt.Description,
		StartAt:      evt.Start,
		EndAt:        evt.End,
		AllDay:       evt.AllDay,
		UserID:       evt.UserID,
		Color:        evt.Color,
		Recurrence:   evt.Recurrence,
		ReminderSent: evt.ReminderSent,
		CreatedAt:    evt.CreatedAt,
		UpdatedAt:    evt.UpdatedAt,
	}
	if evt.AllDay {
		row.StartAt = evt.StartDay.Time(time.UTC)
		row.EndAt = evt.EndDay.Time(time.UTC)
	}
	return row
}

func (row dbEvent) toDomain() event.Event {
	evt := event.Event{
		ID:           row.ID,
		Title:        row.Title,
		Description:  row.Description,
		Start:        row.StartAt,
		End:          row.EndAt,
		AllDay:       row.AllDay,
		UserID:       row.UserID,
		Color:        row.Color,
		Recurrence:   row.Recurrence,
		ReminderSent: row.ReminderSent,
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	}
	if row.AllDay {
		evt.StartDay = calendar.DateOf(row.StartAt.UTC())
		evt.EndDay = calendar.DateOf(row.EndAt.UTC())
		evt.Start, evt.End = time.Time{}, time.Time{}
	}
	return evt
}

const eventColumns = `id, title, description, start_at, end_at, all_day, user_id, color, recurrence, reminder_sent, created_at, updated_at`

func (repo *eventRepository) CreateEvent(ctx context.Context, evt event.Event) (event.Event, error) {
	_, err := repo.db.NamedExecContext(ctx, `
		INSERT INTO events (`+eventColumns+`)
		VALUES (:id, :title, :description, :start_at, :end_at, :all_day, :user_id, :color, :recurrence, :reminder_sent, :created_at, :updated_at)`,
		toRow(evt),
	)
	if err != nil {
		return event.Event{}, errors.Wrap(err, "inserting event")
	}
	return evt, nil
}

func (repo *eventRepository) GetEventByID(ctx context.Context, id string) (event.Event, error) {
	var row dbEvent
	err := repo.db.GetContext(ctx, &row, repo.db.Rebind(`SELECT `+eventColumns+` FROM events WHERE id = ?`), id)
	if err == sql.ErrNoRows {
		return event.Event{}, event.ErrNotFound
	}
	if err != nil {
		return event.Event{}, errors.Wrap(err, "getting event")
	}
	return row.toDomain(), nil
}

func (repo *eventRepository) QueryAllEvents(ctx context.Context) ([]event.Event, error) {
	var rows []dbEvent
	if err := repo.db.SelectContext(ctx, &rows, `SELECT `+eventColumns+` FROM events ORDER BY start_at, id`); err != nil {
		return nil, errors.Wrap(err, "querying events")
	}
	return toDomainSlice(rows), nil
}

func (repo *eventRepository) FilterEvents(ctx context.Context, filter event.QueryFilter) ([]event.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE 1=1`
	var args []interface{}

	if !filter.From.IsZero() && !filter.To.IsZero() {
		// any overlap with the window; recurring events are kept so the
		// caller can expand them over it
		query += ` AND ((start_at < ? AND end_at >= ?) OR recurrence IS NOT NULL)`
		args = append(args, filter.To, filter.From)
	}
	if filter.Search != "" {
		query += ` AND LOWER(title) LIKE ?`
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}
	if len(filter.UserIDs) > 0 {
		in, inArgs, err := sqlx.In(` AND user_id IN (?)`, filter.UserIDs)
		if err != nil {
			return nil, errors.Wrap(err, "building user filter")
		}
		query += in
		args = append(args, inArgs...)
	}
	query += ` ORDER BY start_at, id`

	var rows []dbEvent
	if err := repo.db.SelectContext(ctx, &rows, repo.db.Rebind(query), args...); err != nil {
		return nil, errors.Wrap(err, "filtering events")
	}
	return toDomainSlice(rows), nil
}

func (repo *eventRepository) UpdateEvent(ctx context.Context, evt event.Event) (event.Event, error) {
	res, err := repo.db.NamedExecContext(ctx, `
		UPDATE events
		SET title = :title, description = :description, start_at = :start_at, end_at = :end_at,
		    all_day = :all_day, user_id = :user_id, color = :color, recurrence = :recurrence,
		    reminder_sent = :reminder_sent, updated_at = :updated_at
		WHERE id = :id`,
		toRow(evt),
	)
	if err != nil {
		return event.Event{}, errors.Wrap(err, "updating event")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return event.Event{}, event.ErrNotFound
	}
	return evt, nil
}

func (repo *eventRepository) DeleteEventsByID(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	query, args, err := sqlx.In(`DELETE FROM events WHERE id IN (?)`, ids)
	if err != nil {
		return errors.Wrap(err, "building delete")
	}
	if _, err := repo.db.ExecContext(ctx, repo.db.Rebind(query), args...); err != nil {
		return errors.Wrap(err, "deleting events")
	}
	return nil
}

func (repo *eventRepository) QueryDueReminders(ctx context.Context, from, to time.Time) ([]event.Event, error) {
	var rows []dbEvent
	err := repo.db.SelectContext(ctx, &rows, repo.db.Rebind(`
		SELECT `+eventColumns+` FROM events
		WHERE reminder_sent = ? AND all_day = ? AND recurrence IS NULL
		  AND start_at >= ? AND start_at < ?
		  AND user_id IS NOT NULL
		ORDER BY start_at, id`),
		false, false, from, to,
	)
	if err != nil {
		return nil, errors.Wrap(err, "querying due reminders")
	}
	return toDomainSlice(rows), nil
}

func (repo *eventRepository) MarkReminderSent(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	query, args, err := sqlx.In(`UPDATE events SET reminder_sent = ? WHERE id IN (?)`, true, ids)
	if err != nil {
		return errors.Wrap(err, "building update")
	}
	if _, err := repo.db.ExecContext(ctx, repo.db.Rebind(query), args...); err != nil {
		return errors.Wrap(err, "marking reminders sent")
	}
	return nil
}

func toDomainSlice(rows []dbEvent) []event.Event {
	events := make([]event.Event, 0, len(rows))
	for _, row := range rows {
		events = append(events, row.toDomain())
	}
	return events
}
