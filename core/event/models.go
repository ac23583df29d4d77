package event

import (
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/kymanzi/ofisi/core"
	"github.com/kymanzi/ofisi/core/calendar"
)

// Colors is the fixed palette an event color must come from.
var Colors = []string{"indigo", "teal", "amber", "rose", "slate"}

// Event is a persisted calendar event. The entry list handed to the
// view engine is an immutable snapshot of these.
//
// Timed events carry Start/End; all-day events carry StartDay/EndDay
// only (date-only, no time component).
type Event struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Description null.String   `json:"description,omitempty"`
	Start       time.Time     `json:"start"`
	End         time.Time     `json:"end"`
	AllDay      bool          `json:"all_day"`
	StartDay    calendar.Date `json:"start_day,omitempty"`
	EndDay      calendar.Date `json:"end_day,omitempty"`
	UserID      null.String   `json:"user_id,omitempty"`
	Color       null.String   `json:"color,omitempty"`
	Recurrence  null.String   `json:"recurrence,omitempty"`

	ReminderSent bool      `json:"-"`
	CreatedAt    time.Time `json:"created_at"` // UTC
	UpdatedAt    time.Time `json:"updated_at"` // UTC
}

// Calendar converts the persisted event into the engine's value type.
func (e Event) Calendar() calendar.Event {
	return calendar.Event{
		ID:         e.ID,
		Title:      e.Title,
		Start:      e.Start,
		End:        e.End,
		AllDay:     e.AllDay,
		StartDay:   e.StartDay,
		EndDay:     e.EndDay,
		UserID:     e.UserID.String,
		Color:      e.Color.String,
		Recurrence: e.Recurrence.String,
	}
}

// NewEvent contains information needed to create a new Event.
type NewEvent struct {
	Title       string        `json:"title" validate:"required"`
	Description string        `json:"description"`
	Start       time.Time     `json:"start"`
	End         time.Time     `json:"end"`
	AllDay      bool          `json:"all_day"`
	StartDay    calendar.Date `json:"start_day"`
	EndDay      calendar.Date `json:"end_day"`
	UserID      string        `json:"user_id"`
	Color       string        `json:"color" validate:"omitempty,palette"`
	Recurrence  string        `json:"recurrence" validate:"omitempty,rrule"`
}

func (ne *NewEvent) Validate(validate *validator.Validate) error {
	ne.Title = core.CleanString(ne.Title)
	ne.Description = core.CleanString(ne.Description)
	ne.Color = core.CleanString(ne.Color, true /* lower */)
	if ne.AllDay && ne.EndDay.IsZero() {
		ne.EndDay = ne.StartDay
	}
	if !ne.AllDay && ne.End.IsZero() {
		ne.End = ne.Start
	}
	return validate.Struct(ne)
}

// UpdateEvent defines what information may be provided to modify an
// existing Event. Zero-valued fields keep the original value.
type UpdateEvent struct {
	Title       string        `json:"title"`
	Description *string       `json:"description"`
	Start       time.Time     `json:"start"`
	End         time.Time     `json:"end"`
	AllDay      *bool         `json:"all_day"`
	StartDay    calendar.Date `json:"start_day"`
	EndDay      calendar.Date `json:"end_day"`
	UserID      *string       `json:"user_id"`
	Color       *string       `json:"color"`
	Recurrence  *string       `json:"recurrence"`
}

func (ue *UpdateEvent) Validate(orig Event, validate *validator.Validate) error {
	merged := NewEvent{
		Title:      orig.Title,
		Start:      orig.Start,
		End:        orig.End,
		AllDay:     orig.AllDay,
		StartDay:   orig.StartDay,
		EndDay:     orig.EndDay,
		UserID:     orig.UserID.String,
		Color:      orig.Color.String,
		Recurrence: orig.Recurrence.String,
	}
	if title := core.CleanString(ue.Title); title != "" {
		ue.Title = title
		merged.Title = title
	}
	if ue.AllDay != nil {
		merged.AllDay = *ue.AllDay
	}
	if !ue.Start.IsZero() {
		merged.Start = ue.Start
	}
	if !ue.End.IsZero() {
		merged.End = ue.End
	}
	if !ue.StartDay.IsZero() {
		merged.StartDay = ue.StartDay
	}
	if !ue.EndDay.IsZero() {
		merged.EndDay = ue.EndDay
	}
	if ue.Color != nil {
		merged.Color = core.CleanString(*ue.Color, true /* lower */)
		*ue.Color = merged.Color
	}
	if ue.Recurrence != nil {
		merged.Recurrence = *ue.Recurrence
	}
	return validate.Struct(&merged)
}

// QueryFilter applies AND operation on available fields.
type QueryFilter struct {
	Search  string    `query:"search"`
	From    time.Time `query:"from"`
	To      time.Time `query:"to"`
	UserIDs []string  `query:"user"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Search == "" && qf.From.IsZero() && qf.To.IsZero() && qf.UserIDs == nil
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
}

// RegisterValidators adds the event-specific validation tags to the
// app validator.
func RegisterValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(paletteTag, paletteValidation)
	core.RegisterCustomTranslation(validate, translator, paletteTag, paletteText)

	_ = validate.RegisterValidation(rruleTag, rruleValidation)
	core.RegisterCustomTranslation(validate, translator, rruleTag, rruleText)

	validate.RegisterStructValidation(eventStructValidation, NewEvent{})
	core.RegisterCustomTranslation(validate, translator, timeOrderTag, timeOrderText)
	core.RegisterCustomTranslation(validate, translator, spanRequiredTag, spanRequiredText)
}
