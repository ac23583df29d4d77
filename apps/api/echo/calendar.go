package echoapi

import (
	"encoding/json"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/kymanzi/ofisi/core"
	"github.com/kymanzi/ofisi/core/calendar"
	"github.com/kymanzi/ofisi/core/event"
)

type calendarApi struct {
	conf  *core.Config
	svc   *event.Service
	cache ViewCache
}

func registerCalendarAPI(
	g *echo.Group,
	conf *core.Config,
	svc *event.Service,
	cache ViewCache,
) {
	api := calendarApi{
		conf:  conf,
		svc:   svc,
		cache: cache,
	}

	cg := g.Group("/calendar")
	cg.GET("", api.view)
	cg.GET("/export.ics", api.exportICS)
}

type (
	// ViewRequest carries the query parameters driving a view
	// computation. All parameters are optional.
	ViewRequest struct {
		Date        string   `query:"date"` // YYYY-MM-DD, default today
		View        string   `query:"view"` // default month
		Granularity string   `query:"granularity"`
		UserIDs     []string `query:"user"`
		Timezone    string   `query:"tz"` // IANA name, default UTC
	}

	EventDTO struct {
		ID         string        `json:"id"`
		Title      string        `json:"title"`
		Start      *time.Time     `json:"start,omitempty"`
		End        *time.Time     `json:"end,omitempty"`
		AllDay     bool           `json:"all_day"`
		StartDay   *calendar.Date `json:"start_day,omitempty"`
		EndDay     *calendar.Date `json:"end_day,omitempty"`
		UserID     string        `json:"user_id,omitempty"`
		Color      string        `json:"color,omitempty"`
		Recurrence string        `json:"recurrence,omitempty"`
	}

	HourDTO struct {
		Hour   int        `json:"hour"`
		Events []EventDTO `json:"events"`
	}

	DayDTO struct {
		Date   calendar.Date `json:"date"`
		Events []EventDTO    `json:"events,omitempty"` // day granularity
		AllDay []EventDTO    `json:"all_day,omitempty"`
		Hours  []HourDTO     `json:"hours,omitempty"` // hour granularity
	}

	ViewResponse struct {
		Date        calendar.Date        `json:"date"`
		View        calendar.View        `json:"view"`
		Granularity calendar.Granularity `json:"granularity"`
		Range       calendar.Range       `json:"range"`
		Days        []DayDTO             `json:"days"`
	}
)

// parse resolves the request into an engine ViewState. Defaults: today,
// month view, the view's natural granularity, UTC.
func (vr *ViewRequest) parse() (calendar.ViewState, calendar.Granularity, *time.Location, error) {
	var state calendar.ViewState

	loc := time.UTC
	if vr.Timezone != "" {
		var err error
		if loc, err = time.LoadLocation(vr.Timezone); err != nil {
			return state, "", nil, core.NewValidationError(nil, core.FieldError{Field: "tz", Error: "unknown timezone"})
		}
	}

	state.Date = calendar.DateOf(time.Now().In(loc))
	if vr.Date != "" {
		d, err := calendar.ParseDate(vr.Date)
		if err != nil {
			return state, "", nil, core.NewValidationError(nil, core.FieldError{Field: "date", Error: "must be formatted as YYYY-MM-DD"})
		}
		state.Date = d
	}

	state.View = calendar.ViewMonth
	if vr.View != "" {
		v, err := calendar.ParseView(vr.View)
		if err != nil {
			return state, "", nil, core.NewValidationError(nil, core.FieldError{Field: "view", Error: err.Error()})
		}
		state.View = v
	}

	granularity := state.View.DefaultGranularity()
	switch vr.Granularity {
	case "":
	case string(calendar.GranularityDay):
		granularity = calendar.GranularityDay
	case string(calendar.GranularityHour):
		granularity = calendar.GranularityHour
	default:
		return state, "", nil, core.NewValidationError(nil, core.FieldError{Field: "granularity", Error: "must be one of: day, hour"})
	}

	state.UserIDs = calendar.NewUserIDSet(vr.UserIDs...)
	return state, granularity, loc, nil
}

// cacheKey is a canonical rendering of the request parameters; two
// requests for the same view share one cached payload.
func (vr *ViewRequest) cacheKey(state calendar.ViewState, granularity calendar.Granularity, loc *time.Location) string {
	users := make([]string, 0, len(state.UserIDs))
	for id := range state.UserIDs {
		users = append(users, id)
	}
	sort.Strings(users)
	return strings.Join([]string{
		state.Date.String(),
		string(state.View),
		string(granularity),
		loc.String(),
		strings.Join(users, ","),
	}, "|")
}

// Handlers

func (api *calendarApi) view(ctx echo.Context) error {
	var req ViewRequest
	if err := ctx.Bind(&req); err != nil {
		return errors.Wrap(err, "binding to ViewRequest")
	}
	state, granularity, loc, err := req.parse()
	if err != nil {
		return err
	}

	key := req.cacheKey(state, granularity, loc)
	if api.cache != nil {
		if payload, ok := api.cache.Get(ctx.Request().Context(), key); ok {
			return ctx.JSONBlob(http.StatusOK, payload)
		}
	}

	data, err := api.svc.View(ctx.Request().Context(), state, granularity, loc)
	if err != nil {
		return errors.Wrap(err, "computing calendar view")
	}
	resp := newViewResponse(data)

	if api.cache != nil {
		if payload, err := json.Marshal(resp); err == nil {
			api.cache.Set(ctx.Request().Context(), key, payload)
		}
	}
	return ctx.JSON(http.StatusOK, resp)
}

func (api *calendarApi) exportICS(ctx echo.Context) error {
	var req ViewRequest
	if err := ctx.Bind(&req); err != nil {
		return errors.Wrap(err, "binding to ViewRequest")
	}
	state, _, loc, err := req.parse()
	if err != nil {
		return err
	}

	events, _, err := api.svc.VisibleEvents(ctx.Request().Context(), state, loc)
	if err != nil {
		return errors.Wrap(err, "computing visible events")
	}

	ics := event.ExportICS(events, "-//"+api.conf.AppName+"//Calendar//EN")
	ctx.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="calendar.ics"`)
	return ctx.Blob(http.StatusOK, "text/calendar; charset=utf-8", []byte(ics))
}

// Response assembly

func newEventDTO(e calendar.Event) EventDTO {
	dto := EventDTO{
		ID:         e.ID,
		Title:      e.Title,
		AllDay:     e.AllDay,
		UserID:     e.UserID,
		Color:      e.Color,
		Recurrence: e.Recurrence,
	}
	if e.AllDay {
		startDay, endDay := e.StartDay, e.EndDay
		dto.StartDay, dto.EndDay = &startDay, &endDay
	} else {
		start, end := e.Start, e.End
		dto.Start, dto.End = &start, &end
	}
	return dto
}

func newEventDTOs(events []calendar.Event) []EventDTO {
	if len(events) == 0 {
		return nil
	}
	dtos := make([]EventDTO, 0, len(events))
	for _, e := range events {
		dtos = append(dtos, newEventDTO(e))
	}
	return dtos
}

// newViewResponse flattens the engine's keyed buckets into the ordered
// per-day JSON shape clients render directly.
func newViewResponse(data *event.ViewData) ViewResponse {
	resp := ViewResponse{
		Date:        data.State.Date,
		View:        data.State.View,
		Granularity: data.Granularity,
		Range:       data.Range,
	}

	for _, d := range data.Range.Days() {
		day := DayDTO{Date: d}
		switch data.Granularity {
		case calendar.GranularityHour:
			day.AllDay = newEventDTOs(data.AllDayLane[d])
			for hour := 0; hour < 24; hour++ {
				if events := data.Hours[calendar.HourKey{Day: d, Hour: hour}]; len(events) > 0 {
					day.Hours = append(day.Hours, HourDTO{Hour: hour, Events: newEventDTOs(events)})
				}
			}
		default:
			day.Events = newEventDTOs(data.Days[d])
		}
		resp.Days = append(resp.Days, day)
	}
	return resp
}
