package echoapi

import (
	"io"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/kymanzi/ofisi/core/event"
)

type eventApi struct {
	svc      *event.Service
	cache    ViewCache
	validate *validator.Validate
}

func registerEventAPI(
	g *echo.Group,
	svc *event.Service,
	cache ViewCache,
	validate *validator.Validate,
) {
	api := eventApi{
		svc:      svc,
		cache:    cache,
		validate: validate,
	}

	eg := g.Group("/events")
	eg.POST("", api.create)
	eg.GET("", api.query)
	eg.DELETE("", api.destroyMultiple)
	eg.POST("/import", api.importICS)

	dg := eg.Group("/:id")
	dg.GET("", api.retrieve)
	dg.PUT("", api.update)
	dg.DELETE("", api.destroy)
}

// invalidateViews drops the cached calendar views after a write.
func (api *eventApi) invalidateViews(ctx echo.Context) {
	if api.cache != nil {
		api.cache.Invalidate(ctx.Request().Context())
	}
}

// Handlers

func (api *eventApi) create(ctx echo.Context) error {
	var data event.NewEvent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewEvent")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	evt, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating event")
	}
	api.invalidateViews(ctx)
	return ctx.JSON(http.StatusCreated, evt)
}

func (api *eventApi) query(ctx echo.Context) error {
	filter := new(event.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []event.Event{})
	}

	var (
		events []event.Event
		err    error
	)
	if filter.IsEmpty() {
		events, err = api.svc.QueryAll(ctx.Request().Context())
	} else {
		events, err = api.svc.Filter(ctx.Request().Context(), *filter)
	}
	if err != nil {
		return errors.Wrap(err, "querying events")
	}
	if events == nil {
		events = []event.Event{}
	}
	return ctx.JSON(http.StatusOK, events)
}

func (api *eventApi) retrieve(ctx echo.Context) error {
	evt, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == event.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding event by ID")
	}
	return ctx.JSON(http.StatusOK, evt)
}

func (api *eventApi) update(ctx echo.Context) error {
	orig, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == event.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding event by ID")
	}

	var data event.UpdateEvent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateEvent")
	}
	if err := data.Validate(orig, api.validate); err != nil {
		return err
	}

	evt, err := api.svc.Update(ctx.Request().Context(), orig.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating event")
	}
	api.invalidateViews(ctx)
	return ctx.JSON(http.StatusOK, evt)
}

func (api *eventApi) destroy(ctx echo.Context) error {
	if _, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id")); err != nil {
		if errors.Cause(err) == event.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding event by ID")
	}
	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting event")
	}
	api.invalidateViews(ctx)
	return ctx.NoContent(http.StatusNoContent)
}

func (api *eventApi) destroyMultiple(ctx echo.Context) error {
	var query DestroyMultipleRequest
	if err := ctx.Bind(&query); err != nil {
		return errors.Wrap(err, "binding to DestroyMultipleRequest")
	}
	if query.IDs == nil {
		return ctx.NoContent(http.StatusNoContent)
	}
	if err := api.svc.Delete(ctx.Request().Context(), query.IDs...); err != nil {
		return errors.Wrap(err, "deleting events")
	}
	api.invalidateViews(ctx)
	return ctx.NoContent(http.StatusNoContent)
}

// importICS creates events from an iCalendar payload. Unparseable
// entries are skipped and reported back, not treated as a failure.
func (api *eventApi) importICS(ctx echo.Context) error {
	body, err := io.ReadAll(ctx.Request().Body)
	if err != nil {
		return errors.Wrap(err, "reading ICS body")
	}

	parsed, skipped, err := event.ImportICS(body)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	resp := ImportResponse{Skipped: skipped}
	for _, ne := range parsed {
		ne := ne
		if err := ne.Validate(api.validate); err != nil {
			resp.Skipped = append(resp.Skipped, ne.Title)
			continue
		}
		evt, err := api.svc.Create(ctx.Request().Context(), ne)
		if err != nil {
			return errors.Wrap(err, "creating imported event")
		}
		resp.Created = append(resp.Created, evt)
	}
	if len(resp.Created) > 0 {
		api.invalidateViews(ctx)
	}
	return ctx.JSON(http.StatusCreated, resp)
}

type ImportResponse struct {
	Created []event.Event `json:"created"`
	Skipped []string      `json:"skipped,omitempty"`
}
