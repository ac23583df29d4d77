package echoapi

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/kymanzi/ofisi/core/member"
)

type memberApi struct {
	svc        *member.Service
	validate   *validator.Validate
	translator ut.Translator
}

func registerMemberAPI(
	g *echo.Group,
	svc *member.Service,
	validate *validator.Validate,
	translator ut.Translator,
) {
	api := memberApi{
		svc:        svc,
		validate:   validate,
		translator: translator,
	}

	mg := g.Group("/members")
	mg.POST("", api.create)
	mg.GET("", api.query)
	mg.DELETE("", api.destroyMultiple)

	dg := mg.Group("/:id")
	dg.GET("", api.retrieve)
	dg.PUT("", api.update)
	dg.DELETE("", api.destroy)
}

// Handlers

func (api *memberApi) create(ctx echo.Context) error {
	var data member.NewMember
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewMember")
	}
	if err := data.Validate(api.validate, api.svc); err != nil {
		return err
	}

	mbr, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating member")
	}
	return ctx.JSON(http.StatusCreated, mbr)
}

func (api *memberApi) query(ctx echo.Context) error {
	filter := new(member.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []member.Member{})
	}

	var (
		members []member.Member
		err     error
	)
	if filter.IsEmpty() {
		members, err = api.svc.QueryAll(ctx.Request().Context())
	} else {
		members, err = api.svc.Filter(ctx.Request().Context(), *filter)
	}
	if err != nil {
		return errors.Wrap(err, "querying members")
	}
	if members == nil {
		members = []member.Member{}
	}
	return ctx.JSON(http.StatusOK, members)
}

func (api *memberApi) retrieve(ctx echo.Context) error {
	mbr, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == member.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding member by ID")
	}
	return ctx.JSON(http.StatusOK, mbr)
}

func (api *memberApi) update(ctx echo.Context) error {
	orig, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == member.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding member by ID")
	}

	var data member.UpdateMember
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateMember")
	}
	if err := data.Validate(orig, api.validate, api.svc); err != nil {
		return err
	}

	mbr, err := api.svc.Update(ctx.Request().Context(), orig.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating member")
	}
	return ctx.JSON(http.StatusOK, mbr)
}

func (api *memberApi) destroy(ctx echo.Context) error {
	if _, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id")); err != nil {
		if errors.Cause(err) == member.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding member by ID")
	}
	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting member")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *memberApi) destroyMultiple(ctx echo.Context) error {
	var query DestroyMultipleRequest
	if err := ctx.Bind(&query); err != nil {
		return errors.Wrap(err, "binding to DestroyMultipleRequest")
	}
	if query.IDs == nil {
		return ctx.NoContent(http.StatusNoContent)
	}
	if err := api.svc.Delete(ctx.Request().Context(), query.IDs...); err != nil {
		return errors.Wrap(err, "deleting members")
	}
	return ctx.NoContent(http.StatusNoContent)
}

type DestroyMultipleRequest struct {
	IDs []string `query:"id"`
}
