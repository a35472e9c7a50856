package echoapi

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/chuo/core/notice"
	"github.com/trezcool/chuo/core/user"
)

type noticeApi struct {
	svc        *notice.Service
	usrSvc     *user.Service
	validate   *validator.Validate
	translator ut.Translator
}

func registerNoticeAPI(
	g *echo.Group,
	jwt echo.MiddlewareFunc,
	svc *notice.Service,
	usrSvc *user.Service,
	validate *validator.Validate,
	translator ut.Translator,
) {
	api := noticeApi{
		svc:        svc,
		usrSvc:     usrSvc,
		validate:   validate,
		translator: translator,
	}

	ng := g.Group("/notices", jwt)
	ng.POST("", api.post, roleMiddleware(user.RoleCR, user.RoleTeacher, user.RoleHOD))
	ng.GET("", api.query)
	ng.GET("/:id", api.retrieve)
}

// Handlers

func (api *noticeApi) post(ctx echo.Context) error {
	var data notice.NewNotice
	if err := bindAndValidate(ctx, &data, api.validate, api.translator); err != nil {
		return err
	}

	author, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	n, err := api.svc.Post(ctx.Request().Context(), author, data)
	if err != nil {
		return errors.Wrap(err, "posting notice")
	}

	return ctx.JSON(http.StatusCreated, n)
}

func (api *noticeApi) query(ctx echo.Context) error {
	notices, err := api.svc.List(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying notices")
	}
	if notices == nil {
		notices = []notice.Notice{}
	}
	return ctx.JSON(http.StatusOK, notices)
}

func (api *noticeApi) retrieve(ctx echo.Context) error {
	n, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding notice by ID")
	}
	return ctx.JSON(http.StatusOK, n)
}
