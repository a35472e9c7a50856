package echoapi

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/chuo/core/attendance"
	"github.com/trezcool/chuo/core/user"
)

type attendanceApi struct {
	svc        *attendance.Service
	usrSvc     *user.Service
	locator    attendance.Locator
	validate   *validator.Validate
	translator ut.Translator
}

func registerAttendanceAPI(
	g *echo.Group,
	jwt echo.MiddlewareFunc,
	svc *attendance.Service,
	usrSvc *user.Service,
	locator attendance.Locator,
	validate *validator.Validate,
	translator ut.Translator,
) {
	api := attendanceApi{
		svc:        svc,
		usrSvc:     usrSvc,
		locator:    locator,
		validate:   validate,
		translator: translator,
	}

	ag := g.Group("/attendance", jwt)
	ag.POST("/sessions", api.createSession, roleMiddleware(user.RoleTeacher, user.RoleCR, user.RoleHOD))
	ag.GET("/sessions", api.querySessions)
	ag.GET("/sessions/:id", api.retrieveSession)
	ag.POST("/sessions/:id/close", api.closeSession)
	ag.POST("/join", api.join)
}

// Handlers

func (api *attendanceApi) createSession(ctx echo.Context) error {
	var data attendance.NewSession
	if err := bindAndValidate(ctx, &data, api.validate, api.translator); err != nil {
		return err
	}

	creator, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	sess, err := api.svc.CreateSession(ctx.Request().Context(), creator, data)
	if err != nil {
		return errors.Wrap(err, "creating session")
	}
	sessionsOpened.Inc()

	return ctx.JSON(http.StatusCreated, sess)
}

func (api *attendanceApi) querySessions(ctx echo.Context) error {
	sessions, err := api.svc.ListSessions(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying sessions")
	}
	if sessions == nil {
		sessions = []attendance.Session{}
	}
	return ctx.JSON(http.StatusOK, sessions)
}

func (api *attendanceApi) retrieveSession(ctx echo.Context) error {
	sess, err := api.svc.GetSession(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding session by ID")
	}
	return ctx.JSON(http.StatusOK, sess)
}

func (api *attendanceApi) closeSession(ctx echo.Context) error {
	actor, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	sess, err := api.svc.CloseSession(ctx.Request().Context(), ctx.Param("id"), actor)
	if err != nil {
		return errors.Wrap(err, "closing session")
	}
	return ctx.JSON(http.StatusOK, sess)
}

func (api *attendanceApi) join(ctx echo.Context) error {
	var data attendance.JoinRequest
	if err := bindAndValidate(ctx, &data, api.validate, api.translator); err != nil {
		return err
	}

	student, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	reqCtx := ctx.Request().Context()

	// fall back to the configured locator when the client sent no position
	var loc attendance.Location
	if data.Location != nil {
		loc = *data.Location
	} else if loc, err = api.locator.CurrentPosition(reqCtx); err != nil {
		return errors.Wrap(err, "resolving position")
	}

	rec, err := api.svc.Join(reqCtx, data.Code, student, loc)
	if err != nil {
		switch errors.Cause(err) {
		case attendance.ErrInvalidCode:
			joinAttempts.WithLabelValues(joinOutcomeInvalid).Inc()
		case attendance.ErrAlreadyJoined:
			joinAttempts.WithLabelValues(joinOutcomeDuplicate).Inc()
		default:
			joinAttempts.WithLabelValues(joinOutcomeError).Inc()
		}
		return errors.Wrap(err, "joining session")
	}
	joinAttempts.WithLabelValues(joinOutcomeOK).Inc()

	return ctx.JSON(http.StatusCreated, rec)
}
