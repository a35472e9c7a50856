package echoapi

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/chuo/core/academics"
	"github.com/trezcool/chuo/core/user"
)

type academicsApi struct {
	svc        *academics.Service
	usrSvc     *user.Service
	validate   *validator.Validate
	translator ut.Translator
}

func registerAcademicsAPI(
	g *echo.Group,
	jwt echo.MiddlewareFunc,
	svc *academics.Service,
	usrSvc *user.Service,
	validate *validator.Validate,
	translator ut.Translator,
) {
	api := academicsApi{
		svc:        svc,
		usrSvc:     usrSvc,
		validate:   validate,
		translator: translator,
	}

	sg := g.Group("/subjects", jwt)
	sg.POST("", api.createSubject, staffMiddleware())
	sg.GET("", api.querySubjects)
	sg.POST("/:id/assignments", api.addAssignment, staffMiddleware())

	mg := g.Group("/marks", jwt)
	mg.POST("", api.recordMark, staffMiddleware())
	mg.GET("", api.queryMarks)
}

// Handlers

func (api *academicsApi) createSubject(ctx echo.Context) error {
	var data academics.NewSubject
	if err := bindAndValidate(ctx, &data, api.validate, api.translator); err != nil {
		return err
	}

	actor, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	subj, err := api.svc.AddSubject(ctx.Request().Context(), actor, data)
	if err != nil {
		return errors.Wrap(err, "creating subject")
	}

	return ctx.JSON(http.StatusCreated, subj)
}

func (api *academicsApi) querySubjects(ctx echo.Context) error {
	subjects, err := api.svc.ListSubjects(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying subjects")
	}
	if subjects == nil {
		subjects = []academics.Subject{}
	}
	return ctx.JSON(http.StatusOK, subjects)
}

func (api *academicsApi) addAssignment(ctx echo.Context) error {
	var data academics.NewAssignment
	if err := bindAndValidate(ctx, &data, api.validate, api.translator); err != nil {
		return err
	}

	actor, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	subj, err := api.svc.AddAssignment(ctx.Request().Context(), actor, ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "adding assignment")
	}

	return ctx.JSON(http.StatusCreated, subj)
}

func (api *academicsApi) recordMark(ctx echo.Context) error {
	var data academics.NewMark
	if err := bindAndValidate(ctx, &data, api.validate, api.translator); err != nil {
		return err
	}

	actor, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	mark, err := api.svc.RecordMark(ctx.Request().Context(), actor, data)
	if err != nil {
		return errors.Wrap(err, "recording mark")
	}

	return ctx.JSON(http.StatusCreated, mark)
}

// queryMarks returns the caller's own marks; staff may pass ?student_id= to
// look up any student.
func (api *academicsApi) queryMarks(ctx echo.Context) error {
	actor, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	studentID := actor.ID
	if qID := ctx.QueryParam("student_id"); qID != "" && qID != actor.ID {
		if !actor.IsTeacher() && !actor.IsHOD() {
			return errHttpForbidden
		}
		studentID = qID
	}

	marks, err := api.svc.MarksForStudent(ctx.Request().Context(), studentID)
	if err != nil {
		return errors.Wrap(err, "querying marks")
	}
	if marks == nil {
		marks = []academics.Mark{}
	}
	return ctx.JSON(http.StatusOK, marks)
}
