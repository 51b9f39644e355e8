package echoweb

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/eduspace/web/core"
	"github.com/eduspace/web/core/permission"
	"github.com/eduspace/web/core/subject"
)

type (
	addSubjectRequest struct {
		Name         string `form:"name" validate:"required"`
		Description  string `form:"description" validate:"required"`
		TeacherEmail string `form:"teacherEmail" validate:"required,email"`
	}

	dashboardView struct {
		Subjects  []subject.Subject
		Loading   bool
		FetchErr  string
		MutateErr string

		CanAddSubject    bool
		CanEditSubject   bool
		CanDeleteSubject bool

		AddForm       addSubjectRequest
		AddFormErrors map[string]string
	}
)

func (s *server) showDashboard(ctx echo.Context) error {
	ac := s.appContext(ctx)
	cred := contextSession(ctx).Credential()
	_ = ac.Subjects.Fetch(ctx.Request().Context(), s.deps.Subjects, cred) // failure lands in the store
	return s.renderDashboard(ctx, addSubjectRequest{}, nil)
}

func (s *server) renderDashboard(ctx echo.Context, form addSubjectRequest, formErrs map[string]string) error {
	ac := s.appContext(ctx)
	snap := ac.Subjects.Snapshot()
	view := dashboardView{
		Subjects:  snap.Subjects,
		Loading:   snap.Loading,
		FetchErr:  snap.FetchErr,
		MutateErr: snap.MutateErr,

		CanAddSubject:    permission.Gate(ac.Permissions, permission.CapAddSubject) == permission.Visible,
		CanEditSubject:   permission.Gate(ac.Permissions, permission.CapEditButtonSubject) == permission.Visible,
		CanDeleteSubject: permission.Gate(ac.Permissions, permission.CapDeleteButtonSubject) == permission.Visible,

		AddForm:       form,
		AddFormErrors: formErrs,
	}
	return ctx.Render(http.StatusOK, "dashboard", s.newPage(ctx, "Мои предметы", view))
}

func (s *server) addSubject(ctx echo.Context) error {
	data := new(addSubjectRequest)
	if err := ctx.Bind(data); err != nil {
		return err
	}
	if err := s.deps.Validate.Struct(data); err != nil {
		flds := core.TranslateFieldErrors(err, s.deps.Translator)
		return s.renderDashboard(ctx, *data, fieldMap(flds))
	}

	ac := s.appContext(ctx)
	cred := contextSession(ctx).Credential()
	_, err := ac.Subjects.Add(ctx.Request().Context(), s.deps.Subjects, cred, subject.NewSubject{
		Name:         data.Name,
		Description:  data.Description,
		TeacherEmail: core.CleanString(data.TeacherEmail, true),
	})
	if err != nil {
		// store records MsgAddFailed; keep the form filled
		return s.renderDashboard(ctx, *data, nil)
	}
	return ctx.Redirect(http.StatusSeeOther, "/dashboard")
}

func (s *server) editSubjectTitle(ctx echo.Context) error {
	name := core.CleanString(ctx.FormValue("name"))
	if name == "" {
		return ctx.Redirect(http.StatusSeeOther, "/dashboard")
	}

	ac := s.appContext(ctx)
	cred := contextSession(ctx).Credential()
	if err := ac.Subjects.EditTitle(ctx.Request().Context(), s.deps.Subjects, cred, ctx.Param("id"), name); err != nil {
		return s.renderDashboard(ctx, addSubjectRequest{}, nil)
	}
	return ctx.Redirect(http.StatusSeeOther, "/dashboard")
}

func (s *server) deleteSubject(ctx echo.Context) error {
	ac := s.appContext(ctx)
	cred := contextSession(ctx).Credential()
	if err := ac.Subjects.Remove(ctx.Request().Context(), s.deps.Subjects, cred, ctx.Param("id")); err != nil {
		return s.renderDashboard(ctx, addSubjectRequest{}, nil)
	}
	return ctx.Redirect(http.StatusSeeOther, "/dashboard")
}

// fieldMap flattens field errors for template lookup by field name.
func fieldMap(flds []core.FieldError) map[string]string {
	if len(flds) == 0 {
		return nil
	}
	m := make(map[string]string, len(flds))
	for _, f := range flds {
		m[f.Field] = f.Error
	}
	return m
}
