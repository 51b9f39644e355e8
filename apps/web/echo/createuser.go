package echoweb

import (
	"net/http"

	"github.com/labstack/echo/v4"
	pkgerrors "github.com/pkg/errors"

	"github.com/eduspace/web/core"
	"github.com/eduspace/web/core/permission"
	"github.com/eduspace/web/core/profile"
	"github.com/eduspace/web/services/lmsapi"
)

type (
	createUserRequest struct {
		FirstName    string `form:"firstName"`
		LastName     string `form:"lastName"`
		MiddleName   string `form:"middleName"`
		NoMiddleName bool   `form:"noMiddleName"`
		Email        string `form:"email"`
		Role         string `form:"role"`
	}

	createUserView struct {
		CanCreate bool
		Form      createUserRequest
		Errors    map[string]string
		FormError string
	}
)

func (s *server) showCreateUser(ctx echo.Context) error {
	return s.renderCreateUser(ctx, createUserView{})
}

func (s *server) renderCreateUser(ctx echo.Context, view createUserView) error {
	ac := s.appContext(ctx)
	view.CanCreate = permission.Gate(ac.Permissions, permission.CapCreateUser) == permission.Visible
	return ctx.Render(http.StatusOK, "createuser", s.newPage(ctx, "Добавить пользователя", view))
}

func (s *server) createUser(ctx echo.Context) error {
	data := new(createUserRequest)
	if err := ctx.Bind(data); err != nil {
		return err
	}

	middleName := data.MiddleName
	newUser := profile.NewUser{
		FirstName:  data.FirstName,
		LastName:   data.LastName,
		MiddleName: &middleName,
		Email:      core.CleanString(data.Email, true),
		Role:       data.Role,
	}

	if err := profile.ValidateNewUser(&newUser, data.NoMiddleName); err != nil {
		view := createUserView{Form: *data}
		if vErr, ok := pkgerrors.Cause(err).(*core.ValidationError); ok {
			view.Errors = fieldMap(vErr.Fields)
		}
		return s.renderCreateUser(ctx, view)
	}

	cred := contextSession(ctx).Credential()
	if err := s.deps.Register.RegisterUser(ctx.Request().Context(), cred, newUser); err != nil {
		// 400 means the email is taken; the form keeps its values either way
		view := createUserView{Form: *data, FormError: profile.MsgRegisterFailed}
		if lmsapi.IsStatus(err, http.StatusBadRequest) {
			view.FormError = profile.MsgEmailTaken
		}
		return s.renderCreateUser(ctx, view)
	}

	// success clears the form
	return ctx.Redirect(http.StatusSeeOther, "/createUser")
}
