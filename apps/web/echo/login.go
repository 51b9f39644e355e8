package echoweb

import (
	"net/http"

	"github.com/labstack/echo/v4"
	pkgerrors "github.com/pkg/errors"

	"github.com/eduspace/web/core"
	"github.com/eduspace/web/core/session"
)

type (
	loginRequest struct {
		Email    string `form:"email"`
		Password string `form:"password"`
		Remember bool   `form:"remember"`
	}

	loginView struct {
		Email         string
		Remember      bool
		EmailError    string
		PasswordError string
		FormError     string
	}
)

func (s *server) showLogin(ctx echo.Context) error {
	return ctx.Render(http.StatusOK, "login", s.newPage(ctx, "Вход", loginView{}))
}

func (s *server) doLogin(ctx echo.Context) error {
	data := new(loginRequest)
	if err := ctx.Bind(data); err != nil {
		return err
	}

	view := loginView{Email: data.Email, Remember: data.Remember}
	store := newCookieStorage(ctx, s.deps.Conf.CookieMaxAge)
	sess := session.New()

	err := s.sessSvc.Login(ctx.Request().Context(), store, sess, data.Email, data.Password, data.Remember)
	if err == nil {
		return ctx.Redirect(http.StatusSeeOther, "/dashboard")
	}

	if vErr, ok := pkgerrors.Cause(err).(*core.ValidationError); ok {
		view.EmailError = vErr.FieldText("email")
		view.PasswordError = vErr.FieldText("password")
	} else {
		view.FormError = sess.Err()
	}
	return ctx.Render(http.StatusOK, "login", s.newPage(ctx, "Вход", view))
}

func (s *server) doLogout(ctx echo.Context) error {
	sess := contextSession(ctx)
	if cred := sess.Credential(); cred != "" {
		s.registry.Dispose(cred)
	}
	s.sessSvc.Logout(newCookieStorage(ctx, s.deps.Conf.CookieMaxAge), sess)
	return ctx.Redirect(http.StatusSeeOther, "/login")
}
