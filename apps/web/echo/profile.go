package echoweb

import (
	"net/http"

	"github.com/labstack/echo/v4"
	pkgerrors "github.com/pkg/errors"

	"github.com/eduspace/web/core"
	"github.com/eduspace/web/core/profile"
)

type profileView struct {
	Profile profile.Profile
	Loading bool
	Err     string

	OldPasswordError string
	NewPasswordError string
	FormError        string
}

func (s *server) showProfile(ctx echo.Context) error {
	return s.renderProfile(ctx, profileView{})
}

func (s *server) renderProfile(ctx echo.Context, view profileView) error {
	snap := s.appContext(ctx).Profile.Snapshot()
	view.Profile = snap.Profile
	view.Loading = snap.Loading
	view.Err = snap.Err
	return ctx.Render(http.StatusOK, "profile", s.newPage(ctx, "Личный кабинет", view))
}

func (s *server) changePassword(ctx echo.Context) error {
	oldPassword := ctx.FormValue("oldPassword")
	newPassword := ctx.FormValue("newPassword")

	if err := profile.ValidateChangePassword(oldPassword, newPassword); err != nil {
		view := profileView{}
		if vErr, ok := pkgerrors.Cause(err).(*core.ValidationError); ok {
			view.OldPasswordError = vErr.FieldText("oldPassword")
			view.NewPasswordError = vErr.FieldText("newPassword")
		}
		return s.renderProfile(ctx, view)
	}

	cred := contextSession(ctx).Credential()
	if err := s.deps.Profiles.ChangePassword(ctx.Request().Context(), cred, oldPassword, newPassword); err != nil {
		return s.renderProfile(ctx, profileView{FormError: profile.MsgChangePasswordFailed})
	}
	// success clears the form
	return ctx.Redirect(http.StatusSeeOther, "/profile")
}
