package echoweb

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/eduspace/web/apps/web/appctx"
	"github.com/eduspace/web/core/session"
)

const sessionContextKey = "session"

// sessionMiddleware restores the session from the credential cookies and
// hangs it on the echo context for every route.
func (s *server) sessionMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		store := newCookieStorage(ctx, s.deps.Conf.CookieMaxAge)
		ctx.Set(sessionContextKey, session.Restore(store))
		return next(ctx)
	}
}

// requireAuth redirects unauthenticated visitors of any protected route to
// the login screen.
func (s *server) requireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		if !contextSession(ctx).IsAuthenticated() {
			return ctx.Redirect(http.StatusFound, "/login")
		}
		return next(ctx)
	}
}

// anonymousOnly sends already-authenticated visitors of the login screen to
// the dashboard.
func (s *server) anonymousOnly(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		if contextSession(ctx).IsAuthenticated() {
			return ctx.Redirect(http.StatusFound, "/dashboard")
		}
		return next(ctx)
	}
}

func contextSession(ctx echo.Context) *session.Session {
	if sess, ok := ctx.Get(sessionContextKey).(*session.Session); ok {
		return sess
	}
	return session.New()
}

// appContext resolves the per-session application context for an
// authenticated request. The once-per-session fetches it may trigger must
// outlive this request, hence the background context.
func (s *server) appContext(ctx echo.Context) *appctx.Context {
	return s.registry.Get(context.Background(), contextSession(ctx))
}
