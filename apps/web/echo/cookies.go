package echoweb

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/eduspace/web/core/session"
)

// The two credential storage areas the session layer knows about: a durable
// cookie with an expiry («Запомнить меня») and a browser-session cookie
// without one.
const (
	durableCookieName   = "eduspace_token"
	ephemeralCookieName = "eduspace_session"
)

// cookieStorage adapts a single request/response pair to session.Storage.
// Reads come from the request; writes and clears go out as Set-Cookie headers,
// so a write becomes visible on the *next* request.
type cookieStorage struct {
	ctx    echo.Context
	maxAge time.Duration
}

var _ session.Storage = (*cookieStorage)(nil)

func newCookieStorage(ctx echo.Context, maxAge time.Duration) *cookieStorage {
	return &cookieStorage{ctx: ctx, maxAge: maxAge}
}

func cookieName(area session.Area) string {
	if area == session.AreaDurable {
		return durableCookieName
	}
	return ephemeralCookieName
}

func (cs *cookieStorage) Read(area session.Area) (string, bool) {
	cookie, err := cs.ctx.Cookie(cookieName(area))
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}

func (cs *cookieStorage) Write(area session.Area, credential string) {
	cookie := &http.Cookie{
		Name:     cookieName(area),
		Value:    credential,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	if area == session.AreaDurable {
		cookie.MaxAge = int(cs.maxAge / time.Second)
	}
	cs.ctx.SetCookie(cookie)
}

func (cs *cookieStorage) Clear(area session.Area) {
	cs.ctx.SetCookie(&http.Cookie{
		Name:     cookieName(area),
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}
