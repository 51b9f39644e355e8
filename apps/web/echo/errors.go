package echoweb

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// fallbackText replaces the whole page whenever rendering a view fails.
const fallbackText = "Что-то пошло не так."

// newHTTPErrorHandler is the web-layer error boundary: unknown routes get the
// not-found view, everything else is reported (operational log + remote sink)
// and replaced with the generic fallback.
func (s *server) newHTTPErrorHandler() echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		code := http.StatusInternalServerError
		if httpErr, ok := errors.Cause(err).(*echo.HTTPError); ok {
			code = httpErr.Code
		}

		if ctx.Response().Committed {
			return
		}

		if code == http.StatusNotFound {
			if rErr := ctx.Render(http.StatusNotFound, "notfound", s.newPage(ctx, "404", nil)); rErr != nil {
				ctx.Echo().Logger.Error(rErr)
			}
			return
		}

		msg := http.StatusText(code)
		s.deps.Logger.Error(msg, errors.Wrap(err, msg))
		s.deps.Sink.Report(ctx.Request().Context(), err, ctx.Path())

		if rErr := ctx.Render(code, "error", s.newPage(ctx, "Ошибка", fallbackText)); rErr != nil {
			// the boundary itself failed; last-resort plain text
			ctx.Echo().Logger.Error(rErr)
			_ = ctx.String(code, fallbackText)
		}
	}
}
