package echoweb

import (
	"net/http"
	"sort"

	"github.com/labstack/echo/v4"

	"github.com/eduspace/web/core/metrics"
)

type (
	registrationRow struct {
		Month string
		Count int
	}

	metricsView struct {
		Err string

		Registrations   []registrationRow
		PopularSubjects []metrics.SubjectPopularity
		UserCounts      metrics.UserCounts
	}
)

func (s *server) showMetrics(ctx echo.Context) error {
	cred := contextSession(ctx).Credential()

	report, err := metrics.FetchReport(ctx.Request().Context(), s.deps.Metrics, cred)
	if err != nil {
		// the three reports are all-or-nothing
		view := metricsView{Err: metrics.MsgFetchFailed}
		return ctx.Render(http.StatusOK, "metrics", s.newPage(ctx, "Метрики", view))
	}

	view := metricsView{
		Registrations:   sortedRegistrations(report.Registrations),
		PopularSubjects: report.PopularSubjects,
		UserCounts:      report.UserCounts,
	}
	return ctx.Render(http.StatusOK, "metrics", s.newPage(ctx, "Метрики", view))
}

func sortedRegistrations(regs map[string]int) []registrationRow {
	rows := make([]registrationRow, 0, len(regs))
	for month, count := range regs {
		rows = append(rows, registrationRow{Month: month, Count: count})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Month < rows[j].Month })
	return rows
}
