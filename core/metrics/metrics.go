package metrics

import (
	"context"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// SubjectPopularity is one row of the most-popular-subjects report.
type SubjectPopularity struct {
	SubjectID    string `json:"subjectId"`
	StudentCount int    `json:"studentCount"`
}

// UserCounts is the per-role user tally.
type UserCounts struct {
	Student int `json:"student"`
	Teacher int `json:"teacher"`
	Admin   int `json:"admin"`
}

// Repository covers the three metrics endpoints.
type Repository interface {
	FetchStudentRegistrations(ctx context.Context, credential string) (map[string]int, error)
	FetchMostPopularSubjects(ctx context.Context, credential string) ([]SubjectPopularity, error)
	FetchUserCounts(ctx context.Context, credential string) (UserCounts, error)
}

// MsgFetchFailed blanks the whole metrics page: the three reports are
// all-or-nothing.
const MsgFetchFailed = "Ошибка получения статистики. Попробуйте позже"

// Report bundles everything the metrics screen shows.
type Report struct {
	Registrations   map[string]int
	PopularSubjects []SubjectPopularity
	UserCounts      UserCounts
}

// FetchReport loads the three reports concurrently; any failure fails the
// whole report.
func FetchReport(ctx context.Context, repo Repository, credential string) (Report, error) {
	var report Report
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		regs, err := repo.FetchStudentRegistrations(ctx, credential)
		report.Registrations = regs
		return errors.Wrap(err, "fetching student registrations")
	})
	g.Go(func() error {
		subjects, err := repo.FetchMostPopularSubjects(ctx, credential)
		report.PopularSubjects = subjects
		return errors.Wrap(err, "fetching most popular subjects")
	})
	g.Go(func() error {
		counts, err := repo.FetchUserCounts(ctx, credential)
		report.UserCounts = counts
		return errors.Wrap(err, "fetching user counts")
	})
	if err := g.Wait(); err != nil {
		return Report{}, err
	}
	return report, nil
}
