package echoweb

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/eduspace/web/core"
	"github.com/eduspace/web/core/assignment"
	"github.com/eduspace/web/core/metrics"
	"github.com/eduspace/web/core/permission"
	"github.com/eduspace/web/core/profile"
	"github.com/eduspace/web/core/session"
	"github.com/eduspace/web/core/subject"
)

var (
	_ session.Authenticator           = (*fakeAPI)(nil)
	_ permission.Repository           = (*fakeAPI)(nil)
	_ subject.Repository              = (*fakeAPI)(nil)
	_ subject.RosterRepository        = (*fakeAPI)(nil)
	_ assignment.Repository           = (*fakeAPI)(nil)
	_ assignment.SubmissionRepository = (*fakeAPI)(nil)
	_ profile.Repository              = (*fakeAPI)(nil)
	_ profile.RegisterRepository      = (*fakeAPI)(nil)
	_ metrics.Repository              = (*fakeAPI)(nil)
)

// fakeAPI stands in for the remote EduSpace API in web-layer tests. Every
// repository interface resolves to it, mirroring production where they all
// resolve to the one HTTP client.
type fakeAPI struct {
	mu sync.Mutex

	loginToken string
	loginErr   error
	loginCalls int

	perms    permission.Set
	permsErr error

	profile profile.Profile

	subjects    []subject.Subject
	subjectsErr error
	created     subject.Subject
	createErr   error

	students []subject.Student

	detail    assignment.SubjectDetail
	detailErr error

	assignment    assignment.Assignment
	assignmentErr error

	mySubmission *assignment.Submission
	submissions  []assignment.Submission

	registerErr error
	registered  []profile.NewUser

	registrations map[string]int
	popular       []metrics.SubjectPopularity
	counts        metrics.UserCounts
	metricsErr    error
}

func (f *fakeAPI) Login(_ context.Context, _, _ string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loginCalls++
	if f.loginErr != nil {
		return "", f.loginErr
	}
	return f.loginToken, nil
}

func (f *fakeAPI) FetchPermissions(_ context.Context, _ string) (permission.Set, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.perms, f.permsErr
}

func (f *fakeAPI) FetchProfile(_ context.Context, _ string) (profile.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.profile, nil
}

func (f *fakeAPI) ChangePassword(_ context.Context, _, _, _ string) error { return nil }

func (f *fakeAPI) FetchSubjects(_ context.Context, _ string) ([]subject.Subject, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.subjects, f.subjectsErr
}

func (f *fakeAPI) CreateSubject(_ context.Context, _ string, _ subject.NewSubject) (subject.Subject, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.created, f.createErr
}

func (f *fakeAPI) EditSubjectTitle(_ context.Context, _, _, _ string) error       { return nil }
func (f *fakeAPI) EditSubjectDescription(_ context.Context, _, _, _ string) error { return nil }
func (f *fakeAPI) DeleteSubject(_ context.Context, _, _ string) error             { return nil }

func (f *fakeAPI) FetchStudents(_ context.Context, _, _ string) ([]subject.Student, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.students, nil
}

func (f *fakeAPI) AddStudent(_ context.Context, _, _, _ string) error    { return nil }
func (f *fakeAPI) RemoveStudent(_ context.Context, _, _, _ string) error { return nil }

func (f *fakeAPI) FetchSubjectDetail(_ context.Context, _, _ string) (assignment.SubjectDetail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.detail, f.detailErr
}

func (f *fakeAPI) CreateAssignment(_ context.Context, _, _ string, _ assignment.NewAssignment) (string, error) {
	return "a-new", nil
}

func (f *fakeAPI) EditAssignment(_ context.Context, _, _ string, data assignment.NewAssignment) (assignment.UpdatedFields, error) {
	return assignment.UpdatedFields{Title: data.Title, Description: data.Description, Deadline: data.Deadline}, nil
}

func (f *fakeAPI) DeleteAssignment(_ context.Context, _, _, _ string) error { return nil }

func (f *fakeAPI) FetchAssignment(_ context.Context, _, _ string) (assignment.Assignment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.assignment, f.assignmentErr
}

func (f *fakeAPI) FetchMySubmission(_ context.Context, _, _ string) (*assignment.Submission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.mySubmission, nil
}

func (f *fakeAPI) SubmitAnswer(_ context.Context, _, _, _, _ string) error { return nil }

func (f *fakeAPI) FetchSubmissions(_ context.Context, _, _ string) ([]assignment.Submission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.submissions, nil
}

func (f *fakeAPI) AddMark(_ context.Context, _, _ string, _ assignment.Mark) error  { return nil }
func (f *fakeAPI) EditMark(_ context.Context, _, _ string, _ assignment.Mark) error { return nil }
func (f *fakeAPI) DeleteMark(_ context.Context, _, _ string) error                  { return nil }

func (f *fakeAPI) RegisterUser(_ context.Context, _ string, data profile.NewUser) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.registerErr != nil {
		return f.registerErr
	}
	f.registered = append(f.registered, data)
	return nil
}

func (f *fakeAPI) FetchStudentRegistrations(_ context.Context, _ string) (map[string]int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.registrations, f.metricsErr
}

func (f *fakeAPI) FetchMostPopularSubjects(_ context.Context, _ string) ([]metrics.SubjectPopularity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.popular, f.metricsErr
}

func (f *fakeAPI) FetchUserCounts(_ context.Context, _ string) (metrics.UserCounts, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.counts, f.metricsErr
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...interface{}) {}
func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}
func (noopLogger) Fatal(string, ...interface{}) {}

// sinkRecorder records what would go to the remote error collector.
type sinkRecorder struct {
	mu      sync.Mutex
	reports []string
}

func (s *sinkRecorder) Report(_ context.Context, err error, where string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports = append(s.reports, where+": "+err.Error())
}

func (s *sinkRecorder) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.reports)
}

func newTestServer(t *testing.T, api *fakeAPI) (Server, *sinkRecorder) {
	t.Helper()

	conf := &core.Config{
		Env:          "TEST",
		Debug:        true,
		TestMode:     true,
		AppName:      "EduSpace",
		CookieMaxAge: time.Hour,
	}
	validate := validator.New()
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	core.InitValidators(validate, translator)

	sink := &sinkRecorder{}
	srv := NewServer(ServerDeps{
		Conf:       conf,
		Logger:     noopLogger{},
		Sink:       sink,
		Validate:   validate,
		Translator: translator,

		Auth:        api,
		Permissions: api,
		Subjects:    api,
		Roster:      api,
		Assignments: api,
		Submissions: api,
		Profiles:    api,
		Register:    api,
		Metrics:     api,
	})
	return srv, sink
}

func authGet(srv Server, path, credential string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if credential != "" {
		req.AddCookie(&http.Cookie{Name: ephemeralCookieName, Value: credential})
	}
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func authPostForm(srv Server, path, credential string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if credential != "" {
		req.AddCookie(&http.Cookie{Name: ephemeralCookieName, Value: credential})
	}
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

// awaitBody retries a GET until the response contains want; the per-session
// permission and profile fetches run in the background, so the first render
// after login may still be loading.
func awaitBody(t *testing.T, srv Server, path, credential, want string) *httptest.ResponseRecorder {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	var rec *httptest.ResponseRecorder
	for time.Now().Before(deadline) {
		rec = authGet(srv, path, credential)
		if strings.Contains(rec.Body.String(), want) {
			return rec
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("response to %s never contained %q; last body:\n%s", path, want, rec.Body.String())
	return rec
}
