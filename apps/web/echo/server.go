package echoweb

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/eduspace/web/apps/web/appctx"
	"github.com/eduspace/web/core"
	"github.com/eduspace/web/core/assignment"
	"github.com/eduspace/web/core/metrics"
	"github.com/eduspace/web/core/permission"
	"github.com/eduspace/web/core/profile"
	"github.com/eduspace/web/core/session"
	"github.com/eduspace/web/core/subject"
)

type (
	// ErrorSink ships render-time failures to the remote error collector.
	ErrorSink interface {
		Report(ctx context.Context, err error, where string)
	}

	// ServerDeps carries everything the web layer needs. In production every
	// repository field is the one lmsapi client; tests swap in fakes.
	ServerDeps struct {
		Conf       *core.Config
		Logger     core.Logger
		Sink       ErrorSink
		Validate   *validator.Validate
		Translator ut.Translator

		Auth        session.Authenticator
		Permissions permission.Repository
		Subjects    subject.Repository
		Roster      subject.RosterRepository
		Assignments assignment.Repository
		Submissions assignment.SubmissionRepository
		Profiles    profile.Repository
		Register    profile.RegisterRepository
		Metrics     metrics.Repository
	}

	Server interface {
		http.Handler
		Start()
		Shutdown(context.Context) error
		Close() error
		Errors() <-chan error
		ShutdownSignal() <-chan os.Signal
	}

	server struct {
		deps     ServerDeps
		app      *echo.Echo
		sessSvc  *session.Service
		registry *appctx.Registry

		errs       chan error
		shutdownCh chan os.Signal
	}
)

var _ Server = (*server)(nil)

func NewServer(deps ServerDeps) Server {
	s := &server{
		deps:    deps,
		app:     echo.New(),
		sessSvc: session.NewService(deps.Auth),
		registry: appctx.NewRegistry(appctx.Repositories{
			Permissions: deps.Permissions,
			Profile:     deps.Profiles,
		}),
		errs:       make(chan error, 1),
		shutdownCh: make(chan os.Signal, 1),
	}
	signal.Notify(s.shutdownCh, os.Interrupt, syscall.SIGTERM)
	s.setup()
	return s
}

func (s *server) setup() {
	conf := s.deps.Conf

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !conf.TestMode {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.Renderer = newRenderer()
	s.app.HTTPErrorHandler = s.newHTTPErrorHandler()
	s.app.Debug = conf.Debug

	s.app.Use(s.sessionMiddleware)

	s.app.GET("/", home)
	s.app.GET("/login", s.showLogin, s.anonymousOnly)
	s.app.POST("/login", s.doLogin, s.anonymousOnly)
	s.app.POST("/logout", s.doLogout)

	// requireAuth goes on each protected route rather than an empty-prefix
	// group: a group with middleware registers catch-all routes that would
	// shadow "/" and the not-found view.
	auth := s.requireAuth

	s.app.GET("/dashboard", s.showDashboard, auth)
	s.app.POST("/dashboard/subjects/add", s.addSubject, auth)
	s.app.POST("/dashboard/subject/:id/edit-title", s.editSubjectTitle, auth)
	s.app.POST("/dashboard/subject/:id/delete", s.deleteSubject, auth)

	sg := s.app.Group("/dashboard/subject/:id")
	sg.GET("", s.showSubject, auth)
	sg.POST("/edit-description", s.editSubjectDescription, auth)
	sg.POST("/students/add", s.addStudent, auth)
	sg.POST("/students/:studentID/delete", s.removeStudent, auth)
	sg.POST("/assignments/add", s.addAssignment, auth)
	sg.POST("/assignments/:assignmentID/edit", s.editAssignment, auth)
	sg.POST("/assignments/:assignmentID/delete", s.deleteAssignment, auth)

	ag := s.app.Group("/dashboard/subject/:id/assignments/:assignmentID")
	ag.GET("", s.showAssignment, auth)
	ag.POST("/submit", s.submitAnswer, auth)
	ag.POST("/submissions/:submissionID/mark/add", s.addMark, auth)
	ag.POST("/submissions/:submissionID/mark/edit", s.editMark, auth)
	ag.POST("/submissions/:submissionID/mark/delete", s.deleteMark, auth)

	s.app.GET("/profile", s.showProfile, auth)
	s.app.POST("/profile/change-password", s.changePassword, auth)

	s.app.GET("/createUser", s.showCreateUser, auth)
	s.app.POST("/createUser", s.createUser, auth)

	s.app.GET("/metrics", s.showMetrics, auth)
}

func (s *server) Start() {
	if err := s.app.Start(s.deps.Conf.Server.Address); err != nil && err != http.ErrServerClosed {
		s.errs <- err
	}
}

func (s *server) Shutdown(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) Close() error {
	return s.app.Close()
}

func (s *server) Errors() <-chan error {
	return s.errs
}

func (s *server) ShutdownSignal() <-chan os.Signal {
	return s.shutdownCh
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.Redirect(http.StatusFound, "/dashboard")
}
