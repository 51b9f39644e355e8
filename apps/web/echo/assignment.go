package echoweb

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/eduspace/web/core"
	"github.com/eduspace/web/core/assignment"
	"github.com/eduspace/web/core/permission"
)

type assignmentView struct {
	SubjectID    string
	AssignmentID string

	Title         string
	Description   string
	DeadlineLabel string
	Expired       bool
	LoadErr       string

	CanSubmit       bool
	MySubmission    *assignment.Submission
	MySubmissionErr string
	SubmitErr       string

	CanSeeSubmissions bool
	Submissions       []assignment.Submission
	SubmissionsErr    string
	CanEvaluate       bool
	MarkErr           string
}

func (s *server) showAssignment(ctx echo.Context) error {
	return s.renderAssignment(ctx, "", "")
}

func (s *server) renderAssignment(ctx echo.Context, submitErr, markErr string) error {
	subjectID := ctx.Param("id")
	assignmentID := ctx.Param("assignmentID")
	ac := s.appContext(ctx)
	cred := contextSession(ctx).Credential()

	view := assignmentView{
		SubjectID:    subjectID,
		AssignmentID: assignmentID,
		SubmitErr:    submitErr,
		MarkErr:      markErr,

		CanSubmit:         permission.Gate(ac.Permissions, permission.CapSubmissionForm) == permission.Visible,
		CanSeeSubmissions: permission.Gate(ac.Permissions, permission.CapSubmissionList) == permission.Visible,
		CanEvaluate:       permission.Gate(ac.Permissions, permission.CapTeacherEvaluation) == permission.Visible,
	}

	a, err := s.deps.Assignments.FetchAssignment(ctx.Request().Context(), cred, assignmentID)
	if err != nil {
		view.LoadErr = assignment.MsgLoadFailed
		return ctx.Render(http.StatusOK, "assignment", s.newPage(ctx, "Задание", view))
	}
	view.Title = a.Title
	view.Description = a.Description

	// one countdown per session; replaces the previous view's watcher
	watcher := assignment.NewWatcher(a.Deadline)
	ac.SetWatcher(watcher)
	view.DeadlineLabel = watcher.Label()
	view.Expired = watcher.Expired()

	if view.CanSubmit {
		sub, err := s.deps.Submissions.FetchMySubmission(ctx.Request().Context(), cred, assignmentID)
		if err != nil {
			view.MySubmissionErr = assignment.MsgMySubmissionFailed
		} else {
			view.MySubmission = sub
		}
	}

	if view.CanSeeSubmissions {
		subs, err := s.deps.Submissions.FetchSubmissions(ctx.Request().Context(), cred, assignmentID)
		if err != nil {
			view.SubmissionsErr = assignment.MsgSubmissionListFailed
		} else {
			view.Submissions = subs
		}
	}

	return ctx.Render(http.StatusOK, "assignment", s.newPage(ctx, a.Title, view))
}

func (s *server) submitAnswer(ctx echo.Context) error {
	subjectID := ctx.Param("id")
	assignmentID := ctx.Param("assignmentID")
	answer := core.CleanString(ctx.FormValue("answer"))
	if answer == "" {
		return ctx.Redirect(http.StatusSeeOther, assignmentPath(subjectID, assignmentID))
	}

	cred := contextSession(ctx).Credential()
	if err := s.deps.Submissions.SubmitAnswer(ctx.Request().Context(), cred, subjectID, assignmentID, answer); err != nil {
		return s.renderAssignment(ctx, assignment.MsgSubmitFailed, "")
	}
	return ctx.Redirect(http.StatusSeeOther, assignmentPath(subjectID, assignmentID))
}

func (s *server) addMark(ctx echo.Context) error {
	mark := assignment.Mark{
		Grade:    core.CleanString(ctx.FormValue("grade")),
		Feedback: core.CleanString(ctx.FormValue("feedback")),
	}
	cred := contextSession(ctx).Credential()
	if err := s.deps.Submissions.AddMark(ctx.Request().Context(), cred, ctx.Param("submissionID"), mark); err != nil {
		return s.renderAssignment(ctx, "", assignment.MsgMarkAddFailed)
	}
	return ctx.Redirect(http.StatusSeeOther, assignmentPath(ctx.Param("id"), ctx.Param("assignmentID")))
}

func (s *server) editMark(ctx echo.Context) error {
	mark := assignment.Mark{
		Grade:    core.CleanString(ctx.FormValue("grade")),
		Feedback: core.CleanString(ctx.FormValue("feedback")),
	}
	cred := contextSession(ctx).Credential()
	if err := s.deps.Submissions.EditMark(ctx.Request().Context(), cred, ctx.Param("submissionID"), mark); err != nil {
		return s.renderAssignment(ctx, "", assignment.MsgMarkEditFailed)
	}
	return ctx.Redirect(http.StatusSeeOther, assignmentPath(ctx.Param("id"), ctx.Param("assignmentID")))
}

func (s *server) deleteMark(ctx echo.Context) error {
	cred := contextSession(ctx).Credential()
	if err := s.deps.Submissions.DeleteMark(ctx.Request().Context(), cred, ctx.Param("submissionID")); err != nil {
		return s.renderAssignment(ctx, "", assignment.MsgMarkDeleteFailed)
	}
	return ctx.Redirect(http.StatusSeeOther, assignmentPath(ctx.Param("id"), ctx.Param("assignmentID")))
}

func assignmentPath(subjectID, assignmentID string) string {
	return "/dashboard/subject/" + subjectID + "/assignments/" + assignmentID
}
