package echoweb

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/eduspace/web/core"
	"github.com/eduspace/web/core/assignment"
	"github.com/eduspace/web/core/permission"
	"github.com/eduspace/web/core/subject"
)

type (
	addAssignmentRequest struct {
		Title       string `form:"title" validate:"required"`
		Description string `form:"description" validate:"required"`
		// value of an <input type="datetime-local">
		Deadline string `form:"deadline" validate:"required"`
	}

	subjectView struct {
		SubjectID   string
		Name        string
		Description string
		TeacherName string

		Assignments    []assignment.Assignment
		Loading        bool
		AssignmentsErr string
		MutateErr      string

		CanEdit          bool
		CanDelete        bool
		CanAddAssignment bool
		CanSeeStudents   bool
		CanAddStudent    bool

		Students    []subject.Student
		StudentsErr string
		StudentErr  string

		AssignmentForm       addAssignmentRequest
		AssignmentFormErrors map[string]string
	}
)

func (s *server) showSubject(ctx echo.Context) error {
	ac := s.appContext(ctx)
	cred := contextSession(ctx).Credential()
	_ = ac.Assignments.Fetch(ctx.Request().Context(), s.deps.Assignments, cred, ctx.Param("id"))
	return s.renderSubject(ctx, ctx.Param("id"), addAssignmentRequest{}, nil, "")
}

func (s *server) renderSubject(ctx echo.Context, subjectID string, form addAssignmentRequest, formErrs map[string]string, studentErr string) error {
	ac := s.appContext(ctx)
	cred := contextSession(ctx).Credential()
	snap := ac.Assignments.Snapshot()

	view := subjectView{
		SubjectID:   subjectID,
		Name:        snap.Name,
		Description: snap.Description,
		TeacherName: snap.TeacherName,

		Assignments: snap.Assignments,
		Loading:     snap.Loading,
		MutateErr:   snap.MutateErr,

		CanEdit:          permission.Gate(ac.Permissions, permission.CapEditButton) == permission.Visible,
		CanDelete:        permission.Gate(ac.Permissions, permission.CapDeleteButton) == permission.Visible,
		CanAddAssignment: permission.Gate(ac.Permissions, permission.CapAssignmentAdding) == permission.Visible,
		CanSeeStudents:   permission.Gate(ac.Permissions, permission.CapStudentList) == permission.Visible,
		CanAddStudent:    permission.Gate(ac.Permissions, permission.CapStudentAddingForm) == permission.Visible,

		StudentErr:           studentErr,
		AssignmentForm:       form,
		AssignmentFormErrors: formErrs,
	}
	if snap.FetchErr != "" {
		view.AssignmentsErr = subject.MsgFetchFailedRu
	}

	// the roster is view-local: refetched on every render of the list
	if view.CanSeeStudents {
		students, err := s.deps.Roster.FetchStudents(ctx.Request().Context(), cred, subjectID)
		if err != nil {
			view.StudentsErr = subject.MsgStudentsFetchFailed
		} else {
			view.Students = students
		}
	}

	return ctx.Render(http.StatusOK, "subject", s.newPage(ctx, snap.Name, view))
}

func (s *server) editSubjectDescription(ctx echo.Context) error {
	id := ctx.Param("id")
	description := core.CleanString(ctx.FormValue("description"))
	if description == "" {
		return ctx.Redirect(http.StatusSeeOther, "/dashboard/subject/"+id)
	}

	ac := s.appContext(ctx)
	cred := contextSession(ctx).Credential()
	if err := ac.Subjects.EditDescription(ctx.Request().Context(), s.deps.Subjects, cred, id, description); err != nil {
		return s.renderSubject(ctx, id, addAssignmentRequest{}, nil, "")
	}
	// the detail header is owned by the assignment store; reload it
	_ = ac.Assignments.Fetch(ctx.Request().Context(), s.deps.Assignments, cred, id)
	return ctx.Redirect(http.StatusSeeOther, "/dashboard/subject/"+id)
}

func (s *server) addStudent(ctx echo.Context) error {
	id := ctx.Param("id")
	email := core.CleanString(ctx.FormValue("email"), true)
	if email == "" {
		return s.renderSubject(ctx, id, addAssignmentRequest{}, nil, subject.MsgStudentEmailRequired)
	}

	cred := contextSession(ctx).Credential()
	if err := s.deps.Roster.AddStudent(ctx.Request().Context(), cred, id, email); err != nil {
		return s.renderSubject(ctx, id, addAssignmentRequest{}, nil, subject.MsgStudentAddFailed)
	}
	return ctx.Redirect(http.StatusSeeOther, "/dashboard/subject/"+id)
}

func (s *server) removeStudent(ctx echo.Context) error {
	id := ctx.Param("id")
	cred := contextSession(ctx).Credential()
	if err := s.deps.Roster.RemoveStudent(ctx.Request().Context(), cred, id, ctx.Param("studentID")); err != nil {
		return s.renderSubject(ctx, id, addAssignmentRequest{}, nil, subject.MsgStudentRemoveFailed)
	}
	return ctx.Redirect(http.StatusSeeOther, "/dashboard/subject/"+id)
}

func (s *server) addAssignment(ctx echo.Context) error {
	id := ctx.Param("id")
	data := new(addAssignmentRequest)
	if err := ctx.Bind(data); err != nil {
		return err
	}
	if err := s.deps.Validate.Struct(data); err != nil {
		flds := core.TranslateFieldErrors(err, s.deps.Translator)
		return s.renderSubject(ctx, id, *data, fieldMap(flds), "")
	}
	deadline, err := parseDeadline(data.Deadline)
	if err != nil {
		return s.renderSubject(ctx, id, *data, map[string]string{"deadline": msgDeadlineInvalid}, "")
	}

	ac := s.appContext(ctx)
	cred := contextSession(ctx).Credential()
	err = ac.Assignments.Add(ctx.Request().Context(), s.deps.Assignments, cred, id, assignment.NewAssignment{
		Title:       data.Title,
		Description: data.Description,
		Deadline:    deadline,
	})
	if err != nil {
		return s.renderSubject(ctx, id, *data, nil, "")
	}
	return ctx.Redirect(http.StatusSeeOther, "/dashboard/subject/"+id)
}

func (s *server) editAssignment(ctx echo.Context) error {
	id := ctx.Param("id")
	data := new(addAssignmentRequest)
	if err := ctx.Bind(data); err != nil {
		return err
	}
	if err := s.deps.Validate.Struct(data); err != nil {
		flds := core.TranslateFieldErrors(err, s.deps.Translator)
		return s.renderSubject(ctx, id, *data, fieldMap(flds), "")
	}
	deadline, err := parseDeadline(data.Deadline)
	if err != nil {
		return s.renderSubject(ctx, id, *data, map[string]string{"deadline": msgDeadlineInvalid}, "")
	}

	ac := s.appContext(ctx)
	cred := contextSession(ctx).Credential()
	err = ac.Assignments.Edit(ctx.Request().Context(), s.deps.Assignments, cred, ctx.Param("assignmentID"), assignment.NewAssignment{
		Title:       data.Title,
		Description: data.Description,
		Deadline:    deadline,
	})
	if err != nil {
		return s.renderSubject(ctx, id, addAssignmentRequest{}, nil, "")
	}
	return ctx.Redirect(http.StatusSeeOther, "/dashboard/subject/"+id)
}

func (s *server) deleteAssignment(ctx echo.Context) error {
	id := ctx.Param("id")
	ac := s.appContext(ctx)
	cred := contextSession(ctx).Credential()
	if err := ac.Assignments.Remove(ctx.Request().Context(), s.deps.Assignments, cred, id, ctx.Param("assignmentID")); err != nil {
		return s.renderSubject(ctx, id, addAssignmentRequest{}, nil, "")
	}
	return ctx.Redirect(http.StatusSeeOther, "/dashboard/subject/"+id)
}

const msgDeadlineInvalid = "Укажите срок сдачи"

func parseDeadline(value string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02T15:04", value, time.Local)
}
