package echoweb

import (
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/eduspace/web/core/assignment"
	"github.com/eduspace/web/core/metrics"
	"github.com/eduspace/web/core/permission"
	"github.com/eduspace/web/core/subject"
)

func strPtr(s string) *string { return &s }

func Test_subjectView_gatedRoster(t *testing.T) {
	api := &fakeAPI{
		perms: permission.Set{permission.CapStudentList: true},
		detail: assignment.SubjectDetail{
			Name:        "Алгебра",
			TeacherName: "Анна Каренина",
			Assignments: []assignment.Assignment{{AssignmentID: "a1", Title: "ДЗ 1", Deadline: time.Now().Add(time.Hour)}},
		},
		students: []subject.Student{{StudentID: "st1", FirstName: "Иван", LastName: "Петров"}},
	}
	srv, _ := newTestServer(t, api)

	rec := awaitBody(t, srv, "/dashboard/subject/s1", "tok", "Петров Иван")
	body := rec.Body.String()
	assert.Contains(t, body, "ДЗ 1")
	assert.NotContains(t, body, "Добавить ученика") // StudentAddingForm not granted
}

func Test_subjectView_rosterHiddenWithoutGrant(t *testing.T) {
	api := &fakeAPI{
		perms:    permission.Set{},
		detail:   assignment.SubjectDetail{Name: "Алгебра"},
		students: []subject.Student{{StudentID: "st1", FirstName: "Иван", LastName: "Петров"}},
	}
	srv, _ := newTestServer(t, api)

	rec := awaitBody(t, srv, "/dashboard/subject/s1", "tok", "Заданий пока нет...")
	assert.NotContains(t, rec.Body.String(), "Петров Иван")
}

func Test_subjectView_fetchFailureShowsRussianText(t *testing.T) {
	api := &fakeAPI{detailErr: errors.New("503")}
	srv, _ := newTestServer(t, api)
	awaitBody(t, srv, "/dashboard/subject/s1", "tok", subject.MsgFetchFailedRu)
}

func Test_assignmentView_submissionStates(t *testing.T) {
	deadline := time.Now().Add(2 * time.Hour)

	tests := []struct {
		name         string
		mySubmission *assignment.Submission
		want         []string
		wantAbsent   []string
	}{
		{
			name:       "nothing submitted",
			want:       []string{"Не отправлено"},
			wantAbsent: []string{"Оценено"},
		},
		{
			name:         "submitted, not graded",
			mySubmission: &assignment.Submission{SubmissionID: "sub1", Answer: "42", SubmittedAt: time.Now()},
			want:         []string{"Отправлено. Время отправки:", "Не оценено"},
		},
		{
			name: "submitted and graded",
			mySubmission: &assignment.Submission{
				SubmissionID: "sub1", Answer: "42", SubmittedAt: time.Now(),
				Grade: strPtr("5"), Feedback: strPtr("отлично"),
			},
			want: []string{"Оценено", "Оценка: 5", "отлично"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &fakeAPI{
				perms:        permission.Set{permission.CapSubmissionForm: true},
				assignment:   assignment.Assignment{Title: "ДЗ 1", Deadline: deadline},
				mySubmission: tt.mySubmission,
			}
			srv, _ := newTestServer(t, api)

			// «Мой ответ» proves the capability set has landed
			rec := awaitBody(t, srv, "/dashboard/subject/s1/assignments/a1", "tok", "Мой ответ")
			body := rec.Body.String()
			for _, want := range tt.want {
				assert.Contains(t, body, want)
			}
			for _, absent := range tt.wantAbsent {
				assert.NotContains(t, body, absent)
			}
		})
	}
}

func Test_assignmentView_expiredDeadlineHidesForm(t *testing.T) {
	api := &fakeAPI{
		perms:      permission.Set{permission.CapSubmissionForm: true},
		assignment: assignment.Assignment{Title: "ДЗ 1", Deadline: time.Now().Add(-time.Hour)},
	}
	srv, _ := newTestServer(t, api)

	rec := awaitBody(t, srv, "/dashboard/subject/s1/assignments/a1", "tok", "Мой ответ")
	assert.Contains(t, rec.Body.String(), assignment.ExpiredLabel)
	assert.NotContains(t, rec.Body.String(), `name="answer"`)
}

func Test_assignmentView_evaluationGatedOnTeacherEvaluation(t *testing.T) {
	subs := []assignment.Submission{{
		SubmissionID: "sub1", Answer: "42", SubmittedAt: time.Now(), StudentName: "Иван Петров",
	}}

	api := &fakeAPI{
		perms:       permission.Set{permission.CapSubmissionList: true},
		assignment:  assignment.Assignment{Title: "ДЗ 1", Deadline: time.Now().Add(time.Hour)},
		submissions: subs,
	}
	srv, _ := newTestServer(t, api)
	rec := awaitBody(t, srv, "/dashboard/subject/s1/assignments/a1", "tok", "Иван Петров")
	assert.NotContains(t, rec.Body.String(), "Оценить")

	api = &fakeAPI{
		perms: permission.Set{
			permission.CapSubmissionList:    true,
			permission.CapTeacherEvaluation: true,
		},
		assignment:  assignment.Assignment{Title: "ДЗ 1", Deadline: time.Now().Add(time.Hour)},
		submissions: subs,
	}
	srv, _ = newTestServer(t, api)
	rec = awaitBody(t, srv, "/dashboard/subject/s1/assignments/a1", "tok", "Иван Петров")
	assert.Contains(t, rec.Body.String(), "Оценить")
}

func Test_markActions_redirectBackToAssignment(t *testing.T) {
	api := &fakeAPI{
		perms: permission.Set{
			permission.CapSubmissionList:    true,
			permission.CapTeacherEvaluation: true,
		},
		assignment: assignment.Assignment{Title: "ДЗ 1", Deadline: time.Now().Add(time.Hour)},
	}
	srv, _ := newTestServer(t, api)

	for _, action := range []string{"add", "edit", "delete"} {
		t.Run(action, func(t *testing.T) {
			rec := authPostForm(srv, "/dashboard/subject/s1/assignments/a1/submissions/sub1/mark/"+action, "tok", url.Values{
				"grade":    {"5"},
				"feedback": {"отлично"},
			})
			assert.Equal(t, http.StatusSeeOther, rec.Code)
			// the subject id must survive into the redirect target
			assert.Equal(t, "/dashboard/subject/s1/assignments/a1", rec.Header().Get("Location"))
		})
	}
}

func Test_addSubject_validationKeepsForm(t *testing.T) {
	api := &fakeAPI{perms: permission.Set{permission.CapAddSubject: true}}
	srv, _ := newTestServer(t, api)
	awaitBody(t, srv, "/dashboard", "tok", "Добавить предмет")

	rec := authPostForm(srv, "/dashboard/subjects/add", "tok", url.Values{
		"name":         {"Алгебра"},
		"description":  {""},
		"teacherEmail": {"not-an-email"},
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Это поле обязательно")
	assert.Contains(t, body, "Введите корректный email")
	assert.Contains(t, body, "Алгебра") // filled fields preserved
}

func Test_metrics_allOrNothing(t *testing.T) {
	api := &fakeAPI{
		registrations: map[string]int{"2021-01": 4},
		popular:       []metrics.SubjectPopularity{{SubjectID: "Алгебра", StudentCount: 12}},
		counts:        metrics.UserCounts{Student: 20, Teacher: 3, Admin: 1},
	}
	srv, _ := newTestServer(t, api)
	rec := awaitBody(t, srv, "/metrics", "tok", "Алгебра")
	assert.Contains(t, rec.Body.String(), "2021-01")

	api.mu.Lock()
	api.metricsErr = errors.New("503")
	api.mu.Unlock()
	rec = authGet(srv, "/metrics", "tok")
	body := rec.Body.String()
	assert.Contains(t, body, metrics.MsgFetchFailed)
	assert.NotContains(t, body, "2021-01")
}
