package assignment

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

type repoMock struct {
	detail    SubjectDetail
	fetchErr  error
	mutErr    error
	createdID string
	updated   UpdatedFields
}

func (r *repoMock) FetchSubjectDetail(context.Context, string, string) (SubjectDetail, error) {
	return r.detail, r.fetchErr
}
func (r *repoMock) CreateAssignment(context.Context, string, string, NewAssignment) (string, error) {
	return r.createdID, r.mutErr
}
func (r *repoMock) EditAssignment(context.Context, string, string, NewAssignment) (UpdatedFields, error) {
	return r.updated, r.mutErr
}
func (r *repoMock) DeleteAssignment(context.Context, string, string, string) error { return r.mutErr }
func (r *repoMock) FetchAssignment(context.Context, string, string) (Assignment, error) {
	return Assignment{}, r.fetchErr
}

func seedDetail() SubjectDetail {
	return SubjectDetail{
		Name:        "Математика",
		Description: "Алгебра и геометрия",
		TeacherName: "Иванов И.И.",
		Assignments: []Assignment{
			{AssignmentID: "a1", Title: "ДЗ 1", Deadline: time.Unix(1700000000, 0)},
		},
	}
}

func TestStoreFetchAndHeader(t *testing.T) {
	st := NewStore()
	err := st.Fetch(context.Background(), &repoMock{detail: seedDetail()}, "tok", "s1")
	assert.NoError(t, err)

	snap := st.Snapshot()
	assert.Equal(t, "Математика", snap.Name)
	assert.Equal(t, "Иванов И.И.", snap.TeacherName)
	assert.Len(t, snap.Assignments, 1)
}

func TestStoreFetchFailureKeepsAssignments(t *testing.T) {
	st := NewStore()
	if err := st.Fetch(context.Background(), &repoMock{detail: seedDetail()}, "tok", "s1"); err != nil {
		t.Fatalf("seed fetch failed: %v", err)
	}

	err := st.Fetch(context.Background(), &repoMock{fetchErr: errors.New("boom")}, "tok", "s1")
	assert.Error(t, err)

	snap := st.Snapshot()
	assert.Len(t, snap.Assignments, 1)
	assert.Equal(t, fetchFailedText, snap.FetchErr)
}

func TestStoreAddEditRemove(t *testing.T) {
	repo := &repoMock{
		detail:    seedDetail(),
		createdID: "a2",
		updated:   UpdatedFields{Title: "ДЗ 2 (испр.)", Description: "новое", Deadline: time.Unix(1800000000, 0)},
	}
	st := NewStore()
	if err := st.Fetch(context.Background(), repo, "tok", "s1"); err != nil {
		t.Fatalf("fetch failed: %v", err)
	}

	data := NewAssignment{Title: "ДЗ 2", Description: "старое", Deadline: time.Unix(1750000000, 0)}
	assert.NoError(t, st.Add(context.Background(), repo, "tok", "s1", data))
	snap := st.Snapshot()
	assert.Len(t, snap.Assignments, 2)
	assert.Equal(t, "a2", snap.Assignments[1].AssignmentID)
	assert.Equal(t, "ДЗ 2", snap.Assignments[1].Title)

	// the edit applies what the server confirmed, not what was sent
	assert.NoError(t, st.Edit(context.Background(), repo, "tok", "a2", data))
	snap = st.Snapshot()
	assert.Equal(t, "ДЗ 2 (испр.)", snap.Assignments[1].Title)
	assert.Equal(t, time.Unix(1800000000, 0), snap.Assignments[1].Deadline)

	assert.NoError(t, st.Remove(context.Background(), repo, "tok", "s1", "a1"))
	snap = st.Snapshot()
	assert.Len(t, snap.Assignments, 1)
	assert.Equal(t, "a2", snap.Assignments[0].AssignmentID)
}

func TestStoreFailedMutationSetsOnlyMutateErr(t *testing.T) {
	repo := &repoMock{detail: seedDetail()}
	st := NewStore()
	if err := st.Fetch(context.Background(), repo, "tok", "s1"); err != nil {
		t.Fatalf("fetch failed: %v", err)
	}

	repo.mutErr = errors.New("500")
	err := st.Remove(context.Background(), repo, "tok", "s1", "a1")
	assert.Error(t, err)

	snap := st.Snapshot()
	assert.Len(t, snap.Assignments, 1)
	assert.Equal(t, MsgDeleteFailed, snap.MutateErr)
	assert.Empty(t, snap.FetchErr)
}

func TestSubmissionEvaluated(t *testing.T) {
	grade, feedback := "5", "Отлично"
	tests := []struct {
		name string
		sub  Submission
		want bool
	}{
		{name: "both set", sub: Submission{Grade: &grade, Feedback: &feedback}, want: true},
		{name: "grade only", sub: Submission{Grade: &grade}, want: false},
		{name: "feedback only", sub: Submission{Feedback: &feedback}, want: false},
		{name: "neither", sub: Submission{}, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.sub.Evaluated())
		})
	}
}
