package assignment

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
)

type Assignment struct {
	AssignmentID string    `json:"assignmentId"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Deadline     time.Time `json:"deadline"`
}

// NewAssignment is the create/edit payload. The deadline travels to the
// server as unix seconds.
type NewAssignment struct {
	Title       string
	Description string
	Deadline    time.Time
}

// UpdatedFields is what the edit endpoint confirms back; only these values
// are applied to the local store.
type UpdatedFields struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Deadline    time.Time `json:"deadline"`
}

// SubjectDetail is the subject header plus its assignment list as returned by
// GET /subject/{id}. The assignment list is keyed only by the currently
// viewed subject; it is not normalized per subject id.
type SubjectDetail struct {
	Name        string       `json:"name"`
	Description string       `json:"description"`
	TeacherName string       `json:"teacherName"`
	Assignments []Assignment `json:"assignments"`
}

// Repository is the slice of the remote API the assignment store and views
// depend on.
type Repository interface {
	FetchSubjectDetail(ctx context.Context, credential, subjectID string) (SubjectDetail, error)
	CreateAssignment(ctx context.Context, credential, subjectID string, data NewAssignment) (assignmentID string, err error)
	EditAssignment(ctx context.Context, credential, assignmentID string, data NewAssignment) (UpdatedFields, error)
	DeleteAssignment(ctx context.Context, credential, subjectID, assignmentID string) error
	FetchAssignment(ctx context.Context, credential, assignmentID string) (Assignment, error)
}

const (
	fetchFailedText = "Failed to load assignments"

	MsgAddFailed    = "Ошибка добавления задания. Попробуйте снова"
	MsgEditFailed   = "Ошибка редактирования задания. Попробуйте снова"
	MsgDeleteFailed = "Ошибка удаления задания. Попробуйте снова"
	MsgLoadFailed   = "Ошибка загрузки задания. Попробуйте снова"
)

// Store mirrors the subject-detail screen: the subject header and its
// assignments, populated by confirmed server state only.
type Store struct {
	mu        sync.Mutex
	gen       uint64
	detail    SubjectDetail
	loading   bool
	fetchErr  string
	mutateErr string
}

func NewStore() *Store { return &Store{} }

type Snapshot struct {
	SubjectDetail
	Loading   bool
	FetchErr  string
	MutateErr string
}

func (st *Store) Snapshot() Snapshot {
	st.mu.Lock()
	defer st.mu.Unlock()
	detail := st.detail
	detail.Assignments = make([]Assignment, len(st.detail.Assignments))
	copy(detail.Assignments, st.detail.Assignments)
	return Snapshot{SubjectDetail: detail, Loading: st.loading, FetchErr: st.fetchErr, MutateErr: st.mutateErr}
}

// Fetch loads the subject header and assignment list, generation-tagged so a
// late response from an abandoned view never clobbers newer state.
func (st *Store) Fetch(ctx context.Context, repo Repository, credential, subjectID string) error {
	st.mu.Lock()
	st.gen++
	gen := st.gen
	st.loading = true
	st.fetchErr = ""
	st.mu.Unlock()

	detail, err := repo.FetchSubjectDetail(ctx, credential, subjectID)

	st.mu.Lock()
	defer st.mu.Unlock()
	if gen != st.gen {
		return nil // stale response, discarded
	}
	st.loading = false
	if err != nil {
		st.fetchErr = fetchFailedText
		return errors.Wrap(err, "fetching subject detail")
	}
	st.detail = detail
	return nil
}

// Add creates the assignment remotely; on 201 the local list gets the entity
// under the server-issued id.
func (st *Store) Add(ctx context.Context, repo Repository, credential, subjectID string, data NewAssignment) error {
	id, err := repo.CreateAssignment(ctx, credential, subjectID, data)
	st.mu.Lock()
	defer st.mu.Unlock()
	if err != nil {
		st.mutateErr = MsgAddFailed
		return errors.Wrap(err, "creating assignment")
	}
	st.mutateErr = ""
	st.detail.Assignments = append(st.detail.Assignments, Assignment{
		AssignmentID: id,
		Title:        data.Title,
		Description:  data.Description,
		Deadline:     data.Deadline,
	})
	return nil
}

// Edit patches the assignment remotely and applies the fields the server
// confirmed back.
func (st *Store) Edit(ctx context.Context, repo Repository, credential, assignmentID string, data NewAssignment) error {
	updated, err := repo.EditAssignment(ctx, credential, assignmentID, data)
	st.mu.Lock()
	defer st.mu.Unlock()
	if err != nil {
		st.mutateErr = MsgEditFailed
		return errors.Wrap(err, "editing assignment")
	}
	st.mutateErr = ""
	for i := range st.detail.Assignments {
		if st.detail.Assignments[i].AssignmentID == assignmentID {
			st.detail.Assignments[i].Title = updated.Title
			st.detail.Assignments[i].Description = updated.Description
			st.detail.Assignments[i].Deadline = updated.Deadline
			break
		}
	}
	return nil
}

// Remove deletes the assignment remotely, then drops it locally without a
// refetch.
func (st *Store) Remove(ctx context.Context, repo Repository, credential, subjectID, assignmentID string) error {
	if err := repo.DeleteAssignment(ctx, credential, subjectID, assignmentID); err != nil {
		st.mu.Lock()
		st.mutateErr = MsgDeleteFailed
		st.mu.Unlock()
		return errors.Wrap(err, "deleting assignment")
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	st.mutateErr = ""
	kept := st.detail.Assignments[:0]
	for _, a := range st.detail.Assignments {
		if a.AssignmentID != assignmentID {
			kept = append(kept, a)
		}
	}
	st.detail.Assignments = kept
	return nil
}
