package subject

import (
	"context"
	"sync"

	"github.com/pkg/errors"
)

type Subject struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	TeacherName string `json:"teacherName"`
}

// NewSubject is the creation payload; the teacher is referenced by email and
// resolved server-side.
type NewSubject struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	TeacherEmail string `json:"teacherEmail"`
}

// Repository is the slice of the remote API the subject store depends on.
type Repository interface {
	FetchSubjects(ctx context.Context, credential string) ([]Subject, error)
	CreateSubject(ctx context.Context, credential string, data NewSubject) (Subject, error)
	EditSubjectTitle(ctx context.Context, credential, id, name string) error
	EditSubjectDescription(ctx context.Context, credential, id, description string) error
	DeleteSubject(ctx context.Context, credential, id string) error
}

// Store error texts. Fetch and mutation failures are tracked independently so
// a failed edit never blanks an already-loaded list.
const (
	fetchFailedText  = "Failed to fetch subjects"
	MsgAddFailed     = "Ошибка добавления предмета. Попробуйте снова"
	MsgEditFailed    = "Ошибка редактирования предмета. Попробуйте снова"
	MsgDeleteFailed  = "Ошибка удаления предмета. Попробуйте снова"
	MsgEditDescForm  = "Ошибка редактирования описания предмета. Попробуйте снова"
	MsgFetchFailedRu = "Ошибка получения заданий. Попробуйте снова и обновите страницу"
)

// Store mirrors the confirmed server-side subject collection. It is never the
// source of truth: local mutations run only after the corresponding remote
// call succeeded.
type Store struct {
	mu        sync.Mutex
	gen       uint64
	subjects  []Subject
	loading   bool
	fetchErr  string
	mutateErr string
}

func NewStore() *Store { return &Store{} }

type Snapshot struct {
	Subjects  []Subject
	Loading   bool
	FetchErr  string
	MutateErr string
}

func (st *Store) Snapshot() Snapshot {
	st.mu.Lock()
	defer st.mu.Unlock()
	subjects := make([]Subject, len(st.subjects))
	copy(subjects, st.subjects)
	return Snapshot{Subjects: subjects, Loading: st.loading, FetchErr: st.fetchErr, MutateErr: st.mutateErr}
}

// Fetch reloads the list. Each call is tagged with a generation; a result
// arriving after a newer Fetch started is discarded without touching state.
func (st *Store) Fetch(ctx context.Context, repo Repository, credential string) error {
	st.mu.Lock()
	st.gen++
	gen := st.gen
	st.loading = true
	st.fetchErr = ""
	st.mu.Unlock()

	subjects, err := repo.FetchSubjects(ctx, credential)

	st.mu.Lock()
	defer st.mu.Unlock()
	if gen != st.gen {
		return nil // stale response, a newer fetch owns the store
	}
	st.loading = false
	if err != nil {
		// previously loaded entries stay intact
		st.fetchErr = fetchFailedText
		return errors.Wrap(err, "fetching subjects")
	}
	st.subjects = subjects
	return nil
}

// Add creates the subject remotely and appends the confirmed entity locally.
func (st *Store) Add(ctx context.Context, repo Repository, credential string, data NewSubject) (Subject, error) {
	created, err := repo.CreateSubject(ctx, credential, data)
	st.mu.Lock()
	defer st.mu.Unlock()
	if err != nil {
		st.mutateErr = MsgAddFailed
		return Subject{}, errors.Wrap(err, "creating subject")
	}
	st.mutateErr = ""
	st.subjects = append(st.subjects, created)
	return created, nil
}

// EditTitle patches the subject name remotely, then locally.
func (st *Store) EditTitle(ctx context.Context, repo Repository, credential, id, name string) error {
	if err := repo.EditSubjectTitle(ctx, credential, id, name); err != nil {
		st.setMutateErr(MsgEditFailed)
		return errors.Wrap(err, "editing subject title")
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	st.mutateErr = ""
	for i := range st.subjects {
		if st.subjects[i].ID == id {
			st.subjects[i].Name = name
			break
		}
	}
	return nil
}

// EditDescription patches the subject description remotely, then locally.
func (st *Store) EditDescription(ctx context.Context, repo Repository, credential, id, description string) error {
	if err := repo.EditSubjectDescription(ctx, credential, id, description); err != nil {
		st.setMutateErr(MsgEditDescForm)
		return errors.Wrap(err, "editing subject description")
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	st.mutateErr = ""
	for i := range st.subjects {
		if st.subjects[i].ID == id {
			st.subjects[i].Description = description
			break
		}
	}
	return nil
}

// Remove deletes the subject remotely, then drops it from the list without a
// refetch.
func (st *Store) Remove(ctx context.Context, repo Repository, credential, id string) error {
	if err := repo.DeleteSubject(ctx, credential, id); err != nil {
		st.setMutateErr(MsgDeleteFailed)
		return errors.Wrap(err, "deleting subject")
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	st.mutateErr = ""
	kept := st.subjects[:0]
	for _, s := range st.subjects {
		if s.ID != id {
			kept = append(kept, s)
		}
	}
	st.subjects = kept
	return nil
}

func (st *Store) setMutateErr(msg string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.mutateErr = msg
}
