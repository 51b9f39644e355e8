// Package permission holds the capability set fetched once per authenticated
// session and the Gate primitive that keys conditional rendering on it.
//
// Gating is presentation filtering only — it hides affordances the user has
// no use for. It is NOT a security boundary: every operation is authorized
// again by the remote API.
package permission

import (
	"context"
	"sync"

	"github.com/pkg/errors"
)

// Capability names one gated UI affordance. The set is closed: these twelve
// names are the only ones ever queried.
type Capability string

const (
	CapStudentList         Capability = "StudentList"
	CapStudentAddingForm   Capability = "StudentAddingForm"
	CapEditButton          Capability = "EditButton"
	CapDeleteButton        Capability = "DeleteButton"
	CapAssignmentAdding    Capability = "AssignmentAddingForm"
	CapTeacherEvaluation   Capability = "TeacherEvaluation"
	CapSubmissionForm      Capability = "SubmissionAnswerForm"
	CapSubmissionList      Capability = "SubmissionList"
	CapDeleteButtonSubject Capability = "DeleteButtonSubject"
	CapEditButtonSubject   Capability = "EditButtonSubject"
	CapAddSubject          Capability = "AddSubject"
	CapCreateUser          Capability = "CreateUser"
)

var AllCapabilities = []Capability{
	CapStudentList,
	CapStudentAddingForm,
	CapEditButton,
	CapDeleteButton,
	CapAssignmentAdding,
	CapTeacherEvaluation,
	CapSubmissionForm,
	CapSubmissionList,
	CapDeleteButtonSubject,
	CapEditButtonSubject,
	CapAddSubject,
	CapCreateUser,
}

// Set maps capability names to booleans. Absent == false.
type Set map[Capability]bool

// Repository fetches the capability set for the current credential.
type Repository interface {
	FetchPermissions(ctx context.Context, credential string) (Set, error)
}

const fetchFailedText = "Failed to load permissions"

// State is the session-scoped permission store. It starts all-false, is
// wholesale-replaced by exactly one fetch per session, and is never
// invalidated short of a full session restart.
type State struct {
	mu      sync.Mutex
	set     Set
	loading bool
	loaded  bool
	err     string
}

func NewState() *State {
	set := make(Set, len(AllCapabilities))
	for _, c := range AllCapabilities {
		set[c] = false
	}
	return &State{set: set}
}

// Fetch replaces the whole set with the server response. On failure the
// previous map is left untouched and an error is recorded.
func (s *State) Fetch(ctx context.Context, repo Repository, credential string) error {
	s.mu.Lock()
	s.loading = true
	s.err = ""
	s.mu.Unlock()

	set, err := repo.FetchPermissions(ctx, credential)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		s.err = fetchFailedText
		return errors.Wrap(err, "fetching permissions")
	}
	s.set = set
	s.loaded = true
	return nil
}

// Allowed reports whether the named capability is granted. Unknown or absent
// names are simply false.
func (s *State) Allowed(c Capability) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.set[c]
}

func (s *State) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

func (s *State) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Visibility is the Gate verdict for one gated region.
type Visibility int

const (
	// Hidden renders emptiness: no subtree, no error.
	Hidden Visibility = iota
	// Loading renders a loading indicator while the set is being fetched.
	Loading
	// Visible renders the subtree unchanged, with no wrapping element.
	Visible
)

// Gate decides the visibility of a region keyed on one capability. It is a
// pure function of the state and the capability name.
func Gate(s *State, c Capability) Visibility {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loading {
		return Loading
	}
	if !s.set[c] {
		return Hidden
	}
	return Visible
}
