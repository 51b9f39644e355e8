package subject

import "context"

// Student is one enrolled pupil as the roster endpoints return it.
type Student struct {
	StudentID  string `json:"studentId"`
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	MiddleName string `json:"middleName"`
}

// FullName renders «Фамилия Имя Отчество», skipping an absent middle name.
func (s Student) FullName() string {
	name := s.LastName + " " + s.FirstName
	if s.MiddleName != "" {
		name += " " + s.MiddleName
	}
	return name
}

// RosterRepository covers the per-subject student endpoints. The roster is
// view-local: fetched on each subject view, no session store behind it.
type RosterRepository interface {
	FetchStudents(ctx context.Context, credential, subjectID string) ([]Student, error)
	AddStudent(ctx context.Context, credential, subjectID, email string) error
	RemoveStudent(ctx context.Context, credential, subjectID, studentID string) error
}

// Roster-view texts.
const (
	MsgStudentsFetchFailed  = "Failed to load students"
	MsgStudentAddFailed     = "Ошибка добавления ученика. Попробуйте снова"
	MsgStudentRemoveFailed  = "Ошибка удаления ученика. Попробуйте снова"
	MsgStudentEmailRequired = "Введите email ученика"
)
