package assignment

import (
	"context"
	"time"
)

// Submission is one student answer. Grade and feedback appear only once a
// teacher evaluated it; their joint presence is the sole "evaluated" signal —
// there is no partial-evaluation state.
type Submission struct {
	SubmissionID string    `json:"submissionId"`
	Answer       string    `json:"Answer"`
	SubmittedAt  time.Time `json:"submittedAt"`
	StudentName  string    `json:"userName"`
	Grade        *string   `json:"grade"`
	Feedback     *string   `json:"feedback"`
}

// Evaluated reports whether a teacher marked this submission.
func (s Submission) Evaluated() bool {
	return s.Grade != nil && s.Feedback != nil
}

// Mark is the grade+feedback pair a teacher attaches to a submission.
type Mark struct {
	Grade    string `json:"grade"`
	Feedback string `json:"feedback"`
}

// SubmissionRepository covers the submission and evaluation endpoints. These
// are view-local (no session store backs them): each screen fetches what it
// shows and mutates only after the server confirmed.
type SubmissionRepository interface {
	// FetchMySubmission returns nil when the student has not submitted yet.
	FetchMySubmission(ctx context.Context, credential, assignmentID string) (*Submission, error)
	SubmitAnswer(ctx context.Context, credential, subjectID, assignmentID, answer string) error
	FetchSubmissions(ctx context.Context, credential, assignmentID string) ([]Submission, error)
	AddMark(ctx context.Context, credential, submissionID string, mark Mark) error
	EditMark(ctx context.Context, credential, submissionID string, mark Mark) error
	DeleteMark(ctx context.Context, credential, submissionID string) error
}

// Submission-view texts.
const (
	MsgSubmitFailed         = "Ошибка отправки задания. Попробуйте снова"
	MsgMySubmissionFailed   = "Ошибка загрузки ответа. Попробуйте снова"
	MsgSubmissionListFailed = "Ошибка получения данных"
	MsgMarkAddFailed        = "Ошибка создания оценки. Попробуйте снова"
	MsgMarkEditFailed       = "Ошибка редактирования оценки. Попробуйте снова"
	MsgMarkDeleteFailed     = "Ошибка удаления оценки. Попробуйте снова"
)
