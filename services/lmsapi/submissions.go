package lmsapi

import (
	"context"
	"net/http"

	"github.com/eduspace/web/core/assignment"
)

// FetchMySubmission returns nil (no error) when the student has not
// submitted an answer yet.
func (c *Client) FetchMySubmission(ctx context.Context, credential, assignmentID string) (*assignment.Submission, error) {
	var out struct {
		Submission *assignment.Submission `json:"submission"`
	}
	if err := c.do(ctx, http.MethodGet, "/assignment/"+assignmentID+"/my-submission", credential, nil, &out); err != nil {
		return nil, err
	}
	return out.Submission, nil
}

func (c *Client) SubmitAnswer(ctx context.Context, credential, subjectID, assignmentID, answer string) error {
	in := struct {
		Answer string `json:"Answer"`
	}{answer}
	return c.do(ctx, http.MethodPost, "/subject/"+subjectID+"/assignment/"+assignmentID+"/submit", credential, in, nil)
}

func (c *Client) FetchSubmissions(ctx context.Context, credential, assignmentID string) ([]assignment.Submission, error) {
	var out struct {
		Submissions []assignment.Submission `json:"submissions"`
	}
	if err := c.do(ctx, http.MethodGet, "/assignment/"+assignmentID+"/submissions", credential, nil, &out); err != nil {
		return nil, err
	}
	return out.Submissions, nil
}

func (c *Client) AddMark(ctx context.Context, credential, submissionID string, mark assignment.Mark) error {
	return c.do(ctx, http.MethodPost, "/submissions/"+submissionID+"/mark/add", credential, mark, nil)
}

func (c *Client) EditMark(ctx context.Context, credential, submissionID string, mark assignment.Mark) error {
	return c.do(ctx, http.MethodPatch, "/submissions/"+submissionID+"/mark/edit", credential, mark, nil)
}

func (c *Client) DeleteMark(ctx context.Context, credential, submissionID string) error {
	return c.do(ctx, http.MethodDelete, "/submissions/"+submissionID+"/mark", credential, nil, nil)
}
