package lmsapi

import (
	"context"
	"net/http"

	"github.com/eduspace/web/core/assignment"
)

// assignmentBody is the create/edit request; deadlines travel to the server
// as unix seconds.
type assignmentBody struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Deadline    int64  `json:"deadline"`
}

func newAssignmentBody(data assignment.NewAssignment) assignmentBody {
	return assignmentBody{
		Title:       data.Title,
		Description: data.Description,
		Deadline:    data.Deadline.Unix(),
	}
}

// FetchSubjectDetail loads the subject header with its assignment list.
func (c *Client) FetchSubjectDetail(ctx context.Context, credential, subjectID string) (assignment.SubjectDetail, error) {
	var out assignment.SubjectDetail
	if err := c.do(ctx, http.MethodGet, "/subject/"+subjectID, credential, nil, &out); err != nil {
		return assignment.SubjectDetail{}, err
	}
	return out, nil
}

func (c *Client) CreateAssignment(ctx context.Context, credential, subjectID string, data assignment.NewAssignment) (string, error) {
	var out struct {
		AssignmentID string `json:"assignmentId"`
	}
	if err := c.do(ctx, http.MethodPost, "/subject/"+subjectID+"/assignments/create", credential, newAssignmentBody(data), &out); err != nil {
		return "", err
	}
	return out.AssignmentID, nil
}

func (c *Client) EditAssignment(ctx context.Context, credential, assignmentID string, data assignment.NewAssignment) (assignment.UpdatedFields, error) {
	var out struct {
		UpdatedFields assignment.UpdatedFields `json:"updatedFields"`
	}
	if err := c.do(ctx, http.MethodPatch, "/assignments/"+assignmentID+"/edit", credential, newAssignmentBody(data), &out); err != nil {
		return assignment.UpdatedFields{}, err
	}
	return out.UpdatedFields, nil
}

func (c *Client) DeleteAssignment(ctx context.Context, credential, subjectID, assignmentID string) error {
	return c.do(ctx, http.MethodDelete, "/subject/"+subjectID+"/assignments/"+assignmentID, credential, nil, nil)
}

// FetchAssignment loads one assignment for the detail view.
func (c *Client) FetchAssignment(ctx context.Context, credential, assignmentID string) (assignment.Assignment, error) {
	var out assignment.Assignment
	if err := c.do(ctx, http.MethodGet, "/assignments/"+assignmentID, credential, nil, &out); err != nil {
		return assignment.Assignment{}, err
	}
	out.AssignmentID = assignmentID
	return out, nil
}
