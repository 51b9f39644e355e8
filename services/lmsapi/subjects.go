package lmsapi

import (
	"context"
	"net/http"

	"github.com/eduspace/web/core/subject"
)

// FetchSubjects loads the dashboard subject list.
func (c *Client) FetchSubjects(ctx context.Context, credential string) ([]subject.Subject, error) {
	var out struct {
		Subjects []subject.Subject `json:"subjects"`
	}
	if err := c.do(ctx, http.MethodGet, "/dashboard", credential, nil, &out); err != nil {
		return nil, err
	}
	return out.Subjects, nil
}

// CreateSubject returns the created entity as the server confirmed it.
func (c *Client) CreateSubject(ctx context.Context, credential string, data subject.NewSubject) (subject.Subject, error) {
	var out struct {
		SubjectID   string `json:"subjectId"`
		Name        string `json:"name"`
		Description string `json:"description"`
		TeacherName string `json:"teacherName"`
	}
	if err := c.do(ctx, http.MethodPost, "/subject/add", credential, data, &out); err != nil {
		return subject.Subject{}, err
	}
	return subject.Subject{
		ID:          out.SubjectID,
		Name:        out.Name,
		Description: out.Description,
		TeacherName: out.TeacherName,
	}, nil
}

func (c *Client) EditSubjectTitle(ctx context.Context, credential, id, name string) error {
	in := struct {
		Name string `json:"name"`
	}{name}
	return c.do(ctx, http.MethodPatch, "/subject/"+id+"/edit-title", credential, in, nil)
}

func (c *Client) EditSubjectDescription(ctx context.Context, credential, id, description string) error {
	in := struct {
		Description string `json:"description"`
	}{description}
	return c.do(ctx, http.MethodPatch, "/subject/"+id+"/edit-description", credential, in, nil)
}

func (c *Client) DeleteSubject(ctx context.Context, credential, id string) error {
	return c.do(ctx, http.MethodDelete, "/subject/delete/"+id, credential, nil, nil)
}

// FetchStudents loads the subject roster.
func (c *Client) FetchStudents(ctx context.Context, credential, subjectID string) ([]subject.Student, error) {
	var out struct {
		Students []subject.Student `json:"students"`
	}
	if err := c.do(ctx, http.MethodGet, "/subject/"+subjectID+"/students", credential, nil, &out); err != nil {
		return nil, err
	}
	return out.Students, nil
}

func (c *Client) AddStudent(ctx context.Context, credential, subjectID, email string) error {
	in := struct {
		Email string `json:"email"`
	}{email}
	return c.do(ctx, http.MethodPost, "/subject/"+subjectID+"/students/add", credential, in, nil)
}

func (c *Client) RemoveStudent(ctx context.Context, credential, subjectID, studentID string) error {
	return c.do(ctx, http.MethodDelete, "/subject/"+subjectID+"/students/"+studentID, credential, nil, nil)
}
