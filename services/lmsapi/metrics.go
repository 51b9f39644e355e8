package lmsapi

import (
	"context"
	"net/http"

	"github.com/eduspace/web/core/metrics"
)

func (c *Client) FetchStudentRegistrations(ctx context.Context, credential string) (map[string]int, error) {
	out := make(map[string]int)
	if err := c.do(ctx, http.MethodGet, "/student-registrations", credential, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) FetchMostPopularSubjects(ctx context.Context, credential string) ([]metrics.SubjectPopularity, error) {
	var out []metrics.SubjectPopularity
	if err := c.do(ctx, http.MethodGet, "/most-popular-subjects", credential, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) FetchUserCounts(ctx context.Context, credential string) (metrics.UserCounts, error) {
	var out metrics.UserCounts
	if err := c.do(ctx, http.MethodGet, "/user-counts", credential, nil, &out); err != nil {
		return metrics.UserCounts{}, err
	}
	return out, nil
}
