package lmsapi

import (
	"context"
	"net/http"

	"github.com/eduspace/web/core/profile"
)

func (c *Client) FetchProfile(ctx context.Context, credential string) (profile.Profile, error) {
	var out profile.Profile
	if err := c.do(ctx, http.MethodGet, "/profile", credential, nil, &out); err != nil {
		return profile.Profile{}, err
	}
	return out, nil
}

func (c *Client) ChangePassword(ctx context.Context, credential, oldPassword, newPassword string) error {
	in := struct {
		OldPassword string `json:"oldPassword"`
		NewPassword string `json:"newPassword"`
	}{oldPassword, newPassword}
	return c.do(ctx, http.MethodPost, "/change_password", credential, in, nil)
}

// RegisterUser creates a user account. A 400 response means the email is
// already registered; detect it with IsStatus(err, http.StatusBadRequest).
func (c *Client) RegisterUser(ctx context.Context, credential string, data profile.NewUser) error {
	return c.do(ctx, http.MethodPost, "/register", credential, data, nil)
}
