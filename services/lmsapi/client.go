// Package lmsapi is the HTTP client for the remote EduSpace REST API. It is
// the single transport behind every screen: JSON over one configured base
// URL, authorized by the opaque bearer credential.
//
// Note: the server contract expects the credential as the raw Authorization
// header value, without a "Bearer" scheme prefix. Non-standard, preserved
// as-is for compatibility.
package lmsapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"strings"

	"github.com/pkg/errors"

	"github.com/eduspace/web/core/assignment"
	"github.com/eduspace/web/core/metrics"
	"github.com/eduspace/web/core/permission"
	"github.com/eduspace/web/core/profile"
	"github.com/eduspace/web/core/session"
	"github.com/eduspace/web/core/subject"
)

// Client satisfies every repository interface the domain stores depend on.
var (
	_ session.Authenticator           = (*Client)(nil)
	_ permission.Repository           = (*Client)(nil)
	_ subject.Repository              = (*Client)(nil)
	_ subject.RosterRepository        = (*Client)(nil)
	_ assignment.Repository           = (*Client)(nil)
	_ assignment.SubmissionRepository = (*Client)(nil)
	_ profile.Repository              = (*Client)(nil)
	_ profile.RegisterRepository      = (*Client)(nil)
	_ metrics.Repository              = (*Client)(nil)
)

type Client struct {
	baseURL string
	// no explicit timeout is configured: requests rely on the default
	// net/http client behavior plus per-call context cancellation.
	http *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
	}
}

// StatusError is any non-2xx response.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("api responded %d %s", e.Code, http.StatusText(e.Code))
}

// IsStatus reports whether err is a StatusError with the given code.
func IsStatus(err error, code int) bool {
	var sErr *StatusError
	return errors.As(err, &sErr) && sErr.Code == code
}

// do runs one API call. A non-nil `in` is sent as the JSON body; a non-nil
// `out` receives the decoded JSON response.
func (c *Client) do(ctx context.Context, method, path, credential string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return errors.Wrap(err, "encoding request body")
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return errors.Wrap(err, "building request")
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if credential != "" {
		// raw token, no scheme prefix (server contract)
		req.Header.Set("Authorization", credential)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return errors.Wrapf(err, "%s %s", method, path)
	}
	defer func() {
		_, _ = io.Copy(ioutil.Discard, res.Body)
		_ = res.Body.Close()
	}()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return errors.Wrapf(&StatusError{Code: res.StatusCode}, "%s %s", method, path)
	}
	if out != nil {
		if err := json.NewDecoder(res.Body).Decode(out); err != nil {
			return errors.Wrapf(err, "decoding %s %s response", method, path)
		}
	}
	return nil
}

// Login exchanges credentials for the opaque bearer token.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	in := struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}{email, password}
	var out struct {
		AccessToken string `json:"access_token"`
	}
	if err := c.do(ctx, http.MethodPost, "/login", "", in, &out); err != nil {
		return "", err
	}
	return out.AccessToken, nil
}

// FetchPermissions loads the capability set for the session.
func (c *Client) FetchPermissions(ctx context.Context, credential string) (permission.Set, error) {
	raw := make(map[string]bool)
	if err := c.do(ctx, http.MethodGet, "/permissions", credential, nil, &raw); err != nil {
		return nil, err
	}
	set := make(permission.Set, len(raw))
	for name, allowed := range raw {
		set[permission.Capability(name)] = allowed
	}
	return set, nil
}
