package keycloak

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
)

// FindUsersByUsername returns the users whose username matches exactly.
func (c *Client) FindUsersByUsername(ctx context.Context, username string) ([]User, error) {
	return c.searchUsers(ctx, "find users by username", url.Values{
		"username": {username},
		"exact":    {"true"},
	})
}

// FindUsersByEmail returns the users whose email matches exactly.
func (c *Client) FindUsersByEmail(ctx context.Context, email string) ([]User, error) {
	return c.searchUsers(ctx, "find users by email", url.Values{
		"email": {email},
		"exact": {"true"},
	})
}

func (c *Client) searchUsers(ctx context.Context, op string, query url.Values) ([]User, error) {
	resp, err := c.doAdminRequest(ctx, op, http.MethodGet, c.adminURL("users")+"?"+query.Encode(), nil, nil)
	if err != nil {
		return nil, err
	}

	var users []User
	if err := decodeJSON(op, resp, &users, http.StatusOK); err != nil {
		return nil, err
	}

	return users, nil
}

// CreateUser submits a new user. Only transport failures are returned as
// errors; the status, Location and body are reported as-is so the caller can
// decide what a 409 or 400 means.
func (c *Client) CreateUser(ctx context.Context, user UserRepresentation) (*CreateUserResult, error) {
	const op = "create user"

	payload, err := json.Marshal(user)
	if err != nil {
		return nil, decodeError(op, err)
	}

	resp, err := c.doAdminRequest(ctx, op, http.MethodPost, c.adminURL("users"), bytes.NewReader(payload), map[string]string{
		"Content-Type": "application/json",
	})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, transportError(op, err)
	}

	return &CreateUserResult{
		StatusCode: resp.StatusCode,
		Location:   resp.Header.Get("Location"),
		Body:       string(body),
	}, nil
}

// SendVerifyEmail asks Keycloak to email the user a verification link.
func (c *Client) SendVerifyEmail(ctx context.Context, userID string) error {
	const op = "send verify email"

	resp, err := c.doAdminRequest(ctx, op, http.MethodPut, c.adminURL("users", userID, "send-verify-email"), nil, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusOK {
		return statusError(op, resp, body)
	}

	return nil
}

// UserIDFromLocation extracts the user id from the final segment of a
// Location header path. It returns "" when there is none.
func UserIDFromLocation(location string) string {
	location = strings.TrimSpace(location)
	if location == "" {
		return ""
	}

	p := location
	if u, err := url.Parse(location); err == nil {
		p = u.Path
	}

	if p == "" || strings.HasSuffix(p, "/") {
		return ""
	}

	return path.Base(p)
}
