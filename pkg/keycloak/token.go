package keycloak

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// expiryBuffer is subtracted from token lifetimes so a cached token is
// replaced before Keycloak starts rejecting it.
const expiryBuffer = 30 * time.Second

// OpPasswordGrant is the Op of errors from PasswordGrant. Only these carry
// a verdict on the end user's credentials; every other token request is the
// service authenticating itself.
const OpPasswordGrant = "password grant"

// PasswordGrant exchanges an end user's credentials for tokens using the
// service client.
func (c *Client) PasswordGrant(ctx context.Context, username, password string) (*TokenResponse, error) {
	data := url.Values{
		"grant_type":    {"password"},
		"client_id":     {c.ClientID},
		"client_secret": {c.ClientSecret},
		"username":      {username},
		"password":      {password},
	}

	return c.requestToken(ctx, OpPasswordGrant, c.Realm, data)
}

func (c *Client) requestToken(ctx context.Context, op, realm string, data url.Values) (*TokenResponse, error) {
	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.tokenURL(realm),
		strings.NewReader(data.Encode()),
	)
	if err != nil {
		return nil, &Error{Op: op, Kind: KindTransport, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, transportError(op, err)
	}

	var tokenResp TokenResponse
	if err := decodeJSON(op, resp, &tokenResp, http.StatusOK); err != nil {
		return nil, err
	}

	return &tokenResp, nil
}

// AdminTokenSource hands out admin API bearer tokens. It uses a password
// grant when a username is configured and client_credentials otherwise.
type AdminTokenSource struct {
	client *Client

	realm        string
	clientID     string
	clientSecret string
	username     string
	password     string

	mu          sync.RWMutex
	accessToken string
	expiresAt   time.Time
}

// Token returns a valid admin access token, fetching a new one when the
// cached token is missing or about to expire.
func (s *AdminTokenSource) Token(ctx context.Context) (string, error) {
	s.mu.RLock()
	if s.accessToken != "" && time.Now().Before(s.expiresAt) {
		token := s.accessToken
		s.mu.RUnlock()
		return token, nil
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	// Another goroutine may have refreshed while we waited.
	if s.accessToken != "" && time.Now().Before(s.expiresAt) {
		return s.accessToken, nil
	}

	tokenResp, err := s.client.requestToken(ctx, "admin token", s.realm, s.grant())
	if err != nil {
		return "", err
	}
	if tokenResp.AccessToken == "" {
		return "", decodeError("admin token", errNoAccessToken)
	}

	s.accessToken = tokenResp.AccessToken
	s.expiresAt = time.Now().Add(time.Duration(tokenResp.ExpiresIn)*time.Second - expiryBuffer)

	return s.accessToken, nil
}

// Invalidate drops the cached token.
func (s *AdminTokenSource) Invalidate() {
	s.mu.Lock()
	s.accessToken = ""
	s.expiresAt = time.Time{}
	s.mu.Unlock()
}

func (s *AdminTokenSource) grant() url.Values {
	data := url.Values{"client_id": {s.clientID}}
	if s.clientSecret != "" {
		data.Set("client_secret", s.clientSecret)
	}

	if s.username != "" {
		data.Set("grant_type", "password")
		data.Set("username", s.username)
		data.Set("password", s.password)
		return data
	}

	data.Set("grant_type", "client_credentials")
	return data
}
