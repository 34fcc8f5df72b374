package keycloak

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// maxBodyBytes caps how much of a Keycloak response is read.
const maxBodyBytes = 1 << 20

// Config holds the Keycloak endpoints and credentials.
type Config struct {
	BaseURL string
	Realm   string

	// ClientID and ClientSecret identify the confidential client used for
	// end-user password grants.
	ClientID     string
	ClientSecret string

	// AdminRealm defaults to Realm.
	AdminRealm        string
	AdminClientID     string
	AdminClientSecret string
	// AdminUsername switches the admin token source from client_credentials
	// to a password grant.
	AdminUsername string
	AdminPassword string

	Timeout time.Duration
}

// Client talks to a single Keycloak realm.
type Client struct {
	BaseURL      string
	Realm        string
	ClientID     string
	ClientSecret string

	HTTPClient *http.Client
	Admin      *AdminTokenSource
}

// NewClient creates a client and its admin token source from cfg.
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	c := &Client{
		BaseURL:      strings.TrimSuffix(cfg.BaseURL, "/"),
		Realm:        cfg.Realm,
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		HTTPClient:   &http.Client{Timeout: timeout},
	}

	adminRealm := cfg.AdminRealm
	if adminRealm == "" {
		adminRealm = cfg.Realm
	}

	c.Admin = &AdminTokenSource{
		client:       c,
		realm:        adminRealm,
		clientID:     cfg.AdminClientID,
		clientSecret: cfg.AdminClientSecret,
		username:     cfg.AdminUsername,
		password:     cfg.AdminPassword,
	}

	return c
}

// url builds a complete URL by appending the escaped path segments to the
// base URL.
func (c *Client) url(segments ...string) string {
	var b strings.Builder
	b.WriteString(c.BaseURL)
	for _, s := range segments {
		b.WriteByte('/')
		b.WriteString(url.PathEscape(s))
	}
	return b.String()
}

func (c *Client) adminURL(segments ...string) string {
	return c.url(append([]string{"admin", "realms", c.Realm}, segments...)...)
}

func (c *Client) tokenURL(realm string) string {
	return c.url("realms", realm, "protocol", "openid-connect", "token")
}

// doAdminRequest performs an admin API request with a bearer token from the
// admin token source. A 401 drops the cached token so the next call fetches
// a fresh one.
func (c *Client) doAdminRequest(
	ctx context.Context,
	op, method, rawURL string,
	body io.Reader,
	headers map[string]string,
) (*http.Response, error) {
	token, err := c.Admin.Token(ctx)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return nil, &Error{Op: op, Kind: KindTransport, Err: fmt.Errorf("failed to create request: %w", err)}
	}

	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, transportError(op, err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		c.Admin.Invalidate()
	}

	return resp, nil
}

// decodeJSON reads the body once and either decodes it into target or turns
// it into a status error.
func decodeJSON(op string, resp *http.Response, target any, expectedStatus int) error {
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return transportError(op, fmt.Errorf("failed to read response body: %w", err))
	}

	if resp.StatusCode != expectedStatus {
		return statusError(op, resp, body)
	}

	if err := json.Unmarshal(body, target); err != nil {
		return decodeError(op, err)
	}

	return nil
}

// Ping checks that the realm is being served.
func (c *Client) Ping(ctx context.Context) error {
	const op = "ping"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url("realms", c.Realm), nil)
	if err != nil {
		return &Error{Op: op, Kind: KindTransport, Err: err}
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return transportError(op, err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if resp.StatusCode != http.StatusOK {
		return statusError(op, resp, body)
	}

	return nil
}
