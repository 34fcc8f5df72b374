package keycloak

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// User is the subset of Keycloak's UserRepresentation returned by searches.
type User struct {
	ID            string `json:"id"`
	Username      string `json:"username"`
	Email         string `json:"email"`
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
	Enabled       bool   `json:"enabled"`
	EmailVerified bool   `json:"emailVerified"`
}

// UserRepresentation is the payload for POST /admin/realms/{realm}/users.
type UserRepresentation struct {
	Username        string       `json:"username"`
	Email           string       `json:"email"`
	FirstName       string       `json:"firstName"`
	LastName        string       `json:"lastName"`
	Enabled         bool         `json:"enabled"`
	EmailVerified   bool         `json:"emailVerified"`
	RequiredActions []string     `json:"requiredActions,omitempty"`
	Credentials     []Credential `json:"credentials,omitempty"`
}

// Credential is a Keycloak CredentialRepresentation.
type Credential struct {
	Type      string `json:"type"`
	Value     string `json:"value"`
	Temporary bool   `json:"temporary"`
}

// CreateUserResult is what Keycloak answered to a user creation. Keycloak
// replies 201 with a Location header pointing at the new user; anything else
// is left for the caller to judge.
type CreateUserResult struct {
	StatusCode int
	Location   string
	// Body is the raw response body, useful for logging rejections.
	Body string
}

// TokenResponse is the token endpoint response.
type TokenResponse struct {
	AccessToken      string `json:"access_token"`
	RefreshToken     string `json:"refresh_token,omitempty"`
	TokenType        string `json:"token_type"`
	ExpiresIn        int    `json:"expires_in"`
	RefreshExpiresIn int    `json:"refresh_expires_in,omitempty"`
	Scope            string `json:"scope,omitempty"`
}

var errNoAccessToken = errors.New("no access token")

// Subject returns the "sub" claim of the access token. The signature is not
// checked: the token came straight from Keycloak over the client's own
// connection and is only read for correlation.
func (t *TokenResponse) Subject() (string, error) {
	if t.AccessToken == "" {
		return "", errNoAccessToken
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(t.AccessToken, claims); err != nil {
		return "", fmt.Errorf("parse access token: %w", err)
	}

	return claims.GetSubject()
}
