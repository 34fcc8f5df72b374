package service

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/dharmil18/betterbank-auth-service/internal/auth/domain"
	"github.com/dharmil18/betterbank-auth-service/pkg/keycloak"
	"github.com/dharmil18/betterbank-auth-service/pkg/slogx"
	"github.com/stretchr/testify/require"
)

var johnLogin = domain.LoginRequest{Email: "johndoe@test.com", Password: "password123"}

func verifiedJohn() keycloak.User {
	return keycloak.User{ID: "kc-123", Username: johnLogin.Email, Email: johnLogin.Email, Enabled: true, EmailVerified: true}
}

func newLogin(p IdentityProvider) *LoginService {
	return &LoginService{Provider: p, Logger: slogx.Discard()}
}

func TestLoginUnknownAccount(t *testing.T) {
	t.Parallel()

	p := &fakeProvider{}
	status := newLogin(p).Login(context.Background(), johnLogin)

	require.Equal(t, domain.InvalidCredentials, status.State)
	require.Nil(t, status.Tokens)
	_, _, tokenCalls := p.snapshot()
	require.Zero(t, tokenCalls)
}

func TestLoginUnverifiedAccount(t *testing.T) {
	t.Parallel()

	u := verifiedJohn()
	u.EmailVerified = false
	p := &fakeProvider{users: []keycloak.User{u}}

	status := newLogin(p).Login(context.Background(), johnLogin)

	require.Equal(t, domain.EmailNotVerified, status.State)
	_, _, tokenCalls := p.snapshot()
	require.Zero(t, tokenCalls, "no credential exchange for unverified accounts")
}

func TestLoginDisabledAccountReachesTokenEndpoint(t *testing.T) {
	t.Parallel()

	u := verifiedJohn()
	u.Enabled = false
	u.EmailVerified = false
	p := &fakeProvider{
		users:    []keycloak.User{u},
		tokenErr: &keycloak.Error{Kind: keycloak.KindStatus, StatusCode: http.StatusBadRequest, Code: "invalid_grant", Description: "Account disabled"},
	}

	status := newLogin(p).Login(context.Background(), johnLogin)

	require.Equal(t, domain.InvalidCredentials, status.State)
	_, _, tokenCalls := p.snapshot()
	require.Equal(t, 1, tokenCalls)
}

func TestLoginSucceeds(t *testing.T) {
	t.Parallel()

	p := &fakeProvider{
		users: []keycloak.User{verifiedJohn()},
		token: &keycloak.TokenResponse{AccessToken: "abc", RefreshToken: "xyz", TokenType: "Bearer", ExpiresIn: 300},
	}

	status := newLogin(p).Login(context.Background(), johnLogin)

	require.Equal(t, domain.LoggedIn, status.State)
	require.NotNil(t, status.Tokens)
	require.Equal(t, "abc", status.Tokens.AccessToken)
	require.Equal(t, "xyz", status.Tokens.RefreshToken)
	require.Equal(t, "kc-123", status.Tokens.Subject, "falls back to the account id when the token is opaque")
}

func TestLoginEmptyAccessToken(t *testing.T) {
	t.Parallel()

	p := &fakeProvider{users: []keycloak.User{verifiedJohn()}, token: &keycloak.TokenResponse{}}

	status := newLogin(p).Login(context.Background(), johnLogin)
	require.Equal(t, domain.InvalidCredentials, status.State)
	require.Nil(t, status.Tokens)
}

func TestLoginFailures(t *testing.T) {
	t.Parallel()

	statusErr := func(code, desc string) error {
		return &keycloak.Error{Op: keycloak.OpPasswordGrant, Kind: keycloak.KindStatus, StatusCode: http.StatusBadRequest, Code: code, Description: desc}
	}

	cases := []struct {
		name      string
		lookupErr error
		tokenErr  error
		want      domain.LoginState
	}{
		{"invalid grant", nil, statusErr("invalid_grant", "Invalid user credentials"), domain.InvalidCredentials},
		{"invalid client", nil, statusErr("invalid_client", ""), domain.InvalidCredentials},
		{"not verified", nil, statusErr("invalid_request", "Email is not verified"), domain.EmailNotVerified},
		{"provider down during grant", nil, transportErr(), domain.ServerError},
		{"provider down during lookup", transportErr(), nil, domain.ServerError},
		{"lookup rejected by provider", &keycloak.Error{Op: "admin token", Kind: keycloak.KindStatus, StatusCode: http.StatusUnauthorized, Code: "invalid_client"}, nil, domain.ServerError},
		{"provider 500", nil, &keycloak.Error{Kind: keycloak.KindStatus, StatusCode: http.StatusInternalServerError}, domain.ServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			p := &fakeProvider{users: []keycloak.User{verifiedJohn()}, lookupErr: tc.lookupErr, tokenErr: tc.tokenErr}
			status := newLogin(p).Login(context.Background(), johnLogin)

			require.Equal(t, tc.want, status.State)
			require.Nil(t, status.Tokens)
		})
	}
}

// TestLoginAgainstKeycloakResponses drives the real client against canned
// token endpoint bodies.
func TestLoginAgainstKeycloakResponses(t *testing.T) {
	t.Parallel()

	run := func(t *testing.T, tokenStatus int, tokenBody string) domain.LoginStatus {
		t.Helper()

		mux := http.NewServeMux()
		mux.HandleFunc("POST /realms/betterbank/protocol/openid-connect/token", func(w http.ResponseWriter, r *http.Request) {
			_ = r.ParseForm()
			w.Header().Set("Content-Type", "application/json")
			if r.PostForm.Get("client_id") == "admin-cli" {
				_, _ = io.WriteString(w, `{"access_token":"admin","expires_in":60}`)
				return
			}
			w.WriteHeader(tokenStatus)
			_, _ = io.WriteString(w, tokenBody)
		})
		mux.HandleFunc("GET /admin/realms/betterbank/users", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = io.WriteString(w, `[{"id":"kc-123","username":"johndoe@test.com","email":"johndoe@test.com","enabled":true,"emailVerified":true}]`)
		})

		srv := httptest.NewServer(mux)
		t.Cleanup(srv.Close)

		kc := keycloak.NewClient(keycloak.Config{
			BaseURL:       srv.URL,
			Realm:         "betterbank",
			ClientID:      "betterbank-app",
			ClientSecret:  "secret",
			AdminClientID: "admin-cli",
		})
		return newLogin(kc).Login(context.Background(), johnLogin)
	}

	t.Run("invalid grant", func(t *testing.T) {
		t.Parallel()

		status := run(t, http.StatusUnauthorized, `{"error":"invalid_grant"}`)
		require.Equal(t, domain.InvalidCredentials, status.State)
	})

	t.Run("tokens", func(t *testing.T) {
		t.Parallel()

		status := run(t, http.StatusOK, `{"access_token":"abc","refresh_token":"xyz"}`)
		require.Equal(t, domain.LoggedIn, status.State)
		require.Equal(t, "abc", status.Tokens.AccessToken)
		require.Equal(t, "xyz", status.Tokens.RefreshToken)
	})
}

// TestLoginWithRejectedAdminCredentials covers a service whose own admin
// client is refused by Keycloak. That is a server fault, not the user's.
func TestLoginWithRejectedAdminCredentials(t *testing.T) {
	t.Parallel()

	for _, code := range []string{"invalid_client", "invalid_grant"} {
		t.Run(code, func(t *testing.T) {
			t.Parallel()

			var userTokenRequests atomic.Int32
			mux := http.NewServeMux()
			mux.HandleFunc("POST /realms/betterbank/protocol/openid-connect/token", func(w http.ResponseWriter, r *http.Request) {
				_ = r.ParseForm()
				if r.PostForm.Get("client_id") != "admin-cli" {
					userTokenRequests.Add(1)
				}
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = io.WriteString(w, `{"error":"`+code+`","error_description":"Invalid client or Invalid client credentials"}`)
			})

			srv := httptest.NewServer(mux)
			t.Cleanup(srv.Close)

			kc := keycloak.NewClient(keycloak.Config{
				BaseURL:           srv.URL,
				Realm:             "betterbank",
				ClientID:          "betterbank-app",
				ClientSecret:      "secret",
				AdminClientID:     "admin-cli",
				AdminClientSecret: "wrong",
			})

			status := newLogin(kc).Login(context.Background(), johnLogin)
			require.Equal(t, domain.ServerError, status.State)
			require.Nil(t, status.Tokens)
			require.Zero(t, userTokenRequests.Load())
		})
	}
}
