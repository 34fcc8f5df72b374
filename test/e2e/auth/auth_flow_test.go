package auth_test

import (
	"io"
	"net/http"
	"testing"

	httpapi "github.com/dharmil18/betterbank-auth-service/internal/auth/http"
	"github.com/stretchr/testify/require"
)

// TestRegistrationAndLogin walks one account through registration,
// background provisioning, email verification and login against a real
// Keycloak.
func TestRegistrationAndLogin(t *testing.T) {
	e := setupEnvironment(t)

	const (
		email    = "johndoe@test.com"
		password = "password123"
	)

	registration := httpapi.RegisterRequest{
		FirstName: "John",
		LastName:  "Doe",
		Email:     email,
		Password:  password,
	}

	t.Run("test endpoint", func(t *testing.T) {
		resp, err := http.Get(e.BaseURL + "/api/auth/test")
		require.NoError(t, err)
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.Equal(t, "Auth service is working!", string(body))
	})

	t.Run("readyz reports every dependency", func(t *testing.T) {
		resp, err := http.Get(e.BaseURL + "/readyz")
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("login before registration is rejected", func(t *testing.T) {
		var resp httpapi.LoginResponse
		code := postJSON(t, e.BaseURL, "/api/auth/login",
			httpapi.LoginRequest{Email: email, Password: password}, &resp)

		require.Equal(t, http.StatusUnauthorized, code)
		require.Equal(t, "INVALID_CREDENTIALS", resp.LoginState)
	})

	var userID string

	t.Run("registration is accepted and provisioned", func(t *testing.T) {
		var resp httpapi.GenericResponse
		code := postJSON(t, e.BaseURL, "/api/auth/register", registration, &resp)

		require.Equal(t, http.StatusCreated, code)
		require.True(t, resp.Success)

		user := waitForAccount(t, e.Admin, email)
		require.Equal(t, email, user.Username)
		require.Equal(t, "John", user.FirstName)
		require.Equal(t, "Doe", user.LastName)
		require.True(t, user.Enabled)
		require.False(t, user.EmailVerified)
		userID = user.ID
	})

	t.Run("second registration reports existing user", func(t *testing.T) {
		var resp httpapi.GenericResponse
		code := postJSON(t, e.BaseURL, "/api/auth/register", registration, &resp)

		require.Equal(t, http.StatusOK, code)
		require.False(t, resp.Success)
		require.Equal(t, "Can't create an account. Please use another email address.", resp.Message)
	})

	t.Run("unverified login is forbidden", func(t *testing.T) {
		var resp httpapi.LoginResponse
		code := postJSON(t, e.BaseURL, "/api/auth/login",
			httpapi.LoginRequest{Email: email, Password: password}, &resp)

		require.Equal(t, http.StatusForbidden, code)
		require.Equal(t, "EMAIL_NOT_VERIFIED", resp.LoginState)
		require.Empty(t, resp.AccessToken)
	})

	t.Run("verified login returns tokens", func(t *testing.T) {
		require.NotEmpty(t, userID)
		verifyEmail(t, e.Admin, userID)

		var resp httpapi.LoginResponse
		code := postJSON(t, e.BaseURL, "/api/auth/login",
			httpapi.LoginRequest{Email: email, Password: password}, &resp)

		require.Equal(t, http.StatusOK, code)
		require.True(t, resp.Success)
		require.Equal(t, "LOGGED_IN", resp.LoginState)
		require.Equal(t, email, resp.Email)
		require.NotEmpty(t, resp.AccessToken)
		require.NotEmpty(t, resp.RefreshToken)
	})

	t.Run("wrong password is unauthorized", func(t *testing.T) {
		var resp httpapi.LoginResponse
		code := postJSON(t, e.BaseURL, "/api/auth/login",
			httpapi.LoginRequest{Email: email, Password: "not-the-password"}, &resp)

		require.Equal(t, http.StatusUnauthorized, code)
		require.Equal(t, "INVALID_CREDENTIALS", resp.LoginState)
	})

	t.Run("invalid payload is rejected before the provider", func(t *testing.T) {
		var resp httpapi.ValidationErrorResponse
		code := postJSON(t, e.BaseURL, "/api/auth/register",
			httpapi.RegisterRequest{Email: "nope"}, &resp)

		require.Equal(t, http.StatusBadRequest, code)
		require.Equal(t, "Validation Failed", resp.Message)
		require.NotEmpty(t, resp.Errors)
	})
}
