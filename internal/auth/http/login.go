package http

import (
	"net/http"

	"github.com/dharmil18/betterbank-auth-service/internal/auth/domain"
	"github.com/dharmil18/betterbank-auth-service/internal/auth/service"
	"github.com/dharmil18/betterbank-auth-service/pkg/httpx"
	"github.com/dharmil18/betterbank-auth-service/pkg/slogx"
)

// LoginHandler handles POST /api/auth/login.
type LoginHandler struct {
	Auth service.Authenticator
}

// ServeHTTP godoc
//
//	@Summary		Log in with email and password
//	@Description	Exchanges the credentials for tokens at the identity provider. Accounts whose email has not been
//	@Description	verified are refused before any credentials are sent.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		LoginRequest			true	"Credentials"
//	@Success		200		{object}	LoginResponse			"LOGGED_IN with access and refresh tokens"
//	@Failure		400		{object}	ValidationErrorResponse	"Validation failed"
//	@Failure		401		{object}	LoginResponse			"INVALID_CREDENTIALS"
//	@Failure		403		{object}	LoginResponse			"EMAIL_NOT_VERIFIED"
//	@Failure		429		{object}	map[string]any			"Rate limit exceeded"
//	@Failure		500		{object}	LoginResponse			"SERVER_ERROR"
//	@Router			/api/auth/login [post]
func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeValidationErrors(w, err)
		return
	}
	if err := req.Validate(); err != nil {
		writeValidationErrors(w, err)
		return
	}

	login := req.toDomain()
	status := h.Auth.Login(r.Context(), login)

	slogx.FromContext(r.Context()).Info("login handled",
		slogx.Email(req.Email),
		"state", status.State.String(),
	)

	resp := LoginResponse{
		Success:    status.State == domain.LoggedIn,
		LoginState: status.State.String(),
		Message:    status.State.Message(),
	}
	if resp.Success && status.Tokens != nil {
		resp.Email = login.Email
		resp.AccessToken = status.Tokens.AccessToken
		resp.RefreshToken = status.Tokens.RefreshToken
	}

	httpx.WriteJSON(w, loginStatus(status.State), resp)
}

func loginStatus(s domain.LoginState) int {
	switch s {
	case domain.LoggedIn:
		return http.StatusOK
	case domain.InvalidCredentials:
		return http.StatusUnauthorized
	case domain.EmailNotVerified:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
