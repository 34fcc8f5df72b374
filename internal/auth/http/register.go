package http

import (
	"net/http"

	"github.com/dharmil18/betterbank-auth-service/internal/auth/domain"
	"github.com/dharmil18/betterbank-auth-service/internal/auth/service"
	"github.com/dharmil18/betterbank-auth-service/pkg/httpx"
	"github.com/dharmil18/betterbank-auth-service/pkg/slogx"
)

// RegisterHandler handles POST /api/auth/register.
type RegisterHandler struct {
	Auth service.Authenticator
}

// ServeHTTP godoc
//
//	@Summary		Register a new account
//	@Description	Checks the identity provider for an existing account with the same email and, if none is found,
//	@Description	hands account creation to a background worker. A 201 only means the request was accepted.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		RegisterRequest			true	"Registration details"
//	@Success		201		{object}	GenericResponse			"Account creation request received"
//	@Success		200		{object}	GenericResponse			"Email already in use"
//	@Failure		400		{object}	ValidationErrorResponse	"Validation failed"
//	@Failure		429		{object}	map[string]any			"Rate limit exceeded"
//	@Failure		500		{object}	GenericResponse			"Identity provider unavailable"
//	@Router			/api/auth/register [post]
func (h *RegisterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeValidationErrors(w, err)
		return
	}
	if err := req.Validate(); err != nil {
		writeValidationErrors(w, err)
		return
	}

	outcome := h.Auth.Register(r.Context(), req.toDomain())

	slogx.FromContext(r.Context()).Info("registration handled",
		slogx.Email(req.Email),
		"outcome", outcome.String(),
	)

	httpx.WriteJSON(w, registrationStatus(outcome), GenericResponse{
		Success: outcome == domain.InitiatedAsyncProcess,
		Message: outcome.Message(),
	})
}

func registrationStatus(o domain.RegistrationOutcome) int {
	switch o {
	case domain.InitiatedAsyncProcess:
		return http.StatusCreated
	case domain.UserExists:
		return http.StatusOK
	default:
		return http.StatusInternalServerError
	}
}
