package http

import (
	"strings"
	"time"

	"github.com/dharmil18/betterbank-auth-service/internal/auth/domain"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

// RegisterRequest is the body of POST /api/auth/register.
type RegisterRequest struct {
	FirstName string `json:"firstName" example:"John"`
	LastName  string `json:"lastName" example:"Doe"`
	Email     string `json:"email" example:"johndoe@test.com"`
	Password  string `json:"password" example:"password123"`
}

func (r RegisterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.FirstName, validation.Required.Error("First Name is required")),
		validation.Field(&r.LastName, validation.Required.Error("Last Name is required")),
		validation.Field(&r.Email,
			validation.Required.Error("Email is required"),
			is.Email.Error("Email should be valid"),
		),
		validation.Field(&r.Password,
			validation.Required.Error("Password is required"),
			validation.Length(8, 0).Error("Password must be at least 8 characters long"),
		),
	)
}

func (r RegisterRequest) toDomain() domain.RegistrationRequest {
	return domain.RegistrationRequest{
		FirstName: strings.TrimSpace(r.FirstName),
		LastName:  strings.TrimSpace(r.LastName),
		Email:     strings.TrimSpace(r.Email),
		Password:  r.Password,
	}
}

// LoginRequest is the body of POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email" example:"johndoe@test.com"`
	Password string `json:"password" example:"password123"`
}

func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email,
			validation.Required.Error("Email is required"),
			is.Email.Error("Email should be valid"),
		),
		validation.Field(&r.Password, validation.Required.Error("Password is required")),
	)
}

func (r LoginRequest) toDomain() domain.LoginRequest {
	return domain.LoginRequest{
		Email:    strings.TrimSpace(r.Email),
		Password: r.Password,
	}
}

// GenericResponse is returned by the registration endpoint.
type GenericResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// LoginResponse is returned by the login endpoint. Tokens are only present
// on LOGGED_IN.
type LoginResponse struct {
	Success      bool   `json:"success"`
	LoginState   string `json:"loginState" example:"LOGGED_IN"`
	Message      string `json:"message"`
	Email        string `json:"email,omitempty"`
	AccessToken  string `json:"accessToken,omitempty"`
	RefreshToken string `json:"refreshToken,omitempty"`
}

// ValidationErrorResponse is returned with 400 for malformed or invalid
// request bodies.
type ValidationErrorResponse struct {
	Status    int               `json:"status" example:"400"`
	Message   string            `json:"message" example:"Validation Failed"`
	Errors    []ValidationError `json:"errors"`
	Timestamp time.Time         `json:"timestamp"`
}

// ValidationError describes one rejected field.
type ValidationError struct {
	Field   string `json:"field" example:"email"`
	Message string `json:"message" example:"Email should be valid"`
}

// HealthResponse is returned by /livez and /readyz.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks reports the state of each dependency.
type HealthChecks struct {
	Database string `json:"database"`
	Provider string `json:"provider"`
	Guard    string `json:"guard,omitempty"`
}
