package service

import (
	"context"

	"github.com/dharmil18/betterbank-auth-service/internal/auth/domain"
)

// Authenticator is what the HTTP layer depends on.
type Authenticator interface {
	Register(ctx context.Context, req domain.RegistrationRequest) domain.RegistrationOutcome
	Login(ctx context.Context, req domain.LoginRequest) domain.LoginStatus
}

// AuthService routes to the registration and login services. It holds no
// state of its own.
type AuthService struct {
	Registration *RegistrationService
	Logins       *LoginService
}

var _ Authenticator = (*AuthService)(nil)

func (s *AuthService) Register(ctx context.Context, req domain.RegistrationRequest) domain.RegistrationOutcome {
	return s.Registration.Register(ctx, req)
}

func (s *AuthService) Login(ctx context.Context, req domain.LoginRequest) domain.LoginStatus {
	return s.Logins.Login(ctx, req)
}
