package service

import (
	"context"
	"log/slog"

	"github.com/dharmil18/betterbank-auth-service/internal/auth/domain"
	"github.com/dharmil18/betterbank-auth-service/pkg/slogx"
)

// LoginService resolves a login attempt to a LoginState. Steps run in a
// fixed order and the first one that decides wins.
type LoginService struct {
	Provider IdentityProvider
	Logger   *slog.Logger
}

func (s *LoginService) Login(ctx context.Context, req domain.LoginRequest) domain.LoginStatus {
	log := slogx.FromContextOr(ctx, s.Logger).With(slogx.Email(req.Email))

	accounts, err := lookupAccounts(ctx, s.Provider, req.Email)
	if err != nil {
		return s.failed(log, "login lookup failed", err)
	}
	if len(accounts) == 0 {
		log.Info("login rejected, no such account")
		return domain.LoginStatus{State: domain.InvalidCredentials}
	}

	// Disabled accounts go on to the token endpoint, which rejects them.
	if acct := accounts[0]; acct.Enabled && !acct.EmailVerified {
		log.Info("login rejected, email not verified", "account_id", acct.ID)
		return domain.LoginStatus{State: domain.EmailNotVerified}
	}

	tok, err := s.Provider.PasswordGrant(ctx, req.Email, req.Password)
	if err != nil {
		return s.failed(log, "password grant failed", err)
	}
	if tok.AccessToken == "" {
		log.Warn("password grant returned no access token")
		return domain.LoginStatus{State: domain.InvalidCredentials}
	}

	subject, err := tok.Subject()
	if err != nil {
		log.Debug("access token subject unreadable", "error", err)
		subject = accounts[0].ID
	}

	log.Info("login succeeded", "account_id", subject, "token_type", tok.TokenType, "expires_in", tok.ExpiresIn)

	return domain.LoginStatus{
		State: domain.LoggedIn,
		Tokens: &domain.TokenPair{
			AccessToken:  tok.AccessToken,
			RefreshToken: tok.RefreshToken,
			TokenType:    tok.TokenType,
			ExpiresIn:    tok.ExpiresIn,
			Subject:      subject,
		},
	}
}

func (s *LoginService) failed(log *slog.Logger, msg string, err error) domain.LoginStatus {
	c := Classify(err)

	switch c.Rejection {
	case BadCredentials:
		log.Info("login rejected, invalid credentials")
		return domain.LoginStatus{State: domain.InvalidCredentials}
	case Unverified:
		log.Info("login rejected by provider, email not verified")
		return domain.LoginStatus{State: domain.EmailNotVerified}
	}

	log.Error(msg, "failure", c.Failure.String(), "error", err)
	return domain.LoginStatus{State: domain.ServerError}
}
