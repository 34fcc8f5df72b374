package service

import (
	"context"

	"github.com/dharmil18/betterbank-auth-service/internal/auth/domain"
	"github.com/dharmil18/betterbank-auth-service/pkg/keycloak"
	"golang.org/x/sync/errgroup"
)

// IdentityProvider is the part of the Keycloak client the services use.
// *keycloak.Client implements it.
type IdentityProvider interface {
	FindUsersByUsername(ctx context.Context, username string) ([]keycloak.User, error)
	FindUsersByEmail(ctx context.Context, email string) ([]keycloak.User, error)
	CreateUser(ctx context.Context, user keycloak.UserRepresentation) (*keycloak.CreateUserResult, error)
	SendVerifyEmail(ctx context.Context, userID string) error
	PasswordGrant(ctx context.Context, username, password string) (*keycloak.TokenResponse, error)
}

var _ IdentityProvider = (*keycloak.Client)(nil)

// lookupAccounts queries the provider by username and by email at the same
// time. The username of every account this service creates is its email, so
// both lookups use the same value. Username matches come first.
func lookupAccounts(ctx context.Context, idp IdentityProvider, email string) ([]domain.Account, error) {
	var byUsername, byEmail []keycloak.User

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		users, err := idp.FindUsersByUsername(gctx, email)
		byUsername = users
		return err
	})
	g.Go(func() error {
		users, err := idp.FindUsersByEmail(gctx, email)
		byEmail = users
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	accounts := make([]domain.Account, 0, len(byUsername)+len(byEmail))
	for _, u := range byUsername {
		accounts = append(accounts, toAccount(u))
	}
	for _, u := range byEmail {
		accounts = append(accounts, toAccount(u))
	}
	return accounts, nil
}

func toAccount(u keycloak.User) domain.Account {
	return domain.Account{
		ID:            u.ID,
		Username:      u.Username,
		Email:         u.Email,
		FirstName:     u.FirstName,
		LastName:      u.LastName,
		Enabled:       u.Enabled,
		EmailVerified: u.EmailVerified,
	}
}

func toUserRepresentation(rep domain.AccountRepresentation) keycloak.UserRepresentation {
	return keycloak.UserRepresentation{
		Username:        rep.Username,
		Email:           rep.Email,
		FirstName:       rep.FirstName,
		LastName:        rep.LastName,
		Enabled:         rep.Enabled,
		EmailVerified:   rep.EmailVerified,
		RequiredActions: rep.RequiredActions,
		Credentials: []keycloak.Credential{{
			Type:      "password",
			Value:     rep.Password.Value,
			Temporary: rep.Password.Temporary,
		}},
	}
}
