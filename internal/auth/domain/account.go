package domain

import "strings"

// Account is a user record as the identity provider reports it.
type Account struct {
	ID            string
	Username      string
	Email         string
	FirstName     string
	LastName      string
	Enabled       bool
	EmailVerified bool
}

// RequiredActionVerifyEmail makes the provider demand email verification
// before the account can sign in.
const RequiredActionVerifyEmail = "VERIFY_EMAIL"

// AccountRepresentation is the payload submitted to create an account.
type AccountRepresentation struct {
	Username        string
	Email           string
	FirstName       string
	LastName        string
	Enabled         bool
	EmailVerified   bool
	RequiredActions []string
	Password        PasswordCredential
}

// PasswordCredential is the initial password of a new account.
type PasswordCredential struct {
	Value     string
	Temporary bool
}

// NewAccountRepresentation builds the creation payload for req. The account
// starts enabled and unverified, the email doubles as the username, and the
// password is permanent.
func NewAccountRepresentation(req RegistrationRequest) AccountRepresentation {
	email := strings.TrimSpace(req.Email)

	return AccountRepresentation{
		Username:        email,
		Email:           email,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Enabled:         true,
		EmailVerified:   false,
		RequiredActions: []string{RequiredActionVerifyEmail},
		Password:        PasswordCredential{Value: req.Password, Temporary: false},
	}
}
