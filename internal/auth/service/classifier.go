package service

import (
	"context"
	"errors"
	"net"
	"net/url"
	"strings"

	"github.com/dharmil18/betterbank-auth-service/internal/auth/domain"
	"github.com/dharmil18/betterbank-auth-service/pkg/keycloak"
)

// Rejection is a provider answer that says something about the caller's
// credentials rather than about the provider itself.
type Rejection uint8

const (
	NoRejection Rejection = iota
	// BadCredentials is an OAuth2 invalid_grant or invalid_client.
	BadCredentials
	// Unverified means the account exists but its email is not verified.
	Unverified
)

// Classification is what Classify makes of a failed provider call.
type Classification struct {
	Failure   domain.ProviderFailure
	Rejection Rejection
}

// Classify maps any error from the identity provider to a ProviderFailure
// and, for rejections of an end user's password grant, a Rejection. The same
// OAuth2 codes from the admin token request say nothing about the user and
// stay plain failures. It is the only place raw
// provider errors are interpreted. A nil error classifies as NoFailure.
func Classify(err error) Classification {
	if err == nil {
		return Classification{}
	}

	var kcErr *keycloak.Error
	if errors.As(err, &kcErr) && kcErr != nil {
		return classifyKeycloak(kcErr)
	}

	if isTransport(err) {
		return Classification{Failure: domain.ConnectionFailed}
	}

	return Classification{Failure: domain.UnknownFailure}
}

func classifyKeycloak(e *keycloak.Error) Classification {
	switch e.Kind {
	case keycloak.KindTransport:
		return Classification{Failure: domain.ConnectionFailed}
	case keycloak.KindDecode:
		return Classification{Failure: domain.ProtocolError}
	case keycloak.KindStatus:
		c := Classification{Failure: domain.ProtocolError}
		if e.Op != keycloak.OpPasswordGrant {
			return c
		}
		switch {
		case e.Code == keycloak.ErrorCodeInvalidGrant, e.Code == keycloak.ErrorCodeInvalidClient:
			c.Rejection = BadCredentials
		case e.Code == keycloak.ErrorCodeUnverifiedUser,
			strings.Contains(strings.ToLower(e.Description), "not verified"):
			c.Rejection = Unverified
		}
		return c
	default:
		if isTransport(e.Err) {
			return Classification{Failure: domain.ConnectionFailed}
		}
		return Classification{Failure: domain.UnknownFailure}
	}
}

func isTransport(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	var urlErr *url.Error
	return errors.As(err, &urlErr)
}
