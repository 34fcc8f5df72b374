package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/dharmil18/betterbank-auth-service/internal/auth/domain"
	"github.com/dharmil18/betterbank-auth-service/pkg/slogx"
	"github.com/dharmil18/betterbank-auth-service/pkg/workpool"
)

// Dispatcher is implemented by *ProvisioningWorker.
type Dispatcher interface {
	Dispatch(ctx context.Context, req domain.RegistrationRequest) (workpool.Handle, error)
}

// RegistrationService decides whether a sign-up may go ahead and, if so,
// hands account creation to the background worker.
type RegistrationService struct {
	Provider    IdentityProvider
	Provisioner Dispatcher
	Logger      *slog.Logger
}

// Register never waits for the account to be created. InitiatedAsyncProcess
// only means the creation was dispatched.
func (s *RegistrationService) Register(ctx context.Context, req domain.RegistrationRequest) domain.RegistrationOutcome {
	log := slogx.FromContextOr(ctx, s.Logger).With(slogx.Email(req.Email))

	existing, err := lookupAccounts(ctx, s.Provider, req.Email)
	if err != nil {
		c := Classify(err)
		log.Error("registration lookup failed", "failure", c.Failure.String(), "error", err)
		return domain.ProviderError
	}
	if len(existing) > 0 {
		log.Info("registration rejected, account exists")
		return domain.UserExists
	}

	// The handle is not needed; the worker logs and journals its own outcome.
	_, err = s.Provisioner.Dispatch(ctx, req)
	switch {
	case err == nil:
		return domain.InitiatedAsyncProcess
	case errors.Is(err, ErrProvisioningInFlight):
		log.Info("registration rejected, provisioning already in flight")
		return domain.UserExists
	case errors.Is(err, workpool.ErrSaturated), errors.Is(err, workpool.ErrClosed):
		log.Error("registration not dispatched, provisioning pool unavailable", "error", err)
		return domain.ProviderError
	default:
		log.Error("registration not dispatched", "error", err)
		return domain.ProviderError
	}
}
