package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/dharmil18/betterbank-auth-service/internal/auth/domain"
	"github.com/dharmil18/betterbank-auth-service/internal/auth/guard"
	"github.com/dharmil18/betterbank-auth-service/internal/auth/store"
	"github.com/dharmil18/betterbank-auth-service/pkg/cryptox"
	"github.com/dharmil18/betterbank-auth-service/pkg/idx"
	"github.com/dharmil18/betterbank-auth-service/pkg/keycloak"
	"github.com/dharmil18/betterbank-auth-service/pkg/slogx"
	"github.com/dharmil18/betterbank-auth-service/pkg/workpool"
)

// ErrProvisioningInFlight is returned by Dispatch when a creation for the
// same email has not finished yet.
var ErrProvisioningInFlight = errors.New("provisioning already in flight")

// DefaultTaskTimeout bounds a single background account creation.
const DefaultTaskTimeout = 30 * time.Second

// journalTimeout bounds journal writes, which run on a context detached from
// the task deadline.
const journalTimeout = 5 * time.Second

// Submitter is implemented by *workpool.Pool.
type Submitter interface {
	SubmitWithID(id idx.ID, task workpool.Task) (workpool.Handle, error)
}

// ProvisioningWorker creates accounts in the background. At most one
// creation per email is in flight at a time.
type ProvisioningWorker struct {
	Provider IdentityProvider
	Pool     Submitter
	Guard    guard.DispatchGuard
	// Journal is optional.
	Journal store.ProvisioningTasks
	Logger  *slog.Logger

	TaskTimeout time.Duration
	// Recheck looks the email up again right before creating the account.
	Recheck bool
}

// Dispatch hands req to the pool and returns without waiting. ctx is only
// used for the dispatch itself; the task runs on a detached context with its
// own timeout. Errors are ErrProvisioningInFlight, workpool.ErrSaturated,
// workpool.ErrClosed, or a guard failure.
func (w *ProvisioningWorker) Dispatch(ctx context.Context, req domain.RegistrationRequest) (workpool.Handle, error) {
	log := slogx.FromContextOr(ctx, w.Logger)
	key := cryptox.Fingerprint(req.Email)

	token, ok, err := w.Guard.Acquire(ctx, key)
	if err != nil {
		return workpool.Handle{}, fmt.Errorf("acquire dispatch guard: %w", err)
	}
	if !ok {
		return workpool.Handle{}, ErrProvisioningInFlight
	}

	taskID := idx.New()
	log = log.With("task_id", taskID)

	w.journalCreate(ctx, log, domain.ProvisioningTask{
		ID:               taskID.String(),
		EmailFingerprint: key,
		Status:           domain.ProvisioningDispatched,
	})

	detached := context.WithoutCancel(slogx.WithContext(ctx, log))

	h, err := w.Pool.SubmitWithID(taskID, func() {
		defer w.release(detached, log, key, token)

		// The hold's TTL started at dispatch and may have run out while the
		// task sat in the queue.
		if !w.renew(detached, log, key, token) {
			w.journalUpdate(detached, log, taskID, domain.ProvisioningSkipped, "", "dispatch guard taken over")
			return
		}

		timeout := w.TaskTimeout
		if timeout <= 0 {
			timeout = DefaultTaskTimeout
		}
		taskCtx, cancel := context.WithTimeout(detached, timeout)
		defer cancel()

		w.CreateAccount(taskCtx, taskID, req)
	})
	if err != nil {
		w.release(detached, log, key, token)
		w.journalUpdate(detached, log, taskID, domain.ProvisioningFailed, "", err.Error())
		return workpool.Handle{}, err
	}

	log.Info("provisioning dispatched", slogx.Email(req.Email))
	return h, nil
}

// CreateAccount is the body of a provisioning task. It never returns an
// error or panics; every outcome is logged and journalled and the final
// status is returned.
func (w *ProvisioningWorker) CreateAccount(
	ctx context.Context,
	taskID idx.ID,
	req domain.RegistrationRequest,
) (status domain.ProvisioningStatus) {
	log := slogx.FromContextOr(ctx, w.Logger).With("task_id", taskID, slogx.Email(req.Email))

	finish := func(s domain.ProvisioningStatus, accountID, reason string) domain.ProvisioningStatus {
		w.journalUpdate(ctx, log, taskID, s, accountID, reason)
		return s
	}

	defer func() {
		if r := recover(); r != nil {
			log.Error("provisioning panicked", "panic", r)
			status = finish(domain.ProvisioningFailed, "", "panic")
		}
	}()

	if w.Recheck {
		users, err := w.Provider.FindUsersByEmail(ctx, req.Email)
		if err != nil {
			c := Classify(err)
			log.Error("provisioning recheck failed", "failure", c.Failure.String(), "error", err)
			return finish(domain.ProvisioningFailed, "", "recheck: "+c.Failure.String())
		}
		if len(users) > 0 {
			log.Warn("account appeared before provisioning, skipping")
			return finish(domain.ProvisioningSkipped, "", "account already exists")
		}
	}

	rep := domain.NewAccountRepresentation(req)
	res, err := w.Provider.CreateUser(ctx, toUserRepresentation(rep))
	if err != nil {
		c := Classify(err)
		log.Error("account creation failed", "failure", c.Failure.String(), "error", err)
		return finish(domain.ProvisioningFailed, "", "create: "+c.Failure.String())
	}

	switch {
	case res.StatusCode == http.StatusConflict:
		log.Warn("account creation rejected as duplicate", "status", res.StatusCode, "body", res.Body)
		return finish(domain.ProvisioningSkipped, "", "provider reported duplicate")
	case res.StatusCode != http.StatusCreated:
		log.Error("account creation rejected", "status", res.StatusCode, "body", res.Body)
		return finish(domain.ProvisioningFailed, "", fmt.Sprintf("create: status %d", res.StatusCode))
	}

	accountID := keycloak.UserIDFromLocation(res.Location)
	if accountID == "" {
		log.Error("account created without a usable location", "location", res.Location)
		return finish(domain.ProvisioningFailed, "", "create: missing account id")
	}

	log = log.With("account_id", accountID)
	log.Info("account created")
	w.journalUpdate(ctx, log, taskID, domain.ProvisioningCreated, accountID, "")

	if err := w.Provider.SendVerifyEmail(ctx, accountID); err != nil {
		c := Classify(err)
		log.Error("verification email request failed", "failure", c.Failure.String(), "error", err)
		return finish(domain.ProvisioningFailed, accountID, "verify email: "+c.Failure.String())
	}

	log.Info("verification email requested")
	return finish(domain.ProvisioningCompleted, accountID, "")
}

// renew restarts the guard TTL as the task starts. It reports false only when
// another dispatch for the same email holds the key; a guard error is logged
// and the task goes ahead, leaving duplicates to the recheck.
func (w *ProvisioningWorker) renew(ctx context.Context, log *slog.Logger, key, token string) bool {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), journalTimeout)
	defer cancel()

	ok, err := w.Guard.Extend(ctx, key, token)
	if err != nil {
		log.Warn("failed to extend dispatch guard", "error", err)
		return true
	}
	if !ok {
		log.Warn("dispatch guard expired while queued and was taken over, skipping")
	}
	return ok
}

func (w *ProvisioningWorker) release(ctx context.Context, log *slog.Logger, key, token string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), journalTimeout)
	defer cancel()

	if err := w.Guard.Release(ctx, key, token); err != nil {
		log.Warn("failed to release dispatch guard", "error", err)
	}
}

func (w *ProvisioningWorker) journalCreate(ctx context.Context, log *slog.Logger, t domain.ProvisioningTask) {
	if w.Journal == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), journalTimeout)
	defer cancel()

	if err := w.Journal.CreateTask(ctx, t); err != nil {
		log.Warn("failed to journal provisioning task", "error", err)
	}
}

func (w *ProvisioningWorker) journalUpdate(
	ctx context.Context,
	log *slog.Logger,
	taskID idx.ID,
	status domain.ProvisioningStatus,
	accountID, reason string,
) {
	if w.Journal == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), journalTimeout)
	defer cancel()

	if err := w.Journal.UpdateTaskStatus(ctx, taskID.String(), status, accountID, reason); err != nil {
		log.Warn("failed to journal provisioning status", "status", status, "error", err)
	}
}
