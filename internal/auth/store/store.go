package store

import (
	"context"
	"errors"
	"time"

	"github.com/dharmil18/betterbank-auth-service/internal/auth/domain"
)

var (
	ErrNotFound = errors.New("store: not found")
	// ErrAlreadyExists is returned by CreateTask for a task id already in
	// the journal.
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers implement this
// and expose sub-repositories to keep concerns tidy and testable.
//
// The store only journals what the service did. It is never consulted to
// decide whether an account exists; the identity provider owns that.
type Store interface {
	ProvisioningTasks() ProvisioningTasks

	ApplyMigrations() error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

type ProvisioningTasks interface {
	// CreateTask records a freshly dispatched task. The id is a ULID.
	CreateTask(ctx context.Context, t domain.ProvisioningTask) error

	// GetTask returns a task by id.
	GetTask(ctx context.Context, id string) (domain.ProvisioningTask, error)

	// UpdateTaskStatus moves a task to status and records the account id
	// and reason when non-empty. Returns ErrNotFound for unknown ids.
	UpdateTaskStatus(ctx context.Context, id string, status domain.ProvisioningStatus, accountID, reason string) error

	// ListTasksByFingerprint returns the tasks for an email fingerprint,
	// newest first.
	ListTasksByFingerprint(ctx context.Context, fingerprint string) ([]domain.ProvisioningTask, error)

	// DeleteFinishedTasksBefore removes completed, skipped and failed tasks
	// last updated before cutoff and reports how many were removed.
	DeleteFinishedTasksBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
