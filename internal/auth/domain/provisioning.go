package domain

import "time"

// ProvisioningStatus tracks a background account creation.
type ProvisioningStatus string

const (
	ProvisioningDispatched ProvisioningStatus = "dispatched"
	ProvisioningCreated    ProvisioningStatus = "created"
	ProvisioningCompleted  ProvisioningStatus = "completed"
	ProvisioningSkipped    ProvisioningStatus = "skipped"
	ProvisioningFailed     ProvisioningStatus = "failed"
)

// Finished reports whether no further transition is expected.
func (s ProvisioningStatus) Finished() bool {
	switch s {
	case ProvisioningCompleted, ProvisioningSkipped, ProvisioningFailed:
		return true
	default:
		return false
	}
}

// ProvisioningTask is a journal entry for one dispatched account creation.
// It never holds the email address or password, only a fingerprint of the
// email.
type ProvisioningTask struct {
	ID               string
	EmailFingerprint string
	Status           ProvisioningStatus
	AccountID        string // set once the provider returned an id
	Reason           string // why the task was skipped or failed
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
