package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/dharmil18/betterbank-auth-service/internal/auth/domain"
	"github.com/dharmil18/betterbank-auth-service/internal/auth/store"
	"github.com/dharmil18/betterbank-auth-service/pkg/idx"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := NewStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, s.ApplyMigrations())
	t.Cleanup(func() { _ = s.Close() })

	return s
}

func TestApplyMigrationsIsIdempotent(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	require.NoError(t, s.ApplyMigrations())
	require.NoError(t, s.Ping(context.Background()))
}

func TestProvisioningTaskLifecycle(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := newTestStore(t).ProvisioningTasks()

	id := idx.New().String()
	require.NoError(t, repo.CreateTask(ctx, domain.ProvisioningTask{
		ID:               id,
		EmailFingerprint: "fp-john",
		Status:           domain.ProvisioningDispatched,
	}))

	got, err := repo.GetTask(ctx, id)
	require.NoError(t, err)
	require.Equal(t, domain.ProvisioningDispatched, got.Status)
	require.Empty(t, got.AccountID)
	require.Empty(t, got.Reason)
	require.False(t, got.CreatedAt.IsZero())

	require.NoError(t, repo.UpdateTaskStatus(ctx, id, domain.ProvisioningCreated, "kc-123", ""))
	require.NoError(t, repo.UpdateTaskStatus(ctx, id, domain.ProvisioningCompleted, "", ""))

	got, err = repo.GetTask(ctx, id)
	require.NoError(t, err)
	require.Equal(t, domain.ProvisioningCompleted, got.Status)
	require.Equal(t, "kc-123", got.AccountID, "account id survives later transitions")
	require.False(t, got.UpdatedAt.Before(got.CreatedAt))
}

func TestCreateTaskDuplicateID(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := newTestStore(t).ProvisioningTasks()

	task := domain.ProvisioningTask{
		ID:               "01JTASKDUPLICATE0000000000",
		EmailFingerprint: "fp",
		Status:           domain.ProvisioningDispatched,
	}
	require.NoError(t, repo.CreateTask(ctx, task))

	err := repo.CreateTask(ctx, task)
	require.ErrorIs(t, err, store.ErrAlreadyExists)
}

func TestProvisioningTaskNotFound(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := newTestStore(t).ProvisioningTasks()

	_, err := repo.GetTask(ctx, "missing")
	require.ErrorIs(t, err, store.ErrNotFound)

	err = repo.UpdateTaskStatus(ctx, "missing", domain.ProvisioningFailed, "", "boom")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestListTasksByFingerprint(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := newTestStore(t).ProvisioningTasks()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	first := idx.NewAt(base).String()
	second := idx.NewAt(base.Add(time.Minute)).String()

	for _, id := range []string{first, second} {
		require.NoError(t, repo.CreateTask(ctx, domain.ProvisioningTask{
			ID:               id,
			EmailFingerprint: "fp-john",
			Status:           domain.ProvisioningDispatched,
		}))
	}
	require.NoError(t, repo.CreateTask(ctx, domain.ProvisioningTask{
		ID:               idx.New().String(),
		EmailFingerprint: "fp-jane",
		Status:           domain.ProvisioningDispatched,
	}))

	tasks, err := repo.ListTasksByFingerprint(ctx, "fp-john")
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	require.Equal(t, second, tasks[0].ID)
	require.Equal(t, first, tasks[1].ID)
}

func TestDeleteFinishedTasksBefore(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := newTestStore(t).ProvisioningTasks()

	old := time.Now().UTC().Add(-48 * time.Hour)
	create := func(status domain.ProvisioningStatus, at time.Time) string {
		id := idx.New().String()
		require.NoError(t, repo.CreateTask(ctx, domain.ProvisioningTask{
			ID:               id,
			EmailFingerprint: "fp",
			Status:           status,
			CreatedAt:        at,
			UpdatedAt:        at,
		}))
		return id
	}

	oldDone := create(domain.ProvisioningCompleted, old)
	oldFailed := create(domain.ProvisioningFailed, old)
	oldInFlight := create(domain.ProvisioningDispatched, old)
	recentDone := create(domain.ProvisioningCompleted, time.Now().UTC())

	n, err := repo.DeleteFinishedTasksBefore(ctx, time.Now().Add(-24*time.Hour))
	require.NoError(t, err)
	require.Equal(t, int64(2), n)

	for _, id := range []string{oldDone, oldFailed} {
		_, err := repo.GetTask(ctx, id)
		require.ErrorIs(t, err, store.ErrNotFound)
	}
	for _, id := range []string{oldInFlight, recentDone} {
		_, err := repo.GetTask(ctx, id)
		require.NoError(t, err)
	}
}
