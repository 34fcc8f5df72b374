package service

import (
	"context"
	"testing"
	"time"

	"github.com/dharmil18/betterbank-auth-service/internal/auth/domain"
	"github.com/dharmil18/betterbank-auth-service/internal/auth/store"
	"github.com/dharmil18/betterbank-auth-service/pkg/idx"
	"github.com/dharmil18/betterbank-auth-service/pkg/slogx"
	"github.com/stretchr/testify/require"
)

func TestHousekeepingPrunesFinishedTasks(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	journal := newJournal(t)
	repo := journal.ProvisioningTasks()

	now := time.Now().UTC()
	old := now.Add(-10 * 24 * time.Hour)

	create := func(status domain.ProvisioningStatus, at time.Time) string {
		id := idx.New().String()
		require.NoError(t, repo.CreateTask(ctx, domain.ProvisioningTask{
			ID: id, EmailFingerprint: "fp", Status: status, CreatedAt: at, UpdatedAt: at,
		}))
		return id
	}

	stale := create(domain.ProvisioningCompleted, old)
	stuck := create(domain.ProvisioningDispatched, old)
	fresh := create(domain.ProvisioningFailed, now)

	hk := NewHousekeepingService(journal, slogx.Discard(), 0, 0)
	require.Equal(t, time.Hour, hk.Interval)
	require.Equal(t, DefaultJournalRetention, hk.Retention)

	hk.cleanup()

	_, err := repo.GetTask(ctx, stale)
	require.ErrorIs(t, err, store.ErrNotFound)
	_, err = repo.GetTask(ctx, stuck)
	require.NoError(t, err)
	_, err = repo.GetTask(ctx, fresh)
	require.NoError(t, err)
}

func TestHousekeepingStartStop(t *testing.T) {
	t.Parallel()

	hk := NewHousekeepingService(newJournal(t), slogx.Discard(), time.Hour, time.Hour)
	hk.Start()
	hk.Stop()
}
