package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/dharmil18/betterbank-auth-service/internal/auth/store"
)

// DefaultJournalRetention is how long finished provisioning tasks are kept.
const DefaultJournalRetention = 7 * 24 * time.Hour

// HousekeepingService periodically prunes finished provisioning tasks so the
// journal does not grow without bound.
type HousekeepingService struct {
	Store     store.Store
	Logger    *slog.Logger
	Interval  time.Duration
	Retention time.Duration

	// Internal channels for lifecycle management
	stopCh chan struct{}
	doneCh chan struct{}
	now    func() time.Time
}

// NewHousekeepingService creates a new housekeeping service. A non-positive
// interval defaults to 1 hour and a non-positive retention to
// DefaultJournalRetention.
func NewHousekeepingService(
	store store.Store,
	logger *slog.Logger,
	interval, retention time.Duration,
) *HousekeepingService {
	if interval <= 0 {
		interval = 1 * time.Hour
	}
	if retention <= 0 {
		retention = DefaultJournalRetention
	}

	return &HousekeepingService{
		Store:     store,
		Logger:    logger,
		Interval:  interval,
		Retention: retention,
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
		now:       time.Now,
	}
}

// Start begins the background worker that periodically runs cleanup.
// Call Stop() to gracefully shutdown the worker.
func (s *HousekeepingService) Start() {
	go s.run()
	s.Logger.Info("housekeeping service started", "interval", s.Interval, "retention", s.Retention)
}

// Stop gracefully shuts down the background worker.
// Blocks until the worker has finished any in-progress cleanup.
func (s *HousekeepingService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("housekeeping service stopped")
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	// Run cleanup immediately on startup
	s.cleanup()

	for {
		select {
		case <-ticker.C:
			s.cleanup()
		case <-s.stopCh:
			return
		}
	}
}

// cleanup removes finished journal entries older than the retention period.
func (s *HousekeepingService) cleanup() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	cutoff := s.now().Add(-s.Retention)

	deleted, err := s.Store.ProvisioningTasks().DeleteFinishedTasksBefore(ctx, cutoff)
	if err != nil {
		s.Logger.Error("failed to prune provisioning journal", "error", err)
		return
	}

	s.Logger.Info("housekeeping cleanup completed", "deleted_tasks", deleted, "cutoff", cutoff)
}
