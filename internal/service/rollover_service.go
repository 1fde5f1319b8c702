package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cft-platform/planner-api/internal/models"
	"github.com/cft-platform/planner-api/pkg/jobs"
)

type rolloverScheduleSource interface {
	List(ctx context.Context) ([]models.Schedule, error)
	Delete(ctx context.Context, id string) error
}

// RolloverReport summarises one weekly sweep over the confirmed grid.
type RolloverReport struct {
	Checked   int       `json:"checked"`
	Dropped   []string  `json:"dropped,omitempty"`
	StartedAt time.Time `json:"started_at"`
}

// RolloverService carries the confirmed grid from one week into the next:
// it re-validates every schedule against the current reference data, drops
// entries whose trainer or room is gone, and snapshots the surviving set.
type RolloverService struct {
	schedules      rolloverScheduleSource
	history        historyAppender
	trainers       trainerLookup
	establishments establishmentLookup
	cache          *CacheService
	logger         *zap.Logger
}

// NewRolloverService instantiates RolloverService.
func NewRolloverService(schedules rolloverScheduleSource, history historyAppender, trainers trainerLookup, establishments establishmentLookup, cache *CacheService, logger *zap.Logger) *RolloverService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RolloverService{
		schedules:      schedules,
		history:        history,
		trainers:       trainers,
		establishments: establishments,
		cache:          cache,
		logger:         logger,
	}
}

// Run executes one rollover sweep.
func (s *RolloverService) Run(ctx context.Context) (*RolloverReport, error) {
	schedules, err := s.schedules.List(ctx)
	if err != nil {
		return nil, err
	}

	report := &RolloverReport{Checked: len(schedules), StartedAt: time.Now().UTC()}
	surviving := make([]models.Schedule, 0, len(schedules))

	for _, schedule := range schedules {
		if reason := s.stale(ctx, schedule); reason != "" {
			if err := s.schedules.Delete(ctx, schedule.ID); err != nil {
				s.logger.Error("failed to drop stale schedule",
					zap.String("schedule_id", schedule.ID),
					zap.Error(err))
				surviving = append(surviving, schedule)
				continue
			}
			s.logger.Warn("dropped stale schedule",
				zap.String("schedule_id", schedule.ID),
				zap.String("reason", reason))
			report.Dropped = append(report.Dropped, schedule.ID)
			continue
		}
		surviving = append(surviving, schedule)
	}

	entry := models.HistoryEntry{
		Action:           models.HistoryActionUpdated,
		Schedules:        models.SnapshotFromSchedules(surviving),
		ConfirmationDate: report.StartedAt,
	}
	if err := s.history.Insert(ctx, &entry); err != nil {
		s.logger.Error("failed to append rollover history", zap.Error(err))
	}

	if len(report.Dropped) > 0 {
		if err := s.cache.Invalidate(ctx, scheduleCachePattern); err != nil {
			s.logger.Warn("schedule cache invalidation failed", zap.Error(err))
		}
	}

	s.logger.Info("weekly rollover finished",
		zap.Int("checked", report.Checked),
		zap.Int("dropped", len(report.Dropped)))
	return report, nil
}

// stale reports why a schedule no longer validates, or "" when it is sound.
func (s *RolloverService) stale(ctx context.Context, schedule models.Schedule) string {
	if _, err := s.trainers.FindByID(ctx, schedule.TrainerID); err != nil {
		if err == sql.ErrNoRows {
			return "trainer no longer exists"
		}
		// Transient lookup failures never drop schedules.
		return ""
	}
	if _, err := s.establishments.FindByRoom(ctx, schedule.Room); err != nil {
		if err == sql.ErrNoRows {
			return "room no longer owned by any establishment"
		}
		return ""
	}
	return ""
}

// Queue wraps the service in a worker queue so sweeps run off the request
// path and retry on failure.
func (s *RolloverService) Queue(workers int, logger *zap.Logger) *jobs.Queue {
	handler := func(ctx context.Context, job jobs.Job) error {
		_, err := s.Run(ctx)
		return err
	}
	return jobs.NewQueue("rollover", handler, jobs.QueueConfig{
		Workers: workers,
		Logger:  logger,
	})
}

// Schedule enqueues a sweep every interval until ctx is cancelled. The
// queue must already be started.
func (s *RolloverService) Schedule(ctx context.Context, queue *jobs.Queue, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				job := jobs.Job{ID: uuid.NewString(), Type: "rollover"}
				if err := queue.Enqueue(job); err != nil {
					s.logger.Warn("failed to enqueue rollover", zap.Error(err))
				}
			}
		}
	}()
}
