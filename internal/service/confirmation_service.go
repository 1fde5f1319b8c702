package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cft-platform/planner-api/internal/models"
	appErrors "github.com/cft-platform/planner-api/pkg/errors"
)

type confirmationDraftSource interface {
	ListRaw(ctx context.Context) ([]models.Draft, error)
	FindByID(ctx context.Context, id string) (*models.Draft, error)
}

type confirmationScheduleSource interface {
	List(ctx context.Context) ([]models.Schedule, error)
}

type confirmationStore interface {
	ConfirmOne(ctx context.Context, schedule *models.Schedule, entry *models.HistoryEntry, draftID string) error
	ApplyDraft(ctx context.Context, schedule *models.Schedule, draftID string, update bool) error
}

type historyAppender interface {
	Insert(ctx context.Context, entry *models.HistoryEntry) error
}

// ConfirmError reports why one draft could not be promoted during a batch
// confirmation.
type ConfirmError struct {
	DraftID string `json:"draft_id"`
	Message string `json:"message"`
}

// ConfirmAllResult is the heterogeneous outcome of a batch confirmation:
// the schedules written in this run alongside the per-draft failures.
type ConfirmAllResult struct {
	Schedules        []models.Schedule `json:"schedules"`
	Errors           []ConfirmError    `json:"errors,omitempty"`
	Warnings         []string          `json:"warnings,omitempty"`
	ConfirmationDate time.Time         `json:"confirmation_date"`
}

// Partial reports whether the batch completed with per-draft failures.
func (r *ConfirmAllResult) Partial() bool {
	return len(r.Errors) > 0
}

// ConfirmationService promotes drafts into confirmed schedules. A promoted
// assignment never silently overwrites a different one in the same slot;
// collisions always surface as errors.
type ConfirmationService struct {
	drafts    confirmationDraftSource
	schedules confirmationScheduleSource
	store     confirmationStore
	history   historyAppender
	checker   *ConflictChecker
	trainers  trainerLookup
	tracks    trackLookup
	cache     *CacheService
	logger    *zap.Logger
}

// NewConfirmationService instantiates ConfirmationService.
func NewConfirmationService(drafts confirmationDraftSource, schedules confirmationScheduleSource, store confirmationStore, history historyAppender, checker *ConflictChecker, trainers trainerLookup, tracks trackLookup, cache *CacheService, logger *zap.Logger) *ConfirmationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConfirmationService{
		drafts:    drafts,
		schedules: schedules,
		store:     store,
		history:   history,
		checker:   checker,
		trainers:  trainers,
		tracks:    tracks,
		cache:     cache,
		logger:    logger,
	}
}

// ConfirmOne promotes a single draft. The schedule insert, history append
// and draft delete commit as one transaction, so re-running with the same
// id after success fails with NotFound rather than duplicating.
func (s *ConfirmationService) ConfirmOne(ctx context.Context, draftID string) (*models.Schedule, error) {
	draft, err := s.drafts.FindByID(ctx, draftID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "draft not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load draft")
	}

	proposal := models.ConflictProposal{
		TrainerID: draft.TrainerID,
		Room:      draft.Room,
		GroupName: draft.GroupName,
		DayID:     draft.DayID,
		SlotID:    draft.SlotID,
	}
	if err := s.checker.CheckSchedules(ctx, proposal, ""); err != nil {
		return nil, err
	}

	schedule := scheduleFromDraft(*draft)
	schedule.ID = uuid.NewString()

	now := time.Now().UTC()
	entry := models.HistoryEntry{
		ScheduleID:       &schedule.ID,
		Action:           models.HistoryActionCreated,
		Schedules:        models.HistorySnapshot{models.SnapshotFromSchedule(schedule)},
		ConfirmationDate: now,
	}

	if err := s.store.ConfirmOne(ctx, &schedule, &entry, draft.ID); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to confirm draft")
	}

	s.invalidate(ctx)
	s.logger.Info("draft confirmed",
		zap.String("draft_id", draft.ID),
		zap.String("schedule_id", schedule.ID))
	return &schedule, nil
}

// ConfirmAll promotes every draft, tolerating per-draft failures: one bad
// draft is recorded and skipped, never aborting the batch. Drafts are
// processed sequentially so each sees the schedules written by earlier
// iterations. Exactly one history entry snapshots the full confirmed set.
func (s *ConfirmationService) ConfirmAll(ctx context.Context) (*ConfirmAllResult, error) {
	drafts, err := s.drafts.ListRaw(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list drafts")
	}

	now := time.Now().UTC()
	result := &ConfirmAllResult{Schedules: []models.Schedule{}, ConfirmationDate: now}
	if len(drafts) == 0 {
		return result, nil
	}

	for _, draft := range drafts {
		schedule, confErr := s.applyOne(ctx, draft)
		if confErr != nil {
			result.Errors = append(result.Errors, *confErr)
			continue
		}
		result.Schedules = append(result.Schedules, *schedule)
	}

	s.invalidate(ctx)

	// History is audit, not source of truth: the committed schedules stand
	// even when the snapshot write fails, which degrades to a warning.
	snapshot, err := s.snapshotAll(ctx)
	if err != nil {
		s.logger.Error("failed to snapshot schedules for history", zap.Error(err))
		result.Warnings = append(result.Warnings, "history snapshot not recorded: "+err.Error())
		return result, nil
	}
	entry := models.HistoryEntry{
		Action:           models.HistoryActionConfirmed,
		Schedules:        snapshot,
		ConfirmationDate: now,
	}
	if err := s.history.Insert(ctx, &entry); err != nil {
		s.logger.Error("failed to append confirmation history", zap.Error(err))
		result.Warnings = append(result.Warnings, "history snapshot not recorded: "+err.Error())
	}

	s.logger.Info("batch confirmation finished",
		zap.Int("confirmed", len(result.Schedules)),
		zap.Int("failed", len(result.Errors)))
	return result, nil
}

// applyOne validates and writes a single draft within the batch. Returned
// ConfirmError means record-and-continue; the draft stays untouched.
func (s *ConfirmationService) applyOne(ctx context.Context, draft models.Draft) (*models.Schedule, *ConfirmError) {
	trainer, track, msg := s.validateDraftRefs(ctx, draft)
	if msg != "" {
		return nil, &ConfirmError{DraftID: draft.ID, Message: msg}
	}
	draft.TrainerName = trainer.Name
	draft.TrackName = track.Name

	proposal := models.ConflictProposal{
		TrainerID: draft.TrainerID,
		Room:      draft.Room,
		GroupName: draft.GroupName,
		DayID:     draft.DayID,
		SlotID:    draft.SlotID,
	}

	// A colliding schedule is the merge target: re-confirmation updates it
	// in place instead of erroring on a conflict with itself.
	target, err := s.checker.FindMergeTarget(ctx, proposal)
	if err != nil {
		return nil, &ConfirmError{DraftID: draft.ID, Message: err.Error()}
	}

	schedule := scheduleFromDraft(draft)
	update := false
	if target != nil {
		if err := s.checker.CheckSchedules(ctx, proposal, target.ID); err != nil {
			return nil, &ConfirmError{DraftID: draft.ID, Message: appErrors.FromError(err).Message}
		}
		schedule.ID = target.ID
		schedule.CreatedAt = target.CreatedAt
		update = true
	}

	if err := s.store.ApplyDraft(ctx, &schedule, draft.ID, update); err != nil {
		return nil, &ConfirmError{DraftID: draft.ID, Message: "failed to write schedule: " + err.Error()}
	}
	return &schedule, nil
}

// validateDraftRefs runs the referential checks of the batch path. It
// returns the resolved trainer and track, or a non-empty message when the
// draft is unsound.
func (s *ConfirmationService) validateDraftRefs(ctx context.Context, draft models.Draft) (*models.Trainer, *models.Track, string) {
	if draft.TrainerID == "" || draft.Room == "" || draft.GroupName == "" || draft.TrackID == "" {
		return nil, nil, "draft is missing required fields"
	}
	if !models.ValidDayID(draft.DayID) || !models.ValidSlotID(draft.SlotID) {
		return nil, nil, "draft slot coordinate is outside the weekly grid"
	}
	trainer, err := s.trainers.FindByID(ctx, draft.TrainerID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil, "trainer no longer exists"
		}
		return nil, nil, "failed to resolve trainer: " + err.Error()
	}
	track, err := s.tracks.FindByID(ctx, draft.TrackID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil, "track no longer exists"
		}
		return nil, nil, "failed to resolve track: " + err.Error()
	}
	if draft.Module != nil && draft.Module.TrainerID != "" && draft.Module.TrainerID != draft.TrainerID {
		if _, err := s.trainers.FindByID(ctx, draft.Module.TrainerID); err != nil {
			if err == sql.ErrNoRows {
				return nil, nil, "module trainer no longer exists"
			}
			return nil, nil, "failed to resolve module trainer: " + err.Error()
		}
	}
	return trainer, track, ""
}

// snapshotAll captures the full confirmed collection, deduplicated by id
// at the storage level.
func (s *ConfirmationService) snapshotAll(ctx context.Context) (models.HistorySnapshot, error) {
	schedules, err := s.schedules.List(ctx)
	if err != nil {
		return nil, err
	}
	return models.SnapshotFromSchedules(schedules), nil
}

func scheduleFromDraft(draft models.Draft) models.Schedule {
	return models.Schedule{
		TrainerID:   draft.TrainerID,
		TrainerName: draft.TrainerName,
		Room:        draft.Room,
		GroupName:   draft.GroupName,
		TrackID:     draft.TrackID,
		TrackName:   draft.TrackName,
		DayID:       draft.DayID,
		SlotID:      draft.SlotID,
		Module:      draft.Module,
	}
}

func (s *ConfirmationService) invalidate(ctx context.Context) {
	if err := s.cache.Invalidate(ctx, draftCachePattern); err != nil {
		s.logger.Warn("draft cache invalidation failed", zap.Error(err))
	}
	if err := s.cache.Invalidate(ctx, scheduleCachePattern); err != nil {
		s.logger.Warn("schedule cache invalidation failed", zap.Error(err))
	}
}
