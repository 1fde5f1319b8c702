package service

import (
	"context"
	"database/sql"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/cft-platform/planner-api/internal/models"
	appErrors "github.com/cft-platform/planner-api/pkg/errors"
)

type scheduleRepository interface {
	List(ctx context.Context) ([]models.Schedule, error)
	ListByTrainer(ctx context.Context, trainerID string) ([]models.Schedule, error)
	FindByID(ctx context.Context, id string) (*models.Schedule, error)
	FindBySlot(ctx context.Context, dayID, slotID int) ([]models.Schedule, error)
	Create(ctx context.Context, schedule *models.Schedule) error
	Update(ctx context.Context, schedule *models.Schedule) error
	Delete(ctx context.Context, id string) error
}

// CreateScheduleRequest describes the payload for placing a confirmed
// assignment directly, bypassing the draft stage.
type CreateScheduleRequest struct {
	TrainerName     string `json:"trainer_name" validate:"required"`
	Room            string `json:"room" validate:"required"`
	GroupName       string `json:"group_name" validate:"required"`
	TrackID         string `json:"track_id" validate:"required"`
	DayID           int    `json:"day_id" validate:"required,min=1,max=6"`
	SlotID          int    `json:"slot_id" validate:"required,min=1,max=4"`
	ModuleName      string `json:"module_name,omitempty"`
	ModuleTrainerID string `json:"module_trainer_id,omitempty"`
}

// UpdateScheduleRequest modifies a confirmed assignment in place.
type UpdateScheduleRequest struct {
	TrainerID       string `json:"trainer_id,omitempty"`
	TrainerName     string `json:"trainer_name" validate:"required_without=TrainerID"`
	Room            string `json:"room" validate:"required"`
	GroupName       string `json:"group_name" validate:"required"`
	TrackID         string `json:"track_id" validate:"required"`
	DayID           int    `json:"day_id" validate:"required,min=1,max=6"`
	SlotID          int    `json:"slot_id" validate:"required,min=1,max=4"`
	ModuleName      string `json:"module_name,omitempty"`
	ModuleTrainerID string `json:"module_trainer_id,omitempty"`
}

// AvailabilityResult reports what occupies a grid coordinate for an
// optionally-partial proposal.
type AvailabilityResult struct {
	DayID     int                         `json:"day_id"`
	Day       string                      `json:"day"`
	Slot      models.TimeSlot             `json:"slot"`
	Available bool                        `json:"available"`
	Conflicts []models.AssignmentConflict `json:"conflicts,omitempty"`
}

// ScheduleService manages confirmed assignments directly. Conflict gating
// is scoped to the confirmed collection only; drafts never block a live
// placement.
type ScheduleService struct {
	repo      scheduleRepository
	resolver  *AssignmentResolver
	checker   *ConflictChecker
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewScheduleService instantiates ScheduleService.
func NewScheduleService(repo scheduleRepository, resolver *AssignmentResolver, checker *ConflictChecker, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *ScheduleService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleService{repo: repo, resolver: resolver, checker: checker, cache: cache, validator: validate, logger: logger}
}

// List returns every confirmed schedule with denormalized display names.
func (s *ScheduleService) List(ctx context.Context) ([]models.Schedule, bool, error) {
	var cached []models.Schedule
	if hit, _ := s.cache.Get(ctx, scheduleListCacheKey, &cached); hit {
		return cached, true, nil
	}

	schedules, err := s.repo.List(ctx)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list schedules")
	}
	if schedules == nil {
		schedules = []models.Schedule{}
	}

	_ = s.cache.Set(ctx, scheduleListCacheKey, schedules, 0)
	return schedules, false, nil
}

// ListByTrainer returns the confirmed schedules taught by one trainer.
func (s *ScheduleService) ListByTrainer(ctx context.Context, trainerID string) ([]models.Schedule, error) {
	schedules, err := s.repo.ListByTrainer(ctx, trainerID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list trainer schedules")
	}
	return schedules, nil
}

// Get loads one confirmed schedule.
func (s *ScheduleService) Get(ctx context.Context, id string) (*models.Schedule, error) {
	schedule, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "schedule not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule")
	}
	return schedule, nil
}

// Create validates and places a confirmed assignment directly.
func (s *ScheduleService) Create(ctx context.Context, req CreateScheduleRequest) (*models.Schedule, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid schedule payload")
	}

	resolved, err := s.resolver.Resolve(ctx, assignmentInput{
		TrainerName:     req.TrainerName,
		Room:            req.Room,
		GroupName:       req.GroupName,
		TrackID:         req.TrackID,
		DayID:           req.DayID,
		SlotID:          req.SlotID,
		ModuleName:      req.ModuleName,
		ModuleTrainerID: req.ModuleTrainerID,
	})
	if err != nil {
		return nil, err
	}

	proposal := models.ConflictProposal{
		TrainerID: resolved.Trainer.ID,
		Room:      req.Room,
		GroupName: req.GroupName,
		DayID:     req.DayID,
		SlotID:    req.SlotID,
	}
	if err := s.checker.CheckSchedules(ctx, proposal, ""); err != nil {
		return nil, err
	}

	schedule := models.Schedule{
		TrainerID:   resolved.Trainer.ID,
		TrainerName: resolved.Trainer.Name,
		Room:        req.Room,
		GroupName:   req.GroupName,
		TrackID:     resolved.Track.ID,
		TrackName:   resolved.Track.Name,
		DayID:       req.DayID,
		SlotID:      req.SlotID,
		Module:      resolved.Module,
	}
	if err := s.repo.Create(ctx, &schedule); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create schedule")
	}

	s.invalidate(ctx)
	return &schedule, nil
}

// Update re-validates the tuple, excluding the schedule's own id from the
// conflict scan, and persists the change.
func (s *ScheduleService) Update(ctx context.Context, id string, req UpdateScheduleRequest) (*models.Schedule, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid schedule payload")
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "schedule not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule")
	}

	resolved, err := s.resolver.Resolve(ctx, assignmentInput{
		TrainerID:       req.TrainerID,
		TrainerName:     req.TrainerName,
		Room:            req.Room,
		GroupName:       req.GroupName,
		TrackID:         req.TrackID,
		DayID:           req.DayID,
		SlotID:          req.SlotID,
		ModuleName:      req.ModuleName,
		ModuleTrainerID: req.ModuleTrainerID,
	})
	if err != nil {
		return nil, err
	}

	proposal := models.ConflictProposal{
		TrainerID: resolved.Trainer.ID,
		Room:      req.Room,
		GroupName: req.GroupName,
		DayID:     req.DayID,
		SlotID:    req.SlotID,
	}
	if err := s.checker.CheckSchedules(ctx, proposal, existing.ID); err != nil {
		return nil, err
	}

	updated := models.Schedule{
		ID:          existing.ID,
		TrainerID:   resolved.Trainer.ID,
		TrainerName: resolved.Trainer.Name,
		Room:        req.Room,
		GroupName:   req.GroupName,
		TrackID:     resolved.Track.ID,
		TrackName:   resolved.Track.Name,
		DayID:       req.DayID,
		SlotID:      req.SlotID,
		Module:      resolved.Module,
		CreatedAt:   existing.CreatedAt,
	}
	if err := s.repo.Update(ctx, &updated); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update schedule")
	}

	s.invalidate(ctx)
	return &updated, nil
}

// Delete removes a confirmed schedule.
func (s *ScheduleService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "schedule not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete schedule")
	}

	s.invalidate(ctx)
	return nil
}

// Availability reports whether a grid coordinate is free for the supplied
// dimensions. Unsupplied dimensions are skipped, so callers can ask for
// room-only or trainer-only availability.
func (s *ScheduleService) Availability(ctx context.Context, proposal models.ConflictProposal) (*AvailabilityResult, error) {
	if !models.ValidDayID(proposal.DayID) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "day id is outside the weekly grid")
	}
	window := models.SlotWindow(proposal.SlotID)
	if window == nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "slot id is outside the daily grid")
	}

	conflicts, err := s.checker.Collisions(ctx, proposal)
	if err != nil {
		return nil, err
	}

	return &AvailabilityResult{
		DayID:     proposal.DayID,
		Day:       models.DayName(proposal.DayID),
		Slot:      *window,
		Available: len(conflicts) == 0,
		Conflicts: conflicts,
	}, nil
}

func (s *ScheduleService) invalidate(ctx context.Context) {
	if err := s.cache.Invalidate(ctx, scheduleCachePattern); err != nil {
		s.logger.Warn("schedule cache invalidation failed", zap.Error(err))
	}
}
