package service

import (
	"context"
	"database/sql"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/cft-platform/planner-api/internal/models"
	appErrors "github.com/cft-platform/planner-api/pkg/errors"
)

type draftRepository interface {
	List(ctx context.Context) ([]models.Draft, error)
	FindByID(ctx context.Context, id string) (*models.Draft, error)
	FindBySlot(ctx context.Context, dayID, slotID int) ([]models.Draft, error)
	Create(ctx context.Context, draft *models.Draft) error
	Update(ctx context.Context, draft *models.Draft) error
	Delete(ctx context.Context, id string) error
}

// CreateDraftRequest describes the payload for proposing an assignment.
// The trainer is addressed by display name, the room by its free-text name.
type CreateDraftRequest struct {
	TrainerName     string `json:"trainer_name" validate:"required"`
	Room            string `json:"room" validate:"required"`
	GroupName       string `json:"group_name" validate:"required"`
	TrackID         string `json:"track_id" validate:"required"`
	DayID           int    `json:"day_id" validate:"required,min=1,max=6"`
	SlotID          int    `json:"slot_id" validate:"required,min=1,max=4"`
	ModuleName      string `json:"module_name,omitempty"`
	ModuleTrainerID string `json:"module_trainer_id,omitempty"`
}

// UpdateDraftRequest carries the same tuple plus an optional explicit
// trainer id, which wins over the name when present.
type UpdateDraftRequest struct {
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

// DraftService manages proposed assignments. Every write is gated by the
// referential resolver and a conflict check over both collections.
type DraftService struct {
	repo      draftRepository
	resolver  *AssignmentResolver
	checker   *ConflictChecker
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewDraftService instantiates DraftService.
func NewDraftService(repo draftRepository, resolver *AssignmentResolver, checker *ConflictChecker, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *DraftService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DraftService{repo: repo, resolver: resolver, checker: checker, cache: cache, validator: validate, logger: logger}
}

// List returns every draft with denormalized display names.
func (s *DraftService) List(ctx context.Context) ([]models.Draft, bool, error) {
	var cached []models.Draft
	if hit, _ := s.cache.Get(ctx, draftListCacheKey, &cached); hit {
		return cached, true, nil
	}

	drafts, err := s.repo.List(ctx)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list drafts")
	}
	if drafts == nil {
		drafts = []models.Draft{}
	}

	_ = s.cache.Set(ctx, draftListCacheKey, drafts, 0)
	return drafts, false, nil
}

// Get loads one draft.
func (s *DraftService) Get(ctx context.Context, id string) (*models.Draft, error) {
	draft, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "draft not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load draft")
	}
	return draft, nil
}

// Create validates, conflict-checks against drafts and schedules, and
// persists a new draft.
func (s *DraftService) Create(ctx context.Context, req CreateDraftRequest) (*models.Draft, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid draft payload")
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
	if err := s.checker.CheckDraftsAndSchedules(ctx, proposal, ""); err != nil {
		return nil, err
	}

	draft := models.Draft{
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
	if err := s.repo.Create(ctx, &draft); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create draft")
	}

	s.invalidate(ctx)
	return &draft, nil
}

// Update re-validates the full tuple, excluding the draft's own id from the
// conflict scan, and persists the change.
func (s *DraftService) Update(ctx context.Context, id string, req UpdateDraftRequest) (*models.Draft, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid draft payload")
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "draft not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load draft")
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
	if err := s.checker.CheckDraftsAndSchedules(ctx, proposal, existing.ID); err != nil {
		return nil, err
	}

	updated := models.Draft{
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
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update draft")
	}

	s.invalidate(ctx)
	return &updated, nil
}

// Delete removes a draft unconditionally once found.
func (s *DraftService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "draft not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load draft")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete draft")
	}

	s.invalidate(ctx)
	return nil
}

func (s *DraftService) invalidate(ctx context.Context) {
	if err := s.cache.Invalidate(ctx, draftCachePattern); err != nil {
		s.logger.Warn("draft cache invalidation failed", zap.Error(err))
	}
}
