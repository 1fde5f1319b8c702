package service

import (
	"context"
	"database/sql"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/cft-platform/planner-api/internal/models"
	appErrors "github.com/cft-platform/planner-api/pkg/errors"
)

type trackRepository interface {
	List(ctx context.Context) ([]models.Track, error)
	FindByID(ctx context.Context, id string) (*models.Track, error)
	Create(ctx context.Context, track *models.Track) error
	Update(ctx context.Context, track *models.Track) error
	Delete(ctx context.Context, id string) error
}

// TrackRequest describes the payload for creating or updating a track.
type TrackRequest struct {
	Name            string   `json:"name" validate:"required"`
	EstablishmentID string   `json:"establishment_id" validate:"required"`
	Groups          []string `json:"groups" validate:"required,min=1"`
	Modules         []string `json:"modules"`
}

// TrackService manages tracks, the owners of valid group and module names.
type TrackService struct {
	repo      trackRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTrackService instantiates TrackService.
func NewTrackService(repo trackRepository, validate *validator.Validate, logger *zap.Logger) *TrackService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TrackService{repo: repo, validator: validate, logger: logger}
}

// List returns all tracks.
func (s *TrackService) List(ctx context.Context) ([]models.Track, error) {
	tracks, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list tracks")
	}
	return tracks, nil
}

// Get loads one track.
func (s *TrackService) Get(ctx context.Context, id string) (*models.Track, error) {
	track, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "track not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load track")
	}
	return track, nil
}

// Create stores a new track.
func (s *TrackService) Create(ctx context.Context, req TrackRequest) (*models.Track, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid track payload")
	}

	track := models.Track{
		Name:            req.Name,
		EstablishmentID: req.EstablishmentID,
		Groups:          models.NameList(req.Groups),
		Modules:         models.NameList(req.Modules),
	}
	if err := s.repo.Create(ctx, &track); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create track")
	}
	return &track, nil
}

// Update modifies an existing track.
func (s *TrackService) Update(ctx context.Context, id string, req TrackRequest) (*models.Track, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid track payload")
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "track not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load track")
	}

	updated := models.Track{
		ID:              existing.ID,
		Name:            req.Name,
		EstablishmentID: req.EstablishmentID,
		Groups:          models.NameList(req.Groups),
		Modules:         models.NameList(req.Modules),
		CreatedAt:       existing.CreatedAt,
	}
	if err := s.repo.Update(ctx, &updated); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update track")
	}
	return &updated, nil
}

// Delete removes a track.
func (s *TrackService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "track not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load track")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete track")
	}
	return nil
}
