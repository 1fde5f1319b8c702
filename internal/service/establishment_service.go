package service

import (
	"context"
	"database/sql"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/cft-platform/planner-api/internal/models"
	appErrors "github.com/cft-platform/planner-api/pkg/errors"
)

type establishmentRepository interface {
	List(ctx context.Context) ([]models.Establishment, error)
	FindByID(ctx context.Context, id string) (*models.Establishment, error)
	FindByRoom(ctx context.Context, room string) (*models.Establishment, error)
	Create(ctx context.Context, establishment *models.Establishment) error
	Update(ctx context.Context, establishment *models.Establishment) error
	Delete(ctx context.Context, id string) error
}

// EstablishmentRequest describes the payload for creating or updating an
// establishment.
type EstablishmentRequest struct {
	Name  string   `json:"name" validate:"required"`
	City  string   `json:"city,omitempty"`
	Rooms []string `json:"rooms" validate:"required,min=1"`
}

// EstablishmentService manages sites and their room lists.
type EstablishmentService struct {
	repo      establishmentRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewEstablishmentService instantiates EstablishmentService.
func NewEstablishmentService(repo establishmentRepository, validate *validator.Validate, logger *zap.Logger) *EstablishmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EstablishmentService{repo: repo, validator: validate, logger: logger}
}

// List returns all establishments.
func (s *EstablishmentService) List(ctx context.Context) ([]models.Establishment, error) {
	establishments, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list establishments")
	}
	return establishments, nil
}

// Get loads one establishment.
func (s *EstablishmentService) Get(ctx context.Context, id string) (*models.Establishment, error) {
	establishment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "establishment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load establishment")
	}
	return establishment, nil
}

// Create stores a new establishment.
func (s *EstablishmentService) Create(ctx context.Context, req EstablishmentRequest) (*models.Establishment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid establishment payload")
	}

	establishment := models.Establishment{
		Name:  req.Name,
		City:  optionalString(req.City),
		Rooms: models.NameList(req.Rooms),
	}
	if err := s.repo.Create(ctx, &establishment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create establishment")
	}
	return &establishment, nil
}

// Update modifies an existing establishment.
func (s *EstablishmentService) Update(ctx context.Context, id string, req EstablishmentRequest) (*models.Establishment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid establishment payload")
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "establishment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load establishment")
	}

	updated := models.Establishment{
		ID:        existing.ID,
		Name:      req.Name,
		City:      optionalString(req.City),
		Rooms:     models.NameList(req.Rooms),
		CreatedAt: existing.CreatedAt,
	}
	if err := s.repo.Update(ctx, &updated); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update establishment")
	}
	return &updated, nil
}

// Delete removes an establishment.
func (s *EstablishmentService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "establishment not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load establishment")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete establishment")
	}
	return nil
}
