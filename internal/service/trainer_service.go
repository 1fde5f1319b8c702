package service

import (
	"context"
	"database/sql"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/cft-platform/planner-api/internal/models"
	appErrors "github.com/cft-platform/planner-api/pkg/errors"
)

type trainerRepository interface {
	List(ctx context.Context, filter models.TrainerFilter) ([]models.Trainer, int, error)
	FindByID(ctx context.Context, id string) (*models.Trainer, error)
	FindByName(ctx context.Context, name string) (*models.Trainer, error)
	Create(ctx context.Context, trainer *models.Trainer) error
	Update(ctx context.Context, trainer *models.Trainer) error
	Delete(ctx context.Context, id string) error
}

// CreateTrainerRequest describes the payload for registering a trainer.
type CreateTrainerRequest struct {
	Matricule string `json:"matricule" validate:"required"`
	Name      string `json:"name" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone,omitempty"`
	Address   string `json:"address,omitempty"`
	Role      string `json:"role,omitempty" validate:"omitempty,oneof=SUPERADMIN TRAINER"`
}

// UpdateTrainerRequest modifies an existing trainer.
type UpdateTrainerRequest struct {
	Matricule string `json:"matricule" validate:"required"`
	Name      string `json:"name" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone,omitempty"`
	Address   string `json:"address,omitempty"`
	Role      string `json:"role,omitempty" validate:"omitempty,oneof=SUPERADMIN TRAINER"`
}

// TrainerService manages the trainer roster. It carries no scheduling
// logic; the scheduling core only reads from it.
type TrainerService struct {
	repo      trainerRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTrainerService instantiates TrainerService.
func NewTrainerService(repo trainerRepository, validate *validator.Validate, logger *zap.Logger) *TrainerService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TrainerService{repo: repo, validator: validate, logger: logger}
}

// List returns trainers with pagination metadata.
func (s *TrainerService) List(ctx context.Context, filter models.TrainerFilter) ([]models.Trainer, *models.Pagination, error) {
	trainers, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list trainers")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	pagination := &models.Pagination{Page: page, PageSize: size, TotalCount: total}
	return trainers, pagination, nil
}

// Get loads one trainer.
func (s *TrainerService) Get(ctx context.Context, id string) (*models.Trainer, error) {
	trainer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "trainer not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load trainer")
	}
	return trainer, nil
}

// Create registers a new trainer.
func (s *TrainerService) Create(ctx context.Context, req CreateTrainerRequest) (*models.Trainer, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid trainer payload")
	}

	role := models.TrainerRole(req.Role)
	if role == "" {
		role = models.RoleTrainer
	}

	trainer := models.Trainer{
		Matricule: req.Matricule,
		Name:      req.Name,
		Email:     req.Email,
		Phone:     optionalString(req.Phone),
		Address:   optionalString(req.Address),
		Role:      role,
	}
	if err := s.repo.Create(ctx, &trainer); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create trainer")
	}
	return &trainer, nil
}

// Update modifies an existing trainer.
func (s *TrainerService) Update(ctx context.Context, id string, req UpdateTrainerRequest) (*models.Trainer, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid trainer payload")
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "trainer not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load trainer")
	}

	role := models.TrainerRole(req.Role)
	if role == "" {
		role = existing.Role
	}

	updated := models.Trainer{
		ID:        existing.ID,
		Matricule: req.Matricule,
		Name:      req.Name,
		Email:     req.Email,
		Phone:     optionalString(req.Phone),
		Address:   optionalString(req.Address),
		Role:      role,
		CreatedAt: existing.CreatedAt,
	}
	if err := s.repo.Update(ctx, &updated); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update trainer")
	}
	return &updated, nil
}

// Delete removes a trainer.
func (s *TrainerService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "trainer not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load trainer")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete trainer")
	}
	return nil
}

func optionalString(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
