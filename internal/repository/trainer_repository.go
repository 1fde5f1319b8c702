package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/cft-platform/planner-api/internal/models"
)

const trainerColumns = `id, matricule, name, email, phone, address, role, created_at, updated_at`

// TrainerRepository provides persistence for trainers.
type TrainerRepository struct {
	db *sqlx.DB
}

// NewTrainerRepository creates a new trainer repository.
func NewTrainerRepository(db *sqlx.DB) *TrainerRepository {
	return &TrainerRepository{db: db}
}

// List returns trainers with optional filtering and pagination.
func (r *TrainerRepository) List(ctx context.Context, filter models.TrainerFilter) ([]models.Trainer, int, error) {
	base := "FROM trainers WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.Name != "" {
		conditions = append(conditions, fmt.Sprintf("name ILIKE $%d", len(args)+1))
		args = append(args, "%"+filter.Name+"%")
	}
	if filter.Role != "" {
		conditions = append(conditions, fmt.Sprintf("role = $%d", len(args)+1))
		args = append(args, filter.Role)
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s %s ORDER BY name ASC LIMIT %d OFFSET %d", trainerColumns, base, size, offset)
	var trainers []models.Trainer
	if err := r.db.SelectContext(ctx, &trainers, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list trainers: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count trainers: %w", err)
	}

	return trainers, total, nil
}

// FindByID loads a trainer by id. Returns sql.ErrNoRows when absent.
func (r *TrainerRepository) FindByID(ctx context.Context, id string) (*models.Trainer, error) {
	query := fmt.Sprintf("SELECT %s FROM trainers WHERE id = $1", trainerColumns)
	var trainer models.Trainer
	if err := r.db.GetContext(ctx, &trainer, query, id); err != nil {
		return nil, err
	}
	return &trainer, nil
}

// FindByName loads a trainer by exact name. Returns sql.ErrNoRows when
// absent.
func (r *TrainerRepository) FindByName(ctx context.Context, name string) (*models.Trainer, error) {
	query := fmt.Sprintf("SELECT %s FROM trainers WHERE name = $1", trainerColumns)
	var trainer models.Trainer
	if err := r.db.GetContext(ctx, &trainer, query, name); err != nil {
		return nil, err
	}
	return &trainer, nil
}

// Create stores a new trainer record.
func (r *TrainerRepository) Create(ctx context.Context, trainer *models.Trainer) error {
	if trainer.ID == "" {
		trainer.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if trainer.CreatedAt.IsZero() {
		trainer.CreatedAt = now
	}
	trainer.UpdatedAt = now

	const query = `INSERT INTO trainers (id, matricule, name, email, phone, address, role, created_at, updated_at)
VALUES (:id, :matricule, :name, :email, :phone, :address, :role, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, trainer); err != nil {
		return fmt.Errorf("create trainer: %w", err)
	}
	return nil
}

// Update modifies a trainer record.
func (r *TrainerRepository) Update(ctx context.Context, trainer *models.Trainer) error {
	trainer.UpdatedAt = time.Now().UTC()
	const query = `UPDATE trainers SET matricule = :matricule, name = :name, email = :email,
phone = :phone, address = :address, role = :role, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, trainer); err != nil {
		return fmt.Errorf("update trainer: %w", err)
	}
	return nil
}

// Delete removes a trainer by id.
func (r *TrainerRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM trainers WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete trainer: %w", err)
	}
	return nil
}
