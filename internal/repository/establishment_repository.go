package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/cft-platform/planner-api/internal/models"
)

const establishmentColumns = `id, name, city, rooms, created_at, updated_at`

// EstablishmentRepository provides persistence for establishments.
type EstablishmentRepository struct {
	db *sqlx.DB
}

// NewEstablishmentRepository creates a new establishment repository.
func NewEstablishmentRepository(db *sqlx.DB) *EstablishmentRepository {
	return &EstablishmentRepository{db: db}
}

// List returns all establishments ordered by name.
func (r *EstablishmentRepository) List(ctx context.Context) ([]models.Establishment, error) {
	query := fmt.Sprintf("SELECT %s FROM establishments ORDER BY name ASC", establishmentColumns)
	var establishments []models.Establishment
	if err := r.db.SelectContext(ctx, &establishments, query); err != nil {
		return nil, fmt.Errorf("list establishments: %w", err)
	}
	return establishments, nil
}

// FindByID loads an establishment by id. Returns sql.ErrNoRows when absent.
func (r *EstablishmentRepository) FindByID(ctx context.Context, id string) (*models.Establishment, error) {
	query := fmt.Sprintf("SELECT %s FROM establishments WHERE id = $1", establishmentColumns)
	var establishment models.Establishment
	if err := r.db.GetContext(ctx, &establishment, query, id); err != nil {
		return nil, err
	}
	return &establishment, nil
}

// FindByRoom locates the establishment whose room list contains the given
// room name. Returns sql.ErrNoRows when no establishment owns the room.
// Rooms are a JSONB string array, so the containment operator applies.
func (r *EstablishmentRepository) FindByRoom(ctx context.Context, room string) (*models.Establishment, error) {
	query := fmt.Sprintf(`SELECT %s FROM establishments WHERE rooms @> to_jsonb(ARRAY[$1]::text[]) LIMIT 1`, establishmentColumns)
	var establishment models.Establishment
	if err := r.db.GetContext(ctx, &establishment, query, room); err != nil {
		return nil, err
	}
	return &establishment, nil
}

// Create stores a new establishment record.
func (r *EstablishmentRepository) Create(ctx context.Context, establishment *models.Establishment) error {
	if establishment.ID == "" {
		establishment.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if establishment.CreatedAt.IsZero() {
		establishment.CreatedAt = now
	}
	establishment.UpdatedAt = now

	const query = `INSERT INTO establishments (id, name, city, rooms, created_at, updated_at)
VALUES (:id, :name, :city, :rooms, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, establishment); err != nil {
		return fmt.Errorf("create establishment: %w", err)
	}
	return nil
}

// Update modifies an establishment record.
func (r *EstablishmentRepository) Update(ctx context.Context, establishment *models.Establishment) error {
	establishment.UpdatedAt = time.Now().UTC()
	const query = `UPDATE establishments SET name = :name, city = :city, rooms = :rooms,
updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, establishment); err != nil {
		return fmt.Errorf("update establishment: %w", err)
	}
	return nil
}

// Delete removes an establishment by id.
func (r *EstablishmentRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM establishments WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete establishment: %w", err)
	}
	return nil
}
