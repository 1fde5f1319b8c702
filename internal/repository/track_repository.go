package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/cft-platform/planner-api/internal/models"
)

const trackColumns = `id, name, establishment_id, groups, modules, created_at, updated_at`

// TrackRepository provides persistence for tracks.
type TrackRepository struct {
	db *sqlx.DB
}

// NewTrackRepository creates a new track repository.
func NewTrackRepository(db *sqlx.DB) *TrackRepository {
	return &TrackRepository{db: db}
}

// List returns all tracks ordered by name.
func (r *TrackRepository) List(ctx context.Context) ([]models.Track, error) {
	query := fmt.Sprintf("SELECT %s FROM tracks ORDER BY name ASC", trackColumns)
	var tracks []models.Track
	if err := r.db.SelectContext(ctx, &tracks, query); err != nil {
		return nil, fmt.Errorf("list tracks: %w", err)
	}
	return tracks, nil
}

// FindByID loads a track by id. Returns sql.ErrNoRows when absent.
func (r *TrackRepository) FindByID(ctx context.Context, id string) (*models.Track, error) {
	query := fmt.Sprintf("SELECT %s FROM tracks WHERE id = $1", trackColumns)
	var track models.Track
	if err := r.db.GetContext(ctx, &track, query, id); err != nil {
		return nil, err
	}
	return &track, nil
}

// Create stores a new track record.
func (r *TrackRepository) Create(ctx context.Context, track *models.Track) error {
	if track.ID == "" {
		track.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if track.CreatedAt.IsZero() {
		track.CreatedAt = now
	}
	track.UpdatedAt = now

	const query = `INSERT INTO tracks (id, name, establishment_id, groups, modules, created_at, updated_at)
VALUES (:id, :name, :establishment_id, :groups, :modules, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, track); err != nil {
		return fmt.Errorf("create track: %w", err)
	}
	return nil
}

// Update modifies a track record.
func (r *TrackRepository) Update(ctx context.Context, track *models.Track) error {
	track.UpdatedAt = time.Now().UTC()
	const query = `UPDATE tracks SET name = :name, establishment_id = :establishment_id,
groups = :groups, modules = :modules, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, track); err != nil {
		return fmt.Errorf("update track: %w", err)
	}
	return nil
}

// Delete removes a track by id.
func (r *TrackRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM tracks WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete track: %w", err)
	}
	return nil
}
