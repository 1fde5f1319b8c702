package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/cft-platform/planner-api/internal/models"
)

// Draft list queries join the canonical trainer/track tables so display
// names stay fresh; INNER JOINs also drop rows whose references were
// deleted, matching the defensive read behaviour of the list endpoints.
const draftSelectJoined = `
SELECT d.id, d.trainer_id, t.name AS trainer_name, d.room, d.group_name,
       d.track_id, k.name AS track_name, d.day_id, d.slot_id, d.module,
       d.created_at, d.updated_at
FROM drafts d
JOIN trainers t ON t.id = d.trainer_id
JOIN tracks k ON k.id = d.track_id`

// DraftRepository provides persistence for draft assignments.
type DraftRepository struct {
	db *sqlx.DB
}

// NewDraftRepository creates a new draft repository.
func NewDraftRepository(db *sqlx.DB) *DraftRepository {
	return &DraftRepository{db: db}
}

// List returns all drafts with denormalized display names, ordered by grid
// position.
func (r *DraftRepository) List(ctx context.Context) ([]models.Draft, error) {
	query := draftSelectJoined + ` ORDER BY d.day_id ASC, d.slot_id ASC`
	var drafts []models.Draft
	if err := r.db.SelectContext(ctx, &drafts, query); err != nil {
		return nil, fmt.Errorf("list drafts: %w", err)
	}
	for i := range drafts {
		normalizeModule(&drafts[i].Module)
	}
	return drafts, nil
}

// ListRaw returns all drafts without reference joins. The confirmation
// batch uses it so drafts with dangling references still surface as
// per-draft errors instead of silently dropping out.
func (r *DraftRepository) ListRaw(ctx context.Context) ([]models.Draft, error) {
	const query = `SELECT id, trainer_id, room, group_name, track_id, day_id, slot_id, module, created_at, updated_at
FROM drafts ORDER BY day_id ASC, slot_id ASC`
	var drafts []models.Draft
	if err := r.db.SelectContext(ctx, &drafts, query); err != nil {
		return nil, fmt.Errorf("list raw drafts: %w", err)
	}
	for i := range drafts {
		normalizeModule(&drafts[i].Module)
	}
	return drafts, nil
}

// FindByID loads a draft by id. Returns sql.ErrNoRows when absent.
func (r *DraftRepository) FindByID(ctx context.Context, id string) (*models.Draft, error) {
	query := draftSelectJoined + ` WHERE d.id = $1`
	var draft models.Draft
	if err := r.db.GetContext(ctx, &draft, query, id); err != nil {
		return nil, err
	}
	normalizeModule(&draft.Module)
	return &draft, nil
}

// FindBySlot returns every draft occupying the given grid coordinate.
func (r *DraftRepository) FindBySlot(ctx context.Context, dayID, slotID int) ([]models.Draft, error) {
	const query = `SELECT id, trainer_id, room, group_name, track_id, day_id, slot_id, module, created_at, updated_at
FROM drafts WHERE day_id = $1 AND slot_id = $2`
	var drafts []models.Draft
	if err := r.db.SelectContext(ctx, &drafts, query, dayID, slotID); err != nil {
		return nil, fmt.Errorf("find drafts by slot: %w", err)
	}
	for i := range drafts {
		normalizeModule(&drafts[i].Module)
	}
	return drafts, nil
}

// Create stores a new draft record.
func (r *DraftRepository) Create(ctx context.Context, draft *models.Draft) error {
	if draft.ID == "" {
		draft.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if draft.CreatedAt.IsZero() {
		draft.CreatedAt = now
	}
	draft.UpdatedAt = now

	const query = `INSERT INTO drafts (id, trainer_id, room, group_name, track_id, day_id, slot_id, module, created_at, updated_at)
VALUES (:id, :trainer_id, :room, :group_name, :track_id, :day_id, :slot_id, :module, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, draft); err != nil {
		return fmt.Errorf("create draft: %w", err)
	}
	return nil
}

// Update modifies a draft record.
func (r *DraftRepository) Update(ctx context.Context, draft *models.Draft) error {
	draft.UpdatedAt = time.Now().UTC()
	const query = `UPDATE drafts SET trainer_id = :trainer_id, room = :room, group_name = :group_name,
track_id = :track_id, day_id = :day_id, slot_id = :slot_id, module = :module, updated_at = :updated_at
WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, draft); err != nil {
		return fmt.Errorf("update draft: %w", err)
	}
	return nil
}

// Delete removes a draft by id.
func (r *DraftRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM drafts WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete draft: %w", err)
	}
	return nil
}

// normalizeModule collapses an empty scanned module back to nil so NULL
// columns keep their absent semantics after the Scanner round-trip.
func normalizeModule(m **models.AssignmentModule) {
	if *m != nil && (*m).Name == "" {
		*m = nil
	}
}
