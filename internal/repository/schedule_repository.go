package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/cft-platform/planner-api/internal/models"
)

const scheduleSelectJoined = `
SELECT s.id, s.trainer_id, t.name AS trainer_name, s.room, s.group_name,
       s.track_id, k.name AS track_name, s.day_id, s.slot_id, s.module,
       s.created_at, s.updated_at
FROM schedules s
JOIN trainers t ON t.id = s.trainer_id
JOIN tracks k ON k.id = s.track_id`

// ScheduleRepository provides persistence for confirmed schedules.
type ScheduleRepository struct {
	db *sqlx.DB
}

// NewScheduleRepository creates a new schedule repository.
func NewScheduleRepository(db *sqlx.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

// List returns all confirmed schedules with denormalized display names.
func (r *ScheduleRepository) List(ctx context.Context) ([]models.Schedule, error) {
	query := scheduleSelectJoined + ` ORDER BY s.day_id ASC, s.slot_id ASC`
	var schedules []models.Schedule
	if err := r.db.SelectContext(ctx, &schedules, query); err != nil {
		return nil, fmt.Errorf("list schedules: %w", err)
	}
	for i := range schedules {
		normalizeModule(&schedules[i].Module)
	}
	return schedules, nil
}

// ListByTrainer returns schedules taught by a trainer ordered by grid
// position.
func (r *ScheduleRepository) ListByTrainer(ctx context.Context, trainerID string) ([]models.Schedule, error) {
	query := scheduleSelectJoined + ` WHERE s.trainer_id = $1 ORDER BY s.day_id ASC, s.slot_id ASC`
	var schedules []models.Schedule
	if err := r.db.SelectContext(ctx, &schedules, query, trainerID); err != nil {
		return nil, fmt.Errorf("list schedules by trainer: %w", err)
	}
	for i := range schedules {
		normalizeModule(&schedules[i].Module)
	}
	return schedules, nil
}

// FindByID loads a schedule by id. Returns sql.ErrNoRows when absent.
func (r *ScheduleRepository) FindByID(ctx context.Context, id string) (*models.Schedule, error) {
	query := scheduleSelectJoined + ` WHERE s.id = $1`
	var sched models.Schedule
	if err := r.db.GetContext(ctx, &sched, query, id); err != nil {
		return nil, err
	}
	normalizeModule(&sched.Module)
	return &sched, nil
}

// FindBySlot returns every schedule occupying the given grid coordinate.
func (r *ScheduleRepository) FindBySlot(ctx context.Context, dayID, slotID int) ([]models.Schedule, error) {
	const query = `SELECT id, trainer_id, room, group_name, track_id, day_id, slot_id, module, created_at, updated_at
FROM schedules WHERE day_id = $1 AND slot_id = $2`
	var schedules []models.Schedule
	if err := r.db.SelectContext(ctx, &schedules, query, dayID, slotID); err != nil {
		return nil, fmt.Errorf("find schedules by slot: %w", err)
	}
	for i := range schedules {
		normalizeModule(&schedules[i].Module)
	}
	return schedules, nil
}

// Create stores a new schedule record.
func (r *ScheduleRepository) Create(ctx context.Context, schedule *models.Schedule) error {
	if schedule.ID == "" {
		schedule.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if schedule.CreatedAt.IsZero() {
		schedule.CreatedAt = now
	}
	schedule.UpdatedAt = now

	const query = `INSERT INTO schedules (id, trainer_id, room, group_name, track_id, day_id, slot_id, module, created_at, updated_at)
VALUES (:id, :trainer_id, :room, :group_name, :track_id, :day_id, :slot_id, :module, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, schedule); err != nil {
		return fmt.Errorf("create schedule: %w", err)
	}
	return nil
}

// Update modifies a schedule record.
func (r *ScheduleRepository) Update(ctx context.Context, schedule *models.Schedule) error {
	schedule.UpdatedAt = time.Now().UTC()
	const query = `UPDATE schedules SET trainer_id = :trainer_id, room = :room, group_name = :group_name,
track_id = :track_id, day_id = :day_id, slot_id = :slot_id, module = :module, updated_at = :updated_at
WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, schedule); err != nil {
		return fmt.Errorf("update schedule: %w", err)
	}
	return nil
}

// Delete removes a schedule by id.
func (r *ScheduleRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM schedules WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete schedule: %w", err)
	}
	return nil
}
