package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/cft-platform/planner-api/internal/models"
)

// ConfirmationRepository performs the multi-statement writes of the
// confirmation workflow. Promoting a draft must never leave a state where
// the schedule exists but the draft could be confirmed again, so the
// schedule write and the draft delete always share one transaction.
type ConfirmationRepository struct {
	db *sqlx.DB
}

// NewConfirmationRepository creates a new confirmation repository.
func NewConfirmationRepository(db *sqlx.DB) *ConfirmationRepository {
	return &ConfirmationRepository{db: db}
}

const insertScheduleQuery = `INSERT INTO schedules (id, trainer_id, room, group_name, track_id, day_id, slot_id, module, created_at, updated_at)
VALUES (:id, :trainer_id, :room, :group_name, :track_id, :day_id, :slot_id, :module, :created_at, :updated_at)`

const updateScheduleQuery = `UPDATE schedules SET trainer_id = :trainer_id, room = :room, group_name = :group_name,
track_id = :track_id, day_id = :day_id, slot_id = :slot_id, module = :module, updated_at = :updated_at
WHERE id = :id`

// ConfirmOne promotes a single draft: it inserts the schedule, appends the
// history entry and deletes the consumed draft as one unit.
func (r *ConfirmationRepository) ConfirmOne(ctx context.Context, schedule *models.Schedule, entry *models.HistoryEntry, draftID string) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin confirm draft: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	stampSchedule(schedule)
	if _, err = sqlx.NamedExecContext(ctx, tx, insertScheduleQuery, schedule); err != nil {
		return fmt.Errorf("confirm draft: insert schedule: %w", err)
	}

	if entry.ScheduleID == nil {
		entry.ScheduleID = &schedule.ID
	}
	prepareHistoryEntry(entry)
	const historyQuery = `INSERT INTO schedule_history (id, schedule_id, action, schedules, confirmation_date, created_at)
VALUES (:id, :schedule_id, :action, :schedules, :confirmation_date, :created_at)`
	if _, err = sqlx.NamedExecContext(ctx, tx, historyQuery, entry); err != nil {
		return fmt.Errorf("confirm draft: insert history: %w", err)
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM drafts WHERE id = $1`, draftID); err != nil {
		return fmt.Errorf("confirm draft: delete draft: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit confirm draft: %w", err)
	}
	return nil
}

// ApplyDraft writes one draft's schedule (insert when fresh, update when a
// merge target was found) and deletes the consumed draft atomically. Used
// per-draft during confirm-all so one bad draft cannot poison the rest.
func (r *ConfirmationRepository) ApplyDraft(ctx context.Context, schedule *models.Schedule, draftID string, update bool) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin apply draft: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if update {
		schedule.UpdatedAt = time.Now().UTC()
		if _, err = sqlx.NamedExecContext(ctx, tx, updateScheduleQuery, schedule); err != nil {
			return fmt.Errorf("apply draft: update schedule: %w", err)
		}
	} else {
		stampSchedule(schedule)
		if _, err = sqlx.NamedExecContext(ctx, tx, insertScheduleQuery, schedule); err != nil {
			return fmt.Errorf("apply draft: insert schedule: %w", err)
		}
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM drafts WHERE id = $1`, draftID); err != nil {
		return fmt.Errorf("apply draft: delete draft: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit apply draft: %w", err)
	}
	return nil
}

func stampSchedule(schedule *models.Schedule) {
	if schedule.ID == "" {
		schedule.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if schedule.CreatedAt.IsZero() {
		schedule.CreatedAt = now
	}
	schedule.UpdatedAt = now
}
