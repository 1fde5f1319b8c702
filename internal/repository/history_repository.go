package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/cft-platform/planner-api/internal/models"
)

// HistoryRepository appends and reads confirmation snapshots. The table is
// append-only: there are no update or delete operations.
type HistoryRepository struct {
	db *sqlx.DB
}

// NewHistoryRepository creates a new history repository.
func NewHistoryRepository(db *sqlx.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// Insert appends one history entry.
func (r *HistoryRepository) Insert(ctx context.Context, entry *models.HistoryEntry) error {
	prepareHistoryEntry(entry)
	const query = `INSERT INTO schedule_history (id, schedule_id, action, schedules, confirmation_date, created_at)
VALUES (:id, :schedule_id, :action, :schedules, :confirmation_date, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, entry); err != nil {
		return fmt.Errorf("insert history entry: %w", err)
	}
	return nil
}

// InsertTx appends one history entry inside an existing transaction.
func (r *HistoryRepository) InsertTx(ctx context.Context, tx *sqlx.Tx, entry *models.HistoryEntry) error {
	if tx == nil {
		return fmt.Errorf("nil transaction provided")
	}
	prepareHistoryEntry(entry)
	const query = `INSERT INTO schedule_history (id, schedule_id, action, schedules, confirmation_date, created_at)
VALUES (:id, :schedule_id, :action, :schedules, :confirmation_date, :created_at)`
	if _, err := sqlx.NamedExecContext(ctx, tx, query, entry); err != nil {
		return fmt.Errorf("insert history entry: %w", err)
	}
	return nil
}

// List returns history entries, newest first, optionally filtered by exact
// confirmation date.
func (r *HistoryRepository) List(ctx context.Context, confirmationDate *time.Time) ([]models.HistoryEntry, error) {
	query := `SELECT id, schedule_id, action, schedules, confirmation_date, created_at FROM schedule_history`
	var args []interface{}
	if confirmationDate != nil {
		query += ` WHERE confirmation_date = $1`
		args = append(args, confirmationDate.UTC())
	}
	query += ` ORDER BY confirmation_date DESC`

	var entries []models.HistoryEntry
	if err := r.db.SelectContext(ctx, &entries, query, args...); err != nil {
		return nil, fmt.Errorf("list history entries: %w", err)
	}
	return entries, nil
}

func prepareHistoryEntry(entry *models.HistoryEntry) {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	if entry.ConfirmationDate.IsZero() {
		entry.ConfirmationDate = entry.CreatedAt
	}
}
