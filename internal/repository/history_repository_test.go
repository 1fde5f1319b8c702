package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cft-platform/planner-api/internal/models"
)

func TestHistoryRepositoryInsertStampsEntry(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewHistoryRepository(db)

	mock.ExpectExec("INSERT INTO schedule_history").
		WithArgs(sqlmock.AnyArg(), nil, "CONFIRMED", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	entry := models.HistoryEntry{
		Action:    models.HistoryActionConfirmed,
		Schedules: models.HistorySnapshot{{ID: "s1", Day: "LUNDI"}},
	}
	require.NoError(t, repo.Insert(context.Background(), &entry))
	assert.NotEmpty(t, entry.ID)
	assert.False(t, entry.ConfirmationDate.IsZero(), "confirmation date defaults to the created timestamp")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHistoryRepositoryList(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewHistoryRepository(db)

	rows := sqlmock.NewRows([]string{"id", "schedule_id", "action", "schedules", "confirmation_date", "created_at"}).
		AddRow("h1", nil, "CONFIRMED", []byte(`[{"id":"s1","day":"LUNDI"}]`), time.Now(), time.Now())
	mock.ExpectQuery("FROM schedule_history ORDER BY confirmation_date DESC").WillReturnRows(rows)

	entries, err := repo.List(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, models.HistoryActionConfirmed, entries[0].Action)
	require.Len(t, entries[0].Schedules, 1)
	assert.Equal(t, "s1", entries[0].Schedules[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHistoryRepositoryListByConfirmationDate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewHistoryRepository(db)

	date := time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "schedule_id", "action", "schedules", "confirmation_date", "created_at"}).
		AddRow("h2", nil, "CONFIRMED", []byte(`[]`), date, date)
	mock.ExpectQuery(`FROM schedule_history WHERE confirmation_date = \$1`).
		WithArgs(date).
		WillReturnRows(rows)

	entries, err := repo.List(context.Background(), &date)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "h2", entries[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
