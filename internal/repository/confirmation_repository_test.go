package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cft-platform/planner-api/internal/models"
)

func TestConfirmationRepositoryConfirmOne(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewConfirmationRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO schedules").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO schedule_history").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("DELETE FROM drafts").
		WithArgs("d1").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	schedule := models.Schedule{ID: "s1", TrainerID: "t1", Room: "101", GroupName: "G1", TrackID: "k1", DayID: 1, SlotID: 1}
	entry := models.HistoryEntry{Action: models.HistoryActionCreated}
	require.NoError(t, repo.ConfirmOne(context.Background(), &schedule, &entry, "d1"))

	require.NotNil(t, entry.ScheduleID)
	assert.Equal(t, "s1", *entry.ScheduleID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConfirmationRepositoryConfirmOneRollsBack(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewConfirmationRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO schedules").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO schedule_history").
		WillReturnError(errors.New("history write failed"))
	mock.ExpectRollback()

	schedule := models.Schedule{ID: "s1", TrainerID: "t1", Room: "101", GroupName: "G1", TrackID: "k1", DayID: 1, SlotID: 1}
	entry := models.HistoryEntry{Action: models.HistoryActionCreated}
	err := repo.ConfirmOne(context.Background(), &schedule, &entry, "d1")
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConfirmationRepositoryApplyDraftInsert(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewConfirmationRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO schedules").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("DELETE FROM drafts").
		WithArgs("d1").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	schedule := models.Schedule{TrainerID: "t1", Room: "101", GroupName: "G1", TrackID: "k1", DayID: 1, SlotID: 1}
	require.NoError(t, repo.ApplyDraft(context.Background(), &schedule, "d1", false))
	assert.NotEmpty(t, schedule.ID, "fresh schedules get an id stamped")
	assert.False(t, schedule.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConfirmationRepositoryApplyDraftUpdate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewConfirmationRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE schedules SET").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("DELETE FROM drafts").
		WithArgs("d1").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	created := time.Date(2026, 8, 24, 9, 0, 0, 0, time.UTC)
	schedule := models.Schedule{ID: "s1", TrainerID: "t1", Room: "101", GroupName: "G1", TrackID: "k1", DayID: 1, SlotID: 1, CreatedAt: created}
	require.NoError(t, repo.ApplyDraft(context.Background(), &schedule, "d1", true))
	assert.Equal(t, created, schedule.CreatedAt, "merge updates keep the original creation time")
	assert.NoError(t, mock.ExpectationsWereMet())
}
