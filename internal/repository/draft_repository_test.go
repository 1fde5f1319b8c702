package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cft-platform/planner-api/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestDraftRepositoryList(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewDraftRepository(db)

	rows := sqlmock.NewRows([]string{"id", "trainer_id", "trainer_name", "room", "group_name", "track_id", "track_name", "day_id", "slot_id", "module", "created_at", "updated_at"}).
		AddRow("d1", "t1", "Alice", "101", "G1", "k1", "Web Development", 1, 1, nil, time.Now(), time.Now())
	mock.ExpectQuery("FROM drafts d").WillReturnRows(rows)

	drafts, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, drafts, 1)
	assert.Equal(t, "Alice", drafts[0].TrainerName)
	assert.Nil(t, drafts[0].Module, "NULL module scans back to absent")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDraftRepositoryListRawSkipsJoins(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewDraftRepository(db)

	rows := sqlmock.NewRows([]string{"id", "trainer_id", "room", "group_name", "track_id", "day_id", "slot_id", "module", "created_at", "updated_at"}).
		AddRow("d1", "t-deleted", "101", "G1", "k1", 1, 1, nil, time.Now(), time.Now())
	mock.ExpectQuery(`FROM drafts ORDER BY day_id`).WillReturnRows(rows)

	drafts, err := repo.ListRaw(context.Background())
	require.NoError(t, err)
	require.Len(t, drafts, 1)
	assert.Equal(t, "t-deleted", drafts[0].TrainerID)
	assert.Empty(t, drafts[0].TrainerName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDraftRepositoryFindByIDNotFound(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewDraftRepository(db)

	mock.ExpectQuery("FROM drafts d").WithArgs("missing").WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByID(context.Background(), "missing")
	assert.True(t, errors.Is(err, sql.ErrNoRows))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDraftRepositoryFindBySlot(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewDraftRepository(db)

	rows := sqlmock.NewRows([]string{"id", "trainer_id", "room", "group_name", "track_id", "day_id", "slot_id", "module", "created_at", "updated_at"}).
		AddRow("d1", "t1", "101", "G1", "k1", 2, 3, nil, time.Now(), time.Now())
	mock.ExpectQuery(`FROM drafts WHERE day_id = \$1 AND slot_id = \$2`).
		WithArgs(2, 3).
		WillReturnRows(rows)

	drafts, err := repo.FindBySlot(context.Background(), 2, 3)
	require.NoError(t, err)
	require.Len(t, drafts, 1)
	assert.Equal(t, 2, drafts[0].DayID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDraftRepositoryCreateStampsRecord(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewDraftRepository(db)

	mock.ExpectExec("INSERT INTO drafts").
		WithArgs(sqlmock.AnyArg(), "t1", "101", "G1", "k1", 1, 1, sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	draft := models.Draft{TrainerID: "t1", Room: "101", GroupName: "G1", TrackID: "k1", DayID: 1, SlotID: 1}
	require.NoError(t, repo.Create(context.Background(), &draft))
	assert.NotEmpty(t, draft.ID)
	assert.False(t, draft.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDraftRepositoryDelete(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewDraftRepository(db)

	mock.ExpectExec("DELETE FROM drafts").
		WithArgs("d1").
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, repo.Delete(context.Background(), "d1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
