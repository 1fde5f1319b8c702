package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cft-platform/planner-api/internal/models"
	appErrors "github.com/cft-platform/planner-api/pkg/errors"
)

func plannerFixtures() (*mockTrainerRepo, *mockTrackRepo, *mockEstablishmentRepo) {
	trainers := newMockTrainerRepo(
		models.Trainer{ID: "t-alice", Name: "Alice", Role: models.RoleTrainer},
		models.Trainer{ID: "t-bob", Name: "Bob", Role: models.RoleTrainer},
	)
	tracks := newMockTrackRepo(models.Track{
		ID:      "track-1",
		Name:    "Web Development",
		Groups:  models.NameList{"G1", "G2"},
		Modules: models.NameList{"Go", "SQL"},
	})
	establishments := &mockEstablishmentRepo{establishments: []models.Establishment{
		{ID: "e-1", Name: "Main Campus", Rooms: models.NameList{"101", "102"}},
	}}
	return trainers, tracks, establishments
}

func newDraftServiceFixture() (*DraftService, *mockDraftRepo, *mockScheduleRepo) {
	trainers, tracks, establishments := plannerFixtures()
	drafts := newMockDraftRepo()
	schedules := newMockScheduleRepo()
	resolver := NewAssignmentResolver(trainers, tracks, establishments)
	checker := NewConflictChecker(drafts, schedules)
	svc := NewDraftService(drafts, resolver, checker, nil, nil, nil)
	return svc, drafts, schedules
}

func validCreateDraftRequest() CreateDraftRequest {
	return CreateDraftRequest{
		TrainerName: "Alice",
		Room:        "101",
		GroupName:   "G1",
		TrackID:     "track-1",
		DayID:       1,
		SlotID:      1,
	}
}

func TestDraftServiceCreate(t *testing.T) {
	svc, repo, _ := newDraftServiceFixture()

	draft, err := svc.Create(context.Background(), validCreateDraftRequest())
	require.NoError(t, err)
	assert.NotEmpty(t, draft.ID)
	assert.Equal(t, "t-alice", draft.TrainerID)
	assert.Equal(t, "Alice", draft.TrainerName)
	assert.Equal(t, "Web Development", draft.TrackName)

	stored, err := repo.FindByID(context.Background(), draft.ID)
	require.NoError(t, err)
	assert.Equal(t, draft.ID, stored.ID)
}

func TestDraftServiceCreateWithModule(t *testing.T) {
	svc, _, _ := newDraftServiceFixture()

	req := validCreateDraftRequest()
	req.ModuleName = "Go"
	req.ModuleTrainerID = "t-bob"

	draft, err := svc.Create(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, draft.Module)
	assert.Equal(t, "Go", draft.Module.Name)
	assert.Equal(t, "t-bob", draft.Module.TrainerID)
	assert.Equal(t, "Bob", draft.Module.TrainerName)
}

func TestDraftServiceCreateValidationChain(t *testing.T) {
	cases := []struct {
		name     string
		mutate   func(*CreateDraftRequest)
		wantCode string
	}{
		{"missing trainer name", func(r *CreateDraftRequest) { r.TrainerName = "" }, appErrors.ErrValidation.Code},
		{"day outside grid", func(r *CreateDraftRequest) { r.DayID = 7 }, appErrors.ErrValidation.Code},
		{"slot outside grid", func(r *CreateDraftRequest) { r.SlotID = 5 }, appErrors.ErrValidation.Code},
		{"unknown trainer", func(r *CreateDraftRequest) { r.TrainerName = "Nobody" }, appErrors.ErrNotFound.Code},
		{"unknown room", func(r *CreateDraftRequest) { r.Room = "999" }, appErrors.ErrNotFound.Code},
		{"unknown track", func(r *CreateDraftRequest) { r.TrackID = "track-missing" }, appErrors.ErrNotFound.Code},
		{"group outside track", func(r *CreateDraftRequest) { r.GroupName = "G9" }, appErrors.ErrValidation.Code},
		{"module outside track", func(r *CreateDraftRequest) { r.ModuleName = "Rust" }, appErrors.ErrValidation.Code},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, repo, _ := newDraftServiceFixture()
			req := validCreateDraftRequest()
			tc.mutate(&req)

			_, err := svc.Create(context.Background(), req)
			require.Error(t, err)
			assert.Equal(t, tc.wantCode, appErrors.FromError(err).Code)

			drafts, lerr := repo.List(context.Background())
			require.NoError(t, lerr)
			assert.Empty(t, drafts)
		})
	}
}

func TestDraftServiceCreateRejectsSlotCollision(t *testing.T) {
	svc, _, _ := newDraftServiceFixture()

	_, err := svc.Create(context.Background(), validCreateDraftRequest())
	require.NoError(t, err)

	// Bob with a different group is still blocked on the room dimension.
	req := validCreateDraftRequest()
	req.TrainerName = "Bob"
	req.GroupName = "G2"
	_, err = svc.Create(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestDraftServiceCreateRejectsConfirmedCollision(t *testing.T) {
	svc, _, schedules := newDraftServiceFixture()
	schedules.add(models.Schedule{TrainerID: "t-alice", Room: "102", GroupName: "G2", DayID: 1, SlotID: 1})

	_, err := svc.Create(context.Background(), validCreateDraftRequest())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestDraftServiceUpdateExcludesOwnSlot(t *testing.T) {
	svc, _, _ := newDraftServiceFixture()

	draft, err := svc.Create(context.Background(), validCreateDraftRequest())
	require.NoError(t, err)

	// Re-submitting the same tuple must not collide with itself.
	updated, err := svc.Update(context.Background(), draft.ID, UpdateDraftRequest{
		TrainerID: "t-alice",
		Room:      "102",
		GroupName: "G1",
		TrackID:   "track-1",
		DayID:     1,
		SlotID:    1,
	})
	require.NoError(t, err)
	assert.Equal(t, draft.ID, updated.ID)
	assert.Equal(t, "102", updated.Room)
}

func TestDraftServiceUpdateUnknownDraft(t *testing.T) {
	svc, _, _ := newDraftServiceFixture()

	_, err := svc.Update(context.Background(), "missing", UpdateDraftRequest{
		TrainerName: "Alice",
		Room:        "101",
		GroupName:   "G1",
		TrackID:     "track-1",
		DayID:       1,
		SlotID:      1,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestDraftServiceDelete(t *testing.T) {
	svc, _, _ := newDraftServiceFixture()

	draft, err := svc.Create(context.Background(), validCreateDraftRequest())
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), draft.ID))

	err = svc.Delete(context.Background(), draft.ID)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
