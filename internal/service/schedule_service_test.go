package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cft-platform/planner-api/internal/models"
	appErrors "github.com/cft-platform/planner-api/pkg/errors"
)

func newScheduleServiceFixture() (*ScheduleService, *mockScheduleRepo, *mockDraftRepo) {
	trainers, tracks, establishments := plannerFixtures()
	drafts := newMockDraftRepo()
	schedules := newMockScheduleRepo()
	resolver := NewAssignmentResolver(trainers, tracks, establishments)
	checker := NewConflictChecker(drafts, schedules)
	svc := NewScheduleService(schedules, resolver, checker, nil, nil, nil)
	return svc, schedules, drafts
}

func TestScheduleServiceCreateIgnoresDrafts(t *testing.T) {
	svc, _, drafts := newScheduleServiceFixture()
	drafts.add(models.Draft{TrainerID: "t-alice", Room: "101", GroupName: "G1", DayID: 1, SlotID: 1})

	// A pending draft never blocks a live placement.
	schedule, err := svc.Create(context.Background(), CreateScheduleRequest{
		TrainerName: "Alice",
		Room:        "101",
		GroupName:   "G1",
		TrackID:     "track-1",
		DayID:       1,
		SlotID:      1,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, schedule.ID)
	assert.Equal(t, "Web Development", schedule.TrackName)
}

func TestScheduleServiceCreateRejectsCollision(t *testing.T) {
	svc, schedules, _ := newScheduleServiceFixture()
	schedules.add(models.Schedule{TrainerID: "t-bob", Room: "101", GroupName: "G2", DayID: 1, SlotID: 1})

	_, err := svc.Create(context.Background(), CreateScheduleRequest{
		TrainerName: "Alice",
		Room:        "101",
		GroupName:   "G1",
		TrackID:     "track-1",
		DayID:       1,
		SlotID:      1,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestScheduleServiceUpdateExcludesOwnSlot(t *testing.T) {
	svc, schedules, _ := newScheduleServiceFixture()
	existing := schedules.add(models.Schedule{TrainerID: "t-alice", Room: "101", GroupName: "G1", DayID: 1, SlotID: 1, TrackID: "track-1"})

	updated, err := svc.Update(context.Background(), existing.ID, UpdateScheduleRequest{
		TrainerID: "t-alice",
		Room:      "102",
		GroupName: "G1",
		TrackID:   "track-1",
		DayID:     1,
		SlotID:    1,
	})
	require.NoError(t, err)
	assert.Equal(t, existing.ID, updated.ID)
	assert.Equal(t, "102", updated.Room)
}

func TestScheduleServiceListByTrainer(t *testing.T) {
	svc, schedules, _ := newScheduleServiceFixture()
	schedules.add(models.Schedule{TrainerID: "t-alice", Room: "101", GroupName: "G1", DayID: 1, SlotID: 1})
	schedules.add(models.Schedule{TrainerID: "t-bob", Room: "102", GroupName: "G2", DayID: 1, SlotID: 2})

	out, err := svc.ListByTrainer(context.Background(), "t-alice")
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "t-alice", out[0].TrainerID)
}

func TestScheduleServiceAvailability(t *testing.T) {
	svc, schedules, _ := newScheduleServiceFixture()
	schedules.add(models.Schedule{TrainerID: "t-alice", Room: "101", GroupName: "G1", DayID: 3, SlotID: 2})

	// Room-only probe: trainer and group left unset are skipped.
	result, err := svc.Availability(context.Background(), models.ConflictProposal{Room: "101", DayID: 3, SlotID: 2})
	require.NoError(t, err)
	assert.False(t, result.Available)
	require.Len(t, result.Conflicts, 1)
	assert.Equal(t, models.ConflictRoom, result.Conflicts[0].Dimension)
	assert.Equal(t, "MERCREDI", result.Day)
	assert.Equal(t, "11:00", result.Slot.Start)

	result, err = svc.Availability(context.Background(), models.ConflictProposal{Room: "102", DayID: 3, SlotID: 2})
	require.NoError(t, err)
	assert.True(t, result.Available)
	assert.Empty(t, result.Conflicts)
}

func TestScheduleServiceAvailabilityRejectsBadCoordinate(t *testing.T) {
	svc, _, _ := newScheduleServiceFixture()

	_, err := svc.Availability(context.Background(), models.ConflictProposal{DayID: 0, SlotID: 1})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	_, err = svc.Availability(context.Background(), models.ConflictProposal{DayID: 1, SlotID: 9})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
