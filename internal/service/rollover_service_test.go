package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cft-platform/planner-api/internal/models"
)

func TestRolloverDropsStaleSchedules(t *testing.T) {
	trainers, _, establishments := plannerFixtures()
	schedules := newMockScheduleRepo()
	history := &mockHistoryRepo{}
	kept := schedules.add(models.Schedule{TrainerID: "t-alice", Room: "101", GroupName: "G1", DayID: 1, SlotID: 1})
	gone := schedules.add(models.Schedule{TrainerID: "t-retired", Room: "101", GroupName: "G2", DayID: 1, SlotID: 2})
	noRoom := schedules.add(models.Schedule{TrainerID: "t-bob", Room: "demolished", GroupName: "G2", DayID: 2, SlotID: 1})

	svc := NewRolloverService(schedules, history, trainers, establishments, nil, nil)
	report, err := svc.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, report.Checked)
	assert.ElementsMatch(t, []string{gone.ID, noRoom.ID}, report.Dropped)

	remaining, _ := schedules.List(context.Background())
	require.Len(t, remaining, 1)
	assert.Equal(t, kept.ID, remaining[0].ID)

	// The sweep snapshots the surviving grid.
	require.Len(t, history.entries, 1)
	entry := history.entries[0]
	assert.Equal(t, models.HistoryActionUpdated, entry.Action)
	require.Len(t, entry.Schedules, 1)
	assert.Equal(t, kept.ID, entry.Schedules[0].ID)
}

func TestRolloverKeepsSoundGrid(t *testing.T) {
	trainers, _, establishments := plannerFixtures()
	schedules := newMockScheduleRepo()
	history := &mockHistoryRepo{}
	schedules.add(models.Schedule{TrainerID: "t-alice", Room: "101", GroupName: "G1", DayID: 1, SlotID: 1})
	schedules.add(models.Schedule{TrainerID: "t-bob", Room: "102", GroupName: "G2", DayID: 1, SlotID: 2})

	svc := NewRolloverService(schedules, history, trainers, establishments, nil, nil)
	report, err := svc.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, report.Checked)
	assert.Empty(t, report.Dropped)

	remaining, _ := schedules.List(context.Background())
	assert.Len(t, remaining, 2)
}
