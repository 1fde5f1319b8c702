package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConflictProposalCollides(t *testing.T) {
	proposal := ConflictProposal{TrainerID: "t1", Room: "101", GroupName: "G1", DayID: 1, SlotID: 1}

	assert.Equal(t, ConflictTrainer, proposal.Collides("t1", "102", "G2"))
	assert.Equal(t, ConflictRoom, proposal.Collides("t2", "101", "G2"))
	assert.Equal(t, ConflictGroup, proposal.Collides("t2", "102", "G1"))
	assert.Empty(t, proposal.Collides("t2", "102", "G2"))
}

func TestConflictProposalPartialFieldsSkipped(t *testing.T) {
	// Availability queries supply only some dimensions; the others must
	// never match.
	proposal := ConflictProposal{Room: "101", DayID: 1, SlotID: 1}

	assert.Equal(t, ConflictRoom, proposal.Collides("t1", "101", "G1"))
	assert.Empty(t, proposal.Collides("t1", "102", "G1"))
	assert.Empty(t, ConflictProposal{DayID: 1, SlotID: 1}.Collides("", "", ""))
}

func TestSnapshotFromScheduleStoresDayName(t *testing.T) {
	snapshot := SnapshotFromSchedule(Schedule{ID: "s1", DayID: 3, SlotID: 2, TrainerID: "t1"})
	assert.Equal(t, "MERCREDI", snapshot.Day)
	assert.Equal(t, 2, snapshot.Slot)
}
