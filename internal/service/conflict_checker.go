package service

import (
	"context"
	"fmt"

	"github.com/cft-platform/planner-api/internal/models"
	appErrors "github.com/cft-platform/planner-api/pkg/errors"
)

type draftSlotSource interface {
	FindBySlot(ctx context.Context, dayID, slotID int) ([]models.Draft, error)
}

type scheduleSlotSource interface {
	FindBySlot(ctx context.Context, dayID, slotID int) ([]models.Schedule, error)
}

// ConflictChecker decides whether a proposed placement collides with
// already-committed assignments at the same grid coordinate. It is
// read-only; the storage layer's unique indexes remain the linearization
// point for concurrent writers, this check exists to produce a friendly
// error first.
type ConflictChecker struct {
	drafts    draftSlotSource
	schedules scheduleSlotSource
}

// NewConflictChecker constructs a ConflictChecker over both collections.
func NewConflictChecker(drafts draftSlotSource, schedules scheduleSlotSource) *ConflictChecker {
	return &ConflictChecker{drafts: drafts, schedules: schedules}
}

var conflictMessages = map[models.ConflictDimension]string{
	models.ConflictTrainer: "trainer already assigned in this slot",
	models.ConflictRoom:    "room already booked in this slot",
	models.ConflictGroup:   "group already scheduled in this slot",
}

// CheckDraftsAndSchedules scans both collections at the proposal's slot and
// returns a Conflict error on the first collision. excludeDraftID lets an
// update skip the draft being edited.
func (c *ConflictChecker) CheckDraftsAndSchedules(ctx context.Context, proposal models.ConflictProposal, excludeDraftID string) error {
	drafts, err := c.drafts.FindBySlot(ctx, proposal.DayID, proposal.SlotID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to scan drafts for conflicts")
	}
	for _, d := range drafts {
		if d.ID == excludeDraftID {
			continue
		}
		if dim := proposal.Collides(d.TrainerID, d.Room, d.GroupName); dim != "" {
			return wrapConflict(models.AssignmentConflict{
				RecordID:   d.ID,
				Collection: "drafts",
				TrainerID:  d.TrainerID,
				Room:       d.Room,
				GroupName:  d.GroupName,
				DayID:      d.DayID,
				SlotID:     d.SlotID,
				Dimension:  dim,
			})
		}
	}
	return c.CheckSchedules(ctx, proposal, "")
}

// CheckSchedules scans only the confirmed collection. excludeScheduleID
// skips the schedule being edited, or a merge target during confirmation.
func (c *ConflictChecker) CheckSchedules(ctx context.Context, proposal models.ConflictProposal, excludeScheduleID string) error {
	schedules, err := c.schedules.FindBySlot(ctx, proposal.DayID, proposal.SlotID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to scan schedules for conflicts")
	}
	for _, s := range schedules {
		if s.ID == excludeScheduleID {
			continue
		}
		if dim := proposal.Collides(s.TrainerID, s.Room, s.GroupName); dim != "" {
			return wrapConflict(scheduleConflict(s, dim))
		}
	}
	return nil
}

// FindMergeTarget returns the first confirmed schedule colliding with the
// proposal, or nil when the slot is free. Batch confirmation treats such a
// record as an update target rather than an error.
func (c *ConflictChecker) FindMergeTarget(ctx context.Context, proposal models.ConflictProposal) (*models.Schedule, error) {
	schedules, err := c.schedules.FindBySlot(ctx, proposal.DayID, proposal.SlotID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to scan schedules for merge target")
	}
	for _, s := range schedules {
		if proposal.Collides(s.TrainerID, s.Room, s.GroupName) != "" {
			target := s
			return &target, nil
		}
	}
	return nil, nil
}

// Collisions lists every confirmed assignment colliding with the proposal
// on any supplied dimension. Used by read-only availability queries, which
// may leave proposal fields empty.
func (c *ConflictChecker) Collisions(ctx context.Context, proposal models.ConflictProposal) ([]models.AssignmentConflict, error) {
	schedules, err := c.schedules.FindBySlot(ctx, proposal.DayID, proposal.SlotID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to scan schedules for availability")
	}
	var conflicts []models.AssignmentConflict
	for _, s := range schedules {
		if dim := proposal.Collides(s.TrainerID, s.Room, s.GroupName); dim != "" {
			conflicts = append(conflicts, scheduleConflict(s, dim))
		}
	}
	return conflicts, nil
}

func scheduleConflict(s models.Schedule, dim models.ConflictDimension) models.AssignmentConflict {
	return models.AssignmentConflict{
		RecordID:   s.ID,
		Collection: "schedules",
		TrainerID:  s.TrainerID,
		Room:       s.Room,
		GroupName:  s.GroupName,
		DayID:      s.DayID,
		SlotID:     s.SlotID,
		Dimension:  dim,
	}
}

func wrapConflict(conflict models.AssignmentConflict) error {
	message := conflictMessages[conflict.Dimension]
	domainErr := &models.AssignmentConflictError{Message: message, Conflict: conflict}
	return appErrors.Wrap(domainErr, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, fmt.Sprintf("scheduling conflict: %s", message))
}
